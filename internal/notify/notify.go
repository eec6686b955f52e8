// Package notify turns committed assignment events into mail messages. The
// API publishes them to a RabbitMQ queue and cmd/mail renders and sends them.
package notify

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

var subjects = map[string]string{
	domain.MailTypeAssetAssigned: "IT Asset Management - Asset assigned to you",
	domain.MailTypeAssetReturned: "IT Asset Management - Asset return recorded",
}

func AssignedMessage(detail *domain.AssignmentDetail) domain.MailMessage {
	notes := ""
	if detail.Notes != nil {
		notes = *detail.Notes
	}
	return domain.MailMessage{
		Type: domain.MailTypeAssetAssigned,
		To:   detail.EmployeeEmail,
		Data: domain.AssetAssignedMailData{
			FullName:     detail.EmployeeName,
			AssetName:    detail.AssetName,
			SerialNumber: detail.SerialNumber,
			AssignedDate: detail.AssignedDate.Format(domain.DateLayout),
			Notes:        notes,
		},
	}
}

func ReturnedMessage(detail *domain.AssignmentDetail) domain.MailMessage {
	returned := ""
	if detail.ReturnedDate != nil {
		returned = detail.ReturnedDate.Format(domain.DateLayout)
	}
	return domain.MailMessage{
		Type: domain.MailTypeAssetReturned,
		To:   detail.EmployeeEmail,
		Data: domain.AssetReturnedMailData{
			FullName:     detail.EmployeeName,
			AssetName:    detail.AssetName,
			SerialNumber: detail.SerialNumber,
			ReturnedDate: returned,
		},
	}
}

// Render decodes a queued message body and returns recipient, subject and HTML body.
func Render(body []byte) (to, subject, html string, err error) {
	var msg struct {
		Type string          `json:"type"`
		To   string          `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", "", "", fmt.Errorf("decode mail message: %w", err)
	}

	var data any
	switch msg.Type {
	case domain.MailTypeAssetAssigned:
		data = &domain.AssetAssignedMailData{}
	case domain.MailTypeAssetReturned:
		data = &domain.AssetReturnedMailData{}
	default:
		return "", "", "", fmt.Errorf("unsupported mail type %q", msg.Type)
	}
	if err := json.Unmarshal(msg.Data, data); err != nil {
		return "", "", "", fmt.Errorf("decode %s data: %w", msg.Type, err)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, msg.Type+".html", data); err != nil {
		return "", "", "", fmt.Errorf("render %s: %w", msg.Type, err)
	}

	return msg.To, subjects[msg.Type], buf.String(), nil
}

type Publisher struct {
	ch      *amqp.Channel
	queue   string
	timeout time.Duration
}

func NewPublisher(ch *amqp.Channel, queue string, timeout time.Duration) *Publisher {
	return &Publisher{
		ch:      ch,
		queue:   queue,
		timeout: timeout,
	}
}

// DeclareQueue makes sure the durable mail queue exists.
func DeclareQueue(ch *amqp.Channel, queue string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto delete
		false, // exclusive
		false, // no wait
		nil,
	)
}

func (p *Publisher) Publish(ctx context.Context, msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
