package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/notify"
	"github.com/wneessen/go-mail"
)

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * mail client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("failed to create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// make sure the SMTP server is reachable before consuming anything
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("failed to connect to mail server", slog.String("error", err.Error()))
		return
	}

	from := cfg.Email.From
	if from == "" {
		from = cfg.Email.SMTP.Username
	}

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := notify.DeclareQueue(ch, cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Error("failed to declare queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",    // consumer tag, let the broker pick one
		false, // manual ack
		false, // exclusive
		false, // no local, unsupported by rabbitmq
		false, // no wait
		nil,
	)
	if err != nil {
		logger.Error("failed to consume queue", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("delivery channel closed")
					return
				}
				deliver(logger, client, from, msg)
			}
		}
	}()

	logger.Info("waiting for messages (CTRL+C to quit)", "queue", q.Name)
	<-sigChan

	slog.Info("shutting down mail worker")
	cancel()
	wg.Wait()
	slog.Info("mail worker stopped")
}

func deliver(logger *slog.Logger, client *mail.Client, from string, msg amqp.Delivery) {
	to, subject, body, err := notify.Render(msg.Body)
	if err != nil {
		// a message that cannot be rendered will never succeed, drop it
		logger.Error("failed to render mail", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		logger.Error("failed to set sender", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := m.To(to); err != nil {
		logger.Error("failed to set recipient", slog.String("to", to), slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, body)

	if err := client.DialAndSend(m); err != nil {
		logger.Error("failed to send mail", slog.String("error", err.Error()))
		_ = msg.Nack(false, true) // requeue
		return
	}

	logger.Info("mail sent", slog.String("to", to), slog.String("subject", subject))
	_ = msg.Ack(false)
}
