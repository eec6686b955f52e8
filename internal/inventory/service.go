// Package inventory holds the business rules of the asset tracker: the asset
// status machine, the assignment lifecycle and the deletion guards. Every
// mutating operation runs inside one Store transaction.
package inventory

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/utils"
)

// Recorder receives the outcome of every mutating operation.
type Recorder interface {
	ObserveOperation(operation string, err error)
}

type Service struct {
	store     Store
	validator *utils.Validator
	recorder  Recorder
	now       func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

func NewService(store Store, validator *utils.Validator, opts ...Option) *Service {
	s := &Service{
		store:     store,
		validator: validator,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) observe(operation string, err error) error {
	if s.recorder != nil {
		s.recorder.ObserveOperation(operation, err)
	}
	return err
}

// lookupError turns a missing row into a NotFoundError and wraps anything else.
func lookupError(entity string, id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return fmt.Errorf("load %s %d: %w", strings.ToLower(entity), id, err)
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
