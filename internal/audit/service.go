package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only. There are no Update/Delete methods.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Reader exposes the read side for the operator surface and reporting.
// Implementations return events newest-first.
type Reader interface {
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

var ErrInvalidEvent = errors.New("audit: invalid event")

// Service validates and timestamps events before appending.
// Callers should treat audit logging as best-effort: a failed append is
// logged by the caller but never fails the webhook response.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

func (s *Service) Append(ctx context.Context, e Event) error {
	if s == nil || s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Outcome == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}
