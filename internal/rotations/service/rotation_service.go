package service

import (
	"context"
	"log"
	"time"

	"github.com/rotaops/rota-backend/internal/apperr"
	"github.com/rotaops/rota-backend/internal/rotations/domain"
)

// Store is the persistence surface the rotation service needs.
type Store interface {
	Insert(ctx context.Context, rot *domain.Rotation) (string, error)
	ReplaceRoles(ctx context.Context, id string, assignees, reviewers []string) (*domain.Rotation, error)
	LatestExpired(ctx context.Context, asOf time.Time) ([]domain.DueRotation, error)
}

// Service handles rotation mutations and window advancement.
type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Update replaces the assignee and reviewer sequences of a rotation. The
// window dates are never recomputed here.
func (s *Service) Update(ctx context.Context, rotationID string, assignees, reviewers []string) (*domain.Rotation, error) {
	if rotationID == "" {
		return nil, apperr.New(apperr.NotFound, "rotation not found")
	}
	if len(assignees) == 0 {
		return nil, apperr.Invalid([]apperr.FieldError{
			{Path: "assignees", Message: "At least one assignee role is required."},
		})
	}
	if len(reviewers) == 0 {
		return nil, apperr.Invalid([]apperr.FieldError{
			{Path: "reviewers", Message: "At least one reviewer role is required."},
		})
	}

	return s.store.ReplaceRoles(ctx, rotationID, assignees, reviewers)
}

// Advance rolls every active project whose latest window has closed forward
// to a window containing now, carrying the role sets over unchanged. It
// returns the number of rotations created. Only the worker binary calls
// this; the API serves requests without background work.
func (s *Service) Advance(ctx context.Context, now time.Time) (int, error) {
	total := 0
	for {
		due, err := s.store.LatestExpired(ctx, now)
		if err != nil {
			return total, err
		}
		if len(due) == 0 {
			return total, nil
		}

		for _, d := range due {
			next := d.Rotation.Next(d.PeriodDays)
			id, err := s.store.Insert(ctx, &next)
			if err != nil {
				return total, err
			}
			total++
			log.Printf("[rotations] advanced project=%s rotation=%s window=%s..%s",
				next.ProjectID, id,
				next.StartDate.Format(domain.DateLayout),
				next.EndDate.Format(domain.DateLayout))
		}
	}
}
