package service

import (
	"context"
	"log"

	"github.com/rotaops/rota-backend/internal/apperr"
	"github.com/rotaops/rota-backend/internal/projects/domain"
	rotdomain "github.com/rotaops/rota-backend/internal/rotations/domain"
	"github.com/rotaops/rota-backend/internal/schema"
)

// ProjectStore is the persistence surface for projects and memberships.
type ProjectStore interface {
	Insert(ctx context.Context, p *domain.Project) (string, error)
	Delete(ctx context.Context, id string) (bool, error)
	InsertMember(ctx context.Context, m domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Project, error)
}

// RotationStore is the slice of the rotation repository the lifecycle
// manager needs.
type RotationStore interface {
	Insert(ctx context.Context, rot *rotdomain.Rotation) (string, error)
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
	ListByProject(ctx context.Context, projectID string) ([]rotdomain.Rotation, error)
}

// Service orchestrates the project lifecycle: creation seeds the first
// rotation and the creator's admin membership, with compensating rollback
// when a later step fails.
type Service struct {
	projects  ProjectStore
	rotations RotationStore
}

func New(projects ProjectStore, rotations RotationStore) *Service {
	return &Service{projects: projects, rotations: rotations}
}

// ProjectDetail is a project with its rotation history.
type ProjectDetail struct {
	Project   domain.Project       `json:"project"`
	Rotations []rotdomain.Rotation `json:"rotations"`
}

// Create inserts the project, its first rotation, and the creator's admin
// membership, in that order. The store gives no multi-statement
// transaction, so a failure after the project insert triggers an explicit
// best-effort rollback; a rollback failure is logged and never masks the
// original error.
func (s *Service) Create(ctx context.Context, payload schema.ProjectCreate, actorID string) (string, error) {
	if actorID == "" {
		return "", apperr.New(apperr.Unauthenticated, "not authenticated")
	}
	if err := schema.ValidateProjectCreate(payload); err != nil {
		return "", err
	}

	start, err := rotdomain.ParseDate(payload.StartDate)
	if err != nil {
		return "", apperr.Invalid([]apperr.FieldError{
			{Path: "startDate", Message: "Start date must be a valid date."},
		})
	}

	projectID, err := s.projects.Insert(ctx, &domain.Project{
		Name:               payload.Name,
		Description:        payload.Description,
		RotationPeriodDays: payload.RotationPeriodDays,
		StartDate:          start,
		CreatedBy:          actorID,
		State:              domain.StateActive,
	})
	if err != nil {
		return "", err
	}

	first := rotdomain.First(projectID, start, payload.RotationPeriodDays, payload.Assignees, payload.Reviewers)
	if _, err := s.rotations.Insert(ctx, &first); err != nil {
		s.rollback(ctx, projectID)
		return "", err
	}

	member := domain.Member{ProjectID: projectID, UserID: actorID, Role: domain.RoleAdmin}
	if err := s.projects.InsertMember(ctx, member); err != nil {
		s.rollback(ctx, projectID)
		return "", err
	}

	return projectID, nil
}

func (s *Service) rollback(ctx context.Context, projectID string) {
	if _, err := s.rotations.DeleteByProject(ctx, projectID); err != nil {
		log.Printf("[projects] rollback: delete rotations of %s: %v", projectID, err)
	}
	if _, err := s.projects.Delete(ctx, projectID); err != nil {
		log.Printf("[projects] rollback: delete project %s: %v", projectID, err)
	}
}

// Get returns a project with its rotations, oldest window first.
func (s *Service) Get(ctx context.Context, projectID string) (*ProjectDetail, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	rots, err := s.rotations.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{Project: *p, Rotations: rots}, nil
}

// List returns the projects the acting user belongs to.
func (s *Service) List(ctx context.Context, actorID string) ([]domain.Project, error) {
	if actorID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "not authenticated")
	}
	return s.projects.ListForUser(ctx, actorID)
}
