package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotaops/rota-backend/internal/apperr"
	"github.com/rotaops/rota-backend/internal/rotations/domain"
)

// Repo provides persistence operations for rotations.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Insert stores a rotation and returns its generated id.
func (r *Repo) Insert(ctx context.Context, rot *domain.Rotation) (string, error) {
	const q = `
insert into rotations (project_id, start_date, end_date, assignees, reviewers)
values ($1::uuid, $2, $3, $4, $5)
returning id::text;
`
	var id string
	err := r.db.QueryRow(ctx, q,
		rot.ProjectID, rot.StartDate, rot.EndDate, rot.Assignees, rot.Reviewers).
		Scan(&id)
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, "insert rotation", err)
	}
	return id, nil
}

// GetByID fetches one rotation.
func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Rotation, error) {
	const q = `
select id::text, project_id::text, start_date, end_date, assignees, reviewers
from rotations
where id = $1::uuid;
`
	var rot domain.Rotation
	err := r.db.QueryRow(ctx, q, id).
		Scan(&rot.ID, &rot.ProjectID, &rot.StartDate, &rot.EndDate, &rot.Assignees, &rot.Reviewers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "rotation not found")
		}
		return nil, apperr.Wrap(apperr.Upstream, "get rotation", err)
	}
	return &rot, nil
}

// ReplaceRoles swaps the assignee and reviewer sequences on an existing
// rotation. The window dates are untouched.
func (r *Repo) ReplaceRoles(ctx context.Context, id string, assignees, reviewers []string) (*domain.Rotation, error) {
	const q = `
update rotations
set assignees = $2, reviewers = $3, updated_at = now()
where id = $1::uuid
returning id::text, project_id::text, start_date, end_date, assignees, reviewers;
`
	var rot domain.Rotation
	err := r.db.QueryRow(ctx, q, id, assignees, reviewers).
		Scan(&rot.ID, &rot.ProjectID, &rot.StartDate, &rot.EndDate, &rot.Assignees, &rot.Reviewers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "rotation not found")
		}
		return nil, apperr.Wrap(apperr.Upstream, "update rotation", err)
	}
	return &rot, nil
}

// ListByProject returns a project's rotations, oldest window first.
func (r *Repo) ListByProject(ctx context.Context, projectID string) ([]domain.Rotation, error) {
	const q = `
select id::text, project_id::text, start_date, end_date, assignees, reviewers
from rotations
where project_id = $1::uuid
order by start_date;
`
	rows, err := r.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "list rotations", err)
	}
	defer rows.Close()

	out := make([]domain.Rotation, 0, 8)
	for rows.Next() {
		var rot domain.Rotation
		if err := rows.Scan(&rot.ID, &rot.ProjectID, &rot.StartDate, &rot.EndDate, &rot.Assignees, &rot.Reviewers); err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "scan rotation", err)
		}
		out = append(out, rot)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "list rotations", err)
	}
	return out, nil
}

// DeleteByProject removes all rotations of a project. Used by the lifecycle
// manager when compensating a failed creation.
func (r *Repo) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	const q = `delete from rotations where project_id = $1::uuid;`
	ct, err := r.db.Exec(ctx, q, projectID)
	if err != nil {
		return 0, apperr.Wrap(apperr.Upstream, "delete rotations", err)
	}
	return ct.RowsAffected(), nil
}

// LatestExpired returns, per active project, the newest rotation whose
// window has closed at asOf and that has no successor yet.
func (r *Repo) LatestExpired(ctx context.Context, asOf time.Time) ([]domain.DueRotation, error) {
	const q = `
select r.id::text, r.project_id::text, r.start_date, r.end_date,
       r.assignees, r.reviewers, p.rotation_period_days
from rotations r
join projects p on p.id = r.project_id
where p.state = 'active'
  and r.end_date <= $1
  and not exists (
    select 1 from rotations r2
    where r2.project_id = r.project_id and r2.start_date > r.start_date
  )
order by r.project_id;
`
	rows, err := r.db.Query(ctx, q, asOf)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "list expired rotations", err)
	}
	defer rows.Close()

	out := make([]domain.DueRotation, 0, 8)
	for rows.Next() {
		var due domain.DueRotation
		err := rows.Scan(
			&due.Rotation.ID, &due.Rotation.ProjectID,
			&due.Rotation.StartDate, &due.Rotation.EndDate,
			&due.Rotation.Assignees, &due.Rotation.Reviewers,
			&due.PeriodDays)
		if err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "scan expired rotation", err)
		}
		out = append(out, due)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "list expired rotations", err)
	}
	return out, nil
}
