package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotaops/rota-backend/internal/apperr"
	"github.com/rotaops/rota-backend/internal/projects/domain"
)

// Repo provides persistence operations for projects and memberships.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Insert stores a project row and returns its generated id.
func (r *Repo) Insert(ctx context.Context, p *domain.Project) (string, error) {
	const q = `
insert into projects (name, description, rotation_period_days, start_date, created_by, state)
values ($1, $2, $3, $4, $5, $6)
returning id::text;
`
	var id string
	err := r.db.QueryRow(ctx, q,
		p.Name, p.Description, p.RotationPeriodDays, p.StartDate, p.CreatedBy, p.State).
		Scan(&id)
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, "insert project", err)
	}
	return id, nil
}

// Delete removes a project row. The store cascades to rotations and members.
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	const q = `delete from projects where id = $1::uuid;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return false, apperr.Wrap(apperr.Upstream, "delete project", err)
	}
	return ct.RowsAffected() > 0, nil
}

// InsertMember binds a user to a project.
func (r *Repo) InsertMember(ctx context.Context, m domain.Member) error {
	const q = `
insert into project_members (project_id, user_id, role)
values ($1::uuid, $2, $3);
`
	if _, err := r.db.Exec(ctx, q, m.ProjectID, m.UserID, m.Role); err != nil {
		return apperr.Wrap(apperr.Upstream, "insert project member", err)
	}
	return nil
}

// GetByID fetches one project.
func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const q = `
select id::text, name, description, rotation_period_days, start_date,
       created_by, state, created_at, updated_at
from projects
where id = $1::uuid;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.RotationPeriodDays, &p.StartDate,
		&p.CreatedBy, &p.State, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "project not found")
		}
		return nil, apperr.Wrap(apperr.Upstream, "get project", err)
	}
	return &p, nil
}

// ListForUser returns the projects the user is a member of, newest first.
func (r *Repo) ListForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	const q = `
select p.id::text, p.name, p.description, p.rotation_period_days, p.start_date,
       p.created_by, p.state, p.created_at, p.updated_at
from projects p
join project_members m on m.project_id = p.id
where m.user_id = $1
order by p.created_at desc;
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "list projects", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var p domain.Project
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.RotationPeriodDays, &p.StartDate,
			&p.CreatedBy, &p.State, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "scan project", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "list projects", err)
	}
	return out, nil
}
