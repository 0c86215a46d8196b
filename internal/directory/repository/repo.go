package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotaops/rota-backend/internal/apperr"
	"github.com/rotaops/rota-backend/internal/directory/domain"
)

// Repo provides persistence for profiles and permission records. Roster
// reads go through the get_users_with_emails function, the store-side
// aggregation that joins identity-provider emails onto profile rows; the
// repo treats it as an opaque read.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Roster returns every user with their email.
func (r *Repo) Roster(ctx context.Context) ([]domain.User, error) {
	const q = `select id::text, name, email, is_admin from get_users_with_emails();`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "read roster", err)
	}
	defer rows.Close()

	out := make([]domain.User, 0, 32)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.IsAdmin); err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "scan roster row", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "read roster", err)
	}
	return out, nil
}

// GetWithEmail returns one roster entry.
func (r *Repo) GetWithEmail(ctx context.Context, userID string) (*domain.User, error) {
	const q = `select id::text, name, email, is_admin from get_users_with_emails() where id = $1::uuid;`

	var u domain.User
	err := r.db.QueryRow(ctx, q, userID).Scan(&u.ID, &u.Name, &u.Email, &u.IsAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Upstream, "get user", err)
	}
	return &u, nil
}

// UpdateProfile sets name and admin flag on a profile.
func (r *Repo) UpdateProfile(ctx context.Context, userID, name string, isAdmin bool) error {
	const q = `
update profiles
set name = $2, is_admin = $3, updated_at = now()
where id = $1::uuid;
`
	ct, err := r.db.Exec(ctx, q, userID, name, isAdmin)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "update profile", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}

// GetPermission returns the user's permission level, NotFound when no
// record exists.
func (r *Repo) GetPermission(ctx context.Context, userID string) (domain.Permission, error) {
	const q = `select permission_level from user_permissions where user_id = $1::uuid;`

	var p domain.Permission
	err := r.db.QueryRow(ctx, q, userID).Scan(&p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.New(apperr.NotFound, "permission record not found")
		}
		return "", apperr.Wrap(apperr.Upstream, "get permission", err)
	}
	return p, nil
}

// UpsertPermission writes the permission record keyed by user id.
func (r *Repo) UpsertPermission(ctx context.Context, userID string, p domain.Permission) error {
	const q = `
insert into user_permissions (user_id, permission_level)
values ($1::uuid, $2)
on conflict (user_id) do update set permission_level = excluded.permission_level;
`
	if _, err := r.db.Exec(ctx, q, userID, p); err != nil {
		return apperr.Wrap(apperr.Upstream, "upsert permission", err)
	}
	return nil
}

// IsAdmin reads the admin flag off a profile. Used by the access gate.
func (r *Repo) IsAdmin(ctx context.Context, uid string) (bool, error) {
	const q = `select is_admin from profiles where id = $1::uuid;`

	var isAdmin bool
	err := r.db.QueryRow(ctx, q, uid).Scan(&isAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperr.New(apperr.NotFound, "profile not found")
		}
		return false, apperr.Wrap(apperr.Upstream, "read admin flag", err)
	}
	return isAdmin, nil
}

// GetName reads the display name of a profile.
func (r *Repo) GetName(ctx context.Context, uid string) (string, error) {
	const q = `select name from profiles where id = $1::uuid;`

	var name string
	err := r.db.QueryRow(ctx, q, uid).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.New(apperr.NotFound, "profile not found")
		}
		return "", apperr.Wrap(apperr.Upstream, "get profile", err)
	}
	return name, nil
}

// UpdateName sets only the display name of a profile.
func (r *Repo) UpdateName(ctx context.Context, uid, name string) error {
	const q = `
update profiles
set name = $2, updated_at = now()
where id = $1::uuid;
`
	ct, err := r.db.Exec(ctx, q, uid, name)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "update name", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "profile not found")
	}
	return nil
}
