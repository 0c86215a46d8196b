package service

import (
	"context"
	"sort"
	"strings"

	"github.com/rotaops/rota-backend/internal/apperr"
	"github.com/rotaops/rota-backend/internal/directory/domain"
)

// Store is the persistence surface of the directory.
type Store interface {
	Roster(ctx context.Context) ([]domain.User, error)
	GetWithEmail(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, name string, isAdmin bool) error
	GetPermission(ctx context.Context, userID string) (domain.Permission, error)
	UpsertPermission(ctx context.Context, userID string, p domain.Permission) error
}

// RosterCache fronts the roster aggregation. A nil cache means every read
// hits the store.
type RosterCache interface {
	Get(ctx context.Context) ([]domain.User, bool)
	Set(ctx context.Context, users []domain.User)
	Invalidate(ctx context.Context)
}

// Identity is the slice of the identity provider the directory uses.
type Identity interface {
	SendPasswordReset(ctx context.Context, email string) error
	DeleteUser(ctx context.Context, uid string) error
}

// Actor is the acting identity plus its resolved admin flag.
type Actor struct {
	UID     string
	IsAdmin bool
}

const defaultPageSize = 10

// Service is the admin-facing user directory.
type Service struct {
	store    Store
	cache    RosterCache
	provider Identity
}

func New(store Store, cache RosterCache, provider Identity) *Service {
	return &Service{store: store, cache: cache, provider: provider}
}

func requireAdmin(actor Actor) error {
	if actor.UID == "" {
		return apperr.New(apperr.Unauthenticated, "not authenticated")
	}
	if !actor.IsAdmin {
		return apperr.New(apperr.Forbidden, "admin access required")
	}
	return nil
}

// List returns one roster page. The search filters case-insensitively over
// name and email; results are ordered by name; Count is the size of the
// whole filtered set regardless of page size.
func (s *Service) List(ctx context.Context, page, pageSize int, search string, actor Actor) (*domain.UserPage, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	roster, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}

	filtered := roster
	if q := strings.ToLower(strings.TrimSpace(search)); q != "" {
		filtered = make([]domain.User, 0, len(roster))
		for _, u := range roster {
			if strings.Contains(strings.ToLower(u.Name), q) ||
				strings.Contains(strings.ToLower(u.Email), q) {
				filtered = append(filtered, u)
			}
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Name < filtered[j].Name
	})

	count := len(filtered)
	from := (page - 1) * pageSize
	if from > count {
		from = count
	}
	to := from + pageSize
	if to > count {
		to = count
	}

	return &domain.UserPage{Users: filtered[from:to], Count: count}, nil
}

func (s *Service) roster(ctx context.Context) ([]domain.User, error) {
	if s.cache != nil {
		if users, ok := s.cache.Get(ctx); ok {
			return users, nil
		}
	}

	users, err := s.store.Roster(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, users)
	}
	return users, nil
}

// Get returns one user with their permission level. A missing permission
// record is not an error: it defaults to view.
func (s *Service) Get(ctx context.Context, userID string) (*domain.UserDetail, error) {
	u, err := s.store.GetWithEmail(ctx, userID)
	if err != nil {
		return nil, err
	}

	perm, err := s.store.GetPermission(ctx, userID)
	if err != nil {
		if !apperr.Is(err, apperr.NotFound) {
			return nil, err
		}
		perm = domain.PermissionView
	}
	if !perm.Valid() {
		perm = domain.PermissionView
	}

	return &domain.UserDetail{User: *u, Permission: perm}, nil
}

// Update applies an admin-driven mutation: profile name and admin flag,
// then the permission record. A permission-upsert failure after the profile
// update is surfaced; the profile change stays applied.
func (s *Service) Update(ctx context.Context, upd domain.UserUpdate, actor Actor) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if !upd.Permission.Valid() {
		return apperr.Invalid([]apperr.FieldError{
			{Path: "permission", Message: "Permission must be view or edit."},
		})
	}

	if err := s.store.UpdateProfile(ctx, upd.ID, upd.Name, upd.IsAdmin); err != nil {
		return err
	}

	err := s.store.UpsertPermission(ctx, upd.ID, upd.Permission)

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return err
}

// ResetPassword resolves the user's email and asks the provider to send the
// reset mail.
func (s *Service) ResetPassword(ctx context.Context, userID string, actor Actor) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	u, err := s.store.GetWithEmail(ctx, userID)
	if err != nil {
		return err
	}
	if u.Email == "" {
		return apperr.New(apperr.NotFound, "User email not found")
	}

	return s.provider.SendPasswordReset(ctx, u.Email)
}

// Delete removes the account at the identity provider. Provider errors are
// surfaced verbatim.
func (s *Service) Delete(ctx context.Context, userID string, actor Actor) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if err := s.provider.DeleteUser(ctx, userID); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}
