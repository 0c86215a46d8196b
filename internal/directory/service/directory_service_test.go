package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaops/rota-backend/internal/apperr"
	"github.com/rotaops/rota-backend/internal/directory/domain"
)

type fakeStore struct {
	users       []domain.User
	permissions map[string]domain.Permission

	rosterCalls   int
	profileCalls  int
	upsertErr     error
	permissionErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: []domain.User{
			{ID: "u1", Name: "Diana", Email: "diana@example.com"},
			{ID: "u2", Name: "Ana Gomez", Email: "ana@example.com", IsAdmin: true},
			{ID: "u3", Name: "Bram", Email: "bram@banana.io"},
			{ID: "u4", Name: "Carla", Email: "carla@example.com"},
		},
		permissions: map[string]domain.Permission{"u2": domain.PermissionEdit},
	}
}

func (f *fakeStore) Roster(_ context.Context) ([]domain.User, error) {
	f.rosterCalls++
	return append([]domain.User(nil), f.users...), nil
}

func (f *fakeStore) GetWithEmail(_ context.Context, userID string) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == userID {
			cp := u
			return &cp, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (f *fakeStore) UpdateProfile(_ context.Context, userID, name string, isAdmin bool) error {
	f.profileCalls++
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].Name = name
			f.users[i].IsAdmin = isAdmin
			return nil
		}
	}
	return apperr.New(apperr.NotFound, "user not found")
}

func (f *fakeStore) GetPermission(_ context.Context, userID string) (domain.Permission, error) {
	if f.permissionErr != nil {
		return "", f.permissionErr
	}
	p, ok := f.permissions[userID]
	if !ok {
		return "", apperr.New(apperr.NotFound, "permission record not found")
	}
	return p, nil
}

func (f *fakeStore) UpsertPermission(_ context.Context, userID string, p domain.Permission) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.permissions[userID] = p
	return nil
}

type fakeCache struct {
	users       []domain.User
	present     bool
	sets, drops int
}

func (f *fakeCache) Get(_ context.Context) ([]domain.User, bool) {
	if !f.present {
		return nil, false
	}
	return f.users, true
}

func (f *fakeCache) Set(_ context.Context, users []domain.User) {
	f.users = users
	f.present = true
	f.sets++
}

func (f *fakeCache) Invalidate(_ context.Context) {
	f.present = false
	f.drops++
}

type fakeIdentity struct {
	resets   []string
	deletes  []string
	resetErr error
	delErr   error
}

func (f *fakeIdentity) SendPasswordReset(_ context.Context, email string) error {
	f.resets = append(f.resets, email)
	return f.resetErr
}

func (f *fakeIdentity) DeleteUser(_ context.Context, uid string) error {
	f.deletes = append(f.deletes, uid)
	return f.delErr
}

var (
	admin    = Actor{UID: "u2", IsAdmin: true}
	nonAdmin = Actor{UID: "u3", IsAdmin: false}
)

func names(users []domain.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Name)
	}
	return out
}

func TestList_SearchFilterOrderAndCount(t *testing.T) {
	store := newFakeStore()
	svc := New(store, nil, &fakeIdentity{})

	// "ana" matches Ana Gomez (name), Diana (name) and Bram (email
	// bram@banana.io), case-insensitively, ordered by name.
	page, err := svc.List(context.Background(), 1, 10, "ana", admin)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Gomez", "Bram", "Diana"}, names(page.Users))
	assert.Equal(t, 3, page.Count)
}

func TestList_CountIgnoresPageSize(t *testing.T) {
	store := newFakeStore()
	svc := New(store, nil, &fakeIdentity{})

	page, err := svc.List(context.Background(), 1, 2, "ana", admin)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Gomez", "Bram"}, names(page.Users))
	assert.Equal(t, 3, page.Count)

	page2, err := svc.List(context.Background(), 2, 2, "ana", admin)
	require.NoError(t, err)
	assert.Equal(t, []string{"Diana"}, names(page2.Users))
	assert.Equal(t, 3, page2.Count)
}

func TestList_PastLastPageIsEmpty(t *testing.T) {
	svc := New(newFakeStore(), nil, &fakeIdentity{})
	page, err := svc.List(context.Background(), 7, 10, "", admin)
	require.NoError(t, err)
	assert.Empty(t, page.Users)
	assert.Equal(t, 4, page.Count)
}

func TestList_NonAdminForbidden(t *testing.T) {
	store := newFakeStore()
	svc := New(store, nil, &fakeIdentity{})

	_, err := svc.List(context.Background(), 1, 10, "", nonAdmin)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
	assert.Zero(t, store.rosterCalls)

	_, err = svc.List(context.Background(), 1, 10, "", Actor{})
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
}

func TestList_UsesCache(t *testing.T) {
	store := newFakeStore()
	cc := &fakeCache{}
	svc := New(store, cc, &fakeIdentity{})

	_, err := svc.List(context.Background(), 1, 10, "", admin)
	require.NoError(t, err)
	assert.Equal(t, 1, store.rosterCalls)
	assert.Equal(t, 1, cc.sets)

	_, err = svc.List(context.Background(), 1, 10, "", admin)
	require.NoError(t, err)
	assert.Equal(t, 1, store.rosterCalls, "second read served from cache")
}

func TestGet_DefaultsPermissionToView(t *testing.T) {
	svc := New(newFakeStore(), nil, &fakeIdentity{})

	// u1 has no permission record.
	detail, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionView, detail.Permission)

	detail, err = svc.Get(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionEdit, detail.Permission)
}

func TestGet_UnknownUser(t *testing.T) {
	svc := New(newFakeStore(), nil, &fakeIdentity{})
	_, err := svc.Get(context.Background(), "ghost")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestGet_PermissionLookupFailureSurfaced(t *testing.T) {
	store := newFakeStore()
	store.permissionErr = apperr.Wrap(apperr.Upstream, "get permission", errors.New("store down"))
	svc := New(store, nil, &fakeIdentity{})

	_, err := svc.Get(context.Background(), "u1")
	assert.True(t, apperr.Is(err, apperr.Upstream))
}

func TestUpdate_AppliesProfileAndPermission(t *testing.T) {
	store := newFakeStore()
	cc := &fakeCache{}
	svc := New(store, cc, &fakeIdentity{})

	upd := domain.UserUpdate{ID: "u3", Name: "Bram de Vries", IsAdmin: true, Permission: domain.PermissionEdit}
	require.NoError(t, svc.Update(context.Background(), upd, admin))

	u, _ := store.GetWithEmail(context.Background(), "u3")
	assert.Equal(t, "Bram de Vries", u.Name)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, domain.PermissionEdit, store.permissions["u3"])
	assert.Equal(t, 1, cc.drops)
}

func TestUpdate_PermissionUpsertFailureSurfaced(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = apperr.Wrap(apperr.Upstream, "upsert permission", errors.New("table missing"))
	svc := New(store, nil, &fakeIdentity{})

	upd := domain.UserUpdate{ID: "u3", Name: "Bram", Permission: domain.PermissionView}
	err := svc.Update(context.Background(), upd, admin)
	assert.True(t, apperr.Is(err, apperr.Upstream))

	// The profile step already ran and stays applied.
	assert.Equal(t, 1, store.profileCalls)
}

func TestUpdate_InvalidPermission(t *testing.T) {
	store := newFakeStore()
	svc := New(store, nil, &fakeIdentity{})

	upd := domain.UserUpdate{ID: "u3", Name: "Bram", Permission: "owner"}
	err := svc.Update(context.Background(), upd, admin)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Zero(t, store.profileCalls)
}

func TestUpdate_NonAdminForbiddenWithoutMutation(t *testing.T) {
	store := newFakeStore()
	svc := New(store, nil, &fakeIdentity{})

	upd := domain.UserUpdate{ID: "u1", Name: "Hacked", Permission: domain.PermissionEdit}
	err := svc.Update(context.Background(), upd, nonAdmin)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
	assert.Zero(t, store.profileCalls)

	u, _ := store.GetWithEmail(context.Background(), "u1")
	assert.Equal(t, "Diana", u.Name)
}

func TestResetPassword(t *testing.T) {
	ident := &fakeIdentity{}
	svc := New(newFakeStore(), nil, ident)

	require.NoError(t, svc.ResetPassword(context.Background(), "u1", admin))
	assert.Equal(t, []string{"diana@example.com"}, ident.resets)
}

func TestResetPassword_NoEmail(t *testing.T) {
	store := newFakeStore()
	store.users = append(store.users, domain.User{ID: "u5", Name: "Ghost"})
	ident := &fakeIdentity{}
	svc := New(store, nil, ident)

	err := svc.ResetPassword(context.Background(), "u5", admin)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Empty(t, ident.resets)
}

func TestResetPassword_UnknownUser(t *testing.T) {
	ident := &fakeIdentity{}
	svc := New(newFakeStore(), nil, ident)

	err := svc.ResetPassword(context.Background(), "ghost", admin)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Empty(t, ident.resets)
}

func TestResetPassword_NonAdminForbidden(t *testing.T) {
	ident := &fakeIdentity{}
	svc := New(newFakeStore(), nil, ident)

	err := svc.ResetPassword(context.Background(), "u1", nonAdmin)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
	assert.Empty(t, ident.resets)
}

func TestDelete(t *testing.T) {
	ident := &fakeIdentity{}
	cc := &fakeCache{}
	svc := New(newFakeStore(), cc, ident)

	require.NoError(t, svc.Delete(context.Background(), "u1", admin))
	assert.Equal(t, []string{"u1"}, ident.deletes)
	assert.Equal(t, 1, cc.drops)
}

func TestDelete_ProviderErrorSurfacedVerbatim(t *testing.T) {
	ident := &fakeIdentity{delErr: apperr.Wrap(apperr.Upstream, "delete user", errors.New("provider outage"))}
	svc := New(newFakeStore(), nil, ident)

	err := svc.Delete(context.Background(), "u1", admin)
	assert.True(t, apperr.Is(err, apperr.Upstream))
	assert.ErrorContains(t, err, "provider outage")
}

func TestDelete_NonAdminForbidden(t *testing.T) {
	ident := &fakeIdentity{}
	svc := New(newFakeStore(), nil, ident)

	err := svc.Delete(context.Background(), "u1", nonAdmin)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
	assert.Empty(t, ident.deletes)
}
