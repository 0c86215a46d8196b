package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaops/rota-backend/internal/apperr"
	"github.com/rotaops/rota-backend/internal/projects/domain"
	rotdomain "github.com/rotaops/rota-backend/internal/rotations/domain"
	"github.com/rotaops/rota-backend/internal/schema"
)

type fakeProjects struct {
	rows    map[string]*domain.Project
	members []domain.Member
	nextID  int

	insertErr error
	memberErr error
	deleteErr error
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{rows: map[string]*domain.Project{}}
}

func (f *fakeProjects) Insert(_ context.Context, p *domain.Project) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.nextID++
	id := "proj-" + strconv.Itoa(f.nextID)
	cp := *p
	cp.ID = id
	f.rows[id] = &cp
	return id, nil
}

func (f *fakeProjects) Delete(_ context.Context, id string) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	_, ok := f.rows[id]
	delete(f.rows, id)
	return ok, nil
}

func (f *fakeProjects) InsertMember(_ context.Context, m domain.Member) error {
	if f.memberErr != nil {
		return f.memberErr
	}
	f.members = append(f.members, m)
	return nil
}

func (f *fakeProjects) GetByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "project not found")
	}
	return p, nil
}

func (f *fakeProjects) ListForUser(_ context.Context, userID string) ([]domain.Project, error) {
	var out []domain.Project
	for _, m := range f.members {
		if m.UserID != userID {
			continue
		}
		if p, ok := f.rows[m.ProjectID]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeRotations struct {
	rows   map[string]*rotdomain.Rotation
	nextID int

	insertErr error
}

func newFakeRotations() *fakeRotations {
	return &fakeRotations{rows: map[string]*rotdomain.Rotation{}}
}

func (f *fakeRotations) Insert(_ context.Context, rot *rotdomain.Rotation) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.nextID++
	id := "rot-" + strconv.Itoa(f.nextID)
	cp := *rot
	cp.ID = id
	f.rows[id] = &cp
	return id, nil
}

func (f *fakeRotations) DeleteByProject(_ context.Context, projectID string) (int64, error) {
	var n int64
	for id, rot := range f.rows {
		if rot.ProjectID == projectID {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeRotations) ListByProject(_ context.Context, projectID string) ([]rotdomain.Rotation, error) {
	var out []rotdomain.Rotation
	for _, rot := range f.rows {
		if rot.ProjectID == projectID {
			out = append(out, *rot)
		}
	}
	return out, nil
}

func payload() schema.ProjectCreate {
	return schema.ProjectCreate{
		Name:               "Payments On-Call",
		RotationPeriodDays: 30,
		StartDate:          "2024-01-01",
		Assignees:          []string{"primary", "backup"},
		Reviewers:          []string{"lead"},
	}
}

func TestCreate_SeedsProjectRotationAndMembership(t *testing.T) {
	projects := newFakeProjects()
	rotations := newFakeRotations()
	svc := New(projects, rotations)

	id, err := svc.Create(context.Background(), payload(), "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	p := projects.rows[id]
	require.NotNil(t, p)
	assert.Equal(t, domain.StateActive, p.State)
	assert.Equal(t, "user-1", p.CreatedBy)

	rots, err := rotations.ListByProject(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, rots, 1)
	start, _ := rotdomain.ParseDate("2024-01-01")
	end, _ := rotdomain.ParseDate("2024-01-31")
	assert.Equal(t, start, rots[0].StartDate)
	assert.Equal(t, end, rots[0].EndDate)
	assert.Equal(t, []string{"primary", "backup"}, rots[0].Assignees)
	assert.Equal(t, []string{"lead"}, rots[0].Reviewers)

	require.Len(t, projects.members, 1)
	assert.Equal(t, domain.Member{ProjectID: id, UserID: "user-1", Role: domain.RoleAdmin}, projects.members[0])
}

func TestCreate_Unauthenticated(t *testing.T) {
	svc := New(newFakeProjects(), newFakeRotations())
	_, err := svc.Create(context.Background(), payload(), "")
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
}

func TestCreate_RevalidatesPayload(t *testing.T) {
	projects := newFakeProjects()
	svc := New(projects, newFakeRotations())

	bad := payload()
	bad.Assignees = nil
	_, err := svc.Create(context.Background(), bad, "user-1")
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Empty(t, projects.rows, "nothing persisted on validation failure")
}

func TestCreate_RejectsUnparseableStartDate(t *testing.T) {
	projects := newFakeProjects()
	svc := New(projects, newFakeRotations())

	bad := payload()
	bad.StartDate = "January 1st"
	_, err := svc.Create(context.Background(), bad, "user-1")
	require.True(t, apperr.Is(err, apperr.Validation))
	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "startDate", e.Fields[0].Path)
	assert.Empty(t, projects.rows)
}

func TestCreate_RotationFailureRollsBackProject(t *testing.T) {
	projects := newFakeProjects()
	rotations := newFakeRotations()
	rotations.insertErr = errors.New("store unavailable")
	svc := New(projects, rotations)

	_, err := svc.Create(context.Background(), payload(), "user-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "store unavailable")

	// The just-created project must no longer exist.
	assert.Empty(t, projects.rows)
	assert.Empty(t, projects.members)
}

func TestCreate_MemberFailureRollsBackProjectAndRotation(t *testing.T) {
	projects := newFakeProjects()
	projects.memberErr = errors.New("membership insert failed")
	rotations := newFakeRotations()
	svc := New(projects, rotations)

	_, err := svc.Create(context.Background(), payload(), "user-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "membership insert failed")
	assert.Empty(t, projects.rows)
	assert.Empty(t, rotations.rows)
}

func TestCreate_RollbackFailureDoesNotMaskOriginalError(t *testing.T) {
	projects := newFakeProjects()
	projects.memberErr = errors.New("membership insert failed")
	projects.deleteErr = errors.New("rollback also failed")
	svc := New(projects, newFakeRotations())

	_, err := svc.Create(context.Background(), payload(), "user-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "membership insert failed")
}

func TestGet_WithRotations(t *testing.T) {
	projects := newFakeProjects()
	rotations := newFakeRotations()
	svc := New(projects, rotations)

	id, err := svc.Create(context.Background(), payload(), "user-1")
	require.NoError(t, err)

	detail, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, detail.Project.ID)
	assert.Len(t, detail.Rotations, 1)

	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestList_ScopedToMember(t *testing.T) {
	projects := newFakeProjects()
	svc := New(projects, newFakeRotations())

	_, err := svc.Create(context.Background(), payload(), "user-1")
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.List(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Empty(t, theirs)

	_, err = svc.List(context.Background(), "")
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
}
