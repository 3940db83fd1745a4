package roles

import (
	"context"
	"testing"
	"time"

	"fieldbook/internal/shared/apperror"
	"fieldbook/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	roles      map[uuid.UUID]*Role
	adminCount map[uuid.UUID]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{roles: map[uuid.UUID]*Role{}, adminCount: map[uuid.UUID]int64{}}
}

func (f *fakeRepo) Create(_ context.Context, role *Role) error {
	role.ID = uuid.New()
	role.CreatedAt = time.Now()
	f.roles[role.ID] = role
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Role, error) {
	if r, ok := f.roles[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, errRoleNotFound
}

func (f *fakeRepo) GetByName(_ context.Context, name string) (*Role, error) {
	for _, r := range f.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, errRoleNotFound
}

func (f *fakeRepo) ListWithAdminCount(context.Context) ([]RoleListItem, error) {
	var out []RoleListItem
	for _, r := range f.roles {
		out = append(out, RoleListItem{ID: r.ID, Name: r.Name, AdminCount: f.adminCount[r.ID]})
	}
	return out, nil
}

func (f *fakeRepo) ListAdmins(context.Context, uuid.UUID) ([]RoleAdmin, error) {
	return []RoleAdmin{}, nil
}

func (f *fakeRepo) CountAdmins(_ context.Context, id uuid.UUID) (int64, error) {
	return f.adminCount[id], nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	r := f.roles[id]
	if name, ok := updates["name"].(string); ok {
		r.Name = name
	}
	if d, ok := updates["description"].(string); ok {
		r.Description = &d
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.roles, id)
	return nil
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc := NewService(newFakeRepo(), logger.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRoleRequest{Name: "Admin"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateRoleRequest{Name: " Admin "})
	require.ErrorIs(t, err, ErrRoleExists)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode())
}

func TestUpdate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, logger.NewNop())
	ctx := context.Background()

	a, _ := svc.Create(ctx, CreateRoleRequest{Name: "Admin"})
	_, _ = svc.Create(ctx, CreateRoleRequest{Name: "Administrator"})

	taken := "Administrator"
	_, err := svc.Update(ctx, a.ID, UpdateRoleRequest{Name: &taken})
	assert.ErrorIs(t, err, ErrRoleExists)

	same := "Admin"
	desc := "venue staff"
	updated, err := svc.Update(ctx, a.ID, UpdateRoleRequest{Name: &same, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "venue staff", *updated.Description)

	_, err = svc.Update(ctx, uuid.New(), UpdateRoleRequest{Description: &desc})
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestDeleteRefusedWhileAssigned(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, logger.NewNop())
	ctx := context.Background()

	role, _ := svc.Create(ctx, CreateRoleRequest{Name: "Admin"})
	repo.adminCount[role.ID] = 2

	err := svc.Delete(ctx, role.ID)
	require.ErrorIs(t, err, ErrRoleInUse)
	assert.Contains(t, err.Error(), "2 admin(s)")

	repo.adminCount[role.ID] = 0
	require.NoError(t, svc.Delete(ctx, role.ID))

	_, err = svc.Get(ctx, role.ID)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}
