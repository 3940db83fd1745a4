package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fieldbook/internal/shared/apperror"
	"fieldbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrRoleNotFound = apperror.NotFound("Role not found")
	ErrRoleExists   = apperror.Conflict("Role already exists")
	ErrRoleInUse    = apperror.BadRequest("Role is still assigned to admins")
)

type Service interface {
	Create(ctx context.Context, req CreateRoleRequest) (*Role, error)
	List(ctx context.Context) ([]RoleListItem, error)
	Get(ctx context.Context, id uuid.UUID) (*RoleDetail, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*Role, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Exists is used by admin registration
	Exists(ctx context.Context, id uuid.UUID) (*Role, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: log.WithComponent("roles")}
}

func (s *service) Create(ctx context.Context, req CreateRoleRequest) (*Role, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}

	role := &Role{Name: name, Description: req.Description}
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	s.log.Info("Role created", "role_id", role.ID, "name", role.Name)
	return role, nil
}

func (s *service) List(ctx context.Context) ([]RoleListItem, error) {
	return s.repo.ListWithAdminCount(ctx)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RoleDetail, error) {
	role, err := s.Exists(ctx, id)
	if err != nil {
		return nil, err
	}

	admins, err := s.repo.ListAdmins(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list role admins: %w", err)
	}

	return &RoleDetail{Role: *role, Admins: admins}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*Role, error) {
	existing, err := s.Exists(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != existing.Name {
			if err := s.ensureNameFree(ctx, name); err != nil {
				return nil, err
			}
			updates["name"] = name
		}
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update role: %w", err)
		}
	}

	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repo.CountAdmins(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count role admins: %w", err)
	}
	if count > 0 {
		return apperror.Wrapf(ErrRoleInUse, "Role cannot be deleted while %d admin(s) still use it", count)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.log.Info("Role deleted", "role_id", id, "name", role.Name)
	return nil
}

func (s *service) Exists(ctx context.Context, id uuid.UUID) (*Role, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errRoleNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return role, nil
}

func (s *service) ensureNameFree(ctx context.Context, name string) error {
	_, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return apperror.Wrapf(ErrRoleExists, "Role %q already exists", name)
	}
	if !errors.Is(err, errRoleNotFound) {
		return fmt.Errorf("failed to check role name: %w", err)
	}
	return nil
}
