package admins

import (
	"context"
	"errors"
	"strings"

	"fieldbook/internal/auth"
	"fieldbook/internal/roles"
	"fieldbook/internal/shared/apperror"
	"fieldbook/internal/venues"
	"fieldbook/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = apperror.Conflict("Email already registered")
	ErrInvalidCredentials = apperror.Unauthorized("Invalid credentials")
	ErrAdminNotFound      = apperror.NotFound("Admin not found")
)

// RoleLookup resolves a role id during registration
type RoleLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (*roles.Role, error)
}

// VenueLookup resolves the optional venue an admin is scoped to
type VenueLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (*venues.Venue, error)
}

type Service interface {
	Register(ctx context.Context, req *RegisterAdminRequest) (*AdminAuthResponse, error)
	Login(ctx context.Context, req *LoginAdminRequest) (*AdminAuthResponse, error)
	GetProfile(ctx context.Context, adminID uuid.UUID) (*Admin, error)
}

type service struct {
	repo   Repository
	roles  RoleLookup
	venues VenueLookup
	tokens *auth.Tokens
	log    *logger.Logger
}

func NewService(repo Repository, roleLookup RoleLookup, venueLookup VenueLookup, tokens *auth.Tokens, log *logger.Logger) Service {
	return &service{
		repo:   repo,
		roles:  roleLookup,
		venues: venueLookup,
		tokens: tokens,
		log:    log.WithComponent("admin-auth"),
	}
}

func (s *service) Register(ctx context.Context, req *RegisterAdminRequest) (*AdminAuthResponse, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	roleID, err := uuid.Parse(req.RoleID)
	if err != nil {
		return nil, roles.ErrRoleNotFound
	}
	if _, err := s.roles.Exists(ctx, roleID); err != nil {
		return nil, err
	}

	var venueID *uuid.UUID
	if req.VenueID != nil && *req.VenueID != "" {
		id, err := uuid.Parse(*req.VenueID)
		if err != nil {
			return nil, venues.ErrVenueNotFound
		}
		if _, err := s.venues.Exists(ctx, id); err != nil {
			return nil, err
		}
		venueID = &id
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &Admin{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     strings.TrimSpace(req.Name),
		RoleID:   roleID,
		VenueID:  venueID,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.log.Info("Admin registered", "admin_id", admin.ID, "email", admin.Email, "role", admin.roleName())
	return s.issue(admin)
}

func (s *service) Login(ctx context.Context, req *LoginAdminRequest) (*AdminAuthResponse, error) {
	admin, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errAdminNotFound) {
			s.log.LogAuthFailure(ctx, "unknown admin email", "")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		s.log.LogAuthFailure(ctx, "wrong admin password", "")
		return nil, ErrInvalidCredentials
	}

	s.log.LogAuthSuccess(ctx, admin.ID.String(), "admin_login")
	return s.issue(admin)
}

func (s *service) GetProfile(ctx context.Context, adminID uuid.UUID) (*Admin, error) {
	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, errAdminNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

func (s *service) issue(admin *Admin) (*AdminAuthResponse, error) {
	identity := auth.Identity{
		ID:     admin.ID.String(),
		Email:  admin.Email,
		Name:   admin.Name,
		Role:   admin.roleName(),
		RoleID: admin.RoleID.String(),
	}
	if admin.VenueID != nil {
		identity.VenueID = admin.VenueID.String()
	}

	token, err := s.tokens.IssueAdmin(identity)
	if err != nil {
		return nil, err
	}

	return &AdminAuthResponse{
		ID:          admin.ID,
		Name:        admin.Name,
		Email:       admin.Email,
		Role:        admin.roleName(),
		VenueID:     admin.VenueID,
		AccessToken: token,
		TokenType:   "Bearer",
	}, nil
}
