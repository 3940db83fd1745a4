package auth

import (
	"context"
	"errors"
	"strings"

	"fieldbook/internal/customers"
	"fieldbook/internal/shared/apperror"
	"fieldbook/internal/shared/middleware"
	"fieldbook/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = apperror.Conflict("Email already registered")
	ErrInvalidCredentials = apperror.Unauthorized("Invalid credentials")
	ErrInvalidToken       = apperror.Unauthorized("Invalid or expired token")
	ErrCustomerNotFound   = apperror.NotFound("Customer not found")
)

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetProfile(ctx context.Context, customerID uuid.UUID) (*customers.Customer, error)
}

type service struct {
	repo   customers.Repository
	tokens *Tokens
	log    *logger.Logger
}

func NewService(repo customers.Repository, tokens *Tokens, log *logger.Logger) Service {
	return &service{
		repo:   repo,
		tokens: tokens,
		log:    log,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		s.log.LogAuthFailure(ctx, "email already registered", "")
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	customer := &customers.Customer{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     strings.TrimSpace(req.Name),
		Phone:    req.Phone,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	token, err := s.tokens.IssuePair(customerIdentity(customer))
	if err != nil {
		return nil, err
	}

	s.log.LogAuthSuccess(ctx, customer.ID.String(), "register")
	return &AuthResponse{Customer: customer, Token: token}, nil
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	customer, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, customers.ErrCustomerNotFound) {
			s.log.LogAuthFailure(ctx, "unknown email", "")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(req.Password)); err != nil {
		s.log.LogAuthFailure(ctx, "wrong password", "")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssuePair(customerIdentity(customer))
	if err != nil {
		return nil, err
	}

	s.log.LogAuthSuccess(ctx, customer.ID.String(), "login")
	return &AuthResponse{Customer: customer, Token: token}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Parse(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != middleware.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, customers.ErrCustomerNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return s.tokens.IssuePair(customerIdentity(customer))
}

func (s *service) GetProfile(ctx context.Context, customerID uuid.UUID) (*customers.Customer, error) {
	customer, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, customers.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func customerIdentity(c *customers.Customer) Identity {
	return Identity{ID: c.ID.String(), Email: c.Email, Name: c.Name}
}
