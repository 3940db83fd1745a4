package auth

import (
	"errors"
	"time"

	"fieldbook/internal/shared/config"
	"fieldbook/internal/shared/middleware"

	"github.com/golang-jwt/jwt/v4"
)

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// Claims is the JWT payload for both customer and admin tokens
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	RoleID  string `json:"role_id,omitempty"`
	VenueID string `json:"venue_id,omitempty"`
	Type    string `json:"type"`
	jwt.RegisteredClaims
}

// Identity is who a token is issued for
type Identity struct {
	ID      string
	Email   string
	Name    string
	Role    string
	RoleID  string
	VenueID string
}

// Tokens signs and parses HS256 tokens
type Tokens struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokens(cfg config.JWTConfig) *Tokens {
	return &Tokens{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.JWTExpiresIn,
		refreshTTL: cfg.RefreshExpiresIn,
		now:        time.Now,
	}
}

// IssuePair returns a customer access + refresh token pair
func (t *Tokens) IssuePair(id Identity) (*TokenPair, error) {
	access, err := t.sign(id, middleware.TokenTypeAccess, t.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := t.sign(id, middleware.TokenTypeRefresh, t.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(t.accessTTL.Seconds()),
	}, nil
}

// IssueAdmin returns a single admin token carrying role and venue
func (t *Tokens) IssueAdmin(id Identity) (string, error) {
	return t.sign(id, middleware.TokenTypeAdmin, t.accessTTL)
}

func (t *Tokens) sign(id Identity, tokenType string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{
		UserID:  id.ID,
		Email:   id.Email,
		Name:    id.Name,
		Role:    id.Role,
		RoleID:  id.RoleID,
		VenueID: id.VenueID,
		Type:    tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "fieldbook",
			Subject:   id.ID,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse validates signature and expiry
func (t *Tokens) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigningMethod
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
