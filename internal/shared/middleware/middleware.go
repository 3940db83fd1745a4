package middleware

import (
	"net/http"
	"strings"
	"time"

	"fieldbook/internal/shared/config"
	"fieldbook/internal/shared/utils/response"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Token types embedded in the "type" claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeAdmin   = "admin"
)

// Context keys set by the auth middlewares
const (
	ContextUserID       = "user_id"
	ContextUserEmail    = "user_email"
	ContextUserName     = "user_name"
	ContextAdminID      = "admin_id"
	ContextAdminRole    = "admin_role"
	ContextAdminVenueID = "admin_venue_id"
)

// Admin role names
const (
	RoleSuperAdmin    = "Super Admin"
	RoleAdministrator = "Administrator"
	RoleAdmin         = "Admin"
)

// CustomerAuth accepts only customer access tokens
func CustomerAuth(cfg *config.Config, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, cfg, log, TokenTypeAccess)
		if !ok {
			return
		}

		c.Set(ContextUserID, claimString(claims, "user_id"))
		c.Set(ContextUserEmail, claimString(claims, "email"))
		c.Set(ContextUserName, claimString(claims, "name"))
		c.Next()
	}
}

// AdminAuth accepts only admin tokens
func AdminAuth(cfg *config.Config, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, cfg, log, TokenTypeAdmin)
		if !ok {
			return
		}

		c.Set(ContextAdminID, claimString(claims, "user_id"))
		c.Set(ContextUserEmail, claimString(claims, "email"))
		c.Set(ContextUserName, claimString(claims, "name"))
		c.Set(ContextAdminRole, claimString(claims, "role"))
		c.Set(ContextAdminVenueID, claimString(claims, "venue_id"))
		c.Next()
	}
}

func parseBearer(c *gin.Context, cfg *config.Config, log *logger.Logger, wantType string) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
		c.Abort()
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
		c.Abort()
		return nil, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		log.LogAuthFailure(c.Request.Context(), "invalid or expired token", c.ClientIP())
		response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
		c.Abort()
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claimString(claims, "type") != wantType {
		log.LogAuthFailure(c.Request.Context(), "wrong token type", c.ClientIP())
		response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token type", nil, nil)
		c.Abort()
		return nil, false
	}

	return claims, true
}

func claimString(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

// RequireRoles lets through admins whose role name is one of roles
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextAdminRole)
		if role == "" {
			response.RespondJSON(c, "error", http.StatusForbidden, "admin role not found in context", nil, nil)
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		c.Abort()
	}
}

// RequestLogger logs every request once it has been served
func RequestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}

// CurrentUserID returns the authenticated customer id
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	return contextUUID(c, ContextUserID)
}

// CurrentAdminID returns the authenticated admin id
func CurrentAdminID(c *gin.Context) (uuid.UUID, bool) {
	return contextUUID(c, ContextAdminID)
}

func contextUUID(c *gin.Context, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(key))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
