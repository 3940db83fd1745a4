package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fieldbook/internal/shared/config"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	log := logger.NewNop()

	r := gin.New()
	r.GET("/me", CustomerAuth(cfg, log), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	r.GET("/admin", AdminAuth(cfg, log), RequireRoles(RoleSuperAdmin, RoleAdministrator), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextAdminRole))
	})
	return r
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCustomerAuth(t *testing.T) {
	r := newEngine()
	userID := uuid.New()
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	})

	t.Run("access token", func(t *testing.T) {
		w := do(r, "/me", sign(t, jwt.MapClaims{"user_id": userID.String(), "type": TokenTypeAccess, "exp": exp}))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), w.Body.String())
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		w := do(r, "/me", sign(t, jwt.MapClaims{"user_id": userID.String(), "type": TokenTypeRefresh, "exp": exp}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin token rejected", func(t *testing.T) {
		w := do(r, "/me", sign(t, jwt.MapClaims{"user_id": userID.String(), "type": TokenTypeAdmin, "exp": exp}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired", func(t *testing.T) {
		w := do(r, "/me", sign(t, jwt.MapClaims{"user_id": userID.String(), "type": TokenTypeAccess, "exp": time.Now().Add(-time.Minute).Unix()}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminAuthAndRoles(t *testing.T) {
	r := newEngine()
	exp := time.Now().Add(time.Hour).Unix()

	w := do(r, "/admin", sign(t, jwt.MapClaims{"user_id": uuid.NewString(), "type": TokenTypeAdmin, "role": RoleAdministrator, "exp": exp}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, RoleAdministrator, w.Body.String())

	w = do(r, "/admin", sign(t, jwt.MapClaims{"user_id": uuid.NewString(), "type": TokenTypeAdmin, "role": RoleAdmin, "exp": exp}))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, "/admin", sign(t, jwt.MapClaims{"user_id": uuid.NewString(), "type": TokenTypeAccess, "role": RoleSuperAdmin, "exp": exp}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
