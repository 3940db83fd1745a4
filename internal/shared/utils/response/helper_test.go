package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fieldbook/internal/shared/apperror"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(10, 0))
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 1, CalculateTotalPages(10, 10))
	assert.Equal(t, 2, CalculateTotalPages(11, 10))
}

func TestRespondErrorMapsDomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"conflict", apperror.Conflict("slot already booked"), http.StatusConflict, "slot already booked"},
		{"wrapped not found", fmt.Errorf("load: %w", apperror.NotFound("booking not found")), http.StatusNotFound, "booking not found"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "Failed to load"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			RespondError(c, logger.NewNop(), tt.err, "Failed to load")

			assert.Equal(t, tt.wantCode, w.Code)
			var body StandardApiResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestRespondPaginatedIncludesMeta(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondPaginated(c, "ok", []string{"a"}, NewMeta(21, 2, 10))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(21), meta["total"])
	assert.Equal(t, float64(3), meta["totalPages"])
}

func TestNormalizePage(t *testing.T) {
	page, limit := NormalizePage(0, 0, 20, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	page, limit = NormalizePage(3, 500, 20, 100)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 200, Offset(page, limit))
}
