package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{BadRequest("bad"), http.StatusBadRequest},
		{Unauthorized("who"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("taken"), http.StatusConflict},
		{New(Kind("OTHER"), "?"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestWrapfKeepsKindAndIdentity(t *testing.T) {
	base := BadRequest("invalid slot")
	wrapped := Wrapf(base, "slot crosses day boundary (%d)", 25)

	assert.Equal(t, KindBadRequest, wrapped.Kind)
	assert.Equal(t, "slot crosses day boundary (25)", wrapped.Error())
	assert.True(t, errors.Is(wrapped, base))
}

func TestAsFindsWrappedError(t *testing.T) {
	base := Conflict("slot already booked")
	err := fmt.Errorf("create booking: %w", base)

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode())

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}
