package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, getLogLevel(in))
		})
	}
}

func TestLogBookingCancelledCarriesReason(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")

	l.LogBookingCancelled(context.Background(), "b-1", "c-1", "rain")

	out := buf.String()
	assert.Contains(t, out, `"msg":"Booking Cancelled"`)
	assert.Contains(t, out, `"reason":"rain"`)
	assert.Contains(t, out, `"booking_id":"b-1"`)
}

func TestLevelFiltersDebug(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")

	l.InfoContext(context.Background(), "quiet")
	assert.Empty(t, buf.String())

	l.LogNotificationFailed(context.Background(), "b-2", errors.New("smtp down"))
	assert.Contains(t, buf.String(), "smtp down")
}

func TestNewNopDiscards(t *testing.T) {
	l := NewNop()
	assert.NotPanics(t, func() {
		l.LogPaymentVerified(context.Background(), "b", "a", true)
	})
}
