package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with domain-specific helpers
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	return NewWithWriter(os.Stdout, os.Getenv("LOG_LEVEL"))
}

// NewWithWriter creates a logger writing to w at the given level
func NewWithWriter(w io.Writer, levelStr string) *Logger {
	level := getLogLevel(levelStr)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// text for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent tags every record with the emitting component
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("component", name)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Booking lifecycle

// LogBookingCreated logs when a booking is created
func (l *Logger) LogBookingCreated(ctx context.Context, bookingID, fieldID, customerID string, totalPrice int64) {
	l.Logger.InfoContext(ctx,
		"Booking Created",
		slog.String("booking_id", bookingID),
		slog.String("field_id", fieldID),
		slog.String("customer_id", customerID),
		slog.Int64("total_price", totalPrice),
	)
}

// LogBookingCancelled logs when a booking is cancelled. The reason only lives here.
func (l *Logger) LogBookingCancelled(ctx context.Context, bookingID, customerID, reason string) {
	l.Logger.InfoContext(ctx,
		"Booking Cancelled",
		slog.String("booking_id", bookingID),
		slog.String("customer_id", customerID),
		slog.String("reason", reason),
	)
}

// LogPaymentProofUploaded logs a proof upload
func (l *Logger) LogPaymentProofUploaded(ctx context.Context, bookingID, customerID string) {
	l.Logger.InfoContext(ctx,
		"Payment Proof Uploaded",
		slog.String("booking_id", bookingID),
		slog.String("customer_id", customerID),
	)
}

// LogPaymentVerified logs an admin approve/reject decision
func (l *Logger) LogPaymentVerified(ctx context.Context, bookingID, adminID string, approved bool) {
	l.Logger.InfoContext(ctx,
		"Payment Verified",
		slog.String("booking_id", bookingID),
		slog.String("admin_id", adminID),
		slog.Bool("approved", approved),
	)
}

// LogNotificationFailed logs a swallowed notification error
func (l *Logger) LogNotificationFailed(ctx context.Context, bookingID string, err error) {
	l.Logger.WarnContext(ctx,
		"Notification Failed",
		slog.String("booking_id", bookingID),
		slog.String("error", err.Error()),
	)
}

// Security logging methods

// LogAuthSuccess logs successful authentication
func (l *Logger) LogAuthSuccess(ctx context.Context, userID, method string) {
	l.Logger.InfoContext(ctx,
		"Authentication Success",
		slog.String("user_id", userID),
		slog.String("method", method),
	)
}

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}
