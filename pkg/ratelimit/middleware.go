package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"fieldbook/internal/shared/utils/response"
	"fieldbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware charges every request against the bucket of its route template.
// Limiter errors let the request through.
func Middleware(rateLimiter *RateLimiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ip := clientIP(c)
		route := c.FullPath()

		result, err := rateLimiter.IsAllowed(ctx, ip, getRateLimitType(c.Request.Method, route))
		if err != nil {
			log.WithError(err).Warn("rate limit check failed", "ip", ip, "route", route)
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if result.Allowed {
			c.Next()
			return
		}

		log.LogRateLimitExceeded(ctx, ip, route)
		response.RespondJSON(c, "error", http.StatusTooManyRequests, "Rate limit exceeded", nil, gin.H{
			"limit":      result.Limit,
			"reset_time": result.ResetTime,
		})
		c.Abort()
	}
}

type routeRule struct {
	bucket RateLimitType
	match  func(method, path string) bool
}

func prefix(p string) func(string, string) bool {
	return func(_, path string) bool { return strings.HasPrefix(path, p) }
}

func contains(s string) func(string, string) bool {
	return func(_, path string) bool { return strings.Contains(path, s) }
}

// first match wins
var routeRules = []routeRule{
	{RateLimitTypeHealth, prefix("/health")},
	{RateLimitTypeHealth, prefix("/ping")},
	{RateLimitTypeHealth, prefix("/status")},
	{RateLimitTypeAnalytics, contains("/admin/bookings/stats")},
	{RateLimitTypeAuth, contains("/auth/")},
	{RateLimitTypeAdmin, contains("/admin/")},
	// slot-locking writes and uploads
	{RateLimitTypeBookingCritical, func(method, path string) bool {
		return method == http.MethodPost && strings.HasSuffix(path, "/bookings")
	}},
	{RateLimitTypeBookingCritical, func(_, path string) bool {
		return strings.Contains(path, "/bookings/") &&
			(strings.HasSuffix(path, "/cancel") || strings.HasSuffix(path, "/upload-payment"))
	}},
	{RateLimitTypeBooking, contains("/bookings")},
	{RateLimitTypePublic, contains("/mobile/fields")},
	{RateLimitTypeUser, contains("/profile")},
}

func getRateLimitType(method, path string) RateLimitType {
	for _, rule := range routeRules {
		if rule.match(method, path) {
			return rule.bucket
		}
	}
	return RateLimitTypeDefault
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the socket peer
func clientIP(c *gin.Context) string {
	if first, _, _ := strings.Cut(c.GetHeader("X-Forwarded-For"), ","); first != "" {
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
