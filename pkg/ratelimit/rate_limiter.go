package ratelimit

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitType names a bucket of routes sharing one per-client budget
type RateLimitType string

const (
	RateLimitTypeDefault         RateLimitType = "default"
	RateLimitTypePublic          RateLimitType = "public"
	RateLimitTypeAuth            RateLimitType = "auth"
	RateLimitTypeBooking         RateLimitType = "booking"
	RateLimitTypeBookingCritical RateLimitType = "booking_critical"
	RateLimitTypeAdmin           RateLimitType = "admin"
	RateLimitTypeAnalytics       RateLimitType = "analytics"
	RateLimitTypeUser            RateLimitType = "user"
	RateLimitTypeHealth          RateLimitType = "health"
)

type Config struct {
	Enabled                 bool          `json:"enabled"`
	WindowDuration          time.Duration `json:"window_duration"`
	DefaultRequests         int           `json:"default_requests"`
	PublicRequests          int           `json:"public_requests"`
	AuthRequests            int           `json:"auth_requests"`
	BookingRequests         int           `json:"booking_requests"`
	BookingCriticalRequests int           `json:"booking_critical_requests"`
	AdminRequests           int           `json:"admin_requests"`
	AnalyticsRequests       int           `json:"analytics_requests"`
	UserRequests            int           `json:"user_requests"`
	HealthRequests          int           `json:"health_requests"`
	WhitelistedIPs          []string      `json:"whitelisted_ips"`
}

type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// RateLimiter is a sliding-window limiter backed by a Redis sorted set per client and bucket.
// A nil client disables limiting.
type RateLimiter struct {
	client *redis.Client
	config *Config
	script *redis.Script
	now    func() time.Time

	limits       map[RateLimitType]int
	allowIPs     map[string]struct{}
	allowNetwork []*net.IPNet
}

// Members are nanosecond timestamps with a sequence suffix, so bursts inside
// the same instant are all counted.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)
	if count >= limit then
		redis.call('PEXPIRE', key, window_ms)
		return {count + 1, 0}
	end

	local seq = redis.call('INCR', key .. ':seq')
	redis.call('PEXPIRE', key .. ':seq', window_ms)
	redis.call('ZADD', key, now, now .. '-' .. seq)
	redis.call('PEXPIRE', key, window_ms)

	return {count + 1, limit - count - 1}
`)

func NewRateLimiter(client *redis.Client, config *Config) *RateLimiter {
	r := &RateLimiter{
		client: client,
		config: config,
		script: slidingWindow,
		now:    time.Now,
		limits: map[RateLimitType]int{
			RateLimitTypeDefault:         config.DefaultRequests,
			RateLimitTypePublic:          config.PublicRequests,
			RateLimitTypeAuth:            config.AuthRequests,
			RateLimitTypeBooking:         config.BookingRequests,
			RateLimitTypeBookingCritical: config.BookingCriticalRequests,
			RateLimitTypeAdmin:           config.AdminRequests,
			RateLimitTypeAnalytics:       config.AnalyticsRequests,
			RateLimitTypeUser:            config.UserRequests,
			RateLimitTypeHealth:          config.HealthRequests,
		},
		allowIPs: map[string]struct{}{},
	}

	// entries are exact IPs or CIDR ranges
	for _, entry := range config.WhitelistedIPs {
		if _, network, err := net.ParseCIDR(entry); err == nil {
			r.allowNetwork = append(r.allowNetwork, network)
			continue
		}
		r.allowIPs[entry] = struct{}{}
	}
	return r
}

func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.getLimit(limitType)
	now := r.now()

	if !r.config.Enabled || r.client == nil || r.isWhitelisted(clientIP) {
		return &Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: now.Add(r.config.WindowDuration).Unix(),
		}, nil
	}

	key := fmt.Sprintf("fieldbook:ratelimit:%s:%s", clientIP, limitType)
	return r.checkLimit(ctx, key, limit, now)
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, now time.Time) (*Result, error) {
	windowStart := now.Add(-r.config.WindowDuration)

	values, err := r.script.Run(ctx, r.client, []string{key},
		windowStart.UnixNano(),
		now.UnixNano(),
		limit,
		r.config.WindowDuration.Milliseconds()).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected sliding window reply: %v", values)
	}

	return &Result{
		Allowed:   int(values[0]) <= limit,
		Limit:     limit,
		Remaining: int(values[1]),
		ResetTime: now.Add(r.config.WindowDuration).Unix(),
	}, nil
}

// getLimit falls back to the default budget for unknown or unset buckets
func (r *RateLimiter) getLimit(limitType RateLimitType) int {
	if limit, ok := r.limits[limitType]; ok && limit > 0 {
		return limit
	}
	return r.config.DefaultRequests
}

func (r *RateLimiter) isWhitelisted(ip string) bool {
	if _, ok := r.allowIPs[ip]; ok {
		return true
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, network := range r.allowNetwork {
		if network.Contains(parsed) {
			return true
		}
	}
	return false
}
