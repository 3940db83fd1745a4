// Command cachecheck smoke-tests the Redis read-through caches of a running
// server: it requests each cached endpoint twice and confirms the cache key
// appeared in Redis after the first call.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"fieldbook/internal/shared/config"
	"fieldbook/internal/shared/constants"
	"fieldbook/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type checkResult struct {
	Name       string        `json:"name"`
	Endpoint   string        `json:"endpoint"`
	CacheKey   string        `json:"cacheKey"`
	Cached     bool          `json:"cached"`
	FirstCall  time.Duration `json:"firstCall"`
	SecondCall time.Duration `json:"secondCall"`
	Error      string        `json:"error,omitempty"`
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type checker struct {
	baseURL string
	token   string
	client  *http.Client
	redis   *redis.Client
	log     *logger.Logger
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	baseURL := flag.String("base-url", "http://localhost:"+cfg.Port+cfg.GetAPIBasePath(), "API base URL")
	email := flag.String("email", "superadmin@fieldbook.id", "admin email")
	password := flag.String("password", "qwerty123", "admin password")
	out := flag.String("out", "", "write JSON results to this file")
	flag.Parse()

	log := logger.New().WithComponent("cachecheck")
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Error("Redis connection failed")
		os.Exit(1)
	}

	c := &checker{
		baseURL: *baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		redis:   rdb,
		log:     log,
	}
	if err := c.login(*email, *password); err != nil {
		log.WithError(err).Error("Admin login failed")
		os.Exit(1)
	}

	// start from a cold cache so the first call is a guaranteed miss
	for _, pattern := range []string{
		constants.PATTERN_INVALIDATE_VENUES_ALL,
		constants.PATTERN_INVALIDATE_FIELDS_ALL,
		constants.PATTERN_INVALIDATE_ANALYTICS,
	} {
		if err := deletePattern(ctx, rdb, pattern); err != nil {
			log.WithError(err).Warn("Failed to clear cache pattern", "pattern", pattern)
		}
	}

	venueID, err := c.firstID("/admin/venues?limit=1")
	if err != nil {
		log.WithError(err).Error("Could not find a venue, run cmd/seed first")
		os.Exit(1)
	}
	fieldID, err := c.firstID("/admin/fields?limit=1")
	if err != nil {
		log.WithError(err).Error("Could not find a field, run cmd/seed first")
		os.Exit(1)
	}

	checks := []struct{ name, endpoint, key string }{
		{"Venue detail", "/admin/venues/" + venueID, constants.BuildVenueDetailKey(venueID)},
		{"Field detail", "/admin/fields/" + fieldID, constants.BuildFieldDetailKey(fieldID)},
		{"Booking stats", "/admin/bookings/stats", constants.BuildBookingStatsKey("", time.Now().In(cfg.Location))},
	}

	var results []checkResult
	failed := 0
	for _, chk := range checks {
		r := c.check(ctx, chk.name, chk.endpoint, chk.key)
		if !r.Cached || r.Error != "" {
			failed++
		}
		log.Info("Checked endpoint",
			"name", r.Name,
			"cached", r.Cached,
			"first_call", r.FirstCall,
			"second_call", r.SecondCall,
			"error", r.Error,
		)
		results = append(results, r)
	}

	if *out != "" {
		data, _ := json.MarshalIndent(results, "", "  ")
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			log.WithError(err).Error("Failed to write results", "file", *out)
		}
	}

	if failed > 0 {
		log.Error("Cache check failed", "failed", failed, "total", len(results))
		os.Exit(1)
	}
	log.Info("All cached endpoints populated Redis", "total", len(results))
}

func (c *checker) login(email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := c.client.Post(c.baseURL+"/admin/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login returned HTTP %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return err
	}
	var data struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return err
	}
	c.token = data.AccessToken
	return nil
}

func (c *checker) get(endpoint string) (json.RawMessage, time.Duration, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, time.Since(start), err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return nil, elapsed, err
	}
	if resp.StatusCode >= 400 {
		return nil, elapsed, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, elapsed, err
	}
	return env.Data, elapsed, nil
}

func (c *checker) firstID(endpoint string) (string, error) {
	data, _, err := c.get(endpoint)
	if err != nil {
		return "", err
	}
	var items []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", fmt.Errorf("%s returned no items", endpoint)
	}
	return items[0].ID, nil
}

func (c *checker) check(ctx context.Context, name, endpoint, key string) checkResult {
	r := checkResult{Name: name, Endpoint: endpoint, CacheKey: key}

	_, first, err := c.get(endpoint)
	r.FirstCall = first
	if err != nil {
		r.Error = err.Error()
		return r
	}

	n, err := c.redis.Exists(ctx, key).Result()
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Cached = n == 1

	_, second, err := c.get(endpoint)
	r.SecondCall = second
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

func deletePattern(ctx context.Context, rdb *redis.Client, pattern string) error {
	iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
