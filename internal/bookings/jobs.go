package bookings

import (
	"context"
	"sync"
	"time"

	"fieldbook/internal/shared/constants"
	"fieldbook/pkg/cache"
	"fieldbook/pkg/logger"
)

// JobProcessor runs booking housekeeping in the background
type JobProcessor struct {
	repo   Repository
	cache  cache.Service
	config *JobConfig
	log    *logger.Logger
	now    func() time.Time

	done chan struct{}
	wg   sync.WaitGroup
}

type JobConfig struct {
	CompletionInterval time.Duration
	BatchSize          int
}

func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		CompletionInterval: 5 * time.Minute,
		BatchSize:          100,
	}
}

func NewJobProcessor(repo Repository, cacheService cache.Service, config *JobConfig, log *logger.Logger) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}
	if cacheService == nil {
		cacheService = cache.NewNoop()
	}
	return &JobProcessor{
		repo:   repo,
		cache:  cacheService,
		config: config,
		log:    log.WithComponent("booking-jobs"),
		now:    time.Now,
		done:   make(chan struct{}),
	}
}

func (jp *JobProcessor) Start(ctx context.Context) {
	jp.wg.Add(1)
	go func() {
		defer jp.wg.Done()
		jp.startCompletionProcessor(ctx)
	}()
	jp.log.Info("Booking background jobs started", "completion_interval", jp.config.CompletionInterval)
}

func (jp *JobProcessor) Stop() {
	close(jp.done)
	jp.wg.Wait()
	jp.log.Info("Booking background jobs stopped")
}

func (jp *JobProcessor) startCompletionProcessor(ctx context.Context) {
	ticker := time.NewTicker(jp.config.CompletionInterval)
	defer ticker.Stop()

	// catch up on anything that ended while the server was down
	jp.processFinished(ctx)

	for {
		select {
		case <-ticker.C:
			jp.processFinished(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) processFinished(ctx context.Context) {
	completed, err := jp.CompleteFinished(ctx)
	if err != nil {
		jp.log.WithError(err).Error("Error completing finished bookings", "completed", completed)
		return
	}
	if completed > 0 {
		jp.log.Info("Completed finished bookings", "count", completed)
	}
}

// CompleteFinished moves every PAID booking whose slot has ended to COMPLETED, batch by batch
func (jp *JobProcessor) CompleteFinished(ctx context.Context) (int64, error) {
	now := jp.now()
	var total int64
	for {
		n, err := jp.repo.CompleteFinished(ctx, now, jp.config.BatchSize)
		total += n
		if err != nil {
			return total, err
		}
		if n < int64(jp.config.BatchSize) {
			break
		}
	}

	if total > 0 {
		if err := jp.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_ANALYTICS); err != nil {
			jp.log.Warn("Failed to invalidate booking stats cache", "error", err)
		}
	}
	return total, nil
}
