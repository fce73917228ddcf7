package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/vankhoa205/tweet-extractor-service/pkg/logger"
)

type Config struct {
	// MaxAttempts is the total number of tries, the first one included.
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialInterval: 1 * time.Second,
		MaxInterval:     8 * time.Second,
		Multiplier:      2.0,
	}
}

// Permanent marks err as non-retryable: Do returns it immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs operation until it succeeds, returns a permanent error, the
// context is cancelled, or cfg.MaxAttempts is exhausted. Delays between
// attempts follow the configured schedule exactly (no jitter), doubling by
// Multiplier up to MaxInterval.
func Do(ctx context.Context, log logger.Logger, operationName string, operation func() error, cfg Config) error {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.InitialInterval
	bo.MaxInterval = cfg.MaxInterval
	bo.Multiplier = cfg.Multiplier
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()

	retryable := backoff.WithMaxRetries(bo, uint64(maxAttempts-1))
	retryableWithContext := backoff.WithContext(retryable, ctx)

	notify := func(err error, t time.Duration) {
		log.Warn(
			"Operation failed, retrying...",
			"operation", operationName,
			"error", err,
			"next_attempt_in", t.Round(time.Millisecond).String(),
		)
	}

	return backoff.RetryNotify(operation, retryableWithContext, notify)
}
