package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ryosukesatoh/letter-insight/internal/apperr"
)

// Config holds retry configuration
type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultConfig returns a default retry configuration
func DefaultConfig() Config {
	return Config{
		MaxRetries: 2,
		BaseDelay:  1 * time.Second,
	}
}

// WithBackoff executes a function with exponential backoff retry logic.
// Only throttling errors are retried: inference calls are user-triggered
// and latency-sensitive, so auth failures, outages, and caller mistakes
// surface immediately instead of burning the attempt budget.
func WithBackoff(ctx context.Context, config Config, operation func(context.Context) error) error {
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		err := operation(ctx)
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return err
		}

		// Don't retry on the last attempt
		if attempt == config.MaxRetries {
			return fmt.Errorf("operation failed after %d attempts: %w", config.MaxRetries+1, err)
		}

		// Calculate exponential backoff delay with jitter
		baseDelay := config.BaseDelay * time.Duration(1<<attempt)
		jitter := time.Duration(rand.Int63n(int64(config.BaseDelay)))
		delay := baseDelay + jitter

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			// Continue to next attempt
		}
	}

	return nil // Should never reach here
}

// isRetryable determines if an error is worth retrying
func isRetryable(err error) bool {
	return apperr.Is(err, apperr.KindInferenceThrottled)
}
