package cache

import (
	"context"
	"time"
)

const (
	connectAttempts = 3
	connectDelay    = 200 * time.Millisecond
)

// retry calls fn until it succeeds, attempts are used up or ctx ends.
// The delay doubles after every failure. The last error is returned.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error
	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
