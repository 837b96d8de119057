package calendarsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/organizer/core"
)

// retry runs fn until it succeeds, fails with a non retryable error or maxAttempts is reached.
// The wait doubles after each attempt. The last error is returned as a *core.ProviderError.
func retry(ctx context.Context, logger core.Logger, maxAttempts int, backoff time.Duration, op string, fn func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !retryable(err) || attempt == maxAttempts {
			break
		}
		logger.Warn(fmt.Sprintf("%s: attempt %d/%d failed, retrying in %s", op, attempt, maxAttempts, backoff), err)

		select {
		case <-ctx.Done():
			return core.NewProviderError(op, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return core.NewProviderError(op, err)
}
