// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Default retry tuning for remote registry operations (pull, inspect).
const (
	DefaultRetryAttempts = 5
	DefaultRetryDelay    = 5 * time.Second
)

// Retry invokes op up to attempts times with a fixed delay between tries.
// Only process failures (ErrProcess) are retried; any other error returns
// immediately — logical errors such as a missing label must never be
// retried. The final attempt runs outside the guarded loop so its failure
// propagates with full detail instead of a wrapped or aggregated error.
// Context cancellation is honored between attempts.
func Retry(ctx context.Context, attempts int, delay time.Duration, op func() error) error {
	for i := 1; i < attempts; i++ {
		err := op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrProcess) {
			return err
		}
		slog.Warn("transient command failure, retrying", "error", err, "delay", delay)
		if cerr := ctx.Err(); cerr != nil {
			return fmt.Errorf("retry aborted: %w", cerr)
		}
		time.Sleep(delay)
	}
	return op()
}
