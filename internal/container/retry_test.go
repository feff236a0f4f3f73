// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"testing"
	"time"
)

func processErr() error {
	return &ProcessError{Binary: "podman", Args: []string{"pull"}, ExitCode: 125}
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetry_TransientThenSucceeds(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return processErr()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_ExhaustionInvokesExactlyAttempts(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return processErr()
	})
	if calls != 5 {
		t.Fatalf("expected exactly 5 calls, got %d", calls)
	}
	// The final failure must propagate unguarded with full detail.
	var perr *ProcessError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProcessError, got %v", err)
	}
	if perr.ExitCode != 125 {
		t.Errorf("expected exit code 125, got %d", perr.ExitCode)
	}
}

func TestRetry_LogicalErrorNotRetried(t *testing.T) {
	t.Parallel()
	calls := 0
	logical := errors.New("image has no commit label")
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return logical
	})
	if !errors.Is(err, logical) {
		t.Fatalf("expected logical error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetry_ContextCancelledBetweenAttempts(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Millisecond, func() error {
		calls++
		cancel()
		return processErr()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetry_FixedDelayElapses(t *testing.T) {
	t.Parallel()
	delay := 30 * time.Millisecond
	start := time.Now()
	calls := 0
	_ = Retry(context.Background(), 4, delay, func() error {
		calls++
		if calls < 3 {
			return processErr()
		}
		return nil
	})
	elapsed := time.Since(start)
	// Two transient failures before success: total delay ~= 2 * fixed delay.
	if elapsed < 2*delay {
		t.Fatalf("expected at least %v of delay, got %v", 2*delay, elapsed)
	}
}
