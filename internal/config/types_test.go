// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
	"time"
)

func TestRetryConfig_Delay(t *testing.T) {
	t.Parallel()
	r := RetryConfig{DelaySeconds: 7}
	if got := r.Delay(); got != 7*time.Second {
		t.Errorf("expected 7s, got %v", got)
	}
}

func TestDefaultConfig_IsValid(t *testing.T) {
	t.Parallel()
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}
}

func TestInvalidRetryConfigError(t *testing.T) {
	t.Parallel()
	var err error = &InvalidRetryConfigError{Field: "attempts", Value: -1}
	if !errors.Is(err, ErrInvalidRetryConfig) {
		t.Error("expected errors.Is match on the sentinel")
	}
	if err.Error() != "retry.attempts: value -1 is out of range" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestInvalidPathError(t *testing.T) {
	t.Parallel()
	var err error = &InvalidPathError{Field: "workdir", Value: " "}
	if !errors.Is(err, ErrInvalidPath) {
		t.Error("expected errors.Is match on the sentinel")
	}
}
