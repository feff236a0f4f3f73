// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "extract oscontainer"},
			expected: "failed to extract oscontainer",
		},
		{
			name: "operation and resource",
			err: &ActionableError{
				Operation: "extract oscontainer",
				Resource:  "quay.io/example/os:latest",
			},
			expected: "failed to extract oscontainer: quay.io/example/os:latest",
		},
		{
			name: "operation, resource, and cause",
			err: &ActionableError{
				Operation: "push image",
				Resource:  "quay.io/example/os:latest",
				Cause:     errors.New("connection refused"),
			},
			expected: "failed to push image: quay.io/example/os:latest: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()
	cause := errors.New("permission denied")
	err := WrapWithOperation(cause, "mount container")

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
}

func TestWrapWithOperation_NilError(t *testing.T) {
	t.Parallel()
	if got := WrapWithOperation(nil, "anything"); got != nil {
		t.Errorf("expected nil for a nil cause, got %v", got)
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()
	err := NewErrorContext().
		WithOperation("extract oscontainer").
		WithResource("quay.io/example/os:latest").
		WithSuggestion("Check that the registry is reachable").
		WithSuggestion("Pass --tls-verify=false for a plain-HTTP registry").
		Wrap(errors.New("pull failed")).
		Build()

	concise := err.Format(false)
	if !strings.Contains(concise, "failed to extract oscontainer") {
		t.Errorf("missing main message in %q", concise)
	}
	if !strings.Contains(concise, "• Check that the registry is reachable") {
		t.Errorf("missing first suggestion in %q", concise)
	}
	if strings.Contains(concise, "Error chain:") {
		t.Error("non-verbose output must not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Error("verbose output must include the error chain")
	}
	if !strings.Contains(verbose, "1. pull failed") {
		t.Errorf("missing chain entry in %q", verbose)
	}
}

func TestErrorContext_BuildRequiresOperation(t *testing.T) {
	t.Parallel()
	if got := NewErrorContext().WithResource("something").Build(); got != nil {
		t.Errorf("expected nil without an operation, got %v", got)
	}
}

func TestActionableError_HasSuggestions(t *testing.T) {
	t.Parallel()
	with := NewErrorContext().WithOperation("op").WithSuggestion("s").Build()
	without := NewErrorContext().WithOperation("op").Build()

	if !with.HasSuggestions() {
		t.Error("expected HasSuggestions to be true")
	}
	if without.HasSuggestions() {
		t.Error("expected HasSuggestions to be false")
	}
}
