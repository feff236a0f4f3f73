// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidRetryConfig is returned when retry tuning is out of range.
	ErrInvalidRetryConfig = errors.New("invalid retry config")
	// ErrInvalidPath is returned when a configured path is whitespace-only.
	ErrInvalidPath = errors.New("invalid path")
)

type (
	// Config is the resolved oscontainer configuration.
	Config struct {
		// CertDir is an extra certificate directory for registry TLS.
		// The zero value means "use the tools' defaults".
		CertDir string `mapstructure:"cert_dir"`

		// AuthFile is the registry authentication file.
		AuthFile string `mapstructure:"authfile"`

		// DisableTLSVerify turns off certificate verification.
		DisableTLSVerify bool `mapstructure:"disable_tls_verify"`

		// Workdir is the working directory for container storage and
		// temporary files. The zero value means "operate on the host's
		// default storage".
		Workdir string `mapstructure:"workdir"`

		// Retry tunes the transient-failure retry loop.
		Retry RetryConfig `mapstructure:"retry"`
	}

	// RetryConfig tunes retries of transient registry operations.
	RetryConfig struct {
		// Attempts is the total number of attempts, including the first.
		Attempts int `mapstructure:"attempts"`

		// DelaySeconds is the fixed delay between attempts.
		DelaySeconds int `mapstructure:"delay_seconds"`
	}

	// InvalidConfigError aggregates the validation failures of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		Causes []error
	}

	// InvalidRetryConfigError is returned when retry tuning is out of range.
	// It wraps ErrInvalidRetryConfig for errors.Is() compatibility.
	InvalidRetryConfigError struct {
		Field string
		Value int
	}

	// InvalidPathError is returned when a configured path is non-empty but
	// whitespace-only. It wraps ErrInvalidPath for errors.Is() compatibility.
	InvalidPathError struct {
		Field string
		Value string
	}
)

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Retry: RetryConfig{
			Attempts:     5,
			DelaySeconds: 5,
		},
	}
}

// Delay returns the configured inter-attempt delay as a Duration.
func (r RetryConfig) Delay() time.Duration {
	return time.Duration(r.DelaySeconds) * time.Second
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.Causes))
	for _, cause := range e.Causes {
		msgs = append(msgs, cause.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns the sentinel plus every individual cause.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.Causes...)
}

// Error implements the error interface.
func (e *InvalidRetryConfigError) Error() string {
	return fmt.Sprintf("retry.%s: value %d is out of range", e.Field, e.Value)
}

// Unwrap returns ErrInvalidRetryConfig for errors.Is() checks.
func (e *InvalidRetryConfigError) Unwrap() error { return ErrInvalidRetryConfig }

// Error implements the error interface.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("%s: path %q is whitespace-only", e.Field, e.Value)
}

// Unwrap returns ErrInvalidPath for errors.Is() checks.
func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }

// Validate checks constraints the CUE schema cannot express on values that
// may also arrive via environment variables or flags, which bypass CUE.
func (c *Config) Validate() error {
	var causes []error

	if c.Retry.Attempts < 1 {
		causes = append(causes, &InvalidRetryConfigError{Field: "attempts", Value: c.Retry.Attempts})
	}
	if c.Retry.DelaySeconds < 0 {
		causes = append(causes, &InvalidRetryConfigError{Field: "delay_seconds", Value: c.Retry.DelaySeconds})
	}

	for field, value := range map[string]string{
		"cert_dir": c.CertDir,
		"authfile": c.AuthFile,
		"workdir":  c.Workdir,
	} {
		if value != "" && strings.TrimSpace(value) == "" {
			causes = append(causes, &InvalidPathError{Field: field, Value: value})
		}
	}

	if len(causes) == 0 {
		return nil
	}
	return &InvalidConfigError{Causes: causes}
}
