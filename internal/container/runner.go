// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrProcess is the sentinel error wrapped by ProcessError.
var ErrProcess = errors.New("external command failed")

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// ToolOption configures a Tool.
	ToolOption func(*Tool)

	// Tool runs one external binary with a fixed set of global arguments
	// prepended to every invocation. It is the shared runner underneath the
	// podman, buildah, ostree, rpm-ostree, and cp surfaces.
	Tool struct {
		binaryPath  string
		globalArgs  []string
		execCommand ExecCommandFunc
		echo        io.Writer // destination for "+ <cmdline>" lines
	}

	// ProcessError is returned when an external command exits nonzero or
	// fails to start. Callers decide whether it is fatal or retryable.
	ProcessError struct {
		Binary   string
		Args     []string
		ExitCode int // -1 when the process never ran
		Err      error
	}
)

// Error implements the error interface.
func (e *ProcessError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("command %s %s failed with exit status %d",
			e.Binary, strings.Join(e.Args, " "), e.ExitCode)
	}
	return fmt.Sprintf("command %s %s failed: %v", e.Binary, strings.Join(e.Args, " "), e.Err)
}

// Unwrap returns ErrProcess so callers can use errors.Is for programmatic
// detection (the retry wrapper relies on this).
func (e *ProcessError) Unwrap() error { return ErrProcess }

// --- Option Functions ---

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) ToolOption {
	return func(t *Tool) {
		t.execCommand = fn
	}
}

// WithGlobalArgs prepends args to every invocation of the tool. Used for
// per-run storage root overrides (--root=DIR) and nested-build flags.
func WithGlobalArgs(args ...string) ToolOption {
	return func(t *Tool) {
		t.globalArgs = append(t.globalArgs, args...)
	}
}

// WithEchoWriter redirects the "+ <cmdline>" diagnostic lines printed by
// RunEchoed. Defaults to stderr.
func WithEchoWriter(w io.Writer) ToolOption {
	return func(t *Tool) {
		t.echo = w
	}
}

// --- Constructor ---

// NewTool creates a runner for the named binary. The binary is resolved via
// exec.LookPath; if resolution fails the bare name is kept so the failure
// surfaces on first use with a meaningful error.
func NewTool(binary string, opts ...ToolOption) *Tool {
	path, err := exec.LookPath(binary)
	if err != nil {
		path = binary
	}
	t := &Tool{
		binaryPath:  path,
		execCommand: exec.CommandContext,
		echo:        os.Stderr,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BinaryPath returns the resolved path of the tool binary.
func (t *Tool) BinaryPath() string {
	return t.binaryPath
}

// command builds the exec.Cmd with global arguments prepended.
func (t *Tool) command(ctx context.Context, args []string) (*exec.Cmd, []string) {
	full := make([]string, 0, len(t.globalArgs)+len(args))
	full = append(full, t.globalArgs...)
	full = append(full, args...)
	return t.execCommand(ctx, t.binaryPath, full...), full
}

// wrapErr converts an exec error into a ProcessError.
func (t *Tool) wrapErr(args []string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ProcessError{Binary: t.binaryPath, Args: args, ExitCode: exitErr.ExitCode(), Err: err}
	}
	return &ProcessError{Binary: t.binaryPath, Args: args, ExitCode: -1, Err: err}
}

// RunText executes the command, capturing stdout as trimmed text.
// Stderr passes through to the caller's stderr.
func (t *Tool) RunText(ctx context.Context, args ...string) (string, error) {
	cmd, full := t.command(ctx, args)
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		return "", t.wrapErr(full, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// RunJSON executes the command and decodes its stdout into out.
func (t *Tool) RunJSON(ctx context.Context, out any, args ...string) error {
	cmd, full := t.command(ctx, args)
	cmd.Stderr = os.Stderr
	raw, err := cmd.Output()
	if err != nil {
		return t.wrapErr(full, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s output: %w", t.binaryPath, err)
	}
	return nil
}

// RunEchoed prints the full command line as a "+ <cmdline>" diagnostic
// before executing with inherited standard streams.
func (t *Tool) RunEchoed(ctx context.Context, args ...string) error {
	cmd, full := t.command(ctx, args)
	fmt.Fprintf(t.echo, "+ %s %s\n", t.binaryPath, strings.Join(full, " "))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return t.wrapErr(full, err)
	}
	return nil
}

// RunQuiet executes the command with stdout discarded. Stderr still passes
// through so failures stay diagnosable. Used for cleanup steps and
// precondition probes whose output is noise.
func (t *Tool) RunQuiet(ctx context.Context, args ...string) error {
	cmd, full := t.command(ctx, args)
	cmd.Stdout = io.Discard
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return t.wrapErr(full, err)
	}
	return nil
}
