// SPDX-License-Identifier: MPL-2.0

// Package container drives the external container tooling (podman, buildah)
// through their CLIs.
//
// The Tool type is the low-level process runner: it resolves a binary,
// carries per-run global arguments (storage root overrides, nested-build
// flags), and executes commands in one of four modes (JSON capture, text
// capture, echoed pass-through, quiet). Podman and Buildah wrap a Tool with
// the specific command surfaces this program needs. Nonzero exits surface
// as *ProcessError wrapping ErrProcess; Retry re-runs operations that fail
// that way, which is how transient registry failures are absorbed.
package container
