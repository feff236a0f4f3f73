// SPDX-License-Identifier: MPL-2.0

package oscontainer

import "errors"

// ErrPrecondition is the sentinel error wrapped by PreconditionError.
var ErrPrecondition = errors.New("precondition failed")

// PreconditionError is returned for logical failures that must never be
// retried: a source image without the commit label, a display name without
// a resolvable version, a destination that is not a repository.
type PreconditionError struct {
	Reason string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string { return e.Reason }

// Unwrap returns ErrPrecondition so callers can use errors.Is for
// programmatic detection.
func (e *PreconditionError) Unwrap() error { return ErrPrecondition }
