// SPDX-License-Identifier: MPL-2.0

// Package issue provides structured, user-facing error construction.
//
// Orchestrating external tools produces failures the user has to act on:
// a registry that refused a pull, a destination that is not a repository,
// a missing authentication file. ActionableError carries the operation,
// the resource involved, and concrete suggestions, so the CLI can render
// a message that says what to do next instead of a bare error chain.
package issue
