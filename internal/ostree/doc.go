// SPDX-License-Identifier: MPL-2.0

// Package ostree drives the ostree and rpm-ostree CLIs against on-disk
// repositories.
//
// Repo scopes every invocation to one repository via --repo=. All the
// content-addressed heavy lifting (dedup, commit graph integrity, the
// archive object store) lives inside the external tools; this package only
// expresses the handful of operations the extract and build flows need:
// ref listing and creation, revision resolution, optional commit version
// metadata, archive-mode initialization, and local pulls.
package ostree
