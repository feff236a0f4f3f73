// SPDX-License-Identifier: MPL-2.0

// Package oscontainer implements the two operations on oscontainer images:
// extracting the embedded ostree repository out of an image, and building
// a new image around a repository commit.
//
// An oscontainer is an OCI image carrying an ostree archive repository at
// /srv/repo, identified by the com.coreos.ostree-commit label. Both flows
// are orchestration over external tools (podman, buildah, ostree,
// rpm-ostree); the one invariant handled here with care is that every
// mounted instance is unmounted and removed on every exit path.
package oscontainer
