// SPDX-License-Identifier: MPL-2.0

package oscontainer

// Label keys applied to built images and consumed from pulled ones.
const (
	// CommitLabel identifies the ostree commit embedded in an oscontainer.
	// An image without this label is not an oscontainer.
	CommitLabel = "com.coreos.ostree-commit"

	// VersionLabel carries the commit's version metadata when present.
	VersionLabel = "version"

	// AssemblerCommitLabel records the git commit of the image generator.
	AssemblerCommitLabel = "com.coreos.coreos-assembler-commit"

	// OSCommitLabel records the git commit of the OS source tree.
	OSCommitLabel = "com.coreos.redhat-coreos-commit"

	// DisplayNamesLabel is the OpenShift component display-name mapping.
	DisplayNamesLabel = "io.openshift.build.version-display-names"

	// BuildVersionsLabel is the OpenShift component version mapping.
	BuildVersionsLabel = "io.openshift.build.versions"
)

// EmbeddedRepoPath is where the ostree repository lives inside an
// oscontainer image's filesystem.
const EmbeddedRepoPath = "srv/repo"

// ManifestFileName is the package manifest written at the image root.
const ManifestFileName = "pkglist.txt"

// NoopEntrypoint tricks podman create into accepting the image; an
// oscontainer is never meant to run.
const NoopEntrypoint = `["/noentry"]`
