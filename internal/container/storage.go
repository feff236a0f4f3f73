// SPDX-License-Identifier: MPL-2.0

package container

import "os"

// NestedBuildArgs are the extra storage flags required when building inside
// another container: the default overlay driver cannot nest, so vfs is
// forced on every invocation against the overridden storage root.
// https://access.redhat.com/documentation/en-us/openshift_container_platform/4.1/html/builds/custom-builds-buildah
var NestedBuildArgs = []string{"--storage-driver", "vfs"}

// StorageConfig describes a per-run container storage root override. The
// zero value means the tools use their default storage.
type StorageConfig struct {
	// Root is the --root= storage directory, exclusively owned by this run.
	Root string
	// Nested forces the vfs storage driver for builds running inside a
	// container themselves. Decided once per run, never re-derived per call.
	Nested bool
}

// InContainer reports whether this process itself runs inside a container
// environment, signaled by the conventional "container" environment
// variable set by container runtimes.
func InContainer() bool {
	return os.Getenv("container") != ""
}

// GlobalArgs renders the storage override as tool-level global arguments.
// Returns nil when no root override is configured; the nested flags only
// apply together with a root override.
func (s StorageConfig) GlobalArgs() []string {
	if s.Root == "" {
		return nil
	}
	args := []string{"--root=" + s.Root}
	if s.Nested {
		args = append(args, NestedBuildArgs...)
	}
	return args
}
