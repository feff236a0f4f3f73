// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"oscontainer/internal/container"
)

// workdirState is the per-run storage and temp-file placement derived from
// the --workdir flag.
type workdirState struct {
	// Storage is the container storage override for podman and buildah.
	Storage container.StorageConfig
	// TempDir is the directory for transient files, empty when no workdir
	// is configured.
	TempDir string
}

// prepareWorkdir sets up the working directory layout: a fresh
// containers-storage root and a fresh tmp directory. The returned cleanup
// removes the storage root again; the transient container storage is never
// worth keeping between runs, and on CI volumes it is large.
func prepareWorkdir(path string) (workdirState, func(), error) {
	if path == "" {
		return workdirState{}, func() {}, nil
	}

	storageRoot := filepath.Join(path, "containers-storage")
	if err := os.RemoveAll(storageRoot); err != nil {
		return workdirState{}, nil, fmt.Errorf("clean container storage: %w", err)
	}

	tempDir := filepath.Join(path, "tmp")
	if err := os.RemoveAll(tempDir); err != nil {
		return workdirState{}, nil, fmt.Errorf("clean temp directory: %w", err)
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return workdirState{}, nil, fmt.Errorf("create temp directory: %w", err)
	}

	nested := container.InContainer()
	if nested {
		slog.Info("using nested container mode due to container environment variable")
	} else {
		slog.Debug("skipping nested container mode")
	}

	cleanup := func() {
		if err := os.RemoveAll(storageRoot); err != nil {
			slog.Warn("failed to remove container storage", "path", storageRoot, "error", err)
		}
	}

	return workdirState{
		Storage: container.StorageConfig{Root: storageRoot, Nested: nested},
		TempDir: tempDir,
	}, cleanup, nil
}

// registryOptions assembles the registry flags from the resolved global
// flag and config state.
func registryOptions() container.RegistryOptions {
	return container.RegistryOptions{
		TLSVerify: !disableTLSVerify,
		AuthFile:  authFile,
		CertDir:   certDir,
	}
}
