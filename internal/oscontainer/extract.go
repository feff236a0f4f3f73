// SPDX-License-Identifier: MPL-2.0

package oscontainer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"oscontainer/internal/container"
	"oscontainer/internal/ostree"
)

type (
	// ExtractOptions are the inputs to one extraction.
	ExtractOptions struct {
		// Source is the image reference to pull.
		Source string
		// Dest is the path of an already-initialized ostree repository.
		Dest string
		// Ref, when non-empty, is created in Dest pointing at the
		// imported commit.
		Ref string
		// Registry carries the TLS/auth/cert flags for the pull.
		Registry container.RegistryOptions
		// TempDir overrides TMPDIR for the run so large transient
		// downloads land on the intended volume.
		TempDir string
	}

	// ExtractorOption configures an Extractor.
	ExtractorOption func(*Extractor)

	// Extractor pulls an oscontainer image and imports its embedded
	// commit into a local repository.
	Extractor struct {
		podman  *container.Podman
		newRepo func(path string) *ostree.Repo

		retryAttempts int
		retryDelay    time.Duration
	}
)

// WithExtractRetryPolicy overrides the retry tuning for the remote pull
// and inspect steps.
func WithExtractRetryPolicy(attempts int, delay time.Duration) ExtractorOption {
	return func(x *Extractor) {
		x.retryAttempts = attempts
		x.retryDelay = delay
	}
}

// WithExtractRepoConstructor injects the ostree repo constructor; tests
// use this to route repository commands through a mock exec.
func WithExtractRepoConstructor(fn func(path string) *ostree.Repo) ExtractorOption {
	return func(x *Extractor) {
		x.newRepo = fn
	}
}

// NewExtractor creates an Extractor running image operations through podman.
func NewExtractor(podman *container.Podman, opts ...ExtractorOption) *Extractor {
	x := &Extractor{
		podman:        podman,
		newRepo:       func(path string) *ostree.Repo { return ostree.NewRepo(path) },
		retryAttempts: container.DefaultRetryAttempts,
		retryDelay:    container.DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract pulls opts.Source, mounts its filesystem, and imports the
// labeled commit into the repository at opts.Dest. The destination must
// already be an initialized repository; the import is content-sharing
// and idempotent, so a failed run leaves nothing to roll back.
func (x *Extractor) Extract(ctx context.Context, opts ExtractOptions) error {
	dest, err := resolvePath(opts.Dest)
	if err != nil {
		return err
	}
	destRepo := x.newRepo(dest)
	if err := destRepo.Refs(ctx); err != nil {
		return fmt.Errorf("destination %s is not an initialized ostree repository: %w", dest, err)
	}

	// Must happen before any I/O-heavy step; podman honors TMPDIR for
	// transient layer downloads.
	if opts.TempDir != "" {
		os.Setenv("TMPDIR", opts.TempDir)
	}

	if err := container.Retry(ctx, x.retryAttempts, x.retryDelay, func() error {
		return x.podman.Pull(ctx, opts.Source, opts.Registry)
	}); err != nil {
		return err
	}

	var info *container.ImageInfo
	if err := container.Retry(ctx, x.retryAttempts, x.retryDelay, func() error {
		var ierr error
		info, ierr = x.podman.Inspect(ctx, opts.Source)
		return ierr
	}); err != nil {
		return err
	}

	commit, ok := info.Labels[CommitLabel]
	if !ok || commit == "" {
		return &PreconditionError{
			Reason: fmt.Sprintf("image %s has no %s label: not an oscontainer", opts.Source, CommitLabel),
		}
	}

	slog.Info("preparing to extract", "image", info.ID, "commit", commit)
	if err := x.importCommit(ctx, destRepo, info.ID, commit); err != nil {
		return err
	}

	if opts.Ref != "" {
		if err := destRepo.CreateRef(ctx, opts.Ref, commit); err != nil {
			return err
		}
	}
	return nil
}

// importCommit materializes the image's merged rootfs in a non-running
// instance, mounts it, and pull-locals the commit out of the embedded
// repository. Unmount and instance removal run on every exit path;
// cleanup failures are logged and suppressed so they never mask the
// primary error.
func (x *Extractor) importCommit(ctx context.Context, destRepo *ostree.Repo, imageID, commit string) error {
	cid, err := x.podman.Create(ctx, imageID)
	if err != nil {
		return err
	}
	defer func() {
		if err := x.podman.Unmount(ctx, cid); err != nil {
			slog.Warn("unmount failed during cleanup", "container", cid, "error", err)
		}
		if err := x.podman.Remove(ctx, cid); err != nil {
			slog.Warn("instance removal failed during cleanup", "container", cid, "error", err)
		}
	}()

	mnt, err := x.podman.Mount(ctx, cid)
	if err != nil {
		return err
	}

	return destRepo.PullLocal(ctx, filepath.Join(mnt, EmbeddedRepoPath), commit)
}

// resolvePath returns the absolute, symlink-resolved form of path.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
