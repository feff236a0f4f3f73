// SPDX-License-Identifier: MPL-2.0

package oscontainer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"oscontainer/internal/container"
	"oscontainer/internal/ostree"
)

type (
	// BuildOptions are the inputs to one image build.
	BuildOptions struct {
		// SrcRepo is the path of the source ostree repository.
		SrcRepo string
		// Rev is the ref or revision to materialize.
		Rev string
		// Name is the image name and tag for the committed result.
		Name string
		// BaseImage is the image the build starts from.
		BaseImage string
		// Push uploads the committed image to its registry.
		Push bool
		// AddDirectories lists directories whose top-level entries are
		// copied into the image's filesystem root.
		AddDirectories []string
		// DigestFile, when non-empty, receives the image digest.
		DigestFile string
		// DisplayName sets the OpenShift display-name labels; it
		// requires the commit to carry a version.
		DisplayName string
		// BuildsDir is the build-metadata record directory.
		BuildsDir string
		// Registry carries the TLS/auth/cert flags for the push.
		Registry container.RegistryOptions
		// TempDir overrides TMPDIR for the run.
		TempDir string
	}

	// BuilderOption configures a Builder.
	BuilderOption func(*Builder)

	// Builder materializes a repository commit into a base image and
	// commits the result as a new oscontainer.
	Builder struct {
		podman  *container.Podman
		buildah *container.Buildah
		cp      *container.Tool
		pkgs    *ostree.PkgQuery
		newRepo func(path string) *ostree.Repo
	}
)

// WithBuildRepoConstructor injects the ostree repo constructor for tests.
func WithBuildRepoConstructor(fn func(path string) *ostree.Repo) BuilderOption {
	return func(b *Builder) {
		b.newRepo = fn
	}
}

// WithCopyTool injects the copy runner for tests.
func WithCopyTool(tool *container.Tool) BuilderOption {
	return func(b *Builder) {
		b.cp = tool
	}
}

// WithPackageQuery injects the rpm-ostree query runner for tests.
func WithPackageQuery(q *ostree.PkgQuery) BuilderOption {
	return func(b *Builder) {
		b.pkgs = q
	}
}

// NewBuilder creates a Builder running image operations through buildah
// and registry operations through podman.
func NewBuilder(podman *container.Podman, buildah *container.Buildah, opts ...BuilderOption) *Builder {
	b := &Builder{
		podman:  podman,
		buildah: buildah,
		cp:      container.NewTool("cp"),
		pkgs:    ostree.NewPkgQuery(),
		newRepo: func(path string) *ostree.Repo { return ostree.NewRepo(path) },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build resolves opts.Rev in opts.SrcRepo, assembles an oscontainer image
// from opts.BaseImage, and commits it as opts.Name. The working container
// is unmounted and removed on every exit path; push and digest handling
// happen only after that cleanup has run.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) error {
	srcRepo := b.newRepo(opts.SrcRepo)

	rev, err := srcRepo.ResolveRev(ctx, opts.Rev)
	if err != nil {
		return err
	}
	if rev != opts.Rev {
		// Informational only; nothing branches on the difference.
		slog.Info("resolved revision", "rev", opts.Rev, "commit", rev)
	}

	version, hasVersion, err := srcRepo.CommitVersion(ctx, rev)
	if err != nil {
		return err
	}
	if opts.DisplayName != "" && !hasVersion {
		return &PreconditionError{
			Reason: fmt.Sprintf("display name %q requires commit %s to carry a version", opts.DisplayName, rev),
		}
	}

	// See the matching note in Extract: heavy transient I/O must land on
	// the caller-designated volume.
	if opts.TempDir != "" {
		os.Setenv("TMPDIR", opts.TempDir)
	}

	bid, err := b.buildah.From(ctx, opts.BaseImage)
	if err != nil {
		return err
	}

	iid, err := b.assemble(ctx, bid, rev, version, hasVersion, opts)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", opts.Name, iid)

	if opts.Push {
		slog.Info("pushing container", "name", opts.Name)
		if err := b.podman.Push(ctx, opts.Name, opts.Registry, opts.DigestFile); err != nil {
			return err
		}
		if opts.DigestFile != "" {
			return validateDigestFile(opts.DigestFile)
		}
		return nil
	}
	if opts.DigestFile != "" {
		return b.writeLocalDigest(ctx, opts.Name, opts.DigestFile)
	}
	return nil
}

// assemble mounts the working container, populates it, applies the image
// configuration, and commits it. Unmount and removal run on every exit
// path, with failures logged and suppressed.
func (b *Builder) assemble(ctx context.Context, bid, rev, version string, hasVersion bool, opts BuildOptions) (string, error) {
	defer func() {
		if err := b.buildah.Unmount(ctx, bid); err != nil {
			slog.Warn("unmount failed during cleanup", "container", bid, "error", err)
		}
		if err := b.buildah.Remove(ctx, bid); err != nil {
			slog.Warn("working container removal failed during cleanup", "container", bid, "error", err)
		}
	}()

	mnt, err := b.buildah.Mount(ctx, bid)
	if err != nil {
		return "", err
	}

	embedded := b.newRepo(filepath.Join(mnt, EmbeddedRepoPath))
	if err := os.MkdirAll(embedded.Path(), 0o755); err != nil {
		return "", fmt.Errorf("create embedded repository directory: %w", err)
	}
	if err := embedded.Init(ctx, ostree.ModeArchive); err != nil {
		return "", err
	}

	// Oscontainers carry the commit only; no refs are created.
	slog.Info("copying ostree commit into container", "commit", rev)
	if err := embedded.PullLocal(ctx, opts.SrcRepo, rev); err != nil {
		return "", err
	}

	for _, dir := range opts.AddDirectories {
		if err := b.copyDirInto(ctx, dir, mnt); err != nil {
			return "", err
		}
		slog.Info("copied in content", "dir", dir)
	}

	if err := b.writeManifest(ctx, opts.SrcRepo, rev, filepath.Join(mnt, ManifestFileName)); err != nil {
		return "", err
	}

	labels, err := b.buildLabels(rev, version, hasVersion, opts)
	if err != nil {
		return "", err
	}
	cfg := container.ImageConfig{Entrypoint: NoopEntrypoint, Labels: labels}
	if err := b.buildah.Config(ctx, bid, cfg); err != nil {
		return "", err
	}

	slog.Info("committing container")
	return b.buildah.Commit(ctx, bid, opts.Name)
}

// copyDirInto copies every top-level entry of dir into destRoot with a
// reflink-aware cp, sharing extents where the filesystem supports it.
func (b *Builder) copyDirInto(ctx context.Context, dir, destRoot string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read add-directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		src := filepath.Join(dir, entry.Name())
		dest := filepath.Join(destRoot, entry.Name())
		if err := b.cp.RunQuiet(ctx, "-a", "--reflink=auto", src, dest); err != nil {
			return err
		}
	}
	return nil
}

// writeManifest queries the commit's package set and writes the sorted
// NEVRA list, one per line, newline-terminated.
func (b *Builder) writeManifest(ctx context.Context, repoPath, rev, dest string) error {
	nevras, err := b.pkgs.NEVRAs(ctx, repoPath, rev)
	if err != nil {
		return err
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create package manifest: %w", err)
	}
	defer f.Close()
	for _, nevra := range nevras {
		if _, err := fmt.Fprintln(f, nevra); err != nil {
			return fmt.Errorf("write package manifest: %w", err)
		}
	}
	return f.Close()
}

// buildLabels assembles the ordered label set for the image commit.
func (b *Builder) buildLabels(rev, version string, hasVersion bool, opts BuildOptions) ([]container.Label, error) {
	labels := []container.Label{{Key: CommitLabel, Value: rev}}
	if hasVersion {
		labels = append(labels, container.Label{Key: VersionLabel, Value: version})
	}

	prov, err := LoadProvenance(opts.BuildsDir)
	if err != nil {
		return nil, err
	}
	labels = append(labels,
		container.Label{Key: AssemblerCommitLabel, Value: prov.AssemblerCommit},
		container.Label{Key: OSCommitLabel, Value: prov.OSCommit},
	)

	if opts.DisplayName != "" {
		labels = append(labels,
			container.Label{Key: DisplayNamesLabel, Value: "machine-os=" + opts.DisplayName},
			container.Label{Key: BuildVersionsLabel, Value: "machine-os=" + version},
		)
	}
	return labels, nil
}

// writeLocalDigest inspects the committed image and writes its digest.
func (b *Builder) writeLocalDigest(ctx context.Context, name, digestFile string) error {
	info, err := b.podman.Inspect(ctx, name)
	if err != nil {
		return err
	}
	d, err := digest.Parse(info.Digest)
	if err != nil {
		return fmt.Errorf("image %s reported malformed digest %q: %w", name, info.Digest, err)
	}
	if err := os.WriteFile(digestFile, []byte(d.String()), 0o644); err != nil {
		return fmt.Errorf("write digest file: %w", err)
	}
	return nil
}

// validateDigestFile checks that the digest podman wrote after a push is
// well-formed before the run reports success.
func validateDigestFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read digest file: %w", err)
	}
	if _, err := digest.Parse(string(bytes.TrimSpace(raw))); err != nil {
		return fmt.Errorf("registry returned malformed digest in %s: %w", path, err)
	}
	return nil
}
