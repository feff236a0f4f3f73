// SPDX-License-Identifier: MPL-2.0

package container

import "context"

type (
	// Buildah wraps the buildah CLI with the working-container operations
	// used to assemble a new image. It embeds Tool for command execution.
	Buildah struct {
		*Tool
	}

	// Label is one metadata label. Labels are kept as an ordered slice, not
	// a map: the set is built incrementally and applied in a stable order.
	Label struct {
		Key   string
		Value string
	}

	// ImageConfig is the configuration update applied to a working
	// container before commit.
	ImageConfig struct {
		// Entrypoint is the JSON-form entrypoint override.
		Entrypoint string
		// Labels are applied in order via repeated -l flags.
		Labels []Label
	}
)

// NewBuildah creates a buildah runner honoring the given storage override.
func NewBuildah(storage StorageConfig, opts ...ToolOption) *Buildah {
	allOpts := append([]ToolOption{WithGlobalArgs(storage.GlobalArgs()...)}, opts...)
	return &Buildah{Tool: NewTool("buildah", allOpts...)}
}

// From creates a working container from a base image and returns its ID.
func (b *Buildah) From(ctx context.Context, baseImage string) (string, error) {
	return b.RunText(ctx, "from", baseImage)
}

// Mount mounts the working container's filesystem and returns the host path.
func (b *Buildah) Mount(ctx context.Context, containerID string) (string, error) {
	return b.RunText(ctx, "mount", containerID)
}

// Unmount unmounts the working container's filesystem.
func (b *Buildah) Unmount(ctx context.Context, containerID string) error {
	return b.RunQuiet(ctx, "umount", containerID)
}

// Remove removes the working container.
func (b *Buildah) Remove(ctx context.Context, containerID string) error {
	return b.RunQuiet(ctx, "rm", containerID)
}

// Config applies the entrypoint override and label set to the working
// container in a single invocation, so the update lands atomically at
// commit time.
func (b *Buildah) Config(ctx context.Context, containerID string, cfg ImageConfig) error {
	args := []string{"config"}
	if cfg.Entrypoint != "" {
		args = append(args, "--entrypoint", cfg.Entrypoint)
	}
	for _, l := range cfg.Labels {
		args = append(args, "-l", l.Key+"="+l.Value)
	}
	args = append(args, containerID)
	return b.RunEchoed(ctx, args...)
}

// Commit commits the working container's filesystem as a new image under
// nameAndTag and returns the image ID.
func (b *Buildah) Commit(ctx context.Context, containerID, nameAndTag string) (string, error) {
	return b.RunText(ctx, "commit", containerID, nameAndTag)
}
