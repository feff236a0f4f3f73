// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
)

type (
	// Podman wraps the podman CLI with the image and instance operations
	// this program needs. It embeds Tool for command execution.
	Podman struct {
		*Tool
	}

	// ImageInfo is the subset of podman inspect output consumed here.
	ImageInfo struct {
		ID     string            `json:"Id"`
		Digest string            `json:"Digest"`
		Labels map[string]string `json:"Labels"`
	}
)

// NewPodman creates a podman runner honoring the given storage override.
func NewPodman(storage StorageConfig, opts ...ToolOption) *Podman {
	allOpts := append([]ToolOption{WithGlobalArgs(storage.GlobalArgs()...)}, opts...)
	return &Podman{Tool: NewTool("podman", allOpts...)}
}

// Pull fetches an image reference from a registry.
func (p *Podman) Pull(ctx context.Context, ref string, reg RegistryOptions) error {
	args := append([]string{"pull"}, reg.Args()...)
	args = append(args, ref)
	return p.RunEchoed(ctx, args...)
}

// Inspect returns the identifier, digest, and label set of an image.
// podman emits a JSON array even for a single reference.
func (p *Podman) Inspect(ctx context.Context, ref string) (*ImageInfo, error) {
	var infos []ImageInfo
	if err := p.RunJSON(ctx, &infos, "inspect", ref); err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("podman inspect %s returned no results", ref)
	}
	return &infos[0], nil
}

// Create materializes a non-running instance of the image and returns its
// container ID. The instance is never started; create exists only to give
// us a merged rootfs to mount. The /enoent entrypoint override works
// around podman rejecting images that carry no command at all.
func (p *Podman) Create(ctx context.Context, imageID string) (string, error) {
	return p.RunText(ctx, "create", "--entrypoint=/enoent", imageID)
}

// Mount mounts the instance's filesystem and returns the host path.
func (p *Podman) Mount(ctx context.Context, containerID string) (string, error) {
	return p.RunText(ctx, "mount", containerID)
}

// Unmount unmounts the instance's filesystem.
func (p *Podman) Unmount(ctx context.Context, containerID string) error {
	return p.RunQuiet(ctx, "umount", containerID)
}

// Remove removes the instance.
func (p *Podman) Remove(ctx context.Context, containerID string) error {
	return p.RunQuiet(ctx, "rm", containerID)
}

// Push uploads an image to a registry. When digestFile is non-empty the
// registry-reported digest is written there by podman itself.
func (p *Podman) Push(ctx context.Context, nameAndTag string, reg RegistryOptions, digestFile string) error {
	args := append([]string{"push"}, reg.Args()...)
	args = append(args, nameAndTag)
	if digestFile != "" {
		args = append(args, "--digestfile="+digestFile)
	}
	return p.RunEchoed(ctx, args...)
}
