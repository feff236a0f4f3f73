// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"testing"
)

func TestPodman_Pull_Args(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		storage  StorageConfig
		reg      RegistryOptions
		expected []string
	}{
		{
			name:     "default storage, verified TLS",
			reg:      RegistryOptions{TLSVerify: true},
			expected: []string{"pull", "--tls-verify", "quay.io/x/os:latest"},
		},
		{
			name:     "TLS disabled",
			reg:      RegistryOptions{TLSVerify: false},
			expected: []string{"pull", "--tls-verify=false", "quay.io/x/os:latest"},
		},
		{
			name: "authfile and cert dir",
			reg:  RegistryOptions{TLSVerify: true, AuthFile: "/run/auth.json", CertDir: "/etc/certs"},
			expected: []string{
				"pull", "--tls-verify", "--authfile=/run/auth.json",
				"--cert-dir=/etc/certs", "quay.io/x/os:latest",
			},
		},
		{
			name:    "storage root override",
			storage: StorageConfig{Root: "/work/containers-storage"},
			reg:     RegistryOptions{TLSVerify: true},
			expected: []string{
				"--root=/work/containers-storage",
				"pull", "--tls-verify", "quay.io/x/os:latest",
			},
		},
		{
			name:    "nested build forces vfs",
			storage: StorageConfig{Root: "/work/containers-storage", Nested: true},
			reg:     RegistryOptions{TLSVerify: true},
			expected: []string{
				"--root=/work/containers-storage", "--storage-driver", "vfs",
				"pull", "--tls-verify", "quay.io/x/os:latest",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			recorder := NewMockCommandRecorder()
			podman := NewPodman(tt.storage, WithExecCommand(recorder.CommandFunc(t)))
			if err := podman.Pull(context.Background(), "quay.io/x/os:latest", tt.reg); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			recorder.AssertArgsEqual(t, tt.expected...)
		})
	}
}

func TestPodman_Inspect_FirstResult(t *testing.T) {
	t.Parallel()
	recorder := NewMockCommandRecorder()
	recorder.Stdout = `[{"Id":"iid1","Digest":"sha256:beef","Labels":{"com.coreos.ostree-commit":"c1"}}]`

	podman := NewPodman(StorageConfig{}, WithExecCommand(recorder.CommandFunc(t)))
	info, err := podman.Inspect(context.Background(), "quay.io/x/os:latest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.ID != "iid1" || info.Digest != "sha256:beef" {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.Labels["com.coreos.ostree-commit"] != "c1" {
		t.Errorf("expected commit label, got %+v", info.Labels)
	}
	recorder.AssertArgsEqual(t, "inspect", "quay.io/x/os:latest")
}

func TestPodman_Inspect_EmptyResult(t *testing.T) {
	t.Parallel()
	recorder := NewMockCommandRecorder()
	recorder.Stdout = `[]`

	podman := NewPodman(StorageConfig{}, WithExecCommand(recorder.CommandFunc(t)))
	if _, err := podman.Inspect(context.Background(), "img"); err == nil {
		t.Fatal("expected error for empty inspect output")
	}
}

func TestPodman_Create_EntrypointOverride(t *testing.T) {
	t.Parallel()
	recorder := NewMockCommandRecorder()
	recorder.Stdout = "cid1\n"

	podman := NewPodman(StorageConfig{}, WithExecCommand(recorder.CommandFunc(t)))
	cid, err := podman.Create(context.Background(), "iid1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cid != "cid1" {
		t.Errorf("expected cid1, got %q", cid)
	}
	recorder.AssertArgsEqual(t, "create", "--entrypoint=/enoent", "iid1")
}

func TestPodman_Push_DigestFile(t *testing.T) {
	t.Parallel()
	recorder := NewMockCommandRecorder()

	podman := NewPodman(StorageConfig{}, WithExecCommand(recorder.CommandFunc(t)))
	err := podman.Push(context.Background(), "quay.io/x/os:latest",
		RegistryOptions{TLSVerify: true}, "/tmp/digest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recorder.AssertArgsEqual(t, "push", "--tls-verify", "quay.io/x/os:latest", "--digestfile=/tmp/digest")
}

func TestPodman_MountLifecycle(t *testing.T) {
	t.Parallel()
	recorder := NewMockCommandRecorder()
	recorder.Respond = func(_ string, args []string) (string, int) {
		if verbOf(args) == "mount" {
			return "/var/lib/containers/mnt/abc\n", 0
		}
		return "", 0
	}

	podman := NewPodman(StorageConfig{}, WithExecCommand(recorder.CommandFunc(t)))
	ctx := context.Background()

	mnt, err := podman.Mount(ctx, "cid1")
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if mnt != "/var/lib/containers/mnt/abc" {
		t.Errorf("unexpected mount path %q", mnt)
	}
	if err := podman.Unmount(ctx, "cid1"); err != nil {
		t.Fatalf("umount: %v", err)
	}
	recorder.AssertArgsEqual(t, "umount", "cid1")
	if err := podman.Remove(ctx, "cid1"); err != nil {
		t.Fatalf("rm: %v", err)
	}
	recorder.AssertArgsEqual(t, "rm", "cid1")
}

func TestPodman_PullFailure_Retryable(t *testing.T) {
	t.Parallel()
	recorder := NewMockCommandRecorder()
	recorder.ExitCode = 125

	podman := NewPodman(StorageConfig{}, WithExecCommand(recorder.CommandFunc(t)))
	err := podman.Pull(context.Background(), "img", RegistryOptions{TLSVerify: true})
	if !errors.Is(err, ErrProcess) {
		t.Fatalf("expected ErrProcess, got %v", err)
	}
}
