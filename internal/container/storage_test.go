// SPDX-License-Identifier: MPL-2.0

package container

import (
	"slices"
	"testing"
)

func TestStorageConfig_GlobalArgs(t *testing.T) {
	tests := []struct {
		name     string
		storage  StorageConfig
		expected []string
	}{
		{
			name:     "zero value uses default storage",
			storage:  StorageConfig{},
			expected: nil,
		},
		{
			name:     "root override only",
			storage:  StorageConfig{Root: "/work/containers-storage"},
			expected: []string{"--root=/work/containers-storage"},
		},
		{
			name:    "nested adds vfs driver",
			storage: StorageConfig{Root: "/work/containers-storage", Nested: true},
			expected: []string{
				"--root=/work/containers-storage", "--storage-driver", "vfs",
			},
		},
		{
			// The vfs flags only make sense together with a root override.
			name:     "nested without root is ignored",
			storage:  StorageConfig{Nested: true},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.storage.GlobalArgs()
			if !slices.Equal(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestInContainer(t *testing.T) {
	t.Setenv("container", "")
	if InContainer() {
		t.Error("expected InContainer to be false with empty env var")
	}
	t.Setenv("container", "oci")
	if !InContainer() {
		t.Error("expected InContainer to be true with container env var set")
	}
}
