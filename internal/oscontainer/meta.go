// SPDX-License-Identifier: MPL-2.0

package oscontainer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

type (
	// Provenance holds the two build-metadata commit hashes applied as
	// labels on every built image.
	Provenance struct {
		// AssemblerCommit is the generator's git commit.
		AssemblerCommit string
		// OSCommit is the OS source tree's git commit.
		OSCommit string
	}

	buildIndex struct {
		Builds []struct {
			ID string `json:"id"`
		} `json:"builds"`
	}

	gitInfo struct {
		Commit string `json:"commit"`
	}

	buildMeta struct {
		ContainerConfigGit gitInfo `json:"coreos-assembler.container-config-git"`
		ContainerImageGit  gitInfo `json:"coreos-assembler.container-image-git"`
	}
)

// BaseArch returns the RPM base architecture of the running machine,
// mapped from the Go architecture name.
func BaseArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "arm":
		return "armhfp"
	case "386":
		return "i386"
	default:
		// ppc64le, s390x, riscv64 already match the RPM names.
		return runtime.GOARCH
	}
}

// LoadProvenance reads the build-metadata record under buildsDir: the
// builds.json index names the latest build, whose per-architecture
// meta.json carries the two provenance commits.
func LoadProvenance(buildsDir string) (*Provenance, error) {
	return loadProvenanceForArch(buildsDir, BaseArch())
}

func loadProvenanceForArch(buildsDir, arch string) (*Provenance, error) {
	indexPath := filepath.Join(buildsDir, "builds.json")
	raw, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("read build index: %w", err)
	}
	var index buildIndex
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("parse %s: %w", indexPath, err)
	}
	if len(index.Builds) == 0 {
		return nil, fmt.Errorf("%s lists no builds", indexPath)
	}
	latest := index.Builds[0].ID

	metaPath := filepath.Join(buildsDir, latest, arch, "meta.json")
	raw, err = os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("read build metadata: %w", err)
	}
	var meta buildMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("parse %s: %w", metaPath, err)
	}
	if meta.ContainerImageGit.Commit == "" || meta.ContainerConfigGit.Commit == "" {
		return nil, fmt.Errorf("%s is missing provenance commits", metaPath)
	}

	return &Provenance{
		AssemblerCommit: meta.ContainerImageGit.Commit,
		OSCommit:        meta.ContainerConfigGit.Commit,
	}, nil
}
