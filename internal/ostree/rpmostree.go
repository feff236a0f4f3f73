// SPDX-License-Identifier: MPL-2.0

package ostree

import (
	"context"
	"sort"
	"strings"

	"oscontainer/internal/container"
)

// PkgQuery queries the rpm-ostree package database of a repository.
type PkgQuery struct {
	tool *container.Tool
}

// NewPkgQuery creates a query runner for the rpm-ostree CLI.
func NewPkgQuery(opts ...container.ToolOption) *PkgQuery {
	return &PkgQuery{tool: container.NewTool("rpm-ostree", opts...)}
}

// NEVRAs returns the canonical name-epoch-version-release-arch strings of
// every package installed in the given commit, sorted lexicographically.
// Sorting here makes the generated manifest deterministic regardless of
// the order rpm-ostree reports packages in.
func (q *PkgQuery) NEVRAs(ctx context.Context, repoPath, rev string) ([]string, error) {
	out, err := q.tool.RunText(ctx, "db", "list", "--repo="+repoPath, rev)
	if err != nil {
		return nil, err
	}

	var nevras []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		// "ostree commit: <rev>" header lines end with the commit checksum
		// after a colon-terminated prefix; skip anything that is not an
		// indented package entry.
		if line == "" || strings.HasPrefix(line, "ostree commit:") {
			continue
		}
		nevras = append(nevras, line)
	}
	sort.Strings(nevras)
	return nevras, nil
}
