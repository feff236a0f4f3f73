// SPDX-License-Identifier: MPL-2.0

package ostree

import (
	"context"
	"slices"
	"testing"

	"oscontainer/internal/container"
)

func TestPkgQuery_NEVRAs_SortedAndFiltered(t *testing.T) {
	t.Parallel()
	fake := newFakeExec(func(args []string) (string, int) {
		// rpm-ostree prefixes the listing with a commit header and emits
		// packages in database order, not sorted.
		return "ostree commit: 0b1dfc2f\n" +
			" zlib-1.2.11-31.el8.x86_64\n" +
			" bash-4.4.20-4.el8.x86_64\n" +
			" kernel-0:4.18.0-305.el8.x86_64\n", 0
	})
	query := NewPkgQuery(container.WithExecCommand(fake.commandFunc()))

	nevras, err := query.NEVRAs(context.Background(), "/data/repo", "myrev")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{
		"bash-4.4.20-4.el8.x86_64",
		"kernel-0:4.18.0-305.el8.x86_64",
		"zlib-1.2.11-31.el8.x86_64",
	}
	if !slices.Equal(nevras, expected) {
		t.Errorf("expected %v, got %v", expected, nevras)
	}
	if !slices.Equal(fake.last(), []string{"db", "list", "--repo=/data/repo", "myrev"}) {
		t.Errorf("unexpected args %v", fake.last())
	}
}

func TestPkgQuery_NEVRAs_Deterministic(t *testing.T) {
	t.Parallel()
	outputs := []string{
		"ostree commit: c1\n a-1.0-1.x86_64\n b-1.0-1.x86_64\n",
		"ostree commit: c1\n b-1.0-1.x86_64\n a-1.0-1.x86_64\n",
	}

	var results [][]string
	for _, out := range outputs {
		fake := newFakeExec(func(args []string) (string, int) { return out, 0 })
		query := NewPkgQuery(container.WithExecCommand(fake.commandFunc()))
		nevras, err := query.NEVRAs(context.Background(), "/data/repo", "c1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		results = append(results, nevras)
	}
	if !slices.Equal(results[0], results[1]) {
		t.Errorf("manifest must be independent of query order: %v vs %v", results[0], results[1])
	}
}
