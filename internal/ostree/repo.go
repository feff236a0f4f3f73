// SPDX-License-Identifier: MPL-2.0

package ostree

import (
	"context"
	"errors"
	"strings"

	"oscontainer/internal/container"
)

// ModeArchive is the repository mode used for embedded oscontainer repos.
const ModeArchive = "archive"

// Repo drives the ostree CLI against the repository at a fixed path.
// The path is passed as --repo= on every invocation.
type Repo struct {
	path string
	tool *container.Tool
}

// NewRepo creates a Repo for the repository at path. Tool options are
// forwarded to the underlying runner (tests inject a mock exec there).
func NewRepo(path string, opts ...container.ToolOption) *Repo {
	return &Repo{
		path: path,
		tool: container.NewTool("ostree", opts...),
	}
}

// Path returns the repository path.
func (r *Repo) Path() string {
	return r.path
}

func (r *Repo) repoArg() string {
	return "--repo=" + r.path
}

// Refs lists the repository's references. The extract flow uses this as
// its destination precondition: it fails exactly the way ostree reports
// when the path is not an initialized repository.
func (r *Repo) Refs(ctx context.Context) error {
	return r.tool.RunQuiet(ctx, r.repoArg(), "refs")
}

// CreateRef creates or overwrites a symbolic reference pointing at commit.
func (r *Repo) CreateRef(ctx context.Context, ref, commit string) error {
	return r.tool.RunEchoed(ctx, r.repoArg(), "refs", "--create="+ref, commit)
}

// ResolveRev resolves a ref or revision to a concrete commit checksum.
// Resolution is idempotent: resolving a full checksum returns it unchanged.
func (r *Repo) ResolveRev(ctx context.Context, rev string) (string, error) {
	return r.tool.RunText(ctx, r.repoArg(), "rev-parse", rev)
}

// CommitVersion reads the optional "version" string from a commit's
// metadata. Absence is ("", false), not an error: ostree exits nonzero
// when the key is missing, and that process failure is folded into the
// not-present result. Present values come back GVariant-quoted and are
// unquoted before return.
func (r *Repo) CommitVersion(ctx context.Context, rev string) (string, bool, error) {
	out, err := r.tool.RunText(ctx, r.repoArg(), "show", "--print-metadata-key=version", rev)
	if err != nil {
		if errors.Is(err, container.ErrProcess) {
			return "", false, nil
		}
		return "", false, err
	}
	return unquoteVariant(out), true, nil
}

// Init initializes a new repository at the Repo's path in the given mode.
func (r *Repo) Init(ctx context.Context, mode string) error {
	return r.tool.RunQuiet(ctx, r.repoArg(), "init", "--mode="+mode)
}

// PullLocal imports commit from the repository at srcPath into this one.
// Both sides share the same store format, so content is shared rather
// than copied; re-running the same import is harmless.
func (r *Repo) PullLocal(ctx context.Context, srcPath, commit string) error {
	return r.tool.RunEchoed(ctx, r.repoArg(), "pull-local", srcPath, commit)
}

// unquoteVariant strips the single quotes GVariant printing wraps around
// string values ('412.86' -> 412.86).
func unquoteVariant(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return s[1 : len(s)-1]
	}
	return s
}
