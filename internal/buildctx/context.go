// Package buildctx carries the per-build counters and temp-directory
// handle that would otherwise live as process-global state.
package buildctx

import (
	"fmt"
	"os"
	"path/filepath"
)

// Context holds the mutable state shared across the stages of a single
// index_gfa build. A Context is owned by exactly one builder process and
// must not be reused across builds.
type Context struct {
	// NNodes is the number of distinct node identifiers interned so far.
	NNodes uint32

	// NEdges is the number of canonical edge lines emitted so far.
	NEdges uint64

	// TempDir is the build's private temp directory.
	TempDir string

	// KeepTmp, when true, suppresses cleanup of TempDir on success.
	KeepTmp bool

	latestLink string
}

// New creates a build context rooted at a fresh, uniquely named temp
// directory under base. If linkLatest is true, a "latest" symlink is
// (re)created inside base pointing at the new directory.
func New(base string, keepTmp bool, linkLatest bool) (*Context, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp base %s: %w", base, err)
	}

	tmpDir, err := os.MkdirTemp(base, "gfaidx-build-*")
	if err != nil {
		return nil, fmt.Errorf("creating build temp dir: %w", err)
	}

	ctx := &Context{
		TempDir: tmpDir,
		KeepTmp: keepTmp,
	}

	if linkLatest {
		link := filepath.Join(base, "latest")
		_ = os.Remove(link)
		if err := os.Symlink(tmpDir, link); err == nil {
			ctx.latestLink = link
		}
	}

	return ctx, nil
}

// Path joins name onto the build's temp directory.
func (c *Context) Path(name string) string {
	return filepath.Join(c.TempDir, name)
}

// Cleanup removes the temp directory and its "latest" symlink unless
// KeepTmp is set. Safe to call multiple times.
func (c *Context) Cleanup() error {
	if c.KeepTmp {
		return nil
	}
	if c.latestLink != "" {
		_ = os.Remove(c.latestLink)
	}
	if err := os.RemoveAll(c.TempDir); err != nil {
		return fmt.Errorf("removing temp dir %s: %w", c.TempDir, err)
	}
	return nil
}
