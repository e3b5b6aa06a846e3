package chunk

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

// DefaultCompressionLevel and DefaultMemoryLevel match the recommended
// defaults in §4.9. MemoryLevel is accepted for interface fidelity with
// that contract but has no effect: compress/gzip, unlike zlib, exposes
// only a compression-level knob — see DESIGN.md.
const (
	DefaultCompressionLevel = 6
	DefaultMemoryLevel      = 8
)

// IndexEntry is one row of the offset index: a community's gzip
// member's location and size within the concatenated output file.
type IndexEntry struct {
	CommunityID uint32
	Offset      uint64
	Size        uint64
}

// countWriter tracks the number of bytes written through it, giving
// Concatenate the output file's current position without needing to
// Seek or Sync between members.
type countWriter struct {
	w io.Writer
	n uint64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}

// Concatenate compresses each of memberPaths into its own self-contained
// gzip member, appended in order to a single output file at outPath.
// An empty or missing path contributes a zero-size member without
// advancing past its recorded offset. The returned entries are in
// community-id order, ready for WriteIndex.
func Concatenate(outPath string, memberPaths []string, level int) ([]IndexEntry, error) {
	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer func() { _ = out.Close() }()

	cw := &countWriter{w: out}
	entries := make([]IndexEntry, len(memberPaths))

	for i, p := range memberPaths {
		entries[i].CommunityID = uint32(i)
		entries[i].Offset = cw.n

		info, statErr := os.Stat(p)
		if statErr != nil || info.Size() == 0 {
			continue
		}

		if err := compressMember(cw, p, level); err != nil {
			return nil, fmt.Errorf("compressing community %d part %s: %w", i, p, err)
		}
		entries[i].Size = cw.n - entries[i].Offset
	}

	return entries, nil
}

func compressMember(cw *countWriter, path string, level int) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	gz, err := gzip.NewWriterLevel(cw, level)
	if err != nil {
		return fmt.Errorf("initializing gzip writer: %w", err)
	}

	if _, err := io.Copy(gz, in); err != nil {
		_ = gz.Close()
		return err
	}
	return gz.Close()
}
