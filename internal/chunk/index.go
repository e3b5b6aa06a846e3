package chunk

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// WriteIndex writes entries as a tab-separated text file with a
// leading '#' comment header, one row per community in ascending
// community-id order.
func WriteIndex(path string, entries []IndexEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating index file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, "#community_id\tgz_offset\tgz_size"); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%d\n", e.CommunityID, e.Offset, e.Size); err != nil {
			return fmt.Errorf("writing index file %s: %w", path, err)
		}
	}
	return w.Flush()
}

// ReadIndex parses an index file written by WriteIndex.
func ReadIndex(path string) ([]IndexEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var entries []IndexEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed index row: %q", line)
		}
		cid, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("malformed index row %q: %w", line, err)
		}
		offset, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed index row %q: %w", line, err)
		}
		size, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed index row %q: %w", line, err)
		}
		entries = append(entries, IndexEntry{CommunityID: uint32(cid), Offset: offset, Size: size})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading index file %s: %w", path, err)
	}
	return entries, nil
}
