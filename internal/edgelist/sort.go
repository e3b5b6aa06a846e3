package edgelist

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

// SortOptions configures the external sort invocation.
type SortOptions struct {
	// Parallel caps the number of sort threads (sort's --parallel). Zero
	// leaves it at the system utility's own default.
	Parallel int

	// MemoryHint is passed as sort's -S buffer-size hint (e.g. "1G").
	// Empty leaves it at the system utility's own default.
	MemoryHint string

	// TempDir overrides sort's scratch directory (-T). Empty leaves it at
	// the system utility's own default (usually $TMPDIR or /tmp).
	TempDir string
}

// Sort runs the edge list at unsortedPath through the system sort
// utility, producing a numerically ordered, deduplicated file at
// sortedPath: "sort -n -k1,1 -k2,2 -u". The CSR builder's two-pass
// construction (§4.4) depends on this ordering — it never re-sorts
// in-process.
//
// Sort is invoked as an external process rather than reimplemented
// in-process because an on-disk k-way merge sort over an edge list that
// may itself dwarf available RAM is exactly the "external algorithm"
// this pipeline delegates to the host utility built for it.
func Sort(unsortedPath, sortedPath string, opts SortOptions) error {
	sortBin, err := exec.LookPath("sort")
	if err != nil {
		return fmt.Errorf("external sort utility not found on PATH: %w", err)
	}

	args := []string{"-n", "-k1,1", "-k2,2", "-u", "-o", sortedPath}
	if opts.Parallel > 0 {
		args = append(args, fmt.Sprintf("--parallel=%d", opts.Parallel))
	}
	if opts.MemoryHint != "" {
		args = append(args, "-S", opts.MemoryHint)
	}
	if opts.TempDir != "" {
		args = append(args, "-T", opts.TempDir)
	}
	args = append(args, unsortedPath)

	cmd := exec.Command(sortBin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = os.Stdout

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("sorting edge list (sort %v): %w: %s", args, err, stderr.String())
	}
	return nil
}
