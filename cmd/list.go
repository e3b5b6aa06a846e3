package cmd

import (
	"fmt"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/registry"
)

// ListCmd lists all builds recorded in the local build registry.
type ListCmd struct{}

// Run executes the list command.
func (c *ListCmd) Run() error {
	r, err := registry.Open(registry.DefaultPath())
	if err != nil {
		return fmt.Errorf("opening build registry: %w", err)
	}
	defer func() { _ = r.Close() }()

	entries, err := r.List()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No builds recorded yet. Run 'gfaidx index_gfa' first.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s\n", e.ID)
		fmt.Printf("  Source:      %s\n", e.GFAPath)
		fmt.Printf("  Indexed at:  %s\n", e.IndexedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("  Nodes:       %d\n", e.NNodes)
		fmt.Printf("  Communities: %d\n", e.NumCommunities)
	}
	return nil
}
