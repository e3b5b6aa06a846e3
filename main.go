// gfaidx indexes pangenome GFA files by community and serves the
// resulting chunks back by node or community identifier.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fawaz-dabbaghieh/gfaidx/cmd"
)

func main() {
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cmd.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
