// Command arborctl is a demo CLI that exercises the actor runtime and
// N-dimensional container packages directly, one scenario per subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/arborsys/arbor/cmd/arborctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
