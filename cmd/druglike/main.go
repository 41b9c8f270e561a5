// Command druglike screens SMILES structures against the Rule of Five.
package main

import (
	"errors"
	"os"

	"github.com/turtacn/druglike/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	if err := cli.Execute(); err != nil {
		var invalid *cli.InvalidItemsError
		if errors.As(err, &invalid) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
