// Command-line client for AeroOps.
package main

import (
	"os"

	"github.com/turtacn/AeroOps/internal/interfaces/cli"
)

// Set via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
