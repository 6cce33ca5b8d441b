// Package main is the entry point for the oddrafter MCP server.
//
// With no arguments the binary starts the server, which is what the
// container image runs. See `oddrafter --help` for the other commands.
package main

import (
	"fmt"
	"os"

	"oddrafter/internal/cli"
)

// Build-time variables (set via ldflags)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := cli.New()
	app.SetVersion(version, commit, date)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
