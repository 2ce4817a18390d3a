package main

import (
	"os"

	"github.com/fatih/color"
)

// Set via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes: 0 clean, 1 diagnostics found, 2 usage or internal error.
func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(2)
	}
	if issuesFound {
		os.Exit(1)
	}
}
