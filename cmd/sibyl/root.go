package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sibyl-dev/sibyl/pkg/config"
)

var (
	cfgFile   string
	formatArg string
	outputArg string
	noColor   bool
	jobs      int
	verbose   bool

	// issuesFound is set by check when any diagnostic was reported, so
	// main can exit 1 without treating it as a command error.
	issuesFound bool
)

var rootCmd = &cobra.Command{
	Use:   "sibyl",
	Short: "Scope-aware lint engine for Python",
	Long: `Sibyl parses Python source into a syntax tree and walks it once,
tracking lexical scopes and a symbol table, to report style, correctness,
and resource-handling diagnostics in a deterministic order.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().StringVarP(&formatArg, "format", "f", "text", "Output format: text, json, markdown, toon")
	rootCmd.PersistentFlags().StringVarP(&outputArg, "output", "o", "", "Write output to file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().IntVarP(&jobs, "jobs", "j", 0, "Number of parallel workers (default 2x CPUs)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")
}

// loadConfig loads the configured or discovered config file.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadOrDefault(), nil
}
