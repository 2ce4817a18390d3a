package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sibyl-dev/sibyl/internal/analyzer"
	"github.com/sibyl-dev/sibyl/internal/cache"
	"github.com/sibyl-dev/sibyl/internal/fileproc"
	"github.com/sibyl-dev/sibyl/internal/output"
	"github.com/sibyl-dev/sibyl/internal/progress"
	"github.com/sibyl-dev/sibyl/internal/scanner"
	"github.com/sibyl-dev/sibyl/internal/vcs"
	"github.com/sibyl-dev/sibyl/pkg/config"
	"github.com/sibyl-dev/sibyl/pkg/models"
)

var checkCmd = &cobra.Command{
	Use:   "check [path...]",
	Short: "Lint Python files",
	Long: `Analyzes the given paths (directories are scanned recursively) and
reports diagnostics per file, in deterministic order. Exits 1 when any
diagnostic is reported.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("changed", false, "Only lint files changed in the git working tree")
	checkCmd.Flags().Bool("no-cache", false, "Disable the result cache")
	checkCmd.Flags().StringSlice("disable", nil, "Rule codes to suppress (e.g. W0611,C0103)")
	checkCmd.Flags().Int("max-loop-depth", 0, "Loop nesting threshold for C0200 (default 2)")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	changed, _ := cmd.Flags().GetBool("changed")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	disable, _ := cmd.Flags().GetStringSlice("disable")
	maxLoopDepth, _ := cmd.Flags().GetInt("max-loop-depth")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(disable) > 0 {
		cfg.Rules.Disabled = append(cfg.Rules.Disabled, disable...)
	}
	if maxLoopDepth > 0 {
		cfg.Rules.MaxLoopDepth = maxLoopDepth
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	files, err := collectFiles(cfg, args, changed)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No Python files found")
		return nil
	}

	resultCache, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	newAnalyzer := func() *analyzer.Analyzer {
		return analyzer.New(
			analyzer.WithMaxLoopDepth(cfg.Rules.MaxLoopDepth),
			analyzer.WithExtraBuiltins(cfg.Rules.ExtraBuiltins),
			analyzer.WithDisabledRules(cfg.Rules.Disabled),
		)
	}

	// Ctrl+C cancels files not yet started; the run then fails instead
	// of reporting partial results.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		cancel()
	}()

	bar := progress.New(len(files))
	results, procErrs := fileproc.MapFiles(ctx, files, jobs, newAnalyzer,
		func(a *analyzer.Analyzer, path string) (models.FileReport, error) {
			diags, err := analyzeWithCache(a, resultCache, path)
			if err != nil {
				return models.FileReport{}, err
			}
			return models.FileReport{Path: path, Diagnostics: diags}, nil
		}, bar.Tick)
	bar.Done()

	if ctx.Err() != nil {
		return fmt.Errorf("linting interrupted")
	}

	report := models.NewReport()
	for _, fr := range results {
		report.Add(fr.Path, fr.Diagnostics)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(formatArg), outputArg, !noColor)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(&output.LintReport{Report: report}); err != nil {
		return err
	}

	if procErrs != nil {
		for _, pe := range procErrs.Errors {
			formatter.Warning("skipped %s: %v", pe.Path, pe.Err)
		}
	}

	if report.TotalIssues > 0 {
		issuesFound = true
	}
	return nil
}

// collectFiles gathers the Python files to lint, either from the git
// working tree or by scanning the given paths.
func collectFiles(cfg *config.Config, args []string, changed bool) ([]string, error) {
	if changed {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		return vcs.ChangedPythonFiles(cwd)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	scan := scanner.NewScanner(cfg)
	var files []string
	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", path, err)
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}
		if !info.IsDir() {
			if ok, _ := scan.ScanFile(absPath); ok {
				files = append(files, absPath)
			}
			continue
		}
		found, err := scan.ScanDir(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

// analyzeWithCache runs the analyzer on one file, serving and storing
// results through the content-hash validated cache.
func analyzeWithCache(a *analyzer.Analyzer, c *cache.Cache, path string) ([]models.Diagnostic, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	hash := cache.HashBytes(source)
	if data, ok := c.GetWithHash(path, hash); ok {
		var diags []models.Diagnostic
		if err := json.Unmarshal(data, &diags); err == nil {
			return diags, nil
		}
	}

	diags := a.Analyze(source)
	if data, err := json.Marshal(diags); err == nil {
		_ = c.SetWithHash(path, hash, data)
	}
	return diags, nil
}
