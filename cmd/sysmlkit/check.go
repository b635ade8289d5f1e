package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sysmlkit/internal/diag"
	"sysmlkit/internal/diagfmt"
	"sysmlkit/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [directory]",
	Short: "Check a SysML model workspace",
	Long:  `Check indexes every *.sysml file in the workspace, resolves all references, and reports semantic diagnostics`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for extraction (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("disk-cache", false, "reuse extracted symbols from the on-disk cache")
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	enableDiskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	var cache *driver.Cache
	if enableDiskCache {
		cache, err = driver.OpenCache("sysmlkit")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	result, err := driver.Check(cmd.Context(), driver.CheckOptions{
		Dir:            dir,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Cache:          cache,
	})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	bag := applyWarningPolicy(result.Bag, noWarnings, warningsAsErrors)

	pathMode := diagfmt.PathModeRelative
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, bag, result.FileSet, diagfmt.PrettyOpts{
			Color:       useColor(cmd, os.Stdout),
			PathMode:    pathMode,
			ShowNotes:   withNotes,
			ShowContext: true,
		})
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet && !bag.HasErrors() {
			fmt.Fprintf(os.Stdout, "checked %d file(s), %d symbol(s)\n", result.Files, result.Index.Len())
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, bag, result.FileSet, diagfmt.JSONOpts{
			PathMode:     pathMode,
			IncludeNotes: withNotes,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if bag.HasErrors() {
		// Suppress cobra usage output on diagnostic errors.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // diagnostics already printed
	}
	return nil
}

// applyWarningPolicy rewrites the bag according to the warning flags. The
// input bag is left untouched.
func applyWarningPolicy(bag *diag.Bag, noWarnings, warningsAsErrors bool) *diag.Bag {
	if !noWarnings && !warningsAsErrors {
		return bag
	}
	out := diag.NewBag(bag.Len() + 1)
	for _, d := range bag.Items() {
		if d.Severity == diag.SevWarning {
			if noWarnings {
				continue
			}
			d.Severity = diag.SevError
		}
		out.Add(d)
	}
	return out
}
