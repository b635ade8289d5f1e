package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sysmlkit/internal/driver"
	"sysmlkit/internal/hir"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] <name>",
	Short: "Resolve a name against the workspace model",
	Long: `Resolve looks a simple or qualified name up the same way references
inside the model resolve: the enclosing scope first, then outer scopes and
visible imports. Use --scope to set the scope the lookup starts from.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("path", ".", "workspace directory")
	resolveCmd.Flags().String("scope", "", "qualified name of the scope to resolve from (default: model root)")
	resolveCmd.Flags().Bool("all", false, "also list same-named symbols from other scopes")
}

func runResolve(cmd *cobra.Command, args []string) error {
	name := args[0]

	dir, err := cmd.Flags().GetString("path")
	if err != nil {
		return fmt.Errorf("failed to get path flag: %w", err)
	}
	scope, err := cmd.Flags().GetString("scope")
	if err != nil {
		return fmt.Errorf("failed to get scope flag: %w", err)
	}
	listAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}

	result, err := driver.Check(cmd.Context(), driver.CheckOptions{Dir: dir, SkipChecks: true})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	res := result.ResolveQuery(scope, name)
	switch res.Status {
	case hir.StatusFound:
		printSymbolLine(result, res.Symbol)
	case hir.StatusAmbiguous:
		fmt.Fprintf(os.Stdout, "ambiguous: %q has %d candidates\n", name, len(res.Candidates))
		for _, c := range res.Candidates {
			printSymbolLine(result, c)
		}
	case hir.StatusNotFound:
		if listAll {
			if homonyms := result.Index.LookupSimple(name); len(homonyms) > 0 {
				fmt.Fprintf(os.Stdout, "not visible from %q, declared elsewhere:\n", scope)
				for _, c := range homonyms {
					printSymbolLine(result, c)
				}
				break
			}
		}
		fmt.Fprintf(os.Stdout, "not found: %q\n", name)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

func printSymbolLine(result *driver.CheckResult, sym *hir.Symbol) {
	loc := ""
	if f := result.FileSet.Get(sym.File); f != nil {
		loc = fmt.Sprintf("  (%s:%d:%d)", f.Path, sym.Span.Start.Line+1, sym.Span.Start.Col+1)
	}
	fmt.Fprintf(os.Stdout, "%s  %s%s\n", sym.QualifiedName, sym.Kind, loc)
}
