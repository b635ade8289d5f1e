package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"sysmlkit/internal/driver"
	"sysmlkit/internal/hir"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [flags] [directory]",
	Short: "List the symbols indexed from a workspace",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSymbols,
}

func init() {
	symbolsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	symbolsCmd.Flags().String("prefix", "", "only list symbols whose qualified name starts with this prefix")
	symbolsCmd.Flags().Bool("defs-only", false, "only list definitions and packages")
}

type symbolJSON struct {
	Name      string `json:"name"`
	Qualified string `json:"qualified"`
	Kind      string `json:"kind"`
	File      string `json:"file"`
	Line      uint32 `json:"line"`
	Public    bool   `json:"public"`
}

func runSymbols(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	prefix, err := cmd.Flags().GetString("prefix")
	if err != nil {
		return fmt.Errorf("failed to get prefix flag: %w", err)
	}
	defsOnly, err := cmd.Flags().GetBool("defs-only")
	if err != nil {
		return fmt.Errorf("failed to get defs-only flag: %w", err)
	}

	result, err := driver.Check(cmd.Context(), driver.CheckOptions{Dir: dir, SkipChecks: true})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	syms := result.Index.AllSymbols()
	filtered := make([]*hir.Symbol, 0, len(syms))
	for _, sym := range syms {
		if sym.Kind == hir.KindImport {
			continue
		}
		if defsOnly && !sym.Kind.IsDefinition() {
			continue
		}
		if prefix != "" && !strings.HasPrefix(sym.QualifiedName, prefix) {
			continue
		}
		filtered = append(filtered, sym)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].QualifiedName < filtered[j].QualifiedName
	})

	switch format {
	case "pretty":
		for _, sym := range filtered {
			printSymbolLine(result, sym)
		}
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			fmt.Fprintf(os.Stdout, "%d symbol(s)\n", len(filtered))
		}
		return nil
	case "json":
		out := make([]symbolJSON, 0, len(filtered))
		for _, sym := range filtered {
			entry := symbolJSON{
				Name:      sym.Name,
				Qualified: sym.QualifiedName,
				Kind:      sym.Kind.String(),
				Line:      sym.Span.Start.Line + 1,
				Public:    sym.Public,
			}
			if f := result.FileSet.Get(sym.File); f != nil {
				entry.File = f.Path
			}
			out = append(out, entry)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
