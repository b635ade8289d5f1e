package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sysmlkit/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sysmlkit",
	Short: "SysML model indexer and name resolution toolchain",
	Long:  `sysmlkit indexes SysML v2 textual models, resolves names and feature chains, and reports semantic diagnostics`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to show (0=manifest setting or 100)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor decides whether output to f should be colorized, honoring the
// persistent --color flag.
func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}
