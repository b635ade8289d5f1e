package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sysmlkit/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the on-disk symbol cache",
	Long:  "Remove the cache of extracted symbols kept under the user cache directory.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	cache, err := driver.OpenCache("sysmlkit")
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove cache: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "symbol cache removed\n")
	return nil
}
