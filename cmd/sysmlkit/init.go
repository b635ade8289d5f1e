package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sysmlkit/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new SysML model workspace",
	Long: `Initialize a new model workspace by creating a manifest (sysml.toml)
and a starter model file (main.sysml). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will be
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(_ *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "sysml-model"
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("workspace already initialized: %s exists", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(buildDefaultManifest(name)), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	mainPath := filepath.Join(target, "main"+project.ModelFileExt)
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMainModel()), 0o600); err != nil {
			return fmt.Errorf("failed to write main%s: %w", project.ModelFileExt, err)
		}
		createdMain = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized SysML workspace in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - %s\n", project.ManifestName)
	if createdMain {
		fmt.Fprintf(os.Stdout, "  - main%s\n", project.ModelFileExt)
	} else {
		fmt.Fprintf(os.Stdout, "  - main%s (existing)\n", project.ModelFileExt)
	}
	return nil
}

func buildDefaultManifest(name string) string {
	// Minimal TOML manifest used as a workspace marker.
	return fmt.Sprintf(`# SysML workspace manifest
[model]
name = "%s"
`, name)
}

func defaultMainModel() string {
	return `package Main {
	part def System {
		attribute mass : Real;
	}
	part system : System;
}
`
}
