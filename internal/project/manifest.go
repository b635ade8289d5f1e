package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file a model workspace is rooted at.
const ManifestName = "sysml.toml"

// Manifest is a loaded workspace manifest.
type Manifest struct {
	Path   string // absolute path to the manifest file
	Root   string // directory containing it
	Config Config
}

// Config mirrors the manifest's TOML structure.
type Config struct {
	Model  ModelConfig  `toml:"model"`
	Source SourceConfig `toml:"source"`
	Check  CheckConfig  `toml:"check"`
}

// ModelConfig names the model.
type ModelConfig struct {
	Name string `toml:"name"`
}

// SourceConfig selects where model files are found, relative to the root.
// An empty list means the whole root.
type SourceConfig struct {
	Dirs []string `toml:"dirs"`
}

// CheckConfig tunes diagnostics collection.
type CheckConfig struct {
	MaxDiagnostics int `toml:"max-diagnostics"`
}

// FindManifest walks from startDir up to the filesystem root looking for
// sysml.toml. The second return is false when no manifest exists.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and parses the manifest governing startDir. The second
// return mirrors FindManifest's.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := parseManifest(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func parseManifest(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("model") {
		return Config{}, fmt.Errorf("%s: missing [model]", path)
	}
	if !meta.IsDefined("model", "name") || strings.TrimSpace(cfg.Model.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [model].name", path)
	}
	if cfg.Check.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [check].max-diagnostics must not be negative", path)
	}
	return cfg, nil
}

// SourceDirs returns the absolute source directories the manifest selects.
func (m *Manifest) SourceDirs() []string {
	if len(m.Config.Source.Dirs) == 0 {
		return []string{m.Root}
	}
	dirs := make([]string, 0, len(m.Config.Source.Dirs))
	for _, d := range m.Config.Source.Dirs {
		dirs = append(dirs, filepath.Join(m.Root, filepath.FromSlash(d)))
	}
	return dirs
}
