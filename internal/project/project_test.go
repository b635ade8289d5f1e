package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sysmlkit/internal/hir"
	"sysmlkit/internal/source"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[model]\nname = \"Demo\"\n")
	nested := filepath.Join(root, "models", "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %s, want manifest in %s", path, root)
	}
}

func TestFindManifestAbsent(t *testing.T) {
	_, ok, err := FindManifest(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("manifest reported in an empty directory")
	}
}

func TestLoadManifestValidation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[model]\n")
	if _, _, err := LoadManifest(root); err == nil {
		t.Fatalf("missing [model].name must fail")
	}

	writeFile(t, filepath.Join(root, ManifestName),
		"[model]\nname = \"Demo\"\n\n[source]\ndirs = [\"models\"]\n\n[check]\nmax-diagnostics = 50\n")
	m, ok, err := LoadManifest(root)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	if m.Config.Model.Name != "Demo" || m.Config.Check.MaxDiagnostics != 50 {
		t.Fatalf("config mismatch: %+v", m.Config)
	}
	dirs := m.SourceDirs()
	if len(dirs) != 1 || dirs[0] != filepath.Join(root, "models") {
		t.Fatalf("source dirs = %v", dirs)
	}
}

func TestManifestDefaultSourceDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[model]\nname = \"Demo\"\n")
	m, _, err := LoadManifest(root)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if dirs := m.SourceDirs(); len(dirs) != 1 || dirs[0] != root {
		t.Fatalf("default source dirs = %v, want just the root", dirs)
	}
}

func TestExtractDirBuildsIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib.sysml"), `
package Vehicles {
	part def Car;
}
`)
	writeFile(t, filepath.Join(root, "app.sysml"), `
package App {
	import Vehicles::*;
	part myCar : Car;
}
`)

	fs := source.NewFileSetWithBase(root)
	results, err := ExtractDir(context.Background(), fs, []string{root}, ExtractOptions{
		Interner: source.NewInterner(),
	})
	if err != nil {
		t.Fatalf("ExtractDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// Sorted order: app.sysml before lib.sysml.
	if filepath.Base(results[0].Path) != "app.sysml" {
		t.Fatalf("results out of order: %s first", results[0].Path)
	}

	ix := hir.NewIndex()
	BuildIndex(ix, results)
	ix.ResolveAllTypeRefs()

	myCar := ix.LookupQualified("App::myCar")
	if myCar == nil {
		t.Fatalf("App::myCar not indexed")
	}
	if got := myCar.TypeRefs[0].Resolved(); got != "Vehicles::Car" {
		t.Fatalf("cross-file reference resolved to %q", got)
	}
}

func TestExtractDirEmpty(t *testing.T) {
	fs := source.NewFileSet()
	results, err := ExtractDir(context.Background(), fs, []string{t.TempDir()}, ExtractOptions{})
	if err != nil {
		t.Fatalf("ExtractDir: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("empty workspace produced %d results", len(results))
	}
}
