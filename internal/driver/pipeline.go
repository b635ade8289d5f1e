package driver

import (
	"context"

	"sysmlkit/internal/diag"
	"sysmlkit/internal/hir"
	"sysmlkit/internal/project"
	"sysmlkit/internal/sema"
	"sysmlkit/internal/source"
)

// CheckOptions configures a workspace pipeline run.
type CheckOptions struct {
	// Dir is the starting directory; the manifest is discovered from here.
	Dir string
	// Jobs caps extraction parallelism; 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics bounds the final bag; 0 uses the manifest setting or a
	// default of 100.
	MaxDiagnostics int
	// Cache, when set, serves unchanged files from disk.
	Cache *Cache
	// SkipChecks stops after indexing and reference resolution, leaving the
	// semantic passes out. Used by commands that only need the index.
	SkipChecks bool
}

// CheckResult is the outcome of a pipeline run.
type CheckResult struct {
	// Manifest is nil when the workspace has no sysml.toml.
	Manifest *project.Manifest
	FileSet  *source.FileSet
	Interner *source.Interner
	Index    *hir.SymbolIndex
	// Bag holds every collected diagnostic, sorted.
	Bag *diag.Bag
	// Files is the number of model files processed.
	Files int
}

// Check runs the full pipeline: discover the workspace, extract all model
// files, build the symbol index, resolve every reference and (unless
// disabled) run the semantic checks.
func Check(ctx context.Context, opts CheckOptions) (*CheckResult, error) {
	manifest, hasManifest, err := project.LoadManifest(opts.Dir)
	if err != nil {
		return nil, err
	}

	dirs := []string{opts.Dir}
	root := opts.Dir
	maxDiag := opts.MaxDiagnostics
	if hasManifest {
		dirs = manifest.SourceDirs()
		root = manifest.Root
		if maxDiag == 0 {
			maxDiag = manifest.Config.Check.MaxDiagnostics
		}
	}
	if maxDiag <= 0 {
		maxDiag = 100
	}

	fileSet := source.NewFileSetWithBase(root)
	interner := source.NewInterner()

	results, err := project.ExtractDir(ctx, fileSet, dirs, project.ExtractOptions{
		Jobs:           opts.Jobs,
		MaxDiagnostics: maxDiag,
		Interner:       interner,
		Cache:          opts.Cache,
	})
	if err != nil {
		return nil, err
	}

	index := hir.NewIndex()
	project.BuildIndex(index, results)
	index.ResolveAllTypeRefs()

	bag := diag.NewBag(maxDiag)
	for i := range results {
		bag.Merge(results[i].Bag)
	}

	if !opts.SkipChecks {
		semaBag := diag.NewBag(maxDiag)
		sema.NewChecker(index, &diag.BagReporter{Bag: semaBag}).Check()
		bag.Merge(semaBag)
	}
	bag.Sort()

	res := &CheckResult{
		FileSet:  fileSet,
		Interner: interner,
		Index:    index,
		Bag:      bag,
		Files:    len(results),
	}
	if hasManifest {
		res.Manifest = manifest
	}
	return res, nil
}

// ResolveQuery answers one name query against a checked workspace, the same
// way references inside the model resolve.
func (r *CheckResult) ResolveQuery(scope, name string) hir.ResolveResult {
	r.Index.EnsureVisibilityMaps()
	return r.Index.ResolverForScope(scope).Resolve(name)
}
