package project

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"sysmlkit/internal/diag"
	"sysmlkit/internal/hir"
	"sysmlkit/internal/source"
	"sysmlkit/internal/syntax"
)

// ModelFileExt is the extension of textual model files.
const ModelFileExt = ".sysml"

// ExtractResult carries one file's extraction outcome.
type ExtractResult struct {
	Path    string
	FileID  source.FileID
	Symbols []hir.Symbol
	Bag     *diag.Bag
	// LoadFailed marks entries whose file never made it into the FileSet;
	// their FileID is meaningless.
	LoadFailed bool
}

// ListModelFiles returns every model file under the given directories,
// sorted for deterministic processing order.
func ListModelFiles(dirs ...string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ModelFileExt) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// scanReporter adapts the scanner's callback to diagnostics.
type scanReporter struct {
	bag *diag.Bag
}

func (r *scanReporter) Report(kind string, span source.Span, msg string) {
	r.bag.Add(diag.NewError(diag.InvalidSyntax, span, msg))
}

// SymbolCache is the extraction cache contract: lookups and stores are keyed
// by file content digest. Implemented by driver.Cache.
type SymbolCache interface {
	GetSymbols(key source.Digest) ([]hir.Symbol, bool, error)
	PutSymbols(key source.Digest, path string, symbols []hir.Symbol) error
}

// ExtractOptions configures ExtractDir.
type ExtractOptions struct {
	// Jobs caps extraction parallelism; 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics bounds each file's bag.
	MaxDiagnostics int
	// Interner canonicalizes identifiers across files. Optional.
	Interner *source.Interner
	// Cache, when set, serves unchanged files without rescanning.
	Cache SymbolCache
}

// ExtractDir loads and extracts every model file under dirs in parallel.
// Results come back in the sorted file order regardless of completion order,
// so downstream index merging stays deterministic.
func ExtractDir(ctx context.Context, fileSet *source.FileSet, dirs []string, opts ExtractOptions) ([]ExtractResult, error) {
	files, err := ListModelFiles(dirs...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 100
	}

	// Loading mutates the shared FileSet, so it stays sequential; per-file
	// extraction is the parallel part.
	results := make([]ExtractResult, len(files))
	loadErrors := make(map[string]error, len(files))
	for i, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		results[i].FileID = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(maxDiag)
			results[i].Path = path
			results[i].Bag = bag

			if loadErr, failed := loadErrors[path]; failed {
				results[i].LoadFailed = true
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{},
					"failed to load file: "+loadErr.Error()))
				return nil
			}

			file := fileSet.Get(results[i].FileID)
			if opts.Cache != nil {
				if syms, hit, err := opts.Cache.GetSymbols(file.Hash); err == nil && hit {
					hir.RebindFile(syms, file.ID)
					results[i].Symbols = syms
					return nil
				}
			}

			results[i].Symbols = syntax.ExtractFile(file, syntax.Options{
				Reporter: &scanReporter{bag: bag},
				Interner: opts.Interner,
			})
			if opts.Cache != nil && !bag.HasErrors() {
				// Cache write failures only cost the next run a rescan.
				_ = opts.Cache.PutSymbols(file.Hash, file.Path, results[i].Symbols)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// BuildIndex merges extraction results into index sequentially, in result
// order.
func BuildIndex(index *hir.SymbolIndex, results []ExtractResult) {
	for i := range results {
		if results[i].LoadFailed {
			continue
		}
		index.AddFile(results[i].FileID, results[i].Symbols)
	}
}
