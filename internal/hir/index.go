package hir

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"sysmlkit/internal/source"
)

// PathSep separates segments of a qualified name.
const PathSep = "::"

// SymbolIdx is a position in the index's symbol store.
type SymbolIdx uint32

// SymbolIndex owns the symbol store and every derived lookup structure for
// workspace-wide name resolution.
//
// Symbols live in a single append-only store and are referenced by position
// from all other maps. Removing a file detaches its positions from the lookup
// maps but never compacts the store, so removed positions become inert holes;
// lookups treat any position defensively and yield nothing for stale entries.
//
// Methods returning *Symbol hand out pointers into the store; they stay valid
// until the next AddFile/RemoveFile.
type SymbolIndex struct {
	symbols     []Symbol
	byQualified map[string]SymbolIdx
	bySimple    map[string][]SymbolIdx
	byFile      map[source.FileID][]SymbolIdx
	definitions map[string]SymbolIdx

	// Per-scope visibility maps, rebuilt in full whenever dirty.
	visibility      map[string]*ScopeVisibility
	visibilityDirty bool
}

// NewIndex creates an empty index.
func NewIndex() *SymbolIndex {
	return &SymbolIndex{
		byQualified: make(map[string]SymbolIdx),
		bySimple:    make(map[string][]SymbolIdx),
		byFile:      make(map[source.FileID][]SymbolIdx),
		definitions: make(map[string]SymbolIdx),
		visibility:  make(map[string]*ScopeVisibility),
	}
}

// AddFile ingests a file's symbols, replacing any previously added set for the
// same file. Repeated calls with identical input leave the live index content
// unchanged.
func (ix *SymbolIndex) AddFile(file source.FileID, symbols []Symbol) {
	ix.RemoveFile(file)
	ix.visibilityDirty = true

	fileIndices := make([]SymbolIdx, 0, len(symbols))
	for i := range symbols {
		n, err := safecast.Conv[uint32](len(ix.symbols))
		if err != nil {
			panic(fmt.Errorf("symbol store overflow: %w", err))
		}
		idx := SymbolIdx(n)
		sym := symbols[i]

		ix.byQualified[sym.QualifiedName] = idx
		ix.bySimple[sym.Name] = append(ix.bySimple[sym.Name], idx)
		if sym.Kind.IsDefinition() {
			ix.definitions[sym.QualifiedName] = idx
		}

		fileIndices = append(fileIndices, idx)
		ix.symbols = append(ix.symbols, sym)
	}
	ix.byFile[file] = fileIndices
}

// RemoveFile detaches a file's symbols from every lookup structure. The store
// itself keeps the entries as holes.
func (ix *SymbolIndex) RemoveFile(file source.FileID) {
	indices, ok := ix.byFile[file]
	if !ok {
		return
	}
	delete(ix.byFile, file)
	ix.visibilityDirty = true

	for _, idx := range indices {
		sym := ix.at(idx)
		if sym == nil {
			continue
		}
		if cur, ok := ix.byQualified[sym.QualifiedName]; ok && cur == idx {
			delete(ix.byQualified, sym.QualifiedName)
		}
		if cur, ok := ix.definitions[sym.QualifiedName]; ok && cur == idx {
			delete(ix.definitions, sym.QualifiedName)
		}
		if list, ok := ix.bySimple[sym.Name]; ok {
			kept := list[:0]
			for _, i := range list {
				if i != idx {
					kept = append(kept, i)
				}
			}
			if len(kept) == 0 {
				delete(ix.bySimple, sym.Name)
			} else {
				ix.bySimple[sym.Name] = kept
			}
		}
	}
}

// at returns the stored symbol at idx, or nil when out of range.
func (ix *SymbolIndex) at(idx SymbolIdx) *Symbol {
	if int(idx) >= len(ix.symbols) {
		return nil
	}
	return &ix.symbols[idx]
}

// live reports whether idx is still reachable through the qualified-name
// index, i.e. has not been removed or superseded.
func (ix *SymbolIndex) live(idx SymbolIdx) bool {
	sym := ix.at(idx)
	if sym == nil {
		return false
	}
	cur, ok := ix.byQualified[sym.QualifiedName]
	return ok && cur == idx
}

// LookupQualified returns the symbol with the exact qualified name, or nil.
func (ix *SymbolIndex) LookupQualified(name string) *Symbol {
	if idx, ok := ix.byQualified[name]; ok {
		return ix.at(idx)
	}
	return nil
}

// LookupSimple returns every live symbol sharing the simple name. Multiple
// matches are an ordinary outcome, not an error.
func (ix *SymbolIndex) LookupSimple(name string) []*Symbol {
	indices := ix.bySimple[name]
	if len(indices) == 0 {
		return nil
	}
	out := make([]*Symbol, 0, len(indices))
	for _, idx := range indices {
		if sym := ix.at(idx); sym != nil {
			out = append(out, sym)
		}
	}
	return out
}

// LookupDefinition returns the definition-kind symbol with the qualified
// name, or nil when the name is absent or names a usage.
func (ix *SymbolIndex) LookupDefinition(name string) *Symbol {
	if idx, ok := ix.definitions[name]; ok {
		return ix.at(idx)
	}
	return nil
}

// SymbolsInFile returns the symbols ingested for file in their original order.
func (ix *SymbolIndex) SymbolsInFile(file source.FileID) []*Symbol {
	indices := ix.byFile[file]
	if len(indices) == 0 {
		return nil
	}
	out := make([]*Symbol, 0, len(indices))
	for _, idx := range indices {
		if sym := ix.at(idx); sym != nil {
			out = append(out, sym)
		}
	}
	return out
}

// AllSymbols returns every live symbol. Order is unspecified.
func (ix *SymbolIndex) AllSymbols() []*Symbol {
	out := make([]*Symbol, 0, len(ix.byQualified))
	for _, idx := range ix.byQualified {
		if sym := ix.at(idx); sym != nil {
			out = append(out, sym)
		}
	}
	return out
}

// AllDefinitions returns every live definition-kind symbol. Order is
// unspecified.
func (ix *SymbolIndex) AllDefinitions() []*Symbol {
	out := make([]*Symbol, 0, len(ix.definitions))
	for _, idx := range ix.definitions {
		if sym := ix.at(idx); sym != nil {
			out = append(out, sym)
		}
	}
	return out
}

// Len returns the number of live symbols.
func (ix *SymbolIndex) Len() int { return len(ix.byQualified) }

// FileCount returns the number of files currently contributing symbols.
func (ix *SymbolIndex) FileCount() int { return len(ix.byFile) }

// ResolverForScope builds a resolver rooted at the given scope.
func (ix *SymbolIndex) ResolverForScope(scope string) *Resolver {
	return NewResolver(ix).WithScope(scope)
}

// ParentScope returns the enclosing scope of a qualified name:
// "A::B::C" -> ("A::B", true); "A" -> ("", true); "" -> ("", false).
func ParentScope(qualifiedName string) (string, bool) {
	if qualifiedName == "" {
		return "", false
	}
	if idx := strings.LastIndex(qualifiedName, PathSep); idx >= 0 {
		return qualifiedName[:idx], true
	}
	return "", true
}

// SimpleName returns the last segment of a qualified name.
func SimpleName(qualifiedName string) string {
	if idx := strings.LastIndex(qualifiedName, PathSep); idx >= 0 {
		return qualifiedName[idx+len(PathSep):]
	}
	return qualifiedName
}

// JoinScope prefixes name with scope unless scope is the root.
func JoinScope(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + PathSep + name
}
