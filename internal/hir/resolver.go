package hir

import (
	"strings"
)

// ResolveStatus is the three-way outcome of a resolution query.
type ResolveStatus uint8

const (
	// StatusNotFound means no symbol matched.
	StatusNotFound ResolveStatus = iota
	// StatusFound means exactly one symbol matched.
	StatusFound
	// StatusAmbiguous means several symbols matched and the caller decides.
	StatusAmbiguous
)

// ResolveResult carries the outcome of resolving a reference. Absence and
// ambiguity are ordinary data, never errors.
type ResolveResult struct {
	Status     ResolveStatus
	Symbol     *Symbol   // set when Status == StatusFound
	Candidates []*Symbol // set when Status == StatusAmbiguous
}

// Found wraps a single match.
func Found(sym *Symbol) ResolveResult {
	return ResolveResult{Status: StatusFound, Symbol: sym}
}

// Ambiguous wraps a candidate set.
func Ambiguous(candidates []*Symbol) ResolveResult {
	return ResolveResult{Status: StatusAmbiguous, Candidates: candidates}
}

// NotFound is the empty outcome.
func NotFound() ResolveResult {
	return ResolveResult{Status: StatusNotFound}
}

func (r ResolveResult) IsFound() bool     { return r.Status == StatusFound }
func (r ResolveResult) IsAmbiguous() bool { return r.Status == StatusAmbiguous }

// Resolver answers name queries against a SymbolIndex using the pre-computed
// visibility maps plus lexical scope walking. Construct one per query scope;
// it is cheap.
//
// Callers wanting guaranteed-fresh answers must call
// SymbolIndex.EnsureVisibilityMaps first; the resolver itself never rebuilds.
type Resolver struct {
	index *SymbolIndex
	scope string
}

// NewResolver creates a resolver rooted at the model root.
func NewResolver(index *SymbolIndex) *Resolver {
	return &Resolver{index: index}
}

// WithScope returns a resolver whose lexical starting point is scope
// (a qualified name, "" for the root).
func (r *Resolver) WithScope(scope string) *Resolver {
	return &Resolver{index: r.index, scope: scope}
}

// Scope returns the resolver's current scope.
func (r *Resolver) Scope() string { return r.scope }

// Resolve looks up a simple or qualified name.
//
// Qualified names try an exact store lookup first, then split at the first
// separator: the head resolves as a simple name, one level of alias
// indirection is followed, and the tail resolves within the target scope.
//
// Simple names walk from the current scope up through parent scopes, checking
// each scope's direct entries before its imported ones, and finally fall back
// to one exact qualified lookup of the bare name (a root-level symbol whose
// simple name equals the query).
func (r *Resolver) Resolve(name string) ResolveResult {
	if strings.Contains(name, PathSep) {
		if sym := r.index.LookupQualified(name); sym != nil {
			return Found(sym)
		}
		return r.resolveQualifiedPath(name)
	}

	current := r.scope
	for {
		if vis := r.index.VisibilityForScope(current); vis != nil {
			if qname, ok := vis.LookupDirect(name); ok {
				if sym := r.index.LookupQualified(qname); sym != nil {
					return Found(sym)
				}
			}
			if qname, ok := vis.LookupImport(name); ok {
				if sym := r.index.LookupQualified(qname); sym != nil {
					return Found(sym)
				}
			}
		}
		if current == "" {
			break
		}
		current, _ = ParentScope(current)
	}

	if sym := r.index.LookupQualified(name); sym != nil {
		return Found(sym)
	}
	return NotFound()
}

// resolveQualifiedPath resolves "Head::Rest" when no symbol carries that
// exact qualified name, e.g. "ISQ::TorqueValue" where TorqueValue only
// becomes visible in ISQ through a public wildcard import.
func (r *Resolver) resolveQualifiedPath(path string) ResolveResult {
	sep := strings.Index(path, PathSep)
	if sep < 0 {
		return NotFound()
	}
	head, rest := path[:sep], path[sep+len(PathSep):]

	// Heads never contain a separator, so this cannot loop.
	headResult := r.Resolve(head)
	if !headResult.IsFound() {
		return NotFound()
	}
	headSym := headResult.Symbol

	targetScope := headSym.QualifiedName
	if headSym.Kind == KindAlias && len(headSym.Supertypes) > 0 {
		targetScope = headSym.Supertypes[0]
	}

	if strings.Contains(rest, PathSep) {
		return r.WithScope(targetScope).Resolve(rest)
	}

	if vis := r.index.VisibilityForScope(targetScope); vis != nil {
		if qname, ok := vis.LookupDirect(rest); ok {
			if sym := r.index.LookupQualified(qname); sym != nil {
				return Found(sym)
			}
		}
		if qname, ok := vis.LookupImport(rest); ok {
			if sym := r.index.LookupQualified(qname); sym != nil {
				return Found(sym)
			}
		}
	}

	// The member may be a nested declaration without its own visibility entry.
	if sym := r.index.LookupQualified(JoinScope(targetScope, rest)); sym != nil {
		return Found(sym)
	}
	return NotFound()
}

// ResolveType resolves a reference in type position: the outcome is filtered
// to definition kinds. A single non-definition match collapses to NotFound;
// an ambiguous set keeps only definition candidates, and becomes Found when
// exactly one survives.
func (r *Resolver) ResolveType(name string) ResolveResult {
	result := r.Resolve(name)
	switch result.Status {
	case StatusFound:
		if result.Symbol.Kind.IsDefinition() {
			return result
		}
		return NotFound()
	case StatusAmbiguous:
		defs := result.Candidates[:0:0]
		for _, c := range result.Candidates {
			if c.Kind.IsDefinition() {
				defs = append(defs, c)
			}
		}
		switch len(defs) {
		case 0:
			return NotFound()
		case 1:
			return Found(defs[0])
		default:
			return Ambiguous(defs)
		}
	default:
		return NotFound()
	}
}
