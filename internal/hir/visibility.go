package hir

import (
	"strings"
)

const importMarker = "import:"

// ScopeVisibility captures what simple names are visible in one scope and
// where they resolve to. Built once per index generation, read at query time.
//
// For a scope like "ISQ" with "public import ISQSpaceTime::*":
// direct holds the symbols declared (or inherited) in ISQ, imports holds the
// names flattened out of ISQSpaceTime, and publicReexports records that
// ISQSpaceTime's names flow onward to scopes importing ISQ.
type ScopeVisibility struct {
	scope           string
	direct          map[string]string // simple name -> qualified name
	imports         map[string]string
	publicReexports []string
}

// NewScopeVisibility creates an empty visibility map for scope.
func NewScopeVisibility(scope string) *ScopeVisibility {
	return &ScopeVisibility{
		scope:   scope,
		direct:  make(map[string]string),
		imports: make(map[string]string),
	}
}

// Scope returns the scope this visibility applies to.
func (v *ScopeVisibility) Scope() string { return v.scope }

// Lookup finds a simple name, checking direct declarations before imports.
func (v *ScopeVisibility) Lookup(name string) (string, bool) {
	if qn, ok := v.direct[name]; ok {
		return qn, true
	}
	qn, ok := v.imports[name]
	return qn, ok
}

// LookupDirect finds a name among direct (and inherited) declarations only.
func (v *ScopeVisibility) LookupDirect(name string) (string, bool) {
	qn, ok := v.direct[name]
	return qn, ok
}

// LookupImport finds a name among imported entries only.
func (v *ScopeVisibility) LookupImport(name string) (string, bool) {
	qn, ok := v.imports[name]
	return qn, ok
}

// AddDirect records a locally declared or inherited name.
func (v *ScopeVisibility) AddDirect(simpleName, qualifiedName string) {
	v.direct[simpleName] = qualifiedName
}

// AddImport records an imported name. Imports never shadow direct
// declarations, so an existing direct entry wins.
func (v *ScopeVisibility) AddImport(simpleName, qualifiedName string) {
	if _, exists := v.direct[simpleName]; exists {
		return
	}
	v.imports[simpleName] = qualifiedName
}

// AddPublicReexport marks namespace as publicly re-exported from this scope.
func (v *ScopeVisibility) AddPublicReexport(namespace string) {
	for _, existing := range v.publicReexports {
		if existing == namespace {
			return
		}
	}
	v.publicReexports = append(v.publicReexports, namespace)
}

// PublicReexports returns the publicly re-exported namespaces.
func (v *ScopeVisibility) PublicReexports() []string { return v.publicReexports }

// Direct exposes the direct-name map. Callers must not modify it.
func (v *ScopeVisibility) Direct() map[string]string { return v.direct }

// Imports exposes the imported-name map. Callers must not modify it.
func (v *ScopeVisibility) Imports() map[string]string { return v.imports }

// Len returns the number of visible names.
func (v *ScopeVisibility) Len() int { return len(v.direct) + len(v.imports) }

// EnsureVisibilityMaps rebuilds the per-scope visibility maps if any file was
// added or removed since the last build. Callers needing guaranteed-fresh
// resolution results call this (or an entry point that does) first; the
// rebuild is whole-index by design.
func (ix *SymbolIndex) EnsureVisibilityMaps() {
	if ix.visibilityDirty {
		ix.buildVisibilityMaps()
		ix.visibilityDirty = false
	}
}

// VisibilityForScope returns the visibility map for scope, or nil if the
// scope is unknown or maps have not been built.
func (ix *SymbolIndex) VisibilityForScope(scope string) *ScopeVisibility {
	return ix.visibility[scope]
}

// buildVisibilityMaps computes one visibility map per scope:
//
//  1. scope discovery (every parent scope plus every namespace-owning symbol)
//  2. direct-definition collection (including short-name aliases)
//  3. inheritance propagation (supertype members become visible in the
//     subtype's scope, never shadowing local names)
//  4. import processing with transitive public re-export flattening
func (ix *SymbolIndex) buildVisibilityMaps() {
	scopes := ix.collectAllScopes()

	ix.visibility = make(map[string]*ScopeVisibility, len(scopes)+1)
	for _, scope := range scopes {
		vis := NewScopeVisibility(scope)
		ix.collectDirectDefs(vis, scope)
		ix.visibility[scope] = vis
	}
	if _, ok := ix.visibility[""]; !ok {
		root := NewScopeVisibility("")
		ix.collectDirectDefs(root, "")
		ix.visibility[""] = root
	}

	ix.propagateInheritedMembers()

	visited := make(map[[2]string]bool)
	for _, scope := range scopes {
		ix.processImportsRecursive(scope, visited)
	}
	ix.processImportsRecursive("", visited)
}

// collectAllScopes finds every distinct scope: the parent of each symbol,
// plus each namespace-owning symbol itself, plus the root.
func (ix *SymbolIndex) collectAllScopes() []string {
	seen := make(map[string]bool)
	for idx := range ix.symbols {
		if !ix.live(SymbolIdx(idx)) {
			continue
		}
		sym := &ix.symbols[idx]
		if parent, ok := ParentScope(sym.QualifiedName); ok {
			seen[parent] = true
		}
		if sym.Kind.IsDefinition() {
			seen[sym.QualifiedName] = true
		}
	}
	scopes := make([]string, 0, len(seen))
	for scope := range seen {
		scopes = append(scopes, scope)
	}
	return scopes
}

// collectDirectDefs adds every symbol whose immediate parent is scope, keyed
// by simple name and, when present, by short name.
func (ix *SymbolIndex) collectDirectDefs(vis *ScopeVisibility, scope string) {
	for idx := range ix.symbols {
		if !ix.live(SymbolIdx(idx)) {
			continue
		}
		sym := &ix.symbols[idx]
		if sym.Kind == KindImport {
			continue
		}
		parent, ok := ParentScope(sym.QualifiedName)
		if !ok {
			continue
		}
		if parent != scope {
			continue
		}
		vis.AddDirect(sym.Name, sym.QualifiedName)
		if sym.ShortName != "" {
			vis.AddDirect(sym.ShortName, sym.QualifiedName)
		}
	}
}

// propagateInheritedMembers copies supertype members into subtype scopes.
// When "Shape :> Path", members of Path become visible in Shape as if locally
// declared, with local declarations taking priority.
func (ix *SymbolIndex) propagateInheritedMembers() {
	type pair struct{ child, parent string }
	var pairs []pair

	for idx := range ix.symbols {
		if !ix.live(SymbolIdx(idx)) {
			continue
		}
		sym := &ix.symbols[idx]
		if len(sym.Supertypes) == 0 {
			continue
		}
		parentScope, _ := ParentScope(sym.QualifiedName)
		for _, supertype := range sym.Supertypes {
			if resolved, ok := ix.resolveSupertypeForInheritance(supertype, parentScope); ok {
				pairs = append(pairs, pair{child: sym.QualifiedName, parent: resolved})
			}
		}
	}

	for _, p := range pairs {
		parentVis := ix.visibility[p.parent]
		childVis := ix.visibility[p.child]
		if parentVis == nil || childVis == nil {
			continue
		}
		for name, qname := range parentVis.direct {
			if _, exists := childVis.direct[name]; !exists {
				childVis.direct[name] = qname
			}
		}
	}
}

// resolveSupertypeForInheritance resolves a supertype reference with a
// restricted lookup: exact qualified name, then a scope walk over the direct
// entries collected so far. The full Resolver is deliberately avoided here
// because it depends on the maps still being built.
func (ix *SymbolIndex) resolveSupertypeForInheritance(name, startingScope string) (string, bool) {
	if sym := ix.LookupQualified(name); sym != nil {
		return sym.QualifiedName, true
	}

	scope := startingScope
	for {
		if sym := ix.LookupQualified(JoinScope(scope, name)); sym != nil {
			return sym.QualifiedName, true
		}
		if vis := ix.visibility[scope]; vis != nil {
			if resolved, ok := vis.direct[name]; ok {
				return resolved, true
			}
		}
		if scope == "" {
			break
		}
		scope, _ = ParentScope(scope)
	}
	return "", false
}

// processImportsRecursive applies all import symbols declared in scope.
// Wildcard targets have their own imports processed first so transitive
// public re-exports are fully flattened before copying; the visited set keyed
// by (scope, resolved target) keeps circular imports from recursing forever.
func (ix *SymbolIndex) processImportsRecursive(scope string, visited map[[2]string]bool) {
	type importDecl struct {
		name   string
		public bool
	}
	var decls []importDecl
	for idx := range ix.symbols {
		if !ix.live(SymbolIdx(idx)) {
			continue
		}
		sym := &ix.symbols[idx]
		if sym.Kind != KindImport {
			continue
		}
		if importScope(sym.QualifiedName) != scope {
			continue
		}
		decls = append(decls, importDecl{name: sym.Name, public: sym.Public})
	}

	for _, decl := range decls {
		wildcard := strings.HasSuffix(decl.name, PathSep+"*")
		target := strings.TrimSuffix(decl.name, PathSep+"*")
		resolvedTarget := ix.resolveImportTarget(scope, target)

		if wildcard {
			key := [2]string{scope, resolvedTarget}
			if visited[key] {
				continue
			}
			visited[key] = true

			ix.processImportsRecursive(resolvedTarget, visited)

			targetVis := ix.visibility[resolvedTarget]
			vis := ix.visibility[scope]
			if targetVis == nil || vis == nil {
				continue
			}
			for name, qname := range targetVis.direct {
				vis.AddImport(name, qname)
			}
			for name, qname := range targetVis.imports {
				vis.AddImport(name, qname)
			}
			if decl.public {
				vis.AddPublicReexport(resolvedTarget)
			}
		} else {
			if vis := ix.visibility[scope]; vis != nil {
				vis.AddImport(SimpleName(resolvedTarget), resolvedTarget)
			}
		}
	}
}

// importScope extracts the declaring scope out of an import symbol's
// qualified name ("A::B::import:Target::*" -> "A::B").
func importScope(qualifiedName string) string {
	if idx := strings.Index(qualifiedName, PathSep+importMarker); idx >= 0 {
		return qualifiedName[:idx]
	}
	if strings.HasPrefix(qualifiedName, importMarker) {
		return ""
	}
	// Not an import-shaped name; treat its parent as the scope.
	parent, _ := ParentScope(qualifiedName)
	return parent
}

// resolveImportTarget resolves an import target relative to the declaring
// scope: the scope itself, then successively shorter parent prefixes, then
// the bare target as a last resort.
func (ix *SymbolIndex) resolveImportTarget(scope, target string) string {
	if strings.Contains(target, PathSep) {
		if _, ok := ix.visibility[target]; ok {
			return target
		}
	}

	current := scope
	for {
		candidate := JoinScope(current, target)
		if _, ok := ix.visibility[candidate]; ok {
			return candidate
		}
		if current == "" {
			break
		}
		current, _ = ParentScope(current)
	}
	return target
}
