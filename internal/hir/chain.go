package hir

// ResolveAllTypeRefs resolves every recorded type reference and every segment
// of every feature chain, writing resolved qualified names back onto the
// reference records. Simple references and chain part 0 use full lexical
// scoping from the owning symbol's scope; later chain parts resolve as
// members of the previous part's type.
func (ix *SymbolIndex) ResolveAllTypeRefs() {
	ix.EnsureVisibilityMaps()

	type workItem struct {
		sym        SymbolIdx
		ref        int
		part       int
		target     string
		chainParts []string // nil for simple references
	}
	var work []workItem

	for idx := range ix.symbols {
		if !ix.live(SymbolIdx(idx)) {
			continue
		}
		sym := &ix.symbols[idx]
		for refIdx := range sym.TypeRefs {
			tr := &sym.TypeRefs[refIdx]
			switch tr.Kind {
			case RefSimple:
				if len(tr.Parts) > 0 {
					work = append(work, workItem{
						sym:    SymbolIdx(idx),
						ref:    refIdx,
						target: tr.Parts[0].Target,
					})
				}
			case RefChain:
				parts := make([]string, len(tr.Parts))
				for i := range tr.Parts {
					parts[i] = tr.Parts[i].Target
				}
				for partIdx := range tr.Parts {
					work = append(work, workItem{
						sym:        SymbolIdx(idx),
						ref:        refIdx,
						part:       partIdx,
						target:     tr.Parts[partIdx].Target,
						chainParts: parts,
					})
				}
			}
		}
	}

	for _, w := range work {
		owner := ix.at(w.sym)
		if owner == nil {
			continue
		}
		resolved := ix.resolveTypeRef(owner.QualifiedName, w.target, w.chainParts, w.part)

		sym := ix.at(w.sym)
		if sym == nil || w.ref >= len(sym.TypeRefs) {
			continue
		}
		tr := &sym.TypeRefs[w.ref]
		if w.part < len(tr.Parts) {
			tr.Parts[w.part].Resolved = resolved
		}
	}
}

// resolveTypeRef resolves one reference recorded on containingSymbol.
// References inside a symbol resolve against the symbol's own scope, not just
// its parent, so sibling members stay reachable.
func (ix *SymbolIndex) resolveTypeRef(containingSymbol, target string, chainParts []string, chainIdx int) string {
	scope := containingSymbol

	if chainParts != nil && chainIdx > 0 {
		return ix.resolveFeatureChainMember(scope, chainParts, chainIdx)
	}

	if sym := ix.resolveWithScopeWalk(target, scope); sym != nil {
		return sym.QualifiedName
	}
	if sym := ix.LookupQualified(target); sym != nil {
		return sym.QualifiedName
	}
	return ""
}

// resolveFeatureChainMember resolves chain part chainIdx (> 0), e.g. "focus"
// in "takePicture.focus": part 0 resolves lexically, then each later part is
// looked up as a member of the previous part's type.
//
// Usages can declare nested members directly even when they carry a type
// annotation (part differential : Differential { port p; }), so the previous
// part's own scope is checked before its type's scope.
func (ix *SymbolIndex) resolveFeatureChainMember(scope string, chainParts []string, chainIdx int) string {
	if chainIdx == 0 || len(chainParts) == 0 {
		return ""
	}

	firstSym := ix.resolveWithScopeWalk(chainParts[0], scope)
	if firstSym == nil {
		return ""
	}

	currentSym := firstSym.QualifiedName
	currentTypeScope := ix.memberLookupScope(firstSym, scope)

	for i := 1; i <= chainIdx && i < len(chainParts); i++ {
		part := chainParts[i]

		memberSym := ix.FindMemberInScope(currentSym, part)
		if memberSym == nil {
			if currentSym == currentTypeScope {
				return ""
			}
			memberSym = ix.FindMemberInScope(currentTypeScope, part)
			if memberSym == nil {
				return ""
			}
		}

		if i == chainIdx {
			return memberSym.QualifiedName
		}

		currentSym = memberSym.QualifiedName
		currentTypeScope = ix.memberLookupScope(memberSym, scope)
	}
	return ""
}

// resolveWithScopeWalk performs the core lexical resolution: try each scope
// from startingScope up to the root, then one last exact qualified lookup.
func (ix *SymbolIndex) resolveWithScopeWalk(name, startingScope string) *Symbol {
	scope := startingScope
	for {
		if result := ix.ResolverForScope(scope).Resolve(name); result.IsFound() {
			return result.Symbol
		}
		if scope == "" {
			break
		}
		scope, _ = ParentScope(scope)
	}
	return ix.LookupQualified(name)
}

// memberLookupScope decides which scope a symbol's members are looked up in.
//
// A typed symbol uses its resolved type: a usage type is used as-is (usages
// may declare nested members), while anything else follows the typing chain
// until a definition is reached. An untyped symbol is its own member scope.
func (ix *SymbolIndex) memberLookupScope(sym *Symbol, resolutionScope string) string {
	if len(sym.Supertypes) > 0 {
		typeName := sym.Supertypes[0]
		symScope, _ := ParentScope(sym.QualifiedName)

		if typeSym := ix.resolveWithScopeWalk(typeName, symScope); typeSym != nil {
			if typeSym.Kind.IsUsage() {
				return typeSym.QualifiedName
			}
			return ix.followTypingChain(typeSym, resolutionScope)
		}

		// The annotation may already be fully qualified.
		if typeSym := ix.LookupQualified(typeName); typeSym != nil {
			if typeSym.Kind.IsUsage() {
				return typeSym.QualifiedName
			}
			return ix.followTypingChain(typeSym, resolutionScope)
		}
	}

	return sym.QualifiedName
}

// followTypingChain walks usage-to-usage typing until a definition is
// reached:
//
//	action takePicture : TakePicture;  // usage typed by definition
//	action a :> takePicture;           // usage subsets usage
//
// Resolving members of "a" must land in TakePicture. A definition input is
// returned unchanged: definition-to-definition inheritance is handled by
// visibility propagation, not here. Cycles stop the walk and the last
// resolved name wins.
func (ix *SymbolIndex) followTypingChain(sym *Symbol, scope string) string {
	if sym.Kind.IsDefinition() {
		return sym.QualifiedName
	}

	current := sym.QualifiedName
	visited := map[string]bool{current: true}

	for {
		cur := ix.LookupQualified(current)
		if cur == nil {
			break
		}
		if len(cur.Supertypes) == 0 {
			break
		}
		typeName := cur.Supertypes[0]

		result := ix.ResolverForScope(scope).Resolve(typeName)
		if !result.IsFound() {
			break
		}
		next := result.Symbol
		if visited[next.QualifiedName] {
			break
		}
		visited[next.QualifiedName] = true

		if next.Kind.IsDefinition() {
			return next.QualifiedName
		}
		current = next.QualifiedName
	}
	return current
}

// FindMemberInScope locates memberName inside typeScope: exact qualified
// lookup first, then the scope's visibility map, then a recursive search
// through the scope's resolved supertypes. Circular specialization stops the
// supertype search at the cycle point.
func (ix *SymbolIndex) FindMemberInScope(typeScope, memberName string) *Symbol {
	return ix.findMemberInScope(typeScope, memberName, map[string]bool{typeScope: true})
}

func (ix *SymbolIndex) findMemberInScope(typeScope, memberName string, visited map[string]bool) *Symbol {
	if sym := ix.LookupQualified(JoinScope(typeScope, memberName)); sym != nil {
		return sym
	}

	if vis := ix.VisibilityForScope(typeScope); vis != nil {
		if qname, ok := vis.Lookup(memberName); ok {
			if sym := ix.LookupQualified(qname); sym != nil {
				return sym
			}
		}
	}

	if typeSym := ix.LookupQualified(typeScope); typeSym != nil {
		parentScope, _ := ParentScope(typeScope)
		for _, supertype := range typeSym.Supertypes {
			superSym := ix.resolveWithScopeWalk(supertype, parentScope)
			if superSym == nil {
				continue
			}
			if visited[superSym.QualifiedName] {
				continue
			}
			visited[superSym.QualifiedName] = true
			if found := ix.findMemberInScope(superSym.QualifiedName, memberName, visited); found != nil {
				return found
			}
		}
	}
	return nil
}
