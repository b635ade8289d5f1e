package sema

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"sysmlkit/internal/diag"
	"sysmlkit/internal/hir"
)

// Checker validates a fully ingested index: it reports unresolved and
// ambiguous references, duplicate declarations, invalid and circular
// specializations. The checker never mutates the index; callers run
// ResolveAllTypeRefs first so chain segments carry their outcomes.
type Checker struct {
	index    *hir.SymbolIndex
	reporter diag.Reporter
}

// NewChecker creates a checker reporting through reporter.
func NewChecker(index *hir.SymbolIndex, reporter diag.Reporter) *Checker {
	return &Checker{index: index, reporter: reporter}
}

// Check runs every validation pass.
func (c *Checker) Check() {
	c.index.EnsureVisibilityMaps()
	c.checkDuplicates()
	c.checkReferences()
	c.checkSpecializations()
	c.checkNaming()
}

// checkDuplicates reports two declarations claiming one qualified name. The
// index keeps superseded store entries reachable through the simple-name
// map, which is exactly what makes the collision observable here.
func (c *Checker) checkDuplicates() {
	reported := make(map[string]bool)
	for _, sym := range c.index.AllSymbols() {
		if sym.Kind == hir.KindImport || reported[sym.QualifiedName] {
			continue
		}
		var dups []*hir.Symbol
		for _, cand := range c.index.LookupSimple(sym.Name) {
			if cand.QualifiedName == sym.QualifiedName {
				dups = append(dups, cand)
			}
		}
		if len(dups) < 2 {
			continue
		}
		reported[sym.QualifiedName] = true

		b := diag.ReportError(c.reporter, diag.DuplicateDefinition, dups[len(dups)-1].Span,
			fmt.Sprintf("duplicate declaration of %q", sym.QualifiedName))
		for _, d := range dups[:len(dups)-1] {
			b.WithNote(d.Span, "previously declared here")
		}
		b.Emit()
	}
}

// checkReferences walks every recorded reference and reports the parts the
// resolution pass left empty, distinguishing truly unknown names from names
// with several plausible targets.
func (c *Checker) checkReferences() {
	for _, sym := range c.index.AllSymbols() {
		for refIdx := range sym.TypeRefs {
			ref := &sym.TypeRefs[refIdx]
			for partIdx := range ref.Parts {
				part := &ref.Parts[partIdx]
				if part.Resolved != "" {
					continue
				}
				if ref.Kind == hir.RefChain && partIdx > 0 {
					prev := ref.Parts[partIdx-1]
					if prev.Resolved == "" {
						continue // the root error is already reported
					}
					diag.ReportError(c.reporter, diag.UndefinedReference, part.Span,
						fmt.Sprintf("no member %q in %q", part.Target, prev.Resolved)).Emit()
					continue
				}
				c.reportUnresolved(part)
			}
		}
	}
}

func (c *Checker) reportUnresolved(part *hir.RefPart) {
	simple := part.Target
	if idx := strings.LastIndex(simple, hir.PathSep); idx >= 0 {
		simple = simple[idx+len(hir.PathSep):]
	}

	var candidates []*hir.Symbol
	for _, cand := range c.index.LookupSimple(simple) {
		if cand.Kind.IsDefinition() || cand.Kind.IsUsage() {
			candidates = append(candidates, cand)
		}
	}
	if len(candidates) > 1 {
		b := diag.ReportError(c.reporter, diag.AmbiguousReference, part.Span,
			fmt.Sprintf("reference %q is ambiguous", part.Target))
		for _, cand := range candidates {
			b.WithNote(cand.Span, fmt.Sprintf("candidate %q", cand.QualifiedName))
		}
		b.Emit()
		return
	}

	diag.ReportError(c.reporter, diag.UndefinedReference, part.Span,
		fmt.Sprintf("cannot resolve reference %q", part.Target)).Emit()
}

// checkSpecializations validates definition heritage: a definition may only
// specialize other definitions, and no specialization chain may loop back to
// its start.
func (c *Checker) checkSpecializations() {
	for _, sym := range c.index.AllDefinitions() {
		if len(sym.Supertypes) == 0 {
			continue
		}
		parentScope, _ := hir.ParentScope(sym.QualifiedName)
		r := c.index.ResolverForScope(parentScope)

		for _, super := range sym.Supertypes {
			res := r.Resolve(super)
			if !res.IsFound() {
				continue // unresolved targets are covered by checkReferences
			}
			if !res.Symbol.Kind.IsDefinition() {
				diag.ReportError(c.reporter, diag.InvalidSpecialization, sym.Span,
					fmt.Sprintf("%q cannot specialize %s %q",
						sym.Name, res.Symbol.Kind, res.Symbol.QualifiedName)).Emit()
			}
		}

		if cycle := c.findSpecializationCycle(sym); cycle != "" {
			diag.ReportError(c.reporter, diag.CircularDependency, sym.Span,
				fmt.Sprintf("circular specialization: %q depends on itself through %q",
					sym.QualifiedName, cycle)).Emit()
		}
	}
}

// findSpecializationCycle reports the qualified name that closes a cycle
// back to start, or "" when the supertype graph above start is acyclic.
func (c *Checker) findSpecializationCycle(start *hir.Symbol) string {
	visited := make(map[string]bool)
	queue := []*hir.Symbol{start}

	for len(queue) > 0 {
		sym := queue[0]
		queue = queue[1:]
		if visited[sym.QualifiedName] {
			continue
		}
		visited[sym.QualifiedName] = true
		for _, super := range c.resolvedSupertypes(sym) {
			if super.QualifiedName == start.QualifiedName {
				return sym.QualifiedName
			}
			queue = append(queue, super)
		}
	}
	return ""
}

func (c *Checker) resolvedSupertypes(sym *hir.Symbol) []*hir.Symbol {
	parentScope, _ := hir.ParentScope(sym.QualifiedName)
	r := c.index.ResolverForScope(parentScope)

	var out []*hir.Symbol
	for _, super := range sym.Supertypes {
		if res := r.Resolve(super); res.IsFound() {
			out = append(out, res.Symbol)
		}
	}
	return out
}

// checkNaming warns when a definition name starts lowercase; model libraries
// consistently capitalize definitions and lowercase usages.
func (c *Checker) checkNaming() {
	for _, sym := range c.index.AllDefinitions() {
		if sym.Kind == hir.KindPackage || sym.Name == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(sym.Name)
		if unicode.IsLetter(first) && unicode.IsLower(first) {
			diag.ReportWarning(c.reporter, diag.NamingConvention, sym.Span,
				fmt.Sprintf("definition %q should start with an uppercase letter", sym.Name)).Emit()
		}
	}
}
