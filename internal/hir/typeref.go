package hir

import (
	"sysmlkit/internal/source"
)

// RefKind distinguishes a plain reference from a dotted feature chain.
type RefKind uint8

const (
	// RefSimple is a single-name reference, e.g. ": Engine".
	RefSimple RefKind = iota
	// RefChain is a dotted member-access chain, e.g. "takePicture.focus".
	// Part 0 resolves lexically; later parts resolve as members of the
	// previous part's type.
	RefChain
)

// RefPart is one named segment of a reference. Resolved is filled in by the
// batch resolution pass and stays "" for unresolved segments.
type RefPart struct {
	Target   string
	Span     source.Span
	Resolved string
}

// TypeRef records one type or feature reference carried by a symbol.
// A RefSimple always has exactly one part.
type TypeRef struct {
	Kind  RefKind
	Parts []RefPart
}

// SimpleRef builds a single-part reference.
func SimpleRef(target string, span source.Span) TypeRef {
	return TypeRef{
		Kind:  RefSimple,
		Parts: []RefPart{{Target: target, Span: span}},
	}
}

// ChainRef builds a feature chain from its ordered parts.
func ChainRef(parts []RefPart) TypeRef {
	return TypeRef{Kind: RefChain, Parts: parts}
}

// Resolved returns the qualified name the whole reference resolved to: the
// final part's resolution, or "" if that part is unresolved.
func (t *TypeRef) Resolved() string {
	if len(t.Parts) == 0 {
		return ""
	}
	return t.Parts[len(t.Parts)-1].Resolved
}
