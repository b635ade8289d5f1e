package syntax

import (
	"strings"

	"sysmlkit/internal/hir"
	"sysmlkit/internal/source"
)

// defKinds maps a kind keyword to its definition symbol kind. Definitions
// are spelled "<keyword> def"; "use case def" and "analysis def" are handled
// separately because of their multi-word spellings.
var defKinds = map[Kind]hir.SymbolKind{
	KwPart:        hir.KindPartDef,
	KwAction:      hir.KindActionDef,
	KwAttribute:   hir.KindAttributeDef,
	KwItem:        hir.KindItemDef,
	KwPort:        hir.KindPortDef,
	KwConnection:  hir.KindConnectionDef,
	KwInterface:   hir.KindInterfaceDef,
	KwAllocation:  hir.KindAllocationDef,
	KwRequirement: hir.KindRequirementDef,
	KwConstraint:  hir.KindConstraintDef,
	KwCalc:        hir.KindCalculationDef,
	KwState:       hir.KindStateDef,
	KwView:        hir.KindViewDef,
	KwViewpoint:   hir.KindViewpointDef,
	KwRendering:   hir.KindRenderingDef,
	KwConcern:     hir.KindConcernDef,
	KwEnum:        hir.KindEnumerationDef,
}

// usageKinds maps a kind keyword to its usage symbol kind. Keywords missing
// here (view, rendering, ...) have no dedicated usage kind and fall back to
// a reference usage.
var usageKinds = map[Kind]hir.SymbolKind{
	KwPart:        hir.KindPartUsage,
	KwAction:      hir.KindActionUsage,
	KwAttribute:   hir.KindAttributeUsage,
	KwItem:        hir.KindItemUsage,
	KwPort:        hir.KindPortUsage,
	KwConnection:  hir.KindConnectionUsage,
	KwInterface:   hir.KindInterfaceUsage,
	KwAllocation:  hir.KindAllocationUsage,
	KwRequirement: hir.KindRequirementUsage,
	KwConstraint:  hir.KindConstraintUsage,
	KwCalc:        hir.KindCalculationUsage,
	KwState:       hir.KindStateUsage,
	KwOccurrence:  hir.KindOccurrenceUsage,
	KwFlow:        hir.KindFlowUsage,
}

// ExtractFile scans file and returns its declared symbols in declaration
// order: packages, definitions, usages, imports, aliases and dependencies,
// each with its heritage references recorded but unresolved.
func ExtractFile(file *source.File, opts Options) []hir.Symbol {
	ex := &extractor{
		sc:   NewScanner(file, opts),
		file: file,
	}
	ex.advance()
	ex.parseMembers("", -1, false)
	return ex.syms
}

type extractor struct {
	sc   *Scanner
	file *source.File
	syms []hir.Symbol
	tok  Token
}

func (ex *extractor) advance() { ex.tok = ex.sc.Next() }

func (ex *extractor) at(k Kind) bool { return ex.tok.Kind == k }

func (ex *extractor) accept(k Kind) bool {
	if ex.tok.Kind == k {
		ex.advance()
		return true
	}
	return false
}

// parseMembers parses declarations until the closing brace of the current
// body (or EOF at the top level). scope is the qualified name of the
// enclosing namespace, owner the index of its symbol in syms (-1 at file
// level). inEnum switches on enumeration-literal parsing.
func (ex *extractor) parseMembers(scope string, owner int, inEnum bool) {
	pendingDoc := ""

	for {
		switch ex.tok.Kind {
		case EOF:
			return
		case RBrace:
			ex.advance()
			return
		case Semi:
			ex.advance()
			continue
		case BlockComment:
			// A bare block comment directly before a declaration documents it.
			pendingDoc = strings.TrimSpace(ex.tok.Text)
			ex.advance()
			continue
		}

		public := true // members default to public visibility
		explicitPublic := false
		switch ex.tok.Kind {
		case KwPublic:
			explicitPublic = true
			ex.advance()
		case KwPrivate, KwProtected:
			public = false
			ex.advance()
		}

		switch ex.tok.Kind {
		case KwDoc:
			ex.parseDoc(owner)
		case KwComment:
			ex.parseComment()
		case KwPackage:
			ex.advance()
			ex.parseNamespace(scope, hir.KindPackage, pendingDoc, public)
		case KwImport:
			ex.parseImport(scope, explicitPublic)
		case KwAlias:
			ex.parseAlias(scope, pendingDoc, public)
		case KwDependency:
			ex.parseDependency(scope, pendingDoc, public)
		case KwPerform, KwExhibit:
			ex.parsePerform(scope, owner, pendingDoc, public)
		case KwUse:
			// "use case def Name" / "use case name".
			ex.advance()
			ex.accept(KwCase)
			kind := hir.KindReferenceUsage
			if ex.accept(KwDef) {
				kind = hir.KindUseCaseDef
			}
			ex.parseNamespace(scope, kind, pendingDoc, public)
		case KwAnalysis:
			ex.advance()
			ex.accept(KwCase)
			kind := hir.KindReferenceUsage
			if ex.accept(KwDef) {
				kind = hir.KindAnalysisCaseDef
			}
			ex.parseNamespace(scope, kind, pendingDoc, public)
		case KwAbstract, KwVariation, KwReadonly, KwDerived, KwEnd, KwIn, KwOut, KwInout:
			// Prefix modifiers do not affect name resolution.
			ex.advance()
			continue
		case KwRef:
			ex.advance()
			if _, isKind := usageKinds[ex.tok.Kind]; isKind {
				continue // "ref part x": plain modifier
			}
			ex.parseNamespace(scope, hir.KindReferenceUsage, pendingDoc, public)
		default:
			keyword := ex.tok.Kind
			defKind, isDef := defKinds[keyword]
			usageKind, isUsage := usageKinds[keyword]
			switch {
			case isDef || isUsage:
				ex.advance()
				if isDef && ex.accept(KwDef) {
					ex.parseNamespace(scope, defKind, pendingDoc, public)
				} else if isUsage {
					ex.parseNamespace(scope, usageKind, pendingDoc, public)
				} else {
					// A def-only keyword in usage position (view v : V;).
					ex.parseNamespace(scope, hir.KindReferenceUsage, pendingDoc, public)
				}
			case ex.tok.Kind == Ident && inEnum:
				ex.parseEnumLiteral(scope, pendingDoc)
			default:
				ex.skipStatement()
			}
		}
		pendingDoc = ""
	}
}

// parseNamespace parses a declaration that may own a body: a package, a
// definition or a usage. The current token is the one after the kind
// keyword(s).
func (ex *extractor) parseNamespace(scope string, kind hir.SymbolKind, doc string, public bool) {
	short := ex.parseShortName()

	name, nameSpan, named := "", ex.tok.Span, false
	if text, ok := ex.tok.IdentText(); ok {
		name, nameSpan, named = text, ex.tok.Span, true
		ex.advance()
		if short == "" {
			short = ex.parseShortName()
		}
	}

	idx := -1
	qname := scope
	if named {
		qname = hir.JoinScope(scope, name)
		idx = len(ex.syms)
		ex.syms = append(ex.syms, hir.Symbol{
			Name:          name,
			ShortName:     short,
			QualifiedName: qname,
			Kind:          kind,
			File:          ex.file.ID,
			Span:          nameSpan,
			Doc:           doc,
			Public:        public,
		})
	}

	ex.parseHeritage(idx)

	if ex.accept(Eq) {
		ex.skipValue()
	}

	if ex.at(LBrace) {
		if named {
			ex.advance()
			ex.parseMembers(qname, idx, kind == hir.KindEnumerationDef)
		} else {
			ex.skipBalanced(LBrace, RBrace)
		}
		return
	}
	ex.accept(Semi)
}

// parseShortName parses an optional "<short>" alias.
func (ex *extractor) parseShortName() string {
	if !ex.at(Lt) {
		return ""
	}
	nxt := ex.sc.Peek()
	if _, ok := nxt.IdentText(); !ok {
		return ""
	}
	ex.advance() // '<'
	short, _ := ex.tok.IdentText()
	ex.advance()
	ex.accept(Gt)
	return short
}

// parseHeritage parses the relationship list after a declared name: typed-by
// (":" or "defined by"), specialization (":>", "specializes", "subsets"),
// redefinition (":>>", "redefines"), plus multiplicity brackets. Each target
// is recorded on symbol idx; idx -1 discards them.
func (ex *extractor) parseHeritage(idx int) {
	for {
		switch ex.tok.Kind {
		case Colon, ColonGt, ColonGtGt, KwSpecializes, KwSubsets, KwRedefines:
			ex.advance()
			ex.parseTargetList(idx)
		case KwDefinedBy:
			ex.advance()
			ex.accept(KwBy)
			ex.parseTargetList(idx)
		case LBracket:
			ex.skipBalanced(LBracket, RBracket)
		default:
			return
		}
	}
}

func (ex *extractor) parseTargetList(idx int) {
	for {
		text, ref, ok := ex.parseReference()
		if !ok {
			return
		}
		if idx >= 0 {
			sym := &ex.syms[idx]
			sym.Supertypes = append(sym.Supertypes, text)
			sym.TypeRefs = append(sym.TypeRefs, ref)
		}
		if !ex.accept(Comma) {
			return
		}
	}
}

// parseReference parses a qualified name or a dotted feature chain and
// returns its source text plus the reference record.
func (ex *extractor) parseReference() (string, hir.TypeRef, bool) {
	text, span, ok := ex.parseQualifiedName()
	if !ok {
		return "", hir.TypeRef{}, false
	}

	if !ex.at(Dot) {
		return text, hir.SimpleRef(text, span), true
	}

	parts := []hir.RefPart{{Target: text, Span: span}}
	texts := []string{text}
	for ex.at(Dot) {
		nxt := ex.sc.Peek()
		if _, isIdent := nxt.IdentText(); !isIdent {
			break
		}
		ex.advance() // '.'
		partText, partSpan, _ := ex.parseQualifiedName()
		parts = append(parts, hir.RefPart{Target: partText, Span: partSpan})
		texts = append(texts, partText)
	}
	return strings.Join(texts, "."), hir.ChainRef(parts), true
}

// parseQualifiedName parses "A" or "A::B::C". Keywords are accepted as
// segments; the language does not reserve them in name position.
func (ex *extractor) parseQualifiedName() (string, source.Span, bool) {
	text, ok := ex.tok.IdentText()
	if !ok {
		return "", ex.tok.Span, false
	}
	span := ex.tok.Span
	ex.advance()

	for ex.at(ColonColon) {
		nxt := ex.sc.Peek()
		seg, isIdent := nxt.IdentText()
		if !isIdent {
			break
		}
		ex.advance() // '::'
		text += hir.PathSep + seg
		span.End = ex.tok.Span.End
		ex.advance()
	}
	return text, span, true
}

// parseImport parses "import X::Y;", "import X::*;" and the recursive
// "import X::**;" form, which flattens the same as a plain wildcard here.
// Imports are private unless explicitly marked public.
func (ex *extractor) parseImport(scope string, public bool) {
	start := ex.tok.Span
	ex.advance()

	target, span, ok := ex.parseQualifiedName()
	if !ok {
		ex.skipStatement()
		return
	}
	if ex.at(ColonColon) && ex.sc.Peek().Kind == Star {
		ex.advance() // '::'
		ex.advance() // '*'
		ex.accept(Star)
		target += hir.PathSep + "*"
	}
	span.Start = start.Start

	ex.syms = append(ex.syms, hir.NewImportSymbol(scope, target, public, ex.file.ID, span))
	ex.skipStatement()
}

// parseAlias parses "alias A for B;".
func (ex *extractor) parseAlias(scope string, doc string, public bool) {
	ex.advance()
	short := ex.parseShortName()

	name, ok := ex.tok.IdentText()
	if !ok {
		ex.skipStatement()
		return
	}
	nameSpan := ex.tok.Span
	ex.advance()

	if !ex.accept(KwFor) {
		ex.skipStatement()
		return
	}
	target, ref, ok := ex.parseReference()
	if !ok {
		ex.skipStatement()
		return
	}

	ex.syms = append(ex.syms, hir.Symbol{
		Name:          name,
		ShortName:     short,
		QualifiedName: hir.JoinScope(scope, name),
		Kind:          hir.KindAlias,
		File:          ex.file.ID,
		Span:          nameSpan,
		Doc:           doc,
		Supertypes:    []string{target},
		TypeRefs:      []hir.TypeRef{ref},
		Public:        public,
	})
	ex.skipStatement()
}

// parseDependency parses "dependency [Name from] A, B to C, D;". An unnamed
// dependency declares no symbol; its endpoints play no part in resolution.
func (ex *extractor) parseDependency(scope string, doc string, public bool) {
	ex.advance()

	firstText, firstRef, ok := ex.parseReference()
	if !ok {
		ex.skipStatement()
		return
	}

	name := ""
	nameSpan := firstRef.Parts[0].Span
	var refs []hir.TypeRef
	if ex.accept(KwFrom) {
		name = firstText
		for {
			_, ref, ok := ex.parseReference()
			if !ok {
				break
			}
			refs = append(refs, ref)
			if !ex.accept(Comma) {
				break
			}
		}
	} else {
		refs = append(refs, firstRef)
		for ex.accept(Comma) {
			_, ref, ok := ex.parseReference()
			if !ok {
				break
			}
			refs = append(refs, ref)
		}
	}

	if ex.accept(KwTo) {
		for {
			_, ref, ok := ex.parseReference()
			if !ok {
				break
			}
			refs = append(refs, ref)
			if !ex.accept(Comma) {
				break
			}
		}
	}

	if name != "" {
		ex.syms = append(ex.syms, hir.Symbol{
			Name:          name,
			QualifiedName: hir.JoinScope(scope, name),
			Kind:          hir.KindDependency,
			File:          ex.file.ID,
			Span:          nameSpan,
			Doc:           doc,
			TypeRefs:      refs,
			Public:        public,
		})
	}
	ex.skipStatement()
}

// parsePerform handles "perform action x : T;" (a declared usage) and the
// shorthand "perform p.d;" whose chain is recorded on the enclosing symbol.
// "exhibit" follows the same shape with states.
func (ex *extractor) parsePerform(scope string, owner int, doc string, public bool) {
	performing := ex.at(KwPerform)
	ex.advance()

	if performing && ex.accept(KwAction) {
		ex.parseNamespace(scope, hir.KindActionUsage, doc, public)
		return
	}
	if !performing && ex.accept(KwState) {
		ex.parseNamespace(scope, hir.KindStateUsage, doc, public)
		return
	}

	_, ref, ok := ex.parseReference()
	if ok && owner >= 0 {
		ex.syms[owner].TypeRefs = append(ex.syms[owner].TypeRefs, ref)
	}
	ex.skipStatement()
}

// parseDoc parses "doc [Name] /* body */" and attaches the body to the
// enclosing symbol.
func (ex *extractor) parseDoc(owner int) {
	ex.advance()
	if ex.at(Ident) {
		ex.advance()
	}
	if ex.at(BlockComment) {
		if owner >= 0 && ex.syms[owner].Doc == "" {
			ex.syms[owner].Doc = strings.TrimSpace(ex.tok.Text)
		}
		ex.advance()
	}
	ex.accept(Semi)
}

// parseComment consumes "comment [Name] [about X, Y] /* body */" without
// declaring anything.
func (ex *extractor) parseComment() {
	ex.advance()
	if ex.at(Ident) {
		ex.advance()
	}
	if ex.accept(KwAbout) {
		for {
			if _, _, ok := ex.parseReference(); !ok {
				break
			}
			if !ex.accept(Comma) {
				break
			}
		}
	}
	if ex.at(BlockComment) {
		ex.advance()
	}
	ex.accept(Semi)
}

// parseEnumLiteral parses one bare literal inside an enumeration body.
func (ex *extractor) parseEnumLiteral(scope string, doc string) {
	name := ex.tok.Text
	nameSpan := ex.tok.Span
	ex.advance()

	ex.syms = append(ex.syms, hir.Symbol{
		Name:          name,
		QualifiedName: hir.JoinScope(scope, name),
		Kind:          hir.KindAttributeUsage,
		File:          ex.file.ID,
		Span:          nameSpan,
		Doc:           doc,
		Public:        true,
	})
	ex.skipStatement()
}

// skipValue consumes a value expression after '=' without crossing the end
// of the statement.
func (ex *extractor) skipValue() {
	for {
		switch ex.tok.Kind {
		case EOF, Semi, RBrace, LBrace:
			return
		case LParen:
			ex.skipBalanced(LParen, RParen)
		case LBracket:
			ex.skipBalanced(LBracket, RBracket)
		default:
			ex.advance()
		}
	}
}

// skipStatement consumes tokens through the terminating ';' or body. The
// closing brace of the enclosing body is left for the caller.
func (ex *extractor) skipStatement() {
	for {
		switch ex.tok.Kind {
		case EOF, RBrace:
			return
		case Semi:
			ex.advance()
			return
		case LBrace:
			ex.skipBalanced(LBrace, RBrace)
			return
		case LParen:
			ex.skipBalanced(LParen, RParen)
		case LBracket:
			ex.skipBalanced(LBracket, RBracket)
		default:
			ex.advance()
		}
	}
}

// skipBalanced consumes from the current open token through its matching
// close token.
func (ex *extractor) skipBalanced(open, close Kind) {
	depth := 0
	for {
		switch ex.tok.Kind {
		case EOF:
			return
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				ex.advance()
				return
			}
		}
		ex.advance()
	}
}
