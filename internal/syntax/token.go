package syntax

import (
	"sysmlkit/internal/source"
)

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier, including quoted 'unrestricted names'.
	Ident
	// Number represents a numeric literal.
	Number
	// String represents a double-quoted string literal.
	String
	// BlockComment represents a /* ... */ comment body.
	BlockComment

	// KwPackage represents the 'package' keyword.
	KwPackage // package
	// KwDef represents the 'def' keyword.
	KwDef // def
	// KwPart represents the 'part' keyword.
	KwPart // part
	// KwAction represents the 'action' keyword.
	KwAction // action
	// KwAttribute represents the 'attribute' keyword.
	KwAttribute // attribute
	// KwItem represents the 'item' keyword.
	KwItem // item
	// KwPort represents the 'port' keyword.
	KwPort // port
	// KwConnection represents the 'connection' keyword.
	KwConnection // connection
	// KwInterface represents the 'interface' keyword.
	KwInterface // interface
	// KwAllocation represents the 'allocation' keyword.
	KwAllocation // allocation
	// KwRequirement represents the 'requirement' keyword.
	KwRequirement // requirement
	// KwConstraint represents the 'constraint' keyword.
	KwConstraint // constraint
	// KwCalc represents the 'calc' keyword.
	KwCalc // calc
	// KwState represents the 'state' keyword.
	KwState // state
	// KwOccurrence represents the 'occurrence' keyword.
	KwOccurrence // occurrence
	// KwRef represents the 'ref' keyword.
	KwRef // ref
	// KwFlow represents the 'flow' keyword.
	KwFlow // flow
	// KwUse represents the 'use' keyword (of 'use case').
	KwUse // use
	// KwCase represents the 'case' keyword.
	KwCase // case
	// KwAnalysis represents the 'analysis' keyword.
	KwAnalysis // analysis
	// KwView represents the 'view' keyword.
	KwView // view
	// KwViewpoint represents the 'viewpoint' keyword.
	KwViewpoint // viewpoint
	// KwRendering represents the 'rendering' keyword.
	KwRendering // rendering
	// KwConcern represents the 'concern' keyword.
	KwConcern // concern
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum

	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwAlias represents the 'alias' keyword.
	KwAlias // alias
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwDependency represents the 'dependency' keyword.
	KwDependency // dependency
	// KwFrom represents the 'from' keyword.
	KwFrom // from
	// KwTo represents the 'to' keyword.
	KwTo // to
	// KwPublic represents the 'public' visibility modifier.
	KwPublic // public
	// KwPrivate represents the 'private' visibility modifier.
	KwPrivate // private
	// KwProtected represents the 'protected' visibility modifier.
	KwProtected // protected
	// KwDoc represents the 'doc' keyword.
	KwDoc // doc
	// KwComment represents the 'comment' keyword.
	KwComment // comment
	// KwAbout represents the 'about' keyword.
	KwAbout // about
	// KwPerform represents the 'perform' keyword.
	KwPerform // perform
	// KwExhibit represents the 'exhibit' keyword.
	KwExhibit // exhibit
	// KwSpecializes represents the 'specializes' keyword.
	KwSpecializes // specializes
	// KwSubsets represents the 'subsets' keyword.
	KwSubsets // subsets
	// KwRedefines represents the 'redefines' keyword.
	KwRedefines // redefines
	// KwDefinedBy represents the 'defined' keyword (of 'defined by').
	KwDefinedBy // defined
	// KwBy represents the 'by' keyword.
	KwBy // by
	// KwAbstract represents the 'abstract' modifier.
	KwAbstract // abstract
	// KwVariation represents the 'variation' modifier.
	KwVariation // variation
	// KwReadonly represents the 'readonly' modifier.
	KwReadonly // readonly
	// KwDerived represents the 'derived' modifier.
	KwDerived // derived
	// KwEnd represents the 'end' modifier.
	KwEnd // end
	// KwIn represents the 'in' direction modifier.
	KwIn // in
	// KwOut represents the 'out' direction modifier.
	KwOut // out
	// KwInout represents the 'inout' direction modifier.
	KwInout // inout

	// LBrace represents '{'.
	LBrace
	// RBrace represents '}'.
	RBrace
	// LParen represents '('.
	LParen
	// RParen represents ')'.
	RParen
	// LBracket represents '['.
	LBracket
	// RBracket represents ']'.
	RBracket
	// Semi represents ';'.
	Semi
	// Comma represents ','.
	Comma
	// Dot represents '.'.
	Dot
	// Star represents '*'.
	Star
	// Lt represents '<'.
	Lt
	// Gt represents '>'.
	Gt
	// Eq represents '='.
	Eq
	// Colon represents ':' (typed-by).
	Colon
	// ColonGt represents ':>' (specialization / subsetting).
	ColonGt
	// ColonGtGt represents ':>>' (redefinition).
	ColonGtGt
	// ColonColon represents '::' (qualified-name separator).
	ColonColon
	// Punct represents any other punctuation, carried as text.
	Punct
)

var kindNames = map[Kind]string{
	Invalid:      "invalid",
	EOF:          "eof",
	Ident:        "ident",
	Number:       "number",
	String:       "string",
	BlockComment: "comment",
	LBrace:       "{",
	RBrace:       "}",
	LParen:       "(",
	RParen:       ")",
	LBracket:     "[",
	RBracket:     "]",
	Semi:         ";",
	Comma:        ",",
	Dot:          ".",
	Star:         "*",
	Lt:           "<",
	Gt:           ">",
	Eq:           "=",
	Colon:        ":",
	ColonGt:      ":>",
	ColonGtGt:    ":>>",
	ColonColon:   "::",
	Punct:        "punct",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if text, ok := keywordText[k]; ok {
		return text
	}
	return "unknown"
}

var keywords = map[string]Kind{
	"package":     KwPackage,
	"def":         KwDef,
	"part":        KwPart,
	"action":      KwAction,
	"attribute":   KwAttribute,
	"item":        KwItem,
	"port":        KwPort,
	"connection":  KwConnection,
	"interface":   KwInterface,
	"allocation":  KwAllocation,
	"requirement": KwRequirement,
	"constraint":  KwConstraint,
	"calc":        KwCalc,
	"state":       KwState,
	"occurrence":  KwOccurrence,
	"ref":         KwRef,
	"flow":        KwFlow,
	"use":         KwUse,
	"case":        KwCase,
	"analysis":    KwAnalysis,
	"view":        KwView,
	"viewpoint":   KwViewpoint,
	"rendering":   KwRendering,
	"concern":     KwConcern,
	"enum":        KwEnum,
	"import":      KwImport,
	"alias":       KwAlias,
	"for":         KwFor,
	"dependency":  KwDependency,
	"from":        KwFrom,
	"to":          KwTo,
	"public":      KwPublic,
	"private":     KwPrivate,
	"protected":   KwProtected,
	"doc":         KwDoc,
	"comment":     KwComment,
	"about":       KwAbout,
	"perform":     KwPerform,
	"exhibit":     KwExhibit,
	"specializes": KwSpecializes,
	"subsets":     KwSubsets,
	"redefines":   KwRedefines,
	"defined":     KwDefinedBy,
	"by":          KwBy,
	"abstract":    KwAbstract,
	"variation":   KwVariation,
	"readonly":    KwReadonly,
	"derived":     KwDerived,
	"end":         KwEnd,
	"in":          KwIn,
	"out":         KwOut,
	"inout":       KwInout,
}

var keywordText = func() map[Kind]string {
	m := make(map[Kind]string, len(keywords))
	for text, kind := range keywords {
		m[kind] = text
	}
	return m
}()

// LookupKeyword reports whether ident is a keyword. Keywords are
// case-sensitive; only the lowercase spellings are recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Token is one lexical element produced by the Scanner.
type Token struct {
	Kind Kind
	Span source.Span
	// Text is the token's content: the canonical identifier for Ident (with
	// quotes stripped for quoted names), the body for BlockComment and
	// String, the raw spelling otherwise.
	Text string
}

// IsKeyword reports whether the token is any keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwPackage && t.Kind <= KwInout
}

// IdentText returns the identifier-like text of the token: keyword tokens
// double as identifiers in name position (SysML keywords are not reserved).
func (t Token) IdentText() (string, bool) {
	if t.Kind == Ident || t.IsKeyword() {
		return t.Text, true
	}
	return "", false
}
