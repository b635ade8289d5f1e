package hir

import (
	"sysmlkit/internal/source"
)

// SymbolKind classifies an extracted declaration.
type SymbolKind uint8

const (
	KindInvalid SymbolKind = iota

	// Namespaces and definitions.
	KindPackage
	KindPartDef
	KindItemDef
	KindActionDef
	KindPortDef
	KindAttributeDef
	KindConnectionDef
	KindInterfaceDef
	KindAllocationDef
	KindRequirementDef
	KindConstraintDef
	KindStateDef
	KindCalculationDef
	KindUseCaseDef
	KindAnalysisCaseDef
	KindConcernDef
	KindViewDef
	KindViewpointDef
	KindRenderingDef
	KindEnumerationDef

	// Usages.
	KindPartUsage
	KindItemUsage
	KindActionUsage
	KindPortUsage
	KindAttributeUsage
	KindConnectionUsage
	KindInterfaceUsage
	KindAllocationUsage
	KindRequirementUsage
	KindConstraintUsage
	KindStateUsage
	KindCalculationUsage
	KindReferenceUsage
	KindOccurrenceUsage
	KindFlowUsage

	// Structural elements.
	KindImport
	KindAlias
	KindComment
	KindDependency
)

// IsDefinition reports whether the kind introduces a reusable type-like
// element that owns a namespace. Packages count as definitions here.
func (k SymbolKind) IsDefinition() bool {
	switch k {
	case KindPackage, KindPartDef, KindItemDef, KindActionDef, KindPortDef,
		KindAttributeDef, KindConnectionDef, KindInterfaceDef, KindAllocationDef,
		KindRequirementDef, KindConstraintDef, KindStateDef, KindCalculationDef,
		KindUseCaseDef, KindAnalysisCaseDef, KindConcernDef, KindViewDef,
		KindViewpointDef, KindRenderingDef, KindEnumerationDef:
		return true
	}
	return false
}

// IsUsage reports whether the kind is an occurrence of a definition inside a
// containing structure. IsDefinition and IsUsage partition the kind set
// disjointly; structural kinds are neither.
func (k SymbolKind) IsUsage() bool {
	switch k {
	case KindPartUsage, KindItemUsage, KindActionUsage, KindPortUsage,
		KindAttributeUsage, KindConnectionUsage, KindInterfaceUsage,
		KindAllocationUsage, KindRequirementUsage, KindConstraintUsage,
		KindStateUsage, KindCalculationUsage, KindReferenceUsage,
		KindOccurrenceUsage, KindFlowUsage:
		return true
	}
	return false
}

// DefinitionKind maps a usage kind to its corresponding definition kind.
func (k SymbolKind) DefinitionKind() (SymbolKind, bool) {
	switch k {
	case KindPartUsage:
		return KindPartDef, true
	case KindItemUsage:
		return KindItemDef, true
	case KindActionUsage:
		return KindActionDef, true
	case KindPortUsage:
		return KindPortDef, true
	case KindAttributeUsage:
		return KindAttributeDef, true
	case KindConnectionUsage:
		return KindConnectionDef, true
	case KindInterfaceUsage:
		return KindInterfaceDef, true
	case KindAllocationUsage:
		return KindAllocationDef, true
	case KindRequirementUsage:
		return KindRequirementDef, true
	case KindConstraintUsage:
		return KindConstraintDef, true
	case KindStateUsage:
		return KindStateDef, true
	case KindCalculationUsage:
		return KindCalculationDef, true
	}
	return KindInvalid, false
}

// String returns the source-level spelling of the kind.
func (k SymbolKind) String() string {
	switch k {
	case KindPackage:
		return "package"
	case KindPartDef:
		return "part def"
	case KindItemDef:
		return "item def"
	case KindActionDef:
		return "action def"
	case KindPortDef:
		return "port def"
	case KindAttributeDef:
		return "attribute def"
	case KindConnectionDef:
		return "connection def"
	case KindInterfaceDef:
		return "interface def"
	case KindAllocationDef:
		return "allocation def"
	case KindRequirementDef:
		return "requirement def"
	case KindConstraintDef:
		return "constraint def"
	case KindStateDef:
		return "state def"
	case KindCalculationDef:
		return "calc def"
	case KindUseCaseDef:
		return "use case def"
	case KindAnalysisCaseDef:
		return "analysis def"
	case KindConcernDef:
		return "concern def"
	case KindViewDef:
		return "view def"
	case KindViewpointDef:
		return "viewpoint def"
	case KindRenderingDef:
		return "rendering def"
	case KindEnumerationDef:
		return "enum def"
	case KindPartUsage:
		return "part"
	case KindItemUsage:
		return "item"
	case KindActionUsage:
		return "action"
	case KindPortUsage:
		return "port"
	case KindAttributeUsage:
		return "attribute"
	case KindConnectionUsage:
		return "connection"
	case KindInterfaceUsage:
		return "interface"
	case KindAllocationUsage:
		return "allocation"
	case KindRequirementUsage:
		return "requirement"
	case KindConstraintUsage:
		return "constraint"
	case KindStateUsage:
		return "state"
	case KindCalculationUsage:
		return "calc"
	case KindReferenceUsage:
		return "ref"
	case KindOccurrenceUsage:
		return "occurrence"
	case KindFlowUsage:
		return "flow"
	case KindImport:
		return "import"
	case KindAlias:
		return "alias"
	case KindComment:
		return "comment"
	case KindDependency:
		return "dependency"
	default:
		return "invalid"
	}
}

// Symbol is one extracted declaration. Identity is its position in the index
// store; all referencing structures hold that position instead of copies.
type Symbol struct {
	// Name is the simple (unqualified) name. For imports it is the textual
	// import target, with a trailing "::*" for wildcards.
	Name string
	// ShortName is the optional <short> alias, or "".
	ShortName string
	// QualifiedName is the "::"-delimited path from the model root.
	QualifiedName string
	Kind          SymbolKind
	File          source.FileID
	Span          source.Span
	// Doc is the leading doc body, or "".
	Doc string
	// Supertypes holds unresolved textual references: specializations for
	// definitions, the typed-by reference (first) for usages, the target for
	// aliases.
	Supertypes []string
	// TypeRefs are the recorded type and feature references of this symbol.
	TypeRefs []TypeRef
	// Public marks symbols declared with public visibility.
	Public bool
}

// NewImportSymbol builds the index representation of an import declaration
// in scope. Target is the textual import target, with a trailing "::*" for
// wildcards. The qualified name embeds a marker so imports never collide
// with (or count as) declared members of the scope.
func NewImportSymbol(scope, target string, public bool, file source.FileID, span source.Span) Symbol {
	return Symbol{
		Name:          target,
		QualifiedName: JoinScope(scope, importMarker+target),
		Kind:          KindImport,
		File:          file,
		Span:          span,
		Public:        public,
	}
}

// RebindFile rewrites the file identity on symbols and every span they
// carry. Symbols restored from a cache were recorded under a previous
// session's file numbering.
func RebindFile(symbols []Symbol, file source.FileID) {
	for i := range symbols {
		sym := &symbols[i]
		sym.File = file
		sym.Span.File = file
		for r := range sym.TypeRefs {
			for p := range sym.TypeRefs[r].Parts {
				sym.TypeRefs[r].Parts[p].Span.File = file
			}
		}
	}
}
