package hir

import (
	"testing"

	"sysmlkit/internal/source"
)

func makeSymbol(name, qualified string, kind SymbolKind, file source.FileID) Symbol {
	return Symbol{
		Name:          name,
		QualifiedName: qualified,
		Kind:          kind,
		File:          file,
	}
}

func importSym(scope, target string, public bool) Symbol {
	return NewImportSymbol(scope, target, public, 0, source.Span{})
}

func TestIndexBasicLookups(t *testing.T) {
	ix := NewIndex()
	ix.AddFile(0, []Symbol{
		makeSymbol("Vehicle", "Vehicle", KindPackage, 0),
		makeSymbol("Car", "Vehicle::Car", KindPartDef, 0),
		makeSymbol("engine", "Vehicle::Car::engine", KindPartUsage, 0),
	})

	if ix.Len() != 3 {
		t.Fatalf("len = %d, want 3", ix.Len())
	}
	if ix.LookupQualified("Vehicle::Car") == nil {
		t.Fatalf("Vehicle::Car not found by qualified name")
	}
	if ix.LookupQualified("Vehicle::Car::engine") == nil {
		t.Fatalf("engine not found by qualified name")
	}
	if ix.LookupDefinition("Vehicle::Car") == nil {
		t.Fatalf("Vehicle::Car not found among definitions")
	}
	if ix.LookupDefinition("Vehicle::Car::engine") != nil {
		t.Fatalf("a usage must not appear among definitions")
	}
	if got := len(ix.SymbolsInFile(0)); got != 3 {
		t.Fatalf("symbols in file = %d, want 3", got)
	}
	if got := len(ix.LookupSimple("Car")); got != 1 {
		t.Fatalf("simple lookup = %d matches, want 1", got)
	}
}

func TestIndexRemoveFile(t *testing.T) {
	ix := NewIndex()
	ix.AddFile(0, []Symbol{makeSymbol("A", "A", KindPartDef, 0)})
	ix.AddFile(1, []Symbol{makeSymbol("B", "B", KindPartDef, 1)})

	if ix.Len() != 2 {
		t.Fatalf("len = %d, want 2", ix.Len())
	}
	ix.RemoveFile(0)

	if ix.Len() != 1 {
		t.Fatalf("len after remove = %d, want 1", ix.Len())
	}
	if ix.LookupQualified("A") != nil {
		t.Fatalf("A should be gone after RemoveFile")
	}
	if ix.LookupQualified("B") == nil {
		t.Fatalf("B from the other file must survive")
	}
	if ix.LookupSimple("A") != nil {
		t.Fatalf("simple-name index should drop removed symbols")
	}
	if ix.FileCount() != 1 {
		t.Fatalf("file count = %d, want 1", ix.FileCount())
	}
}

func TestIndexIdempotentIngestion(t *testing.T) {
	symbols := []Symbol{
		makeSymbol("Vehicle", "Vehicle", KindPackage, 0),
		makeSymbol("Car", "Vehicle::Car", KindPartDef, 0),
	}
	ix := NewIndex()
	ix.AddFile(0, symbols)
	ix.AddFile(0, symbols)

	if ix.Len() != 2 {
		t.Fatalf("re-adding the same file must not duplicate, len = %d", ix.Len())
	}
	if got := len(ix.LookupSimple("Car")); got != 1 {
		t.Fatalf("simple lookup after re-add = %d matches, want 1", got)
	}
	if got := len(ix.SymbolsInFile(0)); got != 2 {
		t.Fatalf("symbols in file after re-add = %d, want 2", got)
	}

	ix.EnsureVisibilityMaps()
	res := ix.ResolverForScope("").Resolve("Vehicle::Car")
	if !res.IsFound() {
		t.Fatalf("resolution must still succeed after re-add")
	}
}

func TestIndexAddFileReplacesPriorSymbols(t *testing.T) {
	ix := NewIndex()
	ix.AddFile(0, []Symbol{makeSymbol("Old", "Old", KindPartDef, 0)})
	ix.AddFile(0, []Symbol{makeSymbol("New", "New", KindPartDef, 0)})

	if ix.LookupQualified("Old") != nil {
		t.Fatalf("symbols from the prior version of the file must be gone")
	}
	if ix.LookupQualified("New") == nil {
		t.Fatalf("replacement symbols must be reachable")
	}
	if ix.Len() != 1 {
		t.Fatalf("len = %d, want 1", ix.Len())
	}
}

func TestParentScope(t *testing.T) {
	cases := []struct {
		in     string
		parent string
		ok     bool
	}{
		{"A::B::C", "A::B", true},
		{"A", "", true},
		{"", "", false},
	}
	for _, tc := range cases {
		parent, ok := ParentScope(tc.in)
		if parent != tc.parent || ok != tc.ok {
			t.Fatalf("ParentScope(%q) = (%q, %v), want (%q, %v)", tc.in, parent, ok, tc.parent, tc.ok)
		}
	}
}

func TestSymbolKindPredicates(t *testing.T) {
	if !KindPartDef.IsDefinition() || !KindActionDef.IsDefinition() || !KindPackage.IsDefinition() {
		t.Fatalf("definition kinds misclassified")
	}
	if KindPartUsage.IsDefinition() || KindImport.IsDefinition() {
		t.Fatalf("non-definition kinds misclassified as definitions")
	}
	if !KindPartUsage.IsUsage() || !KindActionUsage.IsUsage() {
		t.Fatalf("usage kinds misclassified")
	}
	if KindPartDef.IsUsage() || KindPackage.IsUsage() || KindAlias.IsUsage() {
		t.Fatalf("non-usage kinds misclassified as usages")
	}

	if def, ok := KindPartUsage.DefinitionKind(); !ok || def != KindPartDef {
		t.Fatalf("PartUsage should map to PartDef, got %v/%v", def, ok)
	}
	if _, ok := KindPackage.DefinitionKind(); ok {
		t.Fatalf("Package has no corresponding definition kind")
	}

	// Every kind is a definition, a usage, or structural - never two at once.
	for k := KindPackage; k <= KindDependency; k++ {
		if k.IsDefinition() && k.IsUsage() {
			t.Fatalf("kind %v is both definition and usage", k)
		}
	}
}
