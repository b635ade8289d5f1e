package sema

import (
	"testing"

	"sysmlkit/internal/diag"
	"sysmlkit/internal/hir"
	"sysmlkit/internal/source"
	"sysmlkit/internal/syntax"
)

func checkSource(t *testing.T, text string) *diag.Bag {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sysml", []byte(text))
	ix := hir.NewIndex()
	ix.AddFile(id, syntax.ExtractFile(fs.Get(id), syntax.Options{}))
	ix.ResolveAllTypeRefs()

	bag := diag.NewBag(256)
	NewChecker(ix, &diag.BagReporter{Bag: bag}).Check()
	bag.Sort()
	return bag
}

func codesOf(bag *diag.Bag) []diag.Code {
	var codes []diag.Code
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	return codes
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestCheckCleanModel(t *testing.T) {
	bag := checkSource(t, `
package Vehicle {
	part def Engine;
	part def Car {
		part engine : Engine;
	}
}
`)
	if bag.Len() != 0 {
		t.Fatalf("clean model produced diagnostics: %v", codesOf(bag))
	}
}

func TestCheckUndefinedReference(t *testing.T) {
	bag := checkSource(t, `
package P {
	part car : Missing;
}
`)
	if !hasCode(bag, diag.UndefinedReference) {
		t.Fatalf("want E0001, got %v", codesOf(bag))
	}
}

func TestCheckAmbiguousReference(t *testing.T) {
	bag := checkSource(t, `
package LibA { part def Sensor; }
package LibB { part def Sensor; }
package App {
	part s : Sensor;
}
`)
	if !hasCode(bag, diag.AmbiguousReference) {
		t.Fatalf("want E0002, got %v", codesOf(bag))
	}
	for _, d := range bag.Items() {
		if d.Code == diag.AmbiguousReference && len(d.Notes) != 2 {
			t.Fatalf("ambiguity should list both candidates, got %d notes", len(d.Notes))
		}
	}
}

func TestCheckDuplicateDefinition(t *testing.T) {
	bag := checkSource(t, `
package P {
	part def Car;
	part def Car;
}
`)
	if !hasCode(bag, diag.DuplicateDefinition) {
		t.Fatalf("want E0004, got %v", codesOf(bag))
	}
}

func TestCheckInvalidSpecialization(t *testing.T) {
	bag := checkSource(t, `
package P {
	part someCar;
	part def Truck :> someCar;
}
`)
	if !hasCode(bag, diag.InvalidSpecialization) {
		t.Fatalf("want E0006, got %v", codesOf(bag))
	}
}

func TestCheckCircularSpecialization(t *testing.T) {
	bag := checkSource(t, `
package P {
	part def A :> B;
	part def B :> A;
}
`)
	count := 0
	for _, d := range bag.Items() {
		if d.Code == diag.CircularDependency {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("both cycle members should be reported, got %d of %v", count, codesOf(bag))
	}
}

func TestCheckImportNotDuplicate(t *testing.T) {
	// Two imports of different targets share neither name nor qualified
	// name; re-checking must stay quiet.
	bag := checkSource(t, `
package A { part def X; }
package B { part def Y; }
package P {
	import A::*;
	import B::*;
}
`)
	if hasCode(bag, diag.DuplicateDefinition) {
		t.Fatalf("imports misreported as duplicates: %v", codesOf(bag))
	}
}

func TestCheckNamingConvention(t *testing.T) {
	bag := checkSource(t, `
package P {
	part def lowercase;
}
`)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.NamingConvention && d.Severity == diag.SevWarning {
			found = true
		}
	}
	if !found {
		t.Fatalf("want W0003 warning, got %v", codesOf(bag))
	}
}

func TestCheckChainMemberError(t *testing.T) {
	bag := checkSource(t, `
package M {
	action def P { action d; }
	part v {
		action p : P;
		perform p.missing;
	}
}
`)
	if !hasCode(bag, diag.UndefinedReference) {
		t.Fatalf("want E0001 for missing chain member, got %v", codesOf(bag))
	}
}
