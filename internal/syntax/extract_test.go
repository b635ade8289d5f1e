package syntax

import (
	"testing"

	"sysmlkit/internal/hir"
	"sysmlkit/internal/source"
)

func extract(t *testing.T, text string) []hir.Symbol {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sysml", []byte(text))
	return ExtractFile(fs.Get(id), Options{})
}

func findSym(t *testing.T, syms []hir.Symbol, qname string) *hir.Symbol {
	t.Helper()
	for i := range syms {
		if syms[i].QualifiedName == qname {
			return &syms[i]
		}
	}
	t.Fatalf("symbol %q not extracted; have %d symbols", qname, len(syms))
	return nil
}

func TestExtractPackageAndParts(t *testing.T) {
	syms := extract(t, `
package Vehicle {
	part def Car {
		part engine : Engine;
	}
}
`)
	pkg := findSym(t, syms, "Vehicle")
	if pkg.Kind != hir.KindPackage {
		t.Fatalf("Vehicle kind = %v", pkg.Kind)
	}
	car := findSym(t, syms, "Vehicle::Car")
	if car.Kind != hir.KindPartDef {
		t.Fatalf("Car kind = %v", car.Kind)
	}
	engine := findSym(t, syms, "Vehicle::Car::engine")
	if engine.Kind != hir.KindPartUsage {
		t.Fatalf("engine kind = %v", engine.Kind)
	}
	if len(engine.Supertypes) != 1 || engine.Supertypes[0] != "Engine" {
		t.Fatalf("engine supertypes = %v", engine.Supertypes)
	}
	if len(engine.TypeRefs) != 1 || engine.TypeRefs[0].Kind != hir.RefSimple {
		t.Fatalf("engine refs = %+v", engine.TypeRefs)
	}
}

func TestExtractPackageKeywordIsNotTheName(t *testing.T) {
	syms := extract(t, `
package M {
	action def P {
		action d;
	}
	part v {
		action p : P;
		perform p.d;
	}
}
`)
	for i := range syms {
		if syms[i].Name == "package" {
			t.Fatalf("keyword consumed as declared name: %+v", syms[i])
		}
	}
	findSym(t, syms, "M")
	findSym(t, syms, "M::P::d")
	v := findSym(t, syms, "M::v")
	if len(v.TypeRefs) != 1 || v.TypeRefs[0].Kind != hir.RefChain {
		t.Fatalf("perform chain lost from package body: %+v", v.TypeRefs)
	}
}

func TestExtractDefinitionKinds(t *testing.T) {
	syms := extract(t, `
package P {
	action def Start;
	attribute def Mass;
	port def Plug;
	use case def Drive;
	analysis def Fuel;
	enum def Color;
	requirement def Safe;
}
`)
	wants := map[string]hir.SymbolKind{
		"P::Start": hir.KindActionDef,
		"P::Mass":  hir.KindAttributeDef,
		"P::Plug":  hir.KindPortDef,
		"P::Drive": hir.KindUseCaseDef,
		"P::Fuel":  hir.KindAnalysisCaseDef,
		"P::Color": hir.KindEnumerationDef,
		"P::Safe":  hir.KindRequirementDef,
	}
	for qname, kind := range wants {
		if got := findSym(t, syms, qname).Kind; got != kind {
			t.Fatalf("%s kind = %v, want %v", qname, got, kind)
		}
	}
}

func TestExtractShortName(t *testing.T) {
	syms := extract(t, `
package ISQ {
	attribute def <T> TorqueValue;
}
`)
	sym := findSym(t, syms, "ISQ::TorqueValue")
	if sym.ShortName != "T" {
		t.Fatalf("short name = %q, want T", sym.ShortName)
	}
}

func TestExtractImports(t *testing.T) {
	syms := extract(t, `
package P {
	public import ISQ::*;
	private import SI::Newton;
	import Quantities::**;
}
`)
	wild := findSym(t, syms, "P::import:ISQ::*")
	if wild.Kind != hir.KindImport || !wild.Public {
		t.Fatalf("public wildcard import wrong: %+v", wild)
	}
	single := findSym(t, syms, "P::import:SI::Newton")
	if single.Public {
		t.Fatalf("private import must not re-export")
	}
	recursive := findSym(t, syms, "P::import:Quantities::*")
	if recursive.Public {
		t.Fatalf("imports default to private, got public: %+v", recursive)
	}
}

func TestExtractAlias(t *testing.T) {
	syms := extract(t, `
package Garage {
	alias Auto for Vehicle::Car;
}
`)
	sym := findSym(t, syms, "Garage::Auto")
	if sym.Kind != hir.KindAlias {
		t.Fatalf("alias kind = %v", sym.Kind)
	}
	if len(sym.Supertypes) != 1 || sym.Supertypes[0] != "Vehicle::Car" {
		t.Fatalf("alias target = %v", sym.Supertypes)
	}
}

func TestExtractHeritageForms(t *testing.T) {
	syms := extract(t, `
package P {
	part def Car specializes Vehicle;
	part def Truck :> Vehicle, Hauler;
	part suv :> car;
	attribute mass :>> Vehicle::mass;
}
`)
	car := findSym(t, syms, "P::Car")
	if len(car.Supertypes) != 1 || car.Supertypes[0] != "Vehicle" {
		t.Fatalf("specializes keyword form: %v", car.Supertypes)
	}
	truck := findSym(t, syms, "P::Truck")
	if len(truck.Supertypes) != 2 || truck.Supertypes[1] != "Hauler" {
		t.Fatalf("comma list: %v", truck.Supertypes)
	}
	mass := findSym(t, syms, "P::mass")
	if len(mass.Supertypes) != 1 || mass.Supertypes[0] != "Vehicle::mass" {
		t.Fatalf("redefinition target: %v", mass.Supertypes)
	}
}

func TestExtractPerformChain(t *testing.T) {
	syms := extract(t, `
package M {
	action def P { action d; }
	part v {
		action p : P;
		perform p.d;
	}
}
`)
	v := findSym(t, syms, "M::v")
	if len(v.TypeRefs) != 1 || v.TypeRefs[0].Kind != hir.RefChain {
		t.Fatalf("perform chain not recorded on owner: %+v", v.TypeRefs)
	}
	parts := v.TypeRefs[0].Parts
	if len(parts) != 2 || parts[0].Target != "p" || parts[1].Target != "d" {
		t.Fatalf("chain parts = %+v", parts)
	}
}

func TestExtractPerformNamedAction(t *testing.T) {
	syms := extract(t, `
part camera {
	perform action focus : Focus;
}
`)
	sym := findSym(t, syms, "camera::focus")
	if sym.Kind != hir.KindActionUsage {
		t.Fatalf("perform action kind = %v", sym.Kind)
	}
	if len(sym.Supertypes) != 1 || sym.Supertypes[0] != "Focus" {
		t.Fatalf("perform action type = %v", sym.Supertypes)
	}
}

func TestExtractDoc(t *testing.T) {
	syms := extract(t, `
package P {
	part def Engine {
		doc /* Powers the vehicle. */
	}
	/* Brakes stop it. */
	part def Brake;
}
`)
	if doc := findSym(t, syms, "P::Engine").Doc; doc != "Powers the vehicle." {
		t.Fatalf("doc statement = %q", doc)
	}
	if doc := findSym(t, syms, "P::Brake").Doc; doc != "Brakes stop it." {
		t.Fatalf("leading comment doc = %q", doc)
	}
}

func TestExtractEnumLiterals(t *testing.T) {
	syms := extract(t, `
enum def Color {
	red;
	green = 2;
}
`)
	if findSym(t, syms, "Color::red").Kind != hir.KindAttributeUsage {
		t.Fatalf("enum literal kind wrong")
	}
	findSym(t, syms, "Color::green")
}

func TestExtractVisibilityModifiers(t *testing.T) {
	syms := extract(t, `
package P {
	private part def Hidden;
	part def Shown;
}
`)
	if findSym(t, syms, "P::Hidden").Public {
		t.Fatalf("private member extracted as public")
	}
	if !findSym(t, syms, "P::Shown").Public {
		t.Fatalf("members default to public")
	}
}

func TestExtractNamedDependency(t *testing.T) {
	syms := extract(t, `
package P {
	dependency Use from Design to Requirements;
	dependency Unnamed to Elsewhere;
}
`)
	dep := findSym(t, syms, "P::Use")
	if dep.Kind != hir.KindDependency {
		t.Fatalf("dependency kind = %v", dep.Kind)
	}
	if len(dep.TypeRefs) != 2 {
		t.Fatalf("dependency endpoints = %d, want 2", len(dep.TypeRefs))
	}
	for _, sym := range syms {
		if sym.QualifiedName == "P::Unnamed" {
			t.Fatalf("unnamed dependency must not declare a symbol")
		}
	}
}

func TestExtractSkipsUnknownStatements(t *testing.T) {
	syms := extract(t, `
package P {
	assert constraint { mass <= 2500 }
	part def Car;
}
`)
	findSym(t, syms, "P::Car")
}

func TestExtractQuotedAndUnicodeNames(t *testing.T) {
	syms := extract(t, `
package Modell {
	part def 'Front Axle';
	part def Größe;
}
`)
	findSym(t, syms, "Modell::Front Axle")
	findSym(t, syms, "Modell::Größe")
}
