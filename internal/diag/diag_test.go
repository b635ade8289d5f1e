package diag

import (
	"testing"

	"sysmlkit/internal/source"
)

func TestCodeString(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{UndefinedReference, "E0001"},
		{AmbiguousReference, "E0002"},
		{DuplicateDefinition, "E0004"},
		{CircularDependency, "E0007"},
		{UnusedSymbol, "W0001"},
		{NamingConvention, "W0003"},
	}
	for _, tc := range cases {
		if got := tc.code.String(); got != tc.want {
			t.Fatalf("Code(%d).String() = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	sp := source.NewSpan(0, 0, 0, 0, 1)
	if !b.Add(NewError(UndefinedReference, sp, "one")) {
		t.Fatalf("first add must succeed")
	}
	if !b.Add(NewError(UndefinedReference, sp, "two")) {
		t.Fatalf("second add must succeed")
	}
	if b.Add(NewError(UndefinedReference, sp, "three")) {
		t.Fatalf("add over limit must be dropped")
	}
	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
	if !b.HasErrors() {
		t.Fatalf("bag with errors should report HasErrors")
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(8)
	b.Add(NewWarning(UnusedSymbol, source.NewSpan(1, 3, 0, 3, 1), "later file"))
	b.Add(NewError(UndefinedReference, source.NewSpan(0, 5, 0, 5, 4), "second"))
	b.Add(NewError(UndefinedReference, source.NewSpan(0, 1, 2, 1, 6), "first"))
	b.Sort()

	items := b.Items()
	if items[0].Message != "first" || items[1].Message != "second" || items[2].Message != "later file" {
		t.Fatalf("unexpected order: %q, %q, %q", items[0].Message, items[1].Message, items[2].Message)
	}
}

func TestReportBuilderEmitOnce(t *testing.T) {
	bag := NewBag(4)
	r := &BagReporter{Bag: bag}
	sp := source.NewSpan(0, 0, 0, 0, 3)

	b := ReportError(r, UndefinedReference, sp, "undefined reference: 'Car'").
		WithNote(sp, "referenced here")
	b.Emit()
	b.Emit()

	if bag.Len() != 1 {
		t.Fatalf("double Emit must report once, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("note lost")
	}
}
