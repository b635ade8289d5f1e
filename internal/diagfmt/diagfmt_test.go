package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"sysmlkit/internal/diag"
	"sysmlkit/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.AddVirtual("model.sysml", []byte("part def car;\npart x : Missing;\n"))

	bag := diag.NewBag(16)
	bag.Add(diag.NewError(diag.UndefinedReference, source.NewSpan(file, 1, 9, 1, 16),
		`cannot resolve reference "Missing"`).
		WithNote(source.NewSpan(file, 1, 5, 1, 6), "referenced here"))
	bag.Add(diag.NewWarning(diag.NamingConvention, source.NewSpan(file, 0, 9, 0, 12),
		`definition "car" should start with an uppercase letter`))
	bag.Sort()
	return bag, fs
}

func TestPrettyPlain(t *testing.T) {
	bag, fs := sampleBag(t)

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{ShowNotes: true, ShowContext: true})
	out := sb.String()

	if !strings.Contains(out, "model.sysml:2:10: ERROR E0001: cannot resolve") {
		t.Fatalf("missing primary line:\n%s", out)
	}
	if !strings.Contains(out, "model.sysml:1:10: WARNING W0003:") {
		t.Fatalf("missing warning line:\n%s", out)
	}
	if !strings.Contains(out, "note: referenced here") {
		t.Fatalf("missing note:\n%s", out)
	}
	if !strings.Contains(out, "part x : Missing;") {
		t.Fatalf("missing context line:\n%s", out)
	}
	if !strings.Contains(out, "^~~~~~~") {
		t.Fatalf("missing underline:\n%s", out)
	}
	if !strings.Contains(out, "1 error(s), 1 warning(s)") {
		t.Fatalf("missing summary:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color escapes in plain output:\n%s", out)
	}
}

func TestPrettyUnderlinePosition(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("m.sysml", []byte("abc def\n"))
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.UndefinedReference, source.NewSpan(file, 0, 4, 0, 7), "x"))

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{ShowContext: true})

	if !strings.Contains(sb.String(), "\n      ^~~\n") {
		t.Fatalf("underline misplaced:\n%q", sb.String())
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := sampleBag(t)

	var sb strings.Builder
	if err := JSON(&sb, bag, fs, JSONOpts{IncludeNotes: true}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal([]byte(sb.String()), &out); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "W0003" || first.Location.StartLine != 1 || first.Location.StartCol != 10 {
		t.Fatalf("unexpected first diagnostic: %+v", first)
	}
	second := out.Diagnostics[1]
	if second.Severity != "ERROR" || len(second.Notes) != 1 {
		t.Fatalf("unexpected second diagnostic: %+v", second)
	}
}

func TestJSONTruncation(t *testing.T) {
	bag, fs := sampleBag(t)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("expected truncation to 1, got %d", out.Count)
	}
	if bag.Len() != 2 {
		t.Fatalf("truncation must not touch the bag")
	}
}

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("models/deep/x.sysml", nil)

	if got := displayPath(file, fs, PathModeBasename); got != "x.sysml" {
		t.Fatalf("basename: %q", got)
	}
	if got := displayPath(file, fs, PathModeAuto); got != "models/deep/x.sysml" {
		t.Fatalf("auto: %q", got)
	}
}
