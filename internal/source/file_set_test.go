package source

import (
	"testing"
)

func TestFileSetAddVirtual(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.sysml", []byte("package P {\n}\n"))

	f := fs.Get(id)
	if f == nil {
		t.Fatalf("file not found after add")
	}
	if f.Flags&FileVirtual == 0 {
		t.Fatalf("virtual flag not set")
	}
	if got, ok := fs.GetLatest("test.sysml"); !ok || got != id {
		t.Fatalf("GetLatest = (%d, %v), want (%d, true)", got, ok, id)
	}
}

func TestFileSetReaddSamePath(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("a.sysml", []byte("package A {}\n"))
	second := fs.AddVirtual("a.sysml", []byte("package B {}\n"))
	if first == second {
		t.Fatalf("re-adding a path must allocate a new ID")
	}
	latest, ok := fs.GetLatest("a.sysml")
	if !ok || latest != second {
		t.Fatalf("path index should track the latest version")
	}
	if fs.Get(first).Hash == fs.Get(second).Hash {
		t.Fatalf("different content should have different digests")
	}
}

func TestFileGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("m.sysml", []byte("package Vehicle {\n\tpart def Car;\n}\n"))
	f := fs.Get(id)

	cases := []struct {
		line uint32
		want string
	}{
		{0, "package Vehicle {"},
		{1, "\tpart def Car;"},
		{2, "}"},
		{9, ""},
	}
	for _, tc := range cases {
		if got := f.GetLine(tc.line); got != tc.want {
			t.Fatalf("GetLine(%d) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestSpanCover(t *testing.T) {
	a := NewSpan(0, 1, 4, 1, 9)
	b := NewSpan(0, 0, 0, 3, 2)
	c := a.Cover(b)
	if c.Start != (LineCol{0, 0}) || c.End != (LineCol{3, 2}) {
		t.Fatalf("cover got %v", c)
	}
	other := NewSpan(1, 0, 0, 0, 1)
	if got := a.Cover(other); got != a {
		t.Fatalf("cover across files must be a no-op")
	}
}
