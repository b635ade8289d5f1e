package source

import (
	"fmt"
	"sync"
	"testing"
)

func TestInternerDedup(t *testing.T) {
	in := NewInterner()
	a := in.Intern("Vehicle")
	b := in.Intern("Vehicle")
	if a != b {
		t.Fatalf("expected same ID for same string, got %d and %d", a, b)
	}
	c := in.Intern("Engine")
	if c == a {
		t.Fatalf("distinct strings must not share an ID")
	}
	if got := in.MustLookup(a); got != "Vehicle" {
		t.Fatalf("lookup returned %q", got)
	}
}

func TestInternerEmptyString(t *testing.T) {
	in := NewInterner()
	if id := in.Intern(""); id != NoStringID {
		t.Fatalf("empty string should map to NoStringID, got %d", id)
	}
	if in.Len() != 1 {
		t.Fatalf("fresh interner should hold only the sentinel, len=%d", in.Len())
	}
}

func TestInternerConcurrent(t *testing.T) {
	in := NewInterner()
	var wg sync.WaitGroup
	const workers = 8
	ids := make([][]StringID, workers)
	for w := 0; w < workers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[w] = make([]StringID, 100)
			for j := 0; j < 100; j++ {
				ids[w][j] = in.Intern(fmt.Sprintf("name%d", j))
			}
		}()
	}
	wg.Wait()

	for w := 1; w < workers; w++ {
		for j := 0; j < 100; j++ {
			if ids[w][j] != ids[0][j] {
				t.Fatalf("worker %d got ID %d for name%d, worker 0 got %d", w, ids[w][j], j, ids[0][j])
			}
		}
	}
	if in.Len() != 101 {
		t.Fatalf("expected 101 entries (sentinel + 100 names), got %d", in.Len())
	}
}

func TestInternerLookupUnknown(t *testing.T) {
	in := NewInterner()
	if _, ok := in.Lookup(StringID(42)); ok {
		t.Fatalf("unknown ID must not resolve")
	}
}
