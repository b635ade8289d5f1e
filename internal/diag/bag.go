package diag

import (
	"sort"
)

// Bag collects diagnostics up to a fixed limit.
type Bag struct {
	items []Diagnostic
	max   int
}

func NewBag(max int) *Bag {
	if max <= 0 {
		max = 1
	}
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   max,
	}
}

// Add appends d unless the limit is reached. Returns false when dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

// Items returns the collected diagnostics. The slice aliases the bag's
// internal storage; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// HasErrors reports whether at least one SevError diagnostic was collected.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Merge appends all diagnostics from other, growing the limit if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, position, severity (descending), then code
// for deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start.Before(dj.Primary.Start)
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End.Before(dj.Primary.End)
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
