package source

import (
	"slices"
	"sync"
)

// StringID is a compact handle for an interned string.
type StringID uint32

// NoStringID maps to the empty string.
const NoStringID StringID = 0

// Interner deduplicates identifier strings. It is safe for concurrent use:
// lookups take a shared lock, and a miss upgrades to an exclusive lock with a
// re-check before inserting, so parallel extraction workers can share one
// interner.
type Interner struct {
	mu    sync.RWMutex
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern stores s and returns its ID, reusing the existing ID if s was seen
// before.
func (i *Interner) Intern(s string) StringID {
	i.mu.RLock()
	id, ok := i.index[s]
	i.mu.RUnlock()
	if ok {
		return id
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	// Another writer may have inserted s between the two locks.
	if id, ok := i.index[s]; ok {
		return id
	}

	// Copy so the entry does not pin the caller's backing buffer.
	cpy := string([]byte(s))
	id = StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup returns the string for id, or ("", false) for an unknown ID.
func (i *Interner) Lookup(id StringID) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup returns the string for id and panics on an unknown ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Len returns the number of interned strings, counting NoStringID.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

// Snapshot returns a copy of all interned strings.
func (i *Interner) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byID)
}
