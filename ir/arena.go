package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// LimitError reports that a capacity-limited pool overflowed.
type LimitError struct {
	What  string
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("exceeded maximum number of %s (%d)", e.What, e.Limit)
}

// Arena is an index-addressed sequence with a fixed maximum length.
// Items are never freed individually; Truncate drops a suffix.
//
// Every item is boxed, so pointers returned by At stay valid while the
// arena grows.
type Arena[T any] struct {
	items []*T
	limit int
	what  string
}

// initialArenaCap bounds the up-front allocation of a new arena.
const initialArenaCap = 64

// NewArena creates an arena that holds at most limit items.
func NewArena[T any](what string, limit int) *Arena[T] {
	return &Arena[T]{
		items: make([]*T, 0, min(max(limit, 0), initialArenaCap)),
		limit: limit,
		what:  what,
	}
}

// Append adds an item and returns its index.
func (a *Arena[T]) Append(item T) (uint32, error) {
	if len(a.items)+1 > a.limit {
		return 0, &LimitError{What: a.what, Limit: a.limit}
	}
	idx, err := safecast.Conv[uint32](len(a.items))
	if err != nil {
		return 0, fmt.Errorf("%s index overflow: %w", a.what, err)
	}
	a.items = append(a.items, &item)
	return idx, nil
}

// At returns a pointer to the item at index i.
func (a *Arena[T]) At(i uint32) *T {
	return a.items[i]
}

// Len returns the number of items.
func (a *Arena[T]) Len() int {
	return len(a.items)
}

// Items returns the items in insertion order. Callers must not append
// to the returned slice.
func (a *Arena[T]) Items() []*T {
	return a.items
}

// Truncate drops every item at index n and above.
func (a *Arena[T]) Truncate(n int) {
	clear(a.items[n:])
	a.items = a.items[:n]
}

// WordBudget tracks instruction words reserved across all procedures.
type WordBudget struct {
	used  int
	limit int
}

// Reserve claims n words or fails once the limit would be exceeded.
func (b *WordBudget) Reserve(n int) error {
	if b.used+n > b.limit {
		return &LimitError{What: "instruction words", Limit: b.limit}
	}
	b.used += n
	return nil
}

// Used returns the number of reserved words.
func (b *WordBudget) Used() int {
	return b.used
}

// Limits bounds every pool of a compile.
// Zero fields are replaced with the defaults by WithDefaults.
type Limits struct {
	Types          int `toml:"types"`
	Procedures     int `toml:"procedures"`
	EntryPoints    int `toml:"entry_points"`
	Globals        int `toml:"globals"`
	Locals         int `toml:"locals"`
	Expressions    int `toml:"expressions"`
	Constants      int `toml:"constants"`
	Interfaces     int `toml:"interfaces"`
	Words          int `toml:"words"`
	ScopeDepth     int `toml:"scope_depth"`
	RecordMembers  int `toml:"record_members"`
	VectorElements int `toml:"vector_elements"`
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		Types:          256,
		Procedures:     32,
		EntryPoints:    8,
		Globals:        32,
		Locals:         128,
		Expressions:    1024,
		Constants:      256,
		Interfaces:     64,
		Words:          16384,
		ScopeDepth:     16,
		RecordMembers:  256,
		VectorElements: 1024,
	}
}

// WithDefaults fills zero or negative fields from DefaultLimits.
func (l Limits) WithDefaults() Limits {
	d := DefaultLimits()
	pick := func(v, def int) int {
		if v <= 0 {
			return def
		}
		return v
	}
	return Limits{
		Types:          pick(l.Types, d.Types),
		Procedures:     pick(l.Procedures, d.Procedures),
		EntryPoints:    pick(l.EntryPoints, d.EntryPoints),
		Globals:        pick(l.Globals, d.Globals),
		Locals:         pick(l.Locals, d.Locals),
		Expressions:    pick(l.Expressions, d.Expressions),
		Constants:      pick(l.Constants, d.Constants),
		Interfaces:     pick(l.Interfaces, d.Interfaces),
		Words:          pick(l.Words, d.Words),
		ScopeDepth:     pick(l.ScopeDepth, d.ScopeDepth),
		RecordMembers:  pick(l.RecordMembers, d.RecordMembers),
		VectorElements: pick(l.VectorElements, d.VectorElements),
	}
}
