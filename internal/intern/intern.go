// Package intern implements the canonical string table shared by the
// lexer and parser (spec Section 4.1). It is an open-addressed hash map
// with double hashing, grounded directly on original_source/src/intern.c's
// djb2-plus-double-hashing scheme: the Go port keeps the same two hash
// functions, the same tombstone bookkeeping, and the same growth
// thresholds, but stores a Kind alongside every key instead of recovering
// it from a side table.
package intern

import "github.com/mehditeymorian/boop/internal/token"

// MinCapacity is the smallest table size a Table is created with,
// regardless of the capacity hint passed to New.
const MinCapacity = 128

// LoadFactor is the size/capacity ratio that triggers a resize.
const LoadFactor = 0.7

// TombstoneRatio is the tombstone/capacity ratio that forces a resize even
// when the live load factor is still under LoadFactor.
const TombstoneRatio = 0.4

type slotState uint8

const (
	slotEmpty slotState = iota
	slotTombstone
	slotLive
)

// Symbol is the stable handle intern returns. Two tokens whose text is
// equal always resolve to the same *Symbol: callers compare handles with
// ==, never by comparing Text.
type Symbol struct {
	Text string
	Kind token.Kind
}

type slot struct {
	state  slotState
	symbol *Symbol
}

// Table is the interner itself: created at lexer construction, seeded
// with keywords, handed to the parser alongside the token vector, and
// kept alive (read-only) for as long as the AST exists.
type Table struct {
	slots      []slot
	size       int
	tombstones int
}

// New creates a Table with at least MinCapacity slots.
func New(capacityHint int) *Table {
	cap := MinCapacity
	if capacityHint > cap {
		cap = nextPow2(capacityHint)
	}
	return &Table{slots: make([]slot, cap)}
}

// djb2, as in original_source/src/intern.c: hash1.
func hash1(b []byte) uint64 {
	h := uint64(5381)
	for _, c := range b {
		h = h*33 + uint64(c)
	}
	return h
}

// hash2 mirrors original_source/src/intern.c's secondary hash: a
// polynomial hash reduced mod (capacity-1) and forced odd so the probe
// sequence visits every slot.
func hash2(b []byte, capacity int) uint64 {
	h := uint64(0)
	mod := uint64(capacity - 1)
	for _, c := range b {
		h = (h*31 + uint64(c)) % mod
	}
	return h | 1
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// findSlot walks the probe sequence for text, returning the index of its
// live slot, the index of a reusable slot (tombstone or empty) if
// forInsert is set, and whether text was found live.
func (t *Table) findSlot(text []byte, forInsert bool) (idx int, found bool) {
	cap := len(t.slots)
	h1 := int(hash1(text) % uint64(cap))
	h2 := int(hash2(text, cap))
	firstTomb := -1

	i := h1
	for n := 0; n < cap; n++ {
		s := &t.slots[i]
		switch s.state {
		case slotEmpty:
			if forInsert && firstTomb != -1 {
				return firstTomb, false
			}
			return i, false
		case slotTombstone:
			if forInsert && firstTomb == -1 {
				firstTomb = i
			}
		case slotLive:
			if s.symbol.Text == string(text) {
				return i, true
			}
		}
		i = (i + h2) % cap
	}
	if forInsert && firstTomb != -1 {
		return firstTomb, false
	}
	return -1, false
}

// Intern returns the canonical Symbol for text, creating one with
// defaultKind if text has never been seen. If text collides with an
// already-seeded entry (typically a keyword inserted at construction),
// the existing entry — and its reserved Kind — wins; defaultKind is
// ignored in that case. This is how the lexer tells a keyword from a
// user identifier without a second lookup table (spec Section 4.1).
func (t *Table) Intern(text []byte, defaultKind token.Kind) *Symbol {
	if idx, found := t.findSlot(text, false); found {
		return t.slots[idx].symbol
	}

	ratio := float64(t.size) / float64(len(t.slots))
	tombRatio := float64(t.tombstones) / float64(len(t.slots))
	if ratio >= LoadFactor || tombRatio >= TombstoneRatio {
		t.resize()
	}

	idx, _ := t.findSlot(text, true)
	sym := &Symbol{Text: string(text), Kind: defaultKind}
	if t.slots[idx].state == slotTombstone {
		t.tombstones--
	}
	if t.slots[idx].state != slotLive {
		t.size++
	}
	t.slots[idx] = slot{state: slotLive, symbol: sym}
	return sym
}

// InternString is a convenience wrapper for Intern([]byte(text), kind).
func (t *Table) InternString(text string, defaultKind token.Kind) *Symbol {
	return t.Intern([]byte(text), defaultKind)
}

// Lookup performs a read-only query: it never inserts or resizes.
func (t *Table) Lookup(text []byte) (*Symbol, bool) {
	idx, found := t.findSlot(text, false)
	if !found {
		return nil, false
	}
	return t.slots[idx].symbol, true
}

// Seed pre-populates the table with a reserved word and its kind. Used at
// lexer construction to load the keyword table (spec Section 4.1,
// "Keyword seeding").
func (t *Table) Seed(text string, kind token.Kind) {
	t.InternString(text, kind)
}

// Size returns the number of live (non-tombstone) entries.
func (t *Table) Size() int { return t.size }

// Cap returns the current slot count.
func (t *Table) Cap() int { return len(t.slots) }

func (t *Table) resize() {
	old := t.slots
	t.slots = make([]slot, len(old)*2)
	t.size = 0
	t.tombstones = 0
	for _, s := range old {
		if s.state != slotLive {
			continue
		}
		idx, _ := t.findSlot([]byte(s.symbol.Text), true)
		t.slots[idx] = slot{state: slotLive, symbol: s.symbol}
		t.size++
	}
}
