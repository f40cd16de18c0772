package trace

import (
	"fmt"
	"strings"
)

// FunctionSig is the interned metadata for one instrumented function,
// defined the first time an ENTER references its id.
type FunctionSig struct {
	ID       uint64
	Name     string
	ArgNames []string
}

// EnumSig is the interned metadata for one enum constant: its name and
// the canonical Value it denotes (an integer in practice, but the format
// does not constrain it).
type EnumSig struct {
	ID    uint64
	Name  string
	Value Value
}

// BitmaskSig is the interned flag dictionary for one bitmask type.
type BitmaskSig struct {
	ID    uint64
	Flags []BitmaskFlag
}

// BitmaskFlag is one (name, bit) entry of a BitmaskSig.
type BitmaskFlag struct {
	Name string
	Bits uint64
}

// Format renders mask against the flag dictionary the way the reference
// tool prints bitmask arguments: OR'd flag names, with any leftover bits
// shown as a hex remainder.
func (b *BitmaskSig) Format(mask uint64) string {
	if b == nil {
		return fmt.Sprintf("0x%x", mask)
	}
	var names []string
	remaining := mask
	for _, f := range b.Flags {
		if f.Bits == 0 {
			continue
		}
		if remaining&f.Bits == f.Bits {
			names = append(names, f.Name)
			remaining &^= f.Bits
		}
	}
	if remaining != 0 || len(names) == 0 {
		names = append(names, fmt.Sprintf("0x%x", remaining))
	}
	return strings.Join(names, " | ")
}

// StructSig is the interned metadata for one struct type: its name and
// the declaration order of its member names.
type StructSig struct {
	ID          uint64
	Name        string
	MemberNames []string
}

// signatureTable is a sparse, id-indexed container shared by the four
// interning tables the parser keeps. It grows on out-of-range lookups
// rather than rejecting them, per the "ids are not assumed dense" rule
// of the format: a reference to an id the producer hasn't defined yet
// (which should never happen, but the table must not panic on it) just
// reports a miss and extends the backing slice.
type signatureTable[T any] struct {
	entries []*T
}

// lookup returns the entry at id and whether it was already defined. A
// lookup past the end of the table grows it first, mirroring the
// reference parser's resize-on-miss std::vector behavior.
func (t *signatureTable[T]) lookup(id uint64) (entry *T, ok bool) {
	if id >= uint64(len(t.entries)) {
		grown := make([]*T, id+1)
		copy(grown, t.entries)
		t.entries = grown
	}
	e := t.entries[id]
	return e, e != nil
}

// define installs entry at id. Redefining an already-defined id is
// permitted (undefined behavior upstream, last-writer-wins here) and
// never panics.
func (t *signatureTable[T]) define(id uint64, entry *T) {
	if id >= uint64(len(t.entries)) {
		grown := make([]*T, id+1)
		copy(grown, t.entries)
		t.entries = grown
	}
	t.entries[id] = entry
}

// size reports how many slots have been grown into, not how many are
// actually defined (sparse tables may hold nil holes).
func (t *signatureTable[T]) size() int {
	return len(t.entries)
}

// all returns every defined (non-nil) entry, in ascending id order.
func (t *signatureTable[T]) all() []*T {
	out := make([]*T, 0, len(t.entries))
	for _, e := range t.entries {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
