// Package cache implements the packrat memoization table: a dense,
// open-addressed hash table keyed on (position, atom index), so the
// recursive-descent interpreter never re-evaluates the same atom at the
// same position twice.
package cache

import "github.com/parsanol/peg/pkg/ast"

const (
	emptySlot   int32   = -1
	maxLoad     float64 = 0.75
	initialSize int     = 64
)

// Entry is one memoized parse result: either a success spanning
// [Pos, EndPos) with a captured value, or a failure at Pos. Positions and
// atom indices are stored as uint32. The captured ast.Node is held inline
// rather than packed into a node reference, so an Entry does not have the
// 16-byte layout of the Rust original's CacheEntry.
type Entry struct {
	Pos     uint32
	AtomID  uint32
	Success bool
	EndPos  uint32
	Value   ast.Node
}

// Cache is a dense open-addressed table mapping (pos, atomID) to Entry.
// It is reset (not reallocated) between parses run against the same
// interpreter session for amortized-zero-allocation reuse.
type Cache struct {
	slots   []int32 // index into entries, or emptySlot
	entries []Entry
}

// New returns an empty Cache with its initial table pre-sized.
func New() *Cache {
	c := &Cache{}
	c.slots = newSlots(initialSize)
	return c
}

func newSlots(n int) []int32 {
	s := make([]int32, n)
	for i := range s {
		s[i] = emptySlot
	}
	return s
}

// hash folds (pos, atomID) into a table index using an FNV-1a-style
// mix, matching the Rust original's DenseCache.hash.
func hash(pos, atomID uint32, mod int) int {
	const (
		offsetBasis uint64 = 14695981039346656037
		prime       uint64 = 1099511628211
	)
	h := offsetBasis
	h ^= uint64(pos)
	h *= prime
	h ^= uint64(atomID)
	h *= prime
	return int(h % uint64(mod))
}

// find returns the slot index for (pos, atomID): either the slot already
// holding it, or the first empty slot on its probe sequence.
func (c *Cache) find(pos, atomID uint32) int {
	n := len(c.slots)
	i := hash(pos, atomID, n)
	for {
		si := c.slots[i]
		if si == emptySlot {
			return i
		}
		e := &c.entries[si]
		if e.Pos == pos && e.AtomID == atomID {
			return i
		}
		i++
		if i == n {
			i = 0
		}
	}
}

// Get looks up the memoized entry for (pos, atomID). Lookahead and Cut
// atoms are never inserted (per the interpreter's contract) so they never
// hit here.
func (c *Cache) Get(pos, atomID uint32) (Entry, bool) {
	i := c.find(pos, atomID)
	si := c.slots[i]
	if si == emptySlot {
		return Entry{}, false
	}
	return c.entries[si], true
}

// Insert memoizes e under (e.Pos, e.AtomID), growing the table first if
// the load factor would exceed maxLoad.
func (c *Cache) Insert(e Entry) {
	if float64(len(c.entries)+1) > maxLoad*float64(len(c.slots)) {
		c.grow()
	}
	i := c.find(e.Pos, e.AtomID)
	if c.slots[i] != emptySlot {
		c.entries[c.slots[i]] = e
		return
	}
	c.entries = append(c.entries, e)
	c.slots[i] = int32(len(c.entries) - 1)
}

// GetOrInsertWith looks up (pos, atomID); on miss it calls compute, memoizes
// the result via Insert, and returns it. Mirrors the Rust original's
// get_or_insert_with entry point used throughout the interpreter's
// try_atom dispatch.
func (c *Cache) GetOrInsertWith(pos, atomID uint32, compute func() Entry) Entry {
	if e, ok := c.Get(pos, atomID); ok {
		return e
	}
	e := compute()
	e.Pos = pos
	e.AtomID = atomID
	c.Insert(e)
	return e
}

// grow doubles the table size and reinserts every existing entry.
func (c *Cache) grow() {
	newSize := len(c.slots) * 2
	if newSize == 0 {
		newSize = initialSize
	}
	c.slots = newSlots(newSize)
	for idx := range c.entries {
		e := &c.entries[idx]
		i := c.find(e.Pos, e.AtomID)
		c.slots[i] = int32(idx)
	}
}

// Reset empties the cache for reuse against a new input, keeping the
// underlying slice capacity.
func (c *Cache) Reset() {
	for i := range c.slots {
		c.slots[i] = emptySlot
	}
	c.entries = c.entries[:0]
}

// Len returns the number of memoized entries currently held.
func (c *Cache) Len() int { return len(c.entries) }
