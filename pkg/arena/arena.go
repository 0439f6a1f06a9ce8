// Package arena implements the append-only allocation area the
// interpreter builds AST values into: a string pool with content-
// addressed interning, an array pool, and a hash pool, all reset without
// releasing their capacity between parses that reuse the same arena.
package arena

import "github.com/parsanol/peg/pkg/ast"

// HashEntry is one (key, value) pair stored in an arena's hash pool. Keys
// are string-pool indices so hash entries stay fixed-width, exactly like
// ast.Node itself.
type HashEntry struct {
	Key   uint32
	Value ast.Node
}

// Arena is the interpreter's allocation area for a single parse session
// (or a run of ParseBatch calls sharing one arena). It is not safe for
// concurrent use; each parse session owns exactly one.
type Arena struct {
	stringPool []string          // interned string values, indexed by pool index
	stringHash map[string]uint32 // content -> pool index, for dedup

	arrayPool []ast.Node
	hashPool  []HashEntry

	scratch []ast.Node // reusable scratch stack for building runs before Store*
}

// New returns an empty Arena ready for use.
func New() *Arena {
	return &Arena{
		stringHash: make(map[string]uint32),
	}
}

// InternString returns the pool index for s, adding it to the string pool
// if this is the first time s has been seen. Because Go strings are
// already immutable content (unlike the Rust original's byte buffer +
// hash-then-verify scheme), a plain map keyed on the string itself is
// sufficient: Go's map already resolves hash collisions against the real
// key, so there is no separate verification step to write.
func (a *Arena) InternString(s string) uint32 {
	if idx, ok := a.stringHash[s]; ok {
		return idx
	}
	idx := uint32(len(a.stringPool))
	a.stringPool = append(a.stringPool, s)
	a.stringHash[s] = idx
	return idx
}

// String returns the interned string at pool index idx.
func (a *Arena) String(idx uint32) string {
	return a.stringPool[idx]
}

// StoreArray appends nodes as a contiguous run in the array pool and
// returns (poolIndex, length) addressing it.
func (a *Arena) StoreArray(nodes []ast.Node) (uint32, uint32) {
	idx := uint32(len(a.arrayPool))
	a.arrayPool = append(a.arrayPool, nodes...)
	return idx, uint32(len(nodes))
}

// Array returns the array-pool run at (poolIndex, length).
func (a *Arena) Array(poolIndex, length uint32) []ast.Node {
	return a.arrayPool[poolIndex : poolIndex+length]
}

// StoreHash appends entries as a contiguous run in the hash pool and
// returns (poolIndex, length) addressing it. Entries are stored in
// insertion order; key-collision resolution (later-wins) is the
// interpreter's responsibility at Named-merge time, not the arena's.
func (a *Arena) StoreHash(entries []HashEntry) (uint32, uint32) {
	idx := uint32(len(a.hashPool))
	a.hashPool = append(a.hashPool, entries...)
	return idx, uint32(len(entries))
}

// Hash returns the hash-pool run at (poolIndex, length).
func (a *Arena) Hash(poolIndex, length uint32) []HashEntry {
	return a.hashPool[poolIndex : poolIndex+length]
}

// PushScratch pushes n onto the arena's reusable scratch stack, for
// accumulating Sequence/Repetition results before they are known to need
// an Array allocation at all (the Nil/singleton/Array collapsing rule
// means many scratch runs never reach StoreArray). pkg/interp does not
// use it; it accumulates child values in local slices.
func (a *Arena) PushScratch(n ast.Node) {
	a.scratch = append(a.scratch, n)
}

// ScratchLen returns the current scratch stack depth.
func (a *Arena) ScratchLen() int { return len(a.scratch) }

// ScratchSince returns (and does not remove) the scratch entries pushed
// since mark, in push order. Callers pop them explicitly with
// TruncateScratch once they've been consumed.
func (a *Arena) ScratchSince(mark int) []ast.Node {
	return a.scratch[mark:]
}

// TruncateScratch resets the scratch stack to length mark, releasing
// (without a heap free — this is a slice length reset, same as the
// Rust original's scratch Vec::truncate) everything pushed since.
func (a *Arena) TruncateScratch(mark int) {
	a.scratch = a.scratch[:mark]
}

// Reset clears the arena for reuse, keeping the underlying slice/map
// capacity so a long-running host process that parses many inputs
// against one arena does not repeatedly reallocate. Equivalent to
// ResetWithOptions(true).
func (a *Arena) Reset() {
	a.ResetWithOptions(true)
}

// ResetWithOptions clears the array pool, hash pool, and scratch stack
// unconditionally, and additionally clears the string pool/interning
// table when clearStrings is true. A host that parses many inputs sharing
// a vocabulary (e.g. batch-parsing one grammar's worth of keywords) can
// pass false to keep already-interned strings valid across parses, at
// the cost of unbounded string-pool growth over the arena's lifetime.
func (a *Arena) ResetWithOptions(clearStrings bool) {
	a.arrayPool = a.arrayPool[:0]
	a.hashPool = a.hashPool[:0]
	a.scratch = a.scratch[:0]
	if clearStrings {
		a.stringPool = a.stringPool[:0]
		for k := range a.stringHash {
			delete(a.stringHash, k)
		}
	}
}
