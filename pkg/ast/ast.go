// Package ast defines the AST value representation produced by the PEG
// interpreter, and the closed set of parse error kinds it can return.
//
// A Node is a fixed-width tagged value: it never owns a pointer into the
// heap itself. Everything that looks like "heap content" — interned
// strings, array elements, hash entries — lives in an arena and is
// addressed by index, so a Node is cheap to copy and cheap to compare.
package ast

import "fmt"

// Kind tags which variant of Node is populated. Dispatch on Kind, never
// on a type hierarchy.
type Kind uint8

const (
	// Nil is the empty/absent value.
	Nil Kind = iota
	// Bool is a boolean literal.
	Bool
	// Int is a 64-bit signed integer literal.
	Int
	// Float is a 64-bit floating point literal.
	Float
	// StringRef references an interned string in an arena's string pool.
	StringRef
	// InputRef references a byte slice of the original input, zero-copy.
	InputRef
	// Array references a contiguous run of Nodes in an arena's array pool.
	Array
	// Hash references a contiguous run of (key, value) entries in an
	// arena's hash pool.
	Hash
)

// Node is a fixed-width tagged AST value. Only the fields relevant to Kind
// are meaningful; the rest are zero.
type Node struct {
	Kind Kind

	Bool  bool
	Int   int64
	Float float64

	// PoolIndex/Length address a run in the arena appropriate to Kind:
	// StringRef pool index, or the start of an Array/Hash run.
	PoolIndex uint32
	Length    uint32

	// Offset is additionally used by InputRef; PoolIndex/Length are
	// reused as Offset/Length there (Offset aliases PoolIndex).
}

// NilNode is the canonical Nil value.
var NilNode = Node{Kind: Nil}

// BoolNode builds a Bool node.
func BoolNode(b bool) Node { return Node{Kind: Bool, Bool: b} }

// IntNode builds an Int node.
func IntNode(i int64) Node { return Node{Kind: Int, Int: i} }

// FloatNode builds a Float node.
func FloatNode(f float64) Node { return Node{Kind: Float, Float: f} }

// StringRefNode builds a StringRef node pointing at a string pool index.
func StringRefNode(poolIndex uint32) Node {
	return Node{Kind: StringRef, PoolIndex: poolIndex}
}

// InputRefNode builds an InputRef node over input[offset : offset+length].
func InputRefNode(offset, length uint32) Node {
	return Node{Kind: InputRef, PoolIndex: offset, Length: length}
}

// Offset returns the InputRef's offset into the original input. Only
// meaningful when Kind == InputRef.
func (n Node) Offset() uint32 { return n.PoolIndex }

// ArrayNode builds an Array node over an arena array-pool run.
func ArrayNode(poolIndex, length uint32) Node {
	return Node{Kind: Array, PoolIndex: poolIndex, Length: length}
}

// HashNode builds a Hash node over an arena hash-pool run.
func HashNode(poolIndex, length uint32) Node {
	return Node{Kind: Hash, PoolIndex: poolIndex, Length: length}
}

// IsNil reports whether n is the Nil variant.
func (n Node) IsNil() bool { return n.Kind == Nil }

func (k Kind) String() string {
	switch k {
	case Nil:
		return "nil"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case StringRef:
		return "string_ref"
	case InputRef:
		return "input_ref"
	case Array:
		return "array"
	case Hash:
		return "hash"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}
