// Package grammar defines the Atom sum type and the Grammar that ties a
// flat slice of atoms to a root index, plus the eager validation and
// structural analysis that run before any parse begins.
package grammar

import (
	"fmt"
	"regexp"
)

// AtomKind tags which variant of Atom is populated. As with ast.Node, an
// Atom is a flat struct dispatched by switch, never an interface
// hierarchy: the grammar is a fixed, validated data value, not a tree of
// allocations.
type AtomKind uint8

const (
	// Str matches a literal string exactly.
	Str AtomKind = iota
	// Re matches a compiled regular expression anchored at the current
	// position.
	Re
	// Any matches exactly one Unicode scalar value (one UTF-8 encoded
	// rune) of input, failing only at end of input.
	Any
	// Ref refers to another atom by index, the grammar's only means of
	// recursion and reuse.
	Ref
	// Sequence matches each child atom in order, failing (with no partial
	// effect) if any child fails.
	Sequence
	// Alternative tries each child atom in order, committing to the first
	// that succeeds.
	Alternative
	// Repetition matches its child atom between Min and Max times
	// (Max == 0 meaning unbounded), greedily.
	Repetition
	// Named wraps a child atom's result, capturing it under Name in the
	// enclosing Hash.
	Named
	// Lookahead matches without consuming input; Negative inverts success
	// and failure.
	Lookahead
	// Cut commits the enclosing Alternative to the branch it appears in:
	// once reached, the interpreter never backtracks past it.
	Cut
	// Ignore matches its child atom but contributes no AST value.
	Ignore
)

func (k AtomKind) String() string {
	switch k {
	case Str:
		return "Str"
	case Re:
		return "Re"
	case Any:
		return "Any"
	case Ref:
		return "Ref"
	case Sequence:
		return "Sequence"
	case Alternative:
		return "Alternative"
	case Repetition:
		return "Repetition"
	case Named:
		return "Named"
	case Lookahead:
		return "Lookahead"
	case Cut:
		return "Cut"
	case Ignore:
		return "Ignore"
	default:
		return fmt.Sprintf("AtomKind(%d)", uint8(k))
	}
}

// Associativity tags the InfixCompiler's treatment of an operator level
// (infix.Level.Assoc). It is meaningless outside the compiler and ignored
// by the interpreter.
type Associativity uint8

const (
	// Left folds left: a (op a)*.
	Left Associativity = iota
	// Right folds right: a (op expr)?, recursing into expr.
	Right
	// NonAssoc permits at most one operator application: a (op a)?.
	NonAssoc
)

// Atom is a single node of a Grammar. Only the fields relevant to Kind are
// meaningful; children are referenced by index into the owning Grammar's
// Atoms slice, never by pointer.
type Atom struct {
	Kind AtomKind

	// Str holds the literal for Kind == Str.
	Str string

	// Pattern is the regexp source for Kind == Re.
	Pattern string
	re      *regexp.Regexp // filled by Grammar.Validate; unexported, not user-set

	// Child is the single child index used by Repetition, Named,
	// Lookahead, Ignore.
	Child int

	// Children holds the child indices used by Sequence and Alternative.
	Children []int

	// Ref is the target atom index for Kind == Ref.
	Ref int

	// Min/Max bound a Repetition. Max == 0 means unbounded. Min > 0
	// requires at least Min matches.
	Min int
	Max int

	// Name labels a Named capture.
	Name string

	// Negative inverts a Lookahead: true means "fails if child succeeds".
	Negative bool

	// Assoc is not set by infix.Compile, which takes associativity from
	// infix.Level instead; the core interpreter and pkg/grammarfile
	// ignore it.
	Assoc Associativity
}

// StrAtom builds a Str atom.
func StrAtom(s string) Atom { return Atom{Kind: Str, Str: s} }

// ReAtom builds a Re atom from a regexp source pattern, anchored
// implicitly at the match position by Validate/compile.
func ReAtom(pattern string) Atom { return Atom{Kind: Re, Pattern: pattern} }

// AnyAtom builds an Any atom.
func AnyAtom() Atom { return Atom{Kind: Any} }

// RefAtom builds a Ref atom pointing at target.
func RefAtom(target int) Atom { return Atom{Kind: Ref, Ref: target} }

// SequenceAtom builds a Sequence atom over children, in order.
func SequenceAtom(children ...int) Atom { return Atom{Kind: Sequence, Children: children} }

// AlternativeAtom builds an Alternative atom over children, in order.
func AlternativeAtom(children ...int) Atom { return Atom{Kind: Alternative, Children: children} }

// RepetitionAtom builds a Repetition atom matching child between min and
// max (inclusive) times; max == 0 means unbounded.
func RepetitionAtom(child, min, max int) Atom {
	return Atom{Kind: Repetition, Child: child, Min: min, Max: max}
}

// NamedAtom builds a Named atom capturing child's result under name.
func NamedAtom(name string, child int) Atom { return Atom{Kind: Named, Name: name, Child: child} }

// LookaheadAtom builds a Lookahead atom; negative selects negative
// lookahead.
func LookaheadAtom(child int, negative bool) Atom {
	return Atom{Kind: Lookahead, Child: child, Negative: negative}
}

// CutAtom builds a Cut atom.
func CutAtom() Atom { return Atom{Kind: Cut} }

// IgnoreAtom builds an Ignore atom wrapping child.
func IgnoreAtom(child int) Atom { return Atom{Kind: Ignore, Child: child} }

// Visitor is called once per atom reachable from Grammar.Walk, in
// depth-first order, atom index first. Mirrors the teacher's own
// single-method visitor shapes (e.g. parse.Walk) rather than a
// multi-method visitor interface per atom kind.
type Visitor func(index int, a Atom) error

// childIndices returns the indices a directly refers to, in traversal
// order, for atom kinds that have children (Ref does not count as a
// structural child for Walk: following it would make Walk loop on
// recursive grammars).
func childIndices(a Atom) []int {
	switch a.Kind {
	case Sequence, Alternative:
		return a.Children
	case Repetition, Named, Lookahead, Ignore:
		return []int{a.Child}
	default:
		return nil
	}
}
