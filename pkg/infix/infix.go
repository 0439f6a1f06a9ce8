// Package infix compiles a table of operator precedence levels into a
// plain grammar.Grammar by precedence climbing: it is pure grammar-to-
// grammar rewriting, with no special interpreter logic of its own.
package infix

import (
	"github.com/parsanol/peg/pkg/ast"
	"github.com/parsanol/peg/pkg/grammar"
)

// Level is one precedence level: the operators available at that level
// and how they associate. Levels are listed tightest-binding first (the
// level closest to operand itself, e.g. '*'/'/ ') and loosest-binding
// last (e.g. '+'/'-'); each level's expression wraps the previous one, so
// the final level in the slice becomes the outermost rule and the
// returned root.
type Level struct {
	// Operators lists the atom indices matching this level's operators
	// (typically Str atoms for symbolic operators), tried in order as an
	// Alternative.
	Operators []int
	// Assoc is this level's associativity.
	Assoc grammar.Associativity
}

// Compile builds an expression grammar from operand (the atom matching a
// single operand, i.e. the tightest-binding term) and levels (tightest
// precedence first, as documented on Level), appending the atoms it needs
// to atoms and returning the updated slice along with the index of the
// top-level expression atom (the new grammar root candidate).
//
// Each level emits a Named{left, op, right} Sequence rather than a bare
// Sequence: spec.md §4.5 requires the operator and both operands to be
// separately addressable in the resulting AST, unlike the Rust original's
// InfixBuilder, which folds a level into an unlabeled Sequence and left
// the caller to reconstruct structure positionally.
func Compile(atoms []grammar.Atom, operand int, levels []Level) ([]grammar.Atom, int, error) {
	if len(levels) == 0 {
		return atoms, operand, nil
	}
	for _, lvl := range levels {
		if len(lvl.Operators) == 0 {
			return atoms, 0, ast.InvalidGrammar("infix level has no operators")
		}
	}

	add := func(a grammar.Atom) int {
		atoms = append(atoms, a)
		return len(atoms) - 1
	}

	cur := operand
	for _, lvl := range levels {
		opAtom := lvl.Operators[0]
		if len(lvl.Operators) > 1 {
			opAtom = add(grammar.AlternativeAtom(lvl.Operators...))
		}

		switch lvl.Assoc {
		case grammar.Left:
			// operand (op operand)*
			left := add(grammar.NamedAtom("left", cur))
			op := add(grammar.NamedAtom("op", opAtom))
			right := add(grammar.NamedAtom("right", cur))
			tail := add(grammar.SequenceAtom(op, right))
			rep := add(grammar.RepetitionAtom(tail, 0, 0))
			cur = add(grammar.SequenceAtom(left, rep))

		case grammar.NonAssoc:
			// operand (op operand)?
			left := add(grammar.NamedAtom("left", cur))
			op := add(grammar.NamedAtom("op", opAtom))
			right := add(grammar.NamedAtom("right", cur))
			tail := add(grammar.SequenceAtom(op, right))
			opt := add(grammar.RepetitionAtom(tail, 0, 1))
			cur = add(grammar.SequenceAtom(left, opt))

		case grammar.Right:
			// operand (op expr)?, where expr recurses into this same
			// level via a Ref backpatched once its atom index is known
			// (the Rust original's Entity placeholder + backpatch,
			// carried over verbatim since Go has the same forward-
			// reference problem building a flat atom slice).
			exprIdx := add(grammar.Atom{}) // placeholder, backpatched below
			left := add(grammar.NamedAtom("left", cur))
			op := add(grammar.NamedAtom("op", opAtom))
			right := add(grammar.NamedAtom("right", exprIdx))
			tail := add(grammar.SequenceAtom(op, right))
			opt := add(grammar.RepetitionAtom(tail, 0, 1))
			expr := add(grammar.SequenceAtom(left, opt))
			atoms[exprIdx] = grammar.RefAtom(expr)
			cur = expr

		default:
			return atoms, 0, ast.InvalidGrammar("infix level: unknown associativity %v", lvl.Assoc)
		}
	}
	return atoms, cur, nil
}
