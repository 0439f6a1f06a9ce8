// Package examples ports two of the bundled example grammars from the
// Rust original (examples/calculator, examples/json) as Go grammar-
// construction functions. They serve as runnable documentation
// (cmd/pegrepl runs Calculator) and are parsed end-to-end through
// pkg/interp by this package's own tests; pkg/interp and pkg/infix build
// their own test grammars.
package examples

import (
	"github.com/parsanol/peg/pkg/grammar"
	"github.com/parsanol/peg/pkg/infix"
)

// Calculator builds the grammar from spec.md's own worked example:
//
//	digit = /[0-9]/
//	number = digit+
//	expr = number ('+' number)*
//
// extended with '-', '*', '/' through the InfixCompiler at two
// precedence levels, all left-associative. Returns the validated grammar,
// whose root is the loosest-binding ('+'/'-') level.
func Calculator() (*grammar.Grammar, error) {
	var atoms []grammar.Atom
	add := func(a grammar.Atom) int {
		atoms = append(atoms, a)
		return len(atoms) - 1
	}

	digit := add(grammar.ReAtom(`[0-9]`))
	number := add(grammar.RepetitionAtom(digit, 1, 0))

	plus := add(grammar.StrAtom("+"))
	minus := add(grammar.StrAtom("-"))
	star := add(grammar.StrAtom("*"))
	slash := add(grammar.StrAtom("/"))

	atoms, exprRoot, err := infix.Compile(atoms, number, []infix.Level{
		{Operators: []int{star, slash}, Assoc: grammar.Left},
		{Operators: []int{plus, minus}, Assoc: grammar.Left},
	})
	if err != nil {
		return nil, err
	}

	g := grammar.New(atoms, exprRoot)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// JSON builds a grammar recognizing the subset of JSON values spec.md's
// json.Value would need to cover: objects, arrays, strings, numbers,
// booleans, and null. Member keys, member values and array items are
// captured with Named and combined by the engine's general Sequence/
// Repetition merge conventions rather than into a bespoke JSON-specific
// AST shape: the Hashes of successive members (or items) merge key-wise
// with the later one winning, so an object or array with several entries
// keeps only its last entry, and whitespace matched by ws contributes
// InputRef values that turn the enclosing merge into an Array.
func JSON() (*grammar.Grammar, error) {
	var atoms []grammar.Atom
	add := func(a grammar.Atom) int {
		atoms = append(atoms, a)
		return len(atoms) - 1
	}

	ws := add(grammar.RepetitionAtom(add(grammar.ReAtom(`[ \t\r\n]`)), 0, 0))

	valuePlaceholder := add(grammar.Atom{}) // backpatched to Ref(value) below

	str := add(grammar.ReAtom(`"(?:[^"\\]|\\.)*"`))

	number := add(grammar.ReAtom(`-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`))

	trueLit := add(grammar.StrAtom("true"))
	falseLit := add(grammar.StrAtom("false"))
	nullLit := add(grammar.StrAtom("null"))

	member := add(grammar.SequenceAtom(
		ws,
		add(grammar.NamedAtom("key", str)),
		ws,
		add(grammar.IgnoreAtom(add(grammar.StrAtom(":")))),
		ws,
		add(grammar.NamedAtom("value", valuePlaceholder)),
		ws,
	))
	memberList := add(grammar.SequenceAtom(
		member,
		add(grammar.RepetitionAtom(
			add(grammar.SequenceAtom(add(grammar.IgnoreAtom(add(grammar.StrAtom(",")))), member)),
			0, 0,
		)),
	))
	emptyObjInner := add(grammar.SequenceAtom(ws))
	objInner := add(grammar.AlternativeAtom(memberList, emptyObjInner))
	object := add(grammar.SequenceAtom(
		add(grammar.IgnoreAtom(add(grammar.StrAtom("{")))),
		objInner,
		add(grammar.IgnoreAtom(add(grammar.StrAtom("}")))),
	))

	element := add(grammar.SequenceAtom(ws, add(grammar.NamedAtom("item", valuePlaceholder)), ws))
	elementList := add(grammar.SequenceAtom(
		element,
		add(grammar.RepetitionAtom(
			add(grammar.SequenceAtom(add(grammar.IgnoreAtom(add(grammar.StrAtom(",")))), element)),
			0, 0,
		)),
	))
	emptyArrInner := add(grammar.SequenceAtom(ws))
	arrInner := add(grammar.AlternativeAtom(elementList, emptyArrInner))
	array := add(grammar.SequenceAtom(
		add(grammar.IgnoreAtom(add(grammar.StrAtom("[")))),
		arrInner,
		add(grammar.IgnoreAtom(add(grammar.StrAtom("]")))),
	))

	value := add(grammar.AlternativeAtom(object, array, str, number, trueLit, falseLit, nullLit))
	atoms[valuePlaceholder] = grammar.RefAtom(value)

	root := add(grammar.SequenceAtom(ws, add(grammar.NamedAtom("value", value)), ws))

	g := grammar.New(atoms, root)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
