// Package grammarfile (de)serializes a grammar.Grammar to and from YAML,
// the persistence format for grammars authored outside the host process
// (a config file, a grammar shared between the LSP bridge and the REPL).
// Per spec.md §6, this lives outside the core: the core operates only on
// an already-validated in-memory grammar.Grammar.
package grammarfile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/parsanol/peg/pkg/ast"
	"github.com/parsanol/peg/pkg/grammar"
)

// atomFile is the YAML wire shape of one Atom: Kind names which of the
// remaining, mostly-omitted fields are meaningful, mirroring
// grammar.Atom's own tagged-union layout.
type atomFile struct {
	Kind string `yaml:"kind"`

	Str      string `yaml:"str,omitempty"`
	Pattern  string `yaml:"pattern,omitempty"`
	Ref      int    `yaml:"ref,omitempty"`
	Child    int    `yaml:"child,omitempty"`
	Children []int  `yaml:"children,omitempty"`
	Min      int    `yaml:"min,omitempty"`
	Max      int    `yaml:"max,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Negative bool   `yaml:"negative,omitempty"`
}

// file is the YAML wire shape of a whole Grammar.
type file struct {
	Root  int        `yaml:"root"`
	Atoms []atomFile `yaml:"atoms"`
}

var kindNames = map[grammar.AtomKind]string{
	grammar.Str:         "str",
	grammar.Re:          "re",
	grammar.Any:         "any",
	grammar.Ref:         "ref",
	grammar.Sequence:    "seq",
	grammar.Alternative: "alt",
	grammar.Repetition:  "rep",
	grammar.Named:       "named",
	grammar.Lookahead:   "lookahead",
	grammar.Cut:         "cut",
	grammar.Ignore:      "ignore",
}

var namesToKind = func() map[string]grammar.AtomKind {
	m := make(map[string]grammar.AtomKind, len(kindNames))
	for k, v := range kindNames {
		m[v] = k
	}
	return m
}()

func toFile(a grammar.Atom) (atomFile, error) {
	name, ok := kindNames[a.Kind]
	if !ok {
		return atomFile{}, fmt.Errorf("grammarfile: unknown atom kind %v", a.Kind)
	}
	f := atomFile{Kind: name}
	switch a.Kind {
	case grammar.Str:
		f.Str = a.Str
	case grammar.Re:
		f.Pattern = a.Pattern
	case grammar.Ref:
		f.Ref = a.Ref
	case grammar.Sequence, grammar.Alternative:
		f.Children = a.Children
	case grammar.Repetition:
		f.Child, f.Min, f.Max = a.Child, a.Min, a.Max
	case grammar.Named:
		f.Child, f.Name = a.Child, a.Name
	case grammar.Lookahead:
		f.Child, f.Negative = a.Child, a.Negative
	case grammar.Ignore:
		f.Child = a.Child
	}
	return f, nil
}

func fromFile(f atomFile) (grammar.Atom, error) {
	kind, ok := namesToKind[f.Kind]
	if !ok {
		return grammar.Atom{}, ast.InvalidGrammar("grammarfile: unknown atom kind %q", f.Kind)
	}
	switch kind {
	case grammar.Str:
		return grammar.StrAtom(f.Str), nil
	case grammar.Re:
		return grammar.ReAtom(f.Pattern), nil
	case grammar.Any:
		return grammar.AnyAtom(), nil
	case grammar.Ref:
		return grammar.RefAtom(f.Ref), nil
	case grammar.Sequence:
		return grammar.SequenceAtom(f.Children...), nil
	case grammar.Alternative:
		return grammar.AlternativeAtom(f.Children...), nil
	case grammar.Repetition:
		return grammar.RepetitionAtom(f.Child, f.Min, f.Max), nil
	case grammar.Named:
		return grammar.NamedAtom(f.Name, f.Child), nil
	case grammar.Lookahead:
		return grammar.LookaheadAtom(f.Child, f.Negative), nil
	case grammar.Cut:
		return grammar.CutAtom(), nil
	case grammar.Ignore:
		return grammar.IgnoreAtom(f.Child), nil
	default:
		return grammar.Atom{}, ast.InvalidGrammar("grammarfile: unhandled atom kind %q", f.Kind)
	}
}

// Marshal serializes g to its YAML form. g need not already be validated;
// Marshal only walks its Atoms slice.
func Marshal(g *grammar.Grammar) ([]byte, error) {
	f := file{Root: g.Root, Atoms: make([]atomFile, len(g.Atoms))}
	for i, a := range g.Atoms {
		af, err := toFile(a)
		if err != nil {
			return nil, err
		}
		f.Atoms[i] = af
	}
	return yaml.Marshal(f)
}

// Unmarshal parses YAML produced by Marshal (or hand-authored in the same
// shape) into a Grammar and validates it before returning, so a caller
// never observes an unvalidated grammar loaded from disk.
func Unmarshal(data []byte) (*grammar.Grammar, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, ast.InvalidGrammar("grammarfile: %v", err)
	}
	atoms := make([]grammar.Atom, len(f.Atoms))
	for i, af := range f.Atoms {
		a, err := fromFile(af)
		if err != nil {
			return nil, err
		}
		atoms[i] = a
	}
	g := grammar.New(atoms, f.Root)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
