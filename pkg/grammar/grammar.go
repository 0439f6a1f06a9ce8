package grammar

import (
	"regexp"

	"github.com/parsanol/peg/pkg/ast"
)

// Limits bounds a single parse: it is the engine's entire configuration
// surface. There is deliberately no environment variable or flag parsing
// here — a host embeds the engine and supplies Limits directly, the way
// the teacher's own constructors take an explicit options struct rather
// than consulting globals.
type Limits struct {
	// MaxInputSize is the largest input, in bytes, Parse will accept.
	// Zero resolves to DefaultMaxInputSize.
	MaxInputSize int
	// MaxRecursionDepth bounds interpreter call depth. Zero resolves to
	// DefaultMaxRecursionDepth.
	MaxRecursionDepth int
}

// Default resource guards (§4.6).
const (
	DefaultMaxInputSize      = 100 * 1024 * 1024
	DefaultMaxRecursionDepth = 1000
)

// Resolved returns l with zero fields replaced by their defaults.
func (l Limits) Resolved() Limits {
	if l.MaxInputSize == 0 {
		l.MaxInputSize = DefaultMaxInputSize
	}
	if l.MaxRecursionDepth == 0 {
		l.MaxRecursionDepth = DefaultMaxRecursionDepth
	}
	return l
}

// Grammar is a flat, validated collection of Atoms addressed by index,
// plus the index of the atom evaluation starts from.
type Grammar struct {
	Atoms []Atom
	Root  int
}

// New builds a Grammar from atoms and a root index. It does not validate;
// call Validate before use (interp.New and interp.ParseBatch call it for
// you).
func New(atoms []Atom, root int) *Grammar {
	return &Grammar{Atoms: atoms, Root: root}
}

// Walk performs a depth-first traversal of g starting at root, calling
// visit once per distinct atom index reached (atoms reachable via more
// than one path are visited once, following them the first time only;
// Ref targets are not followed, matching childIndices).
func (g *Grammar) Walk(root int, visit Visitor) error {
	seen := make(map[int]bool, len(g.Atoms))
	var walk func(idx int) error
	walk = func(idx int) error {
		if seen[idx] {
			return nil
		}
		seen[idx] = true
		if idx < 0 || idx >= len(g.Atoms) {
			return ast.InvalidGrammar("atom index %d out of range [0,%d)", idx, len(g.Atoms))
		}
		a := g.Atoms[idx]
		if err := visit(idx, a); err != nil {
			return err
		}
		for _, c := range childIndices(a) {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}

// Validate eagerly checks g's structural invariants and compiles its
// regexes, so every failure mode is InvalidGrammar raised once up front
// rather than discovered mid-parse. It is idempotent and safe to call
// more than once (e.g. once at load time, again defensively before a
// batch).
func (g *Grammar) Validate() error {
	if len(g.Atoms) == 0 {
		return ast.InvalidGrammar("grammar has no atoms")
	}
	if g.Root < 0 || g.Root >= len(g.Atoms) {
		return ast.InvalidGrammar("root index %d out of range [0,%d)", g.Root, len(g.Atoms))
	}
	for i := range g.Atoms {
		a := &g.Atoms[i]
		if err := validateAtom(i, a, len(g.Atoms)); err != nil {
			return err
		}
	}
	return nil
}

func validateAtom(i int, a *Atom, n int) error {
	inRange := func(idx int) bool { return idx >= 0 && idx < n }
	switch a.Kind {
	case Str:
		// any string, including empty, is valid
	case Re:
		re, err := regexp.Compile(`\A(?:` + a.Pattern + `)`)
		if err != nil {
			return ast.InvalidGrammar("atom %d: invalid regular expression %q: %v", i, a.Pattern, err)
		}
		a.re = re
	case Any:
		// no fields to check
	case Ref:
		if !inRange(a.Ref) {
			return ast.InvalidGrammar("atom %d: Ref target %d out of range [0,%d)", i, a.Ref, n)
		}
	case Sequence:
		if len(a.Children) == 0 {
			return ast.InvalidGrammar("atom %d: Sequence has no children", i)
		}
		for _, c := range a.Children {
			if !inRange(c) {
				return ast.InvalidGrammar("atom %d: Sequence child %d out of range [0,%d)", i, c, n)
			}
		}
	case Alternative:
		if len(a.Children) == 0 {
			return ast.InvalidGrammar("atom %d: Alternative has no children", i)
		}
		for _, c := range a.Children {
			if !inRange(c) {
				return ast.InvalidGrammar("atom %d: Alternative child %d out of range [0,%d)", i, c, n)
			}
		}
	case Repetition:
		if !inRange(a.Child) {
			return ast.InvalidGrammar("atom %d: Repetition child %d out of range [0,%d)", i, a.Child, n)
		}
		if a.Min < 0 {
			return ast.InvalidGrammar("atom %d: Repetition Min %d is negative", i, a.Min)
		}
		if a.Max != 0 && a.Max < a.Min {
			return ast.InvalidGrammar("atom %d: Repetition Max %d is less than Min %d", i, a.Max, a.Min)
		}
	case Named:
		if !inRange(a.Child) {
			return ast.InvalidGrammar("atom %d: Named child %d out of range [0,%d)", i, a.Child, n)
		}
		if a.Name == "" {
			return ast.InvalidGrammar("atom %d: Named has empty Name", i)
		}
	case Lookahead:
		if !inRange(a.Child) {
			return ast.InvalidGrammar("atom %d: Lookahead child %d out of range [0,%d)", i, a.Child, n)
		}
	case Cut:
		// no fields to check
	case Ignore:
		if !inRange(a.Child) {
			return ast.InvalidGrammar("atom %d: Ignore child %d out of range [0,%d)", i, a.Child, n)
		}
	default:
		return ast.InvalidGrammar("atom %d: unknown AtomKind %v", i, a.Kind)
	}
	return nil
}

// CompiledRegexp returns the regexp compiled for a Re atom by Validate.
// It is nil until Validate has run.
func (a Atom) CompiledRegexp() *regexp.Regexp { return a.re }
