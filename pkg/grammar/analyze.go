package grammar

import "fmt"

// Warning is a non-fatal structural observation about a Grammar, distinct
// from the hard InvalidGrammar errors Validate raises. A grammar that
// produces warnings still parses; the warnings flag shapes that are
// probably not what the author intended.
type Warning struct {
	AtomIndex int
	Message   string
}

func (w Warning) String() string {
	return fmt.Sprintf("atom %d: %s", w.AtomIndex, w.Message)
}

// Analyze runs a set of structural heuristics over a validated Grammar
// and returns every warning found. Ported from the Rust original's
// GrammarAnalyzer; these are advisory only and never block a parse.
func Analyze(g *Grammar) []Warning {
	var warnings []Warning

	// Walk does not follow Ref targets, so each Ref target reached is
	// walked in turn until no new atom is found.
	reachable := make(map[int]bool, len(g.Atoms))
	pending := []int{g.Root}
	for len(pending) > 0 {
		start := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if reachable[start] {
			continue
		}
		_ = g.Walk(start, func(idx int, a Atom) error {
			reachable[idx] = true
			if a.Kind == Ref && !reachable[a.Ref] {
				pending = append(pending, a.Ref)
			}
			return nil
		})
	}
	for i := range g.Atoms {
		if !reachable[i] {
			warnings = append(warnings, Warning{
				AtomIndex: i,
				Message:   "unreachable from root",
			})
		}
	}

	for i, a := range g.Atoms {
		switch a.Kind {
		case Repetition:
			if a.Max != 0 && a.Max == a.Min && a.Min == 0 {
				warnings = append(warnings, Warning{
					AtomIndex: i,
					Message:   "Repetition always matches zero times (Min == Max == 0)",
				})
			}
			if isNullable(g, a.Child, map[int]bool{}) && a.Min > 0 {
				warnings = append(warnings, Warning{
					AtomIndex: i,
					Message:   "Repetition child can match empty input, risking an infinite loop if Min > 0",
				})
			}
		case Str:
			if a.Str == "" {
				warnings = append(warnings, Warning{
					AtomIndex: i,
					Message:   "Str atom matches the empty string",
				})
			}
		case Alternative:
			seen := map[string]bool{}
			for _, c := range a.Children {
				key := fmt.Sprintf("%d", c)
				if seen[key] {
					warnings = append(warnings, Warning{
						AtomIndex: i,
						Message:   fmt.Sprintf("Alternative lists child atom %d more than once", c),
					})
				}
				seen[key] = true
			}
		}
	}

	return warnings
}

// isNullable reports whether the atom at idx can match without consuming
// any input. It is a conservative approximation (Ref cycles are treated
// as nullable to avoid infinite recursion) used only by Analyze, never by
// the interpreter.
func isNullable(g *Grammar, idx int, visiting map[int]bool) bool {
	if visiting[idx] {
		return true
	}
	if idx < 0 || idx >= len(g.Atoms) {
		return false
	}
	visiting[idx] = true
	defer delete(visiting, idx)

	a := g.Atoms[idx]
	switch a.Kind {
	case Str:
		return a.Str == ""
	case Re, Any:
		return false
	case Ref:
		return isNullable(g, a.Ref, visiting)
	case Sequence:
		for _, c := range a.Children {
			if !isNullable(g, c, visiting) {
				return false
			}
		}
		return true
	case Alternative:
		for _, c := range a.Children {
			if isNullable(g, c, visiting) {
				return true
			}
		}
		return false
	case Repetition:
		return a.Min == 0 || isNullable(g, a.Child, visiting)
	case Named, Ignore:
		return isNullable(g, a.Child, visiting)
	case Lookahead:
		return true
	case Cut:
		return true
	default:
		return false
	}
}
