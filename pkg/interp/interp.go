// Package interp implements the recursive-descent PEG interpreter: it
// evaluates a validated grammar.Grammar against an input string, building
// AST values in an arena.Arena and memoizing sub-results in a
// cache.Cache.
package interp

import (
	"io"
	"log"
	"unicode/utf8"

	"github.com/parsanol/peg/pkg/arena"
	"github.com/parsanol/peg/pkg/ast"
	"github.com/parsanol/peg/pkg/cache"
	"github.com/parsanol/peg/pkg/grammar"
)

// Interpreter holds one parse session's mutable state: an arena, a
// packrat cache, and the grammar being evaluated. It is not safe for
// concurrent use; a host that wants concurrent parses of the same
// grammar creates one Interpreter per goroutine (the grammar itself is
// immutable and freely shareable).
type Interpreter struct {
	g      *grammar.Grammar
	limits grammar.Limits
	logger *log.Logger

	arena *arena.Arena
	cache *cache.Cache

	deepestFail int
	depth       int
}

// New validates g and returns an Interpreter ready to parse against it.
// A nil logger defaults to a discard logger, matching the teacher's own
// logutil.Discard convention: diagnostics are opt-in, never required.
func New(g *grammar.Grammar, limits grammar.Limits, logger *log.Logger) (*Interpreter, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Interpreter{
		g:      g,
		limits: limits.Resolved(),
		logger: logger,
		arena:  arena.New(),
		cache:  cache.New(),
	}, nil
}

// Arena returns the interpreter's arena, valid to inspect until the next
// call to Parse (which resets it).
func (it *Interpreter) Arena() *arena.Arena { return it.arena }

// evalResult is the interpreter's internal evaluation outcome: either a
// success spanning [start, pos) with a value, or a failure. cut records
// whether a Cut atom was reached during this evaluation, for the nearest
// enclosing Alternative to observe.
type evalResult struct {
	ok    bool
	pos   int
	value ast.Node
	cut   bool
}

// Parse runs the grammar against input from position 0, per §4.4.3: an
// oversized input is rejected before the interpreter runs at all, then
// the cache and arena are reset and the root atom is evaluated.
//
// If evaluation fails outright, the result is Failed at the deepest
// position reached (§4.4.4). If evaluation succeeds but does not consume
// all of input, the literal §4.4.3 algorithm would always report
// Incomplete at the final position — but the worked example in spec.md
// §8.2 ("1+" against digit/number/expr) requires Failed at position 2
// even though root evaluation there succeeds after consuming only "1":
// a Repetition whose sub-Sequence starts matching an operator and then
// fails on its operand simply stops with fewer repetitions rather than
// failing itself, so a literal reading of §4.4.3 alone would report
// Incomplete at position 1, contradicting the example. This
// implementation resolves the two by preferring the deepest failure
// when it reached strictly further into the input than the successful
// (but incomplete) match did: a failed branch that got further than the
// eventual success is more informative about what went wrong. When the
// deepest failure is at or before the final consumed position (as in
// the "1+2x" example, where both are position 3), Incomplete is
// reported as usual.
func (it *Interpreter) Parse(input string) (ast.Node, error) {
	if len(input) > it.limits.MaxInputSize {
		return ast.NilNode, ast.InputTooLarge(len(input), it.limits.MaxInputSize)
	}
	it.cache.Reset()
	it.arena.ResetWithOptions(true)
	it.deepestFail = 0
	it.depth = 0

	res, perr := it.eval(it.g.Root, input, 0)
	if perr != nil {
		return ast.NilNode, perr
	}
	if !res.ok {
		return ast.NilNode, ast.Failed(it.deepestFail)
	}
	if res.pos != len(input) {
		if it.deepestFail > res.pos {
			return ast.NilNode, ast.Failed(it.deepestFail)
		}
		return ast.NilNode, ast.Incomplete(res.pos)
	}
	return res.value, nil
}

// recordFailure tracks the deepest position at which any atom has
// failed during the current Parse call, per §4.4.4: the position
// reported to the caller on overall failure is the deepest one reached,
// not merely where the root's top-level alternative gave up.
func (it *Interpreter) recordFailure(pos int) {
	if pos > it.deepestFail {
		it.deepestFail = pos
	}
}

// eval dispatches atom idx at pos through the packrat cache (except for
// Lookahead and Cut, which are never memoized: they either consume no
// input or exist purely for their side effect on the enclosing
// Alternative, so caching them would either waste a slot or cache a
// decision that depends on control state the cache does not model), then
// on cache miss delegates to evalAtom and depth-guards the whole thing.
func (it *Interpreter) eval(idx int, input string, pos int) (evalResult, *ast.ParseError) {
	it.depth++
	defer func() { it.depth-- }()
	if it.depth > it.limits.MaxRecursionDepth {
		return evalResult{}, ast.RecursionLimitExceeded(pos, it.depth, it.limits.MaxRecursionDepth)
	}

	a := it.g.Atoms[idx]
	if a.Kind == grammar.Lookahead || a.Kind == grammar.Cut {
		return it.evalAtom(idx, a, input, pos)
	}

	if e, ok := it.cache.Get(uint32(pos), uint32(idx)); ok {
		if e.Success {
			return evalResult{ok: true, pos: int(e.EndPos), value: e.Value}, nil
		}
		it.recordFailure(pos)
		return evalResult{ok: false}, nil
	}

	res, perr := it.evalAtom(idx, a, input, pos)
	if perr != nil {
		return res, perr
	}
	entry := cache.Entry{Pos: uint32(pos), AtomID: uint32(idx), Success: res.ok}
	if res.ok {
		entry.EndPos = uint32(res.pos)
		entry.Value = res.value
	}
	it.cache.Insert(entry)
	return res, nil
}

// evalAtom implements the per-variant semantics of §4.4.1.
func (it *Interpreter) evalAtom(idx int, a grammar.Atom, input string, pos int) (evalResult, *ast.ParseError) {
	switch a.Kind {
	case grammar.Str:
		return it.evalStr(a, input, pos), nil
	case grammar.Re:
		return it.evalRe(a, input, pos), nil
	case grammar.Any:
		return it.evalAny(input, pos), nil
	case grammar.Ref:
		return it.eval(a.Ref, input, pos)
	case grammar.Sequence:
		return it.evalSequence(a, input, pos)
	case grammar.Alternative:
		return it.evalAlternative(a, input, pos)
	case grammar.Repetition:
		return it.evalRepetition(a, input, pos)
	case grammar.Named:
		return it.evalNamed(a, input, pos)
	case grammar.Lookahead:
		return it.evalLookahead(a, input, pos)
	case grammar.Cut:
		return evalResult{ok: true, pos: pos, value: ast.NilNode, cut: true}, nil
	case grammar.Ignore:
		return it.evalIgnore(a, input, pos)
	default:
		return evalResult{}, ast.Internal(nil, "atom %d: unhandled AtomKind %v", idx, a.Kind)
	}
}

// evalStr, evalRe, and evalAny all emit an InputRef spanning what they
// matched: per §4.4.1 every leaf atom captures its own span by default,
// and it is Ignore (not the leaf itself) that suppresses a value.
func (it *Interpreter) evalStr(a grammar.Atom, input string, pos int) evalResult {
	end := pos + len(a.Str)
	if end <= len(input) && input[pos:end] == a.Str {
		return evalResult{ok: true, pos: end, value: ast.InputRefNode(uint32(pos), uint32(len(a.Str)))}
	}
	it.recordFailure(pos)
	return evalResult{ok: false}
}

func (it *Interpreter) evalRe(a grammar.Atom, input string, pos int) evalResult {
	re := a.CompiledRegexp()
	loc := re.FindStringIndex(input[pos:])
	if loc == nil || loc[0] != 0 {
		it.recordFailure(pos)
		return evalResult{ok: false}
	}
	end := pos + loc[1]
	return evalResult{ok: true, pos: end, value: ast.InputRefNode(uint32(pos), uint32(end-pos))}
}

// evalAny consumes one Unicode scalar value (not one byte): a multi-byte
// UTF-8 rune counts as a single Any match, per §3.1.
func (it *Interpreter) evalAny(input string, pos int) evalResult {
	if pos >= len(input) {
		it.recordFailure(pos)
		return evalResult{ok: false}
	}
	_, size := utf8.DecodeRuneInString(input[pos:])
	end := pos + size
	return evalResult{ok: true, pos: end, value: ast.InputRefNode(uint32(pos), uint32(size))}
}

// evalSequence matches every child in order at an advancing position,
// failing (with no partial side effect visible to the caller beyond the
// recorded failure position) as soon as one child fails, and merging the
// children's non-nil values with mergeValues.
func (it *Interpreter) evalSequence(a grammar.Atom, input string, pos int) (evalResult, *ast.ParseError) {
	cur := pos
	cutHit := false
	var vals []ast.Node
	for _, c := range a.Children {
		r, perr := it.eval(c, input, cur)
		if perr != nil {
			return evalResult{}, perr
		}
		if r.cut {
			cutHit = true
		}
		if !r.ok {
			return evalResult{ok: false, cut: cutHit}, nil
		}
		cur = r.pos
		if !r.value.IsNil() {
			vals = append(vals, r.value)
		}
	}
	return evalResult{ok: true, pos: cur, value: it.mergeValues(vals), cut: cutHit}, nil
}

// evalAlternative tries each child in order at the same starting
// position, committing to the first success. A Cut reached while
// evaluating a failing branch stops the search entirely: per §4.4.1 a Cut
// commits its enclosing Alternative to the branch it appears in, so a
// later failure in that branch is not a reason to try the next one.
func (it *Interpreter) evalAlternative(a grammar.Atom, input string, pos int) (evalResult, *ast.ParseError) {
	for _, c := range a.Children {
		r, perr := it.eval(c, input, pos)
		if perr != nil {
			return evalResult{}, perr
		}
		if r.ok {
			return evalResult{ok: true, pos: r.pos, value: r.value}, nil
		}
		if r.cut {
			return evalResult{ok: false}, nil
		}
	}
	it.recordFailure(pos)
	return evalResult{ok: false}, nil
}

// evalRepetition greedily matches child between Min and Max times
// (Max == 0 meaning unbounded), stopping early on a zero-width match to
// avoid looping forever on a nullable child.
func (it *Interpreter) evalRepetition(a grammar.Atom, input string, pos int) (evalResult, *ast.ParseError) {
	cur := pos
	count := 0
	cutHit := false
	var vals []ast.Node
	for a.Max == 0 || count < a.Max {
		r, perr := it.eval(a.Child, input, cur)
		if perr != nil {
			return evalResult{}, perr
		}
		if r.cut {
			cutHit = true
		}
		if !r.ok {
			break
		}
		zeroWidth := r.pos == cur
		cur = r.pos
		if !r.value.IsNil() {
			vals = append(vals, r.value)
		}
		count++
		if zeroWidth {
			break
		}
	}
	if count < a.Min {
		it.recordFailure(cur)
		return evalResult{ok: false, cut: cutHit}, nil
	}
	return evalResult{ok: true, pos: cur, value: it.mergeValues(vals), cut: cutHit}, nil
}

// evalNamed captures its child's result under a.Name in a single-entry
// Hash. Str/Re/Any leaves always produce an InputRef already, so the
// common case just re-labels that value. The Nil fallback here only
// fires for children that deliberately contribute no value of their own
// - Ignore, a Lookahead, a Cut, or a Sequence/Repetition that merged to
// Nil - in which case the labeled value becomes the InputRef spanning
// whatever the child consumed.
func (it *Interpreter) evalNamed(a grammar.Atom, input string, pos int) (evalResult, *ast.ParseError) {
	r, perr := it.eval(a.Child, input, pos)
	if perr != nil {
		return evalResult{}, perr
	}
	if !r.ok {
		return evalResult{ok: false, cut: r.cut}, nil
	}
	val := r.value
	if val.IsNil() {
		val = ast.InputRefNode(uint32(pos), uint32(r.pos-pos))
	}
	key := it.arena.InternString(a.Name)
	hIdx, hLen := it.arena.StoreHash([]arena.HashEntry{{Key: key, Value: val}})
	return evalResult{ok: true, pos: r.pos, value: ast.HashNode(hIdx, hLen), cut: r.cut}, nil
}

// evalLookahead matches its child without consuming input; Negative
// inverts success and failure. Lookahead never contributes a value even
// when positive and successful.
func (it *Interpreter) evalLookahead(a grammar.Atom, input string, pos int) (evalResult, *ast.ParseError) {
	r, perr := it.eval(a.Child, input, pos)
	if perr != nil {
		return evalResult{}, perr
	}
	success := r.ok != a.Negative
	if !success {
		it.recordFailure(pos)
		return evalResult{ok: false}, nil
	}
	return evalResult{ok: true, pos: pos, value: ast.NilNode}, nil
}

// evalIgnore matches its child for effect (consuming input on success)
// but always contributes Nil to its parent's merge.
func (it *Interpreter) evalIgnore(a grammar.Atom, input string, pos int) (evalResult, *ast.ParseError) {
	r, perr := it.eval(a.Child, input, pos)
	if perr != nil {
		return evalResult{}, perr
	}
	if !r.ok {
		return evalResult{ok: false, cut: r.cut}, nil
	}
	return evalResult{ok: true, pos: r.pos, value: ast.NilNode, cut: r.cut}, nil
}

// mergeValues implements the shared Sequence/Repetition merge convention
// (§4.4.2): no values collapse to Nil, a single value passes through
// unchanged, values that are all Hash nodes merge key-wise (later entries
// win on a colliding key — for a Repetition over one Named child, this
// means the final merged Hash holds only the last iteration's value
// under that key, an explicit consequence of sharing one convention
// between Sequence and Repetition rather than a Repetition-only
// accumulate-into-array rule), and anything else — including a Hash
// mixed with non-Hash values — falls back to a plain Array.
func (it *Interpreter) mergeValues(vals []ast.Node) ast.Node {
	if len(vals) == 0 {
		return ast.NilNode
	}
	allHash := true
	for _, v := range vals {
		if v.Kind != ast.Hash {
			allHash = false
			break
		}
	}
	if allHash {
		merged := make(map[uint32]ast.Node, len(vals))
		order := make([]uint32, 0, len(vals))
		for _, v := range vals {
			for _, e := range it.arena.Hash(v.PoolIndex, v.Length) {
				if _, exists := merged[e.Key]; !exists {
					order = append(order, e.Key)
				}
				merged[e.Key] = e.Value
			}
		}
		entries := make([]arena.HashEntry, len(order))
		for i, k := range order {
			entries[i] = arena.HashEntry{Key: k, Value: merged[k]}
		}
		idx, length := it.arena.StoreHash(entries)
		return ast.HashNode(idx, length)
	}
	if len(vals) == 1 {
		return vals[0]
	}
	idx, length := it.arena.StoreArray(vals)
	return ast.ArrayNode(idx, length)
}
