package interp

import (
	"log"

	"github.com/parsanol/peg/pkg/ast"
	"github.com/parsanol/peg/pkg/grammar"
)

// BatchResult is one input's outcome from ParseBatch.
type BatchResult struct {
	Input string
	Value ast.Node
	Err   error
}

// ParseBatch parses every input against g in order, reusing a single
// Interpreter (and so a single arena/cache pair) across the whole batch:
// the arena is reset between inputs exactly as Parse resets it on every
// call, so this amortizes only the interpreter's own setup and slice
// capacity, not anything that would let one input's data leak into
// another's result.
//
// Ported from the Rust original's Grammar::parse_batch. It is named on
// the interpreter package rather than as a Grammar method because Grammar
// has no dependency on interp (interp depends on grammar, not the other
// way around) — keeping it here avoids an import cycle while preserving
// the one-validate, many-parses shape described in §5.
func ParseBatch(g *grammar.Grammar, inputs []string, limits grammar.Limits, logger *log.Logger) ([]BatchResult, error) {
	it, err := New(g, limits, logger)
	if err != nil {
		return nil, err
	}
	results := make([]BatchResult, len(inputs))
	for i, in := range inputs {
		val, perr := it.Parse(in)
		results[i] = BatchResult{Input: in, Value: val}
		if perr != nil {
			results[i].Err = perr
		}
	}
	return results, nil
}
