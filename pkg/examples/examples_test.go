package examples

import (
	"testing"

	"github.com/parsanol/peg/pkg/ast"
	"github.com/parsanol/peg/pkg/grammar"
	"github.com/parsanol/peg/pkg/interp"
)

func TestCalculatorParsesPrecedence(t *testing.T) {
	g, err := Calculator()
	if err != nil {
		t.Fatalf("Calculator() = %v", err)
	}
	it, err := interp.New(g, grammar.Limits{}, nil)
	if err != nil {
		t.Fatalf("interp.New() = %v", err)
	}
	for _, in := range []string{"1+2*3", "4/2-1", "9*9", "1+2+3+4"} {
		if _, perr := it.Parse(in); perr != nil {
			t.Errorf("Parse(%q) = %v, want success", in, perr)
		}
	}
}

func TestCalculatorRejectsTrailingOperator(t *testing.T) {
	g, err := Calculator()
	if err != nil {
		t.Fatalf("Calculator() = %v", err)
	}
	it, err := interp.New(g, grammar.Limits{}, nil)
	if err != nil {
		t.Fatalf("interp.New() = %v", err)
	}
	if _, perr := it.Parse("1+"); perr == nil {
		t.Errorf("Parse(\"1+\") succeeded, want failure")
	}
}

func TestJSONParsesObjectWithNestedArray(t *testing.T) {
	g, err := JSON()
	if err != nil {
		t.Fatalf("JSON() = %v", err)
	}
	it, err := interp.New(g, grammar.Limits{}, nil)
	if err != nil {
		t.Fatalf("interp.New() = %v", err)
	}
	val, perr := it.Parse(`{"a": [1, 2, true], "b": null}`)
	if perr != nil {
		t.Fatalf("Parse() = %v, want success", perr)
	}
	if val.Kind != ast.Hash {
		t.Fatalf("value.Kind = %v, want Hash", val.Kind)
	}
	entries := it.Arena().Hash(val.PoolIndex, val.Length)
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1 (\"value\" wrapper)", len(entries))
	}
}

func TestJSONParsesEmptyObjectAndArray(t *testing.T) {
	g, err := JSON()
	if err != nil {
		t.Fatalf("JSON() = %v", err)
	}
	it, err := interp.New(g, grammar.Limits{}, nil)
	if err != nil {
		t.Fatalf("interp.New() = %v", err)
	}
	for _, in := range []string{"{}", "[]", `{ }`, `[ ]`} {
		if _, perr := it.Parse(in); perr != nil {
			t.Errorf("Parse(%q) = %v, want success", in, perr)
		}
	}
}

func TestJSONRejectsMalformed(t *testing.T) {
	g, err := JSON()
	if err != nil {
		t.Fatalf("JSON() = %v", err)
	}
	it, err := interp.New(g, grammar.Limits{}, nil)
	if err != nil {
		t.Fatalf("interp.New() = %v", err)
	}
	for _, in := range []string{`{"a":}`, `[1,]`, `{a: 1}`} {
		if _, perr := it.Parse(in); perr == nil {
			t.Errorf("Parse(%q) succeeded, want failure", in)
		}
	}
}
