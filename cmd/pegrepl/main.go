// Command pegrepl is a small interactive REPL: it parses each line typed
// against a loaded grammar and prints the resulting AST, or the parse
// error with source context.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/parsanol/peg/pkg/ast"
	"github.com/parsanol/peg/pkg/diag"
	"github.com/parsanol/peg/pkg/examples"
	"github.com/parsanol/peg/pkg/grammar"
	"github.com/parsanol/peg/pkg/interp"
)

func main() {
	os.Exit(run(os.Stdin, os.Stdout))
}

func run(in io.Reader, out io.Writer) int {
	g, err := examples.Calculator()
	if err != nil {
		fmt.Fprintln(out, "pegrepl: failed to build grammar:", err)
		return 1
	}

	highlight := false
	if f, ok := out.(*os.File); ok {
		highlight = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	it, err := interp.New(g, grammar.Limits{}, nil)
	if err != nil {
		fmt.Fprintln(out, "pegrepl: invalid grammar:", err)
		return 1
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		val, perr := it.Parse(line)
		if perr != nil {
			var pe *ast.ParseError
			if p, ok := perr.(*ast.ParseError); ok {
				pe = p
			}
			if pe != nil {
				fmt.Fprintln(out, diag.Show(line, pe, highlight))
			} else {
				fmt.Fprintln(out, "error:", perr)
			}
			continue
		}
		fmt.Fprintf(out, "%+v\n", val)
	}
	return 0
}
