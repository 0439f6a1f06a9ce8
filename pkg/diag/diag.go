// Package diag renders a parse error's source position as a one-line or
// multi-line excerpt with the offending span highlighted, adapted from
// the teacher's own diag package (which does the same for its shell
// syntax errors) to the engine's ast.ParseError instead of a
// tree-of-diag.Error hierarchy.
package diag

import (
	"fmt"
	"strings"

	"github.com/parsanol/peg/pkg/ast"
)

// culpritStart/culpritEnd bracket the highlighted span when ANSI is
// enabled, mirroring the teacher's own context.go convention of using
// SGR "reverse video" rather than color codes, so the highlight is
// visible on any terminal color scheme.
const (
	culpritStart = "\033[7m"
	culpritEnd   = "\033[27m"
)

// Position is a 1-based line/column pair, resolved from a byte offset
// into source.
type Position struct {
	Line   int
	Column int
}

// Locate converts a byte offset into source into a 1-based Position. An
// offset past the end of source clamps to the position just after the
// last byte, mirroring how the teacher's context.go treats an EOF
// culprit.
func Locate(source string, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}
	line := 1
	col := 1
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Line: line, Column: col}
}

// lineRange returns the [start, end) byte range of the line containing
// offset, end exclusive of the trailing newline if any.
func lineRange(source string, offset int) (int, int) {
	start := strings.LastIndexByte(source[:offset], '\n') + 1
	end := len(source)
	if i := strings.IndexByte(source[offset:], '\n'); i >= 0 {
		end = offset + i
	}
	return start, end
}

// Show renders a multi-line, source-excerpt description of err against
// source: the error message, a "line N, column M:" header, the source
// line the error position falls on, and a caret line pointing at the
// exact column. When highlight is true the source character at that
// column (or a space, at end of line) is additionally wrapped in
// reverse-video SGR codes, the same opt-in the teacher's ShowCompact
// takes for terminals that support it.
func Show(source string, err *ast.ParseError, highlight bool) string {
	pos := errorPosition(err)
	if pos < 0 {
		return err.Error()
	}
	p := Locate(source, pos)
	start, end := lineRange(source, pos)
	line := source[start:end]
	col := pos - start

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", err.Error())
	fmt.Fprintf(&b, "line %d, column %d:\n", p.Line, p.Column)
	if highlight && col <= len(line) {
		b.WriteString(line[:col])
		b.WriteString(culpritStart)
		if col < len(line) {
			b.WriteByte(line[col])
			b.WriteString(culpritEnd)
			b.WriteString(line[col+1:])
		} else {
			b.WriteString(" ")
			b.WriteString(culpritEnd)
		}
	} else {
		b.WriteString(line)
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", col))
	b.WriteString("^")
	return b.String()
}

// errorPosition extracts the byte offset a ParseError carries, or -1 if
// its kind has none (InputTooLarge, InvalidGrammar, Internal describe a
// grammar- or input-shape problem rather than a specific input position).
func errorPosition(err *ast.ParseError) int {
	switch err.Kind {
	case ast.ErrFailed, ast.ErrIncomplete, ast.ErrRecursionLimitExceeded:
		return err.Position
	default:
		return -1
	}
}
