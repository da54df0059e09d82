// Package loxerr defines the type used to describe every lexical, syntax, static, and runtime error that can occur
// while scanning, parsing, resolving, or interpreting a Lox program.
package loxerr

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/loxlang/lox/ansi"
	"github.com/loxlang/lox/token"
)

// Error describes an error attributable to a range of characters in the source code.
type Error struct {
	Msg   string
	Start token.Position
	End   token.Position
}

// New creates an [*Error] covering rang with the given message.
func New(rang token.Range, message string) *Error {
	return Newf(rang, "%s", message)
}

// Newf creates an [*Error] covering rang. The message is constructed as in [fmt.Sprintf].
func Newf(rang token.Range, format string, args ...any) *Error {
	return &Error{
		Msg:   fmt.Sprintf(format, args...),
		Start: rang.Start(),
		End:   rang.End(),
	}
}

// Error formats the error by displaying the message and highlighting the offending range in the source code.
//
// For example:
//
//	test.lox:2:7: error: unterminated string literal
//	print "bar;
//	      ~~~~~
func (e *Error) Error() string {
	var b strings.Builder
	result := func() string { return strings.TrimSuffix(b.String(), "\n") }

	ansi.Fprintf(&b, "${BOLD}%s: ${RED}error${DEFAULT}: %s${DEFAULT}${RESET_BOLD}\n", e.Start, e.Msg)

	if e.Start.File == nil {
		return result()
	}

	lines := make([]string, e.End.Line-e.Start.Line+1)
	for i := e.Start.Line; i <= e.End.Line; i++ {
		line := e.Start.File.Line(i)
		if !utf8.Valid(line) {
			return result()
		}
		lines[i-e.Start.Line] = string(line)
	}

	printLine := func(line string) {
		ansi.Fprint(&b, "${FAINT}", line, "${RESET_BOLD}\n")
	}
	printHighlight := func(line string, start, end int) {
		leadingWhitespace := strings.Repeat(" ", runewidth.StringWidth(line[:start]))
		tildes := strings.Repeat("~", runewidth.StringWidth(line[start:end]))
		ansi.Fprint(&b, leadingWhitespace, "${FAINT}${RED}", tildes, "${DEFAULT}${RESET_BOLD}\n")
	}

	printLine(lines[0])
	if e.Start == e.End {
		return result()
	}

	if len(lines) == 1 {
		printHighlight(lines[0], e.Start.Column, e.End.Column)
	} else {
		printHighlight(lines[0], e.Start.Column, len(lines[0]))
		for _, line := range lines[1 : len(lines)-1] {
			printLine(line)
			printHighlight(line, 0, len(line))
		}
		if last := lines[len(lines)-1]; len(last) > 0 {
			printLine(last)
			printHighlight(last, 0, e.End.Column)
		}
	}

	return result()
}

// Errors is a collection of [*Error]s, used when scanning or parsing recovers from multiple errors in one pass.
type Errors []*Error

// Add appends a new [*Error] built from rang and message.
func (e *Errors) Add(rang token.Range, message string) {
	*e = append(*e, New(rang, message))
}

// Addf appends a new [*Error] built as in [Newf].
func (e *Errors) Addf(rang token.Range, format string, args ...any) {
	*e = append(*e, Newf(rang, format, args...))
}

// Sort orders the errors by their start position.
func (e Errors) Sort() {
	slices.SortFunc(e, func(a, b *Error) int {
		return a.Start.Compare(b.Start)
	})
}

// Error renders every error, sorted by start position, separated by blank lines.
func (e Errors) Error() string {
	if len(e) == 0 {
		panic("loxerr: Error called on empty Errors")
	}
	e.Sort()
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n\n")
}

// Err returns e as an error if it's non-empty, or nil otherwise. Use this to return an Errors value from a function
// so that the zero-length case becomes an untyped nil rather than a non-nil error wrapping an empty slice.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
