// Package ansi implements formatting of output text using ANSI escape sequences by wrapping the [fmt] package.
//
// Format strings (or string arguments to functions which don't accept a format string) can contain placeholders of
// the form ${NAME}, where NAME is the name of an ANSI code. The placeholder is replaced with the corresponding ANSI
// escape sequence in the output, or with the empty string when output isn't going to a terminal.
//
// The following ANSI codes are supported:
//   - RESET
//   - BOLD
//   - FAINT
//   - RESET_BOLD
//   - RED
//   - DEFAULT
package ansi

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Enabled determines whether ANSI escape sequences will be output by the functions in this package.
// If stdout and stderr are both connected to a terminal, this will be true.
var Enabled = term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))

var ansiCodes = map[string]int{
	"RESET":      0,
	"BOLD":       1,
	"FAINT":      2,
	"RESET_BOLD": 22,
	"RED":        31,
	"DEFAULT":    39,
}

var ansiReplacer = func() *strings.Replacer {
	oldnew := make([]string, 0, 2*len(ansiCodes))
	for name, code := range ansiCodes {
		oldnew = append(oldnew, fmt.Sprintf("${%s}", name), fmt.Sprintf("\x1b[%dm", code))
	}
	return strings.NewReplacer(oldnew...)
}()

var emptyReplacer = func() *strings.Replacer {
	oldnew := make([]string, 0, 2*len(ansiCodes))
	for name := range ansiCodes {
		oldnew = append(oldnew, fmt.Sprintf("${%s}", name), "")
	}
	return strings.NewReplacer(oldnew...)
}()

func replace(s string) string {
	if Enabled {
		return ansiReplacer.Replace(s)
	}
	return emptyReplacer.Replace(s)
}

// Sprintf formats according to a format specifier, expands ${NAME} placeholders, and returns the resulting string.
func Sprintf(format string, a ...any) string {
	return replace(fmt.Sprintf(format, a...))
}

// Fprintf formats according to a format specifier, expands ${NAME} placeholders, and writes the result to w.
func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return fmt.Fprint(w, Sprintf(format, a...))
}

func replaceArgs(a []any) []any {
	out := make([]any, len(a))
	for i, arg := range a {
		if s, ok := arg.(string); ok {
			out[i] = replace(s)
		} else {
			out[i] = arg
		}
	}
	return out
}

// Fprint formats its operands with the default formats, expanding ${NAME} placeholders in any string operands, and
// writes the result to w.
func Fprint(w io.Writer, a ...any) (int, error) {
	return fmt.Fprint(w, replaceArgs(a)...)
}

// Fprintln writes s, with ${NAME} placeholders expanded, to w followed by a newline.
func Fprintln(w io.Writer, s string) (int, error) {
	return fmt.Fprintln(w, replace(s))
}
