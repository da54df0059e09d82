// Package token defines the lexical tokens produced by the scanner and consumed by the parser, resolver, and
// interpreter.
package token

import (
	"cmp"
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Type is the type of a lexical token of Lox code.
type Type uint8

// The list of all token types.
const (
	Illegal Type = iota
	EOF

	// Keywords
	keywordsStart
	Print
	Var
	True
	False
	Nil
	If
	Else
	And
	Or
	While
	For
	Fun
	Return
	Class
	This
	Super
	keywordsEnd

	// Literals
	Ident
	String
	Number

	// Delimiters
	Semicolon
	Comma
	Dot

	// Operators
	Equal
	Plus
	Minus
	Asterisk
	Slash
	Less
	LessEqual
	Greater
	GreaterEqual
	EqualEqual
	BangEqual
	Bang

	// Brackets
	LeftParen
	RightParen
	LeftBrace
	RightBrace
)

var typeStrings = [...]string{
	Illegal:      "illegal",
	EOF:          "EOF",
	Print:        "print",
	Var:          "var",
	True:         "true",
	False:        "false",
	Nil:          "nil",
	If:           "if",
	Else:         "else",
	And:          "and",
	Or:           "or",
	While:        "while",
	For:          "for",
	Fun:          "fun",
	Return:       "return",
	Class:        "class",
	This:         "this",
	Super:        "super",
	Ident:        "identifier",
	String:       "string",
	Number:       "number",
	Semicolon:    ";",
	Comma:        ",",
	Dot:          ".",
	Equal:        "=",
	Plus:         "+",
	Minus:        "-",
	Asterisk:     "*",
	Slash:        "/",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	EqualEqual:   "==",
	BangEqual:    "!=",
	Bang:         "!",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
}

func (t Type) String() string {
	if int(t) < len(typeStrings) && typeStrings[t] != "" {
		return typeStrings[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Format implements fmt.Formatter. All verbs have the default behaviour except 'm' (message), which quotes the type
// for use in an error message, e.g. '+'.
func (t Type) Format(f fmt.State, verb rune) {
	if verb == 'm' {
		fmt.Fprintf(f, "'%s'", t.String())
		return
	}
	if verb == 's' || verb == 'q' || verb == 'x' || verb == 'X' || (verb == 'v' && !f.Flag('#')) {
		fmt.Fprintf(f, fmt.FormatString(f, verb), t.String())
		return
	}
	fmt.Fprintf(f, fmt.FormatString(f, verb), uint8(t))
}

var keywordTypesByIdent = func() map[string]Type {
	m := make(map[string]Type, keywordsEnd-keywordsStart-1)
	for typ := keywordsStart + 1; typ < keywordsEnd; typ++ {
		m[typ.String()] = typ
	}
	return m
}()

// LookupIdent returns the keyword Type associated with ident, or Ident if ident is not a keyword.
func LookupIdent(ident string) Type {
	if typ, ok := keywordTypesByIdent[ident]; ok {
		return typ
	}
	return Ident
}

// Token is a single lexical token of Lox code, as produced by the scanner.
// Tokens are immutable once constructed and are comparable, which lets the resolver use a Token itself (rather than
// an extra synthetic id) as a per-occurrence key: two tokens are equal only if they cover the same source range, so
// two textually identical uses of an identifier on the same line never alias each other.
type Token struct {
	Type   Type
	Lexeme string
	// Literal holds the decoded value of a String or Number token: a string with surrounding quotes removed, or a
	// float64. It is nil for every other token type.
	Literal any
	start   Position
	end     Position
}

// NewToken constructs a Token spanning [start, end).
func NewToken(typ Type, lexeme string, literal any, start, end Position) Token {
	return Token{Type: typ, Lexeme: lexeme, Literal: literal, start: start, end: end}
}

// Start returns the position of the first character of the token.
func (t Token) Start() Position { return t.start }

// End returns the position of the character immediately after the token.
func (t Token) End() Position { return t.end }

// IsZero reports whether t is the zero value.
func (t Token) IsZero() bool {
	return t == Token{}
}

func (t Token) String() string {
	return fmt.Sprintf("%s: %q (%s)", t.start, t.Lexeme, t.Type)
}

// Range describes a span of characters in the source code. Tokens and every ast.Expr/ast.Stmt implement it, so
// diagnostics can be attributed to either without distinguishing the two.
type Range interface {
	Start() Position
	End() Position
}

var _ Range = Token{}

// Position is a position in a file.
type Position struct {
	File   *File
	Line   int // 1-based
	Column int // 0-based byte offset from the start of the line
}

// Compare orders positions first by file name then by line then by column.
func (p Position) Compare(other Position) int {
	if c := cmp.Compare(p.File.name, other.File.name); c != 0 {
		return c
	}
	if p.Line != other.Line {
		return cmp.Compare(p.Line, other.Line)
	}
	return cmp.Compare(p.Column, other.Column)
}

func (p Position) String() string {
	prefix := ""
	if p.File != nil && p.File.name != "" {
		prefix = p.File.name + ":"
	}
	col := 1
	if p.File != nil {
		col = runewidth.StringWidth(string(p.File.Line(p.Line)[:p.Column])) + 1
	}
	return fmt.Sprintf("%s%d:%d", prefix, p.Line, col)
}

// File is a simple line-indexed view of a source file, used to render the offending line(s) in a diagnostic.
type File struct {
	name        string
	contents    []byte
	lineOffsets []int
}

// NewFile returns a new File named name with the given contents.
func NewFile(name string, contents []byte) *File {
	f := &File{name: name, contents: contents, lineOffsets: []int{0}}
	for i, b := range contents {
		if b == '\n' {
			f.lineOffsets = append(f.lineOffsets, i+1)
		}
	}
	return f
}

// Name returns the name the file was constructed with.
func (f *File) Name() string {
	return f.name
}

// Contents returns the file's raw source bytes.
func (f *File) Contents() []byte {
	return f.contents
}

// Line returns the 1-based nth line of the file, excluding the trailing newline.
func (f *File) Line(n int) []byte {
	low := f.lineOffsets[n-1]
	high := len(f.contents)
	if n < len(f.lineOffsets) {
		high = f.lineOffsets[n] - 1
	}
	return f.contents[low:high]
}
