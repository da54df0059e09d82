package token_test

import (
	"fmt"
	"testing"

	"github.com/loxlang/lox/token"
)

func TestLookupIdentReturnsKeywordType(t *testing.T) {
	tests := map[string]token.Type{
		"print":  token.Print,
		"var":    token.Var,
		"class":  token.Class,
		"super":  token.Super,
		"this":   token.This,
		"return": token.Return,
	}
	for ident, want := range tests {
		if got := token.LookupIdent(ident); got != want {
			t.Errorf("LookupIdent(%q) = %s, want %s", ident, got, want)
		}
	}
}

func TestLookupIdentReturnsIdentForNonKeyword(t *testing.T) {
	if got := token.LookupIdent("foo"); got != token.Ident {
		t.Errorf("LookupIdent(%q) = %s, want %s", "foo", got, token.Ident)
	}
}

func TestTypeStringKnownAndUnknown(t *testing.T) {
	if got, want := token.Plus.String(), "+"; got != want {
		t.Errorf("Plus.String() = %q, want %q", got, want)
	}
	if got := token.Type(255).String(); got == "" {
		t.Errorf("Type(255).String() returned empty string")
	}
}

func TestTypeFormatMessageVerb(t *testing.T) {
	if got, want := fmt.Sprintf("%m", token.Plus), "'+'"; got != want {
		t.Errorf("Sprintf(%%m, Plus) = %q, want %q", got, want)
	}
}

func TestTokenIsComparable(t *testing.T) {
	file := token.NewFile("test.lox", []byte("a"))
	start := token.Position{File: file, Line: 1, Column: 0}
	end := token.Position{File: file, Line: 1, Column: 1}
	a := token.NewToken(token.Ident, "a", nil, start, end)
	b := token.NewToken(token.Ident, "a", nil, start, end)
	if a != b {
		t.Errorf("two tokens built from identical inputs should be equal: %v != %v", a, b)
	}
}

func TestTokenIsZero(t *testing.T) {
	var tok token.Token
	if !tok.IsZero() {
		t.Error("zero value Token.IsZero() = false, want true")
	}
	file := token.NewFile("test.lox", []byte("a"))
	pos := token.Position{File: file, Line: 1, Column: 0}
	tok = token.NewToken(token.Ident, "a", nil, pos, pos)
	if tok.IsZero() {
		t.Error("non-zero Token.IsZero() = true, want false")
	}
}

func TestTokenStartEnd(t *testing.T) {
	file := token.NewFile("test.lox", []byte("abc"))
	start := token.Position{File: file, Line: 1, Column: 0}
	end := token.Position{File: file, Line: 1, Column: 3}
	tok := token.NewToken(token.Ident, "abc", nil, start, end)
	if tok.Start() != start {
		t.Errorf("tok.Start() = %v, want %v", tok.Start(), start)
	}
	if tok.End() != end {
		t.Errorf("tok.End() = %v, want %v", tok.End(), end)
	}
}

func TestFileLineReturnsLineWithoutNewline(t *testing.T) {
	file := token.NewFile("test.lox", []byte("line one\nline two\nline three"))
	if got, want := string(file.Line(1)), "line one"; got != want {
		t.Errorf("Line(1) = %q, want %q", got, want)
	}
	if got, want := string(file.Line(2)), "line two"; got != want {
		t.Errorf("Line(2) = %q, want %q", got, want)
	}
	if got, want := string(file.Line(3)), "line three"; got != want {
		t.Errorf("Line(3) = %q, want %q", got, want)
	}
}

func TestPositionComparesByLineThenColumn(t *testing.T) {
	file := token.NewFile("test.lox", []byte("aaa\nbbb"))
	p1 := token.Position{File: file, Line: 1, Column: 2}
	p2 := token.Position{File: file, Line: 2, Column: 0}
	if p1.Compare(p2) >= 0 {
		t.Errorf("p1.Compare(p2) = %d, want negative (p1 is earlier)", p1.Compare(p2))
	}
}
