// Package scanner implements the lexical scanner which turns Lox source code into a sequence of tokens.
package scanner

import (
	"strconv"

	"github.com/loxlang/lox/loxerr"
	"github.com/loxlang/lox/token"
)

const nullChar = 0

// Scanner scans Lox source code into a sequence of tokens.
type Scanner struct {
	file *token.File
	src  []byte

	pos       int // byte offset of the character currently being considered
	startPos  int // byte offset of the first character of the token being scanned
	line      int // 1-based line of the character currently being considered
	lineStart int // byte offset of the start of the current line
	startLine int
	startCol  int

	errs loxerr.Errors
}

// New constructs a Scanner which scans the contents of file.
func New(file *token.File) *Scanner {
	return &Scanner{
		file: file,
		src:  file.Contents(),
		line: 1,
	}
}

// Scan scans the source into a sequence of tokens, always ending with an EOF token. Lexical errors are collected and
// do not stop scanning; if any occurred, the returned error is a non-nil [loxerr.Errors].
func (s *Scanner) Scan() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok := s.next()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens, s.errs.Err()
}

func (s *Scanner) next() token.Token {
	s.skipWhitespaceAndComments()
	s.startPos = s.pos
	s.startLine = s.line
	s.startCol = s.pos - s.lineStart

	switch c := s.advance(); c {
	case nullChar:
		return s.token(token.EOF)
	case ';':
		return s.token(token.Semicolon)
	case ',':
		return s.token(token.Comma)
	case '.':
		return s.token(token.Dot)
	case '(':
		return s.token(token.LeftParen)
	case ')':
		return s.token(token.RightParen)
	case '{':
		return s.token(token.LeftBrace)
	case '}':
		return s.token(token.RightBrace)
	case '+':
		return s.token(token.Plus)
	case '-':
		return s.token(token.Minus)
	case '*':
		return s.token(token.Asterisk)
	case '/':
		return s.token(token.Slash)
	case '=':
		if s.match('=') {
			return s.token(token.EqualEqual)
		}
		return s.token(token.Equal)
	case '!':
		if s.match('=') {
			return s.token(token.BangEqual)
		}
		return s.token(token.Bang)
	case '<':
		if s.match('=') {
			return s.token(token.LessEqual)
		}
		return s.token(token.Less)
	case '>':
		if s.match('=') {
			return s.token(token.GreaterEqual)
		}
		return s.token(token.Greater)
	case '"':
		return s.scanString()
	default:
		switch {
		case isDigit(c):
			return s.scanNumber()
		case isAlpha(c):
			return s.scanIdent()
		default:
			return s.illegal("unexpected character %q", c)
		}
	}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch s.peek() {
		case ' ', '\t', '\r':
			s.advance()
		case '\n':
			s.advance()
			s.line++
			s.lineStart = s.pos
		case '/':
			if s.peekAt(1) == '/' {
				for s.peek() != '\n' && s.peek() != nullChar {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) advance() byte {
	if s.atEOF() {
		return nullChar
	}
	c := s.src[s.pos]
	s.pos++
	return c
}

func (s *Scanner) match(want byte) bool {
	if s.peek() != want {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) peek() byte {
	return s.peekAt(0)
}

func (s *Scanner) peekAt(offset int) byte {
	if s.pos+offset >= len(s.src) {
		return nullChar
	}
	return s.src[s.pos+offset]
}

func (s *Scanner) atEOF() bool {
	return s.pos >= len(s.src)
}

func (s *Scanner) scanString() token.Token {
	for {
		switch s.peek() {
		case nullChar:
			return s.illegal("unterminated string literal")
		case '\n':
			s.advance()
			s.line++
			s.lineStart = s.pos
		default:
			if s.advance() == '"' {
				lexeme := s.lexeme()
				return s.tokenWithLiteral(token.String, lexeme[1:len(lexeme)-1])
			}
		}
	}
}

func (s *Scanner) scanNumber() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	value, err := strconv.ParseFloat(s.lexeme(), 64)
	if err != nil {
		panic("scanner: scanned number literal failed to parse: " + err.Error())
	}
	return s.tokenWithLiteral(token.Number, value)
}

func (s *Scanner) scanIdent() token.Token {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	return s.token(token.LookupIdent(s.lexeme()))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

func (s *Scanner) lexeme() string {
	return string(s.src[s.startPos:s.pos])
}

func (s *Scanner) startPosition() token.Position {
	return token.Position{File: s.file, Line: s.startLine, Column: s.startCol}
}

func (s *Scanner) endPosition() token.Position {
	return token.Position{File: s.file, Line: s.line, Column: s.pos - s.lineStart}
}

func (s *Scanner) token(typ token.Type) token.Token {
	return s.tokenWithLiteral(typ, nil)
}

func (s *Scanner) tokenWithLiteral(typ token.Type, literal any) token.Token {
	return token.NewToken(typ, s.lexeme(), literal, s.startPosition(), s.endPosition())
}

func (s *Scanner) illegal(format string, a ...any) token.Token {
	tok := token.NewToken(token.Illegal, s.lexeme(), nil, s.startPosition(), s.endPosition())
	s.errs.Addf(tok, format, a...)
	return tok
}
