// Package lexer tokenizes the language's surface syntax from a
// token.Scanner.
package lexer

import (
	"io"
	"unicode"

	"github.com/bmatsuo/golisp/parser/token"
)

// Lexer produces tokens on demand from an underlying Scanner.
type Lexer struct {
	scanner *token.Scanner
	ch      rune
	readErr error
}

// New initializes a Lexer reading from s.
func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// NextToken scans and returns the next token, skipping whitespace and
// `;`-to-end-of-line comments first.
func (lex *Lexer) NextToken() *token.Token {
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	if err := lex.skipWhitespaceAndComments(); err != nil {
		return lex.emitError(err, true)
	}
	if err := lex.readChar(); err != nil {
		return lex.emitError(err, true)
	}

	switch {
	case lex.ch == '(':
		return lex.scanner.EmitToken(token.PAREN_L)
	case lex.ch == ')':
		return lex.scanner.EmitToken(token.PAREN_R)
	case lex.ch == '"':
		return lex.readString()
	case isDigit(lex.ch):
		return lex.readNumber()
	case lex.ch == '-' && isDigit(lex.peekRune()):
		return lex.readNumber()
	default:
		return lex.readSymbolOrDot()
	}
}

func (lex *Lexer) readNumber() *token.Token {
	for isDigit(lex.peekRune()) {
		if err := lex.readChar(); err != nil {
			return lex.emitError(err, false)
		}
	}
	return lex.scanner.EmitToken(token.INT)
}

// readSymbolOrDot reads the maximal run of non-delimiter characters
// starting at lex.ch; a run consisting of exactly "." is reported as DOT,
// the dotted-tail marker, rather than as an ordinary symbol.
func (lex *Lexer) readSymbolOrDot() *token.Token {
	for isSymbolChar(lex.peekRune()) {
		if err := lex.readChar(); err != nil {
			return lex.emitError(err, false)
		}
	}
	if lex.scanner.Text() == "." {
		return lex.scanner.EmitToken(token.DOT)
	}
	return lex.scanner.EmitToken(token.SYMBOL)
}

// readString scans a double-quoted string literal up to its closing quote,
// stepping over each backslash escape; the escapes themselves are applied
// by the parser.
func (lex *Lexer) readString() *token.Token {
	for {
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
		if lex.ch == '"' {
			return lex.scanner.EmitToken(token.STRING)
		}
		if lex.ch == '\\' {
			if err := lex.readChar(); err != nil {
				return lex.emitError(err, false)
			}
		}
	}
}

func (lex *Lexer) skipWhitespaceAndComments() error {
	for {
		for unicode.IsSpace(lex.peekRune()) {
			if err := lex.readChar(); err != nil {
				return err
			}
		}
		lex.scanner.Ignore()
		if lex.peekRune() != ';' {
			return nil
		}
		for lex.peekRune() != '\n' && lex.peekRune() != 0 {
			if err := lex.readChar(); err != nil {
				lex.scanner.Ignore()
				return err
			}
		}
		lex.scanner.Ignore()
	}
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func (lex *Lexer) readChar() error {
	lex.readErr = lex.scanner.ScanRune()
	if lex.readErr != nil {
		return lex.readErr
	}
	lex.ch = lex.scanner.Rune()
	return nil
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{Type: typ, Text: text, Source: lex.scanner.LocStart()}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitError(err error, expectEOF bool) *token.Token {
	if err == io.EOF {
		if expectEOF {
			return lex.emit(token.EOF, "")
		}
		return lex.emit(token.ERROR, "unexpected EOF")
	}
	return lex.emit(token.ERROR, err.Error())
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isSymbolChar reports whether c may appear in a symbol: anything but the
// parens, ASCII whitespace, and NUL.
func isSymbolChar(c rune) bool {
	switch c {
	case '(', ')', ' ', '\t', '\n', '\r', '\f', '\v', 0:
		return false
	default:
		return true
	}
}
