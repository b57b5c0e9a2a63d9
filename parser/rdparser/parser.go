// Package rdparser is a recursive-descent parser building lisp.Value trees
// directly from a token stream, with no separate AST.
package rdparser

import (
	"strconv"
	"strings"

	"github.com/bmatsuo/golisp/lisp"
	"github.com/bmatsuo/golisp/parser/lexer"
	"github.com/bmatsuo/golisp/parser/token"
)

// Parser reads one form at a time from a token stream, with a single token
// of lookahead.
type Parser struct {
	lex  *lexer.Lexer
	curr *token.Token
	peek *token.Token
}

// New initializes a Parser reading tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	p := &Parser{lex: lexer.New(scanner)}
	p.readToken()
	return p
}

// ParseForm parses a single top-level form.  A nil, non-nil-error return
// signals parse_error; ParseForm returns (nil, nil) only when the stream
// held no form at all (clean EOF before any token).
func (p *Parser) ParseForm() (*lisp.Value, error) {
	if p.peekType() == token.EOF {
		return nil, nil
	}
	return p.parseForm()
}

func (p *Parser) parseForm() (*lisp.Value, error) {
	switch p.peekType() {
	case token.INT:
		return p.parseInt()
	case token.STRING:
		return p.parseString()
	case token.SYMBOL:
		return p.parseSymbol()
	case token.PAREN_L:
		return p.parseList()
	case token.EOF:
		return nil, lisp.ParseError("unexpected end of input")
	default:
		tok := p.readToken()
		return nil, lisp.ParseError("unexpected token %s %q", tok.Type, tok.Text)
	}
}

func (p *Parser) parseInt() (*lisp.Value, error) {
	tok := p.readToken()
	n, err := strconv.Atoi(tok.Text)
	if err != nil {
		return nil, lisp.ParseError("invalid integer literal: %s", tok.Text)
	}
	return lisp.Int(n), nil
}

func (p *Parser) parseString() (*lisp.Value, error) {
	tok := p.readToken()
	s, err := unescapeString(tok.Text)
	if err != nil {
		return nil, lisp.ParseError("%v", err)
	}
	return lisp.Str(s), nil
}

func (p *Parser) parseSymbol() (*lisp.Value, error) {
	tok := p.readToken()
	return lisp.Intern(tok.Text), nil
}

// parseList parses a run of forms terminated by `)`, or a dotted pair
// whose cdr is given by `. form`.
func (p *Parser) parseList() (*lisp.Value, error) {
	p.readToken() // consume '('
	return p.parseListBody()
}

func (p *Parser) parseListBody() (*lisp.Value, error) {
	switch p.peekType() {
	case token.PAREN_R:
		p.readToken()
		return lisp.Nil(), nil
	case token.DOT:
		p.readToken()
		cdr, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		if p.peekType() != token.PAREN_R {
			tok := p.readToken()
			return nil, lisp.ParseError("expected ) after dotted tail, got %s %q", tok.Type, tok.Text)
		}
		p.readToken()
		return cdr, nil
	case token.EOF:
		return nil, lisp.ParseError("unexpected end of input inside list")
	default:
		car, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		cdr, err := p.parseListBody()
		if err != nil {
			return nil, err
		}
		return lisp.MakeCons(car, cdr), nil
	}
}

func (p *Parser) readToken() *token.Token {
	p.curr = p.peek
	p.peek = p.lex.NextToken()
	return p.curr
}

func (p *Parser) peekType() token.Type {
	return p.peek.Type
}

// unescapeString applies the escape set and line-continuation rule to the
// raw text between (but not including) the quotes.
func unescapeString(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", lisp.ParseError("malformed string literal: %s", raw)
	}
	body := raw[1 : len(raw)-1]
	var out strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			out.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", lisp.ParseError("unterminated escape in string literal")
		}
		switch body[i] {
		case 'n':
			out.WriteByte('\n')
		case 'f':
			out.WriteByte('\f')
		case 'b':
			out.WriteByte('\b')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case '\'':
			out.WriteByte('\'')
		case '"':
			out.WriteByte('"')
		case '\\':
			out.WriteByte('\\')
		case '\n', '\r':
			// line continuation: the escaped newline contributes nothing
		default:
			out.WriteByte(body[i])
		}
	}
	return out.String(), nil
}
