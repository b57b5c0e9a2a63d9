// Package parser wires the token/lexer/rdparser layers into the
// lisp.Reader interface used by the REPL, `read`, and `load`.
package parser

import (
	"io"

	"github.com/bmatsuo/golisp/lisp"
	"github.com/bmatsuo/golisp/parser/rdparser"
	"github.com/bmatsuo/golisp/parser/token"
)

// reader adapts a stream of rdparser.Parser reads to the one-form-at-a-time
// lisp.Reader interface.  It remembers the last underlying io.Reader it was
// given and keeps that Parser (and the token.Scanner underneath it) alive
// across calls: the Scanner pre-fills an internal buffer well past a single
// token's worth of bytes, so constructing a fresh one per call would strand
// already-read-but-unparsed input every time Read is called again on the
// same stream (the REPL's line buffer, a `load`ed file, repeated `read`
// calls against stdin).
type reader struct {
	src io.Reader
	p   *rdparser.Parser
}

// NewReader returns a lisp.Reader backed by the recursive-descent parser.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader: it parses exactly one top-level form from r.
// It returns io.EOF when r holds no more forms, and a *lisp.EvalError of
// kind parse_error on a malformed form.
func (rd *reader) Read(r io.Reader) (*lisp.Value, error) {
	if rd.src != r {
		rd.src = r
		rd.p = rdparser.New(token.NewScanner("", r))
	}
	form, err := rd.p.ParseForm()
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, io.EOF
	}
	return form, nil
}
