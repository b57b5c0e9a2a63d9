package parser_test

import (
	"io"
	"strings"
	"testing"

	"github.com/bmatsuo/golisp/lisp"
	"github.com/bmatsuo/golisp/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, src string) []*lisp.Value {
	t.Helper()
	r := parser.NewReader()
	in := strings.NewReader(src)
	var forms []*lisp.Value
	for {
		form, err := r.Read(in)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		forms = append(forms, form)
	}
	return forms
}

func parseOne(t *testing.T, src string) *lisp.Value {
	t.Helper()
	forms := parseAll(t, src)
	require.Len(t, forms, 1)
	return forms[0]
}

func TestParseIntegersAndNegativeAdjacency(t *testing.T) {
	assert.Equal(t, 42, parseOne(t, "42").Int)
	assert.Equal(t, -7, parseOne(t, "-7").Int)

	// a bare "-" with no adjacent digit is a symbol, not a negative number.
	sym := parseOne(t, "-")
	assert.Equal(t, lisp.TSymbol, sym.Type)
	assert.Equal(t, "-", sym.Str)
}

func TestParseSymbol(t *testing.T) {
	got := parseOne(t, "foo-bar?")
	assert.Equal(t, lisp.TSymbol, got.Type)
	assert.Equal(t, "foo-bar?", got.Str)
}

func TestParseStringEscapes(t *testing.T) {
	got := parseOne(t, `"a\nb\tc\"d"`)
	assert.Equal(t, "a\nb\tc\"d", got.Str)
}

func TestParseStringLineContinuation(t *testing.T) {
	got := parseOne(t, "\"a\\\nb\"")
	assert.Equal(t, "ab", got.Str)
}

func TestParseProperList(t *testing.T) {
	got := parseOne(t, "(1 2 3)")
	require.True(t, got.IsProperList())
	vals := got.ListSlice()
	require.Len(t, vals, 3)
	assert.Equal(t, 1, vals[0].Int)
	assert.Equal(t, 3, vals[2].Int)
}

func TestParseDottedPair(t *testing.T) {
	got := parseOne(t, "(1 . 2)")
	assert.Equal(t, 1, got.Car.Int)
	assert.Equal(t, 2, got.Cdr.Int)
}

func TestParseDottedTailList(t *testing.T) {
	got := parseOne(t, "(1 2 . 3)")
	assert.Equal(t, 1, got.Car.Int)
	assert.Equal(t, 2, got.Cdr.Car.Int)
	assert.Equal(t, 3, got.Cdr.Cdr.Int)
}

func TestParseEmptyList(t *testing.T) {
	got := parseOne(t, "()")
	assert.True(t, got.IsNil())
}

func TestDotRunLongerThanOneCharIsSymbol(t *testing.T) {
	got := parseOne(t, "...")
	assert.Equal(t, lisp.TSymbol, got.Type)
	assert.Equal(t, "...", got.Str)
}

func TestCommentsAreSkipped(t *testing.T) {
	got := parseOne(t, "; a comment\n42 ; trailing\n")
	assert.Equal(t, 42, got.Int)
}

func TestUnterminatedListIsParseError(t *testing.T) {
	r := parser.NewReader()
	_, err := r.Read(strings.NewReader("(1 2"))
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}

func TestMissingCloseParenAfterDottedTailIsParseError(t *testing.T) {
	r := parser.NewReader()
	_, err := r.Read(strings.NewReader("(1 . 2 3)"))
	require.Error(t, err)
}

func TestEmptyInputIsEOF(t *testing.T) {
	r := parser.NewReader()
	_, err := r.Read(strings.NewReader(""))
	assert.Equal(t, io.EOF, err)
}

func TestMultipleFormsInOneStream(t *testing.T) {
	forms := parseAll(t, "1 2 3")
	require.Len(t, forms, 3)
	assert.Equal(t, 1, forms[0].Int)
	assert.Equal(t, 2, forms[1].Int)
	assert.Equal(t, 3, forms[2].Int)
}
