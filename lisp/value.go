// Package lisp implements the value model, environment, macro expander, and
// evaluator of a small homoiconic Lisp.  The concrete syntax lives in the
// sibling parser package; this package only knows about already-constructed
// Values.
package lisp

import (
	"bytes"
	"fmt"
)

// ValueType tags the variant held by a Value.
type ValueType uint8

// Possible ValueType values.
const (
	TInvalid ValueType = iota
	TInteger
	TString
	TSymbol
	TCons
	TProc
	TMacro
	TBuiltin
)

var valueTypeStrings = [...]string{
	TInvalid: "invalid",
	TInteger: "integer",
	TString:  "string",
	TSymbol:  "symbol",
	TCons:    "cons",
	TProc:    "proc",
	TMacro:   "macro",
	TBuiltin: "builtin",
}

func (t ValueType) String() string {
	if int(t) >= len(valueTypeStrings) {
		return valueTypeStrings[TInvalid]
	}
	return valueTypeStrings[t]
}

// Builtin is the signature of a predefined procedure: given the calling
// environment and the vector of already-evaluated argument values it
// returns a result Value, or panics with an *EvalError.
type Builtin func(env *Env, args []*Value) *Value

// Value is a tagged union over the language's seven variants.  A Value is
// shared rather than copied once constructed; Cons cells are never mutated
// by the runtime after construction.
type Value struct {
	Type ValueType

	Int int    // TInteger
	Str string // TString, TSymbol (symbol name)

	sym *symbol // TSymbol: the interned symbol object; identity is sym's identity

	Car, Cdr *Value // TCons

	Formals *Value // TProc, TMacro: parameter list (possibly dotted)
	Body    *Value // TProc, TMacro: body form, a proper list of forms wrapped in an implicit `do`
	Env     *Env   // TProc, TMacro: captured (lexical) environment

	Name    string  // TBuiltin: name used only for printing/diagnostics
	Builtin Builtin // TBuiltin
}

// Int returns an Integer value.
func Int(n int) *Value {
	return &Value{Type: TInteger, Int: n}
}

// Str returns a String value.
func Str(s string) *Value {
	return &Value{Type: TString, Str: s}
}

// MakeCons returns a pair (car . cdr).
func MakeCons(car, cdr *Value) *Value {
	return &Value{Type: TCons, Car: car, Cdr: cdr}
}

// Proc returns a procedure closing over env.
func Proc(formals, body *Value, env *Env) *Value {
	return &Value{Type: TProc, Formals: formals, Body: body, Env: env}
}

// Macro returns a macro closing over env; it has the same shape as Proc and
// is distinguished only by its type tag.
func Macro(formals, body *Value, env *Env) *Value {
	return &Value{Type: TMacro, Formals: formals, Body: body, Env: env}
}

// BuiltinProc wraps an opaque Go function as a callable predefined
// procedure.
func BuiltinProc(name string, fn Builtin) *Value {
	return &Value{Type: TBuiltin, Name: name, Builtin: fn}
}

// symbolValue constructs the Value wrapper around an interned symbol.  Every
// call with the same *symbol produces a distinct *Value, but all of them
// carry the same sym pointer, which is what Eq compares.
func symbolValue(s *symbol) *Value {
	return &Value{Type: TSymbol, Str: s.name, sym: s}
}

// IsNil reports whether v is the distinguished empty-list symbol `null`.
func (v *Value) IsNil() bool {
	return v.Type == TSymbol && v.Str == "null"
}

// IsCons reports whether v is a Cons cell.
func (v *Value) IsCons() bool {
	return v.Type == TCons
}

// IsProperList reports whether v is `null` or a chain of Cons cells whose
// final cdr is `null`.
func (v *Value) IsProperList() bool {
	for v.Type == TCons {
		v = v.Cdr
	}
	return v.IsNil()
}

// ListLen returns the number of elements in the proper-list prefix of v (the
// number of Cons cells walked before a non-Cons is reached).
func (v *Value) ListLen() int {
	n := 0
	for v.Type == TCons {
		n++
		v = v.Cdr
	}
	return n
}

// ListSlice collects the elements of a proper list into a Go slice.  The
// caller must have already verified v.IsProperList().
func (v *Value) ListSlice() []*Value {
	var out []*Value
	for v.Type == TCons {
		out = append(out, v.Car)
		v = v.Cdr
	}
	return out
}

// SliceToList builds a proper list out of vs, terminated by `null`.
func SliceToList(vs []*Value) *Value {
	list := symNull.value()
	for i := len(vs) - 1; i >= 0; i-- {
		list = MakeCons(vs[i], list)
	}
	return list
}

// IsCallable reports whether v can appear in the head position of an
// application once macro-expanded: a Proc or a predefined procedure.
func (v *Value) IsCallable() bool {
	return v.Type == TProc || v.Type == TBuiltin
}

// Eq reports object identity equality for the `eq?` builtin: integers
// compare by value, strings compare by Go pointer identity (two distinct
// string objects holding equal text are never eq), symbols by their
// interned identity, and everything else (Cons, Proc, Macro, Builtin) by
// Go pointer identity.
func Eq(a, b *Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TInteger:
		return a.Int == b.Int
	case TSymbol:
		return a.sym == b.sym
	case TString:
		return a == b
	default:
		return a == b
	}
}

// String renders v in its canonical textual form: integers decimal,
// strings raw, symbols bare, cons cells with list sugar, and
// procedures/macros/builtins as literal placeholder tokens.
func (v *Value) String() string {
	var buf bytes.Buffer
	writeValue(&buf, v)
	return buf.String()
}

func writeValue(buf *bytes.Buffer, v *Value) {
	switch v.Type {
	case TInteger:
		fmt.Fprintf(buf, "%d", v.Int)
	case TString:
		buf.WriteString(v.Str)
	case TSymbol:
		buf.WriteString(v.Str)
	case TCons:
		writeCons(buf, v)
	case TProc:
		buf.WriteString("<Proc>")
	case TMacro:
		buf.WriteString("<Macro>")
	case TBuiltin:
		buf.WriteString("<PredefinedProc>")
	default:
		buf.WriteString("<invalid>")
	}
}

func writeCons(buf *bytes.Buffer, v *Value) {
	buf.WriteByte('(')
	first := true
	for {
		if !first {
			buf.WriteByte(' ')
		}
		first = false
		writeValue(buf, v.Car)
		switch {
		case v.Cdr.Type == TCons:
			v = v.Cdr
			continue
		case v.Cdr.IsNil():
			// standard list sugar: omit the terminating `null`
		default:
			buf.WriteString(" . ")
			writeValue(buf, v.Cdr)
		}
		break
	}
	buf.WriteByte(')')
}
