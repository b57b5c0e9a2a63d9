package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// defineMacro binds name to an anonymous macro value, the way a user program
// would write `(define name (macro (params...) body...))`.
func defineMacro(env *Env, name string, formals *Value, body ...*Value) {
	parts := append([]*Value{sym("macro"), formals}, body...)
	EvalTop(env, sx(sym("define"), sym(name), sx(parts...)))
}

func TestMacroExpansionSubstitutesUnevaluatedArgs(t *testing.T) {
	env := NewRoot()
	// (define my-if (macro (c a b) (cons (quote if) (cons c (cons a (cons b null))))))
	body := sx(sym("cons"), sx(sym("quote"), sym("if")),
		sx(sym("cons"), sym("c"),
			sx(sym("cons"), sym("a"),
				sx(sym("cons"), sym("b"), sx(sym("quote"), sym("null"))))))
	defineMacro(env, "my-if", sx(sym("c"), sym("a"), sym("b")), body)

	got := EvalTop(env, sx(sym("my-if"), Nil(), Int(1), Int(2)))
	assert.Equal(t, 2, got.Int)

	got = EvalTop(env, sx(sym("my-if"), Int(5), Int(1), Int(2)))
	assert.Equal(t, 1, got.Int)
}

func TestMacroArgumentsAreNotEvaluatedBeforeSubstitution(t *testing.T) {
	env := NewRoot()
	// A macro that just returns its first argument form unevaluated, then
	// substituted: (define first-of (macro (x y) x)). Passing a form that
	// would error if evaluated (an unbound symbol) as the second argument
	// proves it was never evaluated, since it is never substituted into the
	// returned body.
	defineMacro(env, "first-of", sx(sym("x"), sym("y")), sym("x"))

	got := EvalTop(env, sx(sym("first-of"), Int(9), sym("totally-unbound")))
	assert.Equal(t, 9, got.Int)
}

func TestQuoteBlocksMacroDescent(t *testing.T) {
	env := NewRoot()
	// (define boom (macro (x) (cons (quote +) (cons x null)))) requires exactly
	// one arg; calling it with zero arguments panics during expansion.
	// Quoting the call must prevent that expansion from ever happening.
	body := sx(sym("cons"), sx(sym("quote"), sym("+")), sx(sym("cons"), sym("x"), sx(sym("quote"), sym("null"))))
	defineMacro(env, "boom", sx(sym("x")), body)

	require.Panics(t, func() {
		EvalTop(env, sx(sym("boom")))
	})

	quoted := sx(sym("quote"), sx(sym("boom")))
	got := EvalTop(env, quoted)
	assert.True(t, got.IsCons())
	assert.Equal(t, "boom", got.Car.Str)
}

func TestExpandLeavesNonMacroFormsAlone(t *testing.T) {
	env := NewRoot()
	form := sx(sym("+"), Int(1), Int(2))
	expanded := Expand(env, form)
	assert.True(t, Eq(expanded.Car, sym("+")))
}
