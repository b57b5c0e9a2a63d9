package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sx builds a proper-list form from already-constructed Values, the moral
// equivalent of writing `(a b c)` without going through the reader.
func sx(vs ...*Value) *Value {
	return SliceToList(vs)
}

func sym(name string) *Value {
	return Intern(name)
}

func TestEvalArithmetic(t *testing.T) {
	env := NewRoot()
	// (+ 1 2 3) => 6
	form := sx(sym("+"), Int(1), Int(2), Int(3))
	got := EvalTop(env, form)
	assert.Equal(t, 6, got.Int)
}

func TestEvalIfBranches(t *testing.T) {
	env := NewRoot()
	got := EvalTop(env, sx(sym("if"), Nil(), Int(1), Int(2)))
	assert.Equal(t, 2, got.Int)

	got = EvalTop(env, sx(sym("if"), Int(0), Int(1), Int(2)))
	assert.Equal(t, 1, got.Int)
}

func TestEvalDefineAndLookup(t *testing.T) {
	env := NewRoot()
	EvalTop(env, sx(sym("define"), sym("x"), Int(42)))
	got := EvalTop(env, sym("x"))
	assert.Equal(t, 42, got.Int)
}

func TestEvalLetSequentialVsParallel(t *testing.T) {
	env := NewRoot()
	EvalTop(env, sx(sym("define"), sym("x"), Int(100)))

	// (let (x 1 y x) y) -- y binds to the *outer* x (100), since let
	// evaluates every binding form against the frame active before the
	// let, not against sibling bindings.
	letForm := sx(sym("let"),
		sx(sym("x"), Int(1), sym("y"), sym("x")),
		sym("y"))
	got := EvalTop(env, letForm)
	assert.Equal(t, 100, got.Int)

	// (let* (x 1 y x) y) -- y sees the x just bound by let*.
	letStarForm := sx(sym("let*"),
		sx(sym("x"), Int(1), sym("y"), sym("x")),
		sym("y"))
	got = EvalTop(env, letStarForm)
	assert.Equal(t, 1, got.Int)
}

func TestEvalLambdaApplication(t *testing.T) {
	env := NewRoot()
	// (define square (lambda (n) (* n n)))
	lambda := sx(sym("lambda"), sx(sym("n")), sx(sym("*"), sym("n"), sym("n")))
	EvalTop(env, sx(sym("define"), sym("square"), lambda))

	got := EvalTop(env, sx(sym("square"), Int(9)))
	assert.Equal(t, 81, got.Int)
}

func TestEvalNamedRecursionFactorial(t *testing.T) {
	env := NewRoot()
	// (define (fact n acc) (if (= n 0) acc (fact (- n 1) (* n acc))))
	// expressed without the named-define sugar this language doesn't have:
	// (define fact (lambda (n acc) (if (= n 0) acc (fact (- n 1) (* n acc)))))
	body := sx(sym("if"),
		sx(sym("="), sym("n"), Int(0)),
		sym("acc"),
		sx(sym("fact"), sx(sym("-"), sym("n"), Int(1)), sx(sym("*"), sym("n"), sym("acc"))))
	lambda := sx(sym("lambda"), sx(sym("n"), sym("acc")), body)
	EvalTop(env, sx(sym("define"), sym("fact"), lambda))

	got := EvalTop(env, sx(sym("fact"), Int(5), Int(1)))
	assert.Equal(t, 120, got.Int)
}

func TestTailRecursionDoesNotGrowStack(t *testing.T) {
	env := NewRoot()
	// (define count (lambda (n) (if (= n 0) 0 (count (- n 1)))))
	body := sx(sym("if"),
		sx(sym("="), sym("n"), Int(0)),
		Int(0),
		sx(sym("count"), sx(sym("-"), sym("n"), Int(1))))
	lambda := sx(sym("lambda"), sx(sym("n")), body)
	EvalTop(env, sx(sym("define"), sym("count"), lambda))

	got := EvalTop(env, sx(sym("count"), Int(2000000)))
	assert.Equal(t, 0, got.Int)
}

func TestClosureCapturesLexicalNotDynamic(t *testing.T) {
	env := NewRoot()
	// (define make-adder (lambda (n) (lambda (m) (+ m n))))
	makeAdder := sx(sym("lambda"), sx(sym("n")), sx(sym("lambda"), sx(sym("m")), sx(sym("+"), sym("m"), sym("n"))))
	EvalTop(env, sx(sym("define"), sym("make-adder"), makeAdder))
	EvalTop(env, sx(sym("define"), sym("add5"), sx(sym("make-adder"), Int(5))))

	got := EvalTop(env, sx(sym("add5"), Int(10)))
	assert.Equal(t, 15, got.Int)
}

func TestClosureInsideLetCapturesEnclosingProc(t *testing.T) {
	env := NewRoot()
	// (define make-adder (lambda (n) (let (unused 0) (lambda (m) (+ m n)))))
	inner := sx(sym("lambda"), sx(sym("m")), sx(sym("+"), sym("m"), sym("n")))
	letForm := sx(sym("let"), sx(sym("unused"), Int(0)), inner)
	makeAdder := sx(sym("lambda"), sx(sym("n")), letForm)
	EvalTop(env, sx(sym("define"), sym("make-adder"), makeAdder))
	EvalTop(env, sx(sym("define"), sym("add5"), sx(sym("make-adder"), Int(5))))

	// The let is in tail position of make-adder's body, so its binding is
	// merged into the call frame that binds n; the inner lambda captures
	// that frame and finds n through its lex link.
	got := EvalTop(env, sx(sym("add5"), Int(10)))
	assert.Equal(t, 15, got.Int)
}

func TestTailRecursionThroughLetDoesNotGrowStack(t *testing.T) {
	env := NewRoot()
	// (define count (lambda (n) (let (m (- n 1)) (if (= n 0) 0 (count m)))))
	letBody := sx(sym("if"),
		sx(sym("="), sym("n"), Int(0)),
		Int(0),
		sx(sym("count"), sym("m")))
	letForm := sx(sym("let"), sx(sym("m"), sx(sym("-"), sym("n"), Int(1))), letBody)
	lambda := sx(sym("lambda"), sx(sym("n")), letForm)
	EvalTop(env, sx(sym("define"), sym("count"), lambda))

	got := EvalTop(env, sx(sym("count"), Int(2000000)))
	assert.Equal(t, 0, got.Int)
}

func TestApplyArityError(t *testing.T) {
	env := NewRoot()
	lambda := sx(sym("lambda"), sx(sym("n")), sym("n"))
	EvalTop(env, sx(sym("define"), sym("id"), lambda))

	require.Panics(t, func() {
		EvalTop(env, sx(sym("id"), Int(1), Int(2)))
	})
}

func TestNotCallableError(t *testing.T) {
	env := NewRoot()
	require.Panics(t, func() {
		EvalTop(env, sx(Int(1), Int(2)))
	})
}

func TestQuoteReturnsUnevaluated(t *testing.T) {
	env := NewRoot()
	form := sx(sym("quote"), sx(sym("+"), Int(1), Int(2)))
	got := EvalTop(env, form)
	assert.True(t, got.IsCons())
	assert.Equal(t, "+", got.Car.Str)
}
