package lisptest_test

import (
	"testing"

	"github.com/bmatsuo/golisp/lisptest"
)

// TestConcreteScenarios runs the literal input/output examples a reader of
// this language's documentation would try first: arithmetic, named
// recursion, let* sequential binding, macro expansion, car/cdr of a cons,
// and eq? identity (including that strings are never interned).
func TestConcreteScenarios(t *testing.T) {
	lisptest.RunTestSuite(t, lisptest.TestSuite{
		{Name: "arithmetic", TestSequence: lisptest.TestSequence{
			{Expr: `(+ 1 2 3)`, Result: "6"},
		}},
		{Name: "named-recursion-factorial", TestSequence: lisptest.TestSequence{
			{Expr: `(define fact (lambda (n) (if (= n 0) 1 (* n (fact (- n 1))))))`, Result: "fact"},
			{Expr: `(fact 5)`, Result: "120"},
		}},
		{Name: "let-star-sequential-binding", TestSequence: lisptest.TestSequence{
			{Expr: `(let* (x 2 y (* x 3)) (+ x y))`, Result: "8"},
		}},
		{Name: "macro-expansion", TestSequence: lisptest.TestSequence{
			{Expr: `(define m (macro (a b) (cons (quote +) (cons a (cons b null)))))`, Result: "m"},
			{Expr: `(m 3 4)`, Result: "7"},
		}},
		{Name: "car-cdr-of-cons", TestSequence: lisptest.TestSequence{
			{Expr: `(car (cons 1 2))`, Result: "1"},
			{Expr: `(cdr (cons 1 2))`, Result: "2"},
		}},
		{Name: "eq-identity", TestSequence: lisptest.TestSequence{
			{Expr: `(eq? (quote a) (quote a))`, Result: "t"},
			{Expr: `(eq? "a" "a")`, Result: "f"},
		}},
	})
}
