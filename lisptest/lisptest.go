// Package lisptest provides a small sequential-expression test harness:
// named suites of expressions evaluated in order against a shared Env and
// checked against their expected printed form.
package lisptest

import (
	"strings"
	"testing"

	"github.com/bmatsuo/golisp/lisp"
	"github.com/bmatsuo/golisp/parser"
)

// TestSequence is a sequence of expressions evaluated in order against a
// single Env, each checked against its expected printed result.
type TestSequence []struct {
	Expr   string
	Result string
}

// TestSuite is a set of named TestSequences, each run against a freshly
// constructed Env.
type TestSuite []struct {
	Name string
	TestSequence
}

// NewEnv constructs a root Env wired with the recursive-descent reader,
// the configuration every test in this package assumes.
func NewEnv() *lisp.Env {
	return lisp.NewRoot(lisp.WithReader(parser.NewReader()))
}

// RunTestSuite runs each TestSequence in tests against an isolated Env.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		env := NewEnv()
		for j, expr := range test.TestSequence {
			form, err := parseOne(expr.Expr)
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			got, evalErr := evalTopRecovered(env, form)
			if evalErr != nil {
				t.Errorf("test %d %q: expr %d: %v", i, test.Name, j, evalErr)
				continue
			}
			if got.String() != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, got.String())
			}
		}
	}
}

func parseOne(src string) (*lisp.Value, error) {
	r := parser.NewReader()
	return r.Read(strings.NewReader(src))
}

func evalTopRecovered(env *lisp.Env, form *lisp.Value) (result *lisp.Value, err error) {
	defer lisp.Recover(&err)
	result = lisp.EvalTop(env, form)
	return result, nil
}
