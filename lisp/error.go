package lisp

import "fmt"

// ErrorKind enumerates the error taxonomy.  These are kinds, not types: a
// single EvalError struct carries the kind alongside a human-readable
// message, with no further structured payload.
type ErrorKind uint8

// Possible ErrorKind values.
const (
	ErrParse ErrorKind = iota
	ErrUnbound
	ErrType
	ErrArity
	ErrNotCallable
	ErrRuntime
)

var errorKindStrings = [...]string{
	ErrParse:       "parse_error",
	ErrUnbound:     "unbound_error",
	ErrType:        "type_error",
	ErrArity:       "arity_error",
	ErrNotCallable: "not_callable",
	ErrRuntime:     "runtime_error",
}

func (k ErrorKind) String() string {
	if int(k) >= len(errorKindStrings) {
		return "error"
	}
	return errorKindStrings[k]
}

// EvalError is the single error type used across the reader, expander, and
// evaluator.  It implements Go's error interface; every signaling site
// panics with an *EvalError and the nearest top-level driver (the REPL,
// `load`) recovers it, so every error unwinds to the nearest
// top-level driver and no language-level catch form is exposed.
type EvalError struct {
	Kind ErrorKind
	Msg  string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return e.Msg
}

func newError(kind ErrorKind, format string, args ...interface{}) *EvalError {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// throwf panics with an *EvalError of the given kind.  Every signaling
// builtin and evaluator code path funnels through here (or one of the
// kind-specific wrappers below) so that EvalTop's recover sees a uniform
// type.
func throwf(kind ErrorKind, format string, args ...interface{}) *Value {
	panic(newError(kind, format, args...))
}

func unboundError(name string) *Value {
	return throwf(ErrUnbound, "unbound symbol: %s", name)
}

func typeError(format string, args ...interface{}) *Value {
	return throwf(ErrType, format, args...)
}

func arityError(format string, args ...interface{}) *Value {
	return throwf(ErrArity, format, args...)
}

func notCallableError(v *Value) *Value {
	return throwf(ErrNotCallable, "not callable: %v", v)
}

func runtimeError(format string, args ...interface{}) *Value {
	return throwf(ErrRuntime, format, args...)
}

// ParseError signals a reader failure.  It is exported so the parser
// package, which constructs forms but has no special access to this
// package's panic convention, can report failures uniformly.
func ParseError(format string, args ...interface{}) *EvalError {
	return newError(ErrParse, format, args...)
}

// Recover turns a panicking *EvalError into a returned error, for use at a
// top-level driver boundary.  Any other panic value is re-raised: only the
// language's own signaled errors are meant to be caught here, never a
// genuine implementation bug.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if ee, ok := r.(*EvalError); ok {
		*errp = ee
		return
	}
	panic(r)
}
