package lisp

import "sync"

// symbol is the process-wide interned representation of a name.  Symbol
// identity is the identity of this struct: two Values wrapping the same
// *symbol are the same symbol, no matter how many Value wrappers were
// allocated around it.
type symbol struct {
	name string
}

// value returns a fresh Value wrapping s.  Fresh wrappers are cheap and
// disposable; what distinguishes identity is sym, not the wrapper.
func (s *symbol) value() *Value {
	return symbolValue(s)
}

// table is the process-wide symbol interner: exact-string match,
// insert-if-absent, safe for concurrent use even though the language
// runtime itself is single-threaded.
type table struct {
	mu   sync.Mutex
	syms map[string]*symbol
}

var globalTable = newTable()

func newTable() *table {
	return &table{syms: make(map[string]*symbol)}
}

// intern returns the unique *symbol for name, constructing one on first use.
func (t *table) intern(name string) *symbol {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.syms[name]; ok {
		return s
	}
	s := &symbol{name: name}
	t.syms[name] = s
	return s
}

// Intern interns name in the process-wide symbol table and returns the
// corresponding Value.  Calling Intern twice with the same name yields
// Values whose Eq holds.
func Intern(name string) *Value {
	return globalTable.intern(name).value()
}

// uninterned returns a Value wrapping a symbol that is never registered in
// the global table, so it is never Eq to any symbol the reader produces
// (or to any other uninterned symbol, even one built from the same name).
// gensym relies on this for its one freshness guarantee.
func uninterned(name string) *Value {
	return symbolValue(&symbol{name: name})
}

// distinguished symbols preregistered at startup.
var (
	symNull = globalTable.intern("null")
	symT    = globalTable.intern("t")
	symF    = globalTable.intern("f")
	symExit = globalTable.intern("exit")
)

// Nil returns the distinguished empty-list/false value `null`.
func Nil() *Value { return symNull.value() }

// True returns the distinguished `t` value.
func True() *Value { return symT.value() }

// False returns the distinguished `f` value.
func False() *Value { return symF.value() }

// Exit returns the distinguished `exit` value the REPL watches for.
func Exit() *Value { return symExit.value() }

// Bool converts a Go boolean into the language's `t`/`f` convention.  Most
// special forms and builtins instead treat "anything but null" as true and
// return `null` for false; Bool is used by the handful of predicates and
// comparisons that specifically return `t`/`f`.
func Bool(b bool) *Value {
	if b {
		return True()
	}
	return False()
}
