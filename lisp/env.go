package lisp

import "io"

// Env is one frame of the environment chain. Bindings map a symbol's name
// to a Value; an uninterned symbol (from gensym) and an interned symbol of
// the same name therefore share one binding. outer is the frame in whose
// evaluation this frame was created (named Outer rather than Parent since
// it combines the caller and lexical-enclosing axes); lex is the
// separately-tracked lexical-capture chain, which lexical resolution
// consults before outer.
type Env struct {
	bindings map[string]*Value
	outer    *Env
	lex      *Env
	closed   bool
	root     *Env

	// rt holds runtime-wide state and is only set on the root frame; every
	// frame reaches it through root.
	rt *runtime
}

// runtime holds process-wide, root-frame-owned mutable state: the gensym
// counter and the stream configuration installed via Config options.
type runtime struct {
	gensymCounter int
	stdout        io.Writer
	stderr        io.Writer
	stdin         io.Reader
	reader        Reader
}

// Reader reads one form from r.  Implemented by the parser package;
// referenced here only as an interface so that the `read` and `load`
// builtins can be wired without lisp importing parser.
type Reader interface {
	Read(r io.Reader) (*Value, error)
}

// Config configures a freshly constructed root Env as a functional option.
type Config func(*runtime)

// WithStdout overrides the writer used by `print`/`println`/the REPL.
func WithStdout(w io.Writer) Config {
	return func(rt *runtime) { rt.stdout = w }
}

// WithStderr overrides the writer used by diagnostic builtins such as
// `env-print`.
func WithStderr(w io.Writer) Config {
	return func(rt *runtime) { rt.stderr = w }
}

// WithStdin overrides the reader used by the `read` builtin.
func WithStdin(r io.Reader) Config {
	return func(rt *runtime) { rt.stdin = r }
}

// WithReader installs the Reader used by `read` and `load`.  There is no
// default; a root Env constructed without WithReader cannot service those
// two builtins (they return a runtime_error).
func WithReader(r Reader) Config {
	return func(rt *runtime) { rt.reader = r }
}

// NewRoot constructs the root environment, preregisters the distinguished
// symbols bound to themselves, and binds the built-in library.
func NewRoot(opts ...Config) *Env {
	rt := &runtime{}
	for _, opt := range opts {
		opt(rt)
	}
	env := &Env{bindings: make(map[string]*Value), rt: rt}
	env.root = env
	env.bindings[symNull.name] = Nil()
	env.bindings[symT.name] = True()
	env.bindings[symF.name] = False()
	env.bindings[symExit.name] = Exit()
	installBuiltins(env)
	return env
}

// NewChild returns a frame whose outer link is env.  NewChild is used by
// `let`, `let*`, and procedure/macro application.
func (env *Env) NewChild() *Env {
	return &Env{
		bindings: make(map[string]*Value),
		outer:    env,
		root:     env.root,
		rt:       env.rt,
	}
}

// withLex returns a frame exactly like env but whose lexical-capture chain
// is lex.  Procedure/macro application binds parameters in such a frame so
// that unresolved names fall back to the captured closure environment
// before falling back further to env's outer chain.
func (env *Env) withLex(lex *Env) *Env {
	child := env.NewChild()
	child.lex = lex
	return child
}

// markClosed flags env as captured by a Proc or Macro being constructed in
// it: "closed" is set on the frame that *constructs* the procedure, not on
// the captured frame, and once set tail-call merging into it is
// permanently disabled.
func (env *Env) markClosed() {
	env.closed = true
}

// isRootBound reports whether name is bound in the root frame, the test
// used to choose dynamic vs. lexical resolution.
func (env *Env) isRootBound(name string) bool {
	_, ok := env.root.bindings[name]
	return ok
}

// resolve finds the frame that would service a lookup of name: dynamic
// scope (walk only outer) for names bound in the root frame, lexical scope
// otherwise.
func (env *Env) resolve(name string) *Env {
	if env.isRootBound(name) {
		for f := env; f != nil; f = f.outer {
			if _, ok := f.bindings[name]; ok {
				return f
			}
		}
		return nil
	}
	return env.resolveLex(name)
}

// resolveLex is the lexical-scope search: try env's own bindings, then
// recurse into env.lex's full lex/outer search, then into env.outer's full
// lex/outer search. A flat walk of lex then a flat walk of outer is not
// equivalent -- it misses a name reachable through an intermediate frame's
// own lex or outer link, which is exactly the case of a closure built
// inside a `let` nested in an enclosing procedure.
func (env *Env) resolveLex(name string) *Env {
	if env == nil {
		return nil
	}
	if _, ok := env.bindings[name]; ok {
		return env
	}
	if f := env.lex.resolveLex(name); f != nil {
		return f
	}
	return env.outer.resolveLex(name)
}

// Lookup resolves sym to its bound value; it panics with an *EvalError of
// kind ErrUnbound when sym cannot be resolved.
func (env *Env) Lookup(sym *Value) *Value {
	f := env.resolve(sym.Str)
	if f == nil {
		return unboundError(sym.Str)
	}
	return f.bindings[sym.Str]
}

// Bind inserts or overwrites name in env only.
func (env *Env) Bind(name string, v *Value) {
	env.bindings[name] = v
}

// Define binds name in the root frame regardless of env, per the `define`
// special form.
func (env *Env) Define(name string, v *Value) {
	env.root.bindings[name] = v
}

// SetBang implements `set!`: bind name in the frame returned by resolve,
// falling back to the root frame when name is unresolved, so an
// unresolved set! behaves as a top-level define.
func (env *Env) SetBang(name string, v *Value) {
	f := env.resolve(name)
	if f == nil {
		f = env.root
	}
	f.bindings[name] = v
}

// mergeInto merges src's bindings into env, overwriting, and adopts src's
// lex chain -- the tail-call frame-reuse step that keeps the Env chain
// itself from growing. It is paired with Eval's trampoline, which keeps
// the Go call stack from growing for the same tail call; mergeInto alone
// only bounds the interpreter's own frame chain. mergeInto must only be
// called when env is not closed.
func (env *Env) mergeInto(src *Env) {
	for k, v := range src.bindings {
		env.bindings[k] = v
	}
	if src.lex != nil {
		env.lex = src.lex
	}
}

// Stdout, Stderr, and ConfiguredReader expose a root-configured Env's
// streams to collaborators outside this package (the REPL, the CLI).
func (env *Env) Stdout() io.Writer { return env.stdout() }

// Stderr returns the writer diagnostics are written to.
func (env *Env) Stderr() io.Writer { return env.stderr() }

// ConfiguredReader returns the Reader installed via WithReader, or nil.
func (env *Env) ConfiguredReader() Reader { return env.reader() }

func (env *Env) stdout() io.Writer {
	if env.root.rt.stdout != nil {
		return env.root.rt.stdout
	}
	return defaultStdout
}

func (env *Env) stderr() io.Writer {
	if env.root.rt.stderr != nil {
		return env.root.rt.stderr
	}
	return defaultStderr
}

func (env *Env) stdin() io.Reader {
	if env.root.rt.stdin != nil {
		return env.root.rt.stdin
	}
	return defaultStdin
}

func (env *Env) reader() Reader {
	return env.root.rt.reader
}

func (env *Env) nextGensymID() int {
	env.root.rt.gensymCounter++
	return env.root.rt.gensymCounter
}
