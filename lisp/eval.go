package lisp

// specialForm is the signature of a special-form handler: it receives the
// environment active at the call site, the unevaluated argument forms (the
// cdr of the form being dispatched, i.e. excluding the head symbol), and
// whether the form occupies tail position.  A handler either returns a
// final value (nextForm == nil) or asks Eval's trampoline to continue
// evaluating nextForm in nextEnv in place of a nested call (nextForm !=
// nil, result ignored).
type specialForm func(env *Env, args *Value, tail bool) (result *Value, nextEnv *Env, nextForm *Value)

var specialForms map[string]specialForm

func init() {
	specialForms = map[string]specialForm{
		"if":     sfIf,
		"quote":  sfQuote,
		"do":     sfDo,
		"define": sfDefine,
		"set!":   sfSetBang,
		"let":    sfLet,
		"let*":   sfLetSeq,
		"lambda": sfLambda,
		"macro":  sfMacroDef,
	}
}

// EvalTop is the entry point driven by external collaborators (the REPL,
// `load`): fully macro-expand form, then evaluate it.  EvalTop does not
// recover panics; the nearest top-level driver (repl.Run, or Env.LoadFile
// for each form of a loaded file) is responsible for that.
func EvalTop(env *Env, form *Value) *Value {
	return Eval(env, Expand(env, form), false)
}

// Eval evaluates form in env; tail reports whether form occupies tail
// position.  Eval is a trampoline: a call that lands in tail position
// (an `if`/`do`/`let` branch, or a procedure body's final form) is run by
// looping back to the top with env/form reassigned, rather than by a
// nested Go call, so a Lisp-level tail-recursive definition runs in O(1)
// Go stack depth no matter how many times it recurses. Every helper below
// that participates in this loop (the specialForm handlers, applyProc,
// evalBody) reports a tail continuation the same way, by returning a
// non-nil nextForm instead of evaluating it itself.
func Eval(env *Env, form *Value, tail bool) *Value {
	for {
		switch form.Type {
		case TSymbol:
			return env.Lookup(form)
		case TInteger, TString:
			return form
		case TCons:
			// fall through to application dispatch below
		default:
			// Proc, Macro, and Builtin values can appear as literal data (for
			// example the result of quoting a lambda expression is never
			// produced by this language, but a value built by `cons` could
			// embed one); they evaluate to themselves.
			return form
		}

		head := form.Car
		if head.Type == TSymbol {
			if sf, ok := specialForms[head.Str]; ok {
				result, nextEnv, nextForm := sf(env, form.Cdr, tail)
				if nextForm == nil {
					return result
				}
				env, form = nextEnv, nextForm
				continue
			}
		}

		fn := Eval(env, head, false)
		switch fn.Type {
		case TProc:
			args := evalArgList(env, form.Cdr)
			result, nextEnv, nextForm := applyProc(env, fn, args, tail)
			if nextForm == nil {
				return result
			}
			env, form, tail = nextEnv, nextForm, true
			continue
		case TBuiltin:
			args := evalArgList(env, form.Cdr)
			return fn.Builtin(env, args)
		case TMacro:
			return typeError("macro used in evaluation position: %v", head)
		default:
			return notCallableError(fn)
		}
	}
}

// evalArgList evaluates each element of a proper argument list in env,
// left to right.
func evalArgList(env *Env, list *Value) []*Value {
	if !list.IsProperList() {
		runtimeError("argument list is not a proper list")
	}
	args := list.ListSlice()
	out := make([]*Value, len(args))
	for i, a := range args {
		out[i] = Eval(env, a, false)
	}
	return out
}

// evalBody evaluates a proper list of body forms: all but the last
// discarding their results, the last in the given tail position.  An empty
// body evaluates to `null`, the same rule `do` uses, reused here since
// lambda/macro bodies share the same implicit-do shape. When tail is true
// the last form is handed back as a continuation for Eval's trampoline
// instead of being evaluated here, so evalBody never itself adds a Go
// stack frame per Lisp-level tail call.
func evalBody(env *Env, body []*Value, tail bool) (*Value, *Env, *Value) {
	if len(body) == 0 {
		return Nil(), nil, nil
	}
	for _, form := range body[:len(body)-1] {
		Eval(env, form, false)
	}
	last := body[len(body)-1]
	if tail {
		return nil, env, last
	}
	return Eval(env, last, false), nil, nil
}

// bindParams performs lockstep symbol/value binding into target, with a
// dotted-tail rest symbol collecting any remaining arguments as a proper
// list.  Used identically for procedure application (evaluated args) and
// macro expansion (unevaluated arg forms).
func bindParams(target *Env, formals *Value, args []*Value) {
	f := formals
	i := 0
	for f.Type == TCons {
		param := f.Car
		if param.Type != TSymbol {
			typeError("parameter list contains a non-symbol: %v", param)
		}
		if i >= len(args) {
			arityError("too few arguments: expected at least %d, got %d", formalsMinLen(formals), len(args))
		}
		target.Bind(param.Str, args[i])
		i++
		f = f.Cdr
	}
	switch {
	case f.Type == TSymbol && !f.IsNil():
		target.Bind(f.Str, SliceToList(args[i:]))
	case f.IsNil():
		if i != len(args) {
			arityError("too many arguments: expected %d, got %d", i, len(args))
		}
	default:
		typeError("parameter list tail is not a symbol or null: %v", f)
	}
}

// formalsMinLen counts the fixed (non-rest) parameters in formals, used only
// to phrase arity_error messages.
func formalsMinLen(formals *Value) int {
	n := 0
	for f := formals; f.Type == TCons; f = f.Cdr {
		n++
	}
	return n
}

// applyProc implements procedure application together with the tail-call
// merge rule.  args are already-evaluated values.  callerEnv is the frame
// active at the call site; when the call occupies tail position and
// callerEnv is not closed, the freshly bound frame is merged into
// callerEnv instead of chained, bounding Env-chain growth at O(1) for a
// tail-recursive definition. The body's last form is always handed back as
// a trampoline continuation (see evalBody) so the Go call stack is bounded
// the same way the Env chain is.
func applyProc(callerEnv *Env, proc *Value, args []*Value, tail bool) (*Value, *Env, *Value) {
	callEnv := callerEnv.withLex(proc.Env)
	bindParams(callEnv, proc.Formals, args)
	if tail && !callerEnv.closed {
		callerEnv.mergeInto(callEnv)
		callEnv = callerEnv
	}
	return evalBody(callEnv, proc.Body.ListSlice(), true)
}

func sfIf(env *Env, args *Value, tail bool) (*Value, *Env, *Value) {
	n := args.ListLen()
	if n != 2 && n != 3 {
		arityError("if: expected 2 or 3 arguments, got %d", n)
	}
	forms := args.ListSlice()
	cond := Eval(env, forms[0], false)
	if !cond.IsNil() {
		return nil, env, forms[1]
	}
	if n == 3 {
		return nil, env, forms[2]
	}
	return Nil(), nil, nil
}

func sfQuote(env *Env, args *Value, tail bool) (*Value, *Env, *Value) {
	if args.ListLen() != 1 {
		arityError("quote: expected 1 argument, got %d", args.ListLen())
	}
	return args.Car, nil, nil
}

func sfDo(env *Env, args *Value, tail bool) (*Value, *Env, *Value) {
	if !args.IsProperList() {
		runtimeError("do: argument list is not a proper list")
	}
	return evalBody(env, args.ListSlice(), tail)
}

func sfDefine(env *Env, args *Value, tail bool) (*Value, *Env, *Value) {
	if args.ListLen() != 2 {
		arityError("define: expected 2 arguments, got %d", args.ListLen())
	}
	forms := args.ListSlice()
	name := forms[0]
	if name.Type != TSymbol {
		typeError("define: first argument is not a symbol: %v", name)
	}
	val := Eval(env, forms[1], false)
	env.Define(name.Str, val)
	return name, nil, nil
}

func sfSetBang(env *Env, args *Value, tail bool) (*Value, *Env, *Value) {
	if args.ListLen() != 2 {
		arityError("set!: expected 2 arguments, got %d", args.ListLen())
	}
	forms := args.ListSlice()
	name := forms[0]
	if name.Type != TSymbol {
		typeError("set!: first argument is not a symbol: %v", name)
	}
	val := Eval(env, forms[1], false)
	env.SetBang(name.Str, val)
	return val, nil, nil
}

// letBindings parses the flat alternating (s1 v1 … sn vn) binding list
// shared by `let` and `let*` -- a flat sequence, not a list of pairs.
func letBindings(bindlist *Value) (syms, forms []*Value) {
	if !bindlist.IsProperList() {
		runtimeError("let: binding list is not a proper list")
	}
	items := bindlist.ListSlice()
	if len(items)%2 != 0 {
		runtimeError("let: binding list has an odd number of elements")
	}
	for i := 0; i < len(items); i += 2 {
		sym := items[i]
		if sym.Type != TSymbol {
			typeError("let: binding name is not a symbol: %v", sym)
		}
		syms = append(syms, sym)
		forms = append(forms, items[i+1])
	}
	return syms, forms
}

func sfLet(env *Env, args *Value, tail bool) (*Value, *Env, *Value) {
	if args.ListLen() < 1 {
		arityError("let: missing binding list")
	}
	all := args.ListSlice()
	syms, forms := letBindings(all[0])
	vals := make([]*Value, len(forms))
	for i, f := range forms {
		vals[i] = Eval(env, f, false)
	}
	child := env.NewChild()
	for i, s := range syms {
		child.Bind(s.Str, vals[i])
	}
	// Same frame-reuse rule applyProc uses for a tail call: merge rather
	// than chain, so a let in tail position doesn't grow the Env chain.
	if tail && !env.closed {
		env.mergeInto(child)
		child = env
	}
	return evalBody(child, all[1:], tail)
}

func sfLetSeq(env *Env, args *Value, tail bool) (*Value, *Env, *Value) {
	if args.ListLen() < 1 {
		arityError("let*: missing binding list")
	}
	all := args.ListSlice()
	syms, forms := letBindings(all[0])
	child := env.NewChild()
	for i, s := range syms {
		child.Bind(s.Str, Eval(child, forms[i], false))
	}
	if tail && !env.closed {
		env.mergeInto(child)
		child = env
	}
	return evalBody(child, all[1:], tail)
}

func sfLambda(env *Env, args *Value, tail bool) (*Value, *Env, *Value) {
	if args.ListLen() < 1 {
		arityError("lambda: expected a parameter list and a body")
	}
	all := args.ListSlice()
	env.markClosed()
	return Proc(all[0], SliceToList(all[1:]), env), nil, nil
}

func sfMacroDef(env *Env, args *Value, tail bool) (*Value, *Env, *Value) {
	if args.ListLen() < 1 {
		arityError("macro: expected a parameter list and a body")
	}
	all := args.ListSlice()
	env.markClosed()
	return Macro(all[0], SliceToList(all[1:]), env), nil, nil
}
