package lisp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"
)

// installBuiltins binds the built-in library into env, which must be the
// root frame.  Each entry dispatches by Go type switch and panics with a
// typed *EvalError on mismatch, rather than returning an error value.
func installBuiltins(env *Env) {
	for _, b := range []*Value{
		BuiltinProc("eq?", bEq),
		BuiltinProc("null?", unaryPredicate(func(v *Value) bool { return v.IsNil() })),
		BuiltinProc("cons?", unaryPredicate(func(v *Value) bool { return v.Type == TCons })),
		BuiltinProc("list?", unaryPredicate(func(v *Value) bool { return v.Type == TCons || v.IsNil() })),
		BuiltinProc("symbol?", unaryPredicate(func(v *Value) bool { return v.Type == TSymbol })),
		BuiltinProc("int?", unaryPredicate(func(v *Value) bool { return v.Type == TInteger })),
		BuiltinProc("string?", unaryPredicate(func(v *Value) bool { return v.Type == TString })),
		BuiltinProc("proc?", unaryPredicate(func(v *Value) bool { return v.Type == TProc || v.Type == TBuiltin })),

		BuiltinProc("+", bAdd),
		BuiltinProc("-", bSub),
		BuiltinProc("*", bMul),
		BuiltinProc("/", bDiv),
		BuiltinProc("mod", bMod),
		BuiltinProc("=", bNumEq),
		BuiltinProc("<", bNumLt),

		BuiltinProc("car", bCar),
		BuiltinProc("cdr", bCdr),
		BuiltinProc("cons", bCons),

		BuiltinProc("print", bPrint),
		BuiltinProc("println", bPrintln),
		BuiltinProc("print-to-string", bPrintToString),

		BuiltinProc("gensym", bGensym),
		BuiltinProc("bound?", bBoundP),
		BuiltinProc("eval", bEval),
		BuiltinProc("macroexpand-all", bMacroexpandAll),
		BuiltinProc("read", bRead),
		BuiltinProc("load", bLoad),
		BuiltinProc("env-print", bEnvPrint),
		BuiltinProc("env-print-all", bEnvPrintAll),
		BuiltinProc("get-time", bGetTime),
	} {
		env.bindings[b.Name] = b
	}
}

// unaryPredicate wraps a one-argument Go predicate as a Builtin returning
// `t`/`f`, the shape shared by every type predicate.
func unaryPredicate(pred func(*Value) bool) Builtin {
	return func(env *Env, args []*Value) *Value {
		if len(args) != 1 {
			arityError("expected 1 argument, got %d", len(args))
		}
		return Bool(pred(args[0]))
	}
}

func bEq(env *Env, args []*Value) *Value {
	if len(args) == 0 {
		arityError("eq?: expected at least 1 argument")
	}
	for i := 1; i < len(args); i++ {
		if !Eq(args[i-1], args[i]) {
			return False()
		}
	}
	return True()
}

func requireInts(name string, args []*Value) []int {
	out := make([]int, len(args))
	for i, a := range args {
		if a.Type != TInteger {
			typeError("%s: argument %d is not an integer: %v", name, i+1, a)
		}
		out[i] = a.Int
	}
	return out
}

func bAdd(env *Env, args []*Value) *Value {
	ns := requireInts("+", args)
	sum := 0
	for _, n := range ns {
		sum += n
	}
	return Int(sum)
}

func bMul(env *Env, args []*Value) *Value {
	ns := requireInts("*", args)
	product := 1
	for _, n := range ns {
		product *= n
	}
	return Int(product)
}

func bSub(env *Env, args []*Value) *Value {
	if len(args) == 0 {
		arityError("-: expected at least 1 argument")
	}
	ns := requireInts("-", args)
	if len(ns) == 1 {
		return Int(-ns[0])
	}
	value := ns[0]
	for _, n := range ns[1:] {
		value -= n
	}
	return Int(value)
}

func bDiv(env *Env, args []*Value) *Value {
	if len(args) == 0 {
		arityError("/: expected at least 1 argument")
	}
	ns := requireInts("/", args)
	value := ns[0]
	for _, n := range ns[1:] {
		if n == 0 {
			runtimeError("/: division by zero")
		}
		value /= n
	}
	return Int(value)
}

func bMod(env *Env, args []*Value) *Value {
	if len(args) != 2 {
		arityError("mod: expected 2 arguments, got %d", len(args))
	}
	ns := requireInts("mod", args)
	if ns[1] == 0 {
		runtimeError("mod: division by zero")
	}
	return Int(ns[0] % ns[1])
}

func bNumEq(env *Env, args []*Value) *Value {
	if len(args) == 0 {
		arityError("=: expected at least 1 argument")
	}
	ns := requireInts("=", args)
	for i := 1; i < len(ns); i++ {
		if ns[i-1] != ns[i] {
			return Nil()
		}
	}
	return True()
}

func bNumLt(env *Env, args []*Value) *Value {
	if len(args) == 0 {
		arityError("<: expected at least 1 argument")
	}
	ns := requireInts("<", args)
	for i := 1; i < len(ns); i++ {
		if ns[i-1] >= ns[i] {
			return Nil()
		}
	}
	return True()
}

func bCar(env *Env, args []*Value) *Value {
	if len(args) != 1 || args[0].Type != TCons {
		typeError("car: expected a single cons argument")
	}
	return args[0].Car
}

func bCdr(env *Env, args []*Value) *Value {
	if len(args) != 1 || args[0].Type != TCons {
		typeError("cdr: expected a single cons argument")
	}
	return args[0].Cdr
}

func bCons(env *Env, args []*Value) *Value {
	if len(args) != 2 {
		arityError("cons: expected 2 arguments, got %d", len(args))
	}
	return MakeCons(args[0], args[1])
}

func bPrint(env *Env, args []*Value) *Value {
	w := env.stdout()
	for _, a := range args {
		fmt.Fprint(w, a.String())
	}
	return Nil()
}

func bPrintln(env *Env, args []*Value) *Value {
	w := env.stdout()
	for _, a := range args {
		fmt.Fprintln(w, a.String())
	}
	return Nil()
}

func bPrintToString(env *Env, args []*Value) *Value {
	s := ""
	for _, a := range args {
		s += a.String()
	}
	return Str(s)
}

func bGensym(env *Env, args []*Value) *Value {
	switch len(args) {
	case 0:
		n := env.nextGensymID()
		return uninterned(fmt.Sprintf("#g%d", n))
	case 1:
		if args[0].Type != TString {
			typeError("gensym: argument must be a string")
		}
		n := env.nextGensymID()
		return uninterned(fmt.Sprintf("#%s%d", args[0].Str, n))
	default:
		arityError("gensym: expected 0 or 1 arguments, got %d", len(args))
	}
	panic("unreachable")
}

func bBoundP(env *Env, args []*Value) *Value {
	if len(args) != 1 || args[0].Type != TSymbol {
		typeError("bound?: expected a single symbol argument")
	}
	return Bool(env.resolve(args[0].Str) != nil)
}

func bEval(env *Env, args []*Value) *Value {
	if len(args) != 1 {
		arityError("eval: expected 1 argument, got %d", len(args))
	}
	return EvalTop(env, args[0])
}

func bMacroexpandAll(env *Env, args []*Value) *Value {
	if len(args) != 1 {
		arityError("macroexpand-all: expected 1 argument, got %d", len(args))
	}
	return Expand(env, args[0])
}

func bRead(env *Env, args []*Value) *Value {
	if len(args) != 0 {
		arityError("read: expected 0 arguments, got %d", len(args))
	}
	r := env.reader()
	if r == nil {
		runtimeError("read: no reader configured")
	}
	form, err := r.Read(env.stdin())
	if err != nil {
		if ee, ok := err.(*EvalError); ok {
			panic(ee)
		}
		throwf(ErrParse, "read: %v", err)
	}
	return form
}

func bLoad(env *Env, args []*Value) *Value {
	if len(args) != 1 || args[0].Type != TString {
		typeError("load: expected a single string argument")
	}
	return env.LoadFile(args[0].Str)
}

// LoadFile implements the `load` builtin's behavior as an exported method,
// so the CLI's "load a script before the REPL starts" surface can reuse it
// without going through the evaluator.
func (env *Env) LoadFile(path string) *Value {
	r := env.reader()
	if r == nil {
		runtimeError("load: no reader configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return Nil()
	}
	defer f.Close()
	buf := bufio.NewReader(f)
	for {
		form, rerr := r.Read(buf)
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return Nil()
		}
		var evalErr error
		func() {
			defer Recover(&evalErr)
			EvalTop(env, form)
		}()
		if evalErr != nil {
			fmt.Fprintf(env.stderr(), "Exception error: %s\n", evalErr)
		}
	}
	return True()
}

func bEnvPrint(env *Env, args []*Value) *Value {
	if len(args) != 0 {
		arityError("env-print: expected 0 arguments, got %d", len(args))
	}
	printFrame(env.stderr(), env)
	fmt.Fprintln(env.stderr())
	return Nil()
}

func bEnvPrintAll(env *Env, args []*Value) *Value {
	if len(args) != 0 {
		arityError("env-print-all: expected 0 arguments, got %d", len(args))
	}
	for f := env; f != nil; f = f.outer {
		printFrame(env.stderr(), f)
	}
	fmt.Fprintln(env.stderr())
	return Nil()
}

func printFrame(w io.Writer, env *Env) {
	for name, v := range env.bindings {
		fmt.Fprintf(w, "%s: %s\n", name, v.String())
	}
}

// processStart anchors get-time's elapsed-milliseconds reading.  Go's
// standard library has no portable per-process CPU-time clock; wall-clock
// time elapsed since process start is the closest monotonic equivalent
// obtainable without cgo or platform-specific syscalls.
var processStart = time.Now()

func bGetTime(env *Env, args []*Value) *Value {
	if len(args) != 0 {
		arityError("get-time: expected 0 arguments, got %d", len(args))
	}
	return Int(int(time.Since(processStart).Milliseconds()))
}
