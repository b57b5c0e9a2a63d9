package lisp

// Expand walks a form recursively, and any subform whose head symbol
// resolves to a Macro value is replaced by the result of evaluating the
// macro's body with its parameters bound to the unevaluated argument
// forms, with the replacement itself expanded before expansion continues.
// `(quote x)` is left untouched, with no descent into x: the check for a
// literal `quote` head is hard-coded ahead of any environment lookup.
func Expand(env *Env, form *Value) *Value {
	if form.Type != TCons {
		return form
	}
	if isQuoteForm(form) {
		return form
	}

	head := form.Car
	if head.Type == TSymbol {
		if f := env.resolve(head.Str); f != nil {
			if m := f.bindings[head.Str]; m.Type == TMacro {
				return Expand(env, expandMacroCall(env, m, form.Cdr))
			}
		}
	}

	return MakeCons(Expand(env, form.Car), Expand(env, form.Cdr))
}

func isQuoteForm(form *Value) bool {
	return form.Car.Type == TSymbol && form.Car.Str == "quote"
}

// expandMacroCall runs one macro invocation: bind the macro's parameters to
// the call's unevaluated argument forms in a fresh frame lexically closing
// over the macro's defining environment, then evaluate the body there.
// Unlike applyProc, there is no tail-position frame merge here -- macro
// expansion happens once, ahead of evaluation.
func expandMacroCall(callSite *Env, macro *Value, argForms *Value) *Value {
	if !argForms.IsProperList() {
		runtimeError("macro call argument list is not a proper list")
	}
	callEnv := callSite.withLex(macro.Env)
	bindParams(callEnv, macro.Formals, argForms.ListSlice())
	result, _, _ := evalBody(callEnv, macro.Body.ListSlice(), false)
	return result
}
