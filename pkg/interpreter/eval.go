package interpreter

import "lispy/interpreter-go/pkg/runtime"

// Eval evaluates v in env. Symbols are resolved, S-expressions are applied,
// and every other value evaluates to itself.
func (i *Interpreter) Eval(env *runtime.Environment, v runtime.Value) runtime.Value {
	switch val := v.(type) {
	case runtime.SymbolValue:
		return env.Get(val.Name)
	case *runtime.SExprValue:
		return i.evalSExpr(env, val)
	default:
		return v
	}
}

// evalSExpr evaluates the cells of expr in place, left to right, and then
// applies the first cell to the rest.
func (i *Interpreter) evalSExpr(env *runtime.Environment, expr *runtime.SExprValue) runtime.Value {
	for idx := range expr.Cells {
		expr.Cells[idx] = i.Eval(env, expr.Cells[idx])
		if runtime.IsError(expr.Cells[idx]) {
			return expr.Take(idx)
		}
	}

	switch expr.Len() {
	case 0:
		return expr
	case 1:
		return expr.Take(0)
	}

	fn := expr.Pop(0)
	if !runtime.IsFunction(fn) {
		return notAFunctionError()
	}
	return i.Call(env, fn, expr)
}

// Call applies fn to already-evaluated args. Closures receiving fewer
// arguments than formals return a new closure over the remaining formals.
func (i *Interpreter) Call(env *runtime.Environment, fn runtime.Value, args *runtime.SExprValue) runtime.Value {
	switch f := fn.(type) {
	case runtime.BuiltinValue:
		return f.Impl(&runtime.NativeCallContext{Env: env}, args)
	case *runtime.ClosureValue:
		return i.callClosure(f, args)
	default:
		return notAFunctionError()
	}
}

func (i *Interpreter) callClosure(fn *runtime.ClosureValue, args *runtime.SExprValue) runtime.Value {
	scope := runtime.NewEnvironment(fn.Env)
	formals := fn.Formals

	for args.Len() > 0 {
		if len(formals) == 0 {
			return tooManyArgumentsError()
		}
		scope.PutLocal(formals[0].Name, args.Pop(0))
		formals = formals[1:]
	}

	if len(formals) > 0 {
		remaining := make([]runtime.SymbolValue, len(formals))
		copy(remaining, formals)
		return runtime.NewClosure(remaining, runtime.Copy(fn.Body).(*runtime.SExprValue), scope)
	}

	body := runtime.Copy(fn.Body).(*runtime.SExprValue)
	return i.Eval(scope, body)
}
