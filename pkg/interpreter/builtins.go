package interpreter

import "lispy/interpreter-go/pkg/runtime"

func (i *Interpreter) registerBuiltins() {
	for _, op := range []string{"+", "-", "*", "/", "min", "max"} {
		i.addBuiltin(op, arithmetic(op))
	}

	i.addBuiltin("car", builtinCar)
	i.addBuiltin("cdr", builtinCdr)
	i.addBuiltin("cons", builtinCons)
	i.addBuiltin("eval", i.builtinEval)

	i.addBuiltin("lambda", builtinLambda)
	i.addBuiltin("def", bindingBuiltin("def", (*runtime.Environment).DefGlobal))
	i.addBuiltin("put", bindingBuiltin("put", (*runtime.Environment).PutLocal))
}

func (i *Interpreter) addBuiltin(name string, impl runtime.NativeFunc) {
	i.global.PutLocal(name, runtime.Builtin(name, impl))
}

//-----------------------------------------------------------------------------
// Arithmetic
//-----------------------------------------------------------------------------

func arithmetic(op string) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args *runtime.SExprValue) runtime.Value {
		if args.Len() == 0 {
			return argumentMinimumError(op, 0, 1)
		}
		for idx, cell := range args.Cells {
			if cell.Kind() != runtime.KindNumber {
				return argumentTypeError(op, idx+1, cell.Kind(), runtime.KindNumber)
			}
		}

		acc := args.Pop(0).(runtime.NumberValue).Val
		if op == "-" && args.Len() == 0 {
			return runtime.Number(-acc)
		}

		for args.Len() > 0 {
			y := args.Pop(0).(runtime.NumberValue).Val
			switch op {
			case "+":
				acc += y
			case "-":
				acc -= y
			case "*":
				acc *= y
			case "/":
				if y == 0 {
					return divisionByZeroError()
				}
				acc /= y
			case "min":
				acc = min(acc, y)
			case "max":
				acc = max(acc, y)
			}
		}
		return runtime.Number(acc)
	}
}

//-----------------------------------------------------------------------------
// Lists
//-----------------------------------------------------------------------------

// singleList checks that args holds exactly one Q-expression.
func singleList(fn string, args *runtime.SExprValue) (*runtime.QExprValue, runtime.Value) {
	if args.Len() != 1 {
		return nil, argumentCountError(fn, args.Len(), 1)
	}
	list, ok := args.Cells[0].(*runtime.QExprValue)
	if !ok {
		return nil, argumentTypeError(fn, 1, args.Cells[0].Kind(), runtime.KindQExpr)
	}
	return list, nil
}

func builtinCar(_ *runtime.NativeCallContext, args *runtime.SExprValue) runtime.Value {
	list, errVal := singleList("car", args)
	if errVal != nil {
		return errVal
	}
	if list.Len() == 0 {
		return emptyListError("car")
	}
	return list.Take(0)
}

func builtinCdr(_ *runtime.NativeCallContext, args *runtime.SExprValue) runtime.Value {
	list, errVal := singleList("cdr", args)
	if errVal != nil {
		return errVal
	}
	if list.Len() == 0 {
		return emptyListError("cdr")
	}
	list.Pop(0)
	return list
}

func builtinCons(_ *runtime.NativeCallContext, args *runtime.SExprValue) runtime.Value {
	if args.Len() != 2 {
		return argumentCountError("cons", args.Len(), 2)
	}
	tail, ok := args.Cells[1].(*runtime.QExprValue)
	if !ok {
		return argumentTypeError("cons", 2, args.Cells[1].Kind(), runtime.KindQExpr)
	}
	if head, ok := args.Cells[0].(*runtime.QExprValue); ok {
		cells := make([]runtime.Value, 0, head.Len()+tail.Len())
		cells = append(cells, head.Cells...)
		return runtime.NewQExpr(append(cells, tail.Cells...)...)
	}
	cells := make([]runtime.Value, 0, tail.Len()+1)
	cells = append(cells, args.Cells[0])
	return runtime.NewQExpr(append(cells, tail.Cells...)...)
}

func (i *Interpreter) builtinEval(ctx *runtime.NativeCallContext, args *runtime.SExprValue) runtime.Value {
	list, errVal := singleList("eval", args)
	if errVal != nil {
		return errVal
	}
	return i.Eval(ctx.Env, list.ToSExpr())
}

//-----------------------------------------------------------------------------
// Functions & bindings
//-----------------------------------------------------------------------------

func builtinLambda(ctx *runtime.NativeCallContext, args *runtime.SExprValue) runtime.Value {
	if args.Len() != 2 {
		return argumentCountError("lambda", args.Len(), 2)
	}
	for idx, cell := range args.Cells {
		if cell.Kind() != runtime.KindQExpr {
			return argumentTypeError("lambda", idx+1, cell.Kind(), runtime.KindQExpr)
		}
	}

	params := args.Cells[0].(*runtime.QExprValue)
	formals := make([]runtime.SymbolValue, 0, params.Len())
	for _, cell := range params.Cells {
		sym, ok := cell.(runtime.SymbolValue)
		if !ok {
			return runtime.Errorf(runtime.ErrType,
				"Function 'lambda' cannot define non-symbol. Got %s, Expected %s.", cell.Kind(), runtime.KindSymbol)
		}
		formals = append(formals, sym)
	}

	body := args.Cells[1].(*runtime.QExprValue).ToSExpr()
	return runtime.NewClosure(formals, body, ctx.Env)
}

// bindingBuiltin builds def and put, which differ only in the scope they
// store into.
func bindingBuiltin(name string, store func(*runtime.Environment, string, runtime.Value)) runtime.NativeFunc {
	return func(ctx *runtime.NativeCallContext, args *runtime.SExprValue) runtime.Value {
		if args.Len() != 2 {
			return argumentCountError(name, args.Len(), 2)
		}
		target, ok := args.Cells[0].(*runtime.QExprValue)
		if !ok {
			return argumentTypeError(name, 1, args.Cells[0].Kind(), runtime.KindQExpr)
		}
		if target.Len() != 1 {
			return runtime.Errorf(runtime.ErrArity,
				"Function '%s' expects exactly one symbol to bind. Got %d.", name, target.Len())
		}
		sym, ok := target.Cells[0].(runtime.SymbolValue)
		if !ok {
			return runtime.Errorf(runtime.ErrType,
				"Function '%s' cannot define non-symbol. Got %s, Expected %s.", name, target.Cells[0].Kind(), runtime.KindSymbol)
		}
		store(ctx.Env, sym.Name, args.Cells[1])
		return runtime.NewSExpr()
	}
}
