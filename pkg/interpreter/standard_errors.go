package interpreter

import "lispy/interpreter-go/pkg/runtime"

func notAFunctionError() runtime.ErrorValue {
	return runtime.NewError(runtime.ErrNotAFunction, "First element must be a function.")
}

func tooManyArgumentsError() runtime.ErrorValue {
	return runtime.NewError(runtime.ErrTooManyArguments, "too many arguments")
}

func divisionByZeroError() runtime.ErrorValue {
	return runtime.NewError(runtime.ErrDivideByZero, "division by zero")
}

func argumentTypeError(fn string, index int, got, want runtime.Kind) runtime.ErrorValue {
	return runtime.Errorf(runtime.ErrType,
		"Function '%s' passed incorrect type for argument %d. Got %s, Expected %s.", fn, index, got, want)
}

func argumentCountError(fn string, got, want int) runtime.ErrorValue {
	return runtime.Errorf(runtime.ErrArity,
		"Function '%s' passed incorrect number of arguments. Got %d, Expected %d.", fn, got, want)
}

func argumentMinimumError(fn string, got, want int) runtime.ErrorValue {
	return runtime.Errorf(runtime.ErrArity,
		"Function '%s' passed incorrect number of arguments. Got %d, Expected at least %d.", fn, got, want)
}

func emptyListError(fn string) runtime.ErrorValue {
	return runtime.Errorf(runtime.ErrArity, "Function '%s' passed '().", fn)
}
