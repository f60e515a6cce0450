package interpreter

import (
	"testing"

	"lispy/interpreter-go/pkg/runtime"
)

// evalSource evaluates each line of src in order against interp and returns
// the result of the last one.
func evalSource(t *testing.T, interp *Interpreter, lines ...string) runtime.Value {
	t.Helper()
	var last runtime.Value
	for _, line := range lines {
		val, err := interp.EvalString("<test>", line)
		if err != nil {
			t.Fatalf("EvalString(%q) parse error: %v", line, err)
		}
		last = val
	}
	return last
}

func expectNumber(t *testing.T, got runtime.Value, want int64) {
	t.Helper()
	nv, ok := got.(runtime.NumberValue)
	if !ok || nv.Val != want {
		t.Fatalf("expected number %d, got %#v (%s)", want, got, runtime.String(got))
	}
}

func expectError(t *testing.T, got runtime.Value, class runtime.ErrorClass) runtime.ErrorValue {
	t.Helper()
	errVal, ok := got.(runtime.ErrorValue)
	if !ok {
		t.Fatalf("expected %v, got %#v (%s)", class, got, runtime.String(got))
	}
	if errVal.Class != class {
		t.Fatalf("expected %v, got %v: %s", class, errVal.Class, errVal.Message)
	}
	return errVal
}

func expectRendered(t *testing.T, got runtime.Value, want string) {
	t.Helper()
	if s := runtime.String(got); s != want {
		t.Fatalf("expected %s, got %s", want, s)
	}
}
