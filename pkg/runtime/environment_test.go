package runtime

import (
	"strings"
	"testing"
)

func TestEnvironmentPutLocalAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.PutLocal("answer", Number(42))

	got := env.Get("answer")
	if nv, ok := got.(NumberValue); !ok || nv.Val != 42 {
		t.Fatalf("unexpected value returned: %#v", got)
	}
}

func TestEnvironmentGetSearchesParentChain(t *testing.T) {
	root := NewEnvironment(nil)
	root.PutLocal("x", Number(1))
	child := NewEnvironment(NewEnvironment(root))

	got := child.Get("x")
	if nv, ok := got.(NumberValue); !ok || nv.Val != 1 {
		t.Fatalf("expected parent binding, got %#v", got)
	}
}

func TestEnvironmentLocalShadowsParent(t *testing.T) {
	root := NewEnvironment(nil)
	root.PutLocal("x", Number(1))
	child := NewEnvironment(root)
	child.PutLocal("x", Number(2))

	if got := child.Get("x"); !Equal(got, Number(2)) {
		t.Fatalf("child lookup = %#v, want 2", got)
	}
	if got := root.Get("x"); !Equal(got, Number(1)) {
		t.Fatalf("PutLocal leaked into parent: %#v", got)
	}
}

func TestEnvironmentUnboundSymbol(t *testing.T) {
	env := NewEnvironment(NewEnvironment(nil))
	got := env.Get("missing")
	errVal, ok := got.(ErrorValue)
	if !ok {
		t.Fatalf("expected error value, got %#v", got)
	}
	if errVal.Class != ErrUnboundSymbol {
		t.Fatalf("unexpected error class %v", errVal.Class)
	}
	if !strings.Contains(errVal.Message, "missing") {
		t.Fatalf("error message %q does not name the symbol", errVal.Message)
	}
}

func TestEnvironmentDefGlobalTargetsRoot(t *testing.T) {
	root := NewEnvironment(nil)
	middle := NewEnvironment(root)
	leaf := NewEnvironment(middle)

	leaf.DefGlobal("g", Number(7))

	if !root.HasInCurrentScope("g") {
		t.Fatalf("expected root to hold the global binding")
	}
	if middle.HasInCurrentScope("g") || leaf.HasInCurrentScope("g") {
		t.Fatalf("DefGlobal must not bind in intermediate scopes")
	}
	sibling := NewEnvironment(root)
	if got := sibling.Get("g"); !Equal(got, Number(7)) {
		t.Fatalf("sibling lookup = %#v, want 7", got)
	}
}

func TestEnvironmentStoresIndependentCopies(t *testing.T) {
	env := NewEnvironment(nil)
	list := NewQExpr(Number(1), Number(2))
	env.PutLocal("xs", list)

	list.Cells[0] = Symbol("mutated")
	got := env.Get("xs")
	if got.String() != "'(1 2)" {
		t.Fatalf("stored value aliased the caller's list: %s", got)
	}

	got.(*QExprValue).Cells = nil
	if again := env.Get("xs"); again.String() != "'(1 2)" {
		t.Fatalf("Get returned the stored list instead of a copy: %s", again)
	}
}

func TestEnvironmentKeysSorted(t *testing.T) {
	env := NewEnvironment(nil)
	for _, name := range []string{"c", "a", "b"} {
		env.PutLocal(name, Number(0))
	}
	if got := strings.Join(env.Keys(), ","); got != "a,b,c" {
		t.Fatalf("Keys = %q, want a,b,c", got)
	}
}
