package runtime

import (
	"sort"
	"sync"
)

// Environment provides lexical scoping for runtime values. Each scope owns
// copies of the values stored in it; the parent is only traversed, never
// modified, except by DefGlobal which targets the root.
type Environment struct {
	values map[string]Value
	parent *Environment
	mu     sync.RWMutex
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	e.mu.RLock()
	parent := e.parent
	e.mu.RUnlock()
	return parent
}

// Root walks the parent chain to the outermost scope.
func (e *Environment) Root() *Environment {
	env := e
	for {
		parent := env.Parent()
		if parent == nil {
			return env
		}
		env = parent
	}
}

// Get returns a copy of the binding from the nearest enclosing scope, or an
// unbound-symbol error value.
func (e *Environment) Get(name string) Value {
	e.mu.RLock()
	if v, ok := e.values[name]; ok {
		out := Copy(v)
		e.mu.RUnlock()
		return out
	}
	parent := e.parent
	e.mu.RUnlock()
	if parent != nil {
		return parent.Get(name)
	}
	return Errorf(ErrUnboundSymbol, "unbound symbol '%s'", name)
}

// PutLocal inserts or overwrites a binding in the current scope only.
func (e *Environment) PutLocal(name string, value Value) {
	stored := Copy(value)
	e.mu.Lock()
	e.values[name] = stored
	e.mu.Unlock()
}

// DefGlobal inserts or overwrites a binding in the root scope.
func (e *Environment) DefGlobal(name string, value Value) {
	e.Root().PutLocal(name, value)
}

// Has reports whether the binding exists anywhere in the scope chain.
func (e *Environment) Has(name string) bool {
	e.mu.RLock()
	if _, ok := e.values[name]; ok {
		e.mu.RUnlock()
		return true
	}
	parent := e.parent
	e.mu.RUnlock()
	if parent != nil {
		return parent.Has(name)
	}
	return false
}

// HasInCurrentScope reports whether the binding exists in the current scope.
func (e *Environment) HasInCurrentScope(name string) bool {
	e.mu.RLock()
	_, ok := e.values[name]
	e.mu.RUnlock()
	return ok
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	e.mu.RLock()
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	e.mu.RUnlock()
	sort.Strings(keys)
	return keys
}
