package interpreter

import (
	"lispy/interpreter-go/pkg/ast"
	"lispy/interpreter-go/pkg/parser"
	"lispy/interpreter-go/pkg/reader"
	"lispy/interpreter-go/pkg/runtime"
)

// Interpreter owns the root environment and the builtins bound into it.
type Interpreter struct {
	global *runtime.Environment
}

// New returns an interpreter whose global environment holds every builtin.
func New() *Interpreter {
	i := &Interpreter{global: runtime.NewEnvironment(nil)}
	i.registerBuiltins()
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// EvalNode reads a parse tree and evaluates it in the global environment.
func (i *Interpreter) EvalNode(node ast.Node) runtime.Value {
	return i.Eval(i.global, reader.Read(node))
}

// EvalString parses src with the reference parser and evaluates the
// resulting tree. The returned error is reserved for syntax errors; language
// failures come back as runtime.ErrorValue results.
func (i *Interpreter) EvalString(name, src string) (runtime.Value, error) {
	tree, err := parser.Parse(name, src)
	if err != nil {
		return nil, err
	}
	return i.EvalNode(tree), nil
}
