// Package reader converts parse trees into runtime values. It is pure: it
// performs no evaluation and no I/O.
package reader

import (
	"errors"
	"strconv"
	"strings"

	"lispy/interpreter-go/pkg/ast"
	"lispy/interpreter-go/pkg/runtime"
)

// Class is the reader's interpretation of a node tag.
type Class int

const (
	ClassUnknown Class = iota
	ClassNumber
	ClassSymbol
	ClassSExpr
	ClassQExpr
)

// Classify maps a node tag onto a reader class. Tags may be composite
// ("expr|number|regex"), so matching is by substring; the root wrapper is
// the exact tag ">".
func Classify(tag string) Class {
	switch {
	case strings.Contains(tag, "number"):
		return ClassNumber
	case strings.Contains(tag, "symbol"):
		return ClassSymbol
	case strings.Contains(tag, "qexpr"):
		return ClassQExpr
	case strings.Contains(tag, "sexpr"), tag == ast.TagRoot:
		return ClassSExpr
	default:
		return ClassUnknown
	}
}

// Read converts n into a value tree. The only error values it produces are
// numeric overflow for out-of-range literals and syntax errors for nodes it
// cannot classify.
func Read(n ast.Node) runtime.Value {
	switch Classify(n.Tag()) {
	case ClassNumber:
		return readNumber(n.Contents())
	case ClassSymbol:
		return runtime.Symbol(n.Contents())
	case ClassSExpr:
		return runtime.NewSExpr(readChildren(n, false)...)
	case ClassQExpr:
		return runtime.NewQExpr(readChildren(n, true)...)
	default:
		return runtime.Errorf(runtime.ErrSyntax, "unrecognised node '%s'", n.Tag())
	}
}

func readNumber(text string) runtime.Value {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return runtime.NewError(runtime.ErrNumericOverflow, "invalid number")
		}
		return runtime.Errorf(runtime.ErrSyntax, "malformed number '%s'", text)
	}
	return runtime.Number(n)
}

func readChildren(n ast.Node, quoted bool) []runtime.Value {
	children := n.Children()
	cells := make([]runtime.Value, 0, len(children))
	for i, child := range children {
		if skipChild(child, quoted && i == 0) {
			continue
		}
		cells = append(cells, Read(child))
	}
	return cells
}

func skipChild(child ast.Node, leading bool) bool {
	switch child.Contents() {
	case "(", ")":
		if len(child.Children()) == 0 {
			return true
		}
	case "'":
		if leading {
			return true
		}
	}
	return ast.IsRaw(child)
}
