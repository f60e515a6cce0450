package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindSymbol
	KindError
	KindFunction
	KindSExpr
	KindQExpr
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindSymbol:
		return "Symbol"
	case KindError:
		return "Error"
	case KindFunction:
		return "Function"
	case KindSExpr:
		return "S-Expression"
	case KindQExpr:
		return "Q-Expression"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
	String() string
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val int64
}

func (v NumberValue) Kind() Kind     { return KindNumber }
func (v NumberValue) String() string { return strconv.FormatInt(v.Val, 10) }

// Number wraps an integer.
func Number(n int64) NumberValue {
	return NumberValue{Val: n}
}

type SymbolValue struct {
	Name string
}

func (v SymbolValue) Kind() Kind     { return KindSymbol }
func (v SymbolValue) String() string { return v.Name }

// Symbol wraps an identifier name.
func Symbol(name string) SymbolValue {
	return SymbolValue{Name: name}
}

//-----------------------------------------------------------------------------
// Errors
//-----------------------------------------------------------------------------

// ErrorClass buckets language-level failures.
type ErrorClass int

const (
	ErrSyntax ErrorClass = iota
	ErrNumericOverflow
	ErrType
	ErrArity
	ErrUnboundSymbol
	ErrDivideByZero
	ErrNotAFunction
	ErrTooManyArguments
)

func (c ErrorClass) String() string {
	switch c {
	case ErrSyntax:
		return "SyntaxError"
	case ErrNumericOverflow:
		return "NumericOverflowError"
	case ErrType:
		return "TypeError"
	case ErrArity:
		return "ArityError"
	case ErrUnboundSymbol:
		return "UnboundSymbolError"
	case ErrDivideByZero:
		return "DivideByZeroError"
	case ErrNotAFunction:
		return "NotAFunctionError"
	case ErrTooManyArguments:
		return "TooManyArgumentsError"
	default:
		return fmt.Sprintf("unknown_error_%d", int(c))
	}
}

// ErrorValue is a first-class error. Errors flow through evaluation as
// ordinary values and are never raised.
type ErrorValue struct {
	Class   ErrorClass
	Message string
}

func (v ErrorValue) Kind() Kind     { return KindError }
func (v ErrorValue) String() string { return v.Message }

// NewError builds an error value with a fixed message.
func NewError(class ErrorClass, msg string) ErrorValue {
	return ErrorValue{Class: class, Message: msg}
}

// Errorf builds an error value with a formatted message.
func Errorf(class ErrorClass, format string, args ...any) ErrorValue {
	return ErrorValue{Class: class, Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether v is an error value.
func IsError(v Value) bool {
	_, ok := v.(ErrorValue)
	return ok
}

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

const functionPlaceholder = "<function>"

// NativeCallContext provides hooks for native functions.
type NativeCallContext struct {
	Env *Environment
}

// NativeFunc implements a builtin. It owns args and reports failures as
// ErrorValue results.
type NativeFunc func(ctx *NativeCallContext, args *SExprValue) Value

type BuiltinValue struct {
	Name string
	Impl NativeFunc
}

func (v BuiltinValue) Kind() Kind     { return KindFunction }
func (v BuiltinValue) String() string { return functionPlaceholder }

// Builtin wraps a native implementation under name.
func Builtin(name string, impl NativeFunc) BuiltinValue {
	return BuiltinValue{Name: name, Impl: impl}
}

// ClosureValue is a user-defined function. Env is shared with every other
// closure created in the same scope; it is not copied.
type ClosureValue struct {
	Formals []SymbolValue
	Body    *SExprValue
	Env     *Environment
}

func (v *ClosureValue) Kind() Kind     { return KindFunction }
func (v *ClosureValue) String() string { return functionPlaceholder }

// NewClosure constructs a closure over env.
func NewClosure(formals []SymbolValue, body *SExprValue, env *Environment) *ClosureValue {
	return &ClosureValue{Formals: formals, Body: body, Env: env}
}

// IsFunction reports whether v can occupy operator position.
func IsFunction(v Value) bool {
	return v != nil && v.Kind() == KindFunction
}

//-----------------------------------------------------------------------------
// Expression lists
//-----------------------------------------------------------------------------

// SExprValue is an expression to be evaluated as a function application.
type SExprValue struct {
	Cells []Value
}

func (v *SExprValue) Kind() Kind     { return KindSExpr }
func (v *SExprValue) String() string { return renderCells("(", v.Cells, ")") }

// QExprValue is a quoted list; it is never evaluated implicitly.
type QExprValue struct {
	Cells []Value
}

func (v *QExprValue) Kind() Kind     { return KindQExpr }
func (v *QExprValue) String() string { return renderCells("'(", v.Cells, ")") }

// NewSExpr takes ownership of cells.
func NewSExpr(cells ...Value) *SExprValue {
	return &SExprValue{Cells: cells}
}

// NewQExpr takes ownership of cells.
func NewQExpr(cells ...Value) *QExprValue {
	return &QExprValue{Cells: cells}
}

func (v *SExprValue) Len() int { return len(v.Cells) }
func (v *QExprValue) Len() int { return len(v.Cells) }

// Add appends x and returns the receiver.
func (v *SExprValue) Add(x Value) *SExprValue {
	v.Cells = append(v.Cells, x)
	return v
}

// Add appends x and returns the receiver.
func (v *QExprValue) Add(x Value) *QExprValue {
	v.Cells = append(v.Cells, x)
	return v
}

// Pop removes and returns the element at i, shifting the rest down.
func (v *SExprValue) Pop(i int) Value {
	var x Value
	x, v.Cells = popCell(v.Cells, i)
	return x
}

// Pop removes and returns the element at i, shifting the rest down.
func (v *QExprValue) Pop(i int) Value {
	var x Value
	x, v.Cells = popCell(v.Cells, i)
	return x
}

// Take extracts the element at i and discards the rest of the list.
func (v *SExprValue) Take(i int) Value {
	x := v.Pop(i)
	v.Cells = nil
	return x
}

// Take extracts the element at i and discards the rest of the list.
func (v *QExprValue) Take(i int) Value {
	x := v.Pop(i)
	v.Cells = nil
	return x
}

// ToQExpr re-tags the list as quoted data. The receiver must not be used
// afterwards.
func (v *SExprValue) ToQExpr() *QExprValue {
	q := &QExprValue{Cells: v.Cells}
	v.Cells = nil
	return q
}

// ToSExpr re-tags the list as code. The receiver must not be used afterwards.
func (v *QExprValue) ToSExpr() *SExprValue {
	s := &SExprValue{Cells: v.Cells}
	v.Cells = nil
	return s
}

func popCell(cells []Value, i int) (Value, []Value) {
	x := cells[i]
	copy(cells[i:], cells[i+1:])
	cells[len(cells)-1] = nil
	return x, cells[:len(cells)-1]
}

func renderCells(open string, cells []Value, close string) string {
	var b strings.Builder
	b.WriteString(open)
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(String(cell))
	}
	b.WriteString(close)
	return b.String()
}

//-----------------------------------------------------------------------------
// Structural operations
//-----------------------------------------------------------------------------

// String renders v the way the REPL prints it, tolerating nil.
func String(v Value) string {
	if v == nil {
		return "()"
	}
	return v.String()
}

// Copy returns a deep copy of v. Lists are duplicated element by element;
// builtins share their native implementation and closures share their
// captured environment.
func Copy(v Value) Value {
	switch val := v.(type) {
	case nil:
		return nil
	case NumberValue, SymbolValue, ErrorValue, BuiltinValue:
		return val
	case *ClosureValue:
		formals := make([]SymbolValue, len(val.Formals))
		copy(formals, val.Formals)
		return &ClosureValue{Formals: formals, Body: copySExpr(val.Body), Env: val.Env}
	case *SExprValue:
		return copySExpr(val)
	case *QExprValue:
		if val == nil {
			return (*QExprValue)(nil)
		}
		return &QExprValue{Cells: copyCells(val.Cells)}
	default:
		panic(fmt.Sprintf("runtime: cannot copy value of type %T", v))
	}
}

func copySExpr(v *SExprValue) *SExprValue {
	if v == nil {
		return nil
	}
	return &SExprValue{Cells: copyCells(v.Cells)}
}

func copyCells(cells []Value) []Value {
	if cells == nil {
		return nil
	}
	out := make([]Value, len(cells))
	for i, cell := range cells {
		out[i] = Copy(cell)
	}
	return out
}

// Equal reports structural equality. Builtins compare by name; closures by
// formals and body.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case NumberValue:
		return x.Val == b.(NumberValue).Val
	case SymbolValue:
		return x.Name == b.(SymbolValue).Name
	case ErrorValue:
		y := b.(ErrorValue)
		return x.Class == y.Class && x.Message == y.Message
	case BuiltinValue:
		y, ok := b.(BuiltinValue)
		return ok && x.Name == y.Name
	case *ClosureValue:
		y, ok := b.(*ClosureValue)
		if !ok || len(x.Formals) != len(y.Formals) {
			return false
		}
		for i := range x.Formals {
			if x.Formals[i] != y.Formals[i] {
				return false
			}
		}
		return Equal(x.Body, y.Body)
	case *SExprValue:
		return cellsEqual(x.Cells, b.(*SExprValue).Cells)
	case *QExprValue:
		return cellsEqual(x.Cells, b.(*QExprValue).Cells)
	default:
		return false
	}
}

func cellsEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
