package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lispy/interpreter-go/pkg/ast"
	"lispy/interpreter-go/pkg/interpreter"
	"lispy/interpreter-go/pkg/parser"
	"lispy/interpreter-go/pkg/reader"
	"lispy/interpreter-go/pkg/runtime"
)

// EvalError reports a top-level form that evaluated to an error value.
type EvalError struct {
	Name  string
	Form  int
	Pos   ast.Position
	Value runtime.ErrorValue
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s:%s: form %d: %s", e.Name, e.Pos, e.Form, e.Value.Message)
}

// Loader evaluates source files form by form against an interpreter.
type Loader struct {
	Interp *interpreter.Interpreter
	// Echo, when set, receives each read form and its result.
	Echo io.Writer
	// AST, when set alongside Echo, dumps each form's parse tree first.
	AST bool
}

// NewLoader returns a loader for interp with echo disabled.
func NewLoader(interp *interpreter.Interpreter) *Loader {
	return &Loader{Interp: interp}
}

// LoadFile reads path and evaluates its top-level forms in order, returning
// the last result.
func (l *Loader) LoadFile(path string) (runtime.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return l.LoadSource(path, string(data))
}

// LoadSource evaluates each top-level form of src and returns the last
// result. Loading stops at the first syntax error or error value.
func (l *Loader) LoadSource(name, src string) (runtime.Value, error) {
	if l.Interp == nil {
		return nil, fmt.Errorf("loader: nil interpreter")
	}
	forms, err := parser.ParseForms(name, src)
	if err != nil {
		return nil, err
	}
	var last runtime.Value = runtime.NewSExpr()
	for idx, form := range forms {
		if l.Echo != nil && l.AST {
			if err := ast.Dump(l.Echo, form); err != nil {
				return nil, fmt.Errorf("loader: dump %s: %w", name, err)
			}
		}
		expr := reader.Read(form)
		if l.Echo != nil {
			fmt.Fprintf(l.Echo, "sexpr: %s\n", runtime.String(expr))
		}
		result := l.Interp.Eval(l.Interp.GlobalEnvironment(), expr)
		if l.Echo != nil {
			fmt.Fprintf(l.Echo, "eval sexpr: %s\n", runtime.String(result))
		}
		if errVal, ok := result.(runtime.ErrorValue); ok {
			return nil, &EvalError{Name: name, Form: idx + 1, Pos: form.Span.Start, Value: errVal}
		}
		last = result
	}
	return last, nil
}

// LoadPrelude evaluates every prelude file listed in cfg.
func (l *Loader) LoadPrelude(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	for _, path := range cfg.Prelude {
		if _, err := l.LoadFile(path); err != nil {
			return err
		}
	}
	return nil
}

// LoadLibraries fetches each configured library and evaluates its files.
func (l *Loader) LoadLibraries(cfg *Config, fetcher *GitFetcher) error {
	if cfg == nil || len(cfg.Libraries) == 0 {
		return nil
	}
	if fetcher == nil {
		return fmt.Errorf("loader: libraries configured but no git fetcher available")
	}
	for _, lib := range cfg.Libraries {
		dir, err := fetcher.Fetch(lib)
		if err != nil {
			return fmt.Errorf("loader: library %s: %w", lib.Name, err)
		}
		for _, file := range lib.Files {
			path := filepath.Join(dir, filepath.FromSlash(file))
			rel, err := filepath.Rel(dir, path)
			if err != nil || filepath.IsAbs(file) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return fmt.Errorf("loader: library %s: file %q escapes the checkout", lib.Name, file)
			}
			if _, err := l.LoadFile(path); err != nil {
				return fmt.Errorf("loader: library %s: %w", lib.Name, err)
			}
		}
	}
	return nil
}
