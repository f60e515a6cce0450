package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"lispy/interpreter-go/pkg/ast"
	"lispy/interpreter-go/pkg/interpreter"
	"lispy/interpreter-go/pkg/parser"
	"lispy/interpreter-go/pkg/reader"
	"lispy/interpreter-go/pkg/runtime"
)

// lineReader is the subset of *liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type replSession struct {
	interp  *interpreter.Interpreter
	prompt  string
	out     io.Writer
	errOut  io.Writer
	echo    bool
	showAST bool
}

func printBanner(w io.Writer) {
	fmt.Fprintf(w, "Lispy Version %s\n", lispyVersion)
	fmt.Fprintln(w, "Press Ctrl+c to exit")
	fmt.Fprintln(w)
}

func runRepl(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "lispy repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return 1
	}
	cfg, loader, ok := setup()
	if !ok {
		return 1
	}

	printBanner(os.Stdout)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.History != "" {
		if f, err := os.Open(cfg.History); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(cfg.History); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	session := &replSession{
		interp:  loader.Interp,
		prompt:  cfg.Prompt,
		out:     os.Stdout,
		errOut:  os.Stderr,
		echo:    cfg.Echo,
		showAST: cfg.AST,
	}
	session.loop(ln)
	return 0
}

// loop reads lines until end of input, Ctrl+C or :quit.
func (s *replSession) loop(lr lineReader) {
	for {
		line, err := lr.Prompt(s.prompt)
		if err != nil {
			// io.EOF or liner.ErrPromptAborted
			fmt.Fprintln(s.out)
			return
		}
		if strings.TrimSpace(line) != "" {
			lr.AppendHistory(line)
		}
		if !s.handle(line) {
			return
		}
	}
}

// handle processes one line of input and reports whether the loop should
// keep going.
func (s *replSession) handle(line string) bool {
	trimmed := strings.TrimSpace(line)
	switch trimmed {
	case "":
		return true
	case ":quit", ":q":
		return false
	case ":env":
		fmt.Fprintln(s.out, strings.Join(s.interp.GlobalEnvironment().Keys(), " "))
		return true
	case ":ast":
		s.showAST = !s.showAST
		state := "off"
		if s.showAST {
			state = "on"
		}
		fmt.Fprintf(s.out, "ast dump %s\n", state)
		return true
	}
	if strings.HasPrefix(trimmed, ":") {
		fmt.Fprintf(s.errOut, "unknown command %s (try :env, :ast or :quit)\n", trimmed)
		return true
	}

	tree, err := parser.Parse("<stdin>", line)
	if err != nil {
		fmt.Fprintln(s.errOut, err)
		return true
	}
	if s.showAST {
		_ = ast.Dump(s.out, tree)
	}
	expr := reader.Read(tree)
	if s.echo {
		fmt.Fprintf(s.out, "sexpr: %s\n", runtime.String(expr))
	}
	result := s.interp.Eval(s.interp.GlobalEnvironment(), expr)
	if s.echo {
		fmt.Fprintf(s.out, "eval sexpr: %s\n", runtime.String(result))
	} else {
		fmt.Fprintln(s.out, runtime.String(result))
	}
	return true
}
