package main

import (
	"fmt"
	"os"
)

const lispyVersion = "0.0.0.0.1"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return runRepl(nil)
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintf(os.Stdout, "lispy %s\n", lispyVersion)
		return 0
	case "repl":
		return runRepl(args[1:])
	case "run":
		return runFiles(args[1:])
	case "eval":
		return runEval(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lispy [repl]")
	fmt.Fprintln(os.Stderr, "  lispy run <file.lspy> [file.lspy ...]")
	fmt.Fprintln(os.Stderr, "  lispy eval <expr>")
	fmt.Fprintln(os.Stderr, "  lispy --version")
}
