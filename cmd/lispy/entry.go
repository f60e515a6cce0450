package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"lispy/interpreter-go/pkg/driver"
	"lispy/interpreter-go/pkg/interpreter"
	"lispy/interpreter-go/pkg/runtime"
)

// loadConfigFrom finds lispy.yml from dir upwards, falling back to defaults
// when none exists.
func loadConfigFrom(dir string) (*driver.Config, error) {
	path, err := driver.FindConfig(dir)
	if err != nil {
		if errors.Is(err, driver.ErrConfigNotFound) {
			return driver.DefaultConfig(), nil
		}
		return nil, err
	}
	return driver.LoadConfig(path)
}

// newLoader builds an interpreter with the configured libraries and prelude
// already evaluated.
func newLoader(cfg *driver.Config) (*driver.Loader, error) {
	loader := driver.NewLoader(interpreter.New())
	if len(cfg.Libraries) > 0 {
		cacheDir, err := driver.CacheDir()
		if err != nil {
			return nil, err
		}
		if err := loader.LoadLibraries(cfg, driver.NewGitFetcher(cacheDir)); err != nil {
			return nil, err
		}
	}
	if err := loader.LoadPrelude(cfg); err != nil {
		return nil, err
	}
	return loader, nil
}

func setup() (*driver.Config, *driver.Loader, bool) {
	cfg, err := loadConfigFrom(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return nil, nil, false
	}
	loader, err := newLoader(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return nil, nil, false
	}
	return cfg, loader, true
}

func runFiles(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "lispy run requires at least one file")
		printUsage()
		return 1
	}
	cfg, loader, ok := setup()
	if !ok {
		return 1
	}
	if cfg.Echo {
		loader.Echo = os.Stdout
		loader.AST = cfg.AST
	}
	for _, path := range args {
		result, err := loader.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		if !cfg.Echo {
			fmt.Fprintln(os.Stdout, runtime.String(result))
		}
	}
	return 0
}

func runEval(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "lispy eval requires an expression")
		printUsage()
		return 1
	}
	_, loader, ok := setup()
	if !ok {
		return 1
	}
	result, err := loader.Interp.EvalString("<eval>", strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if runtime.IsError(result) {
		fmt.Fprintln(os.Stderr, runtime.String(result))
		return 1
	}
	fmt.Fprintln(os.Stdout, runtime.String(result))
	return 0
}
