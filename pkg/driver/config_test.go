package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, `
prompt: "> "
history: ""
echo: true
ast: true
prelude:
  - lib/prelude.lspy
libraries:
  - name: std
    git: https://example.com/std.git
    tag: v1.0.0
    files: [std.lspy]
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Path != path {
		t.Fatalf("path = %q, want %q", cfg.Path, path)
	}
	if cfg.Prompt != "> " || cfg.History != "" || !cfg.Echo || !cfg.AST {
		t.Fatalf("unexpected settings: %#v", cfg)
	}
	if len(cfg.Prelude) != 1 || cfg.Prelude[0] != filepath.Join(dir, "lib", "prelude.lspy") {
		t.Fatalf("prelude = %#v", cfg.Prelude)
	}
	if len(cfg.Libraries) != 1 {
		t.Fatalf("expected one library, got %d", len(cfg.Libraries))
	}
	lib := cfg.Libraries[0]
	if lib.Name != "std" || lib.Tag != "v1.0.0" || len(lib.Files) != 1 || lib.Files[0] != "std.lspy" {
		t.Fatalf("unexpected library: %#v", lib)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, "echo: true")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Prompt != defaultPrompt {
		t.Fatalf("prompt = %q, want default", cfg.Prompt)
	}
	if cfg.History != DefaultConfig().History {
		t.Fatalf("history = %q, want default", cfg.History)
	}

	empty := filepath.Join(dir, "empty.yml")
	writeFile(t, empty, "")
	cfg, err = LoadConfig(empty)
	if err != nil {
		t.Fatalf("LoadConfig(empty) error: %v", err)
	}
	if cfg.Prompt != defaultPrompt || cfg.Echo {
		t.Fatalf("empty config should yield defaults, got %#v", cfg)
	}
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, "promt: typo")
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "config: parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, `
prelude: [""]
libraries:
  - name: a
    git: ""
    files: []
  - name: b
    git: https://example.com/b.git
    rev: abc
    branch: main
    files: [b.lspy]
  - name: b
    git: https://example.com/b.git
    rev: abc
    files: [b.lspy]
`)
	_, err := LoadConfig(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	want := []string{
		"prelude[0] must be a non-empty path",
		"libraries.a: git URL required",
		"libraries.a: one of rev, tag, or branch required",
		"libraries.a: files must list at least one source file",
		"libraries.b: rev, tag, and branch are mutually exclusive",
		`library "b" declared more than once`,
	}
	if len(verr.Issues) != len(want) {
		t.Fatalf("issues = %#v", verr.Issues)
	}
	for i, issue := range want {
		if verr.Issues[i] != issue {
			t.Fatalf("issue %d = %q, want %q", i, verr.Issues[i], issue)
		}
	}
	if !strings.HasPrefix(err.Error(), "config validation failed:") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ConfigFileName)
	writeFile(t, path, "echo: false")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig error: %v", err)
	}
	if found != path {
		t.Fatalf("found %q, want %q", found, path)
	}
}

func TestFindConfigNotFound(t *testing.T) {
	// Temp directories normally sit outside any project, but a stray
	// lispy.yml higher up would make this test meaningless.
	dir := t.TempDir()
	if _, err := FindConfig(dir); err != nil && !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Prompt = "λ "
	cfg.History = ""
	cfg.Echo = true
	cfg.Prelude = []string{filepath.Join(dir, "prelude.lspy")}
	cfg.Libraries = []*Library{{
		Name:   "std",
		Git:    "https://example.com/std.git",
		Branch: "main",
		Files:  []string{"a.lspy", "b.lspy"},
	}}

	path := filepath.Join(dir, ConfigFileName)
	if err := WriteConfig(cfg, path); err != nil {
		t.Fatalf("WriteConfig error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "\n  - name: std\n") {
		t.Fatalf("expected two-space indentation, got:\n%s", data)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if loaded.Prompt != cfg.Prompt || loaded.History != "" || !loaded.Echo {
		t.Fatalf("unexpected settings after round trip: %#v", loaded)
	}
	if len(loaded.Libraries) != 1 || loaded.Libraries[0].Branch != "main" || len(loaded.Libraries[0].Files) != 2 {
		t.Fatalf("unexpected libraries: %#v", loaded.Libraries)
	}
}

func TestWriteConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Libraries = []*Library{{Name: "broken"}}
	err := WriteConfig(cfg, filepath.Join(t.TempDir(), ConfigFileName))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestCacheDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LISPY_HOME", dir)
	got, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir error: %v", err)
	}
	if got != dir {
		t.Fatalf("CacheDir = %q, want %q", got, dir)
	}

	home := t.TempDir()
	t.Setenv("LISPY_HOME", "")
	t.Setenv("HOME", home)
	got, err = CacheDir()
	if err != nil {
		t.Fatalf("CacheDir error: %v", err)
	}
	if got != filepath.Join(home, ".lispy") {
		t.Fatalf("CacheDir = %q", got)
	}
}
