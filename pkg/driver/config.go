package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the file FindConfig searches for.
const ConfigFileName = "lispy.yml"

const defaultPrompt = "lispy> "

// ErrConfigNotFound reports that no lispy.yml exists in the directory or any
// of its parents.
var ErrConfigNotFound = errors.New("lispy.yml not found")

// Config represents the parsed contents of lispy.yml.
type Config struct {
	Path      string
	Prompt    string
	History   string
	Echo      bool
	AST       bool
	Prelude   []string
	Libraries []*Library
}

// Library describes a git-hosted source library.
type Library struct {
	Name   string
	Git    string
	Rev    string
	Tag    string
	Branch string
	Files  []string
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultConfig returns the settings used when no lispy.yml is present.
func DefaultConfig() *Config {
	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".lispy_history")
	}
	return &Config{
		Prompt:  defaultPrompt,
		History: history,
	}
}

// FindConfig walks up from start looking for lispy.yml.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", start, err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}
		dir = parent
	}
}

// LoadConfig parses lispy.yml from disk, returning a validated config.
// Relative prelude paths are resolved against the config's directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			cfg := DefaultConfig()
			cfg.Path = absPath
			return cfg, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	cfg := raw.toConfig(absPath)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteConfig serialises cfg to path.
func WriteConfig(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}
	if path == "" {
		if cfg.Path == "" {
			return fmt.Errorf("config: missing path")
		}
		path = cfg.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: resolve %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.toDisk()); err != nil {
		return fmt.Errorf("config: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("config: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", abs, err)
	}
	cfg.Path = abs
	return nil
}

// CacheDir returns the root directory for fetched libraries, honouring
// LISPY_HOME.
func CacheDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("LISPY_HOME")); dir != "" {
		return filepath.Abs(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: locate home directory: %w", err)
	}
	return filepath.Join(home, ".lispy"), nil
}

func (c *Config) validate() error {
	var errs ValidationError
	for i, path := range c.Prelude {
		if strings.TrimSpace(path) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("prelude[%d] must be a non-empty path", i))
		}
	}
	seen := make(map[string]bool, len(c.Libraries))
	for i, lib := range c.Libraries {
		if lib == nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("libraries[%d] must not be empty", i))
			continue
		}
		label := lib.Name
		if label == "" {
			label = fmt.Sprintf("[%d]", i)
			errs.Issues = append(errs.Issues, fmt.Sprintf("libraries[%d] missing name", i))
		} else if seen[lib.Name] {
			errs.Issues = append(errs.Issues, fmt.Sprintf("library %q declared more than once", lib.Name))
		}
		seen[lib.Name] = true
		for _, issue := range lib.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("libraries.%s: %s", label, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (l *Library) validate() []string {
	var issues []string
	if l.Git == "" {
		issues = append(issues, "git URL required")
	}
	selectors := 0
	for _, s := range []string{l.Rev, l.Tag, l.Branch} {
		if s != "" {
			selectors++
		}
	}
	switch {
	case selectors == 0:
		issues = append(issues, "one of rev, tag, or branch required")
	case selectors > 1:
		issues = append(issues, "rev, tag, and branch are mutually exclusive")
	}
	if len(l.Files) == 0 {
		issues = append(issues, "files must list at least one source file")
	}
	return issues
}

func (l *Library) normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Git = strings.TrimSpace(l.Git)
	l.Rev = strings.TrimSpace(l.Rev)
	l.Tag = strings.TrimSpace(l.Tag)
	l.Branch = strings.TrimSpace(l.Branch)
}

type configFile struct {
	Prompt    *string       `yaml:"prompt"`
	History   *string       `yaml:"history"`
	Echo      bool          `yaml:"echo"`
	AST       bool          `yaml:"ast"`
	Prelude   []string      `yaml:"prelude"`
	Libraries []libraryFile `yaml:"libraries"`
}

type libraryFile struct {
	Name   string   `yaml:"name"`
	Git    string   `yaml:"git"`
	Rev    string   `yaml:"rev,omitempty"`
	Tag    string   `yaml:"tag,omitempty"`
	Branch string   `yaml:"branch,omitempty"`
	Files  []string `yaml:"files"`
}

func (raw configFile) toConfig(path string) *Config {
	cfg := DefaultConfig()
	cfg.Path = path
	if raw.Prompt != nil {
		cfg.Prompt = *raw.Prompt
	}
	if raw.History != nil {
		cfg.History = expandHome(strings.TrimSpace(*raw.History))
	}
	cfg.Echo = raw.Echo
	cfg.AST = raw.AST

	base := filepath.Dir(path)
	for _, entry := range raw.Prelude {
		entry = expandHome(strings.TrimSpace(entry))
		if entry != "" && !filepath.IsAbs(entry) {
			entry = filepath.Join(base, entry)
		}
		cfg.Prelude = append(cfg.Prelude, entry)
	}
	for _, lf := range raw.Libraries {
		lib := &Library{
			Name:   lf.Name,
			Git:    lf.Git,
			Rev:    lf.Rev,
			Tag:    lf.Tag,
			Branch: lf.Branch,
			Files:  append([]string(nil), lf.Files...),
		}
		lib.normalize()
		cfg.Libraries = append(cfg.Libraries, lib)
	}
	return cfg
}

func (c *Config) toDisk() configFile {
	prompt := c.Prompt
	history := c.History
	out := configFile{
		Prompt:  &prompt,
		History: &history,
		Echo:    c.Echo,
		AST:     c.AST,
		Prelude: append([]string(nil), c.Prelude...),
	}
	for _, lib := range c.Libraries {
		out.Libraries = append(out.Libraries, libraryFile{
			Name:   lib.Name,
			Git:    lib.Git,
			Rev:    lib.Rev,
			Tag:    lib.Tag,
			Branch: lib.Branch,
			Files:  append([]string(nil), lib.Files...),
		})
	}
	return out
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
