// Package config loads optional scan settings from a TOML or YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/alexferrari88/pymodernize/scanner"
)

// Config mirrors the keys accepted in a config file. Pointer fields tell
// "unset" apart from zero values.
type Config struct {
	// Extension overrides the scanned file suffix (default ".py")
	Extension string `toml:"extension" yaml:"extension"`

	// Exclude lists directory names pruned during discovery
	Exclude []string `toml:"exclude" yaml:"exclude"`

	// Gitignore enables .gitignore filtering
	Gitignore *bool `toml:"gitignore" yaml:"gitignore"`

	// Workers bounds the scanning worker pool (0 = one per CPU)
	Workers *int `toml:"workers" yaml:"workers"`

	// Annotate classifies matches by syntax context
	Annotate *bool `toml:"annotate" yaml:"annotate"`

	// Patterns are appended to the built-in detectors, in file order
	Patterns []scanner.PatternSpec `toml:"patterns" yaml:"patterns"`

	// Replacements extend or override the fixer table; "" removes an entry
	Replacements map[string]string `toml:"replacements" yaml:"replacements"`
}

// Load reads path and decodes it according to its extension.
// An empty path returns an empty Config.
func Load(path string) (Config, error) {
	var cfg Config
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, decodeErr := toml.Decode(string(data), &cfg)
		if decodeErr != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return cfg, fmt.Errorf("parse %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if decodeErr := dec.Decode(&cfg); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
			return cfg, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that decoding alone cannot.
func (c Config) Validate() error {
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", *c.Workers)
	}
	for i, p := range c.Patterns {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("patterns[%d]: name is required", i)
		}
		if p.Regex == "" {
			return fmt.Errorf("patterns[%d] (%s): regex is required", i, p.Name)
		}
	}
	return nil
}

// Apply copies every set field onto opts and compiles the pattern table
// (built-ins followed by c.Patterns).
func (c Config) Apply(opts *scanner.ScanOptions) error {
	if c.Extension != "" {
		opts.Extension = c.Extension
	}
	if len(c.Exclude) > 0 {
		opts.Exclude = append([]string(nil), c.Exclude...)
	}
	if c.Gitignore != nil {
		opts.UseGitignore = *c.Gitignore
	}
	if c.Workers != nil {
		opts.Workers = *c.Workers
	}
	if c.Annotate != nil {
		opts.Annotate = *c.Annotate
	}

	specs := make([]scanner.PatternSpec, 0, len(scanner.DefaultPatternSpecs)+len(c.Patterns))
	specs = append(specs, scanner.DefaultPatternSpecs...)
	specs = append(specs, c.Patterns...)
	table, err := scanner.CompilePatterns(specs)
	if err != nil {
		return err
	}
	opts.Patterns = table
	return nil
}
