package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexferrari88/pymodernize/scanner"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load("  ")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "scan.toml", `
extension = ".pyw"
exclude = ["venv", "build"]
gitignore = true
workers = 2

[[patterns]]
name = "has_key"
regex = '\.has_key\('

[replacements]
has_key = "__contains__"
unicode = ""
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ".pyw", cfg.Extension)
	assert.Equal(t, []string{"venv", "build"}, cfg.Exclude)
	require.NotNil(t, cfg.Gitignore)
	assert.True(t, *cfg.Gitignore)
	require.NotNil(t, cfg.Workers)
	assert.Equal(t, 2, *cfg.Workers)
	assert.Nil(t, cfg.Annotate)
	assert.Equal(t, []scanner.PatternSpec{{Name: "has_key", Regex: `\.has_key\(`}}, cfg.Patterns)
	assert.Equal(t, map[string]string{"has_key": "__contains__", "unicode": ""}, cfg.Replacements)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "scan.yaml", `
exclude: [".tox"]
annotate: true
patterns:
  - name: iteritems
    regex: '\.iteritems\('
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{".tox"}, cfg.Exclude)
	require.NotNil(t, cfg.Annotate)
	assert.True(t, *cfg.Annotate)
	assert.Equal(t, "iteritems", cfg.Patterns[0].Name)
}

func TestLoad_EmptyYAMLFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unknown toml key", "a.toml", "colour = true\n", "unknown keys: colour"},
		{"unknown yaml key", "a.yaml", "colour: true\n", "colour"},
		{"bad toml", "a.toml", "extension = \n", "parse"},
		{"unsupported ext", "a.json", "{}", "unsupported config format"},
		{"negative workers", "a.toml", "workers = -1\n", "workers must be >= 0"},
		{"pattern without regex", "a.yaml", "patterns:\n  - name: x\n", "regex is required"},
		{"pattern without name", "a.yaml", "patterns:\n  - regex: x\n", "name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestApply(t *testing.T) {
	gitignore := true
	workers := 3
	cfg := Config{
		Extension: "pyw",
		Exclude:   []string{"venv"},
		Gitignore: &gitignore,
		Workers:   &workers,
		Patterns:  []scanner.PatternSpec{{Name: "has_key", Regex: `\.has_key\(`}},
	}

	opts := scanner.ScanOptions{Annotate: true}
	require.NoError(t, cfg.Apply(&opts))

	assert.Equal(t, "pyw", opts.Extension)
	assert.Equal(t, []string{"venv"}, opts.Exclude)
	assert.True(t, opts.UseGitignore)
	assert.Equal(t, 3, opts.Workers)
	assert.True(t, opts.Annotate)
	assert.Equal(t, []string{"print_stmt", "xrange", "basestring", "unicode", "raw_input", "bare_except", "has_key"}, opts.Patterns.Names())
}

func TestApply_DuplicatePattern(t *testing.T) {
	cfg := Config{Patterns: []scanner.PatternSpec{{Name: "xrange", Regex: `x`}}}
	err := cfg.Apply(&scanner.ScanOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}
