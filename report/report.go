// Package report renders a scanner.ScanResult.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/alexferrari88/pymodernize/fixer"
	"github.com/alexferrari88/pymodernize/scanner"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// TextOptions tweaks the text report. The zero value prints the plain format.
type TextOptions struct {
	Color       bool
	ShowContext bool         // append " [context]" to annotated matches
	Fixer       *fixer.Fixer // when set, print a rewritten line beneath fixable lines
}

type palette struct {
	path, label, pattern, context, suggestion func(a ...any) string
}

func newPalette(enabled bool) palette {
	if !enabled {
		plain := fmt.Sprint
		return palette{plain, plain, plain, plain, plain}
	}
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}
	return palette{
		path:       mk(color.Bold),
		label:      mk(color.FgYellow),
		pattern:    mk(color.FgCyan),
		context:    mk(color.FgHiBlack),
		suggestion: mk(color.FgGreen),
	}
}

// Write renders result in the given format.
func Write(w io.Writer, format string, result *scanner.ScanResult, opts TextOptions) error {
	switch format {
	case "", FormatText:
		return Text(w, result, opts)
	case FormatJSON:
		return JSON(w, result)
	case FormatYAML:
		return YAML(w, result)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Text writes the human-readable report: the file count, the findings header,
// then every file with matches and each match's line, pattern and text.
func Text(w io.Writer, result *scanner.ScanResult, opts TextOptions) error {
	ew := &errWriter{w: w}
	p := newPalette(opts.Color)

	ew.printf("Found %d %s files to check\n", result.FilesScanned, result.Language)
	ew.printf("\n%s patterns found:\n", result.Dialect)

	for _, file := range result.Files {
		ew.printf("\n%s:\n", p.path(file.Path))
		for i, m := range file.Matches {
			name := p.pattern(m.Pattern)
			if opts.ShowContext && m.Context != "" {
				name += " " + p.context("["+m.Context+"]")
			}
			ew.printf("  %s %s\n", p.label(fmt.Sprintf("Line %d:", m.Line)), name)
			ew.printf("    %s\n", m.Text)

			lastOnLine := i+1 == len(file.Matches) || file.Matches[i+1].Line != m.Line
			if opts.Fixer != nil && lastOnLine {
				if fixed, ok := suggest(opts.Fixer, file.Matches, m.Line); ok {
					ew.printf("    %s\n", p.suggestion("-> "+fixed))
				}
			}
		}
	}

	if len(result.Errors) > 0 {
		ew.printf("\nCould not read %d files:\n", len(result.Errors))
		for _, fe := range result.Errors {
			ew.printf("  %s: %s\n", fe.Path, fe.Error)
		}
	}
	return ew.err
}

// suggest rewrites the text of line using every match reported on it.
func suggest(f *fixer.Fixer, matches []scanner.Match, line int) (string, bool) {
	var text string
	var edits []fixer.Edit
	for _, m := range matches {
		if m.Line != line {
			continue
		}
		text = m.Text
		for _, span := range m.TextSpans() {
			edits = append(edits, fixer.Edit{Pattern: m.Pattern, Start: span[0], End: span[1]})
		}
	}
	return f.RewriteLine(text, edits)
}

// JSON writes result as indented JSON.
func JSON(w io.Writer, result *scanner.ScanResult) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')
	_, err = w.Write(jsonData)
	return err
}

// YAML writes result as a YAML document.
func YAML(w io.Writer, result *scanner.ScanResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("marshalling YAML: %w", err)
	}
	return enc.Close()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
