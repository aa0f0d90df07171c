// Package fixer holds the replacement table for legacy identifiers and the
// pure functions that turn a detector hit into suggested modern text.
//
// Nothing in this package touches files. Callers decide whether and where to
// show a suggestion.
package fixer

import (
	"sort"
	"strings"
)

// DefaultReplacements maps detector names to the modern spelling of the token
// they match.
var DefaultReplacements = map[string]string{
	"xrange":     "range",
	"basestring": "str",
	"unicode":    "str",
	"raw_input":  "input",
}

// Edit is a span of a line matched by a named detector.
type Edit struct {
	Pattern string
	Start   int // byte offset in the line
	End     int
}

// Fixer looks up replacements. The zero value has no replacements.
type Fixer struct {
	replacements map[string]string
}

// New returns a Fixer over DefaultReplacements merged with extra. Entries in
// extra override defaults; an empty value removes the default.
func New(extra map[string]string) *Fixer {
	merged := make(map[string]string, len(DefaultReplacements)+len(extra))
	for k, v := range DefaultReplacements {
		merged[k] = v
	}
	for k, v := range extra {
		if v == "" {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	return &Fixer{replacements: merged}
}

// Replace returns the replacement for text matched by the named pattern.
// Only the identifier is swapped; any text around it is kept.
func (f *Fixer) Replace(pattern, matched string) (string, bool) {
	repl, ok := f.replacements[pattern]
	if !ok || matched == "" {
		return "", false
	}
	if !strings.Contains(matched, pattern) {
		return repl, true
	}
	return strings.Replace(matched, pattern, repl, 1), true
}

// Patterns returns the pattern names that have a replacement, sorted.
func (f *Fixer) Patterns() []string {
	names := make([]string, 0, len(f.replacements))
	for k := range f.replacements {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// RewriteLine applies every edit that has a replacement and reports whether
// anything changed. Overlapping edits after the first are ignored.
func (f *Fixer) RewriteLine(line string, edits []Edit) (string, bool) {
	sorted := make([]Edit, 0, len(edits))
	for _, e := range edits {
		if e.Start < 0 || e.End > len(line) || e.Start >= e.End {
			continue
		}
		if _, ok := f.replacements[e.Pattern]; ok {
			sorted = append(sorted, e)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var b strings.Builder
	last := 0
	changed := false
	for _, e := range sorted {
		if e.Start < last {
			continue
		}
		repl, ok := f.Replace(e.Pattern, line[e.Start:e.End])
		if !ok {
			continue
		}
		b.WriteString(line[last:e.Start])
		b.WriteString(repl)
		last = e.End
		changed = true
	}
	if !changed {
		return line, false
	}
	b.WriteString(line[last:])
	return b.String(), true
}
