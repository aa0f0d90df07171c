// scanner/patterns.go
package scanner

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
)

// CompilePatterns compiles specs into a PatternTable, keeping their order.
// Names must be non-empty and unique.
func CompilePatterns(specs []PatternSpec) (PatternTable, error) {
	table := make(PatternTable, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return nil, fmt.Errorf("pattern with regex %q has no name", spec.Regex)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate pattern name %q", name)
		}
		seen[name] = true
		re, err := regexp2.Compile(spec.Regex, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern '%s': %w", name, err)
		}
		table = append(table, Pattern{Name: name, Regexp: re})
	}
	return table, nil
}

// Names returns the pattern names in table order.
func (t PatternTable) Names() []string {
	names := make([]string, len(t))
	for i, p := range t {
		names[i] = p.Name
	}
	return names
}

// MatchLine tests every pattern against line and returns one Match per pattern
// that hits, in table order. It never stops at the first hit. Column and
// Matched describe the first occurrence; TextSpans lists all of them.
func (t PatternTable) MatchLine(lineNo int, line string) []Match {
	var matches []Match
	var trimmed string
	var indent int
	for _, p := range t {
		spans := findAll(p.Regexp, line)
		if len(spans) == 0 {
			continue
		}
		if matches == nil {
			trimmed = strings.TrimSpace(line)
			indent = len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
		}
		first := spans[0]
		matches = append(matches, Match{
			Line:    lineNo,
			Pattern: p.Name,
			Text:    trimmed,
			Column:  first[0],
			Matched: line[first[0]:first[1]],
			indent:  indent,
			spans:   spans,
		})
	}
	return matches
}

// findAll returns the byte spans of every non-overlapping match of re in line.
// regexp2 reports positions in runes.
func findAll(re *regexp2.Regexp, line string) [][2]int {
	m, err := re.FindStringMatch(line)
	if err != nil || m == nil {
		return nil
	}

	offsets := make([]int, 0, len(line)+1)
	for b := range line {
		offsets = append(offsets, b)
	}
	offsets = append(offsets, len(line))

	var spans [][2]int
	for m != nil {
		spans = append(spans, [2]int{offsets[m.Index], offsets[m.Index+m.Length]})
		if m, err = re.FindNextMatch(m); err != nil {
			break
		}
	}
	return spans
}

// TextSpan returns the byte span of Matched within Text. Start is negative
// when the match begins inside the trimmed indentation.
func (m Match) TextSpan() (start, end int) {
	start = m.Column - m.indent
	return start, start + len(m.Matched)
}

// TextSpans returns the byte spans, within Text, of every occurrence of the
// pattern on the line.
func (m Match) TextSpans() [][2]int {
	if len(m.spans) == 0 {
		start, end := m.TextSpan()
		return [][2]int{{start, end}}
	}
	out := make([][2]int, len(m.spans))
	for i, s := range m.spans {
		out[i] = [2]int{s[0] - m.indent, s[1] - m.indent}
	}
	return out
}
