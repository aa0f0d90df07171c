// scanner/types.go
package scanner

import "github.com/dlclark/regexp2"

// ScanOptions holds the configuration for a scan.
type ScanOptions struct {
	Extension    string   // File suffix to scan, e.g. ".py"
	Language     string   // Display name used in the report header
	Dialect      string   // Display name of the legacy dialect being detected
	Exclude      []string // Directory base names pruned during discovery
	UseGitignore bool
	Workers      int
	Annotate     bool // Classify each match as code, string or comment

	// Patterns is the detector table. Nil means DefaultPatterns.
	Patterns PatternTable

	Logger Logger
}

// Pattern is a named detector. Regexp uses regexp2's default syntax, where
// \b, \w and \s are Unicode-aware.
type Pattern struct {
	Name   string
	Regexp *regexp2.Regexp
}

// PatternTable is an ordered, read-only list of detectors.
type PatternTable []Pattern

// Match is one detector hit on one line.
type Match struct {
	Line    int    `json:"line" yaml:"line"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Text    string `json:"text" yaml:"text"`
	Column  int    `json:"column" yaml:"column"`
	Matched string `json:"matched" yaml:"matched"`
	Context string `json:"context,omitempty" yaml:"context,omitempty"`

	indent int      // bytes of leading whitespace trimmed from Text
	spans  [][2]int // every occurrence on the line, as byte spans of the raw line
}

// FileReport holds the matches of a single file, ordered by line.
type FileReport struct {
	Path    string  `json:"path" yaml:"path"`
	Matches []Match `json:"matches" yaml:"matches"`
}

// FileError records a file that was discovered but could not be scanned.
type FileError struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// ScanResult is the outcome of ScanDirectory. Files only contains files with
// at least one match, in discovery order.
type ScanResult struct {
	Root         string       `json:"root" yaml:"root"`
	Language     string       `json:"language" yaml:"language"`
	Dialect      string       `json:"dialect" yaml:"dialect"`
	FilesScanned int          `json:"files_scanned" yaml:"files_scanned"`
	Files        []FileReport `json:"files" yaml:"files"`
	Errors       []FileError  `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// MatchCount returns the total number of matches across all files.
func (r *ScanResult) MatchCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Matches)
	}
	return n
}

// Logger is the subset of logging the scanner needs.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}
