// scanner/defaults.go
package scanner

const (
	// DefaultExtension is the suffix of files considered for scanning.
	DefaultExtension = ".py"

	// DefaultLanguage is the name printed in the file count header.
	DefaultLanguage = "Python"

	// DefaultDialect is the name printed in the findings header.
	DefaultDialect = "Python 2.x"
)

// PatternSpec is an uncompiled detector, as written in defaults or config files.
type PatternSpec struct {
	Name  string `toml:"name" yaml:"name"`
	Regex string `toml:"regex" yaml:"regex"`
}

// DefaultPatternSpecs lists the built-in Python 2 detectors in report order.
var DefaultPatternSpecs = []PatternSpec{
	{Name: "print_stmt", Regex: `^\s*print\s+[^(]`}, // print statement without parentheses
	{Name: "xrange", Regex: `\bxrange\b`},
	{Name: "basestring", Regex: `\bbasestring\b`},
	{Name: "unicode", Regex: `\bunicode\b`},
	{Name: "raw_input", Regex: `\braw_input\b`},
	{Name: "bare_except", Regex: `except\s*:`}, // also hits "except:" inside strings
}

// DefaultPatterns returns a freshly compiled copy of DefaultPatternSpecs.
func DefaultPatterns() PatternTable {
	table, err := CompilePatterns(DefaultPatternSpecs)
	if err != nil {
		panic(err) // built-in table is static
	}
	return table
}
