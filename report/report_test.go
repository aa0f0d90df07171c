package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alexferrari88/pymodernize/fixer"
	"github.com/alexferrari88/pymodernize/scanner"
)

func scan(t *testing.T, files map[string]string) (*scanner.ScanResult, string) {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	s, err := scanner.New(scanner.ScanOptions{})
	require.NoError(t, err)
	result, err := s.ScanDirectory(context.Background(), root)
	require.NoError(t, err)
	return result, root
}

func TestText_Scenario(t *testing.T) {
	result, root := scan(t, map[string]string{
		"a.py": "xrange(10)\nok line",
		"b.py": "fine",
	})

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, result, TextOptions{}))

	want := "Found 2 Python files to check\n" +
		"\n" +
		"Python 2.x patterns found:\n" +
		"\n" +
		filepath.Join(root, "a.py") + ":\n" +
		"  Line 1: xrange\n" +
		"    xrange(10)\n"
	assert.Equal(t, want, buf.String())
	assert.NotContains(t, buf.String(), "b.py")
}

func TestText_NoFindings(t *testing.T) {
	result, _ := scan(t, map[string]string{"clean.py": "x = 1\n"})

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, result, TextOptions{}))
	assert.Equal(t, "Found 1 Python files to check\n\nPython 2.x patterns found:\n", buf.String())
}

func TestText_EmptyTree(t *testing.T) {
	result, _ := scan(t, nil)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, result, TextOptions{}))
	assert.True(t, strings.HasPrefix(buf.String(), "Found 0 Python files to check\n"))
}

func TestText_MultipleMatchesPerLine(t *testing.T) {
	result, root := scan(t, map[string]string{
		"a.py": "try:\n    for i in xrange(2): pass\nexcept:\n    print 'x'\n",
	})

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, result, TextOptions{}))

	want := "Found 1 Python files to check\n\nPython 2.x patterns found:\n\n" +
		filepath.Join(root, "a.py") + ":\n" +
		"  Line 2: xrange\n" +
		"    for i in xrange(2): pass\n" +
		"  Line 3: bare_except\n" +
		"    except:\n" +
		"  Line 4: print_stmt\n" +
		"    print 'x'\n"
	assert.Equal(t, want, buf.String())
}

func TestText_Idempotent(t *testing.T) {
	files := map[string]string{
		"a.py":     "xrange(1)\n",
		"pkg/b.py": "isinstance(s, basestring)\nraw_input()\n",
		"pkg/c.py": "ok\n",
	}
	result, root := scan(t, files)

	s, err := scanner.New(scanner.ScanOptions{})
	require.NoError(t, err)
	again, err := s.ScanDirectory(context.Background(), root)
	require.NoError(t, err)

	var first, second bytes.Buffer
	require.NoError(t, Text(&first, result, TextOptions{}))
	require.NoError(t, Text(&second, again, TextOptions{}))
	assert.Equal(t, first.String(), second.String())
}

func TestText_Suggestions(t *testing.T) {
	result, _ := scan(t, map[string]string{
		"a.py": "    for i in xrange(len(unicode(s))):\nexcept:\n",
	})

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, result, TextOptions{Fixer: fixer.New(nil)}))

	out := buf.String()
	assert.Contains(t, out, "  Line 1: xrange\n    for i in xrange(len(unicode(s))):\n  Line 1: unicode\n    for i in xrange(len(unicode(s))):\n    -> for i in range(len(str(s))):\n")
	assert.Equal(t, 1, strings.Count(out, "->"))
}

func TestText_SuggestionsRewriteEveryOccurrence(t *testing.T) {
	result, _ := scan(t, map[string]string{
		"a.py": "x = unicode(a) + unicode(b)\n",
	})

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, result, TextOptions{Fixer: fixer.New(nil)}))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "  Line 1: unicode\n"))
	assert.Contains(t, out, "    -> x = str(a) + str(b)\n")
}

func TestText_ShowContext(t *testing.T) {
	result := &scanner.ScanResult{
		Language:     "Python",
		Dialect:      "Python 2.x",
		FilesScanned: 1,
		Files: []scanner.FileReport{{
			Path: "a.py",
			Matches: []scanner.Match{
				{Line: 1, Pattern: "xrange", Text: "# xrange", Column: 2, Matched: "xrange", Context: scanner.ContextComment},
			},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, result, TextOptions{ShowContext: true}))
	assert.Contains(t, buf.String(), "  Line 1: xrange [comment]\n")

	buf.Reset()
	require.NoError(t, Text(&buf, result, TextOptions{}))
	assert.Contains(t, buf.String(), "  Line 1: xrange\n")
}

func TestText_Color(t *testing.T) {
	result, _ := scan(t, map[string]string{"a.py": "xrange\n"})

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, result, TextOptions{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "xrange")
}

func TestText_Errors(t *testing.T) {
	result := &scanner.ScanResult{
		Language:     "Python",
		Dialect:      "Python 2.x",
		FilesScanned: 1,
		Errors:       []scanner.FileError{{Path: "bad.py", Error: "reading file bad.py: file is not valid UTF-8"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, result, TextOptions{}))
	assert.Contains(t, buf.String(), "\nCould not read 1 files:\n  bad.py: reading file bad.py: file is not valid UTF-8\n")
}

func TestJSON(t *testing.T) {
	result, root := scan(t, map[string]string{"a.py": "xrange(10)\n", "b.py": "ok\n"})

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, result))

	var decoded scanner.ScanResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.FilesScanned)
	require.Len(t, decoded.Files, 1)
	assert.Equal(t, filepath.Join(root, "a.py"), decoded.Files[0].Path)
	assert.Equal(t, "xrange", decoded.Files[0].Matches[0].Pattern)
	assert.NotContains(t, buf.String(), `"context"`)
}

func TestYAML(t *testing.T) {
	result, _ := scan(t, map[string]string{"a.py": "raw_input()\n"})

	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, result))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1, decoded["files_scanned"])
	assert.Contains(t, buf.String(), "pattern: raw_input")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "xml", &scanner.ScanResult{}, TextOptions{})
	require.Error(t, err)
}
