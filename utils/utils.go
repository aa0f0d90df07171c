// utils/utils.go
package utils

import (
	"strings"
)

// NormalizeNewlines rewrites "\r\n" and lone "\r" line endings to "\n".
func NormalizeNewlines(content string) string {
	if !strings.Contains(content, "\r") {
		return content
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

// SplitLines splits file content into lines after normalizing line endings.
// A trailing newline yields a final empty line, so line numbers stay aligned
// with what an editor shows.
func SplitLines(content string) []string {
	return strings.Split(NormalizeNewlines(content), "\n")
}

// NormalizeExtension trims an extension and makes sure it starts with a dot.
// Case is kept: file names are matched case-sensitively.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
