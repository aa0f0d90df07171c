// scanner/annotate.go
package scanner

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Syntax contexts assigned to a Match when annotation is enabled.
const (
	ContextCode    = "code"
	ContextString  = "string"
	ContextComment = "comment"
)

// annotate parses content with the Python grammar and sets Context on every
// match from the innermost syntax node covering the matched token.
func annotate(ctx context.Context, contentBytes []byte, matches []Match) error {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, contentBytes)
	if err != nil {
		return fmt.Errorf("tree-sitter parsing error: %w", err)
	}
	defer tree.Close()
	root := tree.RootNode()

	for i := range matches {
		m := &matches[i]
		// Leading whitespace of the match (print_stmt) belongs to no token.
		lead := len(m.Matched) - len(strings.TrimLeft(m.Matched, " \t\f\v"))
		row := uint32(m.Line - 1)
		start := sitter.Point{Row: row, Column: uint32(m.Column + lead)}
		end := sitter.Point{Row: row, Column: uint32(m.Column + len(m.Matched))}
		m.Context = classifyNode(root.NamedDescendantForPointRange(start, end))
	}
	return nil
}

func classifyNode(n *sitter.Node) string {
	for ; n != nil; n = n.Parent() {
		switch n.Type() {
		case "comment":
			return ContextComment
		case "interpolation":
			// f-string replacement fields hold ordinary expressions.
			return ContextCode
		case "string", "concatenated_string":
			return ContextString
		}
	}
	return ContextCode
}
