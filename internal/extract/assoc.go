package extract

import (
	"strings"

	"zigdoc/internal/comments"
	"zigdoc/internal/syntax"
)

// AssociatedDoc returns the /// documentation attached to node: the contiguous run
// of declaration doc comments immediately preceding it among its named siblings,
// cleaned and joined with newlines in source order. The scan stops at the first
// sibling that is not a declaration doc comment.
func AssociatedDoc(node syntax.Node, source []byte) string {
	if node == nil {
		return ""
	}

	var lines []string
	for prev := node.PrevNamedSibling(); prev != nil; prev = prev.PrevNamedSibling() {
		if prev.Kind() != syntax.KindComment {
			break
		}
		text := syntax.Text(prev, source)
		if !comments.IsDeclDoc(text) {
			break
		}
		lines = append(lines, comments.Clean(text, len(comments.DeclDocMarker)))
	}

	// Collected bottom-up; restore source order.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, "\n")
}

// ModuleDoc joins every top-level //! comment of root, in order.
func ModuleDoc(root syntax.Node, source []byte) string {
	var lines []string
	for _, child := range syntax.Children(root) {
		if child.Kind() != syntax.KindComment {
			continue
		}
		text := syntax.Text(child, source)
		if comments.IsModuleDoc(text) {
			lines = append(lines, comments.Clean(text, len(comments.ModuleDocMarker)))
		}
	}
	return strings.Join(lines, "\n")
}
