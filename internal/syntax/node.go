// Package syntax defines the node capabilities the documentation extractor needs
// from a concrete syntax tree, and adapts tree-sitter (and an in-memory tree) to them.
package syntax

import "errors"

// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
var ErrNoCGO = errors.New("zig parsing requires CGO (tree-sitter)")

// Node is a read-only view of one concrete syntax tree node.
//
// Methods that navigate return a nil Node when the target does not exist.
// Implementations must never return a typed nil wrapped in the interface.
type Node interface {
	// Kind is the grammar's node type, e.g. "function_declaration" or "comment".
	Kind() string

	// StartByte and EndByte delimit the node's span in the parsed source.
	StartByte() uint32
	EndByte() uint32

	// IsNamed reports whether the node is semantically meaningful
	// (as opposed to punctuation or keyword tokens).
	IsNamed() bool

	ChildCount() int
	Child(i int) Node
	NamedChildCount() int
	NamedChild(i int) Node

	// PrevNamedSibling returns the closest preceding named sibling.
	PrevNamedSibling() Node

	// ChildByFieldName returns the child stored under a grammar field, e.g. "value".
	ChildByFieldName(name string) Node
}

// Grammar node kinds the extractor matches against.
const (
	KindSourceFile      = "source_file"
	KindComment         = "comment"
	KindFunctionDecl    = "function_declaration"
	KindVariableDecl    = "variable_declaration"
	KindStructDecl      = "struct_declaration"
	KindContainerField  = "container_field"
	KindIdentifier      = "identifier"
	KindBuiltinIdent    = "builtin_identifier"
	KindBuiltinFunction = "builtin_function"
	KindFieldExpression = "field_expression"
	KindError           = "ERROR"
)

// Text returns the source text covered by n. Spans outside the source are clamped,
// so a malformed tree yields a shorter (possibly empty) string instead of a panic.
func Text(n Node, source []byte) string {
	if n == nil {
		return ""
	}
	start, end := int(n.StartByte()), int(n.EndByte())
	if end > len(source) {
		end = len(source)
	}
	if start > end {
		return ""
	}
	return string(source[start:end])
}

// FirstChildOfKind returns the first direct child (named or not) whose kind is one of kinds.
func FirstChildOfKind(n Node, kinds ...string) Node {
	if n == nil {
		return nil
	}
	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		for _, k := range kinds {
			if child.Kind() == k {
				return child
			}
		}
	}
	return nil
}

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	if n == nil {
		return nil
	}
	out := make([]Node, 0, n.ChildCount())
	for i := 0; i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// NamedChildren returns the named children of n in source order.
func NamedChildren(n Node) []Node {
	if n == nil {
		return nil
	}
	out := make([]Node, 0, n.NamedChildCount())
	for i := 0; i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}
