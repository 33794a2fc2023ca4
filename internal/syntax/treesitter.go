//go:build cgo

package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
)

// zigLanguage is loaded once; a Language is read-only and can be shared.
var zigLanguage = sitter.NewLanguage(tree_sitter_zig.Language())

// Parser wraps a tree-sitter parser configured for Zig.
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new Zig parser.
func NewParser() (*Parser, error) {
	p := sitter.NewParser()
	p.SetLanguage(zigLanguage)
	return &Parser{parser: p}, nil
}

// Parse parses source and returns the resulting tree. The tree keeps a reference
// to source; callers must not modify it while the tree is in use.
func (p *Parser) Parse(ctx context.Context, source []byte) (*SitterTree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return &SitterTree{tree: tree, source: source}, nil
}

// Close releases the underlying parser.
func (p *Parser) Close() {
	if p != nil && p.parser != nil {
		p.parser.Close()
	}
}

// SitterTree is a parsed tree-sitter tree together with its source.
type SitterTree struct {
	tree   *sitter.Tree
	source []byte
}

// Root returns the root node, or nil when the parser produced no tree.
func (t *SitterTree) Root() Node {
	if t == nil || t.tree == nil {
		return nil
	}
	return wrap(t.tree.RootNode())
}

// Source returns the parsed bytes.
func (t *SitterTree) Source() []byte {
	if t == nil {
		return nil
	}
	return t.source
}

// Close releases the tree.
func (t *SitterTree) Close() {
	if t != nil && t.tree != nil {
		t.tree.Close()
	}
}

// IsAvailable reports whether tree-sitter parsing is compiled in.
func IsAvailable() bool {
	return true
}

type sitterNode struct {
	n *sitter.Node
}

// wrap converts a possibly-nil tree-sitter node into a Node without
// producing a non-nil interface around a nil pointer.
func wrap(n *sitter.Node) Node {
	if n == nil || n.IsNull() {
		return nil
	}
	return sitterNode{n: n}
}

func (s sitterNode) Kind() string          { return s.n.Type() }
func (s sitterNode) StartByte() uint32     { return s.n.StartByte() }
func (s sitterNode) EndByte() uint32       { return s.n.EndByte() }
func (s sitterNode) IsNamed() bool         { return s.n.IsNamed() }
func (s sitterNode) ChildCount() int       { return int(s.n.ChildCount()) }
func (s sitterNode) Child(i int) Node      { return wrap(s.n.Child(i)) }
func (s sitterNode) NamedChildCount() int  { return int(s.n.NamedChildCount()) }
func (s sitterNode) NamedChild(i int) Node { return wrap(s.n.NamedChild(i)) }
func (s sitterNode) PrevNamedSibling() Node {
	return wrap(s.n.PrevNamedSibling())
}
func (s sitterNode) ChildByFieldName(name string) Node {
	return wrap(s.n.ChildByFieldName(name))
}
