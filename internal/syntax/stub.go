//go:build !cgo

package syntax

import "context"

// Parser wraps tree-sitter parsing functionality.
// This is a stub implementation for non-CGO builds.
type Parser struct{}

// NewParser returns ErrNoCGO when CGO is disabled.
func NewParser() (*Parser, error) {
	return nil, ErrNoCGO
}

// Parse returns ErrNoCGO.
func (p *Parser) Parse(ctx context.Context, source []byte) (*SitterTree, error) {
	return nil, ErrNoCGO
}

// Close is a no-op.
func (p *Parser) Close() {}

// SitterTree is the stub counterpart of the tree-sitter tree; it is always empty.
type SitterTree struct{}

// Root returns nil.
func (t *SitterTree) Root() Node { return nil }

// Source returns nil.
func (t *SitterTree) Source() []byte { return nil }

// Close is a no-op.
func (t *SitterTree) Close() {}

// IsAvailable returns whether parsing is available.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}
