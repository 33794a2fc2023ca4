// Package comments recognizes Zig documentation comments and strips their markers.
package comments

import "strings"

const (
	// ModuleDocMarker starts a container-level ("top-level") doc comment.
	ModuleDocMarker = "//!"
	// DeclDocMarker starts a doc comment attached to the following declaration.
	DeclDocMarker = "///"
)

// Kind classifies a comment's text.
type Kind int

const (
	// KindNone is an ordinary comment; it is not documentation.
	KindNone Kind = iota
	// KindModule is a //! comment.
	KindModule
	// KindDecl is a /// comment.
	KindDecl
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindDecl:
		return "decl"
	default:
		return "none"
	}
}

// IsModuleDoc reports whether text is a module doc comment.
func IsModuleDoc(text string) bool {
	return strings.HasPrefix(text, ModuleDocMarker)
}

// IsDeclDoc reports whether text is a declaration doc comment.
func IsDeclDoc(text string) bool {
	return strings.HasPrefix(text, DeclDocMarker)
}

// Classify returns the comment kind of text.
func Classify(text string) Kind {
	switch {
	case IsModuleDoc(text):
		return KindModule
	case IsDeclDoc(text):
		return KindDecl
	default:
		return KindNone
	}
}

// Clean removes the first markerLen bytes of text and trims surrounding whitespace.
func Clean(text string, markerLen int) string {
	if markerLen > len(text) {
		markerLen = len(text)
	}
	if markerLen < 0 {
		markerLen = 0
	}
	return strings.TrimSpace(text[markerLen:])
}
