package extract

import "zigdoc/internal/syntax"

// BindingKind is the classification of a top-level variable binding.
type BindingKind int

const (
	// BindingConstant is any binding that is neither an import nor a struct.
	BindingConstant BindingKind = iota
	// BindingImport initializes from the import builtin; it is never documented.
	BindingImport
	// BindingStruct has a struct body as its value.
	BindingStruct
)

func (k BindingKind) String() string {
	switch k {
	case BindingImport:
		return "import"
	case BindingStruct:
		return "struct"
	default:
		return "constant"
	}
}

// Binding is the result of classifying a variable declaration.
type Binding struct {
	Kind BindingKind

	// Body is the struct_declaration node when Kind is BindingStruct.
	Body syntax.Node
}

// ClassifyBinding classifies a variable_declaration node. Imports win over
// structs; anything unrecognized is a constant.
func ClassifyBinding(node syntax.Node, source []byte, importBuiltin string) Binding {
	if importBuiltin == "" {
		importBuiltin = DefaultImportBuiltin
	}

	var body syntax.Node
	for _, child := range syntax.Children(node) {
		if isImportExpr(child, source, importBuiltin) {
			return Binding{Kind: BindingImport}
		}
		if body == nil && child.Kind() == syntax.KindStructDecl {
			body = child
		}
	}
	if body != nil {
		return Binding{Kind: BindingStruct, Body: body}
	}
	return Binding{Kind: BindingConstant}
}

// isImportExpr reports whether n calls the import builtin directly, or is a
// field access chain rooted at such a call (@import("std").debug.print).
func isImportExpr(n syntax.Node, source []byte, importBuiltin string) bool {
	for n != nil && n.Kind() == syntax.KindFieldExpression {
		n = n.NamedChild(0)
	}
	if n == nil || n.Kind() != syntax.KindBuiltinFunction {
		return false
	}
	callee := syntax.FirstChildOfKind(n, syntax.KindBuiltinIdent)
	return syntax.Text(callee, source) == importBuiltin
}
