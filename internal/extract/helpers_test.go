package extract

import (
	"zigdoc/internal/syntax"
)

// Builders for the tree shapes the Zig grammar produces.

func sp() *syntax.Spec { return syntax.Space(" ") }
func nl() *syntax.Spec { return syntax.Space("\n") }

func comment(text string) *syntax.Spec { return syntax.Leaf(syntax.KindComment, text) }
func ident(name string) *syntax.Spec   { return syntax.Leaf(syntax.KindIdentifier, name) }

// file places each top-level item on its own line.
func file(items ...*syntax.Spec) *syntax.MemTree {
	children := make([]*syntax.Spec, 0, 2*len(items))
	for _, it := range items {
		children = append(children, it, nl())
	}
	return syntax.Build(syntax.Branch(syntax.KindSourceFile, children...))
}

func fnDecl(pub bool, name, params, ret string) *syntax.Spec {
	var parts []*syntax.Spec
	if pub {
		parts = append(parts, syntax.Token("pub"), sp())
	}
	parts = append(parts,
		syntax.Token("fn"), sp(),
		ident(name).Field("name"),
		syntax.Leaf("parameters", "("+params+")"), sp(),
		syntax.Leaf("builtin_type", ret), sp(),
		syntax.Branch("block", syntax.Token("{"), nl(), syntax.Leaf("return_expression", "return a + b;"), nl(), syntax.Token("}")).Field("body"),
	)
	return syntax.Branch(syntax.KindFunctionDecl, parts...)
}

func binding(name string, value *syntax.Spec) *syntax.Spec {
	return syntax.Branch(syntax.KindVariableDecl,
		syntax.Token("const"), sp(),
		ident(name), sp(),
		syntax.Token("="), sp(),
		value,
		syntax.Token(";"),
	)
}

func number(text string) *syntax.Spec { return syntax.Leaf("float", text) }

func importCall(path string) *syntax.Spec {
	return syntax.Branch(syntax.KindBuiltinFunction,
		syntax.Leaf(syntax.KindBuiltinIdent, "@import"),
		syntax.Leaf("arguments", `("`+path+`")`),
	)
}

func fieldAccess(object *syntax.Spec, member string) *syntax.Spec {
	return syntax.Branch(syntax.KindFieldExpression,
		object.Field("object"),
		syntax.Token("."),
		ident(member).Field("member"),
	)
}

// structBody builds a struct_declaration; members are placed one per line.
func structBody(members ...*syntax.Spec) *syntax.Spec {
	parts := []*syntax.Spec{syntax.Token("struct"), sp(), syntax.Token("{"), nl()}
	for _, m := range members {
		parts = append(parts, m, nl())
	}
	parts = append(parts, syntax.Token("}"))
	return syntax.Branch(syntax.KindStructDecl, parts...)
}

func field(name, typ string) *syntax.Spec {
	return syntax.Branch(syntax.KindContainerField,
		ident(name).Field("name"),
		syntax.Token(":"), sp(),
		syntax.Leaf("builtin_type", typ).Field("type"),
	)
}

func fieldWithDefault(name, typ, value string) *syntax.Spec {
	return syntax.Branch(syntax.KindContainerField,
		ident(name),
		syntax.Token(":"), sp(),
		syntax.Leaf("builtin_type", typ), sp(),
		syntax.Token("="), sp(),
		syntax.Leaf("integer", value),
	)
}

// tupleField is a nameless container field, as in struct { u8, u16 }.
func tupleField(typ string) *syntax.Spec {
	return syntax.Branch(syntax.KindContainerField, syntax.Leaf("builtin_type", typ))
}

// bareField is a named field with no type annotation.
func bareField(name string) *syntax.Spec {
	return syntax.Branch(syntax.KindContainerField, ident(name))
}

func structField(name string, body *syntax.Spec) *syntax.Spec {
	return syntax.Branch(syntax.KindContainerField,
		ident(name),
		syntax.Token(":"), sp(),
		body,
	)
}

func pubBinding(name string, value *syntax.Spec) *syntax.Spec {
	return syntax.Branch(syntax.KindVariableDecl,
		syntax.Token("pub"), sp(),
		syntax.Token("const"), sp(),
		ident(name), sp(),
		syntax.Token("="), sp(),
		value,
		syntax.Token(";"),
	)
}
