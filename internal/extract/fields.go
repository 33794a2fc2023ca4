package extract

import (
	"zigdoc/internal/docmodel"
	"zigdoc/internal/syntax"
)

// separators are the tokens that can sit between a field's name and its type.
var separators = map[string]bool{
	":": true,
	",": true,
	"=": true,
}

// Fields extracts the container fields of a struct_declaration node, one level deep.
// Fields without a name are skipped; a named field without a resolvable type is
// kept with an empty Type.
func Fields(body syntax.Node, source []byte) []docmodel.Field {
	fields := []docmodel.Field{}
	if body == nil {
		return fields
	}

	for _, member := range syntax.NamedChildren(body) {
		if member.Kind() != syntax.KindContainerField {
			continue
		}

		name, typ := fieldNameAndType(member, source)
		if name == "" {
			continue
		}

		fields = append(fields, docmodel.Field{
			Name: name,
			Type: typ,
			Doc:  AssociatedDoc(member, source),
		})
	}

	return fields
}

// fieldNameAndType returns the first identifier child as the name and the first
// later child that is not a separator as the type.
func fieldNameAndType(field syntax.Node, source []byte) (string, string) {
	children := syntax.Children(field)

	nameIdx := -1
	for i, c := range children {
		if c.Kind() == syntax.KindIdentifier {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return "", ""
	}

	name := syntax.Text(children[nameIdx], source)
	for _, c := range children[nameIdx+1:] {
		if isSeparator(c, source) {
			continue
		}
		return name, syntax.Text(c, source)
	}
	return name, ""
}

func isSeparator(n syntax.Node, source []byte) bool {
	if n.IsNamed() {
		return false
	}
	return separators[syntax.Text(n, source)] || separators[n.Kind()]
}
