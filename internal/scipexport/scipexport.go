// Package scipexport converts documentation modules into a SCIP index, so
// extracted Zig docs can be loaded by tools that consume SCIP.
package scipexport

import (
	"path"
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"zigdoc/internal/docmodel"
)

// Scheme is the symbol scheme of every exported symbol.
const Scheme = "zigdoc"

// ToolInfo describes the program that produced the index.
type ToolInfo struct {
	Name      string
	Version   string
	Arguments []string
}

// Build creates one SCIP document per module. projectRoot becomes the index's
// project root URI when set.
func Build(modules []docmodel.Module, tool ToolInfo, projectRoot string) *scippb.Index {
	docs := make([]*scippb.Document, 0, len(modules))
	for i := range modules {
		docs = append(docs, buildDocument(&modules[i]))
	}

	return &scippb.Index{
		Metadata: &scippb.Metadata{
			Version: scippb.ProtocolVersion_UnspecifiedProtocolVersion,
			ToolInfo: &scippb.ToolInfo{
				Name:      tool.Name,
				Version:   tool.Version,
				Arguments: tool.Arguments,
			},
			ProjectRoot:          projectRoot,
			TextDocumentEncoding: scippb.TextEncoding_UTF8,
		},
		Documents: docs,
	}
}

// Marshal encodes index in the SCIP protobuf wire format.
func Marshal(index *scippb.Index) ([]byte, error) {
	return proto.Marshal(index)
}

func buildDocument(mod *docmodel.Module) *scippb.Document {
	rel := strings.TrimPrefix(path.Clean(mod.Path), "./")
	prefix := namespacePrefix(rel)

	var symbols []*scippb.SymbolInformation

	for _, fn := range mod.Functions {
		doc := []string{"```zig\n" + fn.Signature + "\n```"}
		if fn.Doc != "" {
			doc = append(doc, fn.Doc)
		}
		symbols = append(symbols, &scippb.SymbolInformation{
			Symbol:        prefix + escape(fn.Name) + "().",
			Documentation: doc,
			Kind:          scippb.SymbolInformation_Function,
			DisplayName:   fn.Name,
		})
	}

	for _, c := range mod.Constants {
		symbols = append(symbols, &scippb.SymbolInformation{
			Symbol:        prefix + escape(c.Name) + ".",
			Documentation: documentation(c.Doc),
			Kind:          scippb.SymbolInformation_Constant,
			DisplayName:   c.Name,
		})
	}

	for _, st := range mod.Structs {
		structSymbol := prefix + escape(st.Name) + "#"
		symbols = append(symbols, &scippb.SymbolInformation{
			Symbol:        structSymbol,
			Documentation: documentation(st.Doc),
			Kind:          scippb.SymbolInformation_Struct,
			DisplayName:   st.Name,
		})
		for _, f := range st.Fields {
			var doc []string
			if f.Type != "" {
				doc = append(doc, "```zig\n"+f.Name+": "+f.Type+"\n```")
			}
			doc = append(doc, documentation(f.Doc)...)
			symbols = append(symbols, &scippb.SymbolInformation{
				Symbol:          structSymbol + escape(f.Name) + ".",
				Documentation:   doc,
				Kind:            scippb.SymbolInformation_Field,
				DisplayName:     f.Name,
				EnclosingSymbol: structSymbol,
			})
		}
	}

	return &scippb.Document{
		Language:         "zig",
		RelativePath:     rel,
		Symbols:          symbols,
		PositionEncoding: scippb.PositionEncoding_UTF8CodeUnitOffsetFromLineStart,
	}
}

// SymbolPrefix returns the symbol prefix for declarations in the file at rel.
func SymbolPrefix(rel string) string {
	return namespacePrefix(strings.TrimPrefix(path.Clean(rel), "./"))
}

// namespacePrefix renders "zigdoc . . . " followed by one namespace
// descriptor per path segment.
func namespacePrefix(rel string) string {
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString(" . . . ")
	for _, seg := range strings.Split(rel, "/") {
		if seg == "" {
			continue
		}
		b.WriteString(escape(seg))
		b.WriteByte('/')
	}
	return b.String()
}

func documentation(doc string) []string {
	if doc == "" {
		return nil
	}
	return []string{doc}
}

// escape backtick-quotes names that are not simple SCIP identifiers.
func escape(name string) string {
	if isSimpleIdentifier(name) {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func isSimpleIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '+', r == '-', r == '$':
		default:
			return false
		}
	}
	return true
}
