// Package extract builds a documentation model from a Zig syntax tree.
//
// Only the root's direct children are classified. Functions, structs and
// constants pick up the /// comments immediately above them; //! comments at
// the top level form the module doc; imports are dropped. The extractor never
// fails: unrecognized or ERROR nodes contribute nothing.
package extract

import (
	"log/slog"
	"strings"

	"zigdoc/internal/docmodel"
	"zigdoc/internal/slogutil"
	"zigdoc/internal/syntax"
)

// Extractor extracts documentation from parsed Zig files.
// It holds no per-file state and may be shared between goroutines.
type Extractor struct {
	opts   Options
	logger *slog.Logger
}

// New creates an Extractor. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Extractor{
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Options returns the effective options.
func (e *Extractor) Options() Options {
	return e.opts
}

// ExtractTree extracts documentation from a parsed tree.
func (e *Extractor) ExtractTree(tree syntax.Tree) *docmodel.Model {
	if tree == nil {
		return docmodel.Empty()
	}
	return e.Extract(tree.Root(), tree.Source())
}

// Extract extracts documentation from root, whose spans index into source.
// A nil root yields an empty model.
func (e *Extractor) Extract(root syntax.Node, source []byte) *docmodel.Model {
	if root == nil {
		return docmodel.Empty()
	}

	var (
		functions []docmodel.Function
		constants []docmodel.Constant
		structs   []docmodel.Struct
	)

	for _, node := range syntax.Children(root) {
		switch node.Kind() {
		case syntax.KindFunctionDecl:
			if fn, ok := e.function(node, source); ok {
				functions = append(functions, fn)
			}

		case syntax.KindVariableDecl:
			binding := ClassifyBinding(node, source, e.opts.ImportBuiltin)
			switch binding.Kind {
			case BindingImport:
				continue
			case BindingStruct:
				if st, ok := e.structure(node, binding.Body, source); ok {
					structs = append(structs, st)
				}
			default:
				if c, ok := e.constant(node, source); ok {
					constants = append(constants, c)
				}
			}

		case syntax.KindError:
			e.logger.Debug("Skipping parse error node",
				"start", node.StartByte(),
				"end", node.EndByte(),
			)
		}
	}

	return docmodel.Assemble(ModuleDoc(root, source), functions, constants, structs)
}

func (e *Extractor) function(node syntax.Node, source []byte) (docmodel.Function, bool) {
	name := syntax.Text(syntax.FirstChildOfKind(node, syntax.KindIdentifier, syntax.KindBuiltinIdent), source)
	if name == "" {
		e.logger.Debug("Skipping nameless function", "start", node.StartByte())
		return docmodel.Function{}, false
	}

	doc := AssociatedDoc(node, source)
	if !e.opts.emit(doc) {
		return docmodel.Function{}, false
	}

	return docmodel.Function{
		Name:      name,
		Doc:       doc,
		Signature: Signature(node, source),
	}, true
}

func (e *Extractor) constant(node syntax.Node, source []byte) (docmodel.Constant, bool) {
	name := bindingName(node, source)
	if name == "" {
		e.logger.Debug("Skipping nameless binding", "start", node.StartByte())
		return docmodel.Constant{}, false
	}

	doc := AssociatedDoc(node, source)
	if !e.opts.emit(doc) {
		return docmodel.Constant{}, false
	}

	return docmodel.Constant{Name: name, Doc: doc}, true
}

func (e *Extractor) structure(node, body syntax.Node, source []byte) (docmodel.Struct, bool) {
	name := bindingName(node, source)
	if name == "" {
		e.logger.Debug("Skipping nameless struct binding", "start", node.StartByte())
		return docmodel.Struct{}, false
	}

	return docmodel.Struct{
		Name:   name,
		Doc:    AssociatedDoc(node, source),
		Fields: Fields(body, source),
	}, true
}

// Signature returns the declaration text before its body's opening brace, trimmed.
func Signature(node syntax.Node, source []byte) string {
	text := syntax.Text(node, source)
	if i := strings.IndexByte(text, '{'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

func bindingName(node syntax.Node, source []byte) string {
	return syntax.Text(syntax.FirstChildOfKind(node, syntax.KindIdentifier), source)
}
