// Package docmodel defines the language-agnostic documentation model produced by
// the extractor and consumed by renderers.
package docmodel

// Function is a documented top-level function.
type Function struct {
	// Name is the function's identifier
	Name string `json:"name" yaml:"name" toml:"name"`

	// Doc is the associated /// text, possibly empty
	Doc string `json:"doc" yaml:"doc" toml:"doc"`

	// Signature is the declaration text up to the body, e.g. "pub fn main() void"
	Signature string `json:"signature" yaml:"signature" toml:"signature"`
}

// Constant is a top-level variable binding that is neither an import nor a struct.
type Constant struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Doc  string `json:"doc" yaml:"doc" toml:"doc"`
}

// Field is one member of a struct body.
type Field struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Type string `json:"type" yaml:"type" toml:"type"`
	Doc  string `json:"doc" yaml:"doc" toml:"doc"`
}

// Struct is a top-level binding whose value is a struct.
type Struct struct {
	Name   string  `json:"name" yaml:"name" toml:"name"`
	Doc    string  `json:"doc" yaml:"doc" toml:"doc"`
	Fields []Field `json:"fields" yaml:"fields" toml:"fields"`
}

// Model is the documentation extracted from one source file.
type Model struct {
	// Doc is the joined //! module documentation
	Doc string `json:"doc" yaml:"doc" toml:"doc"`

	Functions []Function `json:"functions" yaml:"functions" toml:"functions"`
	Constants []Constant `json:"constants" yaml:"constants" toml:"constants"`
	Structs   []Struct   `json:"structs" yaml:"structs" toml:"structs"`
}

// Module is a Model together with the file it came from.
type Module struct {
	Path  string `json:"path" yaml:"path" toml:"path"`
	Name  string `json:"name" yaml:"name" toml:"name"`
	Model `yaml:",inline"`
}

// Assemble packs extracted parts into a Model. Nil sequences become empty ones so
// that equal inputs always produce equal, identically serialized models.
func Assemble(doc string, functions []Function, constants []Constant, structs []Struct) *Model {
	if functions == nil {
		functions = []Function{}
	}
	if constants == nil {
		constants = []Constant{}
	}
	if structs == nil {
		structs = []Struct{}
	}
	for i := range structs {
		if structs[i].Fields == nil {
			structs[i].Fields = []Field{}
		}
	}
	return &Model{
		Doc:       doc,
		Functions: functions,
		Constants: constants,
		Structs:   structs,
	}
}

// Empty returns a model with no documentation.
func Empty() *Model {
	return Assemble("", nil, nil, nil)
}

// IsEmpty reports whether the model carries no documentation at all.
func (m *Model) IsEmpty() bool {
	return m.Doc == "" && len(m.Functions) == 0 && len(m.Constants) == 0 && len(m.Structs) == 0
}

// Counts returns the number of functions, constants, structs and fields.
func (m *Model) Counts() (functions, constants, structs, fields int) {
	for _, s := range m.Structs {
		fields += len(s.Fields)
	}
	return len(m.Functions), len(m.Constants), len(m.Structs), fields
}

// AsMap returns the model as plain nested maps and slices:
// {doc, functions, constants, structs}. This is the shape template-driven
// renderers consume.
func (m *Model) AsMap() map[string]any {
	functions := make([]any, 0, len(m.Functions))
	for _, f := range m.Functions {
		functions = append(functions, map[string]any{
			"name":      f.Name,
			"doc":       f.Doc,
			"signature": f.Signature,
		})
	}

	constants := make([]any, 0, len(m.Constants))
	for _, c := range m.Constants {
		constants = append(constants, map[string]any{
			"name": c.Name,
			"doc":  c.Doc,
		})
	}

	structs := make([]any, 0, len(m.Structs))
	for _, s := range m.Structs {
		fields := make([]any, 0, len(s.Fields))
		for _, f := range s.Fields {
			fields = append(fields, map[string]any{
				"name": f.Name,
				"type": f.Type,
				"doc":  f.Doc,
			})
		}
		structs = append(structs, map[string]any{
			"name":   s.Name,
			"doc":    s.Doc,
			"fields": fields,
		})
	}

	return map[string]any{
		"doc":       m.Doc,
		"functions": functions,
		"constants": constants,
		"structs":   structs,
	}
}

// AsMap returns the module mapping: the model's keys plus path and name.
func (m *Module) AsMap() map[string]any {
	out := m.Model.AsMap()
	out["path"] = m.Path
	out["name"] = m.Name
	return out
}
