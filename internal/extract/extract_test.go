package extract

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"

	"zigdoc/internal/docmodel"
	"zigdoc/internal/syntax"
)

func TestExtract_EndToEnd(t *testing.T) {
	tree := file(
		comment("//! This is module-level documentation"),
		comment("//! It describes the entire file"),
		comment("/// Adds two numbers."),
		fnDecl(false, "add", "a: i32, b: i32", "i32"),
		comment("/// A constant named PI."),
		binding("PI", number("3.14159")),
		comment("/// A 2D point struct."),
		binding("Point", structBody(field("x", "i32"), field("y", "i32"))),
	)

	got := New(DefaultOptions(), nil).ExtractTree(tree)

	want := &docmodel.Model{
		Doc: "This is module-level documentation\nIt describes the entire file",
		Functions: []docmodel.Function{
			{Name: "add", Doc: "Adds two numbers.", Signature: "fn add(a: i32, b: i32) i32"},
		},
		Constants: []docmodel.Constant{
			{Name: "PI", Doc: "A constant named PI."},
		},
		Structs: []docmodel.Struct{
			{
				Name: "Point",
				Doc:  "A 2D point struct.",
				Fields: []docmodel.Field{
					{Name: "x", Type: "i32", Doc: ""},
					{Name: "y", Type: "i32", Doc: ""},
				},
			},
		},
	}

	if !reflect.DeepEqual(got, want) {
		gotJSON, _ := json.MarshalIndent(got, "", "  ")
		t.Errorf("Extract() =\n%s", gotJSON)
	}
}

func TestExtract_ModuleDoc(t *testing.T) {
	tests := []struct {
		name  string
		items []*syntax.Spec
		want  string
	}{
		{
			name:  "none",
			items: []*syntax.Spec{binding("x", number("1"))},
			want:  "",
		},
		{
			name: "three lines",
			items: []*syntax.Spec{
				comment("//! one"),
				comment("//!   two  "),
				comment("//! three"),
				binding("x", number("1")),
			},
			want: "one\ntwo\nthree",
		},
		{
			name: "ignores other comments",
			items: []*syntax.Spec{
				comment("//! one"),
				comment("// not docs"),
				comment("/// decl docs"),
				binding("x", number("1")),
			},
			want: "one",
		},
		{
			name: "later module docs are still collected",
			items: []*syntax.Spec{
				comment("//! first"),
				binding("x", number("1")),
				comment("//! second"),
			},
			want: "first\nsecond",
		},
		{
			name:  "empty marker line",
			items: []*syntax.Spec{comment("//! a"), comment("//!"), comment("//! b")},
			want:  "a\n\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(DefaultOptions(), nil).ExtractTree(file(tt.items...))
			if got.Doc != tt.want {
				t.Errorf("Doc = %q, want %q", got.Doc, tt.want)
			}
		})
	}
}

func TestAssociatedDoc(t *testing.T) {
	tests := []struct {
		name  string
		items []*syntax.Spec
		want  string
	}{
		{
			name:  "no comments",
			items: []*syntax.Spec{binding("x", number("1"))},
			want:  "",
		},
		{
			name:  "single line",
			items: []*syntax.Spec{comment("/// One."), binding("x", number("1"))},
			want:  "One.",
		},
		{
			name: "multiple lines keep source order",
			items: []*syntax.Spec{
				comment("/// First."),
				comment("/// Second."),
				comment("/// Third."),
				binding("x", number("1")),
			},
			want: "First.\nSecond.\nThird.",
		},
		{
			name:  "module doc is not absorbed",
			items: []*syntax.Spec{comment("//! Module."), binding("x", number("1"))},
			want:  "",
		},
		{
			name:  "plain comment is not absorbed",
			items: []*syntax.Spec{comment("// note"), binding("x", number("1"))},
			want:  "",
		},
		{
			name: "plain comment stops the run",
			items: []*syntax.Spec{
				comment("/// Detached."),
				comment("// note"),
				comment("/// Attached."),
				binding("x", number("1")),
			},
			want: "Attached.",
		},
		{
			name: "module doc stops the run",
			items: []*syntax.Spec{
				comment("/// Detached."),
				comment("//! Module."),
				comment("/// Attached."),
				binding("x", number("1")),
			},
			want: "Attached.",
		},
		{
			name: "previous declaration stops the run",
			items: []*syntax.Spec{
				comment("/// For y."),
				binding("y", number("2")),
				binding("x", number("1")),
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := file(tt.items...)
			root := tree.Root()
			target := root.Child(root.ChildCount() - 1)
			if got := AssociatedDoc(target, tree.Source()); got != tt.want {
				t.Errorf("AssociatedDoc() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssociatedDoc_Nil(t *testing.T) {
	if got := AssociatedDoc(nil, nil); got != "" {
		t.Errorf("AssociatedDoc(nil) = %q", got)
	}
}

func TestExtract_ImportExclusion(t *testing.T) {
	tree := file(
		binding("std", importCall("std")),
		comment("/// Documented import."),
		binding("mem", importCall("std")),
		comment("/// Print alias."),
		binding("print", fieldAccess(fieldAccess(importCall("std"), "debug"), "print")),
		comment("/// Real constant."),
		binding("answer", number("42")),
	)

	for _, policy := range []Policy{EmitDocumented, EmitAll} {
		t.Run(string(policy), func(t *testing.T) {
			got := New(Options{Emission: policy}, nil).ExtractTree(tree)
			if len(got.Structs) != 0 {
				t.Errorf("imports leaked into structs: %+v", got.Structs)
			}
			if len(got.Constants) != 1 || got.Constants[0].Name != "answer" {
				t.Errorf("Constants = %+v, want only answer", got.Constants)
			}
		})
	}
}

func TestExtract_CustomImportBuiltin(t *testing.T) {
	tree := file(
		comment("/// Not an import under a custom builtin."),
		binding("std", importCall("std")),
	)

	got := New(Options{ImportBuiltin: "@cImport"}, nil).ExtractTree(tree)
	if len(got.Constants) != 1 || got.Constants[0].Name != "std" {
		t.Errorf("Constants = %+v, want std", got.Constants)
	}
}

func TestExtract_StructConstantSplit(t *testing.T) {
	tree := file(
		comment("/// A struct."),
		binding("S", structBody(field("a", "u8"))),
		comment("/// A constant."),
		binding("C", number("1")),
		comment("/// An empty struct."),
		binding("E", structBody()),
	)

	got := New(DefaultOptions(), nil).ExtractTree(tree)

	if len(got.Structs) != 2 || got.Structs[0].Name != "S" || got.Structs[1].Name != "E" {
		t.Fatalf("Structs = %+v", got.Structs)
	}
	if len(got.Constants) != 1 || got.Constants[0].Name != "C" {
		t.Fatalf("Constants = %+v", got.Constants)
	}
	if got.Structs[1].Fields == nil || len(got.Structs[1].Fields) != 0 {
		t.Errorf("empty struct fields = %#v, want empty slice", got.Structs[1].Fields)
	}
}

func TestExtract_FieldDocs(t *testing.T) {
	tree := file(
		comment("/// A spreadsheet position"),
		binding("Pos", structBody(
			comment("/// (0-indexed) row"),
			field("x", "u32"),
			comment("/// (0-indexed) column"),
			field("y", "u32"),
		)),
	)

	got := New(DefaultOptions(), nil).ExtractTree(tree)
	if len(got.Structs) != 1 {
		t.Fatalf("Structs = %+v", got.Structs)
	}

	want := []docmodel.Field{
		{Name: "x", Type: "u32", Doc: "(0-indexed) row"},
		{Name: "y", Type: "u32", Doc: "(0-indexed) column"},
	}
	if !reflect.DeepEqual(got.Structs[0].Fields, want) {
		t.Errorf("Fields = %+v, want %+v", got.Structs[0].Fields, want)
	}
	if got.Structs[0].Doc != "A spreadsheet position" {
		t.Errorf("struct Doc = %q", got.Structs[0].Doc)
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name    string
		members []*syntax.Spec
		want    []docmodel.Field
	}{
		{
			name:    "nameless tuple fields skipped",
			members: []*syntax.Spec{tupleField("u8"), tupleField("u16")},
			want:    []docmodel.Field{},
		},
		{
			name:    "untyped field kept with empty type",
			members: []*syntax.Spec{bareField("bare")},
			want:    []docmodel.Field{{Name: "bare", Type: ""}},
		},
		{
			name:    "default value is not the type",
			members: []*syntax.Spec{comment("/// Depth."), fieldWithDefault("d", "u8", "0")},
			want:    []docmodel.Field{{Name: "d", Type: "u8", Doc: "Depth."}},
		},
		{
			name:    "nested struct stays one level deep",
			members: []*syntax.Spec{structField("inner", structBody(field("deep", "u8")))},
			want:    []docmodel.Field{{Name: "inner", Type: "struct {\ndeep: u8\n}"}},
		},
		{
			name: "non-field members ignored",
			members: []*syntax.Spec{
				field("a", "u8"),
				comment("/// Not a field."),
				pubBinding("inner", number("1")),
				fnDecl(true, "method", "self: S", "void"),
			},
			want: []docmodel.Field{{Name: "a", Type: "u8"}},
		},
		{
			name: "mixed",
			members: []*syntax.Spec{
				tupleField("u32"),
				bareField("bare"),
				fieldWithDefault("d", "u8", "0"),
				structField("inner", structBody(field("deep", "u8"))),
			},
			want: []docmodel.Field{
				{Name: "bare", Type: ""},
				{Name: "d", Type: "u8"},
				{Name: "inner", Type: "struct {\ndeep: u8\n}"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := file(binding("S", structBody(tt.members...)))

			got := New(DefaultOptions(), nil).ExtractTree(tree)
			if len(got.Structs) != 1 {
				t.Fatalf("Structs = %+v", got.Structs)
			}
			if !reflect.DeepEqual(got.Structs[0].Fields, tt.want) {
				t.Errorf("Fields = %#v, want %#v", got.Structs[0].Fields, tt.want)
			}
			if len(got.Constants) != 0 || len(got.Functions) != 0 {
				t.Errorf("struct members leaked to top level: constants %+v, functions %+v", got.Constants, got.Functions)
			}
		})
	}
}

func TestExtract_EmissionPolicy(t *testing.T) {
	tree := file(
		fnDecl(false, "helper", "", "void"),
		comment("/// Main function"),
		fnDecl(true, "main", "", "void"),
		binding("internal", number("1")),
		comment("/// Exported."),
		binding("exported", number("2")),
		binding("Undocumented", structBody(field("a", "u8"))),
	)

	documented := New(Options{Emission: EmitDocumented}, nil).ExtractTree(tree)
	if len(documented.Functions) != 1 || documented.Functions[0].Name != "main" {
		t.Errorf("documented Functions = %+v", documented.Functions)
	}
	if documented.Functions[0].Signature != "pub fn main() void" {
		t.Errorf("Signature = %q", documented.Functions[0].Signature)
	}
	if len(documented.Constants) != 1 || documented.Constants[0].Name != "exported" {
		t.Errorf("documented Constants = %+v", documented.Constants)
	}
	// Structs are emitted regardless of documentation.
	if len(documented.Structs) != 1 {
		t.Errorf("documented Structs = %+v", documented.Structs)
	}

	all := New(Options{Emission: EmitAll}, nil).ExtractTree(tree)
	if len(all.Functions) != 2 || all.Functions[0].Name != "helper" || all.Functions[1].Name != "main" {
		t.Errorf("all Functions = %+v", all.Functions)
	}
	if all.Functions[0].Doc != "" {
		t.Errorf("helper Doc = %q, want empty", all.Functions[0].Doc)
	}
	if len(all.Constants) != 2 || all.Constants[0].Name != "internal" {
		t.Errorf("all Constants = %+v", all.Constants)
	}
}

func TestExtract_NamelessDeclarationsSkipped(t *testing.T) {
	tree := file(
		comment("/// Nameless function."),
		syntax.Branch(syntax.KindFunctionDecl,
			syntax.Token("fn"),
			syntax.Leaf("parameters", "()"), sp(),
			syntax.Leaf("builtin_type", "void"),
		),
		comment("/// Nameless binding."),
		syntax.Branch(syntax.KindVariableDecl, syntax.Token("const"), sp(), syntax.Token("="), sp(), number("1"), syntax.Token(";")),
		comment("/// Nameless struct."),
		syntax.Branch(syntax.KindVariableDecl, syntax.Token("const"), sp(), structBody()),
	)

	got := New(Options{Emission: EmitAll}, nil).ExtractTree(tree)
	if !got.IsEmpty() {
		t.Errorf("expected empty model, got %+v", got)
	}
}

func TestExtract_ErrorNodesAreInert(t *testing.T) {
	tree := file(
		comment("/// Swallowed by a parse error."),
		syntax.Branch(syntax.KindError, fnDecl(false, "broken", "", "void")),
		fnDecl(false, "after", "", "void"),
		comment("/// Still fine."),
		binding("ok", number("1")),
	)

	got := New(Options{Emission: EmitAll}, nil).ExtractTree(tree)

	if len(got.Functions) != 1 || got.Functions[0].Name != "after" {
		t.Errorf("Functions = %+v, want only after", got.Functions)
	}
	if got.Functions[0].Doc != "" {
		t.Errorf("doc leaked across ERROR node: %q", got.Functions[0].Doc)
	}
	if len(got.Constants) != 1 || got.Constants[0].Doc != "Still fine." {
		t.Errorf("Constants = %+v", got.Constants)
	}
}

func TestExtract_NilInputs(t *testing.T) {
	e := New(DefaultOptions(), nil)

	for name, m := range map[string]*docmodel.Model{
		"nil root": e.Extract(nil, nil),
		"nil tree": e.ExtractTree(nil),
		"empty":    e.ExtractTree(syntax.Build(syntax.Branch(syntax.KindSourceFile))),
	} {
		if m == nil || !m.IsEmpty() {
			t.Errorf("%s: got %+v, want empty model", name, m)
		}
		if m.Functions == nil || m.Constants == nil || m.Structs == nil {
			t.Errorf("%s: nil sequences in %+v", name, m)
		}
	}
}

func TestExtract_Idempotent(t *testing.T) {
	tree := file(
		comment("//! Mod."),
		comment("/// Fn."),
		fnDecl(true, "f", "x: u8", "u8"),
		comment("/// S."),
		binding("S", structBody(comment("/// a"), field("a", "u8"))),
	)
	e := New(DefaultOptions(), nil)

	first := e.ExtractTree(tree)
	second := e.ExtractTree(tree)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two extractions differ")
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("serialized models differ:\n%s\n%s", a, b)
	}
}

func TestExtract_ConcurrentUse(t *testing.T) {
	tree := file(comment("/// Doc."), binding("x", number("1")))
	e := New(DefaultOptions(), nil)

	var wg sync.WaitGroup
	results := make([]*docmodel.Model, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.ExtractTree(tree)
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if len(r.Constants) != 1 || r.Constants[0].Doc != "Doc." {
			t.Errorf("result %d = %+v", i, r)
		}
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		name string
		spec *syntax.Spec
		want string
	}{
		{"with body", fnDecl(true, "main", "", "void"), "pub fn main() void"},
		{
			"extern without body",
			syntax.Branch(syntax.KindFunctionDecl,
				syntax.Token("extern"), sp(), syntax.Token("fn"), sp(), ident("puts"),
				syntax.Leaf("parameters", "(s: [*:0]const u8)"), sp(),
				syntax.Leaf("builtin_type", "c_int"), syntax.Token(";"),
			),
			"extern fn puts(s: [*:0]const u8) c_int;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := syntax.Build(syntax.Branch(syntax.KindSourceFile, tt.spec))
			if got := Signature(tree.Root().Child(0), tree.Source()); got != tt.want {
				t.Errorf("Signature() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", EmitDocumented, false},
		{"documented", EmitDocumented, false},
		{"ALL", EmitAll, false},
		{" all ", EmitAll, false},
		{"public", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	opts := New(Options{}, nil).Options()
	if opts.Emission != EmitDocumented {
		t.Errorf("Emission = %q", opts.Emission)
	}
	if opts.ImportBuiltin != DefaultImportBuiltin {
		t.Errorf("ImportBuiltin = %q", opts.ImportBuiltin)
	}
}
