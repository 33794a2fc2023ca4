package syntax

import "testing"

func buildSample() *MemTree {
	return Build(Branch(KindSourceFile,
		Leaf(KindComment, "/// doc"),
		Space("\n"),
		Branch(KindVariableDecl,
			Token("const"),
			Space(" "),
			Leaf(KindIdentifier, "x"),
			Space(" "),
			Token("="),
			Space(" "),
			Leaf("integer", "1").Field("value"),
			Token(";"),
		),
		Space("\n"),
	))
}

func TestBuild_SourceAndSpans(t *testing.T) {
	tree := buildSample()

	if got, want := string(tree.Source()), "/// doc\nconst x = 1;\n"; got != want {
		t.Fatalf("Source() = %q, want %q", got, want)
	}

	root := tree.Root()
	if root.Kind() != KindSourceFile {
		t.Errorf("root kind = %q", root.Kind())
	}
	if root.ChildCount() != 2 {
		t.Fatalf("root ChildCount() = %d, want 2", root.ChildCount())
	}

	decl := root.Child(1)
	if got := Text(decl, tree.Source()); got != "const x = 1;" {
		t.Errorf("decl text = %q", got)
	}
	if got := Text(root, tree.Source()); got != "/// doc\nconst x = 1;" {
		t.Errorf("root text = %q", got)
	}
}

func TestMemTree_Navigation(t *testing.T) {
	tree := buildSample()
	src := tree.Source()
	decl := tree.Root().Child(1)

	if decl.ChildCount() != 5 {
		t.Errorf("decl ChildCount() = %d, want 5", decl.ChildCount())
	}
	if decl.NamedChildCount() != 2 {
		t.Errorf("decl NamedChildCount() = %d, want 2", decl.NamedChildCount())
	}
	if got := Text(decl.NamedChild(0), src); got != "x" {
		t.Errorf("NamedChild(0) = %q, want x", got)
	}
	if decl.NamedChild(2) != nil {
		t.Error("NamedChild(2) should be nil")
	}
	if decl.Child(-1) != nil || decl.Child(99) != nil {
		t.Error("out of range Child should be nil")
	}

	prev := decl.PrevNamedSibling()
	if prev == nil || prev.Kind() != KindComment {
		t.Fatalf("PrevNamedSibling() = %v, want comment", prev)
	}
	if prev.PrevNamedSibling() != nil {
		t.Error("first child should have no previous named sibling")
	}
	if tree.Root().PrevNamedSibling() != nil {
		t.Error("root should have no previous named sibling")
	}

	// PrevNamedSibling skips anonymous tokens.
	value := decl.ChildByFieldName("value")
	if value == nil {
		t.Fatal("ChildByFieldName(value) = nil")
	}
	if got := Text(value.PrevNamedSibling(), src); got != "x" {
		t.Errorf("value.PrevNamedSibling() = %q, want x", got)
	}
	if decl.ChildByFieldName("missing") != nil {
		t.Error("unknown field should be nil")
	}
	if decl.ChildByFieldName("") != nil {
		t.Error("empty field name should be nil")
	}
}

func TestText_Clamped(t *testing.T) {
	tree := buildSample()
	if got := Text(tree.Root(), []byte("/// d")); got != "/// d" {
		t.Errorf("Text() with short source = %q", got)
	}
	if got := Text(nil, tree.Source()); got != "" {
		t.Errorf("Text(nil) = %q", got)
	}
}

func TestFirstChildOfKind(t *testing.T) {
	tree := buildSample()
	decl := tree.Root().Child(1)

	if got := FirstChildOfKind(decl, "integer", KindIdentifier); got == nil || got.Kind() != KindIdentifier {
		t.Errorf("FirstChildOfKind() = %v, want identifier", got)
	}
	if FirstChildOfKind(decl, KindStructDecl) != nil {
		t.Error("FirstChildOfKind(struct_declaration) should be nil")
	}
	if FirstChildOfKind(nil, KindIdentifier) != nil {
		t.Error("FirstChildOfKind(nil) should be nil")
	}
	if n := len(Children(decl)); n != 5 {
		t.Errorf("len(Children) = %d, want 5", n)
	}
	if n := len(NamedChildren(decl)); n != 2 {
		t.Errorf("len(NamedChildren) = %d, want 2", n)
	}
}

func TestBuild_EmptyBranch(t *testing.T) {
	tree := Build(Branch(KindSourceFile))
	root := tree.Root()
	if root.StartByte() != 0 || root.EndByte() != 0 {
		t.Errorf("empty root span = [%d,%d)", root.StartByte(), root.EndByte())
	}
	if len(tree.Source()) != 0 {
		t.Errorf("empty tree source = %q", tree.Source())
	}
}
