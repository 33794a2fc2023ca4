package syntax

// Tree is a parsed source file: its root node plus the bytes the spans index into.
type Tree interface {
	Root() Node
	Source() []byte
}

// Spec describes one node of an in-memory tree before layout.
// Leaves carry text; branches carry children. Spaces contribute text to the
// source without producing a node, the way whitespace sits between tokens.
type Spec struct {
	kind     string
	named    bool
	field    string
	text     string
	space    bool
	children []*Spec
}

// Branch returns a named interior node.
func Branch(kind string, children ...*Spec) *Spec {
	return &Spec{kind: kind, named: true, children: children}
}

// Leaf returns a named node whose source text is text.
func Leaf(kind, text string) *Spec {
	return &Spec{kind: kind, named: true, text: text}
}

// Token returns an anonymous token such as "{" or "fn"; its kind is its text.
func Token(text string) *Spec {
	return &Spec{kind: text, text: text}
}

// Space returns source text that belongs to no node.
func Space(text string) *Spec {
	return &Spec{text: text, space: true}
}

// Field stores s under a grammar field name in its parent.
func (s *Spec) Field(name string) *Spec {
	s.field = name
	return s
}

type memNode struct {
	kind     string
	named    bool
	field    string
	start    uint32
	end      uint32
	parent   int
	children []int
}

// MemTree is an arena-indexed syntax tree laid out from Specs.
// It is immutable after Build and safe for concurrent reads.
type MemTree struct {
	nodes  []memNode
	source []byte
}

// Build lays out root and its descendants, producing the source text and spans.
// A node's span covers its first through last non-space descendant.
func Build(root *Spec) *MemTree {
	t := &MemTree{}
	var buf []byte
	var layout func(s *Spec, parent int) int
	layout = func(s *Spec, parent int) int {
		if s.space {
			buf = append(buf, s.text...)
			return -1
		}
		idx := len(t.nodes)
		t.nodes = append(t.nodes, memNode{kind: s.kind, named: s.named, field: s.field, parent: parent})
		if len(s.children) == 0 {
			t.nodes[idx].start = uint32(len(buf))
			buf = append(buf, s.text...)
			t.nodes[idx].end = uint32(len(buf))
			return idx
		}
		first := true
		for _, c := range s.children {
			ci := layout(c, idx)
			if ci < 0 {
				continue
			}
			t.nodes[idx].children = append(t.nodes[idx].children, ci)
			if first {
				t.nodes[idx].start = t.nodes[ci].start
				first = false
			}
			t.nodes[idx].end = t.nodes[ci].end
		}
		if first {
			t.nodes[idx].start = uint32(len(buf))
			t.nodes[idx].end = uint32(len(buf))
		}
		return idx
	}
	layout(root, -1)
	t.source = buf
	return t
}

// Root returns the tree's root node.
func (t *MemTree) Root() Node {
	if len(t.nodes) == 0 {
		return nil
	}
	return memRef{t: t, idx: 0}
}

// Source returns the laid-out source text.
func (t *MemTree) Source() []byte {
	return t.source
}

type memRef struct {
	t   *MemTree
	idx int
}

func (r memRef) node() *memNode { return &r.t.nodes[r.idx] }

func (r memRef) Kind() string      { return r.node().kind }
func (r memRef) StartByte() uint32 { return r.node().start }
func (r memRef) EndByte() uint32   { return r.node().end }
func (r memRef) IsNamed() bool     { return r.node().named }
func (r memRef) ChildCount() int   { return len(r.node().children) }

func (r memRef) Child(i int) Node {
	children := r.node().children
	if i < 0 || i >= len(children) {
		return nil
	}
	return memRef{t: r.t, idx: children[i]}
}

func (r memRef) NamedChildCount() int {
	n := 0
	for _, c := range r.node().children {
		if r.t.nodes[c].named {
			n++
		}
	}
	return n
}

func (r memRef) NamedChild(i int) Node {
	if i < 0 {
		return nil
	}
	for _, c := range r.node().children {
		if !r.t.nodes[c].named {
			continue
		}
		if i == 0 {
			return memRef{t: r.t, idx: c}
		}
		i--
	}
	return nil
}

func (r memRef) PrevNamedSibling() Node {
	parent := r.node().parent
	if parent < 0 {
		return nil
	}
	siblings := r.t.nodes[parent].children
	pos := -1
	for i, c := range siblings {
		if c == r.idx {
			pos = i
			break
		}
	}
	for i := pos - 1; i >= 0; i-- {
		if r.t.nodes[siblings[i]].named {
			return memRef{t: r.t, idx: siblings[i]}
		}
	}
	return nil
}

func (r memRef) ChildByFieldName(name string) Node {
	if name == "" {
		return nil
	}
	for _, c := range r.node().children {
		if r.t.nodes[c].field == name {
			return memRef{t: r.t, idx: c}
		}
	}
	return nil
}
