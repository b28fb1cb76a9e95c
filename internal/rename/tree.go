package rename

// Tree is an in-memory Node.
type Tree struct {
	name     string
	editable bool
	kids     []*Tree
}

// NewTree returns an editable node with the given children.
func NewTree(name string, children ...*Tree) *Tree {
	return &Tree{name: name, editable: true, kids: children}
}

// NewLocked returns a node that the service skips.
func NewLocked(name string, children ...*Tree) *Tree {
	return &Tree{name: name, kids: children}
}

// Add appends children and returns t.
func (t *Tree) Add(children ...*Tree) *Tree {
	t.kids = append(t.kids, children...)
	return t
}

// Name implements Node.
func (t *Tree) Name() string { return t.name }

// SetName implements Node.
func (t *Tree) SetName(name string) error {
	t.name = name
	return nil
}

// Editable implements Node.
func (t *Tree) Editable() bool { return t.editable }

// SetEditable toggles whether the node can be renamed.
func (t *Tree) SetEditable(editable bool) { t.editable = editable }

// Children implements Node.
func (t *Tree) Children() ([]Node, error) {
	out := make([]Node, len(t.kids))
	for i, k := range t.kids {
		out[i] = k
	}
	return out, nil
}

// Subtrees returns the direct children as *Tree.
func (t *Tree) Subtrees() []*Tree { return t.kids }

// Names lists t and its descendants in pre-order.
func (t *Tree) Names() []string {
	var names []string
	var walk func(*Tree)
	walk = func(n *Tree) {
		names = append(names, n.name)
		for _, k := range n.kids {
			walk(k)
		}
	}
	walk(t)
	return names
}
