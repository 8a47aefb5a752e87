package render

// Node is a mounted view plus the local state its component keeps between
// renders (a carousel's current slide, an expanded accordion).
type Node struct {
	View  View
	State map[string]int
}

// Tree reconciles successive renders by view key, so a node survives any edit
// that does not remove its section.
type Tree struct {
	nodes map[string]*Node
	order []string
}

func NewTree() *Tree { return &Tree{nodes: map[string]*Node{}} }

// Reconcile mounts views, reusing nodes whose key is already present and
// unmounting the rest.
func (t *Tree) Reconcile(views []View) []*Node {
	next := make(map[string]*Node, len(views))
	out := make([]*Node, 0, len(views))
	t.order = t.order[:0]
	for _, v := range views {
		n, ok := t.nodes[v.Key]
		if !ok {
			n = &Node{State: map[string]int{}}
		}
		n.View = v
		next[v.Key] = n
		out = append(out, n)
		t.order = append(t.order, v.Key)
	}
	t.nodes = next
	return out
}

func (t *Tree) Node(key string) (*Node, bool) {
	n, ok := t.nodes[key]
	return n, ok
}

// Keys lists mounted keys in render order.
func (t *Tree) Keys() []string { return append([]string(nil), t.order...) }
