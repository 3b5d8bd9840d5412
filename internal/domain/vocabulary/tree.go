// Package vocabulary holds hierarchical controlled vocabularies (e.g. occupations)
// with per-node entity counts.
package vocabulary

// RootID is the ID of the virtual node wrapping the top-level categories.
const RootID = "root"

// Node is a vocabulary entry. Count comes from the API and is display-only:
// it is never recomputed from children.
type Node struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Children []*Node `json:"children,omitempty"`
}

// NewRoot wraps top-level categories in the virtual root.
func NewRoot(children ...*Node) *Node {
	return &Node{ID: RootID, Children: children}
}

// IsRoot reports whether n is the virtual root.
func (n *Node) IsRoot() bool { return n != nil && n.ID == RootID }

// Walk visits nodes depth-first, pre-order. Returning false skips the subtree.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Compact removes null children throughout the subtree.
func (n *Node) Compact() {
	if n == nil {
		return
	}
	n.Children = nonNil(n.Children)
	for _, c := range n.Children {
		c.Compact()
	}
}

// Find returns the node with id, nil if absent.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(node *Node, _ int) bool {
		if found != nil {
			return false
		}
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// Depth returns the number of levels below n (0 for a leaf).
func (n *Node) Depth() int {
	deepest := 0
	n.Walk(func(_ *Node, depth int) bool {
		if depth > deepest {
			deepest = depth
		}
		return true
	})
	return deepest
}
