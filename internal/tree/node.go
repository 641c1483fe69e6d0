// Package tree is the tree type produced by clustering and consumed by the
// constrained variants: nodes with parent/child links plus the split and
// compatibility primitives used for guide trees and bootstrap support
package tree

// Node is one vertex of a rooted tree. Leaves carry taxon names; internal
// nodes may carry a bootstrap support value
type Node struct {
	Name string

	// Length is the length of the branch leading to this node; meaningless
	// on the root
	Length float64

	// Support is the bootstrap support of the branch above this node in
	// [0,1], or -1 when no support has been computed. Leaves never carry
	// support
	Support float64

	Parent   *Node
	Children []*Node
}

// New creates a node with no support value
func New(name string, length float64) *Node {
	return &Node{Name: name, Length: length, Support: -1}
}

// AddChild links c under n
func (n *Node) AddChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// RemoveChild unlinks c from n, preserving the order of the rest
func (n *Node) RemoveChild(c *Node) {
	for i, ch := range n.Children {
		if ch == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.Parent = nil
			return
		}
	}
}

// IsLeaf reports whether n has no children
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// ChildrenRecursive returns n and every node below it in preorder
func (n *Node) ChildrenRecursive() []*Node {
	out := []*Node{n}
	for _, c := range n.Children {
		out = append(out, c.ChildrenRecursive()...)
	}
	return out
}

// Leaves returns the leaves below n in traversal order
func (n *Node) Leaves() []*Node {
	if n.IsLeaf() {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// Clone deep-copies the subtree rooted at n. The clone's parent is nil
func (n *Node) Clone() *Node {
	c := &Node{Name: n.Name, Length: n.Length, Support: n.Support}
	for _, ch := range n.Children {
		c.AddChild(ch.Clone())
	}
	return c
}

// Root walks up to the root of n's tree
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Prune removes the subtree at target from the tree rooted at n and returns
// the new root. Parents left with a single child are spliced out, adding
// their branch length to the surviving child's. When keepRoot is false a
// root left with one child is replaced by that child
func (n *Node) Prune(target *Node, keepRoot bool) *Node {
	if target == n {
		return nil
	}

	parent := target.Parent
	parent.RemoveChild(target)

	// splice out degree-two interior nodes created by the removal
	for parent != nil && parent != n && len(parent.Children) == 1 {
		only := parent.Children[0]
		only.Length += parent.Length
		gp := parent.Parent
		gp.RemoveChild(parent)
		gp.AddChild(only)
		parent = gp
	}

	if !keepRoot && len(n.Children) == 1 {
		root := n.Children[0]
		root.Parent = nil
		root.Length = 0
		return root
	}
	return n
}

// KeepLeaves prunes every leaf whose name is not in keep and returns the
// new root, or nil when nothing remains. Used to restrict a guide tree to
// the taxa present in an alignment
func (n *Node) KeepLeaves(keep map[string]bool) *Node {
	root := n
	for {
		var drop *Node
		for _, leaf := range root.Leaves() {
			if !keep[leaf.Name] {
				drop = leaf
				break
			}
		}
		if drop == nil {
			return root
		}
		if drop == root || len(root.Leaves()) == 1 {
			return nil
		}
		root = root.Prune(drop, false)
	}
}

// Unroot collapses a bifurcating root into a trifurcation: the root's
// internal child becomes the new root and absorbs its sibling, whose branch
// takes the combined length of the two root edges
func (n *Node) Unroot() *Node {
	if len(n.Children) != 2 {
		return n
	}

	a, b := n.Children[0], n.Children[1]
	if b.IsLeaf() {
		a, b = b, a
	}
	if b.IsLeaf() {
		// two-leaf tree, nothing to collapse
		return n
	}

	a.Length += b.Length
	b.Length = 0
	b.Parent = nil
	b.AddChild(a)
	return b
}

// Reroot makes at the root of its tree by reversing the parent links on the
// path from at upward, and returns it
func (n *Node) Reroot(at *Node) *Node {
	if at.Parent == nil {
		return at
	}

	parent := at.Parent
	length := at.Length
	parent.RemoveChild(at)
	at.Parent = nil
	at.Length = 0

	// walk up, re-hanging each ancestor under its former child
	for parent != nil {
		gp := parent.Parent
		gpLength := parent.Length
		if gp != nil {
			gp.RemoveChild(parent)
		}
		at.AddChild(parent)
		parent.Length = length
		at = parent
		parent = gp
		length = gpLength
	}
	return at.Root()
}
