package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// caterpillar builds ((A,B),(C,D)) with unit branch lengths
func caterpillar() *Node {
	root := New("", 0)
	ab := New("", 1)
	cd := New("", 1)
	root.AddChild(ab)
	root.AddChild(cd)
	ab.AddChild(New("A", 1))
	ab.AddChild(New("B", 1))
	cd.AddChild(New("C", 1))
	cd.AddChild(New("D", 1))
	return root
}

func leafNames(n *Node) []string {
	var names []string
	for _, l := range n.Leaves() {
		names = append(names, l.Name)
	}
	return names
}

func TestLeavesAndTraversal(t *testing.T) {
	root := caterpillar()

	assert.Equal(t, []string{"A", "B", "C", "D"}, leafNames(root))
	assert.Len(t, root.ChildrenRecursive(), 7)
	assert.Same(t, root, root.ChildrenRecursive()[0])

	leaf := root.Leaves()[0]
	assert.Same(t, root, leaf.Root())
}

func TestClone(t *testing.T) {
	root := caterpillar()
	c := root.Clone()

	require.Nil(t, c.Parent)
	assert.Equal(t, leafNames(root), leafNames(c))
	assert.Equal(t, root.Newick(), c.Newick())

	// mutating the clone leaves the original alone
	c.Children[0].Children[0].Name = "Z"
	assert.Equal(t, "A", root.Children[0].Children[0].Name)
}

func TestPrune(t *testing.T) {
	root := caterpillar()
	var a *Node
	for _, l := range root.Leaves() {
		if l.Name == "A" {
			a = l
		}
	}
	require.NotNil(t, a)

	parentLen := a.Parent.Length // absorbed by B on splice

	got := root.Prune(a, false)
	assert.ElementsMatch(t, []string{"B", "C", "D"}, leafNames(got))

	// B was spliced up under the root with a combined branch length
	var b *Node
	for _, l := range got.Leaves() {
		if l.Name == "B" {
			b = l
		}
	}
	require.NotNil(t, b)
	assert.Same(t, got, b.Parent)
	assert.InDelta(t, 1+parentLen, b.Length, 1e-9)
}

func TestPruneKeepRoot(t *testing.T) {
	// pruning one of two root children keeps the root when asked
	root := New("", 0)
	a, b := New("A", 1), New("B", 1)
	root.AddChild(a)
	root.AddChild(b)

	got := root.Prune(a, true)
	assert.Same(t, root, got)
	assert.Len(t, got.Children, 1)

	root2 := New("", 0)
	a2, b2 := New("A", 1), New("B", 1)
	root2.AddChild(a2)
	root2.AddChild(b2)

	got2 := root2.Prune(a2, false)
	assert.Same(t, b2, got2)
	assert.Nil(t, got2.Parent)
}

func TestKeepLeaves(t *testing.T) {
	root := caterpillar()

	got := root.KeepLeaves(map[string]bool{"A": true, "C": true, "D": true})
	require.NotNil(t, got)
	assert.ElementsMatch(t, []string{"A", "C", "D"}, leafNames(got))

	none := caterpillar().KeepLeaves(map[string]bool{})
	assert.Nil(t, none)
}

func TestUnroot(t *testing.T) {
	root := caterpillar()
	u := root.Unroot()

	assert.Nil(t, u.Parent)
	assert.Len(t, u.Children, 3)
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, leafNames(u))

	// the collapsed edge carries the combined length of the two root edges
	var ab *Node
	for _, c := range u.Children {
		if !c.IsLeaf() {
			ab = c
		}
	}
	require.NotNil(t, ab)
	assert.InDelta(t, 2.0, ab.Length, 1e-9)
}

func TestReroot(t *testing.T) {
	root := caterpillar()
	cd := root.Children[1]

	got := root.Reroot(cd)
	assert.Nil(t, got.Parent)
	assert.Same(t, cd, got)
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, leafNames(got))

	// every former ancestor hangs below the new root now
	for _, n := range got.ChildrenRecursive()[1:] {
		assert.NotNil(t, n.Parent)
	}
}
