package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjtimmons/phylo/internal/dist"
	"github.com/jjtimmons/phylo/internal/tree"
)

// matrixOf fills a lower-triangular matrix from a full square table
func matrixOf(d [][]float64) dist.Matrix {
	m := dist.NewMatrix(len(d))
	for i := range d {
		for j := 0; j < i; j++ {
			m.Set(i, j, float32(d[i][j]))
		}
	}
	return m
}

// hasSplit reports whether the tree contains the bipartition side|rest
func hasSplit(t *tree.Node, taxa *tree.Taxa, side []string) bool {
	want := tree.NewBitset(taxa.Len())
	for _, n := range side {
		i, ok := taxa.Index(n)
		if !ok {
			return false
		}
		want.Set(i)
	}
	target := tree.SplitOf(want, taxa)

	for _, s := range t.Splits(taxa) {
		if (s.A.Equal(target.A) && s.B.Equal(target.B)) ||
			(s.A.Equal(target.B) && s.B.Equal(target.A)) {
			return true
		}
	}
	return false
}

// pathLengths maps each leaf name to its root-to-tip path length
func pathLengths(t *tree.Node) map[string]float64 {
	out := map[string]float64{}
	var walk func(n *tree.Node, depth float64)
	walk = func(n *tree.Node, depth float64) {
		if n.IsLeaf() {
			out[n.Name] = depth
			return
		}
		for _, c := range n.Children {
			walk(c, depth+c.Length)
		}
	}
	walk(t, 0)
	return out
}

// quartet is the additive example tree ((A,B),(C,D)) with every pendant
// and internal edge of length 1
func quartet() (dist.Matrix, []string) {
	names := []string{"A", "B", "C", "D"}
	m := matrixOf([][]float64{
		{0, 2, 4, 4},
		{2, 0, 4, 4},
		{4, 4, 0, 2},
		{4, 4, 2, 0},
	})
	return m, names
}

func TestNJQuartet(t *testing.T) {
	m, names := quartet()
	taxa := tree.NewTaxa(names)

	root, err := NJ(m, names, Options{Workers: 1})
	require.NoError(t, err)

	assert.ElementsMatch(t, names, leafNames(root))
	assert.True(t, hasSplit(root, taxa, []string{"A", "B"}), "AB|CD split missing: %s", root.Newick())

	// every pendant edge is 1; the internal path between the two cherries
	// sums to 2
	var internal float64
	for _, n := range root.ChildrenRecursive() {
		if n == root {
			continue
		}
		if n.IsLeaf() {
			assert.InDelta(t, 1.0, n.Length, 1e-6, "pendant %s", n.Name)
		} else {
			internal += n.Length
		}
	}
	assert.InDelta(t, 2.0, internal, 1e-6)
}

func TestNJAdditiveRecovery(t *testing.T) {
	// caterpillar tree ((((A,B),C),D),E): pendants A=1 B=2 C=3 D=4 E=5,
	// internal edges 1 each; pairwise distances are the path sums
	names := []string{"A", "B", "C", "D", "E"}
	m := matrixOf([][]float64{
		{0, 3, 5, 7, 8},
		{3, 0, 6, 8, 9},
		{5, 6, 0, 8, 9},
		{7, 8, 8, 0, 9},
		{8, 9, 9, 9, 0},
	})
	taxa := tree.NewTaxa(names)

	root, err := NJ(m, names, Options{Workers: 2})
	require.NoError(t, err)

	assert.True(t, hasSplit(root, taxa, []string{"A", "B"}), root.Newick())
	assert.True(t, hasSplit(root, taxa, []string{"A", "B", "C"}), root.Newick())
}

func TestNJDeterministicAcrossWorkers(t *testing.T) {
	for _, workers := range []int{1, 2, 8} {
		m, names := quartet()
		root, err := NJ(m, names, Options{Workers: workers})
		require.NoError(t, err)

		one, names2 := quartet()
		want, err := NJ(one, names2, Options{Workers: 1})
		require.NoError(t, err)

		assert.Equal(t, want.Newick(), root.Newick(), "workers=%d", workers)
	}
}

func TestNJNegativeBranchCorrection(t *testing.T) {
	// a strongly non-additive matrix produces negative NJ branches
	names := []string{"A", "B", "C", "D"}
	d := [][]float64{
		{0, 1, 9, 9},
		{1, 0, 1, 9},
		{9, 1, 0, 1},
		{9, 9, 1, 0},
	}

	root, err := NJ(matrixOf(d), names, Options{Workers: 1})
	require.NoError(t, err)
	for _, n := range root.ChildrenRecursive() {
		if n != root {
			assert.GreaterOrEqual(t, n.Length, 0.0, "edge above %q", n.Name)
		}
	}

	// with AllowNegative the lengths still sum to the pair distance, so
	// leaf-to-leaf paths are preserved where additivity holds
	root2, err := NJ(matrixOf(d), names, Options{AllowNegative: true, Workers: 1})
	require.NoError(t, err)
	neg := false
	for _, n := range root2.ChildrenRecursive() {
		if n.Length < 0 {
			neg = true
		}
	}
	assert.True(t, neg, "expected a negative branch: %s", root2.Newick())
}

func TestNJConstraint(t *testing.T) {
	// distances pull A next to B, but the guide ((A,C),(B,D)) forbids an
	// AB cherry
	names := []string{"A", "B", "C", "D"}
	m := matrixOf([][]float64{
		{0, 2, 4, 4},
		{2, 0, 4, 4},
		{4, 4, 0, 2},
		{4, 4, 2, 0},
	})

	guide, err := tree.ParseNewick("((A,C),(B,D));")
	require.NoError(t, err)

	taxa := tree.NewTaxa(names)
	root, err := NJ(m, names, Options{Workers: 1, Constraint: guide})
	require.NoError(t, err)

	guideSplits := guide.Splits(taxa)
	for _, s := range root.Splits(taxa) {
		for _, g := range guideSplits {
			assert.True(t, tree.Compatible(s, g), "split incompatible with guide: %s", root.Newick())
		}
	}
	assert.True(t, hasSplit(root, taxa, []string{"A", "C"}), root.Newick())
}

func TestNJConstraintPrunedGuide(t *testing.T) {
	// guide taxa missing from the alignment are pruned away before gating
	names := []string{"A", "B", "C", "D"}
	m, _ := quartet()

	guide, err := tree.ParseNewick("((A,C,X),(B,D,Y),Z);")
	require.NoError(t, err)

	root, err := NJ(m, names, Options{Workers: 1, Constraint: guide})
	require.NoError(t, err)
	assert.True(t, hasSplit(root, tree.NewTaxa(names), []string{"A", "C"}), root.Newick())
}

func TestNJSmall(t *testing.T) {
	// one and two taxa are edge cases of the merge loop
	one, err := NJ(dist.NewMatrix(1), []string{"A"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "A", one.Name)

	m := dist.NewMatrix(2)
	m.Set(1, 0, 3)
	two, err := NJ(m, []string{"A", "B"}, Options{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, leafNames(two))

	_, err = NJ(dist.NewMatrix(3), []string{"A", "B"}, Options{})
	assert.ErrorIs(t, err, ErrMissingTaxon)
}

func leafNames(n *tree.Node) []string {
	var names []string
	for _, l := range n.Leaves() {
		names = append(names, l.Name)
	}
	return names
}
