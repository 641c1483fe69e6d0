package cluster

import (
	"fmt"

	"github.com/jjtimmons/phylo/internal/dist"
	"github.com/jjtimmons/phylo/internal/tree"
)

// njCluster is one active node during Neighbor-Joining: its subtree, its
// matrix row, its row sum over the other active clusters, and the taxa
// beneath it (kept for constraint gating)
type njCluster struct {
	node   *tree.Node
	row    int
	sum    float64
	leaves tree.Bitset
}

// NJ builds an unrooted (arbitrarily rooted) tree from a distance matrix
// with Neighbor-Joining. names must parallel the matrix rows. The matrix
// is consumed: entries are overwritten as clusters merge
func NJ(m dist.Matrix, names []string, opts Options) (*tree.Node, error) {
	n := m.Len()
	if len(names) != n {
		return nil, fmt.Errorf("%w: %d names for a %d-taxon matrix", ErrMissingTaxon, len(names), n)
	}
	if n == 0 {
		return nil, fmt.Errorf("empty distance matrix")
	}
	if n == 1 {
		return tree.New(names[0], 0), nil
	}

	taxa := tree.NewTaxa(names)
	guide := prepare(opts.Constraint, taxa)
	sets := leafSets(taxa)

	active := make([]*njCluster, n)
	for i := range active {
		active[i] = &njCluster{node: tree.New(names[i], 0), row: i, leaves: sets[i]}
		for k := 0; k < n; k++ {
			active[i].sum += float64(m.At(i, k))
		}
	}

	for len(active) > 2 {
		r := len(active)

		// Q(i,j) = (n-2) d(i,j) - S_i - S_j, minimized over eligible pairs
		a, b, _ := pairScan(r, opts.Workers, func(a, b int) (float64, bool) {
			ca, cb := active[a], active[b]
			if guide != nil {
				merged := ca.leaves.Clone()
				merged.Or(cb.leaves)
				if !guide.allows(merged, taxa) {
					return 0, false
				}
			}
			d := float64(m.At(ca.row, cb.row))
			return float64(r-2)*d - ca.sum - cb.sum, true
		})
		if a < 0 {
			// the guide admits no pair (degenerate constraint); finish
			// unconstrained rather than dead-lock
			guide = nil
			continue
		}

		ca, cb := active[a], active[b]
		d := float64(m.At(ca.row, cb.row))

		la := 0.5*d + (ca.sum-cb.sum)/(2*float64(r-2))
		lb := d - la
		if !opts.AllowNegative {
			la, lb = correctNegative(la, lb, d)
		}

		ca.node.Length = la
		cb.node.Length = lb
		merged := tree.New("", 0)
		merged.AddChild(ca.node)
		merged.AddChild(cb.node)

		// fold the pair into a's slot, drop b's
		mergedSum := 0.0
		for _, ck := range active {
			if ck == ca || ck == cb {
				continue
			}
			dk := 0.5 * (float64(m.At(ck.row, ca.row)) + float64(m.At(ck.row, cb.row)) - d)
			ck.sum -= float64(m.At(ck.row, ca.row)) + float64(m.At(ck.row, cb.row)) - dk
			m.Set(ck.row, ca.row, float32(dk))
			mergedSum += dk
		}

		ca.node = merged
		ca.sum = mergedSum
		ca.leaves.Or(cb.leaves)
		active = append(active[:b], active[b+1:]...)
	}

	// two nodes left: root at the internal one and hang the other off it
	// with the remaining distance
	c0, c1 := active[0], active[1]
	d := float64(m.At(c0.row, c1.row))

	root, child := c0, c1
	if root.node.IsLeaf() && !child.node.IsLeaf() {
		root, child = child, root
	}
	if root.node.IsLeaf() {
		// two-taxon input: join the leaves under a fresh root
		top := tree.New("", 0)
		top.AddChild(root.node)
		child.node.Length = d
		top.AddChild(child.node)
		return top, nil
	}
	child.node.Length = d
	root.node.AddChild(child.node)
	return root.node, nil
}

// correctNegative reallocates a negative branch length onto the sibling
// edge, keeping their sum equal to the pair distance
func correctNegative(la, lb, d float64) (float64, float64) {
	switch {
	case la < 0 && lb < 0:
		return 0, 0
	case la < 0:
		return 0, d
	case lb < 0:
		return d, 0
	}
	return la, lb
}
