package cluster

import (
	"fmt"

	"github.com/jjtimmons/phylo/internal/dist"
	"github.com/jjtimmons/phylo/internal/tree"
)

// upCluster is one active cluster during UPGMA: its subtree, matrix row,
// member count (the averaging weight) and the height from the cluster's
// joining point down to its leaves
type upCluster struct {
	node   *tree.Node
	row    int
	weight int
	height float64
	leaves tree.Bitset
}

// UPGMA builds a rooted ultrametric tree from a distance matrix by
// average-linkage clustering. names must parallel the matrix rows. The
// matrix is consumed
func UPGMA(m dist.Matrix, names []string, opts Options) (*tree.Node, error) {
	n := m.Len()
	if len(names) != n {
		return nil, fmt.Errorf("%w: %d names for a %d-taxon matrix", ErrMissingTaxon, len(names), n)
	}
	if n == 0 {
		return nil, fmt.Errorf("empty distance matrix")
	}

	taxa := tree.NewTaxa(names)
	guide := prepare(opts.Constraint, taxa)
	sets := leafSets(taxa)

	active := make([]*upCluster, n)
	for i := range active {
		active[i] = &upCluster{node: tree.New(names[i], 0), row: i, weight: 1, leaves: sets[i]}
	}

	for len(active) > 1 {
		a, b, _ := pairScan(len(active), opts.Workers, func(a, b int) (float64, bool) {
			ca, cb := active[a], active[b]
			if guide != nil {
				merged := ca.leaves.Clone()
				merged.Or(cb.leaves)
				if !guide.allows(merged, taxa) {
					return 0, false
				}
			}
			return float64(m.At(ca.row, cb.row)), true
		})
		if a < 0 {
			guide = nil
			continue
		}

		ca, cb := active[a], active[b]
		d := float64(m.At(ca.row, cb.row))

		// merge height; constraint gating can force a pair whose naive
		// height sits below a child cluster, so bump it up to keep the
		// tree ultrametric with non-negative branches
		h := d / 2
		if h < ca.height {
			h = ca.height
		}
		if h < cb.height {
			h = cb.height
		}

		ca.node.Length = h - ca.height
		cb.node.Length = h - cb.height
		merged := tree.New("", 0)
		merged.AddChild(ca.node)
		merged.AddChild(cb.node)

		wa, wb := float64(ca.weight), float64(cb.weight)
		for _, ck := range active {
			if ck == ca || ck == cb {
				continue
			}
			avg := (wa*float64(m.At(ck.row, ca.row)) + wb*float64(m.At(ck.row, cb.row))) / (wa + wb)
			m.Set(ck.row, ca.row, float32(avg))
		}

		ca.node = merged
		ca.weight += cb.weight
		ca.height = h
		ca.leaves.Or(cb.leaves)
		active = append(active[:b], active[b+1:]...)
	}

	return active[0].node, nil
}
