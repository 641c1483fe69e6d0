// Package cluster builds phylogenetic trees from distance matrices by
// greedy agglomeration: Neighbor-Joining and UPGMA, both with optional
// guide-tree constraints and bootstrap support
package cluster

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/jjtimmons/phylo/internal/dist"
	"github.com/jjtimmons/phylo/internal/tree"
)

// ErrMissingTaxon signals a taxon referenced by a tree or matrix with no
// corresponding data
var ErrMissingTaxon = errors.New("taxon has no corresponding data")

// Method selects the clustering algorithm, mostly for bootstrap runs
type Method int

const (
	// MethodNJ is Neighbor-Joining
	MethodNJ Method = iota

	// MethodUPGMA is average-linkage ultrametric clustering
	MethodUPGMA
)

// Options tunes a tree build
type Options struct {
	// AllowNegative keeps negative Neighbor-Joining branch lengths instead
	// of reallocating them onto the sibling edge
	AllowNegative bool

	// Constraint is an optional (possibly multifurcating) guide tree; every
	// merge must induce a bipartition compatible with all of its splits
	Constraint *tree.Node

	// Workers bounds the parallel candidate-pair scan. <= 0 means one per
	// CPU
	Workers int
}

// constraint is a guide tree prepared for compatibility gating: its splits
// over the working taxon set
type constraint struct {
	splits []tree.Split
}

// prepare prunes the guide tree to the working taxa and extracts its
// splits. Returns nil when fewer than two informative taxa remain, which
// drops the run back to the unconstrained algorithm
func prepare(guide *tree.Node, taxa *tree.Taxa) *constraint {
	if guide == nil {
		return nil
	}

	keep := make(map[string]bool, taxa.Len())
	for _, n := range taxa.Names() {
		keep[n] = true
	}

	pruned := guide.Clone().KeepLeaves(keep)
	if pruned == nil || len(pruned.Leaves()) < 2 {
		return nil
	}
	return &constraint{splits: pruned.Splits(taxa)}
}

// allows reports whether merging a cluster with the given underlying leaf
// set is compatible with every guide split
func (c *constraint) allows(merged tree.Bitset, taxa *tree.Taxa) bool {
	if c == nil {
		return true
	}
	cand := tree.SplitOf(merged, taxa)
	for _, s := range c.splits {
		if !tree.Compatible(cand, s) {
			return false
		}
	}
	return true
}

// pairScan finds the slot pair (a, b), a > b, minimizing score. Pairs where
// ok is false are skipped. The scan is parallelized over the outer slot;
// each worker reduces its rows to local minima and the final reduction
// walks rows in order, so ties resolve to the lexicographically smallest
// pair no matter the scheduling. Returns a = -1 when no pair is eligible
func pairScan(n, workers int, score func(a, b int) (float64, bool)) (int, int, float64) {
	bestVal := make([]float64, n)
	bestB := make([]int, n)

	var next int64 = 1
	var wg sync.WaitGroup
	for w := 0; w < dist.Workers(workers); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				a := int(atomic.AddInt64(&next, 1)) - 1
				if a >= n {
					return
				}
				bestB[a] = -1
				for b := 0; b < a; b++ {
					v, ok := score(a, b)
					if !ok {
						continue
					}
					if bestB[a] < 0 || v < bestVal[a] {
						bestVal[a], bestB[a] = v, b
					}
				}
			}
		}()
	}
	wg.Wait()

	bestA := -1
	var best float64
	for a := 1; a < n; a++ {
		if bestB[a] < 0 {
			continue
		}
		if bestA < 0 || bestVal[a] < best {
			bestA, best = a, bestVal[a]
		}
	}
	if bestA < 0 {
		return -1, -1, 0
	}
	return bestA, bestB[bestA], best
}

// leafSets gives every initial cluster its own taxon bit
func leafSets(taxa *tree.Taxa) []tree.Bitset {
	sets := make([]tree.Bitset, taxa.Len())
	for i := range sets {
		sets[i] = tree.NewBitset(taxa.Len())
		sets[i].Set(i)
	}
	return sets
}
