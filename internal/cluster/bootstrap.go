package cluster

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/jjtimmons/phylo/internal/dist"
	"github.com/jjtimmons/phylo/internal/seq"
	"github.com/jjtimmons/phylo/internal/tree"
)

// Bootstrap is one bootstrap support computation over an existing tree
type Bootstrap struct {
	// Sequences are the aligned raw sequences, parallel to Names
	Sequences []string
	Names     []string
	Kind      seq.Kind
	Model     dist.Model

	// Method rebuilds each replicate tree; it should match how the
	// original tree was built
	Method Method

	// Replicates is the number of resampled builds (B)
	Replicates int

	// Seed makes the replicate column draws reproducible
	Seed int64

	// Workers bounds replicate-level parallelism; each replicate runs its
	// own build serially
	Workers int

	// Opts is forwarded to every replicate build
	Opts Options
}

// Support annotates every internal branch of t with the fraction of
// replicate trees whose splits are all compatible with that branch's
// bipartition, and returns the supports in the order the edges occur in
// t.ChildrenRecursive(). Leaves keep Support = -1
func Support(t *tree.Node, b Bootstrap) ([]float64, error) {
	if len(b.Sequences) != len(b.Names) {
		return nil, fmt.Errorf("%w: %d sequences for %d names", ErrMissingTaxon, len(b.Sequences), len(b.Names))
	}
	if b.Replicates < 1 {
		return nil, fmt.Errorf("bootstrap needs at least 1 replicate, got %d", b.Replicates)
	}

	taxa := tree.NewTaxa(b.Names)

	// the internal edges whose support we tally
	var edges []*tree.Node
	var splits []tree.Split
	full := t.LeafSet(taxa)
	for _, n := range t.ChildrenRecursive() {
		if n == t || n.IsLeaf() {
			continue
		}
		side := n.LeafSet(taxa)
		rest := full.Clone()
		for i := range rest {
			rest[i] &^= side[i]
		}
		if side.Empty() || rest.Empty() {
			continue
		}
		edges = append(edges, n)
		splits = append(splits, tree.Split{A: side, B: rest})
	}

	counts := make([]int64, len(edges))

	opts := b.Opts
	opts.Workers = 1 // replicates are the unit of parallelism here

	var next int64
	var wg sync.WaitGroup
	errs := make([]error, b.Replicates)
	for w := 0; w < dist.Workers(b.Workers); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				rep := int(atomic.AddInt64(&next, 1)) - 1
				if rep >= b.Replicates {
					return
				}
				errs[rep] = b.replicate(rep, taxa, splits, counts, opts)
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	supports := make([]float64, len(edges))
	for i, n := range edges {
		supports[i] = float64(counts[i]) / float64(b.Replicates)
		n.Support = supports[i]
	}
	return supports, nil
}

// replicate resamples the alignment, rebuilds a tree and bumps the count
// of every original edge its splits are compatible with
func (b Bootstrap) replicate(rep int, taxa *tree.Taxa, splits []tree.Split, counts []int64, opts Options) error {
	rng := rand.New(rand.NewSource(b.Seed + int64(rep)))

	packed, err := dist.Resample(b.Sequences, b.Kind, rng)
	if err != nil {
		return err
	}

	m, err := dist.Build(packed, b.Model, 1, nil)
	if err != nil {
		return err
	}

	var rt *tree.Node
	if b.Method == MethodUPGMA {
		rt, err = UPGMA(m, b.Names, opts)
	} else {
		rt, err = NJ(m, b.Names, opts)
	}
	if err != nil {
		return err
	}

	repSplits := rt.Splits(taxa)
	for i, s := range splits {
		ok := true
		for _, rs := range repSplits {
			if !tree.Compatible(s, rs) {
				ok = false
				break
			}
		}
		if ok {
			atomic.AddInt64(&counts[i], 1)
		}
	}
	return nil
}
