// Package phylo ties the pieces of tree reconstruction together: alignments
// in, distance matrices and trees out. It is the layer the /cmd commands
// call into
package phylo

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/jjtimmons/phylo/internal/cluster"
	"github.com/jjtimmons/phylo/internal/dist"
	"github.com/jjtimmons/phylo/internal/seq"
	"github.com/jjtimmons/phylo/internal/tree"
)

var (
	// stderr is for logging to Stderr (without an annoying timestamp)
	stderr = log.New(os.Stderr, "", 0)
)

// Alignment is an ordered multiple sequence alignment: taxon names parallel
// to their aligned sequences
type Alignment struct {
	Names []string
	Seqs  []string
}

// AlignmentFromMap builds an Alignment from a taxon-to-sequence map with
// names in sorted order, so downstream builds are deterministic
func AlignmentFromMap(seqs map[string]string) *Alignment {
	a := &Alignment{}
	for name := range seqs {
		a.Names = append(a.Names, name)
	}
	sort.Strings(a.Names)
	for _, name := range a.Names {
		a.Seqs = append(a.Seqs, seqs[name])
	}
	return a
}

// Len is by taxon count
func (a *Alignment) Len() int { return len(a.Names) }

// DetectKind guesses whether an alignment is DNA or protein: protein if
// any sequence carries a residue symbol outside the nucleotide alphabet
func (a *Alignment) DetectKind() seq.Kind {
	for _, s := range a.Seqs {
		for i := 0; i < len(s); i++ {
			c := s[i]
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			switch c {
			case 'A', 'C', 'G', 'T', 'U', 'N', '-', '.', '?':
			default:
				return seq.Protein
			}
		}
	}
	return seq.DNA
}

// Packed packs every sequence of the alignment
func (a *Alignment) Packed(kind seq.Kind) []seq.Packed {
	packed := make([]seq.Packed, len(a.Seqs))
	for i, s := range a.Seqs {
		packed[i] = seq.Pack(s, kind)
	}
	return packed
}

// TreeOpts selects how a tree is built from an alignment
type TreeOpts struct {
	Model  dist.Model
	Method cluster.Method

	// Workers bounds every parallel stage
	Workers int

	// Bootstrap is the replicate count for support values; 0 skips support
	Bootstrap int

	// Seed drives the bootstrap column resampling
	Seed int64

	// AllowNegative keeps negative NJ branch lengths
	AllowNegative bool

	// Constraint is an optional guide tree
	Constraint *tree.Node
}

// BuildMatrix packs an alignment and fills its pairwise distance matrix
func BuildMatrix(a *Alignment, model dist.Model, workers int, progress dist.Progress) (dist.Matrix, error) {
	kind := a.DetectKind()
	m, err := dist.Build(a.Packed(kind), model, workers, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to build distance matrix: %w", err)
	}
	return m, nil
}

// BuildTree runs the whole pipeline: pack, distance matrix, clustering and,
// when requested, bootstrap support
func BuildTree(a *Alignment, opts TreeOpts, progress dist.Progress) (*tree.Node, error) {
	kind := a.DetectKind()
	if err := opts.Model.Validate(kind); err != nil {
		return nil, err
	}

	m, err := dist.Build(a.Packed(kind), opts.Model, opts.Workers, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to build distance matrix: %w", err)
	}

	clusterOpts := cluster.Options{
		AllowNegative: opts.AllowNegative,
		Constraint:    opts.Constraint,
		Workers:       opts.Workers,
	}

	var root *tree.Node
	if opts.Method == cluster.MethodUPGMA {
		root, err = cluster.UPGMA(m, a.Names, clusterOpts)
	} else {
		root, err = cluster.NJ(m, a.Names, clusterOpts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to cluster: %w", err)
	}

	if opts.Bootstrap > 0 {
		_, err = cluster.Support(root, cluster.Bootstrap{
			Sequences:  a.Seqs,
			Names:      a.Names,
			Kind:       kind,
			Model:      opts.Model,
			Method:     opts.Method,
			Replicates: opts.Bootstrap,
			Seed:       opts.Seed,
			Workers:    opts.Workers,
			Opts:       clusterOpts,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to compute bootstrap support: %w", err)
		}
	}
	return root, nil
}
