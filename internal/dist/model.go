// Package dist computes pairwise evolutionary distances between packed
// sequences and assembles full lower-triangular distance matrices
package dist

import (
	"errors"
	"fmt"

	"github.com/jjtimmons/phylo/internal/seq"
)

// Model selects the substitution model behind a distance computation
type Model int

const (
	// Hamming is the uncorrected proportion of mismatching positions
	Hamming Model = iota

	// JukesCantor corrects the mismatch proportion for multiple hits
	// assuming equal substitution rates
	JukesCantor

	// Kimura is K80 for DNA (transitions vs transversions) and Kimura's
	// 1983 PAM approximation for protein
	Kimura

	// GTR is the general time-reversible distance. DNA only
	GTR

	// Scoredist is the BLOSUM62 log-odds score distance. Protein only
	Scoredist
)

var (
	// ErrUnequalLength aborts a matrix or bootstrap build whose input
	// sequences do not form an alignment
	ErrUnequalLength = errors.New("aligned sequences have unequal lengths")

	// ErrInvalidModel rejects a model/alphabet combination at the API
	// boundary, eg GTR over protein sequences
	ErrInvalidModel = errors.New("model is not defined for this alphabet")
)

var modelNames = map[Model]string{
	Hamming:     "hamming",
	JukesCantor: "jc",
	Kimura:      "kimura",
	GTR:         "gtr",
	Scoredist:   "scoredist",
}

func (m Model) String() string {
	if n, ok := modelNames[m]; ok {
		return n
	}
	return fmt.Sprintf("model(%d)", int(m))
}

// ParseModel maps a model name, as passed on the command line, to a Model
func ParseModel(name string) (Model, error) {
	for m, n := range modelNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown model %q", name)
}

// Validate reports whether the model is defined for the alphabet
func (m Model) Validate(kind seq.Kind) error {
	if m == GTR && kind != seq.DNA {
		return fmt.Errorf("%w: gtr requires dna", ErrInvalidModel)
	}
	if m == Scoredist && kind != seq.Protein {
		return fmt.Errorf("%w: scoredist requires protein", ErrInvalidModel)
	}
	return nil
}
