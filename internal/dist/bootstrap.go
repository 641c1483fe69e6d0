package dist

import (
	"math/rand"

	"github.com/jjtimmons/phylo/internal/seq"
)

// Resample builds one bootstrap replicate of an alignment: a single draw
// of column indices, with replacement, applied identically to every taxon.
// The resampled sequences are re-packed and ready for Build
func Resample(raw []string, kind seq.Kind, rng *rand.Rand) ([]seq.Packed, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	cols := len(raw[0])
	for _, s := range raw[1:] {
		if len(s) != cols {
			return nil, ErrUnequalLength
		}
	}

	draw := make([]int, cols)
	for i := range draw {
		draw[i] = rng.Intn(cols)
	}

	out := make([]seq.Packed, len(raw))
	buf := make([]byte, cols)
	for i, s := range raw {
		for c, col := range draw {
			buf[c] = s[col]
		}
		out[i] = seq.Pack(string(buf), kind)
	}
	return out, nil
}
