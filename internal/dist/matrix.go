package dist

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/jjtimmons/phylo/internal/seq"
)

// Matrix is a lower-triangular pairwise distance matrix: row i holds the i
// distances to taxa 0..i-1, so row 0 is empty. The clustering engine
// mutates it in place
type Matrix [][]float32

// NewMatrix allocates an n-taxon matrix of zeros
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float32, i)
	}
	return m
}

// Len is the taxon count
func (m Matrix) Len() int { return len(m) }

// At returns the distance between taxa i and j (0 when i == j)
func (m Matrix) At(i, j int) float32 {
	if i == j {
		return 0
	}
	if i < j {
		i, j = j, i
	}
	return m[i][j]
}

// Set overwrites the distance between distinct taxa i and j
func (m Matrix) Set(i, j int, v float32) {
	if i < j {
		i, j = j, i
	}
	m[i][j] = v
}

// Progress reports matrix-build progress: done and total count completed
// pairs out of n(n-1)/2. done never decreases between calls
type Progress func(done, total int)

// Workers clamps a caller-supplied worker count to something usable
func Workers(n int) int {
	if n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// Build fills the full lower triangle over the packed sequences. Rows are
// write-disjoint and distributed across workers; the only shared mutable
// state is the progress counter. The returned matrix has been through the
// post-processing pass: every entry is finite and non-negative
func Build(seqs []seq.Packed, model Model, workers int, progress Progress) (Matrix, error) {
	n := len(seqs)
	for i := 1; i < n; i++ {
		if seqs[i].Kind != seqs[0].Kind {
			return nil, ErrInvalidModel
		}
		if seqs[i].Len != seqs[0].Len {
			return nil, ErrUnequalLength
		}
	}
	if n > 0 {
		if err := model.Validate(seqs[0].Kind); err != nil {
			return nil, err
		}
	}

	// Scoredist references each sequence's self score for every pair;
	// compute them once up front
	selves := make([]float64, n)
	if model == Scoredist {
		for i, s := range seqs {
			selves[i] = selfScore(s)
		}
	}

	m := NewMatrix(n)
	total := n * (n - 1) / 2

	var next int64 // row claim counter
	var mu sync.Mutex
	done := 0

	var wg sync.WaitGroup
	for w := 0; w < Workers(workers); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&next, 1)) - 1
				if i >= n {
					return
				}
				buildRow(m[i], seqs, i, model, selves)

				if progress != nil && i > 0 {
					mu.Lock()
					done += i
					progress(done, total)
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	postProcess(m)
	return m, nil
}

// buildRow fills row i, pairing adjacent columns so each pass over seqs[i]
// serves two distances
func buildRow(row []float32, seqs []seq.Packed, i int, model Model, selves []float64) {
	j := 0
	for ; j+1 < i; j += 2 {
		row[j], row[j+1] = compareTripletWith(
			seqs[i], seqs[j], seqs[j+1], model,
			selves[i], selves[j], selves[j+1])
	}
	if j < i {
		row[j] = compareWith(seqs[i], seqs[j], model, selves[i], selves[j])
	}
}

// postProcess rewrites every non-finite or negative entry to twice the
// maximum finite distance found, so downstream clustering never sees a
// saturated model distance
func postProcess(m Matrix) {
	maxFinite := float32(0)
	dirty := false
	for i := range m {
		for _, v := range m[i] {
			if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) || v < 0 {
				dirty = true
			} else if v > maxFinite {
				maxFinite = v
			}
		}
	}
	if !dirty {
		return
	}
	for i := range m {
		for j, v := range m[i] {
			if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) || v < 0 {
				m[i][j] = 2 * maxFinite
			}
		}
	}
}
