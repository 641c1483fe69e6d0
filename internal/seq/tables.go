package seq

import "sync"

// PairDNA summarizes one aligned pair of packed DNA words: counts of
// matching, transition and transversion positions. Gapped positions are
// left out of every count
type PairDNA struct {
	Match        uint8
	Transition   uint8
	Transversion uint8
}

// PairGTR counts the unordered nucleotide pairs (AA, AC, AG, AT, CC, CG,
// CT, GG, GT, TT in that order) at positions where both symbols are
// unambiguous nucleotides
type PairGTR struct {
	Pairs [10]uint8
}

// PairProtein summarizes one aligned pair of packed protein words: counts
// of matching and mismatching positions, honoring ambiguity codes
type PairProtein struct {
	Match    uint8
	Mismatch uint8
}

// PairScore is the summed BLOSUM62 score over the scorable positions of one
// aligned pair of packed protein words, plus how many positions were
// scorable (gaps and U, O, J are not)
type PairScore struct {
	Score int16
	Valid uint8
}

// the tables are built at most once per process and shared, read-only,
// across every matrix build afterwards
var (
	dnaOnce   sync.Once
	dnaTable  []PairDNA
	gtrOnce   sync.Once
	gtrTable  []PairGTR
	protOnce  sync.Once
	protTable []PairProtein
	scoreOnce sync.Once
	scoreGrid []PairScore
)

// DNATable returns the 216x216 comparison table for packed DNA words,
// building it on first use. Safe to call concurrently
func DNATable() []PairDNA {
	dnaOnce.Do(func() {
		span := DNA.WordSpan()
		dnaTable = make([]PairDNA, span*span)
		for a := 0; a < span; a++ {
			sa := unpackWord(a, DNA)
			for b := 0; b < span; b++ {
				sb := unpackWord(b, DNA)
				var cell PairDNA
				for p := 0; p < DNA.SymbolsPerWord(); p++ {
					x, y := sa[p], sb[p]
					if x == dnaGap || y == dnaGap {
						continue
					}
					switch {
					case x == y || x == dnaN || y == dnaN:
						cell.Match++
					case isTransition(x, y):
						cell.Transition++
					default:
						cell.Transversion++
					}
				}
				dnaTable[a*span+b] = cell
			}
		}
	})
	return dnaTable
}

// GTRTable returns the 216x216 nucleotide-pair-count table for packed DNA
// words, building it on first use
func GTRTable() []PairGTR {
	gtrOnce.Do(func() {
		span := DNA.WordSpan()
		gtrTable = make([]PairGTR, span*span)
		for a := 0; a < span; a++ {
			sa := unpackWord(a, DNA)
			for b := 0; b < span; b++ {
				sb := unpackWord(b, DNA)
				var cell PairGTR
				for p := 0; p < DNA.SymbolsPerWord(); p++ {
					x, y := sa[p], sb[p]
					if x == dnaGap || y == dnaGap || x == dnaN || y == dnaN {
						continue
					}
					cell.Pairs[nucPairIndex(x-1, y-1)]++
				}
				gtrTable[a*span+b] = cell
			}
		}
	})
	return gtrTable
}

// ProteinTable returns the 784x784 comparison table for packed protein
// words, building it on first use
func ProteinTable() []PairProtein {
	protOnce.Do(func() {
		span := Protein.WordSpan()
		protTable = make([]PairProtein, span*span)
		for a := 0; a < span; a++ {
			sa := unpackWord(a, Protein)
			for b := 0; b < span; b++ {
				sb := unpackWord(b, Protein)
				var cell PairProtein
				for p := 0; p < Protein.SymbolsPerWord(); p++ {
					x, y := sa[p], sb[p]
					if x == protGap || y == protGap {
						continue
					}
					if residuesCompatible(x, y) {
						cell.Match++
					} else {
						cell.Mismatch++
					}
				}
				protTable[a*span+b] = cell
			}
		}
	})
	return protTable
}

// ScoreTable returns the 784x784 BLOSUM62 score table for packed protein
// words, building it on first use
func ScoreTable() []PairScore {
	scoreOnce.Do(func() {
		span := Protein.WordSpan()
		scoreGrid = make([]PairScore, span*span)
		for a := 0; a < span; a++ {
			sa := unpackWord(a, Protein)
			for b := 0; b < span; b++ {
				sb := unpackWord(b, Protein)
				var cell PairScore
				for p := 0; p < Protein.SymbolsPerWord(); p++ {
					bx, by := blosumIndex[sa[p]], blosumIndex[sb[p]]
					if bx < 0 || by < 0 {
						continue
					}
					cell.Score += int16(blosum62[bx][by])
					cell.Valid++
				}
				scoreGrid[a*span+b] = cell
			}
		}
	})
	return scoreGrid
}

// unpackWord splits a packed word value into its per-position symbol indices
func unpackWord(w int, kind Kind) [3]int {
	var s [3]int
	radix := kind.Radix()
	for p := 0; p < kind.SymbolsPerWord(); p++ {
		s[p] = w % radix
		w /= radix
	}
	return s
}

// isTransition reports whether two distinct unambiguous nucleotides are a
// purine-purine or pyrimidine-pyrimidine substitution
func isTransition(x, y int) bool {
	return (x == dnaA && y == dnaG) || (x == dnaG && y == dnaA) ||
		(x == dnaC && y == dnaT) || (x == dnaT && y == dnaC)
}

// nucPairIndex maps an unordered pair of 0-based nucleotides (A,C,G,T) to
// its slot in PairGTR.Pairs
func nucPairIndex(a, b int) int {
	if a > b {
		a, b = b, a
	}
	return a*(9-a)/2 + (b - a)
}

// protein ambiguity groups: B stands for D or N, Z for E or Q, J for I or L,
// X for any residue
var ambiguityGroups = map[int][]int{
	protB: {3, 12}, // D, N
	protZ: {4, 14}, // E, Q
	protJ: {8, 10}, // I, L
}

// residuesCompatible reports whether two non-gap protein symbols could be
// the same residue once ambiguity codes are resolved
func residuesCompatible(x, y int) bool {
	if x == y {
		return true
	}
	if x == protX || y == protX {
		return x != protStop && y != protStop
	}
	for _, r := range ambiguityGroups[x] {
		if r == y {
			return true
		}
	}
	for _, r := range ambiguityGroups[y] {
		if r == x {
			return true
		}
	}
	return false
}
