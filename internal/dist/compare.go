package dist

import (
	"math"

	"github.com/jjtimmons/phylo/internal/seq"
)

// Compare computes the evolutionary distance between two packed sequences
// of the same alignment under the given model. Saturated distances come
// back as +Inf and are left to the matrix post-processing pass; the only
// errors are structural (alphabet/model mismatch, unequal lengths)
func Compare(a, b seq.Packed, model Model) (float32, error) {
	if err := checkPair(a, b, model); err != nil {
		return 0, err
	}
	return compare(a, b, model), nil
}

// CompareTriplet computes the distances (a,b) and (a,c) in one shared pass
// over a's words. The accumulation is the same integer arithmetic as two
// Compare calls, so the results are bit-identical
func CompareTriplet(a, b, c seq.Packed, model Model) (float32, float32, error) {
	if err := checkPair(a, b, model); err != nil {
		return 0, 0, err
	}
	if err := checkPair(a, c, model); err != nil {
		return 0, 0, err
	}
	dab, dac := compareTriplet(a, b, c, model)
	return dab, dac, nil
}

func checkPair(a, b seq.Packed, model Model) error {
	if a.Kind != b.Kind {
		return ErrInvalidModel
	}
	if err := model.Validate(a.Kind); err != nil {
		return err
	}
	if a.Len != b.Len {
		return ErrUnequalLength
	}
	return nil
}

// pairStats are the per-model sufficient statistics accumulated over one
// aligned sequence pair
type pairStats struct {
	match int
	ts    int // DNA transitions; protein mismatches land here too
	tv    int // DNA transversions only
	pairs [10]int
	score int
	valid int
}

func (s *pairStats) addDNA(cell seq.PairDNA) {
	s.match += int(cell.Match)
	s.ts += int(cell.Transition)
	s.tv += int(cell.Transversion)
}

func (s *pairStats) addGTR(cell seq.PairGTR) {
	for i, c := range cell.Pairs {
		s.pairs[i] += int(c)
	}
}

func (s *pairStats) addProtein(cell seq.PairProtein) {
	s.match += int(cell.Match)
	s.ts += int(cell.Mismatch)
}

func (s *pairStats) addScore(cell seq.PairScore) {
	s.score += int(cell.Score)
	s.valid += int(cell.Valid)
}

// accumulate gathers the statistics the model needs over one sequence pair
func accumulate(a, b seq.Packed, model Model) pairStats {
	var s pairStats
	switch {
	case a.Kind == seq.DNA && model == GTR:
		t, span := seq.GTRTable(), seq.DNA.WordSpan()
		for w := range a.Words {
			s.addGTR(t[int(a.Words[w])*span+int(b.Words[w])])
		}
	case a.Kind == seq.DNA:
		t, span := seq.DNATable(), seq.DNA.WordSpan()
		for w := range a.Words {
			s.addDNA(t[int(a.Words[w])*span+int(b.Words[w])])
		}
	case model == Scoredist:
		t, span := seq.ScoreTable(), seq.Protein.WordSpan()
		for w := range a.Words {
			s.addScore(t[int(a.Words[w])*span+int(b.Words[w])])
		}
	default:
		t, span := seq.ProteinTable(), seq.Protein.WordSpan()
		for w := range a.Words {
			s.addProtein(t[int(a.Words[w])*span+int(b.Words[w])])
		}
	}
	return s
}

func compare(a, b seq.Packed, model Model) float32 {
	var selfA, selfB float64
	if model == Scoredist {
		selfA, selfB = selfScore(a), selfScore(b)
	}
	return compareWith(a, b, model, selfA, selfB)
}

// compareWith is the matrix-build entry point: Scoredist self scores are
// computed once per sequence there and passed in
func compareWith(a, b seq.Packed, model Model, selfA, selfB float64) float32 {
	s := accumulate(a, b, model)
	return distance(s, a.Kind, model, selfA, selfB)
}

func compareTriplet(a, b, c seq.Packed, model Model) (float32, float32) {
	var selfA, selfB, selfC float64
	if model == Scoredist {
		selfA, selfB, selfC = selfScore(a), selfScore(b), selfScore(c)
	}
	return compareTripletWith(a, b, c, model, selfA, selfB, selfC)
}

func compareTripletWith(a, b, c seq.Packed, model Model, selfA, selfB, selfC float64) (float32, float32) {
	var sb, sc pairStats
	switch {
	case a.Kind == seq.DNA && model == GTR:
		t, span := seq.GTRTable(), seq.DNA.WordSpan()
		for w := range a.Words {
			row := int(a.Words[w]) * span
			sb.addGTR(t[row+int(b.Words[w])])
			sc.addGTR(t[row+int(c.Words[w])])
		}
	case a.Kind == seq.DNA:
		t, span := seq.DNATable(), seq.DNA.WordSpan()
		for w := range a.Words {
			row := int(a.Words[w]) * span
			sb.addDNA(t[row+int(b.Words[w])])
			sc.addDNA(t[row+int(c.Words[w])])
		}
	case model == Scoredist:
		t, span := seq.ScoreTable(), seq.Protein.WordSpan()
		for w := range a.Words {
			row := int(a.Words[w]) * span
			sb.addScore(t[row+int(b.Words[w])])
			sc.addScore(t[row+int(c.Words[w])])
		}
	default:
		t, span := seq.ProteinTable(), seq.Protein.WordSpan()
		for w := range a.Words {
			row := int(a.Words[w]) * span
			sb.addProtein(t[row+int(b.Words[w])])
			sc.addProtein(t[row+int(c.Words[w])])
		}
	}
	return distance(sb, a.Kind, model, selfA, selfB), distance(sc, a.Kind, model, selfA, selfC)
}

// distance applies the closed-form model formula to accumulated statistics
func distance(s pairStats, kind seq.Kind, model Model, selfA, selfB float64) float32 {
	switch model {
	case Hamming:
		return float32(hamming(s))
	case JukesCantor:
		return float32(jukesCantor(s, kind))
	case Kimura:
		if kind == seq.DNA {
			return float32(kimuraDNA(s))
		}
		return float32(kimuraProtein(s))
	case GTR:
		return float32(gtrDistance(s.pairs))
	case Scoredist:
		return float32(scoredist(s, selfA, selfB))
	}
	return float32(math.NaN())
}

func hamming(s pairStats) float64 {
	total := s.match + s.ts + s.tv
	if total == 0 {
		return 0
	}
	return float64(s.ts+s.tv) / float64(total)
}

func jukesCantor(s pairStats, kind seq.Kind) float64 {
	p := hamming(s)

	// b is the asymptotic divergence: 3/4 for 4 nucleotides, 19/20 for 20
	// residues
	b := 0.75
	if kind == seq.Protein {
		b = 0.95
	}

	arg := 1 - p/b
	if arg <= 0 {
		return math.Inf(1)
	}
	return -b * math.Log(arg)
}

func kimuraDNA(s pairStats) float64 {
	total := s.match + s.ts + s.tv
	if total == 0 {
		return 0
	}

	p := float64(s.ts) / float64(total)
	q := float64(s.tv) / float64(total)

	a1 := 1 - 2*p - q
	a2 := 1 - 2*q
	if a1 <= 0 || a2 <= 0 {
		return math.Inf(1)
	}
	return -0.5 * math.Log(a1*math.Sqrt(a2))
}

// kimuraProtein approximates the Dayhoff PAM distance from the observed
// difference proportion: a closed form below 75% divergence, a tabulated
// lookup up to 93%, and a hard cap past that
func kimuraProtein(s pairStats) float64 {
	total := s.match + s.ts
	if total == 0 {
		return 0
	}
	p := float64(s.ts) / float64(total)

	switch {
	case p < 0.75:
		return -math.Log(1 - p - 0.2*p*p)
	case p <= 0.93:
		i := int(p*1000) - 750
		if i >= len(dayhoffPAMs) {
			i = len(dayhoffPAMs) - 1
		}
		return 0.01 * float64(dayhoffPAMs[i])
	default:
		return 10
	}
}

// scoredist caps at 300 PAM-scaled units
const scoredistCap = 300

// scoredistScale converts the log-odds ratio to an additive distance. It is
// the published Scoredist calibration (1.337) with the x100 PAM scaling
// folded in
const scoredistScale = 133.70

func scoredist(s pairStats, self1, self2 float64) float64 {
	if s.valid == 0 {
		return 0
	}

	expected := float64(s.valid) * seq.ExpectedBlosumScore
	sigmaN := float64(s.score) - expected
	sigmaUN := (self1+self2)/2 - expected

	if sigmaN <= 0 || sigmaUN <= 0 {
		return scoredistCap
	}
	return math.Min(scoredistCap, -math.Log(sigmaN/sigmaUN)*scoredistScale)
}

// selfScore is a sequence's BLOSUM62 score against itself, used as the
// upper reference score by Scoredist. Matrix builds precompute this once
// per sequence
func selfScore(p seq.Packed) float64 {
	t, span := seq.ScoreTable(), seq.Protein.WordSpan()
	var score int
	for _, w := range p.Words {
		score += int(t[int(w)*span+int(w)].Score)
	}
	return float64(score)
}
