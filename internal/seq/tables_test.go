package seq

import "testing"

// word packs up to three DNA or two protein symbols for direct table lookups
func word(s string, kind Kind) int {
	return int(Pack(s, kind).Words[0])
}

func Test_dnaTable(t *testing.T) {
	table := DNATable()
	span := DNA.WordSpan()

	type args struct {
		a string
		b string
	}
	tests := []struct {
		name string
		args args
		want PairDNA
	}{
		{"identical", args{"ACG", "ACG"}, PairDNA{Match: 3}},
		{"transition AG", args{"AAA", "GGG"}, PairDNA{Transition: 3}},
		{"transition CT", args{"CCC", "TTT"}, PairDNA{Transition: 3}},
		{"transversion", args{"AAA", "CTC"}, PairDNA{Transversion: 3}},
		{"N matches anything", args{"NNN", "ACT"}, PairDNA{Match: 3}},
		{"gaps ignored", args{"A-G", "AC-"}, PairDNA{Match: 1}},
		{"mixed", args{"ACG", "GCT"}, PairDNA{Match: 1, Transition: 1, Transversion: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table[word(tt.args.a, DNA)*span+word(tt.args.b, DNA)]
			if got != tt.want {
				t.Errorf("DNATable[%s,%s] = %+v, want %+v", tt.args.a, tt.args.b, got, tt.want)
			}
		})
	}
}

func Test_dnaTableSymmetric(t *testing.T) {
	table := DNATable()
	span := DNA.WordSpan()

	for a := 0; a < span; a++ {
		for b := a + 1; b < span; b++ {
			if table[a*span+b] != table[b*span+a] {
				t.Fatalf("DNATable asymmetric at (%d,%d)", a, b)
			}
		}
	}
}

func Test_gtrTable(t *testing.T) {
	table := GTRTable()
	span := DNA.WordSpan()

	cell := table[word("ACG", DNA)*span+word("ATG", DNA)]
	var total int
	for _, c := range cell.Pairs {
		total += int(c)
	}
	if total != 3 {
		t.Errorf("pair count total = %d, want 3", total)
	}
	if cell.Pairs[nucPairIndex(0, 0)] != 1 { // A with A
		t.Errorf("AA count = %d, want 1", cell.Pairs[nucPairIndex(0, 0)])
	}
	if cell.Pairs[nucPairIndex(1, 3)] != 1 { // C with T
		t.Errorf("CT count = %d, want 1", cell.Pairs[nucPairIndex(1, 3)])
	}

	// N and gaps contribute nothing
	cell = table[word("N-A", DNA)*span+word("CCC", DNA)]
	total = 0
	for _, c := range cell.Pairs {
		total += int(c)
	}
	if total != 1 {
		t.Errorf("pair count total with N and gap = %d, want 1", total)
	}
}

func Test_nucPairIndex(t *testing.T) {
	// the 10 unordered pairs must map onto 0..9 without collisions
	seen := map[int]bool{}
	for a := 0; a < 4; a++ {
		for b := a; b < 4; b++ {
			i := nucPairIndex(a, b)
			if i < 0 || i > 9 || seen[i] {
				t.Fatalf("nucPairIndex(%d,%d) = %d", a, b, i)
			}
			seen[i] = true
			if i != nucPairIndex(b, a) {
				t.Fatalf("nucPairIndex not symmetric for (%d,%d)", a, b)
			}
		}
	}
}

func Test_proteinTable(t *testing.T) {
	table := ProteinTable()
	span := Protein.WordSpan()

	type args struct {
		a string
		b string
	}
	tests := []struct {
		name string
		args args
		want PairProtein
	}{
		{"identical", args{"MK", "MK"}, PairProtein{Match: 2}},
		{"mismatch", args{"MK", "LR"}, PairProtein{Mismatch: 2}},
		{"X matches any residue", args{"XX", "MW"}, PairProtein{Match: 2}},
		{"B matches D and N", args{"BB", "DN"}, PairProtein{Match: 2}},
		{"Z matches E and Q", args{"ZZ", "EQ"}, PairProtein{Match: 2}},
		{"J matches I and L", args{"JJ", "IL"}, PairProtein{Match: 2}},
		{"D and N match B", args{"DN", "BB"}, PairProtein{Match: 2}},
		{"B does not match E", args{"B", "E"}, PairProtein{Mismatch: 1}},
		{"ambiguity codes from different groups mismatch", args{"B", "Z"}, PairProtein{Mismatch: 1}},
		{"X does not match stop", args{"X", "*"}, PairProtein{Mismatch: 1}},
		{"stop only matches stop", args{"**", "*M"}, PairProtein{Match: 1, Mismatch: 1}},
		{"gaps ignored", args{"-K", "M-"}, PairProtein{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table[word(tt.args.a, Protein)*span+word(tt.args.b, Protein)]
			if got != tt.want {
				t.Errorf("ProteinTable[%s,%s] = %+v, want %+v", tt.args.a, tt.args.b, got, tt.want)
			}
		})
	}
}

func Test_scoreTable(t *testing.T) {
	table := ScoreTable()
	span := Protein.WordSpan()

	type args struct {
		a string
		b string
	}
	tests := []struct {
		name string
		args args
		want PairScore
	}{
		{"identical alanines", args{"AA", "AA"}, PairScore{Score: 8, Valid: 2}},
		{"tryptophan self", args{"W", "W"}, PairScore{Score: 11, Valid: 1}},
		{"mismatch", args{"W", "A"}, PairScore{Score: -3, Valid: 1}},
		{"U and O are not scorable", args{"UO", "AA"}, PairScore{}},
		{"J is not scorable", args{"JA", "LA"}, PairScore{Score: 4, Valid: 1}},
		{"gap is not scorable", args{"-A", "AA"}, PairScore{Score: 4, Valid: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table[word(tt.args.a, Protein)*span+word(tt.args.b, Protein)]
			if got != tt.want {
				t.Errorf("ScoreTable[%s,%s] = %+v, want %+v", tt.args.a, tt.args.b, got, tt.want)
			}
		})
	}
}
