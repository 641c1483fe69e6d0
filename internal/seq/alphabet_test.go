package seq

import (
	"math/rand"
	"strings"
	"testing"
)

func Test_packRoundTrip(t *testing.T) {
	type args struct {
		seq  string
		kind Kind
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			"dna every symbol",
			args{"-ACGTN", DNA},
			"-ACGTN",
		},
		{
			"dna lowercase",
			args{"acgtn", DNA},
			"ACGTN",
		},
		{
			"dna U folds to T",
			args{"AUGC", DNA},
			"ATGC",
		},
		{
			"dna unknown symbols become gaps",
			args{"AC?GT!", DNA},
			"AC-GT-",
		},
		{
			"dna length not a multiple of the word size",
			args{"ACGTA", DNA},
			"ACGTA",
		},
		{
			"protein every symbol",
			args{"-ACDEFGHIKLMNPQRSTVWYUOBZJX*", Protein},
			"-ACDEFGHIKLMNPQRSTVWYUOBZJX*",
		},
		{
			"protein lowercase and unknowns",
			args{"mk?vl", Protein},
			"MK-VL",
		},
		{
			"empty",
			args{"", DNA},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pack(tt.args.seq, tt.args.kind).Unpack(); got != tt.want {
				t.Errorf("Pack().Unpack() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_packRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, kind := range []Kind{DNA, Protein} {
		symbols := kind.Symbols()
		for trial := 0; trial < 25; trial++ {
			var b strings.Builder
			for i := 0; i < rng.Intn(200); i++ {
				b.WriteByte(symbols[rng.Intn(len(symbols))])
			}
			in := b.String()

			if got := Pack(in, kind).Unpack(); got != in {
				t.Fatalf("round trip of %q (%s) = %q", in, kind, got)
			}
		}
	}
}

func Test_packPadding(t *testing.T) {
	p := Pack("ACGTA", DNA)

	if len(p.Words) != 2 {
		t.Errorf("len(Words) = %d, want 2", len(p.Words))
	}

	// the second word holds T, A and one pad symbol, which must be a gap
	if want := uint16(dnaT + 6*dnaA + 36*dnaGap); p.Words[1] != want {
		t.Errorf("padded word = %d, want %d", p.Words[1], want)
	}
}

func Test_kindIndex(t *testing.T) {
	if got := DNA.Index('u'); got != dnaT {
		t.Errorf("DNA.Index('u') = %v, want %v", got, dnaT)
	}
	if got := DNA.Index('Q'); got != dnaGap {
		t.Errorf("DNA.Index('Q') = %v, want %v", got, dnaGap)
	}
	if got := Protein.Index('*'); got != protStop {
		t.Errorf("Protein.Index('*') = %v, want %v", got, protStop)
	}
}
