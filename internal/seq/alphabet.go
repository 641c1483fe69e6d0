// Package seq packs molecular sequences into dense machine words and
// precomputes the pairwise comparison tables used by the distance models
// (see /internal/dist)
package seq

import (
	"strings"
)

// Kind is the alphabet of a sequence: DNA or Protein
type Kind int

const (
	// DNA alphabet: gap, A, C, G, T (U maps to T), N
	DNA Kind = iota

	// Protein alphabet: gap, the 20 standard residues, U, O, B, Z, J, X, *
	Protein
)

// dnaSymbols in index order. U is folded into T during packing
const dnaSymbols = "-ACGTN"

// proteinSymbols in index order. the 20 standard residues are alphabetical
const proteinSymbols = "-ACDEFGHIKLMNPQRSTVWYUOBZJX*"

// symbol indices that are meaningful in several packages
const (
	dnaGap = 0
	dnaA   = 1
	dnaC   = 2
	dnaG   = 3
	dnaT   = 4
	dnaN   = 5

	protGap  = 0
	protU    = 21
	protO    = 22
	protB    = 23
	protZ    = 24
	protJ    = 25
	protX    = 26
	protStop = 27
)

// SymbolsPerWord is the number of consecutive symbols packed into one word:
// 3 for DNA (radix 6, max value 215), 2 for protein (radix 28, max value 783)
func (k Kind) SymbolsPerWord() int {
	if k == DNA {
		return 3
	}
	return 2
}

// Radix is the positional weight between adjacent symbols in a packed word
func (k Kind) Radix() int {
	if k == DNA {
		return 6
	}
	return 28
}

// WordSpan is the number of distinct packed-word values: Radix^SymbolsPerWord
func (k Kind) WordSpan() int {
	if k == DNA {
		return 216
	}
	return 784
}

// Symbols is the alphabet in index order
func (k Kind) Symbols() string {
	if k == DNA {
		return dnaSymbols
	}
	return proteinSymbols
}

func (k Kind) String() string {
	if k == DNA {
		return "dna"
	}
	return "protein"
}

// Index maps a character (case-insensitively) to its alphabet index.
// Unrecognized characters map to the gap index: input with stray symbols is
// common enough that failing here would reject otherwise usable alignments
func (k Kind) Index(c byte) int {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if k == DNA && c == 'U' {
		c = 'T'
	}
	i := strings.IndexByte(k.Symbols(), c)
	if i < 0 {
		return 0
	}
	return i
}

// Packed is an immutable packed sequence: SymbolsPerWord symbols per word,
// right-padded with gaps to a whole number of words
type Packed struct {
	Kind  Kind
	Len   int // symbol count before padding
	Words []uint16
}

// Pack encodes a raw sequence into packed words
func Pack(s string, kind Kind) Packed {
	per := kind.SymbolsPerWord()
	radix := kind.Radix()

	words := make([]uint16, (len(s)+per-1)/per)
	for w := range words {
		v, weight := 0, 1
		for p := 0; p < per; p++ {
			i := w*per + p
			if i < len(s) {
				v += kind.Index(s[i]) * weight
			}
			weight *= radix
		}
		words[w] = uint16(v)
	}

	return Packed{Kind: kind, Len: len(s), Words: words}
}

// Unpack decodes the packed words back to symbol characters, dropping the
// gap padding past Len
func (p Packed) Unpack() string {
	per := p.Kind.SymbolsPerWord()
	radix := p.Kind.Radix()
	symbols := p.Kind.Symbols()

	out := make([]byte, 0, p.Len)
	for _, w := range p.Words {
		v := int(w)
		for i := 0; i < per && len(out) < p.Len; i++ {
			out = append(out, symbols[v%radix])
			v /= radix
		}
	}
	return string(out)
}
