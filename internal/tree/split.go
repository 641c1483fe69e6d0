package tree

// Taxa assigns bit positions to taxon names so splits over one taxon set
// can be compared cheaply
type Taxa struct {
	names []string
	index map[string]int
}

// NewTaxa indexes names in order
func NewTaxa(names []string) *Taxa {
	t := &Taxa{names: names, index: make(map[string]int, len(names))}
	for i, n := range names {
		t.index[n] = i
	}
	return t
}

// Len is the taxon count
func (t *Taxa) Len() int { return len(t.names) }

// Names returns the taxon names in index order
func (t *Taxa) Names() []string { return t.names }

// Index returns the bit position of a taxon name
func (t *Taxa) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Bitset is a fixed-size set of taxon indices
type Bitset []uint64

// NewBitset makes an empty set able to hold indices 0..n-1
func NewBitset(n int) Bitset {
	return make(Bitset, (n+63)/64)
}

// Set adds index i
func (b Bitset) Set(i int) { b[i/64] |= 1 << (i % 64) }

// Has reports whether index i is present
func (b Bitset) Has(i int) bool { return b[i/64]&(1<<(i%64)) != 0 }

// Empty reports whether no index is present
func (b Bitset) Empty() bool {
	for _, w := range b {
		if w != 0 {
			return false
		}
	}
	return true
}

// Count is the number of indices present
func (b Bitset) Count() int {
	n := 0
	for _, w := range b {
		for ; w != 0; w &= w - 1 {
			n++
		}
	}
	return n
}

// Disjoint reports whether b and o share no index
func (b Bitset) Disjoint(o Bitset) bool {
	for i := range b {
		if b[i]&o[i] != 0 {
			return false
		}
	}
	return true
}

// Or adds every index of o to b
func (b Bitset) Or(o Bitset) {
	for i := range b {
		b[i] |= o[i]
	}
}

// Clone copies b
func (b Bitset) Clone() Bitset {
	c := make(Bitset, len(b))
	copy(c, b)
	return c
}

// Equal reports whether b and o hold the same indices
func (b Bitset) Equal(o Bitset) bool {
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// Split is the bipartition of a taxon set induced by one tree edge
type Split struct {
	A, B Bitset
}

// Compatible reports whether two splits could occur in the same tree: at
// least one of the four pairwise side intersections must be empty
func Compatible(x, y Split) bool {
	return x.A.Disjoint(y.A) || x.A.Disjoint(y.B) ||
		x.B.Disjoint(y.A) || x.B.Disjoint(y.B)
}

// SplitOf builds the bipartition separating the taxa in side from the rest
// of the set
func SplitOf(side Bitset, taxa *Taxa) Split {
	rest := NewBitset(taxa.Len())
	for i := 0; i < taxa.Len(); i++ {
		if !side.Has(i) {
			rest.Set(i)
		}
	}
	return Split{A: side, B: rest}
}

// LeafSet collects the taxon indices of the leaves below n. Leaves missing
// from taxa are skipped
func (n *Node) LeafSet(taxa *Taxa) Bitset {
	set := NewBitset(taxa.Len())
	for _, leaf := range n.Leaves() {
		if i, ok := taxa.Index(leaf.Name); ok {
			set.Set(i)
		}
	}
	return set
}

// Splits lists the bipartition induced by every edge of the tree rooted at
// n, one per non-root node with at least one indexed taxon on each side
func (n *Node) Splits(taxa *Taxa) []Split {
	full := n.LeafSet(taxa)

	var splits []Split
	for _, node := range n.ChildrenRecursive() {
		if node == n {
			continue
		}
		side := node.LeafSet(taxa)
		if side.Empty() {
			continue
		}
		rest := full.Clone()
		for i := range rest {
			rest[i] &^= side[i]
		}
		if rest.Empty() {
			continue
		}
		splits = append(splits, Split{A: side, B: rest})
	}
	return splits
}
