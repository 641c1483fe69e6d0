package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// Newick serializes the tree rooted at n, with branch lengths and, where
// set, bootstrap support as internal node labels
func (n *Node) Newick() string {
	var b strings.Builder
	writeNewick(&b, n, true)
	b.WriteByte(';')
	return b.String()
}

func writeNewick(b *strings.Builder, n *Node, root bool) {
	if !n.IsLeaf() {
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNewick(b, c, false)
		}
		b.WriteByte(')')
	}

	if n.IsLeaf() {
		b.WriteString(escapeName(n.Name))
	} else if n.Support >= 0 {
		b.WriteString(strconv.FormatFloat(n.Support, 'g', -1, 64))
	}

	if !root {
		fmt.Fprintf(b, ":%g", n.Length)
	}
}

func escapeName(name string) string {
	if strings.ContainsAny(name, "(),:; \t'") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}

// ParseNewick reads one Newick tree, as used for guide-tree input.
// Multifurcations are allowed; internal labels are kept as support values
// when numeric and as names otherwise
func ParseNewick(s string) (*Node, error) {
	p := &newickParser{s: strings.TrimSpace(s)}
	root, err := p.node()
	if err != nil {
		return nil, err
	}

	p.ws()
	if p.i < len(p.s) && p.s[p.i] == ';' {
		p.i++
	}
	p.ws()
	if p.i != len(p.s) {
		return nil, fmt.Errorf("trailing input at offset %d", p.i)
	}
	return root, nil
}

type newickParser struct {
	s string
	i int
}

func (p *newickParser) ws() {
	for p.i < len(p.s) && (p.s[p.i] == ' ' || p.s[p.i] == '\n' || p.s[p.i] == '\t' || p.s[p.i] == '\r') {
		p.i++
	}
}

func (p *newickParser) node() (*Node, error) {
	p.ws()
	n := New("", 0)

	if p.i < len(p.s) && p.s[p.i] == '(' {
		p.i++
		for {
			c, err := p.node()
			if err != nil {
				return nil, err
			}
			n.AddChild(c)

			p.ws()
			if p.i >= len(p.s) {
				return nil, fmt.Errorf("unterminated subtree")
			}
			if p.s[p.i] == ',' {
				p.i++
				continue
			}
			if p.s[p.i] == ')' {
				p.i++
				break
			}
			return nil, fmt.Errorf("unexpected %q at offset %d", p.s[p.i], p.i)
		}
	}

	label := p.label()
	if n.IsLeaf() {
		n.Name = label
	} else if label != "" {
		if sup, err := strconv.ParseFloat(label, 64); err == nil {
			n.Support = sup
		} else {
			n.Name = label
		}
	}

	p.ws()
	if p.i < len(p.s) && p.s[p.i] == ':' {
		p.i++
		start := p.i
		for p.i < len(p.s) && !strings.ContainsRune("(),:;", rune(p.s[p.i])) {
			p.i++
		}
		length, err := strconv.ParseFloat(strings.TrimSpace(p.s[start:p.i]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad branch length at offset %d: %v", start, err)
		}
		n.Length = length
	}
	return n, nil
}

func (p *newickParser) label() string {
	p.ws()
	if p.i < len(p.s) && p.s[p.i] == '\'' {
		p.i++
		var b strings.Builder
		for p.i < len(p.s) {
			if p.s[p.i] == '\'' {
				if p.i+1 < len(p.s) && p.s[p.i+1] == '\'' {
					b.WriteByte('\'')
					p.i += 2
					continue
				}
				p.i++
				break
			}
			b.WriteByte(p.s[p.i])
			p.i++
		}
		return b.String()
	}

	start := p.i
	for p.i < len(p.s) && !strings.ContainsRune("(),:; \t\n\r", rune(p.s[p.i])) {
		p.i++
	}
	return p.s[start:p.i]
}
