package phylo

import (
	"fmt"
	"io"
	"os"

	"github.com/jjtimmons/phylo/internal/dist"
	"github.com/jjtimmons/phylo/internal/tree"
)

// WriteNewick serializes a tree to the output path, or to stdout when the
// path is empty
func WriteNewick(path string, t *tree.Node) error {
	out, closer, err := openOut(path)
	if err != nil {
		return err
	}
	defer closer()

	_, err = fmt.Fprintln(out, t.Newick())
	return err
}

// WriteMatrix writes a distance matrix in the square PHYLIP layout: the
// taxon count, then one row per taxon
func WriteMatrix(path string, m dist.Matrix, names []string) error {
	out, closer, err := openOut(path)
	if err != nil {
		return err
	}
	defer closer()

	if _, err = fmt.Fprintf(out, "%d\n", m.Len()); err != nil {
		return err
	}
	for i, name := range names {
		if _, err = fmt.Fprintf(out, "%-10s", name); err != nil {
			return err
		}
		for j := 0; j < m.Len(); j++ {
			if _, err = fmt.Fprintf(out, " %.6f", m.At(i, j)); err != nil {
				return err
			}
		}
		if _, err = fmt.Fprintln(out); err != nil {
			return err
		}
	}
	return nil
}

func openOut(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %v", err)
	}
	return f, func() { f.Close() }, nil
}
