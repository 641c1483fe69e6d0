package phylo

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// whitespace is stripped from sequence lines; everything else is kept,
// unrecognized symbols pack to gaps later
var whitespace = regexp.MustCompile(`\s`)

// ReadFASTA reads an aligned FASTA file into an Alignment, keeping the
// record order of the file
func ReadFASTA(path string) (*Alignment, error) {
	var err error
	if !filepath.IsAbs(path) {
		if path, err = filepath.Abs(path); err != nil {
			return nil, fmt.Errorf("failed to create path to FASTA file: %v", err)
		}
	}

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input FASTA path: %v", err)
	}
	return parseFASTA(string(dat))
}

func parseFASTA(file string) (*Alignment, error) {
	lines := strings.Split(file, "\n")

	// find the headers
	var headerIndices []int
	var ids []string
	for i, line := range lines {
		if strings.HasPrefix(line, ">") {
			fields := strings.Fields(strings.TrimSpace(line[1:]))
			if len(fields) == 0 {
				return nil, fmt.Errorf("unnamed sequence at line %d", i+1)
			}
			headerIndices = append(headerIndices, i)
			ids = append(ids, fields[0])
		}
	}

	// accumulate the sequences from between the headers
	var seqs []string
	for i, headerIndex := range headerIndices {
		nextLine := len(lines)
		if i < len(headerIndices)-1 {
			nextLine = headerIndices[i+1]
		}
		seqJoined := strings.Join(lines[headerIndex+1:nextLine], "")
		seqs = append(seqs, strings.ToUpper(whitespace.ReplaceAllString(seqJoined, "")))
	}

	if len(ids) < 1 {
		return nil, fmt.Errorf("failed to parse any sequences from input")
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("duplicate taxon %q in input", id)
		}
		seen[id] = true
	}

	return &Alignment{Names: ids, Seqs: seqs}, nil
}
