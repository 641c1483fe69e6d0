package phylo

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jjtimmons/phylo/config"
	"github.com/jjtimmons/phylo/internal/cluster"
	"github.com/jjtimmons/phylo/internal/dist"
	"github.com/jjtimmons/phylo/internal/tree"
)

// Flags contains parsed cobra flags like "in", "out", "model", etc that are
// used by multiple commands
type Flags struct {
	// the path of the input alignment (FASTA)
	in string

	// the path to write the output to; stdout when empty
	out string

	// the substitution model
	model dist.Model

	// worker count for every parallel stage
	workers int

	// bootstrap replicate count; 0 skips support values
	bootstrap int

	// seed for bootstrap column resampling
	seed int64

	// whether to keep negative NJ branch lengths
	negative bool

	// optional guide tree the output must be compatible with
	constraint *tree.Node
}

// parseCmdFlags gathers the in path, out path, etc from a cobra cmd object,
// falling back on the Viper config for anything not set on the command line
func parseCmdFlags(cmd *cobra.Command, conf *config.Config) *Flags {
	fs := &Flags{}
	var err error

	if fs.in, err = cmd.Flags().GetString("in"); fs.in == "" || err != nil {
		cmd.Help()
		stderr.Fatal("\nno input alignment passed")
	}
	fs.out, _ = cmd.Flags().GetString("out")

	modelName, _ := cmd.Flags().GetString("model")
	if modelName == "" {
		modelName = conf.Model
	}
	if fs.model, err = dist.ParseModel(modelName); err != nil {
		stderr.Fatal(err)
	}

	if fs.workers, _ = cmd.Flags().GetInt("workers"); fs.workers == 0 {
		fs.workers = conf.Workers
	}

	if cmd.Flags().Lookup("bootstrap") != nil {
		if fs.bootstrap, _ = cmd.Flags().GetInt("bootstrap"); fs.bootstrap < 0 {
			fs.bootstrap = conf.Bootstrap.Replicates
		}
		if fs.seed, _ = cmd.Flags().GetInt64("seed"); fs.seed == 0 {
			fs.seed = conf.Bootstrap.Seed
		}
		if cmd.Flags().Changed("negative") {
			fs.negative, _ = cmd.Flags().GetBool("negative")
		} else {
			fs.negative = conf.Negative
		}

		guidePath, _ := cmd.Flags().GetString("constraint")
		if guidePath == "" {
			guidePath = conf.Constraint
		}
		if guidePath != "" {
			dat, err := os.ReadFile(guidePath)
			if err != nil {
				stderr.Fatalf("failed to read constraint tree: %v", err)
			}
			if fs.constraint, err = tree.ParseNewick(string(dat)); err != nil {
				stderr.Fatalf("failed to parse constraint tree: %v", err)
			}
		}
	}

	return fs
}

// progress logs distance-matrix progress to stderr at 10% steps
func progress() dist.Progress {
	lastDecile := 0
	return func(done, total int) {
		if d := 10 * done / total; d > lastDecile {
			lastDecile = d
			stderr.Printf("distance matrix %d%% complete", d*10)
		}
	}
}

// MatrixCmd builds a distance matrix from an alignment and writes it in
// PHYLIP layout
func MatrixCmd(cmd *cobra.Command, args []string) {
	Matrix(parseCmdFlags(cmd, config.New()))
}

// Matrix runs the matrix half of the pipeline: read, pack, fill, write
func Matrix(fs *Flags) {
	a, err := ReadFASTA(fs.in)
	if err != nil {
		stderr.Fatal(err)
	}

	m, err := BuildMatrix(a, fs.model, fs.workers, progress())
	if err != nil {
		stderr.Fatal(err)
	}

	if err = WriteMatrix(fs.out, m, a.Names); err != nil {
		stderr.Fatal(err)
	}
}

// NJCmd builds a Neighbor-Joining tree from an alignment
func NJCmd(cmd *cobra.Command, args []string) {
	TreeCmd(parseCmdFlags(cmd, config.New()), cluster.MethodNJ)
}

// UPGMACmd builds a UPGMA tree from an alignment
func UPGMACmd(cmd *cobra.Command, args []string) {
	TreeCmd(parseCmdFlags(cmd, config.New()), cluster.MethodUPGMA)
}

// TreeCmd is the shared end of the nj and upgma commands
func TreeCmd(fs *Flags, method cluster.Method) {
	start := time.Now()

	a, err := ReadFASTA(fs.in)
	if err != nil {
		stderr.Fatal(err)
	}

	root, err := BuildTree(a, TreeOpts{
		Model:         fs.model,
		Method:        method,
		Workers:       fs.workers,
		Bootstrap:     fs.bootstrap,
		Seed:          fs.seed,
		AllowNegative: fs.negative,
		Constraint:    fs.constraint,
	}, progress())
	if err != nil {
		stderr.Fatal(err)
	}

	if err = WriteNewick(fs.out, root); err != nil {
		stderr.Fatal(err)
	}

	stderr.Printf("%d taxa clustered in %s", a.Len(), time.Since(start).Round(time.Millisecond))
}
