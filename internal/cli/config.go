package cli

import (
	"github.com/spf13/pflag"

	"github.com/hardcnf/bipartgen/pkg/encode"
	"github.com/hardcnf/bipartgen/pkg/errors"
	"github.com/hardcnf/bipartgen/pkg/instance"
)

// Graph type names accepted by --graph.
const (
	graphChess  = "chess"
	graphPigeon = "pigeon"
	graphRandom = "random"
)

// config collects every generation option. Flags and the TOML manifest both
// fill it; flags win where both are set.
type config struct {
	Graph        string
	Size         int
	File         string
	Encoding     string
	ChessVariant string
	Cardinality  int
	Density      float64
	Edges        int
	ExtraALO     bool
	ExtraAMO     bool
	BlockSize    int
	BlockProb    float64
	BlockProbSet bool
	Avoid        bool
	Seed         int64
	BucketOrder  bool
	VarOrder     bool
	DOT          bool
	SVG          bool
	Verbose      bool
}

func defaultConfig() *config {
	return &config{
		Size:         4,
		Encoding:     string(encode.EncodingDirect),
		ChessVariant: "NORMAL",
		Cardinality:  1,
		Density:      1.0,
	}
}

func (cfg *config) registerFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&cfg.Graph, "graph", "g", cfg.Graph, "type of problem (chess|pigeon|random)")
	fs.IntVarP(&cfg.Size, "size", "n", cfg.Size, "size of problem (nxn chess, n holes, n nodes)")
	fs.StringVarP(&cfg.File, "file", "f", cfg.File, "base name for output files")
	fs.StringVarP(&cfg.Encoding, "encoding", "e", cfg.Encoding, "encoding variant (direct|linear|sinz|mixed)")
	fs.StringVarP(&cfg.ChessVariant, "chess-variant", "C", cfg.ChessVariant, "chess variant (NORMAL|TORUS|CYLINDER)")
	fs.IntVarP(&cfg.Cardinality, "cardinality", "c", cfg.Cardinality, "difference in partition size for random graphs")
	fs.Float64VarP(&cfg.Density, "density", "D", cfg.Density, "density for random graphs")
	fs.IntVarP(&cfg.Edges, "edges", "E", cfg.Edges, "edge count for random graphs")
	fs.BoolVarP(&cfg.ExtraALO, "extra-alo", "L", cfg.ExtraALO, "add an at-least-one constraint on the other partition")
	fs.BoolVarP(&cfg.ExtraAMO, "extra-amo", "M", cfg.ExtraAMO, "add an at-most-one constraint on the other partition")
	fs.IntVarP(&cfg.BlockSize, "block", "b", cfg.BlockSize, "block perfect matchings up to this size")
	fs.Float64VarP(&cfg.BlockProb, "block-prob", "B", cfg.BlockProb, "below 1.0: blocking probability; 1 and up: per-node count")
	fs.BoolVarP(&cfg.Avoid, "avoid", "a", cfg.Avoid, "blocked matchings and witnesses do not overlap")
	fs.Int64VarP(&cfg.Seed, "seed", "s", cfg.Seed, "randomization seed, if applicable")
	fs.BoolVarP(&cfg.BucketOrder, "bucket-order", "p", cfg.BucketOrder, "write BDD bucket permutation files")
	fs.BoolVarP(&cfg.VarOrder, "var-order", "o", cfg.VarOrder, "write BDD variable ordering file")
	fs.BoolVar(&cfg.DOT, "dot", cfg.DOT, "write the graph as a Graphviz DOT file")
	fs.BoolVar(&cfg.SVG, "svg", cfg.SVG, "render the graph to SVG (implies DOT generation)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "enable verbose logging and report graph density")
}

// validate checks cross-flag consistency after manifest merging.
func (cfg *config) validate() error {
	if cfg.File == "" || cfg.Graph == "" {
		return errors.New(errors.ErrCodeInvalidFlag, "both an output file (-f) and a graph generator (-g) are required")
	}
	if err := errors.ValidateOutputBase(cfg.File); err != nil {
		return err
	}

	switch cfg.Graph {
	case graphChess, graphPigeon, graphRandom:
	default:
		return errors.New(errors.ErrCodeInvalidGraph, "unrecognized problem variant: %q", cfg.Graph)
	}

	if _, err := encode.ParseEncoding(cfg.Encoding); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidEncoding, err, "invalid -e flag")
	}
	if cfg.Graph == graphChess {
		if _, err := instance.ParseVariant(cfg.ChessVariant); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid -C flag")
		}
	}

	// Zero is the unset default; an explicit -B 0 is still rejected.
	if cfg.BlockProb < 0 || (cfg.BlockProbSet && cfg.BlockProb == 0) {
		return errors.New(errors.ErrCodeInvalidFlag, "invalid -B flag argument, must be positive")
	}
	if cfg.BucketOrder && cfg.VarOrder {
		return errors.New(errors.ErrCodeInvalidFlag, "cannot run bucket permutation and variable ordering simultaneously")
	}
	if cfg.Edges > 0 && cfg.Density < 1.0 {
		return errors.New(errors.ErrCodeInvalidFlag, "must choose between edge count or density to bound size of random graph")
	}
	return nil
}

// blockingPolicy maps the -B argument onto a policy: values below 1.0 are a
// blocking probability in thousandths, values of 1 and up a count bound.
func (cfg *config) blockingPolicy() (encode.Policy, int) {
	if cfg.BlockProb == 0 {
		return encode.PolicyAll, 0
	}
	if cfg.BlockProb < 1.0 {
		return encode.PolicyProb, int(1000 * cfg.BlockProb)
	}
	return encode.PolicyCount, int(cfg.BlockProb)
}
