package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/hardcnf/bipartgen/pkg/errors"
)

// manifest mirrors config as a TOML document so benchmark suites can be
// stored alongside their parameters:
//
//	graph = "chess"
//	size = 8
//	file = "mchess8"
//	encoding = "sinz"
//
//	[chess]
//	variant = "TORUS"
//
//	[blocking]
//	size = 2
//	avoid = true
//
// Every key is optional; flags given on the command line override manifest
// values.
type manifest struct {
	Graph    string `toml:"graph"`
	Size     *int   `toml:"size"`
	File     string `toml:"file"`
	Encoding string `toml:"encoding"`
	Seed     *int64 `toml:"seed"`
	Verbose  *bool  `toml:"verbose"`

	Chess struct {
		Variant string `toml:"variant"`
	} `toml:"chess"`

	Random struct {
		Cardinality *int     `toml:"cardinality"`
		Density     *float64 `toml:"density"`
		Edges       *int     `toml:"edges"`
	} `toml:"random"`

	Blocking struct {
		Size  *int     `toml:"size"`
		Prob  *float64 `toml:"prob"`
		Avoid *bool    `toml:"avoid"`
	} `toml:"blocking"`

	Constraints struct {
		ExtraALO *bool `toml:"extra_alo"`
		ExtraAMO *bool `toml:"extra_amo"`
	} `toml:"constraints"`

	Order struct {
		Bucket   *bool `toml:"bucket"`
		Variable *bool `toml:"variable"`
	} `toml:"order"`

	Render struct {
		DOT *bool `toml:"dot"`
		SVG *bool `toml:"svg"`
	} `toml:"render"`
}

// applyManifest loads a TOML manifest into cfg, skipping every option whose
// flag was set explicitly on the command line.
func applyManifest(path string, fs *pflag.FlagSet, cfg *config) error {
	if err := errors.ValidateManifestFilename(filepath.Base(path)); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "failed to read manifest %s", path)
	}
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "failed to parse manifest %s", path)
	}

	set := func(flag string) bool { return !fs.Changed(flag) }

	if m.Graph != "" && set("graph") {
		cfg.Graph = m.Graph
	}
	if m.Size != nil && set("size") {
		cfg.Size = *m.Size
	}
	if m.File != "" && set("file") {
		cfg.File = m.File
	}
	if m.Encoding != "" && set("encoding") {
		cfg.Encoding = m.Encoding
	}
	if m.Seed != nil && set("seed") {
		cfg.Seed = *m.Seed
	}
	if m.Verbose != nil && set("verbose") {
		cfg.Verbose = *m.Verbose
	}

	if m.Chess.Variant != "" && set("chess-variant") {
		cfg.ChessVariant = m.Chess.Variant
	}

	if m.Random.Cardinality != nil && set("cardinality") {
		cfg.Cardinality = *m.Random.Cardinality
	}
	if m.Random.Density != nil && set("density") {
		cfg.Density = *m.Random.Density
	}
	if m.Random.Edges != nil && set("edges") {
		cfg.Edges = *m.Random.Edges
	}

	if m.Blocking.Size != nil && set("block") {
		cfg.BlockSize = *m.Blocking.Size
	}
	if m.Blocking.Prob != nil && set("block-prob") {
		cfg.BlockProb = *m.Blocking.Prob
		cfg.BlockProbSet = true
	}
	if m.Blocking.Avoid != nil && set("avoid") {
		cfg.Avoid = *m.Blocking.Avoid
	}

	if m.Constraints.ExtraALO != nil && set("extra-alo") {
		cfg.ExtraALO = *m.Constraints.ExtraALO
	}
	if m.Constraints.ExtraAMO != nil && set("extra-amo") {
		cfg.ExtraAMO = *m.Constraints.ExtraAMO
	}

	if m.Order.Bucket != nil && set("bucket-order") {
		cfg.BucketOrder = *m.Order.Bucket
	}
	if m.Order.Variable != nil && set("var-order") {
		cfg.VarOrder = *m.Order.Variable
	}

	if m.Render.DOT != nil && set("dot") {
		cfg.DOT = *m.Render.DOT
	}
	if m.Render.SVG != nil && set("svg") {
		cfg.SVG = *m.Render.SVG
	}
	return nil
}
