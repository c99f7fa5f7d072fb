package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/hardcnf/bipartgen/pkg/bitgraph"
	"github.com/hardcnf/bipartgen/pkg/encode"
	"github.com/hardcnf/bipartgen/pkg/errors"
	"github.com/hardcnf/bipartgen/pkg/instance"
	"github.com/hardcnf/bipartgen/pkg/render"
)

// generate builds the requested graph, encodes it to <file>.cnf and writes
// the optional side files: <file>_variable.order, <file>_bucket.order,
// <file>.dot and <file>.svg.
func (c *CLI) generate(ctx context.Context, cfg *config) error {
	if cfg.Verbose {
		c.SetLogLevel(LogDebug)
	}
	logger := c.Logger

	g, err := c.buildGraph(cfg)
	if err != nil {
		return err
	}
	sizes := g.PartitionSizes()
	logger.Debugf("Built %s graph with partitions %dx%d", cfg.Graph, sizes[0], sizes[1])

	opts, err := c.encodeOptions(cfg, g)
	if err != nil {
		return err
	}
	enc := encode.New(g, opts)

	p := newProgress(logger)

	cnfPath := cfg.File + ".cnf"
	cnfFile, err := os.Create(cnfPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWrite, err, "failed to create %s", cnfPath)
	}
	defer cnfFile.Close()

	// The variable-order file opens before encoding: in bucket mode the
	// Sinz encoder streams IDs into it while emitting clauses.
	var varFile, bucketFile *os.File
	varPath := cfg.File + "_variable.order"
	bucketPath := cfg.File + "_bucket.order"
	if cfg.BucketOrder || cfg.VarOrder {
		if varFile, err = os.Create(varPath); err != nil {
			return errors.Wrap(errors.ErrCodeFileWrite, err, "failed to create %s", varPath)
		}
		defer varFile.Close()
	}
	if cfg.BucketOrder {
		if bucketFile, err = os.Create(bucketPath); err != nil {
			return errors.Wrap(errors.ErrCodeFileWrite, err, "failed to create %s", bucketPath)
		}
		defer bucketFile.Close()
		enc.SetVarOrderWriter(varFile)
	}

	if err := enc.WriteCNF(cnfFile); err != nil {
		return errors.Wrap(errors.ErrCodeFileWrite, err, "failed to write %s", cnfPath)
	}
	if opts.BlockSize >= 2 {
		logger.Infof("%d matchings were blocked", enc.BlockedCount())
	}

	switch {
	case cfg.BucketOrder:
		if err := enc.WriteBucketOrder(varFile, bucketFile); err != nil {
			return errors.Wrap(errors.ErrCodeFileWrite, err, "failed to write order files")
		}
	case cfg.VarOrder:
		if err := enc.WriteVariableOrder(varFile); err != nil {
			return errors.Wrap(errors.ErrCodeFileWrite, err, "failed to write %s", varPath)
		}
	}

	p.done(fmt.Sprintf("Encoded %d variables, %d clauses", enc.NumVars(), enc.NumClauses()))

	printSuccess("Wrote %s", cnfPath)
	printStats(enc.NumVars(), enc.NumClauses(), enc.BlockedCount())
	if cfg.BucketOrder {
		printFile(varPath)
		printFile(bucketPath)
	} else if cfg.VarOrder {
		printFile(varPath)
	}

	if cfg.DOT || cfg.SVG {
		if err := c.renderGraph(g, cfg); err != nil {
			return err
		}
	}

	if cfg.Verbose {
		edges := 0
		for i := 0; i < sizes[0]; i++ {
			edges += g.NumNeighbors(0, i, 1)
		}
		fmt.Printf("%f\n", float64(edges)/float64(sizes[0]*sizes[1]))
	}
	return nil
}

// buildGraph constructs the bipartite graph selected by --graph.
func (c *CLI) buildGraph(cfg *config) (*bitgraph.Graph, error) {
	switch cfg.Graph {
	case graphPigeon:
		g, err := instance.Pigeonhole(cfg.Size)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "pigeonhole with n=%d", cfg.Size)
		}
		return g, nil

	case graphChess:
		variant, err := instance.ParseVariant(cfg.ChessVariant)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid chess variant")
		}
		board, err := instance.NewBoard(cfg.Size, variant)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "chessboard with n=%d", cfg.Size)
		}
		g, err := board.Graph()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "chessboard with n=%d", cfg.Size)
		}
		return g, nil

	case graphRandom:
		g, capped, err := instance.Random(instance.RandomOptions{
			N:           cfg.Size,
			Cardinality: cfg.Cardinality,
			Density:     cfg.Density,
			Edges:       cfg.Edges,
			Seed:        cfg.Seed,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "random graph with n=%d", cfg.Size)
		}
		if capped {
			printWarning("Number of edges too high for given size with density 1")
		}
		return g, nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidGraph, "unrecognized problem variant: %q", cfg.Graph)
	}
}

// encodeOptions translates the merged configuration into encoder options,
// placing the extra constraints on the opposite partitions.
func (c *CLI) encodeOptions(cfg *config, g *bitgraph.Graph) (encode.Options, error) {
	enc, err := encode.ParseEncoding(cfg.Encoding)
	if err != nil {
		return encode.Options{}, errors.Wrap(errors.ErrCodeInvalidEncoding, err, "invalid -e flag")
	}

	alo, amo := encode.DefaultPartitions(g)

	aloParts := []int{alo}
	if cfg.ExtraALO {
		aloParts = append(aloParts, amo)
	}
	amoParts := []int{amo}
	if cfg.ExtraAMO {
		amoParts = append(amoParts, alo)
	}

	policy, prob := cfg.blockingPolicy()
	return encode.Options{
		Encoding:     enc,
		ALO:          aloParts,
		AMO:          amoParts,
		Seed:         cfg.Seed,
		RandomGraph:  cfg.Graph == graphRandom,
		BlockSize:    cfg.BlockSize,
		Policy:       policy,
		ProbMille:    prob,
		AvoidOverlap: cfg.Avoid,
		VarOrder:     cfg.VarOrder,
		BucketOrder:  cfg.BucketOrder,
	}, nil
}

// renderGraph writes the DOT file, and the SVG when requested.
func (c *CLI) renderGraph(g *bitgraph.Graph, cfg *config) error {
	leftLabel, rightLabel := "L", "R"
	switch cfg.Graph {
	case graphPigeon:
		leftLabel, rightLabel = "P", "H"
	case graphChess:
		leftLabel, rightLabel = "W", "B"
	}

	dot := render.ToDOT(g, render.Options{LeftLabel: leftLabel, RightLabel: rightLabel})
	dotPath := cfg.File + ".dot"
	if err := os.WriteFile(dotPath, []byte(dot), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWrite, err, "failed to write %s", dotPath)
	}
	printFile(dotPath)

	if cfg.SVG {
		svg, err := render.RenderSVG(dot)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "failed to render SVG")
		}
		svgPath := cfg.File + ".svg"
		if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeFileWrite, err, "failed to write %s", svgPath)
		}
		printFile(svgPath)
	}
	return nil
}
