// Package render draws bipartite graphs as Graphviz node-link diagrams,
// for eyeballing generated instances before encoding them.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/hardcnf/bipartgen/pkg/bitgraph"
)

// Options configures diagram rendering.
type Options struct {
	// LeftLabel and RightLabel name the two partitions in node labels.
	// Empty labels fall back to "L" and "R".
	LeftLabel  string
	RightLabel string
}

// ToDOT converts a bipartite graph to Graphviz DOT format: the two
// partitions as same-rank columns, present edges as undirected lines.
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(g *bitgraph.Graph, opts Options) string {
	leftLabel := opts.LeftLabel
	if leftLabel == "" {
		leftLabel = "L"
	}
	rightLabel := opts.RightLabel
	if rightLabel == "" {
		rightLabel = "R"
	}

	sizes := g.PartitionSizes()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=1.5;\n")
	buf.WriteString("\n")

	buf.WriteString("  { rank=same;")
	for i := 0; i < sizes[0]; i++ {
		fmt.Fprintf(&buf, " %q;", fmt.Sprintf("%s%d", leftLabel, i))
	}
	buf.WriteString(" }\n")

	buf.WriteString("  { rank=same;")
	for j := 0; j < sizes[1]; j++ {
		fmt.Fprintf(&buf, " %q;", fmt.Sprintf("%s%d", rightLabel, j))
	}
	buf.WriteString(" }\n")

	buf.WriteString("\n")
	for i := 0; i < sizes[0]; i++ {
		for _, j := range g.Neighbors(0, i, 1) {
			fmt.Fprintf(&buf, "  %q -- %q;\n",
				fmt.Sprintf("%s%d", leftLabel, i), fmt.Sprintf("%s%d", rightLabel, j))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
