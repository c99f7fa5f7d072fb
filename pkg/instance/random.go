package instance

import (
	"math/rand"

	"github.com/hardcnf/bipartgen/pkg/bitgraph"
)

// RandomOptions configures a random bipartite graph of n+cardinality left
// nodes against n right nodes. Edges beyond the connecting skeleton are
// drawn from a shuffled list of all possible edges, stopping either at the
// requested density (fraction of all possible edges) or, when Edges is
// positive, at that edge count.
type RandomOptions struct {
	N           int
	Cardinality int
	Density     float64
	Edges       int
	Seed        int64
}

// Random generates a random bipartite graph. Every node is connected: the
// first n left nodes pair with their mirror right node and link back to a
// random earlier right node, and the surplus left nodes attach to a random
// right node. The returned flag reports whether the possible-edge pool ran
// out before the density or count target was met, in which case the graph
// simply holds every edge.
func Random(opts RandomOptions) (*bitgraph.Graph, bool, error) {
	if opts.N < 1 {
		return nil, false, ErrInvalidSize
	}

	s0, s1 := opts.N+opts.Cardinality, opts.N
	g, err := bitgraph.New(s0, s1)
	if err != nil {
		return nil, false, err
	}

	type edge struct{ n1, n2 int }
	pool := make([]edge, 0, s0*s1)
	for i := 0; i < s0; i++ {
		for j := 0; j < s1; j++ {
			pool = append(pool, edge{i, j})
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	byCount := opts.Edges > 0
	edgeLimit := int(opts.Density * float64(s0*s1))
	edgeN := 0

	// Connecting skeleton.
	for i := 0; i < s0; i++ {
		var r int
		if i < s1 {
			g.AddEdge(0, i, 1, i)
			edgeLimit--
			edgeN++
			if i > 0 {
				r = rng.Intn(i)
			}
		} else {
			r = rng.Intn(s1)
		}
		g.AddEdge(0, i, 1, r)
		if i > 0 {
			edgeLimit--
			edgeN++
		}
	}

	for i := len(pool) - 1; i > 0; i-- {
		p := rng.Intn(i)
		pool[p], pool[i] = pool[i], pool[p]
	}

	capped := false
	for i := 0; ; {
		if i >= len(pool) {
			capped = true
			break
		}
		if !byCount && edgeLimit <= 0 {
			break
		}
		if byCount && edgeN >= opts.Edges {
			break
		}
		e := pool[i]
		i++
		if !g.IsEdge(0, e.n1, 1, e.n2) {
			g.AddEdge(0, e.n1, 1, e.n2)
			edgeLimit--
			edgeN++
		}
	}
	return g, capped, nil
}
