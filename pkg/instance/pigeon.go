// Package instance builds the bipartite graphs the generator encodes:
// the pigeonhole principle, mutilated chessboards in three geometries, and
// random bipartite graphs with a guaranteed spanning structure.
package instance

import (
	"errors"

	"github.com/hardcnf/bipartgen/pkg/bitgraph"
)

// ErrInvalidSize is returned when an instance size is not positive.
var ErrInvalidSize = errors.New("instance size must be positive")

// Pigeonhole builds the complete bipartite graph of n+1 pigeons against n
// holes. Partition 0 holds the pigeons.
func Pigeonhole(n int) (*bitgraph.Graph, error) {
	if n < 1 {
		return nil, ErrInvalidSize
	}
	g, err := bitgraph.New(n+1, n)
	if err != nil {
		return nil, err
	}
	g.FullyConnectPartition(0, 1)
	return g, nil
}
