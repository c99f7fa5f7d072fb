// Package bitgraph implements a compact k-partite graph with constant-time
// edge queries and stable lexicographic edge identifiers.
package bitgraph

import (
	"errors"
	"math/bits"
)

var (
	// ErrTooFewPartitions is returned by [New] when fewer than two partition
	// sizes are given. Every edge spans two partitions, so a graph needs at
	// least two of them.
	ErrTooFewPartitions = errors.New("graph needs at least two partitions")

	// ErrEmptyPartition is returned by [New] when a partition size is below one.
	ErrEmptyPartition = errors.New("partition sizes must be at least 1")
)

const wordBits = 64

// Graph is a k-partite graph with bit-packed adjacency.
//
// Nodes are addressed as (partition, index) pairs, both zero-based. Edges
// always span two distinct partitions and are stored symmetrically: for each
// ordered partition pair (i, j) every node of partition i owns a bit row of
// length |partition j|, and adding an edge sets the bit in both directions.
// Edge existence is therefore a single bit test regardless of degree.
type Graph struct {
	sizes []int

	// partitionEdges[i] counts edges between partition i and all partitions
	// above it. Edge IDs are derived from these counts, so they are kept
	// per lower partition rather than per pair.
	partitionEdges []int

	// numNeighbors[i][j][n] is the degree of node n of partition i towards
	// partition j. numNeighbors[i][i] is nil.
	numNeighbors [][][]int

	// rows[i][j][n] is the adjacency bit row of node n of partition i
	// towards partition j. rows[i][i] is nil.
	rows [][][][]uint64
}

// New creates an empty k-partite graph with the given partition sizes.
func New(sizes ...int) (*Graph, error) {
	if len(sizes) < 2 {
		return nil, ErrTooFewPartitions
	}
	for _, s := range sizes {
		if s < 1 {
			return nil, ErrEmptyPartition
		}
	}

	k := len(sizes)
	g := &Graph{
		sizes:          append([]int(nil), sizes...),
		partitionEdges: make([]int, k),
		numNeighbors:   make([][][]int, k),
		rows:           make([][][][]uint64, k),
	}

	for i := 0; i < k; i++ {
		g.numNeighbors[i] = make([][]int, k)
		g.rows[i] = make([][][]uint64, k)
		for j := 0; j < k; j++ {
			if i == j {
				continue
			}
			g.numNeighbors[i][j] = make([]int, sizes[i])
			words := (sizes[j] + wordBits - 1) / wordBits
			rows := make([][]uint64, sizes[i])
			for n := range rows {
				rows[n] = make([]uint64, words)
			}
			g.rows[i][j] = rows
		}
	}

	return g, nil
}

// Partitions returns the number of partitions, k.
func (g *Graph) Partitions() int { return len(g.sizes) }

// PartitionSizes returns the node count of every partition. The returned
// slice is shared with the graph and must not be modified.
func (g *Graph) PartitionSizes() []int { return g.sizes }

// PartitionEdges returns the number of edges between partition p and all
// partitions with a higher index.
func (g *Graph) PartitionEdges(p int) int { return g.partitionEdges[p] }

// IsEdge reports whether an edge connects node n1 of partition p1 with node
// n2 of partition p2.
func (g *Graph) IsEdge(p1, n1, p2, n2 int) bool {
	return g.rows[p1][p2][n1][n2/wordBits]>>(uint(n2)%wordBits)&1 == 1
}

// NumNeighbors returns the degree of node n1 of partition p1 towards
// partition p2.
func (g *Graph) NumNeighbors(p1, n1, p2 int) int {
	return g.numNeighbors[p1][p2][n1]
}

// Neighbors returns the nodes of partition p2 adjacent to node n1 of
// partition p1, in ascending order.
func (g *Graph) Neighbors(p1, n1, p2 int) []int {
	count := g.numNeighbors[p1][p2][n1]
	if count == 0 {
		return nil
	}

	neighbors := make([]int, 0, count)
	for w, word := range g.rows[p1][p2][n1] {
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			neighbors = append(neighbors, w*wordBits+bit)
			word &= word - 1
		}
	}
	return neighbors
}

// CommonNeighborCount returns the size of the intersection of the
// neighbourhoods (towards partition p2) of the given partition-p1 nodes.
// With a single node it degenerates to that node's degree.
func (g *Graph) CommonNeighborCount(p1, p2 int, nodes ...int) int {
	if len(nodes) == 0 {
		return 0
	}

	words := len(g.rows[p1][p2][nodes[0]])
	count := 0
	for w := 0; w < words; w++ {
		word := g.rows[p1][p2][nodes[0]][w]
		for _, n := range nodes[1:] {
			word &= g.rows[p1][p2][n][w]
		}
		count += bits.OnesCount64(word)
	}
	return count
}

// EdgeID returns the 1-based identifier of an edge, or 0 when the edge is
// absent. IDs order the present edges lexicographically by (lower partition,
// its node, higher partition, its node), so they stay stable as long as no
// edge between lower partitions is added or removed afterwards.
func (g *Graph) EdgeID(p1, n1, p2, n2 int) int {
	if p1 > p2 {
		return g.EdgeID(p2, n2, p1, n1)
	}
	if !g.IsEdge(p1, n1, p2, n2) {
		return 0
	}

	// All edges rooted at lower partitions come first.
	id := 0
	for i := 0; i < p1; i++ {
		id += g.partitionEdges[i]
	}

	// Then the edges of lower nodes within p1, towards every higher partition.
	for n := 0; n < n1; n++ {
		for p := p1 + 1; p < len(g.sizes); p++ {
			id += g.numNeighbors[p1][p][n]
		}
	}

	// Finally the edges of n1 itself that sort below n2.
	for w := 0; w <= n2/wordBits; w++ {
		word := g.rows[p1][p2][n1][w]
		if w == n2/wordBits {
			word &= 1<<(uint(n2)%wordBits) - 1
		}
		id += bits.OnesCount64(word)
	}

	return id + 1
}

// AddEdge inserts the edge between (p1, n1) and (p2, n2) in both directions.
// Adding an existing edge is a no-op.
func (g *Graph) AddEdge(p1, n1, p2, n2 int) {
	if g.IsEdge(p1, n1, p2, n2) {
		return
	}

	g.numNeighbors[p1][p2][n1]++
	g.numNeighbors[p2][p1][n2]++
	g.partitionEdges[min(p1, p2)]++

	g.rows[p1][p2][n1][n2/wordBits] |= 1 << (uint(n2) % wordBits)
	g.rows[p2][p1][n2][n1/wordBits] |= 1 << (uint(n1) % wordBits)
}

// RemoveEdge deletes the edge between (p1, n1) and (p2, n2) from both
// directions. Removing an absent edge is a no-op.
func (g *Graph) RemoveEdge(p1, n1, p2, n2 int) {
	if !g.IsEdge(p1, n1, p2, n2) {
		return
	}

	g.numNeighbors[p1][p2][n1]--
	g.numNeighbors[p2][p1][n2]--
	g.partitionEdges[min(p1, p2)]--

	g.rows[p1][p2][n1][n2/wordBits] &^= 1 << (uint(n2) % wordBits)
	g.rows[p2][p1][n2][n1/wordBits] &^= 1 << (uint(n1) % wordBits)
}

// FullyConnectNode connects node n1 of partition p1 to every node of
// partition p2.
func (g *Graph) FullyConnectNode(p1, n1, p2 int) {
	for n2 := 0; n2 < g.sizes[p2]; n2++ {
		g.AddEdge(p1, n1, p2, n2)
	}
}

// FullyConnectPartition connects every node of partition p1 to every node of
// partition p2.
func (g *Graph) FullyConnectPartition(p1, p2 int) {
	for n1 := 0; n1 < g.sizes[p1]; n1++ {
		g.FullyConnectNode(p1, n1, p2)
	}
}
