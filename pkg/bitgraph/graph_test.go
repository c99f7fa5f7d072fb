package bitgraph

import (
	"errors"
	"slices"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	if _, err := New(3); !errors.Is(err, ErrTooFewPartitions) {
		t.Errorf("expected ErrTooFewPartitions, got %v", err)
	}
	if _, err := New(3, 0); !errors.Is(err, ErrEmptyPartition) {
		t.Errorf("expected ErrEmptyPartition, got %v", err)
	}
	if _, err := New(3, 4); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAddEdge_Symmetric(t *testing.T) {
	g, err := New(3, 4)
	if err != nil {
		t.Fatal(err)
	}

	g.AddEdge(0, 1, 1, 2)
	if !g.IsEdge(0, 1, 1, 2) {
		t.Error("edge not present after AddEdge")
	}
	if !g.IsEdge(1, 2, 0, 1) {
		t.Error("edge not symmetric")
	}
	if got := g.NumNeighbors(0, 1, 1); got != 1 {
		t.Errorf("NumNeighbors(0,1,1) = %d, want 1", got)
	}
	if got := g.NumNeighbors(1, 2, 0); got != 1 {
		t.Errorf("NumNeighbors(1,2,0) = %d, want 1", got)
	}
	if got := g.PartitionEdges(0); got != 1 {
		t.Errorf("PartitionEdges(0) = %d, want 1", got)
	}

	// Adding twice changes nothing.
	g.AddEdge(0, 1, 1, 2)
	if got := g.PartitionEdges(0); got != 1 {
		t.Errorf("PartitionEdges(0) after duplicate add = %d, want 1", got)
	}
}

func TestRemoveEdge(t *testing.T) {
	g, _ := New(3, 3)
	g.AddEdge(0, 0, 1, 0)
	g.AddEdge(0, 0, 1, 1)

	g.RemoveEdge(0, 0, 1, 0)
	if g.IsEdge(0, 0, 1, 0) {
		t.Error("edge still present after RemoveEdge")
	}
	if g.IsEdge(1, 0, 0, 0) {
		t.Error("reverse edge still present after RemoveEdge")
	}
	if got := g.NumNeighbors(0, 0, 1); got != 1 {
		t.Errorf("NumNeighbors(0,0,1) = %d, want 1", got)
	}

	// Removing an absent edge changes nothing.
	g.RemoveEdge(0, 2, 1, 2)
	if got := g.PartitionEdges(0); got != 1 {
		t.Errorf("PartitionEdges(0) = %d, want 1", got)
	}
}

func TestNeighbors_Ascending(t *testing.T) {
	g, _ := New(2, 70)
	for _, j := range []int{65, 3, 0, 68, 12} {
		g.AddEdge(0, 0, 1, j)
	}

	got := g.Neighbors(0, 0, 1)
	want := []int{0, 3, 12, 65, 68}
	if !slices.Equal(got, want) {
		t.Errorf("Neighbors = %v, want %v", got, want)
	}
}

func TestCommonNeighborCount(t *testing.T) {
	g, _ := New(3, 4)
	g.AddEdge(0, 0, 1, 0)
	g.AddEdge(0, 0, 1, 1)
	g.AddEdge(0, 1, 1, 1)
	g.AddEdge(0, 1, 1, 2)
	g.AddEdge(0, 2, 1, 1)

	tests := []struct {
		nodes []int
		want  int
	}{
		{[]int{0, 1}, 1},
		{[]int{0, 2}, 1},
		{[]int{0, 1, 2}, 1},
		{[]int{1, 2}, 1},
	}
	for _, tt := range tests {
		if got := g.CommonNeighborCount(0, 1, tt.nodes...); got != tt.want {
			t.Errorf("CommonNeighborCount(%v) = %d, want %d", tt.nodes, got, tt.want)
		}
	}
}

func TestFullyConnect(t *testing.T) {
	g, _ := New(4, 3)
	g.FullyConnectPartition(0, 1)

	for i := 0; i < 4; i++ {
		if got := g.NumNeighbors(0, i, 1); got != 3 {
			t.Errorf("NumNeighbors(0,%d,1) = %d, want 3", i, got)
		}
	}
	if got := g.PartitionEdges(0); got != 12 {
		t.Errorf("PartitionEdges(0) = %d, want 12", got)
	}
}

// EdgeID ranks present edges within the partition pair, so inserting edges
// before an existing one shifts its ID.
func TestEdgeID_RankAmongPresentEdges(t *testing.T) {
	g, _ := New(5, 5)
	for i := 0; i < 5; i++ {
		g.AddEdge(0, i, 1, i)
	}

	for i := 0; i < 5; i++ {
		if got := g.EdgeID(0, i, 1, i); got != i+1 {
			t.Errorf("EdgeID(0,%d,1,%d) = %d, want %d", i, i, got, i+1)
		}
	}

	g.FullyConnectNode(0, 0, 1)
	// Node 0 now owns IDs 1..5; later diagonal edges shift up by 4.
	for j := 0; j < 5; j++ {
		if got := g.EdgeID(0, 0, 1, j); got != j+1 {
			t.Errorf("EdgeID(0,0,1,%d) = %d, want %d", j, got, j+1)
		}
	}
	for i := 1; i < 5; i++ {
		if got := g.EdgeID(0, i, 1, i); got != i+5 {
			t.Errorf("EdgeID(0,%d,1,%d) = %d, want %d", i, i, got, i+5)
		}
	}

	if got := g.EdgeID(0, 1, 1, 3); got != 0 {
		t.Errorf("EdgeID for absent edge = %d, want 0", got)
	}

	// Symmetric lookup resolves to the same ID.
	if a, b := g.EdgeID(0, 2, 1, 2), g.EdgeID(1, 2, 0, 2); a != b {
		t.Errorf("EdgeID not symmetric: %d vs %d", a, b)
	}
}
