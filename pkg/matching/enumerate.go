package matching

import (
	"math"
	"slices"

	"github.com/hardcnf/bipartgen/pkg/bitgraph"
)

// Enumerator walks every partition pair of a graph and records, for each pair
// of equal-sized node subsets, the perfect matchings of the induced subgraph.
// The recursion buffers live on the Enumerator, so independent instances may
// run concurrently on different graphs.
type Enumerator struct {
	g     *bitgraph.Graph
	store *Store

	size   int
	p1, p2 int
	left   []int
	right  []int
	perm   []int
}

// Enumerate populates a fresh store with all matching sets of sizes
// 2..maxSize, then drops every set holding a single ordering: such sets carry
// no blocking opportunity, since blocking their only matching would remove
// the witness. maxSize must be at least 2.
func Enumerate(g *bitgraph.Graph, maxSize int) *Store {
	e := &Enumerator{g: g, store: NewStore()}

	for size := 2; size <= maxSize; size++ {
		e.size = size
		e.left = make([]int, size)
		e.right = make([]int, size)
		e.perm = make([]int, size)

		for p1 := 0; p1 < g.Partitions(); p1++ {
			for p2 := p1 + 1; p2 < g.Partitions(); p2++ {
				e.p1, e.p2 = p1, p2
				e.enumeratePair()
			}
		}
	}

	e.store.prune()
	return e.store
}

// enumeratePair runs the subset loops for the current size and partition
// pair: every ascending size-subset of the left partition, pruned by shared
// neighbourhood, against every ascending size-subset of the right one.
func (e *Enumerator) enumeratePair() {
	p1Size := e.g.PartitionSizes()[e.p1]
	p2Size := e.g.PartitionSizes()[e.p2]
	if p1Size < e.size || p2Size < e.size {
		return
	}

	initSubset(e.left)
	for {
		if e.admissible() {
			initSubset(e.right)
			for {
				initSubset(e.perm)
				e.permute(0)
				if !nextSubset(e.right, p2Size) {
					break
				}
			}
		}
		if !nextSubset(e.left, p1Size) {
			break
		}
	}
}

// admissible applies the shared-neighbourhood pruning on the left subset.
// Size 2 needs two common neighbours for a K2,2 to exist; size 3 needs
// either three common neighbours or a pairwise intersection everywhere,
// otherwise no C6 can close.
func (e *Enumerator) admissible() bool {
	switch e.size {
	case 2:
		return e.g.CommonNeighborCount(e.p1, e.p2, e.left...) >= 2
	case 3:
		if e.g.CommonNeighborCount(e.p1, e.p2, e.left...) >= 3 {
			return true
		}
		return e.pairwiseCommonMin() >= 1
	default:
		return true
	}
}

func (e *Enumerator) pairwiseCommonMin() int {
	minCommon := math.MaxInt
	for i := 0; i < e.size; i++ {
		for j := i + 1; j < e.size; j++ {
			c := e.g.CommonNeighborCount(e.p1, e.p2, e.left[i], e.left[j])
			if c < minCommon {
				minCommon = c
			}
		}
	}
	return minCommon
}

// permute searches right-hand orderings depth first. At depth d the candidate
// edge (left[d], right[perm[d]]) must exist, and the fixed prefix must not
// share a coordinate with any ordering already stored for this (L, R): the
// early cut is sound because a shared coordinate can never disappear deeper
// in the recursion.
func (e *Enumerator) permute(d int) {
	if d == e.size-1 {
		if e.g.IsEdge(e.p1, e.left[d], e.p2, e.right[e.perm[d]]) {
			e.record()
		}
		return
	}

	for i := d; i < e.size; i++ {
		e.perm[d], e.perm[i] = e.perm[i], e.perm[d]
		if e.g.IsEdge(e.p1, e.left[d], e.p2, e.right[e.perm[d]]) && !e.prefixCollides(d) {
			e.permute(d + 1)
		}
		e.perm[d], e.perm[i] = e.perm[i], e.perm[d]
	}
}

// tailSet returns the most recently appended set of the current bucket when
// it covers the same (L, R); enumeration order guarantees any set with this
// subset pair can only sit at the tail.
func (e *Enumerator) tailSet() *Set {
	b := e.store.bucketFor(e.p1, e.left[0], e.p2)
	if b == nil || b.tail == nil {
		return nil
	}
	t := b.tail
	if t.size != e.size || !slices.Equal(t.left, e.left) || !slices.Equal(t.right, e.right) {
		return nil
	}
	return t
}

// prefixCollides reports whether perm[0..d] (extended to the forced last
// element when d is the penultimate depth) shares a coordinate with a stored
// ordering of the same (L, R).
func (e *Enumerator) prefixCollides(d int) bool {
	t := e.tailSet()
	if t == nil {
		return false
	}

	end := d
	if d == e.size-2 {
		end = e.size - 1
	}
	for o := t.ohead; o != nil; o = o.next {
		for i := 0; i <= end; i++ {
			if o.perm[i] == e.perm[i] {
				return true
			}
		}
	}
	return false
}

// record stores the completed permutation, de-duplicating against every
// ordering already held for this (L, R): a candidate sharing even one edge
// with a stored matching is discarded, which keeps each set an antichain in
// the share-a-coordinate relation.
func (e *Enumerator) record() {
	if t := e.tailSet(); t != nil {
		for o := t.ohead; o != nil; o = o.next {
			for i := 0; i < e.size; i++ {
				if o.perm[i] == e.perm[i] {
					return
				}
			}
		}
		t.appendOrdering(e.perm)
		return
	}

	b := e.store.bucketOrCreate(e.p1, e.left[0], e.p2)
	b.appendSet(e.left, e.right, e.perm)
}

// prune removes every set left with a single ordering.
func (s *Store) prune() {
	for _, b := range s.buckets {
		for set := b.head; set != nil; {
			next := set.next
			if set.numOrderings == 1 {
				set.removeOrdering(set.ohead)
			}
			set = next
		}
	}
}

// initSubset fills s with the identity prefix 0..len(s)-1, the first
// ascending subset in lexicographic order.
func initSubset(s []int) {
	for i := range s {
		s[i] = i
	}
}

// nextSubset advances s to the lexicographically next strictly ascending
// subset of 0..n-1, returning false once the last subset has been visited.
func nextSubset(s []int, n int) bool {
	i := len(s) - 1
	for i >= 0 && s[i] == n-len(s)+i {
		i--
	}
	if i < 0 {
		return false
	}
	s[i]++
	for j := i + 1; j < len(s); j++ {
		s[j] = s[j-1] + 1
	}
	return true
}
