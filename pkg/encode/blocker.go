package encode

import (
	"math/rand"

	"github.com/hardcnf/bipartgen/pkg/matching"
)

// runBlocking walks every enumerated matching set and decides which
// orderings to block. With cw == nil it only counts; with a writer it emits
// the blocking clauses. Both passes share this one traversal, with the
// random generator re-seeded and the edge matrices re-zeroed on entry, so
// the clause count in the header always matches what gets written.
//
// Sets are visited through the buckets rooted at partition-0 nodes, which
// covers each set exactly once: every set of left nodes has a least element.
func (e *Encoder) runBlocking(cw *clauseWriter) int {
	sizes := e.g.PartitionSizes()

	var rng *rand.Rand
	if e.opts.Policy == PolicyProb && !e.opts.AvoidOverlap {
		rng = rand.New(rand.NewSource(e.opts.Seed))
	}

	var blockedEdges, witnessEdges [][]int
	if e.opts.AvoidOverlap {
		blockedEdges = newMatrix(sizes[0], sizes[1])
		witnessEdges = newMatrix(sizes[0], sizes[1])
	}

	blocked := 0
	for i := 0; i < sizes[0]; i++ {
		if e.store.Count(0, i, 1) == 0 {
			continue
		}
		m := e.store.First(0, i, 1)
		for m != nil {
			switch {
			case e.opts.AvoidOverlap:
				m = e.blockAvoiding(cw, m, blockedEdges, witnessEdges, &blocked)
			case e.opts.Policy == PolicyProb:
				m = e.blockProbabilistic(cw, m, rng, &blocked)
			default:
				m = e.blockAll(cw, m, &blocked)
			}
		}
	}
	return blocked
}

// blockAll blocks every ordering of the current set except the first and
// leaves the cursor on the next set.
func (e *Encoder) blockAll(cw *clauseWriter, m *matching.Cursor, blocked *int) *matching.Cursor {
	numSimilar := m.NumSimilar()
	if cw == nil {
		*blocked += numSimilar - 1
		return m.NextSet()
	}

	left := m.LeftNodes()
	right := m.RightNodes()
	for n := 0; n < numSimilar-1; n++ {
		m = m.NextOrdering()
		e.blockingClause(cw, left, right, m.OrderedRightNodes())
		*blocked++
	}
	return m.NextOrdering()
}

// blockProbabilistic draws once per non-first ordering of the current set
// and blocks on success. The counting pass consumes the identical number of
// draws without touching the cursor, keeping the random stream aligned.
func (e *Encoder) blockProbabilistic(cw *clauseWriter, m *matching.Cursor, rng *rand.Rand, blocked *int) *matching.Cursor {
	numSimilar := m.NumSimilar()
	if cw == nil {
		for n := 0; n < numSimilar-1; n++ {
			if rng.Intn(1000) < e.opts.ProbMille {
				*blocked++
			}
		}
		return m.NextSet()
	}

	left := m.LeftNodes()
	right := m.RightNodes()
	for n := 0; n < numSimilar-1; n++ {
		m = m.NextOrdering()
		if rng.Intn(1000) < e.opts.ProbMille {
			e.blockingClause(cw, left, right, m.OrderedRightNodes())
			*blocked++
		}
	}
	return m.NextOrdering()
}

// blockAvoiding searches the current set for a witness ordering whose edges
// were never blocked before. If one exists it is spared and marked in
// witnessEdges; the remaining orderings are then blocked unless they share an
// edge with any recorded witness. Sets without a witness are left alone.
func (e *Encoder) blockAvoiding(cw *clauseWriter, m *matching.Cursor, blockedEdges, witnessEdges [][]int, blocked *int) *matching.Cursor {
	numSimilar := m.NumSimilar()
	size := m.Size()
	left := m.LeftNodes()
	right := m.RightNodes()

	witnessIdx := 0
	found := false
	mi := 0
	for ; mi < numSimilar; mi++ {
		ord := m.OrderedRightNodes()
		candidate := true
		for n := 0; n < size; n++ {
			if blockedEdges[left[n]][right[ord[n]]] > 0 {
				candidate = false
				break
			}
		}
		if candidate {
			found = true
			witnessIdx = mi
			for n := 0; n < size; n++ {
				witnessEdges[left[n]][right[ord[n]]]++
			}
			break
		}
		m = m.NextOrdering()
	}
	if !found {
		// Cursor already advanced past the set.
		return m
	}

	for ; mi > 0; mi-- {
		m = m.PrevOrdering()
	}

	for mi = 0; mi < numSimilar; mi++ {
		if mi == witnessIdx {
			m = m.NextOrdering()
			continue
		}
		ord := m.OrderedRightNodes()
		blockable := true
		for n := 0; n < size; n++ {
			if witnessEdges[left[n]][right[ord[n]]] > 0 {
				blockable = false
				break
			}
		}
		if blockable {
			*blocked++
			for n := 0; n < size; n++ {
				blockedEdges[left[n]][right[ord[n]]]++
			}
			if cw != nil {
				e.blockingClause(cw, left, right, ord)
			}
		}
		m = m.NextOrdering()
	}
	return m
}

// blockingClause writes the negation of one matching: no assignment may set
// all of its edge variables at once.
func (e *Encoder) blockingClause(cw *clauseWriter, left, right, ord []int) {
	for n := range left {
		cw.printf("-%d ", VariableID(e.g, 0, left[n], 1, right[ord[n]]))
	}
	cw.printf("0\n")
}

func newMatrix(rows, cols int) [][]int {
	m := make([][]int, rows)
	for i := range m {
		m[i] = make([]int, cols)
	}
	return m
}
