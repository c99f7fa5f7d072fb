// Package matching enumerates and stores perfect matchings on bounded-size
// induced subgraphs of a bipartite partition pair.
//
// For a pair of node subsets L and R of equal size, a [Set] records every
// right-hand ordering pi for which L[i] <-> R[pi(i)] is a perfect matching of
// the induced subgraph, subject to the de-duplication contract: no two stored
// orderings of the same set agree at any coordinate. Sets are grouped into
// buckets rooted at (p1, p2, L[0]) and traversed through a [Cursor].
package matching

// ordering is one right-hand permutation of a set, linked in insertion order.
type ordering struct {
	perm []int
	prev *ordering
	next *ordering
}

// Set holds all recorded matchings on one (L, R) pair of node subsets.
// Both Left and Right are strictly ascending; orderings are kept as a
// doubly-linked list in the order the enumerator found them.
type Set struct {
	size         int
	left         []int
	right        []int
	numOrderings int
	ohead        *ordering
	otail        *ordering

	prev   *Set
	next   *Set
	bucket *bucket
}

// bucket is the doubly-linked list of sets rooted at one (p1, p2, root) key.
// count tracks the total number of orderings across all sets in the bucket.
type bucket struct {
	count int
	head  *Set
	tail  *Set
}

type bucketKey struct {
	p1, p2, root int
}

// Store indexes matching sets by (lower partition, higher partition, smallest
// left node).
type Store struct {
	buckets map[bucketKey]*bucket
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{buckets: make(map[bucketKey]*bucket)}
}

func (s *Store) bucketFor(p1, n1, p2 int) *bucket {
	return s.buckets[bucketKey{p1, p2, n1}]
}

func (s *Store) bucketOrCreate(p1, n1, p2 int) *bucket {
	key := bucketKey{p1, p2, n1}
	b := s.buckets[key]
	if b == nil {
		b = &bucket{}
		s.buckets[key] = b
	}
	return b
}

// Count returns the total number of orderings recorded under the
// (p1, p2, n1) root, across all set sizes.
func (s *Store) Count(p1, n1, p2 int) int {
	b := s.bucketFor(p1, n1, p2)
	if b == nil {
		return 0
	}
	return b.count
}

// Cursor points at one ordering of one set during traversal. A zero Cursor
// is invalid; obtain one from [Store.First].
type Cursor struct {
	set *Set
	ord *ordering
}

// First returns a cursor on the first ordering of the first set rooted at
// (p1, p2, n1), or nil when no set is recorded there.
func (s *Store) First(p1, n1, p2 int) *Cursor {
	b := s.bucketFor(p1, n1, p2)
	if b == nil || b.head == nil {
		return nil
	}
	return &Cursor{set: b.head, ord: b.head.ohead}
}

// NextOrdering advances to the next ordering of the current set, stepping to
// the first ordering of the next set once the current one is exhausted.
// Returns nil at the end of the bucket.
func (c *Cursor) NextOrdering() *Cursor {
	if c.ord.next != nil {
		c.ord = c.ord.next
		return c
	}
	if c.set.next != nil {
		c.set = c.set.next
		c.ord = c.set.ohead
		return c
	}
	return nil
}

// PrevOrdering is the reverse of [Cursor.NextOrdering]: it steps back within
// the current set, falling onto the last ordering of the previous set.
func (c *Cursor) PrevOrdering() *Cursor {
	if c.ord.prev != nil {
		c.ord = c.ord.prev
		return c
	}
	if c.set.prev != nil {
		c.set = c.set.prev
		c.ord = c.set.otail
		return c
	}
	return nil
}

// NextSet skips to the first ordering of the next set without visiting the
// remaining orderings of the current one. Returns nil at the end.
func (c *Cursor) NextSet() *Cursor {
	if c.set.next == nil {
		return nil
	}
	c.set = c.set.next
	c.ord = c.set.ohead
	return c
}

// PrevSet skips to the first ordering of the previous set.
func (c *Cursor) PrevSet() *Cursor {
	if c.set.prev == nil {
		return nil
	}
	c.set = c.set.prev
	c.ord = c.set.ohead
	return c
}

// Size returns the number of node pairs in the current set's matchings.
func (c *Cursor) Size() int { return c.set.size }

// NumSimilar returns the number of orderings stored in the current set.
func (c *Cursor) NumSimilar() int { return c.set.numOrderings }

// LeftNodes returns the ascending left node subset of the current set.
// The slice is shared with the store and must not be modified.
func (c *Cursor) LeftNodes() []int { return c.set.left }

// RightNodes returns the ascending right node subset of the current set.
func (c *Cursor) RightNodes() []int { return c.set.right }

// OrderedRightNodes returns the permutation of the current ordering: the
// matching pairs LeftNodes()[i] <-> RightNodes()[OrderedRightNodes()[i]].
func (c *Cursor) OrderedRightNodes() []int { return c.ord.perm }

// Remove deletes the current ordering. When it was the set's only remaining
// ordering, the whole set is spliced out of its bucket. Remove returns the
// cursor on the next valid ordering, or nil when none is left.
func (c *Cursor) Remove() *Cursor {
	set, ord := c.set, c.ord
	next := c.NextOrdering()
	set.removeOrdering(ord)
	return next
}

// removeOrdering unlinks ord from the set, dropping the set itself once it
// holds no orderings, and keeps the bucket ordering count in sync.
func (set *Set) removeOrdering(ord *ordering) {
	b := set.bucket

	if set.numOrderings > 1 {
		if ord.prev != nil {
			ord.prev.next = ord.next
		} else {
			set.ohead = ord.next
		}
		if ord.next != nil {
			ord.next.prev = ord.prev
		} else {
			set.otail = ord.prev
		}
		set.numOrderings--
	} else {
		if set.prev != nil {
			set.prev.next = set.next
		} else {
			b.head = set.next
		}
		if set.next != nil {
			set.next.prev = set.prev
		} else {
			b.tail = set.prev
		}
	}

	b.count--
}

// appendOrdering adds a permutation to the tail of the set's ordering list.
func (set *Set) appendOrdering(perm []int) {
	o := &ordering{perm: append([]int(nil), perm...), prev: set.otail}
	if set.otail != nil {
		set.otail.next = o
	} else {
		set.ohead = o
	}
	set.otail = o
	set.numOrderings++
	set.bucket.count++
}

// appendSet creates a new set on (left, right) seeded with one ordering and
// links it at the bucket tail.
func (b *bucket) appendSet(left, right, perm []int) *Set {
	set := &Set{
		size:   len(left),
		left:   append([]int(nil), left...),
		right:  append([]int(nil), right...),
		bucket: b,
		prev:   b.tail,
	}
	if b.tail != nil {
		b.tail.next = set
	} else {
		b.head = set
	}
	b.tail = set
	set.appendOrdering(perm)
	return set
}
