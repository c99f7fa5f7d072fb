// Package encode turns a bipartite graph into a DIMACS CNF formula asserting
// the existence of a perfect matching.
//
// Edge variables are numbered 1..s0*s1 by lexicographic position over all
// possible edges (absent edges keep their slot but never appear in a clause);
// auxiliary variables introduced by the linear and Sinz at-most-one encodings
// follow, allocated in emission order. The encoder runs two passes over the
// same traversal: a sizing pass that computes the header counts and a writing
// pass that emits the clauses. Both passes must agree, and any random choice
// made during sizing is recorded and replayed rather than redrawn.
package encode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/hardcnf/bipartgen/pkg/bitgraph"
	"github.com/hardcnf/bipartgen/pkg/matching"
)

// Encoding selects the at-most-one translation.
type Encoding string

const (
	// EncodingDirect emits all pairwise exclusion clauses.
	EncodingDirect Encoding = "direct"
	// EncodingLinear emits the ladder encoding: direct blocks of four
	// variables chained through fresh commander variables.
	EncodingLinear Encoding = "linear"
	// EncodingSinz emits the sequential-counter encoding with one signal
	// variable per position.
	EncodingSinz Encoding = "sinz"
	// EncodingMixed draws one of the three encodings per node.
	EncodingMixed Encoding = "mixed"
)

// ErrUnknownEncoding is returned by [ParseEncoding] for unrecognized names.
var ErrUnknownEncoding = errors.New("unknown encoding")

// ParseEncoding maps a user-supplied encoding name to an [Encoding].
func ParseEncoding(name string) (Encoding, error) {
	switch Encoding(name) {
	case EncodingDirect, EncodingLinear, EncodingSinz, EncodingMixed:
		return Encoding(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
}

// Policy selects how redundant perfect matchings are blocked.
type Policy int

const (
	// PolicyAll blocks every ordering of every matching set except the first.
	PolicyAll Policy = iota
	// PolicyProb blocks each candidate ordering with a fixed probability.
	PolicyProb
	// PolicyCount is accepted for compatibility but blocks like [PolicyAll];
	// a per-node count bound never made it past the drawing board.
	PolicyCount
)

// Options configures a CNF encoding run.
type Options struct {
	Encoding Encoding

	// ALO and AMO list the partitions receiving at-least-one and at-most-one
	// constraints, in emission order.
	ALO []int
	AMO []int

	// Seed feeds every random draw: the mixed-encoding choice and the
	// probabilistic blocking policy. Equal seeds give byte-identical output.
	Seed int64

	// RandomGraph marks the graph as a random bipartite instance, which
	// switches the Sinz two-neighbour case to the two-clause form so the
	// signal-variable pattern survives for downstream BDD analysis.
	RandomGraph bool

	// BlockSize enables matching enumeration and blocking clauses for
	// matchings of size 2..BlockSize. Values below 2 disable blocking.
	BlockSize int

	Policy Policy

	// ProbMille is the blocking probability for [PolicyProb] in thousandths.
	ProbMille int

	// AvoidOverlap switches blocking to the overlap-avoiding policy: one
	// witness matching per set keeps its edges unblockable.
	AvoidOverlap bool

	// VarOrder and BucketOrder request the variable-order side files used by
	// BDD-based solvers; they also turn on auxiliary-variable tracking.
	// At most one of the two may be set.
	VarOrder    bool
	BucketOrder bool
}

func (o *Options) trackAux() bool { return o.VarOrder || o.BucketOrder }

// Encoder writes the CNF translation of one graph. An Encoder is single-use:
// create it, optionally attach the order-file writer, call [Encoder.WriteCNF],
// then the order-file methods.
type Encoder struct {
	g    *bitgraph.Graph
	opts Options

	store *matching.Store

	// auxMap maps an edge variable to the auxiliary variable introduced
	// right after it, for the order side-files. Indexed 1..s0*s1.
	auxMap []int

	// mixed records the per-node encoding drawn during sizing, replayed in
	// emission order by the writing pass.
	mixed []Encoding

	nvars    int
	nclauses int
	blocked  int
	sized    bool

	// varOrderW receives interleaved edge and signal IDs while Sinz clauses
	// are written in bucket-order mode.
	varOrderW io.Writer
}

// New creates an encoder for g.
func New(g *bitgraph.Graph, opts Options) *Encoder {
	return &Encoder{g: g, opts: opts}
}

// SetVarOrderWriter attaches the destination for the variable-order file.
// Must be called before [Encoder.WriteCNF] when bucket ordering is on,
// because the Sinz encoder streams IDs into it while emitting clauses.
func (e *Encoder) SetVarOrderWriter(w io.Writer) { e.varOrderW = w }

// NumVars returns the header variable count. Valid after [Encoder.WriteCNF].
func (e *Encoder) NumVars() int { return e.nvars }

// NumClauses returns the header clause count. Valid after [Encoder.WriteCNF].
func (e *Encoder) NumClauses() int { return e.nclauses }

// BlockedCount returns how many blocking clauses were emitted.
func (e *Encoder) BlockedCount() int { return e.blocked }

// VariableID returns the CNF variable of the possible edge between
// (p1, n1) and (p2, n2). Every slot in the s0 x s1 grid owns a variable
// whether or not the edge is present.
func VariableID(g *bitgraph.Graph, p1, n1, p2, n2 int) int {
	if p1 > p2 {
		p1, n1, p2, n2 = p2, n2, p1, n1
	}
	return 1 + n2 + g.PartitionSizes()[p2]*n1
}

// DefaultPartitions returns the default constraint placement: at-least-one on
// the larger partition, at-most-one on the smaller, both falling back to
// partition 0 on a tie.
func DefaultPartitions(g *bitgraph.Graph) (alo, amo int) {
	sizes := g.PartitionSizes()
	amo = 0
	if sizes[0] > sizes[1] {
		amo = 1
	}
	alo = 1
	if sizes[0] >= sizes[1] {
		alo = 0
	}
	return alo, amo
}

// opposite returns the other side of the bipartite pair.
func opposite(p int) int {
	if p == 0 {
		return 1
	}
	return 0
}

// WriteCNF sizes the formula, writes the DIMACS header and emits every
// clause: at-least-one constraints first, then at-most-one, then the
// blocking section.
func (e *Encoder) WriteCNF(w io.Writer) error {
	e.size()

	bw := bufio.NewWriter(w)
	cw := &clauseWriter{w: bw}

	cw.printf("p cnf %d %d\n", e.nvars, e.nclauses)
	e.writeALO(cw)
	e.writeAMO(cw)
	cw.printf("c Below are the blocked clauses from perfect matchings\n")
	if e.opts.BlockSize >= 2 {
		e.runBlocking(cw)
	}

	if cw.err != nil {
		return cw.err
	}
	return bw.Flush()
}

// size computes the header counts without emitting. Mixed-encoding draws are
// recorded here; blocking decisions are made with the same logic the writing
// pass uses, so the two passes cannot drift apart.
func (e *Encoder) size() {
	if e.sized {
		return
	}
	e.sized = true

	sizes := e.g.PartitionSizes()
	e.nvars = sizes[0] * sizes[1]
	if e.opts.trackAux() {
		e.auxMap = make([]int, e.nvars+1)
	}

	rng := rand.New(rand.NewSource(e.opts.Seed))

	for _, p1 := range e.opts.ALO {
		p2 := opposite(p1)
		for i := 0; i < sizes[p1]; i++ {
			if e.g.NumNeighbors(p1, i, p2) > 0 {
				e.nclauses++
			}
		}
	}

	for _, p1 := range e.opts.AMO {
		p2 := opposite(p1)
		for i := 0; i < sizes[p1]; i++ {
			k := e.g.NumNeighbors(p1, i, p2)
			if k < 2 {
				continue
			}

			enc := e.opts.Encoding
			if enc == EncodingMixed {
				enc = drawEncoding(rng)
				e.mixed = append(e.mixed, enc)
			}

			switch enc {
			case EncodingDirect:
				e.nclauses += k * (k - 1) / 2
			case EncodingSinz:
				if k > 2 {
					e.nvars += k - 1
					e.nclauses += 3*(k-2) + 2
				} else {
					e.nclauses++
					if e.opts.RandomGraph {
						e.nclauses++
						e.nvars++
					}
				}
			case EncodingLinear:
				if k == 2 {
					e.nclauses++
				} else {
					e.nclauses += 3*k - 6
					e.nvars += (k - 3) / 2
				}
			}
		}
	}

	if e.opts.BlockSize >= 2 {
		e.store = matching.Enumerate(e.g, e.opts.BlockSize)
		e.blocked = e.runBlocking(nil)
		e.nclauses += e.blocked
	}
}

func drawEncoding(rng *rand.Rand) Encoding {
	switch rng.Intn(3) {
	case 0:
		return EncodingDirect
	case 1:
		return EncodingSinz
	default:
		return EncodingLinear
	}
}

// writeALO emits one clause per node with at least one neighbour: the
// disjunction of its incident edge variables.
func (e *Encoder) writeALO(cw *clauseWriter) {
	sizes := e.g.PartitionSizes()
	for _, p1 := range e.opts.ALO {
		p2 := opposite(p1)
		for i := 0; i < sizes[p1]; i++ {
			neighbors := e.g.Neighbors(p1, i, p2)
			if len(neighbors) == 0 {
				continue
			}
			lits := make([]int, len(neighbors))
			for n, j := range neighbors {
				lits[n] = VariableID(e.g, p1, i, p2, j)
			}
			cw.clause(lits...)
		}
	}
}

// writeAMO emits the pairwise-exclusion constraints for every node with two
// or more neighbours, threading the next free auxiliary variable through the
// linear and Sinz encoders.
func (e *Encoder) writeAMO(cw *clauseWriter) {
	sizes := e.g.PartitionSizes()
	exVar := sizes[0]*sizes[1] + 1
	mixedIdx := 0

	for _, p1 := range e.opts.AMO {
		p2 := opposite(p1)
		for i := 0; i < sizes[p1]; i++ {
			neighbors := e.g.Neighbors(p1, i, p2)
			if len(neighbors) < 2 {
				continue
			}

			lits := make([]int, len(neighbors))
			for n, j := range neighbors {
				lits[n] = VariableID(e.g, p1, i, p2, j)
			}

			enc := e.opts.Encoding
			if enc == EncodingMixed {
				enc = e.mixed[mixedIdx]
				mixedIdx++
			}

			switch enc {
			case EncodingDirect:
				e.directAMO(cw, lits)
			case EncodingSinz:
				exVar = e.sinzAMO(cw, lits, exVar)
			case EncodingLinear:
				exVar = e.linearAMO(cw, lits, 0, exVar)
			}
		}
	}
}

// directAMO writes the binary exclusion clause for every pair of literals.
// Values already negated by the linear chaining stay negated, so a commander
// variable shows up positively in its block.
func (e *Encoder) directAMO(cw *clauseWriter, lits []int) {
	for i := 0; i < len(lits); i++ {
		for j := i + 1; j < len(lits); j++ {
			cw.clause(-lits[i], -lits[j])
		}
	}
}

// linearAMO encodes at-most-one over lits[cur:] as a direct block on the
// first three literals plus a fresh commander variable, recursing on the
// remainder with the commander negated in place. Costs 3k-6 clauses and
// (k-3)/2 auxiliary variables for k >= 3. Returns the next free variable.
func (e *Encoder) linearAMO(cw *clauseWriter, lits []int, cur, exVar int) int {
	linear := len(lits)-cur > 4
	s := len(lits) - cur
	if linear {
		s = 4
	}

	block := make([]int, s)
	for i := 0; i < s; i++ {
		if i == 3 && linear {
			block[i] = exVar
			if e.opts.VarOrder {
				e.auxMap[block[2]] = exVar
			}
		} else {
			block[i] = lits[cur+i]
		}
	}

	e.directAMO(cw, block)

	if linear {
		lits[cur+2] = -exVar
		return e.linearAMO(cw, lits, cur+2, exVar+1)
	}
	return exVar
}

// sinzAMO encodes at-most-one with the sequential counter: signal variables
// s_1..s_{k-1} starting at sinzVar. On random graphs the two-neighbour case
// keeps one signal variable instead of collapsing to a single binary clause.
// In bucket-order mode the edge and signal IDs are streamed into the
// variable-order file as they are introduced. Returns the next free variable.
func (e *Encoder) sinzAMO(cw *clauseWriter, lits []int, sinzVar int) int {
	k := len(lits)

	if k == 2 {
		if e.opts.RandomGraph {
			cw.clause(-lits[0], sinzVar)
			cw.clause(-lits[1], -sinzVar)
			if e.opts.BucketOrder {
				e.writeOrderID(lits[0])
				e.writeOrderID(sinzVar)
				e.writeOrderID(lits[1])
				e.auxMap[lits[1]] = sinzVar
			} else if e.opts.VarOrder {
				e.auxMap[lits[0]] = sinzVar
			}
			return sinzVar + 1
		}
		cw.clause(-lits[0], -lits[1])
		return sinzVar
	}

	if e.opts.BucketOrder {
		e.writeOrderID(lits[0])
	}
	for i := 0; i < k; i++ {
		if i < k-1 {
			cw.clause(-lits[i], sinzVar+i)
			if e.opts.BucketOrder {
				e.writeOrderID(sinzVar + i)
				e.writeOrderID(lits[i+1])
				e.auxMap[lits[i+1]] = sinzVar + i
			} else if e.opts.VarOrder {
				e.auxMap[lits[i]] = sinzVar + i
			}
		}
		if i > 0 {
			cw.clause(-lits[i], -(sinzVar + i - 1))
			if i < k-1 {
				cw.clause(-(sinzVar + i - 1), sinzVar+i)
			}
		}
	}
	return sinzVar + k - 1
}

// writeOrderID appends one variable ID line to the variable-order stream.
func (e *Encoder) writeOrderID(id int) {
	if e.varOrderW == nil {
		return
	}
	fmt.Fprintf(e.varOrderW, "%d \n", id)
}

// clauseWriter accumulates the first write error so emission code can stay
// free of error plumbing.
type clauseWriter struct {
	w   io.Writer
	err error
}

func (cw *clauseWriter) printf(format string, args ...any) {
	if cw.err != nil {
		return
	}
	_, cw.err = fmt.Fprintf(cw.w, format, args...)
}

// clause writes one DIMACS clause line: the literals, space separated,
// terminated by zero.
func (cw *clauseWriter) clause(lits ...int) {
	for _, lit := range lits {
		cw.printf("%d ", lit)
	}
	cw.printf("0\n")
}
