package instance

import (
	"fmt"
	"strings"

	"github.com/hardcnf/bipartgen/pkg/bitgraph"
)

// Variant selects the chessboard geometry.
type Variant int

const (
	// Normal is the flat board: no sides are joined.
	Normal Variant = iota
	// Cylinder joins the left and right sides.
	Cylinder
	// Torus joins left to right and top to bottom.
	Torus
)

// ParseVariant maps a variant name to a [Variant], case-insensitively.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToUpper(name) {
	case "NORMAL":
		return Normal, nil
	case "CYLINDER":
		return Cylinder, nil
	case "TORUS":
		return Torus, nil
	default:
		return 0, fmt.Errorf("unknown chessboard variant %q", name)
	}
}

func (v Variant) String() string {
	switch v {
	case Normal:
		return "NORMAL"
	case Cylinder:
		return "CYLINDER"
	case Torus:
		return "TORUS"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Pos is a square on the board.
type Pos struct {
	Row, Col int
}

// White reports the square colour. White squares have even coordinate
// parity, starting with (0, 0).
func (p Pos) White() bool { return (p.Row+p.Col)%2 == 0 }

// Board is an n x n chessboard whose squares can be removed. Rows are stored
// as bitvectors of present squares.
type Board struct {
	n       int
	white   int
	black   int
	variant Variant
	rows    [][]uint64
}

// NewBoard creates a full n x n board of the given geometry, then mutilates
// it: the top-left corner goes first, and the second removal sits as far
// from it as the geometry allows. On the flat board that is the opposite
// corner (n-1, n-1); on the cylinder the bottom middle (n-1, n/2); on the
// torus the centre (n/2, n/2).
func NewBoard(n int, variant Variant) (*Board, error) {
	if n < 1 {
		return nil, ErrInvalidSize
	}
	b := &Board{
		n:       n,
		white:   (n*n + 1) / 2,
		black:   (n * n) / 2,
		variant: variant,
		rows:    make([][]uint64, n),
	}
	words := (n + 63) / 64
	for i := range b.rows {
		b.rows[i] = make([]uint64, words)
		for w := range b.rows[i] {
			b.rows[i][w] = ^uint64(0)
		}
	}

	b.RemoveSquare(Pos{0, 0})
	switch variant {
	case Normal:
		b.RemoveSquare(Pos{n - 1, n - 1})
	case Cylinder:
		b.RemoveSquare(Pos{n - 1, n / 2})
	case Torus:
		b.RemoveSquare(Pos{n / 2, n / 2})
	}
	return b, nil
}

// N returns the side length.
func (b *Board) N() int { return b.n }

// White returns the number of present white squares.
func (b *Board) White() int { return b.white }

// Black returns the number of present black squares.
func (b *Board) Black() int { return b.black }

// Present reports whether the square at p is still on the board.
func (b *Board) Present(p Pos) bool {
	return b.rows[p.Row][p.Col/64]&(1<<(uint(p.Col)%64)) != 0
}

// AddSquare restores a square. Present squares are left alone.
func (b *Board) AddSquare(p Pos) {
	if b.Present(p) {
		return
	}
	if p.White() {
		b.white++
	} else {
		b.black++
	}
	b.rows[p.Row][p.Col/64] |= 1 << (uint(p.Col) % 64)
}

// RemoveSquare removes a square. Absent squares are left alone.
func (b *Board) RemoveSquare(p Pos) {
	if !b.Present(p) {
		return
	}
	if p.White() {
		b.white--
	} else {
		b.black--
	}
	b.rows[p.Row][p.Col/64] &^= 1 << (uint(p.Col) % 64)
}

// TileID returns the per-colour index of a present square: position in a
// row-major scan counting only present squares of the same colour. Returns
// -1 for removed squares.
func (b *Board) TileID(p Pos) int {
	if !b.Present(p) {
		return -1
	}
	id := 0
	for row := 0; row < b.n; row++ {
		for col := 0; col < b.n; col++ {
			scan := Pos{row, col}
			if scan.White() != p.White() {
				continue
			}
			if scan == p {
				return id
			}
			if b.Present(scan) {
				id++
			}
		}
	}
	return id
}

type direction int

const (
	left direction = iota
	right
	up
	down
)

// neighbor resolves the orthogonal neighbour of p under the board geometry.
// Horizontal moves wrap on the cylinder and torus, vertical moves only on
// the torus; off flat edges there is no neighbour.
func (b *Board) neighbor(p Pos, d direction) (Pos, bool) {
	wrapCols := b.variant == Cylinder || b.variant == Torus
	wrapRows := b.variant == Torus

	switch d {
	case left:
		if p.Col == 0 {
			if !wrapCols {
				return Pos{}, false
			}
			return Pos{p.Row, b.n - 1}, true
		}
		return Pos{p.Row, p.Col - 1}, true
	case right:
		if p.Col == b.n-1 {
			if !wrapCols {
				return Pos{}, false
			}
			return Pos{p.Row, 0}, true
		}
		return Pos{p.Row, p.Col + 1}, true
	case up:
		if p.Row == 0 {
			if !wrapRows {
				return Pos{}, false
			}
			return Pos{b.n - 1, p.Col}, true
		}
		return Pos{p.Row - 1, p.Col}, true
	default:
		if p.Row == b.n-1 {
			if !wrapRows {
				return Pos{}, false
			}
			return Pos{0, p.Col}, true
		}
		return Pos{p.Row + 1, p.Col}, true
	}
}

// Neighbors returns the present orthogonal neighbours of p, checked in
// left, right, up, down order.
func (b *Board) Neighbors(p Pos) []Pos {
	var neighbors []Pos
	for _, d := range []direction{left, right, up, down} {
		if np, ok := b.neighbor(p, d); ok && b.Present(np) {
			neighbors = append(neighbors, np)
		}
	}
	return neighbors
}

// NumNeighbors returns how many present orthogonal neighbours p has.
func (b *Board) NumNeighbors(p Pos) int {
	return len(b.Neighbors(p))
}

// Graph converts the board to its bipartite adjacency graph: white squares
// form partition 0, black squares partition 1, with an edge per pair of
// touching squares. Wrapped geometries can make same-colour squares touch
// when n is odd; those pairs carry no edge.
func (b *Board) Graph() (*bitgraph.Graph, error) {
	g, err := bitgraph.New(b.white, b.black)
	if err != nil {
		return nil, err
	}

	for row := 0; row < b.n; row++ {
		for col := 0; col < b.n; col++ {
			p := Pos{row, col}
			if !b.Present(p) {
				continue
			}
			id := b.TileID(p)
			for _, np := range b.Neighbors(p) {
				if np.White() == p.White() {
					continue
				}
				nid := b.TileID(np)
				if p.White() {
					g.AddEdge(0, id, 1, nid)
				} else {
					g.AddEdge(0, nid, 1, id)
				}
			}
		}
	}
	return g, nil
}
