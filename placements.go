package settle

// Piece is one concrete placement: a shape resting at a reference cell
// in a given orientation. Col and Row locate the bottom-left cell of the
// piece's bounding box, row 0 at the bottom of the field.
type Piece struct {
	Shape       Shape
	Orientation Orientation
	Col         int
	Row         int
}

// Placements is the output of one Place invocation: for each
// orientation, the bitboard of cells where the piece may come to rest.
type Placements struct {
	Shape  Shape
	n      int
	boards [4][MaxBands]band
}

// Count returns the number of placements across all orientations.
func (p Placements) Count() int {
	n := 0
	for o := North; o <= West; o++ {
		for i := 0; i < p.n; i++ {
			n += popcount(p.boards[o][i])
		}
	}
	return n
}

// Bands returns the placement bitboard for one orientation as raw band
// words, bottom band first.
func (p Placements) Bands(o Orientation) []uint32 {
	out := make([]uint32, p.n)
	for i := 0; i < p.n; i++ {
		out[i] = uint32(p.boards[o][i])
	}
	return out
}

func (p Placements) bit(pc Piece) (idx int, mask band, ok bool) {
	if pc.Shape != p.Shape || pc.Col < 0 || pc.Col >= bandCols || pc.Row < 0 || pc.Row >= p.n*bandRows {
		return 0, 0, false
	}
	return pc.Row / bandRows, 1 << (uint(pc.Row%bandRows)*bandCols + uint(pc.Col)), true
}

// Contains reports whether the piece is one of the placements.
func (p Placements) Contains(pc Piece) bool {
	idx, mask, ok := p.bit(pc)
	return ok && p.boards[pc.Orientation][idx]&mask != 0
}

// Remove drops the piece from the placements, reporting whether it was
// present.
func (p *Placements) Remove(pc Piece) bool {
	idx, mask, ok := p.bit(pc)
	if !ok || p.boards[pc.Orientation][idx]&mask == 0 {
		return false
	}
	p.boards[pc.Orientation][idx] &^= mask
	return true
}

// Next pops the next placement, lowest cell first within each
// orientation, North through West. It reports false once drained.
func (p *Placements) Next() (Piece, bool) {
	for o := North; o <= West; o++ {
		for i := 0; i < p.n; i++ {
			w := p.boards[o][i]
			if w == 0 {
				continue
			}
			cell := lowestBit(w)
			p.boards[o][i] = w & (w - 1)
			return Piece{
				Shape:       p.Shape,
				Orientation: o,
				Col:         cell % bandCols,
				Row:         i*bandRows + cell/bandCols,
			}, true
		}
	}
	return Piece{}, false
}

// Pieces collects every placement without consuming the receiver.
func (p Placements) Pieces() []Piece {
	out := make([]Piece, 0, p.Count())
	for pc, ok := p.Next(); ok; pc, ok = p.Next() {
		out = append(out, pc)
	}
	return out
}

// Canonical folds symmetric orientations together so equivalent
// placements are only enumerated once: O has quarter-turn symmetry,
// I, S and Z half-turn symmetry. J, L and T are unchanged.
func (p Placements) Canonical() Placements {
	switch p.Shape {
	case O:
		p.boards[East] = [MaxBands]band{}
		p.boards[South] = [MaxBands]band{}
		p.boards[West] = [MaxBands]band{}

	case I, S, Z:
		for i := 0; i < p.n; i++ {
			p.boards[North][i] |= p.boards[South][i]
			p.boards[East][i] |= p.boards[West][i]
		}
		p.boards[South] = [MaxBands]band{}
		p.boards[West] = [MaxBands]band{}
	}
	return p
}
