package settle

import (
	"strings"

	"github.com/zeebo/errs"
)

// Board is a packed playing field: n bands of three rows each, band 0 at
// the bottom. Boards are small values and copied freely.
type Board struct {
	n     int
	bands [MaxBands]band
}

// NewBoard returns an empty board with the given number of bands.
func NewBoard(bands int) (Board, error) {
	if bands < MinBands || bands > MaxBands {
		return Board{}, errs.New("band count %d outside [%d, %d]", bands, MinBands, MaxBands)
	}
	return Board{n: bands}, nil
}

// Bands returns the configured band count.
func (b Board) Bands() int { return b.n }

// Rows returns the number of rows in the field.
func (b Board) Rows() int { return b.n * bandRows }

// Empty reports whether no cell is occupied: the perfect clear
// condition.
func (b Board) Empty() bool {
	var all band
	for i := 0; i < b.n; i++ {
		all |= b.bands[i]
	}
	return all == 0
}

// Count returns the number of occupied cells.
func (b Board) Count() int {
	n := 0
	for i := 0; i < b.n; i++ {
		n += popcount(b.bands[i])
	}
	return n
}

func (b Board) cell(row, col int) (idx int, mask band) {
	if row < 0 || row >= b.Rows() || col < 0 || col >= bandCols {
		panic("cell out of range")
	}
	return row / bandRows, 1 << (uint(row%bandRows)*bandCols + uint(col))
}

// Occupied reports whether the cell at the given row and column is set.
// Row 0 is the bottom of the field.
func (b Board) Occupied(row, col int) bool {
	idx, mask := b.cell(row, col)
	return b.bands[idx]&mask != 0
}

// Fill sets the cell at the given row and column.
func (b *Board) Fill(row, col int) {
	idx, mask := b.cell(row, col)
	b.bands[idx] |= mask
}

func (b Board) row(i int) band {
	return b.bands[i/bandRows] >> (uint(i%bandRows) * bandCols) & rowFull
}

func (b *Board) setRow(i int, r band) {
	shift := uint(i%bandRows) * bandCols
	b.bands[i/bandRows] = b.bands[i/bandRows]&^(rowFull<<shift) | r<<shift
}

// Place merges a resting piece into the board and sinks every full row
// to the bottom, keeping full rows filled. The caller is responsible for
// only placing pieces reported by the placement machine.
func (b Board) Place(p Piece) Board {
	for _, mino := range minoTable[p.Shape][p.Orientation] {
		b.Fill(p.Row+int(mino[1]), p.Col+int(mino[0]))
	}

	out := Board{n: b.n}
	full := 0
	var kept [MaxBands * bandRows]band
	nk := 0
	for i := 0; i < b.Rows(); i++ {
		if r := b.row(i); r == rowFull {
			full++
		} else {
			kept[nk] = r
			nk++
		}
	}
	for i := 0; i < full; i++ {
		out.setRow(i, rowFull)
	}
	for i := 0; i < nk; i++ {
		out.setRow(full+i, kept[i])
	}
	return out
}

// HasIsolatedCell reports whether some column has empty cells that are
// all walled in on both sides and can never all be filled. A walled
// column only ever takes vertical I pieces, so it is dead when an empty
// cell sits under a filled one (nothing can reach it) or when the empty
// cells do not come in multiples of four.
func (b Board) HasIsolatedCell() bool {
	for col := 0; col < bandCols; col++ {
		empties := 0
		covered, walled := false, true
		filledAbove := false

		for row := b.Rows() - 1; row >= 0; row-- {
			if b.Occupied(row, col) {
				filledAbove = true
				continue
			}
			empties++
			if filledAbove {
				covered = true
			}
			if col > 0 && !b.Occupied(row, col-1) ||
				col < bandCols-1 && !b.Occupied(row, col+1) {
				walled = false
				break
			}
		}

		if walled && empties > 0 && (covered || empties%4 != 0) {
			return true
		}
	}
	return false
}

// HasImbalancedSplit reports whether two adjacent columns seal the board
// into a left and a right section where the left section's empty cells
// are not a multiple of four. No piece can straddle the seal, and every
// piece fills exactly four cells of one section, so such a section can
// never be filled exactly and the board can never be cleared.
func (b Board) HasImbalancedSplit() bool {
	for c := band(0); c < bandCols-2; c++ {
		colMask := (1 << c) * rowRepeat
		leftCols := (rowFull >> (bandCols - 1 - c)) * rowRepeat

		sealed := true
		filled := 0
		for i := 0; i < b.n; i++ {
			w := b.bands[i]
			if (w|w>>1)&colMask != colMask {
				sealed = false
				break
			}
			filled += popcount(w & leftCols)
		}
		if sealed && (b.Rows()*int(c+1)-filled)%4 != 0 {
			return true
		}
	}
	return false
}

// ParseBoard reads a board diagram: one line of ten characters per row,
// top row first, '#' for occupied and '.' for empty. The line count must
// be a whole number of bands.
func ParseBoard(diagram string) (Board, error) {
	lines := strings.Fields(strings.TrimSpace(diagram))
	if len(lines)%bandRows != 0 {
		return Board{}, errs.New("diagram has %d lines, want a multiple of %d", len(lines), bandRows)
	}

	b, err := NewBoard(len(lines) / bandRows)
	if err != nil {
		return Board{}, err
	}

	for i, line := range lines {
		if len(line) != bandCols {
			return Board{}, errs.New("line %d has %d cells, want %d", i, len(line), bandCols)
		}
		row := b.Rows() - 1 - i
		for col := 0; col < bandCols; col++ {
			switch line[col] {
			case '#':
				b.Fill(row, col)
			case '.':
			default:
				return Board{}, errs.New("line %d: unknown cell %q", i, line[col])
			}
		}
	}
	return b, nil
}

// String renders the board in the ParseBoard diagram form.
func (b Board) String() string {
	var sb strings.Builder
	for row := b.Rows() - 1; row >= 0; row-- {
		for col := 0; col < bandCols; col++ {
			if b.Occupied(row, col) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
