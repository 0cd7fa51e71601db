package settle

import "math/bits"

//
// a band packs three rows of ten columns into the low 30 bits of a
// uint32. bit 0 is the bottom-left cell of the band; the cell at row r,
// column c is bit 10*r + c, rows counted upwards. band 0 is the bottom
// of the field.
//

const (
	bandRows = 3
	bandCols = 10
	bandBits = bandRows * bandCols

	// MinBands and MaxBands bound the configurable field height.
	MinBands = 2
	MaxBands = 7
)

type band uint32

const (
	bandFull band = 1<<bandBits - 1
	rowFull  band = 1<<bandCols - 1

	// applied after a one-column shift so a bit never leaves its row and
	// re-enters the far edge of the adjacent one.
	leftMask  band = (rowFull >> 1) * rowRepeat
	rightMask band = leftMask << 1

	// one bit per row at column 0. multiplying a single row pattern by
	// it replicates the pattern into all three rows.
	rowRepeat band = 1 | 1<<bandCols | 1<<(2*bandCols)
)

// boxes[x+9] masks the columns that may shift horizontally by x without
// leaving their row. indexed by shift amount offset by bandCols-1.
var boxes = makeBoxes()

func makeBoxes() (t [2*bandCols - 1]band) {
	for x := 1 - bandCols; x <= bandCols-1; x++ {
		var row band
		if x >= 0 {
			row = rowFull >> x
		} else {
			row = rowFull << -x & rowFull
		}
		t[x+bandCols-1] = row * rowRepeat
	}
	return t
}

func box(x int8) band { return boxes[int(x)+bandCols-1] }

func popcount(b band) int { return bits.OnesCount32(uint32(b)) }

func lowestBit(b band) int { return bits.TrailingZeros32(uint32(b)) }

// flood closes nav under the three slide moves (down, left, right),
// bounded by viable. nav must be a subset of viable, and the result
// still is: every expansion re-intersects with viable.
func flood(nav, viable band) band {
	for {
		next := nav | nav>>bandCols&viable
		next |= next >> 1 & leftMask & viable
		next |= next << 1 & rightMask & viable
		if next == nav {
			return nav
		}
		nav = next
	}
}
