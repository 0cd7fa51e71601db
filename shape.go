package settle

// Shape identifies one of the seven tetrominoes.
type Shape uint8

const (
	I Shape = iota
	J
	L
	O
	S
	T
	Z
)

const numShapes = 7

func (s Shape) String() string { return "IJLOSTZ"[s : s+1] }

// Orientation is one of the four rotation states of a piece. North is
// the spawn state.
type Orientation uint8

const (
	North Orientation = iota
	East
	South
	West
)

func (o Orientation) String() string { return "NESW"[o : o+1] }

func (o Orientation) CW() Orientation   { return (o + 1) & 3 }
func (o Orientation) Half() Orientation { return (o + 2) & 3 }
func (o Orientation) CCW() Orientation  { return (o + 3) & 3 }

// Rotation is the amount a piece turns in one move.
type Rotation uint8

const (
	CW Rotation = iota
	Half
	CCW
)

func (o Orientation) Turn(r Rotation) Orientation { return (o + Orientation(r) + 1) & 3 }

// minoTable holds the four cells of every shape in every orientation as
// (column, row) offsets from the reference cell, the bottom-left of the
// piece's bounding box.
var minoTable = [numShapes][4][4][2]uint8{
	I: {
		North: {{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		East:  {{0, 0}, {0, 1}, {0, 2}, {0, 3}},
		South: {{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		West:  {{0, 0}, {0, 1}, {0, 2}, {0, 3}},
	},
	J: {
		North: {{0, 0}, {1, 0}, {2, 0}, {0, 1}},
		East:  {{0, 0}, {0, 1}, {0, 2}, {1, 2}},
		South: {{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		West:  {{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
	L: {
		North: {{0, 0}, {1, 0}, {2, 0}, {2, 1}},
		East:  {{0, 0}, {1, 0}, {0, 1}, {0, 2}},
		South: {{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		West:  {{1, 0}, {1, 1}, {0, 2}, {1, 2}},
	},
	O: {
		North: {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		East:  {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		South: {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		West:  {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	S: {
		North: {{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		East:  {{1, 0}, {0, 1}, {1, 1}, {0, 2}},
		South: {{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		West:  {{1, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
	T: {
		North: {{0, 0}, {1, 0}, {2, 0}, {1, 1}},
		East:  {{0, 0}, {0, 1}, {1, 1}, {0, 2}},
		South: {{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		West:  {{1, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	Z: {
		North: {{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		East:  {{0, 0}, {0, 1}, {1, 1}, {1, 2}},
		South: {{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		West:  {{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
}

// profile is the compiled collision data for one shape and orientation.
//
// shifts are the bit offsets of the four minoes from the reference cell.
// bounds marks the reference columns that keep every mino inside the ten
// columns. clip marks the reference cells whose minoes stay below the
// top of the field; it is derived by running the cross-band collision
// test against a synthetic fully occupied band above the field, and
// filters placements in the top band.
type profile struct {
	shifts [4]uint8
	bounds band
	clip   band
}

var profiles = makeProfiles()

func makeProfiles() (t [numShapes][4]profile) {
	for s := range t {
		for o := range t[s] {
			p := &t[s][o]

			row := rowFull
			for i, mino := range minoTable[s][o] {
				col, r := mino[0], mino[1]
				p.shifts[i] = r*bandCols + col
				row &= rowFull >> col
			}
			p.bounds = row * rowRepeat
			p.clip = ^collide(0, bandFull, p.shifts) & p.bounds
		}
	}
	return t
}
