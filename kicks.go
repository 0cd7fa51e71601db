package settle

import (
	gojson "github.com/goccy/go-json"
	"github.com/zeebo/errs"
)

// Offset is a single kick attempt: the column and row adjustment applied
// to the reference cell when the piece turns.
//
// Offsets use adapted bounding-box coordinates: the first offset of a
// list already includes the translation of the rotation itself, so a
// plain unkicked rotation is just the first entry.
type Offset struct {
	X int8 `json:"x"`
	Y int8 `json:"y"`
}

// Rules is the external rotation configuration: for every shape and
// source orientation, the ordered offsets tried for clockwise, half, and
// counter-clockwise turns. An empty list makes that turn impossible,
// except that an absent counter-clockwise list mirrors the clockwise
// list of the target orientation (negated), which is how standard kick
// data is published.
type Rules struct {
	Shapes [numShapes]ShapeRules `json:"shapes"`
}

// ShapeRules carries the per-orientation offset lists of one shape.
type ShapeRules struct {
	CW   [4][]Offset `json:"cw"`
	Half [4][]Offset `json:"half,omitempty"`
	CCW  [4][]Offset `json:"ccw,omitempty"`
}

// ParseRules decodes a JSON rules document.
func ParseRules(data []byte) (Rules, error) {
	var r Rules
	if err := gojson.Unmarshal(data, &r); err != nil {
		return Rules{}, errs.Wrap(err)
	}
	return r, nil
}

//
// compiled form
//

// kick is one compiled offset attempt. a kick splits the source band
// across two adjacent destination bands: lo shifts the surviving cells
// into the lower destination, hi into the upper. up tells whether those
// destinations are (source, source+1) or (source-1, source).
type kick struct {
	up  bool
	box band
	lo  uint8
	hi  uint8
}

// Table holds the compiled kick data for every shape, source
// orientation, and rotation amount. Tables are immutable after
// compilation and shared freely between invocations.
type Table struct {
	kicks [numShapes][4][3][]kick
}

// NewTable validates and compiles a rule set. Every malformed offset is
// rejected here; nothing is checked again inside the placement loop.
func NewTable(r Rules) (*Table, error) {
	t := new(Table)
	for s := Shape(0); s < numShapes; s++ {
		sr := &r.Shapes[s]
		for o := North; o <= West; o++ {
			cw, err := compileKicks(sr.CW[o])
			if err != nil {
				return nil, errs.New("shape %v %v cw: %v", s, o, err)
			}
			half, err := compileKicks(sr.Half[o])
			if err != nil {
				return nil, errs.New("shape %v %v half: %v", s, o, err)
			}
			ccw := sr.CCW[o]
			if ccw == nil {
				ccw = mirror(sr.CW[o.CCW()])
			}
			mccw, err := compileKicks(ccw)
			if err != nil {
				return nil, errs.New("shape %v %v ccw: %v", s, o, err)
			}
			t.kicks[s][o][CW] = cw
			t.kicks[s][o][Half] = half
			t.kicks[s][o][CCW] = mccw
		}
	}
	return t, nil
}

func mirror(offs []Offset) []Offset {
	out := make([]Offset, len(offs))
	for i, off := range offs {
		out[i] = Offset{X: -off.X, Y: -off.Y}
	}
	return out
}

func compileKicks(offs []Offset) ([]kick, error) {
	if len(offs) == 0 {
		return nil, nil
	}
	out := make([]kick, len(offs))
	for i, off := range offs {
		x, y := off.X, off.Y
		if x <= -bandCols || x >= bandCols {
			return nil, errs.New("offset %d: column shift %d out of range", i, x)
		}
		if y < -bandRows || y > bandRows {
			return nil, errs.New("offset %d: row shift %d out of range", i, y)
		}

		// split the offset into a band direction and a shift within the
		// adjacent band pair. moving up by y rows lands the low cells in
		// the same band and the high cells one band up; moving down is
		// the same picture one band lower.
		up := y > 0 || y == 0 && x >= 0
		if !up {
			y += bandRows
		}
		lo := int(y)*bandCols + int(x)
		if lo < 0 || lo > bandBits {
			return nil, errs.New("offset %d: shift (%d,%d) spans more than two bands", i, off.X, off.Y)
		}

		out[i] = kick{
			up:  up,
			box: box(x),
			lo:  uint8(lo),
			hi:  uint8(bandBits - lo),
		}
	}
	return out, nil
}

//
// standard rules
//

// SRS is the Super Rotation System in adapted coordinates, the complete
// per-shape tables. J, L, S, T and Z share bounding boxes and kick data;
// O is rotationally symmetric and rotates in place; I has its own table.
// Half turns are not part of SRS, so those lists are empty.
var SRS = Rules{Shapes: func() (sh [numShapes]ShapeRules) {
	jlstz := [4][]Offset{
		North: {{1, -1}, {0, -1}, {0, 0}, {1, -3}, {0, -3}},
		East:  {{-1, 0}, {0, 0}, {0, -1}, {-1, 2}, {0, 2}},
		South: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		West:  {{0, 1}, {-1, 1}, {-1, 0}, {0, 3}, {-1, 3}},
	}
	i := [4][]Offset{
		North: {{2, -2}, {0, -2}, {3, -2}, {0, -3}, {3, 0}},
		East:  {{-2, 1}, {-3, 1}, {0, 1}, {-3, 3}, {0, 0}},
		South: {{1, -1}, {3, -1}, {0, -1}, {3, 0}, {0, -3}},
		West:  {{-1, 2}, {0, 2}, {-3, 2}, {0, 0}, {-3, 3}},
	}
	o := [4][]Offset{
		North: {{0, 0}},
		East:  {{0, 0}},
		South: {{0, 0}},
		West:  {{0, 0}},
	}

	sh[I] = ShapeRules{CW: i}
	sh[J] = ShapeRules{CW: jlstz}
	sh[L] = ShapeRules{CW: jlstz}
	sh[O] = ShapeRules{CW: o}
	sh[S] = ShapeRules{CW: jlstz}
	sh[T] = ShapeRules{CW: jlstz}
	sh[Z] = ShapeRules{CW: jlstz}
	return sh
}()}

var defaultTable = func() *Table {
	t, err := NewTable(SRS)
	if err != nil {
		panic(err)
	}
	return t
}()
