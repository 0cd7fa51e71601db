package settle

import "math/bits"

//
// the placement machine is the per-invocation automaton. it owns, per
// orientation, one word per band plus a spawn band above the field:
//
// | viable    | cells where the footprint fits, fixed after init |
// | nav       | cells proven reachable, only ever grows          |
// | dirty     | one bit per (band, orientation) pair             |
//
// nav is a subset of viable everywhere and at all times. the driver
// pops dirty pairs until none remain; it terminates because a pair is
// only re-marked when its nav actually grew, and nav is bounded by
// viable.
//

type machine struct {
	n     int // real bands; band n is the spawn band
	shape Shape
	table *Table

	viable [4][MaxBands + 1]band
	nav    [4][MaxBands + 1]band
	dirty  uint32
}

func (m *machine) init(b Board, s Shape, t *Table) {
	m.n, m.shape, m.table = b.n, s, t

	for o := North; o <= West; o++ {
		p := &profiles[s][o]
		for i := 0; i < m.n; i++ {
			// the space above the top band is empty for collisions, so
			// pieces may hover straddling the field top.
			var above band
			if i+1 < m.n {
				above = b.bands[i+1]
			}
			m.viable[o][i] = ^collide(b.bands[i], above, p.shifts) & p.bounds
		}

		// the spawn band: nothing up there ever collides, only the
		// horizontal bounds apply. the piece may appear anywhere in it.
		m.viable[o][m.n] = p.bounds
		m.nav[o][m.n] = p.bounds
		m.mark(m.n, o)
	}
}

// collide marks the reference cells whose footprint overlaps occupancy
// in cur or in the band directly above it.
func collide(cur, above band, shifts [4]uint8) band {
	var c band
	for _, s := range shifts {
		if s < bandBits {
			c |= cur>>s | above<<(bandBits-s)&bandFull
		} else {
			c |= above >> (s - bandBits)
		}
	}
	return c
}

func (m *machine) mark(b int, o Orientation) {
	m.dirty |= 1 << (uint(b)*4 + uint(o))
}

// run drives the dirty set to empty. pick chooses the next pair from a
// non-zero dirty mask; nil picks the highest pair, but any order reaches
// the same fixed point.
func (m *machine) run(pick func(uint32) uint) {
	if pick == nil {
		pick = highestPair
	}
	for m.dirty != 0 {
		idx := pick(m.dirty)
		m.dirty &^= 1 << idx
		m.step(int(idx/4), Orientation(idx%4))
	}
}

func highestPair(dirty uint32) uint { return uint(bits.Len32(dirty)) - 1 }

func (m *machine) step(b int, o Orientation) {
	m.slide(b, o)

	ks := &m.table.kicks[m.shape][o]
	m.kick(b, o, o.CW(), ks[CW])
	m.kick(b, o, o.Half(), ks[Half])
	m.kick(b, o, o.CCW(), ks[CCW])
}

// slide closes the band under the slide moves and spills the bottom row
// into the band below.
func (m *machine) slide(b int, o Orientation) {
	closed := flood(m.nav[o][b], m.viable[o][b])
	m.nav[o][b] = closed
	if b == 0 {
		return
	}

	spill := (closed & rowFull) << (2 * bandCols) & m.viable[o][b-1]
	if m.nav[o][b-1]|spill != m.nav[o][b-1] {
		m.nav[o][b-1] |= spill
		m.mark(b-1, o)
	}
}

// kick runs the ordered offset attempts from (b, from) into orientation
// to. Each cell is placed by the first offset that fits it and removed
// from the candidate set. An offset whose destination falls below the
// floor is skipped without consuming its cells; one that crosses above
// the spawn band consumes them with no destination, so rotation never
// pushes a piece out the top of the field.
func (m *machine) kick(b int, from, to Orientation, ks []kick) {
	cand := m.nav[from][b]
	for i := range ks {
		if cand == 0 {
			return
		}
		k := &ks[i]
		masked := cand & k.box

		lb, ub := b, b+1
		if !k.up {
			lb, ub = b-1, b
		}

		if lb >= 0 {
			hit := masked<<k.lo & m.viable[to][lb]
			if m.nav[to][lb]|hit != m.nav[to][lb] {
				m.nav[to][lb] |= hit
				m.mark(lb, to)
			}
			cand &^= hit >> k.lo
		}

		if ub > m.n {
			cand &^= masked >> k.hi << k.hi
			continue
		}
		hit := masked >> k.hi & m.viable[to][ub]
		if m.nav[to][ub]|hit != m.nav[to][ub] {
			m.nav[to][ub] |= hit
			m.mark(ub, to)
		}
		cand &^= hit << k.hi
	}
}

// placeable filters reachable cells down to resting positions: cells
// whose footprint cannot fall one more row. A cell rests when the cell
// one row below it is not viable, either within the band or across the
// boundary into the band below. The top band is additionally clipped to
// cells whose footprint stays inside the field.
func (m *machine) placeable(o Orientation, out *[MaxBands]band) {
	for b := 0; b < m.n; b++ {
		cells := m.nav[o][b] &^ (m.viable[o][b] << bandCols & bandFull)
		if b > 0 {
			cells &^= m.viable[o][b-1] >> (2 * bandCols)
		}
		out[b] = cells
	}
	out[m.n-1] &= profiles[m.shape][o].clip
}

// Place computes every legal resting position of the shape on the board
// under the table's rotation rules: one bitboard per orientation, over
// the real bands only. The computation is sequential, allocation free,
// and shares nothing, so any number of calls may run concurrently.
func (t *Table) Place(b Board, s Shape) Placements {
	var m machine
	m.init(b, s, t)
	m.run(nil)

	out := Placements{Shape: s, n: b.n}
	for o := North; o <= West; o++ {
		m.placeable(o, &out.boards[o])
	}
	return out
}

// Place computes placements under the standard SRS rules.
func Place(b Board, s Shape) Placements { return defaultTable.Place(b, s) }
