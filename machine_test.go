package settle

import (
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/pcg"
)

func randomBoard(rng *pcg.T, bands int, pct uint32) Board {
	b, err := NewBoard(bands)
	if err != nil {
		panic(err)
	}
	for row := 0; row < b.Rows(); row++ {
		for col := 0; col < bandCols; col++ {
			if rng.Uint32n(100) < pct {
				b.Fill(row, col)
			}
		}
	}
	return b
}

func TestMachine(t *testing.T) {
	t.Run("Empty Board", func(t *testing.T) {
		b, err := NewBoard(2)
		assert.NoError(t, err)

		p := Place(b, O)
		for o := North; o <= West; o++ {
			bands := p.Bands(o)
			assert.Equal(t, bands[0], uint32(rowFull>>1))
			assert.Equal(t, bands[1], uint32(0))
		}
		assert.Equal(t, p.Count(), 36)
		assert.Equal(t, p.Canonical().Count(), 9)
	})

	t.Run("Full Board", func(t *testing.T) {
		b, err := NewBoard(2)
		assert.NoError(t, err)
		for row := 0; row < b.Rows(); row++ {
			for col := 0; col < bandCols; col++ {
				b.Fill(row, col)
			}
		}

		for s := Shape(0); s < numShapes; s++ {
			assert.Equal(t, Place(b, s).Count(), 0)
		}
	})

	t.Run("Band Boundary", func(t *testing.T) {
		b := mustParse(t, ""+
			"..........\n"+
			"..........\n"+
			"..........\n"+
			"#####.####\n"+
			"#####.####\n"+
			"#####.####\n")

		p := Place(b, I)

		// the shaft bottom is the only vertical rest, reached by falling
		// across the band boundary.
		assert.That(t, p.Contains(Piece{Shape: I, Orientation: East, Col: 5, Row: 0}))
		assert.That(t, p.Contains(Piece{Shape: I, Orientation: West, Col: 5, Row: 0}))
		assert.Equal(t, p.Bands(East)[0], uint32(1<<5))
		assert.Equal(t, p.Bands(East)[1], uint32(0))

		// horizontal rests sit on the surface row; one row higher would
		// poke out of the field and is clipped.
		for col := 0; col <= 6; col++ {
			assert.That(t, p.Contains(Piece{Shape: I, Orientation: North, Col: col, Row: 3}))
			assert.That(t, p.Contains(Piece{Shape: I, Orientation: South, Col: col, Row: 3}))
		}
		assert.Equal(t, p.Count(), 16)
	})

	t.Run("Kick Order", func(t *testing.T) {
		board := mustParse(t, ""+
			"..########\n"+
			"..########\n"+
			"..########\n"+
			"..########\n"+
			"..##..#..#\n"+
			"..##..#..#\n")

		near := Piece{Shape: O, Orientation: East, Col: 4, Row: 0}
		far := Piece{Shape: O, Orientation: East, Col: 7, Row: 0}

		rules := func(offs ...Offset) Rules {
			var r Rules
			for o := North; o <= West; o++ {
				r.Shapes[O].CW[o] = offs
			}
			return r
		}

		// neither pocket is reachable by sliding alone.
		tab, err := NewTable(rules(Offset{X: 0, Y: 0}))
		assert.NoError(t, err)
		p := tab.Place(board, O)
		assert.That(t, !p.Contains(near))
		assert.That(t, !p.Contains(far))

		// the first offset that fits a cell consumes it, so only the
		// near pocket is entered.
		tab, err = NewTable(rules(Offset{X: 4, Y: 0}, Offset{X: 7, Y: 0}))
		assert.NoError(t, err)
		p = tab.Place(board, O)
		assert.That(t, p.Contains(near))
		assert.That(t, !p.Contains(far))

		// reversing the list flips which pocket wins.
		tab, err = NewTable(rules(Offset{X: 7, Y: 0}, Offset{X: 4, Y: 0}))
		assert.NoError(t, err)
		p = tab.Place(board, O)
		assert.That(t, !p.Contains(near))
		assert.That(t, p.Contains(far))
	})

	t.Run("Invariants", func(t *testing.T) {
		var rng pcg.T
		for i := 0; i < 200; i++ {
			b := randomBoard(&rng, 2+int(rng.Uint32n(2)), 40)

			for s := Shape(0); s < numShapes; s++ {
				var m machine
				m.init(b, s, defaultTable)
				m.run(nil)

				for o := North; o <= West; o++ {
					for idx := 0; idx <= m.n; idx++ {
						nav, viable := m.nav[o][idx], m.viable[o][idx]
						assert.Equal(t, nav&^viable, band(0))
						assert.Equal(t, flood(nav, viable), nav)
					}
				}
			}
		}
	})

	t.Run("Any Order", func(t *testing.T) {
		var rng pcg.T
		pick := func(dirty uint32) uint {
			for {
				if i := uint(rng.Uint32n(32)); dirty&(1<<i) != 0 {
					return i
				}
			}
		}

		for i := 0; i < 100; i++ {
			b := randomBoard(&rng, 3, 40)

			for s := Shape(0); s < numShapes; s++ {
				var ref, got machine
				ref.init(b, s, defaultTable)
				ref.run(nil)
				got.init(b, s, defaultTable)
				got.run(pick)

				assert.Equal(t, got.nav, ref.nav)
			}
		}
	})
}

func BenchmarkPlace(b *testing.B) {
	var rng pcg.T

	run := func(bands int) func(b *testing.B) {
		return func(b *testing.B) {
			boards := make([]Board, 64)
			for i := range boards {
				boards[i] = randomBoard(&rng, bands, 40)
			}
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				Place(boards[i%len(boards)], Shape(i%numShapes))
			}
		}
	}

	b.Run("Bands 2", run(2))
	b.Run("Bands 7", run(7))
}
