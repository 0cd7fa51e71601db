package settle

import (
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/zeebo/assert"
)

func TestKicks(t *testing.T) {
	t.Run("Compile Standard", func(t *testing.T) {
		tab, err := NewTable(SRS)
		assert.NoError(t, err)

		// the unkicked J rotation from spawn drops one row: down by one is
		// up by two relative to the band below.
		k := tab.kicks[J][North][CW][0]
		assert.That(t, !k.up)
		assert.Equal(t, k.lo, uint8(21))
		assert.Equal(t, k.hi, uint8(9))
		assert.Equal(t, k.box, box(1))

		// half turns are not part of the standard rules.
		for s := Shape(0); s < numShapes; s++ {
			for o := North; o <= West; o++ {
				assert.Equal(t, len(tab.kicks[s][o][Half]), 0)
			}
		}

		// the counter-clockwise lists mirror the clockwise ones, so the
		// first attempt from East undoes the spawn rotation.
		k = tab.kicks[T][East][CCW][0]
		assert.That(t, k.up)
		assert.Equal(t, k.lo, uint8(9))
		assert.Equal(t, k.hi, uint8(21))
		assert.Equal(t, k.box, box(-1))
	})

	t.Run("Reject Offsets", func(t *testing.T) {
		check := func(off Offset) {
			var r Rules
			r.Shapes[T].CW[North] = []Offset{off}
			_, err := NewTable(r)
			assert.Error(t, err)
		}

		check(Offset{X: 10, Y: 0})
		check(Offset{X: -10, Y: 0})
		check(Offset{X: 0, Y: 4})
		check(Offset{X: 0, Y: -4})
		check(Offset{X: -5, Y: -3})
		check(Offset{X: 5, Y: 3})
	})

	t.Run("JSON Round Trip", func(t *testing.T) {
		data, err := gojson.Marshal(SRS)
		assert.NoError(t, err)

		got, err := ParseRules(data)
		assert.NoError(t, err)
		assert.DeepEqual(t, got, SRS)

		_, err = ParseRules([]byte(`{"shapes": 3}`))
		assert.Error(t, err)
	})
}
