package settle

import (
	"context"
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/pcg"
)

func TestPlaceBatch(t *testing.T) {
	t.Run("Matches Sequential", func(t *testing.T) {
		var rng pcg.T

		var reqs []Request
		var want []Placements
		for i := 0; i < 200; i++ {
			b := randomBoard(&rng, 2+int(rng.Uint32n(6)), 40)
			s := Shape(rng.Uint32n(numShapes))
			reqs = append(reqs, Request{Board: b, Shape: s})
			want = append(want, Place(b, s))
		}

		got, err := PlaceBatch(context.Background(), reqs)
		assert.NoError(t, err)
		assert.Equal(t, len(got), len(want))
		for i := range got {
			assert.DeepEqual(t, got[i], want[i])
		}
	})

	t.Run("Empty", func(t *testing.T) {
		got, err := PlaceBatch(context.Background(), nil)
		assert.NoError(t, err)
		assert.Equal(t, len(got), 0)
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		b, err := NewBoard(2)
		assert.NoError(t, err)

		_, err = PlaceBatch(ctx, []Request{{Board: b, Shape: I}})
		assert.Error(t, err)
	})
}

func BenchmarkPlaceBatch(b *testing.B) {
	var rng pcg.T

	reqs := make([]Request, 256)
	for i := range reqs {
		reqs[i] = Request{Board: randomBoard(&rng, 4, 40), Shape: Shape(i % numShapes)}
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = PlaceBatch(context.Background(), reqs)
	}
}
