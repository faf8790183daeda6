package grid

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/gunship/engine/internal/mathx"
	"github.com/stretchr/testify/require"
)

func TestCellOf(t *testing.T) {
	tests := []struct {
		name string
		p    mathx.Vec3
		size float32
		want Cell
	}{
		{"origin", mathx.V3(0, 0, 0), 1, NewCell(0, 0, 0)},
		{"negative floors down", mathx.V3(-0.1, -0.1, -0.1), 1, NewCell(-1, -1, -1)},
		{"exact boundary belongs to upper cell", mathx.V3(1, 2, -1), 1, NewCell(1, 2, -1)},
		{"just under boundary", mathx.V3(0.999, 1.999, -0.001), 1, NewCell(0, 1, -1)},
		{"larger cells", mathx.V3(4.5, -4.5, 9.99), 5, NewCell(0, -1, 1)},
		{"fractional cells", mathx.V3(0.3, -0.3, 0.75), 0.25, NewCell(1, -2, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CellOf(tt.p, tt.size))
		})
	}
}

func TestCellOfIsPeriodic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	// Sixteenths and power-of-two sizes keep every sum exactly representable.
	coord := func() float32 { return float32(rng.Intn(2000)-1000) / 16 }
	for _, size := range []float32{0.5, 1, 2, 8} {
		for i := 0; i < 500; i++ {
			p := mathx.V3(coord(), coord(), coord())
			kx, ky, kz := int32(rng.Intn(21)-10), int32(rng.Intn(21)-10), int32(rng.Intn(21)-10)
			shifted := p.Add(mathx.V3(float32(kx)*size, float32(ky)*size, float32(kz)*size))

			require.Equal(t, CellOf(p, size).Offset(kx, ky, kz), CellOf(shifted, size),
				"p=%v size=%v k=(%d,%d,%d)", p, size, kx, ky, kz)
		}
	}
}

func TestIterTo(t *testing.T) {
	t.Run("Unit box yields 8 distinct cells", func(t *testing.T) {
		cells := slices.Collect(NewCell(0, 0, 0).IterTo(NewCell(1, 1, 1)))
		require.Len(t, cells, 8)
		seen := map[Cell]struct{}{}
		for _, c := range cells {
			seen[c] = struct{}{}
		}
		require.Len(t, seen, 8)
	})

	t.Run("Order is x outer, z inner", func(t *testing.T) {
		cells := slices.Collect(NewCell(0, 0, 0).IterTo(NewCell(1, 0, 1)))
		require.Equal(t, []Cell{
			NewCell(0, 0, 0), NewCell(0, 0, 1),
			NewCell(1, 0, 0), NewCell(1, 0, 1),
		}, cells)
	})

	t.Run("Single cell", func(t *testing.T) {
		c := NewCell(-3, 4, 5)
		require.Equal(t, []Cell{c}, slices.Collect(c.IterTo(c)))
	})

	t.Run("Reversed corners give the same box", func(t *testing.T) {
		a := slices.Collect(NewCell(-1, -1, -1).IterTo(NewCell(1, 1, 1)))
		b := slices.Collect(NewCell(1, 1, 1).IterTo(NewCell(-1, -1, -1)))
		require.Equal(t, a, b)
		require.Len(t, a, 27)
	})

	t.Run("Early stop", func(t *testing.T) {
		n := 0
		for range NewCell(0, 0, 0).IterTo(NewCell(9, 9, 9)) {
			n++
			if n == 5 {
				break
			}
		}
		require.Equal(t, 5, n)
	})

	t.Run("Neighborhood", func(t *testing.T) {
		require.Len(t, slices.Collect(NewCell(0, 0, 0).Neighborhood(1)), 27)
		require.Len(t, slices.Collect(NewCell(0, 0, 0).Neighborhood(2)), 125)
		require.Equal(t, []Cell{NewCell(2, 2, 2)}, slices.Collect(NewCell(2, 2, 2).Neighborhood(0)))
	})
}
