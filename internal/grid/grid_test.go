package grid

import (
	"fmt"
	"testing"

	"github.com/gunship/engine/internal/core/ecs"
	"github.com/stretchr/testify/require"
)

func TestFNV1a(t *testing.T) {
	require.Equal(t, uint64(0xcbf29ce484222325), FNV1a(nil))
	require.Equal(t, uint64(0xaf63dc4c8601ec8c), FNV1a([]byte("a")))
	require.Equal(t, uint64(0x85944171f73967e8), FNV1a([]byte("foobar")))
}

func TestCellHashes(t *testing.T) {
	for name, h := range map[string]HashFunc{"fnv": HashFNV, "xxhash": HashXX} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, h(NewCell(1, 2, 3)), h(NewCell(1, 2, 3)))

			seen := map[uint64]Cell{}
			for c := range NewCell(-10, -10, -10).IterTo(NewCell(10, 10, 10)) {
				sum := h(c)
				prev, dup := seen[sum]
				require.False(t, dup, "%v and %v collide", prev, c)
				seen[sum] = c
			}
		})
	}

	_, err := HasherByName("md5")
	require.Error(t, err)
	h, err := HasherByName("xxhash")
	require.NoError(t, err)
	require.Equal(t, HashXX(NewCell(4, 5, 6)), h(NewCell(4, 5, 6)))
}

func TestCollisionGrid(t *testing.T) {
	t.Run("Insert Get Remove round trip", func(t *testing.T) {
		g := New(nil)
		c := NewCell(1, -2, 3)
		g.Insert(c, 7)

		got := g.Get(c)
		require.Equal(t, []ecs.EntityID{7}, got)
		require.True(t, g.Contains(c, 7))

		require.True(t, g.Remove(c, 7))
		require.False(t, g.Contains(c, 7))
		require.Empty(t, g.Get(c))
		require.False(t, g.Remove(c, 7))
		require.Equal(t, 0, g.Entities())
	})

	t.Run("Unknown cell is empty", func(t *testing.T) {
		g := New(nil)
		require.Empty(t, g.Get(NewCell(9, 9, 9)))
		require.False(t, g.Remove(NewCell(9, 9, 9), 1))
	})

	t.Run("Empty cells are retained", func(t *testing.T) {
		g := New(nil)
		c := NewCell(0, 0, 0)
		g.Insert(c, 1)
		g.Remove(c, 1)
		require.Equal(t, 1, g.Cells())
		require.Empty(t, g.Get(c))

		n := 0
		for range g.Occupied() {
			n++
		}
		require.Equal(t, 0, n)

		require.Equal(t, 1, g.Prune())
		require.Equal(t, 0, g.Cells())
		g.Insert(c, 2)
		require.Equal(t, []ecs.EntityID{2}, g.Get(c))
	})

	t.Run("Update with same cell is a no-op", func(t *testing.T) {
		g := New(nil)
		c := NewCell(2, 2, 2)
		g.Insert(c, 1)
		g.Insert(c, 2)
		g.Update(1, c, c)
		require.Len(t, g.Get(c), 2)
	})

	t.Run("Update moves between cells", func(t *testing.T) {
		g := New(nil)
		a, b := NewCell(0, 0, 0), NewCell(0, 1, 0)
		g.Insert(a, 1)
		g.Update(1, a, b)
		require.Empty(t, g.Get(a))
		require.Equal(t, []ecs.EntityID{1}, g.Get(b))
		require.Equal(t, 1, g.Entities())
	})

	t.Run("Hash collisions are chained", func(t *testing.T) {
		g := New(func(Cell) uint64 { return 42 })
		cells := []Cell{NewCell(0, 0, 0), NewCell(1, 0, 0), NewCell(0, 0, -1)}
		for i, c := range cells {
			g.Insert(c, ecs.EntityID(i+1))
		}
		for i, c := range cells {
			require.Equal(t, []ecs.EntityID{ecs.EntityID(i + 1)}, g.Get(c))
		}
		g.Remove(cells[1], 2)
		require.Equal(t, 1, g.Prune())
		require.Equal(t, []ecs.EntityID{1}, g.Get(cells[0]))
		require.Equal(t, []ecs.EntityID{3}, g.Get(cells[2]))
	})

	t.Run("Occupied follows creation order", func(t *testing.T) {
		g := New(HashXX)
		order := []Cell{NewCell(5, 0, 0), NewCell(-5, 0, 0), NewCell(0, 3, 0)}
		for i, c := range order {
			g.Insert(c, ecs.EntityID(i+1))
		}
		var got []Cell
		for c, ids := range g.Occupied() {
			require.Len(t, ids, 1)
			got = append(got, c)
		}
		require.Equal(t, order, got)
	})
}

func BenchmarkHashGridCell(b *testing.B) {
	for _, h := range []struct {
		name string
		fn   HashFunc
	}{{"fnv", HashFNV}, {"xxhash", HashXX}} {
		b.Run(fmt.Sprintf("%s_x1000", h.name), func(b *testing.B) {
			var sink uint64
			for i := 0; i < b.N; i++ {
				for c := range NewCell(0, 0, 0).IterTo(NewCell(9, 9, 9)) {
					sink ^= h.fn(c)
				}
			}
			_ = sink
		})
	}
}

func BenchmarkGridLookup(b *testing.B) {
	g := New(nil)
	for c := range NewCell(-50, -50, -50).IterTo(NewCell(50, 50, 50)) {
		g.Reserve(c)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for c := range NewCell(0, 0, 0).IterTo(NewCell(9, 9, 9)) {
			_ = g.Get(c)
		}
	}
}
