package grid

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math"

	"github.com/gunship/engine/internal/mathx"
)

// Cell identifies the half-open cube [X*s, (X+1)*s) × [Y*s, (Y+1)*s) ×
// [Z*s, (Z+1)*s) of world space for a grid with edge length s.
type Cell struct {
	X, Y, Z int32
}

func NewCell(x, y, z int32) Cell { return Cell{X: x, Y: y, Z: z} }

func (c Cell) String() string { return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z) }

// CellOf maps a world position to its cell using true floor division, so
// -0.1 lands in cell -1 rather than 0. cellSize must be positive.
func CellOf(p mathx.Vec3, cellSize float32) Cell {
	s := float64(cellSize)
	return Cell{
		X: toCellCoord(float64(p.X), s),
		Y: toCellCoord(float64(p.Y), s),
		Z: toCellCoord(float64(p.Z), s),
	}
}

func toCellCoord(v, s float64) int32 {
	return int32(math.Floor(v / s))
}

// Offset returns the cell shifted by (dx, dy, dz).
func (c Cell) Offset(dx, dy, dz int32) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// IterTo yields every cell in the inclusive box spanned by c and other,
// x outermost, then y, then z innermost. Each axis runs from the smaller
// coordinate to the larger, so the box is the same whichever corner is the
// receiver.
func (c Cell) IterTo(other Cell) iter.Seq[Cell] {
	lo := Cell{X: min(c.X, other.X), Y: min(c.Y, other.Y), Z: min(c.Z, other.Z)}
	hi := Cell{X: max(c.X, other.X), Y: max(c.Y, other.Y), Z: max(c.Z, other.Z)}
	return func(yield func(Cell) bool) {
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				for z := lo.Z; z <= hi.Z; z++ {
					if !yield(Cell{X: x, Y: y, Z: z}) {
						return
					}
				}
			}
		}
	}
}

// Neighborhood yields c and every cell within reach cells of it along each
// axis: 27 cells for reach 1.
func (c Cell) Neighborhood(reach int32) iter.Seq[Cell] {
	return c.Offset(-reach, -reach, -reach).IterTo(c.Offset(reach, reach, reach))
}

// Less orders cells by x, then y, then z.
func (c Cell) Less(o Cell) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.Z < o.Z
}

// appendBytes appends the little-endian byte representation used for hashing.
func (c Cell) appendBytes(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(c.X))
	b = binary.LittleEndian.AppendUint32(b, uint32(c.Y))
	return binary.LittleEndian.AppendUint32(b, uint32(c.Z))
}
