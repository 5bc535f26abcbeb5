package palette

import (
	"errors"
	"fmt"
	"math"

	pmath "github.com/Faultbox/autopalette/pkg/math"
)

// MinSide is the smallest palette side. A single material still gets a 2x2 image.
const MinSide = 2

// ErrNoEntries is returned when a palette is requested for zero entries.
var ErrNoEntries = errors.New("palette needs at least one entry")

// Side returns the side length of the square palette that holds count
// texels: the smallest power of two p >= MinSide with p*p >= count.
func Side(count int) (int, error) {
	if count <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrNoEntries, count)
	}
	side := MinSide
	for side*side < count {
		side *= 2
	}
	return side, nil
}

// Texel returns the grid position of entry index in a palette of the given
// side, row-major from the bottom-left texel.
func Texel(index, side int) (x, y int) {
	return index % side, index / side
}

// TexelCenter returns the UV coordinate of the centre of texel index.
func TexelCenter(index, side int) pmath.Vec2 {
	x, y := Texel(index, side)
	return pmath.Vec2{X: float32(x), Y: float32(y)}.
		Add(pmath.Vec2{X: 0.5, Y: 0.5}).
		Scale(1 / float32(side))
}

// SnapToTexelCenter moves uv to the centre of the texel it falls in on a
// width x height grid. Coordinates outside [0,1] snap to the border texel.
func SnapToTexelCenter(uv pmath.Vec2, width, height int) pmath.Vec2 {
	return pmath.Vec2{
		X: snapAxis(uv.X, width),
		Y: snapAxis(uv.Y, height),
	}
}

func snapAxis(v float32, size int) float32 {
	cell := math.Floor(float64(v) * float64(size))
	if cell < 0 {
		cell = 0
	}
	if cell > float64(size-1) {
		cell = float64(size - 1)
	}
	return float32((cell + 0.5) / float64(size))
}
