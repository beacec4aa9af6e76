package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1siamBot/boardcam/engine/camera"
	"github.com/1siamBot/boardcam/engine/geom"
)

// GeoM converts an affine transform to ebiten's matrix. Both are row-major
// so the elements copy over one to one.
func GeoM(m geom.Matrix) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[1])
	g.SetElement(0, 2, m[2])
	g.SetElement(1, 0, m[3])
	g.SetElement(1, 1, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// View returns the world to screen matrix for a camera state drawn on a
// screen scaled by dpr
func View(s camera.State, dpr float64) ebiten.GeoM {
	return GeoM(camera.Transform(s, dpr, false))
}

// VisibleCells returns the range of grid cells the viewport touches,
// padded by one cell and clipped to bounds when given
func VisibleCells(s camera.State, cell float64, bounds *geom.Rect) (minX, minY, maxX, maxY int) {
	vis := s.VisibleBounds()
	if bounds != nil {
		vis = vis.Intersect(*bounds)
	}

	// Add padding
	minX = int(math.Floor(vis.Min.X/cell)) - 1
	minY = int(math.Floor(vis.Min.Y/cell)) - 1
	maxX = int(math.Ceil(vis.Max.X/cell)) + 1
	maxY = int(math.Ceil(vis.Max.Y/cell)) + 1

	if bounds != nil {
		minX = max(minX, int(math.Floor(bounds.Min.X/cell)))
		minY = max(minY, int(math.Floor(bounds.Min.Y/cell)))
		maxX = min(maxX, int(math.Ceil(bounds.Max.X/cell))-1)
		maxY = min(maxY, int(math.Ceil(bounds.Max.Y/cell))-1)
	}
	return
}
