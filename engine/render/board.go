package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/boardcam/engine/camera"
	"github.com/1siamBot/boardcam/engine/geom"
)

const (
	tileSize = 32

	// zoomed far out the board is drawn as an outline only
	maxCells = 128 * 128
)

var (
	DarkCell     = color.RGBA{46, 52, 64, 255}
	LightCell    = color.RGBA{59, 66, 82, 255}
	BoundaryLine = color.RGBA{235, 203, 139, 255}
	OriginMark   = color.RGBA{191, 97, 106, 255}
	SelectLine   = color.RGBA{0, 255, 0, 128}
	SelectFill   = color.RGBA{0, 255, 0, 30}
)

// Board draws a checkered world grid through a camera state
type Board struct {
	Cell   float64    // world units per grid cell
	Bounds *geom.Rect // nil for an endless board
	tiles  [2]*ebiten.Image
}

func NewBoard(cell float64, bounds *geom.Rect) *Board {
	return &Board{Cell: cell, Bounds: bounds}
}

func (b *Board) tile(i int) *ebiten.Image {
	if b.tiles[i] != nil {
		return b.tiles[i]
	}
	clr := DarkCell
	if i == 1 {
		clr = LightCell
	}
	img := ebiten.NewImage(tileSize, tileSize)
	img.Fill(clr)
	vector.StrokeRect(img, 0, 0, tileSize, tileSize, 1, color.RGBA{0, 0, 0, 60}, false)
	b.tiles[i] = img
	return img
}

// Draw renders the visible cells, the boundary and the world origin
func (b *Board) Draw(screen *ebiten.Image, s camera.State, dpr float64) {
	view := View(s, dpr)

	minX, minY, maxX, maxY := VisibleCells(s, b.Cell, b.Bounds)
	if n := (maxX - minX + 1) * (maxY - minY + 1); n > 0 && n <= maxCells {
		op := &ebiten.DrawImageOptions{}
		op.Filter = ebiten.FilterLinear
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				op.GeoM.Reset()
				op.GeoM.Scale(b.Cell/tileSize, b.Cell/tileSize)
				op.GeoM.Translate(float64(x)*b.Cell, float64(y)*b.Cell)
				op.GeoM.Concat(view)
				screen.DrawImage(b.tile((x+y)&1), op)
			}
		}
	}

	if b.Bounds != nil {
		r := *b.Bounds
		strokePolygon(screen, view, BoundaryLine,
			r.Min, geom.Pt(r.Max.X, r.Min.Y), r.Max, geom.Pt(r.Min.X, r.Max.Y))
	}
	o := b.Cell / 4
	strokePolygon(screen, view, OriginMark, geom.Pt(-o, 0), geom.Pt(o, 0))
	strokePolygon(screen, view, OriginMark, geom.Pt(0, -o), geom.Pt(0, o))
}

// strokePolygon joins world points with screen-space lines, closing the
// loop when there are more than two
func strokePolygon(screen *ebiten.Image, view ebiten.GeoM, clr color.Color, pts ...geom.Point) {
	n := len(pts)
	if n < 2 {
		return
	}
	if n == 2 {
		n = 1
	}
	for i := 0; i < n; i++ {
		a, c := pts[i], pts[(i+1)%len(pts)]
		x0, y0 := view.Apply(a.X, a.Y)
		x1, y1 := view.Apply(c.X, c.Y)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, clr, true)
	}
}

// DrawSelectionBox draws a selection rectangle given in viewport pixels
func DrawSelectionBox(screen *ebiten.Image, r geom.Rect, dpr float64) {
	r = r.Canon()
	x, y := float32(r.Min.X*dpr), float32(r.Min.Y*dpr)
	w, h := float32(r.Size().X*dpr), float32(r.Size().Y*dpr)
	vector.DrawFilledRect(screen, x, y, w, h, SelectFill, false)
	vector.StrokeRect(screen, x, y, w, h, 1, SelectLine, false)
}

// DrawHUD prints status lines in the top-left corner
func DrawHUD(screen *ebiten.Image, lines ...string) {
	if len(lines) == 0 {
		return
	}
	vector.DrawFilledRect(screen, 0, 0, 360, float32(8+16*len(lines)), color.RGBA{0, 0, 0, 180}, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, 10, 4+16*i)
	}
}
