// Package raster draws the board in software through a camera transform,
// for hosts without a GPU surface such as the terminal.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/1siamBot/boardcam/engine/camera"
	"github.com/1siamBot/boardcam/engine/geom"
)

// maxTexels bounds the one-pixel-per-cell board texture
const maxTexels = 4096 * 4096

var ErrInvalidBoard = errors.New("raster: invalid board")

// Board is a checkered board held as a texture with one texel per cell.
// Bounds are rounded out to whole cells.
type Board struct {
	Cell   float64
	Interp draw.Transformer

	tex        *image.RGBA
	texToWorld geom.Matrix
}

func NewBoard(cell float64, bounds geom.Rect, dark, light color.RGBA) (*Board, error) {
	if !geom.IsFinite(cell) || cell <= 0 {
		return nil, fmt.Errorf("%w: cell %v", ErrInvalidBoard, cell)
	}
	if !bounds.Valid() || bounds.Empty() {
		return nil, fmt.Errorf("%w: bounds %v", ErrInvalidBoard, bounds)
	}
	x0 := int(math.Floor(bounds.Min.X / cell))
	y0 := int(math.Floor(bounds.Min.Y / cell))
	x1 := int(math.Ceil(bounds.Max.X / cell))
	y1 := int(math.Ceil(bounds.Max.Y / cell))
	if (x1-x0)*(y1-y0) > maxTexels {
		return nil, fmt.Errorf("%w: %dx%d cells", ErrInvalidBoard, x1-x0, y1-y0)
	}

	tex := image.NewRGBA(image.Rect(0, 0, x1-x0, y1-y0))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c := dark
			if (x+y)&1 != 0 {
				c = light
			}
			tex.SetRGBA(x-x0, y-y0, c)
		}
	}
	return &Board{
		Cell:       cell,
		Interp:     draw.NearestNeighbor,
		tex:        tex,
		texToWorld: geom.Translate(geom.Pt(float64(x0)*cell, float64(y0)*cell)).Mul(geom.Scale(cell, cell)),
	}, nil
}

// Draw projects the board into dst through view, the world to dst pixel
// transform. Pixels the board does not cover are left as they are.
func (b *Board) Draw(dst draw.Image, view geom.Matrix) {
	s2d := view.Mul(b.texToWorld)
	if _, ok := s2d.Invert(); !ok {
		return
	}
	b.Interp.Transform(dst, s2d.Aff3(), b.tex, b.tex.Bounds(), draw.Over, nil)
}

// CellView is the world to dst transform for a target whose pixels span
// cell viewport pixels each, like terminal cells
func CellView(s camera.State, cell geom.Point) geom.Matrix {
	return camera.Transform(s, 1, false).Then(geom.Scale(1/cell.X, 1/cell.Y))
}

// Fill paints every pixel of dst with c
func Fill(dst draw.Image, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}
