package geom

import "math"

// Rect is an axis-aligned rectangle. Min is inclusive, Max is inclusive.
type Rect struct {
	Min, Max Point
}

// RectFromPoints returns the smallest rect containing both points
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Min: Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// Canon returns r with Min and Max swapped where needed
func (r Rect) Canon() Rect {
	return RectFromPoints(r.Min, r.Max)
}

func (r Rect) Size() Point {
	return r.Max.Sub(r.Min)
}

func (r Rect) Center() Point {
	return r.Min.Mid(r.Max)
}

// Empty reports whether r has zero or negative area
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Valid reports whether Min <= Max on both axes and all coordinates are finite
func (r Rect) Valid() bool {
	return r.Min.IsFinite() && r.Max.IsFinite() && r.Min.X <= r.Max.X && r.Min.Y <= r.Max.Y
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Bounds returns the axis-aligned bounding box of pts
func Bounds(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// Intersect returns the overlap of r and s. The result is Empty when they
// do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	return Rect{
		Min: Point{math.Max(r.Min.X, s.Min.X), math.Max(r.Min.Y, s.Min.Y)},
		Max: Point{math.Min(r.Max.X, s.Max.X), math.Min(r.Max.Y, s.Max.Y)},
	}
}
