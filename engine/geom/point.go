package geom

import "math"

// Point is a 2D position or vector. Values are never mutated in place.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

func (p Point) Neg() Point {
	return Point{-p.X, -p.Y}
}

// Len returns the euclidean length of p as a vector
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist returns the distance between p and q
func (p Point) Dist(q Point) float64 {
	return q.Sub(p).Len()
}

// Angle returns the direction of p as a vector, in radians
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// Mid returns the midpoint between p and q
func (p Point) Mid(q Point) Point {
	return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2}
}

// Lerp interpolates from p to q, t=0 yields p and t=1 yields q
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Rotate rotates p around the origin. Positive angles turn +X into +Y.
func (p Point) Rotate(theta float64) Point {
	if theta == 0 {
		return p
	}
	sin, cos := math.Sincos(theta)
	return Point{p.X*cos - p.Y*sin, p.X*sin + p.Y*cos}
}

// Eq reports whether p and q are within eps of each other on both axes
func (p Point) Eq(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// IsFinite reports whether both coordinates are neither NaN nor infinite
func (p Point) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return isFinite(v)
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
