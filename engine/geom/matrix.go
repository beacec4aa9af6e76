package geom

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Matrix is a 2D affine transform stored row-major, the same layout as
// f64.Aff3 and ebiten.GeoM:
//
//	| m[0] m[1] m[2] |
//	| m[3] m[4] m[5] |
//	|  0    0    1   |
type Matrix f64.Aff3

// Identity returns the identity transform
func Identity() Matrix {
	return Matrix{1, 0, 0, 0, 1, 0}
}

func Translate(d Point) Matrix {
	return Matrix{1, 0, d.X, 0, 1, d.Y}
}

func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, 0, sy, 0}
}

// Rotate returns a rotation turning +X into +Y for positive theta
func Rotate(theta float64) Matrix {
	sin, cos := math.Sincos(theta)
	return Matrix{cos, -sin, 0, sin, cos, 0}
}

// Mul returns the composition m∘n: the result applies n first, then m
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[1]*n[3],
		m[0]*n[1] + m[1]*n[4],
		m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3],
		m[3]*n[1] + m[4]*n[4],
		m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

// Then returns a transform applying m first, then n
func (m Matrix) Then(n Matrix) Matrix {
	return n.Mul(m)
}

func (m Matrix) Apply(p Point) Point {
	return Point{
		m[0]*p.X + m[1]*p.Y + m[2],
		m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// ApplyVector transforms p ignoring the translation part
func (m Matrix) ApplyVector(p Point) Point {
	return Point{
		m[0]*p.X + m[1]*p.Y,
		m[3]*p.X + m[4]*p.Y,
	}
}

func (m Matrix) Det() float64 {
	return m[0]*m[4] - m[1]*m[3]
}

// Invert returns the inverse transform. ok is false when m is singular.
func (m Matrix) Invert() (inv Matrix, ok bool) {
	det := m.Det()
	if det == 0 || !isFinite(det) {
		return Identity(), false
	}
	id := 1 / det
	a := m[4] * id
	b := -m[1] * id
	d := -m[3] * id
	e := m[0] * id
	return Matrix{
		a, b, -(a*m[2] + b*m[5]),
		d, e, -(d*m[2] + e*m[5]),
	}, true
}

// Eq reports whether all elements are within eps
func (m Matrix) Eq(n Matrix, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-n[i]) > eps {
			return false
		}
	}
	return true
}

func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3(m)
}

// TRS is a transform split into scale, then rotation, then translation
type TRS struct {
	Translate Point
	Rotate    float64
	Scale     float64
}

// Matrix composes the components into a single transform
func (t TRS) Matrix() Matrix {
	return Translate(t.Translate).Mul(Rotate(t.Rotate)).Mul(Scale(t.Scale, t.Scale))
}
