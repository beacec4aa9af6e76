package camera

import (
	"math"

	"github.com/1siamBot/boardcam/engine/geom"
	"github.com/1siamBot/boardcam/engine/pipeline"
)

// Context is passed to every constraint handler alongside the candidate value
type Context struct {
	// Before is the committed state the operation started from
	Before State
	// State is the state the candidate will be committed into. Components
	// already decided by the operation (the new zoom when a zoom recomputes
	// the position) are set here.
	State State
}

type (
	PanHandler      = pipeline.Handler[geom.Point, Context]
	ZoomHandler     = pipeline.Handler[float64, Context]
	RotationHandler = pipeline.Handler[float64, Context]
)

// ClampToBoundaries keeps the rotated, zoomed viewport inside the
// boundary rectangle. An axis on which the viewport is larger than the
// boundary is centered.
func ClampToBoundaries(p geom.Point, ctx Context) geom.Point {
	st := ctx.State
	if !st.Bounded {
		return p
	}
	half := halfExtents(st.Viewport, st.Zoom, st.Rotation)
	b := st.Boundaries
	return geom.Pt(
		clampAxis(p.X, b.Min.X+half.X, b.Max.X-half.X),
		clampAxis(p.Y, b.Min.Y+half.Y, b.Max.Y-half.Y),
	)
}

func clampAxis(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return geom.Clamp(v, lo, hi)
}

func halfExtents(viewport geom.Point, zoom, rotation float64) geom.Point {
	sin, cos := math.Sincos(rotation)
	sin, cos = math.Abs(sin), math.Abs(cos)
	return geom.Pt(
		(cos*viewport.X+sin*viewport.Y)/(2*zoom),
		(sin*viewport.X+cos*viewport.Y)/(2*zoom),
	)
}

// LockAxis returns a pan handler keeping one coordinate at its current value
func LockAxis(lock AxisLock) PanHandler {
	return func(p geom.Point, ctx Context) geom.Point {
		switch lock {
		case LockX:
			p.X = ctx.Before.Position.X
		case LockY:
			p.Y = ctx.Before.Position.Y
		}
		return p
	}
}

// ClampZoom enforces the zoom range. NaN and non-positive values resolve
// to the range minimum.
func ClampZoom(z float64, ctx Context) float64 {
	r := ctx.State.ZoomRange
	if math.IsNaN(z) || z <= 0 {
		return r.Min
	}
	return geom.Clamp(z, r.Min, r.Max)
}

// NormalizeRotation wraps the angle into [-π, π]
func NormalizeRotation(theta float64, _ Context) float64 {
	return geom.NormalizeAngle(theta)
}

// SnapRotation rounds the angle to the nearest multiple of step.
// SnapRotation(math.Pi/2) locks the camera to cardinal directions.
func SnapRotation(step float64) RotationHandler {
	return func(theta float64, _ Context) float64 {
		if step <= 0 {
			return theta
		}
		return math.Round(theta/step) * step
	}
}

// FixedRotation disables rotation by always returning the committed angle
func FixedRotation(_ float64, ctx Context) float64 {
	return ctx.Before.Rotation
}
