package camera

import "github.com/1siamBot/boardcam/engine/geom"

// State is a read-only snapshot of the camera. It is a plain value; holding
// one never gives access to the rig's live state.
type State struct {
	Position geom.Point // world point at the viewport center
	Zoom     float64
	Rotation float64 // radians in [-π, π]
	Viewport geom.Point

	Bounded    bool
	Boundaries geom.Rect
	ZoomRange  ZoomRange
}

// Center returns the viewport center in viewport pixels
func (s State) Center() geom.Point {
	return s.Viewport.Scale(0.5)
}

// ViewportToWorld maps a viewport pixel to the world point under it
func (s State) ViewportToWorld(v geom.Point) geom.Point {
	return s.Position.Add(v.Sub(s.Center()).Scale(1 / s.Zoom).Rotate(s.Rotation))
}

// WorldToViewport maps a world point to the viewport pixel it is drawn at
func (s State) WorldToViewport(w geom.Point) geom.Point {
	return w.Sub(s.Position).Rotate(-s.Rotation).Scale(s.Zoom).Add(s.Center())
}

// ViewportDeltaToWorld converts a viewport-space displacement to world space
func (s State) ViewportDeltaToWorld(d geom.Point) geom.Point {
	return d.Scale(1 / s.Zoom).Rotate(s.Rotation)
}

// HalfExtents returns half the size of the world-space box covered by the
// rotated viewport
func (s State) HalfExtents() geom.Point {
	return halfExtents(s.Viewport, s.Zoom, s.Rotation)
}

// VisibleBounds returns the world-space bounding box of the viewport
func (s State) VisibleBounds() geom.Rect {
	w, h := s.Viewport.X, s.Viewport.Y
	return geom.Bounds(
		s.ViewportToWorld(geom.Pt(0, 0)),
		s.ViewportToWorld(geom.Pt(w, 0)),
		s.ViewportToWorld(geom.Pt(0, h)),
		s.ViewportToWorld(geom.Pt(w, h)),
	)
}

// Axis names the camera component a change or animation targets
type Axis uint8

const (
	AxisPan Axis = iota
	AxisZoom
	AxisRotate
	// AxisNone marks configuration changes that left position, zoom and
	// rotation untouched
	AxisNone

	axisCount = AxisNone
)

func (a Axis) String() string {
	switch a {
	case AxisPan:
		return "pan"
	case AxisZoom:
		return "zoom"
	case AxisRotate:
		return "rotate"
	}
	return "none"
}

// Change is the payload of every camera notification
type Change struct {
	Axis   Axis
	Before State
	After  State
}
