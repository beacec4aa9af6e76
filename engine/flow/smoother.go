package flow

import (
	"math"
	"time"

	"github.com/1siamBot/boardcam/engine/camera"
	"github.com/1siamBot/boardcam/engine/geom"
)

const (
	DefaultTimeConstant = 60 * time.Millisecond
	DefaultStopSpeed    = 5.0 // viewport px per second

	// remainders below these are applied in one step
	settlePan  = 0.01
	settleZoom = 1e-5
	settleRot  = 1e-6
)

// Smoother accumulates input and hands it to its target progressively on
// each Tick, easing out over a time constant. With inertia enabled a pan
// keeps coasting after input stops, slowed by friction.
type Smoother struct {
	target    Target
	tau       time.Duration
	friction  float64
	stopSpeed float64

	pan      geom.Point
	velocity geom.Point

	zoom       float64 // log of the pending magnification
	zoomAnchor geom.Point

	rotation  float64
	rotOwed   float64 // handed out but not yet committed by the target
	rotAnchor *geom.Point
}

// SmootherOption configures a Smoother
type SmootherOption func(*Smoother)

// WithTimeConstant sets how quickly pending input is consumed; about 63% of
// it reaches the target within one time constant. Zero applies everything
// on the next Tick.
func WithTimeConstant(d time.Duration) SmootherOption {
	return func(s *Smoother) {
		if d < 0 {
			d = 0
		}
		s.tau = d
	}
}

// WithInertia enables pan coasting. friction is the exponential decay rate
// of the coasting velocity per second.
func WithInertia(friction float64) SmootherOption {
	return func(s *Smoother) {
		if geom.IsFinite(friction) && friction > 0 {
			s.friction = friction
		}
	}
}

// WithStopSpeed sets the coasting speed, in viewport px per second, below
// which inertia stops
func WithStopSpeed(v float64) SmootherOption {
	return func(s *Smoother) {
		if geom.IsFinite(v) && v >= 0 {
			s.stopSpeed = v
		}
	}
}

func NewSmoother(target Target, opts ...SmootherOption) *Smoother {
	s := &Smoother{
		target:    target,
		tau:       DefaultTimeConstant,
		stopSpeed: DefaultStopSpeed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Smoother) NotifyPanInput(delta geom.Point) {
	if !delta.IsFinite() {
		return
	}
	s.pan = s.pan.Add(delta)
}

func (s *Smoother) NotifyZoomInput(deltaZoom float64, anchor geom.Point) {
	if !geom.IsFinite(deltaZoom) || !anchor.IsFinite() {
		return
	}
	if deltaZoom <= -1 {
		// no finite log; let the rig clamp it right away
		s.zoom = 0
		s.target.ZoomByAt(deltaZoom, anchor)
		return
	}
	s.zoom += math.Log1p(deltaZoom)
	s.zoomAnchor = anchor
}

func (s *Smoother) NotifyRotationInput(deltaRotation float64) {
	if !geom.IsFinite(deltaRotation) {
		return
	}
	s.rotation += deltaRotation
	s.rotAnchor = nil
}

func (s *Smoother) NotifyRotationInputAt(deltaRotation float64, anchor geom.Point) {
	if !geom.IsFinite(deltaRotation) || !anchor.IsFinite() {
		return
	}
	s.rotation += deltaRotation
	s.rotAnchor = &anchor
}

func (s *Smoother) View() camera.State {
	return s.target.State()
}

// Halt drops pending input and stops coasting. Hosts call it when a pointer
// grabs the board.
func (s *Smoother) Halt() {
	s.pan = geom.Point{}
	s.velocity = geom.Point{}
	s.zoom = 0
	s.rotation = 0
	s.rotOwed = 0
}

// Idle reports whether nothing is pending and the board is not coasting
func (s *Smoother) Idle() bool {
	return s.pan.IsZero() && s.velocity.IsZero() && s.zoom == 0 && s.rotation == 0
}

// Tick hands the share of pending input due after dt to the target
func (s *Smoother) Tick(dt time.Duration) {
	sec := dt.Seconds()
	if sec <= 0 {
		return
	}
	f := 1.0
	if s.tau > 0 {
		f = -math.Expm1(-sec / s.tau.Seconds())
	}
	s.tickPan(f, sec)
	s.tickZoom(f)
	s.tickRotation(f)
}

func (s *Smoother) tickPan(f, sec float64) {
	switch {
	case !s.pan.IsZero():
		step := s.pan.Scale(f)
		if s.pan.Sub(step).Len() < settlePan {
			step = s.pan
		}
		s.pan = s.pan.Sub(step)
		s.target.PanByViewport(step.Neg())
		if s.friction > 0 {
			s.velocity = step.Scale(1 / sec)
		}
	case !s.velocity.IsZero():
		step := s.velocity.Scale(sec)
		moved := s.target.PanByViewport(step.Neg())
		s.velocity = s.velocity.Scale(math.Exp(-s.friction * sec))
		if !moved || s.velocity.Len() < s.stopSpeed {
			s.velocity = geom.Point{}
		}
	}
}

func (s *Smoother) tickZoom(f float64) {
	if s.zoom == 0 {
		return
	}
	step := s.zoom * f
	if math.Abs(s.zoom-step) < settleZoom {
		step = s.zoom
	}
	s.zoom -= step
	s.target.ZoomByAt(math.Expm1(step), s.zoomAnchor)
}

// tickRotation hands out rotation the target has not committed yet along
// with the new share, so a snapping target still turns once the owed angle
// rounds to the next step. Whatever is still owed when the pending input
// runs out is dropped.
func (s *Smoother) tickRotation(f float64) {
	if s.rotation == 0 {
		return
	}
	step := s.rotation * f
	if math.Abs(s.rotation-step) < settleRot {
		step = s.rotation
	}
	s.rotation -= step
	s.rotOwed -= step

	before := s.target.State().Rotation
	var committed bool
	if s.rotAnchor != nil {
		committed = s.target.RotateByAt(s.rotOwed, *s.rotAnchor)
	} else {
		committed = s.target.RotateBy(s.rotOwed)
	}
	if committed {
		s.rotOwed -= geom.ShortestAngle(before, s.target.State().Rotation)
	}
	if s.rotation == 0 {
		s.rotOwed = 0
	}
}
