package camera

import (
	"math"
	"time"

	"github.com/1siamBot/boardcam/engine/geom"
)

// Easing maps normalized time [0, 1] to normalized progress
type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

func EaseOutQuad(t float64) float64 { return t * (2 - t) }

func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := 2*t - 2
	return 0.5*f*f*f + 1
}

func EaseOutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

// Animation is the handle of a running camera transition. It is advanced by
// Rig.Tick and stops when it reaches its target, when cancelled, or when a
// newer animation starts on the same axis.
type Animation struct {
	axis     Axis
	duration time.Duration
	elapsed  time.Duration
	easing   Easing
	anchor   *geom.Point
	onDone   func(cancelled bool)

	fromPos, toPos geom.Point
	from, to       float64

	done      bool
	cancelled bool
	rig       *Rig
}

func (a *Animation) Axis() Axis { return a.axis }

// Done reports whether the animation stopped, either finished or cancelled
func (a *Animation) Done() bool { return a.done }

func (a *Animation) Cancelled() bool { return a.cancelled }

// Progress returns the normalized elapsed time in [0, 1]
func (a *Animation) Progress() float64 {
	if a.duration <= 0 {
		if a.done {
			return 1
		}
		return 0
	}
	return math.Min(1, float64(a.elapsed)/float64(a.duration))
}

// Cancel stops the animation where it is. Already committed frames stay.
func (a *Animation) Cancel() {
	if a.done {
		return
	}
	if a.rig != nil && a.rig.anims[a.axis] == a {
		a.rig.anims[a.axis] = nil
	}
	a.finish(true)
}

func (a *Animation) finish(cancelled bool) {
	a.done = true
	a.cancelled = cancelled
	if a.rig != nil {
		outcome := "finished"
		if cancelled {
			outcome = "cancelled"
		}
		a.rig.metrics.IncrementAnimation(a.axis.String(), outcome)
		a.rig.logger.Debug("camera animation stopped", "axis", a.axis.String(), "outcome", outcome)
	}
	if a.onDone != nil {
		a.onDone(cancelled)
	}
}

// AnimOption configures one animation request
type AnimOption func(*Animation)

func WithDuration(d time.Duration) AnimOption {
	return func(a *Animation) {
		if d < 0 {
			d = 0
		}
		a.duration = d
	}
}

func WithEasing(e Easing) AnimOption {
	return func(a *Animation) {
		if e != nil {
			a.easing = e
		}
	}
}

// WithAnchor keeps the given viewport pixel fixed during zoom and rotation
// animations. The default anchor is the viewport center.
func WithAnchor(p geom.Point) AnimOption {
	return func(a *Animation) { a.anchor = &p }
}

// OnDone is called once when the animation finishes or is cancelled
func OnDone(fn func(cancelled bool)) AnimOption {
	return func(a *Animation) { a.onDone = fn }
}

func (r *Rig) newAnimation(axis Axis, opts []AnimOption) *Animation {
	a := &Animation{
		axis:     axis,
		duration: r.cfg.AnimationDuration,
		easing:   r.cfg.Easing,
		rig:      r,
	}
	if a.easing == nil {
		a.easing = Linear
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PanToAnimated moves the camera position to target over time
func (r *Rig) PanToAnimated(target geom.Point, opts ...AnimOption) *Animation {
	a := r.newAnimation(AxisPan, opts)
	a.fromPos = r.state.Position
	a.toPos = target
	return r.startAnimation(a, target.IsFinite() && r.cfg.Enabled.Has(OpPan))
}

// ZoomToAnimated changes the zoom level to target over time. Interpolation
// runs in log space so equal times give equal magnification ratios.
func (r *Rig) ZoomToAnimated(target float64, opts ...AnimOption) *Animation {
	a := r.newAnimation(AxisZoom, opts)
	a.from = r.state.Zoom
	a.to = target
	ok := geom.IsFinite(target) && target > 0 && r.cfg.Enabled.Has(OpZoom)
	return r.startAnimation(a, ok)
}

// RotateToAnimated turns the camera to target along the shortest arc
func (r *Rig) RotateToAnimated(target float64, opts ...AnimOption) *Animation {
	a := r.newAnimation(AxisRotate, opts)
	a.from = r.state.Rotation
	a.to = a.from + geom.ShortestAngle(a.from, target)
	return r.startAnimation(a, geom.IsFinite(target) && r.cfg.Enabled.Has(OpRotate))
}

func (r *Rig) startAnimation(a *Animation, ok bool) *Animation {
	r.CancelAnimation(a.axis)
	if !ok {
		a.rig = nil
		a.done = true
		a.cancelled = true
		if a.onDone != nil {
			a.onDone(true)
		}
		return a
	}
	r.metrics.IncrementAnimation(a.axis.String(), "started")
	r.logger.Debug("camera animation started", "axis", a.axis.String(), "duration", a.duration)
	if a.duration <= 0 {
		r.applyFrame(a, 1)
		a.finish(false)
		return a
	}
	r.anims[a.axis] = a
	return a
}

// CancelAnimation cancels the in-flight animation on axis, if any
func (r *Rig) CancelAnimation(axis Axis) {
	if axis >= axisCount {
		return
	}
	if a := r.anims[axis]; a != nil {
		a.Cancel()
	}
}

// CancelAnimations cancels every in-flight animation
func (r *Rig) CancelAnimations() {
	for axis := Axis(0); axis < axisCount; axis++ {
		r.CancelAnimation(axis)
	}
}

// Animating reports whether an animation is in flight on axis
func (r *Rig) Animating(axis Axis) bool {
	return axis < axisCount && r.anims[axis] != nil
}

// Tick advances every in-flight animation by dt. Each frame commits through
// the same constraint pipelines as direct operations.
func (r *Rig) Tick(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	for axis := Axis(0); axis < axisCount; axis++ {
		a := r.anims[axis]
		if a == nil {
			continue
		}
		a.elapsed += dt
		t := a.Progress()
		r.applyFrame(a, t)
		if t >= 1 && r.anims[axis] == a {
			r.anims[axis] = nil
			a.finish(false)
		}
	}
}

func (r *Rig) applyFrame(a *Animation, t float64) {
	e := a.easing(t)
	if t >= 1 {
		e = 1
	}
	anchor := r.state.Center()
	if a.anchor != nil {
		anchor = *a.anchor
	}
	switch a.axis {
	case AxisPan:
		r.applyPan(a.fromPos.Lerp(a.toPos, e), AxisPan)
	case AxisZoom:
		z := a.to
		if e < 1 {
			z = math.Exp(math.Log(a.from) + (math.Log(a.to)-math.Log(a.from))*e)
		}
		r.applyZoom(z, anchor)
	case AxisRotate:
		r.applyRotation(a.from+(a.to-a.from)*e, anchor)
	}
}
