package camera

import (
	"fmt"
	"time"

	"github.com/1siamBot/boardcam/engine/geom"
)

// SetViewport resizes the viewport. The position is re-constrained so the
// visible area stays inside the boundaries.
func (r *Rig) SetViewport(width, height float64) error {
	v := geom.Pt(width, height)
	if err := validateViewport(v); err != nil {
		return err
	}
	r.cfg.Viewport = v
	next := r.state
	next.Viewport = v
	r.commitConfig(r.constrain(next))
	return nil
}

// SetBoundaries replaces the boundary rectangle; nil removes it
func (r *Rig) SetBoundaries(b *geom.Rect) error {
	if err := validateBoundaries(b); err != nil {
		return err
	}
	next := r.state
	if b == nil {
		r.cfg.Boundaries = nil
		next.Bounded = false
		next.Boundaries = geom.Rect{}
	} else {
		cp := *b
		r.cfg.Boundaries = &cp
		next.Bounded = true
		next.Boundaries = cp
	}
	r.commitConfig(r.constrain(next))
	return nil
}

// SetZoomRange replaces the zoom limits, clamping the current zoom into them
func (r *Rig) SetZoomRange(zr ZoomRange) error {
	if err := zr.Validate(); err != nil {
		return err
	}
	r.cfg.ZoomRange = zr
	next := r.state
	next.ZoomRange = zr
	r.commitConfig(r.constrain(next))
	return nil
}

// SetRotationSnap changes the snapping step; 0 disables snapping
func (r *Rig) SetRotationSnap(step float64) error {
	if err := validateRotationSnap(step); err != nil {
		return err
	}
	r.cfg.RotationSnap = step
	r.rebuildPipelines()
	r.commitConfig(r.constrain(r.state))
	return nil
}

// SetAxisLock changes which position coordinate is pinned
func (r *Rig) SetAxisLock(lock AxisLock) {
	r.cfg.AxisLock = lock
	r.rebuildPipelines()
}

// SetEnabled selects which operations are accepted. Disabling an operation
// cancels its in-flight animation.
func (r *Rig) SetEnabled(ops Ops) {
	r.cfg.Enabled = ops
	if !ops.Has(OpPan) {
		r.CancelAnimation(AxisPan)
	}
	if !ops.Has(OpZoom) {
		r.CancelAnimation(AxisZoom)
	}
	if !ops.Has(OpRotate) {
		r.CancelAnimation(AxisRotate)
	}
}

func (r *Rig) SetZoomMode(mode ZoomMode) {
	r.cfg.ZoomMode = mode
}

// SetAnimationDefaults changes the duration and easing used when an
// animation request does not override them
func (r *Rig) SetAnimationDefaults(d time.Duration, e Easing) error {
	if d < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAnimation, d)
	}
	r.cfg.AnimationDuration = d
	if e != nil {
		r.cfg.Easing = e
	}
	return nil
}
