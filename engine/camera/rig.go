// Package camera owns the board camera: its state, the constraint
// pipelines every mutation passes through, animated transitions, and the
// notifications announcing committed changes.
package camera

import (
	"io"
	"log/slog"
	"math"

	"github.com/1siamBot/boardcam/engine/geom"
	"github.com/1siamBot/boardcam/engine/metrics"
	"github.com/1siamBot/boardcam/engine/observable"
	"github.com/1siamBot/boardcam/engine/pipeline"
)

// angles closer than this are treated as equal
const angleEpsilon = 1e-12

// Rig is the single mutator of a camera state. Operations are not safe for
// concurrent use; the host calls them from its update loop.
type Rig struct {
	state State
	cfg   Config

	customPan      []PanHandler
	customZoom     []ZoomHandler
	customRotation []RotationHandler

	pan      pipeline.Chain[geom.Point, Context]
	zoom     pipeline.Chain[float64, Context]
	rotation pipeline.Chain[float64, Context]

	anims [axisCount]*Animation

	events    *Events
	scheduler *observable.Scheduler
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Rig
type Option func(*Rig)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Rig) { r.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Rig) { r.metrics = m }
}

// WithScheduler queues notifications on s instead of a rig-owned scheduler
func WithScheduler(s *observable.Scheduler) Option {
	return func(r *Rig) { r.scheduler = s }
}

// WithPanHandlers adds pan constraints. They run in the given order after
// the axis lock and before the boundary clamp.
func WithPanHandlers(h ...PanHandler) Option {
	return func(r *Rig) { r.customPan = append(r.customPan, h...) }
}

// WithZoomHandlers adds zoom constraints. They run before the range clamp.
func WithZoomHandlers(h ...ZoomHandler) Option {
	return func(r *Rig) { r.customZoom = append(r.customZoom, h...) }
}

// WithRotationHandlers adds rotation constraints. They run after snapping
// and before the final normalization.
func WithRotationHandlers(h ...RotationHandler) Option {
	return func(r *Rig) { r.customRotation = append(r.customRotation, h...) }
}

// NewRig validates cfg and builds a rig. The initial position, zoom and
// rotation are run through the constraint pipelines without notifying.
func NewRig(cfg Config, opts ...Option) (*Rig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Rig{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.scheduler == nil {
		r.scheduler = observable.NewScheduler()
	}
	r.events = newEvents(
		observable.WithScheduler(r.scheduler),
		observable.WithLogger(r.logger),
		observable.WithFailureHandler(func(string, any) { r.metrics.IncrementListenerFailures() }),
	)
	r.rebuildPipelines()

	r.state = State{
		Position:  cfg.Position,
		Zoom:      cfg.Zoom,
		Rotation:  cfg.Rotation,
		Viewport:  cfg.Viewport,
		ZoomRange: cfg.ZoomRange,
	}
	if cfg.Boundaries != nil {
		r.state.Bounded = true
		r.state.Boundaries = *cfg.Boundaries
	}
	r.state = r.constrain(r.state)

	r.logger.Info("camera rig created",
		"viewport", cfg.Viewport,
		"zoom_min", cfg.ZoomRange.Min,
		"zoom_max", cfg.ZoomRange.Max,
		"bounded", r.state.Bounded,
	)
	return r, nil
}

func (r *Rig) rebuildPipelines() {
	r.pan = pipeline.NewChain(LockAxis(r.cfg.AxisLock)).
		Append(r.customPan...).
		Append(ClampToBoundaries)
	r.zoom = pipeline.NewChain(r.customZoom...).
		Append(ClampZoom)
	r.rotation = pipeline.NewChain[float64, Context](NormalizeRotation, SnapRotation(r.cfg.RotationSnap)).
		Append(r.customRotation...).
		Append(NormalizeRotation)
}

// constrain runs a whole candidate state through the pipelines
func (r *Rig) constrain(next State) State {
	ctx := Context{Before: r.state, State: next}
	next.Zoom = r.zoom.Apply(next.Zoom, ctx)
	ctx.State = next
	next.Rotation = r.rotation.Apply(next.Rotation, ctx)
	ctx.State = next
	next.Position = r.pan.Apply(next.Position, ctx)
	return next
}

// State returns a snapshot of the committed camera state
func (r *Rig) State() State {
	return r.state
}

// Config returns the configuration the rig currently runs with
func (r *Rig) Config() Config {
	c := r.cfg
	if c.Boundaries != nil {
		b := *c.Boundaries
		c.Boundaries = &b
	}
	return c
}

// Events exposes the notification channels
func (r *Rig) Events() *Events {
	return r.events
}

// Scheduler returns the queue notifications are delivered from
func (r *Rig) Scheduler() *observable.Scheduler {
	return r.scheduler
}

// Flush delivers queued notifications
func (r *Rig) Flush() int {
	return r.scheduler.Flush()
}

// PanBy moves the camera by a world-space delta
func (r *Rig) PanBy(delta geom.Point) bool {
	if !r.cfg.Enabled.Has(OpPan) || !delta.IsFinite() {
		return false
	}
	r.CancelAnimation(AxisPan)
	return r.applyPan(r.state.Position.Add(delta), AxisPan)
}

// PanByViewport moves the camera by a viewport-space delta, converted to
// world space with the current zoom and rotation
func (r *Rig) PanByViewport(delta geom.Point) bool {
	if !delta.IsFinite() {
		return false
	}
	return r.PanBy(r.state.ViewportDeltaToWorld(delta))
}

// PanTo centers the camera on a world point
func (r *Rig) PanTo(p geom.Point) bool {
	if !r.cfg.Enabled.Has(OpPan) || !p.IsFinite() {
		return false
	}
	r.CancelAnimation(AxisPan)
	return r.applyPan(p, AxisPan)
}

// ZoomByAt changes the zoom by delta while keeping the world point under
// the viewport pixel anchor in place
func (r *Rig) ZoomByAt(delta float64, anchor geom.Point) bool {
	if !r.cfg.Enabled.Has(OpZoom) || !geom.IsFinite(delta) || !anchor.IsFinite() {
		return false
	}
	r.CancelAnimation(AxisZoom)
	var candidate float64
	switch r.cfg.ZoomMode {
	case ZoomAdditive:
		candidate = r.state.Zoom + delta
	default:
		candidate = r.state.Zoom * (1 + delta)
	}
	return r.applyZoom(candidate, anchor)
}

// ZoomTo sets the zoom level keeping anchor in place
func (r *Rig) ZoomTo(zoom float64, anchor geom.Point) bool {
	if !r.cfg.Enabled.Has(OpZoom) || math.IsNaN(zoom) || !anchor.IsFinite() {
		return false
	}
	r.CancelAnimation(AxisZoom)
	return r.applyZoom(zoom, anchor)
}

// RotateBy turns the camera around the viewport center
func (r *Rig) RotateBy(delta float64) bool {
	return r.RotateByAt(delta, r.state.Center())
}

// RotateByAt turns the camera keeping the world point under anchor in place
func (r *Rig) RotateByAt(delta float64, anchor geom.Point) bool {
	if !r.cfg.Enabled.Has(OpRotate) || !geom.IsFinite(delta) || !anchor.IsFinite() {
		return false
	}
	r.CancelAnimation(AxisRotate)
	return r.applyRotation(r.state.Rotation+delta, anchor)
}

// RotateTo sets the rotation, turning around the viewport center
func (r *Rig) RotateTo(theta float64) bool {
	if !r.cfg.Enabled.Has(OpRotate) || !geom.IsFinite(theta) {
		return false
	}
	r.CancelAnimation(AxisRotate)
	return r.applyRotation(theta, r.state.Center())
}

func (r *Rig) applyPan(candidate geom.Point, axis Axis) bool {
	next := r.state
	next.Position = r.constrainPosition(candidate, next, axis)
	return r.commit(axis, next)
}

func (r *Rig) constrainPosition(candidate geom.Point, next State, axis Axis) geom.Point {
	p := r.pan.Apply(candidate, Context{Before: r.state, State: next})
	if p != candidate {
		r.metrics.IncrementClamp(axis.String())
		r.logger.Debug("camera position constrained",
			"axis", axis.String(),
			"requested", candidate,
			"committed", p,
		)
	}
	return p
}

func (r *Rig) applyZoom(candidate float64, anchor geom.Point) bool {
	next := r.state
	z := r.zoom.Apply(candidate, Context{Before: r.state, State: next})
	if z != candidate {
		r.metrics.IncrementClamp(AxisZoom.String())
		r.logger.Debug("camera zoom constrained", "requested", candidate, "committed", z)
	}
	if z == r.state.Zoom {
		return false
	}
	// world point under the anchor before the change stays under it after
	world := r.state.ViewportToWorld(anchor)
	next.Zoom = z
	next.Position = world.Sub(anchor.Sub(next.Center()).Scale(1 / z).Rotate(next.Rotation))
	next.Position = r.constrainPosition(next.Position, next, AxisZoom)
	return r.commit(AxisZoom, next)
}

func (r *Rig) applyRotation(candidate float64, anchor geom.Point) bool {
	next := r.state
	theta := r.rotation.Apply(candidate, Context{Before: r.state, State: next})
	if math.Abs(geom.ShortestAngle(r.state.Rotation, theta)) < angleEpsilon {
		return false
	}
	world := r.state.ViewportToWorld(anchor)
	next.Rotation = theta
	next.Position = world.Sub(anchor.Sub(next.Center()).Scale(1 / next.Zoom).Rotate(theta))
	next.Position = r.constrainPosition(next.Position, next, AxisRotate)
	return r.commit(AxisRotate, next)
}

func (r *Rig) commit(axis Axis, next State) bool {
	if next == r.state {
		return false
	}
	before := r.state
	r.state = next
	r.metrics.IncrementCommit(axis.String())
	r.events.notify(Change{Axis: axis, Before: before, After: next})
	return true
}

// commitConfig commits a state produced by a configuration change and
// notifies the channel of the most significant component that moved
func (r *Rig) commitConfig(next State) {
	axis := AxisNone
	switch {
	case next.Zoom != r.state.Zoom:
		axis = AxisZoom
	case next.Rotation != r.state.Rotation:
		axis = AxisRotate
	case next.Position != r.state.Position:
		axis = AxisPan
	}
	r.commit(axis, next)
}
