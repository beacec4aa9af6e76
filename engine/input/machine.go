// Package input turns raw pointer, wheel, gesture and key events into camera
// intents.
//
// Machine is an explicit state machine. Each event is processed to
// completion, state transition and intent dispatch included, before
// Process returns. Intents go to a flow.Controller; the machine never
// touches a camera directly.
package input

import (
	"io"
	"log/slog"
	"math"
	"time"
	"unicode"

	"github.com/1siamBot/boardcam/engine/flow"
	"github.com/1siamBot/boardcam/engine/geom"
	"github.com/1siamBot/boardcam/engine/metrics"
)

type pointer struct {
	id     int
	button Button
	pos    geom.Point
	start  geom.Point
	downAt time.Duration
}

// Machine is the input interpretation state machine
type Machine struct {
	ctrl     flow.Controller
	cfg      Config
	classify WheelClassifier

	state State
	// pointers in press order; the first one drives panning, the first
	// two drive a pinch
	pointers []pointer

	// Click vs drag for the driving pointer
	travel    float64
	pending   geom.Point
	deferring bool
	pressMods Mods

	pinch     Pinch
	prevDist  float64
	prevAngle float64
	prevMid   geom.Point

	gestureScale    float64
	gestureRotation float64

	viewport geom.Point
	out      []Intent

	logger       *slog.Logger
	metrics      *metrics.Metrics
	onSelect     func(Selection)
	onTransition func(from, to State)
}

// Option configures a Machine
type Option func(*Machine)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) { m.logger = logger }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Machine) { m.metrics = mt }
}

// WithSelectHandler is called for every click or selection box
func WithSelectHandler(fn func(Selection)) Option {
	return func(m *Machine) { m.onSelect = fn }
}

// WithTransitionHook is called after every state change
func WithTransitionHook(fn func(from, to State)) Option {
	return func(m *Machine) { m.onTransition = fn }
}

// NewMachine creates a machine that dispatches intents to ctrl
func NewMachine(ctrl flow.Controller, cfg Config, opts ...Option) (*Machine, error) {
	if ctrl == nil {
		return nil, ErrNilController
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Machine{
		ctrl:     ctrl,
		cfg:      cfg,
		classify: cfg.Classifier,
	}
	if m.classify == nil {
		m.classify = ClassifyWheel
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return m, nil
}

func (m *Machine) State() State {
	return m.state
}

// Pinch returns the values captured when the current pinch started
func (m *Machine) Pinch() (Pinch, bool) {
	return m.pinch, m.state == StatePinching
}

// Selecting returns the selection box being dragged, in viewport pixels
func (m *Machine) Selecting() (geom.Rect, bool) {
	if m.state != StateSelectingOrClicking || len(m.pointers) == 0 {
		return geom.Rect{}, false
	}
	p := m.pointers[0]
	return geom.RectFromPoints(p.start, p.pos), true
}

// SetViewport tells the machine the viewport size; key zooms anchor at its
// center and page wheel deltas scroll by its height
func (m *Machine) SetViewport(size geom.Point) {
	if size.IsFinite() {
		m.viewport = size
	}
}

// Reset forgets every pointer and returns to Idle. Hosts call it when an
// input device disconnects or the window loses focus.
func (m *Machine) Reset() {
	m.pointers = m.pointers[:0]
	m.travel = 0
	m.pending = geom.Point{}
	m.deferring = false
	m.gestureScale = 0
	m.gestureRotation = 0
	m.setState(StateIdle)
}

// Process handles one event and returns the intents it dispatched
func (m *Machine) Process(ev Event) []Intent {
	m.out = nil
	switch ev.Kind {
	case EventPointerDown, EventPointerMove, EventPointerUp, EventPointerCancel:
		if !ev.Pos.IsFinite() {
			m.anomaly("non-finite pointer position", ev)
			return nil
		}
	}
	switch ev.Kind {
	case EventPointerDown:
		m.pointerDown(ev)
	case EventPointerMove:
		m.pointerMove(ev)
	case EventPointerUp:
		m.pointerUp(ev)
	case EventPointerCancel:
		m.pointerCancel(ev)
	case EventWheel:
		m.wheel(ev)
	case EventKeyDown:
		m.keyDown(ev)
	case EventGestureStart, EventGestureChange, EventGestureEnd:
		m.gesture(ev)
	}
	return m.out
}

func (m *Machine) pointerDown(ev Event) {
	if m.find(ev.PointerID) >= 0 {
		m.anomaly("duplicate pointer down", ev)
		return
	}
	m.pointers = append(m.pointers, pointer{
		id:     ev.PointerID,
		button: ev.Button,
		pos:    ev.Pos,
		start:  ev.Pos,
		downAt: ev.Time,
	})

	switch m.state {
	case StatePinching:
		// third and later pointers are tracked but do not steer
		return
	case StatePanningWithLeftPointer, StatePanningWithMiddlePointer, StateSelectingOrClicking:
		m.startPinch()
		return
	case StateAwaitingTrackpadGesture:
		m.gestureScale = 0
		m.gestureRotation = 0
	}
	if len(m.pointers) >= 2 {
		m.startPinch()
		return
	}

	m.travel = 0
	m.pending = geom.Point{}
	m.deferring = false
	m.pressMods = ev.Mods
	switch ev.Button {
	case ButtonPrimary:
		if ev.Mods.Has(m.cfg.SelectModifier) {
			m.setState(StateSelectingOrClicking)
			return
		}
		m.deferring = true
		m.setState(StatePanningWithLeftPointer)
	case ButtonMiddle:
		m.setState(StatePanningWithMiddlePointer)
	default:
		// kept so that a second pointer can still start a pinch
		m.setState(StateIdle)
	}
}

func (m *Machine) pointerMove(ev Event) {
	i := m.find(ev.PointerID)
	if i < 0 {
		return
	}
	delta := ev.Pos.Sub(m.pointers[i].pos)
	m.pointers[i].pos = ev.Pos
	if delta.IsZero() {
		return
	}
	switch m.state {
	case StatePanningWithLeftPointer, StatePanningWithMiddlePointer:
		if i == 0 {
			m.drag(delta)
		}
	case StateSelectingOrClicking:
		if i == 0 {
			m.travel += delta.Len()
		}
	case StatePinching:
		if i < 2 {
			m.pinchMove()
		}
	}
}

// drag holds pan output back until the pointer has travelled the click
// distance, then replays what was held as one pan
func (m *Machine) drag(delta geom.Point) {
	m.travel += delta.Len()
	if !m.deferring {
		m.emitPan(delta)
		return
	}
	m.pending = m.pending.Add(delta)
	if m.travel >= m.cfg.ClickDistance {
		m.deferring = false
		m.emitPan(m.pending)
		m.pending = geom.Point{}
	}
}

func (m *Machine) pointerUp(ev Event) {
	i := m.find(ev.PointerID)
	if i < 0 {
		m.anomaly("unmatched pointer up", ev)
		m.Reset()
		return
	}
	// the release position is the last movement of the pointer
	m.pointerMove(ev)
	p := m.pointers[i]
	m.remove(i)

	switch m.state {
	case StatePanningWithLeftPointer:
		m.releaseLeft(p, ev.Time)
		m.setState(StateIdle)
	case StatePanningWithMiddlePointer:
		m.setState(StateIdle)
	case StateSelectingOrClicking:
		m.emitSelect(m.selection(p, ev.Time))
		m.setState(StateIdle)
	case StatePinching:
		if i < 2 {
			m.liftPinchPointer()
		}
	}
}

// releaseLeft resolves a primary press that never left the click distance:
// a quick release is a click, a slow one replays the held movement as a pan
func (m *Machine) releaseLeft(p pointer, now time.Duration) {
	if !m.deferring {
		return
	}
	m.deferring = false
	sel := m.selection(p, now)
	if sel.Click {
		m.emitSelect(sel)
	} else if !m.pending.IsZero() {
		m.emitPan(m.pending)
	}
	m.pending = geom.Point{}
}

func (m *Machine) selection(p pointer, now time.Duration) Selection {
	return Selection{
		Rect:   geom.RectFromPoints(p.start, p.pos),
		Click:  m.travel < m.cfg.ClickDistance && now-p.downAt < m.cfg.ClickDuration,
		Button: p.button,
		Mods:   m.pressMods,
	}
}

func (m *Machine) liftPinchPointer() {
	switch len(m.pointers) {
	case 0:
		m.setState(StateIdle)
	case 1:
		m.pointers[0].start = m.pointers[0].pos
		m.travel = 0
		m.pending = geom.Point{}
		m.deferring = false
		m.setState(StatePanningWithLeftPointer)
	default:
		m.startPinch()
	}
}

func (m *Machine) pointerCancel(ev Event) {
	i := m.find(ev.PointerID)
	switch {
	case i < 0:
		m.anomaly("unmatched pointer cancel", ev)
	case m.state == StatePinching && i >= 2:
		m.remove(i)
		return
	}
	m.Reset()
}

func (m *Machine) startPinch() {
	a, b := m.pointers[0].pos, m.pointers[1].pos
	m.pending = geom.Point{}
	m.deferring = false

	m.pinch = Pinch{
		InitialDistance: a.Dist(b),
		InitialAngle:    b.Sub(a).Angle(),
	}
	if st, ok := flow.View(m.ctrl); ok {
		m.pinch.InitialZoom = st.Zoom
		m.pinch.InitialRotation = st.Rotation
	}
	m.prevDist = m.pinch.InitialDistance
	m.prevAngle = m.pinch.InitialAngle
	m.prevMid = a.Mid(b)
	m.setState(StatePinching)
}

func (m *Machine) pinchMove() {
	a, b := m.pointers[0].pos, m.pointers[1].pos
	mid := a.Mid(b)
	if m.cfg.PinchPan {
		if d := mid.Sub(m.prevMid); !d.IsZero() {
			m.emitPan(d)
		}
	}
	m.prevMid = mid

	dist := a.Dist(b)
	angle := b.Sub(a).Angle()
	if dist == 0 {
		// coincident pointers have neither ratio nor angle
		m.prevDist = 0
		return
	}
	if m.pinch.InitialDistance == 0 {
		m.pinch.InitialDistance = dist
		m.pinch.InitialAngle = angle
	}
	if m.prevDist == 0 {
		m.prevDist = dist
		m.prevAngle = angle
		return
	}

	m.emitZoom(dist/m.prevDist-1, dist/m.pinch.InitialDistance, mid)
	m.emitRotate(
		geom.ShortestAngle(m.prevAngle, angle),
		geom.ShortestAngle(m.pinch.InitialAngle, angle),
		mid, true,
	)
	m.prevDist = dist
	m.prevAngle = angle
}

func (m *Machine) wheel(ev Event) {
	if m.state != StateIdle && m.state != StateAwaitingTrackpadGesture {
		return
	}
	if !ev.Delta.IsFinite() {
		return
	}
	px := m.wheelPixels(ev)
	if px.IsZero() {
		return
	}

	switch m.classify(ev) {
	case WheelFromPinch:
		resume := m.state
		m.setState(StateAwaitingTrackpadGesture)
		z := math.Expm1(-px.Y * m.cfg.PinchZoomSpeed)
		if z != 0 {
			m.emitZoom(z, 1+z, ev.Pos)
		}
		m.setState(resume)
	case WheelFromTrackpad:
		m.emitPan(px.Neg().Scale(m.cfg.WheelPanSpeed))
	default:
		if m.cfg.WheelMode == WheelPan {
			m.emitPan(px.Neg().Scale(m.cfg.WheelPanSpeed))
			return
		}
		if z := math.Expm1(-px.Y * m.cfg.WheelZoomSpeed); z != 0 {
			m.emitZoom(z, 1+z, ev.Pos)
		}
	}
}

func (m *Machine) wheelPixels(ev Event) geom.Point {
	switch ev.DeltaMode {
	case DeltaLine:
		return ev.Delta.Scale(m.cfg.LineHeight)
	case DeltaPage:
		h := m.cfg.PageHeight
		if m.viewport.Y > 0 {
			h = m.viewport.Y
		}
		return ev.Delta.Scale(h)
	}
	return ev.Delta
}

func (m *Machine) gesture(ev Event) {
	switch ev.Kind {
	case EventGestureStart:
		if m.state != StateIdle {
			return
		}
		m.gestureScale = 1
		if ev.Scale > 0 && geom.IsFinite(ev.Scale) {
			m.gestureScale = ev.Scale
		}
		m.gestureRotation = 0
		if geom.IsFinite(ev.Rotation) {
			m.gestureRotation = ev.Rotation
		}
		m.setState(StateAwaitingTrackpadGesture)

	case EventGestureChange:
		if m.state != StateAwaitingTrackpadGesture || !ev.Pos.IsFinite() {
			return
		}
		if ev.Scale > 0 && geom.IsFinite(ev.Scale) && m.gestureScale > 0 {
			if r := ev.Scale / m.gestureScale; r != 1 {
				m.emitZoom(r-1, ev.Scale, ev.Pos)
			}
			m.gestureScale = ev.Scale
		}
		if geom.IsFinite(ev.Rotation) {
			if d := ev.Rotation - m.gestureRotation; d != 0 {
				m.emitRotate(d, ev.Rotation, ev.Pos, true)
			}
			m.gestureRotation = ev.Rotation
		}

	case EventGestureEnd:
		if m.state == StateAwaitingTrackpadGesture {
			m.gestureScale = 0
			m.gestureRotation = 0
			m.setState(StateIdle)
		}
	}
}

func (m *Machine) keyDown(ev Event) {
	k := ev.Key
	if k < KeyLeft {
		k = Key(unicode.ToLower(rune(k)))
	}
	pan := m.cfg.KeyPanStep
	rot := m.cfg.KeyRotateStep
	switch m.cfg.Bindings[k] {
	case ActionPanLeft:
		m.emitPan(geom.Pt(pan, 0))
	case ActionPanRight:
		m.emitPan(geom.Pt(-pan, 0))
	case ActionPanUp:
		m.emitPan(geom.Pt(0, pan))
	case ActionPanDown:
		m.emitPan(geom.Pt(0, -pan))
	case ActionZoomIn:
		z := m.cfg.KeyZoomStep
		m.emitZoom(z, 1+z, m.center())
	case ActionZoomOut:
		z := 1/(1+m.cfg.KeyZoomStep) - 1
		m.emitZoom(z, 1+z, m.center())
	case ActionRotateClockwise:
		m.emitRotate(rot, rot, m.center(), false)
	case ActionRotateCounterClockwise:
		m.emitRotate(-rot, -rot, m.center(), false)
	}
}

func (m *Machine) center() geom.Point {
	if m.viewport.X > 0 && m.viewport.Y > 0 {
		return m.viewport.Scale(0.5)
	}
	if st, ok := flow.View(m.ctrl); ok {
		return st.Center()
	}
	return geom.Point{}
}

func (m *Machine) emitPan(delta geom.Point) {
	m.emit(Intent{Kind: IntentPan, Delta: delta})
	m.ctrl.NotifyPanInput(delta)
}

func (m *Machine) emitZoom(delta, ratio float64, anchor geom.Point) {
	m.emit(Intent{Kind: IntentZoom, Zoom: delta, Ratio: ratio, Anchor: anchor})
	m.ctrl.NotifyZoomInput(delta, anchor)
}

func (m *Machine) emitRotate(delta, angle float64, anchor geom.Point, anchored bool) {
	m.emit(Intent{Kind: IntentRotate, Rotation: delta, Angle: angle, Anchor: anchor})
	if anchored {
		flow.RotateAt(m.ctrl, delta, anchor)
		return
	}
	m.ctrl.NotifyRotationInput(delta)
}

func (m *Machine) emitSelect(sel Selection) {
	m.emit(Intent{Kind: IntentSelect, Selection: sel, Anchor: sel.Rect.Center()})
	if m.onSelect != nil {
		m.onSelect(sel)
	}
}

func (m *Machine) emit(in Intent) {
	m.out = append(m.out, in)
	m.metrics.IncrementIntent(in.Kind.String())
}

func (m *Machine) setState(to State) {
	if to == m.state {
		return
	}
	from := m.state
	m.state = to
	m.metrics.IncrementTransition(from.String(), to.String())
	m.logger.Debug("input state changed", "from", from.String(), "to", to.String())
	if m.onTransition != nil {
		m.onTransition(from, to)
	}
}

func (m *Machine) anomaly(msg string, ev Event) {
	m.metrics.IncrementDeviceAnomalies()
	m.logger.Debug(msg,
		"event", ev.Kind.String(),
		"pointer", ev.PointerID,
		"state", m.state.String(),
	)
}

func (m *Machine) find(id int) int {
	for i, p := range m.pointers {
		if p.id == id {
			return i
		}
	}
	return -1
}

func (m *Machine) remove(i int) {
	m.pointers = append(m.pointers[:i], m.pointers[i+1:]...)
}
