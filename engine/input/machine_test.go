package input

import (
	"bytes"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/1siamBot/boardcam/engine/camera"
	"github.com/1siamBot/boardcam/engine/flow"
	"github.com/1siamBot/boardcam/engine/flow/mocks"
	"github.com/1siamBot/boardcam/engine/geom"
	"github.com/1siamBot/boardcam/engine/metrics"
)

func down(id int, x, y float64, at time.Duration) Event {
	return Event{Kind: EventPointerDown, PointerID: id, Pos: geom.Pt(x, y), Time: at}
}

func move(id int, x, y float64, at time.Duration) Event {
	return Event{Kind: EventPointerMove, PointerID: id, Pos: geom.Pt(x, y), Time: at}
}

func up(id int, x, y float64, at time.Duration) Event {
	return Event{Kind: EventPointerUp, PointerID: id, Pos: geom.Pt(x, y), Time: at}
}

func kinds(in []Intent) []IntentKind {
	out := make([]IntentKind, len(in))
	for i, x := range in {
		out[i] = x.Kind
	}
	return out
}

// =============================================================================
// Construction
// =============================================================================

func TestNewMachineValidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockController(ctrl)

	_, err := NewMachine(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNilController)

	cfg := DefaultConfig()
	cfg.ClickDistance = -1
	_, err = NewMachine(c, cfg)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	cfg = DefaultConfig()
	cfg.ClickDuration = -time.Millisecond
	_, err = NewMachine(c, cfg)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	cfg = DefaultConfig()
	cfg.WheelZoomSpeed = math.NaN()
	_, err = NewMachine(c, cfg)
	assert.ErrorIs(t, err, ErrInvalidSpeed)

	m, err := NewMachine(c, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, StateIdle, m.State())
}

// =============================================================================
// Pointer Interpretation Suite
// =============================================================================
// The controller mock is strict: any intent the machine dispatches without a
// matching expectation fails the test.

type MachineSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	controller  *mocks.MockController
	machine     *Machine
	selections  []Selection
	transitions [][2]State
}

func TestMachineSuite(t *testing.T) {
	suite.Run(t, new(MachineSuite))
}

func (s *MachineSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.controller = mocks.NewMockController(s.ctrl)
	s.selections = nil
	s.transitions = nil
	m, err := NewMachine(s.controller, DefaultConfig(),
		WithSelectHandler(func(sel Selection) { s.selections = append(s.selections, sel) }),
		WithTransitionHook(func(from, to State) { s.transitions = append(s.transitions, [2]State{from, to}) }),
	)
	s.Require().NoError(err)
	m.SetViewport(geom.Pt(800, 600))
	s.machine = m
}

func (s *MachineSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *MachineSuite) TestPinchEmitsRatioAndRotation() {
	s.Empty(s.machine.Process(down(1, 0, 0, 0)))
	s.Equal(StatePanningWithLeftPointer, s.machine.State())

	s.Empty(s.machine.Process(down(2, 100, 0, 10*time.Millisecond)))
	s.Equal(StatePinching, s.machine.State())
	pinch, ok := s.machine.Pinch()
	s.True(ok)
	s.Equal(100.0, pinch.InitialDistance)
	s.Equal(0.0, pinch.InitialAngle)

	gomock.InOrder(
		s.controller.EXPECT().NotifyPanInput(geom.Pt(50, 0)),
		s.controller.EXPECT().NotifyZoomInput(1.0, geom.Pt(100, 0)),
		s.controller.EXPECT().NotifyRotationInput(0.0),
	)
	out := s.machine.Process(move(2, 200, 0, 20*time.Millisecond))
	s.Require().Equal([]IntentKind{IntentPan, IntentZoom, IntentRotate}, kinds(out))
	s.Equal(2.0, out[1].Ratio)
	s.Equal(geom.Pt(100, 0), out[1].Anchor)
	s.Equal(0.0, out[2].Rotation)
	s.Equal(0.0, out[2].Angle)
}

func (s *MachineSuite) TestPinchRatioIsCumulativeZoomIsIncremental() {
	s.machine.Process(down(1, 0, 0, 0))
	s.machine.Process(down(2, 100, 0, 0))

	s.controller.EXPECT().NotifyPanInput(gomock.Any()).Times(2)
	s.controller.EXPECT().NotifyZoomInput(gomock.Any(), gomock.Any()).Times(2)
	s.controller.EXPECT().NotifyRotationInput(gomock.Any()).Times(2)

	first := s.machine.Process(move(2, 200, 0, 0))
	second := s.machine.Process(move(2, 0, 400, 0))

	s.InDelta(1.0, first[1].Zoom, 1e-12)
	s.InDelta(1.0, second[1].Zoom, 1e-12, "400 against the previous 200")
	s.InDelta(4.0, second[1].Ratio, 1e-12, "400 against the initial 100")
	s.InDelta(math.Pi/2, second[2].Rotation, 1e-12)
	s.InDelta(math.Pi/2, second[2].Angle, 1e-12)
}

func (s *MachineSuite) TestClickResolvesToSelect() {
	s.Empty(s.machine.Process(down(1, 10, 10, 0)))
	out := s.machine.Process(up(1, 12, 11, 150*time.Millisecond))

	s.Require().Equal([]IntentKind{IntentSelect}, kinds(out))
	s.True(out[0].Selection.Click)
	s.Equal(geom.Pt(12, 11), out[0].Selection.Rect.Max)
	s.Require().Len(s.selections, 1)
	s.Equal(StateIdle, s.machine.State())
}

func (s *MachineSuite) TestSlowPressReplaysHeldMovementAsPan() {
	s.machine.Process(down(1, 10, 10, 0))
	s.Empty(s.machine.Process(move(1, 12, 10, 100*time.Millisecond)))

	s.controller.EXPECT().NotifyPanInput(geom.Pt(3, 1))
	out := s.machine.Process(up(1, 13, 11, 400*time.Millisecond))
	s.Equal([]IntentKind{IntentPan}, kinds(out))
	s.Empty(s.selections)
}

func (s *MachineSuite) TestDragHoldsPanUntilClickDistance() {
	s.machine.Process(down(1, 0, 0, 0))
	s.Empty(s.machine.Process(move(1, 3, 0, 0)), "still a click candidate")

	gomock.InOrder(
		s.controller.EXPECT().NotifyPanInput(geom.Pt(6, 0)),
		s.controller.EXPECT().NotifyPanInput(geom.Pt(4, 2)),
	)
	s.Len(s.machine.Process(move(1, 6, 0, 0)), 1)
	s.Len(s.machine.Process(move(1, 10, 2, 0)), 1)
	s.Empty(s.machine.Process(up(1, 10, 2, time.Second)))
	s.Equal(StateIdle, s.machine.State())
	s.Empty(s.selections)
}

func (s *MachineSuite) TestMiddleButtonPansImmediately() {
	ev := down(1, 0, 0, 0)
	ev.Button = ButtonMiddle
	s.machine.Process(ev)
	s.Equal(StatePanningWithMiddlePointer, s.machine.State())

	s.controller.EXPECT().NotifyPanInput(geom.Pt(1, 1))
	s.machine.Process(move(1, 1, 1, 0))
	s.Empty(s.machine.Process(up(1, 1, 1, 10*time.Millisecond)), "no click for the middle button")
	s.Equal(StateIdle, s.machine.State())
}

func (s *MachineSuite) TestSecondPointerPromotesFromMiddlePan() {
	ev := down(1, 0, 0, 0)
	ev.Button = ButtonMiddle
	s.machine.Process(ev)
	s.machine.Process(down(2, 50, 0, 0))
	s.Equal(StatePinching, s.machine.State())
}

func (s *MachineSuite) TestSecondaryButtonStaysIdleButCanPinch() {
	ev := down(1, 0, 0, 0)
	ev.Button = ButtonSecondary
	s.machine.Process(ev)
	s.Equal(StateIdle, s.machine.State())

	s.machine.Process(down(2, 0, 80, 0))
	s.Equal(StatePinching, s.machine.State())
}

func (s *MachineSuite) TestLiftingPinchPointerDemotesToPan() {
	s.machine.Process(down(1, 0, 0, 0))
	s.machine.Process(down(2, 100, 0, 0))
	s.Empty(s.machine.Process(up(2, 100, 0, 0)))
	s.Equal(StatePanningWithLeftPointer, s.machine.State())

	s.controller.EXPECT().NotifyPanInput(geom.Pt(2, 0))
	s.machine.Process(move(1, 2, 0, 0))

	s.Empty(s.machine.Process(up(1, 2, 0, 10*time.Millisecond)), "a demoted pan never becomes a click")
	s.Equal(StateIdle, s.machine.State())
}

func (s *MachineSuite) TestThirdPointerIsIgnored() {
	s.machine.Process(down(1, 0, 0, 0))
	s.machine.Process(down(2, 100, 0, 0))
	s.machine.Process(down(3, 500, 500, 0))
	s.Empty(s.machine.Process(move(3, 600, 600, 0)))
	s.Equal(StatePinching, s.machine.State())

	// lifting a steering pointer hands the pinch to the spare one
	s.Empty(s.machine.Process(up(1, 0, 0, 0)))
	s.Equal(StatePinching, s.machine.State())
	pinch, _ := s.machine.Pinch()
	s.InDelta(geom.Pt(100, 0).Dist(geom.Pt(600, 600)), pinch.InitialDistance, 1e-9)
}

func (s *MachineSuite) TestCancelMidPinchReturnsToIdle() {
	s.machine.Process(down(1, 0, 0, 0))
	s.machine.Process(down(2, 100, 0, 0))
	s.Empty(s.machine.Process(Event{Kind: EventPointerCancel, PointerID: 2}))
	s.Equal(StateIdle, s.machine.State())

	// the remaining pointer no longer steers
	s.Empty(s.machine.Process(move(1, 30, 30, 0)))
}

func (s *MachineSuite) TestUnmatchedPointerUpResetsToIdle() {
	s.machine.Process(down(1, 0, 0, 0))
	s.Empty(s.machine.Process(up(7, 5, 5, 0)))
	s.Equal(StateIdle, s.machine.State())
	s.Empty(s.machine.Process(move(1, 40, 40, 0)))
}

func (s *MachineSuite) TestDuplicateDownAndNonFinitePositionsAreIgnored() {
	s.machine.Process(down(1, 0, 0, 0))
	s.Empty(s.machine.Process(down(1, 5, 5, 0)))
	s.Equal(StatePanningWithLeftPointer, s.machine.State())
	s.Empty(s.machine.Process(move(1, math.NaN(), 0, 0)))
}

func (s *MachineSuite) TestShiftDragDrawsSelectionBox() {
	ev := down(1, 10, 20, 0)
	ev.Mods = ModShift
	s.machine.Process(ev)
	s.Equal(StateSelectingOrClicking, s.machine.State())

	s.Empty(s.machine.Process(move(1, 110, 70, 0)))
	box, ok := s.machine.Selecting()
	s.True(ok)
	s.Equal(geom.Rect{Min: geom.Pt(10, 20), Max: geom.Pt(110, 70)}, box)

	out := s.machine.Process(up(1, 5, 90, time.Second))
	s.Require().Equal([]IntentKind{IntentSelect}, kinds(out))
	sel := out[0].Selection
	s.False(sel.Click)
	s.Equal(ModShift, sel.Mods)
	s.Equal(geom.Rect{Min: geom.Pt(5, 20), Max: geom.Pt(10, 90)}, sel.Rect)
	_, ok = s.machine.Selecting()
	s.False(ok)
}

func (s *MachineSuite) TestTransitionsAreReported() {
	s.machine.Process(down(1, 0, 0, 0))
	s.machine.Process(down(2, 10, 0, 0))
	s.machine.Process(up(2, 10, 0, 0))
	s.machine.Process(up(1, 0, 0, time.Second))

	s.Equal([][2]State{
		{StateIdle, StatePanningWithLeftPointer},
		{StatePanningWithLeftPointer, StatePinching},
		{StatePinching, StatePanningWithLeftPointer},
		{StatePanningWithLeftPointer, StateIdle},
	}, s.transitions)
}

// =============================================================================
// Wheel, gesture and keys
// =============================================================================

func (s *MachineSuite) TestCtrlWheelZoomsAtCursorThroughTrackpadState() {
	s.controller.EXPECT().NotifyZoomInput(gomock.Any(), geom.Pt(300, 200))
	out := s.machine.Process(Event{Kind: EventWheel, Pos: geom.Pt(300, 200), Delta: geom.Pt(0, -10), Mods: ModCtrl})

	s.Require().Equal([]IntentKind{IntentZoom}, kinds(out))
	s.Greater(out[0].Zoom, 0.0, "negative delta zooms in")
	s.Equal(StateIdle, s.machine.State())
	s.Equal([][2]State{
		{StateIdle, StateAwaitingTrackpadGesture},
		{StateAwaitingTrackpadGesture, StateIdle},
	}, s.transitions)
}

func (s *MachineSuite) TestMouseWheelFollowsWheelMode() {
	s.controller.EXPECT().NotifyZoomInput(gomock.Any(), geom.Pt(10, 10))
	out := s.machine.Process(Event{Kind: EventWheel, Pos: geom.Pt(10, 10), Delta: geom.Pt(0, 100)})
	s.Require().Len(out, 1)
	s.InDelta(math.Expm1(-0.15), out[0].Zoom, 1e-12)

	s.machine.cfg.WheelMode = WheelPan
	s.controller.EXPECT().NotifyPanInput(geom.Pt(0, -48))
	s.machine.Process(Event{Kind: EventWheel, Delta: geom.Pt(0, 3), DeltaMode: DeltaLine})
	s.Empty(s.transitions)
}

func (s *MachineSuite) TestTrackpadScrollPans() {
	s.controller.EXPECT().NotifyPanInput(geom.Pt(-3.5, 2))
	s.machine.Process(Event{Kind: EventWheel, Delta: geom.Pt(3.5, -2)})
}

func (s *MachineSuite) TestWheelIsIgnoredWhileDragging() {
	s.machine.Process(down(1, 0, 0, 0))
	s.Empty(s.machine.Process(Event{Kind: EventWheel, Delta: geom.Pt(0, 100)}))
}

func (s *MachineSuite) TestPlatformGesture() {
	s.Empty(s.machine.Process(Event{Kind: EventGestureStart, Scale: 1}))
	s.Equal(StateAwaitingTrackpadGesture, s.machine.State())

	anchor := geom.Pt(100, 100)
	gomock.InOrder(
		s.controller.EXPECT().NotifyZoomInput(0.5, anchor),
		s.controller.EXPECT().NotifyRotationInput(0.2),
		s.controller.EXPECT().NotifyZoomInput(1.0, anchor),
	)
	s.machine.Process(Event{Kind: EventGestureChange, Pos: anchor, Scale: 1.5, Rotation: 0.2})
	s.machine.Process(Event{Kind: EventGestureChange, Pos: anchor, Scale: 3, Rotation: 0.2})

	s.machine.Process(Event{Kind: EventGestureEnd})
	s.Equal(StateIdle, s.machine.State())
}

func (s *MachineSuite) TestKeyBindings() {
	step := DefaultConfig().KeyRotateStep
	zs := DefaultConfig().KeyZoomStep
	center := geom.Pt(400, 300)
	gomock.InOrder(
		s.controller.EXPECT().NotifyPanInput(geom.Pt(40, 0)),
		s.controller.EXPECT().NotifyPanInput(geom.Pt(0, -40)),
		s.controller.EXPECT().NotifyZoomInput(zs, center),
		s.controller.EXPECT().NotifyZoomInput(1/(1+zs)-1, center),
		s.controller.EXPECT().NotifyRotationInput(step),
		s.controller.EXPECT().NotifyRotationInput(-step),
	)
	for _, k := range []Key{'A', KeyDown, '+', '-', 'e', 'q'} {
		s.Len(s.machine.Process(Event{Kind: EventKeyDown, Key: k}), 1)
	}
	s.Empty(s.machine.Process(Event{Kind: EventKeyUp, Key: 'a'}))
	s.Empty(s.machine.Process(Event{Kind: EventKeyDown, Key: 'z'}))
}

func (s *MachineSuite) TestKeysActWithoutChangingState() {
	s.machine.Process(down(1, 0, 0, 0))
	s.controller.EXPECT().NotifyPanInput(geom.Pt(-40, 0))
	s.machine.Process(Event{Kind: EventKeyDown, Key: KeyRight})
	s.Equal(StatePanningWithLeftPointer, s.machine.State())
}

func (s *MachineSuite) TestResetForgetsPointers() {
	s.machine.Process(down(1, 0, 0, 0))
	s.machine.Process(down(2, 10, 0, 0))
	s.machine.Reset()
	s.Equal(StateIdle, s.machine.State())
	s.Empty(s.machine.Process(move(1, 5, 5, 0)))
	_, pinching := s.machine.Pinch()
	s.False(pinching)
}

// =============================================================================
// Wheel classification
// =============================================================================

func TestClassifyWheel(t *testing.T) {
	cases := []struct {
		name string
		ev   Event
		want WheelClass
	}{
		{"integer pixel delta", Event{Delta: geom.Pt(0, 100)}, WheelFromMouse},
		{"line mode", Event{Delta: geom.Pt(0, 3), DeltaMode: DeltaLine}, WheelFromMouse},
		{"page mode with x", Event{Delta: geom.Pt(1, 1), DeltaMode: DeltaPage}, WheelFromMouse},
		{"fractional delta", Event{Delta: geom.Pt(0, 2.5)}, WheelFromTrackpad},
		{"horizontal delta", Event{Delta: geom.Pt(4, 0)}, WheelFromTrackpad},
		{"ctrl modifier", Event{Delta: geom.Pt(0, 100), Mods: ModCtrl}, WheelFromPinch},
		{"hint overrides ctrl", Event{Delta: geom.Pt(0, 1), Mods: ModCtrl, Hint: HintMouse}, WheelFromMouse},
		{"trackpad hint", Event{Delta: geom.Pt(0, 100), Hint: HintTrackpad}, WheelFromTrackpad},
		{"pinch hint", Event{Delta: geom.Pt(0, 100), Hint: HintPinch}, WheelFromPinch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyWheel(tc.ev))
		})
	}
}

func TestCustomClassifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockController(ctrl)
	cfg := DefaultConfig()
	cfg.Classifier = func(Event) WheelClass { return WheelFromTrackpad }
	m, err := NewMachine(c, cfg)
	require.NoError(t, err)

	c.EXPECT().NotifyPanInput(geom.Pt(0, -100))
	m.Process(Event{Kind: EventWheel, Delta: geom.Pt(0, 100)})
}

// =============================================================================
// Observability
// =============================================================================

func TestMachineRecordsMetricsAndAnomalies(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockController(ctrl)
	reg := prometheus.NewRegistry()
	mt := metrics.New(reg)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m, err := NewMachine(c, DefaultConfig(), WithMetrics(mt), WithLogger(logger))
	require.NoError(t, err)

	c.EXPECT().NotifyPanInput(gomock.Any())
	m.Process(down(1, 0, 0, 0))
	m.Process(move(1, 50, 0, 0))
	m.Process(up(1, 50, 0, time.Second))
	m.Process(up(9, 0, 0, 0))

	assert.Equal(t, 1.0, testutil.ToFloat64(mt.InputIntents.WithLabelValues("pan")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.InputTransitions.WithLabelValues("idle", "panning_left")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.DeviceAnomalies))
	assert.Contains(t, buf.String(), "unmatched pointer up")
}

// =============================================================================
// End to end through a rig
// =============================================================================

func TestPinchKeepsBoardUnderFingers(t *testing.T) {
	cfg := camera.DefaultConfig()
	cfg.Viewport = geom.Pt(800, 600)
	rig, err := camera.NewRig(cfg)
	require.NoError(t, err)
	m, err := NewMachine(flow.NewRelay(rig), DefaultConfig())
	require.NoError(t, err)

	a0, b0 := geom.Pt(300, 300), geom.Pt(400, 300)
	worldA := rig.ViewportToWorld(a0)
	worldB := rig.ViewportToWorld(b0)

	m.Process(down(1, a0.X, a0.Y, 0))
	m.Process(down(2, b0.X, b0.Y, 0))
	pinch, _ := m.Pinch()
	assert.Equal(t, 1.0, pinch.InitialZoom)

	// spread and turn a quarter clockwise around the midpoint
	m.Process(move(1, 350, 200, 0))
	m.Process(move(2, 350, 400, 0))

	assert.InDelta(t, 2.0, rig.State().Zoom, 1e-9)
	assert.InDelta(t, -math.Pi/2, rig.State().Rotation, 1e-9)
	assert.True(t, rig.WorldToViewport(worldA).Eq(geom.Pt(350, 200), 1e-6))
	assert.True(t, rig.WorldToViewport(worldB).Eq(geom.Pt(350, 400), 1e-6))
}

func TestDragMovesBoardWithPointer(t *testing.T) {
	cfg := camera.DefaultConfig()
	cfg.Viewport = geom.Pt(800, 600)
	cfg.Rotation = 0.7
	cfg.Zoom = 1.5
	rig, err := camera.NewRig(cfg)
	require.NoError(t, err)
	m, err := NewMachine(flow.NewRelay(rig), DefaultConfig())
	require.NoError(t, err)

	grab := geom.Pt(200, 200)
	world := rig.ViewportToWorld(grab)
	m.Process(down(1, grab.X, grab.Y, 0))
	m.Process(move(1, 260, 150, 0))
	m.Process(move(1, 320, 180, 0))

	assert.True(t, rig.WorldToViewport(world).Eq(geom.Pt(320, 180), 1e-9))
}
