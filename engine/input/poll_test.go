package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/1siamBot/boardcam/engine/flow/mocks"
	"github.com/1siamBot/boardcam/engine/geom"
)

func pressed(b ...Button) [3]bool {
	var out [3]bool
	for _, x := range b {
		out[x] = true
	}
	return out
}

func eventKinds(evs []Event) []EventKind {
	out := make([]EventKind, len(evs))
	for i, ev := range evs {
		out[i] = ev.Kind
	}
	return out
}

// =============================================================================
// Mouse
// =============================================================================

func TestPollerMouseLifecycle(t *testing.T) {
	p := NewPoller()

	out := p.Diff(Snapshot{Cursor: geom.Pt(10, 10)}, 0)
	assert.Equal(t, []EventKind{EventPointerMove}, eventKinds(out), "first sighting reports the cursor")

	assert.Empty(t, p.Diff(Snapshot{Cursor: geom.Pt(10, 10)}, 0))

	out = p.Diff(Snapshot{Cursor: geom.Pt(10, 10), Pressed: pressed(ButtonPrimary, ButtonSecondary)}, time.Millisecond)
	require.Len(t, out, 1)
	assert.Equal(t, EventPointerDown, out[0].Kind)
	assert.Equal(t, ButtonPrimary, out[0].Button)
	assert.Equal(t, PointerMouse, out[0].Pointer)
	assert.Equal(t, MousePointerID, out[0].PointerID)
	assert.True(t, p.Held())

	out = p.Diff(Snapshot{Cursor: geom.Pt(20, 15), Pressed: pressed(ButtonPrimary)}, 2*time.Millisecond)
	require.Len(t, out, 1)
	assert.Equal(t, EventPointerMove, out[0].Kind)
	assert.Equal(t, geom.Pt(20, 15), out[0].Pos)

	out = p.Diff(Snapshot{Cursor: geom.Pt(21, 15)}, 3*time.Millisecond)
	require.Len(t, out, 1)
	assert.Equal(t, EventPointerUp, out[0].Kind)
	assert.Equal(t, geom.Pt(21, 15), out[0].Pos)
	assert.False(t, p.Held())
}

func TestPollerTracksTheFirstButtonOnly(t *testing.T) {
	p := NewPoller()
	p.Diff(Snapshot{}, 0)

	out := p.Diff(Snapshot{Pressed: pressed(ButtonMiddle)}, 0)
	require.Len(t, out, 1)
	assert.Equal(t, ButtonMiddle, out[0].Button)

	assert.Empty(t, p.Diff(Snapshot{Pressed: pressed(ButtonMiddle, ButtonPrimary)}, 0))
	assert.Empty(t, p.Diff(Snapshot{Pressed: pressed(ButtonMiddle)}, 0))

	out = p.Diff(Snapshot{}, 0)
	require.Len(t, out, 1)
	assert.Equal(t, EventPointerUp, out[0].Kind)
	assert.Equal(t, ButtonMiddle, out[0].Button)
}

// =============================================================================
// Touch
// =============================================================================

func TestPollerTouches(t *testing.T) {
	p := NewPoller()
	p.Diff(Snapshot{}, 0)

	out := p.Diff(Snapshot{Touches: []Touch{{ID: 7, Pos: geom.Pt(1, 1)}, {ID: 9, Pos: geom.Pt(5, 5)}}}, 0)
	require.Len(t, out, 2)
	assert.Equal(t, []EventKind{EventPointerDown, EventPointerDown}, eventKinds(out))
	assert.Equal(t, 1, out[0].PointerID)
	assert.Equal(t, 2, out[1].PointerID)
	assert.Equal(t, PointerTouch, out[0].Pointer)

	out = p.Diff(Snapshot{Touches: []Touch{{ID: 7, Pos: geom.Pt(1, 1)}, {ID: 9, Pos: geom.Pt(6, 5)}}}, 0)
	require.Len(t, out, 1)
	assert.Equal(t, EventPointerMove, out[0].Kind)
	assert.Equal(t, 2, out[0].PointerID)

	out = p.Diff(Snapshot{Touches: []Touch{{ID: 9, Pos: geom.Pt(6, 5)}}}, 0)
	require.Len(t, out, 1)
	assert.Equal(t, EventPointerUp, out[0].Kind)
	assert.Equal(t, 1, out[0].PointerID)
	assert.Equal(t, geom.Pt(1, 1), out[0].Pos)

	// platform ids get recycled; pointer ids do not
	out = p.Diff(Snapshot{Touches: []Touch{{ID: 9, Pos: geom.Pt(6, 5)}, {ID: 7, Pos: geom.Pt(2, 2)}}}, 0)
	require.Len(t, out, 1)
	assert.Equal(t, EventPointerDown, out[0].Kind)
	assert.Equal(t, 3, out[0].PointerID)
}

func TestPollerCancel(t *testing.T) {
	p := NewPoller()
	p.Diff(Snapshot{Pressed: pressed(ButtonPrimary), Touches: []Touch{{ID: 1, Pos: geom.Pt(3, 3)}}}, 0)

	out := p.Cancel(time.Second)
	assert.Equal(t, []EventKind{EventPointerCancel, EventPointerCancel}, eventKinds(out))
	assert.Equal(t, MousePointerID, out[0].PointerID)
	assert.Equal(t, 1, out[1].PointerID)
	assert.False(t, p.Held())
	assert.Empty(t, p.Cancel(time.Second))
}

// =============================================================================
// Wheel and Keys
// =============================================================================

func TestPollerWheelAndKeys(t *testing.T) {
	p := NewPoller()
	p.Diff(Snapshot{Cursor: geom.Pt(4, 4)}, 0)

	out := p.Diff(Snapshot{
		Cursor:   geom.Pt(4, 4),
		Wheel:    geom.Pt(0, 16),
		Mods:     ModCtrl,
		KeysDown: []Key{KeyLeft},
		KeysUp:   []Key{'w'},
	}, 0)
	require.Len(t, out, 3)
	assert.Equal(t, []EventKind{EventWheel, EventKeyDown, EventKeyUp}, eventKinds(out))
	assert.Equal(t, DeltaPixel, out[0].DeltaMode)
	assert.Equal(t, geom.Pt(4, 4), out[0].Pos)
	assert.Equal(t, WheelFromPinch, ClassifyWheel(out[0]))
	assert.Equal(t, KeyLeft, out[1].Key)
	assert.True(t, out[1].Mods.Has(ModCtrl))
	assert.Equal(t, Key('w'), out[2].Key)
}

// =============================================================================
// Polling drives the machine
// =============================================================================

func TestPolledTouchesPinch(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockController(ctrl)
	c.EXPECT().NotifyPanInput(gomock.Any()).AnyTimes()
	c.EXPECT().NotifyZoomInput(gomock.Any(), gomock.Any()).AnyTimes()
	c.EXPECT().NotifyRotationInput(gomock.Any()).AnyTimes()

	m, err := NewMachine(c, DefaultConfig())
	require.NoError(t, err)
	p := NewPoller()

	frames := []Snapshot{
		{Touches: []Touch{{ID: 1, Pos: geom.Pt(100, 100)}}},
		{Touches: []Touch{{ID: 1, Pos: geom.Pt(100, 100)}, {ID: 2, Pos: geom.Pt(200, 100)}}},
		{Touches: []Touch{{ID: 1, Pos: geom.Pt(50, 100)}, {ID: 2, Pos: geom.Pt(250, 100)}}},
	}
	for i, f := range frames {
		for _, ev := range p.Diff(f, time.Duration(i)*16*time.Millisecond) {
			m.Process(ev)
		}
	}
	assert.Equal(t, StatePinching, m.State())

	for _, ev := range p.Diff(Snapshot{}, time.Second) {
		m.Process(ev)
	}
	assert.Equal(t, StateIdle, m.State())
}
