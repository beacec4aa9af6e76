package camera

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/boardcam/engine/geom"
)

func newAnimRig(t *testing.T, mutate func(*Config)) *Rig {
	t.Helper()
	cfg := testConfig()
	cfg.AnimationDuration = 100 * time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}
	r, err := NewRig(cfg)
	require.NoError(t, err)
	return r
}

func TestEasingEndpoints(t *testing.T) {
	for name, e := range map[string]Easing{
		"linear":   Linear,
		"outQuad":  EaseOutQuad,
		"inOutCub": EaseInOutCubic,
		"outExpo":  EaseOutExpo,
	} {
		assert.InDelta(t, 0, e(0), 1e-12, name)
		assert.InDelta(t, 1, e(1), 1e-12, name)
	}
	assert.InDelta(t, 0.5, EaseInOutCubic(0.5), 1e-12)
}

func TestPanToAnimatedInterpolatesAndFinishes(t *testing.T) {
	r := newAnimRig(t, nil)
	var finished, cancelled bool
	a := r.PanToAnimated(geom.Pt(100, -50), OnDone(func(c bool) {
		finished = true
		cancelled = c
	}))

	assert.True(t, r.Animating(AxisPan))
	assert.Equal(t, AxisPan, a.Axis())

	r.Tick(50 * time.Millisecond)
	assert.True(t, r.State().Position.Eq(geom.Pt(50, -25), 1e-9))
	assert.InDelta(t, 0.5, a.Progress(), 1e-12)
	assert.False(t, a.Done())

	r.Tick(80 * time.Millisecond)
	assert.Equal(t, geom.Pt(100, -50), r.State().Position)
	assert.True(t, a.Done())
	assert.False(t, a.Cancelled())
	assert.True(t, finished)
	assert.False(t, cancelled)
	assert.False(t, r.Animating(AxisPan))
}

func TestNewAnimationSupersedesSameAxis(t *testing.T) {
	r := newAnimRig(t, nil)
	var firstCancelled bool
	first := r.PanToAnimated(geom.Pt(100, 0), OnDone(func(c bool) { firstCancelled = c }))
	r.Tick(50 * time.Millisecond)

	second := r.PanToAnimated(geom.Pt(0, 100))
	assert.True(t, first.Done())
	assert.True(t, first.Cancelled())
	assert.True(t, firstCancelled)

	// a zoom animation on another axis is independent
	zoom := r.ZoomToAnimated(2)
	r.Tick(100 * time.Millisecond)

	assert.True(t, second.Done())
	assert.False(t, second.Cancelled())
	assert.True(t, zoom.Done())
	assert.Equal(t, geom.Pt(0, 100), r.State().Position)
	assert.Equal(t, 2.0, r.State().Zoom)
}

func TestDirectOperationCancelsAxisAnimation(t *testing.T) {
	r := newAnimRig(t, nil)
	pan := r.PanToAnimated(geom.Pt(100, 0))
	rot := r.RotateToAnimated(1)
	r.Tick(10 * time.Millisecond)

	r.PanBy(geom.Pt(0, 5))
	assert.True(t, pan.Cancelled())
	assert.False(t, rot.Done())

	r.CancelAnimations()
	assert.True(t, rot.Cancelled())
	assert.False(t, r.Animating(AxisRotate))

	pos := r.State().Position
	r.Tick(time.Second)
	assert.Equal(t, pos, r.State().Position)
}

func TestAnimationRespectsBoundaries(t *testing.T) {
	r := newAnimRig(t, func(c *Config) {
		c.Viewport = geom.Pt(200, 200)
		c.Boundaries = bounds(-500, -500, 500, 500)
	})
	a := r.PanToAnimated(geom.Pt(1000, 0))
	for !a.Done() {
		r.Tick(10 * time.Millisecond)
		require.LessOrEqual(t, r.State().Position.X, 400.0)
	}
	assert.Equal(t, 400.0, r.State().Position.X)
	assert.False(t, a.Cancelled())
}

func TestZoomAnimationRespectsRangeAndAnchor(t *testing.T) {
	r := newAnimRig(t, nil)
	anchor := geom.Pt(700, 100)
	world := r.ViewportToWorld(anchor)

	a := r.ZoomToAnimated(10, WithAnchor(anchor), WithDuration(40*time.Millisecond))
	for !a.Done() {
		r.Tick(10 * time.Millisecond)
		require.LessOrEqual(t, r.State().Zoom, 4.0)
		require.True(t, r.WorldToViewport(world).Eq(anchor, 1e-9))
	}
	assert.Equal(t, 4.0, r.State().Zoom)
}

func TestZoomAnimationIsGeometric(t *testing.T) {
	r := newAnimRig(t, nil)
	r.ZoomToAnimated(4, WithEasing(Linear))
	r.Tick(50 * time.Millisecond)
	assert.InDelta(t, 2.0, r.State().Zoom, 1e-9)
}

func TestRotateAnimationTakesShortestArc(t *testing.T) {
	r := newAnimRig(t, func(c *Config) { c.Rotation = 3 })
	r.RotateToAnimated(-3)

	r.Tick(50 * time.Millisecond)
	assert.Greater(t, math.Abs(r.State().Rotation), 3.0, "must pass through π, not 0")

	r.Tick(50 * time.Millisecond)
	assert.InDelta(t, -3.0, r.State().Rotation, 1e-9)
}

func TestZeroDurationAppliesImmediately(t *testing.T) {
	r := newAnimRig(t, nil)
	log := record(r)
	a := r.RotateToAnimated(1, WithDuration(0))

	assert.True(t, a.Done())
	assert.False(t, r.Animating(AxisRotate))
	assert.InDelta(t, 1.0, r.State().Rotation, 1e-12)

	r.Flush()
	assert.Len(t, log.rotate, 1)
}

func TestInvalidAnimationTargetsAreRejected(t *testing.T) {
	r := newAnimRig(t, nil)
	cancelled := false
	a := r.ZoomToAnimated(-1, OnDone(func(c bool) { cancelled = c }))
	assert.True(t, a.Done())
	assert.True(t, a.Cancelled())
	assert.True(t, cancelled)

	r.SetEnabled(OpZoom | OpRotate)
	p := r.PanToAnimated(geom.Pt(5, 5))
	assert.True(t, p.Cancelled())
	assert.Equal(t, geom.Pt(0, 0), r.State().Position)
}

func TestAnimationFramesNotify(t *testing.T) {
	r := newAnimRig(t, nil)
	log := record(r)
	r.PanToAnimated(geom.Pt(40, 0), WithDuration(40*time.Millisecond))
	for i := 0; i < 4; i++ {
		r.Tick(10 * time.Millisecond)
	}
	r.Flush()
	require.Len(t, log.pan, 4)
	assert.Equal(t, geom.Pt(40, 0), log.pan[3].After.Position)
	assert.Equal(t, log.pan[2].After, log.pan[3].Before)
}

func TestSetAnimationDefaults(t *testing.T) {
	r := newAnimRig(t, nil)
	assert.ErrorIs(t, r.SetAnimationDefaults(-time.Second, nil), ErrInvalidAnimation)
	require.NoError(t, r.SetAnimationDefaults(20*time.Millisecond, EaseOutQuad))

	a := r.PanToAnimated(geom.Pt(10, 0))
	r.Tick(20 * time.Millisecond)
	assert.True(t, a.Done())
}
