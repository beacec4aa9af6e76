package camera

import (
	"fmt"
	"math"
	"time"

	"github.com/1siamBot/boardcam/engine/geom"
)

// ZoomRange bounds the zoom level, both ends inclusive
type ZoomRange struct {
	Min, Max float64
}

func (z ZoomRange) Validate() error {
	if !geom.IsFinite(z.Min) || !geom.IsFinite(z.Max) {
		return fmt.Errorf("%w: bounds must be finite, got [%v, %v]", ErrInvalidZoomRange, z.Min, z.Max)
	}
	if z.Min <= 0 {
		return fmt.Errorf("%w: min must be positive, got %v", ErrInvalidZoomRange, z.Min)
	}
	if z.Min > z.Max {
		return fmt.Errorf("%w: min %v exceeds max %v", ErrInvalidZoomRange, z.Min, z.Max)
	}
	return nil
}

// ZoomMode selects how a zoom delta combines with the current zoom
type ZoomMode uint8

const (
	// ZoomMultiplicative: zoom * (1 + delta)
	ZoomMultiplicative ZoomMode = iota
	// ZoomAdditive: zoom + delta
	ZoomAdditive
)

// Ops is a set of enabled camera operations
type Ops uint8

const (
	OpPan Ops = 1 << iota
	OpZoom
	OpRotate

	OpAll = OpPan | OpZoom | OpRotate
)

func (o Ops) Has(op Ops) bool {
	return o&op == op
}

// AxisLock pins one coordinate of the camera position
type AxisLock uint8

const (
	LockNone AxisLock = iota
	LockX             // X stays fixed, only vertical panning
	LockY             // Y stays fixed, only horizontal panning
)

// Config holds everything a Rig is built from
type Config struct {
	Viewport geom.Point // width, height in viewport pixels

	Position geom.Point
	Zoom     float64
	Rotation float64

	Boundaries *geom.Rect // nil means unbounded
	ZoomRange  ZoomRange
	ZoomMode   ZoomMode

	Enabled      Ops
	AxisLock     AxisLock
	RotationSnap float64 // radians, 0 disables snapping

	AnimationDuration time.Duration
	Easing            Easing
}

// DefaultConfig returns a 1280x720 unbounded camera with all operations enabled
func DefaultConfig() Config {
	return Config{
		Viewport:          geom.Pt(1280, 720),
		Zoom:              1.0,
		ZoomRange:         ZoomRange{Min: 0.25, Max: 3.0},
		ZoomMode:          ZoomMultiplicative,
		Enabled:           OpAll,
		AnimationDuration: 300 * time.Millisecond,
		Easing:            EaseInOutCubic,
	}
}

func (c Config) Validate() error {
	if err := validateViewport(c.Viewport); err != nil {
		return err
	}
	if err := c.ZoomRange.Validate(); err != nil {
		return err
	}
	if !geom.IsFinite(c.Zoom) || c.Zoom <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidZoom, c.Zoom)
	}
	if err := validateBoundaries(c.Boundaries); err != nil {
		return err
	}
	if !c.Position.IsFinite() || !geom.IsFinite(c.Rotation) {
		return fmt.Errorf("%w: position %v rotation %v", ErrInvalidPosition, c.Position, c.Rotation)
	}
	if err := validateRotationSnap(c.RotationSnap); err != nil {
		return err
	}
	if c.AnimationDuration < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAnimation, c.AnimationDuration)
	}
	return nil
}

func validateViewport(v geom.Point) error {
	if !v.IsFinite() || v.X <= 0 || v.Y <= 0 {
		return fmt.Errorf("%w: %vx%v", ErrInvalidViewport, v.X, v.Y)
	}
	return nil
}

func validateBoundaries(b *geom.Rect) error {
	if b == nil {
		return nil
	}
	if !b.Valid() {
		return fmt.Errorf("%w: min %v must not exceed max %v", ErrInvalidBoundaries, b.Min, b.Max)
	}
	return nil
}

func validateRotationSnap(step float64) error {
	if !geom.IsFinite(step) || step < 0 || step > 2*math.Pi {
		return fmt.Errorf("%w: %v", ErrInvalidRotationSnap, step)
	}
	return nil
}
