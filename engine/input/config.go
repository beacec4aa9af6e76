package input

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/1siamBot/boardcam/engine/geom"
)

var (
	ErrNilController    = errors.New("input: controller is required")
	ErrInvalidThreshold = errors.New("input: invalid click threshold")
	ErrInvalidSpeed     = errors.New("input: invalid speed")
)

// WheelMode selects what a plain mouse wheel does
type WheelMode uint8

const (
	WheelZoom WheelMode = iota
	WheelPan
)

// Action is what a key binding triggers
type Action uint8

const (
	ActionNone Action = iota
	ActionPanLeft       // view moves left, content slides right
	ActionPanRight
	ActionPanUp
	ActionPanDown
	ActionZoomIn
	ActionZoomOut
	ActionRotateClockwise // content turns clockwise
	ActionRotateCounterClockwise
)

// Bindings maps keys to actions
type Bindings map[Key]Action

// DefaultBindings binds arrows and WASD to pan, +/- to zoom and Q/E to
// rotation
func DefaultBindings() Bindings {
	return Bindings{
		KeyLeft:  ActionPanLeft,
		KeyRight: ActionPanRight,
		KeyUp:    ActionPanUp,
		KeyDown:  ActionPanDown,
		'a':      ActionPanLeft,
		'd':      ActionPanRight,
		'w':      ActionPanUp,
		's':      ActionPanDown,
		'+':      ActionZoomIn,
		'=':      ActionZoomIn,
		'-':      ActionZoomOut,
		'e':      ActionRotateClockwise,
		'q':      ActionRotateCounterClockwise,
	}
}

// Config holds the thresholds and speeds the machine interprets with
type Config struct {
	// A primary press and release is a click when the pointer travelled
	// less than ClickDistance pixels and was held shorter than ClickDuration.
	ClickDistance float64
	ClickDuration time.Duration

	WheelMode WheelMode
	// WheelZoomSpeed is the log zoom change per wheel pixel
	WheelZoomSpeed float64
	WheelPanSpeed  float64
	// PinchZoomSpeed is the log zoom change per pixel of ctrl+wheel
	PinchZoomSpeed float64
	LineHeight     float64 // pixels per wheel line
	PageHeight     float64 // pixels per wheel page when the viewport is unknown

	// PinchPan pans with the midpoint of a two-pointer pinch
	PinchPan bool

	Bindings      Bindings
	KeyPanStep    float64 // pixels
	KeyZoomStep   float64 // relative
	KeyRotateStep float64 // radians

	// SelectModifier turns a primary drag into a selection box
	SelectModifier Mods

	// Classifier decides where a wheel event came from; nil uses
	// ClassifyWheel
	Classifier WheelClassifier
}

func DefaultConfig() Config {
	return Config{
		ClickDistance:  5,
		ClickDuration:  250 * time.Millisecond,
		WheelMode:      WheelZoom,
		WheelZoomSpeed: 0.0015,
		WheelPanSpeed:  1,
		PinchZoomSpeed: 0.01,
		LineHeight:     16,
		PageHeight:     800,
		PinchPan:       true,
		Bindings:       DefaultBindings(),
		KeyPanStep:     40,
		KeyZoomStep:    0.1,
		KeyRotateStep:  math.Pi / 12,
		SelectModifier: ModShift,
	}
}

// Validate checks thresholds and speeds
func (c Config) Validate() error {
	if !geom.IsFinite(c.ClickDistance) || c.ClickDistance < 0 {
		return fmt.Errorf("%w: click distance %v", ErrInvalidThreshold, c.ClickDistance)
	}
	if c.ClickDuration < 0 {
		return fmt.Errorf("%w: click duration %v", ErrInvalidThreshold, c.ClickDuration)
	}
	speeds := []struct {
		name string
		v    float64
	}{
		{"wheel zoom", c.WheelZoomSpeed},
		{"wheel pan", c.WheelPanSpeed},
		{"pinch zoom", c.PinchZoomSpeed},
		{"line height", c.LineHeight},
		{"page height", c.PageHeight},
		{"key pan", c.KeyPanStep},
		{"key zoom", c.KeyZoomStep},
		{"key rotate", c.KeyRotateStep},
	}
	for _, s := range speeds {
		if !geom.IsFinite(s.v) || s.v < 0 {
			return fmt.Errorf("%w: %s %v", ErrInvalidSpeed, s.name, s.v)
		}
	}
	return nil
}
