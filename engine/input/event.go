package input

import (
	"time"

	"github.com/1siamBot/boardcam/engine/geom"
)

// EventKind discriminates raw device events
type EventKind uint8

const (
	EventNone EventKind = iota
	EventPointerDown
	EventPointerMove
	EventPointerUp
	EventPointerCancel // pointer taken away by the platform
	EventWheel
	EventKeyDown // also sent for key repeat
	EventKeyUp
	EventGestureStart // platform pinch/rotate gesture (trackpads)
	EventGestureChange
	EventGestureEnd
)

var eventKindNames = [...]string{
	EventNone:          "none",
	EventPointerDown:   "pointer_down",
	EventPointerMove:   "pointer_move",
	EventPointerUp:     "pointer_up",
	EventPointerCancel: "pointer_cancel",
	EventWheel:         "wheel",
	EventKeyDown:       "key_down",
	EventKeyUp:         "key_up",
	EventGestureStart:  "gesture_start",
	EventGestureChange: "gesture_change",
	EventGestureEnd:    "gesture_end",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

type PointerType uint8

const (
	PointerMouse PointerType = iota
	PointerTouch
	PointerPen
)

// Button is the button that pressed a pointer down
type Button uint8

const (
	ButtonPrimary Button = iota // left mouse button, touch contact, pen tip
	ButtonMiddle                // wheel button / aux
	ButtonSecondary             // right mouse button, pen barrel
)

// Mods is a set of held modifier keys
type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

func (m Mods) Has(mod Mods) bool {
	return mod != 0 && m&mod == mod
}

// DeltaMode is the unit of a wheel delta
type DeltaMode uint8

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

// WheelHint lets a host that knows the wheel source say so instead of
// leaving it to the classifier
type WheelHint uint8

const (
	HintNone WheelHint = iota
	HintMouse
	HintTrackpad
	HintPinch
)

// Key identifies a keyboard key. Printable keys use their lower-case rune;
// named keys live in the private use area.
type Key rune

const (
	KeyNone Key = 0

	KeyLeft Key = 0xE000 + iota
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyPageUp
	KeyPageDown
	KeyEscape
)

// Event is one raw device event
type Event struct {
	Kind EventKind
	Time time.Duration // host monotonic clock

	PointerID int
	Pointer   PointerType
	Button    Button
	Pos       geom.Point // viewport pixels

	Delta     geom.Point // wheel delta, positive Y scrolls down
	DeltaMode DeltaMode
	Hint      WheelHint

	Mods Mods
	Key  Key

	Scale    float64 // gesture scale relative to its start
	Rotation float64 // gesture rotation relative to its start, radians
}
