package input

import "math"

// WheelClass is where a wheel event is believed to come from
type WheelClass uint8

const (
	WheelFromMouse WheelClass = iota
	WheelFromTrackpad         // two-finger scroll
	WheelFromPinch            // trackpad pinch reported as ctrl+wheel
)

// WheelClassifier tells mouse wheels from trackpads. Platforms report
// these inconsistently, so hosts may swap in their own policy.
type WheelClassifier func(ev Event) WheelClass

// ClassifyWheel is the default policy: an explicit hint wins; ctrl+wheel
// is a pinch; line and page deltas come from mouse wheels; horizontal or
// fractional pixel deltas come from trackpads.
func ClassifyWheel(ev Event) WheelClass {
	switch ev.Hint {
	case HintMouse:
		return WheelFromMouse
	case HintTrackpad:
		return WheelFromTrackpad
	case HintPinch:
		return WheelFromPinch
	}
	if ev.Mods.Has(ModCtrl) {
		return WheelFromPinch
	}
	if ev.DeltaMode != DeltaPixel {
		return WheelFromMouse
	}
	if ev.Delta.X != 0 || ev.Delta.Y != math.Trunc(ev.Delta.Y) {
		return WheelFromTrackpad
	}
	return WheelFromMouse
}
