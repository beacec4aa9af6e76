package input

import "github.com/1siamBot/boardcam/engine/geom"

// IntentKind discriminates semantic camera actions
type IntentKind uint8

const (
	IntentNone IntentKind = iota
	IntentPan
	IntentZoom
	IntentRotate
	IntentSelect
)

var intentNames = [...]string{
	IntentNone:   "none",
	IntentPan:    "pan",
	IntentZoom:   "zoom",
	IntentRotate: "rotate",
	IntentSelect: "select",
}

func (k IntentKind) String() string {
	if int(k) < len(intentNames) {
		return intentNames[k]
	}
	return "unknown"
}

// Intent is a device-agnostic instruction produced from raw events
type Intent struct {
	Kind IntentKind

	// Pan: content displacement in viewport pixels
	Delta geom.Point

	// Zoom: relative change passed to the controller (0.1 is 10% closer).
	// Ratio is the pinch distance against its initial value.
	Zoom  float64
	Ratio float64

	// Rotate: change passed to the controller, radians, clockwise on
	// screen. Angle is the pinch angle against its initial value.
	Rotation float64
	Angle    float64

	Anchor    geom.Point
	Selection Selection
}

// Selection is the result of a click or a modifier-drag box
type Selection struct {
	Rect   geom.Rect // viewport pixels; a point for clicks
	Click  bool
	Button Button
	Mods   Mods
}
