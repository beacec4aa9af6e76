package input

// State is the interpretation state of the machine
type State uint8

const (
	StateIdle                     State = iota // no pointer drives the camera
	StatePanningWithLeftPointer                // primary pointer drags the board
	StatePanningWithMiddlePointer              // middle/aux button drags the board
	StatePinching                              // two pointers zoom and rotate
	StateAwaitingTrackpadGesture               // platform gesture in progress
	StateSelectingOrClicking                   // primary pointer with selection modifier
)

var stateNames = [...]string{
	StateIdle:                     "idle",
	StatePanningWithLeftPointer:   "panning_left",
	StatePanningWithMiddlePointer: "panning_middle",
	StatePinching:                 "pinching",
	StateAwaitingTrackpadGesture:  "awaiting_trackpad_gesture",
	StateSelectingOrClicking:      "selecting",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Pinch is captured when two pointers start pinching
type Pinch struct {
	InitialDistance float64
	InitialAngle    float64

	// camera zoom and rotation at pinch start; zero when the controller
	// does not expose its camera
	InitialZoom     float64
	InitialRotation float64
}
