package camera

import "errors"

var (
	ErrInvalidViewport     = errors.New("camera: invalid viewport")
	ErrInvalidZoomRange    = errors.New("camera: invalid zoom range")
	ErrInvalidZoom         = errors.New("camera: invalid zoom level")
	ErrInvalidBoundaries   = errors.New("camera: invalid boundaries")
	ErrInvalidPosition     = errors.New("camera: invalid position")
	ErrInvalidRotationSnap = errors.New("camera: invalid rotation snap")
	ErrInvalidAnimation    = errors.New("camera: invalid animation duration")
)
