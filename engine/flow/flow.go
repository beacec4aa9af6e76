// Package flow sits between input interpretation and camera rigs. The input
// machine only talks to a Controller; the implementations here decide how
// and where the resulting intents reach a rig.
//
// Intent deltas describe what the content should do on screen: a pan delta
// of (+10, 0) drags the board ten viewport pixels to the right, a positive
// rotation turns the board clockwise on screen. Controllers translate that
// into camera motion, which runs the other way.
package flow

import (
	"github.com/1siamBot/boardcam/engine/camera"
	"github.com/1siamBot/boardcam/engine/geom"
)

// Controller receives interpreted input
type Controller interface {
	NotifyPanInput(delta geom.Point)
	NotifyZoomInput(deltaZoom float64, anchor geom.Point)
	NotifyRotationInput(deltaRotation float64)
}

// AnchoredRotator is implemented by controllers that can rotate around a
// viewport point other than the center
type AnchoredRotator interface {
	NotifyRotationInputAt(deltaRotation float64, anchor geom.Point)
}

// Viewer exposes the camera state behind a controller
type Viewer interface {
	View() camera.State
}

// Target is the subset of *camera.Rig the controllers drive
type Target interface {
	PanByViewport(delta geom.Point) bool
	ZoomByAt(delta float64, anchor geom.Point) bool
	RotateBy(delta float64) bool
	RotateByAt(delta float64, anchor geom.Point) bool
	State() camera.State
}

var _ Target = (*camera.Rig)(nil)

// RotateAt delivers an anchored rotation when c supports it and falls back
// to a center rotation otherwise
func RotateAt(c Controller, delta float64, anchor geom.Point) {
	if ar, ok := c.(AnchoredRotator); ok {
		ar.NotifyRotationInputAt(delta, anchor)
		return
	}
	c.NotifyRotationInput(delta)
}

// View returns the camera state behind c, if c exposes one
func View(c Controller) (camera.State, bool) {
	if v, ok := c.(Viewer); ok {
		return v.View(), true
	}
	return camera.State{}, false
}
