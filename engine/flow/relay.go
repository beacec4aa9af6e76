package flow

import (
	"github.com/1siamBot/boardcam/engine/camera"
	"github.com/1siamBot/boardcam/engine/geom"
)

// Relay forwards every intent to its target immediately
type Relay struct {
	target Target
}

func NewRelay(target Target) *Relay {
	return &Relay{target: target}
}

func (r *Relay) NotifyPanInput(delta geom.Point) {
	r.target.PanByViewport(delta.Neg())
}

func (r *Relay) NotifyZoomInput(deltaZoom float64, anchor geom.Point) {
	r.target.ZoomByAt(deltaZoom, anchor)
}

func (r *Relay) NotifyRotationInput(deltaRotation float64) {
	r.target.RotateBy(-deltaRotation)
}

func (r *Relay) NotifyRotationInputAt(deltaRotation float64, anchor geom.Point) {
	r.target.RotateByAt(-deltaRotation, anchor)
}

func (r *Relay) View() camera.State {
	return r.target.State()
}
