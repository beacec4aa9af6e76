package flow

import (
	"reflect"

	"github.com/1siamBot/boardcam/engine/camera"
	"github.com/1siamBot/boardcam/engine/geom"
)

// Broadcast fans every intent out to several controllers, in order
type Broadcast struct {
	controllers []Controller
}

func NewBroadcast(controllers ...Controller) *Broadcast {
	b := &Broadcast{}
	b.Add(controllers...)
	return b
}

// Add appends controllers; nil entries are skipped
func (b *Broadcast) Add(controllers ...Controller) {
	for _, c := range controllers {
		if c != nil {
			b.controllers = append(b.controllers, c)
		}
	}
}

// Remove drops every occurrence of c. Controllers are matched by ==, so a
// controller whose dynamic type is not comparable (a struct holding a
// slice or func) never matches; register those by pointer.
func (b *Broadcast) Remove(c Controller) {
	kept := b.controllers[:0]
	for _, x := range b.controllers {
		if !sameController(x, c) {
			kept = append(kept, x)
		}
	}
	clear(b.controllers[len(kept):])
	b.controllers = kept
}

func sameController(a, b Controller) bool {
	t := reflect.TypeOf(a)
	return t == reflect.TypeOf(b) && t.Comparable() && a == b
}

func (b *Broadcast) Len() int {
	return len(b.controllers)
}

func (b *Broadcast) NotifyPanInput(delta geom.Point) {
	for _, c := range b.controllers {
		c.NotifyPanInput(delta)
	}
}

func (b *Broadcast) NotifyZoomInput(deltaZoom float64, anchor geom.Point) {
	for _, c := range b.controllers {
		c.NotifyZoomInput(deltaZoom, anchor)
	}
}

func (b *Broadcast) NotifyRotationInput(deltaRotation float64) {
	for _, c := range b.controllers {
		c.NotifyRotationInput(deltaRotation)
	}
}

func (b *Broadcast) NotifyRotationInputAt(deltaRotation float64, anchor geom.Point) {
	for _, c := range b.controllers {
		RotateAt(c, deltaRotation, anchor)
	}
}

// View reports the state of the first controller that exposes one
func (b *Broadcast) View() camera.State {
	for _, c := range b.controllers {
		if st, ok := View(c); ok {
			return st
		}
	}
	return camera.State{}
}
