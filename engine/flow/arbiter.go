package flow

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/1siamBot/boardcam/engine/camera"
	"github.com/1siamBot/boardcam/engine/geom"
)

// Arbiter routes input to one of several registered controllers. A
// controller holding the lock receives everything; without a lock input
// goes to the focused controller.
type Arbiter struct {
	entries map[uuid.UUID]Controller
	order   []uuid.UUID
	owner   uuid.UUID
	focus   uuid.UUID
	logger  *slog.Logger
}

// ArbiterOption configures an Arbiter
type ArbiterOption func(*Arbiter)

func WithArbiterLogger(logger *slog.Logger) ArbiterOption {
	return func(a *Arbiter) { a.logger = logger }
}

func NewArbiter(opts ...ArbiterOption) *Arbiter {
	a := &Arbiter{entries: make(map[uuid.UUID]Controller)}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a
}

// Register adds c and returns its id. The first controller registered
// takes focus.
func (a *Arbiter) Register(c Controller) uuid.UUID {
	if c == nil {
		return uuid.Nil
	}
	id := uuid.New()
	a.entries[id] = c
	a.order = append(a.order, id)
	if a.focus == uuid.Nil {
		a.focus = id
	}
	a.logger.Debug("controller registered", "id", id)
	return id
}

// Unregister removes id, releasing its lock. Focus moves to the earliest
// remaining controller.
func (a *Arbiter) Unregister(id uuid.UUID) {
	if _, ok := a.entries[id]; !ok {
		return
	}
	delete(a.entries, id)
	for i, x := range a.order {
		if x == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	if a.owner == id {
		a.owner = uuid.Nil
	}
	if a.focus == id {
		a.focus = uuid.Nil
		if len(a.order) > 0 {
			a.focus = a.order[0]
		}
	}
	a.logger.Debug("controller unregistered", "id", id)
}

// Acquire locks input to id. It fails while another controller holds the
// lock or when id is unknown.
func (a *Arbiter) Acquire(id uuid.UUID) bool {
	if _, ok := a.entries[id]; !ok {
		return false
	}
	if a.owner != uuid.Nil && a.owner != id {
		return false
	}
	a.owner = id
	a.logger.Debug("input lock acquired", "id", id)
	return true
}

// Release drops the lock if id holds it
func (a *Arbiter) Release(id uuid.UUID) {
	if a.owner == id && id != uuid.Nil {
		a.owner = uuid.Nil
		a.logger.Debug("input lock released", "id", id)
	}
}

// Focus selects the controller that receives unlocked input
func (a *Arbiter) Focus(id uuid.UUID) bool {
	if _, ok := a.entries[id]; !ok {
		return false
	}
	a.focus = id
	return true
}

// Owner returns the lock holder
func (a *Arbiter) Owner() (uuid.UUID, bool) {
	return a.owner, a.owner != uuid.Nil
}

// Current returns the id input is routed to, or uuid.Nil
func (a *Arbiter) Current() uuid.UUID {
	if a.owner != uuid.Nil {
		return a.owner
	}
	return a.focus
}

func (a *Arbiter) current() Controller {
	return a.entries[a.Current()]
}

func (a *Arbiter) NotifyPanInput(delta geom.Point) {
	if c := a.current(); c != nil {
		c.NotifyPanInput(delta)
	}
}

func (a *Arbiter) NotifyZoomInput(deltaZoom float64, anchor geom.Point) {
	if c := a.current(); c != nil {
		c.NotifyZoomInput(deltaZoom, anchor)
	}
}

func (a *Arbiter) NotifyRotationInput(deltaRotation float64) {
	if c := a.current(); c != nil {
		c.NotifyRotationInput(deltaRotation)
	}
}

func (a *Arbiter) NotifyRotationInputAt(deltaRotation float64, anchor geom.Point) {
	if c := a.current(); c != nil {
		RotateAt(c, deltaRotation, anchor)
	}
}

func (a *Arbiter) View() camera.State {
	if c := a.current(); c != nil {
		st, _ := View(c)
		return st
	}
	return camera.State{}
}
