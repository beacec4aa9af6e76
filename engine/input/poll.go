package input

import (
	"sort"
	"time"

	"github.com/1siamBot/boardcam/engine/geom"
)

// MousePointerID is the pointer id polled mice report under. Touches are
// numbered from 1.
const MousePointerID = 0

// Touch is one active contact in a polled snapshot
type Touch struct {
	ID  int // platform touch id, only stable while the contact lasts
	Pos geom.Point
}

// Snapshot is the device state a polling host reads once per frame
type Snapshot struct {
	Cursor  geom.Point
	Pressed [3]bool // indexed by Button
	Touches []Touch
	Wheel   geom.Point // pixels, positive Y scrolls down
	Mods    Mods

	KeysDown []Key // pressed or repeating this frame
	KeysUp   []Key
}

// Poller diffs successive snapshots into events for hosts that poll
// devices instead of receiving callbacks
type Poller struct {
	cursor    geom.Point
	seen      bool
	mouseDown bool
	mouseBtn  Button
	touches   map[int]geom.Point // pointer id -> last position
	touchIDs  map[int]int        // platform id -> pointer id
	nextID    int
}

func NewPoller() *Poller {
	return &Poller{
		touches:  make(map[int]geom.Point),
		touchIDs: make(map[int]int),
		nextID:   MousePointerID + 1,
	}
}

// Held reports whether any pointer is down
func (p *Poller) Held() bool {
	return p.mouseDown || len(p.touches) > 0
}

// Diff returns the events that take the previous snapshot to s
func (p *Poller) Diff(s Snapshot, now time.Duration) []Event {
	var out []Event
	out = p.mouse(s, now, out)
	out = p.touch(s, now, out)

	if s.Wheel != (geom.Point{}) {
		out = append(out, Event{
			Kind:      EventWheel,
			Time:      now,
			PointerID: MousePointerID,
			Pos:       s.Cursor,
			Delta:     s.Wheel,
			DeltaMode: DeltaPixel,
			Mods:      s.Mods,
		})
	}
	for _, k := range s.KeysDown {
		out = append(out, Event{Kind: EventKeyDown, Time: now, Key: k, Mods: s.Mods})
	}
	for _, k := range s.KeysUp {
		out = append(out, Event{Kind: EventKeyUp, Time: now, Key: k, Mods: s.Mods})
	}
	return out
}

// Cancel releases every held pointer with a cancel event, e.g. when the
// window loses focus
func (p *Poller) Cancel(now time.Duration) []Event {
	var out []Event
	if p.mouseDown {
		p.mouseDown = false
		out = append(out, Event{Kind: EventPointerCancel, Time: now, PointerID: MousePointerID, Pos: p.cursor})
	}
	for _, id := range p.sortedTouches() {
		out = append(out, Event{Kind: EventPointerCancel, Time: now, PointerID: id, Pointer: PointerTouch, Pos: p.touches[id]})
	}
	clear(p.touches)
	clear(p.touchIDs)
	return out
}

func (p *Poller) mouse(s Snapshot, now time.Duration, out []Event) []Event {
	base := Event{
		Time:      now,
		PointerID: MousePointerID,
		Pointer:   PointerMouse,
		Pos:       s.Cursor,
		Mods:      s.Mods,
	}
	moved := !p.seen || s.Cursor != p.cursor
	p.seen = true
	p.cursor = s.Cursor

	switch {
	case !p.mouseDown:
		if b, ok := firstPressed(s.Pressed); ok {
			p.mouseDown = true
			p.mouseBtn = b
			ev := base
			ev.Kind = EventPointerDown
			ev.Button = b
			return append(out, ev)
		}
	case !s.Pressed[p.mouseBtn]:
		// other buttons pressed meanwhile are ignored until this one lifts
		p.mouseDown = false
		ev := base
		ev.Kind = EventPointerUp
		ev.Button = p.mouseBtn
		return append(out, ev)
	}
	if moved {
		ev := base
		ev.Kind = EventPointerMove
		out = append(out, ev)
	}
	return out
}

func (p *Poller) touch(s Snapshot, now time.Duration, out []Event) []Event {
	live := make(map[int]bool, len(s.Touches))
	for _, t := range s.Touches {
		base := Event{
			Time:    now,
			Pointer: PointerTouch,
			Button:  ButtonPrimary,
			Pos:     t.Pos,
			Mods:    s.Mods,
		}
		id, ok := p.touchIDs[t.ID]
		switch {
		case !ok:
			id = p.nextID
			p.nextID++
			p.touchIDs[t.ID] = id
			base.Kind = EventPointerDown
		case p.touches[id] != t.Pos:
			base.Kind = EventPointerMove
		}
		live[id] = true
		p.touches[id] = t.Pos
		if base.Kind != EventNone {
			base.PointerID = id
			out = append(out, base)
		}
	}

	for tid, id := range p.touchIDs {
		if !live[id] {
			delete(p.touchIDs, tid)
		}
	}
	for _, id := range p.sortedTouches() {
		if live[id] {
			continue
		}
		out = append(out, Event{
			Kind:      EventPointerUp,
			Time:      now,
			PointerID: id,
			Pointer:   PointerTouch,
			Button:    ButtonPrimary,
			Pos:       p.touches[id],
			Mods:      s.Mods,
		})
		delete(p.touches, id)
	}
	return out
}

func (p *Poller) sortedTouches() []int {
	ids := make([]int, 0, len(p.touches))
	for id := range p.touches {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func firstPressed(pressed [3]bool) (Button, bool) {
	for _, b := range [...]Button{ButtonPrimary, ButtonMiddle, ButtonSecondary} {
		if pressed[b] {
			return b, true
		}
	}
	return 0, false
}
