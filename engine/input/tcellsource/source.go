// Package tcellsource converts tcell terminal events into input events.
//
// A terminal reports one mouse with a button mask per event and no key
// releases. The translator diffs the mask into pointer down/move/up, turns
// wheel buttons into line-mode wheel events and maps cells to viewport
// pixels through a cell size.
package tcellsource

import (
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/1siamBot/boardcam/engine/geom"
	"github.com/1siamBot/boardcam/engine/input"
)

const (
	// the terminal mouse is always this pointer
	PointerID = 0

	wheelMask = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight
)

// Translator keeps the mouse state needed to diff successive events
type Translator struct {
	cell geom.Point

	buttons tcell.ButtonMask
	pos     geom.Point
	seen    bool
}

// Option configures a Translator
type Option func(*Translator)

// WithCellSize sets how many viewport pixels one terminal cell spans
func WithCellSize(w, h float64) Option {
	return func(t *Translator) {
		if w > 0 && h > 0 {
			t.cell = geom.Pt(w, h)
		}
	}
}

func New(opts ...Option) *Translator {
	t := &Translator{cell: geom.Pt(8, 16)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CellSize returns the pixel size of one cell
func (t *Translator) CellSize() geom.Point {
	return t.cell
}

// CellCenter maps a cell to the viewport pixel at its center
func (t *Translator) CellCenter(x, y int) geom.Point {
	return geom.Pt((float64(x)+0.5)*t.cell.X, (float64(y)+0.5)*t.cell.Y)
}

// PixelToCell maps a viewport pixel to the cell containing it
func (t *Translator) PixelToCell(p geom.Point) (int, int) {
	return int(p.X / t.cell.X), int(p.Y / t.cell.Y)
}

// Translate converts one tcell event. now is the host clock used to stamp
// the produced events.
func (t *Translator) Translate(ev tcell.Event, now time.Duration) []input.Event {
	switch e := ev.(type) {
	case *tcell.EventMouse:
		return t.mouse(e, now)
	case *tcell.EventKey:
		k := Key(e.Key(), e.Rune())
		if k == input.KeyNone {
			return nil
		}
		return []input.Event{{Kind: input.EventKeyDown, Time: now, Key: k, Mods: Mods(e.Modifiers())}}
	case *tcell.EventFocus:
		if !e.Focused && t.buttons != 0 {
			t.buttons = 0
			return []input.Event{{Kind: input.EventPointerCancel, Time: now, PointerID: PointerID, Pos: t.pos}}
		}
	}
	return nil
}

func (t *Translator) mouse(e *tcell.EventMouse, now time.Duration) []input.Event {
	x, y := e.Position()
	pos := t.CellCenter(x, y)
	mods := Mods(e.Modifiers())
	mask := e.Buttons()
	wheel := mask & wheelMask
	mask &^= wheelMask

	var out []input.Event
	base := input.Event{
		Time:      now,
		PointerID: PointerID,
		Pointer:   input.PointerMouse,
		Pos:       pos,
		Mods:      mods,
	}
	moved := !t.seen || pos != t.pos
	t.seen = true

	switch {
	case t.buttons == 0 && mask != 0:
		ev := base
		ev.Kind = input.EventPointerDown
		ev.Button = button(mask)
		out = append(out, ev)
	case t.buttons != 0 && mask == 0:
		ev := base
		ev.Kind = input.EventPointerUp
		ev.Button = button(t.buttons)
		out = append(out, ev)
	case moved:
		ev := base
		ev.Kind = input.EventPointerMove
		out = append(out, ev)
	}
	t.buttons = mask
	t.pos = pos

	if wheel != 0 {
		ev := base
		ev.Kind = input.EventWheel
		ev.DeltaMode = input.DeltaLine
		ev.Delta = wheelDelta(wheel)
		out = append(out, ev)
	}
	return out
}

func button(mask tcell.ButtonMask) input.Button {
	switch {
	case mask&tcell.ButtonPrimary != 0:
		return input.ButtonPrimary
	case mask&tcell.ButtonMiddle != 0:
		return input.ButtonMiddle
	default:
		return input.ButtonSecondary
	}
}

func wheelDelta(mask tcell.ButtonMask) geom.Point {
	var d geom.Point
	if mask&tcell.WheelUp != 0 {
		d.Y--
	}
	if mask&tcell.WheelDown != 0 {
		d.Y++
	}
	if mask&tcell.WheelLeft != 0 {
		d.X--
	}
	if mask&tcell.WheelRight != 0 {
		d.X++
	}
	return d
}

// Key maps a tcell key to an input key; unsupported keys map to KeyNone
func Key(k tcell.Key, r rune) input.Key {
	switch k {
	case tcell.KeyLeft:
		return input.KeyLeft
	case tcell.KeyRight:
		return input.KeyRight
	case tcell.KeyUp:
		return input.KeyUp
	case tcell.KeyDown:
		return input.KeyDown
	case tcell.KeyHome:
		return input.KeyHome
	case tcell.KeyPgUp:
		return input.KeyPageUp
	case tcell.KeyPgDn:
		return input.KeyPageDown
	case tcell.KeyEscape:
		return input.KeyEscape
	case tcell.KeyRune:
		return input.Key(unicode.ToLower(r))
	}
	return input.KeyNone
}

// Mods maps tcell modifiers
func Mods(m tcell.ModMask) input.Mods {
	var out input.Mods
	if m&tcell.ModShift != 0 {
		out |= input.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= input.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= input.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= input.ModMeta
	}
	return out
}
