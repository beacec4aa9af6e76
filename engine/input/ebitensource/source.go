// Package ebitensource polls ebiten's mouse, touch, wheel and keyboard
// state once per tick and reports the changes as input events.
package ebitensource

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/1siamBot/boardcam/engine/geom"
	"github.com/1siamBot/boardcam/engine/input"
)

const (
	// DefaultWheelPixels converts one wheel notch to viewport pixels
	DefaultWheelPixels = 16

	// key repeat, in ticks
	DefaultRepeatDelay    = 24
	DefaultRepeatInterval = 4
)

type keyMap struct {
	key ebiten.Key
	to  input.Key
}

var keys = []keyMap{
	{ebiten.KeyArrowLeft, input.KeyLeft},
	{ebiten.KeyArrowRight, input.KeyRight},
	{ebiten.KeyArrowUp, input.KeyUp},
	{ebiten.KeyArrowDown, input.KeyDown},
	{ebiten.KeyHome, input.KeyHome},
	{ebiten.KeyPageUp, input.KeyPageUp},
	{ebiten.KeyPageDown, input.KeyPageDown},
	{ebiten.KeyEscape, input.KeyEscape},
	{ebiten.KeyEqual, '='},
	{ebiten.KeyMinus, '-'},
	{ebiten.KeyNumpadAdd, '+'},
	{ebiten.KeyNumpadSubtract, '-'},
	{ebiten.KeyA, 'a'}, {ebiten.KeyB, 'b'}, {ebiten.KeyC, 'c'}, {ebiten.KeyD, 'd'},
	{ebiten.KeyE, 'e'}, {ebiten.KeyF, 'f'}, {ebiten.KeyG, 'g'}, {ebiten.KeyH, 'h'},
	{ebiten.KeyI, 'i'}, {ebiten.KeyJ, 'j'}, {ebiten.KeyK, 'k'}, {ebiten.KeyL, 'l'},
	{ebiten.KeyM, 'm'}, {ebiten.KeyN, 'n'}, {ebiten.KeyO, 'o'}, {ebiten.KeyP, 'p'},
	{ebiten.KeyQ, 'q'}, {ebiten.KeyR, 'r'}, {ebiten.KeyS, 's'}, {ebiten.KeyT, 't'},
	{ebiten.KeyU, 'u'}, {ebiten.KeyV, 'v'}, {ebiten.KeyW, 'w'}, {ebiten.KeyX, 'x'},
	{ebiten.KeyY, 'y'}, {ebiten.KeyZ, 'z'},
}

// Source reads ebiten's input state. Call Poll from Game.Update.
type Source struct {
	poller *input.Poller

	wheelPixels    float64
	repeatDelay    int
	repeatInterval int

	touchIDs []ebiten.TouchID
	snap     input.Snapshot
}

// Option configures a Source
type Option func(*Source)

// WithWheelPixels sets the pixels one wheel notch scrolls
func WithWheelPixels(px float64) Option {
	return func(s *Source) {
		if px > 0 {
			s.wheelPixels = px
		}
	}
}

// WithKeyRepeat sets the held-key repeat delay and interval in ticks.
// A zero interval disables repeat.
func WithKeyRepeat(delay, interval int) Option {
	return func(s *Source) {
		s.repeatDelay = max(delay, 0)
		s.repeatInterval = max(interval, 0)
	}
}

func New(opts ...Option) *Source {
	s := &Source{
		poller:         input.NewPoller(),
		wheelPixels:    DefaultWheelPixels,
		repeatDelay:    DefaultRepeatDelay,
		repeatInterval: DefaultRepeatInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Poll returns the events since the previous call. Losing window focus
// cancels every held pointer.
func (s *Source) Poll(now time.Duration) []input.Event {
	if !ebiten.IsFocused() {
		return s.poller.Cancel(now)
	}

	snap := &s.snap
	snap.Mods = readModifiers()

	mx, my := ebiten.CursorPosition()
	snap.Cursor = geom.Pt(float64(mx), float64(my))
	snap.Pressed[input.ButtonPrimary] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	snap.Pressed[input.ButtonMiddle] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	snap.Pressed[input.ButtonSecondary] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)

	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	snap.Touches = snap.Touches[:0]
	for _, tid := range s.touchIDs {
		tx, ty := ebiten.TouchPosition(tid)
		snap.Touches = append(snap.Touches, input.Touch{ID: int(tid), Pos: geom.Pt(float64(tx), float64(ty))})
	}

	// ebiten reports positive offsets for scrolling up and left
	wx, wy := ebiten.Wheel()
	snap.Wheel = geom.Pt(-wx*s.wheelPixels, -wy*s.wheelPixels)

	snap.KeysDown = snap.KeysDown[:0]
	snap.KeysUp = snap.KeysUp[:0]
	for _, k := range keys {
		to := k.to
		if k.key == ebiten.KeyEqual && snap.Mods.Has(input.ModShift) {
			to = '+'
		}
		if s.repeating(k.key) {
			snap.KeysDown = append(snap.KeysDown, to)
		}
		if inpututil.IsKeyJustReleased(k.key) {
			snap.KeysUp = append(snap.KeysUp, to)
		}
	}

	return s.poller.Diff(*snap, now)
}

func (s *Source) repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	if d <= 0 {
		return false
	}
	if d == 1 {
		return true
	}
	if s.repeatInterval <= 0 || d < s.repeatDelay {
		return false
	}
	return (d-s.repeatDelay)%s.repeatInterval == 0
}

func readModifiers() input.Mods {
	var mods input.Mods
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= input.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= input.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= input.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= input.ModMeta
	}
	return mods
}
