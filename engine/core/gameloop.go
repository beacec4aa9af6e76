package core

import "time"

// LoopState is whether time advances
type LoopState uint8

const (
	StateRunning LoopState = iota
	StatePaused
)

// MaxFrameTime caps the time one Update may advance
const MaxFrameTime = 250 * time.Millisecond

// Ticker advances time-based state such as animations and smoothing
type Ticker interface {
	Tick(dt time.Duration)
}

// Flusher delivers work deferred during a frame
type Flusher interface {
	Flush() int
}

// TickFunc adapts a function to Ticker
type TickFunc func(dt time.Duration)

func (f TickFunc) Tick(dt time.Duration) { f(dt) }

// FrameLoop drives tickers once per host frame, then flushes deferred
// notifications so listeners see the frame's final state
type FrameLoop struct {
	State    LoopState
	Step     time.Duration // fixed tick length; zero ticks once per frame
	tickers  []Ticker
	flushers []Flusher

	clock       func() time.Time
	start       time.Time
	lastTime    time.Time
	accumulator time.Duration
	frames      uint64
}

// LoopOption configures a FrameLoop
type LoopOption func(*FrameLoop)

// WithClock replaces time.Now
func WithClock(clock func() time.Time) LoopOption {
	return func(l *FrameLoop) { l.clock = clock }
}

// WithFixedStep ticks in fixed steps of d, carrying the remainder over
func WithFixedStep(d time.Duration) LoopOption {
	return func(l *FrameLoop) {
		if d > 0 {
			l.Step = d
		}
	}
}

func NewFrameLoop(opts ...LoopOption) *FrameLoop {
	l := &FrameLoop{clock: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	l.start = l.clock()
	l.lastTime = l.start
	return l
}

// AddTicker registers tickers in the order they run
func (l *FrameLoop) AddTicker(t ...Ticker) {
	l.tickers = append(l.tickers, t...)
}

// AddFlusher registers flushers; they run after every ticker
func (l *FrameLoop) AddFlusher(f ...Flusher) {
	l.flushers = append(l.flushers, f...)
}

// Now returns the time since the loop was created, the clock input events
// are stamped with
func (l *FrameLoop) Now() time.Duration {
	return l.clock().Sub(l.start)
}

// Update should be called every render frame. It returns the fixed-step
// interpolation alpha, or 0 when ticking per frame.
func (l *FrameLoop) Update() float64 {
	now := l.clock()
	frameTime := now.Sub(l.lastTime)
	l.lastTime = now
	l.frames++

	// Cap frame time to avoid spiral of death
	frameTime = min(max(frameTime, 0), MaxFrameTime)

	var alpha float64
	if l.State == StateRunning {
		if l.Step <= 0 {
			l.tick(frameTime)
		} else {
			l.accumulator += frameTime
			for l.accumulator >= l.Step {
				l.tick(l.Step)
				l.accumulator -= l.Step
			}
			alpha = float64(l.accumulator) / float64(l.Step)
		}
	}

	for _, f := range l.flushers {
		f.Flush()
	}
	return alpha
}

func (l *FrameLoop) tick(dt time.Duration) {
	for _, t := range l.tickers {
		t.Tick(dt)
	}
}

// Play starts or resumes ticking without replaying the paused time
func (l *FrameLoop) Play() {
	l.State = StateRunning
	l.lastTime = l.clock()
}

// Pause stops ticking; flushers still run
func (l *FrameLoop) Pause() {
	l.State = StatePaused
}

// Frames returns how many times Update ran
func (l *FrameLoop) Frames() uint64 {
	return l.frames
}
