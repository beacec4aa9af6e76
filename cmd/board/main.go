package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1siamBot/boardcam/engine/camera"
	"github.com/1siamBot/boardcam/engine/core"
	"github.com/1siamBot/boardcam/engine/flow"
	"github.com/1siamBot/boardcam/engine/geom"
	"github.com/1siamBot/boardcam/engine/input"
	"github.com/1siamBot/boardcam/engine/input/ebitensource"
	"github.com/1siamBot/boardcam/engine/metrics"
	"github.com/1siamBot/boardcam/engine/render"
)

type options struct {
	width, height int
	boardSize     float64
	cell          float64
	wheel         string
	anim          time.Duration
	smooth        time.Duration
	inertia       float64
	metricsAddr   string
	verbose       bool
}

// Game implements ebiten.Game interface
type Game struct {
	rig      *camera.Rig
	smoother *flow.Smoother
	machine  *input.Machine
	source   *ebitensource.Source
	loop     *core.FrameLoop
	board    *render.Board
	logger   *slog.Logger

	viewport geom.Point
	cursor   geom.Point
}

func NewGame(o options, logger *slog.Logger, m *metrics.Metrics) (*Game, error) {
	half := o.boardSize / 2
	bounds := &geom.Rect{Min: geom.Pt(-half, -half), Max: geom.Pt(half, half)}

	cfg := camera.DefaultConfig()
	cfg.Viewport = geom.Pt(float64(o.width), float64(o.height))
	cfg.Boundaries = bounds
	cfg.ZoomRange = camera.ZoomRange{Min: 0.1, Max: 8}
	cfg.AnimationDuration = o.anim
	rig, err := camera.NewRig(cfg, camera.WithLogger(logger), camera.WithMetrics(m))
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	sopts := []flow.SmootherOption{flow.WithTimeConstant(o.smooth)}
	if o.inertia > 0 {
		sopts = append(sopts, flow.WithInertia(o.inertia))
	}
	smoother := flow.NewSmoother(rig, sopts...)

	g := &Game{
		rig:      rig,
		smoother: smoother,
		source:   ebitensource.New(),
		loop:     core.NewFrameLoop(),
		board:    render.NewBoard(o.cell, bounds),
		logger:   logger,
		viewport: cfg.Viewport,
	}

	icfg := input.DefaultConfig()
	switch o.wheel {
	case "zoom":
		icfg.WheelMode = input.WheelZoom
	case "pan":
		icfg.WheelMode = input.WheelPan
	default:
		return nil, fmt.Errorf("unknown wheel mode %q", o.wheel)
	}
	g.machine, err = input.NewMachine(smoother, icfg,
		input.WithLogger(logger),
		input.WithMetrics(m),
		input.WithSelectHandler(g.onSelect),
		input.WithTransitionHook(g.onTransition),
	)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	g.machine.SetViewport(cfg.Viewport)

	rig.Events().All.Subscribe(func(c camera.Change) {
		logger.Debug("camera changed",
			"axis", c.Axis.String(),
			"position", c.After.Position,
			"zoom", c.After.Zoom,
			"rotation", c.After.Rotation,
		)
	})

	g.loop.AddTicker(smoother, rig)
	g.loop.AddFlusher(rig)
	return g, nil
}

// onTransition stops coasting as soon as a pointer grabs the board
func (g *Game) onTransition(from, to input.State) {
	switch to {
	case input.StatePanningWithLeftPointer, input.StatePanningWithMiddlePointer, input.StatePinching:
		g.smoother.Halt()
		g.rig.CancelAnimations()
	}
}

// onSelect centers a clicked cell, or fits a selection box to the window
func (g *Game) onSelect(sel input.Selection) {
	s := g.rig.State()
	center := s.ViewportToWorld(sel.Rect.Center())
	g.logger.Info("selection", "click", sel.Click, "world", center, "button", sel.Button)

	g.smoother.Halt()
	if sel.Click {
		cell := g.board.Cell
		snapped := geom.Pt((math.Floor(center.X/cell)+0.5)*cell, (math.Floor(center.Y/cell)+0.5)*cell)
		g.rig.PanToAnimated(snapped)
		return
	}
	size := sel.Rect.Size()
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	fit := math.Min(s.Viewport.X/size.X, s.Viewport.Y/size.Y)
	g.rig.PanToAnimated(center)
	g.rig.ZoomToAnimated(s.Zoom * fit)
}

func (g *Game) resetView() {
	g.smoother.Halt()
	g.rig.PanToAnimated(geom.Point{})
	g.rig.ZoomToAnimated(1)
	g.rig.RotateToAnimated(0)
}

func (g *Game) Update() error {
	for _, ev := range g.source.Poll(g.loop.Now()) {
		if ev.Kind == input.EventPointerMove && ev.PointerID == input.MousePointerID {
			g.cursor = ev.Pos
		}
		if ev.Kind == input.EventKeyDown {
			switch ev.Key {
			case input.KeyEscape:
				return ebiten.Termination
			case input.KeyHome:
				g.resetView()
				continue
			}
		}
		g.machine.Process(ev)
	}
	g.loop.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})
	s := g.rig.State()
	g.board.Draw(screen, s, 1)

	if r, ok := g.machine.Selecting(); ok {
		render.DrawSelectionBox(screen, r, 1)
	}

	w := s.ViewportToWorld(g.cursor)
	render.DrawHUD(screen,
		fmt.Sprintf("FPS: %.0f | State: %s", ebiten.ActualFPS(), g.machine.State()),
		fmt.Sprintf("Pos: (%.0f, %.0f) Zoom: %.2fx Rot: %.0f deg", s.Position.X, s.Position.Y, s.Zoom, s.Rotation*180/math.Pi),
		fmt.Sprintf("Cursor: (%.0f, %.0f)", w.X, w.Y),
		"[Drag] Pan [Wheel] Zoom [Shift+Drag] Fit [Q/E] Rotate [Home] Reset",
	)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	v := geom.Pt(float64(outsideWidth), float64(outsideHeight))
	if v != g.viewport && v.X > 0 && v.Y > 0 {
		if err := g.rig.SetViewport(v.X, v.Y); err != nil {
			g.logger.Warn("resize rejected", "error", err)
		} else {
			g.viewport = v
			g.machine.SetViewport(v)
		}
	}
	return outsideWidth, outsideHeight
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("metrics shutdown failed", "error", err)
		}
	}
}

func main() {
	var o options
	flag.IntVar(&o.width, "width", 1280, "window width")
	flag.IntVar(&o.height, "height", 720, "window height")
	flag.Float64Var(&o.boardSize, "board", 4096, "board edge length in world units")
	flag.Float64Var(&o.cell, "cell", 64, "grid cell size in world units")
	flag.StringVar(&o.wheel, "wheel", "zoom", "mouse wheel action: zoom or pan")
	flag.DurationVar(&o.anim, "anim", 300*time.Millisecond, "camera animation duration")
	flag.DurationVar(&o.smooth, "smooth", flow.DefaultTimeConstant, "input smoothing time constant")
	flag.Float64Var(&o.inertia, "inertia", 4, "pan inertia friction per second, 0 disables")
	flag.StringVar(&o.metricsAddr, "metrics", "", "serve prometheus metrics on this address")
	flag.BoolVar(&o.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if o.metricsAddr != "" {
		stop := serveMetrics(o.metricsAddr, reg, logger)
		defer stop()
	}

	g, err := NewGame(o, logger, m)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(o.width, o.height)
	ebiten.SetWindowTitle("boardcam")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
