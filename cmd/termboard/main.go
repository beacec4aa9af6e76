package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/1siamBot/boardcam/engine/camera"
	"github.com/1siamBot/boardcam/engine/core"
	"github.com/1siamBot/boardcam/engine/flow"
	"github.com/1siamBot/boardcam/engine/geom"
	"github.com/1siamBot/boardcam/engine/input"
	"github.com/1siamBot/boardcam/engine/input/tcellsource"
	"github.com/1siamBot/boardcam/engine/render/raster"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

var (
	darkCell    = color.RGBA{46, 52, 64, 255}
	lightCell   = color.RGBA{59, 66, 82, 255}
	outside     = color.RGBA{0, 0, 0, 255}
	originColor = tcell.NewRGBColor(191, 97, 106)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
)

type Game struct {
	screen   tcell.Screen
	tr       *tcellsource.Translator
	rig      *camera.Rig
	smoother *flow.Smoother
	machine  *input.Machine
	loop     *core.FrameLoop
	board    *raster.Board
	canvas   *image.RGBA // one pixel per terminal cell
	logger   *slog.Logger

	cell   float64
	bounds geom.Rect
	status string
}

func NewGame(screen tcell.Screen, boardSize, cell float64, logger *slog.Logger) (*Game, error) {
	g := &Game{
		screen: screen,
		tr:     tcellsource.New(),
		loop:   core.NewFrameLoop(),
		logger: logger,
		cell:   cell,
	}
	half := boardSize / 2
	g.bounds = geom.Rect{Min: geom.Pt(-half, -half), Max: geom.Pt(half, half)}

	var err error
	if g.board, err = raster.NewBoard(cell, g.bounds, darkCell, lightCell); err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}

	w, h := screen.Size()
	cfg := camera.DefaultConfig()
	cfg.Viewport = g.viewport(w, h)
	cfg.Boundaries = &g.bounds
	cfg.ZoomRange = camera.ZoomRange{Min: 0.05, Max: 4}
	cfg.RotationSnap = math.Pi / 4

	if g.rig, err = camera.NewRig(cfg, camera.WithLogger(logger)); err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	g.smoother = flow.NewSmoother(g.rig)

	icfg := input.DefaultConfig()
	icfg.KeyPanStep = 4 * g.tr.CellSize().X
	icfg.KeyRotateStep = math.Pi / 4
	g.machine, err = input.NewMachine(g.smoother, icfg,
		input.WithLogger(logger),
		input.WithSelectHandler(g.onSelect),
	)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	g.machine.SetViewport(cfg.Viewport)

	g.loop.AddTicker(g.smoother, g.rig)
	g.loop.AddFlusher(g.rig)
	return g, nil
}

// viewport is the pixel size of the board area; the last row holds the
// status line
func (g *Game) viewport(w, h int) geom.Point {
	c := g.tr.CellSize()
	return geom.Pt(float64(w)*c.X, float64(max(h-1, 1))*c.Y)
}

func (g *Game) onSelect(sel input.Selection) {
	world := g.rig.ViewportToWorld(sel.Rect.Center())
	g.status = fmt.Sprintf("selected (%.0f, %.0f)", world.X, world.Y)
	g.logger.Info("selection", "click", sel.Click, "world", world)
	if sel.Click {
		g.smoother.Halt()
		g.rig.PanToAnimated(world)
	}
}

// handleInput returns false when the program should exit
func (g *Game) handleInput(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		w, h := e.Size()
		v := g.viewport(w, h)
		if err := g.rig.SetViewport(v.X, v.Y); err != nil {
			g.logger.Warn("resize rejected", "error", err)
		}
		g.machine.SetViewport(v)
		g.screen.Sync()
		return true
	case *tcell.EventKey:
		switch e.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyHome:
			g.smoother.Halt()
			g.rig.PanToAnimated(geom.Point{})
			g.rig.ZoomToAnimated(1)
			g.rig.RotateToAnimated(0)
			return true
		}
	}
	for _, ie := range g.tr.Translate(ev, g.loop.Now()) {
		g.machine.Process(ie)
	}
	return true
}

func (g *Game) draw() {
	s := g.rig.State()
	w, h := g.screen.Size()
	sel, selecting := g.machine.Selecting()

	if r := image.Rect(0, 0, w, max(h-1, 0)); g.canvas == nil || g.canvas.Rect != r {
		g.canvas = image.NewRGBA(r)
	}
	raster.Fill(g.canvas, outside)
	g.board.Draw(g.canvas, raster.CellView(s, g.tr.CellSize()))

	for y := 0; y < h-1; y++ {
		for x := 0; x < w; x++ {
			c := g.canvas.RGBAAt(x, y)
			bg := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
			style, r := tcell.StyleDefault.Background(bg), ' '
			v := g.tr.CellCenter(x, y)
			if p := s.ViewportToWorld(v); math.Abs(p.X) < g.cell/4 && math.Abs(p.Y) < g.cell/4 {
				style, r = style.Foreground(originColor), '+'
			}
			if selecting && sel.Contains(v) {
				style = style.Reverse(true)
			}
			g.screen.SetContent(x, y, r, nil, style)
		}
	}

	line := fmt.Sprintf(" %s | pos (%.0f, %.0f) zoom %.2fx rot %.0f deg | %s | Esc quits",
		g.machine.State(), s.Position.X, s.Position.Y, s.Zoom, s.Rotation*180/math.Pi, g.status)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		g.screen.SetContent(x, h-1, r, nil, statusStyle)
	}
	g.screen.Show()
}

func (g *Game) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !g.handleInput(ev) {
				return
			}
		case <-ticker.C:
			g.loop.Update()
			g.draw()
		}
	}
}

func main() {
	var (
		logPath   string
		boardSize float64
		cell      float64
		verbose   bool
	)
	flag.StringVar(&logPath, "log", "", "write logs to this file (the terminal is taken)")
	flag.Float64Var(&boardSize, "board", 2048, "board edge length in world units")
	flag.Float64Var(&cell, "cell", 32, "grid cell size in world units")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	var out io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	defer screen.Fini()

	game, err := NewGame(screen, boardSize, cell, logger)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	game.run()
}
