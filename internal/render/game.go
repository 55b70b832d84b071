package render

import (
	"context"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/zeusync/lowengine/internal/core/observability/log"
	"github.com/zeusync/lowengine/internal/engine"
)

var background = color.RGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xff}

// Window configures the ebiten window.
type Window struct {
	Width  int
	Height int
	Title  string
	TPS    int
}

// Game adapts an engine to ebiten. Ebiten calls Update on the game-loop
// goroutine, so that is where the engine ticks.
//
// F5 plays, P pauses, Escape stops, F1 toggles the debug overlay.
type Game struct {
	ctx      context.Context
	engine   *engine.Engine
	renderer *Renderer
	logger   log.Log
	debug    bool
}

func NewGame(ctx context.Context, e *engine.Engine, r *Renderer, logger log.Log) *Game {
	if logger == nil {
		logger = log.Nop()
	}
	return &Game{ctx: ctx, engine: e, renderer: r, logger: logger.With(log.String("component", "game"))}
}

func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.control("play", g.engine.Play)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.control("pause", g.engine.TogglePause)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.control("stop", g.engine.Stop)
	}

	g.engine.Tick(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) control(name string, fn func() error) {
	if err := fn(); err != nil {
		g.logger.Warn("Control rejected", log.String("control", name), log.Error(err))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.renderer.Draw(screen, g.engine.Frame())

	if g.debug {
		name, paused := "-", false
		if cur := g.engine.Scenes().GetCurrentScene(); cur != nil {
			name, paused = cur.Name, cur.IsPaused
		}
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Scene: %s\nPaused: %t\nSprites: %d\nFPS: %.1f",
			name, paused, len(g.engine.Frame().Items), ebiten.ActualFPS()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it closes or ctx is done.
func Run(ctx context.Context, w Window, e *engine.Engine, r *Renderer, logger log.Log) error {
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if w.TPS > 0 {
		ebiten.SetTPS(w.TPS)
	}
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(NewGame(ctx, e, r, logger)); err != nil {
		return err
	}
	return nil
}
