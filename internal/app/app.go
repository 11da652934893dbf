//go:build ebiten

package app

import (
	"image/color"
	"log/slog"
	"time"

	"meca/internal/core"
	"meca/internal/logging"
	"meca/internal/render"
	"meca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Options configures a Game.
type Options struct {
	Scale    int
	Seed     int64
	HUDWidth int
	// Palettes are cycled with the C key; the first one is active at start.
	Palettes [][]color.RGBA
	Logger   *slog.Logger
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	log     *slog.Logger

	palettes [][]color.RGBA
	palette  int

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, opts Options) *Game {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	size := sim.Size()
	return &Game{
		sim:      sim,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(sim, opts.Scale),
		hud:      ui.NewHUD(sim, opts.HUDWidth),
		log:      logging.OrDiscard(opts.Logger),
		palettes: opts.Palettes,
		scale:    opts.Scale,
		hudWidth: max(opts.HUDWidth, 0),
		seed:     opts.Seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	if err := g.sim.Reset(seed); err != nil {
		g.log.Error("reset failed", "seed", seed, "err", err)
	}
	g.overlay.Reset()
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) && len(g.palettes) > 0 {
		g.palette = (g.palette + 1) % len(g.palettes)
	}

	if g.hud.Update(g.viewWidth()) {
		g.overlay.Reset()
	}
	g.overlay.Update()

	if !g.paused || g.tickOnce {
		if err := g.sim.Step(); err != nil {
			g.log.Error("step failed", "sim", g.sim.Name(), "err", err)
			return err
		}
		g.tickOnce = false
	}
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	var palette []color.RGBA
	if len(g.palettes) > 0 {
		palette = g.palettes[g.palette]
	}
	g.painter.Blit(screen, g.sim.Cells(), palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.viewWidth(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.viewWidth() + g.hudWidth, g.sim.Size().H * g.scale
}

func (g *Game) viewWidth() int { return g.sim.Size().W * g.scale }
