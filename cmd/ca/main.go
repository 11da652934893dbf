//go:build ebiten

package main

import (
	"errors"
	"flag"
	"image/color"
	"log"
	"os"

	"meca/internal/app"
	"meca/internal/core"
	"meca/internal/logging"
	"meca/internal/sims/meca"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	logLevel := flag.String("log-level", "info", "log level: info, debug or trace")
	flag.Parse()

	logger := logging.NewLogger(*logLevel, os.Stderr)

	sim, err := core.New(cfg.Sim, cfg.Params())
	if err != nil {
		log.Fatalf("build %s: %v", cfg.Sim, err)
	}
	logger.Info("starting", "sim", sim.Name(), "params", cfg.Params())

	game := app.New(sim, app.Options{
		Scale:    cfg.Scale,
		Seed:     cfg.Seed,
		HUDWidth: cfg.HUDWidth,
		Palettes: [][]color.RGBA{meca.Palette(), meca.BlackWhitePalette()},
		Logger:   logger,
	})
	size := sim.Size()

	ebiten.SetWindowTitle("meca - " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+max(cfg.HUDWidth, 0), size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
