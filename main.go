package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/slotreel/pkg/app"
)

func main() {
	configPath := flag.String("config", "data/reel.yaml", "path to the reel YAML config")
	speed := flag.Float64("speed", 0, "override scroll speed in px/s (0 keeps the config value)")
	verbose := flag.Bool("verbose", false, "enable logging and the debug HUD")
	fullscreen := flag.Bool("fullscreen", false, "start in fullscreen mode")
	flag.Parse()

	a, err := app.NewApp(app.Config{
		ConfigPath: *configPath,
		Speed:      *speed,
		Verbose:    *verbose,
		Fullscreen: *fullscreen,
	})
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(app.DefaultWidth, app.DefaultHeight)
	ebiten.SetWindowTitle("Slot Reel")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	// Run the game loop: Update advances the reel state machine and
	// Draw composites the current frame until the window is closed.
	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
