package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/shapecache/config"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (embedded defaults when empty)")
	debug := flag.Bool("debug", false, "show body and event counters")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	game, err := NewGame(cfg, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetWindowTitle("shapeview")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
