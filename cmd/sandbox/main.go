package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/encounter/config"
	"github.com/milk9111/encounter/prefabs"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	boss := flag.String("boss", "", "boss prefab to fight (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *boss != "" {
		cfg.Viewer.Boss = *boss
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	prefabs.Dir = cfg.PrefabDir
	g, err := NewGame(cfg, log)
	if err != nil {
		log.Fatal("sandbox setup failed", zap.Error(err))
	}
	defer g.Close()

	ebiten.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetWindowTitle("encounter sandbox")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && err != errQuit {
		log.Fatal("sandbox exited", zap.Error(err))
	}
}
