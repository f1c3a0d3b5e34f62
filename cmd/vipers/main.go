//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"vipers/internal/app"
	"vipers/internal/config"
	"vipers/internal/session"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flags := config.NewFlags()
	assetDir := flag.String("asset-dir", "", "directory holding tile, background and cloud images")
	flags.Bind(flag.CommandLine)
	flag.Parse()

	logger, err := flags.Logger(os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	assets, err := config.LoadAssets(flags.Assets)
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := assets.Session(flags, logger)
	if err != nil {
		log.Fatal(err)
	}
	s, err := session.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	game := app.New(s, flags.Scale, *assetDir, logger)
	geo := s.Geometry()

	ebiten.SetWindowTitle(s.Title())
	ebiten.SetTPS(flags.TPS)
	ebiten.SetWindowSize(int(geo.ViewportW*flags.Scale)+app.HUDWidth, int(geo.ViewportH*flags.Scale))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
