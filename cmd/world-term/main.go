package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"vipers/internal/config"
	"vipers/internal/core"
	"vipers/internal/earth"
	"vipers/internal/render"
	"vipers/internal/session"
	"vipers/internal/termview"
)

func main() {
	flags := config.NewFlags()
	snapshot := flag.String("png", "", "write one frame to this PNG file after -ticks ticks and exit")
	ticks := flag.Int("ticks", 120, "ticks to simulate before writing -png")
	logFile := flag.String("log", "", "log file (the terminal is busy drawing)")
	flags.Bind(flag.CommandLine)
	flag.Parse()

	var logOut io.Writer = os.Stderr
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logOut = f
	} else if *snapshot == "" {
		logOut = io.Discard
	}
	logger, err := flags.Logger(logOut)
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

	if *snapshot != "" {
		if err := writeSnapshot(s, *ticks, *snapshot); err != nil {
			log.Fatal(err)
		}
		return
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	run(s, termview.New(screen, render.DefaultPalette()), flags.TPS)
}

func run(s *session.Session, view *termview.View, tps int) {
	controls := termview.NewControls()
	timer := core.NewFixedStep(tps)
	ticker := time.NewTicker(timer.Step())
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := view.Screen().PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	paused := false
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			key, isKey := ev.(*tcell.EventKey)
			if !isKey {
				continue
			}
			switch controls.HandleKey(key) {
			case termview.ActionQuit:
				return
			case termview.ActionPause:
				paused = !paused
			case termview.ActionReset:
				if err := s.Reset(s.Seed()); err != nil {
					return
				}
			case termview.ActionComplete:
				s.Period().CompleteOldest()
			}

		case <-ticker.C:
			for range timer.Pending(4) {
				in := controls.Next()
				if !paused {
					s.Update(in)
				}
			}
			view.Draw(s.Sprites(), s.Geometry(), status(s, paused))
			s.MarkClean()
		}
	}
}

func status(s *session.Session, paused bool) string {
	p := s.Period()
	state := ""
	if paused {
		state = " [paused]"
	}
	return fmt.Sprintf(" %s  tick %d  offset %.0f  tasks %d  next spawn %.0f/%.0f%s  ←/→ scroll  c complete  r reset  esc quit",
		s.Name(), p.Tick(), p.Earth().Offset(), p.Registry().Len(), p.SinceSpawn(), p.SpawnInterval(), state)
}

func writeSnapshot(s *session.Session, ticks int, path string) error {
	for range ticks {
		s.Update(earth.Input{})
	}
	geo := s.Geometry()
	raster := render.NewRaster(int(geo.ViewportW), int(geo.ViewportH))
	raster.Draw(s.Sprites(), render.DefaultPalette())

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, raster.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
