//go:build ebiten

package app

import (
	"image/color"
	"log/slog"

	"vipers/internal/earth"
	"vipers/internal/render"
	"vipers/internal/session"
	"vipers/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// HUDWidth is the width of the parameter panel in screen pixels.
const HUDWidth = 280

// Game adapts a session to the ebiten.Game interface.
type Game struct {
	session *session.Session
	painter *render.Painter
	overlay *ui.Overlay
	hud     *ui.HUD
	logger  *slog.Logger

	scale    float64
	paused   bool
	tickOnce bool
}

// New constructs a Game for the provided session. Images are read from
// assetDir when it is set.
func New(s *session.Session, scale float64, assetDir string, logger *slog.Logger) *Game {
	if scale <= 0 {
		scale = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		session: s,
		painter: render.NewPainter(assetDir, render.DefaultPalette(), logger),
		overlay: ui.NewOverlay(s),
		hud:     ui.NewHUD(s, HUDWidth),
		logger:  logger,
		scale:   scale,
	}
}

// Reset rebuilds the world with the session seed.
func (g *Game) Reset() {
	if err := g.session.Reset(g.session.Seed()); err != nil {
		g.logger.Error("reset failed", "err", err)
		return
	}
	g.overlay.SetSession(g.session)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the session.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if h, ok := g.session.Period().CompleteOldest(); ok {
			g.logger.Info("task completed", "handle", uint64(h))
		}
	}

	g.overlay.Update()
	g.hud.Update(g.worldWidth())

	if !g.paused || g.tickOnce {
		g.session.Update(earth.Input{
			Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
			Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
		})
		g.tickOnce = false
	}
	return nil
}

// Draw renders the current world.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.painter.Draw(screen, g.session.Sprites(), g.scale)
	g.session.MarkClean()
	g.overlay.Draw(screen, g.scale)
	g.hud.Draw(screen, g.worldWidth(), g.worldHeight())
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.worldWidth() + g.hud.Width(), g.worldHeight()
}

func (g *Game) worldWidth() int {
	return int(g.session.Geometry().ViewportW * g.scale)
}

func (g *Game) worldHeight() int {
	return int(g.session.Geometry().ViewportH * g.scale)
}
