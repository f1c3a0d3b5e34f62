//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"vipers/internal/core"
	"vipers/internal/session"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Overlay draws optional debugging visuals on top of the world.
type Overlay struct {
	session    *session.Session
	showBiomes bool
	showTasks  bool
	showClouds bool

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(s *session.Session) *Overlay {
	o := &Overlay{session: s}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// SetSession points the overlay at a rebuilt session.
func (o *Overlay) SetSession(s *session.Session) { o.session = s }

// Update toggles the layers: 1 biome bounds, 2 task tiles, 3 clouds.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showBiomes = !o.showBiomes
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showTasks = !o.showTasks
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showClouds = !o.showClouds
	}
}

// Draw renders the enabled layers at the given scale.
func (o *Overlay) Draw(screen *ebiten.Image, scale float64) {
	if o.session == nil {
		return
	}
	p := o.session.Period()
	geo := o.session.Geometry()

	if o.showBiomes {
		face := basicfont.Face7x13
		for _, b := range p.Biomes() {
			if !b.Visible() {
				continue
			}
			x := b.PositionX() * scale
			o.drawLine(screen, x, 0, x, geo.ViewportH*scale, 1, color.RGBA{R: 255, G: 255, B: 0, A: 200})
			text.Draw(screen, b.Theme().String(), face, int(math.Round(x))+4, 16, color.RGBA{R: 255, G: 255, B: 0, A: 255})
		}
	}
	if o.showTasks {
		for _, e := range p.Registry().Active() {
			if r, ok := p.TaskRect(e.Handle); ok {
				o.drawRect(screen, r, scale, color.RGBA{R: 255, G: 64, B: 64, A: 255})
			}
		}
	}
	if o.showClouds {
		world := p.Earth()
		for i := 0; i < world.CloudLayers(); i++ {
			for _, c := range world.Clouds(i) {
				o.drawRect(screen, c.Rect, scale, color.RGBA{R: 64, G: 200, B: 255, A: 200})
			}
		}
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, r core.Rect, scale float64, col color.RGBA) {
	x0, y0 := r.X*scale, r.Y*scale
	x1, y1 := r.Right()*scale, r.Bottom()*scale
	o.drawLine(screen, x0, y0, x1, y0, 1, col)
	o.drawLine(screen, x1, y0, x1, y1, 1, col)
	o.drawLine(screen, x1, y1, x0, y1, 1, col)
	o.drawLine(screen, x0, y1, x0, y0, 1, col)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
