//go:build ebiten

package render

import (
	"errors"
	"image/color"
	_ "image/png"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"vipers/internal/core"
	"vipers/internal/tile"
)

// Painter draws sprites onto an ebiten screen. Images are loaded from the
// asset directory on first use; keys without a file are drawn as flat
// palette-coloured rectangles.
type Painter struct {
	dir     string
	palette *Palette
	logger  *slog.Logger

	images  map[string]*ebiten.Image
	missing map[string]bool
	pixel   *ebiten.Image
}

// NewPainter creates a painter reading images below dir. An empty dir draws
// placeholders only.
func NewPainter(dir string, palette *Palette, logger *slog.Logger) *Painter {
	if palette == nil {
		palette = DefaultPalette()
	}
	if logger == nil {
		logger = slog.Default()
	}
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &Painter{
		dir:     dir,
		palette: palette,
		logger:  logger,
		images:  map[string]*ebiten.Image{},
		missing: map[string]bool{},
		pixel:   pixel,
	}
}

// Draw paints sprites in order at the given scale.
func (p *Painter) Draw(dst *ebiten.Image, sprites []core.Sprite, scale float64) {
	for _, s := range sprites {
		if s.Rect.W <= 0 || s.Rect.H <= 0 {
			continue
		}
		img, placeholder := p.image(s.Key)
		w, h := img.Bounds().Dx(), img.Bounds().Dy()

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(s.Rect.W/float64(w), s.Rect.H/float64(h))
		op.GeoM.Translate(s.Rect.X, s.Rect.Y)
		op.GeoM.Scale(scale, scale)
		if placeholder {
			op.ColorScale.ScaleWithColor(p.palette.Color(s))
		}
		if s.Tinted {
			op.ColorScale.ScaleWithColor(tile.TaskTint)
		}
		dst.DrawImage(img, op)
	}
}

func (p *Painter) image(key string) (*ebiten.Image, bool) {
	if img, ok := p.images[key]; ok {
		return img, false
	}
	if p.dir == "" || p.missing[key] {
		return p.pixel, true
	}
	img, _, err := ebitenutil.NewImageFromFile(filepath.Join(p.dir, filepath.FromSlash(key)))
	if err != nil {
		p.missing[key] = true
		if !errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("asset load failed", "key", key, "err", err)
		}
		return p.pixel, true
	}
	p.images[key] = img
	return img, false
}
