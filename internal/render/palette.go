// Package render turns world sprites into pixels, either on an ebiten
// screen or in a plain RGBA buffer.
package render

import (
	"hash/fnv"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"vipers/internal/core"
	"vipers/internal/tile"
)

// Palette assigns placeholder colours to asset keys. Sprites sharing a tag
// share a hue family; the key nudges hue and value so neighbouring styles
// stay distinguishable.
type Palette struct {
	backgrounds map[string]colorful.Color
	tiles       map[string]colorful.Color
	fallback    colorful.Color
}

// DefaultPalette returns the built-in colours.
func DefaultPalette() *Palette {
	return &Palette{
		backgrounds: map[string]colorful.Color{
			"sky":       colorful.Hsv(205, 0.35, 0.95),
			"desert":    colorful.Hsv(42, 0.45, 0.90),
			"mountains": colorful.Hsv(220, 0.15, 0.60),
			"forest":    colorful.Hsv(130, 0.50, 0.45),
			"city":      colorful.Hsv(260, 0.20, 0.40),
			"cloud":     colorful.Hsv(0, 0, 0.97),
		},
		tiles: map[string]colorful.Color{
			tile.CategoryOther.String():  colorful.Hsv(105, 0.55, 0.65),
			tile.CategoryUnique.String(): colorful.Hsv(35, 0.55, 0.80),
			tile.CategoryCity.String():   colorful.Hsv(0, 0, 0.55),
			tile.CategoryWater.String():  colorful.Hsv(210, 0.70, 0.75),
		},
		fallback: colorful.Hsv(300, 0.8, 0.8),
	}
}

// Color returns the untinted colour for a sprite.
func (p *Palette) Color(s core.Sprite) color.RGBA {
	table := p.backgrounds
	if s.Layer == core.LayerTiles {
		table = p.tiles
	}
	base, ok := table[s.Tag]
	if !ok {
		base = p.fallback
	}
	h, sat, v := base.Hsv()
	shift := keyShift(s.Key)
	c := colorful.Hsv(math.Mod(h+16*shift+360, 360), sat, clamp01(v+0.08*shift))
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// SpriteColor is Color with the task tint applied to tinted sprites.
func (p *Palette) SpriteColor(s core.Sprite) color.NRGBA {
	c := p.Color(s)
	if !s.Tinted {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	return Tint(c, tile.TaskTint)
}

// Tint multiplies c by t channel by channel, the way a colour scale does.
func Tint(c color.RGBA, t color.NRGBA) color.NRGBA {
	mul := func(a, b uint8) uint8 { return uint8(uint16(a) * uint16(b) / 255) }
	return color.NRGBA{R: mul(c.R, t.R), G: mul(c.G, t.G), B: mul(c.B, t.B), A: mul(c.A, t.A)}
}

// keyShift maps a key onto [-1, 1].
func keyShift(key string) float64 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return float64(h.Sum32()%2001)/1000 - 1
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
