package render

import (
	"image"
	"image/color"
	"math"

	"vipers/internal/core"
)

// Raster is an RGBA frame buffer that sprites are painted into as flat
// rectangles.
type Raster struct {
	w, h int
	buf  []byte
}

// NewRaster allocates a w*h buffer.
func NewRaster(w, h int) *Raster {
	return &Raster{w: w, h: h, buf: make([]byte, 4*w*h)}
}

// Size returns the buffer dimensions.
func (r *Raster) Size() (int, int) { return r.w, r.h }

// Pixels exposes the RGBA bytes, row major.
func (r *Raster) Pixels() []byte { return r.buf }

// At returns the pixel at (x, y).
func (r *Raster) At(x, y int) color.RGBA {
	base := (y*r.w + x) * 4
	return color.RGBA{R: r.buf[base], G: r.buf[base+1], B: r.buf[base+2], A: r.buf[base+3]}
}

// Image wraps the buffer without copying.
func (r *Raster) Image() *image.RGBA {
	return &image.RGBA{Pix: r.buf, Stride: 4 * r.w, Rect: image.Rect(0, 0, r.w, r.h)}
}

// Clear fills the whole buffer with c.
func (r *Raster) Clear(c color.RGBA) {
	for i := 0; i < len(r.buf); i += 4 {
		r.buf[i+0] = c.R
		r.buf[i+1] = c.G
		r.buf[i+2] = c.B
		r.buf[i+3] = c.A
	}
}

// Fill blends c over the pixels covered by rect. The rect is clipped to the
// buffer.
func (r *Raster) Fill(rect core.Rect, c color.NRGBA) {
	x0 := max(int(math.Floor(rect.X)), 0)
	y0 := max(int(math.Floor(rect.Y)), 0)
	x1 := min(int(math.Ceil(rect.Right())), r.w)
	y1 := min(int(math.Ceil(rect.Bottom())), r.h)
	if x0 >= x1 || y0 >= y1 || c.A == 0 {
		return
	}
	a := uint32(c.A)
	for y := y0; y < y1; y++ {
		base := (y*r.w + x0) * 4
		for x := x0; x < x1; x++ {
			if a == 255 {
				r.buf[base+0] = c.R
				r.buf[base+1] = c.G
				r.buf[base+2] = c.B
				r.buf[base+3] = 255
			} else {
				r.buf[base+0] = blend(r.buf[base+0], c.R, a)
				r.buf[base+1] = blend(r.buf[base+1], c.G, a)
				r.buf[base+2] = blend(r.buf[base+2], c.B, a)
				r.buf[base+3] = uint8(a + uint32(r.buf[base+3])*(255-a)/255)
			}
			base += 4
		}
	}
}

// Draw paints sprites in order. Tinted sprites are painted untinted first and
// the tint is blended over them.
func (r *Raster) Draw(sprites []core.Sprite, p *Palette) {
	for _, s := range sprites {
		base := p.Color(s)
		r.Fill(s.Rect, color.NRGBA{R: base.R, G: base.G, B: base.B, A: base.A})
		if s.Tinted {
			r.Fill(s.Rect, p.SpriteColor(s))
		}
	}
}

func blend(dst, src uint8, a uint32) uint8 {
	return uint8((uint32(src)*a + uint32(dst)*(255-a)) / 255)
}
