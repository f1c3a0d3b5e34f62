// Package termview draws the world into a terminal cell grid with tcell.
package termview

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"vipers/internal/core"
	"vipers/internal/render"
)

// TaskGlyph marks the tile of a live task.
const TaskGlyph = '!'

var taskStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true)

// View maps the viewport onto the screen, leaving the bottom row for a
// status line.
type View struct {
	screen  tcell.Screen
	palette *render.Palette
}

// New wraps an initialised screen.
func New(screen tcell.Screen, palette *render.Palette) *View {
	if palette == nil {
		palette = render.DefaultPalette()
	}
	return &View{screen: screen, palette: palette}
}

// Screen returns the underlying screen.
func (v *View) Screen() tcell.Screen { return v.screen }

// Draw paints one frame and shows it.
func (v *View) Draw(sprites []core.Sprite, geo core.Geometry, status string) {
	w, h := v.screen.Size()
	rows := h - 1
	v.screen.Clear()
	if w <= 0 || rows <= 0 || geo.ViewportW <= 0 || geo.ViewportH <= 0 {
		v.screen.Show()
		return
	}
	sx := float64(w) / geo.ViewportW
	sy := float64(rows) / geo.ViewportH

	for _, s := range sprites {
		c := v.palette.Color(s)
		style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
		x0, y0, x1, y1 := cells(s.Rect, sx, sy, w, rows)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				v.screen.SetContent(x, y, ' ', nil, style)
			}
		}
	}
	// Task markers go on top so later rows cannot hide them.
	for _, s := range sprites {
		if !s.Tinted {
			continue
		}
		cx := int(math.Floor((s.Rect.X + s.Rect.W/2) * sx))
		cy := int(math.Floor((s.Rect.Y + s.Rect.H/2) * sy))
		if cx >= 0 && cx < w && cy >= 0 && cy < rows {
			v.screen.SetContent(cx, cy, TaskGlyph, nil, taskStyle)
		}
	}

	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, rows, ' ', nil, statusStyle)
	}
	for i, r := range []rune(status) {
		if i >= w {
			break
		}
		v.screen.SetContent(i, rows, r, nil, statusStyle)
	}
	v.screen.Show()
}

// cells converts a pixel rect into the half-open cell range it covers.
func cells(r core.Rect, sx, sy float64, w, h int) (x0, y0, x1, y1 int) {
	x0 = max(int(math.Floor(r.X*sx)), 0)
	y0 = max(int(math.Floor(r.Y*sy)), 0)
	x1 = min(int(math.Ceil(r.Right()*sx)), w)
	y1 = min(int(math.Ceil(r.Bottom()*sy)), h)
	return
}
