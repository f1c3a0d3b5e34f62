package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry reports a Geometry that cannot lay out a biome.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Geometry describes the screen and the fixed tile grid every biome shares.
type Geometry struct {
	ViewportW float64
	ViewportH float64
	TileWidth float64
	Cols      int
	Rows      int
}

// DefaultGeometry returns the standard 1200x700 viewport with 10x4 biomes.
func DefaultGeometry() Geometry {
	return Geometry{
		ViewportW: 1200,
		ViewportH: 700,
		TileWidth: 60,
		Cols:      10,
		Rows:      4,
	}
}

// BiomeWidth is the horizontal span of one biome.
func (g Geometry) BiomeWidth() float64 { return float64(g.Cols) * g.TileWidth }

// TilesPerBiome is the number of cells in every biome grid.
func (g Geometry) TilesPerBiome() int { return g.Cols * g.Rows }

// TileBaseY is the screen y of the first tile row. The stack of rows is
// anchored to the bottom of the viewport.
func (g Geometry) TileBaseY() float64 {
	return g.ViewportH - math.Floor(g.TileWidth*float64(g.Rows)/1.5)
}

// Validate checks that the geometry describes a non-empty grid.
func (g Geometry) Validate() error {
	switch {
	case g.Cols <= 0 || g.Rows <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidGeometry, g.Cols, g.Rows)
	case g.TileWidth <= 0:
		return fmt.Errorf("%w: tile width %.1f", ErrInvalidGeometry, g.TileWidth)
	case g.ViewportW <= 0 || g.ViewportH <= 0:
		return fmt.Errorf("%w: viewport %.0fx%.0f", ErrInvalidGeometry, g.ViewportW, g.ViewportH)
	}
	return nil
}

// Rect is an axis-aligned rectangle in screen pixels.
type Rect struct {
	X, Y float64
	W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Overlaps reports whether r and o share any area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Layer orders visual elements from back to front.
type Layer int

const (
	LayerBackground Layer = iota
	LayerBiomeBackground
	LayerCloudsFar
	LayerTiles
	// LayerIndicators is reserved for off-screen task arrows.
	LayerIndicators
	LayerCloudsNear
	LayerUI
)

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerBiomeBackground:
		return "biome-background"
	case LayerCloudsFar:
		return "clouds-far"
	case LayerTiles:
		return "tiles"
	case LayerIndicators:
		return "indicators"
	case LayerCloudsNear:
		return "clouds-near"
	case LayerUI:
		return "ui"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

// Sprite is what the engine hands to a renderer: an asset key, a draw
// rectangle and the layer it belongs to. Renderers are free to redraw only
// the sprites flagged Dirty.
type Sprite struct {
	Key    string
	Tag    string
	Layer  Layer
	Rect   Rect
	Tinted bool
	Dirty  bool
}
