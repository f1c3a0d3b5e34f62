// Package biome implements one themed horizontal segment of the world: a
// generated isometric tile grid plus a background image.
package biome

import (
	"fmt"

	"vipers/internal/core"
	"vipers/internal/tile"
	"vipers/internal/tilemap"
)

// StyleSizer reports the size of a style's image once fitted to tileWidth.
type StyleSizer func(style tile.Style, tileWidth float64) (w, h float64)

// SquareSizer treats every image as a tileWidth square.
func SquareSizer(_ tile.Style, tileWidth float64) (float64, float64) {
	return tileWidth, tileWidth
}

// Option customises New.
type Option func(*Biome)

// WithStyleSizer overrides the image size lookup used for tile geometry.
func WithStyleSizer(s StyleSizer) Option {
	return func(b *Biome) {
		if s != nil {
			b.sizer = s
		}
	}
}

type background struct {
	key   string
	rect  core.Rect
	dirty bool
}

// Biome owns a tile grid and tracks its own horizontal screen position.
// Geometry is only computed while the biome is on screen; off-screen moves
// just record the position and defer the layout.
type Biome struct {
	cfg   Config
	geo   core.Geometry
	sizer StyleSizer

	tiles      *core.Grid[*tile.Tile]
	background background

	positionX float64
	stale     bool
}

// New generates a biome from cfg. The tile map and background are drawn
// from rng once and never regenerated.
func New(cfg Config, geo core.Geometry, rng *core.RNG, opts ...Option) (*Biome, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	b := &Biome{cfg: cfg, geo: geo, sizer: SquareSizer, stale: true}
	for _, opt := range opts {
		opt(b)
	}

	cells, err := tilemap.Generate(rng, geo.Cols, geo.Rows, cfg.Pools, cfg.Weights)
	if err != nil {
		return nil, fmt.Errorf("generate %s biome: %w", cfg.Theme, err)
	}
	b.tiles = core.NewGrid[*tile.Tile](geo.Cols, geo.Rows)
	for i, c := range cells {
		w, h := b.sizer(c.Style, geo.TileWidth)
		b.tiles.Cells()[i] = tile.New(c.Style, c.Category, w, h, cfg.Breathing)
	}

	if n := len(cfg.Backgrounds); n > 0 {
		b.background.key = cfg.Backgrounds[rng.IntN(n)]
	}
	b.background.dirty = true
	return b, nil
}

// Theme returns the biome's theme.
func (b *Biome) Theme() Theme { return b.cfg.Theme }

// BackgroundKey names the chosen background image; empty when the theme has
// no backgrounds.
func (b *Biome) BackgroundKey() string { return b.background.key }

// PositionX is the logical left edge on screen.
func (b *Biome) PositionX() float64 { return b.positionX }

// Width is the biome's horizontal span.
func (b *Biome) Width() float64 { return b.geo.BiomeWidth() }

// Tiles returns the grid in row-major order.
func (b *Biome) Tiles() []*tile.Tile { return b.tiles.Cells() }

// Tile returns the tile at row-major index i.
func (b *Biome) Tile(i int) *tile.Tile { return b.tiles.Cells()[i] }

// Visible reports whether any part of the biome can be on screen.
func (b *Biome) Visible() bool {
	x := b.positionX
	return x >= -b.geo.BiomeWidth()-b.geo.TileWidth && x <= b.geo.ViewportW
}

// Update is called every tick. Biomes have no per-tick behaviour of their
// own; tile animation is driven by the world.
func (b *Biome) Update() {}

// Move sets the biome's screen position. Unless forced, geometry for an
// off-screen biome is deferred until it is visible or queried.
func (b *Biome) Move(x float64, force bool) {
	b.positionX = x
	if !force && !b.Visible() {
		b.stale = true
		return
	}
	b.layout()
}

// Shift moves the biome by dx.
func (b *Biome) Shift(dx float64) { b.Move(b.positionX+dx, false) }

// PlaceTile recomputes the rectangle of tile i, typically after its pulse
// changed. Deferred layouts stay deferred.
func (b *Biome) PlaceTile(i int) {
	if b.stale {
		return
	}
	x, y := b.anchor(i)
	b.tiles.Cells()[i].Place(x, y, b.geo.TileWidth)
}

// TileRect returns the draw rectangle of tile i, laying out on demand.
func (b *Biome) TileRect(i int) core.Rect {
	b.ensureLayout()
	return b.tiles.Cells()[i].Rect()
}

// BackgroundSprite describes the background image.
func (b *Biome) BackgroundSprite() (core.Sprite, bool) {
	if b.background.key == "" {
		return core.Sprite{}, false
	}
	b.ensureLayout()
	return core.Sprite{
		Key:   b.background.key,
		Tag:   b.cfg.Theme.String(),
		Layer: core.LayerBiomeBackground,
		Rect:  b.background.rect,
		Dirty: b.background.dirty,
	}, true
}

// RowSprites describes the tiles of one grid row, left to right.
func (b *Biome) RowSprites(row int) []core.Sprite {
	b.ensureLayout()
	cells := b.tiles.Row(row)
	out := make([]core.Sprite, len(cells))
	for i, t := range cells {
		out[i] = t.Sprite()
	}
	return out
}

// MarkClean acknowledges a redraw of every element.
func (b *Biome) MarkClean() {
	b.background.dirty = false
	for _, t := range b.tiles.Cells() {
		t.MarkClean()
	}
}

func (b *Biome) ensureLayout() {
	if b.stale {
		b.layout()
	}
}

func (b *Biome) layout() {
	bg := core.Rect{
		X: b.positionX,
		Y: b.geo.ViewportH / 5,
		W: b.geo.BiomeWidth(),
		H: b.geo.BiomeWidth(),
	}
	if bg != b.background.rect {
		b.background.rect = bg
		b.background.dirty = true
	}
	for i, t := range b.tiles.Cells() {
		x, y := b.anchor(i)
		t.Place(x, y, b.geo.TileWidth)
	}
	b.stale = false
}

// anchor returns the isometric cell origin of tile i. Odd rows are pushed
// half a tile right so rows interlock.
func (b *Biome) anchor(i int) (x, y float64) {
	col, row := b.tiles.Coords(i)
	tw := b.geo.TileWidth
	half := tw / 2
	x = b.positionX + float64(col)*tw
	if row%2 != 0 {
		x += half
	}
	y = b.geo.TileBaseY() + half*float64(row)
	return x, y
}
