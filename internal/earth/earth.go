// Package earth keeps a fixed ring of biomes scrolling as an endless strip
// and animates everything that lives on it.
package earth

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"vipers/internal/biome"
	"vipers/internal/core"
)

// ErrInvalidConfig reports a world that cannot scroll seamlessly.
var ErrInvalidConfig = errors.New("invalid earth config")

// Input is the per-tick snapshot of the scroll controls.
type Input struct {
	Left  bool
	Right bool
}

// Config holds the world's scroll tuning.
type Config struct {
	// ScrollSpeed is how far biomes move per tick while a direction is held.
	// It must stay below the biome width.
	ScrollSpeed float64
	// LeftCloudFactor and RightCloudFactor scale cloud speed while scrolling.
	// Clouds trail the ground faster when heading right to sell parallax.
	LeftCloudFactor  float64
	RightCloudFactor float64
	Clouds           []CloudLayerConfig
}

// DefaultConfig returns the standard scroll tuning for geo.
func DefaultConfig(geo core.Geometry) Config {
	return Config{
		ScrollSpeed:      10,
		LeftCloudFactor:  1,
		RightCloudFactor: 2,
		Clouds:           DefaultClouds(geo),
	}
}

// Earth arranges biomes left to right with a fixed spacing and recycles
// whichever one scrolls off an end of the strip to the opposite end.
type Earth struct {
	geo    core.Geometry
	cfg    Config
	rng    *core.RNG
	logger *slog.Logger

	biomes      []*biome.Biome
	maxPosition float64
	offset      float64
	clouds      []*cloudLayer
}

// New places biomes at consecutive slots starting at x=0.
func New(biomes []*biome.Biome, geo core.Geometry, cfg Config, rng *core.RNG, logger *slog.Logger) (*Earth, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	bw := geo.BiomeWidth()
	switch {
	case len(biomes) < 2:
		return nil, fmt.Errorf("%w: need at least 2 biomes, got %d", ErrInvalidConfig, len(biomes))
	case cfg.ScrollSpeed < 0 || cfg.ScrollSpeed >= bw:
		return nil, fmt.Errorf("%w: scroll speed %.1f outside [0, %.1f)", ErrInvalidConfig, cfg.ScrollSpeed, bw)
	}
	for _, lc := range cfg.Clouds {
		for _, s := range lc.Pool {
			if s.W <= 0 || s.H <= 0 {
				return nil, fmt.Errorf("%w: cloud %q has size %.0fx%.0f", ErrInvalidConfig, s.Key, s.W, s.H)
			}
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Earth{
		geo:         geo,
		cfg:         cfg,
		rng:         rng,
		logger:      logger,
		biomes:      biomes,
		maxPosition: bw * float64(len(biomes)),
	}
	for i, b := range biomes {
		b.Move(float64(i)*bw, true)
	}
	for i, lc := range cfg.Clouds {
		e.clouds = append(e.clouds, newCloudLayer(lc, i, rng.Source().Int64()))
	}
	return e, nil
}

// Biomes returns the biomes in their fixed lineup order.
func (e *Earth) Biomes() []*biome.Biome { return e.biomes }

// MaxPosition is the length of the whole strip.
func (e *Earth) MaxPosition() float64 { return e.maxPosition }

// Offset is the accumulated scroll since creation.
func (e *Earth) Offset() float64 { return e.offset }

// Geometry returns the layout the world was built with.
func (e *Earth) Geometry() core.Geometry { return e.geo }

// Update advances the world by one tick: scroll from input, recycle biomes,
// refresh the cloud layers, then drift clouds and pulse task tiles.
func (e *Earth) Update(in Input) {
	if in.Left {
		e.logger.Debug("scrolling left")
		e.shift(e.cfg.ScrollSpeed)
		e.moveClouds(e.cfg.LeftCloudFactor)
	}
	if in.Right {
		e.logger.Debug("scrolling right")
		e.shift(-e.cfg.ScrollSpeed)
		e.moveClouds(-e.cfg.RightCloudFactor)
	}
	e.recycle()
	e.updateClouds()

	for _, l := range e.clouds {
		l.drift()
	}
	for _, b := range e.biomes {
		b.Update()
		for i, t := range b.Tiles() {
			if t.Update() {
				b.PlaceTile(i)
			}
		}
	}
}

// Scroll moves every biome by dx and recycles. Clouds are unaffected.
func (e *Earth) Scroll(dx float64) {
	e.shift(dx)
	e.recycle()
}

func (e *Earth) shift(dx float64) {
	for _, b := range e.biomes {
		b.Shift(dx)
	}
	e.offset += dx
}

func (e *Earth) moveClouds(vector float64) {
	for _, l := range e.clouds {
		l.move(vector)
	}
}

// recycle keeps every biome inside (-biomeWidth, (n-1)*biomeWidth]. A biome
// past the right end wraps to the left; one at or past the left end wraps
// to the right. Both wraps are a shift by the strip length, so the spacing
// between biomes is preserved and a biome at rest is never moved.
func (e *Earth) recycle() {
	bw := e.geo.BiomeWidth()
	last := float64(len(e.biomes)-1) * bw
	for i, b := range e.biomes {
		x := b.PositionX()
		switch {
		case x > last:
			for x > last {
				x = -bw + x - last
			}
		case x <= -bw:
			for x <= -bw {
				x = last - math.Abs(x+bw)
			}
		default:
			continue
		}
		e.logger.Debug("biome recycled", "index", i, "theme", b.Theme(), "from", b.PositionX(), "to", x)
		b.Move(x, false)
	}
}

func (e *Earth) updateClouds() {
	for _, l := range e.clouds {
		l.refill(e.rng, e.geo.ViewportW)
		l.prune(e.geo.ViewportW)
	}
}

// Clouds returns a copy of the clouds of layer i, left to right.
func (e *Earth) Clouds(i int) []Cloud {
	if i < 0 || i >= len(e.clouds) {
		return nil
	}
	out := make([]Cloud, len(e.clouds[i].clouds))
	for j, c := range e.clouds[i].clouds {
		out[j] = *c
	}
	return out
}

// CloudLayers is the number of cloud layers.
func (e *Earth) CloudLayers() int { return len(e.clouds) }

// Sprites returns every visible element in draw order. Tiles are emitted one
// grid row at a time across all visible biomes so that isometric rows
// overlap correctly at biome seams.
func (e *Earth) Sprites() []core.Sprite {
	visible := make([]*biome.Biome, 0, len(e.biomes))
	for _, b := range e.biomes {
		if b.Visible() {
			visible = append(visible, b)
		}
	}
	slices.SortStableFunc(visible, func(a, b *biome.Biome) int {
		switch {
		case a.PositionX() < b.PositionX():
			return -1
		case a.PositionX() > b.PositionX():
			return 1
		}
		return 0
	})

	var out []core.Sprite
	for _, b := range visible {
		if s, ok := b.BackgroundSprite(); ok {
			out = append(out, s)
		}
	}
	out = append(out, e.cloudSprites(core.LayerCloudsFar)...)
	for row := 0; row < e.geo.Rows; row++ {
		for _, b := range visible {
			out = append(out, b.RowSprites(row)...)
		}
	}
	out = append(out, e.cloudSprites(core.LayerCloudsNear)...)
	return out
}

func (e *Earth) cloudSprites(layer core.Layer) []core.Sprite {
	var out []core.Sprite
	for _, l := range e.clouds {
		if l.cfg.Layer == layer {
			out = append(out, l.sprites()...)
		}
	}
	return out
}

// MarkClean acknowledges a redraw of every biome.
func (e *Earth) MarkClean() {
	for _, b := range e.biomes {
		b.MarkClean()
	}
}
