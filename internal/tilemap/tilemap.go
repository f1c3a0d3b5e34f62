// Package tilemap draws biome tile grids from weighted style pools.
package tilemap

import (
	"errors"
	"fmt"

	"vipers/internal/core"
	"vipers/internal/tile"
)

// ErrConfiguration reports pools and weights that cannot produce a map.
var ErrConfiguration = errors.New("tile map configuration error")

// Pools are the four style pools a biome draws from.
type Pools struct {
	Other  []tile.Style
	Unique []tile.Style
	City   []tile.Style
	Water  []tile.Style
}

// Get returns the pool for a category.
func (p Pools) Get(c tile.Category) []tile.Style {
	switch c {
	case tile.CategoryUnique:
		return p.Unique
	case tile.CategoryCity:
		return p.City
	case tile.CategoryWater:
		return p.Water
	default:
		return p.Other
	}
}

// Empty reports whether every pool is empty.
func (p Pools) Empty() bool {
	return len(p.Other)+len(p.Unique)+len(p.City)+len(p.Water) == 0
}

// Weights are the spawn weights of the unique, city and water pools. The
// other pool takes whatever is left of 1.0. The weights are relative, not
// probabilities, so the four together may exceed 1.
type Weights struct {
	Unique float64
	City   float64
	Water  float64
}

// Other is the derived weight of the other pool.
func (w Weights) Other() float64 {
	return max(1-w.Unique-w.City-w.Water, 0)
}

// Get returns the weight for a category.
func (w Weights) Get(c tile.Category) float64 {
	switch c {
	case tile.CategoryUnique:
		return w.Unique
	case tile.CategoryCity:
		return w.City
	case tile.CategoryWater:
		return w.Water
	default:
		return w.Other()
	}
}

// Cell is one generated selection.
type Cell struct {
	Category tile.Category
	Style    tile.Style
}

// Generate draws width*height cells. Every cell independently picks a pool
// by weight and then a uniformly random style from that pool, so category
// counts are probabilistic rather than quotas.
func Generate(rng *core.RNG, width, height int, pools Pools, weights Weights) ([]Cell, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrConfiguration, width, height)
	}
	if pools.Empty() {
		return nil, fmt.Errorf("%w: all tile pools are empty", ErrConfiguration)
	}

	var (
		cats []tile.Category
		ws   []float64
	)
	for _, c := range tile.Categories {
		if len(pools.Get(c)) == 0 {
			continue
		}
		w := weights.Get(c)
		if w < 0 {
			return nil, fmt.Errorf("%w: negative %s weight %.3f", ErrConfiguration, c, w)
		}
		cats = append(cats, c)
		ws = append(ws, w)
	}

	cells := make([]Cell, width*height)
	for i := range cells {
		pick := rng.Weighted(ws)
		if pick < 0 {
			return nil, fmt.Errorf("%w: non-empty pools %v all have zero weight", ErrConfiguration, cats)
		}
		pool := pools.Get(cats[pick])
		cells[i] = Cell{Category: cats[pick], Style: pool[rng.IntN(len(pool))]}
	}
	return cells, nil
}

// Counts tallies cells by category.
func Counts(cells []Cell) map[tile.Category]int {
	out := make(map[tile.Category]int, len(tile.Categories))
	for _, c := range cells {
		out[c.Category]++
	}
	return out
}
