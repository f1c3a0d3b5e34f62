// Package tile models a single cell of a biome grid.
package tile

import (
	"fmt"
	"image/color"

	"vipers/internal/core"
	"vipers/internal/task"
)

// Style is an opaque key naming a tile's visual asset.
type Style string

// Category is the pool a tile style was drawn from.
type Category int

const (
	CategoryOther Category = iota
	CategoryUnique
	CategoryCity
	CategoryWater
)

// Categories lists every category in pool order.
var Categories = []Category{CategoryOther, CategoryUnique, CategoryCity, CategoryWater}

func (c Category) String() string {
	switch c {
	case CategoryOther:
		return "other"
	case CategoryUnique:
		return "unique"
	case CategoryCity:
		return "city"
	case CategoryWater:
		return "water"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

const (
	DefaultMaxScale      = 1.5
	DefaultBreathingStep = 0.025
)

// TaskTint is multiplied over a tile's image while it carries a task.
var TaskTint = color.NRGBA{R: 255, G: 0, B: 0, A: 150}

// Breathing configures the pulse applied to tiles with a task.
type Breathing struct {
	MaxScale float64
	Step     float64
}

// DefaultBreathing returns the standard pulse.
func DefaultBreathing() Breathing {
	return Breathing{MaxScale: DefaultMaxScale, Step: DefaultBreathingStep}
}

func (b Breathing) normalized() Breathing {
	if b.MaxScale < 1 {
		b.MaxScale = DefaultMaxScale
	}
	if b.Step <= 0 {
		b.Step = DefaultBreathingStep
	}
	return b
}

// Tile is one cell of a biome. Its style never changes after creation; the
// task handle and breathing state do.
type Tile struct {
	style    Style
	category Category

	task      task.Handle
	scale     float64
	direction int
	breathing Breathing

	imgW, imgH float64
	rect       core.Rect
	dirty      bool
}

// New creates a tile whose image, once fitted to the tile width, measures
// imgW x imgH.
func New(style Style, category Category, imgW, imgH float64, b Breathing) *Tile {
	return &Tile{
		style:     style,
		category:  category,
		scale:     1,
		direction: 1,
		breathing: b.normalized(),
		imgW:      imgW,
		imgH:      imgH,
		dirty:     true,
	}
}

// Style returns the tile's asset key.
func (t *Tile) Style() Style { return t.style }

// Category returns the pool the style came from.
func (t *Tile) Category() Category { return t.category }

// Task returns the attached task handle, or task.None.
func (t *Tile) Task() task.Handle { return t.task }

// HasTask reports whether a task is attached.
func (t *Tile) HasTask() bool { return t.task != task.None }

// AttachTask binds h to the tile. The pulse always starts from rest.
func (t *Tile) AttachTask(h task.Handle) {
	t.task = h
	t.scale = 1
	t.direction = 1
	t.dirty = true
}

// ClearTask detaches the task and returns the tile to its untransformed look.
func (t *Tile) ClearTask() {
	if t.task == task.None {
		return
	}
	t.task = task.None
	t.scale = 1
	t.direction = 1
	t.dirty = true
}

// Scale is the current breathing factor in [1, MaxScale].
func (t *Tile) Scale() float64 { return t.scale }

// Direction is +1 while growing and -1 while shrinking.
func (t *Tile) Direction() int { return t.direction }

// Update advances the pulse by one tick. It does nothing without a task and
// reports whether the scale changed.
func (t *Tile) Update() bool {
	if t.task == task.None {
		return false
	}
	next := t.scale + t.breathing.Step*float64(t.direction)
	if next >= t.breathing.MaxScale {
		next = t.breathing.MaxScale
		t.direction = -1
	} else if next <= 1 {
		next = 1
		t.direction = 1
	}
	if next == t.scale {
		return false
	}
	t.scale = next
	t.dirty = true
	return true
}

// ImageSize is the drawn image size with the pulse applied.
func (t *Tile) ImageSize() (w, h float64) {
	if t.task == task.None {
		return t.imgW, t.imgH
	}
	return t.imgW * t.scale, t.imgH * t.scale
}

// Place positions the tile for an isometric cell anchored at (x, y). The
// image is centred horizontally on the cell and grows upwards from its
// bottom edge.
func (t *Tile) Place(x, y, tileWidth float64) {
	w, h := t.ImageSize()
	r := core.Rect{
		X: x - (w-tileWidth)/2,
		Y: y - (h - tileWidth),
		W: w,
		H: h,
	}
	if r != t.rect {
		t.rect = r
		t.dirty = true
	}
}

// Rect is the last placed draw rectangle.
func (t *Tile) Rect() core.Rect { return t.rect }

// Dirty reports whether the tile changed since the renderer last drew it.
func (t *Tile) Dirty() bool { return t.dirty }

// MarkClean acknowledges a redraw.
func (t *Tile) MarkClean() { t.dirty = false }

// Sprite describes the tile for a renderer.
func (t *Tile) Sprite() core.Sprite {
	return core.Sprite{
		Key:    string(t.style),
		Tag:    t.category.String(),
		Layer:  core.LayerTiles,
		Rect:   t.rect,
		Tinted: t.HasTask(),
		Dirty:  t.dirty,
	}
}
