package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vipers/internal/core"
	"vipers/internal/task"
)

func newTestTile() *Tile {
	return New("grass_01", CategoryOther, 60, 60, DefaultBreathing())
}

func TestBreathingIdleWithoutTask(t *testing.T) {
	tl := newTestTile()
	for i := 0; i < 50; i++ {
		assert.False(t, tl.Update())
	}
	assert.Equal(t, 1.0, tl.Scale())
}

func TestBreathingStaysInBounds(t *testing.T) {
	for _, b := range []Breathing{
		DefaultBreathing(),
		{MaxScale: 1.5, Step: 0.07},
		{MaxScale: 1.3, Step: 0.5},
		{MaxScale: 2, Step: 0.0125},
	} {
		tl := New("x", CategoryWater, 10, 10, b)
		tl.AttachTask(1)
		sawMax, sawFlipBack := false, false
		for i := 0; i < 2000; i++ {
			tl.Update()
			require.GreaterOrEqual(t, tl.Scale(), 1.0)
			require.LessOrEqual(t, tl.Scale(), b.MaxScale)
			if tl.Scale() == b.MaxScale {
				sawMax = true
			}
			if sawMax && tl.Scale() == 1 {
				sawFlipBack = true
			}
		}
		assert.True(t, sawMax, "pulse %+v never reached the top", b)
		assert.True(t, sawFlipBack, "pulse %+v never returned to rest", b)
	}
}

func TestBreathingReflects(t *testing.T) {
	tl := New("x", CategoryOther, 10, 10, Breathing{MaxScale: 1.5, Step: 0.25})
	tl.AttachTask(1)
	var got []float64
	for i := 0; i < 6; i++ {
		tl.Update()
		got = append(got, tl.Scale())
	}
	assert.Equal(t, []float64{1.25, 1.5, 1.25, 1, 1.25, 1.5}, got)
}

func TestClearTaskResetsPulse(t *testing.T) {
	tl := newTestTile()
	tl.AttachTask(4)
	for i := 0; i < 7; i++ {
		tl.Update()
	}
	require.Greater(t, tl.Scale(), 1.0)

	tl.MarkClean()
	tl.ClearTask()
	assert.False(t, tl.HasTask())
	assert.Equal(t, task.None, tl.Task())
	assert.Equal(t, 1.0, tl.Scale())
	assert.Equal(t, 1, tl.Direction())
	assert.True(t, tl.Dirty())
}

func TestPlaceCentresAndAnchorsBottom(t *testing.T) {
	tl := New("tall", CategoryCity, 60, 90, DefaultBreathing())
	tl.Place(100, 500, 60)
	assert.Equal(t, core.Rect{X: 100, Y: 470, W: 60, H: 90}, tl.Rect())

	tl.AttachTask(2)
	tl.Update()
	tl.Update() // scale 1.05
	tl.Place(100, 500, 60)
	r := tl.Rect()
	assert.InDelta(t, 63, r.W, 1e-9)
	assert.InDelta(t, 94.5, r.H, 1e-9)
	assert.InDelta(t, 98.5, r.X, 1e-9)
	assert.InDelta(t, 500-(94.5-60), r.Y, 1e-9)
}

func TestSpriteReflectsTask(t *testing.T) {
	tl := newTestTile()
	s := tl.Sprite()
	assert.False(t, s.Tinted)
	assert.Equal(t, core.LayerTiles, s.Layer)
	assert.Equal(t, "other", s.Tag)

	tl.AttachTask(9)
	assert.True(t, tl.Sprite().Tinted)
}

func TestPlaceMarksDirtyOnlyOnChange(t *testing.T) {
	tl := newTestTile()
	tl.Place(0, 0, 60)
	tl.MarkClean()
	tl.Place(0, 0, 60)
	assert.False(t, tl.Dirty())
	tl.Place(1, 0, 60)
	assert.True(t, tl.Dirty())
}
