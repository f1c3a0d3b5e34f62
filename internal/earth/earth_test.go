package earth

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vipers/internal/biome"
	"vipers/internal/core"
)

func scenarioGeometry() core.Geometry {
	return core.Geometry{ViewportW: 1200, ViewportH: 700, TileWidth: 30, Cols: 10, Rows: 4}
}

func newTestEarth(t *testing.T, speed float64, seed int64) *Earth {
	t.Helper()
	geo := scenarioGeometry()
	rng := core.NewRNG(seed)
	biomes, err := biome.Lineup(biome.DefaultCatalog(), biome.DefaultLineup(), geo, rng)
	require.NoError(t, err)
	cfg := DefaultConfig(geo)
	cfg.ScrollSpeed = speed
	e, err := New(biomes, geo, cfg, rng, nil)
	require.NoError(t, err)
	return e
}

func positions(e *Earth) []float64 {
	out := make([]float64, len(e.Biomes()))
	for i, b := range e.Biomes() {
		out[i] = b.PositionX()
	}
	return out
}

// requireSlots checks that the biomes sit on n distinct slots of one
// biome width each, modulo the strip length.
func requireSlots(t *testing.T, e *Earth) {
	t.Helper()
	bw := e.Geometry().BiomeWidth()
	strip := e.MaxPosition()
	pos := positions(e)
	ref := pos[0]
	var rel []float64
	for _, x := range pos {
		r := math.Mod(x-ref, strip)
		if r < 0 {
			r += strip
		}
		rel = append(rel, r)
	}
	slices.Sort(rel)
	for i, r := range rel {
		require.InDelta(t, float64(i)*bw, r, 1e-6, "slot %d in %v", i, pos)
	}
	for _, x := range pos {
		require.GreaterOrEqual(t, x, -bw-1e-9)
		require.LessOrEqual(t, x, strip-bw)
	}
}

func TestNewPlacesBiomesInSlots(t *testing.T) {
	e := newTestEarth(t, 10, 1)
	want := make([]float64, 12)
	for i := range want {
		want[i] = float64(i) * 300
	}
	assert.Equal(t, want, positions(e))
	assert.Equal(t, 3600.0, e.MaxPosition())
}

func TestNewRejectsBadConfig(t *testing.T) {
	geo := scenarioGeometry()
	rng := core.NewRNG(1)
	biomes, err := biome.Lineup(biome.DefaultCatalog(), biome.DefaultLineup(), geo, rng)
	require.NoError(t, err)

	cfg := DefaultConfig(geo)
	cfg.ScrollSpeed = 300
	_, err = New(biomes, geo, cfg, rng, nil)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = New(biomes[:1], geo, DefaultConfig(geo), rng, nil)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	cfg = DefaultConfig(geo)
	cfg.Clouds[0].Pool = append(cfg.Clouds[0].Pool, CloudStyle{Key: "flat", W: 0, H: 10})
	_, err = New(biomes, geo, cfg, rng, nil)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestScrollScenarioWrapsOnce(t *testing.T) {
	e := newTestEarth(t, 50, 1)
	start := positions(e)

	for i := 0; i < 6; i++ {
		e.Update(Input{Right: true})
	}

	got := positions(e)
	assert.Equal(t, 3300.0, got[0], "biome from slot 0 lands on slot 11's old position")
	for i := 1; i < len(got); i++ {
		assert.Equal(t, start[i]-300, got[i], "biome %d", i)
	}
	assert.Equal(t, -300.0, e.Offset())
	requireSlots(t, e)
}

func TestScrollLeftWrapsRightEnd(t *testing.T) {
	e := newTestEarth(t, 50, 1)
	e.Update(Input{Left: true})
	got := positions(e)
	assert.Equal(t, 50.0, got[0])
	assert.Equal(t, -250.0, got[11], "biome past the right end re-enters on the left")
	requireSlots(t, e)
}

func TestIdleTickLeavesLastSlotAlone(t *testing.T) {
	e := newTestEarth(t, 10, 1)
	start := positions(e)
	for i := 0; i < 5; i++ {
		e.Update(Input{})
		assert.Equal(t, start, positions(e), "tick %d", i)
	}
	assert.Equal(t, 3300.0, positions(e)[11])
	requireSlots(t, e)
}

type tileKey struct {
	key  string
	rect core.Rect
}

func tileSprites(e *Earth) []tileKey {
	var out []tileKey
	for _, s := range e.Sprites() {
		if s.Layer == core.LayerTiles {
			out = append(out, tileKey{key: s.Key, rect: s.Rect})
		}
	}
	return out
}

func TestIdleTicksKeepTilesStable(t *testing.T) {
	e := newTestEarth(t, 50, 1)
	// Lands biome 0 exactly on the last slot, one strip away from -bw.
	for i := 0; i < 6; i++ {
		e.Update(Input{Right: true})
	}
	require.Equal(t, 3300.0, positions(e)[0])

	pos := positions(e)
	tiles := tileSprites(e)
	require.NotEmpty(t, tiles)
	for i := 0; i < 6; i++ {
		e.Update(Input{})
		assert.Equal(t, pos, positions(e), "idle tick %d moved a biome", i)
		assert.Equal(t, tiles, tileSprites(e), "idle tick %d changed the on-screen tiles", i)
	}
}

func TestSlotInvariantRandomInputs(t *testing.T) {
	for _, speed := range []float64{1, 7, 50, 150, 299} {
		e := newTestEarth(t, speed, int64(speed))
		r := core.NewRNG(int64(speed) + 100)
		for tick := 0; tick < 2000; tick++ {
			in := Input{Left: r.Bool(), Right: r.Bool()}
			e.Update(in)
			requireSlots(t, e)
		}
	}
}

func TestRawScrollHandlesLargeDeltas(t *testing.T) {
	e := newTestEarth(t, 10, 2)
	e.Scroll(-1000)
	requireSlots(t, e)
	e.Scroll(4321)
	requireSlots(t, e)
}

func TestCloudLayersStayBounded(t *testing.T) {
	for _, in := range []Input{{}, {Left: true}, {Right: true}} {
		e := newTestEarth(t, 20, 3)
		vw := e.Geometry().ViewportW
		for tick := 0; tick < 3000; tick++ {
			e.Update(in)
			for layer := 0; layer < e.CloudLayers(); layer++ {
				clouds := e.Clouds(layer)
				require.NotEmpty(t, clouds)
				require.Less(t, len(clouds), 20, "input %+v layer %d grew unbounded", in, layer)
				for i, c := range clouds {
					require.Less(t, c.Rect.X, vw+2*20)
					if i > 0 {
						require.LessOrEqual(t, clouds[i-1].Rect.X, c.Rect.X)
					}
				}
			}
		}
	}
}

func TestCloudsCoverViewportWhileScrollingRight(t *testing.T) {
	e := newTestEarth(t, 20, 8)
	vw := e.Geometry().ViewportW
	for tick := 0; tick < 3000; tick++ {
		e.Update(Input{Right: true})
		for layer := 0; layer < e.CloudLayers(); layer++ {
			clouds := e.Clouds(layer)
			require.NotEmpty(t, clouds)
			// Refill ran before this tick's drift, which moves by Speed.
			speed := DefaultClouds(e.Geometry())[layer].Speed
			require.GreaterOrEqual(t, clouds[len(clouds)-1].Rect.Right(), vw+speed-1e-9,
				"tick %d layer %d leaves the right edge bare", tick, layer)
			for i := 1; i < len(clouds); i++ {
				require.InDelta(t, clouds[i-1].Rect.Right(), clouds[i].Rect.X, 1e-9, "clouds of a layer abut")
			}
		}
	}
}

func TestCloudsCoverLeftEdgeAfterRefill(t *testing.T) {
	e := newTestEarth(t, 10, 4)
	for tick := 0; tick < 500; tick++ {
		e.Update(Input{Left: true})
		for layer := 0; layer < e.CloudLayers(); layer++ {
			// Refill ran before this tick's drift, which moves by Speed.
			speed := DefaultClouds(e.Geometry())[layer].Speed
			require.LessOrEqual(t, e.Clouds(layer)[0].Rect.X, speed)
		}
	}
}

func findCloud(clouds []Cloud, want Cloud) (Cloud, bool) {
	for _, c := range clouds {
		if c.Key == want.Key && c.Rect.Y == want.Rect.Y && c.Rect.W == want.Rect.W {
			return c, true
		}
	}
	return Cloud{}, false
}

func TestCloudParallaxIsAsymmetric(t *testing.T) {
	e := newTestEarth(t, 10, 5)
	e.Update(Input{})

	// The leftmost cloud is never refilled over or pruned in a single tick.
	far := e.Clouds(0)[0]
	e.Update(Input{Right: true})
	got, ok := findCloud(e.Clouds(0), far)
	require.True(t, ok)
	// Drift +1, scroll right -2*1.
	assert.InDelta(t, far.Rect.X-1, got.Rect.X, 1e-9)

	near := e.Clouds(1)[0]
	e.Update(Input{Left: true})
	got, ok = findCloud(e.Clouds(1), near)
	require.True(t, ok)
	// Near layer speed 2: drift +2, scroll left +2.
	assert.InDelta(t, near.Rect.X+4, got.Rect.X, 1e-9)
}

func TestSpritesDrawOrder(t *testing.T) {
	e := newTestEarth(t, 10, 6)
	e.Update(Input{})
	sprites := e.Sprites()
	require.NotEmpty(t, sprites)

	for i := 1; i < len(sprites); i++ {
		require.LessOrEqual(t, sprites[i-1].Layer, sprites[i].Layer, "sprite %d out of layer order", i)
	}

	// Tiles come row by row: y never decreases within the tile layer.
	lastY := math.Inf(-1)
	tiles := 0
	for _, s := range sprites {
		if s.Layer != core.LayerTiles {
			continue
		}
		tiles++
		bottom := s.Rect.Bottom()
		require.GreaterOrEqual(t, bottom, lastY)
		lastY = bottom
	}
	visible := 0
	for _, b := range e.Biomes() {
		if b.Visible() {
			visible++
		}
	}
	assert.Equal(t, visible*40, tiles)
}

func TestTaskTilesPulseThroughWorldTick(t *testing.T) {
	e := newTestEarth(t, 10, 7)
	b := e.Biomes()[1]
	tl := b.Tile(5)
	before := b.TileRect(5)
	tl.AttachTask(1)
	e.Update(Input{})
	assert.Greater(t, tl.Scale(), 1.0)
	assert.Greater(t, b.TileRect(5).W, before.W)
}
