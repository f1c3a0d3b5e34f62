package period

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vipers/internal/core"
	"vipers/internal/earth"
	"vipers/internal/task"
)

func testGeometry() core.Geometry {
	return core.Geometry{ViewportW: 1200, ViewportH: 700, TileWidth: 30, Cols: 10, Rows: 4}
}

func newTestPeriod(t *testing.T, cfg Config, seed int64) *Period {
	t.Helper()
	p, err := New(cfg, Options{Geometry: testGeometry()}, core.NewRNG(seed))
	require.NoError(t, err)
	return p
}

func TestFirstTickSpawns(t *testing.T) {
	p := newTestPeriod(t, DefaultConfig(EraMedieval), 1)
	p.Update(earth.Input{})

	require.Equal(t, 1, p.Registry().Len())
	e, ok := p.Registry().Oldest()
	require.True(t, ok)
	assert.Equal(t, e.Handle, p.TileAt(e.Ref).Task())
	assert.Equal(t, uint64(1), e.Tick)

	b, ok := p.BiomeOf(e.Handle)
	require.True(t, ok)
	assert.Same(t, p.Biomes()[e.Ref.Biome], b)
}

func TestSpawnCadence(t *testing.T) {
	cfg := DefaultConfig(EraModern)
	cfg.SpawnInterval = 3
	cfg.SpawnIntervalGrowth = 0
	p := newTestPeriod(t, cfg, 2)

	var spawnTicks []uint64
	for range 9 {
		before := p.Spawned()
		p.Update(earth.Input{})
		if p.Spawned() > before {
			spawnTicks = append(spawnTicks, p.Tick())
		}
	}
	assert.Equal(t, []uint64{1, 5, 9}, spawnTicks)
}

func TestSpawnIntervalMonotonic(t *testing.T) {
	for _, growth := range []float64{0.05, 0, -0.5} {
		cfg := DefaultConfig(EraFuture)
		cfg.SpawnInterval = 20
		cfg.SpawnIntervalGrowth = growth
		p := newTestPeriod(t, cfg, 3)

		prev := p.SpawnInterval()
		for range 200 {
			p.Update(earth.Input{Right: true})
			cur := p.SpawnInterval()
			require.GreaterOrEqual(t, cur, 0.0)
			switch {
			case growth > 0:
				require.GreaterOrEqual(t, cur, prev)
			case growth < 0:
				require.LessOrEqual(t, cur, prev)
			default:
				require.Equal(t, prev, cur)
			}
			prev = cur
		}
		if growth < 0 {
			assert.Zero(t, p.SpawnInterval())
		}
	}
}

func TestNoDuplicateTasksUntilFull(t *testing.T) {
	cfg := DefaultConfig(EraMedieval)
	cfg.SpawnInterval = 0
	cfg.SpawnIntervalGrowth = 0
	p := newTestPeriod(t, cfg, 4)
	total := len(p.Biomes()) * testGeometry().TilesPerBiome()

	for range total {
		p.Update(earth.Input{Left: true})
	}
	require.Equal(t, total, p.Registry().Len())
	require.Zero(t, p.Skipped())

	seen := map[task.Ref]bool{}
	for _, e := range p.Registry().Active() {
		require.False(t, seen[e.Ref], "duplicate task on %s", e.Ref)
		seen[e.Ref] = true
		require.Equal(t, e.Handle, p.TileAt(e.Ref).Task())
	}

	p.Update(earth.Input{})
	assert.Equal(t, total, p.Registry().Len())
	assert.Equal(t, 1, p.Skipped())
}

func TestKindFrequencies(t *testing.T) {
	p := newTestPeriod(t, DefaultConfig(EraModern), 5)

	const trials = 3000
	counts := map[task.Kind]int{}
	for range trials {
		e, ok := p.spawn()
		require.True(t, ok)
		counts[e.Kind]++
		require.NoError(t, p.Complete(e.Handle))
	}
	for _, k := range task.Kinds {
		share := float64(counts[k]) / trials
		assert.GreaterOrEqual(t, share, 0.30, "%s share", k)
		assert.LessOrEqual(t, share, 0.37, "%s share", k)
	}
}

func TestZeroWeightKindNeverSpawns(t *testing.T) {
	cfg := DefaultConfig(EraMedieval)
	cfg.Weights = KindWeights{Maze: 1, RPS: 0, TicTacToe: 2}
	p := newTestPeriod(t, cfg, 6)

	for range 300 {
		e, ok := p.spawn()
		require.True(t, ok)
		require.NotEqual(t, task.KindRockPaperScissors, e.Kind)
		require.NoError(t, p.Complete(e.Handle))
	}
}

func TestCompleteResetsTile(t *testing.T) {
	p := newTestPeriod(t, DefaultConfig(EraMedieval), 7)
	p.Update(earth.Input{})
	e, ok := p.Registry().Oldest()
	require.True(t, ok)
	tl := p.TileAt(e.Ref)

	for range 5 {
		p.Update(earth.Input{})
	}
	require.Greater(t, tl.Scale(), 1.0)

	h, ok := p.CompleteOldest()
	require.True(t, ok)
	assert.Equal(t, e.Handle, h)
	assert.False(t, tl.HasTask())
	assert.Equal(t, 1.0, tl.Scale())
	assert.Zero(t, p.Registry().Len())
	assert.Error(t, p.Complete(h))
}

func TestSweepDropsExternallyClearedTasks(t *testing.T) {
	p := newTestPeriod(t, DefaultConfig(EraMedieval), 8)
	p.Update(earth.Input{})
	e, ok := p.Registry().Oldest()
	require.True(t, ok)

	p.TileAt(e.Ref).ClearTask()
	assert.Equal(t, 1, p.Sweep())
	assert.Zero(t, p.Registry().Len())
	assert.False(t, p.Registry().Occupied(e.Ref))
}

func TestInvalidConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"zero weights":      func(c *Config) { c.Weights = KindWeights{} },
		"negative weight":   func(c *Config) { c.Weights.Maze = -1 },
		"negative interval": func(c *Config) { c.SpawnInterval = -1 },
		"short lineup":      func(c *Config) { c.Lineup = c.Lineup[:1] },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig(EraMedieval)
			mutate(&cfg)
			_, err := New(cfg, Options{Geometry: testGeometry()}, core.NewRNG(1))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestSetFloatParameter(t *testing.T) {
	p := newTestPeriod(t, DefaultConfig(EraMedieval), 9)

	assert.True(t, p.SetFloatParameter(keyGrowth, 5))
	v, ok := p.Parameters().Lookup(keyGrowth)
	require.True(t, ok)
	assert.Equal(t, "1", v.Value)

	assert.True(t, p.SetFloatParameter(keyWeightMaze, 0))
	assert.True(t, p.SetFloatParameter(keyWeightRPS, 0))
	assert.False(t, p.SetFloatParameter(keyWeightTTT, 0))
	assert.Equal(t, 1.0, p.cfg.Weights.TicTacToe)

	assert.False(t, p.SetFloatParameter("unknown", 1))
}

func TestParametersCountActiveKinds(t *testing.T) {
	cfg := DefaultConfig(EraModern)
	cfg.SpawnInterval = 0
	p := newTestPeriod(t, cfg, 10)
	for range 30 {
		p.Update(earth.Input{})
	}

	counts := p.Registry().Counts()
	snap := p.Parameters()
	for key, kind := range map[string]task.Kind{
		"active_maze":      task.KindMaze,
		"active_rps":       task.KindRockPaperScissors,
		"active_tictactoe": task.KindTicTacToe,
	} {
		v, ok := snap.Lookup(key)
		require.True(t, ok, key)
		assert.Equal(t, strconv.Itoa(counts[kind]), v.Value, key)
	}
	v, ok := snap.Lookup("active")
	require.True(t, ok)
	assert.Equal(t, strconv.Itoa(p.Registry().Len()), v.Value)
}

func TestTaskRectLaysOutDeferredBiome(t *testing.T) {
	p := newTestPeriod(t, DefaultConfig(EraMedieval), 11)
	p.Update(earth.Input{})
	e, ok := p.Registry().Oldest()
	require.True(t, ok)

	before, ok := p.TaskRect(e.Handle)
	require.True(t, ok)

	// Park the task's biome just off the right edge, where its layout is
	// deferred.
	b := p.Biomes()[e.Ref.Biome]
	target := 1500.0
	if b.PositionX() == target {
		target = 1800
	}
	dx := target - b.PositionX()
	p.Earth().Scroll(dx)
	require.Equal(t, target, b.PositionX())
	require.False(t, b.Visible())
	stale := p.TileAt(e.Ref).Rect()

	got, ok := p.TaskRect(e.Handle)
	require.True(t, ok)
	assert.InDelta(t, before.X+dx, got.X, 1e-9)
	assert.InDelta(t, before.Y, got.Y, 1e-9)
	assert.Equal(t, before.W, got.W)
	assert.NotEqual(t, stale.X, got.X, "task rect must not come from the deferred layout")

	require.NoError(t, p.Complete(e.Handle))
	_, ok = p.TaskRect(e.Handle)
	assert.False(t, ok)
}

func TestSpawnScenarioFillsWorld(t *testing.T) {
	cfg := DefaultConfig(EraMedieval)
	cfg.SpawnInterval = 0
	cfg.SpawnIntervalGrowth = 0
	opts := Options{Geometry: testGeometry()}
	total := len(cfg.Lineup) * testGeometry().TilesPerBiome()

	got, err := SpawnScenario(cfg, opts, 10, total+20, -1)
	require.NoError(t, err)
	assert.Equal(t, total, got.Spawned)
	assert.Equal(t, 20, got.Skipped)
	assert.Equal(t, total, got.PeakActive)
	assert.Equal(t, uint64(total), got.FirstFullTick)
	assert.Zero(t, got.Completed)

	sum := 0
	for _, n := range got.Kinds {
		sum += n
	}
	assert.Equal(t, total, sum)
}

func TestSpawnScenarioCompletesOldTasks(t *testing.T) {
	cfg := DefaultConfig(EraModern)
	cfg.SpawnInterval = 0
	cfg.SpawnIntervalGrowth = 0

	got, err := SpawnScenario(cfg, Options{Geometry: testGeometry()}, 11, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Spawned)
	assert.Zero(t, got.Skipped)
	assert.LessOrEqual(t, got.PeakActive, 5)
	assert.Equal(t, 95, got.Completed)
	assert.Zero(t, got.FirstFullTick)
}
