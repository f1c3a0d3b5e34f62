// Package period runs a game session's world and schedules tasks onto its
// tiles.
package period

import (
	"fmt"
	"log/slog"

	"vipers/internal/biome"
	"vipers/internal/core"
	"vipers/internal/earth"
	"vipers/internal/task"
	"vipers/internal/tile"
)

// Options carries the collaborators of a Period. Zero fields fall back to
// the built-in defaults.
type Options struct {
	Geometry  core.Geometry
	Catalog   map[biome.Theme]biome.Config
	Earth     *earth.Config
	Factories map[task.Kind]task.Factory
	Sizer     biome.StyleSizer
	Logger    *slog.Logger
}

// Period owns the biomes of a session, drives the world every tick and
// spawns tasks on a timer.
type Period struct {
	cfg    Config
	geo    core.Geometry
	rng    *core.RNG
	logger *slog.Logger

	biomes   []*biome.Biome
	earth    *earth.Earth
	registry *task.Registry

	tick       uint64
	started    bool
	sinceSpawn float64
	interval   float64
	growth     float64

	spawned      int
	skipped      int
	spawnedKinds map[task.Kind]int
}

// New builds the biome lineup and world for cfg.
func New(cfg Config, opts Options, rng *core.RNG) (*Period, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	geo := opts.Geometry
	if geo == (core.Geometry{}) {
		geo = core.DefaultGeometry()
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = biome.DefaultCatalog()
	}
	earthCfg := earth.DefaultConfig(geo)
	if opts.Earth != nil {
		earthCfg = *opts.Earth
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("era", cfg.Era.String())

	var biomeOpts []biome.Option
	if opts.Sizer != nil {
		biomeOpts = append(biomeOpts, biome.WithStyleSizer(opts.Sizer))
	}
	biomes, err := biome.Lineup(catalog, cfg.Lineup, geo, rng, biomeOpts...)
	if err != nil {
		return nil, err
	}
	world, err := earth.New(biomes, geo, earthCfg, rng, logger)
	if err != nil {
		return nil, err
	}

	return &Period{
		cfg:      cfg,
		geo:      geo,
		rng:      rng,
		logger:   logger,
		biomes:   biomes,
		earth:    world,
		registry: task.NewRegistry(opts.Factories),
		interval: cfg.SpawnInterval,
		growth:   cfg.SpawnIntervalGrowth,

		spawnedKinds: make(map[task.Kind]int, len(task.Kinds)),
	}, nil
}

// Era returns the period's era.
func (p *Period) Era() Era { return p.cfg.Era }

// Earth returns the world driven by the period.
func (p *Period) Earth() *earth.Earth { return p.earth }

// Biomes returns the session lineup.
func (p *Period) Biomes() []*biome.Biome { return p.biomes }

// Registry returns the live task registry.
func (p *Period) Registry() *task.Registry { return p.registry }

// Tick is the number of updates run so far.
func (p *Period) Tick() uint64 { return p.tick }

// SpawnInterval is the current number of ticks between spawns.
func (p *Period) SpawnInterval() float64 { return p.interval }

// SinceSpawn is the tick count since the last spawn.
func (p *Period) SinceSpawn() float64 { return p.sinceSpawn }

// Spawned is the total number of tasks spawned.
func (p *Period) Spawned() int { return p.spawned }

// Skipped counts spawn attempts that found every tile busy.
func (p *Period) Skipped() int { return p.skipped }

// SpawnedKind is the number of tasks of kind spawned so far.
func (p *Period) SpawnedKind(kind task.Kind) int { return p.spawnedKinds[kind] }

// Update advances the world one tick and then runs the spawn timer.
func (p *Period) Update(in earth.Input) {
	p.tick++
	p.earth.Update(in)
	p.Sweep()
	p.handleSpawn()
}

func (p *Period) handleSpawn() {
	if !p.started || p.sinceSpawn >= p.interval {
		p.started = true
		p.sinceSpawn = 0
		p.spawn()
	} else {
		p.sinceSpawn++
	}
	p.interval = max(p.interval+p.growth, 0)
}

// spawn places one task on a uniformly chosen free tile. Picking among free
// tiles is equivalent to re-rolling until a free tile comes up.
func (p *Period) spawn() (*task.Entry, bool) {
	perBiome := p.geo.TilesPerBiome()
	free := make([]int, 0, perBiome*len(p.biomes))
	for bi, b := range p.biomes {
		for ti, t := range b.Tiles() {
			if !t.HasTask() {
				free = append(free, bi*perBiome+ti)
			}
		}
	}
	if len(free) == 0 {
		p.skipped++
		p.logger.Debug("task spawn skipped, no free tile", "tick", p.tick, "active", p.registry.Len())
		return nil, false
	}

	ref := task.RefFromGlobal(free[p.rng.IntN(len(free))], perBiome)
	kind := task.Kinds[p.rng.Weighted(p.cfg.Weights.Slice())]
	entry, err := p.registry.Spawn(kind, ref, p.tick)
	if err != nil {
		p.logger.Error("task spawn failed", "tick", p.tick, "err", err)
		return nil, false
	}
	p.TileAt(ref).AttachTask(entry.Handle)
	p.spawned++
	p.spawnedKinds[kind]++
	p.logger.Debug("task spawned",
		"tick", p.tick,
		"kind", kind.String(),
		"biome", ref.Biome,
		"theme", p.biomes[ref.Biome].Theme().String(),
		"tile", ref.Tile,
		"interval", p.interval,
	)
	return entry, true
}

// TileAt resolves a task ref to its tile.
func (p *Period) TileAt(ref task.Ref) *tile.Tile {
	return p.biomes[ref.Biome].Tile(ref.Tile)
}

// TaskRect returns the on-screen rect of a task's tile, laying out its biome
// first if that was deferred.
func (p *Period) TaskRect(h task.Handle) (core.Rect, bool) {
	e, ok := p.registry.Get(h)
	if !ok {
		return core.Rect{}, false
	}
	return p.biomes[e.Ref.Biome].TileRect(e.Ref.Tile), true
}

// BiomeOf returns the biome a task is bound to.
func (p *Period) BiomeOf(h task.Handle) (*biome.Biome, bool) {
	e, ok := p.registry.Get(h)
	if !ok {
		return nil, false
	}
	return p.biomes[e.Ref.Biome], true
}

// Complete finishes a task: the registry forgets it and its tile returns to
// rest.
func (p *Period) Complete(h task.Handle) error {
	e, ok := p.registry.Remove(h)
	if !ok {
		return fmt.Errorf("complete task %d: not active", h)
	}
	if t := p.TileAt(e.Ref); t.Task() == h {
		t.ClearTask()
	}
	p.logger.Debug("task completed", "tick", p.tick, "kind", e.Kind.String(), "biome", e.Ref.Biome, "tile", e.Ref.Tile)
	return nil
}

// CompleteOldest finishes the longest-running task, if any.
func (p *Period) CompleteOldest() (task.Handle, bool) {
	e, ok := p.registry.Oldest()
	if !ok {
		return task.None, false
	}
	if err := p.Complete(e.Handle); err != nil {
		return task.None, false
	}
	return e.Handle, true
}

// Sweep forgets tasks whose tile was cleared from outside the engine.
func (p *Period) Sweep() int {
	dropped := 0
	for _, e := range p.registry.Active() {
		if p.TileAt(e.Ref).Task() == e.Handle {
			continue
		}
		p.registry.Remove(e.Handle)
		dropped++
	}
	return dropped
}
