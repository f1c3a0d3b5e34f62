package period

import (
	"log/slog"

	"vipers/internal/core"
	"vipers/internal/earth"
	"vipers/internal/task"
)

// SpawnTelemetry captures what a headless scheduler run produced.
type SpawnTelemetry struct {
	Ticks   int
	Spawned int
	// Skipped counts spawn attempts that found every tile busy.
	Skipped    int
	Completed  int
	PeakActive int
	// FirstFullTick is the first tick every tile held a task, or 0.
	FirstFullTick uint64
	FinalInterval float64
	Kinds         map[task.Kind]int
}

// SpawnScenario runs a period without rendering. Tasks older than
// completeAfter ticks are completed each tick, standing in for players; a
// negative completeAfter never completes anything. The world scrolls right
// for the whole run.
func SpawnScenario(cfg Config, opts Options, seed int64, ticks, completeAfter int) (SpawnTelemetry, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	p, err := New(cfg, opts, core.NewRNG(seed))
	if err != nil {
		return SpawnTelemetry{}, err
	}
	total := len(p.biomes) * p.geo.TilesPerBiome()
	out := SpawnTelemetry{Kinds: map[task.Kind]int{}}
	for range ticks {
		p.Update(earth.Input{Right: true})
		if completeAfter >= 0 {
			for _, e := range p.registry.Active() {
				if p.tick-e.Tick >= uint64(completeAfter) {
					if p.Complete(e.Handle) == nil {
						out.Completed++
					}
				}
			}
		}
		active := p.registry.Len()
		out.PeakActive = max(out.PeakActive, active)
		if active == total && out.FirstFullTick == 0 {
			out.FirstFullTick = p.tick
		}
	}
	out.Ticks = ticks
	out.Spawned = p.spawned
	out.Skipped = p.skipped
	out.FinalInterval = p.interval
	for k, n := range p.spawnedKinds {
		out.Kinds[k] = n
	}
	return out, nil
}
