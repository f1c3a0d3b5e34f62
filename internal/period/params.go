package period

import (
	"vipers/internal/core"
	"vipers/internal/task"
)

const (
	keySpawnInterval = "spawn_interval"
	keyGrowth        = "spawn_interval_growth"
	keyWeightMaze    = "weight_maze"
	keyWeightRPS     = "weight_rps"
	keyWeightTTT     = "weight_tictactoe"
)

// Parameters reports the scheduler state for the HUD.
func (p *Period) Parameters() core.ParameterSnapshot {
	counts := p.registry.Counts()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Spawning",
			Params: []core.Parameter{
				core.FloatParam(keySpawnInterval, "Spawn interval", p.interval),
				core.FloatParam(keyGrowth, "Interval growth", p.growth),
				core.FloatParam("since_spawn", "Since spawn", p.sinceSpawn),
				core.IntParam("spawned", "Spawned", p.spawned),
				core.IntParam("skipped", "Skipped", p.skipped),
			},
		},
		{
			Name: "Tasks",
			Params: []core.Parameter{
				core.IntParam("active", "Active", p.registry.Len()),
				core.IntParam("active_maze", "Maze", counts[task.KindMaze]),
				core.IntParam("active_rps", "RPS", counts[task.KindRockPaperScissors]),
				core.IntParam("active_tictactoe", "Tic-tac-toe", counts[task.KindTicTacToe]),
				core.FloatParam(keyWeightMaze, "Maze weight", p.cfg.Weights.Maze),
				core.FloatParam(keyWeightRPS, "RPS weight", p.cfg.Weights.RPS),
				core.FloatParam(keyWeightTTT, "TTT weight", p.cfg.Weights.TicTacToe),
			},
		},
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("tick", "Tick", int(p.tick)),
				core.FloatParam("offset", "Offset", p.earth.Offset()),
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable scheduler values.
func (p *Period) ParameterControls() []core.ParameterControl {
	weight := func(key, label string) core.ParameterControl {
		return core.ParameterControl{Key: key, Label: label, Step: 0.1, Min: 0, Max: 5, HasMin: true, HasMax: true}
	}
	return []core.ParameterControl{
		{Key: keySpawnInterval, Label: "Spawn interval", Step: 30, Min: 0, HasMin: true},
		{Key: keyGrowth, Label: "Interval growth", Step: 0.01, Min: -1, Max: 1, HasMin: true, HasMax: true},
		weight(keyWeightMaze, "Maze weight"),
		weight(keyWeightRPS, "RPS weight"),
		weight(keyWeightTTT, "TTT weight"),
	}
}

// SetFloatParameter updates a scheduler value. A change that would zero every
// kind weight is refused.
func (p *Period) SetFloatParameter(key string, value float64) bool {
	for _, ctrl := range p.ParameterControls() {
		if ctrl.Key == key {
			value = ctrl.Clamp(value)
			break
		}
	}
	switch key {
	case keySpawnInterval:
		p.interval = value
	case keyGrowth:
		p.growth = value
	case keyWeightMaze, keyWeightRPS, keyWeightTTT:
		w := p.cfg.Weights
		switch key {
		case keyWeightMaze:
			w.Maze = value
		case keyWeightRPS:
			w.RPS = value
		default:
			w.TicTacToe = value
		}
		if w.Maze+w.RPS+w.TicTacToe <= 0 {
			return false
		}
		p.cfg.Weights = w
	default:
		return false
	}
	return true
}
