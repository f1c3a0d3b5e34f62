package period

import (
	"errors"
	"fmt"

	"vipers/internal/biome"
	"vipers/internal/task"
)

// ErrInvalidConfig reports scheduler settings that cannot run.
var ErrInvalidConfig = errors.New("invalid period config")

// Era is the time-period style of a session.
type Era int

const (
	EraMedieval Era = iota
	EraModern
	EraFuture
)

// Eras lists every era in difficulty order.
var Eras = []Era{EraMedieval, EraModern, EraFuture}

func (e Era) String() string {
	switch e {
	case EraMedieval:
		return "medieval"
	case EraModern:
		return "modern"
	case EraFuture:
		return "future"
	default:
		return fmt.Sprintf("era(%d)", int(e))
	}
}

// KindWeights are the relative chances of each task kind.
type KindWeights struct {
	Maze      float64
	RPS       float64
	TicTacToe float64
}

// Slice returns the weights in task.Kinds order.
func (w KindWeights) Slice() []float64 {
	return []float64{w.Maze, w.RPS, w.TicTacToe}
}

// Config holds the scheduler tuning of one era.
type Config struct {
	Era    Era
	Lineup []biome.Theme

	// SpawnInterval is the number of ticks between task spawns.
	SpawnInterval float64
	// SpawnIntervalGrowth is added to SpawnInterval every tick.
	SpawnIntervalGrowth float64

	Weights KindWeights
}

// DefaultConfig returns the standard tuning for an era.
func DefaultConfig(era Era) Config {
	return Config{
		Era:                 era,
		Lineup:              biome.DefaultLineup(),
		SpawnInterval:       600,
		SpawnIntervalGrowth: 0.05,
		Weights:             KindWeights{Maze: 1, RPS: 1, TicTacToe: 1},
	}
}

// Validate checks the scheduler settings.
func (c Config) Validate() error {
	if len(c.Lineup) < 2 {
		return fmt.Errorf("%w: lineup needs at least 2 biomes, got %d", ErrInvalidConfig, len(c.Lineup))
	}
	if c.SpawnInterval < 0 {
		return fmt.Errorf("%w: negative spawn interval %.2f", ErrInvalidConfig, c.SpawnInterval)
	}
	total := 0.0
	for i, w := range c.Weights.Slice() {
		if w < 0 {
			return fmt.Errorf("%w: negative %s weight %.2f", ErrInvalidConfig, task.Kinds[i], w)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("%w: every task kind weight is zero", ErrInvalidConfig)
	}
	return nil
}
