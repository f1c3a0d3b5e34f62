// Package session builds a themed game session from a difficulty selector and
// exposes it to the front ends.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"vipers/internal/core"
	"vipers/internal/earth"
	"vipers/internal/period"
)

// ErrInvalidDifficulty is returned for a difficulty outside the known eras.
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// DefaultSky is the asset key of the full-viewport sky backdrop.
const DefaultSky = "background/sky.png"

// Config selects and tunes a session.
type Config struct {
	// Difficulty picks the era: 0 medieval, 1 modern, 2 future.
	Difficulty int
	Seed       int64
	Sky        string

	// Periods overrides the per-era scheduler tuning.
	Periods map[period.Era]period.Config
	World   period.Options
}

// Session is one running game: a sky backdrop over a period's world.
type Session struct {
	cfg    Config
	era    period.Era
	geo    core.Geometry
	period *period.Period
	logger *slog.Logger

	skyDirty bool
}

// EraForDifficulty maps a difficulty selector onto an era.
func EraForDifficulty(difficulty int) (period.Era, error) {
	if difficulty < 0 || difficulty >= len(period.Eras) {
		return 0, fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidDifficulty, difficulty, len(period.Eras)-1)
	}
	return period.Eras[difficulty], nil
}

// New validates the difficulty and builds the session world.
func New(cfg Config) (*Session, error) {
	era, err := EraForDifficulty(cfg.Difficulty)
	if err != nil {
		return nil, err
	}
	if cfg.Sky == "" {
		cfg.Sky = DefaultSky
	}
	if cfg.World.Geometry == (core.Geometry{}) {
		cfg.World.Geometry = core.DefaultGeometry()
	}
	if err := cfg.World.Geometry.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.World.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{cfg: cfg, era: era, geo: cfg.World.Geometry, logger: logger}
	if err := s.Reset(cfg.Seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset rebuilds the world from seed.
func (s *Session) Reset(seed int64) error {
	pc, ok := s.cfg.Periods[s.era]
	if !ok {
		pc = period.DefaultConfig(s.era)
	}
	pc.Era = s.era
	p, err := period.New(pc, s.cfg.World, core.NewRNG(seed))
	if err != nil {
		return fmt.Errorf("session %s: %w", s.era, err)
	}
	s.cfg.Seed = seed
	s.period = p
	s.skyDirty = true
	s.logger.Info("session reset", "era", s.era.String(), "seed", seed, "biomes", len(p.Biomes()))
	return nil
}

// Name returns the era name.
func (s *Session) Name() string { return s.era.String() }

// Title is the window title.
func (s *Session) Title() string { return "vipers - " + s.Name() }

// Era returns the session era.
func (s *Session) Era() period.Era { return s.era }

// Seed returns the seed of the current world.
func (s *Session) Seed() int64 { return s.cfg.Seed }

// Geometry returns the viewport and tile geometry.
func (s *Session) Geometry() core.Geometry { return s.geo }

// Period returns the running scheduler.
func (s *Session) Period() *period.Period { return s.period }

// Update advances the session one tick.
func (s *Session) Update(in earth.Input) { s.period.Update(in) }

// Sprites returns the sky followed by the world in draw order.
func (s *Session) Sprites() []core.Sprite {
	world := s.period.Earth().Sprites()
	out := make([]core.Sprite, 0, len(world)+1)
	out = append(out, core.Sprite{
		Key:   s.cfg.Sky,
		Tag:   "sky",
		Layer: core.LayerBackground,
		Rect:  core.Rect{W: s.geo.ViewportW, H: s.geo.ViewportH},
		Dirty: s.skyDirty,
	})
	return append(out, world...)
}

// MarkClean clears dirty flags after a frame was drawn.
func (s *Session) MarkClean() {
	s.skyDirty = false
	s.period.Earth().MarkClean()
}

// Parameters reports the scheduler state.
func (s *Session) Parameters() core.ParameterSnapshot { return s.period.Parameters() }

// ParameterControls lists the adjustable scheduler values.
func (s *Session) ParameterControls() []core.ParameterControl { return s.period.ParameterControls() }

// SetFloatParameter updates a scheduler value.
func (s *Session) SetFloatParameter(key string, value float64) bool {
	return s.period.SetFloatParameter(key, value)
}
