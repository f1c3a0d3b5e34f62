package biome

import (
	"fmt"

	"vipers/internal/core"
)

// DefaultLineup is the left-to-right theme order of a session: three of each
// theme in repeating groups.
func DefaultLineup() []Theme {
	var out []Theme
	for _, t := range Themes {
		out = append(out, t, t, t)
	}
	return out
}

// Lineup builds one biome per theme, in order, using the catalog's config for
// each theme.
func Lineup(catalog map[Theme]Config, themes []Theme, geo core.Geometry, rng *core.RNG, opts ...Option) ([]*Biome, error) {
	out := make([]*Biome, 0, len(themes))
	for i, t := range themes {
		cfg, ok := catalog[t]
		if !ok {
			return nil, fmt.Errorf("biome %d: no config for theme %s", i, t)
		}
		cfg.Theme = t
		b, err := New(cfg, geo, rng, opts...)
		if err != nil {
			return nil, fmt.Errorf("biome %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}
