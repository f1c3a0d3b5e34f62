package biome

import (
	"fmt"
	"strings"

	"vipers/internal/tile"
	"vipers/internal/tilemap"
)

// Theme selects the look and tile mix of a biome.
type Theme int

const (
	ThemeDesert Theme = iota
	ThemeMountains
	ThemeForest
	ThemeCity
)

// Themes lists every theme.
var Themes = []Theme{ThemeDesert, ThemeMountains, ThemeForest, ThemeCity}

func (t Theme) String() string {
	switch t {
	case ThemeDesert:
		return "desert"
	case ThemeMountains:
		return "mountains"
	case ThemeForest:
		return "forest"
	case ThemeCity:
		return "city"
	default:
		return fmt.Sprintf("theme(%d)", int(t))
	}
}

// ParseTheme maps a theme name back to its Theme.
func ParseTheme(s string) (Theme, error) {
	for _, t := range Themes {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown biome theme %q", s)
}

// Config is everything that varies between biome themes.
type Config struct {
	Theme       Theme
	Backgrounds []string
	Pools       tilemap.Pools
	Weights     tilemap.Weights
	Breathing   tile.Breathing
}

var (
	grassTiles = []tile.Style{"tiles/grass_1.png", "tiles/grass_2.png", "tiles/grass_3.png"}
	waterTiles = []tile.Style{"tiles/water_1.png", "tiles/water_2.png"}
	cityTiles  = []tile.Style{"tiles/house_1.png", "tiles/house_2.png", "tiles/tower.png"}
)

// DefaultConfig returns the built-in asset pools and weights for a theme.
func DefaultConfig(theme Theme) Config {
	cfg := Config{
		Theme: theme,
		Pools: tilemap.Pools{
			Other: grassTiles,
			City:  cityTiles,
			Water: waterTiles,
		},
		Breathing: tile.DefaultBreathing(),
	}
	switch theme {
	case ThemeDesert:
		cfg.Backgrounds = []string{"background/desert.png", "background/desert_dunes.png"}
		cfg.Pools.Unique = []tile.Style{"tiles/sand_1.png", "tiles/sand_2.png", "tiles/cactus.png"}
		cfg.Weights = tilemap.Weights{Unique: 0.6, City: 0.05, Water: 0.05}
	case ThemeMountains:
		cfg.Backgrounds = []string{"background/mountains.png", "background/mountains_fall.png"}
		cfg.Pools.Unique = []tile.Style{"tiles/rock_1.png", "tiles/rock_2.png", "tiles/snow.png"}
		cfg.Weights = tilemap.Weights{Unique: 0.8, City: 0.1, Water: 0.1}
	case ThemeForest:
		cfg.Backgrounds = []string{"background/forest.png", "background/grass.png"}
		cfg.Pools.Unique = []tile.Style{"tiles/forest_1.png", "tiles/forest_2.png"}
		cfg.Weights = tilemap.Weights{Unique: 0.6, City: 0.2, Water: 0.1}
	case ThemeCity:
		cfg.Backgrounds = []string{"background/city.png", "background/city_night.png"}
		cfg.Pools.Unique = []tile.Style{"tiles/road_1.png", "tiles/plaza.png"}
		cfg.Weights = tilemap.Weights{Unique: 0.3, City: 0.5, Water: 0.05}
	}
	return cfg
}

// DefaultCatalog returns the built-in config for every theme.
func DefaultCatalog() map[Theme]Config {
	out := make(map[Theme]Config, len(Themes))
	for _, t := range Themes {
		out[t] = DefaultConfig(t)
	}
	return out
}
