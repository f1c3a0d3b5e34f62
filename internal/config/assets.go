// Package config loads front-end flags and the asset catalogue that describes
// every biome theme, cloud layer and era.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"vipers/internal/biome"
	"vipers/internal/core"
	"vipers/internal/earth"
	"vipers/internal/period"
	"vipers/internal/session"
	"vipers/internal/tile"
	"vipers/internal/tilemap"
)

// ErrInvalidConfig reports an asset file or flag that cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Assets is the on-disk description of a world. A file only needs the keys
// it overrides; a theme, cloud list or era it names replaces the built-in one
// as a whole.
type Assets struct {
	Geometry GeometryAssets          `yaml:"geometry"`
	Sky      string                  `yaml:"sky"`
	Scroll   ScrollAssets            `yaml:"scroll"`
	Clouds   []CloudLayerAssets      `yaml:"clouds"`
	Themes   map[string]ThemeAssets  `yaml:"themes"`
	Periods  map[string]PeriodAssets `yaml:"periods"`
	// Sizes maps a tile style to its image size. Styles not listed are
	// drawn one tile wide and tall.
	Sizes map[string]Size `yaml:"sizes"`
}

// GeometryAssets sizes the viewport and tile grid.
type GeometryAssets struct {
	ViewportWidth  float64 `yaml:"viewport_width"`
	ViewportHeight float64 `yaml:"viewport_height"`
	TileWidth      float64 `yaml:"tile_width"`
	Cols           int     `yaml:"cols"`
	Rows           int     `yaml:"rows"`
}

// ScrollAssets tunes scrolling.
type ScrollAssets struct {
	Speed            float64 `yaml:"speed"`
	LeftCloudFactor  float64 `yaml:"left_cloud_factor"`
	RightCloudFactor float64 `yaml:"right_cloud_factor"`
}

// Size is an image size in pixels.
type Size struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// CloudAssets is one cloud image.
type CloudAssets struct {
	Key string  `yaml:"key"`
	W   float64 `yaml:"w"`
	H   float64 `yaml:"h"`
}

// CloudLayerAssets is one parallax layer.
type CloudLayerAssets struct {
	Layer  string        `yaml:"layer"` // "far" or "near"
	Speed  float64       `yaml:"speed"`
	BaseY  float64       `yaml:"base_y"`
	Jitter float64       `yaml:"jitter"`
	Pool   []CloudAssets `yaml:"pool"`
}

// PoolAssets lists the styles of each tile category.
type PoolAssets struct {
	Other  []string `yaml:"other"`
	Unique []string `yaml:"unique"`
	City   []string `yaml:"city"`
	Water  []string `yaml:"water"`
}

// WeightAssets are the relative pool weights; other takes what is left of 1.
type WeightAssets struct {
	Unique float64 `yaml:"unique"`
	City   float64 `yaml:"city"`
	Water  float64 `yaml:"water"`
}

// BreathingAssets tunes the task pulse.
type BreathingAssets struct {
	MaxScale float64 `yaml:"max_scale"`
	Step     float64 `yaml:"step"`
}

// ThemeAssets describes one biome theme.
type ThemeAssets struct {
	Backgrounds []string        `yaml:"backgrounds"`
	Pools       PoolAssets      `yaml:"pools"`
	Weights     WeightAssets    `yaml:"weights"`
	Breathing   BreathingAssets `yaml:"breathing"`
}

// KindWeightAssets are the relative task kind weights.
type KindWeightAssets struct {
	Maze      float64 `yaml:"maze"`
	RPS       float64 `yaml:"rps"`
	TicTacToe float64 `yaml:"tictactoe"`
}

// PeriodAssets tunes one era. Nil interval fields keep the era's default.
type PeriodAssets struct {
	Lineup              []string         `yaml:"lineup"`
	SpawnInterval       *float64         `yaml:"spawn_interval,omitempty"`
	SpawnIntervalGrowth *float64         `yaml:"spawn_interval_growth,omitempty"`
	Weights             KindWeightAssets `yaml:"weights"`
}

// DefaultAssets mirrors the built-in defaults of every package.
func DefaultAssets() *Assets {
	geo := core.DefaultGeometry()
	ec := earth.DefaultConfig(geo)
	a := &Assets{
		Geometry: GeometryAssets{
			ViewportWidth:  geo.ViewportW,
			ViewportHeight: geo.ViewportH,
			TileWidth:      geo.TileWidth,
			Cols:           geo.Cols,
			Rows:           geo.Rows,
		},
		Sky: session.DefaultSky,
		Scroll: ScrollAssets{
			Speed:            ec.ScrollSpeed,
			LeftCloudFactor:  ec.LeftCloudFactor,
			RightCloudFactor: ec.RightCloudFactor,
		},
		Themes:  make(map[string]ThemeAssets, len(biome.Themes)),
		Periods: make(map[string]PeriodAssets, len(period.Eras)),
		Sizes:   map[string]Size{},
	}
	for _, lc := range ec.Clouds {
		la := CloudLayerAssets{Layer: layerName(lc.Layer), Speed: lc.Speed, BaseY: lc.BaseY, Jitter: lc.Jitter}
		for _, c := range lc.Pool {
			la.Pool = append(la.Pool, CloudAssets{Key: c.Key, W: c.W, H: c.H})
		}
		a.Clouds = append(a.Clouds, la)
	}
	for _, t := range biome.Themes {
		bc := biome.DefaultConfig(t)
		a.Themes[t.String()] = ThemeAssets{
			Backgrounds: append([]string(nil), bc.Backgrounds...),
			Pools: PoolAssets{
				Other:  styleNames(bc.Pools.Other),
				Unique: styleNames(bc.Pools.Unique),
				City:   styleNames(bc.Pools.City),
				Water:  styleNames(bc.Pools.Water),
			},
			Weights:   WeightAssets{Unique: bc.Weights.Unique, City: bc.Weights.City, Water: bc.Weights.Water},
			Breathing: BreathingAssets{MaxScale: bc.Breathing.MaxScale, Step: bc.Breathing.Step},
		}
	}
	for _, e := range period.Eras {
		pc := period.DefaultConfig(e)
		interval, growth := pc.SpawnInterval, pc.SpawnIntervalGrowth
		pa := PeriodAssets{
			SpawnInterval:       &interval,
			SpawnIntervalGrowth: &growth,
			Weights:             KindWeightAssets{Maze: pc.Weights.Maze, RPS: pc.Weights.RPS, TicTacToe: pc.Weights.TicTacToe},
		}
		for _, t := range pc.Lineup {
			pa.Lineup = append(pa.Lineup, t.String())
		}
		a.Periods[e.String()] = pa
	}
	return a
}

// LoadAssets reads path over the defaults. An empty path returns the
// defaults.
func LoadAssets(path string) (*Assets, error) {
	a := DefaultAssets()
	if path == "" {
		return a, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read assets %s: %w", path, err)
	}
	if err := a.Merge(data); err != nil {
		return nil, fmt.Errorf("assets %s: %w", path, err)
	}
	return a, nil
}

// Merge decodes YAML over a and validates the result.
func (a *Assets) Merge(data []byte) error {
	if err := yaml.Unmarshal(data, a); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return a.Validate()
}

// Marshal encodes a as YAML.
func (a *Assets) Marshal() ([]byte, error) {
	return yaml.Marshal(a)
}

// Validate converts every section once and reports the first problem.
func (a *Assets) Validate() error {
	if err := a.CoreGeometry().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := a.Catalog(); err != nil {
		return err
	}
	if _, err := a.EarthConfig(); err != nil {
		return err
	}
	periods, err := a.PeriodConfigs()
	if err != nil {
		return err
	}
	for _, pc := range periods {
		if err := pc.Validate(); err != nil {
			return fmt.Errorf("%w: era %s: %v", ErrInvalidConfig, pc.Era, err)
		}
	}
	for key, s := range a.Sizes {
		if s.W <= 0 || s.H <= 0 {
			return fmt.Errorf("%w: size of %q must be positive", ErrInvalidConfig, key)
		}
	}
	return nil
}

// CoreGeometry returns the viewport and tile geometry.
func (a *Assets) CoreGeometry() core.Geometry {
	return core.Geometry{
		ViewportW: a.Geometry.ViewportWidth,
		ViewportH: a.Geometry.ViewportHeight,
		TileWidth: a.Geometry.TileWidth,
		Cols:      a.Geometry.Cols,
		Rows:      a.Geometry.Rows,
	}
}

// Catalog converts the themes. Every theme must be present.
func (a *Assets) Catalog() (map[biome.Theme]biome.Config, error) {
	out := make(map[biome.Theme]biome.Config, len(a.Themes))
	for name, ta := range a.Themes {
		theme, err := biome.ParseTheme(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if len(ta.Backgrounds) == 0 {
			return nil, fmt.Errorf("%w: theme %s has no backgrounds", ErrInvalidConfig, name)
		}
		bc := biome.Config{
			Theme:       theme,
			Backgrounds: append([]string(nil), ta.Backgrounds...),
			Pools: tilemap.Pools{
				Other:  styles(ta.Pools.Other),
				Unique: styles(ta.Pools.Unique),
				City:   styles(ta.Pools.City),
				Water:  styles(ta.Pools.Water),
			},
			Weights:   tilemap.Weights{Unique: ta.Weights.Unique, City: ta.Weights.City, Water: ta.Weights.Water},
			Breathing: tile.Breathing{MaxScale: ta.Breathing.MaxScale, Step: ta.Breathing.Step},
		}
		if bc.Pools.Empty() {
			return nil, fmt.Errorf("%w: theme %s: %w", ErrInvalidConfig, name, tilemap.ErrConfiguration)
		}
		out[theme] = bc
	}
	for _, t := range biome.Themes {
		if _, ok := out[t]; !ok {
			return nil, fmt.Errorf("%w: theme %s missing", ErrInvalidConfig, t)
		}
	}
	return out, nil
}

// EarthConfig converts the scroll and cloud sections.
func (a *Assets) EarthConfig() (earth.Config, error) {
	cfg := earth.Config{
		ScrollSpeed:      a.Scroll.Speed,
		LeftCloudFactor:  a.Scroll.LeftCloudFactor,
		RightCloudFactor: a.Scroll.RightCloudFactor,
	}
	for i, la := range a.Clouds {
		layer, err := parseLayer(la.Layer)
		if err != nil {
			return earth.Config{}, fmt.Errorf("%w: clouds[%d]: %v", ErrInvalidConfig, i, err)
		}
		lc := earth.CloudLayerConfig{Layer: layer, Speed: la.Speed, BaseY: la.BaseY, Jitter: la.Jitter}
		for _, c := range la.Pool {
			lc.Pool = append(lc.Pool, earth.CloudStyle{Key: c.Key, W: c.W, H: c.H})
		}
		cfg.Clouds = append(cfg.Clouds, lc)
	}
	if bw := a.CoreGeometry().BiomeWidth(); cfg.ScrollSpeed < 0 || cfg.ScrollSpeed >= bw {
		return earth.Config{}, fmt.Errorf("%w: scroll speed %.1f outside [0, %.1f)", ErrInvalidConfig, cfg.ScrollSpeed, bw)
	}
	return cfg, nil
}

// PeriodConfigs converts the eras. Eras missing from the file keep their
// defaults, as does every field an era leaves out.
func (a *Assets) PeriodConfigs() (map[period.Era]period.Config, error) {
	out := make(map[period.Era]period.Config, len(period.Eras))
	for _, e := range period.Eras {
		out[e] = period.DefaultConfig(e)
	}
	for name, pa := range a.Periods {
		era, err := parseEra(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		pc := period.DefaultConfig(era)
		if pa.SpawnInterval != nil {
			pc.SpawnInterval = *pa.SpawnInterval
		}
		if pa.SpawnIntervalGrowth != nil {
			pc.SpawnIntervalGrowth = *pa.SpawnIntervalGrowth
		}
		if w := (period.KindWeights{Maze: pa.Weights.Maze, RPS: pa.Weights.RPS, TicTacToe: pa.Weights.TicTacToe}); w != (period.KindWeights{}) {
			pc.Weights = w
		}
		if len(pa.Lineup) > 0 {
			pc.Lineup = nil
			for _, tn := range pa.Lineup {
				t, err := biome.ParseTheme(tn)
				if err != nil {
					return nil, fmt.Errorf("%w: era %s: %v", ErrInvalidConfig, name, err)
				}
				pc.Lineup = append(pc.Lineup, t)
			}
		}
		out[era] = pc
	}
	return out, nil
}

// StyleSizer returns image sizes from the sizes table, falling back to
// square tiles.
func (a *Assets) StyleSizer() biome.StyleSizer {
	sizes := make(map[tile.Style]Size, len(a.Sizes))
	for k, s := range a.Sizes {
		sizes[tile.Style(k)] = s
	}
	return func(style tile.Style, tileWidth float64) (float64, float64) {
		if s, ok := sizes[style]; ok {
			return s.W, s.H
		}
		return biome.SquareSizer(style, tileWidth)
	}
}

// Session assembles a session config from the assets and flags.
func (a *Assets) Session(f *Flags, logger *slog.Logger) (session.Config, error) {
	catalog, err := a.Catalog()
	if err != nil {
		return session.Config{}, err
	}
	ec, err := a.EarthConfig()
	if err != nil {
		return session.Config{}, err
	}
	periods, err := a.PeriodConfigs()
	if err != nil {
		return session.Config{}, err
	}
	return session.Config{
		Difficulty: f.Difficulty,
		Seed:       f.Seed,
		Sky:        a.Sky,
		Periods:    periods,
		World: period.Options{
			Geometry: a.CoreGeometry(),
			Catalog:  catalog,
			Earth:    &ec,
			Sizer:    a.StyleSizer(),
			Logger:   logger,
		},
	}, nil
}

func layerName(l core.Layer) string {
	if l == core.LayerCloudsNear {
		return "near"
	}
	return "far"
}

func parseLayer(s string) (core.Layer, error) {
	switch s {
	case "far", "":
		return core.LayerCloudsFar, nil
	case "near":
		return core.LayerCloudsNear, nil
	default:
		return 0, fmt.Errorf("unknown cloud layer %q", s)
	}
}

func parseEra(s string) (period.Era, error) {
	for _, e := range period.Eras {
		if e.String() == s {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown era %q", s)
}

func styles(names []string) []tile.Style {
	out := make([]tile.Style, len(names))
	for i, n := range names {
		out[i] = tile.Style(n)
	}
	return out
}

func styleNames(ss []tile.Style) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}
