package earth

import (
	"github.com/ojrac/opensimplex-go"

	"vipers/internal/core"
)

// CloudStyle is one cloud image and its size.
type CloudStyle struct {
	Key string
	W   float64
	H   float64
}

// CloudLayerConfig describes one parallax layer of clouds.
type CloudLayerConfig struct {
	Layer core.Layer
	Pool  []CloudStyle
	// Speed is the drift in pixels per tick; scrolling moves clouds by
	// multiples of it.
	Speed float64
	BaseY float64
	// Jitter is the largest vertical deviation from BaseY.
	Jitter float64
}

// DefaultClouds returns the far and near layers.
func DefaultClouds(geo core.Geometry) []CloudLayerConfig {
	return []CloudLayerConfig{
		{
			Layer: core.LayerCloudsFar,
			Pool: []CloudStyle{
				{Key: "clouds/far_1.png", W: 420, H: 90},
				{Key: "clouds/far_2.png", W: 560, H: 110},
				{Key: "clouds/far_3.png", W: 380, H: 80},
			},
			Speed:  1,
			BaseY:  geo.ViewportH / 4,
			Jitter: 24,
		},
		{
			Layer: core.LayerCloudsNear,
			Pool: []CloudStyle{
				{Key: "clouds/near_1.png", W: 640, H: 140},
				{Key: "clouds/near_2.png", W: 520, H: 120},
			},
			Speed:  2,
			BaseY:  geo.ViewportH / 3,
			Jitter: 32,
		},
	}
}

// Cloud is a single drifting cloud.
type Cloud struct {
	Key  string
	Rect core.Rect
}

// noiseStep spaces successive altitude samples along the noise field.
const noiseStep = 0.37

// cloudLayer is a producer/remover pair: clouds are added at either edge as
// room opens up and dropped once they leave the screen. The clouds of a
// layer always abut, so the chain covers the viewport once refilled.
type cloudLayer struct {
	cfg     CloudLayerConfig
	index   int
	clouds  []*Cloud // ordered left to right
	noise   opensimplex.Noise
	spawned int
}

func newCloudLayer(cfg CloudLayerConfig, index int, seed int64) *cloudLayer {
	return &cloudLayer{cfg: cfg, index: index, noise: opensimplex.New(seed)}
}

func (l *cloudLayer) move(vector float64) {
	for _, c := range l.clouds {
		c.Rect.X += l.cfg.Speed * vector
	}
}

func (l *cloudLayer) drift() { l.move(1) }

// refill spawns clouds on the left until the leftmost one starts at or
// before the screen's left edge, then on the right until the rightmost one
// reaches past the right edge.
func (l *cloudLayer) refill(rng *core.RNG, viewportW float64) int {
	if len(l.cfg.Pool) == 0 {
		return 0
	}
	added := 0
	for len(l.clouds) == 0 || l.clouds[0].Rect.X > 0 {
		style := l.pick(rng)
		x := -style.W
		if len(l.clouds) > 0 {
			x = l.clouds[0].Rect.X - style.W
		}
		l.clouds = append([]*Cloud{l.newCloud(style, x)}, l.clouds...)
		added++
	}
	for l.clouds[len(l.clouds)-1].Rect.Right() < viewportW {
		style := l.pick(rng)
		x := l.clouds[len(l.clouds)-1].Rect.Right()
		l.clouds = append(l.clouds, l.newCloud(style, x))
		added++
	}
	return added
}

func (l *cloudLayer) pick(rng *core.RNG) CloudStyle {
	return l.cfg.Pool[rng.IntN(len(l.cfg.Pool))]
}

// newCloud places a cloud at x with its altitude taken from the next noise
// sample.
func (l *cloudLayer) newCloud(style CloudStyle, x float64) *Cloud {
	y := l.cfg.BaseY + l.cfg.Jitter*l.noise.Eval2(float64(l.spawned)*noiseStep, float64(l.index))
	l.spawned++
	return &Cloud{Key: style.Key, Rect: core.Rect{X: x, Y: y, W: style.W, H: style.H}}
}

// prune drops clouds past the right edge of the screen, and clouds left
// more than a screen behind the left edge.
func (l *cloudLayer) prune(viewportW float64) int {
	kept := l.clouds[:0]
	for _, c := range l.clouds {
		if c.Rect.X >= viewportW || c.Rect.Right() < -viewportW {
			continue
		}
		kept = append(kept, c)
	}
	removed := len(l.clouds) - len(kept)
	for i := len(kept); i < len(l.clouds); i++ {
		l.clouds[i] = nil
	}
	l.clouds = kept
	return removed
}

func (l *cloudLayer) sprites() []core.Sprite {
	out := make([]core.Sprite, len(l.clouds))
	for i, c := range l.clouds {
		out[i] = core.Sprite{
			Key:   c.Key,
			Tag:   "cloud",
			Layer: l.cfg.Layer,
			Rect:  c.Rect,
			Dirty: true,
		}
	}
	return out
}
