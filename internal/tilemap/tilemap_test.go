package tilemap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vipers/internal/core"
	"vipers/internal/tile"
)

func TestAllPoolsEmptyIsConfigurationError(t *testing.T) {
	_, err := Generate(core.NewRNG(1), 10, 4, Pools{}, Weights{Unique: 0.3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestZeroWeightPoolsAreConfigurationError(t *testing.T) {
	pools := Pools{Unique: []tile.Style{"u"}}
	_, err := Generate(core.NewRNG(1), 2, 2, pools, Weights{})
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestBadDimensions(t *testing.T) {
	pools := Pools{Other: []tile.Style{"g"}}
	_, err := Generate(core.NewRNG(1), 0, 4, pools, Weights{})
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestWaterOnlyFillsGrid(t *testing.T) {
	pools := Pools{Water: []tile.Style{"water_a", "water_b"}}
	cells, err := Generate(core.NewRNG(42), 10, 4, pools, Weights{Water: 1})
	require.NoError(t, err)
	require.Len(t, cells, 40)
	for i, c := range cells {
		assert.Equal(t, tile.CategoryWater, c.Category, "cell %d", i)
		assert.Contains(t, pools.Water, c.Style)
	}
}

func TestEmptyPoolsAreSkipped(t *testing.T) {
	// Water has weight but no styles; every cell must come from other.
	pools := Pools{Other: []tile.Style{"grass"}}
	cells, err := Generate(core.NewRNG(2), 8, 8, pools, Weights{Water: 0.9})
	require.NoError(t, err)
	assert.Equal(t, map[tile.Category]int{tile.CategoryOther: 64}, Counts(cells))
}

func TestSinglePoolShare(t *testing.T) {
	pools := Pools{
		Other:  []tile.Style{"grass"},
		Unique: []tile.Style{"cactus"},
		City:   []tile.Style{"house"},
		Water:  []tile.Style{"pond"},
	}
	// Other derives to 0 so only city carries weight.
	cells, err := Generate(core.NewRNG(9), 100, 100, pools, Weights{City: 1})
	require.NoError(t, err)
	assert.Equal(t, 10000, Counts(cells)[tile.CategoryCity])
}

func TestWeightedShareWithinTolerance(t *testing.T) {
	pools := Pools{
		Other: []tile.Style{"grass"},
		Water: []tile.Style{"pond"},
	}
	// other = 1 - 0.25 = 0.75
	cells, err := Generate(core.NewRNG(77), 200, 100, pools, Weights{Water: 0.25})
	require.NoError(t, err)
	share := float64(Counts(cells)[tile.CategoryWater]) / float64(len(cells))
	assert.InDelta(t, 0.25, share, 0.02)
}

func TestUnnormalizedWeightsAreRelative(t *testing.T) {
	pools := Pools{
		Unique: []tile.Style{"u"},
		City:   []tile.Style{"c"},
	}
	// Sum exceeds 1; treat as a 3:1 ratio.
	cells, err := Generate(core.NewRNG(5), 200, 100, pools, Weights{Unique: 1.5, City: 0.5})
	require.NoError(t, err)
	share := float64(Counts(cells)[tile.CategoryUnique]) / float64(len(cells))
	assert.InDelta(t, 0.75, share, 0.02)
}

func TestGenerateDeterministic(t *testing.T) {
	pools := Pools{Other: []tile.Style{"a", "b", "c"}, Water: []tile.Style{"w"}}
	a, err := Generate(core.NewRNG(3), 10, 4, pools, Weights{Water: 0.2})
	require.NoError(t, err)
	b, err := Generate(core.NewRNG(3), 10, 4, pools, Weights{Water: 0.2})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestOtherWeightDerivation(t *testing.T) {
	assert.InDelta(t, 0.5, Weights{Unique: 0.3, City: 0.1, Water: 0.1}.Other(), 1e-12)
	assert.Equal(t, 0.0, Weights{Unique: 0.8, City: 0.1, Water: 0.2}.Other())
}
