package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnRejectsOccupiedTile(t *testing.T) {
	r := NewRegistry(nil)
	ref := Ref{Biome: 2, Tile: 7}

	e, err := r.Spawn(KindMaze, ref, 1)
	require.NoError(t, err)
	assert.NotEqual(t, None, e.Handle)
	assert.True(t, r.Occupied(ref))

	_, err = r.Spawn(KindTicTacToe, ref, 2)
	assert.True(t, errors.Is(err, ErrOccupied))
	assert.Equal(t, 1, r.Len())
}

func TestRemoveFreesTile(t *testing.T) {
	r := NewRegistry(nil)
	ref := Ref{Biome: 0, Tile: 3}
	e, err := r.Spawn(KindRockPaperScissors, ref, 0)
	require.NoError(t, err)

	got, ok := r.Remove(e.Handle)
	require.True(t, ok)
	assert.Equal(t, ref, got.Ref)
	assert.False(t, r.Occupied(ref))
	_, ok = r.Remove(e.Handle)
	assert.False(t, ok)

	_, err = r.Spawn(KindMaze, ref, 1)
	assert.NoError(t, err)
}

func TestPlaceholderAndCustomFactories(t *testing.T) {
	type maze struct{ ref Ref }
	r := NewRegistry(map[Kind]Factory{
		KindMaze: func(ref Ref) any { return &maze{ref: ref} },
	})

	m, err := r.Spawn(KindMaze, Ref{Tile: 1}, 0)
	require.NoError(t, err)
	assert.IsType(t, &maze{}, m.Task)

	p, err := r.Spawn(KindTicTacToe, Ref{Tile: 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, Placeholder{Kind: KindTicTacToe, Ref: Ref{Tile: 2}}, p.Task)
}

func TestActiveKeepsSpawnOrder(t *testing.T) {
	r := NewRegistry(nil)
	var handles []Handle
	for i := 0; i < 4; i++ {
		e, err := r.Spawn(KindMaze, Ref{Tile: i}, uint64(i))
		require.NoError(t, err)
		handles = append(handles, e.Handle)
	}
	r.Remove(handles[1])

	var got []Handle
	for _, e := range r.Active() {
		got = append(got, e.Handle)
	}
	assert.Equal(t, []Handle{handles[0], handles[2], handles[3]}, got)

	oldest, ok := r.Oldest()
	require.True(t, ok)
	assert.Equal(t, handles[0], oldest.Handle)
	assert.Equal(t, map[Kind]int{KindMaze: 3}, r.Counts())
}

func TestRefGlobalRoundTrip(t *testing.T) {
	ref := Ref{Biome: 5, Tile: 13}
	assert.Equal(t, ref, RefFromGlobal(ref.Global(40), 40))
}
