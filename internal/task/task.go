// Package task is the boundary between the world engine and the mini-games
// that run on tiles. The engine only ever holds a Handle; the games
// themselves are opaque values produced by a Factory.
package task

import "fmt"

// Kind selects which mini-game a tile spawns.
type Kind int

const (
	KindMaze Kind = iota
	KindRockPaperScissors
	KindTicTacToe
)

// Kinds lists every task kind in weight order.
var Kinds = []Kind{KindMaze, KindRockPaperScissors, KindTicTacToe}

func (k Kind) String() string {
	switch k {
	case KindMaze:
		return "maze"
	case KindRockPaperScissors:
		return "rps"
	case KindTicTacToe:
		return "tictactoe"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Handle identifies a live task. The zero Handle means "no task".
type Handle uint64

// None is the empty handle.
const None Handle = 0

// Ref locates a tile: the biome's index in the session lineup and the tile's
// row-major index inside that biome.
type Ref struct {
	Biome int
	Tile  int
}

// Global flattens the ref into an index across all biomes.
func (r Ref) Global(perBiome int) int { return r.Biome*perBiome + r.Tile }

// RefFromGlobal splits a global tile index back into biome and local parts.
func RefFromGlobal(idx, perBiome int) Ref {
	return Ref{Biome: idx / perBiome, Tile: idx % perBiome}
}

func (r Ref) String() string { return fmt.Sprintf("biome %d tile %d", r.Biome, r.Tile) }

// Factory builds the mini-game for a tile. The returned value is opaque to
// the engine.
type Factory func(ref Ref) any

// Placeholder is the task value used when no factory is registered for a
// kind. Headless tools and tests run entirely on placeholders.
type Placeholder struct {
	Kind Kind
	Ref  Ref
}

// PlaceholderFactory returns a Factory producing Placeholder values.
func PlaceholderFactory(kind Kind) Factory {
	return func(ref Ref) any { return Placeholder{Kind: kind, Ref: ref} }
}
