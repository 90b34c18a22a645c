// Package ai (Artificial Intelligence) defines the standard interfaces that board evaluators
// have to implement to be used by the searchers.
package ai

import (
	"github.com/chewxy/math32"
	"github.com/janpfeifer/connect4Go/internal/state"
)

// ValueScorer scores a board position from the perspective of the given player: higher is
// better for player.
//
// It is used by the searchers at the leaves of the search tree. Implementations must be
// safe to call concurrently.
type ValueScorer interface {
	BoardScore(board state.Board, player state.Player) float64
	String() string
}

// ActionScorer returns a preference value for each column (action) of the board, from the
// perspective of player, who is the one to move. The returned slice has state.Columns
// entries, indexed by column; values for illegal columns are undefined.
//
// This is the contract of learned models, that score moves directly instead of positions.
type ActionScorer interface {
	ActionScores(board state.Board, player state.Player) ([]float32, error)
	String() string
}

// ValueScorerFunc adapts a plain function to a ValueScorer.
type ValueScorerFunc struct {
	Name string
	Fn   func(board state.Board, player state.Player) float64
}

// BoardScore implements ValueScorer.
func (f ValueScorerFunc) BoardScore(board state.Board, player state.Player) float64 {
	return f.Fn(board, player)
}

func (f ValueScorerFunc) String() string {
	return f.Name
}

// SquashScore converts any score to a value between -1 and 1 using tanh(x), a type of
// S curve.
func SquashScore(x float32) float32 {
	return math32.Tanh(x)
}
