// Package heuristic implements the hand-tuned positional evaluation of a Connect-Four board,
// based on the center column and on counting pieces in every window of 4 cells.
package heuristic

import (
	"github.com/janpfeifer/connect4Go/internal/ai"
	"github.com/janpfeifer/connect4Go/internal/state"
)

// Weights of the evaluation.
//
// Notice the opponent's 4-in-a-row is penalized ten times more than our own is rewarded.
// Search results depend on this asymmetry, so keep it as is.
const (
	CenterWeight = 3.0

	OwnFour  = 100_000.0
	OwnThree = 10.0
	OwnTwo   = 3.0

	OpponentFour  = -1_000_000.0
	OpponentThree = -50.0
	OpponentTwo   = -3.0
)

// ScoreWindow scores a window given the number of cells occupied by the player (own),
// by the opponent (opp) and the number of empty cells.
func ScoreWindow(own, opp, empty int) float64 {
	switch {
	case own == 4:
		return OwnFour
	case own == 3 && empty == 1:
		return OwnThree
	case own == 2 && empty == 2:
		return OwnTwo
	case opp == 4:
		return OpponentFour
	case opp == 3 && empty == 1:
		return OpponentThree
	case opp == 2 && empty == 2:
		return OpponentTwo
	}
	return 0
}

// Evaluate returns the score of the board from the perspective of player: the center column
// bonus plus the score of every window of the board.
func Evaluate(board state.Board, player state.Player) (score float64) {
	opponent := player.Opponent()
	for row := range state.Rows {
		switch board.At(row, state.CenterColumn) {
		case player:
			score += CenterWeight
		case opponent:
			score -= CenterWeight
		}
	}
	for _, w := range state.Windows {
		score += ScoreWindow(board.WindowCounts(w, player))
	}
	return
}

// Scorer exposes Evaluate as an ai.ValueScorer.
type Scorer struct{}

// Assert Scorer implements ai.ValueScorer.
var _ ai.ValueScorer = Scorer{}

// BoardScore implements ai.ValueScorer.
func (Scorer) BoardScore(board state.Board, player state.Player) float64 {
	return Evaluate(board, player)
}

func (Scorer) String() string {
	return "heuristic"
}
