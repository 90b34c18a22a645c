// Package searchers defines the Searcher interface, the move-policy contract shared by
// the alpha-beta search and the learned model adapters, along with the Decision they return.
package searchers

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/janpfeifer/connect4Go/internal/state"
)

// Searcher is the interface that any of the move-selection algorithms must adhere to.
//
// Implementations must not keep per-search state in the Searcher itself, so a Searcher can
// be used concurrently, e.g. to analyse many boards at once.
type Searcher interface {
	// Search returns the column player should play on board.
	//
	// If there are no legal moves the Decision has Column == state.NoColumn and Reason ==
	// ReasonNoMoves; this is not an error, the caller should treat the match as finished.
	Search(board state.Board, player state.Player) (Decision, error)
}

// Reason why a column was chosen.
type Reason uint8

const (
	ReasonNoMoves Reason = iota
	// ReasonWin means the column wins immediately.
	ReasonWin
	// ReasonBlock means the column blocks an immediate win of the opponent.
	ReasonBlock
	// ReasonSearch means the column was selected by searching the game tree.
	ReasonSearch
	// ReasonModel means the column was selected by a learned model.
	ReasonModel
	// ReasonRandom means the column was selected at random.
	ReasonRandom
	// ReasonFallback means the searcher failed, and a random legal column was chosen instead.
	ReasonFallback
)

var reasonNames = []string{"no legal moves", "immediate win", "block", "search", "model", "random", "fallback"}

func (r Reason) String() string {
	if int(r) >= len(reasonNames) {
		return fmt.Sprintf("Reason(%d)", uint8(r))
	}
	return reasonNames[r]
}

// ColumnScore is the score a Searcher assigned to playing a column.
type ColumnScore struct {
	Column int
	Score  float64
}

// Decision is the outcome of a search.
type Decision struct {
	// Column to play, or state.NoColumn if there are no legal moves.
	Column int

	// Score of the chosen column, if the Searcher scored it.
	Score float64

	Reason Reason

	// Ranked holds the score of every column considered at the top level, sorted by
	// decreasing score. It is only filled when columns were actually compared (not for
	// immediate wins or blocks), and it is meant for diagnostics.
	Ranked []ColumnScore
}

// NoMoves is the Decision when the board has no legal moves.
var NoMoves = Decision{Column: state.NoColumn, Reason: ReasonNoMoves}

// Ok returns whether the decision holds a column to play.
func (d Decision) Ok() bool {
	return d.Column != state.NoColumn
}

func (d Decision) String() string {
	if !d.Ok() {
		return d.Reason.String()
	}
	if len(d.Ranked) > 0 {
		return fmt.Sprintf("column %d (%s, score=%.2f)", d.Column, d.Reason, d.Score)
	}
	return fmt.Sprintf("column %d (%s)", d.Column, d.Reason)
}

// CenterOrder returns a copy of the columns sorted by increasing distance to the center
// column. The sort is stable, so among columns at the same distance the input order is kept:
// for ascending input the lower column comes first.
func CenterOrder(columns []int) []int {
	ordered := slices.Clone(columns)
	slices.SortStableFunc(ordered, func(a, b int) int {
		return cmp.Compare(state.CenterDistance(a), state.CenterDistance(b))
	})
	return ordered
}

// SortRanked sorts scores by decreasing score. The sort is stable, so ties keep their
// relative order.
func SortRanked(scores []ColumnScore) {
	slices.SortStableFunc(scores, func(a, b ColumnScore) int {
		return cmp.Compare(b.Score, a.Score)
	})
}
