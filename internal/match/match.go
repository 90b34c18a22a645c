// Package match holds the state of one Connect-Four match: the board, whose turn it is, and
// the outcome once it's over.
//
// A Match is a value: Play returns the new state and leaves the receiver untouched, so
// front-ends can keep the history or explore alternatives freely.
package match

import (
	"slices"

	"github.com/janpfeifer/connect4Go/internal/state"
	"github.com/pkg/errors"
)

// ErrMatchFinished is returned when trying to play on a finished match.
var ErrMatchFinished = errors.New("match is finished")

// Match is the state of a match.
type Match struct {
	Board state.Board

	// Next is the player to move. After the match finishes it's the one that would have played.
	Next state.Player

	// MoveNumber counts the moves already played.
	MoveNumber int

	// Finished is set when a player wins or the board is full.
	Finished bool

	// Winner is state.Empty while the match is not finished, or if it was a draw.
	Winner state.Player

	// WinningWindow is the four cells that won the match, if there was a winner.
	WinningWindow state.Window

	// Moves played so far, in order.
	Moves []int
}

// New starts a match on an empty board, with first to play.
func New(first state.Player) (Match, error) {
	if !first.IsValid() {
		return Match{}, errors.Errorf("invalid first player %s", first)
	}
	return Match{Board: state.NewBoard(), Next: first}, nil
}

// IsDraw returns whether the match finished without a winner.
func (m Match) IsDraw() bool {
	return m.Finished && m.Winner == state.Empty
}

// Play drops a piece of the next player in column, and returns the new state of the match.
//
// It fails with ErrMatchFinished if the match is over, or with an error wrapping
// state.ErrInvalidMove if the column is not playable.
func (m Match) Play(column int) (Match, error) {
	if m.Finished {
		return m, errors.Wrapf(ErrMatchFinished, "can't play column %d", column)
	}
	board, err := m.Board.Apply(column, m.Next)
	if err != nil {
		return m, err
	}
	next := m
	next.Board = board
	next.MoveNumber++
	next.Moves = append(slices.Clip(m.Moves), column)
	if window, won := board.WinningWindow(m.Next); won {
		next.Finished = true
		next.Winner = m.Next
		next.WinningWindow = window
		return next, nil
	}
	if board.IsFull() {
		next.Finished = true
		return next, nil
	}
	next.Next = m.Next.Opponent()
	return next, nil
}
