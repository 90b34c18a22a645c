// Package statetest provides helper functions to create tests using Connect-Four boards.
package statetest

import (
	"math/rand/v2"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/connect4Go/internal/state"
	"github.com/janpfeifer/must"
)

// Piece represents the ownership of a cell on the board.
type Piece struct {
	Row, Col int
	Player   state.Player
}

// BuildBoard from a collection of pieces. Pieces are dropped in the order given, so for
// stacked pieces list the lower ones first. It panics if a piece doesn't land on the row
// requested.
func BuildBoard(layout []Piece) state.Board {
	b := state.NewBoard()
	for _, p := range layout {
		if got := b.Height(p.Col); got != p.Row {
			exceptions.Panicf("piece %+v would land on row %d", p, got)
		}
		b = must.M1(b.Apply(p.Col, p.Player))
	}
	return b
}

// MustParse parses the board layout or panics.
func MustParse(text string) state.Board {
	return must.M1(state.Parse(text))
}

// RandomBoard plays up to numMoves random legal moves from the empty board, alternating
// players and starting with PlayerA. It stops earlier if the game ends.
// It returns the board and the player to move next.
func RandomBoard(rng *rand.Rand, numMoves int) (b state.Board, next state.Player) {
	next = state.PlayerA
	for range numMoves {
		if b.IsTerminal() {
			break
		}
		moves := b.LegalMoves()
		b = must.M1(b.Apply(moves[rng.IntN(len(moves))], next))
		next = next.Opponent()
	}
	return
}
