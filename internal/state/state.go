// Package state holds the Connect-Four board model: the grid, gravity-based placement
// and win detection.
//
// Board is a small value type: copying it copies the whole grid, so every simulated move
// produces an independent board, and search branches never share state.
package state

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

const (
	// Rows of the board. Row 0 is the bottom row, where pieces land first.
	Rows = 6

	// Columns of the board.
	Columns = 7

	// ConnectN is the number of aligned pieces needed to win.
	ConnectN = 4

	// CenterColumn is the middle column, strategically the most valuable.
	CenterColumn = Columns / 2

	// NoColumn is returned where a column is expected, but there is none (e.g.: no legal moves).
	NoColumn = -1
)

// Player occupying a cell. It is a signed unit, so the opponent of a player is its negation.
// Empty is the zero value and represents an unoccupied cell.
type Player int8

const (
	Empty   Player = 0
	PlayerA Player = 1
	PlayerB Player = -1
)

// Players enumerates the two playing sides, in the order they are usually listed.
var Players = [2]Player{PlayerA, PlayerB}

// Opponent returns the other player. The opponent of Empty is Empty.
func (p Player) Opponent() Player {
	return -p
}

// IsValid returns whether p is one of the two playing sides.
func (p Player) IsValid() bool {
	return p == PlayerA || p == PlayerB
}

// String returns "A", "B" or "." for Empty.
func (p Player) String() string {
	switch p {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	case Empty:
		return "."
	}
	return fmt.Sprintf("Player(%d)", int8(p))
}

// ErrInvalidMove is returned (wrapped) by Board.Apply when the move can't be played.
// Use errors.Is to check for it.
var ErrInvalidMove = errors.New("invalid move")

// Board is a Connect-Four position. The zero value is the empty board.
type Board struct {
	cells [Rows][Columns]Player
}

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

// At returns the player occupying the given cell, or Empty. Row 0 is the bottom.
// Out-of-board positions are reported as Empty.
func (b Board) At(row, col int) Player {
	if !InBoard(row, col) {
		return Empty
	}
	return b.cells[row][col]
}

// InBoard returns whether the (row, col) position is inside the grid.
func InBoard(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Columns
}

// IsLegal returns whether a piece can be dropped in the given column.
func (b Board) IsLegal(column int) bool {
	return column >= 0 && column < Columns && b.cells[Rows-1][column] == Empty
}

// LegalMoves returns the columns that still have room, in ascending order.
func (b Board) LegalMoves() []int {
	moves := make([]int, 0, Columns)
	for col := range Columns {
		if b.cells[Rows-1][col] == Empty {
			moves = append(moves, col)
		}
	}
	return moves
}

// Height returns the number of pieces in the given column, which is also the row where the
// next piece would land. Columns out of range are reported as full (Rows).
func (b Board) Height(column int) int {
	if column < 0 || column >= Columns {
		return Rows
	}
	for row := range Rows {
		if b.cells[row][column] == Empty {
			return row
		}
	}
	return Rows
}

// Apply drops the player's piece in the given column and returns the resulting board.
// The receiver is not changed.
//
// It returns an error wrapping ErrInvalidMove if the column is out of range or full, or if
// player is not one of PlayerA or PlayerB.
func (b Board) Apply(column int, player Player) (Board, error) {
	if !player.IsValid() {
		return b, errors.Wrapf(ErrInvalidMove, "player %s can't move", player)
	}
	if column < 0 || column >= Columns {
		return b, errors.Wrapf(ErrInvalidMove, "column %d out of range [0, %d)", column, Columns)
	}
	row := b.Height(column)
	if row == Rows {
		return b, errors.Wrapf(ErrInvalidMove, "column %d is full", column)
	}
	b.cells[row][column] = player
	return b, nil
}

// IsFull returns whether there are no more legal moves: the top row is completely filled.
func (b Board) IsFull() bool {
	for col := range Columns {
		if b.cells[Rows-1][col] == Empty {
			return false
		}
	}
	return true
}

// HasWin returns whether player has ConnectN pieces aligned in any direction.
// It scans every window of the board.
func (b Board) HasWin(player Player) bool {
	_, found := b.WinningWindow(player)
	return found
}

// WinningWindow returns the first window fully occupied by player, if any.
func (b Board) WinningWindow(player Player) (Window, bool) {
	if !player.IsValid() {
		return Window{}, false
	}
	for _, w := range Windows {
		own, _, _ := b.WindowCounts(w, player)
		if own == ConnectN {
			return w, true
		}
	}
	return Window{}, false
}

// Winner returns the player that has won, or Empty if there is none.
//
// On a position reached by legal play at most one player can have won. For hand-built
// boards where both have, PlayerA is returned.
func (b Board) Winner() Player {
	for _, player := range Players {
		if b.HasWin(player) {
			return player
		}
	}
	return Empty
}

// IsTerminal returns whether the game is over: either player won, or the board is full.
func (b Board) IsTerminal() bool {
	return b.IsFull() || b.HasWin(PlayerA) || b.HasWin(PlayerB)
}

// WindowCounts returns how many cells of the window are occupied by player (own),
// by the opponent (opp) and how many are empty.
func (b Board) WindowCounts(w Window, player Player) (own, opp, empty int) {
	for _, pos := range w.Cells {
		switch b.cells[pos.Row][pos.Col] {
		case Empty:
			empty++
		case player:
			own++
		default:
			opp++
		}
	}
	return
}

// NumPieces returns the total number of pieces on the board.
func (b Board) NumPieces() (count int) {
	for col := range Columns {
		count += b.Height(col)
	}
	return
}

// CountPieces returns the number of pieces of the given player on the board.
func (b Board) CountPieces(player Player) (count int) {
	for row := range Rows {
		for col := range Columns {
			if b.cells[row][col] == player {
				count++
			}
		}
	}
	return
}

// IsGravityConsistent returns whether every column is filled contiguously from the bottom row.
func (b Board) IsGravityConsistent() bool {
	for col := range Columns {
		seenEmpty := false
		for row := range Rows {
			if b.cells[row][col] == Empty {
				seenEmpty = true
			} else if seenEmpty {
				return false
			}
		}
	}
	return true
}

// Abs returns the absolute value of x.
func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// CenterDistance returns how far the column is from the center column.
func CenterDistance(column int) int {
	return Abs(column - CenterColumn)
}
