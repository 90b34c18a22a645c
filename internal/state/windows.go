package state

import "fmt"

// Pos is a cell position. Row 0 is the bottom of the board.
type Pos struct {
	Row, Col int
}

// String returns a text representation of Pos.
func (pos Pos) String() string {
	return fmt.Sprintf("(%d, %d)", pos.Row, pos.Col)
}

// Direction of a line of cells.
type Direction uint8

const (
	Horizontal Direction = iota
	Vertical
	// Diagonal goes up and to the right.
	Diagonal
	// AntiDiagonal goes down and to the right.
	AntiDiagonal
	NumDirections
)

var directionNames = [NumDirections]string{"horizontal", "vertical", "diagonal", "anti-diagonal"}

func (d Direction) String() string {
	if d >= NumDirections {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// Step returns the (row, col) increments for the direction.
func (d Direction) Step() (dRow, dCol int) {
	switch d {
	case Horizontal:
		return 0, 1
	case Vertical:
		return 1, 0
	case Diagonal:
		return 1, 1
	case AntiDiagonal:
		return -1, 1
	}
	return 0, 0
}

// Window is a run of exactly ConnectN consecutive cells in one direction, fully inside
// the board. It is the unit of both win detection and heuristic scoring.
type Window struct {
	Direction Direction
	Cells     [ConnectN]Pos
}

// Contains returns whether the window includes the given position.
func (w Window) Contains(pos Pos) bool {
	for _, cell := range w.Cells {
		if cell == pos {
			return true
		}
	}
	return false
}

func (w Window) String() string {
	return fmt.Sprintf("%s%v", w.Direction, w.Cells)
}

// Windows lists every window of the board: 24 horizontal, 21 vertical and 12 for each of
// the diagonal directions.
var Windows = buildWindows()

// buildWindows enumerates, for every direction and every anchor cell, the windows that fit
// inside the board. No symmetry is exploited, so no line can be missed.
func buildWindows() []Window {
	var windows []Window
	for dir := range NumDirections {
		dRow, dCol := dir.Step()
		for row := range Rows {
			for col := range Columns {
				lastRow, lastCol := row+dRow*(ConnectN-1), col+dCol*(ConnectN-1)
				if !InBoard(lastRow, lastCol) {
					continue
				}
				w := Window{Direction: dir}
				for ii := range ConnectN {
					w.Cells[ii] = Pos{Row: row + ii*dRow, Col: col + ii*dCol}
				}
				windows = append(windows, w)
			}
		}
	}
	return windows
}
