package state

import (
	"strings"

	"github.com/pkg/errors"
)

// String renders the board as text, top row first, one character per cell:
// "A", "B" or "." for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for row := Rows - 1; row >= 0; row-- {
		for col := range Columns {
			sb.WriteString(b.cells[row][col].String())
		}
		if row > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

var cellLetters = map[rune]Player{
	'.': Empty, '-': Empty, '_': Empty,
	'A': PlayerA, 'X': PlayerA,
	'B': PlayerB, 'O': PlayerB,
}

// Parse a board in the format produced by Board.String: Rows lines (top row first) of
// Columns cells each. Letters are case-insensitive, "X" is accepted for A and "O" for B,
// and spaces inside a line as well as blank lines around the board are ignored.
//
// It fails if the shape is wrong, or if any piece is floating over an empty cell.
func Parse(text string) (Board, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.ReplaceAll(strings.TrimSpace(line), " ", "")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) != Rows {
		return Board{}, errors.Errorf("board must have %d rows, got %d", Rows, len(lines))
	}
	var b Board
	for lineIdx, line := range lines {
		row := Rows - 1 - lineIdx
		runes := []rune(strings.ToUpper(line))
		if len(runes) != Columns {
			return Board{}, errors.Errorf("board row %d must have %d cells, got %q", lineIdx+1, Columns, line)
		}
		for col, r := range runes {
			player, ok := cellLetters[r]
			if !ok {
				return Board{}, errors.Errorf("invalid cell %q in board row %d", r, lineIdx+1)
			}
			b.cells[row][col] = player
		}
	}
	if !b.IsGravityConsistent() {
		return Board{}, errors.New("board has floating pieces: every column must be filled from the bottom")
	}
	return b, nil
}
