package state_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	. "github.com/janpfeifer/connect4Go/internal/state"
	. "github.com/janpfeifer/connect4Go/internal/state/statetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ = fmt.Printf

// drawBoard is a full board where no one has 4 aligned.
const drawBoard = `
ABABABA
ABABABA
BABABAB
BABABAB
ABABABA
ABABABA`

func TestWindows(t *testing.T) {
	require.Len(t, Windows, 69)
	perDirection := make(map[Direction]int)
	for _, w := range Windows {
		perDirection[w.Direction]++
		dRow, dCol := w.Direction.Step()
		for ii, pos := range w.Cells {
			assert.True(t, InBoard(pos.Row, pos.Col), "window %s out of board", w)
			if ii > 0 {
				assert.Equal(t, Pos{w.Cells[ii-1].Row + dRow, w.Cells[ii-1].Col + dCol}, pos)
			}
		}
	}
	assert.Equal(t, map[Direction]int{Horizontal: 24, Vertical: 21, Diagonal: 12, AntiDiagonal: 12}, perDirection)
}

func TestHasWin(t *testing.T) {
	for _, test := range []struct {
		name      string
		board     string
		winner    Player
		direction Direction
	}{
		{"horizontal", `
			.......
			.......
			.......
			.......
			.......
			BAAAAB.`, PlayerA, Horizontal},
		{"vertical", `
			.......
			.......
			...B...
			...B...
			...B...
			A.AB.A.`, PlayerB, Vertical},
		{"diagonal", `
			.......
			.......
			...A...
			..AB...
			.ABB...
			ABAB...`, PlayerA, Diagonal},
		{"anti-diagonal", `
			.......
			.......
			B......
			AB.....
			AAB....
			BAAB...`, PlayerB, AntiDiagonal},
	} {
		t.Run(test.name, func(t *testing.T) {
			b := MustParse(test.board)
			assert.True(t, b.HasWin(test.winner))
			assert.False(t, b.HasWin(test.winner.Opponent()))
			assert.Equal(t, test.winner, b.Winner())
			assert.True(t, b.IsTerminal())
			w, found := b.WinningWindow(test.winner)
			require.True(t, found)
			assert.Equal(t, test.direction, w.Direction)
		})
	}

	t.Run("three with a gap", func(t *testing.T) {
		b := MustParse(`
			.......
			.......
			.......
			.......
			.......
			AAA.A..`)
		assert.False(t, b.HasWin(PlayerA))
		assert.False(t, b.IsTerminal())
		assert.Equal(t, Empty, b.Winner())
	})
}

// bruteForceWin checks for a win by walking runs from every cell, independently of Windows.
func bruteForceWin(b Board, player Player) bool {
	steps := [][2]int{{0, 1}, {1, 0}, {1, 1}, {-1, 1}}
	for row := range Rows {
		for col := range Columns {
			for _, step := range steps {
				count := 0
				for r, c := row, col; InBoard(r, c) && b.At(r, c) == player; r, c = r+step[0], c+step[1] {
					count++
				}
				if count >= ConnectN {
					return true
				}
			}
		}
	}
	return false
}

func TestHasWinMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	for range 2000 {
		// Random boards, without stopping at the first win, to also exercise multiple lines.
		var b Board
		next := PlayerA
		numMoves := rng.IntN(Rows*Columns + 1)
		for range numMoves {
			moves := b.LegalMoves()
			if len(moves) == 0 {
				break
			}
			var err error
			b, err = b.Apply(moves[rng.IntN(len(moves))], next)
			require.NoError(t, err)
			next = next.Opponent()
		}
		for _, player := range Players {
			require.Equalf(t, bruteForceWin(b, player), b.HasWin(player), "player %s on board:\n%s", player, b)
		}
	}
}

func TestApply(t *testing.T) {
	b := NewBoard()
	b1, err := b.Apply(3, PlayerA)
	require.NoError(t, err)
	b2, err := b1.Apply(3, PlayerB)
	require.NoError(t, err)

	// Boards are values: the originals are not changed.
	assert.Equal(t, 0, b.NumPieces())
	assert.Equal(t, 1, b1.NumPieces())
	assert.Equal(t, PlayerA, b2.At(0, 3))
	assert.Equal(t, PlayerB, b2.At(1, 3))
	assert.Equal(t, 2, b2.Height(3))

	// Fill up column 3.
	for ii := range Rows - 2 {
		b2, err = b2.Apply(3, Players[ii%2])
		require.NoError(t, err)
	}
	assert.False(t, b2.IsLegal(3))
	assert.NotContains(t, b2.LegalMoves(), 3)
	assert.Equal(t, []int{0, 1, 2, 4, 5, 6}, b2.LegalMoves())

	full, err := b2.Apply(3, PlayerA)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidMove))
	assert.Equal(t, b2, full)

	for _, column := range []int{-1, Columns} {
		_, err = b.Apply(column, PlayerA)
		assert.True(t, errors.Is(err, ErrInvalidMove), "column %d", column)
	}
	_, err = b.Apply(0, Empty)
	assert.True(t, errors.Is(err, ErrInvalidMove))
}

func TestGravity(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for range 500 {
		var b Board
		player := PlayerA
		for range 60 {
			// Also attempt illegal columns: they must fail and leave the board untouched.
			column := rng.IntN(Columns+2) - 1
			next, err := b.Apply(column, player)
			if err != nil {
				require.True(t, errors.Is(err, ErrInvalidMove))
				require.Equal(t, b, next)
				continue
			}
			require.Equal(t, b.NumPieces()+1, next.NumPieces())
			b = next
			player = player.Opponent()
			require.True(t, b.IsGravityConsistent(), "gravity broken:\n%s", b)
		}
	}
}

func TestFullBoard(t *testing.T) {
	b := MustParse(drawBoard)
	assert.True(t, b.IsFull())
	assert.Empty(t, b.LegalMoves())
	assert.Equal(t, Empty, b.Winner())
	assert.True(t, b.IsTerminal())

	assert.False(t, NewBoard().IsFull())
	assert.False(t, NewBoard().IsTerminal())
	assert.Len(t, NewBoard().LegalMoves(), Columns)
}

func TestParse(t *testing.T) {
	b := BuildBoard([]Piece{
		{Row: 0, Col: 3, Player: PlayerA},
		{Row: 1, Col: 3, Player: PlayerB},
		{Row: 0, Col: 0, Player: PlayerB},
	})
	text := b.String()
	assert.Equal(t, ".......\n.......\n.......\n.......\n...B...\nB..A...", text)
	parsed, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	// Alternative letters and spacing.
	parsed, err = Parse(`
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . . . . .
		. . . o . . .
		o . . x . . .`)
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	for _, bad := range []string{
		".......\n.......",
		".......\n.......\n.......\n.......\n.......\n........",
		".......\n.......\n.......\n.......\n.......\n...Z...",
		// Floating piece.
		".......\n.......\n.......\n.......\n...A...\n.......",
	} {
		_, err = Parse(bad)
		assert.Error(t, err, "board %q", bad)
	}
}

func TestPlayer(t *testing.T) {
	assert.Equal(t, PlayerB, PlayerA.Opponent())
	assert.Equal(t, PlayerA, PlayerB.Opponent())
	assert.Equal(t, Empty, Empty.Opponent())
	assert.False(t, Empty.IsValid())
	assert.Equal(t, "A", PlayerA.String())
	assert.Equal(t, 3, CenterDistance(0))
	assert.Equal(t, 0, CenterDistance(CenterColumn))
	assert.Equal(t, 3, CenterDistance(6))
}

func TestHeightOutOfRange(t *testing.T) {
	board := NewBoard()
	assert.Equal(t, 0, board.Height(0))
	assert.NotPanics(t, func() {
		assert.Equal(t, Rows, board.Height(-1))
		assert.Equal(t, Rows, board.Height(Columns))
	})
	assert.False(t, board.IsLegal(-1))
	assert.False(t, board.IsLegal(Columns))
}
