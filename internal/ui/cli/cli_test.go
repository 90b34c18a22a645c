package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/janpfeifer/connect4Go/internal/match"
	"github.com/janpfeifer/connect4Go/internal/searchers"
	"github.com/janpfeifer/connect4Go/internal/state"
	"github.com/janpfeifer/connect4Go/internal/state/statetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUI(input string) (*UI, *bytes.Buffer) {
	var out bytes.Buffer
	return NewWithIO(strings.NewReader(input), &out, false), &out
}

func TestRenderBoard(t *testing.T) {
	ui, _ := newTestUI("")
	board := statetest.BuildBoard([]statetest.Piece{{Row: 0, Col: 3, Player: state.PlayerA}, {Row: 1, Col: 3, Player: state.PlayerB}})
	got := ui.RenderBoard(board, state.Pos{Row: 1, Col: 3})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, state.Rows+2)
	assert.Equal(t, "| .  .  .  .  .  .  . |", lines[0])
	assert.Equal(t, "| .  .  . [B] .  .  . |", lines[4])
	assert.Equal(t, "| .  .  .  A  .  .  . |", lines[5])
	assert.Equal(t, "  1  2  3  4  5  6  7  ", lines[7])
}

func TestReadColumn(t *testing.T) {
	board := statetest.MustParse(`
		A......
		B......
		A......
		B......
		A......
		B......`)

	ui, out := newTestUI("x\n1\n4\n")
	column, err := ui.ReadColumn(board, state.PlayerA)
	require.NoError(t, err)
	assert.Equal(t, 3, column)
	assert.Contains(t, out.String(), "not a column")
	assert.Contains(t, out.String(), "Column 1 is full")

	ui, _ = newTestUI(" Q \n")
	_, err = ui.ReadColumn(board, state.PlayerA)
	assert.True(t, errors.Is(err, ErrQuit))

	ui, _ = newTestUI("0\n8\nabc\n4\n")
	_, err = ui.ReadColumn(board, state.PlayerA)
	assert.True(t, errors.Is(err, ErrTooManyInputErrors))

	ui, _ = newTestUI("")
	_, err = ui.ReadColumn(board, state.PlayerA)
	assert.Error(t, err)

	// Last line without a new line is still read.
	ui, _ = newTestUI("7")
	column, err = ui.ReadColumn(board, state.PlayerB)
	require.NoError(t, err)
	assert.Equal(t, 6, column)
}

func TestPrintDecision(t *testing.T) {
	ui, out := newTestUI("")
	decision := searchers.Decision{
		Column: 3, Score: 3, Reason: searchers.ReasonSearch,
		Ranked: []searchers.ColumnScore{{Column: 3, Score: 3}, {Column: 2, Score: 0}, {Column: 4, Score: -1e6}},
	}
	ui.PrintDecision("B", decision, true)
	got := out.String()
	assert.Contains(t, got, "B plays column 4 (search)")
	assert.Contains(t, got, "Column")
	assert.Contains(t, got, "3.00")
	assert.Contains(t, got, "-1e+06")

	out.Reset()
	ui.PrintDecision("B", decision, false)
	assert.NotContains(t, out.String(), "Column")

	out.Reset()
	ui.PrintDecision("A", searchers.NoMoves, true)
	assert.Contains(t, out.String(), "no legal moves")
}

func TestPrintMatch(t *testing.T) {
	ui, out := newTestUI("")
	m, err := match.New(state.PlayerA)
	require.NoError(t, err)
	ui.PrintMatch(m)
	assert.Contains(t, out.String(), "Move #0")
	assert.Contains(t, out.String(), "Turn to play: A")

	for _, column := range []int{0, 6, 1, 6, 2, 6, 3} {
		m, err = m.Play(column)
		require.NoError(t, err)
	}
	out.Reset()
	ui.PrintMatch(m)
	assert.Contains(t, out.String(), "|[A][A][A][A] .  .  B |", "winning window is highlighted")
	assert.Contains(t, out.String(), "PLAYER A WINS")
	assert.NotContains(t, out.String(), "Turn to play")
}
