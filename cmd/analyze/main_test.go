package main

import (
	"context"
	"testing"

	"github.com/janpfeifer/connect4Go/internal/players"
	"github.com/janpfeifer/connect4Go/internal/searchers"
	"github.com/janpfeifer/connect4Go/internal/state"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boardsText = `
# Empty board.
.......
.......
.......
.......
.......
.......

# A can win in column 4.
.......
.......
.......
.......
BB.....
AAA...B

# B must block column 4.
.......
.......
.......
.......
B......
AAA.B..
`

func TestParseBoards(t *testing.T) {
	boards, err := ParseBoards(boardsText)
	require.NoError(t, err)
	require.Len(t, boards, 3)
	assert.Equal(t, 0, boards[0].NumPieces())
	assert.Equal(t, state.PlayerA, boards[1].At(0, 2))

	_, err = ParseBoards("AAA....\n\n")
	assert.ErrorContains(t, err, "board #1")
}

func TestNextPlayer(t *testing.T) {
	boards := must.M1(ParseBoards(boardsText))
	next, err := NextPlayer(boards[0], state.PlayerB)
	require.NoError(t, err)
	assert.Equal(t, state.PlayerB, next)

	next, err = NextPlayer(boards[2], state.PlayerA)
	require.NoError(t, err)
	assert.Equal(t, state.PlayerB, next)

	_, err = NextPlayer(boards[2], state.PlayerB)
	assert.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	boards := must.M1(ParseBoards(boardsText))
	var aiPlayers [2]players.Player
	for ii, player := range state.Players {
		aiPlayers[ii] = must.M1(players.New(player, "ab:max_depth=2"))
	}
	analyses, err := Analyze(context.Background(), boards, state.PlayerA, aiPlayers, 4)
	require.NoError(t, err)
	require.Len(t, analyses, 3)

	assert.Equal(t, state.PlayerA, analyses[0].Next)
	assert.Equal(t, 3, analyses[0].Decision.Column)
	assert.Equal(t, searchers.ReasonWin, analyses[1].Decision.Reason)
	assert.Equal(t, 3, analyses[1].Decision.Column)
	assert.Equal(t, state.PlayerB, analyses[2].Next)
	assert.Equal(t, searchers.ReasonBlock, analyses[2].Decision.Reason)
	assert.Equal(t, 3, analyses[2].Decision.Column)
}
