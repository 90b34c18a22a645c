package alphabeta_test

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/janpfeifer/connect4Go/internal/ai"
	"github.com/janpfeifer/connect4Go/internal/ai/heuristic"
	"github.com/janpfeifer/connect4Go/internal/searchers"
	"github.com/janpfeifer/connect4Go/internal/searchers/alphabeta"
	. "github.com/janpfeifer/connect4Go/internal/state"
	. "github.com/janpfeifer/connect4Go/internal/state/statetest"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

// hashScorer gives each (board, player) a pseudo-random but deterministic score, to exercise
// the search with few ties.
var hashScorer = ai.ValueScorerFunc{
	Name: "hash",
	Fn: func(board Board, player Player) float64 {
		h := fnv.New64a()
		_, _ = h.Write([]byte(board.String() + player.String()))
		return float64(h.Sum64()%10_000) - 5_000
	},
}

// constantScorer makes every position look the same.
var constantScorer = ai.ValueScorerFunc{
	Name: "constant",
	Fn:   func(Board, Player) float64 { return 0 },
}

// minimax is the plain minimax search, without pruning, used as reference.
func minimax(scorer ai.ValueScorer, board Board, depth int, maximizing bool, player Player) float64 {
	if depth == 0 || board.IsTerminal() {
		return scorer.BoardScore(board, player)
	}
	mover := player
	best := math.Inf(-1)
	if !maximizing {
		mover = player.Opponent()
		best = math.Inf(1)
	}
	for _, column := range board.LegalMoves() {
		score := minimax(scorer, must.M1(board.Apply(column, mover)), depth-1, !maximizing, player)
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	for _, scorer := range []ai.ValueScorer{heuristic.Scorer{}, hashScorer} {
		searcher := alphabeta.New(scorer)
		for boardIdx := range 12 {
			board, next := RandomBoard(rng, rng.IntN(24))
			for depth := 1; depth <= 4; depth++ {
				for _, maximizing := range []bool{true, false} {
					player := next
					if !maximizing {
						player = next.Opponent()
					}
					want := minimax(scorer, board, depth, maximizing, player)
					got := searcher.AlphaBeta(board, depth, math.Inf(-1), math.Inf(1), maximizing, player)
					require.Equalf(t, want, got.Score,
						"scorer=%s, board #%d, depth=%d, maximizing=%v:\n%s", scorer, boardIdx, depth, maximizing, board)
					if !board.IsTerminal() {
						assert.True(t, board.IsLegal(got.Column))
					}
				}
			}
		}
	}
}

func TestAlphaBetaBaseCase(t *testing.T) {
	searcher := alphabeta.New(nil)
	board := BuildBoard([]Piece{{Row: 0, Col: 3, Player: PlayerA}, {Row: 1, Col: 3, Player: PlayerB}, {Row: 0, Col: 2, Player: PlayerB}})

	// At depth 0 the score is always from the searching player's perspective, even at a
	// minimizing node.
	for _, maximizing := range []bool{true, false} {
		result := searcher.AlphaBeta(board, 0, math.Inf(-1), math.Inf(1), maximizing, PlayerB)
		assert.Equal(t, heuristic.Evaluate(board, PlayerB), result.Score)
		assert.Equal(t, NoColumn, result.Column)
	}

	// Terminal boards are not expanded.
	won := MustParse(`
		.......
		.......
		.......
		.......
		.......
		AAAA...`)
	result := searcher.AlphaBeta(won, 3, math.Inf(-1), math.Inf(1), true, PlayerB)
	assert.Equal(t, heuristic.Evaluate(won, PlayerB), result.Score)
	assert.Equal(t, NoColumn, result.Column)
}

func TestPruning(t *testing.T) {
	searcher := alphabeta.New(nil).WithMaxDepth(4)
	decision, stats := searcher.SearchWithStats(NewBoard(), PlayerB)
	require.True(t, decision.Ok())
	fullTree := 7 + 7*7 + 7*7*7 + 7*7*7*7
	assert.Greater(t, stats.Prunes, 0)
	assert.Less(t, stats.Nodes, fullTree)
	assert.Greater(t, stats.Evals, 0)
}

func TestImmediateWin(t *testing.T) {
	board := MustParse(`
		.......
		.......
		.......
		.......
		AA.....
		BBB....`)
	for depth := 1; depth <= 6; depth++ {
		decision := must.M1(alphabeta.New(nil).WithMaxDepth(depth).Search(board, PlayerB))
		assert.Equal(t, 3, decision.Column, "depth=%d", depth)
		assert.Equal(t, searchers.ReasonWin, decision.Reason)
		assert.Empty(t, decision.Ranked)
	}

	// Winning has priority over blocking.
	board = MustParse(`
		.......
		.......
		.......
		......A
		......A
		BBB...A`)
	decision := must.M1(alphabeta.New(nil).Search(board, PlayerB))
	assert.Equal(t, 3, decision.Column)
	assert.Equal(t, searchers.ReasonWin, decision.Reason)
}

func TestBlock(t *testing.T) {
	board := MustParse(`
		.......
		.......
		.......
		.......
		BB.....
		AAA....`)
	for depth := 1; depth <= 6; depth++ {
		decision := must.M1(alphabeta.New(nil).WithMaxDepth(depth).Search(board, PlayerB))
		assert.Equal(t, 3, decision.Column, "depth=%d", depth)
		assert.Equal(t, searchers.ReasonBlock, decision.Reason)
	}

	// Same position, seen by A: it wins.
	decision := must.M1(alphabeta.New(nil).Search(board, PlayerA))
	assert.Equal(t, 3, decision.Column)
	assert.Equal(t, searchers.ReasonWin, decision.Reason)
}

func TestEmptyBoardDepth1(t *testing.T) {
	searcher := alphabeta.New(nil).WithMaxDepth(1)
	decision := must.M1(searcher.Search(NewBoard(), PlayerB))
	assert.Equal(t, 3, decision.Column)
	assert.Equal(t, searchers.ReasonSearch, decision.Reason)
	assert.Equal(t, heuristic.CenterWeight, decision.Score)

	// Center first, then all others tied at 0, in center order.
	want := []searchers.ColumnScore{{Column: 3, Score: 3}, {Column: 2, Score: 0}, {Column: 4, Score: 0}, {Column: 1, Score: 0}, {Column: 5, Score: 0}, {Column: 0, Score: 0}, {Column: 6, Score: 0}}
	assert.Equal(t, want, decision.Ranked)
}

func TestTieBreak(t *testing.T) {
	searcher := alphabeta.New(constantScorer).WithMaxDepth(3)
	decision := must.M1(searcher.Search(NewBoard(), PlayerA))
	assert.Equal(t, 3, decision.Column)

	// With the center column full, 2 and 4 are equally close: the lower one is taken.
	board := MustParse(`
		...B...
		...A...
		...B...
		...A...
		...B...
		...A...`)
	decision = must.M1(searcher.Search(board, PlayerA))
	assert.Equal(t, 2, decision.Column)
	assert.Equal(t, []searchers.ColumnScore{{Column: 2, Score: 0}, {Column: 4, Score: 0}, {Column: 1, Score: 0}, {Column: 5, Score: 0}, {Column: 0, Score: 0}, {Column: 6, Score: 0}}, decision.Ranked)
}

func TestRanked(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	searcher := alphabeta.New(nil).WithMaxDepth(3)
	for range 20 {
		board, next := RandomBoard(rng, rng.IntN(20))
		decision := must.M1(searcher.Search(board, next))
		if len(board.LegalMoves()) == 0 {
			assert.False(t, decision.Ok())
			continue
		}
		require.True(t, decision.Ok())
		require.True(t, board.IsLegal(decision.Column))
		if decision.Reason != searchers.ReasonSearch {
			continue
		}
		require.Len(t, decision.Ranked, len(board.LegalMoves()))
		for ii := 1; ii < len(decision.Ranked); ii++ {
			assert.GreaterOrEqual(t, decision.Ranked[ii-1].Score, decision.Ranked[ii].Score)
		}
		assert.Equal(t, decision.Column, decision.Ranked[0].Column)
		assert.Equal(t, decision.Score, decision.Ranked[0].Score)
	}
}

func TestNoMoves(t *testing.T) {
	board := MustParse(`
		ABABABA
		ABABABA
		BABABAB
		BABABAB
		ABABABA
		ABABABA`)
	decision, err := alphabeta.New(nil).Search(board, PlayerA)
	require.NoError(t, err)
	assert.False(t, decision.Ok())
	assert.Equal(t, NoColumn, decision.Column)
	assert.Equal(t, searchers.ReasonNoMoves, decision.Reason)
}

func TestConcurrentSearch(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))
	searcher := alphabeta.New(nil).WithMaxDepth(3)
	const numBoards = 16
	boards := make([]Board, numBoards)
	players := make([]Player, numBoards)
	want := make([]searchers.Decision, numBoards)
	for ii := range numBoards {
		boards[ii], players[ii] = RandomBoard(rng, 6+rng.IntN(10))
		want[ii] = must.M1(searcher.Search(boards[ii], players[ii]))
	}

	got := make([]searchers.Decision, numBoards)
	var wg sync.WaitGroup
	for ii := range numBoards {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[ii] = must.M1(searcher.Search(boards[ii], players[ii]))
		}()
	}
	wg.Wait()
	assert.Equal(t, want, got)
}

func TestWithMaxDepth(t *testing.T) {
	assert.Equal(t, alphabeta.DefaultMaxDepth, alphabeta.New(nil).MaxDepth())
	assert.Equal(t, 1, alphabeta.New(nil).WithMaxDepth(0).MaxDepth())
	assert.Equal(t, 7, alphabeta.New(nil).WithMaxDepth(7).MaxDepth())
	assert.Equal(t, "alpha-beta(heuristic)", alphabeta.New(nil).String())
}
