package alphabeta

import (
	"math"
	"time"

	"github.com/janpfeifer/connect4Go/internal/ai"
	"github.com/janpfeifer/connect4Go/internal/ai/heuristic"
	"github.com/janpfeifer/connect4Go/internal/searchers"
	"github.com/janpfeifer/connect4Go/internal/state"
	"k8s.io/klog/v2"
)

// Searcher implements the searchers.Searcher interface with a depth-limited minimax search
// with alpha-beta pruning, preceded by greedy checks for immediate wins and blocks.
//
// It is configured at creation (see New and the With... methods) and holds no search state,
// so it can be used concurrently.
type Searcher struct {
	maxDepth int
	scorer   ai.ValueScorer
}

// Assert that Searcher implements searchers.Searcher.
var _ searchers.Searcher = (*Searcher)(nil)

// DefaultMaxDepth for search, in plies.
const DefaultMaxDepth = 4

// New returns an alpha-beta pruning searcher that scores positions with scorer.
// If scorer is nil, heuristic.Scorer is used.
//
// See: wikipedia.org/wiki/Alpha-beta_pruning
func New(scorer ai.ValueScorer) *Searcher {
	if scorer == nil {
		scorer = heuristic.Scorer{}
	}
	return &Searcher{
		scorer:   scorer,
		maxDepth: DefaultMaxDepth,
	}
}

// WithMaxDepth sets the depth of search: the unit here are plies (ply singular). Each player
// playing counts as one ply. See https://en.wikipedia.org/wiki/Ply_(game_theory).
//
// Values smaller than 1 are taken as 1: it scores the boards right after each of the moves.
// The default is 4 (DefaultMaxDepth).
func (ab *Searcher) WithMaxDepth(maxDepth int) *Searcher {
	ab.maxDepth = max(maxDepth, 1)
	return ab
}

// MaxDepth returns the configured depth of search.
func (ab *Searcher) MaxDepth() int {
	return ab.maxDepth
}

// String returns the searcher description.
func (ab *Searcher) String() string {
	return "alpha-beta(" + ab.scorer.String() + ")"
}

// Stats stores running stats collected during one search: for benchmarking, monitoring
// and debugging purposes.
type Stats struct {
	// Nodes visited: boards created by simulating a move.
	Nodes int

	// Evals is the number of boards passed to the scorer.
	Evals int

	// Prunes is the number of times a node stopped iterating over its moves early.
	Prunes int
}

// Result of one AlphaBeta call: Column is only meaningful at the top of the search, and it is
// state.NoColumn at leaves.
type Result struct {
	Score  float64
	Column int
}

// run holds the state of one search, so the Searcher itself stays immutable.
type run struct {
	scorer ai.ValueScorer
	player state.Player
	stats  Stats
}

// Search implements searchers.Searcher.
func (ab *Searcher) Search(board state.Board, player state.Player) (searchers.Decision, error) {
	decision, _ := ab.SearchWithStats(board, player)
	return decision, nil
}

// SearchWithStats is like Search, but also returns statistics of the search.
//
// Immediate wins for player are taken, and otherwise immediate wins of the opponent are
// blocked, without searching. If neither exist, each legal move is searched to the
// configured depth, and the best scoring one is chosen, the closest to the center on ties.
func (ab *Searcher) SearchWithStats(board state.Board, player state.Player) (decision searchers.Decision, stats Stats) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return searchers.NoMoves, stats
	}

	// Greedy checks: win, or block the opponent's win.
	if column := findWinningMove(board, moves, player); column != state.NoColumn {
		klog.V(1).Infof("Player %s found immediate win in column %d", player, column)
		return searchers.Decision{Column: column, Reason: searchers.ReasonWin}, stats
	}
	if column := findWinningMove(board, moves, player.Opponent()); column != state.NoColumn {
		klog.V(1).Infof("Player %s must block opponent's winning move in column %d", player, column)
		return searchers.Decision{Column: column, Reason: searchers.ReasonBlock}, stats
	}

	start := time.Now()
	r := &run{scorer: ab.scorer, player: player}
	ordered := searchers.CenterOrder(moves)
	decision = searchers.Decision{
		Column: ordered[0],
		Score:  math.Inf(-1),
		Reason: searchers.ReasonSearch,
		Ranked: make([]searchers.ColumnScore, 0, len(ordered)),
	}
	for _, column := range ordered {
		next, err := board.Apply(column, player)
		if err != nil {
			continue
		}
		r.stats.Nodes++
		result := r.recursion(next, ab.maxDepth-1, math.Inf(-1), math.Inf(1), false)
		decision.Ranked = append(decision.Ranked, searchers.ColumnScore{Column: column, Score: result.Score})
		if result.Score > decision.Score {
			decision.Score = result.Score
			decision.Column = column
		}
	}
	searchers.SortRanked(decision.Ranked)

	if klog.V(2).Enabled() {
		elapsed := time.Since(start).Seconds()
		klog.Infof("Alpha-beta search (depth %d) for player %s: %s", ab.maxDepth, player, decision)
		klog.Infof("  ranked=%v", decision.Ranked)
		klog.Infof("  stats=%+v, nodes/s=%.1f, evals/s=%.1f", r.stats,
			float64(r.stats.Nodes)/elapsed, float64(r.stats.Evals)/elapsed)
	}
	return decision, r.stats
}

// AlphaBeta runs the depth-limited minimax search with alpha-beta pruning on board, scoring
// positions always from the perspective of player, regardless of who is to move.
// If maximizing, player is the one to move, otherwise it's the opponent.
//
// The returned Column is the best move found at the top of this call, or state.NoColumn if
// board is terminal or depth is 0.
func (ab *Searcher) AlphaBeta(board state.Board, depth int, alpha, beta float64, maximizing bool,
	player state.Player) Result {
	r := &run{scorer: ab.scorer, player: player}
	return r.recursion(board, depth, alpha, beta, maximizing)
}

// recursion of the alpha-beta pruning algorithm, with depth plies to go.
func (r *run) recursion(board state.Board, depth int, alpha, beta float64, maximizing bool) Result {
	if depth <= 0 || board.IsTerminal() {
		r.stats.Evals++
		return Result{Score: r.scorer.BoardScore(board, r.player), Column: state.NoColumn}
	}

	// Exploring the central columns first finds good bounds sooner, and prunes more.
	moves := searchers.CenterOrder(board.LegalMoves())
	best := Result{Column: moves[0]}
	mover := r.player
	if maximizing {
		best.Score = math.Inf(-1)
	} else {
		best.Score = math.Inf(1)
		mover = r.player.Opponent()
	}

	for _, column := range moves {
		next, err := board.Apply(column, mover)
		if err != nil {
			continue
		}
		r.stats.Nodes++
		score := r.recursion(next, depth-1, alpha, beta, !maximizing).Score
		if maximizing {
			if score > best.Score {
				best.Score, best.Column = score, column
			}
			alpha = max(alpha, best.Score)
			if alpha >= beta {
				r.stats.Prunes++
				break
			}
		} else {
			if score < best.Score {
				best.Score, best.Column = score, column
			}
			beta = min(beta, best.Score)
			if beta <= alpha {
				r.stats.Prunes++
				break
			}
		}
	}
	return best
}

// findWinningMove returns the first of the moves (in the given order) with which player
// wins immediately, or state.NoColumn.
func findWinningMove(board state.Board, moves []int, player state.Player) int {
	for _, column := range moves {
		next, err := board.Apply(column, player)
		if err == nil && next.HasWin(player) {
			return column
		}
	}
	return state.NoColumn
}
