package searchers

import (
	"math/rand/v2"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/connect4Go/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Random is a Searcher that plays a uniformly random legal column.
type Random struct{}

// Assert Random is a Searcher.
var _ Searcher = Random{}

// Search implements the Searcher interface.
func (Random) Search(board state.Board, _ state.Player) (Decision, error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return NoMoves, nil
	}
	return Decision{Column: moves[rand.IntN(len(moves))], Reason: ReasonRandom}, nil
}

// WithRandomFallback wraps searcher so that it never fails: if it returns an error, panics,
// or returns a column that is not legal while there are legal moves, a
// uniformly random legal column is played instead, with ReasonFallback.
//
// This is meant for searchers backed by external models, that may malfunction: a failing
// AI should degrade to a weak move, not stop the match.
func WithRandomFallback(searcher Searcher) Searcher {
	if _, ok := searcher.(*fallbackSearcher); ok {
		return searcher
	}
	return &fallbackSearcher{searcher: searcher}
}

// fallbackSearcher is a meta Searcher, see WithRandomFallback.
type fallbackSearcher struct {
	searcher Searcher
}

// Search implements the Searcher interface.
func (fs *fallbackSearcher) Search(board state.Board, player state.Player) (decision Decision, err error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return NoMoves, nil
	}

	panicked := exceptions.TryCatch[any](func() {
		decision, err = fs.searcher.Search(board, player)
	})
	if panicked != nil {
		if panicErr, ok := panicked.(error); ok {
			err = errors.WithMessage(panicErr, "searcher panicked")
		} else {
			err = errors.Errorf("searcher panicked: %v", panicked)
		}
	}
	if err == nil && !slices.Contains(moves, decision.Column) {
		err = errors.Errorf("searcher chose column %d, which is not a legal move", decision.Column)
	}
	if err == nil {
		return decision, nil
	}

	klog.Warningf("Search failed, falling back to a random move: %+v", err)
	return Decision{Column: moves[rand.IntN(len(moves))], Reason: ReasonFallback}, nil
}
