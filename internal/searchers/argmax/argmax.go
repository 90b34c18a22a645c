// Package argmax implements a searcher that doesn't search: it plays the column preferred
// by an ai.ActionScorer, typically a learned model.
package argmax

import (
	"github.com/janpfeifer/connect4Go/internal/ai"
	"github.com/janpfeifer/connect4Go/internal/searchers"
	"github.com/janpfeifer/connect4Go/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Searcher selects the legal column with the highest score given by the ActionScorer.
// Among equal scores the lowest column is taken.
type Searcher struct {
	scorer ai.ActionScorer
}

// Assert that Searcher implements searchers.Searcher.
var _ searchers.Searcher = (*Searcher)(nil)

// New returns a Searcher that plays the best column according to scorer.
func New(scorer ai.ActionScorer) *Searcher {
	return &Searcher{scorer: scorer}
}

// String returns the searcher description.
func (s *Searcher) String() string {
	return "argmax(" + s.scorer.String() + ")"
}

// Search implements searchers.Searcher.
func (s *Searcher) Search(board state.Board, player state.Player) (searchers.Decision, error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return searchers.NoMoves, nil
	}
	scores, err := s.scorer.ActionScores(board, player)
	if err != nil {
		return searchers.NoMoves, errors.WithMessagef(err, "%s failed to score moves", s)
	}
	if len(scores) != state.Columns {
		return searchers.NoMoves, errors.Errorf("%s returned %d scores, expected one per column (%d)",
			s, len(scores), state.Columns)
	}

	decision := searchers.Decision{
		Column: moves[0],
		Score:  float64(scores[moves[0]]),
		Reason: searchers.ReasonModel,
		Ranked: make([]searchers.ColumnScore, 0, len(moves)),
	}
	for _, column := range moves {
		score := float64(scores[column])
		decision.Ranked = append(decision.Ranked, searchers.ColumnScore{Column: column, Score: score})
		if score > decision.Score {
			decision.Column, decision.Score = column, score
		}
	}
	searchers.SortRanked(decision.Ranked)
	klog.V(2).Infof("%s for player %s: %s, ranked=%v", s, player, decision, decision.Ranked)
	return decision, nil
}
