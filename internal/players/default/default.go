// Package _default registers the default players that can be included in any
// front-end for connect4Go.
//
// Currently, it includes:
//
//   - "ab": minimax with alpha-beta pruning over the heuristic evaluation. Parameter
//     max_depth (int, default 4) sets the depth of search in plies.
//   - "linear": the move preferred by a linear model. Parameter model (string, default "v0")
//     is the name of an embedded model or the path to a model file.
//   - "random": random legal moves.
package _default

import (
	"fmt"

	"github.com/janpfeifer/connect4Go/internal/ai/linear"
	"github.com/janpfeifer/connect4Go/internal/parameters"
	"github.com/janpfeifer/connect4Go/internal/players"
	"github.com/janpfeifer/connect4Go/internal/searchers"
	"github.com/janpfeifer/connect4Go/internal/searchers/alphabeta"
	"github.com/janpfeifer/connect4Go/internal/searchers/argmax"
	"github.com/janpfeifer/connect4Go/internal/state"
	"github.com/pkg/errors"
)

func init() {
	players.RegisterModule("ab", &AlphaBeta{})
	players.RegisterModule("linear", &Linear{})
	players.RegisterModule("random", &Random{})
}

// AlphaBeta implements players.Module with the alpha-beta searcher.
type AlphaBeta struct{}

// Assert AlphaBeta implements Module.
var _ players.Module = (*AlphaBeta)(nil)

// NewPlayer implements players.Module.
func (*AlphaBeta) NewPlayer(player state.Player, params parameters.Params) (players.Player, error) {
	maxDepth, err := parameters.PopParamOr(params, "max_depth", alphabeta.DefaultMaxDepth)
	if err != nil {
		return nil, err
	}
	if maxDepth < 1 {
		return nil, errors.Errorf("max_depth must be at least 1, got %d", maxDepth)
	}
	searcher := alphabeta.New(nil).WithMaxDepth(maxDepth)
	return players.NewSearcherPlayer(searcher, player,
		fmt.Sprintf("minimax-d%d", maxDepth), fmt.Sprintf("%s, depth %d", searcher, maxDepth)), nil
}

// Linear implements players.Module with a linear model.
type Linear struct{}

// Assert Linear implements Module.
var _ players.Module = (*Linear)(nil)

// NewPlayer implements players.Module.
func (*Linear) NewPlayer(player state.Player, params parameters.Params) (players.Player, error) {
	model, err := linear.NewFromParams(params)
	if err != nil {
		return nil, err
	}
	searcher := argmax.New(model)
	return players.NewSearcherPlayer(searcher, player, "linear-"+model.ModelID(), searcher.String()), nil
}

// Random implements players.Module with a random player.
type Random struct{}

// Assert Random implements Module.
var _ players.Module = (*Random)(nil)

// NewPlayer implements players.Module.
func (*Random) NewPlayer(player state.Player, _ parameters.Params) (players.Player, error) {
	return players.NewSearcherPlayer(searchers.Random{}, player, "random", "random"), nil
}
