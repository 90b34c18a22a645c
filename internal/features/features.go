// Package features implements the action features: a fixed size description of the
// consequences of dropping a piece in a column, used by the learned models to score moves.
//
// Each feature is described by an ActionSpec, and they are concatenated in ActionSpecs order
// into a vector of ActionFeaturesDim values.
package features

import (
	"fmt"
	"strings"

	. "github.com/janpfeifer/connect4Go/internal/state"
	"k8s.io/klog/v2"
)

// ActionId represent an enum of action features.
type ActionId uint8

// FeatureSetter is the signature of a feature setter. f is the slice where to store the
// results, at def.VecIndex.
type FeatureSetter func(a *action, def *ActionSpec, f []float32)

const (
	// IdWins is 1 if the move wins the match immediately.
	IdWins ActionId = iota

	// IdBlocks is 1 if the opponent would win by playing in the same column.
	IdBlocks

	// IdOwnThrees is the number of open threes of the player after the move: windows with 3
	// of the player's pieces and one empty cell.
	IdOwnThrees
	IdOpponentThrees

	// IdOwnTwos is the number of windows with 2 of the player's pieces and 2 empty cells,
	// after the move.
	IdOwnTwos
	IdOpponentTwos

	// IdCenterDistance is the distance of the column to the center column, normalized to [0, 1].
	IdCenterDistance

	// IdHeight is the row where the piece lands, normalized to [0, 1].
	IdHeight

	// IdGivesOpponentWin is 1 if after the move the opponent can win by playing on top of it.
	IdGivesOpponentWin

	// IdNumFeatureIds defined -- this must always be the last enum.
	IdNumFeatureIds
)

// ActionSpec includes the action feature name, dimension and index in the concatenation of features.
type ActionSpec struct {
	Id   ActionId
	Name string
	Dim  int

	// VecIndex refers to the index in the concatenated feature vector.
	VecIndex int
	Setter   FeatureSetter
}

var (
	// ActionSpecs enumerates in order the features extracted by ForAction.
	// The VecIndex attribute is properly set during the package initialization.
	// The "Opp" prefix refers to the opponent version of the feature.
	ActionSpecs = [IdNumFeatureIds]ActionSpec{
		{IdWins, "Wins", 1, 0, fWins},
		{IdBlocks, "Blocks", 1, 0, fBlocks},
		{IdOwnThrees, "OwnThrees", 1, 0, fWindowCount},
		{IdOpponentThrees, "OppThrees", 1, 0, fWindowCount},
		{IdOwnTwos, "OwnTwos", 1, 0, fWindowCount},
		{IdOpponentTwos, "OppTwos", 1, 0, fWindowCount},
		{IdCenterDistance, "CenterDistance", 1, 0, fCenterDistance},
		{IdHeight, "Height", 1, 0, fHeight},
		{IdGivesOpponentWin, "GivesOpponentWin", 1, 0, fGivesOpponentWin},
	}

	// ActionFeaturesDim is the dimension of all action features concatenated, set during package
	// initialization.
	ActionFeaturesDim int
)

func init() {
	// Updates the indices of ActionSpecs, and sets ActionFeaturesDim.
	ActionFeaturesDim = 0
	for ii := range ActionSpecs {
		if ActionSpecs[ii].Id != ActionId(ii) {
			klog.Fatalf("features.ActionSpecs index %d for %s doesn't match constant.",
				ii, ActionSpecs[ii].Name)
		}
		ActionSpecs[ii].VecIndex = ActionFeaturesDim
		ActionFeaturesDim += ActionSpecs[ii].Dim
	}
}

// action holds what the setters need to know about the move being described.
type action struct {
	board, after   Board
	player, opp    Player
	column, row    int
	ownCounts      windowCounts
	opponentCounts windowCounts
}

// windowCounts of the "open" windows: with no pieces of the other player.
type windowCounts struct {
	threes, twos int
}

func countOpenWindows(board Board, player Player) (counts windowCounts) {
	for _, w := range Windows {
		own, opp, _ := board.WindowCounts(w, player)
		if opp != 0 {
			continue
		}
		switch own {
		case 3:
			counts.threes++
		case 2:
			counts.twos++
		}
	}
	return
}

// ForAction returns the feature vector, of length ActionFeaturesDim, describing player
// dropping a piece in column. It returns nil if the column is not a legal move.
func ForAction(board Board, player Player, column int) []float32 {
	after, err := board.Apply(column, player)
	if err != nil {
		return nil
	}
	row := board.Height(column)
	a := &action{
		board:  board,
		after:  after,
		player: player,
		opp:    player.Opponent(),
		column: column,
		row:    row,
	}
	a.ownCounts = countOpenWindows(after, a.player)
	a.opponentCounts = countOpenWindows(after, a.opp)

	f := make([]float32, ActionFeaturesDim)
	for ii := range ActionSpecs {
		def := &ActionSpecs[ii]
		def.Setter(a, def, f)
	}
	return f
}

// PrettyPrint returns a multi-line description of the features in f.
func PrettyPrint(f []float32) string {
	var sb strings.Builder
	for ii := range ActionSpecs {
		def := &ActionSpecs[ii]
		if def.Dim == 1 {
			_, _ = fmt.Fprintf(&sb, "\t%s: %.2f\n", def.Name, f[def.VecIndex])
		} else {
			_, _ = fmt.Fprintf(&sb, "\t%s: %v\n", def.Name, f[def.VecIndex:def.VecIndex+def.Dim])
		}
	}
	return sb.String()
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

func fWins(a *action, def *ActionSpec, f []float32) {
	f[def.VecIndex] = boolToFloat(a.after.HasWin(a.player))
}

func fBlocks(a *action, def *ActionSpec, f []float32) {
	oppMove, err := a.board.Apply(a.column, a.opp)
	f[def.VecIndex] = boolToFloat(err == nil && oppMove.HasWin(a.opp))
}

func fWindowCount(a *action, def *ActionSpec, f []float32) {
	var value int
	switch def.Id {
	case IdOwnThrees:
		value = a.ownCounts.threes
	case IdOpponentThrees:
		value = a.opponentCounts.threes
	case IdOwnTwos:
		value = a.ownCounts.twos
	case IdOpponentTwos:
		value = a.opponentCounts.twos
	default:
		klog.Fatalf("fWindowCount used for unknown feature %s", def.Name)
	}
	f[def.VecIndex] = float32(value)
}

func fCenterDistance(a *action, def *ActionSpec, f []float32) {
	f[def.VecIndex] = float32(CenterDistance(a.column)) / float32(CenterColumn)
}

func fHeight(a *action, def *ActionSpec, f []float32) {
	f[def.VecIndex] = float32(a.row) / float32(Rows-1)
}

func fGivesOpponentWin(a *action, def *ActionSpec, f []float32) {
	if a.after.HasWin(a.player) {
		// Match is over, the opponent doesn't get to play.
		return
	}
	top, err := a.after.Apply(a.column, a.opp)
	f[def.VecIndex] = boolToFloat(err == nil && top.HasWin(a.opp))
}
