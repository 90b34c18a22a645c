// Package linear implements a pure Go linear model over the action features: it scores each
// column (action) with tanh(w·x+b), where x are the features.ForAction of the move.
//
// Models can be embedded (see PreTrainedV0) or read from a text file, with one weight per
// line and the bias last.
package linear

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/chewxy/math32"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/connect4Go/internal/ai"
	"github.com/janpfeifer/connect4Go/internal/features"
	"github.com/janpfeifer/connect4Go/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Scorer is a linear model (one weight per feature + bias) on the action features.
// It implements ai.ActionScorer.
type Scorer struct {
	name    string
	weights []float32

	// FileName where to save/load the model from.
	FileName string
	muSave   sync.Mutex
}

// NewWithWeights creates a new Scorer with the given weights, the last one being the bias.
// Ownership of the weights is transferred.
func NewWithWeights(weights ...float32) *Scorer {
	return &Scorer{weights: weights}
}

var (
	// Assert Scorer is an ai.ActionScorer.
	_ ai.ActionScorer = (*Scorer)(nil)
)

// WithName sets the name of the model, and returns itself for chaining calls.
func (s *Scorer) WithName(name string) *Scorer {
	s.name = name
	return s
}

// Clone returns a copy of the model, not associated with any file.
func (s *Scorer) Clone() *Scorer {
	return NewWithWeights(slices.Clone(s.weights)...).WithName(s.name)
}

// String returns the name of the model.
func (s *Scorer) String() string {
	if s.name == "" {
		return "linear"
	}
	return s.name
}

// Version of the features this model operates: the convention is that the version is the same as the number of features.
func (s *Scorer) Version() int {
	return len(s.weights) - 1
}

// Weights returns a copy of the model weights, bias last.
func (s *Scorer) Weights() []float32 {
	return slices.Clone(s.weights)
}

func (s *Scorer) logitScore(features []float32) float32 {
	// Dot product of weights and features.
	if len(s.weights)-1 != len(features) {
		exceptions.Panicf("linear model %q: features dimension is %d, but weights dimension is %d (+1 bias)",
			s, len(features), len(s.weights)-1)
	}

	// Sum start with bias.
	sum := s.weights[len(s.weights)-1]
	for ii, feature := range features {
		sum += feature * s.weights[ii]
	}
	return sum
}

// ScoreFeatures returns the model score, squashed to (-1, 1), for the given raw features.
func (s *Scorer) ScoreFeatures(rawFeatures []float32) float32 {
	return ai.SquashScore(s.logitScore(rawFeatures))
}

// IllegalActionScore is the value returned by ActionScores for columns that are full.
var IllegalActionScore = math32.Inf(-1)

// ActionScores implements ai.ActionScorer.
// It panics if the model doesn't have one weight per action feature (plus bias).
func (s *Scorer) ActionScores(board state.Board, player state.Player) ([]float32, error) {
	if !player.IsValid() {
		return nil, errors.Errorf("linear model %q can't score moves for player %s", s, player)
	}
	scores := make([]float32, state.Columns)
	for column := range state.Columns {
		f := features.ForAction(board, player, column)
		if f == nil {
			scores[column] = IllegalActionScore
			continue
		}
		scores[column] = s.ScoreFeatures(f)
	}
	if klog.V(3).Enabled() {
		klog.Infof("Linear model %q, player %s: action scores %v", s, player, scores)
	}
	return scores, nil
}

// AsText outputs the model in the format read by Load: one weight per line, each group
// preceded by a comment with the feature name.
func (s *Scorer) AsText() string {
	if len(s.weights) != features.ActionFeaturesDim+1 {
		parts := make([]string, len(s.weights))
		for ii, value := range s.weights {
			parts[ii] = strconv.FormatFloat(float64(value), 'g', -1, 32)
		}
		return strings.Join(parts, "\n") + "\n"
	}
	var sb strings.Builder
	for _, fDef := range features.ActionSpecs {
		_, _ = fmt.Fprintf(&sb, "# %s -> %d\n", fDef.Name, fDef.Dim)
		for _, value := range s.weights[fDef.VecIndex : fDef.VecIndex+fDef.Dim] {
			_, _ = fmt.Fprintf(&sb, "%g\n", value)
		}
	}
	_, _ = fmt.Fprintf(&sb, "# Bias -> 1\n%g\n", s.weights[len(s.weights)-1])
	return sb.String()
}

// Save model to s.FileName. An existing file is first renamed with a "~" suffix.
func (s *Scorer) Save() error {
	s.muSave.Lock()
	defer s.muSave.Unlock()

	if s.FileName == "" {
		return errors.Errorf("linear model %q not saved, because no file name was specified", s)
	}

	// Rename existing file, if it exists.
	file := s.FileName
	if _, err := os.Stat(file); err == nil {
		err = os.Rename(file, file+"~")
		if err != nil {
			return errors.Wrapf(err, "failed to rename %s to %s", s.FileName, s.FileName+"~")
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to stat %s", s.FileName)
	}

	err := os.WriteFile(s.FileName, []byte(s.AsText()), 0644)
	if err != nil {
		return errors.Wrapf(err, "failed to save %s", s.FileName)
	}
	return nil
}

// Cache of linear models read from disk.
var (
	cacheLinearScorers = map[string]*Scorer{}
	muCache            sync.Mutex
)

// Load model from fileName. It stores the reference of the loaded model in a cache, that is
// reused if attempting to load the same fileName.
//
// The model must have one weight per action feature, plus the bias.
func Load(fileName string) (*Scorer, error) {
	muCache.Lock()
	defer muCache.Unlock()
	if cached, ok := cacheLinearScorers[fileName]; ok {
		klog.V(1).Infof("Using cache for model '%s'", fileName)
		return cached, nil
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read linear model from %s", fileName)
	}
	weights, err := parseWeights(string(data))
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to parse linear model in %s", fileName)
	}
	if len(weights) != features.ActionFeaturesDim+1 {
		return nil, errors.Errorf("linear model in %s has %d values, but %d features (+1 bias) are expected",
			fileName, len(weights), features.ActionFeaturesDim)
	}
	s := NewWithWeights(weights...)
	s.FileName = fileName
	s.name = fileName
	cacheLinearScorers[fileName] = s
	return s, nil
}

// parseWeights parses one value per line, skipping empty lines and comments.
func parseWeights(text string) ([]float32, error) {
	valuesStr := strings.Split(text, "\n")
	weights := make([]float32, 0, len(valuesStr))
	for lineNum, valueStr := range valuesStr {
		valueStr = strings.TrimSpace(valueStr)
		if valueStr == "" || strings.HasPrefix(valueStr, "#") || strings.HasPrefix(valueStr, "//") {
			// Skip empty lines and comments.
			continue
		}
		f64, err := strconv.ParseFloat(valueStr, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value at line number #%d", lineNum+1)
		}
		weights = append(weights, float32(f64))
	}
	return weights, nil
}
