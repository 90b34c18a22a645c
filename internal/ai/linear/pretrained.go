package linear

import (
	"path/filepath"
	"strings"

	"github.com/janpfeifer/connect4Go/internal/parameters"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Embedded pre-trained linear models.

var (
	// PreTrainedV0 weights were hand-tuned.
	PreTrainedV0 = NewWithWeights(
		// Wins -> 1
		5.0,

		// Blocks -> 1
		3.0,

		// OwnThrees -> 1
		0.4,

		// OppThrees -> 1
		-0.5,

		// OwnTwos -> 1
		0.1,

		// OppTwos -> 1
		-0.1,

		// CenterDistance -> 1
		-0.6,

		// Height -> 1
		-0.05,

		// GivesOpponentWin -> 1
		-3.0,

		// Bias: *Must always be last*
		0.0,
	).WithName("v0")
)

// NewFromParams returns the linear model selected by the "model" parameter: the name of
// an embedded model ("v0", the default) or the path to a model file.
//
// It returns an error if the file can't be loaded or parsed.
func NewFromParams(params parameters.Params) (*Scorer, error) {
	modelName, err := parameters.PopParamOr(params, "model", "v0")
	if err != nil {
		return nil, err
	}
	var selected *Scorer
	for _, scorer := range []*Scorer{PreTrainedV0} {
		if modelName == scorer.name {
			selected = scorer
		}
	}
	if selected == nil {
		selected, err = Load(modelName)
		if err != nil {
			err = errors.WithMessagef(err, "failed to load model \"linear:model=%s\"", modelName)
			return nil, err
		}
	}

	klog.V(1).Infof("Linear model %s with %d features\n", selected, selected.Version())
	return selected, nil
}

// ModelID returns a short identifier for the model: the embedded model name, or the
// base name of its file without extension.
func (s *Scorer) ModelID() string {
	if s.FileName == "" {
		return s.String()
	}
	base := filepath.Base(s.FileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
