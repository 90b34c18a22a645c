// Package players provides a factory of AI players from configuration strings.
// It also allows player providers to register themselves.
package players

import (
	"slices"
	"strings"

	"github.com/janpfeifer/connect4Go/internal/generics"
	"github.com/janpfeifer/connect4Go/internal/parameters"
	"github.com/janpfeifer/connect4Go/internal/searchers"
	"github.com/janpfeifer/connect4Go/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Player is anything that is able to play the game.
type Player interface {
	// Play returns the decision of the column to play on board. The player always plays
	// with the pieces it was created for.
	Play(board state.Board) (searchers.Decision, error)

	// ID identifies the AI configuration, e.g. "minimax-d4". It is used to keep count of
	// matches played by each configuration.
	ID() string

	String() string
}

// Module must implement NewPlayer called at the start of a match.
// The module should pop the params it knows about: whatever is left over is reported as an error.
type Module interface {
	NewPlayer(player state.Player, params parameters.Params) (Player, error)
}

// moduleRegistration is a reference to the module and its name.
type moduleRegistration struct {
	Module
	Name string
}

var (
	// Registered external modules.
	keywordToModules = make(map[string]moduleRegistration)
)

// RegisterModule so it can be used by any of the front-ends to play.
func RegisterModule(name string, module Module) {
	keywordToModules[name] = moduleRegistration{Name: name, Module: module}
}

// ModuleNames returns the names of the registered modules, sorted.
func ModuleNames() []string {
	return slices.Collect(generics.SortedKeys(keywordToModules))
}

var (
	// DefaultPlayerConfig is used if no configuration was given to the AI. The value may be changed by the
	// UI built.
	DefaultPlayerConfig = "ab:max_depth=4"
)

// New creates a new AI player, playing with player's pieces, given the configuration string.
//
// Args:
//
//	config: the AI name followed by a colon (":"), followed by a comma-separated list of optional parameters with optional values associated.
//		If empty, the default is given by DefaultPlayerConfig (usually "ab:max_depth=4", if not changed by the program).
//
// More details on the config are dependent on the module used. The returned player never fails
// to move while there are legal moves: see searchers.WithRandomFallback.
func New(player state.Player, config string) (Player, error) {
	if !player.IsValid() {
		return nil, errors.Errorf("invalid player %s for AI", player)
	}
	if config == "" {
		config = DefaultPlayerConfig
	}

	// Find moduleName.
	moduleName := config
	config = ""
	if moduleSplit := strings.Index(moduleName, ":"); moduleSplit != -1 {
		config = moduleName[moduleSplit+1:]
		moduleName = moduleName[:moduleSplit]
	}
	module, ok := keywordToModules[moduleName]
	if !ok {
		if len(keywordToModules) == 0 {
			return nil, errors.Errorf("unknown AI player %q: no registered players. Perhaps you need to "+
				"import _ \"github.com/janpfeifer/connect4Go/internal/players/default\" to your binary ?", moduleName)
		}
		return nil, errors.Errorf("unknown AI player %q, valid values are %q", moduleName, ModuleNames())
	}

	params := parameters.NewFromConfigString(config)
	p, err := module.NewPlayer(player, params)
	if err == nil {
		err = parameters.CheckAllConsumed(params)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create AI player %q", moduleName)
	}
	klog.V(1).Infof("Created AI player %s (id=%s) for %s", p, p.ID(), player)
	return p, nil
}

// SearcherPlayer is the standard set up for an AI: a searcher, playing for one of the players.
// It implements the Player interface.
type SearcherPlayer struct {
	searcher searchers.Searcher
	player   state.Player
	id, name string
}

// Assert that SearcherPlayer is a Player.
var _ Player = &SearcherPlayer{}

// NewSearcherPlayer returns a Player that plays with player's pieces the moves chosen by
// searcher, wrapped with searchers.WithRandomFallback.
//
// id identifies the configuration (see Player.ID), and name describes it.
func NewSearcherPlayer(searcher searchers.Searcher, player state.Player, id, name string) *SearcherPlayer {
	return &SearcherPlayer{
		searcher: searchers.WithRandomFallback(searcher),
		player:   player,
		id:       id,
		name:     name,
	}
}

// Play implements the Player interface: it chooses a column given a Board.
func (p *SearcherPlayer) Play(board state.Board) (searchers.Decision, error) {
	decision, err := p.searcher.Search(board, p.player)
	if err != nil {
		return decision, errors.WithMessagef(err, "AI %s failed to play", p)
	}
	if klog.V(2).Enabled() {
		klog.Infof("AI (%s) playing for %s: %s", p, p.player, decision)
	}
	return decision, nil
}

// ID implements the Player interface.
func (p *SearcherPlayer) ID() string {
	return p.id
}

// String implements fmt.Stringer and the Player interface.
func (p *SearcherPlayer) String() string {
	return p.name
}
