// connect4 plays Connect-Four on the terminal: human vs AI (default), human vs human
// (-hotseat) or AI vs AI (-watch).
//
// The human (or the first AI, with -watch) plays with A's pieces, the AI with B's.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/janpfeifer/connect4Go/internal/generics"
	"github.com/janpfeifer/connect4Go/internal/match"
	"github.com/janpfeifer/connect4Go/internal/players"
	_ "github.com/janpfeifer/connect4Go/internal/players/default"
	"github.com/janpfeifer/connect4Go/internal/state"
	"github.com/janpfeifer/connect4Go/internal/tally"
	"github.com/janpfeifer/connect4Go/internal/ui/cli"
	"github.com/janpfeifer/connect4Go/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagHotseat    = flag.Bool("hotseat", false, "Hotseat match: human vs human")
	flagWatch      = flag.Bool("watch", false, "Watch mode: AI vs AI playing")
	flagFirst      = flag.String("first", "", "Who plays first: human or ai. Default is random.")
	flagAIConfig   = flag.String("config", "", "AI configuration against which to play, e.g. \"ab:max_depth=5\", \"linear\" or \"random\". Default is "+players.DefaultPlayerConfig)
	flagAIConfig2  = flag.String("config2", "", "Second AI configuration, if playing AI vs AI with -watch")
	flagCounts     = flag.String("counts", "", "YAML file where to keep the count of matches played by each AI configuration. If empty, counts are not persisted.")
	flagShowScores = flag.Bool("show_scores", false, "Show the score of each column considered by the AI")
	flagColor      = flag.Bool("color", true, "Use colors in the terminal")

	// aiPlayers: if not set for a player, it's a human playing.
	aiPlayers = make(map[state.Player]players.Player)

	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	// Capture Control+C
	var cancel func()
	globalCtx, cancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	counts := must.M1(tally.Load(*flagCounts))
	first := createPlayers()

	ui := cli.New(*flagColor, false)
	m := must.M1(match.New(first))
	for !m.Finished {
		if globalCtx.Err() != nil {
			fmt.Println("Match interrupted.")
			return
		}
		ui.PrintMatch(m)
		column, err := nextColumn(ui, m)
		if errors.Is(err, cli.ErrQuit) {
			fmt.Println("Bye!")
			return
		}
		if errors.Is(err, cli.ErrTooManyInputErrors) {
			continue
		}
		if err != nil {
			klog.Exitf("Failed to run match: %+v", err)
		}
		m, err = m.Play(column)
		if err != nil {
			klog.Exitf("Failed to play column %d: %+v", column+1, err)
		}
		fmt.Println()
	}
	ui.PrintMatch(m)
	must.M(updateCounts(counts))
}

// nextColumn to be played, either read from the human or decided by the AI.
func nextColumn(ui *cli.UI, m match.Match) (int, error) {
	aiPlayer, found := aiPlayers[m.Next]
	if !found {
		return ui.ReadColumn(m.Board, m.Next)
	}
	s := spinning.New(globalCtx, os.Stdout)
	decision, err := aiPlayer.Play(m.Board)
	s.Done()
	if err != nil {
		return state.NoColumn, err
	}
	ui.PrintDecision(fmt.Sprintf("AI %s (%s)", ui.PlayerName(m.Next), aiPlayer), decision, *flagShowScores)
	if !decision.Ok() {
		return state.NoColumn, errors.Errorf("AI %s has no moves, but match is not over", aiPlayer)
	}
	return decision.Column, nil
}

// createPlayers in aiPlayers, and returns who plays first.
func createPlayers() (first state.Player) {
	if *flagHotseat && *flagWatch {
		klog.Exitf("-hotseat and -watch cannot be used together")
	}
	first, err := parseFirst(*flagFirst)
	if err != nil {
		klog.Exitf("%v", err)
	}
	if *flagHotseat {
		// Both players are human, nothing to do.
		return
	}

	// Create AI player:
	aiPlayers[state.PlayerB] = must.M1(players.New(state.PlayerB, *flagAIConfig))
	if !*flagWatch {
		return
	}

	// Create second AI
	config2 := *flagAIConfig2
	if config2 == "" {
		config2 = *flagAIConfig
	}
	aiPlayers[state.PlayerA] = must.M1(players.New(state.PlayerA, config2))
	return
}

// parseFirst converts the -first flag value to the player who starts: the human plays A
// and the AI plays B. An empty value picks one at random.
func parseFirst(value string) (state.Player, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "human":
		return state.PlayerA, nil
	case "ai":
		return state.PlayerB, nil
	case "":
		return state.Players[rand.IntN(2)], nil
	}
	return state.Empty, errors.Errorf("invalid -first=%q, only valid values are \"human\" or \"ai\"", value)
}

// updateCounts increments the count of matches played by each AI configuration, and saves them.
func updateCounts(counts *tally.Store) error {
	seen := generics.MakeSet[string]()
	for _, player := range state.Players {
		aiPlayer, found := aiPlayers[player]
		if !found || seen.Has(aiPlayer.ID()) {
			continue
		}
		seen.Insert(aiPlayer.ID())
		count := counts.Increment(aiPlayer.ID())
		fmt.Printf("AI %s has played %d matches\n", aiPlayer.ID(), count)
	}
	return counts.Save()
}
