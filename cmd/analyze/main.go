// analyze reads boards and prints the move the AI would play on each of them, with the score
// of every column considered.
//
// Boards are given in the text layout (top row first, "A", "B" and "." for empty cells),
// separated by blank lines. Lines starting with "#" are ignored. Boards are analysed
// concurrently, sharing the same AI.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/janpfeifer/connect4Go/internal/players"
	_ "github.com/janpfeifer/connect4Go/internal/players/default"
	"github.com/janpfeifer/connect4Go/internal/searchers"
	"github.com/janpfeifer/connect4Go/internal/state"
	"github.com/janpfeifer/connect4Go/internal/ui/cli"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var (
	flagInput       = flag.String("input", "", "File with the boards to analyse. If empty, boards are read from stdin.")
	flagAIConfig    = flag.String("config", "", "AI configuration used to analyse, e.g. \"ab:max_depth=6\". Default is "+players.DefaultPlayerConfig)
	flagFirst       = flag.String("first", "A", "Player that started the matches: it is the one to play when both have the same number of pieces.")
	flagParallelism = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and analyse these many boards simultaneously.")
	flagColor       = flag.Bool("color", false, "Use colors in the output")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	var first state.Player
	switch strings.ToUpper(*flagFirst) {
	case "A":
		first = state.PlayerA
	case "B":
		first = state.PlayerB
	default:
		klog.Exitf("invalid -first=%q, valid values are \"A\" or \"B\"", *flagFirst)
	}

	var in io.Reader = os.Stdin
	if *flagInput != "" {
		f := must.M1(os.Open(*flagInput))
		defer func() { _ = f.Close() }()
		in = f
	}
	text := must.M1(io.ReadAll(in))
	boards, err := ParseBoards(string(text))
	if err != nil {
		klog.Exitf("Failed to read boards: %+v", err)
	}

	var aiPlayers [2]players.Player
	for ii, player := range state.Players {
		aiPlayers[ii] = must.M1(players.New(player, *flagAIConfig))
	}
	analyses, err := Analyze(context.Background(), boards, first, aiPlayers, getParallelism())
	if err != nil {
		klog.Exitf("Failed to analyse boards: %+v", err)
	}

	ui := cli.NewWithIO(os.Stdin, os.Stdout, *flagColor)
	for ii, a := range analyses {
		fmt.Printf("Board #%d, %s to play:\n", ii+1, a.Next)
		ui.PrintBoard(a.Board)
		ui.PrintDecision(aiPlayers[0].String(), a.Decision, true)
		fmt.Println()
	}
}

// ParseBoards parses the boards in text, separated by blank lines.
func ParseBoards(text string) ([]state.Board, error) {
	var boards []state.Board
	var lines []string
	flush := func() error {
		if len(lines) == 0 {
			return nil
		}
		board, err := state.Parse(strings.Join(lines, "\n"))
		if err != nil {
			return errors.WithMessagef(err, "board #%d", len(boards)+1)
		}
		boards = append(boards, board)
		lines = lines[:0]
		return nil
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		lines = append(lines, line)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return boards, nil
}

// NextPlayer returns who is to play on board: the player with fewer pieces, or first if
// both have the same number.
func NextPlayer(board state.Board, first state.Player) (state.Player, error) {
	own, opp := board.CountPieces(first), board.CountPieces(first.Opponent())
	switch own - opp {
	case 0:
		return first, nil
	case 1:
		return first.Opponent(), nil
	default:
		return state.Empty, errors.Errorf("invalid board: %s has %d pieces and %s has %d, but %s started",
			first, own, first.Opponent(), opp, first)
	}
}

// Analysis of one board.
type Analysis struct {
	Board    state.Board
	Next     state.Player
	Decision searchers.Decision
}

// Analyze runs the AI for each of the boards concurrently, with at most parallelism boards
// at a time. aiPlayers holds the AI playing with A's pieces and with B's pieces, in that order.
func Analyze(ctx context.Context, boards []state.Board, first state.Player, aiPlayers [2]players.Player, parallelism int) ([]Analysis, error) {
	analyses := make([]Analysis, len(boards))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallelism, 1))
	for ii, board := range boards {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			next, err := NextPlayer(board, first)
			if err != nil {
				return errors.WithMessagef(err, "board #%d", ii+1)
			}
			player := aiPlayers[0]
			if next == state.PlayerB {
				player = aiPlayers[1]
			}
			decision, err := player.Play(board)
			if err != nil {
				return errors.WithMessagef(err, "board #%d", ii+1)
			}
			analyses[ii] = Analysis{Board: board, Next: next, Decision: decision}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return analyses, nil
}

// getParallelism returns the parallelism.
func getParallelism() (parallelism int) {
	parallelism = runtime.GOMAXPROCS(0)
	if *flagParallelism > 0 {
		parallelism = *flagParallelism
	}
	return
}
