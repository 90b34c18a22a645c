// compare plays AI vs AI matches in parallel, alternating who starts, and prints the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/janpfeifer/connect4Go/internal/generics"
	"github.com/janpfeifer/connect4Go/internal/match"
	"github.com/janpfeifer/connect4Go/internal/players"
	_ "github.com/janpfeifer/connect4Go/internal/players/default"
	"github.com/janpfeifer/connect4Go/internal/profilers"
	"github.com/janpfeifer/connect4Go/internal/state"
	"github.com/janpfeifer/connect4Go/internal/tally"
	"github.com/janpfeifer/connect4Go/internal/ui/cli"
	"github.com/janpfeifer/connect4Go/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var (
	flagPlayer1Config = flag.String("ai1", "", "1st player configuration.")
	flagPlayer2Config = flag.String("ai2", "", "2nd player configuration.")
	flagNumMatches    = flag.Int("num_matches", 100, "Number of matches to play.")
	flagParallelism   = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and play "+
		"these many matches simultaneously.")
	flagPrintSteps = flag.Bool("print_steps", false, "Print board at each step. "+
		"Very verbose, and you probably want to set flagParallelism to 1.")
	flagCounts = flag.String("counts", "", "YAML file where to keep the count of matches played by each AI configuration. If empty, counts are not persisted.")
)

// Globals
var (
	// globalCtx used everywhere. It is cancelled when the program is about to exit either by
	// an interrupt (ctrl+C) or by reaching the end.
	globalCtx = context.Background()
)

// aiPieces holds the two players of one AI configuration, one per piece: index 0 for PlayerA,
// 1 for PlayerB.
type aiPieces [2]players.Player

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *flagPlayer1Config == "" || *flagPlayer2Config == "" {
		klog.Exit("You must configure both players to compare with flags -ai1 and -ai2")
	}

	// Capture Control+C
	var globalCancel func()
	globalCtx, globalCancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(globalCancel, 5*time.Second)
	defer globalCancel()

	// Profilers: HTTP profiler server and CPU profile.
	profilers.Setup(globalCtx)
	defer profilers.OnQuit()

	counts := must.M1(tally.Load(*flagCounts))
	aiPlayers := must.M1(createAIPlayers())
	r := must.M1(runMatches(globalCtx, aiPlayers))
	if r.played == 0 {
		return
	}
	seen := generics.MakeSet[string]()
	for _, ai := range aiPlayers {
		id := ai[0].ID()
		if !seen.Has(id) {
			seen.Insert(id)
			fmt.Printf("%s has played %d matches\n", id, counts.Add(id, r.played))
		}
	}
	must.M(counts.Save())
}

func createAIPlayers() (aiPlayers [2]aiPieces, err error) {
	for aiIdx, config := range [2]string{*flagPlayer1Config, *flagPlayer2Config} {
		klog.V(1).Infof("Creating AI-%d from %q", aiIdx+1, config)
		for pieceIdx, player := range state.Players {
			aiPlayers[aiIdx][pieceIdx], err = players.New(player, config)
			if err != nil {
				err = errors.WithMessagef(err, "AI-%d", aiIdx+1)
				return
			}
		}
	}
	return
}

type Results struct {
	mu                   sync.Mutex
	start                time.Time
	winsAs1st, winsAs2nd [2]int
	draws                [2]int
	played, total        int
}

func (r *Results) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Played %d of %d: ", r.played, r.total))
	for aiIdx := range 2 {
		parts = append(parts,
			fmt.Sprintf("AI-%d: %d Wins (1st: %d, 2nd: %d) / ",
				aiIdx+1, r.winsAs1st[aiIdx]+r.winsAs2nd[aiIdx],
				r.winsAs1st[aiIdx], r.winsAs2nd[aiIdx]))
	}
	parts = append(parts, fmt.Sprintf("%d draws (%d AI-1 as 1st, %d AI-2 as 1st) - ",
		r.draws[0]+r.draws[1], r.draws[0], r.draws[1]))
	parts = append(parts, time.Since(r.start).Round(time.Millisecond).String())
	parts = append(parts, "\033[0K")
	return strings.Join(parts, "")
}

// record the outcome of a match, where first is the index of the AI that started and winner
// is the index of the AI that won, or -1 for a draw.
func (r *Results) record(first, winner int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case winner < 0:
		r.draws[first]++
	case winner == first:
		r.winsAs1st[winner]++
	default:
		r.winsAs2nd[winner]++
	}
	r.played++
}

func runMatches(ctx context.Context, aiPlayers [2]aiPieces) (*Results, error) {
	r := &Results{
		start: time.Now(),
		total: *flagNumMatches,
	}
	var wg errgroup.Group
	wg.SetLimit(getParallelism())
	fmt.Printf("\r%s", r)

	for matchIdx := range r.total {
		wg.Go(func() error {
			// AI-1 starts on even matches. The first to play always has A's pieces.
			first := matchIdx % 2
			second := 1 - first
			matchPlayers := aiPieces{aiPlayers[first][0], aiPlayers[second][1]}
			winner, err := runMatch(ctx, matchIdx, matchPlayers)
			if err != nil || ctx.Err() != nil {
				return err
			}
			aiWinner := -1
			switch winner {
			case state.PlayerA:
				aiWinner = first
			case state.PlayerB:
				aiWinner = second
			}
			r.record(first, aiWinner)
			r.mu.Lock()
			fmt.Printf("\r%s", r)
			r.mu.Unlock()
			return nil
		})
	}
	err := wg.Wait()
	fmt.Printf("\r%s", r)
	fmt.Println()
	if ctx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", ctx.Err())
		return r, nil
	}
	return r, err
}

var (
	stepUI   = cli.New(true, false)
	muStepUI sync.Mutex
)

// runMatch returns the winner, or state.Empty for a draw or if interrupted.
func runMatch(ctx context.Context, matchNum int, matchPlayers aiPieces) (winner state.Player, err error) {
	if ctx.Err() != nil {
		// Already interrupted.
		return state.Empty, nil
	}
	if klog.V(1).Enabled() {
		klog.Infof("Starting match %d", matchNum)
		defer klog.Infof("Finished match %d", matchNum)
	}
	matchName := fmt.Sprintf("Match-%05d", matchNum)
	m, err := match.New(state.PlayerA)
	if err != nil {
		return state.Empty, err
	}

	// Run match.
	for !m.Finished {
		if ctx.Err() != nil {
			klog.V(1).Infof("Match %d interrupted: %s", matchNum, ctx.Err())
			return state.Empty, nil
		}
		player := matchPlayers[0]
		if m.Next == state.PlayerB {
			player = matchPlayers[1]
		}
		decision, err := player.Play(m.Board)
		if err != nil {
			return state.Empty, errors.WithMessagef(err, "%s, move #%d", matchName, m.MoveNumber)
		}
		m, err = m.Play(decision.Column)
		if err != nil {
			return state.Empty, errors.WithMessagef(err, "%s, move #%d: %s played an invalid move", matchName, m.MoveNumber, player)
		}
		if *flagPrintSteps {
			muStepUI.Lock()
			fmt.Printf("%s, move #%d\n", matchName, m.MoveNumber)
			stepUI.PrintDecision(player.String(), decision, true)
			stepUI.PrintBoard(m.Board)
			fmt.Println("------------------")
			muStepUI.Unlock()
		}
	}
	return m.Winner, nil
}

// getParallelism returns the parallelism.
func getParallelism() (parallelism int) {
	parallelism = runtime.GOMAXPROCS(0)
	if *flagParallelism > 0 {
		parallelism = *flagParallelism
	}
	return
}
