// Package cli implements a command-line UI for the game.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/janpfeifer/connect4Go/internal/match"
	"github.com/janpfeifer/connect4Go/internal/searchers"
	. "github.com/janpfeifer/connect4Go/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// MaxInputErrors is the number of invalid inputs accepted in a row by ReadColumn.
const MaxInputErrors = 3

var (
	// ErrQuit is returned by ReadColumn when the user asks to quit.
	ErrQuit = errors.New("user quit")

	// ErrTooManyInputErrors is returned by ReadColumn after MaxInputErrors invalid inputs.
	ErrTooManyInputErrors = errors.Errorf("failed to read column %d times", MaxInputErrors)
)

// Background colors of each player's pieces.
var playerColors = map[Player]lipgloss.Color{
	PlayerA: lipgloss.Color("9"),
	PlayerB: lipgloss.Color("11"),
}

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len([]rune(ansiFilter.ReplaceAllString(s, "")))
}

// UI reads the human moves and prints the board, the AI decisions and the results.
type UI struct {
	color, clearScreen bool
	reader             *bufio.Reader
	out                io.Writer

	// width of the terminal, used to center the board. 0 if not known.
	width int

	styles map[Player]lipgloss.Style
}

// New creates a UI on the standard input and output. If the output is a terminal, the
// board is centered on it.
func New(color bool, clearScreen bool) *UI {
	ui := NewWithIO(os.Stdin, os.Stdout, color)
	ui.clearScreen = clearScreen
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if width, _, err := term.GetSize(fd); err == nil {
			ui.width = width
		}
	}
	return ui
}

// NewWithIO creates a UI that reads from in and writes to out, without centering.
func NewWithIO(in io.Reader, out io.Writer, color bool) *UI {
	return &UI{
		color:  color,
		reader: bufio.NewReader(in),
		out:    out,
		styles: map[Player]lipgloss.Style{
			PlayerA: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(playerColors[PlayerA]),
			PlayerB: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(playerColors[PlayerB]),
			Empty:   lipgloss.NewStyle().Faint(true),
		},
	}
}

func (ui *UI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(ui.out, format, args...)
}

func (ui *UI) printCentered(block string) {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, displayWidth(line))
	}
	indent := max((ui.width-blockWidth)/2, 0)
	for _, line := range lines {
		if len(line) == 0 {
			ui.printf("\n")
			continue
		}
		ui.printf("%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// PlayerName returns the player name, colored if the UI uses colors.
func (ui *UI) PlayerName(player Player) string {
	name := fmt.Sprintf(" %s ", player)
	if !ui.color {
		return strings.TrimSpace(name)
	}
	return ui.styles[player].Render(name)
}

// cell renders one position of the board, 3 characters wide.
func (ui *UI) cell(player Player, highlighted bool) string {
	letter := player.String()
	if !ui.color {
		if highlighted {
			return "[" + letter + "]"
		}
		return " " + letter + " "
	}
	style := ui.styles[player]
	if highlighted {
		style = style.Reverse(true).Blink(true)
	}
	return style.Render(" " + letter + " ")
}

// RenderBoard returns the board drawing, top row first, with the 1-based column numbers
// at the bottom. The highlighted cells (e.g. the winning window) are marked.
func (ui *UI) RenderBoard(board Board, highlight ...Pos) string {
	isHighlighted := func(row, col int) bool {
		for _, pos := range highlight {
			if pos.Row == row && pos.Col == col {
				return true
			}
		}
		return false
	}
	var sb strings.Builder
	for row := Rows - 1; row >= 0; row-- {
		sb.WriteString("|")
		for col := range Columns {
			sb.WriteString(ui.cell(board.At(row, col), isHighlighted(row, col)))
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", 3*Columns) + "+\n")
	sb.WriteString(" ")
	for col := range Columns {
		sb.WriteString(fmt.Sprintf(" %d ", col+1))
	}
	sb.WriteString(" \n")
	return sb.String()
}

// PrintBoard prints the board, centered if the terminal width is known.
func (ui *UI) PrintBoard(board Board, highlight ...Pos) {
	ui.printCentered(ui.RenderBoard(board, highlight...))
}

// PrintMatch prints the move number, the board and whose turn it is, or the result if the
// match is finished.
func (ui *UI) PrintMatch(m match.Match) {
	if ui.clearScreen {
		ui.printf("\033c")
	}
	ui.printf("\nMove #%d\n\n", m.MoveNumber)
	var highlight []Pos
	if m.Finished && m.Winner != Empty {
		highlight = m.WinningWindow.Cells[:]
	}
	ui.PrintBoard(m.Board, highlight...)
	ui.printf("\n")
	if m.Finished {
		ui.PrintWinner(m)
		return
	}
	ui.printf("Turn to play: %s\n", ui.PlayerName(m.Next))
}

// PrintWinner prints the result of a finished match.
func (ui *UI) PrintWinner(m match.Match) {
	var msg string
	switch {
	case !m.Finished:
		return
	case m.Winner == Empty:
		msg = "*** DRAW: the board is full! ***"
	default:
		msg = fmt.Sprintf("*** PLAYER %s WINS!! Congratulations! ***", m.Winner)
	}
	if ui.color {
		color := lipgloss.Color("13")
		if m.Winner != Empty {
			color = playerColors[m.Winner]
		}
		msg = lipgloss.NewStyle().Background(color).Foreground(lipgloss.Color("0")).Padding(1, 2).Render(msg)
	}
	ui.printf("\n")
	ui.printCentered(msg)
	ui.printf("\n")
}

// PrintDecision prints the column played by an AI, and if showScores is set and the decision
// was made comparing columns, a table with the score of each column.
func (ui *UI) PrintDecision(who string, decision searchers.Decision, showScores bool) {
	if !decision.Ok() {
		ui.printf("%s has no moves: %s\n", who, decision.Reason)
		return
	}
	ui.printf("%s plays column %d (%s)\n", who, decision.Column+1, decision.Reason)
	if !showScores || len(decision.Ranked) == 0 {
		return
	}
	ui.printf("%s\n", ui.RenderRanked(decision))
}

// RenderRanked renders the ranked columns of the decision as a table.
func (ui *UI) RenderRanked(decision searchers.Decision) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Column", "Score", "")
	for _, cs := range decision.Ranked {
		chosen := ""
		if cs.Column == decision.Column {
			chosen = "<"
		}
		t.Row(strconv.Itoa(cs.Column+1), formatScore(cs.Score), chosen)
	}
	if ui.color {
		t.StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			return style
		})
	}
	return t.Render()
}

func formatScore(score float64) string {
	if score >= 1e4 || score <= -1e4 {
		return strconv.FormatFloat(score, 'g', 4, 64)
	}
	return strconv.FormatFloat(score, 'f', 2, 64)
}

// ReadColumn asks player for a column, 1-based as displayed, and returns it 0-based.
//
// Invalid inputs and full columns are reported and asked again, up to MaxInputErrors times,
// after which it returns ErrTooManyInputErrors. Typing "q" (or "quit") returns ErrQuit.
func (ui *UI) ReadColumn(board Board, player Player) (int, error) {
	for range MaxInputErrors {
		ui.printf("    %s column (1-%d, q to quit) > ", ui.PlayerName(player), Columns)
		text, err := ui.reader.ReadString('\n')
		if err != nil && (err != io.EOF || text == "") {
			return NoColumn, errors.Wrap(err, "failed to read column")
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "q" || text == "quit" {
			return NoColumn, ErrQuit
		}
		value, err := strconv.Atoi(text)
		if err != nil || value < 1 || value > Columns {
			ui.printf("    * Sorry, %q is not a column, choose a number from 1 to %d\n", text, Columns)
			continue
		}
		column := value - 1
		if !board.IsLegal(column) {
			ui.printf("    * Column %d is full, choose another one\n", value)
			continue
		}
		return column, nil
	}
	return NoColumn, ErrTooManyInputErrors
}
