package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaminalder/tic-tac-toe-history/internal/domain"
)

const playHelp = "commands: 0-8 place a mark, u undo, r redo, n new game, q quit"

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long:  "Play in the terminal, reading one command per line.\n\n" + playHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Play(cmd.InOrStdin(), cmd.OutOrStdout(), domain.New())
		},
	}
}

// Play runs an interactive session on g until q or end of input.
// Rejected moves leave the board as it was and are not reported.
func Play(in io.Reader, out io.Writer, g *domain.Game) error {
	fmt.Fprintln(out, playHelp)
	printGame(out, g)

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		cmd := strings.ToLower(strings.TrimSpace(sc.Text()))
		if cmd == "" {
			continue
		}
		before := g.Outcome()
		switch cmd {
		case "q", "quit":
			return nil
		case "u", "undo":
			_ = g.Undo()
		case "r", "redo":
			_ = g.Redo()
		case "n", "reset":
			g.Reset()
		default:
			i, err := strconv.Atoi(cmd)
			if err != nil {
				fmt.Fprintf(out, "unknown command %q; %s\n", cmd, playHelp)
				continue
			}
			_ = g.Play(i)
		}
		printGame(out, g)
		if after := g.Outcome(); after.Result == domain.Win && before.Result != domain.Win {
			fmt.Fprintf(out, "*** %s wins! ***\n", after.Winner)
		}
	}
	return sc.Err()
}

func printGame(out io.Writer, g *domain.Game) {
	fmt.Fprint(out, renderBoard(g.Current()))
	fmt.Fprintln(out, g.Outcome().Status(g.NextMark()))

	var nav []string
	if g.CanUndo() {
		nav = append(nav, "undo")
	}
	if g.CanRedo() {
		nav = append(nav, "redo")
	}
	if len(nav) > 0 {
		fmt.Fprintf(out, "move %d of %d (%s)\n", g.CurrentMove(), g.Len()-1, strings.Join(nav, ", "))
	}
}

// renderBoard draws b with the index of each empty cell in its place.
func renderBoard(b domain.Board) string {
	var sb strings.Builder
	for r := 0; r < 3; r++ {
		if r > 0 {
			sb.WriteString("---+---+---\n")
		}
		for c := 0; c < 3; c++ {
			i := r*3 + c
			s := b[i].String()
			if s == "" {
				s = strconv.Itoa(i)
			}
			if c > 0 {
				sb.WriteString("|")
			}
			sb.WriteString(" " + s + " ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
