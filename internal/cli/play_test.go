package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/tic-tac-toe-history/internal/domain"
)

func runScript(t *testing.T, lines ...string) (*domain.Game, string) {
	t.Helper()
	g := domain.New()
	var out bytes.Buffer
	require.NoError(t, Play(strings.NewReader(strings.Join(lines, "\n")), &out, g))
	return g, out.String()
}

func TestRenderBoard(t *testing.T) {
	b := domain.Board{domain.X, domain.Empty, domain.O}

	want := " X | 1 | O \n" +
		"---+---+---\n" +
		" 3 | 4 | 5 \n" +
		"---+---+---\n" +
		" 6 | 7 | 8 \n"
	assert.Equal(t, want, renderBoard(b))
}

func TestPlayCelebratesOnWinTransition(t *testing.T) {
	g, out := runScript(t, "0", "4", "1", "5", "2", "8", "u", "r")

	assert.Equal(t, domain.Win, g.Outcome().Result)
	assert.Contains(t, out, "Winner: X")
	// once on the winning move, once more when redo returns to it
	assert.Equal(t, 2, strings.Count(out, "*** X wins! ***"))
}

func TestPlayUndoRedo(t *testing.T) {
	g, out := runScript(t, "0", "1", "undo", "undo", "redo")

	assert.Equal(t, 1, g.CurrentMove())
	assert.True(t, g.CanRedo())
	assert.Contains(t, out, "move 1 of 2 (undo, redo)")
	assert.Contains(t, out, "Next player: O")
}

func TestPlayIgnoresRejectedMoves(t *testing.T) {
	g, out := runScript(t, "4", "4", "12", "r", "", "bogus")

	assert.Equal(t, 1, g.CurrentMove())
	assert.Equal(t, domain.X, g.Current()[4])
	assert.Contains(t, out, `unknown command "bogus"`)
}

func TestPlayResetAndQuit(t *testing.T) {
	g, _ := runScript(t, "0", "4", "n", "q", "8")

	assert.Equal(t, 0, g.CurrentMove())
	assert.Equal(t, 1, g.Len())
	assert.False(t, g.CanUndo())
}

func TestPlayCommandWiring(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("4\nq\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"play"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), " 0 | 1 | 2 \n---+---+---\n 3 | X | 5 ")
	assert.Contains(t, out.String(), "Next player: O")
}
