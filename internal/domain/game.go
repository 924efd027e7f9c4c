package domain

import "errors"

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Full reports whether no cell is Empty.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// Errors returned by domain operations. A call that returns one of these
// leaves the game untouched, so callers may drop them as no-ops.
var (
	ErrOutOfBounds   = errors.New("out of bounds")
	ErrOccupied      = errors.New("cell occupied")
	ErrGameOver      = errors.New("game over")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Game holds the move history of a Tic-Tac-Toe match and a pointer into it.
//
// The undo stack is pushed and popped at its end. The redo stack is consumed
// from its front: Undo prepends, Redo removes the first element.
//
// A Game is not safe for concurrent use.
type Game struct {
	history []Board
	current int
	undo    []int
	redo    []int
}

// New returns a new game with an empty board and X to move.
func New() *Game {
	g := &Game{}
	g.Reset()
	return g
}

// Reset discards all history and both stacks.
func (g *Game) Reset() {
	g.history = []Board{{}}
	g.current = 0
	g.undo = nil
	g.redo = nil
}

// Play places the next mark at cell i (0..8, row-major).
// Playing behind the tip discards the abandoned future.
func (g *Game) Play(i int) error {
	cur := g.history[g.current]
	if Evaluate(cur).Decided() {
		return ErrGameOver
	}
	if i < 0 || i >= len(cur) {
		return ErrOutOfBounds
	}
	if cur[i] != Empty {
		return ErrOccupied
	}

	next := cur
	next[i] = g.NextMark()
	g.history = append(g.history[:g.current+1:g.current+1], next)
	g.undo = append(g.undo, g.current)
	g.redo = nil
	g.current = len(g.history) - 1
	return nil
}

// Undo moves the pointer back to the last position on the undo stack.
func (g *Game) Undo() error {
	if len(g.undo) == 0 {
		return ErrNothingToUndo
	}
	p := g.undo[len(g.undo)-1]
	g.undo = g.undo[:len(g.undo)-1]
	g.redo = append([]int{g.current}, g.redo...)
	g.current = p
	return nil
}

// Redo moves the pointer to the first position on the redo stack.
func (g *Game) Redo() error {
	if len(g.redo) == 0 {
		return ErrNothingToRedo
	}
	n := g.redo[0]
	g.redo = g.redo[1:]
	g.undo = append(g.undo, g.current)
	g.current = n
	return nil
}

// Current returns the board at the move pointer.
func (g *Game) Current() Board { return g.history[g.current] }

// Outcome evaluates the current board.
func (g *Game) Outcome() Outcome { return Evaluate(g.Current()) }

// NextMark is X on even moves and O on odd ones. It is meaningless once the
// current board is decided.
func (g *Game) NextMark() Cell {
	if g.current%2 == 0 {
		return X
	}
	return O
}

func (g *Game) CurrentMove() int { return g.current }
func (g *Game) Len() int         { return len(g.history) }
func (g *Game) CanUndo() bool    { return len(g.undo) > 0 }
func (g *Game) CanRedo() bool    { return len(g.redo) > 0 }

// History returns a copy of every snapshot, oldest first.
func (g *Game) History() []Board { return append([]Board(nil), g.history...) }

// UndoStack returns a copy of the undo stack, top last.
func (g *Game) UndoStack() []int { return append([]int(nil), g.undo...) }

// RedoStack returns a copy of the redo stack, top first.
func (g *Game) RedoStack() []int { return append([]int(nil), g.redo...) }
