package domain

// Result classifies a board.
type Result uint8

const (
	InProgress Result = iota
	Win
	Draw
)

// Outcome is derived from a board on demand; it is never stored.
type Outcome struct {
	Result Result
	Winner Cell
	// Line holds the winning cell indexes when Result is Win.
	Line [3]int
}

var lines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Evaluate reports the outcome of b. The first complete line in
// row, column, diagonal order decides the winner.
func Evaluate(b Board) Outcome {
	for _, ln := range lines {
		a := b[ln[0]]
		if a != Empty && a == b[ln[1]] && a == b[ln[2]] {
			return Outcome{Result: Win, Winner: a, Line: ln}
		}
	}
	if b.Full() {
		return Outcome{Result: Draw}
	}
	return Outcome{Result: InProgress}
}

// Decided is true for a win or a draw.
func (o Outcome) Decided() bool { return o.Result != InProgress }

// Status renders the status line shown above the board.
func (o Outcome) Status(next Cell) string {
	switch o.Result {
	case Win:
		return "Winner: " + o.Winner.String()
	case Draw:
		return "It's a Draw!"
	default:
		return "Next player: " + next.String()
	}
}

// InLine reports whether cell i is part of the winning line.
func (o Outcome) InLine(i int) bool {
	if o.Result != Win {
		return false
	}
	return o.Line[0] == i || o.Line[1] == i || o.Line[2] == i
}
