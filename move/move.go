// Package move defines the immutable move value passed between the rules
// engine, the board, the hasher and the search.
package move

import (
	"fmt"

	"github.com/AlanRexcop/animal-chess/pieces"
)

// Move is a single displacement of one piece. Captured holds the kind of
// the piece standing on the destination square when the move was generated
// (NoKind for a quiet move); it is what lets the zobrist update and the
// board undo run without re-reading the position.
type Move struct {
	FromRow, FromCol int8
	ToRow, ToCol     int8
	Captured         pieces.Kind
}

// New builds a quiet move between two squares.
func New(fromRow, fromCol, toRow, toCol int) Move {
	return Move{
		FromRow: int8(fromRow), FromCol: int8(fromCol),
		ToRow: int8(toRow), ToCol: int8(toCol),
	}
}

func (m Move) IsCapture() bool {
	return m.Captured != pieces.NoKind
}

// Zero reports whether m is the zero value, used as a "no move" marker by
// the transposition and killer tables.
func (m Move) Zero() bool {
	return m == Move{}
}

// Equals ignores the captured annotation so that a killer recorded in a
// sibling node still matches after the position changed underneath it.
func (m Move) Equals(o Move) bool {
	return m.FromRow == o.FromRow && m.FromCol == o.FromCol &&
		m.ToRow == o.ToRow && m.ToCol == o.ToCol
}

// String renders coordinate notation, e.g. "a3b3". Columns are a..g left
// to right; rows are 1..9 counted from Red's home row upward.
func (m Move) String() string {
	return squareName(m.FromRow, m.FromCol) + squareName(m.ToRow, m.ToCol)
}

func squareName(row, col int8) string {
	return fmt.Sprintf("%c%d", 'a'+col, 9-row)
}

// Parse reads coordinate notation produced by String. The captured
// annotation cannot be recovered from the text; callers that need it must
// re-derive it from a board.
func Parse(s string) (Move, error) {
	if len(s) != 4 {
		return Move{}, fmt.Errorf("bad move %q: want 4 characters like a3b3", s)
	}
	fr, fc, err := parseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("bad move %q: %w", s, err)
	}
	tr, tc, err := parseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("bad move %q: %w", s, err)
	}
	return Move{FromRow: fr, FromCol: fc, ToRow: tr, ToCol: tc}, nil
}

func parseSquare(s string) (int8, int8, error) {
	col := int8(s[0] - 'a')
	if col < 0 || col > 6 {
		return 0, 0, fmt.Errorf("column %q out of range a-g", s[0])
	}
	if s[1] < '1' || s[1] > '9' {
		return 0, 0, fmt.Errorf("row %q out of range 1-9", s[1])
	}
	row := int8(9 - (s[1] - '0'))
	return row, col, nil
}
