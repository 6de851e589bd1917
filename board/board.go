// Package board holds the 9x7 Jungle board: fixed terrain, piece
// placement, the single sanctioned move/undo mutation, and terminal-state
// detection.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlanRexcop/animal-chess/move"
	"github.com/AlanRexcop/animal-chess/pieces"
)

const (
	NumRows = 9
	NumCols = 7
)

var (
	ErrNoPieceAtOrigin  = errors.New("no piece at move origin")
	ErrFriendlyCapture  = errors.New("move captures a friendly piece")
	ErrOutOfBounds      = errors.New("square out of bounds")
	ErrOccupied         = errors.New("square already occupied")
	ErrCaptureMismatch  = errors.New("captured kind does not match destination")
	ErrBadBoardText     = errors.New("malformed board text")
	ErrBadPiecePlacing  = errors.New("inconsistent piece placement")
	errNonRatInWater    = errors.New("non-rat piece standing in water")
	errDuplicateAnimals = errors.New("duplicate kind for one side")
)

// Piece is one animal on the board. Its Row/Col are owned by the Board:
// they are only ever written by PlacePiece, RemovePiece, MakeMove and
// UnmakeMove, together with the square that references the piece.
type Piece struct {
	Kind pieces.Kind
	Side pieces.Side
	Row  int8
	Col  int8
}

func (p *Piece) String() string {
	return fmt.Sprintf("%v %v@(%d,%d)", p.Side, p.Kind, p.Row, p.Col)
}

// Board is a 9x7 grid of fixed terrain plus piece occupancy. The zero
// value is an empty board; use New for one with the standard starting
// position.
type Board struct {
	squares [NumRows][NumCols]*Piece
	counts  [pieces.NumSides]int
}

// New returns a board set to the standard Jungle starting position.
func New() *Board {
	b := &Board{}
	b.SetToStartPosition()
	return b
}

func InBounds(row, col int) bool {
	return row >= 0 && row < NumRows && col >= 0 && col < NumCols
}

func (b *Board) PieceAt(row, col int) *Piece {
	return b.squares[row][col]
}

func (b *Board) CountPieces(s pieces.Side) int {
	return b.counts[s]
}

// PlacePiece puts a new piece on an empty square. It is the setup-time
// mutation; mid-game movement must go through MakeMove.
func (b *Board) PlacePiece(row, col int, kind pieces.Kind, side pieces.Side) error {
	if !InBounds(row, col) {
		return ErrOutOfBounds
	}
	if b.squares[row][col] != nil {
		return ErrOccupied
	}
	b.squares[row][col] = &Piece{Kind: kind, Side: side, Row: int8(row), Col: int8(col)}
	b.counts[side]++
	return nil
}

// RemovePiece clears a square, if occupied.
func (b *Board) RemovePiece(row, col int) {
	p := b.squares[row][col]
	if p == nil {
		return
	}
	b.counts[p.Side]--
	b.squares[row][col] = nil
}

// Undo is the record MakeMove returns so the move can be taken back.
// Captured keeps the removed piece alive so UnmakeMove can restore it with
// its position intact.
type Undo struct {
	Move     move.Move
	Captured *Piece
}

// MakeMove applies m, updating the two squares, the mover's own position
// and the side counts in one step. Splitting these writes up is the
// classic aliasing bug in this game; no other code path may move a piece.
func (b *Board) MakeMove(m move.Move) (Undo, error) {
	p := b.squares[m.FromRow][m.FromCol]
	if p == nil {
		return Undo{}, fmt.Errorf("%w: %s", ErrNoPieceAtOrigin, m)
	}
	victim := b.squares[m.ToRow][m.ToCol]
	if victim != nil {
		if victim.Side == p.Side {
			return Undo{}, fmt.Errorf("%w: %s", ErrFriendlyCapture, m)
		}
		if victim.Kind != m.Captured {
			return Undo{}, fmt.Errorf("%w: %s has %v, move says %v",
				ErrCaptureMismatch, m, victim.Kind, m.Captured)
		}
		b.counts[victim.Side]--
	} else if m.IsCapture() {
		return Undo{}, fmt.Errorf("%w: %s marked capture of empty square",
			ErrCaptureMismatch, m)
	}
	b.squares[m.FromRow][m.FromCol] = nil
	b.squares[m.ToRow][m.ToCol] = p
	p.Row, p.Col = m.ToRow, m.ToCol
	return Undo{Move: m, Captured: victim}, nil
}

// UnmakeMove restores the position recorded in u. It must be called in
// LIFO order with respect to MakeMove.
func (b *Board) UnmakeMove(u Undo) {
	m := u.Move
	p := b.squares[m.ToRow][m.ToCol]
	b.squares[m.FromRow][m.FromCol] = p
	p.Row, p.Col = m.FromRow, m.FromCol
	b.squares[m.ToRow][m.ToCol] = u.Captured
	if u.Captured != nil {
		b.counts[u.Captured.Side]++
	}
}

// EachPiece calls fn for every piece of s. Iteration order is row-major.
func (b *Board) EachPiece(s pieces.Side, fn func(*Piece)) {
	for r := 0; r < NumRows; r++ {
		for c := 0; c < NumCols; c++ {
			if p := b.squares[r][c]; p != nil && p.Side == s {
				fn(p)
			}
		}
	}
}

// Copy deep-copies the board. Pieces are cloned, never shared, so a search
// branch can mutate its copy freely.
func (b *Board) Copy() *Board {
	nb := &Board{counts: b.counts}
	for r := 0; r < NumRows; r++ {
		for c := 0; c < NumCols; c++ {
			if p := b.squares[r][c]; p != nil {
				cp := *p
				nb.squares[r][c] = &cp
			}
		}
	}
	return nb
}

// State is the game-over classification of a position.
type State int

const (
	Ongoing State = iota
	RedWins
	BlueWins
	Draw
)

func (s State) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case RedWins:
		return "red wins"
	case BlueWins:
		return "blue wins"
	case Draw:
		return "draw"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Winner reports the winning side for a won state.
func (s State) Winner() (pieces.Side, bool) {
	switch s {
	case RedWins:
		return pieces.Red, true
	case BlueWins:
		return pieces.Blue, true
	}
	return 0, false
}

func winState(s pieces.Side) State {
	if s == pieces.Red {
		return RedWins
	}
	return BlueWins
}

// TerminalState classifies the position. Precedence: a den occupied by the
// invader ends the game before anything else, then elimination, then the
// both-sides-empty draw. Callers must check this before generating moves.
func (b *Board) TerminalState() State {
	for s := pieces.Red; s <= pieces.Blue; s++ {
		dr, dc := DenSquare(s)
		if p := b.squares[dr][dc]; p != nil && p.Side != s {
			return winState(p.Side)
		}
	}
	redGone := b.counts[pieces.Red] == 0
	blueGone := b.counts[pieces.Blue] == 0
	switch {
	case redGone && blueGone:
		return Draw
	case redGone:
		return BlueWins
	case blueGone:
		return RedWins
	}
	return Ongoing
}

// ToText serializes the board as nine 7-rune lines, row 0 first.
func (b *Board) ToText() string {
	var sb strings.Builder
	for r := 0; r < NumRows; r++ {
		for c := 0; c < NumCols; c++ {
			if p := b.squares[r][c]; p != nil {
				sb.WriteRune(p.Kind.Rune(p.Side))
			} else {
				sb.WriteRune('.')
			}
		}
		if r < NumRows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// FromText parses the ToText form and validates placement invariants:
// board shape, at most one piece per square (implied by the grid), no
// duplicate kind per side, and no non-Rat standing in water.
func FromText(text string) (*Board, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != NumRows {
		return nil, fmt.Errorf("%w: %d rows, want %d", ErrBadBoardText, len(lines), NumRows)
	}
	b := &Board{}
	var seen [pieces.NumSides][pieces.NumKinds + 1]bool
	for r, line := range lines {
		runes := []rune(strings.TrimSpace(line))
		if len(runes) != NumCols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d",
				ErrBadBoardText, r, len(runes), NumCols)
		}
		for c, ru := range runes {
			if ru == '.' {
				continue
			}
			kind, side, ok := pieces.FromRune(ru)
			if !ok {
				return nil, fmt.Errorf("%w: unknown cell %q at (%d,%d)",
					ErrBadBoardText, ru, r, c)
			}
			if seen[side][kind] {
				return nil, fmt.Errorf("%w: %v: second %v at (%d,%d)",
					errDuplicateAnimals, side, kind, r, c)
			}
			seen[side][kind] = true
			if TerrainAt(r, c) == Water && kind != pieces.Rat {
				return nil, fmt.Errorf("%w: %v at (%d,%d)", errNonRatInWater, kind, r, c)
			}
			if err := b.PlacePiece(r, c, kind, side); err != nil {
				return nil, fmt.Errorf("%w: (%d,%d): %v", ErrBadPiecePlacing, r, c, err)
			}
		}
	}
	return b, nil
}
