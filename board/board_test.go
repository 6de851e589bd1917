package board

import (
	"testing"

	"github.com/matryer/is"

	"github.com/AlanRexcop/animal-chess/move"
	"github.com/AlanRexcop/animal-chess/pieces"
)

func TestStartPosition(t *testing.T) {
	is := is.New(t)
	b := New()
	is.Equal(b.CountPieces(pieces.Red), 8)
	is.Equal(b.CountPieces(pieces.Blue), 8)
	is.Equal(b.TerminalState(), Ongoing)

	lion := b.PieceAt(0, 0)
	is.True(lion != nil)
	is.Equal(lion.Kind, pieces.Lion)
	is.Equal(lion.Side, pieces.Blue)

	redLion := b.PieceAt(8, 6)
	is.True(redLion != nil)
	is.Equal(redLion.Kind, pieces.Lion)
	is.Equal(redLion.Side, pieces.Red)

	// Dens themselves start empty.
	is.True(b.PieceAt(0, 3) == nil)
	is.True(b.PieceAt(8, 3) == nil)
}

func TestTerrainLayout(t *testing.T) {
	is := is.New(t)
	is.Equal(TerrainAt(0, 3), BlueDen)
	is.Equal(TerrainAt(8, 3), RedDen)
	is.Equal(TerrainAt(0, 2), BlueTrap)
	is.Equal(TerrainAt(7, 3), RedTrap)
	is.Equal(TerrainAt(3, 1), Water)
	is.Equal(TerrainAt(5, 5), Water)
	is.Equal(TerrainAt(4, 3), Land)
	is.Equal(TerrainAt(4, 0), Land)

	waterCount := 0
	for r := 0; r < NumRows; r++ {
		for c := 0; c < NumCols; c++ {
			if TerrainAt(r, c) == Water {
				waterCount++
			}
		}
	}
	is.Equal(waterCount, 12)
}

func TestMakeMoveUpdatesBothSquareAndPiece(t *testing.T) {
	is := is.New(t)
	b := &Board{}
	is.NoErr(b.PlacePiece(6, 6, pieces.Rat, pieces.Red))

	m := move.New(6, 6, 5, 6)
	undo, err := b.MakeMove(m)
	is.NoErr(err)
	is.True(b.PieceAt(6, 6) == nil)
	p := b.PieceAt(5, 6)
	is.True(p != nil)
	is.Equal(int(p.Row), 5)
	is.Equal(int(p.Col), 6)

	b.UnmakeMove(undo)
	p = b.PieceAt(6, 6)
	is.True(p != nil)
	is.Equal(int(p.Row), 6)
	is.Equal(int(p.Col), 6)
	is.True(b.PieceAt(5, 6) == nil)
}

func TestMakeMoveCaptureAndUndo(t *testing.T) {
	is := is.New(t)
	b := &Board{}
	is.NoErr(b.PlacePiece(4, 3, pieces.Lion, pieces.Red))
	is.NoErr(b.PlacePiece(3, 3, pieces.Wolf, pieces.Blue))

	m := move.Move{FromRow: 4, FromCol: 3, ToRow: 3, ToCol: 3, Captured: pieces.Wolf}
	before := b.CountPieces(pieces.Blue)
	undo, err := b.MakeMove(m)
	is.NoErr(err)
	// Piece count decreases by exactly 1 on a capture.
	is.Equal(b.CountPieces(pieces.Blue), before-1)
	is.Equal(b.PieceAt(3, 3).Kind, pieces.Lion)

	b.UnmakeMove(undo)
	is.Equal(b.CountPieces(pieces.Blue), before)
	is.Equal(b.PieceAt(3, 3).Kind, pieces.Wolf)
	is.Equal(b.PieceAt(4, 3).Kind, pieces.Lion)
}

func TestMakeMoveRejectsInconsistencies(t *testing.T) {
	is := is.New(t)
	b := &Board{}
	is.NoErr(b.PlacePiece(4, 3, pieces.Lion, pieces.Red))
	is.NoErr(b.PlacePiece(3, 3, pieces.Wolf, pieces.Red))

	_, err := b.MakeMove(move.New(2, 2, 2, 3))
	is.True(err != nil) // no piece at origin

	_, err = b.MakeMove(move.Move{FromRow: 4, FromCol: 3, ToRow: 3, ToCol: 3, Captured: pieces.Wolf})
	is.True(err != nil) // friendly capture

	_, err = b.MakeMove(move.New(4, 3, 5, 3))
	is.NoErr(err)
	_, err = b.MakeMove(move.Move{FromRow: 5, FromCol: 3, ToRow: 5, ToCol: 2, Captured: pieces.Cat})
	is.True(err != nil) // capture annotation on an empty square
}

func TestTerminalStatePrecedence(t *testing.T) {
	is := is.New(t)

	// Invader in the den wins immediately, even with pieces everywhere.
	b := New()
	is.NoErr(b.PlacePiece(0, 3, pieces.Cat, pieces.Red))
	is.Equal(b.TerminalState(), RedWins)

	// Elimination.
	b = &Board{}
	is.NoErr(b.PlacePiece(4, 3, pieces.Lion, pieces.Blue))
	is.Equal(b.TerminalState(), BlueWins)

	// Both sides empty is a draw.
	b = &Board{}
	is.Equal(b.TerminalState(), Draw)
}

func TestCopyIsDeep(t *testing.T) {
	is := is.New(t)
	b := New()
	cp := b.Copy()
	_, err := cp.MakeMove(move.New(6, 6, 5, 6))
	is.NoErr(err)
	is.True(b.PieceAt(6, 6) != nil)  // original untouched
	is.True(cp.PieceAt(6, 6) == nil)
}

func TestTextRoundTrip(t *testing.T) {
	is := is.New(t)
	b := New()
	text := b.ToText()
	parsed, err := FromText(text)
	is.NoErr(err)
	is.Equal(parsed.ToText(), text)
	is.Equal(parsed.CountPieces(pieces.Red), 8)
	is.Equal(parsed.CountPieces(pieces.Blue), 8)
}

func TestFromTextRejectsBadBoards(t *testing.T) {
	is := is.New(t)

	_, err := FromText("...")
	is.True(err != nil) // wrong shape

	// A Wolf standing in water.
	b := &Board{}
	is.NoErr(b.PlacePiece(3, 1, pieces.Wolf, pieces.Red))
	_, err = FromText(b.ToText())
	is.True(err != nil)

	// Two Rats for one side.
	lines := "R.....R\n.......\n.......\n.......\n.......\n.......\n.......\n.......\n......."
	_, err = FromText(lines)
	is.True(err != nil)
}
