package board

import (
	"fmt"

	"github.com/AlanRexcop/animal-chess/pieces"
)

// Terrain is the fixed surface of a square. It is set once by the layout
// below and never mutated.
type Terrain int8

const (
	Land Terrain = iota
	Water
	RedTrap
	BlueTrap
	RedDen
	BlueDen
)

func (t Terrain) String() string {
	switch t {
	case Land:
		return "land"
	case Water:
		return "water"
	case RedTrap:
		return "red trap"
	case BlueTrap:
		return "blue trap"
	case RedDen:
		return "red den"
	case BlueDen:
		return "blue den"
	}
	return fmt.Sprintf("Terrain(%d)", int8(t))
}

// TrapOwner reports which side's den this trap guards. A piece of the
// *other* side standing here has its rank zeroed.
func (t Terrain) TrapOwner() (pieces.Side, bool) {
	switch t {
	case RedTrap:
		return pieces.Red, true
	case BlueTrap:
		return pieces.Blue, true
	}
	return 0, false
}

// DenOwner reports which side's home den this is.
func (t Terrain) DenOwner() (pieces.Side, bool) {
	switch t {
	case RedDen:
		return pieces.Red, true
	case BlueDen:
		return pieces.Blue, true
	}
	return 0, false
}

// terrainLayout is the fixed Jungle geography. Blue's den row is row 0,
// Red's is row 8; the two rivers fill rows 3-5 in columns 1-2 and 4-5.
var terrainLayout = [NumRows][NumCols]Terrain{
	{Land, Land, BlueTrap, BlueDen, BlueTrap, Land, Land},
	{Land, Land, Land, BlueTrap, Land, Land, Land},
	{Land, Land, Land, Land, Land, Land, Land},
	{Land, Water, Water, Land, Water, Water, Land},
	{Land, Water, Water, Land, Water, Water, Land},
	{Land, Water, Water, Land, Water, Water, Land},
	{Land, Land, Land, Land, Land, Land, Land},
	{Land, Land, Land, RedTrap, Land, Land, Land},
	{Land, Land, RedTrap, RedDen, RedTrap, Land, Land},
}

// TerrainAt returns the fixed terrain of a square. It is a free function
// rather than a Board method: terrain is the same on every board.
func TerrainAt(row, col int) Terrain {
	return terrainLayout[row][col]
}

// DenSquare returns the location of s's home den.
func DenSquare(s pieces.Side) (row, col int) {
	if s == pieces.Red {
		return NumRows - 1, 3
	}
	return 0, 3
}

// HomeRow is the baseline row for s.
func HomeRow(s pieces.Side) int {
	if s == pieces.Red {
		return NumRows - 1
	}
	return 0
}

// startSquares is the standard opening placement for Blue; Red mirrors it
// through the board center.
var startSquares = []struct {
	kind     pieces.Kind
	row, col int
}{
	{pieces.Lion, 0, 0},
	{pieces.Tiger, 0, 6},
	{pieces.Dog, 1, 1},
	{pieces.Cat, 1, 5},
	{pieces.Rat, 2, 0},
	{pieces.Leopard, 2, 2},
	{pieces.Wolf, 2, 4},
	{pieces.Elephant, 2, 6},
}

// SetToStartPosition clears the board and places both sides' standard
// opening lineups.
func (b *Board) SetToStartPosition() {
	*b = Board{}
	for _, sq := range startSquares {
		// Placements on an empty board cannot fail.
		b.PlacePiece(sq.row, sq.col, sq.kind, pieces.Blue)
		b.PlacePiece(NumRows-1-sq.row, NumCols-1-sq.col, sq.kind, pieces.Red)
	}
}
