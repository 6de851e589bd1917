package rules

import (
	"math/rand"
	"testing"

	"github.com/matryer/is"

	"github.com/AlanRexcop/animal-chess/board"
	"github.com/AlanRexcop/animal-chess/pieces"
)

func place(t *testing.T, b *board.Board, r, c int, k pieces.Kind, s pieces.Side) *board.Piece {
	t.Helper()
	if err := b.PlacePiece(r, c, k, s); err != nil {
		t.Fatalf("placing %v at (%d,%d): %v", k, r, c, err)
	}
	return b.PieceAt(r, c)
}

func TestRatCapturesElephantOnLandOnly(t *testing.T) {
	is := is.New(t)
	b := &board.Board{}
	rat := place(t, b, 5, 3, pieces.Rat, pieces.Red)
	elephant := place(t, b, 4, 3, pieces.Elephant, pieces.Blue)

	is.True(CanCapture(b, rat, elephant))
	// Never the reverse.
	is.True(!CanCapture(b, elephant, rat))

	// The same rat attacking from water cannot touch the elephant.
	b2 := &board.Board{}
	wetRat := place(t, b2, 5, 4, pieces.Rat, pieces.Red) // water square
	dryElephant := place(t, b2, 4, 3, pieces.Elephant, pieces.Blue)
	is.Equal(board.TerrainAt(5, 4), board.Water)
	is.True(!CanCapture(b2, wetRat, dryElephant))
}

func TestRatInWaterFightsOnlyInWater(t *testing.T) {
	is := is.New(t)
	b := &board.Board{}
	wetRat := place(t, b, 4, 1, pieces.Rat, pieces.Red)
	enemyWetRat := place(t, b, 4, 2, pieces.Rat, pieces.Blue)
	landWolf := place(t, b, 4, 0, pieces.Wolf, pieces.Blue)

	is.True(CanCapture(b, wetRat, enemyWetRat))
	is.True(!CanCapture(b, wetRat, landWolf))
}

func TestEffectiveRankZeroedInOpponentTrap(t *testing.T) {
	is := is.New(t)
	b := &board.Board{}
	// A Blue elephant standing in a Red trap has rank 0.
	elephant := place(t, b, 7, 3, pieces.Elephant, pieces.Blue)
	is.Equal(EffectiveRank(b, elephant), 0)

	// Off that square, nominal rank.
	b2 := &board.Board{}
	free := place(t, b2, 6, 3, pieces.Elephant, pieces.Blue)
	is.Equal(EffectiveRank(b2, free), 8)

	// A piece in its own side's trap keeps its rank.
	b3 := &board.Board{}
	home := place(t, b3, 7, 3, pieces.Elephant, pieces.Red)
	is.Equal(EffectiveRank(b3, home), 8)
}

func TestTrappedPieceFallsToAnyAttacker(t *testing.T) {
	is := is.New(t)
	b := &board.Board{}
	cat := place(t, b, 7, 2, pieces.Cat, pieces.Red)
	trapped := place(t, b, 7, 3, pieces.Elephant, pieces.Blue)
	is.True(CanCapture(b, cat, trapped))
}

func TestOrthogonalFilters(t *testing.T) {
	is := is.New(t)
	b := &board.Board{}
	// A Red wolf next to its own den may not enter it.
	wolf := place(t, b, 8, 2, pieces.Wolf, pieces.Red)
	for _, d := range LegalDestinations(b, wolf) {
		is.True(!(d[0] == 8 && d[1] == 3))
	}

	// Non-rats may not step into water.
	b2 := &board.Board{}
	leopard := place(t, b2, 2, 1, pieces.Leopard, pieces.Red)
	for _, d := range LegalDestinations(b2, leopard) {
		is.True(board.TerrainAt(d[0], d[1]) != board.Water)
	}

	// Allied blockers prune the square.
	b3 := &board.Board{}
	a := place(t, b3, 2, 3, pieces.Dog, pieces.Red)
	place(t, b3, 2, 4, pieces.Cat, pieces.Red)
	for _, d := range LegalDestinations(b3, a) {
		is.True(!(d[0] == 2 && d[1] == 4))
	}

	// A stronger defender prunes the square too.
	b4 := &board.Board{}
	weak := place(t, b4, 2, 3, pieces.Cat, pieces.Red)
	place(t, b4, 2, 4, pieces.Tiger, pieces.Blue)
	for _, d := range LegalDestinations(b4, weak) {
		is.True(!(d[0] == 2 && d[1] == 4))
	}
}

func TestLionJumpsRiver(t *testing.T) {
	is := is.New(t)
	b := &board.Board{}
	lion := place(t, b, 3, 0, pieces.Lion, pieces.Red)

	dests := LegalDestinations(b, lion)
	// Horizontal jump across the two water columns lands on the center file.
	is.True(containsDest(dests, 3, 3))
	// No stopping in the river.
	for _, d := range dests {
		is.True(board.TerrainAt(d[0], d[1]) != board.Water)
	}
}

func TestTigerVerticalJump(t *testing.T) {
	is := is.New(t)
	b := &board.Board{}
	tiger := place(t, b, 2, 1, pieces.Tiger, pieces.Blue)
	dests := LegalDestinations(b, tiger)
	// Over three water rows, landing on the far bank.
	is.True(containsDest(dests, 6, 1))
}

func TestRatInRiverBlocksJump(t *testing.T) {
	is := is.New(t)
	b := &board.Board{}
	lion := place(t, b, 3, 0, pieces.Lion, pieces.Red)
	place(t, b, 3, 2, pieces.Rat, pieces.Blue)
	is.True(!containsDest(LegalDestinations(b, lion), 3, 3))

	// The jump resumes once the river is clear again.
	b2 := &board.Board{}
	lion2 := place(t, b2, 3, 0, pieces.Lion, pieces.Red)
	is.True(containsDest(LegalDestinations(b2, lion2), 3, 3))
}

func TestJumpLandingObeysCaptureRule(t *testing.T) {
	is := is.New(t)
	// A Lion may jump onto a weaker defender...
	b := &board.Board{}
	lion := place(t, b, 3, 0, pieces.Lion, pieces.Red)
	place(t, b, 3, 3, pieces.Wolf, pieces.Blue)
	is.True(containsDest(LegalDestinations(b, lion), 3, 3))

	// ...but not onto the Elephant.
	b2 := &board.Board{}
	lion2 := place(t, b2, 3, 0, pieces.Lion, pieces.Red)
	place(t, b2, 3, 3, pieces.Elephant, pieces.Blue)
	is.True(!containsDest(LegalDestinations(b2, lion2), 3, 3))
}

// TestNoWaterOccupancyInvariant plays random legal games and asserts no
// generated move ever places a non-Rat in water.
func TestNoWaterOccupancyInvariant(t *testing.T) {
	is := is.New(t)
	rng := rand.New(rand.NewSource(42))
	for game := 0; game < 20; game++ {
		b := board.New()
		toMove := pieces.Red
		for ply := 0; ply < 120; ply++ {
			if b.TerminalState() != board.Ongoing {
				break
			}
			moves := AllLegalMoves(b, toMove)
			if len(moves) == 0 {
				toMove = toMove.Other()
				continue
			}
			m := moves[rng.Intn(len(moves))]
			mover := b.PieceAt(int(m.FromRow), int(m.FromCol))
			if board.TerrainAt(int(m.ToRow), int(m.ToCol)) == board.Water {
				is.Equal(mover.Kind, pieces.Rat)
			}
			before := b.CountPieces(toMove.Other())
			_, err := b.MakeMove(m)
			is.NoErr(err)
			after := b.CountPieces(toMove.Other())
			if m.IsCapture() {
				is.Equal(after, before-1)
			} else {
				is.Equal(after, before)
			}
			toMove = toMove.Other()
		}
	}
}

func TestAllLegalMovesAnnotatesCaptures(t *testing.T) {
	is := is.New(t)
	b := &board.Board{}
	place(t, b, 4, 3, pieces.Lion, pieces.Red)
	place(t, b, 3, 3, pieces.Wolf, pieces.Blue)
	moves := AllLegalMoves(b, pieces.Red)
	found := false
	for _, m := range moves {
		if m.ToRow == 3 && m.ToCol == 3 {
			found = true
			is.Equal(m.Captured, pieces.Wolf)
		}
	}
	is.True(found)
}

func containsDest(dests [][2]int, r, c int) bool {
	for _, d := range dests {
		if d[0] == r && d[1] == c {
			return true
		}
	}
	return false
}
