// Package zobrist generates 64-bit position fingerprints for transposition
// table keying, with an O(1) incremental update per move.
// https://en.wikipedia.org/wiki/Zobrist_hashing
package zobrist

import (
	"lukechampine.com/frand"

	"github.com/AlanRexcop/animal-chess/board"
	"github.com/AlanRexcop/animal-chess/move"
	"github.com/AlanRexcop/animal-chess/pieces"
)

const bignum = 1<<63 - 2

// Zobrist holds one independent random value per (side, kind, square)
// tuple plus a side-to-move constant.
type Zobrist struct {
	posTable   [pieces.NumSides][pieces.NumKinds + 1][board.NumRows][board.NumCols]uint64
	blueToMove uint64
}

// Initialize fills the tables with fresh random values. Two initialized
// Zobrists are incompatible; a search request owns exactly one.
func (z *Zobrist) Initialize() {
	for s := 0; s < pieces.NumSides; s++ {
		for k := 1; k <= pieces.NumKinds; k++ {
			for r := 0; r < board.NumRows; r++ {
				for c := 0; c < board.NumCols; c++ {
					z.posTable[s][k][r][c] = frand.Uint64n(bignum) + 1
				}
			}
		}
	}
	z.blueToMove = frand.Uint64n(bignum) + 1
}

// Hash computes the full fingerprint of (placement, side to move).
func (z *Zobrist) Hash(b *board.Board, toMove pieces.Side) uint64 {
	var key uint64
	for s := pieces.Red; s <= pieces.Blue; s++ {
		b.EachPiece(s, func(p *board.Piece) {
			key ^= z.posTable[p.Side][p.Kind][p.Row][p.Col]
		})
	}
	if toMove == pieces.Blue {
		key ^= z.blueToMove
	}
	return key
}

// AddMove advances key by one move of a movedKind piece owned by
// movedSide: XOR out the origin, XOR out the capture victim on the
// destination (if any), XOR in the destination, flip the side to move.
// The result must equal a full Hash of the position after the move.
func (z *Zobrist) AddMove(key uint64, m move.Move, movedKind pieces.Kind, movedSide pieces.Side) uint64 {
	key ^= z.posTable[movedSide][movedKind][m.FromRow][m.FromCol]
	if m.IsCapture() {
		key ^= z.posTable[movedSide.Other()][m.Captured][m.ToRow][m.ToCol]
	}
	key ^= z.posTable[movedSide][movedKind][m.ToRow][m.ToCol]
	key ^= z.blueToMove
	return key
}
