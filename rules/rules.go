// Package rules is the move-legality engine: per-piece destination
// generation under the terrain rules, capture legality, and effective-rank
// computation. It never mutates a board.
package rules

import (
	"github.com/AlanRexcop/animal-chess/board"
	"github.com/AlanRexcop/animal-chess/move"
	"github.com/AlanRexcop/animal-chess/pieces"
)

var orthogonal = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// EffectiveRank is the piece's rank after trap neutralization: a piece
// standing in a trap that guards the *opponent's* den has rank 0, so any
// attacker may take it.
func EffectiveRank(b *board.Board, p *board.Piece) int {
	if owner, ok := board.TerrainAt(int(p.Row), int(p.Col)).TrapOwner(); ok && owner != p.Side {
		return 0
	}
	return p.Kind.Rank()
}

// CanCapture reports whether attacker may take defender where they
// currently stand. It holds as a standalone invariant (the evaluator's
// threat scan calls it for squares the attacker could reach), so the
// water restrictions are checked here and not only in move generation.
func CanCapture(b *board.Board, attacker, defender *board.Piece) bool {
	if attacker.Side == defender.Side {
		return false
	}
	attackerInWater := board.TerrainAt(int(attacker.Row), int(attacker.Col)) == board.Water
	defenderInWater := board.TerrainAt(int(defender.Row), int(defender.Col)) == board.Water
	if attackerInWater {
		if attacker.Kind != pieces.Rat {
			return false
		}
		// A swimming Rat only fights in the water.
		return defenderInWater && EffectiveRank(b, attacker) >= EffectiveRank(b, defender)
	}
	if attacker.Kind == pieces.Rat && defender.Kind == pieces.Elephant {
		return true
	}
	if attacker.Kind == pieces.Elephant && defender.Kind == pieces.Rat {
		return false
	}
	return EffectiveRank(b, attacker) >= EffectiveRank(b, defender)
}

// canLand checks the common destination filters for both steps and jumps:
// bounds, own den, water entry, allied blocker, capture legality.
func canLand(b *board.Board, p *board.Piece, row, col int) bool {
	if !board.InBounds(row, col) {
		return false
	}
	t := board.TerrainAt(row, col)
	if owner, ok := t.DenOwner(); ok && owner == p.Side {
		return false
	}
	if t == board.Water && p.Kind != pieces.Rat {
		return false
	}
	occupant := b.PieceAt(row, col)
	if occupant == nil {
		return true
	}
	if occupant.Side == p.Side {
		return false
	}
	return CanCapture(b, p, occupant)
}

// jumpLanding traces a Lion/Tiger river leap from p's square in direction
// (dr,dc). It returns the landing square past the run of water, or ok
// false when the adjacent square is not water or any intervening water
// cell is occupied (a Rat in the river blocks the jump).
func jumpLanding(b *board.Board, p *board.Piece, dr, dc int) (row, col int, ok bool) {
	r, c := int(p.Row)+dr, int(p.Col)+dc
	if !board.InBounds(r, c) || board.TerrainAt(r, c) != board.Water {
		return 0, 0, false
	}
	for board.InBounds(r, c) && board.TerrainAt(r, c) == board.Water {
		if b.PieceAt(r, c) != nil {
			return 0, 0, false
		}
		r += dr
		c += dc
	}
	if !board.InBounds(r, c) {
		return 0, 0, false
	}
	return r, c, true
}

// LegalDestinations returns every square p may move to: the four
// orthogonal steps, plus river jumps for the Lion and the Tiger.
func LegalDestinations(b *board.Board, p *board.Piece) [][2]int {
	dests := make([][2]int, 0, 4)
	jumper := p.Kind == pieces.Lion || p.Kind == pieces.Tiger
	for _, d := range orthogonal {
		r, c := int(p.Row)+d[0], int(p.Col)+d[1]
		if jumper {
			if jr, jc, ok := jumpLanding(b, p, d[0], d[1]); ok && canLand(b, p, jr, jc) {
				dests = append(dests, [2]int{jr, jc})
				continue
			}
		}
		if canLand(b, p, r, c) {
			dests = append(dests, [2]int{r, c})
		}
	}
	return dests
}

// AllLegalMoves generates every legal move for s, with captures annotated.
func AllLegalMoves(b *board.Board, s pieces.Side) []move.Move {
	moves := make([]move.Move, 0, 16)
	b.EachPiece(s, func(p *board.Piece) {
		for _, d := range LegalDestinations(b, p) {
			m := move.New(int(p.Row), int(p.Col), d[0], d[1])
			if occupant := b.PieceAt(d[0], d[1]); occupant != nil {
				m.Captured = occupant.Kind
			}
			moves = append(moves, m)
		}
	})
	return moves
}
