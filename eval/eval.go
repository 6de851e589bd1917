// Package eval scores positions heuristically from one side's point of
// view. The weight set is explicit and overridable; the thresholds here
// were tuned empirically, so they are carried as named knobs rather than
// re-derived.
package eval

import (
	"github.com/AlanRexcop/animal-chess/board"
	"github.com/AlanRexcop/animal-chess/pieces"
	"github.com/AlanRexcop/animal-chess/rules"
)

// WinScore is the terminal magnitude. It exceeds any reachable heuristic
// sum by a wide margin so the search can recognize forced wins by value.
const WinScore = 1_000_000

// Weights holds every tunable term of the evaluation.
type Weights struct {
	// AdvancePerRow rewards each row of forward progress.
	AdvancePerRow int `mapstructure:"advance-per-row"`
	// LingerPenalty is charged to attacking kinds still within
	// LingerRows of their own baseline.
	LingerPenalty int `mapstructure:"linger-penalty"`
	LingerRows    int `mapstructure:"linger-rows"`
	// TrappedPenalty is charged while a piece stands rank-zeroed in an
	// opponent trap.
	TrappedPenalty int `mapstructure:"trapped-penalty"`
	// DenApproach decays with Chebyshev distance to the enemy den and only
	// applies once the piece has crossed the midline.
	DenApproach int `mapstructure:"den-approach"`
	// CentralControl is a flat bonus for each of the fixed central squares.
	CentralControl int `mapstructure:"central-control"`
	// ThreatCapture / ThreatAdjacent reward threatening an enemy piece this
	// turn; an immediately legal capture counts for more than contact.
	ThreatCapture  int `mapstructure:"threat-capture"`
	ThreatAdjacent int `mapstructure:"threat-adjacent"`
	// Rat/Elephant pairing motif. RatHuntDistance is the Chebyshev radius.
	RatNearElephant int `mapstructure:"rat-near-elephant"`
	ElephantNearRat int `mapstructure:"elephant-near-rat"`
	RatHuntDistance int `mapstructure:"rat-hunt-distance"`
}

// DefaultWeights are the tuned values.
func DefaultWeights() Weights {
	return Weights{
		AdvancePerRow:   25,
		LingerPenalty:   40,
		LingerRows:      1,
		TrappedPenalty:  150,
		DenApproach:     300,
		CentralControl:  30,
		ThreatCapture:   60,
		ThreatAdjacent:  15,
		RatNearElephant: 80,
		ElephantNearRat: 80,
		RatHuntDistance: 2,
	}
}

// centralSquares are the land squares worth holding: the river crossings
// and the two river mouths on the center file.
var centralSquares = [][2]int{{3, 3}, {4, 0}, {4, 3}, {4, 6}, {5, 3}}

// Evaluator scores boards with a fixed weight set. It is stateless apart
// from the weights and safe to share between requests.
type Evaluator struct {
	w Weights
}

func New(w Weights) *Evaluator {
	return &Evaluator{w: w}
}

func (e *Evaluator) Weights() Weights {
	return e.w
}

// Score returns the heuristic value of b from perspective's view. It is
// antisymmetric: Score(b, A) == -Score(b, B).
func (e *Evaluator) Score(b *board.Board, perspective pieces.Side) int {
	switch st := b.TerminalState(); st {
	case board.Draw:
		return 0
	case board.RedWins, board.BlueWins:
		winner, _ := st.Winner()
		if winner == perspective {
			return WinScore
		}
		return -WinScore
	}
	return e.sideScore(b, perspective) - e.sideScore(b, perspective.Other())
}

func (e *Evaluator) sideScore(b *board.Board, s pieces.Side) int {
	denRow, denCol := board.DenSquare(s.Other())
	total := 0
	b.EachPiece(s, func(p *board.Piece) {
		total += p.Kind.Value()

		advanced := rowsAdvanced(p)
		total += advanced * e.w.AdvancePerRow
		if advanced <= e.w.LingerRows && isAttacker(p.Kind) {
			total -= e.w.LingerPenalty
		}
		if rules.EffectiveRank(b, p) == 0 {
			total -= e.w.TrappedPenalty
		}
		if advanced > board.NumRows/2 {
			total += e.w.DenApproach / (1 + chebyshev(int(p.Row), int(p.Col), denRow, denCol))
		}
		for _, sq := range centralSquares {
			if int(p.Row) == sq[0] && int(p.Col) == sq[1] {
				total += e.w.CentralControl
			}
		}
		total += e.threatScore(b, p)
		total += e.huntScore(b, p)
	})
	return total
}

// threatScore scans the squares p attacks this turn: the orthogonal
// neighbors plus, for the jumper kinds, the river-jump landings. An enemy
// we could legally take now is a capture threat; any other enemy contact
// is worth the smaller adjacency bonus.
func (e *Evaluator) threatScore(b *board.Board, p *board.Piece) int {
	score := 0
	for _, d := range rules.LegalDestinations(b, p) {
		if victim := b.PieceAt(d[0], d[1]); victim != nil {
			// Destinations are pre-filtered by the capture rule.
			score += e.w.ThreatCapture
		}
	}
	for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		r, c := int(p.Row)+d[0], int(p.Col)+d[1]
		if !board.InBounds(r, c) {
			continue
		}
		victim := b.PieceAt(r, c)
		if victim == nil || victim.Side == p.Side {
			continue
		}
		if !rules.CanCapture(b, p, victim) {
			score += e.w.ThreatAdjacent
		}
	}
	return score
}

// huntScore applies the Rat/Elephant tactical motif: a Rat stalking the
// opposing Elephant is an asset, an Elephant with the opposing Rat nearby
// is a liability.
func (e *Evaluator) huntScore(b *board.Board, p *board.Piece) int {
	var target pieces.Kind
	sign := 0
	switch p.Kind {
	case pieces.Rat:
		target, sign = pieces.Elephant, 1
	case pieces.Elephant:
		target, sign = pieces.Rat, -1
	default:
		return 0
	}
	score := 0
	b.EachPiece(p.Side.Other(), func(q *board.Piece) {
		if q.Kind != target {
			return
		}
		if chebyshev(int(p.Row), int(p.Col), int(q.Row), int(q.Col)) <= e.w.RatHuntDistance {
			if sign > 0 {
				score += e.w.RatNearElephant
			} else {
				score -= e.w.ElephantNearRat
			}
		}
	})
	return score
}

// isAttacker reports whether the kind is expected to advance; the Cat and
// the Dog conventionally stay home to guard the traps.
func isAttacker(k pieces.Kind) bool {
	return k != pieces.Cat && k != pieces.Dog
}

func rowsAdvanced(p *board.Piece) int {
	if p.Side == pieces.Red {
		return board.NumRows - 1 - int(p.Row)
	}
	return int(p.Row)
}

func chebyshev(r1, c1, r2, c2 int) int {
	dr := abs(r1 - r2)
	dc := abs(c1 - c2)
	if dr > dc {
		return dr
	}
	return dc
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
