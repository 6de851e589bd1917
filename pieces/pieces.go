// Package pieces defines the sides, animal kinds, ranks and evaluation
// values shared by every other package. It is the leaf of the dependency
// graph; nothing here knows about boards or moves.
package pieces

import "fmt"

// Side is one of the two competing players. Red sits on the bottom rows
// (high row indices) and advances toward row 0; Blue is mirrored.
type Side int8

const (
	Red Side = iota
	Blue
)

// NumSides is the number of players in a game.
const NumSides = 2

func (s Side) Other() Side {
	return 1 - s
}

func (s Side) Valid() bool {
	return s == Red || s == Blue
}

func (s Side) String() string {
	switch s {
	case Red:
		return "Red"
	case Blue:
		return "Blue"
	}
	return fmt.Sprintf("Side(%d)", int8(s))
}

// Kind is one of the eight animal kinds. The zero value means "no piece",
// which lets a Kind field double as an optional in Move and in the wire
// codec.
type Kind int8

const (
	NoKind Kind = iota
	Rat
	Cat
	Dog
	Wolf
	Leopard
	Tiger
	Lion
	Elephant
)

// NumKinds is the number of animal kinds per side.
const NumKinds = 8

// Rank is the strength ordering used for capture comparisons. Kinds are
// numbered so that the rank is the kind's own numeric value.
func (k Kind) Rank() int {
	return int(k)
}

// kindValues are the evaluation material weights. They are deliberately not
// proportional to rank: the Rat outvalues the mid ranks because of its
// Elephant-hunting and river-blocking roles.
var kindValues = [NumKinds + 1]int{0, 550, 200, 300, 400, 600, 800, 900, 1000}

// Value is the material weight of the kind, used only by the evaluator.
func (k Kind) Value() int {
	return kindValues[k]
}

func (k Kind) Valid() bool {
	return k >= Rat && k <= Elephant
}

var kindNames = [NumKinds + 1]string{
	"none", "Rat", "Cat", "Dog", "Wolf", "Leopard", "Tiger", "Lion", "Elephant",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int8(k))
	}
	return kindNames[k]
}

var kindRunes = [NumKinds + 1]rune{'.', 'R', 'C', 'D', 'W', 'P', 'T', 'L', 'E'}

// Rune returns the board-text rune for a piece of this kind and side.
// Red pieces are uppercase, Blue lowercase. The empty kind maps to '.'.
func (k Kind) Rune(s Side) rune {
	r := kindRunes[k]
	if k != NoKind && s == Blue {
		r += 'a' - 'A'
	}
	return r
}

// FromRune is the inverse of Rune. It reports the kind, the side, and
// whether the rune named a piece at all.
func FromRune(r rune) (Kind, Side, bool) {
	side := Red
	if r >= 'a' && r <= 'z' {
		side = Blue
		r -= 'a' - 'A'
	}
	for k := Rat; k <= Elephant; k++ {
		if kindRunes[k] == r {
			return k, side, true
		}
	}
	return NoKind, Red, false
}
