package move

import (
	"testing"

	"github.com/matryer/is"

	"github.com/AlanRexcop/animal-chess/pieces"
)

func TestNotationRoundTrip(t *testing.T) {
	is := is.New(t)
	m := New(6, 6, 5, 6)
	is.Equal(m.String(), "g3g4")
	parsed, err := Parse("g3g4")
	is.NoErr(err)
	is.True(parsed.Equals(m))

	// Corners.
	is.Equal(New(0, 0, 8, 6).String(), "a9g1")
}

func TestParseRejectsGarbage(t *testing.T) {
	is := is.New(t)
	for _, bad := range []string{"", "a3", "h1a1", "a0b1", "a3b", "33ab"} {
		_, err := Parse(bad)
		is.True(err != nil)
	}
}

func TestEqualsIgnoresCaptureAnnotation(t *testing.T) {
	is := is.New(t)
	a := New(4, 3, 3, 3)
	b := a
	b.Captured = pieces.Wolf
	is.True(a.Equals(b))
	is.True(!a.IsCapture())
	is.True(b.IsCapture())
	is.True(a.Zero() == false)
	is.True(Move{}.Zero())
}
