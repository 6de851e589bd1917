package board

import (
	"fmt"
	"strings"
)

// ToDisplayText renders the board for the shell, with coordinates and
// terrain markers on empty squares: ~ water, * trap, # den.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("   a b c d e f g\n")
	for r := 0; r < NumRows; r++ {
		fmt.Fprintf(&sb, "%d  ", 9-r)
		for c := 0; c < NumCols; c++ {
			if p := b.squares[r][c]; p != nil {
				sb.WriteRune(p.Kind.Rune(p.Side))
			} else {
				switch TerrainAt(r, c) {
				case Water:
					sb.WriteByte('~')
				case RedTrap, BlueTrap:
					sb.WriteByte('*')
				case RedDen, BlueDen:
					sb.WriteByte('#')
				default:
					sb.WriteByte('.')
				}
			}
			if c < NumCols-1 {
				sb.WriteByte(' ')
			}
		}
		fmt.Fprintf(&sb, "  %d\n", 9-r)
	}
	sb.WriteString("   a b c d e f g")
	return sb.String()
}
