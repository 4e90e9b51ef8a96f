package domain

import "strings"

// Alphabet orders glyphs by how often a cell was entered. The last entry is
// reserved for the end of the walk.
var Alphabet = [...]string{" ", ".", "o", "O", "+", "=", "*", "B", "E"}

// EndGlyph marks the cell the walk finished on.
const EndGlyph = "E"

// CellGlyph returns the glyph for a cell entered count times. The final cell
// of a walk is always EndGlyph. Counts saturate at the glyph before it.
func CellGlyph(count int, final bool) string {
	if final {
		return EndGlyph
	}
	return Alphabet[clamp(count, 0, len(Alphabet)-2)]
}

// Grid is a rendered field of glyphs, indexed [y][x].
type Grid [][]string

// NewGrid returns a blank grid of the given size.
func NewGrid(b Bounds) Grid {
	g := make(Grid, b.Height)
	for y := range g {
		row := make([]string, b.Width)
		for x := range row {
			row[x] = Alphabet[0]
		}
		g[y] = row
	}
	return g
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for y, row := range g {
		out[y] = append([]string(nil), row...)
	}
	return out
}

// String joins the rows with newlines.
func (g Grid) String() string {
	var sb strings.Builder
	for y, row := range g {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			sb.WriteString(cell)
		}
	}
	return sb.String()
}

// GlyphAt returns the glyph step i of the walk reveals.
func (w Walk) GlyphAt(i int) string {
	p := w.Steps[i]
	return CellGlyph(w.Counts[p.Y][p.X], i == len(w.Steps)-1)
}

// Render draws the fully revealed walk.
func (w Walk) Render() Grid {
	g := NewGrid(w.Bounds)
	for i, p := range w.Steps {
		g[p.Y][p.X] = w.GlyphAt(i)
	}
	return g
}
