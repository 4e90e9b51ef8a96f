// Package svg draws randomart grids as SVG documents.
package svg

import (
	"fmt"
	"io"

	svgo "github.com/ajstarks/svgo"

	"github.com/rkissoon/randomart/internal/domain"
)

// Style controls the look of a rendered grid.
type Style struct {
	// Cell is the side of one square cell in pixels.
	Cell       int
	Padding    int
	Background string
	Foreground string
	// Highlight colours the glyph under the cursor.
	Highlight string
	Font      string
}

// DefaultStyle mirrors the site's dark card: light glyphs on brown, with
// the cursor in red.
var DefaultStyle = Style{
	Cell:       16,
	Padding:    8,
	Background: "#272120",
	Foreground: "#e5e7eb",
	Highlight:  "#ef4444",
	Font:       "monospace",
}

// Render writes g as an SVG document. When cursor is not nil the glyph in
// that cell is drawn in the highlight colour, and an empty cell under the
// cursor gets an outline so the position stays visible.
func Render(w io.Writer, g domain.Grid, cursor *domain.Position, style Style) {
	height := len(g)
	width := 0
	if height > 0 {
		width = len(g[0])
	}

	canvasW := width*style.Cell + 2*style.Padding
	canvasH := height*style.Cell + 2*style.Padding

	canvas := svgo.New(w)
	canvas.Start(canvasW, canvasH)
	canvas.Title("randomart")
	canvas.Rect(0, 0, canvasW, canvasH, "fill:"+style.Background)
	canvas.Gstyle(fmt.Sprintf("font-family:%s;font-size:%dpx;text-anchor:middle;fill:%s",
		style.Font, style.Cell*3/4, style.Foreground))

	for y, row := range g {
		for x, glyph := range row {
			cx := style.Padding + x*style.Cell + style.Cell/2
			cy := style.Padding + y*style.Cell + style.Cell*3/4

			active := cursor != nil && cursor.X == x && cursor.Y == y
			switch {
			case active && glyph == domain.Alphabet[0]:
				canvas.Rect(style.Padding+x*style.Cell, style.Padding+y*style.Cell, style.Cell, style.Cell,
					"fill:none;stroke:"+style.Highlight)
			case active:
				canvas.Text(cx, cy, glyph, "font-weight:bold;fill:"+style.Highlight)
			case glyph != domain.Alphabet[0]:
				canvas.Text(cx, cy, glyph)
			}
		}
	}

	canvas.Gend()
	canvas.End()
}

// RenderWalk writes the fully revealed walk with its end cell highlighted.
func RenderWalk(w io.Writer, walk domain.Walk, style Style) {
	var cursor *domain.Position
	if end, ok := walk.End(); ok {
		cursor = &end
	}
	Render(w, walk.Render(), cursor, style)
}
