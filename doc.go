/*
Package img2ascii converts raster images into ASCII art by brightness
matching.

The pipeline has three stages. A glyph catalog is rendered from a TrueType
font: one square bitmap per displayable Latin-1 code, plus a glyph index
mapping codes to file names and back (BuildCharset). A brightness table is
derived from a directory of such bitmaps, or of any same-format labeled
image patches, by averaging every image's brightness (BuildTable). Finally
an image is cut into blocks whose size follows the table's glyph cell size,
and every block is replaced by the glyph with the closest tabulated
brightness (Renderer).

Tables and glyph indexes are persisted as JSON; see Table and GlyphIndex
for the schemas.
*/
package img2ascii

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'img2ascii'.
func tracer() tracing.Trace {
	return tracing.Select("img2ascii")
}
