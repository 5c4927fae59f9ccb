package img2ascii

import (
	"fmt"
	"image"
	"image/draw"
	"path/filepath"

	"github.com/wbrown/img2ascii/imageutil"
)

// RenderPreview draws grid as an image by tiling the glyph bitmaps the
// table was built from. The glyphs are looked up through the glyph index
// recorded in table.Meta; each character occupies one
// CharWidth x CharHeight tile. Characters without a glyph are left black.
func RenderPreview(grid Grid, table *Table) (*image.RGBA, error) {
	cw, ch := table.Meta.CharWidth, table.Meta.CharHeight
	if cw <= 0 || ch <= 0 {
		return nil, fmt.Errorf("%w: cell size %dx%d", ErrMissingField, cw, ch)
	}
	dir := table.Meta.SourceFolder
	index, err := LoadGlyphIndex(table.Meta.indexPath())
	if err != nil {
		return nil, err
	}

	out := image.NewRGBA(image.Rect(0, 0, grid.Cols()*cw, grid.Rows()*ch))
	draw.Draw(out, out.Bounds(), image.Black, image.Point{}, draw.Src)

	glyphs := make(map[rune]image.Image)
	for i, row := range grid {
		for j, r := range row {
			glyph, seen := glyphs[r]
			if !seen {
				glyph, err = loadGlyph(dir, index, r)
				if err != nil {
					return nil, err
				}
				glyphs[r] = glyph
			}
			if glyph == nil {
				continue
			}
			tile := image.Rect(j*cw, i*ch, (j+1)*cw, (i+1)*ch)
			draw.Draw(out, tile, glyph, glyph.Bounds().Min, draw.Src)
		}
	}
	return out, nil
}

// loadGlyph returns the bitmap for r, or nil if the index has none.
func loadGlyph(dir string, index *GlyphIndex, r rune) (image.Image, error) {
	code, err := RuneToCode(r)
	if err != nil {
		return nil, nil
	}
	file, ok := index.File(code)
	if !ok {
		tracer().Debugf("no glyph for %q in %s", r, dir)
		return nil, nil
	}
	return imageutil.LoadImage(filepath.Join(dir, file))
}

// SavePreview renders grid with RenderPreview and writes it as PNG.
func SavePreview(grid Grid, table *Table, path string) error {
	img, err := RenderPreview(grid, table)
	if err != nil {
		return err
	}
	return imageutil.SavePNG(img, path)
}
