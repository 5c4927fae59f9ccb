package img2ascii

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/img2ascii/imageutil"
)

func TestRenderPreview(t *testing.T) {
	dir := t.TempDir()
	writeGlyphDir(t, dir, 10, glyphPatch{65, 50}, glyphPatch{66, 200})
	table, _, err := BuildTable(dir, unscaledOptions())
	require.NoError(t, err)

	grid := Grid{[]rune("AB"), []rune("B?")}
	img, err := RenderPreview(grid, table)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 20), img.Bounds())

	gray := func(v uint8) color.RGBA { return color.RGBA{R: v, G: v, B: v, A: 255} }
	assert.Equal(t, gray(50), img.RGBAAt(5, 5))
	assert.Equal(t, gray(200), img.RGBAAt(15, 5))
	assert.Equal(t, gray(200), img.RGBAAt(5, 15))
	// '?' has no glyph in the catalog
	assert.Equal(t, gray(0), img.RGBAAt(15, 15))
}

func TestSavePreview(t *testing.T) {
	dir := t.TempDir()
	writeGlyphDir(t, dir, 10, glyphPatch{65, 50})
	table, _, err := BuildTable(dir, unscaledOptions())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "preview.png")
	require.NoError(t, SavePreview(Grid{[]rune("AAA")}, table, out))
	pix, err := imageutil.LoadPixels(out)
	require.NoError(t, err)
	assert.Equal(t, 30, pix.Width)
	assert.Equal(t, 10, pix.Height)
}

func TestRenderPreviewNeedsGlyphIndex(t *testing.T) {
	table := twoGlyphTable()
	table.Meta.SourceFolder = t.TempDir()
	_, err := RenderPreview(Grid{[]rune("A")}, table)
	assert.ErrorIs(t, err, ErrMissingMetadata)
}

func TestRenderPreviewCustomIndexName(t *testing.T) {
	dir := t.TempDir()
	writeGlyphDir(t, dir, 10, glyphPatch{65, 50})
	require.NoError(t, os.Rename(filepath.Join(dir, DefaultMetaFileName), filepath.Join(dir, "glyphs.json")))

	opts := unscaledOptions()
	opts.MetaFileName = "glyphs.json"
	tablePath := filepath.Join(t.TempDir(), DefaultTableFileName)
	_, _, err := GenerateTable(dir, tablePath, opts)
	require.NoError(t, err)

	// the index name has to survive the trip through the table file
	table, err := LoadTable(tablePath)
	require.NoError(t, err)
	assert.Equal(t, "glyphs.json", table.Meta.IndexFile)

	img, err := RenderPreview(Grid{[]rune("A")}, table)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 50, G: 50, B: 50, A: 255}, img.RGBAAt(5, 5))
}
