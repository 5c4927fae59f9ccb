package img2ascii

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wbrown/img2ascii/imageutil"
)

const testFontSize = 20

// glyphPatch is a labeled solid gray patch.
type glyphPatch struct {
	code  int
	value uint8
}

// writeGlyphDir writes one size x size gray bitmap per patch into dir,
// plus the glyph index, the way BuildCharset lays out a catalog.
func writeGlyphDir(t *testing.T, dir string, size int, glyphs ...glyphPatch) *GlyphIndex {
	t.Helper()
	index := NewGlyphIndex()
	for _, g := range glyphs {
		name := GlyphFileName(g.code, testFontSize, "png")
		img := imageutil.CreateSolidGrayImage(size, size, g.value)
		require.NoError(t, imageutil.SavePNG(img, filepath.Join(dir, name)))
		index.Add(g.code, name)
	}
	require.NoError(t, index.Save(filepath.Join(dir, DefaultMetaFileName)))
	return index
}

func unscaledOptions() TableOptions {
	opts := DefaultTableOptions()
	opts.Scaling = false
	return opts
}

func floatPtr(v float64) *float64 {
	return &v
}
