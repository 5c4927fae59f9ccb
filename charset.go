package img2ascii

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wbrown/img2ascii/imageutil"
)

// glyphExt is the extension of generated glyph bitmaps.
const glyphExt = "png"

// BuildCharset renders every displayable code (see DisplayableCodes) into
// outDir as ascii_<code>_<fontSize>.png and writes the glyph index to
// outDir/meta.txt.
func BuildCharset(r GlyphRenderer, fontSize, cellSize int, outDir string) (*GlyphIndex, error) {
	return BuildGlyphs(r, DisplayableCodes(), fontSize, cellSize, outDir, DefaultMetaFileName)
}

// BuildGlyphs renders the given codes into outDir and writes the glyph
// index to outDir/metaFileName. Codes without a Latin-1 character are
// skipped with a trace message; any other failure aborts before the index
// is written. Characters the renderer reports as missing from the font are
// still rendered, as its fallback glyph, and traced.
func BuildGlyphs(
	r GlyphRenderer,
	codes []int,
	fontSize, cellSize int,
	outDir, metaFileName string,
) (*GlyphIndex, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("invalid cell size %d", cellSize)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outDir, err)
	}

	index := NewGlyphIndex()
	for _, code := range codes {
		ch, err := CodeToRune(code)
		if err != nil {
			tracer().Infof("%d couldn't render: %v", code, err)
			continue
		}
		tracer().Debugf("generating %d", code)
		if gc, ok := r.(glyphChecker); ok && !gc.HasGlyph(ch) {
			tracer().Infof("%d (%q) has no glyph in the font, using the fallback", code, ch)
		}

		img, err := r.RenderGlyph(ch, cellSize)
		if err != nil {
			return nil, err
		}
		name := GlyphFileName(code, fontSize, glyphExt)
		if err := imageutil.SavePNG(img, filepath.Join(outDir, name)); err != nil {
			return nil, fmt.Errorf("failed to save glyph %d: %w", code, err)
		}
		index.Add(code, name)
	}
	tracer().Infof("generated %d glyphs in %s", index.Len(), outDir)

	metaPath := filepath.Join(outDir, metaFileName)
	if err := index.Save(metaPath); err != nil {
		return nil, err
	}
	tracer().Infof("wrote glyph index to %s", metaPath)
	return index, nil
}
