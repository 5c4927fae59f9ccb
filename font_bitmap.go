package img2ascii

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	// glyphInsetX is the horizontal offset of the pen from the left edge
	// of the cell. Text starts at the top edge of the cell.
	glyphInsetX = 5
	glyphInsetY = 0

	// fontDPI is 72 so that font sizes in points equal sizes in pixels.
	fontDPI = 72
)

// GlyphRenderer renders a single character into a square raster of side
// cellSize.
type GlyphRenderer interface {
	RenderGlyph(r rune, cellSize int) (image.Image, error)
}

// glyphChecker is implemented by renderers that can tell whether a
// character has a real glyph.
type glyphChecker interface {
	HasGlyph(r rune) bool
}

// FontRenderer is a GlyphRenderer backed by a TrueType font at a fixed
// size. Glyphs are drawn white on black, starting near the top-left
// corner of the cell.
type FontRenderer struct {
	font   *truetype.Font
	name   string
	size   float64
	ascent int
}

// LoadFontRenderer loads a TrueType font from path. If path does not name
// an existing file it is looked up as a system font name.
func LoadFontRenderer(path string, fontSize int) (*FontRenderer, error) {
	resolved, err := resolveFontPath(path)
	if err != nil {
		return nil, err
	}
	fontBytes, err := os.ReadFile(resolved)
	if err != nil {
		return nil, err
	}
	return NewFontRenderer(fontBytes, filepath.Base(resolved), fontSize)
}

// NewFontRenderer parses fontBytes and prepares a renderer for fontSize.
func NewFontRenderer(fontBytes []byte, name string, fontSize int) (*FontRenderer, error) {
	if fontSize <= 0 {
		return nil, fmt.Errorf("invalid font size %d", fontSize)
	}
	ttfFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}

	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    float64(fontSize),
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	return &FontRenderer{
		font:   ttfFont,
		name:   name,
		size:   float64(fontSize),
		ascent: face.Metrics().Ascent.Ceil(),
	}, nil
}

// Name returns the file name of the font.
func (fr *FontRenderer) Name() string {
	return fr.name
}

// HasGlyph reports whether the font maps r to a real glyph rather than
// the missing-glyph box.
func (fr *FontRenderer) HasGlyph(r rune) bool {
	return fr.font.Index(r) != 0
}

// RenderGlyph renders r into a cellSize x cellSize RGB raster. The
// baseline sits one ascent below the top inset so that the top of the
// text lines up with the top of the cell.
func (fr *FontRenderer) RenderGlyph(r rune, cellSize int) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, cellSize, cellSize))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	ctx := freetype.NewContext()
	ctx.SetDPI(fontDPI)
	ctx.SetFont(fr.font)
	ctx.SetFontSize(fr.size)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	pt := freetype.Pt(glyphInsetX, glyphInsetY+fr.ascent)
	if _, err := ctx.DrawString(string(r), pt); err != nil {
		return nil, fmt.Errorf("failed to draw %q with %s: %w", r, fr.name, err)
	}
	return img, nil
}

// resolveFontPath returns path if it exists, otherwise the location of a
// system font with that name.
func resolveFontPath(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	found, err := findfont.Find(path)
	if err != nil {
		return "", fmt.Errorf("font %s not found: %w", path, err)
	}
	tracer().Debugf("%s is a system font at %s", path, found)
	return found, nil
}
