package img2ascii

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultMetaFileName is the name of the glyph index file stored next to
// the glyph bitmaps.
const DefaultMetaFileName = "meta.txt"

// GlyphIndex maps character codes to glyph bitmap file names and back.
// Both directions are always updated together.
//
// On disk it is a JSON object:
//
//	{"i2file": {"65": "ascii_65_20.png", ...}, "file2i": {"ascii_65_20.png": 65, ...}}
type GlyphIndex struct {
	CodeToFile map[int]string `json:"i2file"`
	FileToCode map[string]int `json:"file2i"`
}

// NewGlyphIndex creates an empty index.
func NewGlyphIndex() *GlyphIndex {
	return &GlyphIndex{
		CodeToFile: make(map[int]string),
		FileToCode: make(map[string]int),
	}
}

// GlyphFileName returns the bitmap file name for a code rendered at the
// given font size: "ascii_<code>_<fontSize>.<ext>".
func GlyphFileName(code, fontSize int, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return "ascii_" + strconv.Itoa(code) + "_" + strconv.Itoa(fontSize) + "." + ext
}

// Add records code <-> file in both directions.
func (g *GlyphIndex) Add(code int, file string) {
	g.CodeToFile[code] = file
	g.FileToCode[file] = code
}

// Code returns the character code for a file name.
func (g *GlyphIndex) Code(file string) (int, bool) {
	code, ok := g.FileToCode[file]
	return code, ok
}

// File returns the file name for a character code.
func (g *GlyphIndex) File(code int) (string, bool) {
	file, ok := g.CodeToFile[code]
	return file, ok
}

// Len returns the number of indexed glyphs.
func (g *GlyphIndex) Len() int {
	return len(g.CodeToFile)
}

// Save writes the index as indented JSON. The file is replaced atomically.
func (g *GlyphIndex) Save(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode glyph index: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// LoadGlyphIndex reads a glyph index. A missing file, or a file lacking
// either mapping, yields ErrMissingMetadata.
func LoadGlyphIndex(path string) (*GlyphIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrMissingMetadata, path)
		}
		return nil, fmt.Errorf("error reading glyph index: %w", err)
	}
	var g GlyphIndex
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingMetadata, path, err)
	}
	if g.CodeToFile == nil || g.FileToCode == nil {
		return nil, fmt.Errorf("%w: did not find \"i2file\" or \"file2i\" in %s",
			ErrMissingMetadata, path)
	}
	return &g, nil
}
