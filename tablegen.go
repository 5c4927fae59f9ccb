package img2ascii

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wbrown/img2ascii/imageutil"
)

// DefaultTableFileName is the file a table is written to when no other
// name is given.
const DefaultTableFileName = "table.txt"

// TableOptions configures BuildTable.
type TableOptions struct {
	// Extension selects the image files to read, compared
	// case-insensitively without the leading dot.
	Extension string
	// Precision is the number of decimal digits brightness values are
	// rounded to before they become table keys.
	Precision int
	// MetaFileName is the name of the glyph index inside the source
	// directory.
	MetaFileName string
	// Scaling remaps the keys onto [0,255] after the table is built.
	Scaling bool
}

// DefaultTableOptions returns png files, 4 digits, meta.txt and scaling
// enabled.
func DefaultTableOptions() TableOptions {
	return TableOptions{
		Extension:    "png",
		Precision:    4,
		MetaFileName: DefaultMetaFileName,
		Scaling:      true,
	}
}

// Collision records an image whose rounded brightness was already taken
// by an earlier image. The earlier code is kept.
type Collision struct {
	Brightness float64
	Kept       int
	Dropped    int
	File       string
}

// ListImageFiles returns the names (not paths) of the regular files in
// dir whose extension matches ext case-insensitively, in lexicographic
// order. The search is not recursive.
func ListImageFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", dir, err)
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	var result []string
	for _, e := range entries {
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if strings.ToLower(lastExtension(e.Name())) == ext {
			result = append(result, e.Name())
		}
	}
	return result, nil
}

// lastExtension returns the text after the last dot, or the whole name if
// there is no dot.
func lastExtension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// roundTo rounds v to precision decimal digits using correctly rounded
// decimal conversion.
func roundTo(v float64, precision int) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', precision, 64), 64)
	return r
}

// BuildTable computes the brightness table for the labeled images in
// sourceDir.
//
// Images are processed in lexicographic file name order. Each image's
// code comes from the glyph index in sourceDir; its brightness is the
// average over the full image, rounded to opts.Precision digits. When two
// images round to the same brightness the first one is kept and the
// collision is reported, not treated as an error. Stats hold the range of
// the unscaled keys and Meta the size of the last image processed.
//
// With opts.Scaling the keys are rescaled onto [0,255]. If all keys are
// equal there is nothing to scale and the unscaled table is returned.
func BuildTable(sourceDir string, opts TableOptions) (*Table, []Collision, error) {
	if opts.Precision < 0 {
		return nil, nil, fmt.Errorf("invalid precision %d", opts.Precision)
	}
	if opts.MetaFileName == "" {
		opts.MetaFileName = DefaultMetaFileName
	}
	images, err := ListImageFiles(sourceDir, opts.Extension)
	if err != nil {
		return nil, nil, err
	}
	index, err := LoadGlyphIndex(filepath.Join(sourceDir, opts.MetaFileName))
	if err != nil {
		return nil, nil, err
	}

	tracer().Infof("generating table from %d images in %s", len(images), sourceDir)
	table := NewTable()
	table.Meta.SourceFolder = sourceDir
	if opts.MetaFileName != DefaultMetaFileName {
		table.Meta.IndexFile = opts.MetaFileName
	}
	var collisions []Collision
	var minVal, maxVal *float64

	for _, name := range images {
		code, ok := index.Code(name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s is not in the glyph index", ErrMissingMetadata, name)
		}
		pix, err := imageutil.LoadPixels(filepath.Join(sourceDir, name))
		if err != nil {
			return nil, nil, err
		}
		table.Meta.CharWidth, table.Meta.CharHeight = pix.Width, pix.Height

		avg, err := ImageBrightness(pix)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		avg = roundTo(avg, opts.Precision)
		tracer().Debugf("%s: code %d brightness %v", name, code, avg)

		if !table.Insert(avg, code) {
			kept, _ := table.Code(avg)
			tracer().Infof("hash collision: %d %d", kept, code)
			collisions = append(collisions, Collision{
				Brightness: avg, Kept: kept, Dropped: code, File: name,
			})
			continue
		}
		if minVal == nil || avg < *minVal {
			v := avg
			minVal = &v
		}
		if maxVal == nil || avg > *maxVal {
			v := avg
			maxVal = &v
		}
	}
	table.Stats = TableStats{MinBrightness: minVal, MaxBrightness: maxVal}

	if opts.Scaling && table.Len() > 0 {
		scaled, err := table.Rescaled()
		switch {
		case errors.Is(err, ErrDegenerateRange):
			tracer().Infof("warning: not scaling table: %v", err)
		case err != nil:
			return nil, nil, err
		default:
			table = scaled
		}
	}
	return table, collisions, nil
}

// GenerateTable builds the table for sourceDir and writes it to outFile.
// Nothing is written if the build fails.
func GenerateTable(sourceDir, outFile string, opts TableOptions) (*Table, []Collision, error) {
	table, collisions, err := BuildTable(sourceDir, opts)
	if err != nil {
		return nil, nil, err
	}
	tracer().Infof("writing table to: %s", outFile)
	if err := table.Save(outFile); err != nil {
		return nil, nil, err
	}
	return table, collisions, nil
}

// TableFromFont renders the glyph catalog for a font into glyphDir and
// builds and writes its table to outFile.
func TableFromFont(
	fontFile string,
	fontSize, cellSize int,
	glyphDir, outFile string,
	opts TableOptions,
) (*Table, []Collision, error) {
	renderer, err := LoadFontRenderer(fontFile, fontSize)
	if err != nil {
		return nil, nil, err
	}
	if opts.MetaFileName == "" {
		opts.MetaFileName = DefaultMetaFileName
	}
	if _, err := BuildGlyphs(renderer, DisplayableCodes(), fontSize, cellSize,
		glyphDir, opts.MetaFileName); err != nil {
		return nil, nil, err
	}
	opts.Extension = glyphExt
	return GenerateTable(glyphDir, outFile, opts)
}
