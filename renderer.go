package img2ascii

import (
	"fmt"
	"io"
	"strings"

	"github.com/wbrown/img2ascii/imageutil"
)

// DefaultScale is the scale factor used when none is configured.
const DefaultScale = 7

// Grid is a row-major grid of characters produced by RenderASCII.
type Grid [][]rune

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the number of columns, or 0 for an empty grid.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Lines joins each row into a string.
func (g Grid) Lines() []string {
	lines := make([]string, len(g))
	for i, row := range g {
		lines[i] = string(row)
	}
	return lines
}

// String returns the rows joined by newlines, with a trailing newline.
func (g Grid) String() string {
	var sb strings.Builder
	for _, row := range g {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Save writes the grid to path as text. An existing file is replaced
// only once the whole grid is written.
func (g Grid) Save(path string) error {
	return writeFileAtomic(path, []byte(g.String()))
}

// WriteTo writes the grid line by line.
func (g Grid) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, row := range g {
		m, err := io.WriteString(w, string(row)+"\n")
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// BlockSize returns the pixel block sampled for each output character:
// the table's cell dimensions divided by scale, rounded up.
func BlockSize(meta TableMeta, scale int) (width, height int, err error) {
	if scale < 1 {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidScale, scale)
	}
	if meta.CharWidth <= 0 || meta.CharHeight <= 0 {
		return 0, 0, fmt.Errorf("%w: cell size %dx%d", ErrMissingField,
			meta.CharWidth, meta.CharHeight)
	}
	return ceilDiv(meta.CharWidth, scale), ceilDiv(meta.CharHeight, scale), nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// RenderASCII partitions pix into blockWidth x blockHeight blocks and
// replaces each block by the character whose tabulated brightness is
// closest to the block's.
//
// The grid has max(H/blockHeight, 1) rows and max(W/blockWidth, 1)
// columns. The cell at (i, j) samples RegionBrightness at
// rowOffset = j*blockHeight, colOffset = i*blockWidth. With the row
// index of PixelBuffer.At being horizontal this puts column j at
// x = j*blockHeight. Tables are only correct for this exact walk, so it
// must not be "fixed" for non-square blocks.
func RenderASCII(pix *imageutil.PixelBuffer, table *Table, blockWidth, blockHeight int) (Grid, error) {
	if blockWidth < 1 || blockHeight < 1 {
		return nil, fmt.Errorf("%w: block size %dx%d", ErrInvalidScale, blockWidth, blockHeight)
	}
	if table.Len() == 0 {
		return nil, ErrEmptyTable
	}
	rows := max(pix.Height/blockHeight, 1)
	cols := max(pix.Width/blockWidth, 1)
	tracer().Debugf("rendering %dx%d image as %d rows x %d cols", pix.Width, pix.Height, rows, cols)

	grid := make(Grid, rows)
	for i := 0; i < rows; i++ {
		grid[i] = make([]rune, cols)
		for j := 0; j < cols; j++ {
			b, err := RegionBrightness(pix, blockWidth, blockHeight, j*blockHeight, i*blockWidth)
			if err != nil {
				return nil, err
			}
			code, err := table.ClosestCode(b)
			if err != nil {
				return nil, err
			}
			ch, err := CodeToRune(code)
			if err != nil {
				return nil, err
			}
			grid[i][j] = ch
		}
	}
	return grid, nil
}

// Renderer converts images to ASCII art with a loaded brightness table.
// The table is kept between calls, so one Renderer can convert many
// images.
type Renderer struct {
	// Scale divides the table's cell size to get the sampling block.
	Scale int
	// TargetWidth, if positive, resizes input images so that the output
	// has this many columns. Zero keeps the image size.
	TargetWidth int

	table     *Table
	tablePath string
}

// RendererOption is a functional option for configuring a Renderer.
type RendererOption func(*Renderer)

// NewRenderer creates a new Renderer with the given options.
// Default values: Scale=7, TargetWidth=0, no table.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		Scale: DefaultScale,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithScale sets the scale factor.
func WithScale(scale int) RendererOption {
	return func(r *Renderer) {
		r.Scale = scale
	}
}

// WithTargetWidth sets the target width in characters.
func WithTargetWidth(cols int) RendererOption {
	return func(r *Renderer) {
		r.TargetWidth = cols
	}
}

// WithTable uses an already loaded table.
func WithTable(t *Table) RendererOption {
	return func(r *Renderer) {
		r.table = t
		r.tablePath = ""
	}
}

// LoadTable loads the table at path. Loading the path that is already
// loaded is a no-op.
func (r *Renderer) LoadTable(path string) error {
	if r.table != nil && r.tablePath == path {
		return nil
	}
	t, err := LoadTable(path)
	if err != nil {
		return err
	}
	r.table = t
	r.tablePath = path
	tracer().Debugf("loaded table %s: %d entries, cell %dx%d",
		path, t.Len(), t.Meta.CharWidth, t.Meta.CharHeight)
	return nil
}

// Table returns the loaded table, or nil.
func (r *Renderer) Table() *Table {
	return r.table
}

// Render converts pix using the loaded table.
func (r *Renderer) Render(pix *imageutil.PixelBuffer) (Grid, error) {
	if r.table == nil {
		return nil, fmt.Errorf("%w: no table loaded", ErrMissingField)
	}
	bw, bh, err := BlockSize(r.table.Meta, r.Scale)
	if err != nil {
		return nil, err
	}
	return RenderASCII(pix, r.table, bw, bh)
}

// RenderFile loads the image at path and converts it. With a TargetWidth
// the image is first resized, keeping its aspect ratio, to TargetWidth
// blocks across.
func (r *Renderer) RenderFile(path string) (Grid, error) {
	if r.table == nil {
		return nil, fmt.Errorf("%w: no table loaded", ErrMissingField)
	}
	bw, _, err := BlockSize(r.table.Meta, r.Scale)
	if err != nil {
		return nil, err
	}
	if r.TargetWidth <= 0 {
		pix, err := imageutil.LoadPixels(path)
		if err != nil {
			return nil, err
		}
		return r.Render(pix)
	}

	img, err := imageutil.LoadImage(path)
	if err != nil {
		return nil, err
	}
	resized := imageutil.ResizeToWidth(img, r.TargetWidth*bw, imageutil.InterpolationArea)
	tracer().Debugf("resized %v to %v", img.Bounds().Size(), resized.Bounds().Size())
	return r.Render(imageutil.PixelBufferFromImage(resized))
}

// Convert renders the image at imagePath with the table at tablePath.
// Nothing is rendered if the table cannot be loaded.
func Convert(imagePath, tablePath string, scale int) (Grid, error) {
	if scale < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScale, scale)
	}
	r := NewRenderer(WithScale(scale))
	if err := r.LoadTable(tablePath); err != nil {
		return nil, err
	}
	return r.RenderFile(imagePath)
}

// ConvertAndPrint is Convert followed by writing the grid to w.
func ConvertAndPrint(w io.Writer, imagePath, tablePath string, scale int) error {
	grid, err := Convert(imagePath, tablePath, scale)
	if err != nil {
		return err
	}
	_, err = grid.WriteTo(w)
	return err
}
