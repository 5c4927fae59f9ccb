package img2ascii

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/img2ascii/imageutil"
)

// twoGlyphTable returns a table of 'A' at 50 and 'B' at 200 with a
// 20x20 cell.
func twoGlyphTable() *Table {
	table := NewTable()
	table.Insert(50, 65)
	table.Insert(200, 66)
	table.Stats = TableStats{MinBrightness: floatPtr(50), MaxBrightness: floatPtr(200)}
	table.Meta = TableMeta{SourceFolder: "glyphs", CharWidth: 20, CharHeight: 20}
	return table
}

func TestBlockSize(t *testing.T) {
	meta := TableMeta{CharWidth: 20, CharHeight: 12}
	tests := []struct {
		scale int
		wantW int
		wantH int
	}{
		{1, 20, 12},
		{2, 10, 6},
		{3, 7, 4},
		{7, 3, 2},
		{40, 1, 1},
	}
	for _, tt := range tests {
		w, h, err := BlockSize(meta, tt.scale)
		require.NoError(t, err)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("BlockSize(scale=%d) = %dx%d, want %dx%d", tt.scale, w, h, tt.wantW, tt.wantH)
		}
	}

	_, _, err := BlockSize(meta, 0)
	assert.ErrorIs(t, err, ErrInvalidScale)
	_, _, err = BlockSize(TableMeta{}, 1)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestRenderASCIIUniformImage(t *testing.T) {
	table := twoGlyphTable()
	pix := imageutil.PixelBufferFromImage(
		imageutil.CreateSolidImage(40, 20, imageutil.RGB{R: 190, G: 190, B: 190}))

	bw, bh, err := BlockSize(table.Meta, 1)
	require.NoError(t, err)
	grid, err := RenderASCII(pix, table, bw, bh)
	require.NoError(t, err)
	assert.Equal(t, 1, grid.Rows())
	assert.Equal(t, 2, grid.Cols())
	assert.Equal(t, []string{"BB"}, grid.Lines())
}

func TestRenderASCIIGridShape(t *testing.T) {
	table := twoGlyphTable()
	tests := []struct {
		name               string
		width, height      int
		blockW, blockH     int
		wantRows, wantCols int
	}{
		{"exact", 30, 10, 10, 5, 2, 3},
		{"remainder dropped", 35, 12, 10, 5, 2, 3},
		{"smaller than a block", 5, 5, 20, 20, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pix := imageutil.PixelBufferFromImage(imageutil.CreateSolidGrayImage(tt.width, tt.height, 60))
			grid, err := RenderASCII(pix, table, tt.blockW, tt.blockH)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, grid.Rows())
			assert.Equal(t, tt.wantCols, grid.Cols())
			for _, line := range grid.Lines() {
				for _, r := range line {
					assert.Equal(t, 'A', r)
				}
			}
		})
	}
}

func TestRenderASCIIFollowsBrightness(t *testing.T) {
	table := twoGlyphTable()
	// dark left half, bright right half
	pix := imageutil.NewPixelBuffer(imageutil.FormatScalar, 40, 20)
	for y := 0; y < 20; y++ {
		for x := 20; x < 40; x++ {
			pix.Set(x, y, imageutil.ScalarPixel(255))
		}
	}
	grid, err := RenderASCII(pix, table, 20, 20)
	require.NoError(t, err)
	assert.Equal(t, "AB\n", grid.String())
}

func TestRenderASCIIBlockWalk(t *testing.T) {
	table := twoGlyphTable()
	// bright only in x in [10,20), y in [0,20)
	pix := imageutil.NewPixelBuffer(imageutil.FormatScalar, 40, 40)
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			pix.Set(x, y, imageutil.ScalarPixel(255))
		}
	}
	// 20 wide, 10 high blocks: cell (i, j) covers x in [10j, 10j+10) and
	// y in [20i, 20i+20). Rows 2 and 3 lie below the image and read the
	// clamped bottom edge.
	grid, err := RenderASCII(pix, table, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"AB", "AA", "AA", "AA"}, grid.Lines())
}

func TestGridSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale contents\n"), 0644))

	require.NoError(t, Grid{[]rune("AB"), []rune("BA")}.Save(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "AB\nBA\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files should be left behind")

	err = Grid{[]rune("A")}.Save(filepath.Join(dir, "missing", "out.txt"))
	assert.Error(t, err)
}

func TestRenderASCIIErrors(t *testing.T) {
	pix := imageutil.NewPixelBuffer(imageutil.FormatScalar, 4, 4)
	_, err := RenderASCII(pix, NewTable(), 2, 2)
	assert.ErrorIs(t, err, ErrEmptyTable)
	_, err = RenderASCII(pix, twoGlyphTable(), 0, 2)
	assert.ErrorIs(t, err, ErrInvalidScale)
}

func TestNewRendererDefaults(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, DefaultScale, r.Scale)
	assert.Nil(t, r.Table())

	r = NewRenderer(WithScale(2), WithTable(twoGlyphTable()))
	assert.Equal(t, 2, r.Scale)
	assert.NotNil(t, r.Table())
}

func TestRendererWithoutTable(t *testing.T) {
	_, err := NewRenderer().Render(imageutil.NewPixelBuffer(imageutil.FormatRGB, 4, 4))
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestRendererTableCaching(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultTableFileName)
	require.NoError(t, twoGlyphTable().Save(path))

	r := NewRenderer()
	require.NoError(t, r.LoadTable(path))
	first := r.Table()
	require.NoError(t, r.LoadTable(path))
	if r.Table() != first {
		t.Error("Reloading the same table should be a no-op")
	}
}

func writeTestTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultTableFileName)
	require.NoError(t, twoGlyphTable().Save(path))
	return path
}

func writeTestImage(t *testing.T, width, height int, v uint8) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.png")
	img := imageutil.CreateSolidImage(width, height, imageutil.RGB{R: v, G: v, B: v})
	require.NoError(t, imageutil.SavePNG(img, path))
	return path
}

func TestConvert(t *testing.T) {
	tablePath := writeTestTable(t)
	imagePath := writeTestImage(t, 40, 20, 60)

	grid, err := Convert(imagePath, tablePath, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"AA"}, grid.Lines())

	// scale 2 halves the block: 10x10 blocks
	grid, err = Convert(imagePath, tablePath, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, grid.Rows())
	assert.Equal(t, 4, grid.Cols())

	var buf bytes.Buffer
	require.NoError(t, ConvertAndPrint(&buf, imagePath, tablePath, 1))
	assert.Equal(t, "AA\n", buf.String())
}

func TestConvertErrors(t *testing.T) {
	imagePath := writeTestImage(t, 40, 20, 60)
	tablePath := writeTestTable(t)

	_, err := Convert(imagePath, tablePath, 0)
	assert.ErrorIs(t, err, ErrInvalidScale)

	bad := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte(`{"table": {`), 0644))
	_, err = Convert(imagePath, bad, 1)
	assert.ErrorIs(t, err, ErrParse)

	noMeta := filepath.Join(t.TempDir(), "nometa.txt")
	require.NoError(t, os.WriteFile(noMeta, []byte(`{"table": {"1.0": 65}}`), 0644))
	_, err = Convert(imagePath, noMeta, 1)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = Convert(filepath.Join(t.TempDir(), "missing.png"), tablePath, 1)
	assert.Error(t, err)
}

func TestRendererTargetWidth(t *testing.T) {
	imagePath := writeTestImage(t, 400, 200, 190)
	r := NewRenderer(WithScale(2), WithTable(twoGlyphTable()), WithTargetWidth(8))

	grid, err := r.RenderFile(imagePath)
	require.NoError(t, err)
	// 8 columns of 10px blocks: the image becomes 80x40
	assert.Equal(t, 8, grid.Cols())
	assert.Equal(t, 4, grid.Rows())
	assert.Equal(t, "BBBBBBBB", grid.Lines()[0])
}
