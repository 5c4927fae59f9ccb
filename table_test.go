package img2ascii

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableInsertFirstWins(t *testing.T) {
	table := NewTable()
	assert.True(t, table.Insert(100, 67))
	assert.False(t, table.Insert(100, 68))

	code, ok := table.Code(100)
	assert.True(t, ok)
	assert.Equal(t, 67, code)
	assert.Equal(t, 1, table.Len())
}

func TestTableStatsRescale(t *testing.T) {
	stats := TableStats{MinBrightness: floatPtr(10), MaxBrightness: floatPtr(20)}

	tests := []struct {
		in, want float64
	}{
		{15, 127.5},
		{10, 0},
		{20, 255},
	}
	for _, tt := range tests {
		got, err := stats.Rescale(tt.in)
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("Rescale(%v) = %v, want exactly %v", tt.in, got, tt.want)
		}
		back, err := stats.Unscale(got)
		require.NoError(t, err)
		assert.InDelta(t, tt.in, back, 1e-12)
	}
}

func TestTableStatsDegenerate(t *testing.T) {
	for _, stats := range []TableStats{
		{},
		{MinBrightness: floatPtr(5), MaxBrightness: floatPtr(5)},
	} {
		_, err := stats.Rescale(5)
		assert.ErrorIs(t, err, ErrDegenerateRange)
	}
}

func TestTableRescaled(t *testing.T) {
	table := NewTable()
	table.Insert(15, 1)
	table.Insert(10, 2)
	table.Insert(20, 3)
	table.Stats = TableStats{MinBrightness: floatPtr(10), MaxBrightness: floatPtr(20)}
	table.Meta = TableMeta{SourceFolder: "glyphs", CharWidth: 20, CharHeight: 20}

	scaled, err := table.Rescaled()
	require.NoError(t, err)
	assert.Equal(t, []float64{127.5, 0, 255}, scaled.Keys())
	assert.Equal(t, table.Stats, scaled.Stats)
	assert.Equal(t, table.Meta, scaled.Meta)
	// the source table is unchanged
	assert.Equal(t, []float64{15, 10, 20}, table.Keys())
}

func TestFormatKey(t *testing.T) {
	assert.Equal(t, "127.5", formatKey(127.5))
	assert.Equal(t, "0.0", formatKey(0))
	assert.Equal(t, "255.0", formatKey(255))
	assert.Equal(t, "12.3456", formatKey(12.3456))
}

func TestTableJSONKeepsOrder(t *testing.T) {
	table := NewTable()
	table.Insert(5.5, 1)
	table.Insert(1, 2)
	table.Insert(3.25, 3)
	table.Stats = TableStats{MinBrightness: floatPtr(1), MaxBrightness: floatPtr(5.5)}
	table.Meta = TableMeta{SourceFolder: "glyphs", CharWidth: 20, CharHeight: 10}

	data, err := json.Marshal(table)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"table":{"5.5":1,"1.0":2,"3.25":3}`)
	assert.Contains(t, s, `"src_data_folder":"glyphs"`)
	assert.Contains(t, s, `"char_width":20`)
	assert.NotContains(t, s, `"src_meta_file"`)

	loaded, err := ReadTable(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []float64{5.5, 1, 3.25}, loaded.Keys())
	assert.Equal(t, table.Meta, loaded.Meta)
	require.NotNil(t, loaded.Stats.MaxBrightness)
	assert.Equal(t, 5.5, *loaded.Stats.MaxBrightness)
}

func TestTableSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultTableFileName)
	table := NewTable()
	table.Insert(0, 32)
	table.Insert(255, 35)
	table.Stats = TableStats{MinBrightness: floatPtr(0), MaxBrightness: floatPtr(87.1234)}
	table.Meta = TableMeta{SourceFolder: "glyphs", CharWidth: 20, CharHeight: 20}
	require.NoError(t, table.Save(path))

	loaded, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, table.Keys(), loaded.Keys())
	code, ok := loaded.Code(255)
	assert.True(t, ok)
	assert.Equal(t, 35, code)
}

func TestEmptyTableWritesNulls(t *testing.T) {
	data, err := json.Marshal(NewTable())
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"table":{}`)
	assert.Contains(t, s, `"min_brightness":null`)
	assert.Contains(t, s, `"char_width":null`)

	_, err = ReadTable(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestReadTableErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"not json", `{"table": `, ErrParse},
		{"not an object", `[1, 2]`, ErrParse},
		{"bad key", `{"table": {"abc": 1}, "meta": {"char_width": 1, "char_height": 1}}`, ErrParse},
		{"bad code", `{"table": {"1.0": "x"}, "meta": {"char_width": 1, "char_height": 1}}`, ErrParse},
		{"table is a list", `{"table": [1], "meta": {"char_width": 1, "char_height": 1}}`, ErrParse},
		{"no table", `{"meta": {"char_width": 1, "char_height": 1}}`, ErrMissingField},
		{"no meta", `{"table": {"1.0": 65}}`, ErrMissingField},
		{"no width", `{"table": {"1.0": 65}, "meta": {"char_height": 1}}`, ErrMissingField},
		{"null height", `{"table": {"1.0": 65}, "meta": {"char_width": 1, "char_height": null}}`, ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadTableDuplicateKeyFirstWins(t *testing.T) {
	doc := `{"table": {"1.0": 65, "2.0": 66, "1.0": 67},
		"stats": null, "meta": {"src_data_folder": "x", "char_width": 2, "char_height": 2}}`
	table, err := ReadTable(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	code, _ := table.Code(1)
	assert.Equal(t, 65, code)
	assert.Nil(t, table.Stats.MinBrightness)
}
