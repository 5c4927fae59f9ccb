package img2ascii

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Names of the required table document fields, used in error messages.
// The schema itself lives in the struct tags of tableDocument,
// tableMetaDocument and TableStats.
const (
	keyTable      = "table"
	keyMeta       = "meta"
	keyCharWidth  = "char_width"
	keyCharHeight = "char_height"
)

// TableStats holds the minimum and maximum brightness over the unscaled
// table entries. Both are nil for a table built from no images.
type TableStats struct {
	MinBrightness *float64 `json:"min_brightness"`
	MaxBrightness *float64 `json:"max_brightness"`
}

// Rescale maps an unscaled brightness into [0,255] using the recorded
// range.
func (s TableStats) Rescale(v float64) (float64, error) {
	min, max, err := s.bounds()
	if err != nil {
		return 0, err
	}
	return 255 * (v - min) / (max - min), nil
}

// Unscale is the inverse of Rescale.
func (s TableStats) Unscale(v float64) (float64, error) {
	min, max, err := s.bounds()
	if err != nil {
		return 0, err
	}
	return v*(max-min)/255 + min, nil
}

func (s TableStats) bounds() (float64, float64, error) {
	if s.MinBrightness == nil || s.MaxBrightness == nil {
		return 0, 0, fmt.Errorf("%w: no brightness range recorded", ErrDegenerateRange)
	}
	min, max := *s.MinBrightness, *s.MaxBrightness
	if min == max {
		return 0, 0, fmt.Errorf("%w: min == max == %v", ErrDegenerateRange, min)
	}
	return min, max, nil
}

// TableMeta describes where a table came from. CharWidth and CharHeight
// are the pixel dimensions of the last image processed while building it.
// IndexFile names the glyph index in SourceFolder; empty means
// DefaultMetaFileName.
type TableMeta struct {
	SourceFolder string
	IndexFile    string
	CharWidth    int
	CharHeight   int
}

// indexPath returns the path of the glyph index the table was built from.
func (m TableMeta) indexPath() string {
	name := m.IndexFile
	if name == "" {
		name = DefaultMetaFileName
	}
	return filepath.Join(m.SourceFolder, name)
}

// Table maps brightness values to character codes. Entries keep their
// insertion order, which is the order nearest-brightness ties are
// resolved in. Keys are unique: Insert never overwrites.
//
// On disk a table is a JSON object:
//
//	{
//	  "table": {"12.3456": 46, ...},
//	  "stats": {"min_brightness": 0.0, "max_brightness": 87.1234},
//	  "meta": {"src_data_folder": "glyphs", "char_width": 20, "char_height": 20}
//	}
//
// The entries of "table" are written and read in insertion order.
// "src_meta_file" is only present for tables built against a glyph index
// not named meta.txt.
type Table struct {
	entries *linkedhashmap.Map
	Stats   TableStats
	Meta    TableMeta
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: linkedhashmap.New()}
}

// Insert adds brightness -> code unless the brightness is already present.
// It reports whether the entry was added.
func (t *Table) Insert(brightness float64, code int) bool {
	if _, found := t.entries.Get(brightness); found {
		return false
	}
	t.entries.Put(brightness, code)
	return true
}

// Code returns the code stored for an exact brightness value.
func (t *Table) Code(brightness float64) (int, bool) {
	v, found := t.entries.Get(brightness)
	if !found {
		return 0, false
	}
	return v.(int), true
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return t.entries.Size()
}

// Each calls f for every entry in insertion order.
func (t *Table) Each(f func(brightness float64, code int)) {
	it := t.entries.Iterator()
	for it.Next() {
		f(it.Key().(float64), it.Value().(int))
	}
}

// Keys returns the brightness values in insertion order.
func (t *Table) Keys() []float64 {
	keys := make([]float64, 0, t.Len())
	t.Each(func(b float64, _ int) {
		keys = append(keys, b)
	})
	return keys
}

// Rescaled returns a copy of t whose keys are mapped affinely from
// [Stats.MinBrightness, Stats.MaxBrightness] onto [0,255]. Stats and Meta
// are copied unchanged so the mapping can be reversed. A degenerate range
// yields ErrDegenerateRange.
func (t *Table) Rescaled() (*Table, error) {
	if _, _, err := t.Stats.bounds(); err != nil {
		return nil, err
	}
	scaled := NewTable()
	scaled.Stats = t.Stats
	scaled.Meta = t.Meta
	var err error
	t.Each(func(b float64, code int) {
		if err != nil {
			return
		}
		var v float64
		if v, err = t.Stats.Rescale(b); err == nil {
			scaled.Insert(v, code)
		}
	})
	if err != nil {
		return nil, err
	}
	return scaled, nil
}

// formatKey renders a brightness key as the shortest decimal that
// round-trips, always with a fractional part ("127.5", "0.0").
func formatKey(b float64) string {
	s := strconv.FormatFloat(b, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

type tableDocument struct {
	Table json.RawMessage    `json:"table"`
	Stats *TableStats        `json:"stats"`
	Meta  *tableMetaDocument `json:"meta"`
}

type tableMetaDocument struct {
	SourceFolder *string `json:"src_data_folder"`
	IndexFile    *string `json:"src_meta_file,omitempty"`
	CharWidth    *int    `json:"char_width"`
	CharHeight   *int    `json:"char_height"`
}

// MarshalJSON writes the table document with entries in insertion order.
// Zero cell dimensions are written as null.
func (t *Table) MarshalJSON() ([]byte, error) {
	var entries bytes.Buffer
	entries.WriteByte('{')
	first := true
	t.Each(func(b float64, code int) {
		if !first {
			entries.WriteByte(',')
		}
		first = false
		entries.WriteString(strconv.Quote(formatKey(b)))
		entries.WriteByte(':')
		entries.WriteString(strconv.Itoa(code))
	})
	entries.WriteByte('}')

	meta := &tableMetaDocument{SourceFolder: &t.Meta.SourceFolder}
	if t.Meta.IndexFile != "" {
		meta.IndexFile = &t.Meta.IndexFile
	}
	if t.Meta.CharWidth != 0 {
		meta.CharWidth = &t.Meta.CharWidth
	}
	if t.Meta.CharHeight != 0 {
		meta.CharHeight = &t.Meta.CharHeight
	}
	stats := t.Stats
	return json.Marshal(tableDocument{
		Table: entries.Bytes(),
		Stats: &stats,
		Meta:  meta,
	})
}

// UnmarshalJSON reads a table document. Entries are inserted in file
// order. A missing "table" object, or missing cell dimensions, yield
// ErrMissingField; anything else that does not match the schema yields
// ErrParse.
func (t *Table) UnmarshalJSON(data []byte) error {
	var doc tableDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(doc.Table) == 0 || string(doc.Table) == "null" {
		return fmt.Errorf("%w: %q", ErrMissingField, keyTable)
	}
	if doc.Meta == nil {
		return fmt.Errorf("%w: %q", ErrMissingField, keyMeta)
	}
	if doc.Meta.CharWidth == nil {
		return fmt.Errorf("%w: %s.%s", ErrMissingField, keyMeta, keyCharWidth)
	}
	if doc.Meta.CharHeight == nil {
		return fmt.Errorf("%w: %s.%s", ErrMissingField, keyMeta, keyCharHeight)
	}

	entries, err := decodeEntries(doc.Table)
	if err != nil {
		return err
	}
	t.entries = entries
	t.Stats = TableStats{}
	if doc.Stats != nil {
		t.Stats = *doc.Stats
	}
	t.Meta = TableMeta{
		CharWidth:  *doc.Meta.CharWidth,
		CharHeight: *doc.Meta.CharHeight,
	}
	if doc.Meta.SourceFolder != nil {
		t.Meta.SourceFolder = *doc.Meta.SourceFolder
	}
	if doc.Meta.IndexFile != nil {
		t.Meta.IndexFile = *doc.Meta.IndexFile
	}
	return nil
}

// decodeEntries streams the "table" object so that key order survives.
func decodeEntries(raw json.RawMessage) (*linkedhashmap.Map, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: %q must be an object", ErrParse, keyTable)
	}
	entries := linkedhashmap.New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		key := tok.(string)
		b, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: brightness key %q: %v", ErrParse, key, err)
		}
		var code int
		if err := dec.Decode(&code); err != nil {
			return nil, fmt.Errorf("%w: code for %q: %v", ErrParse, key, err)
		}
		if _, found := entries.Get(b); !found {
			entries.Put(b, code)
		}
	}
	return entries, nil
}

// Save writes the table as indented JSON. The file is replaced atomically,
// so a failed save leaves any previous table intact.
func (t *Table) Save(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// ReadTable decodes a table document from r.
func ReadTable(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading table: %w", err)
	}
	t := NewTable()
	if err := json.Unmarshal(data, t); err != nil {
		if errors.Is(err, ErrMissingField) || errors.Is(err, ErrParse) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return t, nil
}

// LoadTable reads a table file.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading table: %w", err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
