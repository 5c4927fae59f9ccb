package img2ascii

import (
	"errors"

	"github.com/wbrown/img2ascii/imageutil"
)

// Error kinds returned by this package. Callers match them with errors.Is;
// the returned errors wrap them with context.
var (
	// ErrInvalidPixelFormat is returned for pixels, or image files, that
	// are neither scalar, RGB nor RGBA.
	ErrInvalidPixelFormat = imageutil.ErrInvalidPixelFormat

	// ErrMissingMetadata is returned when the glyph index of a source
	// directory is absent or incomplete.
	ErrMissingMetadata = errors.New("missing glyph metadata")

	// ErrParse is returned for malformed table files.
	ErrParse = errors.New("malformed brightness table")

	// ErrMissingField is returned when a table lacks a required meta field.
	ErrMissingField = errors.New("brightness table is missing a required field")

	// ErrEmptyTable is returned when looking up a table with no entries.
	ErrEmptyTable = errors.New("brightness table is empty")

	// ErrDegenerateRange is returned when rescaling a table whose minimum
	// and maximum brightness are equal.
	ErrDegenerateRange = errors.New("brightness range is degenerate")

	// ErrInvalidScale is returned for output scale factors below 1.
	ErrInvalidScale = errors.New("scale factor must be at least 1")

	// ErrInvalidCode is returned for character codes that have no
	// single-byte Latin-1 representation.
	ErrInvalidCode = errors.New("character code out of Latin-1 range")
)
