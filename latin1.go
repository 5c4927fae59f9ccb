package img2ascii

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Bounds of the displayable character range. Codes 127 to 160 (DEL and
// the C1 control block) render as boxes and are left out.
const (
	firstCode      = 32
	lastCode       = 255
	firstSkipped   = 127
	lastSkipped    = 160
	latin1MaxValue = 255
)

// DisplayableCodes returns the character codes a glyph catalog covers, in
// ascending order: [32,127) followed by [161,256).
func DisplayableCodes() []int {
	codes := make([]int, 0, lastCode-firstCode+1-(lastSkipped-firstSkipped+1))
	for code := firstCode; code <= lastCode; code++ {
		if code >= firstSkipped && code <= lastSkipped {
			continue
		}
		codes = append(codes, code)
	}
	return codes
}

// CodeToRune decodes a character code as a single Latin-1 byte. The same
// decoding is used when rendering glyphs and when mapping table entries
// back to characters, so codes above 127 stay consistent between the two.
func CodeToRune(code int) (rune, error) {
	if code < 0 || code > latin1MaxValue {
		return utf8.RuneError, fmt.Errorf("%w: %d", ErrInvalidCode, code)
	}
	r := charmap.ISO8859_1.DecodeByte(byte(code))
	if r == utf8.RuneError {
		return r, fmt.Errorf("%w: %d does not decode", ErrInvalidCode, code)
	}
	return r, nil
}

// RuneToCode is the inverse of CodeToRune.
func RuneToCode(r rune) (int, error) {
	b, ok := charmap.ISO8859_1.EncodeRune(r)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCode, r)
	}
	return int(b), nil
}
