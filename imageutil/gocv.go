//go:build gocv

package imageutil

import (
	"fmt"

	"gocv.io/x/gocv"
)

func init() {
	pixelLoader = loadPixelsGoCV
}

// loadPixelsGoCV decodes through OpenCV. IMReadUnchanged keeps the channel
// count of the file, which maps directly onto the pixel formats: one
// channel is scalar, three are BGR and four are BGRA.
func loadPixelsGoCV(path string) (*PixelBuffer, error) {
	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	if mat.Empty() {
		return nil, fmt.Errorf("could not read image from %s", path)
	}
	defer mat.Close()

	if mat.Type() != gocv.MatTypeCV8UC1 &&
		mat.Type() != gocv.MatTypeCV8UC3 &&
		mat.Type() != gocv.MatTypeCV8UC4 {
		// Deeper images go through the standard decoders.
		return loadPixelsStd(path)
	}

	var format PixelFormat
	switch mat.Channels() {
	case 1:
		format = FormatScalar
	case 3:
		format = FormatRGB
	case 4:
		format = FormatRGBA
	default:
		return loadPixelsStd(path)
	}

	height, width := mat.Rows(), mat.Cols()
	buf := NewPixelBuffer(format, width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch format {
			case FormatScalar:
				buf.Set(x, y, ScalarPixel(mat.GetUCharAt(y, x)))
			case FormatRGB:
				v := mat.GetVecbAt(y, x)
				buf.Set(x, y, RGBPixel(v[2], v[1], v[0]))
			case FormatRGBA:
				v := mat.GetVecbAt(y, x)
				buf.Set(x, y, RGBAPixel(v[2], v[1], v[0], v[3]))
			}
		}
	}
	return buf, nil
}
