package img2ascii

import (
	"fmt"

	"github.com/wbrown/img2ascii/imageutil"
)

// PixelBrightness calculates the brightness of a single pixel.
//
//   - scalar pixels: the sample itself, not normalised
//   - RGB pixels: the mean of the three channels
//   - RGBA pixels: the mean of the color channels plus alpha/255
//
// The RGBA formula is not an alpha blend. Stored tables depend on it
// exactly.
func PixelBrightness(p imageutil.Pixel) (float64, error) {
	switch p.Format {
	case imageutil.FormatScalar:
		return float64(p.V[0]), nil
	case imageutil.FormatRGB:
		return float64(int(p.V[0])+int(p.V[1])+int(p.V[2])) / 3, nil
	case imageutil.FormatRGBA:
		return float64(int(p.V[0])+int(p.V[1])+int(p.V[2]))/3 + float64(p.V[3])/255, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrInvalidPixelFormat, p.Format)
}

// RegionBrightness calculates the average brightness of a width x height
// region of pix.
//
// The region is addressed with the [row, col] accessor of PixelBuffer.At,
// in which row is the HORIZONTAL coordinate: rows run over
// [rowOffset, rowOffset+height) and cols over [colOffset, colOffset+width),
// so the region actually covers x in [rowOffset, rowOffset+height) and
// y in [colOffset, colOffset+width). For square regions the two readings
// coincide. Callers must pass offsets in this convention; see
// RenderASCII for the block walk that depends on it.
//
// Every pixel contributes brightness/(width*height) to a running sum, in
// row-major order. Table keys are rounded results of this exact sum.
func RegionBrightness(pix *imageutil.PixelBuffer, width, height, rowOffset, colOffset int) (float64, error) {
	size := float64(width * height)
	var avg float64
	for row := rowOffset; row < rowOffset+height; row++ {
		for col := colOffset; col < colOffset+width; col++ {
			b, err := PixelBrightness(pix.At(row, col))
			if err != nil {
				return 0, err
			}
			avg += b / size
		}
	}
	return avg, nil
}

// ImageBrightness is RegionBrightness over the full extent of pix.
func ImageBrightness(pix *imageutil.PixelBuffer) (float64, error) {
	return RegionBrightness(pix, pix.Width, pix.Height, 0, 0)
}
