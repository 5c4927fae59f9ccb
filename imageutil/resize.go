package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	// This is the closest equivalent to OpenCV's INTER_AREA.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	// Equivalent to OpenCV's INTER_LINEAR.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest
)

func (interp Interpolation) scaler() draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	}
	return draw.CatmullRom
}

// Resize resizes img to the specified dimensions using the given
// interpolation method. The result keeps the channel layout of img, so
// PixelBufferFromImage picks the same PixelFormat for it.
func Resize(img image.Image, width, height int, interp Interpolation) image.Image {
	dstRect := image.Rect(0, 0, max(width, 1), max(height, 1))

	var dst draw.Image
	switch formatOf(img) {
	case FormatScalar:
		dst = image.NewGray(dstRect)
	case FormatRGBA:
		dst = image.NewNRGBA(dstRect)
	default:
		dst = image.NewRGBA(dstRect)
	}
	interp.scaler().Scale(dst, dstRect, img, img.Bounds(), draw.Src, nil)
	return dst
}

// ResizeToWidth resizes an image to the specified width while maintaining
// aspect ratio.
func ResizeToWidth(img image.Image, width int, interp Interpolation) image.Image {
	b := img.Bounds()
	aspectRatio := float64(b.Dx()) / float64(b.Dy())
	height := int(float64(width) / aspectRatio)
	return Resize(img, width, height, interp)
}
