// Package imageutil provides the pixel buffers and image codecs used by
// the table builder and the ASCII renderer.
//
// Every decoded image is normalised into a PixelBuffer whose Format is one
// of Scalar, RGB or RGBA. The format is decided once, when the image is
// decoded, so callers never re-inspect the shape of individual pixels.
package imageutil

import (
	"fmt"
	"image"
	"image/color"
)

// PixelFormat tags the channel layout of a PixelBuffer.
type PixelFormat int

const (
	// FormatInvalid is the zero value and never produced by a decoder.
	FormatInvalid PixelFormat = iota
	// FormatScalar holds one 8-bit sample per pixel (grayscale).
	FormatScalar
	// FormatRGB holds red, green and blue samples per pixel.
	FormatRGB
	// FormatRGBA holds red, green, blue and straight (non-premultiplied)
	// alpha samples per pixel.
	FormatRGBA
)

// Channels returns the number of samples stored per pixel, or 0 for an
// unknown format.
func (f PixelFormat) Channels() int {
	switch f {
	case FormatScalar:
		return 1
	case FormatRGB:
		return 3
	case FormatRGBA:
		return 4
	}
	return 0
}

func (f PixelFormat) String() string {
	switch f {
	case FormatScalar:
		return "scalar"
	case FormatRGB:
		return "rgb"
	case FormatRGBA:
		return "rgba"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to color.RGBA for use with standard library.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// Pixel is a single sample set read from a PixelBuffer. Only the first
// Format.Channels() entries of V are meaningful.
type Pixel struct {
	Format PixelFormat
	V      [4]uint8
}

// ScalarPixel builds a single-channel pixel.
func ScalarPixel(v uint8) Pixel {
	return Pixel{Format: FormatScalar, V: [4]uint8{v}}
}

// RGBPixel builds a three-channel pixel.
func RGBPixel(r, g, b uint8) Pixel {
	return Pixel{Format: FormatRGB, V: [4]uint8{r, g, b}}
}

// RGBAPixel builds a four-channel pixel with straight alpha.
func RGBAPixel(r, g, b, a uint8) Pixel {
	return Pixel{Format: FormatRGBA, V: [4]uint8{r, g, b, a}}
}

// PixelBuffer is a decoded raster with a fixed channel layout. Pix holds
// Width*Height*Format.Channels() samples in row-major order.
type PixelBuffer struct {
	Format PixelFormat
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelBuffer creates a zeroed buffer with the specified format and
// dimensions.
func NewPixelBuffer(format PixelFormat, width, height int) *PixelBuffer {
	return &PixelBuffer{
		Format: format,
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*format.Channels()),
	}
}

// offset returns the index of the first sample of pixel (x, y). The
// coordinates are clamped to the image so that reads past the edge repeat
// the border pixel.
func (b *PixelBuffer) offset(x, y int) int {
	x = clampCoord(x, 0, b.Width-1)
	y = clampCoord(y, 0, b.Height-1)
	return (y*b.Width + x) * b.Format.Channels()
}

// PixelAt returns the pixel at horizontal position x and vertical
// position y.
func (b *PixelBuffer) PixelAt(x, y int) Pixel {
	p := Pixel{Format: b.Format}
	if b.Width == 0 || b.Height == 0 {
		return p
	}
	i := b.offset(x, y)
	copy(p.V[:], b.Pix[i:i+b.Format.Channels()])
	return p
}

// At reads the buffer with the [row, col] accessor convention used by the
// brightness scans: row selects the HORIZONTAL position and col the
// VERTICAL one, i.e. At(row, col) == PixelAt(row, col). The axis names are
// swapped relative to the usual (y, x) reading of row/col. Brightness
// tables are only valid under this convention; do not "correct" it here or
// in callers.
func (b *PixelBuffer) At(row, col int) Pixel {
	return b.PixelAt(row, col)
}

// Set stores p at (x, y). The pixel must have the buffer's format.
func (b *PixelBuffer) Set(x, y int, p Pixel) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := b.offset(x, y)
	copy(b.Pix[i:i+b.Format.Channels()], p.V[:b.Format.Channels()])
}

// Fill sets every pixel of the buffer to p.
func (b *PixelBuffer) Fill(p Pixel) {
	n := b.Format.Channels()
	for i := 0; i+n <= len(b.Pix); i += n {
		copy(b.Pix[i:i+n], p.V[:n])
	}
}

// PixelBufferFromImage converts any image.Image into a PixelBuffer, picking
// the format from the concrete image type:
//
//   - Gray and Gray16 become FormatScalar (16-bit samples keep the high byte).
//   - Opaque RGBA/RGBA64, YCbCr, CMYK and opaque Paletted images become
//     FormatRGB. The PNG decoder returns *image.RGBA for truecolor files
//     without an alpha channel.
//   - NRGBA/NRGBA64 (PNG truecolor with alpha), translucent RGBA or
//     Paletted images and every other type become FormatRGBA. Gray+alpha
//     PNG files also decode as NRGBA; LoadPixels rejects them before they
//     get here.
func PixelBufferFromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	format := formatOf(img)
	buf := NewPixelBuffer(format, bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			buf.Set(x-bounds.Min.X, y-bounds.Min.Y, pixelOf(format, img.At(x, y)))
		}
	}
	return buf
}

type opaquer interface {
	Opaque() bool
}

func formatOf(img image.Image) PixelFormat {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return FormatScalar
	case *image.YCbCr, *image.CMYK:
		return FormatRGB
	case *image.NRGBA, *image.NRGBA64:
		return FormatRGBA
	case *image.RGBA, *image.RGBA64, *image.Paletted:
		if m.(opaquer).Opaque() {
			return FormatRGB
		}
		return FormatRGBA
	}
	return FormatRGBA
}

func pixelOf(format PixelFormat, c color.Color) Pixel {
	switch format {
	case FormatScalar:
		g := color.GrayModel.Convert(c).(color.Gray)
		return ScalarPixel(g.Y)
	case FormatRGB:
		r, g, b, _ := c.RGBA()
		return RGBPixel(uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBAPixel(n.R, n.G, n.B, n.A)
}

// Image converts the buffer back into a standard library image suitable
// for encoding. Scalar buffers become *image.Gray, RGB buffers an opaque
// *image.RGBA and RGBA buffers an *image.NRGBA.
func (b *PixelBuffer) Image() image.Image {
	rect := image.Rect(0, 0, b.Width, b.Height)
	switch b.Format {
	case FormatScalar:
		img := image.NewGray(rect)
		copy(img.Pix, b.Pix)
		return img
	case FormatRGB:
		img := image.NewRGBA(rect)
		for i, j := 0, 0; i+3 <= len(b.Pix); i, j = i+3, j+4 {
			img.Pix[j] = b.Pix[i]
			img.Pix[j+1] = b.Pix[i+1]
			img.Pix[j+2] = b.Pix[i+2]
			img.Pix[j+3] = 255
		}
		return img
	}
	img := image.NewNRGBA(rect)
	copy(img.Pix, b.Pix)
	return img
}

func clampCoord(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
