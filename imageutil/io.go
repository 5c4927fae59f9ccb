package imageutil

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrInvalidPixelFormat is returned for images whose channel layout is
// not scalar, RGB or RGBA.
var ErrInvalidPixelFormat = errors.New("invalid pixel format")

// pixelLoader decodes the file at path into a PixelBuffer. It is replaced
// by the OpenCV loader when built with the gocv tag.
var pixelLoader = loadPixelsStd

// LoadImage loads an image from the specified path.
// Supports PNG, JPEG, GIF, BMP, TIFF and WebP formats.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// LoadPixels loads the image at path and converts it into a PixelBuffer.
// The pixel format is decided here, once per image. Gray+alpha PNG files
// have no matching format and are rejected with ErrInvalidPixelFormat.
func LoadPixels(path string) (*PixelBuffer, error) {
	grayAlpha, err := isGrayAlphaPNG(path)
	if err != nil {
		return nil, err
	}
	if grayAlpha {
		return nil, fmt.Errorf("%w: %s is gray with alpha", ErrInvalidPixelFormat, path)
	}
	return pixelLoader(path)
}

const (
	pngSignature = "\x89PNG\r\n\x1a\n"
	// offset of the colour type byte: signature, chunk length, "IHDR",
	// width, height, bit depth
	pngColorTypeOffset = 25
	pngGrayAlpha       = 4
)

// isGrayAlphaPNG reports whether path is a PNG whose header declares the
// gray+alpha colour type. The decoders return those as NRGBA, which would
// otherwise pass for an RGBA image.
func isGrayAlphaPNG(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	hdr, _ := bufio.NewReader(f).Peek(pngColorTypeOffset + 1)
	if len(hdr) <= pngColorTypeOffset || !bytes.HasPrefix(hdr, []byte(pngSignature)) {
		return false, nil
	}
	return string(hdr[12:16]) == "IHDR" && hdr[pngColorTypeOffset] == pngGrayAlpha, nil
}

func loadPixelsStd(path string) (*PixelBuffer, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return PixelBufferFromImage(img), nil
}

// SaveImage saves an image to the specified path.
// Format is determined by file extension (png, jpg/jpeg, gif).
func SaveImage(img image.Image, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	return saveEncoded(path, func(f *os.File) error {
		switch ext {
		case ".jpg", ".jpeg":
			return jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
		case ".gif":
			return gif.Encode(f, img, nil)
		}
		// Default to PNG
		return png.Encode(f, img)
	})
}

// SavePNG saves an image as PNG to the specified path.
func SavePNG(img image.Image, path string) error {
	return saveEncoded(path, func(f *os.File) error {
		return png.Encode(f, img)
	})
}

// saveEncoded creates path and runs encode on it. A failed encode removes
// the file again.
func saveEncoded(path string, encode func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	err = encode(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
