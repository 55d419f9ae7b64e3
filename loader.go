package zoomview

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxTextureSize is the default longest edge, in pixels, an image is allowed
// to keep when loaded. Larger images are downscaled to fit.
const MaxTextureSize = 4096

// LoadImage opens and decodes the image file at path. PNG, JPEG, GIF, BMP,
// TIFF and WebP are recognized. If either edge exceeds maxSize the image is
// downscaled, keeping its aspect ratio. maxSize <= 0 disables downscaling.
func LoadImage(path string, maxSize int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	defer f.Close()

	img, _, err := DecodeImage(f, maxSize)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes an image from r and returns it with its format name,
// downscaled to fit maxSize as in LoadImage.
func DecodeImage(r io.Reader, maxSize int) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}
	return fitTexture(img, maxSize), format, nil
}

// fitTexture shrinks img so neither edge exceeds maxSize.
func fitTexture(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	if maxSize <= 0 || (b.Dx() <= maxSize && b.Dy() <= maxSize) {
		return img
	}
	return resize.Thumbnail(uint(maxSize), uint(maxSize), img, resize.Lanczos3)
}
