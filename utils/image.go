package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"

	DefaultJPEGQuality = 90
)

// EncodeImage encodes img as png or jpeg. quality is only used for jpeg and
// falls back to DefaultJPEGQuality when out of range.
func EncodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "", FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case FormatJPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid format '%s'. Supported formats are 'png' and 'jpeg'", format)
	}

	return buf.Bytes(), nil
}

// ScaleToWidth shrinks img proportionally so it is at most maxWidth pixels
// wide. Images already narrow enough, and maxWidth <= 0, are returned as is.
func ScaleToWidth(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}

	// height 0 keeps the aspect ratio
	return resize.Resize(uint(maxWidth), 0, img, resize.Lanczos3)
}
