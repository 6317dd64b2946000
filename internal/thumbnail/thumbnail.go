// Package thumbnail writes small previews of extracted images.
package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // passthrough outputs
	"image/png"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/tiff"
)

// Make decodes an encoded output (PNG, JPEG or TIFF) and returns a PNG
// scaled to width pixels. Images narrower than width are not upscaled.
func Make(data []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("invalid thumbnail width %d", width)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromImage(img, width)
}

// FromImage scales img to width pixels and encodes it as PNG.
func FromImage(img image.Image, width int) ([]byte, error) {
	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
