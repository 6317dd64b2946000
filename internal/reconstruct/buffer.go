package reconstruct

import (
	"image"
	"image/color"
)

// ColorModel is the channel layout of a PixelBuffer.
type ColorModel int

const (
	Grayscale ColorModel = iota
	GrayscaleAlpha
	RGB
	RGBAlpha
)

// ComponentsPerPixel returns 1, 2, 3 or 4, or 0 for an invalid model.
func (m ColorModel) ComponentsPerPixel() int {
	switch m {
	case Grayscale:
		return 1
	case GrayscaleAlpha:
		return 2
	case RGB:
		return 3
	case RGBAlpha:
		return 4
	}
	return 0
}

func (m ColorModel) HasAlpha() bool {
	return m == GrayscaleAlpha || m == RGBAlpha
}

func (m ColorModel) String() string {
	switch m {
	case Grayscale:
		return "gray"
	case GrayscaleAlpha:
		return "gray+alpha"
	case RGB:
		return "rgb"
	case RGBAlpha:
		return "rgb+alpha"
	}
	return "invalid"
}

// PixelBuffer is a reconstructed image, 8 bits per component, rows top to
// bottom with no padding.
type PixelBuffer struct {
	Model  ColorModel
	Width  int
	Height int
	Pix    []byte
}

func (b *PixelBuffer) ComponentsPerPixel() int {
	return b.Model.ComponentsPerPixel()
}

// Stride is the number of bytes per row.
func (b *PixelBuffer) Stride() int {
	return b.Width * b.ComponentsPerPixel()
}

// Image returns b as an image.Image for encoders that work on the
// standard image types. Gray buffers are shared, the other models are
// copied into an NRGBA image.
func (b *PixelBuffer) Image() image.Image {
	rect := image.Rect(0, 0, b.Width, b.Height)
	if b.Model == Grayscale {
		return &image.Gray{Pix: b.Pix, Stride: b.Width, Rect: rect}
	}

	img := image.NewNRGBA(rect)
	n := b.Width * b.Height
	for i := 0; i < n; i++ {
		var c color.NRGBA
		switch b.Model {
		case GrayscaleAlpha:
			c = color.NRGBA{R: b.Pix[2*i], G: b.Pix[2*i], B: b.Pix[2*i], A: b.Pix[2*i+1]}
		case RGB:
			c = color.NRGBA{R: b.Pix[3*i], G: b.Pix[3*i+1], B: b.Pix[3*i+2], A: 0xff}
		case RGBAlpha:
			c = color.NRGBA{R: b.Pix[4*i], G: b.Pix[4*i+1], B: b.Pix[4*i+2], A: b.Pix[4*i+3]}
		}
		img.Pix[4*i] = c.R
		img.Pix[4*i+1] = c.G
		img.Pix[4*i+2] = c.B
		img.Pix[4*i+3] = c.A
	}
	return img
}
