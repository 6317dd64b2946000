// Package reconstruct rebuilds pixel buffers from the stored streams of
// an image and its optional soft mask.
package reconstruct

import (
	"errors"
	"fmt"
	"math"

	"github.com/liuzenghui2007/extract-images/internal/descriptor"
)

var (
	// ErrUnsupportedConfig is returned for color model and bit depth
	// combinations the engine does not handle.
	ErrUnsupportedConfig = errors.New("unsupported image configuration")

	// ErrDataBounds is returned when a stream holds fewer samples than
	// the image dimensions require.
	ErrDataBounds = errors.New("image data out of bounds")
)

// maxPixels bounds Width*Height so byte counts never overflow int.
const maxPixels = math.MaxInt / 4

// Decide picks the output color model. DeviceGray maps to Grayscale,
// everything else to RGB; a linked soft mask adds an alpha channel.
func Decide(d *descriptor.ImageDescriptor) ColorModel {
	gray := d.ColorSpace == descriptor.DeviceGray
	alpha := d.Mask != nil
	switch {
	case gray && alpha:
		return GrayscaleAlpha
	case alpha:
		return RGBAlpha
	case gray:
		return Grayscale
	}
	return RGB
}

// Reconstruct inflates the streams of d and its mask and assembles the
// pixel buffer. d must not use JPEG passthrough; JPEG data is never
// decoded here.
func Reconstruct(d *descriptor.ImageDescriptor) (*PixelBuffer, error) {
	if d.Compression == descriptor.JpegPassthrough {
		return nil, d.Err(fmt.Errorf("%w: JPEG streams are passed through, not reconstructed", ErrUnsupportedConfig))
	}

	colorData, err := streamBytes(d)
	if err != nil {
		return nil, d.Err(err)
	}

	in := Input{
		Model:            Decide(d),
		Width:            d.Width,
		Height:           d.Height,
		BitsPerComponent: d.BitsPerComponent,
		Color:            colorData,
	}
	if d.Mask != nil {
		in.Mask, err = streamBytes(d.Mask)
		if err != nil {
			return nil, d.Err(fmt.Errorf("soft mask %s: %w", d.Mask.Ref, err))
		}
		in.MaskBitsPerComponent = d.Mask.BitsPerComponent
	}

	buf, err := Assemble(in)
	if err != nil {
		return nil, d.Err(err)
	}
	return buf, nil
}

func streamBytes(d *descriptor.ImageDescriptor) ([]byte, error) {
	switch d.Compression {
	case descriptor.Uncompressed:
		return d.Data, nil
	case descriptor.RawInflateCompatible:
		return Inflate(d.Data)
	}
	return nil, fmt.Errorf("%w: compression %s", ErrUnsupportedConfig, d.Compression)
}

// Input is the already inflated data of one image.
type Input struct {
	Model            ColorModel
	Width, Height    int
	BitsPerComponent int
	Color            []byte

	// Mask is read only for the alpha models.
	Mask                 []byte
	MaskBitsPerComponent int
}

// Assemble runs the reconstruction loop for in.Model. All stream
// lengths are checked before the first byte is written.
func Assemble(in Input) (*PixelBuffer, error) {
	if in.Width <= 0 || in.Height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrUnsupportedConfig, in.Width, in.Height)
	}
	// Four bytes per pixel at most; no stream can hold more samples than
	// that bound allows.
	if in.Width > maxPixels/in.Height {
		return nil, fmt.Errorf("%w: dimensions %dx%d too large", ErrDataBounds, in.Width, in.Height)
	}
	pixels := in.Width * in.Height

	cpp := in.Model.ComponentsPerPixel()
	if cpp == 0 {
		return nil, fmt.Errorf("%w: color model %d", ErrUnsupportedConfig, int(in.Model))
	}

	fill, err := selectLoop(in.Model, in.BitsPerComponent)
	if err != nil {
		return nil, err
	}

	colorSrc := samples{data: in.Color, bpc: in.BitsPerComponent}
	perPixel := 1
	if in.Model == RGB || in.Model == RGBAlpha {
		perPixel = 3
	}
	if err := colorSrc.check("color", pixels*perPixel); err != nil {
		return nil, err
	}

	var alphaSrc samples
	if in.Model.HasAlpha() {
		alphaSrc = samples{data: in.Mask, bpc: in.MaskBitsPerComponent}
		if alphaSrc.bpc != 1 && alphaSrc.bpc != 8 {
			return nil, fmt.Errorf("%w: soft mask with %d bits per component", ErrUnsupportedConfig, alphaSrc.bpc)
		}
		if err := alphaSrc.check("soft mask", pixels); err != nil {
			return nil, err
		}
	}

	buf := &PixelBuffer{
		Model:  in.Model,
		Width:  in.Width,
		Height: in.Height,
		Pix:    make([]byte, pixels*cpp),
	}
	fill(buf.Pix, pixels, colorSrc, alphaSrc)
	return buf, nil
}

// loop fills dst with n pixels. Sources have been length checked.
type loop func(dst []byte, n int, color, alpha samples)

func selectLoop(m ColorModel, bpc int) (loop, error) {
	switch {
	case m == RGB && bpc == 8:
		return fillRGB, nil
	case m == RGBAlpha && bpc == 8:
		return fillRGBAlpha, nil
	case m == Grayscale && bpc == 1:
		return fillGray1, nil
	case m == Grayscale && bpc == 8:
		return fillGray8, nil
	case m == GrayscaleAlpha && bpc == 1:
		return fillGrayAlpha1, nil
	case m == GrayscaleAlpha && bpc == 8:
		return fillGrayAlpha8, nil
	}
	return nil, fmt.Errorf("%w: %s with %d bits per component", ErrUnsupportedConfig, m, bpc)
}

func fillRGB(dst []byte, n int, color, _ samples) {
	copy(dst, color.data[:3*n])
}

func fillRGBAlpha(dst []byte, n int, color, alpha samples) {
	src := color.data
	for i := 0; i < n; i++ {
		dst[4*i] = src[3*i]
		dst[4*i+1] = src[3*i+1]
		dst[4*i+2] = src[3*i+2]
		dst[4*i+3] = alpha.pixel(i, n)
	}
}

// The cursor walks the source from the lowest bit of its last byte and
// the output from its end. When the pixel count is a multiple of 8 this
// is the usual most-significant-bit-first order.
func fillGray1(dst []byte, n int, color, _ samples) {
	for i := 0; i < n; i++ {
		dst[n-1-i] = color.at(i)
	}
}

func fillGray8(dst []byte, n int, color, _ samples) {
	copy(dst, color.data[:n])
}

func fillGrayAlpha1(dst []byte, n int, color, alpha samples) {
	for i := 0; i < n; i++ {
		q := n - 1 - i
		dst[2*q] = color.at(i)
		dst[2*q+1] = alpha.at(i)
	}
}

func fillGrayAlpha8(dst []byte, n int, color, alpha samples) {
	src := color.data
	for i := 0; i < n; i++ {
		dst[2*i] = src[i]
		dst[2*i+1] = alpha.pixel(i, n)
	}
}

// samples reads 8-bit values from a byte stream, expanding 1-bit
// streams to 0x00/0xff.
type samples struct {
	data []byte
	bpc  int
}

func (s samples) need(n int) int {
	if s.bpc == 1 {
		return (n + 7) / 8
	}
	return n
}

func (s samples) check(what string, n int) error {
	if need := s.need(n); len(s.data) < need {
		return fmt.Errorf("%w: %s stream has %d bytes, need %d", ErrDataBounds, what, len(s.data), need)
	}
	return nil
}

func (s samples) at(i int) byte {
	if s.bpc != 1 {
		return s.data[i]
	}
	if bitFromEnd(s.data, i) == 0 {
		return 0x00
	}
	return 0xff
}

// pixel returns the sample of output pixel q out of n. 1-bit streams
// are read with the cursor running from the end, as in the gray loops,
// so pixel q sits at cursor n-1-q.
func (s samples) pixel(q, n int) byte {
	if s.bpc == 1 {
		return s.at(n - 1 - q)
	}
	return s.data[q]
}

// bitFromEnd returns bit i of buf, counting bits from the least
// significant bit of the last byte towards the first byte.
func bitFromEnd(buf []byte, i int) byte {
	b := buf[len(buf)-1-i/8]
	return (b >> (i % 8)) & 1
}
