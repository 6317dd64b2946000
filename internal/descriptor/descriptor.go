// Package descriptor turns image objects of a document into flat,
// fully resolved records and pairs each image with its soft mask.
//
// Building happens in two passes. Build reads every object once and never
// touches a descriptor after creating it; Link then walks the finished set
// and resolves mask references by identity.
package descriptor

import (
	"fmt"

	"github.com/liuzenghui2007/extract-images/internal/document"
)

// ColorSpace is the normalized /ColorSpace of an image.
type ColorSpace int

const (
	DeviceGray ColorSpace = iota
	DeviceRGB
	OtherColorSpace
)

func (c ColorSpace) String() string {
	switch c {
	case DeviceGray:
		return "DeviceGray"
	case DeviceRGB:
		return "DeviceRGB"
	}
	return "Other"
}

// Compression describes how the stored bytes must be treated.
type Compression int

const (
	// RawInflateCompatible data is zlib/deflate compressed pixel data.
	RawInflateCompatible Compression = iota
	// JpegPassthrough data is a complete JPEG file.
	JpegPassthrough
	// Uncompressed data declares no filter and is already raw pixels.
	Uncompressed
)

func (c Compression) String() string {
	switch c {
	case JpegPassthrough:
		return "jpg"
	case Uncompressed:
		return "raw"
	}
	return "png"
}

// ImageDescriptor is one image object of the document.
type ImageDescriptor struct {
	Ref document.Ref
	// MaskRef is the /SMask reference, if the image declares one.
	MaskRef *document.Ref

	ColorSpace ColorSpace
	// ColorSpaceLabel is the declared color space as written in the
	// document, for diagnostics.
	ColorSpaceLabel string

	Width            int
	Height           int
	BitsPerComponent int
	Compression      Compression
	Name             string
	Data             []byte

	// Set by Link.
	IsAlphaLayer bool
	Mask         *ImageDescriptor
}

func (d *ImageDescriptor) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Ref)
}

// Err wraps err with the image's name and identity.
func (d *ImageDescriptor) Err(err error) error {
	return &ImageError{Name: d.Name, Ref: d.Ref, Err: err}
}
