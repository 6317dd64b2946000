package pipeline

import (
	"github.com/liuzenghui2007/extract-images/internal/descriptor"
	"github.com/liuzenghui2007/extract-images/internal/encoder"
	"github.com/liuzenghui2007/extract-images/internal/reconstruct"
)

// Output is the encoded file for one image.
type Output struct {
	Data      []byte
	Extension string
	// Kind is "jpg" for passthrough, otherwise the container format.
	Kind string
	// Model is the reconstructed color model; empty for passthrough.
	Model string
}

// Render produces the file bytes for d. JPEG streams are returned as
// stored; everything else is reconstructed and serialized with enc.
func Render(d *descriptor.ImageDescriptor, enc encoder.Encoder) (Output, error) {
	if d.Compression == descriptor.JpegPassthrough {
		return Output{Data: d.Data, Extension: "jpg", Kind: "jpg"}, nil
	}

	buf, err := reconstruct.Reconstruct(d)
	if err != nil {
		return Output{}, err
	}
	data, err := enc.Encode(buf)
	if err != nil {
		return Output{}, d.Err(err)
	}
	return Output{
		Data:      data,
		Extension: enc.Extension(),
		Kind:      enc.Format(),
		Model:     buf.Model.String(),
	}, nil
}

// processResult holds the outcome for one emittable descriptor.
type processResult struct {
	desc *descriptor.ImageDescriptor
	out  Output
	err  error
}
