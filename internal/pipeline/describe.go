package pipeline

import (
	"fmt"

	"github.com/liuzenghui2007/extract-images/internal/descriptor"
	"github.com/liuzenghui2007/extract-images/internal/document"
)

// Load builds the descriptor set of doc and links the soft masks.
func Load(doc document.Document) (*descriptor.Set, error) {
	set, err := descriptor.Build(doc)
	if err != nil {
		return nil, err
	}
	if err := set.Link(); err != nil {
		return nil, err
	}
	return set, nil
}

// Describe returns the one-line summary of a descriptor.
func Describe(d *descriptor.ImageDescriptor) string {
	return fmt.Sprintf("Name: %s  Type: %s  Color Space: %s  Has Alpha Layer? %t  Is Alpha Layer? %t  "+
		"Width: %d  Height: %d  Bits Per Component: %d  Data: %d bytes  Ref: %s",
		d.Name, d.Compression, d.ColorSpaceLabel, d.Mask != nil, d.IsAlphaLayer,
		d.Width, d.Height, d.BitsPerComponent, len(d.Data), d.Ref)
}
