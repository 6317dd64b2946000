package descriptor

import (
	"fmt"

	"github.com/liuzenghui2007/extract-images/internal/document"
)

// Set holds the descriptors of one document, in encounter order.
type Set struct {
	images []*ImageDescriptor
	byRef  map[document.Ref]*ImageDescriptor
	linked bool
}

// Build creates a descriptor for every object whose /Subtype is /Image.
// Placeholder names count every object of the document, not just images,
// so they stay stable when unrelated objects are inserted after an image.
func Build(doc document.Document) (*Set, error) {
	s := &Set{byRef: make(map[document.Ref]*ImageDescriptor)}

	for i, obj := range doc.Objects() {
		if !obj.IsStream {
			continue
		}
		if !doc.Resolve(obj.Lookup("Subtype")).IsName("Image") {
			continue
		}
		d, err := newDescriptor(doc, obj, i+1)
		if err != nil {
			return nil, err
		}
		s.images = append(s.images, d)
		s.byRef[d.Ref] = d
	}
	return s, nil
}

func newDescriptor(doc document.Document, obj document.Object, idx int) (*ImageDescriptor, error) {
	d := &ImageDescriptor{
		Ref:  obj.Ref,
		Name: fmt.Sprintf("Object%d", idx),
		Data: obj.Stream,
	}
	if name := doc.Resolve(obj.Lookup("Name")); name.Kind == document.KindName {
		d.Name = name.Name
	}

	var err error
	if d.Width, err = requireInt(doc, obj, d.Name, "Width"); err != nil {
		return nil, err
	}
	if d.Height, err = requireInt(doc, obj, d.Name, "Height"); err != nil {
		return nil, err
	}
	if d.BitsPerComponent, err = requireInt(doc, obj, d.Name, "BitsPerComponent"); err != nil {
		return nil, err
	}
	if d.Width <= 0 || d.Height <= 0 {
		return nil, malformed(d.Name, d.Ref, "invalid dimensions %dx%d", d.Width, d.Height)
	}

	cs := doc.Resolve(obj.Lookup("ColorSpace"))
	d.ColorSpace, d.ColorSpaceLabel = colorSpaceOf(cs)
	d.Compression = compressionOf(doc, doc.Resolve(obj.Lookup("Filter")))

	// JPEG soft masks are not paired.
	if d.Compression != JpegPassthrough {
		if m := obj.Lookup("SMask"); m.Kind == document.KindReference {
			ref := m.Ref
			d.MaskRef = &ref
		}
	}
	return d, nil
}

func requireInt(doc document.Document, obj document.Object, name, key string) (int, error) {
	v := doc.Resolve(obj.Lookup(key))
	if v.IsMissing() {
		return 0, malformed(name, obj.Ref, "missing /%s", key)
	}
	n, ok := v.AsInt()
	if !ok {
		return 0, malformed(name, obj.Ref, "/%s is %s, not an integer", key, v)
	}
	return n, nil
}

func colorSpaceOf(v document.Value) (ColorSpace, string) {
	switch {
	case v.IsName("DeviceGray"):
		return DeviceGray, "DeviceGray"
	case v.IsName("DeviceRGB"):
		return DeviceRGB, "DeviceRGB"
	case v.IsMissing():
		return OtherColorSpace, "-"
	}
	return OtherColorSpace, v.String()
}

func compressionOf(doc document.Document, v document.Value) Compression {
	switch v.Kind {
	case document.KindMissing:
		return Uncompressed
	case document.KindName:
		if v.Name == "DCTDecode" {
			return JpegPassthrough
		}
	case document.KindArray:
		switch len(v.Items) {
		case 0:
			return Uncompressed
		case 1:
			if doc.Resolve(v.Items[0]).IsName("DCTDecode") {
				return JpegPassthrough
			}
		}
	}
	return RawInflateCompatible
}
