package descriptor

import "github.com/liuzenghui2007/extract-images/internal/document"

// Link resolves every mask reference against the built set. The mask
// becomes an alpha layer and the image records a pointer to it. An
// image pointing at an object that is not an image in this set is a
// malformed document. Link runs at most once; later calls return nil.
func (s *Set) Link() error {
	if s.linked {
		return nil
	}

	// Validate before mutating anything so a failed Link leaves the set
	// untouched.
	for _, d := range s.images {
		if d.MaskRef == nil {
			continue
		}
		m, ok := s.byRef[*d.MaskRef]
		if !ok {
			return malformed(d.Name, d.Ref, "soft mask %s is not an image of this document", *d.MaskRef)
		}
		if m == d {
			return malformed(d.Name, d.Ref, "image is its own soft mask")
		}
		if m.MaskRef != nil {
			return malformed(d.Name, d.Ref, "soft mask %s declares a soft mask itself", m.Ref)
		}
	}

	for _, d := range s.images {
		if d.MaskRef == nil {
			continue
		}
		m := s.byRef[*d.MaskRef]
		m.IsAlphaLayer = true
		d.Mask = m
	}
	s.linked = true
	return nil
}

// Images returns all descriptors in encounter order.
func (s *Set) Images() []*ImageDescriptor {
	return s.images
}

// Len returns the number of descriptors.
func (s *Set) Len() int { return len(s.images) }

// Lookup finds a descriptor by identity.
func (s *Set) Lookup(ref document.Ref) (*ImageDescriptor, bool) {
	d, ok := s.byRef[ref]
	return d, ok
}

// Emittable returns, in order, the descriptors that produce output files:
// everything that is not an alpha layer.
func (s *Set) Emittable() []*ImageDescriptor {
	var out []*ImageDescriptor
	for _, d := range s.images {
		if !d.IsAlphaLayer {
			out = append(out, d)
		}
	}
	return out
}
