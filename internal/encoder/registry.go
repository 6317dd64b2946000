package encoder

import (
	"fmt"
	"strings"
)

// Registry holds the container encoders by format name.
type Registry struct {
	encoders map[string]Encoder
	order    []string
}

// NewRegistry creates a registry with every built-in encoder.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range []Encoder{
		&PNGEncoder{},
		&TIFFEncoder{},
	} {
		r.Register(enc)
	}
	return r
}

// Register adds enc, replacing any encoder of the same format.
func (r *Registry) Register(enc Encoder) {
	f := strings.ToLower(enc.Format())
	if _, ok := r.encoders[f]; !ok {
		r.order = append(r.order, f)
	}
	r.encoders[f] = enc
}

// Get returns an encoder for the given format, or nil if unknown.
// "tif" is accepted for "tiff".
func (r *Registry) Get(format string) Encoder {
	f := strings.ToLower(format)
	if f == "tif" {
		f = "tiff"
	}
	return r.encoders[f]
}

// Lookup is Get with an error naming the known formats.
func (r *Registry) Lookup(format string) (Encoder, error) {
	if enc := r.Get(format); enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("unknown output format %q (available: %s)", format, strings.Join(r.Available(), ", "))
}

// Available returns all format names in registration order.
func (r *Registry) Available() []string {
	return append([]string(nil), r.order...)
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	if len(r.order) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(r.order, ", "))
}
