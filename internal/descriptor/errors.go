package descriptor

import (
	"errors"
	"fmt"

	"github.com/liuzenghui2007/extract-images/internal/document"
)

// ErrMalformedDocument marks inconsistencies in the source document, such
// as a mask reference to an object that does not exist. A run that hits
// one is aborted.
var ErrMalformedDocument = errors.New("malformed document")

// ImageError locates a failure at a specific image object.
type ImageError struct {
	Name string
	Ref  document.Ref
	Err  error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image %s (%s): %v", e.Name, e.Ref, e.Err)
}

func (e *ImageError) Unwrap() error { return e.Err }

func malformed(name string, ref document.Ref, format string, args ...any) error {
	return &ImageError{
		Name: name,
		Ref:  ref,
		Err:  fmt.Errorf("%w: "+format, append([]any{ErrMalformedDocument}, args...)...),
	}
}
