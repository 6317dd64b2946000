package encoder

import (
	"github.com/liuzenghui2007/extract-images/internal/reconstruct"
)

// Encoder serializes a reconstructed pixel buffer into a container format.
type Encoder interface {
	// Format returns the container name (e.g. "png", "tiff").
	Format() string

	// Encode serializes buf. Encoders must not retain buf.
	Encode(buf *reconstruct.PixelBuffer) ([]byte, error)

	// Extension returns the file extension without dot.
	Extension() string
}
