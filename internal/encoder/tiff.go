package encoder

import (
	"bytes"

	"github.com/liuzenghui2007/extract-images/internal/reconstruct"
	"golang.org/x/image/tiff"
)

// TIFFEncoder writes deflate-compressed TIFF files. Gray+alpha buffers
// are widened to RGBA since the tiff package has no two-channel layout.
type TIFFEncoder struct{}

func (e *TIFFEncoder) Format() string    { return "tiff" }
func (e *TIFFEncoder) Extension() string { return "tif" }

func (e *TIFFEncoder) Encode(buf *reconstruct.PixelBuffer) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(buf.Pix) + 1024)

	err := tiff.Encode(&out, buf.Image(), &tiff.Options{
		Compression: tiff.Deflate,
		Predictor:   true,
	})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
