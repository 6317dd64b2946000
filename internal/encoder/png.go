package encoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/klauspost/compress/zlib"
	"github.com/liuzenghui2007/extract-images/internal/reconstruct"
)

// PNGEncoder writes PNG files directly from the pixel buffer, so all four
// color models keep their channel layout (including gray+alpha, which
// image/png cannot emit).
type PNGEncoder struct {
	// Level is the zlib compression level. The zero value selects
	// zlib.BestCompression.
	Level int
}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Extension() string { return "png" }

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// PNG color types at 8 bits per sample.
const (
	pngGray      = 0
	pngRGB       = 2
	pngGrayAlpha = 4
	pngRGBA      = 6
)

func pngColorType(m reconstruct.ColorModel) (byte, error) {
	switch m {
	case reconstruct.Grayscale:
		return pngGray, nil
	case reconstruct.GrayscaleAlpha:
		return pngGrayAlpha, nil
	case reconstruct.RGB:
		return pngRGB, nil
	case reconstruct.RGBAlpha:
		return pngRGBA, nil
	}
	return 0, fmt.Errorf("png: %w: color model %s", reconstruct.ErrUnsupportedConfig, m)
}

func (e *PNGEncoder) Encode(buf *reconstruct.PixelBuffer) ([]byte, error) {
	ct, err := pngColorType(buf.Model)
	if err != nil {
		return nil, err
	}
	stride := buf.Stride()
	if len(buf.Pix) != stride*buf.Height {
		return nil, fmt.Errorf("png: %w: %d bytes for %dx%d %s",
			reconstruct.ErrDataBounds, len(buf.Pix), buf.Width, buf.Height, buf.Model)
	}

	level := e.Level
	if level == 0 {
		level = zlib.BestCompression
	}
	var idat bytes.Buffer
	zw, err := zlib.NewWriterLevel(&idat, level)
	if err != nil {
		return nil, err
	}
	// Filter type 0 (None) on every scanline.
	filter := []byte{0}
	for y := 0; y < buf.Height; y++ {
		if _, err := zw.Write(filter); err != nil {
			return nil, err
		}
		if _, err := zw.Write(buf.Pix[y*stride : (y+1)*stride]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(pngSignature) + 3*12 + 13 + idat.Len())
	out.Write(pngSignature)

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(buf.Width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(buf.Height))
	ihdr[8] = 8 // bit depth
	ihdr[9] = ct
	// compression, filter and interlace methods are all 0

	writeChunk(&out, "IHDR", ihdr)
	writeChunk(&out, "IDAT", idat.Bytes())
	writeChunk(&out, "IEND", nil)
	return out.Bytes(), nil
}

func writeChunk(w *bytes.Buffer, typ string, data []byte) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(data)))
	copy(hdr[4:], typ)
	w.Write(hdr[:])
	w.Write(data)

	crc := crc32.NewIEEE()
	crc.Write(hdr[4:])
	crc.Write(data)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	w.Write(sum[:])
}
