package reconstruct

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ErrCorruptStream is returned when /FlateDecode data cannot be inflated.
var ErrCorruptStream = errors.New("corrupt flate stream")

// Inflate decompresses zlib data as written by a /FlateDecode filter.
// Streams that end early or carry a bad checksum are accepted as long as
// they produced output; the length checks in Assemble catch real loss.
func Inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	defer zr.Close()

	var out bytes.Buffer
	out.Grow(4 * len(data))
	_, err = io.Copy(&out, zr)
	switch {
	case err == nil:
	case out.Len() > 0 && (errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, zlib.ErrChecksum)):
	default:
		return nil, fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	return out.Bytes(), nil
}
