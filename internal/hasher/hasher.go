// Package hasher computes the content hashes recorded in the manifest.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Len is the number of hex characters kept from the 64-bit digest.
const Len = 16

// Sum returns the xxHash64 of data as Len hex characters.
func Sum(data []byte) string {
	return format(xxhash.Sum64(data))
}

// File hashes the file at path without reading it into memory.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return format(h.Sum64()), nil
}

func format(v uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return hex.EncodeToString(b[:])[:Len]
}
