package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/liuzenghui2007/extract-images/internal/hasher"
)

// Validate checks m against the files under baseDir and returns one
// message per problem. Hashes are recomputed when checkHashes is set.
func Validate(m *Manifest, baseDir string, checkHashes bool) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	seenPaths := map[string]bool{}
	var outBytes int64
	for i, img := range m.Images {
		label := fmt.Sprintf("image[%d] %s", i, img.Name)
		if img.Width <= 0 || img.Height <= 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid dimensions %dx%d", label, img.Width, img.Height))
		}
		if img.Hash == "" {
			errs = append(errs, fmt.Sprintf("%s: missing hash", label))
		}
		if img.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: missing path", label))
			continue
		}
		if seenPaths[img.Path] {
			errs = append(errs, fmt.Sprintf("%s: duplicate path %q", label, img.Path))
		}
		seenPaths[img.Path] = true
		outBytes += img.Size

		full := filepath.Join(baseDir, filepath.FromSlash(img.Path))
		info, err := os.Stat(full)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: file not found: %s", label, img.Path))
			continue
		}
		if info.Size() != img.Size {
			errs = append(errs, fmt.Sprintf("%s: size mismatch: manifest=%d, disk=%d", label, img.Size, info.Size()))
		}
		if checkHashes && img.Hash != "" {
			sum, err := hasher.File(full)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", label, err))
			} else if sum != img.Hash {
				errs = append(errs, fmt.Sprintf("%s: hash mismatch: manifest=%s, disk=%s", label, img.Hash, sum))
			}
		}
		if img.Thumbnail != "" {
			if _, err := os.Stat(filepath.Join(baseDir, filepath.FromSlash(img.Thumbnail))); err != nil {
				errs = append(errs, fmt.Sprintf("%s: thumbnail not found: %s", label, img.Thumbnail))
			}
		}
	}

	if m.Stats.Extracted != len(m.Images) {
		errs = append(errs, fmt.Sprintf("stats.extracted mismatch: %d != %d", m.Stats.Extracted, len(m.Images)))
	}
	if m.Stats.Failed != len(m.Failures) {
		errs = append(errs, fmt.Sprintf("stats.failed mismatch: %d != %d", m.Stats.Failed, len(m.Failures)))
	}
	if m.Stats.TotalOutputBytes != outBytes {
		errs = append(errs, fmt.Sprintf("stats.total_output_bytes mismatch: %d != %d", m.Stats.TotalOutputBytes, outBytes))
	}
	return errs
}
