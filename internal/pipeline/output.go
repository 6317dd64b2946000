package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/liuzenghui2007/extract-images/internal/manifest"
)

// ThumbDir is the thumbnail subdirectory of the output directory.
const ThumbDir = "thumbs"

// outputName returns the file name of the idx-th output (1-based).
func outputName(prefix string, idx int, ext string) string {
	return fmt.Sprintf("%s%d.%s", prefix, idx, ext)
}

// ClearOutputs removes files a previous run with the same prefix left in
// dir: numbered images, their thumbnails and the manifest. Other files
// are not touched. A missing dir is not an error.
func ClearOutputs(dir, prefix string) (int, error) {
	re, err := regexp.Compile(`^` + regexp.QuoteMeta(prefix) + `[0-9]+\.(png|jpg|tif)$`)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, d := range []string{dir, filepath.Join(dir, ThumbDir)} {
		entries, err := os.ReadDir(d)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("read %s: %w", d, err)
		}
		for _, e := range entries {
			if e.IsDir() || !re.MatchString(e.Name()) {
				continue
			}
			if err := os.Remove(filepath.Join(d, e.Name())); err != nil {
				return removed, fmt.Errorf("remove stale output: %w", err)
			}
			removed++
		}
	}

	mp := filepath.Join(dir, manifest.FileName)
	if err := os.Remove(mp); err == nil {
		removed++
	} else if !os.IsNotExist(err) {
		return removed, fmt.Errorf("remove stale manifest: %w", err)
	}
	return removed, nil
}
