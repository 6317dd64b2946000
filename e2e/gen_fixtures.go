//go:build ignore

// gen_fixtures writes a sample PDF for the E2E smoke test. It holds one
// image of each kind the extractor handles: JPEG passthrough, RGB with a
// soft mask, 8-bit gray and 1-bit gray.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zlib"

	"github.com/liuzenghui2007/extract-images/internal/testpdf"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(dir, 0o755)

	b := testpdf.New()

	// Banner (JPEG, 400x225)
	b.Image("Banner", imageHeader("DeviceRGB", 400, 225, 8)+" /Filter /DCTDecode", encodeJPEG(gradient(400, 225)))

	// Logo (RGB 100x100 with a horizontal alpha ramp)
	mask := b.Stream(imageHeader("DeviceGray", 100, 100, 8)+" /Filter /FlateDecode", deflate(alphaRamp(100, 100)))
	b.Image("Logo", fmt.Sprintf("%s /Filter /FlateDecode /SMask %d 0 R", imageHeader("DeviceRGB", 100, 100, 8), mask),
		deflate(solid(100, 100, 220, 60, 30)))

	// Card (8-bit gray, 200x150 with border)
	b.Image("Card", imageHeader("DeviceGray", 200, 150, 8)+" /Filter /FlateDecode", deflate(grayBorder(200, 150, 90)))

	// Checker (1-bit gray, 64x64, uncompressed)
	b.Image("Checker", imageHeader("DeviceGray", 64, 64, 1), checker(64, 64))

	path := filepath.Join(dir, "sample.pdf")
	if err := b.WriteFile(path); err != nil {
		panic(err)
	}
	fmt.Fprintf(os.Stderr, "[gen_fixtures] created %s (4 images, 1 soft mask)\n", path)
}

func imageHeader(cs string, w, h, bpc int) string {
	return fmt.Sprintf("/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /%s /BitsPerComponent %d",
		w, h, cs, bpc)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func solid(w, h int, r, g, b byte) []byte {
	pix := make([]byte, 0, w*h*3)
	for i := 0; i < w*h; i++ {
		pix = append(pix, r, g, b)
	}
	return pix
}

func alphaRamp(w, h int) []byte {
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pix[y*w+x] = uint8(x * 255 / w)
		}
	}
	return pix
}

func grayBorder(w, h int, base byte) []byte {
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := base
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				c = 255
			}
			pix[y*w+x] = c
		}
	}
	return pix
}

// checker packs one sample per bit, most significant bit first, 8x8 cells.
func checker(w, h int) []byte {
	pix := make([]byte, (w*h+7)/8)
	for p := 0; p < w*h; p++ {
		x, y := p%w, p/w
		if (x/8+y/8)%2 == 0 {
			pix[p/8] |= 0x80 >> (p % 8)
		}
	}
	return pix
}

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func encodeJPEG(img *image.NRGBA) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
