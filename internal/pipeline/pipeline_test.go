package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zlib"

	"github.com/liuzenghui2007/extract-images/internal/descriptor"
	"github.com/liuzenghui2007/extract-images/internal/document"
	"github.com/liuzenghui2007/extract-images/internal/manifest"
	"github.com/liuzenghui2007/extract-images/internal/profile"
	"github.com/liuzenghui2007/extract-images/internal/reconstruct"
	"github.com/liuzenghui2007/extract-images/internal/testpdf"
)

func ref(n int) document.Ref { return document.Ref{Number: n} }

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// imageDict describes an uncompressed image; callers add /Filter.
func imageDict(cs string, w, h, bpc int) map[string]document.Value {
	return map[string]document.Value{
		"Subtype":          document.Name("Image"),
		"Width":            document.Integer(w),
		"Height":           document.Integer(h),
		"BitsPerComponent": document.Integer(bpc),
		"ColorSpace":       document.Name(cs),
	}
}

func run(t *testing.T, dir string, p profile.Profile, doc document.Document) (*manifest.Manifest, string, error) {
	t.Helper()
	var log bytes.Buffer
	pl, err := New(Config{
		InputPath: "memory.pdf",
		OutputDir: dir,
		Profile:   p,
		Workers:   2,
		Verbose:   true,
		Log:       &log,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m, err := pl.RunDocument(context.Background(), doc)
	return m, log.String(), err
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// maskedDocument has an RGB image, its soft mask, and a 1-bit gray image.
func maskedDocument(t *testing.T) *document.Graph {
	g := document.NewGraph()
	img := imageDict("DeviceRGB", 2, 1, 8)
	img["Filter"] = document.Name("FlateDecode")
	img["SMask"] = document.Reference(ref(2))
	g.AddStream(ref(1), img, deflate(t, []byte{1, 2, 3, 4, 5, 6}))
	mask := imageDict("DeviceGray", 2, 1, 8)
	mask["Filter"] = document.Name("FlateDecode")
	g.AddStream(ref(2), mask, deflate(t, []byte{10, 20}))
	g.AddStream(ref(3), imageDict("DeviceGray", 1, 1, 1), []byte{0x01})
	return g
}

func TestRunSkipsMasks(t *testing.T) {
	dir := t.TempDir()
	m, log, err := run(t, dir, profile.Get("default"), maskedDocument(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{"images.manifest.json", "out1.png", "out2.png"}
	if diff := cmp.Diff(want, listDir(t, dir)); diff != "" {
		t.Errorf("output files (-want +got):\n%s", diff)
	}

	if len(m.Images) != 2 {
		t.Fatalf("images: got %d, want 2", len(m.Images))
	}
	first := m.Images[0]
	if first.Ref != "1 0 R" || first.MaskRef != "2 0 R" || first.Model != "rgb+alpha" {
		t.Errorf("first image: %+v", first)
	}
	if m.Images[1].Ref != "3 0 R" || m.Images[1].Model != "gray" {
		t.Errorf("second image: %+v", m.Images[1])
	}
	if m.Stats.TotalObjects != 3 || m.Stats.AlphaLayers != 1 || m.Stats.Extracted != 2 {
		t.Errorf("stats: %+v", m.Stats)
	}

	f, err := os.Open(filepath.Join(dir, "out1.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode out1.png: %v", err)
	}
	got := color.NRGBAModel.Convert(img.At(1, 0)).(color.NRGBA)
	if got != (color.NRGBA{4, 5, 6, 20}) {
		t.Errorf("out1.png pixel 1: got %v", got)
	}

	if !strings.Contains(log, "Has Alpha Layer? true") || !strings.Contains(log, "Is Alpha Layer? true") {
		t.Errorf("verbose log lacks descriptor lines:\n%s", log)
	}
}

func TestRunPassesJPEGThrough(t *testing.T) {
	jpeg := []byte("\xff\xd8\xff\xe0 not decoded \xff\xd9")
	g := document.NewGraph()
	d := imageDict("DeviceRGB", 640, 480, 8)
	d["Filter"] = document.Array(document.Name("DCTDecode"))
	g.AddStream(ref(4), d, jpeg)

	dir := t.TempDir()
	m, _, err := run(t, dir, profile.Get("default"), g)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out1.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, jpeg) {
		t.Error("JPEG bytes changed on the way out")
	}
	if m.Images[0].Kind != "jpg" || m.Images[0].Model != "" {
		t.Errorf("manifest entry: %+v", m.Images[0])
	}
}

func TestRunMalformedWritesNothing(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "out1.png")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := maskedDocument(t)
	d := imageDict("DeviceRGB", 2, 2, 8)
	delete(d, "Height")
	g.AddStream(ref(9), d, nil)

	_, _, err := run(t, dir, profile.Get("default"), g)
	if !IsMalformed(err) {
		t.Fatalf("got %v, want a malformed document error", err)
	}
	if diff := cmp.Diff([]string{"out1.png"}, listDir(t, dir)); diff != "" {
		t.Errorf("output dir touched (-want +got):\n%s", diff)
	}
}

func TestRunPartialFailure(t *testing.T) {
	g := document.NewGraph()
	g.AddStream(ref(1), imageDict("DeviceRGB", 1, 1, 16), make([]byte, 6))
	g.AddStream(ref(2), imageDict("DeviceGray", 2, 1, 8), []byte{7, 8})

	dir := t.TempDir()
	m, _, err := run(t, dir, profile.Get("default"), g)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(m.Images) != 1 || m.Images[0].Path != "out1.png" || m.Images[0].Ref != "2 0 R" {
		t.Errorf("images: %+v", m.Images)
	}
	if len(m.Failures) != 1 || m.Failures[0].Ref != "1 0 R" {
		t.Errorf("failures: %+v", m.Failures)
	}

	saved, err := manifest.ReadJSON(filepath.Join(dir, manifest.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if saved.Stats.Failed != 1 || saved.Stats.Extracted != 1 {
		t.Errorf("saved stats: %+v", saved.Stats)
	}
}

func TestRunStrict(t *testing.T) {
	g := document.NewGraph()
	g.AddStream(ref(1), imageDict("DeviceGray", 2, 1, 8), []byte{7, 8})
	g.AddStream(ref(2), imageDict("DeviceRGB", 1, 1, 16), make([]byte, 6))

	dir := filepath.Join(t.TempDir(), "out")
	p := profile.Get("default")
	p.Strict = true
	_, _, err := run(t, dir, p, g)
	if !errors.Is(err, reconstruct.ErrUnsupportedConfig) {
		t.Fatalf("got %v, want ErrUnsupportedConfig", err)
	}
	var ie *descriptor.ImageError
	if !errors.As(err, &ie) || ie.Ref != ref(2) {
		t.Errorf("error does not name the image: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("strict failure created the output dir")
	}
}

func TestRunAllFail(t *testing.T) {
	g := document.NewGraph()
	g.AddStream(ref(1), imageDict("DeviceRGB", 4, 4, 8), []byte{1})

	if _, _, err := run(t, t.TempDir(), profile.Get("default"), g); err == nil {
		t.Error("expected error when every image fails")
	}
}

func TestRunEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	m, _, err := run(t, dir, profile.Get("default"), document.NewGraph())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(m.Images) != 0 {
		t.Errorf("images: got %d", len(m.Images))
	}
	if diff := cmp.Diff([]string{manifest.FileName}, listDir(t, dir)); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
}

func TestRunThumbnails(t *testing.T) {
	dir := t.TempDir()
	m, _, err := run(t, dir, profile.Get("preview"), maskedDocument(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, img := range m.Images {
		if img.Thumbnail == "" {
			t.Errorf("%s: no thumbnail", img.Path)
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, img.Thumbnail)); err != nil {
			t.Errorf("%s: %v", img.Thumbnail, err)
		}
	}
	if m.Images[0].Thumbnail != "thumbs/out1.png" {
		t.Errorf("thumbnail path: got %q", m.Images[0].Thumbnail)
	}
}

func TestRunTIFF(t *testing.T) {
	dir := t.TempDir()
	m, _, err := run(t, dir, profile.Get("archive"), maskedDocument(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if m.Images[0].Path != "out1.tif" || m.Images[0].Kind != "tiff" {
		t.Errorf("first image: %+v", m.Images[0])
	}
}

func TestRunReplacesPreviousOutputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out7.png", "out3.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, _, err := run(t, dir, profile.Get("default"), maskedDocument(t)); err != nil {
		t.Fatal(err)
	}
	want := []string{"images.manifest.json", "notes.txt", "out1.png", "out2.png"}
	if diff := cmp.Diff(want, listDir(t, dir)); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
}

func TestRunDeterministic(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	if _, _, err := run(t, a, profile.Get("default"), maskedDocument(t)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, b, profile.Get("default"), maskedDocument(t)); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"out1.png", "out2.png"} {
		x, _ := os.ReadFile(filepath.Join(a, name))
		y, _ := os.ReadFile(filepath.Join(b, name))
		if !bytes.Equal(x, y) {
			t.Errorf("%s differs between runs", name)
		}
	}
}

func TestRunCanceled(t *testing.T) {
	pl, err := New(Config{OutputDir: t.TempDir(), Profile: profile.Get("default"), Log: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pl.RunDocument(ctx, maskedDocument(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestNewUnknownFormat(t *testing.T) {
	p := profile.Get("default")
	p.Format = "webp"
	if _, err := New(Config{OutputDir: t.TempDir(), Profile: p}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestClearOutputs(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ThumbDir), 0o755); err != nil {
		t.Fatal(err)
	}
	files := []string{
		"out1.png", "out12.jpg", "out3.tif", "thumbs/out1.png", manifest.FileName,
		"keep.txt", "out1.png.bak", "other1.png", "outx.png", "out.png",
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := ClearOutputs(dir, "out")
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("removed: got %d, want 5", n)
	}
	want := []string{"keep.txt", "other1.png", "out.png", "out1.png.bak", "outx.png", ThumbDir}
	if diff := cmp.Diff(want, listDir(t, dir)); diff != "" {
		t.Errorf("remaining (-want +got):\n%s", diff)
	}
}

func TestClearOutputsMissingDir(t *testing.T) {
	n, err := ClearOutputs(filepath.Join(t.TempDir(), "absent"), "out")
	if err != nil || n != 0 {
		t.Errorf("got %d, %v", n, err)
	}
}

func TestDescribe(t *testing.T) {
	set, err := Load(maskedDocument(t))
	if err != nil {
		t.Fatal(err)
	}
	d, _ := set.Lookup(ref(3))
	got := Describe(d)
	want := "Name: Object3  Type: raw  Color Space: DeviceGray  Has Alpha Layer? false  Is Alpha Layer? false  " +
		"Width: 1  Height: 1  Bits Per Component: 1  Data: 1 bytes  Ref: 3 0 R"
	if got != want {
		t.Errorf("describe:\n got %q\nwant %q", got, want)
	}
}

func TestRunFile(t *testing.T) {
	b := testpdf.New()
	b.Image("Im1", "/Type /XObject /Subtype /Image /Width 2 /Height 1 /ColorSpace /DeviceGray /BitsPerComponent 8",
		[]byte{0x00, 0xff})
	src := filepath.Join(t.TempDir(), "doc.pdf")
	if err := b.WriteFile(src); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	pl, err := New(Config{InputPath: src, OutputDir: dir, Profile: profile.Get("default"), Log: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	m, err := pl.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(m.Images) != 1 || m.Images[0].Path != "out1.png" {
		t.Errorf("images: %+v", m.Images)
	}
	if m.Source != src {
		t.Errorf("source: got %q", m.Source)
	}
}
