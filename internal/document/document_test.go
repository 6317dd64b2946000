package document

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/liuzenghui2007/extract-images/internal/testpdf"
)

func TestGraphResolve(t *testing.T) {
	g := NewGraph()
	w := Integer(100)
	hop := Reference(Ref{Number: 1})
	g.Add(Object{Ref: Ref{Number: 1}, Value: &w})
	g.Add(Object{Ref: Ref{Number: 2}, Value: &hop})
	g.AddStream(Ref{Number: 3}, map[string]Value{"Subtype": Name("Image")}, []byte{1})

	if got := g.Resolve(Reference(Ref{Number: 2})); got.Kind != KindInteger || got.Int != 100 {
		t.Errorf("chain: got %s, want 100", got)
	}
	if got := g.Resolve(Reference(Ref{Number: 42})); !got.IsMissing() {
		t.Errorf("dangling: got %s, want missing", got)
	}
	if got := g.Resolve(Reference(Ref{Number: 3})); got.Kind != KindDict || !got.Dict["Subtype"].IsName("Image") {
		t.Errorf("stream: got %s", got)
	}
	if got := g.Resolve(Name("DeviceRGB")); !got.IsName("DeviceRGB") {
		t.Errorf("direct value changed: %s", got)
	}
}

func TestGraphResolveCycle(t *testing.T) {
	g := NewGraph()
	a := Reference(Ref{Number: 2})
	b := Reference(Ref{Number: 1})
	g.Add(Object{Ref: Ref{Number: 1}, Value: &a})
	g.Add(Object{Ref: Ref{Number: 2}, Value: &b})

	if got := g.Resolve(Reference(Ref{Number: 1})); !got.IsMissing() {
		t.Errorf("cycle: got %s, want missing", got)
	}
}

func TestGraphReplaceKeepsOrder(t *testing.T) {
	g := NewGraph()
	g.Add(Object{Ref: Ref{Number: 5}})
	g.Add(Object{Ref: Ref{Number: 6}})
	g.AddStream(Ref{Number: 5}, nil, []byte("new"))

	objs := g.Objects()
	if len(objs) != 2 {
		t.Fatalf("objects: got %d, want 2", len(objs))
	}
	if objs[0].Ref.Number != 5 || string(objs[0].Stream) != "new" {
		t.Errorf("replaced object: got %+v", objs[0])
	}
}

func TestLookupMissing(t *testing.T) {
	if !(Object{}).Lookup("Width").IsMissing() {
		t.Error("lookup on object without dict should be missing")
	}
	o := Object{Dict: map[string]Value{"Width": Integer(3)}}
	if n, ok := o.Lookup("Width").AsInt(); !ok || n != 3 {
		t.Errorf("width: got %d %t", n, ok)
	}
	if n, ok := Number(7).AsInt(); !ok || n != 7 {
		t.Errorf("integral real: got %d %t", n, ok)
	}
	if _, ok := Number(7.5).AsInt(); ok {
		t.Error("fractional real accepted as integer")
	}
}

func TestFromContext(t *testing.T) {
	gen := 0
	ctx := &model.Context{XRefTable: &model.XRefTable{Table: map[int]*model.XRefTableEntry{
		0: {Free: true},
		2: {Generation: &gen, Object: types.StreamDict{
			Dict: types.Dict{
				"Subtype":    types.Name("Image"),
				"Width":      types.Integer(2),
				"ColorSpace": types.IndirectRef{ObjectNumber: 1},
				"Decode":     types.Array{types.Float(0), types.Float(1)},
			},
			Raw: []byte{0xde, 0xad},
		}},
		1: {Generation: &gen, Object: types.Name("DeviceGray")},
	}}}

	g, err := FromContext(ctx)
	if err != nil {
		t.Fatalf("FromContext: %v", err)
	}
	objs := g.Objects()
	if len(objs) != 2 {
		t.Fatalf("objects: got %d, want 2", len(objs))
	}
	if objs[0].Ref.Number != 1 || objs[1].Ref.Number != 2 {
		t.Errorf("order: got %s, %s", objs[0].Ref, objs[1].Ref)
	}

	img := objs[1]
	if !img.IsStream || !bytes.Equal(img.Stream, []byte{0xde, 0xad}) {
		t.Errorf("stream bytes: got %x", img.Stream)
	}
	if got := g.Resolve(img.Lookup("ColorSpace")); !got.IsName("DeviceGray") {
		t.Errorf("color space: got %s", got)
	}
	want := Array(Number(0), Number(1))
	if diff := cmp.Diff(want, img.Lookup("Decode")); diff != "" {
		t.Errorf("decode array (-want +got):\n%s", diff)
	}
}

func TestOpen(t *testing.T) {
	b := testpdf.New()
	cs := b.Dict("/N 1") // unrelated dictionary
	b.Image("Im1", "/Type /XObject /Subtype /Image /Width 2 /Height 1 /ColorSpace /DeviceGray /BitsPerComponent 8",
		[]byte{0x00, 0xff})
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := b.WriteFile(path); err != nil {
		t.Fatal(err)
	}

	g, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var found bool
	for _, o := range g.Objects() {
		if o.Ref.Number == cs && o.IsStream {
			t.Error("dictionary object reported as stream")
		}
		if g.Resolve(o.Lookup("Subtype")).IsName("Image") {
			found = true
			if !bytes.Equal(o.Stream, []byte{0x00, 0xff}) {
				t.Errorf("image bytes: got %x", o.Stream)
			}
			if w, _ := o.Lookup("Width").AsInt(); w != 2 {
				t.Errorf("width: got %d", w)
			}
		}
	}
	if !found {
		t.Error("image object not found")
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}
