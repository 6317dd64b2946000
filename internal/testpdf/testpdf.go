// Package testpdf writes minimal single-page PDF files for tests and
// fixtures. Objects are numbered in the order they are added; the page
// tree and catalog are appended after them.
package testpdf

import (
	"bytes"
	"fmt"
	"os"
	"sort"
)

type object struct {
	dict   string
	data   []byte
	stream bool
}

// Builder accumulates objects for one document.
type Builder struct {
	objects []object
	images  map[string]int
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{images: make(map[string]int)}
}

// Dict adds a dictionary object. body is the dictionary content without
// the << >> delimiters. It returns the object number.
func (b *Builder) Dict(body string) int {
	b.objects = append(b.objects, object{dict: body})
	return len(b.objects)
}

// Stream adds a stream object. /Length is filled in.
func (b *Builder) Stream(body string, data []byte) int {
	b.objects = append(b.objects, object{dict: body, data: data, stream: true})
	return len(b.objects)
}

// Image adds a stream object and lists it in the page's XObject
// resources under name.
func (b *Builder) Image(name, body string, data []byte) int {
	nr := b.Stream(body, data)
	b.images[name] = nr
	return nr
}

// Bytes serializes the document.
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	pages := len(b.objects) + 1
	page := pages + 1
	catalog := page + 1

	names := make([]string, 0, len(b.images))
	for name := range b.images {
		names = append(names, name)
	}
	sort.Strings(names)
	var res bytes.Buffer
	for _, name := range names {
		fmt.Fprintf(&res, " /%s %d 0 R", name, b.images[name])
	}

	all := append([]object{}, b.objects...)
	all = append(all,
		object{dict: fmt.Sprintf("/Type /Pages /Kids [%d 0 R] /Count 1", page)},
		object{dict: fmt.Sprintf("/Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Resources << /XObject <<%s >> >>",
			pages, res.String())},
		object{dict: fmt.Sprintf("/Type /Catalog /Pages %d 0 R", pages)},
	)

	offsets := make([]int, len(all))
	for i, o := range all {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", i+1)
		if o.stream {
			fmt.Fprintf(&buf, "<< %s /Length %d >>\nstream\n", o.dict, len(o.data))
			buf.Write(o.data)
			buf.WriteString("\nendstream\n")
		} else {
			fmt.Fprintf(&buf, "<< %s >>\n", o.dict)
		}
		buf.WriteString("endobj\n")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(all)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(all)+1, catalog, xref)
	return buf.Bytes()
}

// WriteFile serializes the document to path.
func (b *Builder) WriteFile(path string) error {
	return os.WriteFile(path, b.Bytes(), 0o644)
}
