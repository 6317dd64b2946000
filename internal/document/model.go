// Package document is the object-graph view the extractor reads from.
//
// It exposes every object of a document in file order, dictionary lookups
// that fall back to Missing instead of failing, and the raw bytes of stream
// objects. Reference resolution and stream reading are done by the backing
// reader; callers only see plain values.
package document

import (
	"fmt"
	"strings"
)

// Ref identifies an indirect object.
type Ref struct {
	Number     int
	Generation int
}

func (r Ref) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

// Kind tags the variant held by a Value.
type Kind int

const (
	KindMissing Kind = iota
	KindName
	KindInteger
	KindNumber
	KindString
	KindReference
	KindArray
	KindDict
	KindOther
)

// Value is a resolved or unresolved dictionary entry.
// The zero value is Missing.
type Value struct {
	Kind  Kind
	Name  string
	Int   int
	Float float64
	Str   string
	Ref   Ref
	Items []Value
	Dict  map[string]Value
}

// Missing is the sentinel returned for absent entries.
var Missing = Value{}

func Name(s string) Value        { return Value{Kind: KindName, Name: s} }
func Integer(n int) Value        { return Value{Kind: KindInteger, Int: n} }
func Number(f float64) Value     { return Value{Kind: KindNumber, Float: f} }
func String(s string) Value      { return Value{Kind: KindString, Str: s} }
func Reference(r Ref) Value      { return Value{Kind: KindReference, Ref: r} }
func Array(items ...Value) Value { return Value{Kind: KindArray, Items: items} }

func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// IsName reports whether v is the name n.
func (v Value) IsName(n string) bool { return v.Kind == KindName && v.Name == n }

// AsInt returns the integer held by v. Real numbers with no fractional
// part are accepted, as some writers emit /Width 100.0.
func (v Value) AsInt() (int, bool) {
	switch v.Kind {
	case KindInteger:
		return v.Int, true
	case KindNumber:
		if v.Float == float64(int(v.Float)) {
			return int(v.Float), true
		}
	}
	return 0, false
}

func (v Value) String() string {
	switch v.Kind {
	case KindMissing:
		return "<missing>"
	case KindName:
		return "/" + v.Name
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindNumber:
		return fmt.Sprintf("%g", v.Float)
	case KindString:
		return fmt.Sprintf("(%s)", v.Str)
	case KindReference:
		return v.Ref.String()
	case KindArray:
		parts := make([]string, len(v.Items))
		for i, it := range v.Items {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case KindDict:
		return fmt.Sprintf("<<%d entries>>", len(v.Dict))
	}
	return "<object>"
}

// Object is one entry of the document's object table.
type Object struct {
	Ref Ref
	// Dict is nil for objects that are not dictionaries or streams.
	Dict map[string]Value
	// Stream holds the stream bytes exactly as stored in the file,
	// before any filter is applied.
	Stream   []byte
	IsStream bool
	// Value holds the object for anything that is not a dictionary,
	// such as a shared color space array or an integer length.
	Value *Value
}

// Lookup returns the entry for key, or Missing.
func (o Object) Lookup(key string) Value {
	if o.Dict == nil {
		return Missing
	}
	v, ok := o.Dict[key]
	if !ok {
		return Missing
	}
	return v
}

// Document is a read-only object graph.
type Document interface {
	// Objects returns every object in document order.
	Objects() []Object

	// Resolve follows v if it is a reference. Dangling references
	// resolve to Missing. Other values are returned unchanged.
	Resolve(v Value) Value
}
