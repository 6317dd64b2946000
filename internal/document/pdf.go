package document

import (
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Open reads the PDF file at path and materializes its object table.
// Objects are ordered by object number, which for files written in a
// single pass is also the order they appear in the file.
func Open(path string) (*Graph, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return FromContext(ctx)
}

// FromContext converts an already parsed pdfcpu context.
func FromContext(ctx *model.Context) (*Graph, error) {
	if ctx == nil || ctx.XRefTable == nil {
		return nil, fmt.Errorf("no cross-reference table")
	}

	numbers := make([]int, 0, len(ctx.XRefTable.Table))
	for nr := range ctx.XRefTable.Table {
		numbers = append(numbers, nr)
	}
	sort.Ints(numbers)

	g := NewGraph()
	for _, nr := range numbers {
		entry := ctx.XRefTable.Table[nr]
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		ref := Ref{Number: nr}
		if entry.Generation != nil {
			ref.Generation = *entry.Generation
		}

		obj, err := convertObject(ctx, ref, entry.Object)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", ref, err)
		}
		g.Add(obj)
	}
	return g, nil
}

func convertObject(ctx *model.Context, ref Ref, o types.Object) (Object, error) {
	switch x := o.(type) {
	case types.StreamDict:
		raw := x.Raw
		if raw == nil {
			// Streams inside incremental updates may not be loaded yet.
			ir := types.IndirectRef{
				ObjectNumber:     types.Integer(ref.Number),
				GenerationNumber: types.Integer(ref.Generation),
			}
			sd, _, err := ctx.DereferenceStreamDict(ir)
			if err != nil {
				return Object{}, err
			}
			if sd != nil {
				raw = sd.Raw
			}
		}
		return Object{Ref: ref, Dict: convertDict(x.Dict), Stream: raw, IsStream: true}, nil
	case *types.StreamDict:
		return convertObject(ctx, ref, *x)
	case types.Dict:
		return Object{Ref: ref, Dict: convertDict(x)}, nil
	}
	v := convertValue(o)
	return Object{Ref: ref, Value: &v}, nil
}

func convertDict(d types.Dict) map[string]Value {
	out := make(map[string]Value, len(d))
	for k, v := range d {
		out[k] = convertValue(v)
	}
	return out
}

func convertValue(o types.Object) Value {
	switch x := o.(type) {
	case nil:
		return Missing
	case types.Name:
		return Name(string(x))
	case types.Integer:
		return Integer(int(x))
	case types.Float:
		return Number(float64(x))
	case types.StringLiteral:
		return String(string(x))
	case types.HexLiteral:
		return String(string(x))
	case types.IndirectRef:
		return Reference(Ref{Number: int(x.ObjectNumber), Generation: int(x.GenerationNumber)})
	case *types.IndirectRef:
		return convertValue(*x)
	case types.Array:
		items := make([]Value, len(x))
		for i, it := range x {
			items[i] = convertValue(it)
		}
		return Array(items...)
	case types.Dict:
		return Value{Kind: KindDict, Dict: convertDict(x)}
	case types.StreamDict:
		return Value{Kind: KindDict, Dict: convertDict(x.Dict)}
	}
	return Value{Kind: KindOther}
}
