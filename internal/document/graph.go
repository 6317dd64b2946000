package document

// Graph is a Document held entirely in memory. Open materializes files
// into a Graph; tests build one by hand.
type Graph struct {
	objects []Object
	byRef   map[Ref]int
}

// NewGraph returns an empty document graph.
func NewGraph() *Graph {
	return &Graph{byRef: make(map[Ref]int)}
}

// Add appends an object. Adding a Ref twice replaces the earlier object
// but keeps its position.
func (m *Graph) Add(obj Object) {
	if i, ok := m.byRef[obj.Ref]; ok {
		m.objects[i] = obj
		return
	}
	m.byRef[obj.Ref] = len(m.objects)
	m.objects = append(m.objects, obj)
}

// AddStream is a shorthand for adding a stream object with the given
// dictionary and stored bytes.
func (m *Graph) AddStream(ref Ref, dict map[string]Value, data []byte) {
	m.Add(Object{Ref: ref, Dict: dict, Stream: data, IsStream: true})
}

func (m *Graph) Objects() []Object {
	return m.objects
}

func (m *Graph) Resolve(v Value) Value {
	// Chains of references are legal but rare; bound the walk so a cycle
	// cannot hang the caller.
	for hop := 0; hop < 32; hop++ {
		if v.Kind != KindReference {
			return v
		}
		i, ok := m.byRef[v.Ref]
		if !ok {
			return Missing
		}
		obj := m.objects[i]
		if obj.IsStream || obj.Dict != nil {
			return Value{Kind: KindDict, Dict: obj.Dict}
		}
		if obj.Value == nil {
			return Missing
		}
		v = *obj.Value
	}
	return Missing
}
