package dson

// Kind identifies which variant a Value holds.
type Kind int

// The six DSON value kinds. The zero Kind is KindNone, so a zeroed Value is
// the empty value.
const (
	KindNone Kind = iota
	KindBool
	KindDouble
	KindString
	KindArray
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "empty"
	case KindBool:
		return "bool"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	}
	return "unknown"
}

// Value is a single node of a parsed DSON tree. Exactly one of the payload
// fields is meaningful, selected by Kind. DSON has no integer type; all
// numbers are doubles.
type Value struct {
	Kind Kind

	Str  string // Kind == KindString; may contain embedded NUL bytes
	Num  float64
	Bool bool
	Arr  []*Value
	Dict *Dict
}

// Dict is an ordered collection of key/value pairs. Keys are kept in
// insertion order and are not deduplicated; see Get for how repeats resolve.
type Dict struct {
	keys   []string
	values []*Value
}

// Len returns the number of entries, counting repeated keys separately.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the dict's keys in insertion order. Repeated keys appear
// once per occurrence.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Get returns the value stored under key, or nil if the key is absent.
// If the key occurs more than once, the last entry wins; the scan
// deliberately does not stop at the first match.
func (d *Dict) Get(key string) *Value {
	if d == nil {
		return nil
	}
	var v *Value
	for i, k := range d.keys {
		if k == key {
			v = d.values[i]
		}
	}
	return v
}

// At returns the i'th entry in insertion order.
func (d *Dict) At(i int) (string, *Value) {
	return d.keys[i], d.values[i]
}

// Add appends an entry. Adding a key that is already present keeps both
// entries.
func (d *Dict) Add(key string, v *Value) {
	d.keys = append(d.keys, key)
	d.values = append(d.values, v)
}

// Free releases a value tree. The tree is ordinary garbage-collected
// memory, so this is never required; it severs every interior reference so
// that a retained handle to one node cannot keep the rest of the tree
// alive. The node itself is reset to the empty value, which makes a second
// Free of the same handle a no-op. Safe to call on nil.
func Free(v *Value) {
	if v == nil {
		return
	}
	switch v.Kind {
	case KindArray:
		for i := range v.Arr {
			Free(v.Arr[i])
			v.Arr[i] = nil
		}
	case KindDict:
		if v.Dict != nil {
			for i := range v.Dict.values {
				Free(v.Dict.values[i])
				v.Dict.values[i] = nil
			}
			v.Dict.keys = nil
			v.Dict.values = nil
		}
	}
	*v = Value{}
}
