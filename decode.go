package dson

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"
)

// Unmarshal parses the DSON-encoded data and stores the result in the
// value pointed to by v.
//
// Numbers decode into float64 (the format has no integer type), but will
// fill any Go numeric field they fit exactly. "empty" clears pointers,
// maps, slices and interfaces. Arrays decode into slices or arrays, dicts
// into maps with string keys or into structs, matching entries to fields
// by `dson` tag, then field name, then case-insensitive field name. If a
// dict repeats a key, the last entry wins. A target of type *Value
// receives the parsed tree itself.
func Unmarshal(data []byte, v any, opts ...Option) error {
	o, err := applyOptions(opts)
	if err != nil {
		return err
	}
	root, err := parsePayload(data, o)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("dson: Unmarshal(non-pointer %T or nil)", v)
	}
	ds := &decodeState{depth: o.maxDepth + 1}
	return ds.assign(root, rv.Elem())
}

// Decoder reads and decodes DSON values from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// This is a non-streaming implementation: the entire reader is consumed
// before parsing begins.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads a DSON value from the input and stores it in the value
// pointed to by v. See the documentation for Unmarshal for details of the
// conversion.
func (d *Decoder) Decode(v any) error {
	if d.r == nil {
		return fmt.Errorf("dson: Decode(nil reader)")
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}
	return Unmarshal(data, v, d.opts...)
}

var valuePtrType = reflect.TypeOf((*Value)(nil))

type decodeState struct {
	depth int
}

func (ds *decodeState) assign(v *Value, rv reflect.Value) error {
	ds.depth--
	if ds.depth <= 0 {
		return fmt.Errorf("dson: %w", ErrTooDeep)
	}
	defer func() { ds.depth++ }()

	if rv.Type() == valuePtrType {
		rv.Set(reflect.ValueOf(v))
		return nil
	}

	if v.Kind == KindNone {
		switch rv.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		return ds.typeError(v, rv)
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Interface && rv.NumMethod() == 0 {
		rv.Set(reflect.ValueOf(native(v)))
		return nil
	}

	switch v.Kind {
	case KindBool:
		if rv.Kind() == reflect.Bool {
			rv.SetBool(v.Bool)
			return nil
		}
	case KindDouble:
		return ds.assignNumber(v, rv)
	case KindString:
		if rv.Kind() == reflect.String {
			rv.SetString(v.Str)
			return nil
		}
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			rv.SetBytes([]byte(v.Str))
			return nil
		}
	case KindArray:
		return ds.assignArray(v, rv)
	case KindDict:
		return ds.assignDict(v, rv)
	}
	return ds.typeError(v, rv)
}

func (ds *decodeState) assignNumber(v *Value, rv reflect.Value) error {
	n := v.Num
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		if rv.OverflowFloat(n) {
			return fmt.Errorf("dson: number %g overflows Go value of type %s", n, rv.Type())
		}
		rv.SetFloat(n)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// Range-check before converting: a float-to-int conversion outside
		// the target's range is implementation-defined, so a saturated
		// result would slip past OverflowInt.
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 || rv.OverflowInt(int64(n)) {
			return fmt.Errorf("dson: number %g does not fit in Go value of type %s", n, rv.Type())
		}
		rv.SetInt(int64(n))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n != math.Trunc(n) || n < 0 || n >= math.MaxUint64 || rv.OverflowUint(uint64(n)) {
			return fmt.Errorf("dson: number %g does not fit in Go value of type %s", n, rv.Type())
		}
		rv.SetUint(uint64(n))
		return nil
	}
	return ds.typeError(v, rv)
}

func (ds *decodeState) assignArray(v *Value, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(rv.Type(), len(v.Arr), len(v.Arr))
		for i, elt := range v.Arr {
			if err := ds.assign(elt, out.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil
	case reflect.Array:
		n := min(rv.Len(), len(v.Arr))
		for i := 0; i < n; i++ {
			if err := ds.assign(v.Arr[i], rv.Index(i)); err != nil {
				return err
			}
		}
		for i := n; i < rv.Len(); i++ {
			rv.Index(i).SetZero()
		}
		return nil
	}
	return ds.typeError(v, rv)
}

func (ds *decodeState) assignDict(v *Value, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Map:
		t := rv.Type()
		if t.Key().Kind() != reflect.String {
			return ds.typeError(v, rv)
		}
		out := reflect.MakeMapWithSize(t, v.Dict.Len())
		for i := 0; i < v.Dict.Len(); i++ {
			k, elt := v.Dict.At(i)
			ev := reflect.New(t.Elem()).Elem()
			if err := ds.assign(elt, ev); err != nil {
				return err
			}
			// entries land in insertion order, so a repeated key keeps
			// its last value
			out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), ev)
		}
		rv.Set(out)
		return nil
	case reflect.Struct:
		for i := 0; i < v.Dict.Len(); i++ {
			k, elt := v.Dict.At(i)
			fv, ok := structField(rv, k)
			if !ok {
				continue
			}
			if err := ds.assign(elt, fv); err != nil {
				return err
			}
		}
		return nil
	}
	return ds.typeError(v, rv)
}

// structField resolves a dict key to a struct field: an explicit tag name
// wins, then an exact field-name match, then a case-insensitive one.
func structField(rv reflect.Value, key string) (reflect.Value, bool) {
	t := rv.Type()
	exact, fold := -1, -1
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _ := parseTag(f.Tag.Get("dson"))
		if name == "-" {
			continue
		}
		if name != "" {
			if name == key {
				return rv.Field(i), true
			}
			continue
		}
		if f.Name == key && exact < 0 {
			exact = i
		}
		if strings.EqualFold(f.Name, key) && fold < 0 {
			fold = i
		}
	}
	if exact >= 0 {
		return rv.Field(exact), true
	}
	if fold >= 0 {
		return rv.Field(fold), true
	}
	return reflect.Value{}, false
}

func (ds *decodeState) typeError(v *Value, rv reflect.Value) error {
	return fmt.Errorf("dson: cannot unmarshal %s into Go value of type %s", v.Kind, rv.Type())
}

// native converts a value tree to the natural Go shape: nil, bool,
// float64, string, []any or map[string]any. Repeated dict keys collapse to
// their last entry.
func native(v *Value) any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindDouble:
		return v.Num
	case KindString:
		return v.Str
	case KindArray:
		out := make([]any, len(v.Arr))
		for i, elt := range v.Arr {
			out[i] = native(elt)
		}
		return out
	case KindDict:
		out := make(map[string]any, v.Dict.Len())
		for i := 0; i < v.Dict.Len(); i++ {
			k, elt := v.Dict.At(i)
			out[k] = native(elt)
		}
		return out
	}
	return nil
}
