package dson

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Marshal returns the DSON encoding of v.
//
// Booleans become "yes"/"no", nil becomes "empty", numbers are rendered in
// octal (with a "very" exponent when needed; every finite float64
// round-trips exactly), strings are quoted with escapes, slices and arrays
// become "so ... many", and maps and structs become "such ... wow". Map
// keys must be strings and are emitted in sorted order; struct fields are
// emitted in declaration order and honor `dson:"name,omitempty"` tags. A
// *Value or *Dict is emitted directly from the tree, preserving entry
// order.
//
// DSON has no empty-dict form, so marshaling an empty map (or a struct
// whose fields are all omitted) is an error, as are NaN, infinities and
// types with no DSON representation.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoder(&buf, opts...)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encoder writes DSON values to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the DSON encoding of v to the stream.
func (e *Encoder) Encode(v any) error {
	o, err := applyOptions(e.opts)
	if err != nil {
		return err
	}

	es := &encodeState{depth: o.maxDepth + 1}
	out, err := es.appendValue(nil, reflect.ValueOf(v))
	if err != nil {
		return err
	}
	_, err = e.w.Write(out)
	return err
}

type encodeState struct {
	depth int
}

func (es *encodeState) descend() error {
	es.depth--
	if es.depth <= 0 {
		return fmt.Errorf("dson: %w", ErrTooDeep)
	}
	return nil
}

func (es *encodeState) appendValue(dst []byte, rv reflect.Value) ([]byte, error) {
	if !rv.IsValid() || (rv.Kind() == reflect.Interface && rv.IsNil()) {
		return append(dst, "empty"...), nil
	}

	// A value tree marshals as itself, entry order intact.
	if rv.CanInterface() {
		switch t := rv.Interface().(type) {
		case *Value:
			return es.appendTree(dst, t)
		case Value:
			return es.appendTree(dst, &t)
		case *Dict:
			return es.appendTree(dst, &Value{Kind: KindDict, Dict: t})
		}
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return append(dst, "empty"...), nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return appendQuoted(dst, rv.String()), nil
	case reflect.Bool:
		if rv.Bool() {
			return append(dst, "yes"...), nil
		}
		return append(dst, "no"...), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return appendNumber(dst, float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return appendNumber(dst, float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return appendNumber(dst, rv.Float())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return append(dst, "empty"...), nil
		}
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			// DSON strings are raw bytes, so []byte needs no transport
			// encoding.
			return appendQuoted(dst, string(rv.Bytes())), nil
		}
		return es.appendArray(dst, rv)
	case reflect.Map:
		if rv.IsNil() {
			return append(dst, "empty"...), nil
		}
		return es.appendMap(dst, rv)
	case reflect.Struct:
		return es.appendStruct(dst, rv)
	default:
		return nil, fmt.Errorf("dson: unsupported type for marshaling: %s", rv.Type())
	}
}

func (es *encodeState) appendArray(dst []byte, rv reflect.Value) ([]byte, error) {
	if err := es.descend(); err != nil {
		return nil, err
	}
	defer func() { es.depth++ }()

	if rv.Len() == 0 {
		return append(dst, "so many"...), nil
	}
	dst = append(dst, "so "...)
	var err error
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			dst = append(dst, " and "...)
		}
		dst, err = es.appendValue(dst, rv.Index(i))
		if err != nil {
			return nil, err
		}
	}
	return append(dst, " many"...), nil
}

func (es *encodeState) appendMap(dst []byte, rv reflect.Value) ([]byte, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("dson: map key type must be a string, got %s", rv.Type().Key())
	}
	if rv.Len() == 0 {
		return nil, fmt.Errorf("dson: cannot marshal an empty dict")
	}
	if err := es.descend(); err != nil {
		return nil, err
	}
	defer func() { es.depth++ }()

	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	dst = append(dst, "such "...)
	var err error
	for i, k := range keys {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = appendQuoted(dst, k)
		dst = append(dst, " is "...)
		dst, err = es.appendValue(dst, rv.MapIndex(reflect.ValueOf(k)))
		if err != nil {
			return nil, err
		}
	}
	return append(dst, " wow"...), nil
}

func (es *encodeState) appendStruct(dst []byte, rv reflect.Value) ([]byte, error) {
	if err := es.descend(); err != nil {
		return nil, err
	}
	defer func() { es.depth++ }()

	t := rv.Type()
	wrote := false
	out := append(dst, "such "...)
	var err error
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, fieldOpts := parseTag(field.Tag.Get("dson"))
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		fv := rv.Field(i)
		if fieldOpts["omitempty"] && isEmptyValue(fv) {
			continue
		}

		if wrote {
			out = append(out, ", "...)
		}
		out = appendQuoted(out, name)
		out = append(out, " is "...)
		out, err = es.appendValue(out, fv)
		if err != nil {
			return nil, err
		}
		wrote = true
	}
	if !wrote {
		return nil, fmt.Errorf("dson: cannot marshal an empty dict")
	}
	return append(out, " wow"...), nil
}

func (es *encodeState) appendTree(dst []byte, v *Value) ([]byte, error) {
	if v == nil {
		return append(dst, "empty"...), nil
	}
	if err := es.descend(); err != nil {
		return nil, err
	}
	defer func() { es.depth++ }()

	var err error
	switch v.Kind {
	case KindNone:
		return append(dst, "empty"...), nil
	case KindBool:
		if v.Bool {
			return append(dst, "yes"...), nil
		}
		return append(dst, "no"...), nil
	case KindDouble:
		return appendNumber(dst, v.Num)
	case KindString:
		return appendQuoted(dst, v.Str), nil
	case KindArray:
		if len(v.Arr) == 0 {
			return append(dst, "so many"...), nil
		}
		dst = append(dst, "so "...)
		for i, elt := range v.Arr {
			if i > 0 {
				dst = append(dst, " and "...)
			}
			dst, err = es.appendTree(dst, elt)
			if err != nil {
				return nil, err
			}
		}
		return append(dst, " many"...), nil
	case KindDict:
		if v.Dict.Len() == 0 {
			return nil, fmt.Errorf("dson: cannot marshal an empty dict")
		}
		dst = append(dst, "such "...)
		for i := 0; i < v.Dict.Len(); i++ {
			k, elt := v.Dict.At(i)
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = appendQuoted(dst, k)
			dst = append(dst, " is "...)
			dst, err = es.appendTree(dst, elt)
			if err != nil {
				return nil, err
			}
		}
		return append(dst, " wow"...), nil
	}
	return nil, fmt.Errorf("dson: unsupported value kind %d", v.Kind)
}

// appendQuoted writes s as a DSON string literal. Only the quote, the
// backslash and the common control characters need escaping; everything
// else, embedded NULs included, passes through as raw bytes. Note that a
// "\b" in the output needs the Unsafe option to parse back.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		switch b := s[i]; b {
		case '"', '\\':
			dst = append(dst, '\\', b)
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, b)
		}
	}
	return append(dst, '"')
}

// appendNumber writes f in DSON's octal notation. The value is decomposed
// into an odd mantissa and a power-of-two exponent, the exponent is aligned
// to a multiple of three, and the result comes out as either a plain octal
// integer or "<mantissa>very<exponent>". The decomposition is exact, so
// parsing the output recovers f bit for bit.
func appendNumber(dst []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("dson: unsupported number: %g", f)
	}
	if math.Signbit(f) {
		f = -f
		dst = append(dst, '-')
	}
	if f == 0 {
		return append(dst, '0'), nil
	}

	frac, exp := math.Frexp(f)
	mant := uint64(frac * (1 << 53)) // exact: frac has at most 53 bits
	e := exp - 53
	for mant&1 == 0 {
		mant >>= 1
		e++
	}
	r := ((e % 3) + 3) % 3
	mant <<= uint(r)
	e -= r
	pow := e / 3

	// Fold a positive exponent back into the mantissa where it fits, so
	// small integers come out as plain octal.
	for pow > 0 && mant <= 1<<60 {
		mant <<= 3
		pow--
	}

	dst = strconv.AppendUint(dst, mant, 8)
	if pow != 0 {
		dst = append(dst, "very"...)
		if pow < 0 {
			dst = append(dst, '-')
			pow = -pow
		}
		dst = strconv.AppendUint(dst, uint64(pow), 8)
	}
	return dst, nil
}

// parseTag splits a dson struct tag into its name and options.
func parseTag(tag string) (string, map[string]bool) {
	parts := strings.Split(tag, ",")
	opts := make(map[string]bool)
	for _, part := range parts[1:] {
		opts[strings.TrimSpace(part)] = true
	}
	return parts[0], opts
}

// isEmptyValue reports whether the value v is empty.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
