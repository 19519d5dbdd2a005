package dson_test

import (
	"bytes"
	"math"
	"testing"

	dson "github.com/evan-goode/cdson"
	"github.com/stretchr/testify/require"
)

func marshalStr(t *testing.T, v any) string {
	t.Helper()
	out, err := dson.Marshal(v)
	require.NoError(t, err)
	return string(out)
}

func TestMarshalScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "empty"},
		{"true", true, "yes"},
		{"false", false, "no"},
		{"string", "shibe", `"shibe"`},
		{"bytes", []byte("hi"), `"hi"`},
		{"int", 7, "7"},
		{"negative int", -7, "-7"},
		{"eight is octal ten", 8, "10"},
		{"uint", uint(64), "100"},
		{"power of two", 128, "200"},
		{"quarter", 0.25, "2very-1"},
		{"one and a half", 1.5, "14very-1"},
		{"zero", 0.0, "0"},
		{"negative zero", math.Copysign(0, -1), "-0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, marshalStr(t, tt.in))
		})
	}
}

func TestMarshalStringEscapes(t *testing.T) {
	require.Equal(t, `"a\"b\\c"`, marshalStr(t, `a"b\c`))
	require.Equal(t, `"\b\f\n\r\t"`, marshalStr(t, "\b\f\n\r\t"))
	require.Equal(t, "\"a\x00b\"", marshalStr(t, "a\x00b"), "NUL bytes pass through raw")
}

func TestMarshalContainers(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil slice", []int(nil), "empty"},
		{"empty slice", []int{}, "so many"},
		{"slice", []int{1, 2, 3}, "so 1 and 2 and 3 many"},
		{"nested slice", [][]string{{"a"}, {"b"}}, `so so "a" many and so "b" many many`},
		{"go array", [2]bool{true, false}, "so yes and no many"},
		{"nil map", map[string]int(nil), "empty"},
		{"map keys are sorted", map[string]int{"b": 2, "a": 1}, `such "a" is 1, "b" is 2 wow`},
		{"nil pointer", (*int)(nil), "empty"},
		{"mixed", []any{nil, true, "x"}, `so empty and yes and "x" many`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, marshalStr(t, tt.in))
		})
	}
}

func TestMarshalStruct(t *testing.T) {
	type inner struct {
		N int `dson:"n"`
	}
	type outer struct {
		Name    string `dson:"name"`
		Count   int    `dson:"count,omitempty"`
		Skipped string `dson:"-"`
		Plain   bool
		Inner   *inner `dson:"inner,omitempty"`
	}

	t.Run("fields in declaration order", func(t *testing.T) {
		got := marshalStr(t, outer{Name: "wow", Count: 2, Skipped: "x", Plain: true, Inner: &inner{N: 1}})
		require.Equal(t, `such "name" is "wow", "count" is 2, "Plain" is yes, "inner" is such "n" is 1 wow wow`, got)
	})

	t.Run("omitempty drops zero values", func(t *testing.T) {
		got := marshalStr(t, outer{Name: "wow"})
		require.Equal(t, `such "name" is "wow", "Plain" is no wow`, got)
	})
}

func TestMarshalEmptyDict(t *testing.T) {
	_, err := dson.Marshal(map[string]int{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty dict")

	_, err = dson.Marshal(struct{}{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty dict")

	type allOmitted struct {
		N int `dson:"n,omitempty"`
	}
	_, err = dson.Marshal(allOmitted{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty dict")
}

func TestMarshalValueTree(t *testing.T) {
	t.Run("dict order is preserved", func(t *testing.T) {
		v := mustParse(t, `such "z" is 1, "a" is so yes many wow`)
		require.Equal(t, `such "z" is 1, "a" is so yes many wow`, marshalStr(t, v))
	})

	t.Run("value by value", func(t *testing.T) {
		v := mustParse(t, "so 1 and 2 many")
		require.Equal(t, "so 1 and 2 many", marshalStr(t, *v))
	})

	t.Run("bare dict", func(t *testing.T) {
		v := mustParse(t, `such "k" is empty wow`)
		require.Equal(t, `such "k" is empty wow`, marshalStr(t, v.Dict))
	})

	t.Run("nil tree", func(t *testing.T) {
		require.Equal(t, "empty", marshalStr(t, (*dson.Value)(nil)))
	})
}

func TestMarshalErrors(t *testing.T) {
	t.Run("NaN", func(t *testing.T) {
		_, err := dson.Marshal(math.NaN())
		require.Error(t, err)
	})

	t.Run("infinity", func(t *testing.T) {
		_, err := dson.Marshal(math.Inf(1))
		require.Error(t, err)
	})

	t.Run("non-string map key", func(t *testing.T) {
		_, err := dson.Marshal(map[int]string{1: "a"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "map key type")
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := dson.Marshal(make(chan int))
		require.Error(t, err)
	})

	t.Run("self-referential value", func(t *testing.T) {
		a := []any{nil}
		a[0] = a
		_, err := dson.Marshal(a)
		require.ErrorIs(t, err, dson.ErrTooDeep)
	})
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, f := range []float64{0.1, 1.0 / 3.0, math.MaxFloat64, math.SmallestNonzeroFloat64, -123456.789, math.Copysign(0, -1)} {
		out, err := dson.Marshal(f)
		require.NoError(t, err)
		v, err := dson.ParseString(string(out))
		require.NoError(t, err)
		require.Equal(t, f, v.Num, "input %q", out)
		require.Equal(t, math.Signbit(f), math.Signbit(v.Num), "input %q", out)
	}
}

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := dson.NewEncoder(&buf)
	require.NoError(t, enc.Encode([]string{"a", "b"}))
	require.Equal(t, `so "a" and "b" many`, buf.String())

	t.Run("option errors surface on Encode", func(t *testing.T) {
		enc := dson.NewEncoder(&buf, dson.MaxDepth(0))
		require.Error(t, enc.Encode(1))
	})
}
