package dson_test

import (
	"testing"

	dson "github.com/evan-goode/cdson"
	"github.com/stretchr/testify/require"
)

func TestDictAccessors(t *testing.T) {
	v := mustParse(t, `such "a" is 1, "b" is 2, "a" is 3 wow`)
	d := v.Dict

	require.Equal(t, 3, d.Len())
	require.Equal(t, []string{"a", "b", "a"}, d.Keys())
	require.Equal(t, 3.0, d.Get("a").Num, "repeated key must resolve to the last entry")
	require.Equal(t, 2.0, d.Get("b").Num)
	require.Nil(t, d.Get("c"))

	k, e := d.At(1)
	require.Equal(t, "b", k)
	require.Equal(t, 2.0, e.Num)
}

func TestDictKeysIsACopy(t *testing.T) {
	v := mustParse(t, `such "a" is 1 wow`)
	keys := v.Dict.Keys()
	keys[0] = "mutated"
	require.Equal(t, []string{"a"}, v.Dict.Keys())
}

func TestDictAdd(t *testing.T) {
	d := &dson.Dict{}
	d.Add("x", &dson.Value{Kind: dson.KindDouble, Num: 1})
	d.Add("x", &dson.Value{Kind: dson.KindDouble, Num: 2})
	require.Equal(t, 2, d.Len())
	require.Equal(t, 2.0, d.Get("x").Num)
}

func TestNilDict(t *testing.T) {
	var d *dson.Dict
	require.Zero(t, d.Len())
	require.Nil(t, d.Keys())
	require.Nil(t, d.Get("a"))
}

func TestFree(t *testing.T) {
	t.Run("nested tree", func(t *testing.T) {
		v := mustParse(t, `such "xs" is so 1 and "two" and such "k" is empty wow many wow`)
		inner := v.Dict.Get("xs")

		dson.Free(v)
		require.Equal(t, dson.KindNone, v.Kind)
		require.Nil(t, v.Dict)
		require.Equal(t, dson.KindNone, inner.Kind)
		require.Nil(t, inner.Arr)
	})

	t.Run("freeing twice is a no-op", func(t *testing.T) {
		v := mustParse(t, "so 1 and 2 many")
		dson.Free(v)
		dson.Free(v)
		require.Equal(t, dson.Value{}, *v)
	})

	t.Run("nil and sentinel values", func(t *testing.T) {
		dson.Free(nil)
		dson.Free(&dson.Value{})
	})

	t.Run("string payload is dropped", func(t *testing.T) {
		v := mustParse(t, `"many wows"`)
		dson.Free(v)
		require.Empty(t, v.Str)
	})
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind dson.Kind
		want string
	}{
		{dson.KindNone, "empty"},
		{dson.KindBool, "bool"},
		{dson.KindDouble, "double"},
		{dson.KindString, "string"},
		{dson.KindArray, "array"},
		{dson.KindDict, "dict"},
		{dson.Kind(42), "unknown"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.kind.String())
	}
}
