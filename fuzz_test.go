//go:build go1.18

package dson_test

import (
	"math"
	"testing"

	dson "github.com/evan-goode/cdson"
	"github.com/stretchr/testify/require"
)

// finite reports whether every number in the tree is finite. A "very"
// exponent can push a parsed number to infinity or NaN, and those have no
// DSON rendering, so round-trip checks skip such trees.
func finite(v *dson.Value) bool {
	switch v.Kind {
	case dson.KindDouble:
		return !math.IsNaN(v.Num) && !math.IsInf(v.Num, 0)
	case dson.KindArray:
		for _, elt := range v.Arr {
			if !finite(elt) {
				return false
			}
		}
	case dson.KindDict:
		for i := 0; i < v.Dict.Len(); i++ {
			_, elt := v.Dict.At(i)
			if !finite(elt) {
				return false
			}
		}
	}
	return true
}

func FuzzRoundTrip(f *testing.F) {
	f.Add("empty")
	f.Add("yes")
	f.Add("no")
	f.Add("so many")
	f.Add("so 1 and 2 many")
	f.Add(`such "foo" is "bar" wow`)
	f.Add(`such "a" is so yes and empty many . "b" is 2very-1 wow`)
	f.Add(`"a simple string"`)
	f.Add(`"escapes: \" \\ \/ \b \f \n \r \t \u000101"`)
	f.Add("-12345.67very-3")
	f.Add("0very77777777777777777777777")

	f.Fuzz(func(t *testing.T, input string) {
		// Invalid inputs just need to fail cleanly; the fuzz engine
		// catches panics on its own.
		v1, err := dson.ParseString(input, dson.Unsafe())
		if err != nil {
			return
		}
		if !finite(v1) {
			return
		}

		// Marshaling a tree our own parser produced must succeed.
		out, err := dson.Marshal(v1)
		require.NoError(t, err, "input %q", input)

		v2, err := dson.ParseString(string(out), dson.Unsafe())
		require.NoError(t, err, "re-parse of %q (from %q)", out, input)
		require.Equal(t, v1, v2, "tree changed across a marshal/parse round trip")
	})
}
