/*
Package dson parses and encodes DSON (Doge Serialized Object Notation), the
joke serialization format with JSON's data model, word-based punctuation and
octal numerals. so 1 and 2 many. wow.

The package offers two workflows, mirroring the standard encoding/json
package where the format allows it:

1. Data-oriented decoding and encoding

Unmarshal converts DSON into Go values, and Marshal converts Go values into
DSON text:

	var data = []byte(`such "name" is "DSON", "versions" is so 1 and 2 many wow`)

	type Config struct {
		Name     string    `dson:"name"`
		Versions []float64 `dson:"versions"`
	}

	var cfg Config
	if err := dson.Unmarshal(data, &cfg); err != nil {
		// handle error
	}

Numbers are octal on the wire and float64 in memory; the format has no
integer type.

2. Value trees

ParseString (and Parse, for NUL-terminated buffers) produce a *Value tree
that preserves everything the format can express, including dictionary
entry order and repeated keys:

	v, err := dson.ParseString(`such "a" is 1, "a" is 2 wow`)
	if err != nil {
		// handle error
	}
	v.Dict.Keys()     // ["a", "a"]
	v.Dict.Get("a")   // the *last* entry, 2

Two string escapes, \b and the six-octal-digit \u form, are considered
dangerous by the format and are rejected unless the Unsafe option is given.
Parsing is strictly recursive descent with a configurable nesting bound
(MaxDepth); malformed input is reported as a *ParseError with the byte
offset of the failure, never a panic or process exit.
*/
package dson
