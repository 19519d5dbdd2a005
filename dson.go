package dson

// Parse reads one DSON value from a NUL-terminated buffer. The final byte
// of buf must be 0; the payload is everything before it. A missing
// terminator is reported as ErrNotNulTerminated. Anything after the first
// value is left unread.
//
// On failure the returned error is a *ParseError carrying the byte offset
// of the failure and wrapping one of the Err* sentinels; no partial tree
// escapes.
//
// Most Go callers want ParseString or Unmarshal, which handle the
// terminator themselves.
func Parse(buf []byte, opts ...Option) (*Value, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 || buf[len(buf)-1] != 0 {
		return nil, &ParseError{Err: ErrNotNulTerminated, Detail: "input was not NUL-terminated"}
	}
	return parsePayload(buf[:len(buf)-1], o)
}

// ParseString reads one DSON value from s. Go strings carry their length,
// so no terminator is required.
func ParseString(s string, opts ...Option) (*Value, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return parsePayload([]byte(s), o)
}

// Valid reports whether data begins with a well-formed DSON value. The
// gated escapes are permitted.
func Valid(data []byte) bool {
	_, err := parsePayload(data, options{unsafe: true, maxDepth: defaultMaxDepth})
	return err == nil
}

func parsePayload(payload []byte, o options) (*Value, error) {
	p := &parser{
		input:  payload,
		unsafe: o.unsafe,
		depth:  o.maxDepth + 1,
	}
	return p.parseValue()
}
