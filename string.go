package dson

// utf8Len reports how many bytes the manual UTF-8 encoder needs for point,
// or 0 when the point lies outside the encodable range. The thresholds are
// the classic UTF-8 boundaries, written in octal like everything else in
// this format.
func utf8Len(point uint32) int {
	switch {
	case point < 0o200:
		return 1
	case point < 0o4000:
		return 2
	case point < 0o200000:
		return 3
	case point < 0o4200000:
		return 4
	}
	return 0
}

// appendUTF8 appends the UTF-8 encoding of point to dst by explicit bit
// packing. It reports false when the point is not encodable. Surrogates and
// other points the standard library would reject pass through untouched;
// the format does not validate them.
func appendUTF8(dst []byte, point uint32) ([]byte, bool) {
	switch utf8Len(point) {
	case 1:
		dst = append(dst, byte(point&0o177))
	case 2:
		dst = append(dst,
			0o300|byte(point>>6&0o37),
			0o200|byte(point&0o77))
	case 3:
		dst = append(dst,
			0o340|byte(point>>12&0o17),
			0o200|byte(point>>6&0o77),
			0o200|byte(point&0o77))
	case 4:
		dst = append(dst,
			0o360|byte(point>>18&0o7),
			0o200|byte(point>>12&0o77),
			0o200|byte(point>>6&0o77),
			0o200|byte(point&0o77))
	default:
		return dst, false
	}
	return dst, true
}

// parseString reads a quoted string in two passes: first a scan to find the
// unescaped closing quote (a backslash always eats the next byte, and "\u"
// eats six more), then a decode pass over the span that resolves escapes.
// Raw bytes are copied through without UTF-8 validation; embedded NUL bytes
// are preserved.
func (p *parser) parseString() (string, error) {
	start, ok := p.chars(1)
	if !ok {
		return "", p.errf(ErrUnexpectedEndOfInput, "expected string, got end of input")
	}
	if start[0] != '"' {
		return "", p.errf(ErrMalformedKeyword, "malformed string - missing '\"'")
	}

	body := p.pos
	for {
		c, ok := p.chars(1)
		if !ok {
			return "", p.errf(ErrUnterminatedString, "missing closing '\"' delimiter on string")
		}
		if c[0] == '"' {
			break
		}
		if c[0] == '\\' {
			c, ok = p.chars(1)
			if !ok {
				return "", p.errf(ErrUnterminatedString, "missing closing '\"' delimiter on string")
			}
			if c[0] == 'u' {
				if _, ok = p.chars(6); !ok {
					return "", p.errf(ErrUnterminatedString, "missing closing '\"' delimiter on string")
				}
			}
		}
	}

	return p.decodeEscapes(p.input[body : p.pos-1])
}

// decodeEscapes resolves backslash escapes in a scanned string span. The
// scan pass guarantees every backslash is followed by its escape byte and
// every "\u" by its full six-byte payload, so indexing here cannot run off
// the span.
func (p *parser) decodeEscapes(span []byte) (string, error) {
	out := make([]byte, 0, len(span))
	for i := 0; i < len(span); i++ {
		b := span[i]
		if b != '\\' {
			out = append(out, b)
			continue
		}

		i++
		switch e := span[i]; e {
		case '"', '\\', '/':
			out = append(out, e)
		case 'b':
			if !p.unsafe {
				return "", p.errf(ErrForbiddenEscape, "forbidden escape: \\%c", e)
			}
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'u':
			if !p.unsafe {
				return "", p.errf(ErrForbiddenEscape, "forbidden escape: \\%c", e)
			}
			var point uint32
			for _, d := range span[i+1 : i+7] {
				if !isOctal(d) {
					return "", p.errf(ErrInvalidCodepoint, "malformed unicode escape")
				}
				point = point*010 + uint32(d-'0')
			}
			var ok bool
			out, ok = appendUTF8(out, point)
			if !ok {
				return "", p.errf(ErrInvalidCodepoint, "malformed unicode escape")
			}
			i += 6
		default:
			return "", p.errf(ErrUnrecognizedEscape, "unrecognized escape: \\%c", e)
		}
	}
	return string(out), nil
}
