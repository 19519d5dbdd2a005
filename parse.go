package dson

import "bytes"

// The contract for every parse function: it is entered with the cursor on
// the first byte of the construct and returns with the cursor just past it.
// Callers skip whitespace before calling; nothing here backtracks.

func (p *parser) parseEmpty() error {
	keyword := []byte("empty")
	s, ok := p.chars(len(keyword))
	if !ok {
		return p.errf(ErrUnexpectedEndOfInput, "not enough characters to produce empty")
	}
	if !bytes.Equal(s, keyword) {
		return p.errf(ErrMalformedKeyword, "expected %q, got %q", "empty", s)
	}
	return nil
}

func (p *parser) parseBool() (bool, error) {
	s, ok := p.chars(2)
	if !ok {
		return false, p.errf(ErrUnexpectedEndOfInput, "end of input while producing bool")
	}
	if s[0] == 'y' && s[1] == 'e' {
		c, ok := p.chars(1)
		if !ok {
			return false, p.errf(ErrUnexpectedEndOfInput, "end of input while producing bool")
		}
		if c[0] != 's' {
			return false, p.errf(ErrMalformedKeyword, "expected %q, got \"ye%c\"", "yes", c[0])
		}
		return true, nil
	}
	if s[0] == 'n' && s[1] == 'o' {
		return false, nil
	}
	return false, p.errf(ErrMalformedKeyword, "expected bool, got %q", s)
}

// parseArray reads "so" [ value (("and"|"also") value)* ] "many". The two
// separator words are interchangeable. "so many" is the empty array.
func (p *parser) parseArray() ([]*Value, error) {
	s, ok := p.chars(2)
	if !ok {
		return nil, p.errf(ErrUnexpectedEndOfInput, "expected array, got end of input")
	}
	if string(s) != "so" {
		return nil, p.errf(ErrMalformedKeyword, "malformed array: expected %q, got %q", "so", s)
	}

	elts := []*Value{}
	p.skipWhitespace()
	if p.peek() != 'm' {
		for {
			v, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			elts = append(elts, v)

			p.skipWhitespace()
			if p.peek() != 'a' {
				break
			}
			s, ok = p.chars(3)
			if !ok {
				return nil, p.errf(ErrUnexpectedEndOfInput, "end of input while parsing array (missing \"many\"?)")
			}
			if string(s) == "and" {
				p.skipWhitespace()
				continue
			}
			if string(s) != "als" {
				return nil, p.errf(ErrMalformedKeyword, "tried to parse %q but got %q", "also", s)
			}
			c, ok := p.chars(1)
			if !ok {
				return nil, p.errf(ErrUnexpectedEndOfInput, "end of input while parsing array (missing \"many\"?)")
			}
			if c[0] != 'o' {
				return nil, p.errf(ErrMalformedKeyword, "tried to parse %q but got \"als%c\"", "also", c[0])
			}
			p.skipWhitespace()
		}
	}

	s, ok = p.chars(4)
	if !ok {
		return nil, p.errf(ErrUnexpectedEndOfInput, "end of input while parsing array (missing \"many\"?)")
	}
	if string(s) != "many" {
		return nil, p.errf(ErrMalformedKeyword, "expected %q, got %q", "many", s)
	}
	return elts, nil
}

// parseDict reads `such "key" is value ... wow`, entries separated by one
// of , . ! ?. The grammar has no empty dict: at least one entry is
// required. Repeated keys are kept; Dict.Get resolves them to the last.
func (p *parser) parseDict() (*Dict, error) {
	s, ok := p.chars(4)
	if !ok {
		return nil, p.errf(ErrUnexpectedEndOfInput, "expected dict, but got end of input")
	}
	if string(s) != "such" {
		return nil, p.errf(ErrMalformedKeyword, "expected %q, got %q", "such", s)
	}

	dict := &Dict{}
	for {
		p.skipWhitespace()
		k, err := p.parseString()
		if err != nil {
			return nil, err
		}

		p.skipWhitespace()
		s, ok = p.chars(2)
		if !ok {
			return nil, p.errf(ErrUnexpectedEndOfInput, "end of input while reading dict (missing \"wow\"?)")
		}
		if string(s) != "is" {
			return nil, p.errf(ErrMalformedKeyword, "expected %q, got %q", "is", s)
		}

		p.skipWhitespace()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		dict.Add(k, v)

		p.skipWhitespace()
		switch p.peek() {
		case ',', '.', '!', '?':
			p.advance()
		default:
			s, ok = p.chars(3)
			if !ok {
				return nil, p.errf(ErrUnexpectedEndOfInput, "end of input while looking for closing \"wow\"")
			}
			if string(s) != "wow" {
				return nil, p.errf(ErrMalformedKeyword, "expected %q, got %q", "wow", s)
			}
			return dict, nil
		}
	}
}

// parseValue dispatches on the lookahead byte. No two value kinds share a
// leading byte except arrays and dicts, which are told apart by the second
// byte of "so"/"such". Whitespace is the caller's problem.
func (p *parser) parseValue() (*Value, error) {
	p.depth--
	if p.depth <= 0 {
		return nil, p.errf(ErrTooDeep, "value nesting exceeds the maximum depth")
	}
	defer func() { p.depth++ }()

	ret := &Value{}
	var err error

	switch pivot := p.peek(); {
	case pivot == '"':
		ret.Kind = KindString
		ret.Str, err = p.parseString()
	case pivot == '-' || isOctal(pivot):
		ret.Kind = KindDouble
		ret.Num, err = p.parseNumber()
	case pivot == 'y' || pivot == 'n':
		ret.Kind = KindBool
		ret.Bool, err = p.parseBool()
	case pivot == 'e':
		ret.Kind = KindNone
		err = p.parseEmpty()
	case pivot == 's':
		switch p.peekAt(1) {
		case 'o':
			ret.Kind = KindArray
			ret.Arr, err = p.parseArray()
		case 'u':
			ret.Kind = KindDict
			ret.Dict, err = p.parseDict()
		default:
			return nil, p.errf(ErrUnrecognizedValue, "unable to determine value type")
		}
	default:
		return nil, p.errf(ErrUnrecognizedValue, "unable to determine value type")
	}

	if err != nil {
		return nil, err
	}
	return ret, nil
}
