package dson

import (
	"math"
	"strings"
)

func isOctal(b byte) bool {
	return '0' <= b && b <= '7'
}

// parseOctal consumes a maximal run of octal digits and returns its base-8
// value. Zero digits is a valid run with value zero.
func (p *parser) parseOctal() float64 {
	var n float64
	for isOctal(p.peek()) {
		n *= 010
		n += float64(p.peek() - '0')
		p.advance()
	}
	return n
}

// parseNumber reads a full DSON number: optional leading '-', octal integer
// part, optional fraction introduced by '.', optional octal exponent
// introduced by "very" (case-insensitive) scaling by powers of eight.
//
// The fraction is not a base-8 fraction: the divisor starts at 8 and
// doubles for every digit, so the digit weights are 1/8, 1/16, 1/32, ...
// That matches the observed behavior of the format and is kept as is.
func (p *parser) parseNumber() (float64, error) {
	var isneg, powneg bool
	var n float64
	divisor := float64(010)

	if p.peek() == '-' {
		isneg = true
		p.advance()
	}

	p.skipWhitespace()
	if p.peek() == '0' {
		p.advance()
	} else {
		n = p.parseOctal()
	}

	p.skipWhitespace()
	if p.peek() == '.' {
		p.advance()
		if !isOctal(p.peek()) {
			return 0, p.errf(ErrMalformedNumber, "bad octal character: %q", rune(p.peek()))
		}
		for isOctal(p.peek()) {
			n += float64(p.peek()-'0') / divisor
			divisor *= 2
			p.advance()
		}
		p.skipWhitespace()
	}

	if c := p.peek(); c == 'v' || c == 'V' {
		s, ok := p.chars(4)
		if !ok {
			return 0, p.errf(ErrUnexpectedEndOfInput, "end of input while parsing number")
		}
		if !strings.EqualFold(string(s), "very") {
			return 0, p.errf(ErrMalformedKeyword, "tried to parse %q, got %q instead", "very", s)
		}

		// The sign binds to "very" with no whitespace in between.
		if p.peek() == '+' {
			p.advance()
		} else if p.peek() == '-' {
			powneg = true
			p.advance()
		}

		p.skipWhitespace()
		if !isOctal(p.peek()) {
			return 0, p.errf(ErrMalformedNumber, "bad octal character: %q", rune(p.peek()))
		}

		power := p.parseOctal()
		if powneg {
			power = -power
		}
		n *= math.Pow(010, power)
	}

	if isneg {
		n = -n
	}
	return n, nil
}
