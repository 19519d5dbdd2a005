package dson

import "fmt"

// parser is the scan state for one Parse call: the payload (without the NUL
// sentinel), a monotonically advancing offset, the unsafe-escape flag and
// the remaining recursion budget. Nothing is shared between calls.
type parser struct {
	input  []byte
	pos    int
	unsafe bool
	depth  int
}

// peek returns the byte at the cursor without advancing. At end of input it
// returns 0, standing in for the NUL terminator.
func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// peekAt returns the byte n positions past the cursor, 0 past the end.
func (p *parser) peekAt(n int) byte {
	if p.pos+n >= len(p.input) {
		return 0
	}
	return p.input[p.pos+n]
}

// chars returns the next n bytes and advances past them. It reports false
// without advancing if fewer than n bytes remain.
func (p *parser) chars(n int) ([]byte, bool) {
	if p.pos+n > len(p.input) {
		return nil, false
	}
	s := p.input[p.pos : p.pos+n]
	p.pos += n
	return s, true
}

// advance moves the cursor forward one byte. Callers only advance after a
// successful peek, so it never runs past the end.
func (p *parser) advance() {
	p.pos++
}

// skipWhitespace consumes space, tab, newline, carriage return, vertical
// tab and form feed. It never fails; zero bytes is fine.
func (p *parser) skipWhitespace() {
	for {
		switch p.peek() {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			p.advance()
		default:
			return
		}
	}
}

// errf builds a position-annotated *ParseError wrapping sentinel.
func (p *parser) errf(sentinel error, format string, args ...any) error {
	return &ParseError{
		Offset: p.pos,
		Err:    sentinel,
		Detail: fmt.Sprintf(format, args...),
	}
}
