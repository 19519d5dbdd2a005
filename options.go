package dson

import "fmt"

const defaultMaxDepth = 1000

type options struct {
	unsafe   bool
	maxDepth int
}

// Option configures a parse, marshal or unmarshal call.
type Option func(*options) error

// Unsafe returns an Option that permits the \b and \u string escapes.
// Without it those escapes are rejected with ErrForbiddenEscape.
func Unsafe() Option {
	return func(o *options) error {
		o.unsafe = true
		return nil
	}
}

// MaxDepth returns an Option that sets the maximum nesting depth for
// parsing and marshaling. This bounds recursion on pathologically nested
// input, surfacing ErrTooDeep instead of exhausting the stack.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("dson: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

func applyOptions(opts []Option) (options, error) {
	o := options{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return o, err
		}
	}
	return o, nil
}
