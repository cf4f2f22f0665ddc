package cipherbox

import (
	"crypto/rand"
	"io"
)

// Option configures a Box.
type Option func(*options)

type options struct {
	random io.Reader
}

func defaultOptions() *options {
	return &options{random: rand.Reader}
}

// WithRandom sets the source IVs are read from (default: crypto/rand.Reader).
// The reader must be safe for concurrent use if the Box is shared between
// goroutines. A nil reader keeps the default.
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		if r != nil {
			o.random = r
		}
	}
}
