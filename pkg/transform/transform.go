// Package transform rewrites documents in place using only the graph
// primitives: references, Swap, and Dispose.
package transform

import (
	"github.com/charmbracelet/log"

	"github.com/chazu/trellis/pkg/logging"
)

// Report summarises what a transform changed.
type Report struct {
	Disposed int // properties disposed
	Merged   int // duplicates folded into a canonical property
}

// Add accumulates r2 into r.
func (r *Report) Add(r2 Report) {
	r.Disposed += r2.Disposed
	r.Merged += r2.Merged
}

type options struct {
	logger *log.Logger
}

// Option configures a transform.
type Option func(*options)

// WithLogger logs each change at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}
	return o
}
