package arena

import (
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"
)

type Options struct {
	// Log receives debug diagnostics (construction layout, sweep results).
	// Nil disables logging entirely.
	Log logger.Logger

	// Label identifies this allocator instance in log output. Defaults to
	// a fresh uuid so interleaved instances can be told apart.
	Label string
}

type Option func(*Options)

func WithLogger(log logger.Logger) Option {
	return func(o *Options) {
		o.Log = log
	}
}

func WithLabel(label string) Option {
	return func(o *Options) {
		o.Label = label
	}
}

func newOptions(opts ...Option) Options {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Label == "" {
		o.Label = uuid.NewString()
	}
	return o
}
