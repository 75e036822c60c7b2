package di

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/Stannieman/DI"

// Option configures the ambient services of a Container. Options are
// inherited by child containers.
type Option interface {
	apply(*containerOptions)
}

// containerOptions holds the resolved option values.
type containerOptions struct {
	logger  *zap.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// optionFunc adapts a function to Option.
type optionFunc func(*containerOptions)

func (f optionFunc) apply(opts *containerOptions) {
	f(opts)
}

// WithLogger sets the logger used for registration and construction
// events. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(opts *containerOptions) {
		if logger != nil {
			opts.logger = logger
		}
	})
}

// WithMetrics reports container activity to m.
func WithMetrics(m *Metrics) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.metrics = m
	})
}

// WithTracer sets the tracer used for resolution spans. The default is the
// global otel tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return optionFunc(func(opts *containerOptions) {
		if tracer != nil {
			opts.tracer = tracer
		}
	})
}

func newContainerOptions(opts []Option) *containerOptions {
	o := &containerOptions{
		logger: zap.NewNop(),
		tracer: otel.Tracer(instrumentationName),
	}

	for _, opt := range opts {
		if opt != nil {
			opt.apply(o)
		}
	}

	return o
}

// RegisterOption configures a single registration.
type RegisterOption interface {
	applyRegisterOption(*registerOptions)
}

type registerOptions struct {
	key string
}

type registerOptionFunc func(*registerOptions)

func (f registerOptionFunc) applyRegisterOption(opts *registerOptions) {
	f(opts)
}

// Key qualifies a registration. Resolutions must ask for the same key to
// match it; the empty key is the unkeyed default.
func Key(key string) RegisterOption {
	return registerOptionFunc(func(opts *registerOptions) {
		opts.key = key
	})
}

func newRegisterOptions(opts []RegisterOption) registerOptions {
	var o registerOptions
	for _, opt := range opts {
		if opt != nil {
			opt.applyRegisterOption(&o)
		}
	}
	return o
}
