package testutil

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	di "github.com/Stannieman/DI"
)

// ContainerBuilder provides a fluent interface for building test containers
type ContainerBuilder struct {
	t    *testing.T
	cfg  di.Configuration
	opts []di.Option
	mods []di.ModuleOption
}

// NewContainerBuilder creates a new ContainerBuilder
func NewContainerBuilder(t *testing.T) *ContainerBuilder {
	return &ContainerBuilder{t: t}
}

// WithPropertyInjection enables property injection
func (b *ContainerBuilder) WithPropertyInjection() *ContainerBuilder {
	b.cfg.EnablePropertyInjection = true
	return b
}

// WithOptions adds container options
func (b *ContainerBuilder) WithOptions(opts ...di.Option) *ContainerBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// WithPerRequest adds a per-request registration
func (b *ContainerBuilder) WithPerRequest(requestType reflect.Type, impl di.Implementation, opts ...di.RegisterOption) *ContainerBuilder {
	b.mods = append(b.mods, di.AddPerRequest(requestType, impl, opts...))
	return b
}

// WithSingleton adds a singleton registration
func (b *ContainerBuilder) WithSingleton(requestType reflect.Type, impl di.Implementation, opts ...di.RegisterOption) *ContainerBuilder {
	b.mods = append(b.mods, di.AddSingleton(requestType, impl, opts...))
	return b
}

// WithHandler adds a handler registration
func (b *ContainerBuilder) WithHandler(requestType reflect.Type, handler di.Handler, opts ...di.RegisterOption) *ContainerBuilder {
	b.mods = append(b.mods, di.AddHandler(requestType, handler, opts...))
	return b
}

// WithModule adds a module
func (b *ContainerBuilder) WithModule(module di.ModuleOption) *ContainerBuilder {
	b.mods = append(b.mods, module)
	return b
}

// Build creates the container and fails the test if a registration fails
func (b *ContainerBuilder) Build() *di.Container {
	b.t.Helper()

	c := di.New(b.cfg, b.opts...)
	require.NoError(b.t, c.Install(b.mods...), "failed to build container")
	return c
}
