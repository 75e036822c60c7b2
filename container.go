package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Stannieman/DI/internal/reflection"
)

// ActivationObserver is notified of every instance a container constructs,
// after its properties were injected. It is not notified of handler
// results or singleton cache hits. Observers run while the container is
// resolving; r is the in-flight resolution and is the way to resolve
// further instances from within an observer.
type ActivationObserver func(r Resolver, instance any)

var _ Resolver = (*Container)(nil)

// Container maps request types to the way their instances are built and
// resolves object graphs from those registrations.
//
// A Container is safe for concurrent use. Every registration and
// resolution call holds the container lock for its whole duration; nested
// resolutions performed while building an instance reuse the call in
// flight. Constructors, handlers and observers must therefore not call the
// Container they are resolved from; handlers and observers resolve through
// the Resolver they are given.
type Container struct {
	id       string
	cfg      Configuration
	parent   *Container
	opts     *containerOptions
	logger   *zap.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	analyzer *reflection.Analyzer

	mu         sync.Mutex
	store      registrationStore
	singletons *singletonCache

	observersMu sync.RWMutex
	observers   []*observer
}

type observer struct {
	fn ActivationObserver
}

// New creates an empty container. cfg is copied.
//
// Example:
//
//	c := di.New(di.Configuration{EnablePropertyInjection: true},
//	    di.WithLogger(logger),
//	)
//	if err := c.RegisterSingleton(di.TypeOf[Store](), di.Implement[*SQLStore](NewSQLStore)); err != nil {
//	    return err
//	}
func New(cfg Configuration, opts ...Option) *Container {
	return newContainer(cfg.Clone(), newContainerOptions(opts), nil)
}

func newContainer(cfg Configuration, opts *containerOptions, parent *Container) *Container {
	id := uuid.NewString()

	logger := opts.logger
	if parent != nil {
		logger = logger.Named("child")
	}

	return &Container{
		id:         id,
		cfg:        cfg,
		parent:     parent,
		opts:       opts,
		logger:     logger.With(zap.String("container", id)),
		metrics:    opts.metrics,
		tracer:     opts.tracer,
		analyzer:   reflection.New(),
		singletons: newSingletonCache(),
	}
}

// ID returns the unique identifier of the container.
func (c *Container) ID() string {
	return c.id
}

// Configuration returns a copy of the container's configuration.
func (c *Container) Configuration() Configuration {
	return c.cfg.Clone()
}

// Parent returns the container this one was created from, or nil. The
// reference is informational; resolution never falls back to the parent.
func (c *Container) Parent() *Container {
	return c.parent
}

// GetChildContainer creates a container with the same configuration and
// options but its own empty registrations and singleton cache.
func (c *Container) GetChildContainer() *Container {
	child := newContainer(c.cfg.Clone(), c.opts, c)
	c.logger.Debug("created child container", zap.String("child", child.id))
	return child
}

// RegisterPerRequest registers impl for requestType. Every resolution
// constructs a new instance.
func (c *Container) RegisterPerRequest(requestType reflect.Type, impl Implementation, opts ...RegisterOption) error {
	return c.registerType(requestType, impl, PerRequest, opts)
}

// RegisterSingleton registers impl for requestType. The first resolution
// constructs the instance and later resolutions return it. Singleton
// registrations of the same implementation type share one instance.
func (c *Container) RegisterSingleton(requestType reflect.Type, impl Implementation, opts ...RegisterOption) error {
	return c.registerType(requestType, impl, Singleton, opts)
}

// RegisterHandler registers handler for requestType. The handler is called
// on every resolution. Handlers never conflict with other registrations.
func (c *Container) RegisterHandler(requestType reflect.Type, handler Handler, opts ...RegisterOption) error {
	o := newRegisterOptions(opts)

	if err := c.register(requestType, o.key, "register-handler", func() (registration, error) {
		if handler == nil {
			return nil, &ValidationError{Type: requestType, Cause: ErrHandlerNil}
		}
		return &handlerRegistration{request: requestType, qualifier: o.key, handler: handler}, nil
	}); err != nil {
		return err
	}

	c.metrics.registered("handler")
	return nil
}

func (c *Container) registerType(requestType reflect.Type, impl Implementation, lifetime Lifetime, opts []RegisterOption) error {
	o := newRegisterOptions(opts)
	op := "register-per-request"
	if lifetime == Singleton {
		op = "register-singleton"
	}

	if err := c.register(requestType, o.key, op, func() (registration, error) {
		d, err := newDescriptor(impl, c.analyzer)
		if err != nil {
			return nil, err
		}

		if !d.implementationType.AssignableTo(requestType) {
			return nil, &TypeMismatchError{
				Expected: requestType,
				Actual:   d.implementationType,
				Context:  "implementation type",
			}
		}

		return &typeRegistration{
			request:    requestType,
			qualifier:  o.key,
			descriptor: d,
			lifetime:   lifetime,
		}, nil
	}); err != nil {
		return err
	}

	c.metrics.registered(lifetime.String())
	return nil
}

// register validates and stores a registration. Conflicts are returned as
// *TypeAlreadyRegisteredError; invalid input is wrapped in a
// RegistrationError.
func (c *Container) register(requestType reflect.Type, key, op string, build func() (registration, error)) error {
	if requestType == nil {
		err := &RegistrationError{Operation: op, Cause: &ValidationError{Cause: ErrRequestTypeNil}}
		c.metrics.failed(err)
		return err
	}

	reg, err := build()
	if err != nil {
		err = &RegistrationError{RequestType: requestType, Operation: op, Cause: err}
		c.metrics.failed(err)
		return err
	}

	c.mu.Lock()
	err = c.store.add(reg)
	c.mu.Unlock()

	if err != nil {
		c.metrics.failed(err)
		return err
	}

	info := reg.info()
	c.logger.Debug("registered",
		zap.String("operation", op),
		zap.String("request", formatType(requestType)),
		zap.String("key", key),
		zap.String("implementation", formatType(info.ImplementationType)),
	)

	return nil
}

// GetSingleInstance returns the instance registered for requestType under
// key ("" for unkeyed):
//
//   - one matching registration: its instance
//   - several: a *MultipleImplementationTypesRegisteredError
//   - none, requestType a slice []T: every instance of T under key, as a []T
//   - none otherwise: nil for nillable kinds, the zero value for the rest
//
// A nil requestType yields nil. Errors and panics raised by constructors
// and handlers propagate unchanged.
func (c *Container) GetSingleInstance(requestType reflect.Type, key string) (any, error) {
	return c.GetSingleInstanceContext(context.Background(), requestType, key)
}

// GetSingleInstanceContext is GetSingleInstance with a context for tracing.
func (c *Container) GetSingleInstanceContext(ctx context.Context, requestType reflect.Type, key string) (any, error) {
	_, span := c.startSpan(ctx, "di.GetSingleInstance", requestType, key)
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.recoverSpan(span)

	r := &resolution{c: c}
	instance, err := r.single(requestType, key, nil)
	c.endSpan(span, err)

	return instance, err
}

// GetAllInstances returns an instance of every registration for
// requestType under key: type registrations in registration order followed
// by handlers in registration order. The result is empty, never nil, when
// nothing is registered.
func (c *Container) GetAllInstances(requestType reflect.Type, key string) ([]any, error) {
	return c.GetAllInstancesContext(context.Background(), requestType, key)
}

// GetAllInstancesContext is GetAllInstances with a context for tracing.
func (c *Container) GetAllInstancesContext(ctx context.Context, requestType reflect.Type, key string) ([]any, error) {
	_, span := c.startSpan(ctx, "di.GetAllInstances", requestType, key)
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.recoverSpan(span)

	r := &resolution{c: c}
	instances, err := r.all(requestType, key, nil)
	c.endSpan(span, err)

	return instances, err
}

// IsRegistered reports whether requestType has a registration under key. A
// slice type also counts as registered when its element type is.
func (c *Container) IsRegistered(requestType reflect.Type, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.isRegistered(requestType, key)
}

// IsSingleRegistered reports whether the non-slice requestType has exactly
// one registration under key.
func (c *Container) IsSingleRegistered(requestType reflect.Type, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.isSingleRegistered(requestType, key)
}

// Registrations returns a description of every registration in
// registration order.
func (c *Container) Registrations() []RegistrationInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.infos()
}

// Count returns the number of registrations.
func (c *Container) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.len()
}

// OnActivated attaches an activation observer. Observers are called in
// attach order. The returned function detaches the observer; calling it
// more than once has no further effect.
func (c *Container) OnActivated(fn ActivationObserver) (detach func()) {
	if fn == nil {
		return func() {}
	}

	o := &observer{fn: fn}

	c.observersMu.Lock()
	c.observers = append(c.observers, o)
	c.observersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.observersMu.Lock()
			defer c.observersMu.Unlock()

			observers := make([]*observer, 0, len(c.observers))
			for _, existing := range c.observers {
				if existing != o {
					observers = append(observers, existing)
				}
			}
			c.observers = observers
		})
	}
}

func (c *Container) notifyActivated(r Resolver, instance any) {
	c.observersMu.RLock()
	observers := c.observers
	c.observersMu.RUnlock()

	for _, o := range observers {
		o.fn(r, instance)
	}
}

func (c *Container) startSpan(ctx context.Context, name string, requestType reflect.Type, key string) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	return c.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("di.container", c.id),
		attribute.String("di.request_type", fmt.Sprint(requestType)),
		attribute.String("di.key", key),
	))
}

// recoverSpan records a panic raised while resolving and panics again.
func (c *Container) recoverSpan(span trace.Span) {
	if p := recover(); p != nil {
		c.endSpan(span, fmt.Errorf("panic during resolution: %v", p))
		panic(p)
	}
}

func (c *Container) endSpan(span trace.Span, err error) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.metrics.failed(err)
	c.logger.Debug("resolution failed", zap.Error(err))
}
