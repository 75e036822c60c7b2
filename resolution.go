package di

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/Stannieman/DI/internal/graph"
	"github.com/Stannieman/DI/internal/reflection"
)

// Resolver resolves instances from a container. Both *Container and the
// resolver handed to a Handler implement it.
type Resolver interface {
	// GetSingleInstance returns the instance registered for requestType
	// under key. See Container.GetSingleInstance.
	GetSingleInstance(requestType reflect.Type, key string) (any, error)

	// GetAllInstances returns an instance of every registration for
	// requestType under key. See Container.GetAllInstances.
	GetAllInstances(requestType reflect.Type, key string) ([]any, error)

	// IsRegistered reports whether requestType can be resolved under key.
	IsRegistered(requestType reflect.Type, key string) bool

	// IsSingleRegistered reports whether exactly one registration exists
	// for requestType under key.
	IsSingleRegistered(requestType reflect.Type, key string) bool
}

var _ Resolver = (*resolution)(nil)

// resolution is one in-flight resolution of a container. It is created by a
// public container call after taking the container lock, and every nested
// resolution (constructor arguments, properties, handler calls) goes
// through it instead of the container, so the lock is taken exactly once.
type resolution struct {
	c    *Container
	path graph.Path
}

func (r *resolution) GetSingleInstance(requestType reflect.Type, key string) (any, error) {
	return r.single(requestType, key, nil)
}

func (r *resolution) GetAllInstances(requestType reflect.Type, key string) ([]any, error) {
	return r.all(requestType, key, nil)
}

func (r *resolution) IsRegistered(requestType reflect.Type, key string) bool {
	return r.c.store.isRegistered(requestType, key)
}

func (r *resolution) IsSingleRegistered(requestType reflect.Type, key string) bool {
	return r.c.store.isSingleRegistered(requestType, key)
}

// single resolves one instance of requestType. With no matching
// registration a slice type unwraps to every instance of its element type,
// and any other type yields its zero value.
func (r *resolution) single(requestType reflect.Type, key string, requester any) (any, error) {
	if requestType == nil {
		return nil, nil
	}

	matches := r.c.store.matching(requestType, key)
	switch len(matches) {
	case 0:
		if requestType.Kind() == reflect.Slice {
			instances, err := r.all(requestType.Elem(), key, requester)
			if err != nil {
				return nil, err
			}
			return typedSlice(requestType, instances)
		}
		return zeroValue(requestType), nil
	case 1:
		return r.produce(matches[0], requester)
	default:
		return nil, &MultipleImplementationTypesRegisteredError{
			RequestType: requestType,
			Key:         key,
			Count:       len(matches),
		}
	}
}

// all resolves every registration of requestType: type registrations in
// registration order, then handlers in registration order. The result is
// never nil.
func (r *resolution) all(requestType reflect.Type, key string, requester any) ([]any, error) {
	instances := make([]any, 0)
	if requestType == nil {
		return instances, nil
	}

	matches := r.c.store.matching(requestType, key)

	for _, reg := range matches {
		if _, ok := reg.(*typeRegistration); !ok {
			continue
		}
		instance, err := r.produce(reg, requester)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}

	for _, reg := range matches {
		if _, ok := reg.(*handlerRegistration); !ok {
			continue
		}
		instance, err := r.produce(reg, requester)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}

	return instances, nil
}

func (r *resolution) produce(reg registration, requester any) (any, error) {
	switch reg := reg.(type) {
	case *typeRegistration:
		return r.build(reg)
	case *handlerRegistration:
		r.c.metrics.handlerInvoked(typeLabel(reg.request))
		return reg.handler(r, requester)
	default:
		return nil, nil
	}
}

// build returns an instance for a type registration, serving singletons
// from the cache when they were built before.
func (r *resolution) build(reg *typeRegistration) (any, error) {
	implementationType := reg.descriptor.implementationType

	if reg.lifetime == Singleton {
		if instance, ok := r.c.singletons.get(implementationType); ok {
			r.c.metrics.cacheHit(typeLabel(implementationType))
			return instance, nil
		}
	}

	// Singletons are shared per implementation type, so any nested request
	// for the same type is a cycle. Per-request registrations are tracked
	// individually.
	var node any = reg
	if reg.lifetime == Singleton {
		node = implementationType
	}

	if cycle, ok := r.path.Enter(node, implementationType); !ok {
		return nil, &CircularDependencyError{Path: cycle}
	}
	defer r.path.Leave()

	instance, err := r.construct(reg.descriptor)
	if err != nil {
		return nil, err
	}

	if reg.lifetime == Singleton {
		r.c.singletons.set(implementationType, instance)
	}

	return instance, nil
}

// construct builds a new instance: it selects and calls a constructor,
// injects properties when enabled and notifies activation observers.
// Errors and panics raised by the constructor propagate unchanged.
func (r *resolution) construct(d *descriptor) (any, error) {
	ctor, err := selectConstructor(d, &r.c.store)
	if err != nil {
		return nil, err
	}

	var value reflect.Value
	if ctor == nil {
		value, _ = d.defaultInstance()
	} else {
		value, err = reflection.Invoke(ctor, dependencies{r: r, requester: r})
		if err != nil {
			return nil, err
		}
	}

	instance := value.Interface()

	if r.c.cfg.EnablePropertyInjection {
		if err := r.injectProperties(instance); err != nil {
			return nil, err
		}
	}

	r.c.notifyActivated(r, instance)

	r.c.metrics.constructed(typeLabel(d.implementationType))
	r.c.logger.Debug("constructed instance",
		zap.String("implementation", formatType(d.implementationType)),
		zap.Int("depth", r.path.Len()),
	)

	return instance, nil
}

// dependencies adapts a resolution to reflection.DependencyResolver on
// behalf of a requester.
type dependencies struct {
	r         *resolution
	requester any
}

func (d dependencies) ResolveValue(t reflect.Type, key string) (reflect.Value, error) {
	instance, err := d.r.single(t, key, d.requester)
	if err != nil {
		return reflect.Value{}, err
	}

	if instance == nil {
		return reflect.Value{}, nil
	}

	value := reflect.ValueOf(instance)
	if !value.Type().AssignableTo(t) {
		return reflect.Value{}, &TypeMismatchError{
			Expected: t,
			Actual:   value.Type(),
			Context:  "resolved dependency",
		}
	}

	return value, nil
}

// typedSlice converts instances into a slice of sliceType.
func typedSlice(sliceType reflect.Type, instances []any) (any, error) {
	elemType := sliceType.Elem()
	slice := reflect.MakeSlice(sliceType, 0, len(instances))

	for _, instance := range instances {
		if instance == nil {
			slice = reflect.Append(slice, reflect.Zero(elemType))
			continue
		}

		value := reflect.ValueOf(instance)
		if !value.Type().AssignableTo(elemType) {
			return nil, &TypeMismatchError{
				Expected: elemType,
				Actual:   value.Type(),
				Context:  "element of " + formatType(sliceType),
			}
		}
		slice = reflect.Append(slice, value)
	}

	return slice.Interface(), nil
}

// zeroValue returns nil for nillable kinds and the zero value otherwise.
func zeroValue(t reflect.Type) any {
	if reflection.CanBeNil(t) {
		return nil
	}
	return reflect.Zero(t).Interface()
}
