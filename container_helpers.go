package di

import (
	"reflect"
)

// TypeOf returns the reflect.Type of T. It works for interface types, which
// reflect.TypeOf cannot see through a value.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Resolve resolves the unkeyed single instance of T. An unregistered T
// yields its zero value.
func Resolve[T any](r Resolver) (T, error) {
	return ResolveKeyed[T](r, "")
}

// ResolveKeyed resolves the single instance of T registered under key.
func ResolveKeyed[T any](r Resolver, key string) (T, error) {
	var zero T

	instance, err := r.GetSingleInstance(TypeOf[T](), key)
	if err != nil {
		return zero, err
	}

	return as[T](instance, "resolved instance")
}

// ResolveAll resolves every unkeyed instance of T.
func ResolveAll[T any](r Resolver) ([]T, error) {
	return ResolveAllKeyed[T](r, "")
}

// ResolveAllKeyed resolves every instance of T registered under key.
func ResolveAllKeyed[T any](r Resolver, key string) ([]T, error) {
	instances, err := r.GetAllInstances(TypeOf[T](), key)
	if err != nil {
		return nil, err
	}

	results := make([]T, 0, len(instances))
	for _, instance := range instances {
		result, err := as[T](instance, "element of all instances")
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// MustResolve resolves the unkeyed single instance of T and panics on error.
func MustResolve[T any](r Resolver) T {
	result, err := Resolve[T](r)
	if err != nil {
		panic(err)
	}
	return result
}

// Registered reports whether T can be resolved under key.
func Registered[T any](r Resolver, key string) bool {
	return r.IsRegistered(TypeOf[T](), key)
}

// SingleRegistered reports whether T has exactly one registration under key.
func SingleRegistered[T any](r Resolver, key string) bool {
	return r.IsSingleRegistered(TypeOf[T](), key)
}

// RegisterPerRequest registers impl as a per-request implementation of T.
func RegisterPerRequest[T any](c *Container, impl Implementation, opts ...RegisterOption) error {
	return c.RegisterPerRequest(TypeOf[T](), impl, opts...)
}

// RegisterSingleton registers impl as a singleton implementation of T.
func RegisterSingleton[T any](c *Container, impl Implementation, opts ...RegisterOption) error {
	return c.RegisterSingleton(TypeOf[T](), impl, opts...)
}

// RegisterHandler registers a typed handler for T.
func RegisterHandler[T any](c *Container, fn func(r Resolver, requester any) (T, error), opts ...RegisterOption) error {
	var handler Handler
	if fn != nil {
		handler = func(r Resolver, requester any) (any, error) {
			return fn(r, requester)
		}
	}
	return c.RegisterHandler(TypeOf[T](), handler, opts...)
}

// as converts a resolved instance to T. nil converts to the zero T.
func as[T any](instance any, context string) (T, error) {
	var zero T

	if instance == nil {
		return zero, nil
	}

	result, ok := instance.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Expected: TypeOf[T](),
			Actual:   reflect.TypeOf(instance),
			Context:  context,
		}
	}

	return result, nil
}
