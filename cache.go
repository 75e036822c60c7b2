package di

import (
	"reflect"
)

// singletonCache holds the singleton instances of a container, keyed by
// implementation type. Every singleton registration of an implementation
// type shares the entry, whatever request type or key it was registered
// under. It is guarded by the owning container's lock.
type singletonCache struct {
	instances map[reflect.Type]any
}

// newSingletonCache creates an empty singleton cache.
func newSingletonCache() *singletonCache {
	return &singletonCache{
		instances: make(map[reflect.Type]any),
	}
}

// get retrieves the cached instance of an implementation type.
func (c *singletonCache) get(implementationType reflect.Type) (any, bool) {
	instance, ok := c.instances[implementationType]
	return instance, ok
}

// set stores the instance of an implementation type. Only successfully
// constructed instances are stored.
func (c *singletonCache) set(implementationType reflect.Type, instance any) {
	c.instances[implementationType] = instance
}

// len returns the number of cached instances.
func (c *singletonCache) len() int {
	return len(c.instances)
}
