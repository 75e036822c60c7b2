package di

import (
	"reflect"
)

// ModuleOption represents a registration action within a module.
type ModuleOption func(*Container) error

// NewModule groups related registrations under a name. Modules may nest;
// the first failing registration stops the module and is returned wrapped
// in a *ModuleError.
//
// Example:
//
//	var StorageModule = di.NewModule("storage",
//	    di.AddSingleton(di.TypeOf[Store](), di.Implement[*SQLStore](NewSQLStore)),
//	    di.AddPerRequest(di.TypeOf[UnitOfWork](), di.Implement[*unitOfWork](newUnitOfWork)),
//	)
//
//	var AppModule = di.NewModule("app",
//	    StorageModule,
//	    di.AddHandler(di.TypeOf[Clock](), func(di.Resolver, any) (any, error) {
//	        return systemClock{}, nil
//	    }),
//	)
//
//	err := c.Install(AppModule)
func NewModule(name string, builders ...ModuleOption) ModuleOption {
	return func(c *Container) error {
		for _, builder := range builders {
			if builder == nil {
				continue
			}

			if err := builder(c); err != nil {
				return &ModuleError{Module: name, Cause: err}
			}
		}

		return nil
	}
}

// AddPerRequest creates a ModuleOption registering a per-request implementation.
func AddPerRequest(requestType reflect.Type, impl Implementation, opts ...RegisterOption) ModuleOption {
	return func(c *Container) error {
		return c.RegisterPerRequest(requestType, impl, opts...)
	}
}

// AddSingleton creates a ModuleOption registering a singleton implementation.
func AddSingleton(requestType reflect.Type, impl Implementation, opts ...RegisterOption) ModuleOption {
	return func(c *Container) error {
		return c.RegisterSingleton(requestType, impl, opts...)
	}
}

// AddHandler creates a ModuleOption registering a handler.
func AddHandler(requestType reflect.Type, handler Handler, opts ...RegisterOption) ModuleOption {
	return func(c *Container) error {
		return c.RegisterHandler(requestType, handler, opts...)
	}
}

// Install applies modules to the container in order and stops at the
// first error.
func (c *Container) Install(modules ...ModuleOption) error {
	if c == nil {
		return ErrContainerNil
	}

	for _, module := range modules {
		if module == nil {
			continue
		}

		if err := module(c); err != nil {
			return err
		}
	}

	return nil
}
