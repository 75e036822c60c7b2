// Package di provides a reflection-based object resolution container.
//
// A Container maps request types, optionally qualified by a string key, to
// the way their instances are built, and resolves whole object graphs on
// demand by wiring constructor dependencies and, when enabled, properties.
//
// # Basic Usage
//
// Describe implementations with their constructors, register them for the
// types they are requested as, then resolve:
//
//	c := di.New(di.Configuration{})
//
//	err := c.RegisterSingleton(di.TypeOf[Logger](), di.Implement[*stdLogger](newStdLogger))
//	err = c.RegisterPerRequest(di.TypeOf[UserService](), di.Implement[*userService](newUserService))
//
//	users, err := di.Resolve[UserService](c)
//
// # Lifetimes
//
//   - PerRequest: every resolution constructs a new instance
//   - Singleton: one instance per implementation type and container, built
//     on first resolution and shared by every singleton registration of that
//     implementation type
//
// Handlers registered with RegisterHandler build instances themselves and
// are called on every resolution.
//
// An implementation type may be registered once per key. Registering it
// again, for any request type or lifetime, fails with
// *TypeAlreadyRegisteredError.
//
// # Constructor Selection
//
// An Implementation lists candidate constructors. A constructor is eligible
// when each dependency is resolvable: exactly one registration for a plain
// type, or at least one registration of T for a []T. Among the eligible
// constructors the one with the most dependencies wins, the first declared
// on a tie. Without constructors, a pointer-to-struct implementation is
// allocated with its zero value.
//
//	di.Implement[*Reporter](NewReporter, NewReporterWithCache)
//
// Constructors taking a single struct embedding In get each field resolved
// separately; see In for the supported tags.
//
// # Collections
//
// GetAllInstances returns an instance of every registration of a type. A
// []T dependency or request without a registration of its own resolves to
// all instances of T, so constructors can take collections directly:
//
//	func NewPipeline(stages []Stage) *Pipeline
//
// # Keys
//
// Registrations and resolutions carry a key; "" is the unkeyed default. A
// key only matches the identical key:
//
//	c.RegisterSingleton(di.TypeOf[Cache](), di.Implement[*redisCache](newRedisCache), di.Key("redis"))
//	cache, err := di.ResolveKeyed[Cache](c, "redis")
//
// # Property Injection
//
// With Configuration.EnablePropertyInjection, exported fields of a
// constructed *struct that are still nil after construction are resolved by
// their declared type and `name` tag.
//
// # Child Containers
//
// GetChildContainer returns a container with the same configuration and an
// empty registration store and singleton cache. Resolution never falls back
// to the parent.
//
// # Concurrency
//
// A Container is safe for concurrent use. Each public call holds the
// container lock until it returns; nested resolutions reuse the call in
// flight. Handlers and activation observers resolve further dependencies
// through the Resolver they are given, never through the Container itself.
//
// # Observability
//
// WithLogger, WithMetrics and WithTracer attach a zap logger, Prometheus
// collectors and an OpenTelemetry tracer. All three default to no-ops.
package di
