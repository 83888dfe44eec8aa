// Package di provides a dependency injection container with explicit
// lifetimes and nested scopes.
//
// Abstractions and implementations are identified by reflect.Type. Each
// registration carries one of three lifetimes:
//
//   - Transient: a new instance on every resolve.
//   - Singleton: one instance per container, built on first resolve.
//   - Scoped: one instance per innermost open scope. Resolving a scoped
//     abstraction with no open scope fails with NO_ACTIVE_SCOPE.
//
// # Registration
//
//	c := di.New()
//	di.Provide[IService](c, NewService, di.Scoped)
//	di.RegisterSingleton[Clock, *SystemClock](c)
//
// # Resolution
//
// Constructor parameters that are registered are resolved through the
// container with their own lifetimes. Unregistered parameters are
// default-constructed unless the container was created with
// WithoutDefaultConstruct. Cycles are reported as CYCLIC_DEPENDENCY errors.
// A singleton that depends on a scoped abstraction keeps the instance from the
// scope it was first built in; this is logged at debug level.
//
//	stack := c.NewStack()
//	stack.BeginScope()
//	svc := di.MustResolve[IService](stack)
//	_ = stack.EndScope()
package di
