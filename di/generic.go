package di

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kbukum/scopedi/errors"
)

// Resolver is satisfied by both *Container and *Stack.
type Resolver interface {
	ResolveContext(ctx context.Context, abstraction reflect.Type) (any, error)
}

// TypeOf returns the reflect.Type of T, including interface types.
//
//	di.TypeOf[IService]() // the interface type, not a pointer to it
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register maps A to I with the Transient lifetime.
func Register[A, I any](c *Container) error {
	return c.Register(TypeOf[A](), TypeOf[I]())
}

// RegisterSingleton maps A to I with the Singleton lifetime.
func RegisterSingleton[A, I any](c *Container) error {
	return c.RegisterSingleton(TypeOf[A](), TypeOf[I]())
}

// RegisterScoped maps A to I with the Scoped lifetime.
func RegisterScoped[A, I any](c *Container) error {
	return c.RegisterScoped(TypeOf[A](), TypeOf[I]())
}

// Provide defines ctor as a constructor for the type it returns and maps A to
// that type with the given lifetime.
//
//	di.Provide[IService](c, NewService, di.Scoped)
func Provide[A any](c *Container, ctor any, lifetime Lifetime) error {
	implementation, err := c.Define(ctor)
	if err != nil {
		return err
	}
	return c.RegisterLifetime(TypeOf[A](), implementation, lifetime)
}

// Resolve resolves T with type safety, returns error on failure.
//
//	svc, err := di.Resolve[IService](stack)
func Resolve[T any](r Resolver) (T, error) {
	return ResolveContext[T](context.Background(), r)
}

// ResolveContext is Resolve with a context for tracing and metrics.
func ResolveContext[T any](ctx context.Context, r Resolver) (T, error) {
	var zero T
	abstraction := TypeOf[T]()
	instance, err := r.ResolveContext(ctx, abstraction)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, errors.Incompatible(abstraction, reflect.TypeOf(instance))
	}
	return result, nil
}

// MustResolve resolves T with type safety, panics on error.
// Use it during wiring, where a missing registration is a programming error.
func MustResolve[T any](r Resolver) T {
	result, err := Resolve[T](r)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %s: %v", TypeOf[T](), err))
	}
	return result
}

// TryResolve resolves T, returns the zero value and false on any error.
// Use it when a dependency is optional.
//
//	if metrics, ok := di.TryResolve[MetricsClient](c); ok {
//	    metrics.RecordEvent(...)
//	}
func TryResolve[T any](r Resolver) (T, bool) {
	result, err := Resolve[T](r)
	if err != nil {
		return result, false
	}
	return result, true
}
