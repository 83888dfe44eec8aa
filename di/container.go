package di

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/kbukum/scopedi/errors"
	"github.com/kbukum/scopedi/introspect"
	"github.com/kbukum/scopedi/logger"
	"github.com/kbukum/scopedi/observability"
)

// Container maps abstractions to implementations and owns the singleton
// instances built from them. Each Container also carries a default scope
// stack; use NewStack for stacks that nest independently.
type Container struct {
	id string

	mu            sync.RWMutex
	registrations map[reflect.Type]*registration

	introspector     introspect.Introspector
	maxDepth         int
	defaultConstruct bool

	root        *Stack
	log         *logger.Logger
	instruments *observability.Instruments
	tracer      trace.Tracer
}

type registration struct {
	abstraction    reflect.Type
	implementation reflect.Type
	lifetime       Lifetime

	build    sync.Mutex    // serializes the first singleton construction
	instance reflect.Value // singleton instance, guarded by Container.mu
}

// RegistrationInfo describes a registration for introspection.
type RegistrationInfo struct {
	Abstraction    reflect.Type
	Implementation reflect.Type
	Lifetime       Lifetime
	Materialized   bool // a singleton instance has been built
}

// constructorCatalog is implemented by introspectors that accept constructor
// functions, such as *introspect.Catalog.
type constructorCatalog interface {
	Define(fn any) (reflect.Type, error)
	Designate(fn any) (reflect.Type, error)
}

// New creates an empty container.
func New(opts ...Option) *Container {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{
		id:               uuid.NewString(),
		registrations:    make(map[reflect.Type]*registration),
		introspector:     o.introspector,
		maxDepth:         o.maxDepth,
		defaultConstruct: o.defaultConstruct,
	}
	if c.introspector == nil {
		c.introspector = introspect.NewCatalog()
	}

	log := o.log
	if log == nil {
		log = logger.Nop()
	}
	c.log = log.WithComponent("di").WithFields(logger.Fields(logger.FieldContainerID, c.id))

	c.instruments = observability.NopInstruments()
	if o.meterProvider != nil {
		in, err := observability.NewInstruments(observability.Meter(o.meterProvider))
		if err != nil {
			c.log.Warn("container metrics disabled", logger.ErrorFields("create_instruments", err))
		} else {
			c.instruments = in
		}
	}

	if o.tracerProvider != nil {
		c.tracer = observability.Tracer(o.tracerProvider)
	} else {
		c.tracer = noop.NewTracerProvider().Tracer(observability.InstrumentationName)
	}

	c.root = c.NewStack()
	return c
}

// ID returns the identifier the container logs under.
func (c *Container) ID() string { return c.id }

// Register maps abstraction to implementation with the Transient lifetime.
func (c *Container) Register(abstraction, implementation reflect.Type) error {
	return c.RegisterLifetime(abstraction, implementation, Transient)
}

// RegisterSingleton maps abstraction to implementation with the Singleton lifetime.
func (c *Container) RegisterSingleton(abstraction, implementation reflect.Type) error {
	return c.RegisterLifetime(abstraction, implementation, Singleton)
}

// RegisterScoped maps abstraction to implementation with the Scoped lifetime.
func (c *Container) RegisterScoped(abstraction, implementation reflect.Type) error {
	return c.RegisterLifetime(abstraction, implementation, Scoped)
}

// RegisterLifetime maps abstraction to implementation. The implementation type
// must be assignable to the abstraction. Registering an abstraction again
// replaces the earlier registration and discards its singleton instance.
func (c *Container) RegisterLifetime(abstraction, implementation reflect.Type, lifetime Lifetime) error {
	if !lifetime.valid() {
		return errors.Validation(fmt.Sprintf("unknown lifetime %s", lifetime))
	}
	if abstraction == nil || implementation == nil || !implementation.AssignableTo(abstraction) {
		return errors.Incompatible(abstraction, implementation)
	}

	reg := &registration{
		abstraction:    abstraction,
		implementation: implementation,
		lifetime:       lifetime,
	}

	c.mu.Lock()
	prev, replaced := c.registrations[abstraction]
	c.registrations[abstraction] = reg
	c.mu.Unlock()

	fields := logger.TypeFields(abstraction, implementation)
	fields[logger.FieldLifetime] = lifetime.String()
	if replaced {
		fields["previous_implementation"] = prev.implementation.String()
		c.log.Warn("registration replaced", fields)
		return nil
	}
	c.log.Debug("registered", fields)
	return nil
}

// Define adds fn to the container's constructor catalog and returns the type
// it constructs. It fails when the container uses an introspector that does
// not accept constructor functions.
func (c *Container) Define(fn any) (reflect.Type, error) {
	cat, err := c.catalog()
	if err != nil {
		return nil, err
	}
	return cat.Define(fn)
}

// Designate adds fn to the constructor catalog as the constructor to use for
// the type it returns when that type has several.
func (c *Container) Designate(fn any) (reflect.Type, error) {
	cat, err := c.catalog()
	if err != nil {
		return nil, err
	}
	return cat.Designate(fn)
}

func (c *Container) catalog() (constructorCatalog, error) {
	cat, ok := c.introspector.(constructorCatalog)
	if !ok {
		return nil, errors.Validation(fmt.Sprintf("introspector %T does not accept constructor functions", c.introspector))
	}
	return cat, nil
}

// IsRegistered reports whether abstraction has a registration.
func (c *Container) IsRegistered(abstraction reflect.Type) bool {
	_, ok := c.lookup(abstraction)
	return ok
}

func (c *Container) lookup(abstraction reflect.Type) (*registration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	reg, ok := c.registrations[abstraction]
	return reg, ok
}

// Registrations returns a snapshot of all registrations, sorted by abstraction name.
func (c *Container) Registrations() []RegistrationInfo {
	c.mu.RLock()
	result := make([]RegistrationInfo, 0, len(c.registrations))
	for _, reg := range c.registrations {
		result = append(result, RegistrationInfo{
			Abstraction:    reg.abstraction,
			Implementation: reg.implementation,
			Lifetime:       reg.lifetime,
			Materialized:   reg.instance.IsValid(),
		})
	}
	c.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Abstraction.String() < result[j].Abstraction.String()
	})
	return result
}

// NewStack creates a scope stack that shares this container's registrations
// and singletons but nests scopes independently of every other stack.
// A goroutine that opens its own scopes should use its own Stack.
func (c *Container) NewStack() *Stack {
	return &Stack{id: uuid.NewString(), container: c}
}

// BeginScope opens a scope on the container's default stack.
func (c *Container) BeginScope() { c.root.BeginScope() }

// EndScope closes the innermost scope on the container's default stack.
func (c *Container) EndScope() error { return c.root.EndScope() }

// ScopeDepth returns the number of open scopes on the container's default stack.
func (c *Container) ScopeDepth() int { return c.root.ScopeDepth() }
