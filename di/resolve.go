package di

import (
	"context"
	"reflect"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/scopedi/errors"
	"github.com/kbukum/scopedi/logger"
	"github.com/kbukum/scopedi/observability"
)

// Resolve returns an instance for abstraction, using the default stack for
// scoped lifetimes. A Scoped registration resolved while no scope is open
// fails with NO_ACTIVE_SCOPE; it is never built as a one-off instance.
func (c *Container) Resolve(abstraction reflect.Type) (any, error) {
	return c.resolveRoot(context.Background(), c.root, abstraction)
}

// ResolveContext is Resolve with a context for tracing and metrics.
func (c *Container) ResolveContext(ctx context.Context, abstraction reflect.Type) (any, error) {
	return c.resolveRoot(ctx, c.root, abstraction)
}

// resolution tracks one top-level resolve through its recursive parameter
// resolutions. chain holds the abstractions currently being built; singleton
// is the innermost singleton registration among them, if any.
type resolution struct {
	ctx       context.Context
	stack     *Stack
	chain     []reflect.Type
	singleton *registration
}

func (r *resolution) enter(abstraction reflect.Type) *resolution {
	chain := make([]reflect.Type, len(r.chain)+1)
	copy(chain, r.chain)
	chain[len(r.chain)] = abstraction
	return &resolution{ctx: r.ctx, stack: r.stack, chain: chain, singleton: r.singleton}
}

func (r *resolution) building(abstraction reflect.Type) bool {
	for _, t := range r.chain {
		if t == abstraction {
			return true
		}
	}
	return false
}

func (c *Container) resolveRoot(ctx context.Context, s *Stack, abstraction reflect.Type) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := c.tracer.Start(ctx, observability.SpanResolve, trace.WithAttributes(
		attribute.String(observability.AttrAbstraction, typeName(abstraction)),
		attribute.Int(observability.AttrScopeDepth, s.ScopeDepth()),
	))
	defer span.End()

	v, outcome, err := c.resolve(&resolution{ctx: ctx, stack: s}, abstraction)
	if err != nil {
		code := string(errors.CodeOf(err))
		c.instruments.RecordError(ctx, code)
		span.SetAttributes(
			attribute.String(observability.AttrOutcome, observability.OutcomeError),
			attribute.String(observability.AttrErrorCode, code),
		)
		observability.SetSpanError(span, err)
		c.log.Debug("resolve failed", logger.MergeWithError(logger.TypeFields(abstraction, nil), err))
		return nil, err
	}

	span.SetAttributes(attribute.String(observability.AttrOutcome, outcome))
	return v.Interface(), nil
}

func (c *Container) resolve(r *resolution, abstraction reflect.Type) (reflect.Value, string, error) {
	reg, ok := c.lookup(abstraction)
	if !ok {
		return reflect.Value{}, "", errors.Unregistered(abstraction)
	}
	if r.building(abstraction) {
		return reflect.Value{}, "", errors.CyclicDependency(r.enter(abstraction).chain)
	}
	if len(r.chain) >= c.maxDepth {
		return reflect.Value{}, "", errors.ResolutionDepth(abstraction, c.maxDepth)
	}
	if len(r.chain) == 0 {
		trace.SpanFromContext(r.ctx).SetAttributes(attribute.String(observability.AttrLifetime, reg.lifetime.String()))
	}
	r = r.enter(abstraction)

	switch reg.lifetime {
	case Singleton:
		return c.resolveSingleton(r, reg)
	case Scoped:
		return c.resolveScoped(r, reg)
	default:
		return c.resolveTransient(r, reg)
	}
}

func (c *Container) resolveSingleton(r *resolution, reg *registration) (reflect.Value, string, error) {
	if v, ok := c.singleton(reg); ok {
		c.instruments.RecordResolution(r.ctx, reg.lifetime.String(), observability.OutcomeCached)
		return v, observability.OutcomeCached, nil
	}

	reg.build.Lock()
	defer reg.build.Unlock()

	// Double-check after acquiring the build lock
	if v, ok := c.singleton(reg); ok {
		c.instruments.RecordResolution(r.ctx, reg.lifetime.String(), observability.OutcomeCached)
		return v, observability.OutcomeCached, nil
	}

	r.singleton = reg
	v, err := c.construct(r, reg)
	if err != nil {
		return reflect.Value{}, "", err
	}

	c.mu.Lock()
	reg.instance = v
	c.mu.Unlock()

	c.instruments.RecordResolution(r.ctx, reg.lifetime.String(), observability.OutcomeConstructed)
	return v, observability.OutcomeConstructed, nil
}

func (c *Container) singleton(reg *registration) (reflect.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return reg.instance, reg.instance.IsValid()
}

func (c *Container) resolveScoped(r *resolution, reg *registration) (reflect.Value, string, error) {
	f := r.stack.top()
	if f == nil {
		return reflect.Value{}, "", errors.NoActiveScope(reg.abstraction)
	}
	if r.singleton != nil {
		// The singleton keeps this instance after the scope ends.
		c.log.Debug("scoped dependency captured by singleton", logger.Fields(
			logger.FieldAbstraction, typeName(reg.abstraction),
			logger.FieldCapturedBy, typeName(r.singleton.abstraction),
			logger.FieldStackID, r.stack.id,
			logger.FieldScopeID, f.id,
		))
	}
	if v, ok := f.get(reg); ok {
		c.instruments.RecordResolution(r.ctx, reg.lifetime.String(), observability.OutcomeCached)
		return v, observability.OutcomeCached, nil
	}

	v, err := c.construct(r, reg)
	if err != nil {
		return reflect.Value{}, "", err
	}
	v = f.store(reg, v)

	c.instruments.RecordResolution(r.ctx, reg.lifetime.String(), observability.OutcomeConstructed)
	return v, observability.OutcomeConstructed, nil
}

func (c *Container) resolveTransient(r *resolution, reg *registration) (reflect.Value, string, error) {
	v, err := c.construct(r, reg)
	if err != nil {
		return reflect.Value{}, "", err
	}
	c.instruments.RecordResolution(r.ctx, reg.lifetime.String(), observability.OutcomeConstructed)
	return v, observability.OutcomeConstructed, nil
}

// construct builds a new instance of reg's implementation, resolving each
// constructor parameter first.
func (c *Container) construct(r *resolution, reg *registration) (reflect.Value, error) {
	ctor, err := c.introspector.Constructor(reg.implementation)
	if err != nil {
		if !errors.IsAppError(err) {
			err = errors.NoConstructor(reg.implementation).WithCause(err)
		}
		return reflect.Value{}, err
	}

	args := make([]reflect.Value, len(ctor.Params))
	for i, param := range ctor.Params {
		arg, err := c.resolveParam(r, param)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = arg
	}

	start := time.Now()
	v, err := ctor.Invoke(args)
	elapsed := time.Since(start)
	if err != nil {
		return reflect.Value{}, errors.ConstructionFailed(reg.implementation, err)
	}
	if !v.IsValid() {
		return reflect.Value{}, errors.Incompatible(reg.abstraction, nil)
	}
	if !v.Type().AssignableTo(reg.abstraction) {
		return reflect.Value{}, errors.Incompatible(reg.abstraction, v.Type())
	}

	c.instruments.RecordConstruction(r.ctx, reg.lifetime.String(), elapsed)
	if c.log.DebugEnabled() {
		fields := logger.MergeWithDuration(logger.TypeFields(reg.abstraction, v.Type()), elapsed)
		fields[logger.FieldLifetime] = reg.lifetime.String()
		fields[logger.FieldStackID] = r.stack.id
		fields[logger.FieldDepth] = len(r.chain)
		c.log.Debug("constructed", fields)
	}
	return v, nil
}

// resolveParam resolves a registered parameter through the container and
// default-constructs anything else.
func (c *Container) resolveParam(r *resolution, param reflect.Type) (reflect.Value, error) {
	if c.IsRegistered(param) {
		v, _, err := c.resolve(r, param)
		return v, err
	}
	if !c.defaultConstruct {
		return reflect.Value{}, errors.Unregistered(param)
	}

	v, err := c.introspector.Zero(param)
	if err != nil {
		if !errors.IsAppError(err) {
			err = errors.ParameterConstruction(param, "default construction failed").WithCause(err)
		}
		return reflect.Value{}, err
	}
	return v, nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
