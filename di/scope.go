package di

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/scopedi/errors"
	"github.com/kbukum/scopedi/logger"
)

// Stack is an ordered stack of scopes. Scoped registrations resolve against
// the innermost open scope; outer scopes are never consulted.
//
// A Stack is safe for concurrent use, but goroutines sharing one also share
// its nesting. Give each goroutine its own Stack from Container.NewStack when
// they open scopes independently.
type Stack struct {
	id        string
	container *Container

	mu     sync.Mutex
	frames []*frame
}

// frame holds the scoped instances of one scope, keyed by registration so a
// replaced registration never returns the old implementation.
type frame struct {
	id string

	mu        sync.Mutex
	instances map[*registration]reflect.Value
}

func (f *frame) get(reg *registration) (reflect.Value, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.instances[reg]
	return v, ok
}

// store keeps the first instance stored for reg and returns it.
func (f *frame) store(reg *registration, v reflect.Value) reflect.Value {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.instances[reg]; ok {
		return existing
	}
	f.instances[reg] = v
	return v
}

// ID returns the identifier the stack logs under.
func (s *Stack) ID() string { return s.id }

// BeginScope pushes a new, empty scope.
func (s *Stack) BeginScope() {
	f := &frame{id: uuid.NewString(), instances: make(map[*registration]reflect.Value)}

	s.mu.Lock()
	s.frames = append(s.frames, f)
	depth := len(s.frames)
	s.mu.Unlock()

	s.container.instruments.RecordScope(context.Background(), 1)
	s.container.log.Debug("scope begun", logger.Fields(
		logger.FieldStackID, s.id,
		logger.FieldScopeID, f.id,
		logger.FieldDepth, depth,
	))
}

// EndScope pops the innermost scope, dropping its scoped instances.
// It fails with a SCOPE_UNDERFLOW error when no scope is open.
func (s *Stack) EndScope() error {
	s.mu.Lock()
	n := len(s.frames)
	if n == 0 {
		s.mu.Unlock()
		return errors.ScopeUnderflow()
	}
	f := s.frames[n-1]
	s.frames[n-1] = nil
	s.frames = s.frames[:n-1]
	s.mu.Unlock()

	s.container.instruments.RecordScope(context.Background(), -1)
	s.container.log.Debug("scope ended", logger.Fields(
		logger.FieldStackID, s.id,
		logger.FieldScopeID, f.id,
		logger.FieldDepth, n-1,
	))
	return nil
}

// ScopeDepth returns the number of open scopes.
func (s *Stack) ScopeDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func (s *Stack) top() *frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Resolve returns an instance for abstraction, using this stack for scoped
// lifetimes. Scoped registrations fail with NO_ACTIVE_SCOPE when the stack is
// empty.
func (s *Stack) Resolve(abstraction reflect.Type) (any, error) {
	return s.container.resolveRoot(context.Background(), s, abstraction)
}

// ResolveContext is Resolve with a context for tracing and metrics.
func (s *Stack) ResolveContext(ctx context.Context, abstraction reflect.Type) (any, error) {
	return s.container.resolveRoot(ctx, s, abstraction)
}
