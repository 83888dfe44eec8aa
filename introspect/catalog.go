package introspect

import (
	"reflect"
	"sync"

	"github.com/kbukum/scopedi/errors"
)

// Catalog is the default Introspector. It holds constructor functions keyed by
// the type they produce.
//
// Selection rules for Constructor(T):
//   - a designated constructor for T wins;
//   - otherwise exactly one defined constructor is used;
//   - several defined constructors and none designated is an error;
//   - no defined constructor falls back to the implicit one for struct and
//     pointer-to-struct types, and is an error for anything else.
type Catalog struct {
	mu         sync.RWMutex
	defined    map[reflect.Type][]entry
	designated map[reflect.Type]Constructor
}

type entry struct {
	fn   uintptr
	ctor Constructor
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		defined:    make(map[reflect.Type][]entry),
		designated: make(map[reflect.Type]Constructor),
	}
}

// Define records fn as a constructor for the type it returns and returns that
// type. Defining the same function twice is a no-op.
func (c *Catalog) Define(fn any) (reflect.Type, error) {
	ctor, err := FromFunc(fn)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(ctor, reflect.ValueOf(fn).Pointer())
	return ctor.Type, nil
}

// Designate records fn and marks it as the injection constructor for the type
// it returns, overriding any earlier designation.
func (c *Catalog) Designate(fn any) (reflect.Type, error) {
	ctor, err := FromFunc(fn)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(ctor, reflect.ValueOf(fn).Pointer())
	c.designated[ctor.Type] = ctor
	return ctor.Type, nil
}

func (c *Catalog) add(ctor Constructor, fn uintptr) {
	for _, e := range c.defined[ctor.Type] {
		if e.fn == fn {
			return
		}
	}
	c.defined[ctor.Type] = append(c.defined[ctor.Type], entry{fn: fn, ctor: ctor})
}

// Constructor returns the injection constructor for implementation.
func (c *Catalog) Constructor(implementation reflect.Type) (Constructor, error) {
	if implementation == nil {
		return Constructor{}, errors.NoConstructor(nil)
	}

	c.mu.RLock()
	designated, ok := c.designated[implementation]
	defined := c.defined[implementation]
	c.mu.RUnlock()

	if ok {
		return designated, nil
	}
	switch len(defined) {
	case 0:
		if ctor, ok := Implicit(implementation); ok {
			return ctor, nil
		}
		return Constructor{}, errors.NoConstructor(implementation)
	case 1:
		return defined[0].ctor, nil
	default:
		return Constructor{}, errors.AmbiguousConstructor(implementation, len(defined))
	}
}

// Zero default-constructs t. Constructor selection follows the same rules as
// Constructor:
//   - a designated or single defined constructor with no parameters is called;
//   - several defined constructors and none designated is an
//     AMBIGUOUS_CONSTRUCTOR error;
//   - a selected constructor that takes parameters is not called, and the
//     value comes from ZeroValue, as it does when none is defined.
func (c *Catalog) Zero(t reflect.Type) (reflect.Value, error) {
	if t != nil {
		c.mu.RLock()
		designated, isDesignated := c.designated[t]
		defined := c.defined[t]
		c.mu.RUnlock()

		var ctor *Constructor
		switch {
		case isDesignated:
			ctor = &designated
		case len(defined) == 1:
			ctor = &defined[0].ctor
		case len(defined) > 1:
			return reflect.Value{}, errors.AmbiguousConstructor(t, len(defined))
		}
		if ctor != nil && len(ctor.Params) == 0 {
			v, err := ctor.Invoke(nil)
			if err != nil {
				return reflect.Value{}, errors.ParameterConstruction(t, "zero-argument constructor failed").WithCause(err)
			}
			return v, nil
		}
	}
	return ZeroValue(t)
}

// Len returns the number of types with at least one defined constructor.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.defined)
}
