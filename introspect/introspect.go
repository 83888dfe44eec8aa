package introspect

import (
	"fmt"
	"reflect"

	"github.com/kbukum/scopedi/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Constructor is the injection constructor of an implementation type.
type Constructor struct {
	// Type is the type the constructor produces.
	Type reflect.Type
	// Params are the constructor's parameter types, in call order.
	Params []reflect.Type
	// Invoke calls the constructor with one value per parameter.
	Invoke func(args []reflect.Value) (reflect.Value, error)
}

// Introspector reports how to build types. The container asks it for an
// implementation's constructor and for default values of parameter types
// that have no registration.
type Introspector interface {
	Constructor(implementation reflect.Type) (Constructor, error)
	Zero(t reflect.Type) (reflect.Value, error)
}

// FromFunc describes a constructor function of the form
// func(P1, ..., Pn) T or func(P1, ..., Pn) (T, error).
func FromFunc(fn any) (Constructor, error) {
	if fn == nil {
		return Constructor{}, errors.Validation("constructor must be a function, got nil")
	}
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return Constructor{}, errors.Validation(fmt.Sprintf("constructor must be a function, got %s", fnType))
	}
	if fnType.IsVariadic() {
		return Constructor{}, errors.Validation(fmt.Sprintf("constructor %s must not be variadic", fnType))
	}

	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return Constructor{}, errors.Validation(fmt.Sprintf("second return value of %s must be error", fnType))
		}
	default:
		return Constructor{}, errors.Validation(fmt.Sprintf("constructor %s must return T or (T, error)", fnType))
	}

	out := fnType.Out(0)
	if out.Kind() == reflect.Interface {
		return Constructor{}, errors.Validation(fmt.Sprintf("constructor %s must return a concrete type, got interface %s", fnType, out))
	}

	params := make([]reflect.Type, fnType.NumIn())
	for i := range params {
		params[i] = fnType.In(i)
	}

	return Constructor{
		Type:   out,
		Params: params,
		Invoke: func(args []reflect.Value) (reflect.Value, error) {
			return call(fnVal, args)
		},
	}, nil
}

// call invokes fn, turning a panic or a non-nil error result into an error.
func call(fn reflect.Value, args []reflect.Value) (result reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = reflect.Value{}
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()

	results := fn.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return reflect.Value{}, results[1].Interface().(error)
	}
	return results[0], nil
}

// Implicit returns the zero-argument constructor Go gives every struct type
// through its composite literal: T{} for a struct T, &T{} for *T.
func Implicit(t reflect.Type) (Constructor, bool) {
	switch {
	case t.Kind() == reflect.Struct:
		return Constructor{
			Type: t,
			Invoke: func([]reflect.Value) (reflect.Value, error) {
				return reflect.New(t).Elem(), nil
			},
		}, true
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return Constructor{
			Type: t,
			Invoke: func([]reflect.Value) (reflect.Value, error) {
				return reflect.New(t.Elem()), nil
			},
		}, true
	default:
		return Constructor{}, false
	}
}

// ZeroValue default-constructs t without any constructor: an empty value for
// structs, basic types and arrays, an allocated pointee for pointers, and an
// empty map or slice. Interfaces, functions, channels and unsafe pointers
// cannot be default-constructed.
func ZeroValue(t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, errors.ParameterConstruction(nil, "nil type")
	}
	switch t.Kind() {
	case reflect.Interface:
		return reflect.Value{}, errors.ParameterConstruction(t, "interface types have no default value")
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return reflect.Value{}, errors.ParameterConstruction(t, fmt.Sprintf("%s types have no default value", t.Kind()))
	case reflect.Pointer:
		switch t.Elem().Kind() {
		case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
			return reflect.Value{}, errors.ParameterConstruction(t, "pointer to a type with no default value")
		}
		return reflect.New(t.Elem()), nil
	case reflect.Map:
		return reflect.MakeMap(t), nil
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0), nil
	default:
		return reflect.New(t).Elem(), nil
	}
}
