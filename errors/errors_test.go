package errors

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type widget struct{}

var widgetType = reflect.TypeOf(widget{})

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeUnregistered, "missing")
	if err.Code != ErrCodeUnregistered {
		t.Errorf("expected code %s, got %s", ErrCodeUnregistered, err.Code)
	}
	if err.Message != "missing" {
		t.Errorf("expected message 'missing', got %q", err.Message)
	}
}

func TestAppError_Unregistered_Details(t *testing.T) {
	err := Unregistered(widgetType)
	if err.Code != ErrCodeUnregistered {
		t.Errorf("expected UNREGISTERED_ABSTRACTION, got %s", err.Code)
	}
	if err.Details["abstraction"] != "errors.widget" {
		t.Errorf("expected abstraction=errors.widget, got %v", err.Details["abstraction"])
	}
}

func TestAppError_CyclicDependency_Chain(t *testing.T) {
	intType := reflect.TypeOf(0)
	err := CyclicDependency([]reflect.Type{widgetType, intType, widgetType})
	if !strings.Contains(err.Message, "errors.widget -> int -> errors.widget") {
		t.Errorf("unexpected message %q", err.Message)
	}
	chain, ok := err.Details["chain"].([]string)
	if !ok || len(chain) != 3 {
		t.Fatalf("expected chain of 3, got %v", err.Details["chain"])
	}
}

func TestAppError_Is_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("resolve failed: %w", ScopeUnderflow())
	if !stderrors.Is(err, ErrScopeUnderflow) {
		t.Error("expected wrapped error to match ErrScopeUnderflow")
	}
	if stderrors.Is(err, ErrUnregistered) {
		t.Error("did not expect match against a different code")
	}
}

func TestAppError_Predicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{"unregistered", Unregistered(widgetType), IsUnregistered},
		{"underflow", ScopeUnderflow(), IsScopeUnderflow},
		{"no active scope", NoActiveScope(widgetType), IsNoActiveScope},
		{"no constructor", NoConstructor(widgetType), IsNoConstructor},
		{"ambiguous", AmbiguousConstructor(widgetType, 2), IsAmbiguousConstructor},
		{"parameter", ParameterConstruction(widgetType, "interface"), IsParameterConstruction},
		{"cycle", CyclicDependency([]reflect.Type{widgetType}), IsCyclicDependency},
		{"construction", ConstructionFailed(widgetType, nil), IsConstructionFailed},
		{"incompatible", Incompatible(widgetType, widgetType), IsIncompatible},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.pred(tc.err) {
				t.Errorf("predicate did not match %v", tc.err)
			}
			if !tc.pred(fmt.Errorf("wrapped: %w", tc.err)) {
				t.Error("predicate did not match through wrapping")
			}
		})
	}
}

func TestAppError_NestedCodeMatches(t *testing.T) {
	inner := ParameterConstruction(widgetType, "interface")
	outer := ConstructionFailed(widgetType, inner)
	if !IsConstructionFailed(outer) || !IsParameterConstruction(outer) {
		t.Error("expected both outer and inner codes to match")
	}
	if CodeOf(outer) != ErrCodeConstructionFailed {
		t.Errorf("expected outer code first, got %s", CodeOf(outer))
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NoConstructor(widgetType).WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected Unwrap to expose cause")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := Unregistered(widgetType).WithDetails(map[string]any{"extra": "info"})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["abstraction"] == nil {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := (&AppError{}).WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_WithLeavesSentinelUnchanged(t *testing.T) {
	cause := fmt.Errorf("root cause")
	wrapped := ErrUnregistered.WithCause(cause).WithDetail("abstraction", "Widget")

	if ErrUnregistered.Cause != nil || ErrUnregistered.Details != nil {
		t.Fatalf("sentinel was modified: %+v", ErrUnregistered)
	}
	if wrapped == ErrUnregistered {
		t.Fatal("expected a copy, got the sentinel")
	}
	if !stderrors.Is(wrapped, ErrUnregistered) || !stderrors.Is(wrapped, cause) {
		t.Error("copy should still match by code and expose its cause")
	}

	base := Unregistered(widgetType)
	extended := base.WithDetails(map[string]any{"extra": 1})
	if _, ok := base.Details["extra"]; ok {
		t.Error("WithDetails must not write into the receiver's map")
	}
	if extended.Details["abstraction"] != base.Details["abstraction"] {
		t.Error("expected existing details to be carried over")
	}
}

func TestAsAppError(t *testing.T) {
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("plain error should not convert")
	}
	appErr, ok := AsAppError(fmt.Errorf("x: %w", ScopeUnderflow()))
	if !ok || appErr.Code != ErrCodeScopeUnderflow {
		t.Errorf("expected SCOPE_UNDERFLOW, got %v", appErr)
	}
	if CodeOf(fmt.Errorf("plain")) != "" {
		t.Error("expected empty code for plain error")
	}
	if IsAppError(nil) {
		t.Error("nil is not an AppError")
	}
}

func TestTypeName_Nil(t *testing.T) {
	err := Incompatible(nil, widgetType)
	if err.Details["abstraction"] != "<nil>" {
		t.Errorf("expected <nil>, got %v", err.Details["abstraction"])
	}
}
