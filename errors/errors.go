package errors

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
)

// AppError is the unified error type returned by the container.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if stderrors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithCause returns a copy of the error with its cause set. The receiver,
// which may be a shared sentinel, is left unchanged.
func (e *AppError) WithCause(cause error) *AppError {
	c := e.clone()
	c.Cause = cause
	return c
}

// WithDetails returns a copy of the error with details merged in.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	c := e.clone()
	for k, v := range details {
		c.Details[k] = v
	}
	return c
}

// WithDetail returns a copy of the error with one detail set.
func (e *AppError) WithDetail(key string, value any) *AppError {
	c := e.clone()
	c.Details[key] = value
	return c
}

func (e *AppError) clone() *AppError {
	c := *e
	c.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		c.Details[k] = v
	}
	return &c
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Sentinels for errors.Is matching. They carry only a code and are never
// modified; the With* methods return copies.
var (
	ErrUnregistered          = New(ErrCodeUnregistered, "abstraction is not registered")
	ErrScopeUnderflow        = New(ErrCodeScopeUnderflow, "no active scope to end")
	ErrNoActiveScope         = New(ErrCodeNoActiveScope, "scoped service resolved outside a scope")
	ErrNoConstructor         = New(ErrCodeNoConstructor, "implementation has no constructor")
	ErrAmbiguousConstructor  = New(ErrCodeAmbiguousConstructor, "implementation has several constructors")
	ErrParameterConstruction = New(ErrCodeParameterConstruction, "parameter cannot be default-constructed")
	ErrCyclicDependency      = New(ErrCodeCyclicDependency, "cyclic dependency")
	ErrConstructionFailed    = New(ErrCodeConstructionFailed, "constructor failed")
	ErrIncompatible          = New(ErrCodeIncompatible, "implementation does not satisfy abstraction")
	ErrResolutionDepth       = New(ErrCodeResolutionDepth, "resolution depth exceeded")
)

// --- Constructors ---

// Unregistered creates an error for resolving an abstraction that has no registration.
func Unregistered(abstraction reflect.Type) *AppError {
	return &AppError{
		Code:    ErrCodeUnregistered,
		Message: fmt.Sprintf("no registration for %s", typeName(abstraction)),
		Details: map[string]any{"abstraction": typeName(abstraction)},
	}
}

// ScopeUnderflow creates an error for ending a scope when none is active.
func ScopeUnderflow() *AppError {
	return &AppError{Code: ErrCodeScopeUnderflow, Message: "EndScope called with no active scope"}
}

// NoActiveScope creates an error for resolving a scoped abstraction with no active scope.
func NoActiveScope(abstraction reflect.Type) *AppError {
	return &AppError{
		Code:    ErrCodeNoActiveScope,
		Message: fmt.Sprintf("%s is scoped and no scope is active", typeName(abstraction)),
		Details: map[string]any{"abstraction": typeName(abstraction)},
	}
}

// NoConstructor creates an error for an implementation type with no discoverable constructor.
func NoConstructor(implementation reflect.Type) *AppError {
	return &AppError{
		Code:    ErrCodeNoConstructor,
		Message: fmt.Sprintf("no constructor for %s", typeName(implementation)),
		Details: map[string]any{"implementation": typeName(implementation)},
	}
}

// AmbiguousConstructor creates an error for an implementation with several
// constructors and no designated one.
func AmbiguousConstructor(implementation reflect.Type, count int) *AppError {
	return &AppError{
		Code:    ErrCodeAmbiguousConstructor,
		Message: fmt.Sprintf("%d constructors for %s, designate one", count, typeName(implementation)),
		Details: map[string]any{"implementation": typeName(implementation), "constructors": count},
	}
}

// ParameterConstruction creates an error for a parameter type that cannot be
// default-constructed.
func ParameterConstruction(param reflect.Type, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeParameterConstruction,
		Message: fmt.Sprintf("cannot construct parameter %s: %s", typeName(param), reason),
		Details: map[string]any{"parameter": typeName(param)},
	}
}

// CyclicDependency creates an error for a resolution chain that re-enters a type.
func CyclicDependency(chain []reflect.Type) *AppError {
	names := make([]string, len(chain))
	for i, t := range chain {
		names[i] = typeName(t)
	}
	return &AppError{
		Code:    ErrCodeCyclicDependency,
		Message: "cyclic dependency: " + strings.Join(names, " -> "),
		Details: map[string]any{"chain": names},
	}
}

// ConstructionFailed creates an error for a constructor that returned an error or panicked.
func ConstructionFailed(implementation reflect.Type, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeConstructionFailed,
		Message: fmt.Sprintf("constructing %s failed", typeName(implementation)),
		Details: map[string]any{"implementation": typeName(implementation)},
		Cause:   cause,
	}
}

// Incompatible creates an error for an implementation that does not satisfy its abstraction.
func Incompatible(abstraction, implementation reflect.Type) *AppError {
	return &AppError{
		Code:    ErrCodeIncompatible,
		Message: fmt.Sprintf("%s does not satisfy %s", typeName(implementation), typeName(abstraction)),
		Details: map[string]any{
			"abstraction":    typeName(abstraction),
			"implementation": typeName(implementation),
		},
	}
}

// ResolutionDepth creates an error for recursion deeper than the configured limit.
func ResolutionDepth(abstraction reflect.Type, limit int) *AppError {
	return &AppError{
		Code:    ErrCodeResolutionDepth,
		Message: fmt.Sprintf("resolving %s exceeded depth %d", typeName(abstraction), limit),
		Details: map[string]any{"abstraction": typeName(abstraction), "limit": limit},
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

func IsUnregistered(err error) bool          { return hasCode(err, ErrCodeUnregistered) }
func IsScopeUnderflow(err error) bool        { return hasCode(err, ErrCodeScopeUnderflow) }
func IsNoActiveScope(err error) bool         { return hasCode(err, ErrCodeNoActiveScope) }
func IsNoConstructor(err error) bool         { return hasCode(err, ErrCodeNoConstructor) }
func IsAmbiguousConstructor(err error) bool  { return hasCode(err, ErrCodeAmbiguousConstructor) }
func IsParameterConstruction(err error) bool { return hasCode(err, ErrCodeParameterConstruction) }
func IsCyclicDependency(err error) bool      { return hasCode(err, ErrCodeCyclicDependency) }
func IsConstructionFailed(err error) bool    { return hasCode(err, ErrCodeConstructionFailed) }
func IsIncompatible(err error) bool          { return hasCode(err, ErrCodeIncompatible) }

// hasCode walks the whole chain, so a PARAMETER_CONSTRUCTION wrapped inside a
// CONSTRUCTION_FAILED still matches.
func hasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &AppError{Code: code})
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
