package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resolution errors
const (
	// ErrCodeUnregistered indicates an abstraction was resolved without a registration.
	ErrCodeUnregistered ErrorCode = "UNREGISTERED_ABSTRACTION"
	// ErrCodeCyclicDependency indicates recursive resolution re-entered a type.
	ErrCodeCyclicDependency ErrorCode = "CYCLIC_DEPENDENCY"
	// ErrCodeResolutionDepth indicates recursive resolution went deeper than allowed.
	ErrCodeResolutionDepth ErrorCode = "RESOLUTION_DEPTH"
	// ErrCodeIncompatible indicates an implementation does not satisfy its abstraction.
	ErrCodeIncompatible ErrorCode = "INCOMPATIBLE_IMPLEMENTATION"
)

// Scope errors
const (
	// ErrCodeScopeUnderflow indicates EndScope was called with no active scope.
	ErrCodeScopeUnderflow ErrorCode = "SCOPE_UNDERFLOW"
	// ErrCodeNoActiveScope indicates a scoped service was resolved outside any scope.
	ErrCodeNoActiveScope ErrorCode = "NO_ACTIVE_SCOPE"
)

// Construction errors
const (
	// ErrCodeNoConstructor indicates an implementation exposes no constructor.
	ErrCodeNoConstructor ErrorCode = "NO_CONSTRUCTOR"
	// ErrCodeAmbiguousConstructor indicates several constructors and none designated.
	ErrCodeAmbiguousConstructor ErrorCode = "AMBIGUOUS_CONSTRUCTOR"
	// ErrCodeParameterConstruction indicates a parameter type cannot be default-constructed.
	ErrCodeParameterConstruction ErrorCode = "PARAMETER_CONSTRUCTION"
	// ErrCodeConstructionFailed indicates a constructor returned an error or panicked.
	ErrCodeConstructionFailed ErrorCode = "CONSTRUCTION_FAILED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)
