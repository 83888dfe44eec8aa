package logger

import (
	"reflect"
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldService        = "service"
	FieldComponent      = "component"
	FieldContainerID    = "container_id"
	FieldAbstraction    = "abstraction"
	FieldImplementation = "implementation"
	FieldLifetime       = "lifetime"
	FieldStackID        = "stack_id"
	FieldScopeID        = "scope_id"
	FieldCapturedBy     = "captured_by"
	FieldDepth          = "depth"
	FieldOperation      = "operation"
	FieldError          = "error"
	FieldDuration       = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Debug("resolved", logger.Fields("abstraction", "IService", "lifetime", "singleton"))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// TypeFields creates fields describing an abstraction and its implementation.
func TypeFields(abstraction, implementation reflect.Type) map[string]interface{} {
	m := map[string]interface{}{FieldAbstraction: typeString(abstraction)}
	if implementation != nil {
		m[FieldImplementation] = typeString(implementation)
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}

// MergeWithDuration adds a duration field to an existing map.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
