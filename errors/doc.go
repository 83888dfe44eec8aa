// Package errors provides the structured error type returned by the container.
// Every failure carries a machine-readable ErrorCode, optional details, and an
// optional cause. AppError.Is matches by code, so callers can test with
// errors.Is against the exported sentinels or use the Is* predicates.
package errors
