// Package errors provides structured error types for the jsonapi library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: document path, expected/actual shapes, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindTypeMismatch).
//		Path("data", "relationships", "author").
//		Want("object").
//		Got("string").
//		Detail("relationship must be an object").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FieldMissing(errors.PhaseResolve, path, "type")
//	err := errors.TypeMismatch(errors.PhaseResolve, path, "object", "array")
//
// All errors implement the standard error interface and support errors.Is/As.
// A resolve-phase error is a contract violation: the whole document is rejected.
package errors
