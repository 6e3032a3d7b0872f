// Package errors provides structured error types for the metaobject module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the member path, Go and meta type names, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindInvalidData).
//		Path("Counter", "value").
//		GoType("string").
//		MetaType("int").
//		Detail("slot holds an integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Duplicate(errors.PhaseCompile, path, "method", "increment")
//	err := errors.OutOfBounds(errors.PhaseDecode, path, 40, 32)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
