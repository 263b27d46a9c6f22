// Package errors provides structured error types for the boundary library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes context: the path of the field being processed, the
// boundary type involved, the offending value and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidEncoding).
//		Path("person", "first-name").
//		Type("byte-string").
//		Detail("invalid UTF-8 at byte %d", 3).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NullPointer(errors.PhaseDecode, path, "byte-string")
//	err := errors.DoubleRelease(errors.PhaseRelease, "greeting-set", ptr)
//
// All errors implement the standard error interface and support errors.Is/As.
// errors.Is matches on phase and kind; IsKind matches on kind alone.
package errors
