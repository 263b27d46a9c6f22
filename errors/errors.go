package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseInit     Phase = "init"     // module and memory setup
	PhaseAlloc    Phase = "alloc"    // linear memory allocation
	PhaseEncode   Phase = "encode"   // Go to boundary memory
	PhaseDecode   Phase = "decode"   // boundary memory to Go
	PhaseLayout   Phase = "layout"   // struct field access
	PhaseRelease  Phase = "release"  // ownership hand-back
	PhaseCallback Phase = "callback" // callback bridge
	PhaseGenerate Phase = "generate" // parallel fan-out/fan-in
	PhaseSchedule Phase = "schedule" // worker pool
)

// Kind categorizes the error
type Kind string

const (
	KindNullPointer     Kind = "null_pointer"
	KindInvalidEncoding Kind = "invalid_encoding"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindAllocation      Kind = "allocation"
	KindOverflow        Kind = "overflow"
	KindInvalidInput    Kind = "invalid_input"
	KindDoubleRelease   Kind = "double_release"
	KindUseAfterRelease Kind = "use_after_release"
	KindNotOwned        Kind = "not_owned"
	KindTaskFailure     Kind = "task_failure"
	KindTimeout         Kind = "timeout"
	KindCanceled        Kind = "canceled"
	KindCallbackPanic   Kind = "callback_panic"
	KindClosed          Kind = "closed"
	KindNotInitialized  Kind = "not_initialized"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any *Error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// KindOf returns the kind of the outermost *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the boundary type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NullPointer creates a null pointer error for a required pointer argument
func NullPointer(phase Phase, path []string, typeName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNullPointer,
		Path:   path,
		Type:   typeName,
		Detail: "null pointer",
	}
}

// InvalidEncoding creates an invalid text encoding error
func InvalidEncoding(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEncoding,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("offset %d out of bounds (memory size %d)", offset, length),
		Value:  offset,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, limit string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v exceeds %s", value, limit),
		Value:  value,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// DoubleRelease creates an error for a value released more than once
func DoubleRelease(phase Phase, typeName string, ptr uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDoubleRelease,
		Type:   typeName,
		Detail: fmt.Sprintf("pointer 0x%x already released", ptr),
		Value:  ptr,
	}
}

// UseAfterRelease creates an error for access to a released value
func UseAfterRelease(phase Phase, typeName string, ptr uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUseAfterRelease,
		Type:   typeName,
		Detail: fmt.Sprintf("pointer 0x%x used after release", ptr),
		Value:  ptr,
	}
}

// NotOwned creates an error for a release of a value the caller does not own
func NotOwned(phase Phase, typeName string, ptr uint32, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotOwned,
		Type:   typeName,
		Detail: fmt.Sprintf("pointer 0x%x: %s", ptr, detail),
		Value:  ptr,
	}
}

// TaskFailed creates an error for a single failed background task
func TaskFailed(index int, cause error) *Error {
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   KindTaskFailure,
		Path:   []string{fmt.Sprintf("task[%d]", index)},
		Detail: "task did not produce a result",
		Cause:  cause,
		Value:  index,
	}
}

// TaskFailures aggregates failed tasks into one error. Returns nil for no failures.
func TaskFailures(failed []error, total int) *Error {
	if len(failed) == 0 {
		return nil
	}
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   KindTaskFailure,
		Detail: fmt.Sprintf("%d of %d tasks failed", len(failed), total),
		Cause:  multierr.Combine(failed...),
		Value:  len(failed),
	}
}

// Timeout creates a timeout error
func Timeout(phase Phase, what string, after time.Duration, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTimeout,
		Detail: fmt.Sprintf("%s did not complete within %s", what, after),
		Cause:  cause,
	}
}

// Canceled creates a cancellation error
func Canceled(phase Phase, what string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCanceled,
		Detail: fmt.Sprintf("%s canceled", what),
		Cause:  cause,
	}
}

// CallbackPanic creates an error for a callback that panicked
func CallbackPanic(recovered any) *Error {
	return &Error{
		Phase:  PhaseCallback,
		Kind:   KindCallbackPanic,
		Detail: fmt.Sprintf("callback panicked: %v", recovered),
		Value:  recovered,
	}
}

// Closed creates an error for use of a closed component
func Closed(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s closed", component),
	}
}

// NotInitialized creates a not-initialized error for a missing component
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Init creates a setup error
func Init(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindNotInitialized,
		Detail: detail,
		Cause:  cause,
	}
}
