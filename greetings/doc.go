// Package greetings is the native side of the greeting boundary.
//
// A Module owns a little-endian 32-bit linear memory and an allocator over
// it. Every entry point takes and returns uint32 pointers into that memory;
// strings are NUL-terminated UTF-8 and records follow the layouts in the
// layout package.
//
// # Ownership
//
// Each result is handed out in one of two modes:
//
//   - transfer-to-caller: the caller owns the value and hands it back exactly
//     once through the matching Release entry point.
//   - borrow-for-call: the value is passed to a callback and is valid only
//     while the callback runs. The module frees it afterwards.
//
// Inputs are borrowed from the caller and never retained or freed.
//
// Releases are checked. A second release of the same value fails with
// double_release, releasing a pointer the module never transferred fails
// with not_owned, and releasing with the wrong entry point fails with
// invalid_input.
//
// # Parallel rendering
//
// RenderGreetingsInParallel fans N tasks out onto the module's scheduler and
// collects their results from one channel. Results are placed by index by
// default (Config.Ordering). The wait is bounded by Config.ParallelTimeout
// and the context; task failures, including panics, are aggregated into one
// task_failure error.
//
// # Example
//
//	mod, err := greetings.New(ctx, nil)
//	if err != nil {
//		return err
//	}
//	defer mod.Close(ctx)
//
//	set, err := mod.RenderGreetings()
//	if err != nil {
//		return err
//	}
//	defer mod.ReleaseGreetingSet(set)
//
// The host package wraps these pointers in Go types.
package greetings
