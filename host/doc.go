// Package host is the managed-side binding for a greetings.Module.
//
// A Client takes and returns Go strings. It places inputs in module memory
// for the duration of a call and frees them afterwards, decodes results
// into Go values, and wraps values the module transfers to it in owned
// handles:
//
//	client := host.New(mod)
//
//	set, err := client.RenderGreetingsInParallel(ctx, 3, "Alice")
//	if err != nil {
//		return err
//	}
//	defer set.Release()
//
//	texts, err := set.Texts()
//
// An owned handle hands its value back to the module exactly once. After
// Release every accessor fails with use_after_release and a second Release
// fails with double_release, without touching module memory.
package host
