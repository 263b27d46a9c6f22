package greetings

import (
	"context"
	"fmt"

	"github.com/wippyai/greetbridge/errors"
	"github.com/wippyai/greetbridge/layout"
	"github.com/wippyai/greetbridge/ownership"
)

const (
	greetingFromNative = "Hello from Rust!"
	callbackGreeting   = "Hello there!"
)

var greetingSetTexts = []string{"Hello!", "Hello again!"}

// EntryPoint describes one boundary call and the ownership of its result.
type EntryPoint struct {
	Name   string
	Input  string
	Output string
	Mode   ownership.Mode
}

// EntryPoints lists the boundary surface in declaration order.
var EntryPoints = []EntryPoint{
	{"renderGreeting", "name: string", "string", ownership.TransferToCaller},
	{"greet", "person: *person", "string", ownership.TransferToCaller},
	{"getGreetingByValue", "", "greeting", ownership.TransferToCaller},
	{"getGreetingByReference", "", "*greeting", ownership.TransferToCaller},
	{"sendGreetings", "callback", "*greeting-set to callback", ownership.BorrowForCall},
	{"renderGreetings", "", "*greeting-set", ownership.TransferToCaller},
	{"renderGreetingsInParallel", "count: s32, name: string", "*greeting-set", ownership.TransferToCaller},
	{"callMeBack", "callback", "string to callback", ownership.BorrowForCall},
	{"releaseGreeting", "greeting", "", ownership.TransferToCaller},
	{"releaseGreetingByReference", "*greeting", "", ownership.TransferToCaller},
	{"releaseGreetingSet", "*greeting-set", "", ownership.TransferToCaller},
	{"releaseString", "string", "", ownership.TransferToCaller},
}

// RenderGreeting returns "Hello, {name}!". name is borrowed from the caller;
// the result is owned by the caller and goes back through ReleaseString.
func (m *Module) RenderGreeting(name uint32) (uint32, error) {
	if err := m.ensureOpen(errors.PhaseDecode); err != nil {
		return 0, err
	}
	text, err := m.codec.DecodeAt(name, "name")
	if err != nil {
		return 0, err
	}
	return m.newString("Hello, "+text+"!", ownership.KindString, ownership.TransferToCaller)
}

// Greet reads a person record and returns "Hello, {first} {last}!".
// The record and its strings stay owned by the caller.
func (m *Module) Greet(person uint32) (uint32, error) {
	if err := m.ensureOpen(errors.PhaseDecode); err != nil {
		return 0, err
	}
	p, err := layout.ReadPerson(m.mem, person)
	if err != nil {
		return 0, err
	}
	first, err := m.codec.DecodeAt(p.FirstName, layout.PersonName, layout.FieldFirstName)
	if err != nil {
		return 0, err
	}
	last, err := m.codec.DecodeAt(p.LastName, layout.PersonName, layout.FieldLastName)
	if err != nil {
		return 0, err
	}
	return m.newString("Hello, "+first+" "+last+"!", ownership.KindString, ownership.TransferToCaller)
}

// GetGreetingByValue returns a greeting record inline. The caller owns its
// text and hands the record back through ReleaseGreeting.
func (m *Module) GetGreetingByValue() (layout.Greeting, error) {
	if err := m.ensureOpen(errors.PhaseEncode); err != nil {
		return layout.Greeting{}, err
	}
	ptr, err := m.newString(greetingFromNative, ownership.KindGreeting, ownership.TransferToCaller)
	if err != nil {
		return layout.Greeting{}, err
	}
	return layout.Greeting{Text: ptr}, nil
}

// GetGreetingByReference returns a pointer to a greeting record. The caller
// owns record and text and hands them back through ReleaseGreetingByReference.
func (m *Module) GetGreetingByReference() (uint32, error) {
	if err := m.ensureOpen(errors.PhaseEncode); err != nil {
		return 0, err
	}
	return m.newGreetingRef(greetingFromNative)
}

// RenderGreetings returns a two-greeting set owned by the caller.
func (m *Module) RenderGreetings() (uint32, error) {
	if err := m.ensureOpen(errors.PhaseEncode); err != nil {
		return 0, err
	}
	return m.newGreetingSet(greetingSetTexts, ownership.TransferToCaller)
}

// RenderGreetingsInParallel renders count greetings for name on the
// scheduler and returns them as one set owned by the caller.
func (m *Module) RenderGreetingsInParallel(ctx context.Context, count int32, name uint32) (uint32, error) {
	if err := m.ensureOpen(errors.PhaseGenerate); err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, errors.InvalidInput(errors.PhaseGenerate, fmt.Sprintf("negative greeting count %d", count))
	}
	text, err := m.codec.DecodeAt(name, "name")
	if err != nil {
		return 0, err
	}
	texts, err := m.generate(ctx, int(count), text)
	if err != nil {
		return 0, err
	}
	return m.newGreetingSet(texts, ownership.TransferToCaller)
}

// SendGreetings hands a two-greeting set to fn. The set is only valid while
// fn runs; the module frees it once fn returns.
func (m *Module) SendGreetings(ctx context.Context, fn GreetingSetCallback) error {
	if err := m.ensureOpen(errors.PhaseCallback); err != nil {
		return err
	}
	if fn == nil {
		return errors.InvalidInput(errors.PhaseCallback, "nil callback")
	}
	ptr, err := m.newGreetingSet(greetingSetTexts, ownership.BorrowForCall)
	if err != nil {
		return err
	}
	return m.invoke(ctx, "sendGreetings", func() { fn(ptr) }, ptr)
}

// CallMeBack hands "Hello there!" to fn. The string is only valid while fn
// runs; the module frees it once fn returns.
func (m *Module) CallMeBack(ctx context.Context, fn StringCallback) error {
	if err := m.ensureOpen(errors.PhaseCallback); err != nil {
		return err
	}
	if fn == nil {
		return errors.InvalidInput(errors.PhaseCallback, "nil callback")
	}
	ptr, err := m.newString(callbackGreeting, ownership.KindString, ownership.BorrowForCall)
	if err != nil {
		return err
	}
	return m.invoke(ctx, "callMeBack", func() { fn(ptr) }, ptr)
}

// ReleaseGreeting frees a greeting obtained from GetGreetingByValue.
func (m *Module) ReleaseGreeting(g layout.Greeting) error {
	return m.release(g.Text, ownership.KindGreeting)
}

// ReleaseGreetingByReference frees a greeting obtained from
// GetGreetingByReference, record and text.
func (m *Module) ReleaseGreetingByReference(ptr uint32) error {
	return m.release(ptr, ownership.KindGreetingRef)
}

// ReleaseGreetingSet frees a set, its array and every text in it.
func (m *Module) ReleaseGreetingSet(ptr uint32) error {
	return m.release(ptr, ownership.KindGreetingSet)
}

// ReleaseString frees a string returned by RenderGreeting or Greet.
func (m *Module) ReleaseString(ptr uint32) error {
	return m.release(ptr, ownership.KindString)
}

func (m *Module) release(ptr uint32, kind ownership.Kind) error {
	if err := m.ensureOpen(errors.PhaseRelease); err != nil {
		return err
	}
	return m.table.Release(ptr, kind)
}
