package host

import (
	"sync/atomic"

	"github.com/wippyai/greetbridge/errors"
	"github.com/wippyai/greetbridge/layout"
	"github.com/wippyai/greetbridge/ownership"
)

// handle poisons itself on first release.
type handle struct {
	released atomic.Bool
}

func (h *handle) check(kind ownership.Kind, ptr uint32) error {
	if h.released.Load() {
		return errors.UseAfterRelease(errors.PhaseDecode, kind.String(), ptr)
	}
	return nil
}

func (h *handle) release(kind ownership.Kind, ptr uint32, fn func() error) error {
	if !h.released.CompareAndSwap(false, true) {
		return errors.DoubleRelease(errors.PhaseRelease, kind.String(), ptr)
	}
	return fn()
}

// OwnedGreeting is a greeting record received by value.
type OwnedGreeting struct {
	client   *Client
	greeting layout.Greeting
	handle
}

// Text returns the greeting text.
func (g *OwnedGreeting) Text() (string, error) {
	if err := g.check(ownership.KindGreeting, g.greeting.Text); err != nil {
		return "", err
	}
	return g.client.codec.DecodeAt(g.greeting.Text, layout.GreetingName, layout.FieldText)
}

// Release hands the greeting back to the module.
func (g *OwnedGreeting) Release() error {
	return g.release(ownership.KindGreeting, g.greeting.Text, func() error {
		return g.client.mod.ReleaseGreeting(g.greeting)
	})
}

// OwnedGreetingRef is a greeting record received by pointer.
type OwnedGreetingRef struct {
	client *Client
	ptr    uint32
	handle
}

// Ptr returns the record address.
func (g *OwnedGreetingRef) Ptr() uint32 {
	return g.ptr
}

// Text returns the greeting text.
func (g *OwnedGreetingRef) Text() (string, error) {
	if err := g.check(ownership.KindGreetingRef, g.ptr); err != nil {
		return "", err
	}
	rec, err := layout.ReadGreeting(g.client.mod.Memory(), g.ptr)
	if err != nil {
		return "", err
	}
	return g.client.codec.DecodeAt(rec.Text, layout.GreetingName, layout.FieldText)
}

// Release hands the record and its text back to the module.
func (g *OwnedGreetingRef) Release() error {
	return g.release(ownership.KindGreetingRef, g.ptr, func() error {
		return g.client.mod.ReleaseGreetingByReference(g.ptr)
	})
}

// OwnedGreetingSet is a greeting set received by pointer.
type OwnedGreetingSet struct {
	client *Client
	ptr    uint32
	handle
}

// Ptr returns the set address.
func (s *OwnedGreetingSet) Ptr() uint32 {
	return s.ptr
}

// Len returns the number of greetings in the set.
func (s *OwnedGreetingSet) Len() (int, error) {
	if err := s.check(ownership.KindGreetingSet, s.ptr); err != nil {
		return 0, err
	}
	set, err := layout.ReadGreetingSet(s.client.mod.Memory(), s.ptr)
	if err != nil {
		return 0, err
	}
	return int(set.Count), nil
}

// Texts returns copies of every greeting text, in set order.
func (s *OwnedGreetingSet) Texts() ([]string, error) {
	if err := s.check(ownership.KindGreetingSet, s.ptr); err != nil {
		return nil, err
	}
	return s.client.readSet(s.ptr)
}

// Release hands the set, its array and its texts back to the module.
func (s *OwnedGreetingSet) Release() error {
	return s.release(ownership.KindGreetingSet, s.ptr, func() error {
		return s.client.mod.ReleaseGreetingSet(s.ptr)
	})
}
