package host

import (
	"context"

	"github.com/wippyai/greetbridge/codec"
	"github.com/wippyai/greetbridge/greetings"
	"github.com/wippyai/greetbridge/layout"
)

// Client calls a module with Go values.
type Client struct {
	mod   *greetings.Module
	codec *codec.Codec
}

// New creates a client bound to mod.
func New(mod *greetings.Module) *Client {
	return &Client{
		mod:   mod,
		codec: codec.New(mod.Memory(), mod.Allocator()),
	}
}

// Module returns the underlying module.
func (c *Client) Module() *greetings.Module {
	return c.mod
}

// withString places s in module memory for the duration of fn. A failure to
// free the copy is reported unless fn already failed.
func (c *Client) withString(s string, fn func(ptr uint32) error) (err error) {
	ptr, err := c.codec.Encode(s)
	if err != nil {
		return err
	}
	defer func() {
		if ferr := c.codec.Free(ptr); err == nil {
			err = ferr
		}
	}()
	return fn(ptr)
}

// takeString decodes an owned string result and hands it back.
func (c *Client) takeString(ptr uint32) (string, error) {
	text, err := c.codec.Decode(ptr)
	if rerr := c.mod.ReleaseString(ptr); err == nil {
		err = rerr
	}
	return text, err
}

// RenderGreeting returns "Hello, {name}!".
func (c *Client) RenderGreeting(name string) (string, error) {
	var out string
	err := c.withString(name, func(namePtr uint32) error {
		ptr, err := c.mod.RenderGreeting(namePtr)
		if err != nil {
			return err
		}
		out, err = c.takeString(ptr)
		return err
	})
	return out, err
}

// Greet greets a person by first and last name.
func (c *Client) Greet(first, last string) (string, error) {
	list := codec.NewAllocationList()
	defer list.FreeAndRelease(c.mod.Allocator())

	firstPtr, err := c.codec.EncodeInto(first, list)
	if err != nil {
		return "", err
	}
	lastPtr, err := c.codec.EncodeInto(last, list)
	if err != nil {
		return "", err
	}
	person, err := c.mod.Allocator().Alloc(layout.PersonLayout.Size, layout.PersonLayout.Align)
	if err != nil {
		return "", err
	}
	list.Add(person, layout.PersonLayout.Size, layout.PersonLayout.Align)
	if err := layout.WritePerson(c.mod.Memory(), person, layout.Person{FirstName: firstPtr, LastName: lastPtr}); err != nil {
		return "", err
	}

	ptr, err := c.mod.Greet(person)
	if err != nil {
		return "", err
	}
	return c.takeString(ptr)
}

// GetGreetingByValue returns an owned greeting received inline.
func (c *Client) GetGreetingByValue() (*OwnedGreeting, error) {
	g, err := c.mod.GetGreetingByValue()
	if err != nil {
		return nil, err
	}
	return &OwnedGreeting{client: c, greeting: g}, nil
}

// GetGreetingByReference returns an owned greeting received by pointer.
func (c *Client) GetGreetingByReference() (*OwnedGreetingRef, error) {
	ptr, err := c.mod.GetGreetingByReference()
	if err != nil {
		return nil, err
	}
	return &OwnedGreetingRef{client: c, ptr: ptr}, nil
}

// RenderGreetings returns an owned two-greeting set.
func (c *Client) RenderGreetings() (*OwnedGreetingSet, error) {
	ptr, err := c.mod.RenderGreetings()
	if err != nil {
		return nil, err
	}
	return &OwnedGreetingSet{client: c, ptr: ptr}, nil
}

// RenderGreetingsInParallel returns an owned set of count greetings for name.
func (c *Client) RenderGreetingsInParallel(ctx context.Context, count int32, name string) (*OwnedGreetingSet, error) {
	var set *OwnedGreetingSet
	err := c.withString(name, func(namePtr uint32) error {
		ptr, err := c.mod.RenderGreetingsInParallel(ctx, count, namePtr)
		if err != nil {
			return err
		}
		set = &OwnedGreetingSet{client: c, ptr: ptr}
		return nil
	})
	return set, err
}

// SendGreetings passes the texts of the borrowed set to fn. The texts are
// copies and may be kept.
func (c *Client) SendGreetings(ctx context.Context, fn func([]string)) error {
	var decodeErr error
	err := c.mod.SendGreetings(ctx, func(set uint32) {
		var texts []string
		texts, decodeErr = c.readSet(set)
		if decodeErr == nil {
			fn(texts)
		}
	})
	if err != nil {
		return err
	}
	return decodeErr
}

// CallMeBack passes a copy of the borrowed string to fn.
func (c *Client) CallMeBack(ctx context.Context, fn func(string)) error {
	var decodeErr error
	err := c.mod.CallMeBack(ctx, func(text uint32) {
		var s string
		s, decodeErr = c.codec.Decode(text)
		if decodeErr == nil {
			fn(s)
		}
	})
	if err != nil {
		return err
	}
	return decodeErr
}

func (c *Client) readSet(ptr uint32) ([]string, error) {
	set, err := layout.ReadGreetingSet(c.mod.Memory(), ptr)
	if err != nil {
		return nil, err
	}
	greetings, err := layout.ReadGreetingArray(c.mod.Memory(), set.Greetings, set.Count)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(greetings))
	for i, g := range greetings {
		path := []string{layout.GreetingSetName, layout.FieldGreetings, layout.FieldText}
		if texts[i], err = c.codec.DecodeAt(g.Text, path...); err != nil {
			return nil, err
		}
	}
	return texts, nil
}
