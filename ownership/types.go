package ownership

import "github.com/wippyai/greetbridge/codec"

// Kind identifies the shape of a tracked value.
type Kind uint8

const (
	KindString      Kind = iota + 1 // byte string
	KindGreeting                    // greeting returned inline, tracked by its text pointer
	KindGreetingRef                 // greeting returned by pointer, tracked by the struct pointer
	KindGreetingSet                 // greeting set returned by pointer
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindGreeting:
		return "greeting"
	case KindGreetingRef:
		return "greeting-ref"
	case KindGreetingSet:
		return "greeting-set"
	default:
		return "unknown"
	}
}

// Mode is the ownership mode of a value crossing the boundary.
type Mode uint8

const (
	TransferToCaller Mode = iota + 1
	BorrowForCall
	BorrowFromCaller
)

func (m Mode) String() string {
	switch m {
	case TransferToCaller:
		return "transfer-to-caller"
	case BorrowForCall:
		return "borrow-for-call"
	case BorrowFromCaller:
		return "borrow-from-caller"
	default:
		return "unknown"
	}
}

// Entry is one tracked value.
type Entry struct {
	// Allocs holds every block making up the value. The table frees them
	// on release.
	Allocs *codec.AllocationList
	Ptr    uint32
	Kind   Kind
	Mode   Mode
}

// EventType identifies a lifecycle event.
type EventType uint8

const (
	EventCreated EventType = iota
	EventReleased
	EventReclaimed
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventReleased:
		return "released"
	case EventReclaimed:
		return "reclaimed"
	default:
		return "unknown"
	}
}

// Event represents a lifecycle event.
type Event struct {
	Entry Entry
	Type  EventType
}

// Observer receives notifications about lifecycle events.
type Observer interface {
	OnOwnershipEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnOwnershipEvent calls f(e).
func (f ObserverFunc) OnOwnershipEvent(e Event) {
	f(e)
}
