package layout

import (
	"math"

	greetbridge "github.com/wippyai/greetbridge"
	"github.com/wippyai/greetbridge/errors"
)

// Greeting is one greeting text pointer.
type Greeting struct {
	Text uint32
}

// GreetingSet points at Count contiguous Greeting values.
type GreetingSet struct {
	Greetings uint32
	Count     int32
}

// Person carries two borrowed name pointers.
type Person struct {
	FirstName uint32
	LastName  uint32
}

// ReadGreeting reads a greeting struct at addr.
func ReadGreeting(mem greetbridge.Memory, addr uint32) (Greeting, error) {
	if addr == greetbridge.NullPtr {
		return Greeting{}, errors.NullPointer(errors.PhaseLayout, nil, GreetingName)
	}
	text, err := readU32(mem, addr, GreetingLayout, GreetingName, FieldText)
	if err != nil {
		return Greeting{}, err
	}
	return Greeting{Text: text}, nil
}

// WriteGreeting writes g at addr.
func WriteGreeting(mem greetbridge.Memory, addr uint32, g Greeting) error {
	if addr == greetbridge.NullPtr {
		return errors.NullPointer(errors.PhaseLayout, nil, GreetingName)
	}
	return writeU32(mem, addr, GreetingLayout, GreetingName, FieldText, g.Text)
}

// ReadGreetingSet reads a greeting-set struct at addr.
func ReadGreetingSet(mem greetbridge.Memory, addr uint32) (GreetingSet, error) {
	if addr == greetbridge.NullPtr {
		return GreetingSet{}, errors.NullPointer(errors.PhaseLayout, nil, GreetingSetName)
	}
	greetings, err := readU32(mem, addr, GreetingSetLayout, GreetingSetName, FieldGreetings)
	if err != nil {
		return GreetingSet{}, err
	}
	count, err := readU32(mem, addr, GreetingSetLayout, GreetingSetName, FieldNumberOfGreetings)
	if err != nil {
		return GreetingSet{}, err
	}
	return GreetingSet{Greetings: greetings, Count: int32(count)}, nil
}

// WriteGreetingSet writes s at addr.
func WriteGreetingSet(mem greetbridge.Memory, addr uint32, s GreetingSet) error {
	if addr == greetbridge.NullPtr {
		return errors.NullPointer(errors.PhaseLayout, nil, GreetingSetName)
	}
	if err := writeU32(mem, addr, GreetingSetLayout, GreetingSetName, FieldGreetings, s.Greetings); err != nil {
		return err
	}
	return writeU32(mem, addr, GreetingSetLayout, GreetingSetName, FieldNumberOfGreetings, uint32(s.Count))
}

// ReadPerson reads a person struct at addr.
func ReadPerson(mem greetbridge.Memory, addr uint32) (Person, error) {
	if addr == greetbridge.NullPtr {
		return Person{}, errors.NullPointer(errors.PhaseLayout, nil, PersonName)
	}
	first, err := readU32(mem, addr, PersonLayout, PersonName, FieldFirstName)
	if err != nil {
		return Person{}, err
	}
	last, err := readU32(mem, addr, PersonLayout, PersonName, FieldLastName)
	if err != nil {
		return Person{}, err
	}
	return Person{FirstName: first, LastName: last}, nil
}

// WritePerson writes p at addr.
func WritePerson(mem greetbridge.Memory, addr uint32, p Person) error {
	if addr == greetbridge.NullPtr {
		return errors.NullPointer(errors.PhaseLayout, nil, PersonName)
	}
	if err := writeU32(mem, addr, PersonLayout, PersonName, FieldFirstName, p.FirstName); err != nil {
		return err
	}
	return writeU32(mem, addr, PersonLayout, PersonName, FieldLastName, p.LastName)
}

// GreetingArraySize returns the byte size of count contiguous greetings.
func GreetingArraySize(count int32) (uint32, error) {
	if count < 0 {
		return 0, errors.InvalidInput(errors.PhaseLayout, "negative greeting count")
	}
	size := uint64(count) * uint64(GreetingLayout.Size)
	if size > math.MaxUint32 {
		return 0, errors.Overflow(errors.PhaseLayout, []string{FieldGreetings}, count, "32-bit address space")
	}
	return uint32(size), nil
}

// ReadGreetingArray reads count greetings starting at addr.
// A zero count reads nothing and accepts a null addr.
func ReadGreetingArray(mem greetbridge.Memory, addr uint32, count int32) ([]Greeting, error) {
	size, err := GreetingArraySize(count)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []Greeting{}, nil
	}
	if addr == greetbridge.NullPtr {
		return nil, errors.NullPointer(errors.PhaseLayout, []string{FieldGreetings}, GreetingName)
	}
	if uint64(addr)+uint64(size) > math.MaxUint32 {
		return nil, errors.OutOfBounds(errors.PhaseLayout, []string{FieldGreetings}, addr, size)
	}

	out := make([]Greeting, count)
	for i := range out {
		g, err := ReadGreeting(mem, addr+uint32(i)*GreetingLayout.Size)
		if err != nil {
			return nil, err
		}
		out[i] = g
	}
	return out, nil
}

// WriteGreetingArray writes greetings contiguously starting at addr.
func WriteGreetingArray(mem greetbridge.Memory, addr uint32, greetings []Greeting) error {
	if len(greetings) > math.MaxInt32 {
		return errors.Overflow(errors.PhaseLayout, []string{FieldGreetings}, len(greetings), "s32 count")
	}
	if len(greetings) == 0 {
		return nil
	}
	if addr == greetbridge.NullPtr {
		return errors.NullPointer(errors.PhaseLayout, []string{FieldGreetings}, GreetingName)
	}
	for i, g := range greetings {
		if err := WriteGreeting(mem, addr+uint32(i)*GreetingLayout.Size, g); err != nil {
			return err
		}
	}
	return nil
}

func readU32(mem greetbridge.Memory, addr uint32, info Info, shape, field string) (uint32, error) {
	v, err := mem.ReadU32(addr + info.Offset(field))
	if err != nil {
		return 0, errors.New(errors.PhaseLayout, errors.KindOutOfBounds).
			Path(shape, field).
			Cause(err).
			Value(addr).
			Build()
	}
	return v, nil
}

func writeU32(mem greetbridge.Memory, addr uint32, info Info, shape, field string, v uint32) error {
	if err := mem.WriteU32(addr+info.Offset(field), v); err != nil {
		return errors.New(errors.PhaseLayout, errors.KindOutOfBounds).
			Path(shape, field).
			Cause(err).
			Value(addr).
			Build()
	}
	return nil
}
