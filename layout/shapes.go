package layout

import (
	"go.bytecodealliance.org/wit"
)

// Shape and field names as they appear in the WIT descriptions.
const (
	GreetingName    = "greeting"
	GreetingSetName = "greeting-set"
	PersonName      = "person"

	FieldText              = "text"
	FieldGreetings         = "greetings"
	FieldNumberOfGreetings = "number-of-greetings"
	FieldFirstName         = "first-name"
	FieldLastName          = "last-name"
)

// WIT descriptions of the boundary structs. Pointer fields are u32.
var (
	GreetingType = record(GreetingName,
		wit.Field{Name: FieldText, Type: wit.U32{}},
	)
	GreetingSetType = record(GreetingSetName,
		wit.Field{Name: FieldGreetings, Type: wit.U32{}},
		wit.Field{Name: FieldNumberOfGreetings, Type: wit.S32{}},
	)
	PersonType = record(PersonName,
		wit.Field{Name: FieldFirstName, Type: wit.U32{}},
		wit.Field{Name: FieldLastName, Type: wit.U32{}},
	)
)

// Computed layouts of the boundary structs.
var (
	GreetingLayout    Info
	GreetingSetLayout Info
	PersonLayout      Info
)

func init() {
	calc := NewCalculator()
	GreetingLayout = calc.Calculate(GreetingType)
	GreetingSetLayout = calc.Calculate(GreetingSetType)
	PersonLayout = calc.Calculate(PersonType)
}

func record(name string, fields ...wit.Field) *wit.TypeDef {
	return &wit.TypeDef{
		Name: &name,
		Kind: &wit.Record{Fields: fields},
	}
}
