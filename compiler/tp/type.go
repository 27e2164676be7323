package tp

import "fmt"

type (
	TypeID   int
	SigID    int
	StructID int

	Kind   uint8
	Memory uint8

	// Type is a structural type descriptor.
	// Nested types are referenced by id, so Type is comparable
	// and structural equality is ==.
	Type struct {
		Kind Kind
		x    int
	}
)

const (
	KVoid Kind = iota
	KMemory
	KStruct
	KReference
	KFunction
)

const (
	Bool Memory = iota
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	Isize
	Usize
)

var Void = Type{Kind: KVoid}

var memNames = []string{
	Bool:  "bool",
	I8:    "i8",
	U8:    "u8",
	I16:   "i16",
	U16:   "u16",
	I32:   "i32",
	U32:   "u32",
	I64:   "i64",
	U64:   "u64",
	Isize: "isize",
	Usize: "usize",
}

func Mem(m Memory) Type       { return Type{Kind: KMemory, x: int(m)} }
func Struct(id StructID) Type { return Type{Kind: KStruct, x: int(id)} }
func Ref(elem TypeID) Type    { return Type{Kind: KReference, x: int(elem)} }
func Func(sig SigID) Type     { return Type{Kind: KFunction, x: int(sig)} }

func (t Type) Memory() (Memory, bool) {
	return Memory(t.x), t.Kind == KMemory
}

func (t Type) Struct() (StructID, bool) {
	return StructID(t.x), t.Kind == KStruct
}

// Elem returns the referenced type of a Reference.
func (t Type) Elem() (TypeID, bool) {
	return TypeID(t.x), t.Kind == KReference
}

func (t Type) Sig() (SigID, bool) {
	return SigID(t.x), t.Kind == KFunction
}

func (t Type) IsInteger() bool {
	m, ok := t.Memory()

	return ok && m.IsInteger()
}

func (m Memory) IsInteger() bool { return m != Bool }

func (m Memory) Size(ptrSize int64) int64 {
	switch m {
	case I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, Bool:
		return 4
	case I64, U64:
		return 8
	default:
		return ptrSize
	}
}

func (m Memory) String() string {
	if int(m) < len(memNames) {
		return memNames[m]
	}

	return fmt.Sprintf("Memory(%d)", int(m))
}

// ParseMemory maps a builtin type name to its memory kind.
func ParseMemory(name string) (Memory, bool) {
	for m, n := range memNames {
		if n == name {
			return Memory(m), true
		}
	}

	return 0, false
}
