package tp

import (
	"fmt"
	"strings"
)

type (
	// Types interns structural types.
	Types struct {
		ids   []Type
		byVal map[Type]TypeID

		structs []StructDef
	}

	StructDef struct {
		Name string
	}
)

func NewTypes() *Types {
	return &Types{
		byVal: make(map[Type]TypeID),
	}
}

// Intern returns the id of t, allocating the next one if t is new.
func (ts *Types) Intern(t Type) TypeID {
	if id, ok := ts.byVal[t]; ok {
		return id
	}

	id := TypeID(len(ts.ids))

	ts.ids = append(ts.ids, t)
	ts.byVal[t] = id

	return id
}

func (ts *Types) Resolve(id TypeID) Type {
	return ts.ids[id]
}

func (ts *Types) Lookup(t Type) (TypeID, bool) {
	id, ok := ts.byVal[t]
	return id, ok
}

func (ts *Types) Len() int { return len(ts.ids) }

func (ts *Types) AddStruct(name string) StructID {
	ts.structs = append(ts.structs, StructDef{Name: name})

	return StructID(len(ts.structs) - 1)
}

func (ts *Types) Struct(id StructID) StructDef {
	return ts.structs[id]
}

// Size is the stack footprint of a value of type t.
// Structs have no layout yet and report zero.
func (ts *Types) Size(t Type, ptrSize int64) int64 {
	switch t.Kind {
	case KMemory:
		m, _ := t.Memory()
		return m.Size(ptrSize)
	case KReference, KFunction:
		return ptrSize
	default:
		return 0
	}
}

// Format renders t in source syntax, expanding nested ids.
func (ts *Types) Format(t Type, sigs *Signatures) string {
	var b strings.Builder

	ts.format(&b, t, sigs)

	return b.String()
}

func (ts *Types) format(b *strings.Builder, t Type, sigs *Signatures) {
	switch t.Kind {
	case KVoid:
		b.WriteString("void")
	case KMemory:
		m, _ := t.Memory()
		b.WriteString(m.String())
	case KStruct:
		id, _ := t.Struct()
		b.WriteString(ts.Struct(id).Name)
	case KReference:
		elem, _ := t.Elem()

		b.WriteByte('&')
		ts.format(b, ts.Resolve(elem), sigs)
	case KFunction:
		id, _ := t.Sig()

		if sigs == nil {
			fmt.Fprintf(b, "fn#%d", id)
			return
		}

		sig := sigs.Resolve(id)

		b.WriteString("fn(")

		for i, a := range sig.Args {
			if i != 0 {
				b.WriteString(", ")
			}

			ts.format(b, ts.Resolve(a), sigs)
		}

		b.WriteString(") -> ")
		ts.format(b, ts.Resolve(sig.Ret), sigs)
	}
}
