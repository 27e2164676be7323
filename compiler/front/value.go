package front

import (
	"github.com/ChangeCaps/fern/compiler/ir"
	"github.com/ChangeCaps/fern/compiler/tp"
)

type (
	// Value is the type of an expression and where its result lives right now.
	Value struct {
		Type tp.Type
		Kind ValueKind

		Reg  ir.Reg
		Slot ir.Slot
		Func ir.FuncID
	}

	ValueKind uint8

	// Flow tells the enclosing lowering step whether to go on.
	Flow uint8
)

const (
	InReg ValueKind = iota
	InSlot
	InFunc
)

const (
	Continue Flow = iota
	Returned
)

func RegValue(t tp.Type, r ir.Reg) Value { return Value{Type: t, Kind: InReg, Reg: r} }

func SlotValue(t tp.Type, s ir.Slot) Value { return Value{Type: t, Kind: InSlot, Slot: s} }

func FuncValue(t tp.Type, f ir.FuncID) Value { return Value{Type: t, Kind: InFunc, Func: f} }

func (k ValueKind) String() string {
	switch k {
	case InReg:
		return "reg"
	case InSlot:
		return "slot"
	case InFunc:
		return "func"
	default:
		return "?"
	}
}

func (f Flow) String() string {
	if f == Returned {
		return "returned"
	}

	return "continue"
}
