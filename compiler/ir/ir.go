package ir

import "github.com/ChangeCaps/fern/compiler/tp"

type (
	FuncID  int
	BlockID int
	Slot    int
	Reg     uint32

	Imm    int64
	Opcode uint8

	Instruction interface {
		Opcode() Opcode
	}

	Noop struct{}

	IConst struct {
		Dst  Reg
		Imm  Imm
		Type tp.Memory
	}

	Call struct {
		Dst  Reg
		Func FuncID
		Args []Reg
	}

	Return struct {
		Src Reg
	}

	Add struct {
		Dst, L, R Reg
	}

	Sub struct {
		Dst, L, R Reg
	}

	Mul struct {
		Dst, L, R Reg
	}

	Div struct {
		Dst, L, R Reg
	}

	FuncAddr struct {
		Dst  Reg
		Func FuncID
		Type tp.Memory
	}

	StackLoad struct {
		Dst    Reg
		Slot   Slot
		Type   tp.Memory
		Offset uint32
	}

	StackStore struct {
		Src    Reg
		Slot   Slot
		Type   tp.Memory
		Offset uint32
	}

	StackAddr struct {
		Dst  Reg
		Slot Slot
		Type tp.Memory
	}

	// Load reads Type from the address in Src.
	Load struct {
		Dst    Reg
		Src    Reg
		Type   tp.Memory
		Offset uint32
	}

	// Store writes Src to the address in Dst.
	Store struct {
		Dst    Reg
		Src    Reg
		Type   tp.Memory
		Offset uint32
	}
)

const (
	OpNoop       Opcode = 0
	OpIConst     Opcode = 1
	OpCall       Opcode = 16
	OpReturn     Opcode = 18
	OpAdd        Opcode = 32
	OpSub        Opcode = 33
	OpMul        Opcode = 34
	OpDiv        Opcode = 35
	OpFuncAddr   Opcode = 48
	OpStackLoad  Opcode = 64
	OpStackStore Opcode = 65
	OpStackAddr  Opcode = 66
	OpLoad       Opcode = 72
	OpStore      Opcode = 73
)

func (Noop) Opcode() Opcode       { return OpNoop }
func (IConst) Opcode() Opcode     { return OpIConst }
func (Call) Opcode() Opcode       { return OpCall }
func (Return) Opcode() Opcode     { return OpReturn }
func (Add) Opcode() Opcode        { return OpAdd }
func (Sub) Opcode() Opcode        { return OpSub }
func (Mul) Opcode() Opcode        { return OpMul }
func (Div) Opcode() Opcode        { return OpDiv }
func (FuncAddr) Opcode() Opcode   { return OpFuncAddr }
func (StackLoad) Opcode() Opcode  { return OpStackLoad }
func (StackStore) Opcode() Opcode { return OpStackStore }
func (StackAddr) Opcode() Opcode  { return OpStackAddr }
func (Load) Opcode() Opcode       { return OpLoad }
func (Store) Opcode() Opcode      { return OpStore }

func (op Opcode) String() string {
	switch op {
	case OpNoop:
		return "noop"
	case OpIConst:
		return "iconst"
	case OpCall:
		return "call"
	case OpReturn:
		return "return"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpFuncAddr:
		return "func_addr"
	case OpStackLoad:
		return "stack_load"
	case OpStackStore:
		return "stack_store"
	case OpStackAddr:
		return "stack_addr"
	case OpLoad:
		return "load"
	case OpStore:
		return "store"
	default:
		return "op?"
	}
}
