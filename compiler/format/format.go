package format

import (
	"github.com/nikandfor/hacked/hfmt"

	"github.com/ChangeCaps/fern/compiler/ir"
	"github.com/ChangeCaps/fern/compiler/tp"
)

// DefaultPtrSize is the pointer width used for stack layout when none is given.
const DefaultPtrSize = 8

// Program appends a textual dump of every function of p.
// ptrSize is the target pointer width in bytes.
func Program(b []byte, p *ir.Program, ptrSize int64) []byte {
	if ptrSize <= 0 {
		ptrSize = DefaultPtrSize
	}

	for id := range p.Funcs {
		if id != 0 {
			b = append(b, '\n')
		}

		b = Function(b, p, ir.FuncID(id), ptrSize)
	}

	return b
}

func Function(b []byte, p *ir.Program, id ir.FuncID, ptrSize int64) []byte {
	f := p.Func(id)
	if f == nil {
		return hfmt.Appendf(b, "; no function #%d\n", id)
	}

	b = hfmt.Appendf(b, "fn %s: %s  ; #%d sig %d regs %d\n", f.Label,
		p.Types.Format(tp.Func(f.Sig), p.Signatures), id, f.Sig, f.Regs)

	if f.Stack.Len() != 0 {
		off, total := f.Stack.Layout(func(t tp.TypeID) int64 {
			return p.Types.Size(p.Types.Resolve(t), ptrSize)
		})

		b = hfmt.Appendf(b, "  stack %d\n", total)

		for i, s := range f.Stack.Slots {
			b = hfmt.Appendf(b, "    s%d %s @%d\n", i, p.Types.Format(p.Types.Resolve(s.Type), p.Signatures), off[i])
		}
	}

	for _, bid := range f.Blocks {
		blk := p.Blocks.Get(bid)
		if blk == nil {
			continue
		}

		b = hfmt.Appendf(b, "b%d:\n", bid)

		for _, x := range blk.Code {
			b = append(b, "  "...)
			b = Instruction(b, p, x)
			b = append(b, '\n')
		}
	}

	return b
}

// Instruction appends a single line form of x without a trailing newline.
func Instruction(b []byte, p *ir.Program, x ir.Instruction) []byte {
	switch x := x.(type) {
	case ir.Noop:
		return append(b, "noop"...)
	case ir.IConst:
		return hfmt.Appendf(b, "r%d = iconst.%v %d", x.Dst, x.Type, x.Imm)
	case ir.Call:
		b = hfmt.Appendf(b, "r%d = call %s(", x.Dst, funcName(p, x.Func))
		b = regs(b, x.Args)

		return append(b, ')')
	case ir.Return:
		return hfmt.Appendf(b, "return r%d", x.Src)
	case ir.Add:
		return binary(b, x.Opcode(), x.Dst, x.L, x.R)
	case ir.Sub:
		return binary(b, x.Opcode(), x.Dst, x.L, x.R)
	case ir.Mul:
		return binary(b, x.Opcode(), x.Dst, x.L, x.R)
	case ir.Div:
		return binary(b, x.Opcode(), x.Dst, x.L, x.R)
	case ir.FuncAddr:
		return hfmt.Appendf(b, "r%d = func_addr.%v %s", x.Dst, x.Type, funcName(p, x.Func))
	case ir.StackLoad:
		return hfmt.Appendf(b, "r%d = stack_load.%v s%d+%d", x.Dst, x.Type, x.Slot, x.Offset)
	case ir.StackStore:
		return hfmt.Appendf(b, "stack_store.%v s%d+%d, r%d", x.Type, x.Slot, x.Offset, x.Src)
	case ir.StackAddr:
		return hfmt.Appendf(b, "r%d = stack_addr.%v s%d", x.Dst, x.Type, x.Slot)
	case ir.Load:
		return hfmt.Appendf(b, "r%d = load.%v [r%d+%d]", x.Dst, x.Type, x.Src, x.Offset)
	case ir.Store:
		return hfmt.Appendf(b, "store.%v [r%d+%d], r%d", x.Type, x.Dst, x.Offset, x.Src)
	default:
		return hfmt.Appendf(b, "unknown %T", x)
	}
}

func binary(b []byte, op ir.Opcode, dst, l, r ir.Reg) []byte {
	return hfmt.Appendf(b, "r%d = %v r%d, r%d", dst, op, l, r)
}

func regs(b []byte, rs []ir.Reg) []byte {
	for i, r := range rs {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = hfmt.Appendf(b, "r%d", r)
	}

	return b
}

func funcName(p *ir.Program, id ir.FuncID) string {
	if f := p.Func(id); f != nil {
		return f.Label
	}

	return string(hfmt.Appendf(nil, "#%d", id))
}
