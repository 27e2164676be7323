package ir

import "github.com/ChangeCaps/fern/compiler/tp"

type (
	// Builder appends instructions to a block,
	// allocating destination registers as it goes.
	Builder struct {
		Regs  *RegAlloc
		Block *Block
	}
)

func (b Builder) Noop() {
	b.Block.Push(Noop{})
}

func (b Builder) IConst(imm Imm, t tp.Memory) Reg {
	dst := b.Regs.Alloc()
	b.Block.Push(IConst{Dst: dst, Imm: imm, Type: t})

	return dst
}

func (b Builder) Call(f FuncID, args []Reg) Reg {
	dst := b.Regs.Alloc()
	b.Block.Push(Call{Dst: dst, Func: f, Args: args})

	return dst
}

func (b Builder) Return(src Reg) {
	b.Block.Push(Return{Src: src})
}

func (b Builder) Add(l, r Reg) Reg {
	dst := b.Regs.Alloc()
	b.Block.Push(Add{Dst: dst, L: l, R: r})

	return dst
}

func (b Builder) Sub(l, r Reg) Reg {
	dst := b.Regs.Alloc()
	b.Block.Push(Sub{Dst: dst, L: l, R: r})

	return dst
}

func (b Builder) Mul(l, r Reg) Reg {
	dst := b.Regs.Alloc()
	b.Block.Push(Mul{Dst: dst, L: l, R: r})

	return dst
}

func (b Builder) Div(l, r Reg) Reg {
	dst := b.Regs.Alloc()
	b.Block.Push(Div{Dst: dst, L: l, R: r})

	return dst
}

func (b Builder) FuncAddr(f FuncID, t tp.Memory) Reg {
	dst := b.Regs.Alloc()
	b.Block.Push(FuncAddr{Dst: dst, Func: f, Type: t})

	return dst
}

func (b Builder) StackLoad(slot Slot, t tp.Memory, off uint32) Reg {
	dst := b.Regs.Alloc()
	b.Block.Push(StackLoad{Dst: dst, Slot: slot, Type: t, Offset: off})

	return dst
}

func (b Builder) StackStore(src Reg, slot Slot, t tp.Memory, off uint32) {
	b.Block.Push(StackStore{Src: src, Slot: slot, Type: t, Offset: off})
}

func (b Builder) StackAddr(slot Slot, t tp.Memory) Reg {
	dst := b.Regs.Alloc()
	b.Block.Push(StackAddr{Dst: dst, Slot: slot, Type: t})

	return dst
}

func (b Builder) Load(src Reg, t tp.Memory, off uint32) Reg {
	dst := b.Regs.Alloc()
	b.Block.Push(Load{Dst: dst, Src: src, Type: t, Offset: off})

	return dst
}

func (b Builder) Store(dst, src Reg, t tp.Memory, off uint32) {
	b.Block.Push(Store{Dst: dst, Src: src, Type: t, Offset: off})
}
