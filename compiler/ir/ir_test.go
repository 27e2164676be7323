package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChangeCaps/fern/compiler/tp"
)

func TestRegAllocReuse(t *testing.T) {
	a := NewRegAlloc()

	r0 := a.Alloc()
	r1 := a.Alloc()
	a.Free(r0)
	r2 := a.Alloc()

	assert.Equal(t, []Reg{0, 1, 0}, []Reg{r0, r1, r2})
	assert.EqualValues(t, 2, a.Count())
}

func TestRegAllocSmallestFirst(t *testing.T) {
	var a RegAlloc // zero value is usable

	for i := 0; i < 6; i++ {
		a.Alloc()
	}

	a.Free(4)
	a.Free(1)
	a.Free(3)
	a.Free(1) // double free
	a.Free(9) // never allocated

	assert.Equal(t, 3, a.Live())

	assert.Equal(t, Reg(1), a.Alloc())
	assert.Equal(t, Reg(3), a.Alloc())
	assert.Equal(t, Reg(4), a.Alloc())
	assert.Equal(t, Reg(6), a.Alloc())

	assert.Equal(t, 7, a.Live())
	assert.EqualValues(t, 7, a.Count())
}

func TestRegAllocFreedSet(t *testing.T) {
	a := NewRegAlloc()

	a.Alloc()
	a.Alloc()
	a.Free(1)

	freed := a.Freed()
	assert.True(t, freed.IsSet(1))
	assert.False(t, freed.IsSet(0))
}

func TestStackSlots(t *testing.T) {
	var s Stack

	types := []tp.TypeID{3, 0, 3, 7, 1}

	for i, ty := range types {
		slot := s.Alloc(StackAlloc{Type: ty})
		assert.Equal(t, Slot(i), slot)
	}

	assert.Equal(t, len(types), s.Len())

	a, ok := s.Get(3)
	assert.True(t, ok)
	assert.Equal(t, tp.TypeID(7), a.Type)

	_, ok = s.Get(5)
	assert.False(t, ok)
}

func TestStackLayout(t *testing.T) {
	var s Stack

	s.Alloc(StackAlloc{Type: 0}) // 1 byte
	s.Alloc(StackAlloc{Type: 1}) // 8 bytes
	s.Alloc(StackAlloc{Type: 2}) // 4 bytes
	s.Alloc(StackAlloc{Type: 3}) // void

	sizes := []int64{1, 8, 4, 0}

	off, total := s.Layout(func(id tp.TypeID) int64 { return sizes[id] })

	assert.Equal(t, []int64{0, 8, 16, 20}, off)
	assert.EqualValues(t, 20, total)
}

func TestBuilder(t *testing.T) {
	bs := NewBlocks()
	id := bs.Create()
	require.Equal(t, BlockID(0), id)

	b := Builder{Regs: NewRegAlloc(), Block: bs.Get(id)}

	x := b.IConst(2, tp.I32)
	y := b.StackLoad(0, tp.I32, 0)
	z := b.Add(x, y)
	b.Return(z)

	bs.Push(id, Noop{})

	code := bs.Get(id).Code
	require.Len(t, code, 5)

	assert.Equal(t, IConst{Dst: 0, Imm: 2, Type: tp.I32}, code[0])
	assert.Equal(t, StackLoad{Dst: 1, Slot: 0, Type: tp.I32}, code[1])
	assert.Equal(t, Add{Dst: 2, L: 0, R: 1}, code[2])
	assert.Equal(t, Return{Src: 2}, code[3])
	assert.Equal(t, OpNoop, code[4].Opcode())

	assert.Nil(t, bs.Get(1))
	assert.Equal(t, 1, bs.Len())
}

func TestOpcodes(t *testing.T) {
	for _, tc := range []struct {
		x  Instruction
		op Opcode
		s  string
	}{
		{Noop{}, 0, "noop"},
		{IConst{}, 1, "iconst"},
		{Call{}, 16, "call"},
		{Return{}, 18, "return"},
		{Add{}, 32, "add"},
		{Div{}, 35, "div"},
		{FuncAddr{}, 48, "func_addr"},
		{StackAddr{}, 66, "stack_addr"},
		{Store{}, 73, "store"},
	} {
		assert.Equal(t, tc.op, tc.x.Opcode())
		assert.Equal(t, tc.s, tc.x.Opcode().String())
	}
}
