package ir

import (
	"nikand.dev/go/heap"

	"github.com/ChangeCaps/fern/compiler/set"
)

type (
	// RegAlloc hands out virtual registers.
	// Alloc returns the smallest freed register before growing the file.
	RegAlloc struct {
		free  heap.Heap[Reg]
		freed set.Bitmap

		count uint32
	}
)

func NewRegAlloc() *RegAlloc {
	return &RegAlloc{
		free: heap.Heap[Reg]{Less: regLess},
	}
}

func (a *RegAlloc) Alloc() Reg {
	if a.free.Len() != 0 {
		r := a.free.Pop()
		a.freed.Clear(int(r))

		return r
	}

	r := Reg(a.count)
	a.count++

	return r
}

// Free returns r to the pool. Freeing a register twice,
// or one that was never allocated, is a no-op.
func (a *RegAlloc) Free(r Reg) {
	if uint32(r) >= a.count || a.freed.IsSet(int(r)) {
		return
	}

	if a.free.Less == nil {
		a.free.Less = regLess
	}

	a.freed.Set(int(r))
	a.free.Push(r)
}

// Count is the size of the register file so far.
func (a *RegAlloc) Count() uint32 { return a.count }

// Live is the number of allocated and not yet freed registers.
func (a *RegAlloc) Live() int { return int(a.count) - a.freed.Size() }

func (a *RegAlloc) Freed() set.Bitmap { return a.freed }

func regLess(d []Reg, i, j int) bool { return d[i] < d[j] }
