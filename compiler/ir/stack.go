package ir

import "github.com/ChangeCaps/fern/compiler/tp"

type (
	// Stack is the table of addressable locals of one function.
	// Slots are numbered in allocation order and never reclaimed.
	Stack struct {
		Slots []StackAlloc
	}

	StackAlloc struct {
		Type tp.TypeID
	}
)

func (s *Stack) Alloc(a StackAlloc) Slot {
	s.Slots = append(s.Slots, a)

	return Slot(len(s.Slots) - 1)
}

func (s *Stack) Get(slot Slot) (StackAlloc, bool) {
	if slot < 0 || int(slot) >= len(s.Slots) {
		return StackAlloc{}, false
	}

	return s.Slots[slot], true
}

func (s *Stack) Len() int { return len(s.Slots) }

// Layout assigns each slot a naturally aligned byte offset.
// size reports the footprint of a type; zero sized slots take no space.
func (s *Stack) Layout(size func(tp.TypeID) int64) (off []int64, total int64) {
	off = make([]int64, len(s.Slots))

	for i, a := range s.Slots {
		sz := size(a.Type)

		align := sz
		if align > 8 {
			align = 8
		}

		if align > 1 {
			total = (total + align - 1) &^ (align - 1)
		}

		off[i] = total
		total += sz
	}

	return off, total
}
