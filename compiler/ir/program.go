package ir

import "github.com/ChangeCaps/fern/compiler/tp"

type (
	Function struct {
		Label  string
		Sig    tp.SigID
		Blocks []BlockID
		Stack  Stack

		Regs uint32 // register file size
	}

	// Program is the result of lowering a whole compilation unit.
	Program struct {
		Types      *tp.Types
		Signatures *tp.Signatures
		Blocks     *Blocks

		Funcs []*Function // indexed by FuncID
	}
)

func (p *Program) Func(id FuncID) *Function {
	if id < 0 || int(id) >= len(p.Funcs) {
		return nil
	}

	return p.Funcs[id]
}

// Entry returns the first block of f.
func (p *Program) Entry(f *Function) *Block {
	if len(f.Blocks) == 0 {
		return nil
	}

	return p.Blocks.Get(f.Blocks[0])
}
