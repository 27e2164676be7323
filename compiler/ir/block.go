package ir

type (
	Block struct {
		Code []Instruction
	}

	// Blocks owns every block of a program, indexed by BlockID.
	Blocks struct {
		b []*Block
	}
)

func (b *Block) Push(x Instruction) {
	b.Code = append(b.Code, x)
}

func NewBlocks() *Blocks {
	return &Blocks{}
}

func (bs *Blocks) Create() BlockID {
	bs.b = append(bs.b, &Block{})

	return BlockID(len(bs.b) - 1)
}

func (bs *Blocks) Get(id BlockID) *Block {
	if id < 0 || int(id) >= len(bs.b) {
		return nil
	}

	return bs.b[id]
}

func (bs *Blocks) Push(id BlockID, x Instruction) {
	bs.b[id].Push(x)
}

func (bs *Blocks) Len() int { return len(bs.b) }
