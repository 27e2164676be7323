package tp

import (
	"encoding/binary"
	"slices"
)

type (
	Signature struct {
		Args []TypeID
		Ret  TypeID
	}

	// Signatures interns function signatures.
	Signatures struct {
		ids   []Signature
		byVal map[string]SigID
	}
)

func NewSignatures() *Signatures {
	return &Signatures{
		byVal: make(map[string]SigID),
	}
}

func (ss *Signatures) Intern(s Signature) SigID {
	k := s.key()

	if id, ok := ss.byVal[k]; ok {
		return id
	}

	id := SigID(len(ss.ids))

	s.Args = slices.Clip(slices.Clone(s.Args))

	ss.ids = append(ss.ids, s)
	ss.byVal[k] = id

	return id
}

func (ss *Signatures) Resolve(id SigID) Signature {
	return ss.ids[id]
}

func (ss *Signatures) Len() int { return len(ss.ids) }

func (s Signature) Equal(x Signature) bool {
	return s.Ret == x.Ret && slices.Equal(s.Args, x.Args)
}

// key encodes the signature as a map key: ret, arity, args.
func (s Signature) key() string {
	b := make([]byte, 0, 2+len(s.Args))

	b = binary.AppendUvarint(b, uint64(s.Ret))
	b = binary.AppendUvarint(b, uint64(len(s.Args)))

	for _, a := range s.Args {
		b = binary.AppendUvarint(b, uint64(a))
	}

	return string(b)
}
