package tp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureInterning(t *testing.T) {
	ss := NewSignatures()

	args := []TypeID{1, 2}
	a := ss.Intern(Signature{Args: args, Ret: 0})

	args[0] = 5 // caller's slice must not alias the table

	assert.Equal(t, a, ss.Intern(Signature{Args: []TypeID{1, 2}, Ret: 0}))
	assert.Equal(t, Signature{Args: []TypeID{1, 2}, Ret: 0}, ss.Resolve(a))

	b := ss.Intern(Signature{Args: []TypeID{2, 1}, Ret: 0})
	c := ss.Intern(Signature{Args: []TypeID{1, 2}, Ret: 1})
	d := ss.Intern(Signature{Args: []TypeID{1}, Ret: 0})
	e := ss.Intern(Signature{Ret: 0})

	ids := map[SigID]bool{a: true, b: true, c: true, d: true, e: true}
	assert.Len(t, ids, 5)
	assert.Equal(t, 5, ss.Len())
}

func TestSignatureRoundTrip(t *testing.T) {
	ss := NewSignatures()

	for _, s := range []Signature{
		{Ret: 0},
		{Args: []TypeID{0}, Ret: 0},
		{Args: []TypeID{300, 4}, Ret: 128},
	} {
		got := ss.Resolve(ss.Intern(s))

		assert.True(t, s.Equal(got), "%v != %v", s, got)
	}
}
