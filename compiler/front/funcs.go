package front

import (
	"github.com/ChangeCaps/fern/compiler/ir"
	"github.com/ChangeCaps/fern/compiler/tp"
)

type (
	Argument struct {
		Name string
		Type tp.TypeID
	}

	// Function is the resolved signature side of a declaration.
	Function struct {
		Name string
		Args []Argument
		Ret  tp.TypeID
		Sig  tp.SigID
	}

	// Functions is indexed by ir.FuncID.
	Functions []*Function
)

// BuildFunctions resolves every declared function's argument and return types.
// It must finish before any body is lowered, since bodies may call any function.
func BuildFunctions(d *Declarations, ts *tp.Types, ss *tp.Signatures) (Functions, error) {
	fs := make(Functions, len(d.Funcs))

	for id := range d.Funcs {
		f, err := buildFunction(d, ts, ss, ir.FuncID(id))
		if err != nil {
			return nil, err
		}

		fs[id] = f
	}

	return fs, nil
}

func buildFunction(d *Declarations, ts *tp.Types, ss *tp.Signatures, id ir.FuncID) (*Function, error) {
	x := d.Funcs[id].AST

	f := &Function{
		Name: d.FuncPath(id),
		Args: make([]Argument, 0, len(x.Args)),
	}

	sig := tp.Signature{
		Args: make([]tp.TypeID, 0, len(x.Args)),
	}

	for _, a := range x.Args {
		t, err := d.ResolveTypeID(ts, a.Type)
		if err != nil {
			return nil, err
		}

		f.Args = append(f.Args, Argument{Name: a.Name.Name, Type: t})
		sig.Args = append(sig.Args, t)
	}

	if x.Ret != nil {
		t, err := d.ResolveTypeID(ts, x.Ret)
		if err != nil {
			return nil, err
		}

		f.Ret = t
	} else {
		f.Ret = ts.Intern(tp.Void)
	}

	sig.Ret = f.Ret
	f.Sig = ss.Intern(sig)

	return f, nil
}
