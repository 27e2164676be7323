package front

import (
	"strings"

	"github.com/ChangeCaps/fern/compiler/ast"
	"github.com/ChangeCaps/fern/compiler/diag"
	"github.com/ChangeCaps/fern/compiler/ir"
	"github.com/ChangeCaps/fern/compiler/tp"
)

type (
	ModuleID int

	Module struct {
		Name  string
		Super ModuleID // NoModule for the root
		Span  ast.Span

		Subs  map[string]ModuleID
		Funcs map[string]ir.FuncID
	}

	// FuncDecl is a function as written, with the module it lives in.
	FuncDecl struct {
		AST    *ast.Func
		Module ModuleID
	}

	// Declarations is the module tree and the function registry.
	Declarations struct {
		Root    ModuleID
		Modules []*Module // indexed by ModuleID
		Funcs   []FuncDecl // indexed by ir.FuncID

		allowRedeclare bool
	}
)

const NoModule ModuleID = -1

func NewDeclarations() *Declarations {
	d := &Declarations{}

	d.Root = d.addModule(NoModule, "", ast.Span{})

	return d
}

// Collect registers every declaration of p into the root module.
func Collect(p *ast.Program, allowRedeclare bool) (*Declarations, error) {
	d := NewDeclarations()
	d.allowRedeclare = allowRedeclare

	for _, x := range p.Decls {
		err := d.Insert(d.Root, x)
		if err != nil {
			return nil, err
		}
	}

	return d, nil
}

func (d *Declarations) Insert(m ModuleID, x ast.Decl) error {
	mod := d.Modules[m]

	switch x := x.(type) {
	case *ast.Func:
		name := x.Name.Name

		if prev, ok := mod.Funcs[name]; ok && !d.allowRedeclare {
			return diag.New(diag.Redeclared, x.Name.Span(), "function %v redeclared in %v", name, d.ModulePath(m)).
				WithHint(d.Funcs[prev].AST.Name.Span(), "previous declaration of %v", name)
		}

		id := ir.FuncID(len(d.Funcs))

		d.Funcs = append(d.Funcs, FuncDecl{AST: x, Module: m})
		mod.Funcs[name] = id
	case *ast.Mod:
		name := x.Name.Name

		if prev, ok := mod.Subs[name]; ok {
			return diag.New(diag.Redeclared, x.Name.Span(), "module %v redeclared in %v", name, d.ModulePath(m)).
				WithHint(d.Modules[prev].Span, "previous declaration of %v", name)
		}

		sub := d.addModule(m, name, x.Name.Span())

		for _, y := range x.Decls {
			err := d.Insert(sub, y)
			if err != nil {
				return err
			}
		}
	default:
		return diag.New(diag.Unsupported, x.Span(), "unsupported declaration: %T", x)
	}

	return nil
}

func (d *Declarations) addModule(super ModuleID, name string, s ast.Span) ModuleID {
	id := ModuleID(len(d.Modules))

	d.Modules = append(d.Modules, &Module{
		Name:  name,
		Super: super,
		Span:  s,
		Subs:  make(map[string]ModuleID),
		Funcs: make(map[string]ir.FuncID),
	})

	if super != NoModule {
		d.Modules[super].Subs[name] = id
	}

	return id
}

// Canonicalize walks the module segments of p, every segment but the last,
// starting from base or from the root for absolute paths.
// The last segment is left for the caller to interpret.
func (d *Declarations) Canonicalize(base ModuleID, p *ast.Path) (ModuleID, error) {
	m := base

	if p.Absolute {
		m = d.Root
	}

	for _, s := range p.Modules() {
		mod := d.Modules[m]

		if s.Super {
			if mod.Super == NoModule {
				return NoModule, diag.New(diag.InvalidPath, s.Span(), "%v: %v has no parent module", p, d.ModulePath(m))
			}

			m = mod.Super

			continue
		}

		sub, ok := mod.Subs[s.Name]
		if !ok {
			return NoModule, diag.New(diag.InvalidPath, s.Span(), "%v: no module %v in %v", p, s.Name, d.ModulePath(m))
		}

		m = sub
	}

	return m, nil
}

// ModulePath is the absolute path of m, "::" for the root.
func (d *Declarations) ModulePath(m ModuleID) string {
	var names []string

	for ; m != NoModule && m != d.Root; m = d.Modules[m].Super {
		names = append(names, d.Modules[m].Name)
	}

	if len(names) == 0 {
		return "::"
	}

	var b strings.Builder

	for i := len(names) - 1; i >= 0; i-- {
		b.WriteString("::")
		b.WriteString(names[i])
	}

	return b.String()
}

// FuncPath is the qualified name of a function.
func (d *Declarations) FuncPath(id ir.FuncID) string {
	fd := d.Funcs[id]

	if fd.Module == d.Root {
		return fd.AST.Name.Name
	}

	return d.ModulePath(fd.Module) + "::" + fd.AST.Name.Name
}

// ResolveType converts a written type into an interned structural type.
func (d *Declarations) ResolveType(ts *tp.Types, t ast.Type) (tp.Type, error) {
	switch t := t.(type) {
	case *ast.Builtin:
		if t.Name == "void" {
			return tp.Void, nil
		}

		m, ok := tp.ParseMemory(t.Name)
		if !ok {
			return tp.Void, diag.New(diag.Unsupported, t.Span(), "unknown builtin type: %v", t.Name)
		}

		return tp.Mem(m), nil
	case *ast.RefType:
		elem, err := d.ResolveType(ts, t.X)
		if err != nil {
			return tp.Void, err
		}

		return tp.Ref(ts.Intern(elem)), nil
	case *ast.PathType:
		return tp.Void, diag.New(diag.Unsupported, t.Span(), "named types are not supported: %v", t.Path)
	default:
		return tp.Void, diag.New(diag.Unsupported, ast.Span{}, "unsupported type: %T", t)
	}
}

func (d *Declarations) ResolveTypeID(ts *tp.Types, t ast.Type) (tp.TypeID, error) {
	x, err := d.ResolveType(ts, t)
	if err != nil {
		return 0, err
	}

	return ts.Intern(x), nil
}
