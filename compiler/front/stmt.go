package front

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/ChangeCaps/fern/compiler/ast"
	"github.com/ChangeCaps/fern/compiler/diag"
	"github.com/ChangeCaps/fern/compiler/ir"
	"github.com/ChangeCaps/fern/compiler/tp"
)

func (c *Front) compileFunc(ctx context.Context, id ir.FuncID) (out *ir.Function, err error) {
	d := c.decls.Funcs[id]
	fn := c.funcs[id]

	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "front: compile function", "name", fn.Name, "id", id)
	defer tr.Finish("err", &err)

	entry := c.blocks.Create()

	f := &funContext{
		types:  c.types,
		sigs:   c.sigs,
		blocks: c.blocks,
		block:  entry,
		module: d.Module,
		ret:    c.types.Resolve(fn.Ret),
		regs:   ir.NewRegAlloc(),
	}

	// Arguments arrive in their slots; nothing to emit.
	for _, a := range fn.Args {
		slot := f.stack.Alloc(ir.StackAlloc{Type: a.Type})

		f.vars = append(f.vars, variable{
			name: a.Name,
			typ:  c.types.Resolve(a.Type),
			slot: slot,
		})
	}

	returned := false

	if d.AST.Body != nil {
		for _, s := range d.AST.Body.Stmts {
			fl, err := c.compileStmt(ctx, f, s)
			if err != nil {
				return nil, err
			}

			if fl == Returned {
				returned = true
				break
			}
		}
	}

	if !returned && f.ret != tp.Void {
		return nil, diag.New(diag.MissingReturn, d.AST.Name.Span(), "function %v must return %v", fn.Name, f.format(f.ret))
	}

	out = &ir.Function{
		Label:  fn.Name,
		Sig:    fn.Sig,
		Blocks: []ir.BlockID{entry},
		Stack:  f.stack,
		Regs:   f.regs.Count(),
	}

	if tr.If("dump_ir") {
		for i, x := range c.blocks.Get(entry).Code {
			tr.Printw("code", "i", i, "op", x.Opcode().String(), "typ", tlog.NextAsType, x, "val", x)
		}

		tr.Printw("registers", "count", f.regs.Count(), "freed", f.regs.Freed())
	}

	return out, nil
}

func (c *Front) compileStmt(ctx context.Context, f *funContext, s ast.Stmt) (Flow, error) {
	switch s := s.(type) {
	case *ast.Noop:
		return Continue, nil
	case *ast.ExprStmt:
		v, fl, err := c.compileExpr(ctx, f, s.X)
		if err != nil || fl == Returned {
			return fl, err
		}

		f.free(v)

		return Continue, nil
	case *ast.Let:
		return c.compileLet(ctx, f, s)
	default:
		return Continue, diag.New(diag.Unsupported, ast.Span{}, "unsupported statement: %T", s)
	}
}

func (c *Front) compileLet(ctx context.Context, f *funContext, s *ast.Let) (Flow, error) {
	var v Value
	var typ tp.Type

	if s.Value != nil {
		var fl Flow
		var err error

		v, fl, err = c.compileExpr(ctx, f, s.Value)
		if err != nil || fl == Returned {
			return fl, err
		}

		typ = v.Type

		if s.Type != nil {
			want, err := c.decls.ResolveType(f.types, s.Type)
			if err != nil {
				return Continue, err
			}

			if want != v.Type {
				return Continue, diag.New(diag.TypeMismatch, s.Value.Span(), "cannot assign %v to %v of type %v", f.format(v.Type), s.Name.Name, f.format(want)).
					WithHint(s.Type.Span(), "%v declared here", s.Name.Name)
			}
		}
	} else {
		if s.Type == nil {
			return Continue, diag.New(diag.MissingType, s.Name.Span(), "%v needs a type or an initializer", s.Name.Name)
		}

		var err error

		typ, err = c.decls.ResolveType(f.types, s.Type)
		if err != nil {
			return Continue, err
		}
	}

	slot := f.stack.Alloc(ir.StackAlloc{Type: f.types.Intern(typ)})

	f.vars = append(f.vars, variable{
		name: s.Name.Name,
		typ:  typ,
		slot: slot,
	})

	tlog.SpanFromContext(ctx).V("lower").Printw("let", "name", s.Name.Name, "slot", slot, "init", s.Value != nil)

	if s.Value != nil {
		err := f.storeSlot(slot, v, s.Value.Span())
		if err != nil {
			return Continue, err
		}
	}

	return Continue, nil
}
