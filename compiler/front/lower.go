package front

import (
	"context"
	"math"
	"slices"

	"tlog.app/go/tlog"

	"github.com/ChangeCaps/fern/compiler/ast"
	"github.com/ChangeCaps/fern/compiler/diag"
	"github.com/ChangeCaps/fern/compiler/ir"
	"github.com/ChangeCaps/fern/compiler/tp"
)

type (
	// funContext is the state of lowering one function.
	// Registers, slots and bindings die with it.
	funContext struct {
		types  *tp.Types
		sigs   *tp.Signatures
		blocks *ir.Blocks

		block  ir.BlockID
		module ModuleID
		ret    tp.Type

		regs  *ir.RegAlloc
		stack ir.Stack

		// Bindings are never popped: scoping is function-wide
		// and later bindings shadow earlier ones.
		vars []variable
	}

	variable struct {
		name string
		typ  tp.Type
		slot ir.Slot
	}
)

func (f *funContext) ins() ir.Builder {
	return ir.Builder{
		Regs:  f.regs,
		Block: f.blocks.Get(f.block),
	}
}

func (f *funContext) free(v Value) {
	if v.Kind == InReg {
		f.regs.Free(v.Reg)
	}
}

func (f *funContext) lookup(name string) (variable, bool) {
	for i := len(f.vars) - 1; i >= 0; i-- {
		if f.vars[i].name == name {
			return f.vars[i], true
		}
	}

	return variable{}, false
}

func (f *funContext) format(t tp.Type) string {
	return f.types.Format(t, f.sigs)
}

// materialize brings v into a register.
func (f *funContext) materialize(v Value, s ast.Span) (ir.Reg, error) {
	switch v.Kind {
	case InReg:
		return v.Reg, nil
	case InFunc:
		return f.ins().FuncAddr(v.Func, tp.Usize), nil
	}

	switch v.Type.Kind {
	case tp.KVoid:
		return f.ins().IConst(0, tp.Usize), nil
	case tp.KMemory:
		m, _ := v.Type.Memory()

		return f.ins().StackLoad(v.Slot, m, 0), nil
	case tp.KStruct:
		return 0, diag.New(diag.Unsupported, s, "struct values are not supported")
	default:
		return f.ins().StackLoad(v.Slot, tp.Usize, 0), nil
	}
}

// storeSlot writes v into slot and releases v's register.
func (f *funContext) storeSlot(slot ir.Slot, v Value, s ast.Span) error {
	if v.Type.Kind == tp.KVoid {
		f.free(v)
		return nil
	}

	r, err := f.materialize(v, s)
	if err != nil {
		return err
	}

	switch v.Type.Kind {
	case tp.KMemory:
		m, _ := v.Type.Memory()

		f.ins().StackStore(r, slot, m, 0)
	case tp.KReference, tp.KFunction:
		f.ins().StackStore(r, slot, tp.Usize, 0)
	}

	f.regs.Free(r)

	return nil
}

func (c *Front) compileExpr(ctx context.Context, f *funContext, x ast.Expr) (Value, Flow, error) {
	switch x := x.(type) {
	case *ast.Paren:
		return c.compileExpr(ctx, f, x.X)
	case *ast.Int:
		v, err := c.compileInt(f, x)
		return v, Continue, err
	case *ast.String:
		return Value{}, Continue, diag.New(diag.Unsupported, x.Span(), "string literals are not supported")
	case *ast.Path:
		v, err := c.compilePath(f, x)
		return v, Continue, err
	case *ast.Call:
		return c.compileCall(ctx, f, x)
	case *ast.Unary:
		return c.compileUnary(ctx, f, x)
	case *ast.Binary:
		return c.compileBinary(ctx, f, x)
	case *ast.Return:
		return c.compileReturn(ctx, f, x)
	default:
		return Value{}, Continue, diag.New(diag.Unsupported, ast.Span{}, "unsupported expression: %T", x)
	}
}

func (c *Front) compileInt(f *funContext, x *ast.Int) (Value, error) {
	if x.Value < math.MinInt32 || x.Value > math.MaxInt32 {
		return Value{}, diag.New(diag.InvalidLiteral, x.Span(), "integer literal %d overflows i32", x.Value)
	}

	r := f.ins().IConst(ir.Imm(x.Value), tp.I32)

	return RegValue(tp.Mem(tp.I32), r), nil
}

func (c *Front) compilePath(f *funContext, x *ast.Path) (Value, error) {
	if name, ok := x.Ident(); ok {
		if v, ok := f.lookup(name); ok {
			return SlotValue(v.typ, v.slot), nil
		}
	}

	m, err := c.decls.Canonicalize(f.module, x)
	if err != nil {
		return Value{}, err
	}

	if last, ok := x.Last(); ok && !last.Super {
		if id, ok := c.decls.Modules[m].Funcs[last.Name]; ok {
			return FuncValue(tp.Func(c.funcs[id].Sig), id), nil
		}
	}

	return Value{}, diag.New(diag.UndefinedPath, x.Span(), "%v is not defined", x)
}

func (c *Front) compileCall(ctx context.Context, f *funContext, x *ast.Call) (Value, Flow, error) {
	callee, fl, err := c.compileExpr(ctx, f, x.Func)
	if err != nil || fl == Returned {
		return callee, fl, err
	}

	sigID, ok := callee.Type.Sig()
	if !ok {
		return Value{}, Continue, diag.New(diag.NotCallable, x.Func.Span(), "cannot call a value of type %v", f.format(callee.Type))
	}

	args := make([]ir.Reg, 0, len(x.Args))
	types := make([]tp.TypeID, 0, len(x.Args))

	for _, a := range x.Args {
		v, fl, err := c.compileExpr(ctx, f, a)
		if err != nil || fl == Returned {
			return v, fl, err
		}

		r, err := f.materialize(v, a.Span())
		if err != nil {
			return Value{}, Continue, err
		}

		args = append(args, r)
		types = append(types, f.types.Intern(v.Type))
	}

	sig := f.sigs.Resolve(sigID)

	if !slices.Equal(types, sig.Args) {
		return Value{}, Continue, c.argumentMismatch(f, x, types, sig)
	}

	if callee.Kind != InFunc {
		return Value{}, Continue, diag.New(diag.Unsupported, x.Func.Span(), "indirect calls are not supported")
	}

	dst := f.ins().Call(callee.Func, args)

	for _, r := range args {
		f.regs.Free(r)
	}

	tlog.SpanFromContext(ctx).V("lower").Printw("call", "func", c.funcs[callee.Func].Name, "args", len(args), "dst", dst)

	return RegValue(f.types.Resolve(sig.Ret), dst), Continue, nil
}

func (c *Front) argumentMismatch(f *funContext, x *ast.Call, got []tp.TypeID, sig tp.Signature) error {
	if len(got) != len(sig.Args) {
		return diag.New(diag.ArgumentMismatch, x.Span(), "expected %d arguments, got %d", len(sig.Args), len(got))
	}

	for i := range got {
		if got[i] == sig.Args[i] {
			continue
		}

		return diag.New(diag.ArgumentMismatch, x.Args[i].Span(), "argument %d: expected %v, got %v",
			i, f.format(f.types.Resolve(sig.Args[i])), f.format(f.types.Resolve(got[i])))
	}

	return diag.New(diag.ArgumentMismatch, x.Span(), "arguments don't match the signature")
}

func (c *Front) compileUnary(ctx context.Context, f *funContext, x *ast.Unary) (Value, Flow, error) {
	v, fl, err := c.compileExpr(ctx, f, x.X)
	if err != nil || fl == Returned {
		return v, fl, err
	}

	switch x.Op {
	case ast.Ref:
		if v.Kind != InSlot {
			return Value{}, Continue, diag.New(diag.InvalidReference, x.X.Span(), "cannot take a reference to a temporary value")
		}

		elem := f.types.Intern(v.Type)
		r := f.ins().StackAddr(v.Slot, tp.Usize)

		f.free(v)

		return RegValue(tp.Ref(elem), r), Continue, nil
	case ast.Deref:
		elemID, ok := v.Type.Elem()
		if !ok {
			return Value{}, Continue, diag.New(diag.InvalidDereference, x.X.Span(), "cannot dereference a value of type %v", f.format(v.Type))
		}

		ptr, err := f.materialize(v, x.X.Span())
		if err != nil {
			return Value{}, Continue, err
		}

		elem := f.types.Resolve(elemID)

		var r ir.Reg

		switch elem.Kind {
		case tp.KVoid:
			r = f.regs.Alloc()
		case tp.KMemory:
			m, _ := elem.Memory()

			r = f.ins().Load(ptr, m, 0)
		case tp.KStruct:
			// the pointer is the struct's location
			return RegValue(elem, ptr), Continue, nil
		default:
			r = f.ins().Load(ptr, tp.Usize, 0)
		}

		f.regs.Free(ptr)

		return RegValue(elem, r), Continue, nil
	default:
		return Value{}, Continue, diag.New(diag.Unsupported, x.Span(), "unary operator %v is not supported", x.Op)
	}
}

func (c *Front) compileBinary(ctx context.Context, f *funContext, x *ast.Binary) (Value, Flow, error) {
	l, fl, err := c.compileExpr(ctx, f, x.L)
	if err != nil || fl == Returned {
		return l, fl, err
	}

	r, fl, err := c.compileExpr(ctx, f, x.R)
	if err != nil || fl == Returned {
		return r, fl, err
	}

	if x.Op != ast.Add {
		return Value{}, Continue, diag.New(diag.Unsupported, x.Span(), "binary operator %v is not supported", x.Op)
	}

	if l.Type != r.Type {
		return Value{}, Continue, diag.New(diag.TypeMismatch, x.Span(), "mismatched operand types %v and %v", f.format(l.Type), f.format(r.Type))
	}

	if !l.Type.IsInteger() {
		return Value{}, Continue, diag.New(diag.Unsupported, x.Span(), "operator %v is not supported for %v", x.Op, f.format(l.Type))
	}

	lr, err := f.materialize(l, x.L.Span())
	if err != nil {
		return Value{}, Continue, err
	}

	rr, err := f.materialize(r, x.R.Span())
	if err != nil {
		return Value{}, Continue, err
	}

	dst := f.ins().Add(lr, rr)

	f.regs.Free(lr)
	f.regs.Free(rr)

	return RegValue(l.Type, dst), Continue, nil
}

func (c *Front) compileReturn(ctx context.Context, f *funContext, x *ast.Return) (Value, Flow, error) {
	v := Value{Type: tp.Void}

	if x.X != nil {
		var fl Flow
		var err error

		v, fl, err = c.compileExpr(ctx, f, x.X)
		if err != nil || fl == Returned {
			return v, fl, err
		}
	}

	if v.Type != f.ret {
		return Value{}, Continue, diag.New(diag.TypeMismatch, x.Span(), "cannot return %v from a function returning %v", f.format(v.Type), f.format(f.ret))
	}

	var r ir.Reg

	if x.X == nil {
		r = f.ins().IConst(0, tp.Usize)
	} else {
		var err error

		r, err = f.materialize(v, x.X.Span())
		if err != nil {
			return Value{}, Continue, err
		}
	}

	f.ins().Return(r)

	return v, Returned, nil
}
