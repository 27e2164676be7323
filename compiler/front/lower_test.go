package front

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChangeCaps/fern/compiler/ast"
	"github.com/ChangeCaps/fern/compiler/diag"
	"github.com/ChangeCaps/fern/compiler/ir"
	"github.com/ChangeCaps/fern/compiler/tp"
)

func TestCompileAdd(t *testing.T) {
	p, _ := compileOK(t, `fn add(a: i32, b: i32) -> i32 { return a + b; }`)

	require.Len(t, p.Funcs, 1)

	f := p.Funcs[0]
	assert.Equal(t, "add", f.Label)
	assert.Equal(t, uint32(3), f.Regs)

	i32, ok := p.Types.Lookup(tp.Mem(tp.I32))
	require.True(t, ok)

	assert.Equal(t, tp.Signature{Args: []tp.TypeID{i32, i32}, Ret: i32}, p.Signatures.Resolve(f.Sig))
	assert.Equal(t, []ir.StackAlloc{{Type: i32}, {Type: i32}}, f.Stack.Slots)

	assert.Equal(t, []ir.Instruction{
		ir.StackLoad{Dst: 0, Slot: 0, Type: tp.I32},
		ir.StackLoad{Dst: 1, Slot: 1, Type: tp.I32},
		ir.Add{Dst: 2, L: 0, R: 1},
		ir.Return{Src: 2},
	}, code(p, 0))
}

func TestCompileShadowing(t *testing.T) {
	p, _ := compileOK(t, `fn f() -> i32 { let x: i32 = 1; let x: i32 = 2; return x; }`)

	assert.Equal(t, []ir.Instruction{
		ir.IConst{Dst: 0, Imm: 1, Type: tp.I32},
		ir.StackStore{Src: 0, Slot: 0, Type: tp.I32},
		ir.IConst{Dst: 0, Imm: 2, Type: tp.I32},
		ir.StackStore{Src: 0, Slot: 1, Type: tp.I32},
		ir.StackLoad{Dst: 0, Slot: 1, Type: tp.I32},
		ir.Return{Src: 0},
	}, code(p, 0))

	assert.Equal(t, 2, p.Funcs[0].Stack.Len())
	assert.Equal(t, uint32(1), p.Funcs[0].Regs)
}

func TestCompileFlatScope(t *testing.T) {
	p, _ := compileOK(t, `
fn g() {}
fn f() -> i32 {
	let x: i32 = 7;
	g();
	let y = 1;
	return x;
}`)

	f := code(p, 1)
	assert.Equal(t, ir.StackLoad{Dst: 0, Slot: 0, Type: tp.I32}, f[len(f)-2])
}

func TestCompileCall(t *testing.T) {
	p, _ := compileOK(t, `
fn g(a: i32) -> i32 { return a; }
fn f() -> i32 { return g(1); }
`)

	assert.Equal(t, []ir.Instruction{
		ir.IConst{Dst: 0, Imm: 1, Type: tp.I32},
		ir.Call{Dst: 1, Func: 0, Args: []ir.Reg{0}},
		ir.Return{Src: 1},
	}, code(p, 1))

	assert.NotEqual(t, p.Funcs[0].Sig, p.Funcs[1].Sig)
}

func TestCompileSharedSignature(t *testing.T) {
	p, _ := compileOK(t, `fn a(x: u8) -> u8 { return x; } fn b(y: u8) -> u8 { return y; }`)

	assert.Equal(t, p.Funcs[0].Sig, p.Funcs[1].Sig)
	assert.Equal(t, 1, p.Signatures.Len())
}

func TestCompileModulePaths(t *testing.T) {
	p, c := compileOK(t, `
fn top() -> i32 { return 1; }
mod a {
	mod b {
		fn f() -> i32 { return super::super::top(); }
	}
	fn g() -> i32 { return b::f(); }
}
fn h() -> i32 { return ::a::g(); }
`)

	require.Len(t, p.Funcs, 4)

	assert.Equal(t, "::a::b::f", p.Funcs[1].Label)
	assert.Equal(t, "::a::g", c.Functions()[2].Name)

	assert.Equal(t, ir.Call{Dst: 0, Func: 0, Args: []ir.Reg{}}, code(p, 1)[0])
	assert.Equal(t, ir.Call{Dst: 0, Func: 1, Args: []ir.Reg{}}, code(p, 2)[0])
	assert.Equal(t, ir.Call{Dst: 0, Func: 2, Args: []ir.Reg{}}, code(p, 3)[0])

	_, _, err := compileSrc(t, Config{}, `mod a { fn f() { super::super::g(); } }`)
	require.ErrorIs(t, err, diag.InvalidPath)

	_, _, err = compileSrc(t, Config{}, `fn f() { g(); }`)
	require.ErrorIs(t, err, diag.UndefinedPath)

	_, _, err = compileSrc(t, Config{}, `fn f() { x::g(); }`)
	require.ErrorIs(t, err, diag.InvalidPath)
}

func TestCompileRefDeref(t *testing.T) {
	p, _ := compileOK(t, `fn f() -> i32 { let x: i32 = 1; let p: &i32 = &x; return *p; }`)

	assert.Equal(t, []ir.Instruction{
		ir.IConst{Dst: 0, Imm: 1, Type: tp.I32},
		ir.StackStore{Src: 0, Slot: 0, Type: tp.I32},
		ir.StackAddr{Dst: 0, Slot: 0, Type: tp.Usize},
		ir.StackStore{Src: 0, Slot: 1, Type: tp.Usize},
		ir.StackLoad{Dst: 0, Slot: 1, Type: tp.Usize},
		ir.Load{Dst: 1, Src: 0, Type: tp.I32},
		ir.Return{Src: 1},
	}, code(p, 0))

	ref := p.Types.Resolve(p.Funcs[0].Stack.Slots[1].Type)
	assert.Equal(t, "&i32", p.Types.Format(ref, p.Signatures))
}

func TestCompileFuncValue(t *testing.T) {
	p, _ := compileOK(t, `fn g() {} fn f() { let h = g; }`)

	assert.Equal(t, []ir.Instruction{
		ir.FuncAddr{Dst: 0, Func: 0, Type: tp.Usize},
		ir.StackStore{Src: 0, Slot: 0, Type: tp.Usize},
	}, code(p, 1))

	_, _, err := compileSrc(t, Config{}, `fn g() {} fn f() { let h = g; h(); }`)
	require.ErrorIs(t, err, diag.Unsupported)
}

func TestCompileReturn(t *testing.T) {
	p, _ := compileOK(t, `fn f() { return; } fn g() {} fn h() -> i32 { return 1; undefined(); }`)

	assert.Equal(t, []ir.Instruction{
		ir.IConst{Dst: 0, Imm: 0, Type: tp.Usize},
		ir.Return{Src: 0},
	}, code(p, 0))

	assert.Empty(t, code(p, 1))
	assert.Len(t, code(p, 2), 2)

	_, _, err := compileSrc(t, Config{}, `fn f() -> i32 {}`)
	require.ErrorIs(t, err, diag.MissingReturn)

	var e *diag.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ast.Span{Pos: 3, End: 4}, e.Span)

	_, _, err = compileSrc(t, Config{}, `fn f() -> i32 { return; }`)
	require.ErrorIs(t, err, diag.TypeMismatch)

	_, _, err = compileSrc(t, Config{}, `fn f() { return 1; }`)
	require.ErrorIs(t, err, diag.TypeMismatch)
}

func TestCompileDerefKinds(t *testing.T) {
	for _, tc := range []struct {
		src  string
		fn   ir.FuncID
		code []ir.Instruction
	}{
		{`fn f(p: &void) { *p; }`, 0, []ir.Instruction{
			ir.StackLoad{Dst: 0, Slot: 0, Type: tp.Usize},
		}},
		{`fn f(p: &&i32) -> &i32 { return *p; }`, 0, []ir.Instruction{
			ir.StackLoad{Dst: 0, Slot: 0, Type: tp.Usize},
			ir.Load{Dst: 1, Src: 0, Type: tp.Usize},
			ir.Return{Src: 1},
		}},
		{`fn g() {} fn f() { let h = g; let p = &h; *p; }`, 1, []ir.Instruction{
			ir.FuncAddr{Dst: 0, Func: 0, Type: tp.Usize},
			ir.StackStore{Src: 0, Slot: 0, Type: tp.Usize},
			ir.StackAddr{Dst: 0, Slot: 0, Type: tp.Usize},
			ir.StackStore{Src: 0, Slot: 1, Type: tp.Usize},
			ir.StackLoad{Dst: 0, Slot: 1, Type: tp.Usize},
			ir.Load{Dst: 1, Src: 0, Type: tp.Usize},
		}},
	} {
		p, _ := compileOK(t, tc.src)
		assert.Equal(t, tc.code, code(p, tc.fn), "src: %v", tc.src)
	}
}

func TestCompileNestedReturn(t *testing.T) {
	for _, tc := range []struct {
		src   string
		fn    ir.FuncID
		code  []ir.Instruction
		slots int
	}{
		{`fn f() -> i32 { let x = return 1; }`, 0, []ir.Instruction{
			ir.IConst{Dst: 0, Imm: 1, Type: tp.I32},
			ir.Return{Src: 0},
		}, 0},
		{`fn f() -> i32 { return 1 + return 2; }`, 0, []ir.Instruction{
			ir.IConst{Dst: 0, Imm: 1, Type: tp.I32},
			ir.IConst{Dst: 1, Imm: 2, Type: tp.I32},
			ir.Return{Src: 1},
		}, 0},
		{`fn g(a: i32) -> i32 { return a; } fn f() -> i32 { g(return 5); }`, 1, []ir.Instruction{
			ir.IConst{Dst: 0, Imm: 5, Type: tp.I32},
			ir.Return{Src: 0},
		}, 0},
		{`fn f() -> i32 { let x: i32 = 1; return x; let y: i32 = 2; undefined(); }`, 0, []ir.Instruction{
			ir.IConst{Dst: 0, Imm: 1, Type: tp.I32},
			ir.StackStore{Src: 0, Slot: 0, Type: tp.I32},
			ir.StackLoad{Dst: 0, Slot: 0, Type: tp.I32},
			ir.Return{Src: 0},
		}, 1},
	} {
		p, _ := compileOK(t, tc.src)
		assert.Equal(t, tc.code, code(p, tc.fn), "src: %v", tc.src)
		assert.Equal(t, tc.slots, p.Funcs[tc.fn].Stack.Len(), "src: %v", tc.src)
	}
}

func TestCompileVoidLet(t *testing.T) {
	p, _ := compileOK(t, `fn g() {} fn f() { let x = g(); let y: void; }`)

	assert.Equal(t, []ir.Instruction{
		ir.Call{Dst: 0, Func: 0, Args: []ir.Reg{}},
	}, code(p, 1))
	assert.Equal(t, 2, p.Funcs[1].Stack.Len())
}

func TestCompileRedeclare(t *testing.T) {
	src := `fn f() -> i32 { return 1; } fn f() -> i32 { return 2; } fn g() -> i32 { return f(); }`

	_, _, err := compileSrc(t, Config{}, src)
	require.ErrorIs(t, err, diag.Redeclared)

	p, _, err := compileSrc(t, Config{AllowRedeclare: true}, src)
	require.NoError(t, err)
	require.Len(t, p.Funcs, 3)

	assert.Equal(t, ir.Call{Dst: 0, Func: 1, Args: []ir.Reg{}}, code(p, 2)[0])
}

func TestCompileErrors(t *testing.T) {
	for _, tc := range []struct {
		src  string
		kind diag.Kind
	}{
		{`fn f() { let x: i32 = 1; x(); }`, diag.NotCallable},
		{`fn f() { 1(); }`, diag.NotCallable},
		{`fn g(a: i32) {} fn f() { g(); }`, diag.ArgumentMismatch},
		{`fn g(a: i32) {} fn f() { g(1, 2); }`, diag.ArgumentMismatch},
		{`fn g(a: i32) {} fn f() { let y: i64; g(y); }`, diag.ArgumentMismatch},
		{`fn f() { &1; }`, diag.InvalidReference},
		{`fn f() { let x: i32 = 1; *x; }`, diag.InvalidDereference},
		{`fn f() { "str"; }`, diag.Unsupported},
		{`fn f() { -1; }`, diag.Unsupported},
		{`fn f() { 1 - 2; }`, diag.Unsupported},
		{`fn f() { 1 * 2; }`, diag.Unsupported},
		{`fn f() { let b: bool; b + b; }`, diag.Unsupported},
		{`fn f(p: Point) {}`, diag.Unsupported},
		{`fn f() { let a: i64; 1 + a; }`, diag.TypeMismatch},
		{`fn f() { let x: i64 = 1; }`, diag.TypeMismatch},
		{`fn f() { let x; }`, diag.MissingType},
		{`fn f() { 3000000000; }`, diag.InvalidLiteral},
		{`fn f() { y; }`, diag.UndefinedPath},
	} {
		_, _, err := compileSrc(t, Config{}, tc.src)
		assert.ErrorIs(t, err, tc.kind, "src: %v", tc.src)
	}
}

func TestCompileFreshTables(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})

	p1, err := c.Compile(ctx, parseSrc(t, `fn f(a: i64) {}`))
	require.NoError(t, err)

	p2, err := c.Compile(ctx, parseSrc(t, `fn f(a: i32) {}`))
	require.NoError(t, err)

	assert.NotSame(t, p1.Types, p2.Types)
	assert.Equal(t, "fn(i32) -> void", p2.Types.Format(tp.Func(p2.Funcs[0].Sig), p2.Signatures))
}

func compileOK(t *testing.T, src string) (*ir.Program, *Front) {
	t.Helper()

	p, c, err := compileSrc(t, Config{}, src)
	require.NoError(t, err)

	return p, c
}

func compileSrc(t *testing.T, cfg Config, src string) (*ir.Program, *Front, error) {
	t.Helper()

	c := New(cfg)

	p, err := c.Compile(context.Background(), parseSrc(t, src))

	return p, c, err
}

func code(p *ir.Program, id ir.FuncID) []ir.Instruction {
	return p.Entry(p.Func(id)).Code
}
