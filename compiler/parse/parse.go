package parse

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/ChangeCaps/fern/compiler/ast"
	"github.com/ChangeCaps/fern/compiler/diag"
)

type (
	Parser struct {
		b []byte
	}
)

// Parse parses a whole source file.
func Parse(ctx context.Context, text []byte) (p *ast.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse: program", "size", len(text))
	defer tr.Finish("err", &err)

	x := &Parser{b: text}

	p, err = x.ParseProgram(ctx)
	if err != nil {
		return nil, err
	}

	if tr.If("dump_ast") {
		for _, d := range p.Decls {
			tr.Printw("decl", "typ", tlog.NextAsType, d, "span", d.Span())
		}
	}

	return p, nil
}

func (p *Parser) ParseProgram(ctx context.Context) (*ast.Program, error) {
	prog := &ast.Program{}

	for i := 0; ; {
		t, _, err := p.next(i)
		if err != nil {
			return nil, err
		}

		if t.Kind == tEOF {
			return prog, nil
		}

		var d ast.Decl

		d, i, err = p.parseDecl(ctx, i)
		if err != nil {
			return nil, err
		}

		prog.Decls = append(prog.Decls, d)
	}
}

func (p *Parser) parseDecl(ctx context.Context, st int) (x ast.Decl, i int, err error) {
	t, _, err := p.next(st)
	if err != nil {
		return nil, st, err
	}

	switch {
	case p.is(t, tKeyword, "fn"):
		return p.parseFunc(ctx, st)
	case p.is(t, tKeyword, "mod"):
		return p.parseMod(ctx, st)
	default:
		return nil, st, p.unexpected(t, "fn or mod")
	}
}

func (p *Parser) parseFunc(ctx context.Context, st int) (x *ast.Func, i int, err error) {
	kw, i, err := p.expect(st, tKeyword, "fn")
	if err != nil {
		return
	}

	x = &ast.Func{}

	x.Name, i, err = p.parseIdent(i)
	if err != nil {
		return nil, i, err
	}

	_, i, err = p.expect(i, tPunct, "(")
	if err != nil {
		return nil, i, err
	}

	for {
		t, j, err := p.next(i)
		if err != nil {
			return nil, i, err
		}

		if p.is(t, tPunct, ")") {
			i = j
			break
		}

		var a ast.Arg

		a, i, err = p.parseArg(ctx, i)
		if err != nil {
			return nil, i, err
		}

		x.Args = append(x.Args, a)

		t, j, err = p.next(i)
		if err != nil {
			return nil, i, err
		}

		switch {
		case p.is(t, tPunct, ","):
			i = j
		case p.is(t, tPunct, ")"):
		default:
			return nil, i, p.unexpected(t, `"," or ")"`)
		}
	}

	t, j, err := p.next(i)
	if err != nil {
		return nil, i, err
	}

	if p.is(t, tPunct, "->") {
		x.Ret, i, err = p.parseType(ctx, j)
		if err != nil {
			return nil, i, err
		}
	}

	x.Body, i, err = p.parseBlock(ctx, i)
	if err != nil {
		return nil, i, err
	}

	x.Base = ast.At(kw.Span().Join(x.Body.Span()))

	tlog.SpanFromContext(ctx).V("parse").Printw("func", "name", x.Name.Name, "args", len(x.Args), "stmts", len(x.Body.Stmts))

	return x, i, nil
}

func (p *Parser) parseArg(ctx context.Context, st int) (a ast.Arg, i int, err error) {
	a.Name, i, err = p.parseIdent(st)
	if err != nil {
		return
	}

	_, i, err = p.expect(i, tPunct, ":")
	if err != nil {
		return
	}

	a.Type, i, err = p.parseType(ctx, i)
	if err != nil {
		return
	}

	a.Base = ast.At(a.Name.Span().Join(a.Type.Span()))

	return a, i, nil
}

func (p *Parser) parseMod(ctx context.Context, st int) (x *ast.Mod, i int, err error) {
	kw, i, err := p.expect(st, tKeyword, "mod")
	if err != nil {
		return
	}

	x = &ast.Mod{}

	x.Name, i, err = p.parseIdent(i)
	if err != nil {
		return nil, i, err
	}

	_, i, err = p.expect(i, tPunct, "{")
	if err != nil {
		return nil, i, err
	}

	for {
		t, j, err := p.next(i)
		if err != nil {
			return nil, i, err
		}

		if p.is(t, tPunct, "}") {
			x.Base = ast.At(kw.Span().Join(t.Span()))

			return x, j, nil
		}

		var d ast.Decl

		d, i, err = p.parseDecl(ctx, i)
		if err != nil {
			return nil, i, err
		}

		x.Decls = append(x.Decls, d)
	}
}

func (p *Parser) parseBlock(ctx context.Context, st int) (x *ast.Block, i int, err error) {
	open, i, err := p.expect(st, tPunct, "{")
	if err != nil {
		return
	}

	x = &ast.Block{}

	for {
		t, j, err := p.next(i)
		if err != nil {
			return nil, i, err
		}

		if p.is(t, tPunct, "}") {
			x.Base = ast.At(open.Span().Join(t.Span()))

			return x, j, nil
		}

		var s ast.Stmt

		s, i, err = p.parseStmt(ctx, i)
		if err != nil {
			return nil, i, err
		}

		x.Stmts = append(x.Stmts, s)
	}
}

func (p *Parser) parseStmt(ctx context.Context, st int) (x ast.Stmt, i int, err error) {
	t, i, err := p.next(st)
	if err != nil {
		return nil, st, err
	}

	switch {
	case p.is(t, tPunct, ";"):
		return &ast.Noop{Base: ast.At(t.Span())}, i, nil
	case p.is(t, tKeyword, "let"):
		return p.parseLet(ctx, st)
	}

	e, i, err := p.parseExpr(ctx, st)
	if err != nil {
		return nil, i, err
	}

	semi, i, err := p.expect(i, tPunct, ";")
	if err != nil {
		return nil, i, err
	}

	return &ast.ExprStmt{Base: ast.At(e.Span().Join(semi.Span())), X: e}, i, nil
}

func (p *Parser) parseLet(ctx context.Context, st int) (x *ast.Let, i int, err error) {
	kw, i, err := p.expect(st, tKeyword, "let")
	if err != nil {
		return
	}

	x = &ast.Let{}

	x.Name, i, err = p.parseIdent(i)
	if err != nil {
		return nil, i, err
	}

	t, j, err := p.next(i)
	if err != nil {
		return nil, i, err
	}

	if p.is(t, tPunct, ":") {
		x.Type, i, err = p.parseType(ctx, j)
		if err != nil {
			return nil, i, err
		}

		t, j, err = p.next(i)
		if err != nil {
			return nil, i, err
		}
	}

	if p.is(t, tPunct, "=") {
		x.Value, i, err = p.parseExpr(ctx, j)
		if err != nil {
			return nil, i, err
		}
	}

	semi, i, err := p.expect(i, tPunct, ";")
	if err != nil {
		return nil, i, err
	}

	x.Base = ast.At(kw.Span().Join(semi.Span()))

	return x, i, nil
}

func (p *Parser) parseIdent(st int) (x ast.Ident, i int, err error) {
	t, i, err := p.next(st)
	if err != nil {
		return x, st, err
	}

	if t.Kind != tIdent {
		return x, st, p.unexpected(t, "identifier")
	}

	return ast.Ident{Base: ast.At(t.Span()), Name: p.text(t)}, i, nil
}

func (p *Parser) expect(st int, k tokKind, text string) (t token, i int, err error) {
	t, i, err = p.next(st)
	if err != nil {
		return t, st, err
	}

	if !p.is(t, k, text) {
		return t, st, p.unexpected(t, `"`+text+`"`)
	}

	return t, i, nil
}

func (p *Parser) unexpected(t token, want string) error {
	return diag.New(diag.Syntax, t.Span(), "expected %v, got %v", want, p.describe(t))
}
