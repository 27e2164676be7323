package parse

import (
	"context"

	"github.com/ChangeCaps/fern/compiler/ast"
	"github.com/ChangeCaps/fern/compiler/diag"
	"github.com/ChangeCaps/fern/compiler/tp"
)

var binaryOps = map[string]ast.BinaryOp{
	"+":  ast.Add,
	"-":  ast.Sub,
	"*":  ast.Mul,
	"/":  ast.Div,
	"&&": ast.LogicalAnd,
	"||": ast.LogicalOr,
	"&":  ast.BitAnd,
	"|":  ast.BitOr,
	">>": ast.Shr,
	"<<": ast.Shl,
}

func (p *Parser) parseExpr(ctx context.Context, st int) (ast.Expr, int, error) {
	return p.parseBinary(ctx, st, 0)
}

// parseBinary is precedence climbing: operators binding tighter than prec
// are folded into the right operand. All operators are left-associative.
func (p *Parser) parseBinary(ctx context.Context, st int, prec int) (x ast.Expr, i int, err error) {
	x, i, err = p.parseUnary(ctx, st)
	if err != nil {
		return
	}

	for {
		t, j, err := p.next(i)
		if err != nil {
			return nil, i, err
		}

		if t.Kind != tPunct {
			return x, i, nil
		}

		op, ok := binaryOps[p.text(t)]
		if !ok || op.Precedence() < prec {
			return x, i, nil
		}

		var y ast.Expr

		y, i, err = p.parseBinary(ctx, j, op.Precedence()+1)
		if err != nil {
			return nil, i, err
		}

		x = &ast.Binary{
			Base: ast.At(x.Span().Join(y.Span())),
			Op:   op,
			L:    x,
			R:    y,
		}
	}
}

func (p *Parser) parseUnary(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	t, i, err := p.next(st)
	if err != nil {
		return nil, st, err
	}

	var ops []ast.UnaryOp

	switch {
	case p.is(t, tPunct, "&"):
		ops = []ast.UnaryOp{ast.Ref}
	case p.is(t, tPunct, "&&"):
		ops = []ast.UnaryOp{ast.Ref, ast.Ref}
	case p.is(t, tPunct, "*"):
		ops = []ast.UnaryOp{ast.Deref}
	case p.is(t, tPunct, "-"):
		ops = []ast.UnaryOp{ast.Neg}
	default:
		return p.parsePostfix(ctx, st)
	}

	x, i, err = p.parseUnary(ctx, i)
	if err != nil {
		return nil, i, err
	}

	for k := len(ops) - 1; k >= 0; k-- {
		x = &ast.Unary{
			Base: ast.At(t.Span().Join(x.Span())),
			Op:   ops[k],
			X:    x,
		}
	}

	return x, i, nil
}

func (p *Parser) parsePostfix(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	x, i, err = p.parsePrimary(ctx, st)
	if err != nil {
		return
	}

	for {
		t, j, err := p.next(i)
		if err != nil {
			return nil, i, err
		}

		if !p.is(t, tPunct, "(") {
			return x, i, nil
		}

		call := &ast.Call{Func: x}
		i = j

		for {
			t, j, err = p.next(i)
			if err != nil {
				return nil, i, err
			}

			if p.is(t, tPunct, ")") {
				i = j
				break
			}

			var a ast.Expr

			a, i, err = p.parseExpr(ctx, i)
			if err != nil {
				return nil, i, err
			}

			call.Args = append(call.Args, a)

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

		call.Base = ast.At(x.Span().Join(t.Span()))
		x = call
	}
}

func (p *Parser) parsePrimary(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	t, i, err := p.next(st)
	if err != nil {
		return nil, st, err
	}

	switch {
	case p.is(t, tPunct, "("):
		var y ast.Expr

		y, i, err = p.parseExpr(ctx, i)
		if err != nil {
			return nil, i, err
		}

		cl, i, err := p.expect(i, tPunct, ")")
		if err != nil {
			return nil, i, err
		}

		return &ast.Paren{Base: ast.At(t.Span().Join(cl.Span())), X: y}, i, nil
	case t.Kind == tInt:
		v, ok := parseInt(p.text(t))
		if !ok {
			return nil, st, diag.New(diag.InvalidLiteral, t.Span(), "invalid integer literal %v", p.text(t))
		}

		return &ast.Int{Base: ast.At(t.Span()), Value: v}, i, nil
	case t.Kind == tString:
		return &ast.String{Base: ast.At(t.Span()), Value: unquote(p.text(t))}, i, nil
	case p.is(t, tKeyword, "return"):
		return p.parseReturn(ctx, t, i)
	case t.Kind == tIdent, p.is(t, tKeyword, "super"), p.is(t, tPunct, "::"):
		return p.parsePath(st)
	default:
		return nil, st, p.unexpected(t, "expression")
	}
}

func (p *Parser) parseReturn(ctx context.Context, kw token, st int) (x *ast.Return, i int, err error) {
	x = &ast.Return{Base: ast.At(kw.Span())}

	t, _, err := p.next(st)
	if err != nil {
		return nil, st, err
	}

	switch {
	case t.Kind == tEOF, p.is(t, tPunct, ";"), p.is(t, tPunct, ")"), p.is(t, tPunct, ","), p.is(t, tPunct, "}"):
		return x, st, nil
	}

	x.X, i, err = p.parseExpr(ctx, st)
	if err != nil {
		return nil, i, err
	}

	x.Base = ast.At(kw.Span().Join(x.X.Span()))

	return x, i, nil
}

func (p *Parser) parsePath(st int) (x *ast.Path, i int, err error) {
	x = &ast.Path{}
	i = st

	t, j, err := p.next(i)
	if err != nil {
		return nil, i, err
	}

	start := t.Span()

	if p.is(t, tPunct, "::") {
		x.Absolute = true
		i = j
	}

	for {
		t, j, err = p.next(i)
		if err != nil {
			return nil, i, err
		}

		switch {
		case p.is(t, tKeyword, "super"):
			x.Segments = append(x.Segments, ast.Segment{Base: ast.At(t.Span()), Super: true})
		case t.Kind == tIdent:
			x.Segments = append(x.Segments, ast.Segment{Base: ast.At(t.Span()), Name: p.text(t)})
		default:
			return nil, i, p.unexpected(t, "path segment")
		}

		i = j

		t, j, err = p.next(i)
		if err != nil {
			return nil, i, err
		}

		if !p.is(t, tPunct, "::") {
			break
		}

		i = j
	}

	last := x.Segments[len(x.Segments)-1]
	x.Base = ast.At(start.Join(last.Span()))

	return x, i, nil
}

func (p *Parser) parseType(ctx context.Context, st int) (x ast.Type, i int, err error) {
	t, i, err := p.next(st)
	if err != nil {
		return nil, st, err
	}

	switch {
	case p.is(t, tPunct, "&"), p.is(t, tPunct, "&&"):
		var elem ast.Type

		elem, i, err = p.parseType(ctx, i)
		if err != nil {
			return nil, i, err
		}

		x = &ast.RefType{Base: ast.At(t.Span().Join(elem.Span())), X: elem}

		if p.text(t) == "&&" {
			x = &ast.RefType{Base: ast.At(t.Span().Join(elem.Span())), X: x}
		}

		return x, i, nil
	case t.Kind == tIdent && isBuiltin(p.text(t)):
		return &ast.Builtin{Base: ast.At(t.Span()), Name: p.text(t)}, i, nil
	case t.Kind == tIdent, p.is(t, tKeyword, "super"), p.is(t, tPunct, "::"):
		path, i, err := p.parsePath(st)
		if err != nil {
			return nil, i, err
		}

		return &ast.PathType{Base: path.Base, Path: path}, i, nil
	default:
		return nil, st, p.unexpected(t, "type")
	}
}

func isBuiltin(name string) bool {
	if name == "void" {
		return true
	}

	_, ok := tp.ParseMemory(name)

	return ok
}
