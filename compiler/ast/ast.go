package ast

import "tlog.app/go/tlog/tlwire"

type (
	Node interface {
		Span() Span
	}

	Decl interface {
		Node
		decl()
	}

	Stmt interface {
		Node
		stmt()
	}

	Expr interface {
		Node
		expr()
	}

	Type interface {
		Node
		typ()
	}

	// Span is a byte range [Pos, End) in the source text.
	Span struct {
		Pos int
		End int
	}

	Base struct {
		Pos int
		End int
	}

	Ident struct {
		Base `tlog:",embed"`

		Name string
	}

	Program struct {
		Decls []Decl
	}

	Func struct {
		Base `tlog:",embed"`

		Name Ident
		Args []Arg
		Ret  Type // nil if omitted
		Body *Block
	}

	Arg struct {
		Base `tlog:",embed"`

		Name Ident
		Type Type
	}

	Mod struct {
		Base `tlog:",embed"`

		Name  Ident
		Decls []Decl
	}

	Block struct {
		Base `tlog:",embed"`

		Stmts []Stmt
	}

	Noop struct {
		Base `tlog:",embed"`
	}

	ExprStmt struct {
		Base `tlog:",embed"`

		X Expr
	}

	Let struct {
		Base `tlog:",embed"`

		Name  Ident
		Type  Type // nil if omitted
		Value Expr // nil if omitted
	}
)

func (b Base) Span() Span { return Span{Pos: b.Pos, End: b.End} }

func (s Span) IsZero() bool { return s == Span{} }

// Join returns the smallest span covering both.
func (s Span) Join(x Span) Span {
	if x.Pos < s.Pos {
		s.Pos = x.Pos
	}

	if x.End > s.End {
		s.End = x.End
	}

	return s
}

func At(s Span) Base { return Base{Pos: s.Pos, End: s.End} }

func (*Func) decl() {}
func (*Mod) decl()  {}

func (*Noop) stmt()     {}
func (*ExprStmt) stmt() {}
func (*Let) stmt()      {}

func (s Span) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 2)
	b = e.AppendKeyInt64(b, "pos", int64(s.Pos))
	b = e.AppendKeyInt64(b, "end", int64(s.End))

	return b
}
