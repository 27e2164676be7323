package ast

import "strings"

type (
	UnaryOp  int
	BinaryOp int

	Paren struct {
		Base `tlog:",embed"`

		X Expr
	}

	Int struct {
		Base `tlog:",embed"`

		Value int64
	}

	String struct {
		Base `tlog:",embed"`

		Value string
	}

	Path struct {
		Base `tlog:",embed"`

		Absolute bool
		Segments []Segment
	}

	// Segment is either an identifier or the super keyword.
	Segment struct {
		Base `tlog:",embed"`

		Super bool
		Name  string
	}

	Call struct {
		Base `tlog:",embed"`

		Func Expr
		Args []Expr
	}

	Unary struct {
		Base `tlog:",embed"`

		Op UnaryOp
		X  Expr
	}

	Binary struct {
		Base `tlog:",embed"`

		Op BinaryOp
		L  Expr
		R  Expr
	}

	Return struct {
		Base `tlog:",embed"`

		X Expr // nil for bare return
	}

	Builtin struct {
		Base `tlog:",embed"`

		Name string
	}

	PathType struct {
		Base `tlog:",embed"`

		Path *Path
	}

	RefType struct {
		Base `tlog:",embed"`

		X Type
	}
)

const (
	Ref UnaryOp = iota
	Deref
	Neg
)

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	LogicalAnd
	LogicalOr
	BitAnd
	BitOr
	Shr
	Shl
)

func (*Paren) expr()  {}
func (*Int) expr()    {}
func (*String) expr() {}
func (*Path) expr()   {}
func (*Call) expr()   {}
func (*Unary) expr()  {}
func (*Binary) expr() {}
func (*Return) expr() {}

func (*Builtin) typ()  {}
func (*PathType) typ() {}
func (*RefType) typ()  {}

// Ident returns the name if the path is a single relative identifier.
func (p *Path) Ident() (string, bool) {
	if p.Absolute || len(p.Segments) != 1 || p.Segments[0].Super {
		return "", false
	}

	return p.Segments[0].Name, true
}

// Modules returns every segment except the last one.
func (p *Path) Modules() []Segment {
	if len(p.Segments) == 0 {
		return nil
	}

	return p.Segments[:len(p.Segments)-1]
}

func (p *Path) Last() (Segment, bool) {
	if len(p.Segments) == 0 {
		return Segment{}, false
	}

	return p.Segments[len(p.Segments)-1], true
}

func (p *Path) String() string {
	var b strings.Builder

	if p.Absolute {
		b.WriteString("::")
	}

	for i, s := range p.Segments {
		if i != 0 {
			b.WriteString("::")
		}

		b.WriteString(s.String())
	}

	return b.String()
}

func (s Segment) String() string {
	if s.Super {
		return "super"
	}

	return s.Name
}

func (op UnaryOp) String() string {
	switch op {
	case Ref:
		return "&"
	case Deref:
		return "*"
	case Neg:
		return "-"
	default:
		return "?"
	}
}

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case LogicalAnd:
		return "&&"
	case LogicalOr:
		return "||"
	case BitAnd:
		return "&"
	case BitOr:
		return "|"
	case Shr:
		return ">>"
	case Shl:
		return "<<"
	default:
		return "?"
	}
}

// Precedence is higher for tighter binding operators.
func (op BinaryOp) Precedence() int {
	switch op {
	case Mul, Div:
		return 12
	case Add, Sub:
		return 11
	case Shl, Shr:
		return 10
	case BitAnd:
		return 7
	case BitOr:
		return 6
	case LogicalAnd:
		return 4
	case LogicalOr:
		return 3
	default:
		return 0
	}
}
