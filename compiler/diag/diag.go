package diag

import (
	"bytes"
	"fmt"
	"strings"

	"tlog.app/go/loc"

	"github.com/ChangeCaps/fern/compiler/ast"
)

type (
	// Kind classifies an Error. Kinds are errors themselves,
	// so errors.Is(err, diag.MissingReturn) works through wrapping.
	Kind int

	Error struct {
		Kind  Kind
		Msg   string
		Span  ast.Span // zero if unknown
		Hints []Hint

		PC loc.PC
	}

	Hint struct {
		Msg  string
		Span ast.Span
	}
)

const (
	_ Kind = iota
	UndefinedPath
	InvalidPath
	TypeMismatch
	ArgumentMismatch
	NotCallable
	InvalidReference
	InvalidDereference
	MissingReturn
	MissingType
	Unsupported
	Redeclared
	InvalidLiteral
	Syntax
)

var kindNames = []string{
	UndefinedPath:      "undefined path",
	InvalidPath:        "invalid path",
	TypeMismatch:       "type mismatch",
	ArgumentMismatch:   "argument mismatch",
	NotCallable:        "not callable",
	InvalidReference:   "invalid reference",
	InvalidDereference: "invalid dereference",
	MissingReturn:      "missing return",
	MissingType:        "missing type",
	Unsupported:        "unsupported construct",
	Redeclared:         "redeclared",
	InvalidLiteral:     "invalid literal",
	Syntax:             "syntax error",
}

func New(k Kind, s ast.Span, format string, args ...any) *Error {
	return &Error{
		Kind: k,
		Msg:  fmt.Sprintf(format, args...),
		Span: s,
		PC:   loc.Caller(1),
	}
}

func (e *Error) WithHint(s ast.Span, format string, args ...any) *Error {
	e.Hints = append(e.Hints, Hint{
		Msg:  fmt.Sprintf(format, args...),
		Span: s,
	})

	return e
}

func (e *Error) Error() string {
	if e.Span.IsZero() {
		return fmt.Sprintf("%v: %v", e.Kind, e.Msg)
	}

	return fmt.Sprintf("%v: %v (at %d:%d)", e.Kind, e.Msg, e.Span.Pos, e.Span.End)
}

func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)

	return ok && k == e.Kind
}

// Report renders the error against the source text with line:col positions.
func (e *Error) Report(name string, text []byte) string {
	var b strings.Builder

	line, col := LineCol(text, e.Span.Pos)
	fmt.Fprintf(&b, "%s:%d:%d: %v: %v", name, line, col, e.Kind, e.Msg)

	for _, h := range e.Hints {
		line, col := LineCol(text, h.Span.Pos)
		fmt.Fprintf(&b, "\n\t%s:%d:%d: %v", name, line, col, h.Msg)
	}

	return b.String()
}

func (k Kind) Error() string { return k.String() }

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// LineCol converts a byte offset into 1-based line and column.
func LineCol(text []byte, pos int) (line, col int) {
	if pos > len(text) {
		pos = len(text)
	}

	line = 1 + bytes.Count(text[:pos], []byte{'\n'})
	col = pos + 1

	if nl := bytes.LastIndexByte(text[:pos], '\n'); nl >= 0 {
		col = pos - nl
	}

	return line, col
}
