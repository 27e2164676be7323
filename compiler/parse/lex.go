package parse

import (
	"strconv"
	"strings"

	"github.com/ChangeCaps/fern/compiler/ast"
	"github.com/ChangeCaps/fern/compiler/diag"
)

type (
	tokKind uint8

	token struct {
		Kind tokKind
		Pos  int
		End  int
	}
)

const (
	tEOF tokKind = iota
	tIdent
	tKeyword
	tInt
	tString
	tPunct
)

var puncts2 = []string{"::", "->", "&&", "||", "<<", ">>"}

func (t token) Span() ast.Span { return ast.Span{Pos: t.Pos, End: t.End} }

func (k tokKind) String() string {
	switch k {
	case tEOF:
		return "end of file"
	case tIdent:
		return "identifier"
	case tKeyword:
		return "keyword"
	case tInt:
		return "integer"
	case tString:
		return "string"
	case tPunct:
		return "punctuation"
	default:
		return "token"
	}
}

func (p *Parser) text(t token) string { return string(p.b[t.Pos:t.End]) }

func (p *Parser) is(t token, k tokKind, text string) bool {
	return t.Kind == k && p.text(t) == text
}

func (p *Parser) describe(t token) string {
	if t.Kind == tEOF {
		return t.Kind.String()
	}

	return strconv.Quote(p.text(t))
}

// next returns the token starting at or after st and the position after it.
func (p *Parser) next(st int) (t token, i int, err error) {
	b := p.b

	i = skipSpaces(b, st)

	if i == len(b) {
		return token{Kind: tEOF, Pos: i, End: i}, i, nil
	}

	st = i
	c := b[i]

	switch {
	case c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		i = skipIdent(b, i+1)

		switch string(b[st:i]) {
		case "fn", "mod", "let", "return", "super":
			return token{Kind: tKeyword, Pos: st, End: i}, i, nil
		}

		return token{Kind: tIdent, Pos: st, End: i}, i, nil
	case c >= '0' && c <= '9':
		i = skipIdent(b, i+1)

		return token{Kind: tInt, Pos: st, End: i}, i, nil
	case c == '"':
		i, err = skipString(b, i+1)
		if err != nil {
			return token{}, st, diag.New(diag.Syntax, ast.Span{Pos: st, End: i}, "unterminated string literal")
		}

		return token{Kind: tString, Pos: st, End: i}, i, nil
	}

	for _, pp := range puncts2 {
		if i+2 <= len(b) && string(b[i:i+2]) == pp {
			return token{Kind: tPunct, Pos: st, End: i + 2}, i + 2, nil
		}
	}

	switch c {
	case '(', ')', '{', '}', ':', ';', ',', '=', '+', '-', '*', '/', '&', '|', '<', '>':
		return token{Kind: tPunct, Pos: st, End: i + 1}, i + 1, nil
	}

	return token{}, st, diag.New(diag.Syntax, ast.Span{Pos: st, End: st + 1}, "unexpected character %q", c)
}

// parseInt accepts decimal, 0x hex and 0b binary literals with _ separators.
func parseInt(s string) (int64, bool) {
	base := 10

	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base = 16
		s = s[2:]
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		base = 2
		s = s[2:]
	}

	if s == "" || s[0] == '_' || s[len(s)-1] == '_' {
		return 0, false
	}

	s = strings.ReplaceAll(s, "_", "")

	v, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

func unquote(s string) string {
	s = s[1 : len(s)-1]

	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}

		i++

		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

func skipSpaces(b []byte, i int) int {
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\n', '\r':
			i++
			continue
		case '/':
			if i+1 < len(b) && b[i+1] == '/' {
				i = skipLine(b, i)
				continue
			}
		}

		break
	}

	return i
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && (b[i] == '_' ||
		b[i] >= 'A' && b[i] <= 'Z' ||
		b[i] >= 'a' && b[i] <= 'z' ||
		b[i] >= '0' && b[i] <= '9') {
		i++
	}

	return i
}

func skipLine(b []byte, i int) int {
	for i < len(b) && b[i] != '\n' {
		i++
	}

	return i
}

func skipString(b []byte, i int) (int, error) {
	for i < len(b) {
		switch b[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1, nil
		case '\n':
			return i, diag.Syntax
		default:
			i++
		}
	}

	return len(b), diag.Syntax
}
