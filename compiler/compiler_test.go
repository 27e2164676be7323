package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/ChangeCaps/fern/compiler/diag"
	"github.com/ChangeCaps/fern/compiler/front"
)

func TestCompile(t *testing.T) {
	p, err := Compile(context.Background(), "add.fe", []byte(`fn add(a: i32, b: i32) -> i32 { return a + b; }`), front.Config{})
	require.NoError(t, err)
	require.Len(t, p.Funcs, 1)
	assert.Equal(t, "add", p.Funcs[0].Label)
}

func TestCompileFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "main.fe")

	err := os.WriteFile(name, []byte("mod m { fn f() {} }\nfn main() { m::f(); }\n"), 0o644)
	require.NoError(t, err)

	p, text, err := CompileFile(context.Background(), name, front.Config{})
	require.NoError(t, err)
	assert.Len(t, p.Funcs, 2)
	assert.Contains(t, string(text), "mod m")

	bad := filepath.Join(t.TempDir(), "bad.fe")

	err = os.WriteFile(bad, []byte("fn main() -> i32 {\n}\n"), 0o644)
	require.NoError(t, err)

	_, text, err = CompileFile(context.Background(), bad, front.Config{})
	require.ErrorIs(t, err, diag.MissingReturn)
	assert.Equal(t, "bad.fe:1:4: missing return: function main must return i32", Report(err, "bad.fe", text))

	_, text, err = CompileFile(context.Background(), filepath.Join(t.TempDir(), "missing.fe"), front.Config{})
	assert.Error(t, err)
	assert.Nil(t, text)
}

func TestReport(t *testing.T) {
	text := []byte("fn main() {\n\tf();\n}\n\nfn f() {}\nfn f() {}\n")

	_, err := Compile(context.Background(), "x.fe", text, front.Config{})
	require.ErrorIs(t, err, diag.Redeclared)

	assert.Equal(t, "x.fe:6:4: redeclared: function f redeclared in ::\n\tx.fe:5:4: previous declaration of f", Report(err, "x.fe", text))

	text = []byte("fn main() -> i32 {\n}\n")

	_, err = Compile(context.Background(), "y.fe", text, front.Config{})
	require.ErrorIs(t, err, diag.MissingReturn)

	assert.Equal(t, "y.fe:1:4: missing return: function main must return i32", Report(err, "y.fe", text))

	assert.Equal(t, "plain", Report(errors.New("plain"), "z.fe", nil))
}
