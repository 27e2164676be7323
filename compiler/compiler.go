package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/ChangeCaps/fern/compiler/diag"
	"github.com/ChangeCaps/fern/compiler/front"
	"github.com/ChangeCaps/fern/compiler/ir"
	"github.com/ChangeCaps/fern/compiler/parse"
)

// CompileFile reads and compiles name.
// The source text is returned along with compile errors so they can be reported.
func CompileFile(ctx context.Context, name string, cfg front.Config) (p *ir.Program, text []byte, err error) {
	text, err = os.ReadFile(name)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	p, err = Compile(ctx, name, text, cfg)

	return p, text, err
}

// Compile parses text and lowers it into IR.
func Compile(ctx context.Context, name string, text []byte, cfg front.Config) (p *ir.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name)
	defer tr.Finish("err", &err)

	x, err := parse.Parse(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	p, err = front.New(cfg).Compile(ctx, x)
	if err != nil {
		return nil, errors.Wrap(err, "front")
	}

	return p, nil
}

// Report renders err for a user. Compile errors are shown with
// file positions resolved against text; anything else as is.
func Report(err error, name string, text []byte) string {
	var d *diag.Error

	if errors.As(err, &d) {
		return d.Report(name, text)
	}

	return err.Error()
}
