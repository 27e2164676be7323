package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/ChangeCaps/fern/compiler"
	"github.com/ChangeCaps/fern/compiler/diag"
	"github.com/ChangeCaps/fern/compiler/format"
	"github.com/ChangeCaps/fern/compiler/front"
	"github.com/ChangeCaps/fern/compiler/parse"
)

func main() {
	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "parse files and report syntax errors",
		Action:      parseAct,
		Args:        cli.Args{},
	}

	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "lower files into ir and print it",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("ptr-size", format.DefaultPtrSize, "target pointer width in bytes"),
			cli.NewFlag("allow-redeclare", false, "later function declarations replace earlier ones"),
		},
	}

	app := &cli.Command{
		Name:        "fern",
		Description: "fern is a compiler front end for the fern language",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("verbosity,v", "", "tlog verbosity topics"),
			cli.NewFlag("dump-ast", false, "log parsed declarations"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			parseCmd,
			compileCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	v := c.String("verbosity")

	if c.Bool("dump-ast") {
		if v != "" {
			v += ","
		}

		v += "dump_ast"
	}

	tlog.SetVerbosity(v)

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		x, err := parse.Parse(ctx, text)
		if err != nil {
			return report(err, a, text)
		}

		fmt.Printf("%v: %d declarations\n", a, len(x.Decls))
	}

	return nil
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	cfg := front.Config{
		AllowRedeclare: c.Bool("allow-redeclare"),
	}

	ptrSize := int64(c.Int("ptr-size"))

	for _, a := range c.Args {
		p, text, err := compiler.CompileFile(ctx, a, cfg)
		if err != nil {
			if text == nil {
				return errors.Wrap(err, "compile %v", a)
			}

			return report(err, a, text)
		}

		os.Stdout.Write(format.Program(nil, p, ptrSize))
	}

	return nil
}

func report(err error, name string, text []byte) error {
	fmt.Fprintf(os.Stderr, "%s\n", compiler.Report(err, name, text))

	var d *diag.Error
	if errors.As(err, &d) {
		tlog.Printw("compile error", "kind", d.Kind.String(), "span", d.Span, "from", d.PC)
	}

	return errors.New("%v: compilation failed", name)
}
