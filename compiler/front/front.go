package front

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/ChangeCaps/fern/compiler/ast"
	"github.com/ChangeCaps/fern/compiler/ir"
	"github.com/ChangeCaps/fern/compiler/tp"
)

type (
	Config struct {
		// AllowRedeclare lets a later function replace an earlier one
		// with the same name in the same module instead of failing.
		AllowRedeclare bool
	}

	// Front owns every table of one compilation.
	Front struct {
		cfg Config

		types  *tp.Types
		sigs   *tp.Signatures
		blocks *ir.Blocks

		decls *Declarations
		funcs Functions
	}
)

func New(cfg Config) *Front {
	return &Front{cfg: cfg}
}

// Compile runs collection, function table construction and lowering.
// The first error aborts the whole compilation.
func (c *Front) Compile(ctx context.Context, p *ast.Program) (_ *ir.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "front: compile program", "decls", len(p.Decls))
	defer tr.Finish("err", &err)

	c.types = tp.NewTypes()
	c.sigs = tp.NewSignatures()
	c.blocks = ir.NewBlocks()

	c.decls, err = c.collect(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, "collect declarations")
	}

	c.funcs, err = c.buildFuncs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "function table")
	}

	prog := &ir.Program{
		Types:      c.types,
		Signatures: c.sigs,
		Blocks:     c.blocks,
		Funcs:      make([]*ir.Function, len(c.funcs)),
	}

	for id, fn := range c.funcs {
		prog.Funcs[id], err = c.compileFunc(ctx, ir.FuncID(id))
		if err != nil {
			return nil, errors.Wrap(err, "function %v", fn.Name)
		}
	}

	tr.Printw("compiled", "funcs", len(prog.Funcs), "types", c.types.Len(), "signatures", c.sigs.Len(), "blocks", c.blocks.Len())

	return prog, nil
}

func (c *Front) collect(ctx context.Context, p *ast.Program) (d *Declarations, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "front: collect declarations")
	defer tr.Finish("err", &err)

	d, err = Collect(p, c.cfg.AllowRedeclare)
	if err != nil {
		return nil, err
	}

	if tr.If("dump_decls") {
		for id, m := range d.Modules {
			tr.Printw("module", "id", id, "path", d.ModulePath(ModuleID(id)), "super", m.Super, "funcs", len(m.Funcs), "subs", len(m.Subs))
		}
	}

	return d, nil
}

func (c *Front) buildFuncs(ctx context.Context) (fs Functions, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "front: build function table", "funcs", len(c.decls.Funcs))
	defer tr.Finish("err", &err)

	fs, err = BuildFunctions(c.decls, c.types, c.sigs)
	if err != nil {
		return nil, err
	}

	if tr.If("dump_decls") {
		for id, f := range fs {
			tr.Printw("function", "id", id, "name", f.Name, "sig", f.Sig, "type", c.types.Format(tp.Func(f.Sig), c.sigs))
		}
	}

	return fs, nil
}

func (c *Front) Declarations() *Declarations { return c.decls }

func (c *Front) Functions() Functions { return c.funcs }
