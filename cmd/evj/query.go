package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/evjson/ir"
)

func query(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		cfg.Query.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("%w: query requires a path and at most one file", cli.ErrUsage)
	}
	expr := args[0]
	if expr == "" {
		return fmt.Errorf("%w: invalid query \"\"", cli.ErrUsage)
	}
	if expr[0] != '$' {
		expr = "$" + expr
	}
	path := "-"
	if len(args) == 2 {
		path = args[1]
	}
	doc, err := getObjFile(cfg.MainConfig, cc, path)
	if err != nil {
		return err
	}
	res, err := ir.Select(doc, expr)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	f := cfg.outFormat(cfg.inFormat(path))
	if cfg.First {
		if len(res) == 0 {
			return cli.ExitCodeErr(1)
		}
		return cfg.writeNode(cc.Out, f, res[0])
	}
	return cfg.writeNode(cc.Out, f, ir.FromSlice(res))
}
