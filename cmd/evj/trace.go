package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/evjson/debug"
)

func trace(cfg *TraceConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Trace.Parse(cc, args)
	if err != nil {
		cfg.Trace.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: trace takes at most one file", cli.ErrUsage)
	}
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	d, err := readInput(cc, path)
	if err != nil {
		return err
	}
	p, err := cfg.pipeline()
	if err != nil {
		return err
	}
	var opts []debug.PrintOption
	if c := cfg.colors(cc.Out); c != nil {
		opts = append(opts, debug.PrintColors(c))
	}
	pr := debug.NewPrinter(cc.Out, opts...)
	err = p.Run(cfg.producer(cfg.inFormat(path), d), pr)
	if ferr := pr.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		return fmt.Errorf("error tracing %s: %w", path, err)
	}
	return nil
}
