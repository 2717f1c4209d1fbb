package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		cfg.Convert.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: convert takes at most one file", cli.ErrUsage)
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
	in := cfg.inFormat(path)
	out := cfg.outFormat(in)
	w, closeW, err := cfg.compressed(cc.Out)
	if err != nil {
		return err
	}
	if err := p.Run(cfg.producer(in, d), cfg.writer(out, w)); err != nil {
		closeW()
		return fmt.Errorf("error converting %s from %s to %s: %w", path, in, out, err)
	}
	return closeW()
}
