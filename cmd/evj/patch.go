package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/evjson/patch"
)

func patchDoc(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires a document and a patch", cli.ErrUsage)
	}
	if args[0] == "-" && args[1] == "-" {
		return fmt.Errorf("%w: only one of document and patch may be stdin", cli.ErrUsage)
	}
	doc, err := getObjFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	p, err := getObjFile(cfg.MainConfig, cc, args[1])
	if err != nil {
		return err
	}
	apply := patch.Apply
	if cfg.Merge {
		apply = patch.Merge
	}
	res, err := apply(doc, p)
	if err != nil {
		return fmt.Errorf("error patching %s with %s: %w", args[0], args[1], err)
	}
	return cfg.writeNode(cc.Out, cfg.outFormat(cfg.inFormat(args[0])), res)
}
