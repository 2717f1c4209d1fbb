package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		cfg.Validate.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	failed := 0
	for _, path := range args {
		if _, err := getObjFile(cfg.MainConfig, cc, path); err != nil {
			failed++
			theLog.Error("invalid", "file", path, "error", err)
			continue
		}
		if !cfg.Quiet {
			fmt.Fprintf(cc.Out, "ok %s\n", path)
		}
	}
	if failed != 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}
