package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/evjson/debug"
)

func evjMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Indent < 0 || cfg.MaxDepth < 0 {
		return fmt.Errorf("%w: -indent and -max-depth must not be negative", cli.ErrUsage)
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	if err != nil {
		debug.Logger().Debug("command failed", "command", args[0], "error", err)
	}
	return err
}
