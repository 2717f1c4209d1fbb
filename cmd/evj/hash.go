package main

import (
	"encoding/hex"
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/evjson/digest"
)

func hash(cfg *HashConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Hash.Parse(cc, args)
	if err != nil {
		cfg.Hash.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	var opts []digest.Option
	if cfg.Key != "" {
		key, err := hex.DecodeString(cfg.Key)
		if err != nil {
			return fmt.Errorf("%w: -key: %w", cli.ErrUsage, err)
		}
		if len(key) != digest.Size {
			return fmt.Errorf("%w: -key must be %d bytes, got %d", cli.ErrUsage, digest.Size, len(key))
		}
		opts = append(opts, digest.WithKey(key))
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, path := range args {
		d, err := readInput(cc, path)
		if err != nil {
			return err
		}
		p, err := cfg.pipeline()
		if err != nil {
			return err
		}
		dg, err := digest.New(opts...)
		if err != nil {
			return err
		}
		if err := p.Run(cfg.producer(cfg.inFormat(path), d), dg); err != nil {
			return fmt.Errorf("error hashing %s: %w", path, err)
		}
		sum, err := dg.Hex()
		if err != nil {
			return err
		}
		fmt.Fprintf(cc.Out, "%s  %s\n", sum, path)
	}
	return nil
}
