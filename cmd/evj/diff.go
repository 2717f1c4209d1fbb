package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
	"github.com/signadot/evjson/filter"
	"github.com/signadot/evjson/ir"
	"github.com/signadot/evjson/jsonev"
	"github.com/signadot/evjson/libdiff"
	"github.com/signadot/evjson/pipe"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires two files", cli.ErrUsage)
	}
	if cfg.Patch && cfg.Lines {
		return fmt.Errorf("%w: -patch and -lines are exclusive", cli.ErrUsage)
	}
	from, err := getObjFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	to, err := getObjFile(cfg.MainConfig, cc, args[1])
	if err != nil {
		return err
	}
	if cfg.Reverse {
		from, to = to, from
	}
	changes := libdiff.Diff(from, to)
	switch {
	case cfg.Patch:
		f := cfg.outFormat(cfg.inFormat(args[0]))
		if err := cfg.writeNode(cc.Out, f, libdiff.Patch(changes)); err != nil {
			return err
		}
	case cfg.Lines:
		s, err := libdiff.Lines(from, to)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(cc.Out, s); err != nil {
			return err
		}
	default:
		if err := writeChanges(cc.Out, changes); err != nil {
			return err
		}
	}
	if len(changes) != 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// writeChanges writes one line per change:
//
//	replace $.a[0]: 1 -> 2
func writeChanges(w io.Writer, changes []libdiff.Change) error {
	for _, c := range changes {
		var line string
		switch c.Op {
		case libdiff.Add:
			to, err := compact(c.To)
			if err != nil {
				return err
			}
			line = fmt.Sprintf("%s %s: %s\n", c.Op, c.Path, to)
		case libdiff.Remove:
			from, err := compact(c.From)
			if err != nil {
				return err
			}
			line = fmt.Sprintf("%s %s: %s\n", c.Op, c.Path, from)
		default:
			from, err := compact(c.From)
			if err != nil {
				return err
			}
			to, err := compact(c.To)
			if err != nil {
				return err
			}
			line = fmt.Sprintf("%s %s: %s -> %s\n", c.Op, c.Path, from, to)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

func compact(n *ir.Node) (string, error) {
	sw := jsonev.NewStringWriter()
	dst := pipe.Chain(sw,
		filter.BinaryToText(filter.Base64),
		filter.NonFinite(filter.NonFiniteToString))
	if err := ir.Emit(n, dst); err != nil {
		return "", err
	}
	return sw.Result()
}
