package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: json/j, yaml/y, cbor/c (default from file extension, else json)",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		}, &cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: json/j, yaml/y, cbor/c (default the input format)",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "evj").
		WithSynopsis("evj [opts] command [opts]").
		WithDescription(mainDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return evjMain(cfg, cc, args)
		}).
		WithSubs(
			ConvertCommand(cfg),
			ValidateCommand(cfg),
			TraceCommand(cfg),
			HashCommand(cfg),
			DiffCommand(cfg),
			PatchCommand(cfg),
			QueryCommand(cfg))
}

const mainDescription = `evj streams JSON, YAML and CBOR documents as events.

Every command reads its inputs through the same pipeline: the input is
decoded into events, the events are checked for well-formedness and pass
through the filters selected by the main options, in this order:

  -max-depth, -key-match, -key-expr, -keys, -prefer, -nonfinite, -binary

Input compressed with zstd or lz4 is recognized and decompressed.`

func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithAliases("c", "conv").
		WithSynopsis("convert [file]").
		WithDescription("convert a document between formats, streaming events from input to output").
		WithRun(func(cc *cli.Context, args []string) error {
			return convert(cfg, cc, args)
		})
}

func ValidateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ValidateConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Validate, "validate").
		WithAliases("v", "val").
		WithSynopsis("validate [-q] [files]").
		WithDescription("check that documents decode to well-formed values without duplicate keys").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return validate(cfg, cc, args)
		})
}

func TraceCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TraceConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Trace, "trace").
		WithAliases("t").
		WithSynopsis("trace [file]").
		WithDescription("print the events of a document, one per line").
		WithRun(func(cc *cli.Context, args []string) error {
			return trace(cfg, cc, args)
		})
}

func HashCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &HashConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Hash, "hash").
		WithAliases("h").
		WithSynopsis("hash [-key hex] [files]").
		WithDescription("print content hashes; equal values hash equal whatever their format, member order or integer signedness").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return hash(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff [-r] [-patch | -lines] a b").
		WithDescription("diff two documents; exits 1 when they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p", "pa").
		WithSynopsis("patch [-merge] doc patch").
		WithDescription("apply a json patch (RFC 6902) or, with -merge, a merge patch (RFC 7386) to a document").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patchDoc(cfg, cc, args)
		})
}

func QueryCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &QueryConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Query, "query").
		WithAliases("q").
		WithSynopsis("query [-1] jsonpath [file]").
		WithDescription("print the values selected by a JSONPath (RFC 9535) expression").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return query(cfg, cc, args)
		})
}
