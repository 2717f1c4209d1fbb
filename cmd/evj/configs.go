package main

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/signadot/evjson/cborev"
	"github.com/signadot/evjson/debug"
	"github.com/signadot/evjson/filter"
	"github.com/signadot/evjson/format"
	"github.com/signadot/evjson/ir"
	"github.com/signadot/evjson/jsonev"
	"github.com/signadot/evjson/pipe"
	"github.com/signadot/evjson/stream"
	"github.com/signadot/evjson/yamlev"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Color    bool   `cli:"name=color desc='color trace output'"`
	Indent   int    `cli:"name=indent desc='spaces per level; json output is compact when 0'"`
	Compress string `cli:"name=z desc='compress output: zstd or lz4'"`
	Comments bool   `cli:"name=jsonc desc='accept comments and trailing commas in json input'"`
	LastWins bool   `cli:"name=last-wins desc='keep the last of duplicate keys instead of failing'"`

	Binary    string `cli:"name=binary desc='binary values: hex, base64, base64url or error'"`
	Keys      string `cli:"name=keys desc='rewrite keys: snake, camel or lowercamel'"`
	NonFinite string `cli:"name=nonfinite desc='NaN and infinities: null, string or error'"`
	Prefer    string `cli:"name=prefer desc='integer signedness: signed or unsigned'"`
	KeyExpr   string `cli:"name=key-expr desc='boolean expression over key that every key must satisfy'"`
	KeyMatch  string `cli:"name=key-match desc='regular expression every key must match'"`
	MaxDepth  int    `cli:"name=max-depth desc='maximum nesting depth'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// inFormat returns the format of the input named path: the -I flag, else
// the file extension, else JSON.
func (cfg *MainConfig) inFormat(path string) format.Format {
	if cfg.InFormat != nil {
		return *cfg.InFormat
	}
	if f, ok := format.FromPath(path); ok {
		return f
	}
	return format.JSONFormat
}

// outFormat returns the output format: the -O flag, else the format of the
// -o file, else in.
func (cfg *MainConfig) outFormat(in format.Format) format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	if f, ok := format.FromPath(cfg.Out); ok {
		return f
	}
	return in
}

func (cfg *MainConfig) buildOpts() []ir.BuildOption {
	if cfg.LastWins {
		return []ir.BuildOption{ir.WithDuplicateKeys(ir.LastWins)}
	}
	return nil
}

// producer returns the producer for data in format f.
func (cfg *MainConfig) producer(f format.Format, data []byte) pipe.Producer {
	switch f {
	case format.YAMLFormat:
		return yamlev.NewParser(data)
	case format.CBORFormat:
		return cborev.NewParser(data)
	default:
		var opts []jsonev.ParseOption
		if cfg.Comments {
			opts = append(opts, jsonev.WithComments())
		}
		return jsonev.NewParser(data, opts...)
	}
}

// unmarshal decodes data in format f into a Node, through the configured
// filters.
func (cfg *MainConfig) unmarshal(name string, f format.Format, data []byte) (*ir.Node, error) {
	p, err := cfg.pipeline()
	if err != nil {
		return nil, err
	}
	b := ir.NewBuilder(cfg.buildOpts()...)
	if err := p.Run(cfg.producer(f, data), b); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", name, err)
	}
	return b.Result()
}

// writer returns a consumer writing format f to w.
func (cfg *MainConfig) writer(f format.Format, w io.Writer) stream.Consumer {
	switch f {
	case format.YAMLFormat:
		var opts []yamlev.WriteOption
		if cfg.Indent > 0 {
			opts = append(opts, yamlev.WithIndent(cfg.Indent))
		}
		return yamlev.NewWriter(w, opts...)
	case format.CBORFormat:
		return cborev.NewWriter(w)
	default:
		var opts []jsonev.WriteOption
		if cfg.Indent > 0 {
			opts = append(opts, jsonev.WithIndent(strings.Repeat(" ", cfg.Indent)))
		}
		return jsonev.NewWriter(w, opts...)
	}
}

// pipeline returns the filter stages selected by flags, outermost first.
func (cfg *MainConfig) pipeline() (*pipe.Pipeline, error) {
	p := pipe.New().
		WithLogger(debug.Logger()).
		LogEvents(debug.Events())
	if cfg.MaxDepth > 0 {
		p.Add("max-depth", filter.LimitDepth(cfg.MaxDepth))
	}
	if cfg.KeyMatch != "" {
		re, err := regexp.Compile(cfg.KeyMatch)
		if err != nil {
			return nil, fmt.Errorf("%w: -key-match: %w", cli.ErrUsage, err)
		}
		p.Add("key-match", filter.KeyCheck(filter.MatchKeys(re)))
	}
	if cfg.KeyExpr != "" {
		pred, err := filter.ExprKeys(cfg.KeyExpr)
		if err != nil {
			return nil, fmt.Errorf("%w: -key-expr: %w", cli.ErrUsage, err)
		}
		p.Add("key-expr", filter.KeyCheck(pred))
	}
	if cfg.Keys != "" {
		mode, err := filter.ParseKeyCaseMode(cfg.Keys)
		if err != nil {
			return nil, fmt.Errorf("%w: -keys: %w", cli.ErrUsage, err)
		}
		p.Add("keys", filter.KeyCase(mode))
	}
	if cfg.Prefer != "" {
		pref, err := filter.ParseSignedness(cfg.Prefer)
		if err != nil {
			return nil, fmt.Errorf("%w: -prefer: %w", cli.ErrUsage, err)
		}
		p.Add("prefer", filter.Prefer(pref))
	}
	if cfg.NonFinite != "" {
		policy, err := filter.ParseNonFinitePolicy(cfg.NonFinite)
		if err != nil {
			return nil, fmt.Errorf("%w: -nonfinite: %w", cli.ErrUsage, err)
		}
		p.Add("nonfinite", filter.NonFinite(policy))
	}
	switch cfg.Binary {
	case "":
	case "error":
		p.Add("binary", filter.BinaryToError())
	default:
		enc, err := filter.ParseBinaryEncoding(cfg.Binary)
		if err != nil {
			return nil, fmt.Errorf("%w: -binary: %w", cli.ErrUsage, err)
		}
		p.Add("binary", filter.BinaryToText(enc))
	}
	return p, nil
}

// colors returns the trace colors for w, honoring -color when given and
// otherwise coloring terminals only.
func (cfg *MainConfig) colors(w io.Writer) *debug.Colors {
	if cfg.Color {
		return debug.NewColors()
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return nil
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return debug.NewColors()
	}
	return nil
}

type ValidateConfig struct {
	*MainConfig
	Quiet bool `cli:"name=q desc='report failures only'"`

	Validate *cli.Command
}

type TraceConfig struct {
	*MainConfig
	Trace *cli.Command
}

type HashConfig struct {
	*MainConfig
	Key string `cli:"name=key desc='hex encoded 32 byte key for a keyed hash'"`

	Hash *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Patch   bool `cli:"name=patch desc='print the diff as a json patch'"`
	Lines   bool `cli:"name=lines desc='print a line diff of the json renderings'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Merge bool `cli:"name=merge desc='the patch is a json merge patch'"`

	Patch *cli.Command
}

type QueryConfig struct {
	*MainConfig
	First bool `cli:"name=1 aliases=first desc='print only the first match'"`

	Query *cli.Command
}

type ConvertConfig struct {
	*MainConfig
	Convert *cli.Command
}
