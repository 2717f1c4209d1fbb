package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/scott-cotton/cli"
	"github.com/signadot/evjson/format"
	"github.com/signadot/evjson/ir"
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// readInput returns the contents of path, or of cc.In when path is "-",
// decompressing zstd and lz4 frames.
func readInput(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

func readAll(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(4)
	switch {
	case bytes.Equal(magic, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return io.ReadAll(dec)
	case bytes.Equal(magic, lz4Magic):
		return io.ReadAll(lz4.NewReader(br))
	default:
		return io.ReadAll(br)
	}
}

// getObjFile decodes the file at path into a Node.
func getObjFile(cfg *MainConfig, cc *cli.Context, path string) (*ir.Node, error) {
	d, err := readInput(cc, path)
	if err != nil {
		return nil, err
	}
	return cfg.unmarshal(path, cfg.inFormat(path), d)
}

// compressed wraps w with the -z compressor. The returned close function
// flushes the compressor but leaves w open.
func (cfg *MainConfig) compressed(w io.Writer) (io.Writer, func() error, error) {
	switch cfg.Compress {
	case "":
		return w, func() error { return nil }, nil
	case "zstd":
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, nil, err
		}
		return enc, enc.Close, nil
	case "lz4":
		zw := lz4.NewWriter(w)
		return zw, zw.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: -z must be zstd or lz4, got %q", cli.ErrUsage, cfg.Compress)
	}
}

// writeNode writes n to w in format f, honoring -z.
func (cfg *MainConfig) writeNode(w io.Writer, f format.Format, n *ir.Node) error {
	cw, closeW, err := cfg.compressed(w)
	if err != nil {
		return err
	}
	if err := ir.Emit(n, cfg.writer(f, cw)); err != nil {
		closeW()
		return err
	}
	return closeW()
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}
