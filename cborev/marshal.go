package cborev

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/signadot/evjson/ir"
	"github.com/signadot/evjson/stream"
)

// Marshal returns the CBOR encoding of node. Containers are definite-length.
func Marshal(node *ir.Node) ([]byte, error) {
	bw := NewBytesWriter()
	if err := ir.Emit(node, bw); err != nil {
		return nil, fmt.Errorf("marshal cbor: %w", err)
	}
	return bw.Result()
}

// Unmarshal decodes the CBOR item data into a Node.
func Unmarshal(data []byte, opts ...ir.BuildOption) (*ir.Node, error) {
	b := ir.NewBuilder(opts...)
	v := stream.NewValidator(b)
	if err := Parse(data, v); err != nil {
		return nil, err
	}
	if err := v.Finish(); err != nil {
		return nil, err
	}
	return b.Result()
}

// Diagnose returns the diagnostic notation of the CBOR item data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
