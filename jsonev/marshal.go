package jsonev

import (
	"bytes"
	"fmt"

	"github.com/signadot/evjson/ir"
	"github.com/signadot/evjson/stream"
)

// Marshal returns the JSON text of node, followed by a newline.
func Marshal(node *ir.Node, opts ...WriteOption) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf, opts...)
	if err := ir.Emit(node, w); err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the JSON document data into a Node. Duplicate keys are
// rejected unless a build option says otherwise.
func Unmarshal(data []byte, opts []ParseOption, bopts ...ir.BuildOption) (*ir.Node, error) {
	b := ir.NewBuilder(bopts...)
	v := stream.NewValidator(b)
	if err := Parse(data, v, opts...); err != nil {
		return nil, err
	}
	if err := v.Finish(); err != nil {
		return nil, err
	}
	return b.Result()
}
