package yamlev

import (
	"bytes"
	"fmt"

	"github.com/signadot/evjson/ir"
	"github.com/signadot/evjson/stream"
)

// Marshal returns the YAML text of node.
func Marshal(node *ir.Node, opts ...WriteOption) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf, opts...)
	if err := ir.Emit(node, w); err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the YAML document data into a Node.
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
