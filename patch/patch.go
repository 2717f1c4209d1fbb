// Package patch applies JSON Patch (RFC 6902) and JSON Merge Patch
// (RFC 7386) documents to values.
//
// Values pass through their JSON text, so they must be representable in
// JSON: binary values and non-finite numbers are rejected, and the number
// kinds of the result are those a JSON parse assigns.
package patch

import (
	"fmt"

	"github.com/signadot/evjson/debug"
	"github.com/signadot/evjson/ir"
	"github.com/signadot/evjson/jsonev"

	jsonpatch "github.com/evanphx/json-patch"
)

// Patch is a compiled JSON Patch.
type Patch struct {
	ops jsonpatch.Patch
	len int
}

// Compile checks the JSON Patch document p, an array of operations.
func Compile(p *ir.Node) (*Patch, error) {
	if p == nil || p.Type != ir.ArrayType {
		return nil, fmt.Errorf("json patch must be an array")
	}
	d, err := jsonev.Marshal(p)
	if err != nil {
		return nil, err
	}
	ops, err := jsonpatch.DecodePatch(d)
	if err != nil {
		return nil, fmt.Errorf("decode json patch: %w", err)
	}
	return &Patch{ops: ops, len: p.Len()}, nil
}

// Len returns the number of operations.
func (p *Patch) Len() int {
	return p.len
}

// Apply returns the result of applying p to doc. doc is not modified.
func (p *Patch) Apply(doc *ir.Node) (*ir.Node, error) {
	if debug.Patch() {
		debug.Logger().Debug("json patch", "ops", p.len)
	}
	d, err := jsonev.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out, err := p.ops.Apply(d)
	if err != nil {
		return nil, fmt.Errorf("apply json patch: %w", err)
	}
	return jsonev.Unmarshal(out, nil)
}

// Apply returns the result of applying the JSON Patch document p to doc.
func Apply(doc, p *ir.Node) (*ir.Node, error) {
	cp, err := Compile(p)
	if err != nil {
		return nil, err
	}
	return cp.Apply(doc)
}

// Merge returns the result of applying the merge patch m to doc.
func Merge(doc, m *ir.Node) (*ir.Node, error) {
	if debug.Patch() {
		debug.Logger().Debug("merge patch", "type", m.Type)
	}
	d, err := jsonev.Marshal(doc)
	if err != nil {
		return nil, err
	}
	md, err := jsonev.Marshal(m)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, md)
	if err != nil {
		return nil, fmt.Errorf("apply merge patch: %w", err)
	}
	return jsonev.Unmarshal(out, nil)
}

// CreateMerge returns a merge patch turning from into to. Both must be
// objects.
func CreateMerge(from, to *ir.Node) (*ir.Node, error) {
	a, err := jsonev.Marshal(from)
	if err != nil {
		return nil, err
	}
	b, err := jsonev.Marshal(to)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return nil, fmt.Errorf("create merge patch: %w", err)
	}
	return jsonev.Unmarshal(out, nil)
}
