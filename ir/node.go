package ir

import (
	"maps"
	"slices"
)

type Node struct {
	Type Type

	// Fields[i] is the key for Values[i] when Type is ObjectType.
	Fields []string
	Values []*Node

	String  string
	Bytes   []byte
	Bool    bool
	Int64   *int64
	Uint64  *uint64
	Float64 *float64
}

// NumberKind returns which numeric representation y holds.
func (y *Node) NumberKind() NumberKind {
	if y.Type != NumberType {
		return NotNumber
	}
	switch {
	case y.Int64 != nil:
		return IntKind
	case y.Uint64 != nil:
		return UintKind
	case y.Float64 != nil:
		return FloatKind
	}
	return NotNumber
}

// Len returns the number of children of an array or object, and 0 for
// leaves.
func (y *Node) Len() int {
	return len(y.Values)
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Type = y.Type
	dst.String = y.String
	dst.Bool = y.Bool
	dst.Fields = nil
	dst.Values = nil
	dst.Bytes = nil
	dst.Int64 = nil
	dst.Uint64 = nil
	dst.Float64 = nil
	if y.Fields != nil {
		dst.Fields = slices.Clone(y.Fields)
	}
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
		for i, yv := range y.Values {
			dst.Values[i] = yv.Clone()
		}
	}
	if y.Bytes != nil {
		dst.Bytes = slices.Clone(y.Bytes)
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	if y.Uint64 != nil {
		u := *y.Uint64
		dst.Uint64 = &u
	}
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	return dst
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
	}
}

func FromUint(v uint64) *Node {
	return &Node{
		Type:   NumberType,
		Uint64: &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

func FromString(v string) *Node {
	return &Node{
		Type:   StringType,
		String: v,
	}
}

// FromBytes creates a binary node. The node takes ownership of v.
func FromBytes(v []byte) *Node {
	if v == nil {
		v = []byte{}
	}
	return &Node{
		Type:  BinaryType,
		Bytes: v,
	}
}

// FromSlice creates an array node owning the given children.
func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type:   ArrayType,
		Values: make([]*Node, len(ySlice)),
	}
	copy(res.Values, ySlice)
	return res
}

// FromMap creates an object node with fields in sorted key order.
func FromMap(yMap map[string]*Node) *Node {
	res := &Node{
		Type:   ObjectType,
		Fields: make([]string, 0, len(yMap)),
		Values: make([]*Node, 0, len(yMap)),
	}
	for _, key := range slices.Sorted(maps.Keys(yMap)) {
		res.Fields = append(res.Fields, key)
		res.Values = append(res.Values, yMap[key])
	}
	return res
}

type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals creates an object node with fields in the given order. Later
// duplicates of a key replace the earlier value.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{
		Type:   ObjectType,
		Fields: make([]string, 0, len(kvs)),
		Values: make([]*Node, 0, len(kvs)),
	}
	for i := range kvs {
		res.Set(kvs[i].Key, kvs[i].Val)
	}
	return res
}

// Index returns the position of field in an object node, or -1.
func (y *Node) Index(field string) int {
	return slices.Index(y.Fields, field)
}

// Get returns the value of field in an object node, or nil.
func (y *Node) Get(field string) *Node {
	i := y.Index(field)
	if i < 0 {
		return nil
	}
	return y.Values[i]
}

// Set replaces the value of field, or appends it when absent.
func (y *Node) Set(field string, v *Node) {
	if i := y.Index(field); i >= 0 {
		y.Values[i] = v
		return
	}
	y.Fields = append(y.Fields, field)
	y.Values = append(y.Values, v)
}

// Delete removes field from an object node, reporting whether it was
// present.
func (y *Node) Delete(field string) bool {
	i := y.Index(field)
	if i < 0 {
		return false
	}
	y.Fields = slices.Delete(y.Fields, i, i+1)
	y.Values = slices.Delete(y.Values, i, i+1)
	return true
}

// Append adds children to an array node.
func (y *Node) Append(vs ...*Node) {
	y.Values = append(y.Values, vs...)
}

// Visit walks the tree depth first, calling f before (isPost false) and
// after (isPost true) each node's children. Children are skipped when the
// pre-order call returns false.
func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}
