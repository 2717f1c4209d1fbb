package ir

import (
	"fmt"

	"github.com/signadot/evjson/stream"
)

// Emit walks n depth first, driving c with the events describing it.
// Containers always use the sized begin/end calls.
func Emit(n *Node, c stream.Consumer) error {
	if n == nil {
		return fmt.Errorf("ir: emit of nil node")
	}
	switch n.Type {
	case NullType:
		return c.Null()
	case BoolType:
		return c.Bool(n.Bool)
	case NumberType:
		switch n.NumberKind() {
		case IntKind:
			return c.Int(*n.Int64)
		case UintKind:
			return c.Uint(*n.Uint64)
		case FloatKind:
			return c.Float(*n.Float64)
		}
		return fmt.Errorf("ir: number node without value")
	case StringType:
		return c.String(n.String)
	case BinaryType:
		return c.Binary(n.Bytes)
	case ArrayType:
		size := len(n.Values)
		if err := c.BeginArray(size); err != nil {
			return err
		}
		for _, v := range n.Values {
			if err := Emit(v, c); err != nil {
				return err
			}
			if err := c.Element(); err != nil {
				return err
			}
		}
		return c.EndArray(size)
	case ObjectType:
		if len(n.Fields) != len(n.Values) {
			return fmt.Errorf("ir: object has %d fields and %d values", len(n.Fields), len(n.Values))
		}
		size := len(n.Values)
		if err := c.BeginObject(size); err != nil {
			return err
		}
		for i, v := range n.Values {
			if err := c.Key(n.Fields[i]); err != nil {
				return err
			}
			if err := Emit(v, c); err != nil {
				return err
			}
			if err := c.Member(); err != nil {
				return err
			}
		}
		return c.EndObject(size)
	default:
		return fmt.Errorf("ir: unknown node type %d", n.Type)
	}
}

// Produce drives c with the events describing y.
func (y *Node) Produce(c stream.Consumer) error {
	return Emit(y, c)
}

// ToEvents returns the event sequence describing node.
func ToEvents(node *Node) ([]stream.Event, error) {
	rec := stream.NewRecorder()
	if err := Emit(node, rec); err != nil {
		return nil, err
	}
	return rec.Events, nil
}

// FromEvents builds a Node from a complete, legal event sequence.
func FromEvents(events []stream.Event, opts ...BuildOption) (*Node, error) {
	b := NewBuilder(opts...)
	v := stream.NewValidator(b)
	if err := stream.Replay(events, v); err != nil {
		return nil, err
	}
	if err := v.Finish(); err != nil {
		return nil, err
	}
	return b.Result()
}
