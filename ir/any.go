package ir

import (
	"fmt"
	"math"
	"reflect"
)

// FromAny converts a Go value built from nil, bool, the integer and float
// kinds, string, []byte, slices and maps with string keys into a Node.
// Map keys are sorted.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return x.Clone(), nil
	case bool:
		return FromBool(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return FromUint(uint64(x)), nil
	case uint8:
		return FromUint(uint64(x)), nil
	case uint16:
		return FromUint(uint64(x)), nil
	case uint32:
		return FromUint(uint64(x)), nil
	case uint64:
		return FromUint(x), nil
	case float32:
		return FromFloat(float64(x)), nil
	case float64:
		return FromFloat(x), nil
	case string:
		return FromString(x), nil
	case []byte:
		return FromBytes(append([]byte{}, x...)), nil
	case []any:
		res := &Node{Type: ArrayType, Values: make([]*Node, len(x))}
		for i, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			res.Values[i] = n
		}
		return res, nil
	case map[string]any:
		m := make(map[string]*Node, len(x))
		for k, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = n
		}
		return FromMap(m), nil
	}
	return fromReflect(reflect.ValueOf(v))
}

func fromReflect(rv reflect.Value) (*Node, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		res := &Node{Type: ArrayType, Values: make([]*Node, rv.Len())}
		for i := range rv.Len() {
			n, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			res.Values[i] = n
		}
		return res, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		m := make(map[string]*Node, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			n, err := FromAny(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = n
		}
		return FromMap(m), nil
	}
	return nil, fmt.Errorf("unsupported type %T", rv.Interface())
}

// ToAny converts n to plain Go values: nil, bool, int64, uint64, float64,
// string, []byte, []any and map[string]any.
func ToAny(n *Node) any {
	switch n.Type {
	case BoolType:
		return n.Bool
	case NumberType:
		switch n.NumberKind() {
		case IntKind:
			return *n.Int64
		case UintKind:
			return *n.Uint64
		case FloatKind:
			return *n.Float64
		}
		return math.NaN()
	case StringType:
		return n.String
	case BinaryType:
		return append([]byte{}, n.Bytes...)
	case ArrayType:
		res := make([]any, len(n.Values))
		for i, v := range n.Values {
			res[i] = ToAny(v)
		}
		return res
	case ObjectType:
		res := make(map[string]any, len(n.Values))
		for i, v := range n.Values {
			res[n.Fields[i]] = ToAny(v)
		}
		return res
	}
	return nil
}
