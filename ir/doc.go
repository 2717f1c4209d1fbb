// Package ir provides the canonical in-memory tree for JSON-like values.
//
// # Overview
//
// A Node is a recursive tagged union. The Type field says which of the
// other fields carry the value:
//
//   - NullType: no payload
//   - BoolType: Bool
//   - NumberType: exactly one of Int64, Uint64 or Float64 is non-nil
//   - StringType: String
//   - BinaryType: Bytes
//   - ArrayType: Values, in order
//   - ObjectType: Fields[i] is the key of Values[i]
//
// The three numeric representations are kept apart because codecs pick
// their encodings by sub-type; use NumberKind to inspect which one is set.
//
// # Structure Constraints
//
// A Node tree is a tree: each child is owned by exactly one parent, there
// are no cycles and no nodes are shared between trees. Keys are unique
// within one object. Use Clone to copy a subtree into another tree.
//
// Object fields keep insertion order, but Equal and Compare treat objects
// as unordered mappings.
//
// # Events
//
// A Node converts to and from the event protocol of package stream:
//
//	err := ir.Emit(node, consumer)   // walk the tree, sized containers
//
//	b := ir.NewBuilder()
//	err := producer(b)               // any producer
//	node, err := b.Result()
//
// Emit never produces an illegal sequence, which makes it the reference
// for testing other producers: replaying their output into a Builder
// must reproduce an equal tree.
//
// # Creating Nodes
//
//	node := ir.FromString("hello")
//	num := ir.FromInt(42)
//	obj := ir.FromMap(map[string]*ir.Node{
//	    "key": ir.FromString("value"),
//	})
//	arr := ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromUint(2)})
//
// FromAny and ToAny convert to and from generic Go values; Select queries
// a tree with a JSONPath expression.
//
// # Thread Safety
//
// Node structures are not thread-safe. If you need to access nodes from
// multiple goroutines, you must synchronize access yourself or clone nodes
// for each goroutine.
package ir
