package ir

import (
	"encoding/binary"
	"hash/maphash"
	"math"
	"slices"
)

var hashSeed = maphash.MakeSeed()

// Hash returns a 64-bit hash of the node, consistent with Equal within one
// process: equal nodes hash equally, regardless of object field order.
// It panics if n is nil.
func (n *Node) Hash() uint64 {
	if n == nil {
		panic("ir: Hash called on nil node")
	}

	var h maphash.Hash
	h.SetSeed(hashSeed)
	h.WriteByte(byte(n.Type))

	var b [8]byte
	switch n.Type {
	case NullType:
	case BoolType:
		if n.Bool {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case NumberType:
		kind := n.NumberKind()
		h.WriteByte(byte(kind))
		switch kind {
		case IntKind:
			binary.LittleEndian.PutUint64(b[:], uint64(*n.Int64))
		case UintKind:
			binary.LittleEndian.PutUint64(b[:], *n.Uint64)
		case FloatKind:
			f := *n.Float64
			switch {
			case f == 0:
				// -0 == 0
				f = 0
			case math.IsNaN(f):
				f = math.NaN()
			}
			binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
		}
		h.Write(b[:])
	case StringType:
		h.WriteString(n.String)
	case BinaryType:
		h.Write(n.Bytes)
	case ArrayType:
		for _, v := range n.Values {
			binary.LittleEndian.PutUint64(b[:], v.Hash())
			h.Write(b[:])
		}
	case ObjectType:
		members := make([]uint64, len(n.Fields))
		for i, field := range n.Fields {
			var mh maphash.Hash
			mh.SetSeed(hashSeed)
			mh.WriteString(field)
			binary.LittleEndian.PutUint64(b[:], n.Values[i].Hash())
			mh.Write(b[:])
			members[i] = mh.Sum64()
		}
		slices.Sort(members)
		for _, m := range members {
			binary.LittleEndian.PutUint64(b[:], m)
			h.Write(b[:])
		}
	}
	return h.Sum64()
}
