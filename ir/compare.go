package ir

import (
	"bytes"
	"cmp"
	"slices"
	"strings"
)

// Equal reports whether a and b represent the same value. Numbers are
// equal only when they have the same sub-representation; objects are
// compared as unordered mappings.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}

// Compare returns an integer comparing two nodes.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	rankA := rank(a.Type)
	rankB := rank(b.Type)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	switch a.Type {
	case NumberType:
		return compareNumbers(a, b)
	case StringType:
		return strings.Compare(a.String, b.String)
	case BinaryType:
		return bytes.Compare(a.Bytes, b.Bytes)
	case BoolType:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case ArrayType:
		return compareArrays(a, b)
	case ObjectType:
		return compareObjects(a, b)
	}
	return 0
}

// rank returns the sorting rank of a type.
// Order: Null < Bool < Number < String < Binary < Array < Object
func rank(t Type) int {
	switch t {
	case NullType:
		return 1
	case BoolType:
		return 2
	case NumberType:
		return 3
	case StringType:
		return 4
	case BinaryType:
		return 5
	case ArrayType:
		return 6
	case ObjectType:
		return 7
	}
	return 100
}

func compareNumbers(a, b *Node) int {
	// Sub-rank: Int64 < Uint64 < Float64
	kindA := a.NumberKind()
	kindB := b.NumberKind()
	if kindA != kindB {
		return cmp.Compare(kindA, kindB)
	}
	switch kindA {
	case IntKind:
		return cmp.Compare(*a.Int64, *b.Int64)
	case UintKind:
		return cmp.Compare(*a.Uint64, *b.Uint64)
	case FloatKind:
		return cmp.Compare(*a.Float64, *b.Float64)
	}
	return 0
}

func compareArrays(a, b *Node) int {
	lenA := len(a.Values)
	lenB := len(b.Values)
	minLen := min(lenA, lenB)

	for i := 0; i < minLen; i++ {
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}

// compareObjects compares members in key order, so that field order does
// not matter.
func compareObjects(a, b *Node) int {
	idxA := sortedFields(a)
	idxB := sortedFields(b)
	minLen := min(len(idxA), len(idxB))

	for i := 0; i < minLen; i++ {
		ia, ib := idxA[i], idxB[i]
		if c := strings.Compare(a.Fields[ia], b.Fields[ib]); c != 0 {
			return c
		}
		if c := Compare(a.Values[ia], b.Values[ib]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(idxA), len(idxB))
}

// sortedFields returns the indices of y's fields in key order.
func sortedFields(y *Node) []int {
	res := make([]int, len(y.Fields))
	for i := range res {
		res[i] = i
	}
	slices.SortFunc(res, func(i, j int) int {
		return strings.Compare(y.Fields[i], y.Fields[j])
	})
	return res
}
