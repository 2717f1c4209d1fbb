package ir

import (
	"math"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Node
		expected int
	}{
		// Type Ranking: Null < Bool < Number < String < Binary < Array < Object
		{"Null < Bool", Null(), FromBool(false), -1},
		{"Bool < Number", FromBool(true), FromInt(1), -1},
		{"Number < String", FromInt(1), FromString("a"), -1},
		{"String < Binary", FromString("a"), FromBytes([]byte("a")), -1},
		{"Binary < Array", FromBytes(nil), FromSlice(nil), -1},
		{"Array < Object", FromSlice(nil), FromKeyVals(nil), -1},

		// Bool Comparison
		{"false < true", FromBool(false), FromBool(true), -1},
		{"true == true", FromBool(true), FromBool(true), 0},

		// Number Comparison: Int < Uint < Float
		{"Int < Uint", FromInt(1), FromUint(1), -1},
		{"Uint < Float", FromUint(1), FromFloat(1.0), -1},
		{"Int < Int", FromInt(-2), FromInt(1), -1},
		{"Uint < Uint", FromUint(1), FromUint(math.MaxUint64), -1},
		{"Float < Float", FromFloat(1.0), FromFloat(2.0), -1},
		{"NaN == NaN", FromFloat(math.NaN()), FromFloat(math.NaN()), 0},

		{"String < String", FromString("a"), FromString("b"), -1},
		{"Binary < Binary", FromBytes([]byte{1}), FromBytes([]byte{2}), -1},

		// Array Comparison
		{"Empty Array == Empty Array", FromSlice(nil), FromSlice(nil), 0},
		{"Short Array < Long Array", FromSlice([]*Node{FromInt(1)}), FromSlice([]*Node{FromInt(1), FromInt(2)}), -1},
		{"Array Element Comparison", FromSlice([]*Node{FromInt(1)}), FromSlice([]*Node{FromInt(2)}), -1},

		// Object Comparison
		{"Empty Object == Empty Object", FromKeyVals(nil), FromKeyVals(nil), 0},
		{"Short Object < Long Object",
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}}),
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}, {Key: "b", Val: FromInt(2)}}),
			-1},
		{"Object Key Comparison",
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}}),
			FromKeyVals([]KeyVal{{Key: "b", Val: FromInt(1)}}),
			-1},
		{"Object Value Comparison",
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}}),
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(2)}}),
			-1},
		{"Object Order Ignored",
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}, {Key: "b", Val: FromInt(2)}}),
			FromKeyVals([]KeyVal{{Key: "b", Val: FromInt(2)}, {Key: "a", Val: FromInt(1)}}),
			0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.expected {
				t.Errorf("Compare() = %v, want %v", got, tt.expected)
			}
			// Test symmetry
			if got := Compare(tt.b, tt.a); got != -tt.expected {
				t.Errorf("Compare(b, a) = %v, want %v", got, -tt.expected)
			}
		})
	}
}

func TestHash(t *testing.T) {
	a := FromKeyVals([]KeyVal{
		{Key: "x", Val: FromSlice([]*Node{FromInt(1), FromString("s")})},
		{Key: "y", Val: FromFloat(0)},
	})
	b := FromKeyVals([]KeyVal{
		{Key: "y", Val: FromFloat(math.Copysign(0, -1))},
		{Key: "x", Val: FromSlice([]*Node{FromInt(1), FromString("s")})},
	})
	if !Equal(a, b) {
		t.Fatal("expected equal nodes")
	}
	if a.Hash() != b.Hash() {
		t.Errorf("equal nodes hash differently: %x != %x", a.Hash(), b.Hash())
	}
	if a.Hash() != a.Clone().Hash() {
		t.Error("clone hashes differently")
	}
	if FromInt(1).Hash() == FromUint(1).Hash() {
		t.Error("int and uint hash equally")
	}
	c := FromSlice([]*Node{FromString("s"), FromInt(1)})
	d := FromSlice([]*Node{FromInt(1), FromString("s")})
	if c.Hash() == d.Hash() {
		t.Error("array order ignored")
	}
}

func TestClone(t *testing.T) {
	orig := FromKeyVals([]KeyVal{
		{Key: "a", Val: FromSlice([]*Node{FromUint(1), FromBytes([]byte{1, 2})})},
	})
	cl := orig.Clone()
	if !Equal(orig, cl) {
		t.Fatal("clone differs")
	}
	*cl.Get("a").Values[0].Uint64 = 7
	cl.Get("a").Values[1].Bytes[0] = 9
	if *orig.Get("a").Values[0].Uint64 != 1 || orig.Get("a").Values[1].Bytes[0] != 1 {
		t.Error("clone shares storage with original")
	}
}

func TestObjectAccess(t *testing.T) {
	obj := FromKeyVals([]KeyVal{
		{Key: "a", Val: FromInt(1)},
		{Key: "b", Val: FromInt(2)},
		{Key: "a", Val: FromInt(3)},
	})
	if obj.Len() != 2 {
		t.Fatalf("got %d fields, want 2", obj.Len())
	}
	if got := obj.Get("a"); got == nil || *got.Int64 != 3 {
		t.Errorf("got %+v for a, want 3", got)
	}
	obj.Set("c", Null())
	if obj.Index("c") != 2 {
		t.Errorf("got index %d for c, want 2", obj.Index("c"))
	}
	if !obj.Delete("a") || obj.Delete("a") {
		t.Error("delete reported wrong presence")
	}
	if obj.Get("a") != nil {
		t.Error("a still present")
	}
	if got, want := obj.Fields, []string{"b", "c"}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got fields %v, want %v", got, want)
	}
}

func TestVisit(t *testing.T) {
	n := FromSlice([]*Node{FromInt(1), FromSlice([]*Node{FromString("x")})})
	var pre, post int
	err := n.Visit(func(y *Node, isPost bool) (bool, error) {
		if isPost {
			post++
			return true, nil
		}
		pre++
		return y.Type != ArrayType || y == n, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	// the inner array's child is skipped
	if pre != 3 || post != 3 {
		t.Errorf("got %d pre and %d post visits, want 3 and 3", pre, post)
	}
}
