package digest

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/signadot/evjson/ir"
	"github.com/signadot/evjson/stream"
)

func sum(t *testing.T, n *ir.Node, options ...Option) []byte {
	t.Helper()
	s, err := Of(n, options...)
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != Size {
		t.Fatalf("digest has %d bytes", len(s))
	}
	return s
}

func obj(kvs ...ir.KeyVal) *ir.Node {
	return ir.FromKeyVals(kvs)
}

func TestEqualValues(t *testing.T) {
	tests := []struct {
		name string
		a, b *ir.Node
	}{
		{
			"member order",
			obj(ir.KeyVal{Key: "a", Val: ir.FromUint(1)}, ir.KeyVal{Key: "b", Val: ir.FromString("x")}),
			obj(ir.KeyVal{Key: "b", Val: ir.FromString("x")}, ir.KeyVal{Key: "a", Val: ir.FromUint(1)}),
		},
		{"signedness", ir.FromInt(7), ir.FromUint(7)},
		{"negative zero", ir.FromFloat(math.Copysign(0, -1)), ir.FromFloat(0)},
		{"nan", ir.FromFloat(math.NaN()), ir.FromFloat(-math.NaN())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !bytes.Equal(sum(t, tt.a), sum(t, tt.b)) {
				t.Error("digests differ")
			}
		})
	}
}

func TestDistinctValues(t *testing.T) {
	values := []*ir.Node{
		ir.Null(),
		ir.FromBool(false),
		ir.FromBool(true),
		ir.FromInt(-1),
		ir.FromUint(1),
		ir.FromFloat(1),
		ir.FromString(""),
		ir.FromString("1"),
		ir.FromBytes(nil),
		ir.FromBytes([]byte("1")),
		ir.FromSlice(nil),
		ir.FromSlice([]*ir.Node{ir.Null()}),
		ir.FromSlice([]*ir.Node{ir.FromUint(1), ir.FromUint(2)}),
		ir.FromSlice([]*ir.Node{ir.FromUint(2), ir.FromUint(1)}),
		ir.FromSlice([]*ir.Node{ir.FromSlice([]*ir.Node{ir.FromUint(1)}), ir.FromUint(2)}),
		ir.FromSlice([]*ir.Node{ir.FromUint(1), ir.FromSlice([]*ir.Node{ir.FromUint(2)})}),
		ir.FromKeyVals(nil),
		obj(ir.KeyVal{Key: "a", Val: ir.Null()}),
		obj(ir.KeyVal{Key: "", Val: ir.FromString("a")}),
		obj(ir.KeyVal{Key: "a", Val: ir.FromUint(1)}, ir.KeyVal{Key: "b", Val: ir.FromUint(2)}),
		obj(ir.KeyVal{Key: "a", Val: ir.FromUint(2)}, ir.KeyVal{Key: "b", Val: ir.FromUint(1)}),
	}
	seen := map[string]int{}
	for i, v := range values {
		k := string(sum(t, v))
		if j, ok := seen[k]; ok {
			t.Errorf("values %d and %d have the same digest", j, i)
		}
		seen[k] = i
	}
}

func TestSizesIgnored(t *testing.T) {
	sized, unsized := mustNew(t), mustNew(t)
	stream.Replay([]stream.Event{
		{Type: stream.EventBeginArray, Size: 1},
		{Type: stream.EventUint, Uint: 1},
		{Type: stream.EventElement},
		{Type: stream.EventEndArray, Size: 1},
	}, sized)
	stream.Replay([]stream.Event{
		{Type: stream.EventBeginArray, Size: stream.Unsized},
		{Type: stream.EventUint, Uint: 1},
		{Type: stream.EventElement},
		{Type: stream.EventEndArray, Size: stream.Unsized},
	}, unsized)
	a, err := sized.Hex()
	if err != nil {
		t.Fatal(err)
	}
	b, err := unsized.Hex()
	if err != nil {
		t.Fatal(err)
	}
	if a != b || len(a) != 2*Size {
		t.Errorf("got %s and %s", a, b)
	}
}

func mustNew(t *testing.T, options ...Option) *Digest {
	t.Helper()
	d, err := New(options...)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestIncomplete(t *testing.T) {
	d := mustNew(t)
	if _, err := d.Sum(); err == nil {
		t.Fatal("expected an error before any event")
	}
	d.BeginObject(stream.Unsized)
	d.Key("a")
	_, err := d.Hex()
	var ie *stream.IncompleteSequenceError
	if !errors.As(err, &ie) {
		t.Fatalf("got %v, want incomplete", err)
	}
	if ie.Depth != 1 {
		t.Errorf("depth %d", ie.Depth)
	}
}

func TestSequenceErrors(t *testing.T) {
	d := mustNew(t)
	d.BeginObject(stream.Unsized)
	err := d.Null()
	var se *stream.SequenceError
	if !errors.As(err, &se) || se.Rule != stream.RuleUnexpected {
		t.Fatalf("got %v", err)
	}
	if _, err := d.Sum(); !errors.As(err, &se) {
		t.Errorf("sum after failure: %v", err)
	}

	d.Reset()
	d.Null()
	if err := d.Null(); !errors.As(err, &se) || se.Rule != stream.RuleAfterComplete {
		t.Errorf("got %v", err)
	}
}

func TestKeyed(t *testing.T) {
	n := ir.FromString("x")
	key := bytes.Repeat([]byte{7}, Size)
	plain, keyed := sum(t, n), sum(t, n, WithKey(key))
	if bytes.Equal(plain, keyed) {
		t.Error("keyed digest equals plain digest")
	}
	if _, err := New(WithKey([]byte("short"))); err == nil {
		t.Error("expected an error for a short key")
	}
}

func TestReset(t *testing.T) {
	d := mustNew(t)
	d.Uint(1)
	first, _ := d.Sum()
	d.Reset()
	d.Int(1)
	second, err := d.Sum()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("digests differ after reset")
	}
}
