package cborev

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/evjson/ir"
	"github.com/signadot/evjson/stream"
)

func parseEvents(t *testing.T, data []byte) []stream.Event {
	t.Helper()
	rec := stream.NewRecorder()
	v := stream.NewValidator(rec)
	if err := Parse(data, v); err != nil {
		t.Fatalf("parse % x: %v", data, err)
	}
	if err := v.Finish(); err != nil {
		t.Fatalf("parse % x: %v", data, err)
	}
	return rec.Events
}

func TestParseDefinite(t *testing.T) {
	got := parseEvents(t, []byte{0x83, 0x01, 0x21, 0x61, 'a'})
	want := []stream.Event{
		{Type: stream.EventBeginArray, Size: 3},
		{Type: stream.EventUint, Uint: 1},
		{Type: stream.EventElement},
		{Type: stream.EventInt, Int: -2},
		{Type: stream.EventElement},
		{Type: stream.EventString, String: "a"},
		{Type: stream.EventElement},
		{Type: stream.EventEndArray, Size: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestParseIndefinite(t *testing.T) {
	got := parseEvents(t, []byte{0xbf, 0x61, 'a', 0xf5, 0x61, 'b', 0x9f, 0xff, 0xff})
	u := stream.Unsized
	want := []stream.Event{
		{Type: stream.EventBeginObject, Size: u},
		{Type: stream.EventKey, Key: "a"},
		{Type: stream.EventBool, Bool: true},
		{Type: stream.EventMember},
		{Type: stream.EventKey, Key: "b"},
		{Type: stream.EventBeginArray, Size: u},
		{Type: stream.EventEndArray, Size: u},
		{Type: stream.EventMember},
		{Type: stream.EventEndObject, Size: u},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want stream.Event
	}{
		{"tagged", []byte{0xc1, 0x01}, stream.Event{Type: stream.EventUint, Uint: 1}},
		{"bytes", []byte{0x42, 0x01, 0x02}, stream.Event{Type: stream.EventBinary, Bytes: []byte{1, 2}}},
		{"empty bytes", []byte{0x40}, stream.Event{Type: stream.EventBinary, Bytes: []byte{}}},
		{"chunked text", []byte{0x7f, 0x61, 'a', 0x61, 'b', 0xff}, stream.Event{Type: stream.EventString, String: "ab"}},
		{"half", []byte{0xf9, 0x3e, 0x00}, stream.Event{Type: stream.EventFloat, Float: 1.5}},
		{"double", []byte{0xfb, 0x40, 0x09, 0x21, 0xfb, 0x54, 0x44, 0x2d, 0x18}, stream.Event{Type: stream.EventFloat, Float: math.Pi}},
		{"false", []byte{0xf4}, stream.Event{Type: stream.EventBool}},
		{"null", []byte{0xf6}, stream.Event{Type: stream.EventNull}},
		{"undefined", []byte{0xf7}, stream.Event{Type: stream.EventNull}},
		{"uint64", []byte{0x1b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, stream.Event{Type: stream.EventUint, Uint: math.MaxUint64}},
		{"min int64", []byte{0x3b, 0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, stream.Event{Type: stream.EventInt, Int: math.MinInt64}},
		{"below int64", []byte{0x3b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, stream.Event{Type: stream.EventFloat, Float: -18446744073709551616}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseEvents(t, tt.in)
			if len(got) != 1 {
				t.Fatalf("got %d events", len(got))
			}
			if diff := cmp.Diff(tt.want, got[0]); diff != "" {
				t.Errorf("event (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		off  int64
	}{
		{"empty", nil, 0},
		{"truncated", []byte{0x9f, 0x01}, 2},
		{"trailing", []byte{0x01, 0x01}, 1},
		{"int key", []byte{0xa1, 0x01, 0x02}, 1},
		{"stray break", []byte{0xff}, 0},
		{"break in definite", []byte{0x81, 0xff}, 1},
		{"reserved", []byte{0x1c}, 0},
		{"break before value", []byte{0xbf, 0x61, 'a', 0xff}, 3},
		{"length exceeds input", []byte{0x9a, 0xff, 0xff, 0xff, 0xff}, 0},
		{"invalid utf8", []byte{0x61, 0xff}, 0},
		{"unassigned simple", []byte{0xe0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Parse(tt.in, stream.NewValidator(nil))
			var pe *stream.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("got %v, want a parse error", err)
			}
			if pe.Offset != tt.off {
				t.Errorf("offset %d, want %d (%v)", pe.Offset, tt.off, err)
			}
		})
	}
}

func TestWriterDefinite(t *testing.T) {
	node := ir.FromKeyVals([]ir.KeyVal{
		{Key: "a", Val: ir.FromSlice([]*ir.Node{ir.FromUint(1), ir.FromInt(-2)})},
	})
	got, err := Marshal(node)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xa1, 0x61, 'a', 0x82, 0x01, 0x21}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestWriterIndefinite(t *testing.T) {
	bw := NewBytesWriter()
	stream.Replay([]stream.Event{
		{Type: stream.EventBeginArray, Size: stream.Unsized},
		{Type: stream.EventFloat, Float: 1.5},
		{Type: stream.EventElement},
		{Type: stream.EventFloat, Float: math.NaN()},
		{Type: stream.EventElement},
		{Type: stream.EventEndArray, Size: stream.Unsized},
	}, bw)
	got, err := bw.Result()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x9f, 0xf9, 0x3e, 0x00, 0xf9, 0x7e, 0x00, 0xff}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
	diag, err := Diagnose(got)
	if err != nil {
		t.Fatal(err)
	}
	if diag != "[_ 1.5, NaN]" {
		t.Errorf("diagnose %q", diag)
	}
}

func TestWriterIncomplete(t *testing.T) {
	bw := NewBytesWriter()
	bw.BeginObject(1)
	bw.Key("k")
	_, err := bw.Result()
	var ie *stream.IncompleteSequenceError
	if !errors.As(err, &ie) {
		t.Fatalf("got %v, want incomplete", err)
	}
}

func TestRoundTrip(t *testing.T) {
	node := ir.FromKeyVals([]ir.KeyVal{
		{Key: "null", Val: ir.Null()},
		{Key: "bool", Val: ir.FromBool(true)},
		{Key: "int", Val: ir.FromInt(-300)},
		{Key: "uint", Val: ir.FromUint(math.MaxUint64)},
		{Key: "float", Val: ir.FromFloat(0.1)},
		{Key: "inf", Val: ir.FromFloat(math.Inf(-1))},
		{Key: "string", Val: ir.FromString("héllo")},
		{Key: "binary", Val: ir.FromBytes([]byte{0, 0xff})},
		{Key: "array", Val: ir.FromSlice([]*ir.Node{ir.FromSlice(nil), ir.FromKeyVals(nil)})},
	})
	data, err := Marshal(node)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(got, node) {
		t.Errorf("got %v, want %v", ir.ToAny(got), ir.ToAny(node))
	}
}
