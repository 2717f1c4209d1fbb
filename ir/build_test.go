package ir

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/evjson/stream"
)

func sampleTree() *Node {
	return FromKeyVals([]KeyVal{
		{Key: "null", Val: Null()},
		{Key: "bool", Val: FromBool(true)},
		{Key: "int", Val: FromInt(-5)},
		{Key: "uint", Val: FromUint(math.MaxUint64)},
		{Key: "float", Val: FromFloat(2.5)},
		{Key: "string", Val: FromString("héllo")},
		{Key: "binary", Val: FromBytes([]byte{0, 1, 0xff})},
		{Key: "array", Val: FromSlice([]*Node{
			FromSlice(nil),
			FromKeyVals(nil),
			FromSlice([]*Node{FromInt(1)}),
		})},
		{Key: "object", Val: FromKeyVals([]KeyVal{
			{Key: "z", Val: FromString("last")},
			{Key: "a", Val: FromString("first")},
		})},
	})
}

func TestRoundTrip(t *testing.T) {
	values := []*Node{
		Null(),
		FromBool(false),
		FromInt(math.MinInt64),
		FromUint(0),
		FromFloat(math.Inf(-1)),
		FromString(""),
		FromBytes(nil),
		FromSlice(nil),
		FromKeyVals(nil),
		sampleTree(),
	}
	for _, v := range values {
		b := NewBuilder()
		if err := Emit(v, stream.NewValidator(b)); err != nil {
			t.Fatalf("emit %s: %v", v.Type, err)
		}
		got, err := b.Result()
		if err != nil {
			t.Fatalf("result %s: %v", v.Type, err)
		}
		if !Equal(got, v) {
			t.Errorf("round trip of %s changed the value", v.Type)
		}
		if !reflect.DeepEqual(got.Fields, v.Fields) {
			t.Errorf("got fields %v, want %v", got.Fields, v.Fields)
		}
	}
}

func TestEmitSizedSequence(t *testing.T) {
	v := FromSlice([]*Node{
		FromInt(1),
		FromString("x"),
		FromKeyVals([]KeyVal{{Key: "a", Val: FromBool(true)}}),
	})
	events, err := ToEvents(v)
	if err != nil {
		t.Fatal(err)
	}
	want := []stream.Event{
		{Type: stream.EventBeginArray, Size: 3},
		{Type: stream.EventInt, Int: 1},
		{Type: stream.EventElement},
		{Type: stream.EventString, String: "x"},
		{Type: stream.EventElement},
		{Type: stream.EventBeginObject, Size: 1},
		{Type: stream.EventKey, Key: "a"},
		{Type: stream.EventBool, Bool: true},
		{Type: stream.EventMember},
		{Type: stream.EventEndObject, Size: 1},
		{Type: stream.EventElement},
		{Type: stream.EventEndArray, Size: 3},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	back, err := FromEvents(events)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(back, v) {
		t.Errorf("replay did not reproduce the value")
	}
}

func objectWithDup(c stream.Consumer) error {
	return stream.Replay([]stream.Event{
		{Type: stream.EventBeginObject, Size: stream.Unsized},
		{Type: stream.EventKey, Key: "k"},
		{Type: stream.EventInt, Int: 1},
		{Type: stream.EventMember},
		{Type: stream.EventKey, Key: "j"},
		{Type: stream.EventInt, Int: 2},
		{Type: stream.EventMember},
		{Type: stream.EventKey, Key: "k"},
		{Type: stream.EventInt, Int: 3},
		{Type: stream.EventMember},
		{Type: stream.EventEndObject, Size: stream.Unsized},
	}, c)
}

func TestDuplicateKeys(t *testing.T) {
	b := NewBuilder()
	err := objectWithDup(b)
	var dup *stream.DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("got %v, want DuplicateKeyError", err)
	}
	if dup.Key != "k" || dup.Path != "k" {
		t.Errorf("got %+v", dup)
	}
	// sticky
	if err := b.EndObject(stream.Unsized); !errors.As(err, &dup) {
		t.Errorf("got %v after failure, want DuplicateKeyError", err)
	}
	if n, err := b.Result(); n != nil || !errors.As(err, &dup) {
		t.Errorf("got %v, %v from Result after failure", n, err)
	}

	b = NewBuilder(WithDuplicateKeys(LastWins))
	if err := objectWithDup(b); err != nil {
		t.Fatal(err)
	}
	got, err := b.Result()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"k", "j"}, got.Fields); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
	if *got.Get("k").Int64 != 3 {
		t.Errorf("got k=%d, want 3", *got.Get("k").Int64)
	}
}

func TestDuplicateKeysIndexed(t *testing.T) {
	b := NewBuilder()
	if err := b.BeginObject(stream.Unsized); err != nil {
		t.Fatal(err)
	}
	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
	for _, k := range keys {
		if err := b.Key(k); err != nil {
			t.Fatal(err)
		}
		if err := b.Null(); err != nil {
			t.Fatal(err)
		}
		if err := b.Member(); err != nil {
			t.Fatal(err)
		}
	}
	var dup *stream.DuplicateKeyError
	if err := b.Key("c"); !errors.As(err, &dup) {
		t.Errorf("got %v, want DuplicateKeyError", err)
	}
}

func TestDuplicatePath(t *testing.T) {
	b := NewBuilder()
	err := stream.Replay([]stream.Event{
		{Type: stream.EventBeginArray, Size: stream.Unsized},
		{Type: stream.EventNull},
		{Type: stream.EventElement},
		{Type: stream.EventBeginObject, Size: stream.Unsized},
		{Type: stream.EventKey, Key: "a"},
		{Type: stream.EventNull},
		{Type: stream.EventMember},
		{Type: stream.EventKey, Key: "a"},
	}, b)
	var dup *stream.DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("got %v, want DuplicateKeyError", err)
	}
	if dup.Path != "[1].a" {
		t.Errorf("got path %q, want [1].a", dup.Path)
	}
}

func TestIncomplete(t *testing.T) {
	b := NewBuilder()
	var inc *stream.IncompleteSequenceError
	if _, err := b.Result(); !errors.As(err, &inc) || inc.Depth != 0 {
		t.Errorf("got %v, want IncompleteSequenceError at depth 0", err)
	}
	if err := b.BeginArray(2); err != nil {
		t.Fatal(err)
	}
	if err := b.BeginObject(0); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Result(); !errors.As(err, &inc) || inc.Depth != 2 {
		t.Errorf("got %v, want IncompleteSequenceError at depth 2", err)
	}
	if b.Done() {
		t.Error("done before completion")
	}
}

func TestBuilderSequenceErrors(t *testing.T) {
	tests := []struct {
		name   string
		events []stream.Event
		rule   stream.Rule
	}{
		{
			name:   "after complete",
			events: []stream.Event{{Type: stream.EventNull}, {Type: stream.EventNull}},
			rule:   stream.RuleAfterComplete,
		},
		{
			name:   "stray end",
			events: []stream.Event{{Type: stream.EventEndArray}},
			rule:   stream.RuleNoFrame,
		},
		{
			name: "mismatch",
			events: []stream.Event{
				{Type: stream.EventBeginArray, Size: stream.Unsized},
				{Type: stream.EventEndObject, Size: stream.Unsized},
			},
			rule: stream.RuleFrameMismatch,
		},
		{
			name: "key in array",
			events: []stream.Event{
				{Type: stream.EventBeginArray, Size: stream.Unsized},
				{Type: stream.EventKey, Key: "a"},
			},
			rule: stream.RuleNoFrame,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			err := stream.Replay(tt.events, b)
			var se *stream.SequenceError
			if !errors.As(err, &se) {
				t.Fatalf("got %v, want SequenceError", err)
			}
			if se.Rule != tt.rule {
				t.Errorf("got rule %v, want %v", se.Rule, tt.rule)
			}
		})
	}
}

func TestBuilderReset(t *testing.T) {
	b := NewBuilder(WithDuplicateKeys(LastWins))
	if err := objectWithDup(b); err != nil {
		t.Fatal(err)
	}
	b.Reset()
	if _, err := b.Result(); err == nil {
		t.Fatal("result available after reset")
	}
	if err := objectWithDup(b); err != nil {
		t.Errorf("reset lost the duplicate policy: %v", err)
	}
}

func TestBuilderCopiesBinary(t *testing.T) {
	buf := []byte{1, 2, 3}
	b := NewBuilder()
	if err := b.Binary(buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 9
	n, err := b.Result()
	if err != nil {
		t.Fatal(err)
	}
	if n.Bytes[0] != 1 {
		t.Error("builder kept a reference to the producer's buffer")
	}
}

func TestEmitErrors(t *testing.T) {
	if err := Emit(nil, stream.Discard{}); err == nil {
		t.Error("expected error for nil node")
	}
	if err := Emit(&Node{Type: NumberType}, stream.Discard{}); err == nil {
		t.Error("expected error for empty number")
	}
	bad := &Node{Type: ObjectType, Fields: []string{"a"}}
	if err := Emit(bad, stream.Discard{}); err == nil {
		t.Error("expected error for mismatched object")
	}
}

func TestEmitStopsOnError(t *testing.T) {
	want := errors.New("stop")
	c := &stopAfter{n: 3, err: want}
	if err := Emit(sampleTree(), c); err != want {
		t.Errorf("got %v, want %v", err, want)
	}
	if c.calls != 3 {
		t.Errorf("got %d calls, want 3", c.calls)
	}
}

type stopAfter struct {
	stream.Discard
	n, calls int
	err      error
}

func (s *stopAfter) call() error {
	s.calls++
	if s.calls >= s.n {
		return s.err
	}
	return nil
}

func (s *stopAfter) Null() error { return s.call() }
func (s *stopAfter) Bool(bool) error { return s.call() }
func (s *stopAfter) Key(string) error { return s.call() }
func (s *stopAfter) Member() error { return s.call() }
func (s *stopAfter) BeginObject(int) error { return s.call() }
