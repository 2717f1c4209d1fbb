package pipe

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/evjson/filter"
	"github.com/signadot/evjson/ir"
	"github.com/signadot/evjson/stream"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) stream.Filter {
		return func(next stream.Consumer) stream.Consumer {
			return &marker{Forward: stream.Forward{Next: next}, name: name, order: &order}
		}
	}
	c := Chain(stream.Discard{}, mark("a"), mark("b"), mark("c"))
	if err := c.Null(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, order); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if Chain(stream.Discard{}) != stream.Consumer(stream.Discard{}) {
		t.Error("empty chain is not the destination")
	}
}

type marker struct {
	stream.Forward
	name  string
	order *[]string
}

func (m *marker) Null() error {
	*m.order = append(*m.order, m.name)
	return m.Next.Null()
}

func TestRun(t *testing.T) {
	src := ir.FromKeyVals([]ir.KeyVal{
		{Key: "userName", Val: ir.FromUint(7)},
		{Key: "ratio", Val: ir.FromFloat(math.Inf(1))},
		{Key: "blob", Val: ir.FromBytes([]byte{0xab})},
	})
	b := ir.NewBuilder()
	err := Run(src, b,
		filter.KeyCase(filter.CamelToSnake),
		filter.NonFinite(filter.NonFiniteToNull),
		filter.Prefer(filter.PreferSigned),
		filter.BinaryToText(filter.Hex),
	)
	if err != nil {
		t.Fatal(err)
	}
	got, err := b.Result()
	if err != nil {
		t.Fatal(err)
	}
	want := ir.FromKeyVals([]ir.KeyVal{
		{Key: "user_name", Val: ir.FromInt(7)},
		{Key: "ratio", Val: ir.Null()},
		{Key: "blob", Val: ir.FromString("ab")},
	})
	if !ir.Equal(got, want) {
		t.Errorf("got %+v, want %+v", ir.ToAny(got), ir.ToAny(want))
	}
}

func TestRunTruncated(t *testing.T) {
	src := ProducerFunc(func(c stream.Consumer) error {
		if err := c.BeginArray(stream.Unsized); err != nil {
			return err
		}
		return c.Int(1)
	})
	err := Run(src, stream.Discard{})
	var se *stream.SequenceError
	if !errors.As(err, &se) || se.Rule != stream.RuleUnterminated {
		t.Errorf("got %v, want unterminated SequenceError", err)
	}
}

func TestRunIllegal(t *testing.T) {
	rec := stream.NewRecorder()
	src := ProducerFunc(func(c stream.Consumer) error {
		if err := c.BeginArray(stream.Unsized); err != nil {
			return err
		}
		return c.EndObject(stream.Unsized)
	})
	err := Run(src, rec)
	var se *stream.SequenceError
	if !errors.As(err, &se) || se.Rule != stream.RuleFrameMismatch {
		t.Errorf("got %v, want frame mismatch", err)
	}
	// the illegal call never reached the destination
	if len(rec.Events) != 1 {
		t.Errorf("got %d events downstream, want 1", len(rec.Events))
	}
}

func TestRunStageError(t *testing.T) {
	src := ir.FromSlice([]*ir.Node{ir.FromBytes([]byte{1})})
	err := Run(src, stream.Discard{}, filter.BinaryToError())
	var ub *stream.UnsupportedBinaryError
	if !errors.As(err, &ub) {
		t.Errorf("got %v, want UnsupportedBinaryError", err)
	}
}

func TestPipelineReuse(t *testing.T) {
	p := New().Add("keys", filter.KeyCase(filter.SnakeToCamel))
	if diff := cmp.Diff([]string{"keys"}, p.Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	for _, k := range []string{"a_b", "c_d"} {
		b := ir.NewBuilder()
		src := ir.FromKeyVals([]ir.KeyVal{{Key: k, Val: ir.Null()}})
		if err := p.Run(src, b); err != nil {
			t.Fatal(err)
		}
		got, err := b.Result()
		if err != nil {
			t.Fatal(err)
		}
		if got.Fields[0] != filter.SnakeToCamel.Convert(k) {
			t.Errorf("got key %q", got.Fields[0])
		}
	}
}

func TestRunLogsEvents(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := New().WithLogger(log).LogEvents(true)
	if err := p.Run(ir.FromSlice([]*ir.Node{ir.FromString("x")}), stream.Discard{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"BeginArray(1)", `String(\"x\")`, "Element", "EndArray(1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("log lacks %s:\n%s", want, out)
		}
	}
}
