package patch

import (
	"errors"
	"testing"

	"github.com/signadot/evjson/ir"
	"github.com/signadot/evjson/jsonev"
	"github.com/signadot/evjson/libdiff"
	"github.com/signadot/evjson/stream"
)

func node(t *testing.T, doc string) *ir.Node {
	t.Helper()
	n, err := jsonev.Unmarshal([]byte(doc), nil)
	if err != nil {
		t.Fatalf("unmarshal %s: %v", doc, err)
	}
	return n
}

func TestApply(t *testing.T) {
	doc := node(t, `{"a": 1, "b": [1, 2]}`)
	p := node(t, `[
		{"op": "replace", "path": "/a", "value": "x"},
		{"op": "add", "path": "/b/1", "value": 9},
		{"op": "remove", "path": "/b/0"},
		{"op": "add", "path": "/c", "value": {"d": null}}
	]`)
	got, err := Apply(doc, p)
	if err != nil {
		t.Fatal(err)
	}
	want := node(t, `{"a": "x", "b": [9, 2], "c": {"d": null}}`)
	if !ir.Equal(got, want) {
		t.Errorf("got %v, want %v", ir.ToAny(got), ir.ToAny(want))
	}
	if doc.Get("a").Type != ir.NumberType {
		t.Error("input was modified")
	}
}

func TestApplyErrors(t *testing.T) {
	if _, err := Compile(node(t, `{"op": "add"}`)); err == nil {
		t.Error("expected an error for a non-array patch")
	}
	p := node(t, `[{"op": "test", "path": "/a", "value": 2}]`)
	if _, err := Apply(node(t, `{"a": 1}`), p); err == nil {
		t.Error("expected a failed test operation")
	}
	bin := ir.FromSlice([]*ir.Node{ir.FromBytes([]byte("x"))})
	_, err := Apply(bin, node(t, `[]`))
	var ub *stream.UnsupportedBinaryError
	if !errors.As(err, &ub) {
		t.Errorf("got %v, want unsupported binary", err)
	}
}

func TestMerge(t *testing.T) {
	doc := node(t, `{"a": 1, "b": {"c": 2, "d": 3}}`)
	got, err := Merge(doc, node(t, `{"a": null, "b": {"c": 4}, "e": true}`))
	if err != nil {
		t.Fatal(err)
	}
	want := node(t, `{"b": {"c": 4, "d": 3}, "e": true}`)
	if !ir.Equal(got, want) {
		t.Errorf("got %v, want %v", ir.ToAny(got), ir.ToAny(want))
	}
}

func TestCreateMerge(t *testing.T) {
	from := node(t, `{"a": 1, "b": 2}`)
	to := node(t, `{"a": 1, "c": 3}`)
	m, err := CreateMerge(from, to)
	if err != nil {
		t.Fatal(err)
	}
	want := node(t, `{"b": null, "c": 3}`)
	if !ir.Equal(m, want) {
		t.Errorf("got %v, want %v", ir.ToAny(m), ir.ToAny(want))
	}
	got, err := Merge(from, m)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(got, to) {
		t.Errorf("got %v, want %v", ir.ToAny(got), ir.ToAny(to))
	}
}

func TestDiffPatch(t *testing.T) {
	tests := []struct{ from, to string }{
		{`{"a": [1, 2, 3], "b": "x"}`, `{"a": [0, 1, 3, 4], "c": {"d": [true]}}`},
		{`[{"k": 1}, {"k": 2}]`, `[{"k": 2}]`},
		{`[1, 2, 3, 4]`, `[5, 6]`},
	}
	for _, tt := range tests {
		from, to := node(t, tt.from), node(t, tt.to)
		got, err := Apply(from, libdiff.Patch(libdiff.Diff(from, to)))
		if err != nil {
			t.Fatalf("%s -> %s: %v", tt.from, tt.to, err)
		}
		if !ir.Equal(got, to) {
			t.Errorf("%s -> %s: got %v", tt.from, tt.to, ir.ToAny(got))
		}
		back, err := Apply(got, libdiff.Patch(libdiff.Reverse(libdiff.Diff(from, to))))
		if err != nil {
			t.Fatalf("reverse %s -> %s: %v", tt.from, tt.to, err)
		}
		if !ir.Equal(back, from) {
			t.Errorf("reverse %s -> %s: got %v", tt.from, tt.to, ir.ToAny(back))
		}
	}
}
