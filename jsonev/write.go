package jsonev

import (
	"bytes"
	"io"
	"math"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/signadot/evjson/stream"
)

// WriteOption configures a Writer.
type WriteOption func(*writeOpts)

type writeOpts struct {
	indent string
}

// WithIndent writes multi-line output, indenting each level with indent.
func WithIndent(indent string) WriteOption {
	return func(opts *writeOpts) {
		opts.indent = indent
	}
}

// Writer is a stream.Consumer writing JSON text. It has no binary type and
// no non-finite numbers: Binary fails with *stream.UnsupportedBinaryError
// and NaN or infinite floats fail with *stream.NonFiniteError. Put
// filter.BinaryToText or filter.NonFinite in front to convert them instead.
//
// Each completed top-level value is followed by a newline.
type Writer struct {
	enc   *jsontext.Encoder
	depth int
	done  bool
	err   error
}

func NewWriter(w io.Writer, opts ...WriteOption) *Writer {
	o := writeOpts{}
	for _, opt := range opts {
		opt(&o)
	}
	jopts := []jsontext.Options{
		jsontext.AllowDuplicateNames(true),
	}
	if o.indent != "" {
		jopts = append(jopts, jsontext.WithIndent(o.indent))
	}
	return &Writer{enc: jsontext.NewEncoder(w, jopts...)}
}

// Done reports whether a complete top-level value has been written.
func (w *Writer) Done() bool {
	return w.done && w.err == nil
}

func (w *Writer) token(t jsontext.Token) error {
	if w.err != nil {
		return w.err
	}
	if err := w.enc.WriteToken(t); err != nil {
		w.err = err
		return err
	}
	return nil
}

func (w *Writer) value(t jsontext.Token) error {
	if err := w.token(t); err != nil {
		return err
	}
	if w.depth == 0 {
		w.done = true
	}
	return nil
}

func (w *Writer) Null() error {
	return w.value(jsontext.Null)
}

func (w *Writer) Bool(v bool) error {
	return w.value(jsontext.Bool(v))
}

func (w *Writer) Int(v int64) error {
	return w.value(jsontext.Int(v))
}

func (w *Writer) Uint(v uint64) error {
	return w.value(jsontext.Uint(v))
}

func (w *Writer) Float(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		w.err = &stream.NonFiniteError{Value: v}
		return w.err
	}
	return w.value(jsontext.Float(v))
}

func (w *Writer) String(v string) error {
	return w.value(jsontext.String(v))
}

func (w *Writer) Binary(v []byte) error {
	w.err = &stream.UnsupportedBinaryError{Len: len(v)}
	return w.err
}

func (w *Writer) BeginArray(int) error {
	w.depth++
	return w.token(jsontext.ArrayStart)
}

func (w *Writer) Element() error {
	return w.err
}

func (w *Writer) EndArray(int) error {
	w.depth--
	return w.value(jsontext.ArrayEnd)
}

func (w *Writer) BeginObject(int) error {
	w.depth++
	return w.token(jsontext.ObjectStart)
}

func (w *Writer) Key(k string) error {
	return w.token(jsontext.String(k))
}

func (w *Writer) Member() error {
	return w.err
}

func (w *Writer) EndObject(int) error {
	w.depth--
	return w.value(jsontext.ObjectEnd)
}

// StringWriter is a Writer into memory.
type StringWriter struct {
	Writer
	buf bytes.Buffer
}

func NewStringWriter(opts ...WriteOption) *StringWriter {
	sw := &StringWriter{}
	sw.Writer = *NewWriter(&sw.buf, opts...)
	return sw
}

// Result returns the JSON text without the trailing newline. It returns
// *stream.IncompleteSequenceError before the top-level value completed.
func (sw *StringWriter) Result() (string, error) {
	if sw.err != nil {
		return "", sw.err
	}
	if !sw.done {
		return "", &stream.IncompleteSequenceError{Depth: sw.depth}
	}
	return strings.TrimSuffix(sw.buf.String(), "\n"), nil
}
