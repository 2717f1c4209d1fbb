package yamlev

import (
	"bytes"
	"encoding/base64"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/evjson/stream"
	"gopkg.in/yaml.v3"
)

// WriteOption configures a Writer.
type WriteOption func(*writeOpts)

type writeOpts struct {
	indent int
}

// WithIndent sets the number of spaces per nesting level. The default is 2.
func WithIndent(n int) WriteOption {
	return func(opts *writeOpts) {
		opts.indent = n
	}
}

// Writer is a stream.Consumer writing a YAML document. It collects a node
// tree and encodes it when the top-level value completes. Binary values are
// written with the !!binary tag and non-finite floats as .nan, .inf and
// -.inf, so every event sequence has a YAML rendering.
type Writer struct {
	w     io.Writer
	opts  writeOpts
	stack []*yaml.Node
	root  *yaml.Node
	done  bool
	err   error
}

func NewWriter(w io.Writer, opts ...WriteOption) *Writer {
	yw := &Writer{w: w, opts: writeOpts{indent: 2}}
	for _, opt := range opts {
		opt(&yw.opts)
	}
	return yw
}

// Done reports whether the document has been written.
func (w *Writer) Done() bool {
	return w.done && w.err == nil
}

// Node returns the node tree of the completed document.
func (w *Writer) Node() *yaml.Node {
	if !w.done {
		return nil
	}
	return w.root
}

func (w *Writer) scalar(tag, value string) error {
	return w.add(&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value})
}

func (w *Writer) add(n *yaml.Node) error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) == 0 {
		w.root = n
		if n.Kind == yaml.ScalarNode {
			return w.finish()
		}
	} else {
		top := w.stack[len(w.stack)-1]
		top.Content = append(top.Content, n)
	}
	if n.Kind != yaml.ScalarNode {
		w.stack = append(w.stack, n)
	}
	return nil
}

func (w *Writer) end() error {
	if w.err != nil {
		return w.err
	}
	w.stack = w.stack[:len(w.stack)-1]
	if len(w.stack) == 0 {
		return w.finish()
	}
	return nil
}

func (w *Writer) finish() error {
	enc := yaml.NewEncoder(w.w)
	enc.SetIndent(w.opts.indent)
	if err := enc.Encode(w.root); err != nil {
		w.err = err
		return err
	}
	if err := enc.Close(); err != nil {
		w.err = err
		return err
	}
	w.done = true
	return nil
}

func (w *Writer) Null() error {
	return w.scalar("!!null", "null")
}

func (w *Writer) Bool(v bool) error {
	return w.scalar("!!bool", strconv.FormatBool(v))
}

func (w *Writer) Int(v int64) error {
	return w.scalar("!!int", strconv.FormatInt(v, 10))
}

func (w *Writer) Uint(v uint64) error {
	return w.scalar("!!int", strconv.FormatUint(v, 10))
}

func (w *Writer) Float(v float64) error {
	return w.scalar("!!float", formatFloat(v))
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ".nan"
	case math.IsInf(v, 1):
		return ".inf"
	case math.IsInf(v, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func (w *Writer) String(v string) error {
	return w.scalar("!!str", v)
}

func (w *Writer) Binary(v []byte) error {
	return w.scalar("!!binary", base64.StdEncoding.EncodeToString(v))
}

func (w *Writer) BeginArray(int) error {
	return w.add(&yaml.Node{Kind: yaml.SequenceNode})
}

func (w *Writer) Element() error {
	return w.err
}

func (w *Writer) EndArray(int) error {
	return w.end()
}

func (w *Writer) BeginObject(int) error {
	return w.add(&yaml.Node{Kind: yaml.MappingNode})
}

func (w *Writer) Key(k string) error {
	return w.scalar("!!str", k)
}

func (w *Writer) Member() error {
	return w.err
}

func (w *Writer) EndObject(int) error {
	return w.end()
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

// Result returns the YAML text. It returns *stream.IncompleteSequenceError
// before the top-level value completed.
func (sw *StringWriter) Result() (string, error) {
	if sw.err != nil {
		return "", sw.err
	}
	if !sw.done {
		return "", &stream.IncompleteSequenceError{Depth: len(sw.stack)}
	}
	return sw.buf.String(), nil
}
