package debug

import (
	"bufio"
	"io"
	"strings"

	"github.com/signadot/evjson/stream"
)

// PrintOption configures a Printer.
type PrintOption func(*Printer)

// PrintColors colors each line by event type.
func PrintColors(c *Colors) PrintOption {
	return func(p *Printer) { p.colors = c }
}

// PrintIndent sets the indentation per nesting level. The default is two
// spaces.
func PrintIndent(s string) PrintOption {
	return func(p *Printer) { p.indent = s }
}

// Printer is a stream.Consumer writing one line per event, indented by
// nesting depth:
//
//	BeginArray(2)
//	  Int(1)
//	  Element
//	  ...
//	EndArray(2)
//
// Output is buffered; call Flush when done.
type Printer struct {
	w      *bufio.Writer
	colors *Colors
	indent string
	depth  int
	err    error
}

func NewPrinter(w io.Writer, opts ...PrintOption) *Printer {
	p := &Printer{w: bufio.NewWriter(w), indent: "  "}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Flush writes buffered output.
func (p *Printer) Flush() error {
	if p.err != nil {
		return p.err
	}
	return p.w.Flush()
}

func (p *Printer) line(ev stream.Event) error {
	if p.err != nil {
		return p.err
	}
	s := ev.Text()
	if p.colors != nil {
		s = p.colors.Color(ev.Type, s)
	}
	_, p.err = p.w.WriteString(strings.Repeat(p.indent, max(p.depth, 0)) + s + "\n")
	return p.err
}

func (p *Printer) Null() error { return p.line(stream.Event{Type: stream.EventNull}) }
func (p *Printer) Bool(v bool) error { return p.line(stream.Event{Type: stream.EventBool, Bool: v}) }
func (p *Printer) Int(v int64) error { return p.line(stream.Event{Type: stream.EventInt, Int: v}) }
func (p *Printer) Uint(v uint64) error { return p.line(stream.Event{Type: stream.EventUint, Uint: v}) }
func (p *Printer) Float(v float64) error { return p.line(stream.Event{Type: stream.EventFloat, Float: v}) }
func (p *Printer) String(v string) error { return p.line(stream.Event{Type: stream.EventString, String: v}) }
func (p *Printer) Binary(v []byte) error { return p.line(stream.Event{Type: stream.EventBinary, Bytes: v}) }
func (p *Printer) Element() error { return p.line(stream.Event{Type: stream.EventElement}) }
func (p *Printer) Key(k string) error { return p.line(stream.Event{Type: stream.EventKey, Key: k}) }
func (p *Printer) Member() error { return p.line(stream.Event{Type: stream.EventMember}) }

func (p *Printer) BeginArray(size int) error {
	err := p.line(stream.Event{Type: stream.EventBeginArray, Size: size})
	p.depth++
	return err
}

func (p *Printer) EndArray(size int) error {
	p.depth--
	return p.line(stream.Event{Type: stream.EventEndArray, Size: size})
}

func (p *Printer) BeginObject(size int) error {
	err := p.line(stream.Event{Type: stream.EventBeginObject, Size: size})
	p.depth++
	return err
}

func (p *Printer) EndObject(size int) error {
	p.depth--
	return p.line(stream.Event{Type: stream.EventEndObject, Size: size})
}
