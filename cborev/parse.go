package cborev

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/signadot/evjson/stream"
)

const (
	majorUint = iota
	majorNegInt
	majorBytes
	majorText
	majorArray
	majorMap
	majorTag
	majorSimple
)

const (
	infoIndefinite = 31
	breakByte      = 0xff
)

var decMode cbor.DecMode

func init() {
	var err error
	decMode, err = cbor.DecOptions{
		UTF8:        cbor.UTF8RejectInvalid,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic("cborev: CBOR decoder initialization failed: " + err.Error())
	}
}

// Parser produces events from one CBOR data item. Definite-length arrays
// and maps are reported with their size, indefinite-length ones unsized.
// Tags are skipped and the tagged item is reported as is. Map keys must be
// text strings. Unsigned integers are reported as Uint, negative integers
// as Int, or as Float when below the int64 range. Undefined is reported as
// Null.
type Parser struct {
	data []byte
	off  int
	mark int
}

func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse drives c with the events for the CBOR item data.
func Parse(data []byte, c stream.Consumer) error {
	return NewParser(data).Produce(c)
}

// ParseReader reads all of r and drives c with the events for the item.
func ParseReader(r io.Reader, c stream.Consumer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read cbor: %w", err)
	}
	return Parse(data, c)
}

type frame struct {
	isMap   bool
	size    int
	left    int
	wantKey bool
}

func (f *frame) indefinite() bool {
	return f.size == stream.Unsized
}

// Produce drives c with the events for the item. Malformed input, including
// bytes after the item, fails with *stream.ParseError.
func (p *Parser) Produce(c stream.Consumer) error {
	p.off = 0
	if len(p.data) == 0 {
		return p.errorf("empty input")
	}
	var stack []frame
	for {
		if n := len(stack); n > 0 {
			top := &stack[n-1]
			closed, err := p.closing(top)
			if err != nil {
				return err
			}
			if closed {
				stack = stack[:n-1]
				if top.isMap {
					err = c.EndObject(top.size)
				} else {
					err = c.EndArray(top.size)
				}
				if err != nil {
					return err
				}
				if done, err := p.after(stack, c); done || err != nil {
					return err
				}
				continue
			}
			if top.isMap && top.wantKey {
				k, err := p.key()
				if err != nil {
					return err
				}
				if err := c.Key(k); err != nil {
					return err
				}
				top.wantKey = false
				continue
			}
		}
		f, err := p.item(c)
		if err != nil {
			return err
		}
		if f != nil {
			stack = append(stack, *f)
			continue
		}
		if done, err := p.after(stack, c); done || err != nil {
			return err
		}
	}
}

// closing reports whether the container on top has ended, consuming its
// break byte if it is indefinite.
func (p *Parser) closing(top *frame) (bool, error) {
	if !top.indefinite() {
		return top.left == 0, nil
	}
	if p.off >= len(p.data) {
		return false, p.truncated()
	}
	if p.data[p.off] != breakByte {
		return false, nil
	}
	if top.isMap && !top.wantKey {
		return false, p.errorf("break before map value")
	}
	p.off++
	return true, nil
}

// after reports a completed value to its container. It returns true once
// the top-level value is complete.
func (p *Parser) after(stack []frame, c stream.Consumer) (bool, error) {
	if len(stack) == 0 {
		if p.off != len(p.data) {
			return true, p.errorf("%d bytes after item", len(p.data)-p.off)
		}
		return true, nil
	}
	top := &stack[len(stack)-1]
	if !top.indefinite() {
		top.left--
	}
	if top.isMap {
		top.wantKey = true
		return false, c.Member()
	}
	return false, c.Element()
}

// head reads an initial byte and its argument, skipping tags.
func (p *Parser) head() (major byte, info byte, arg uint64, err error) {
	for {
		if p.off >= len(p.data) {
			return 0, 0, 0, p.truncated()
		}
		p.mark = p.off
		b := p.data[p.off]
		major, info = b>>5, b&0x1f
		switch {
		case info < 24:
			arg = uint64(info)
			p.off++
		case info <= 27:
			n := 1 << (info - 24)
			if p.off+1+n > len(p.data) {
				return 0, 0, 0, p.truncated()
			}
			arg = bigEndian(p.data[p.off+1 : p.off+1+n])
			p.off += 1 + n
		case info == infoIndefinite:
			switch major {
			case majorBytes, majorText, majorArray, majorMap:
			case majorSimple:
				return 0, 0, 0, p.errorf("unexpected break")
			default:
				return 0, 0, 0, p.errorf("indefinite length for major type %d", major)
			}
			p.off++
		default:
			return 0, 0, 0, p.errorf("reserved additional information %d", info)
		}
		if major != majorTag {
			return major, info, arg, nil
		}
	}
}

func bigEndian(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(b))
	case 4:
		return uint64(binary.BigEndian.Uint32(b))
	default:
		return binary.BigEndian.Uint64(b)
	}
}

// item reads one data item. Scalars are reported to c; containers are
// begun and returned as a frame.
func (p *Parser) item(c stream.Consumer) (*frame, error) {
	start := p.off
	major, info, arg, err := p.head()
	if err != nil {
		return nil, err
	}
	switch major {
	case majorUint:
		return nil, c.Uint(arg)
	case majorNegInt:
		if arg <= math.MaxInt64 {
			return nil, c.Int(-1 - int64(arg))
		}
		return nil, c.Float(-1 - float64(arg))
	case majorBytes:
		var b []byte
		if err := p.scalar(start, &b); err != nil {
			return nil, err
		}
		if b == nil {
			b = []byte{}
		}
		return nil, c.Binary(b)
	case majorText:
		var s string
		if err := p.scalar(start, &s); err != nil {
			return nil, err
		}
		return nil, c.String(s)
	case majorArray, majorMap:
		f := &frame{isMap: major == majorMap, size: stream.Unsized, wantKey: true}
		if info != infoIndefinite {
			per := uint64(1)
			if f.isMap {
				per = 2
			}
			if arg > uint64(len(p.data)-p.off)/per {
				return nil, p.errorfAt(start, "container length %d exceeds input", arg)
			}
			f.size = int(arg)
			f.left = f.size
		}
		if f.isMap {
			err = c.BeginObject(f.size)
		} else {
			err = c.BeginArray(f.size)
		}
		return f, err
	default:
		return nil, p.simple(start, info, c)
	}
}

func (p *Parser) simple(start int, info byte, c stream.Consumer) error {
	switch info {
	case 20:
		return c.Bool(false)
	case 21:
		return c.Bool(true)
	case 22, 23:
		return c.Null()
	case 25, 26, 27:
		var f float64
		if err := p.scalar(start, &f); err != nil {
			return err
		}
		return c.Float(f)
	}
	return p.errorfAt(start, "unsupported simple value %d", info)
}

// scalar decodes the item whose head was just read into v and moves past
// it. start is the offset reported on error.
func (p *Parser) scalar(start int, v any) error {
	rest, err := decMode.UnmarshalFirst(p.data[p.mark:], v)
	if err != nil {
		return &stream.ParseError{Offset: int64(start), Err: err}
	}
	p.off = len(p.data) - len(rest)
	return nil
}

func (p *Parser) key() (string, error) {
	start := p.off
	major, _, _, err := p.head()
	if err != nil {
		return "", err
	}
	if major != majorText {
		return "", p.errorfAt(start, "map key of major type %d is not a text string", major)
	}
	var s string
	if err := p.scalar(start, &s); err != nil {
		return "", err
	}
	return s, nil
}

func (p *Parser) truncated() error {
	return &stream.ParseError{Offset: int64(p.off), Err: io.ErrUnexpectedEOF}
}

func (p *Parser) errorf(format string, args ...any) error {
	return p.errorfAt(p.off, format, args...)
}

func (p *Parser) errorfAt(off int, format string, args ...any) error {
	return &stream.ParseError{Offset: int64(off), Msg: fmt.Sprintf(format, args...)}
}
