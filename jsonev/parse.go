package jsonev

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/signadot/evjson/stream"
	"github.com/tidwall/jsonc"
)

// ParseOption configures a Parser.
type ParseOption func(*parseOpts)

type parseOpts struct {
	comments    bool
	invalidUTF8 bool
}

// WithComments accepts JSONC: // and /* */ comments and trailing commas.
func WithComments() ParseOption {
	return func(opts *parseOpts) {
		opts.comments = true
	}
}

// WithInvalidUTF8 accepts strings which are not valid UTF-8, replacing the
// invalid bytes with the Unicode replacement character.
func WithInvalidUTF8() ParseOption {
	return func(opts *parseOpts) {
		opts.invalidUTF8 = true
	}
}

// Parser produces events from one JSON text. Containers are reported
// unsized. Integers without fraction or exponent are Uint when non-negative
// and Int when negative; other numbers, and integers out of 64-bit range,
// are Float. Keys are passed on as they appear, duplicates included.
type Parser struct {
	opts parseOpts
	r    io.Reader
	data []byte
}

// NewParser creates a Parser over an in-memory document. Errors carry line
// and column as well as the byte offset.
func NewParser(data []byte, opts ...ParseOption) *Parser {
	p := &Parser{data: data}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

// NewReaderParser creates a Parser reading from r.
func NewReaderParser(r io.Reader, opts ...ParseOption) *Parser {
	p := &Parser{r: r}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

// Parse drives c with the events for the JSON document data.
func Parse(data []byte, c stream.Consumer, opts ...ParseOption) error {
	return NewParser(data, opts...).Produce(c)
}

// ParseReader drives c with the events for the JSON document read from r.
func ParseReader(r io.Reader, c stream.Consumer, opts ...ParseOption) error {
	return NewReaderParser(r, opts...).Produce(c)
}

func (p *Parser) decoder() (*jsontext.Decoder, error) {
	jopts := []jsontext.Options{
		jsontext.AllowDuplicateNames(true),
		jsontext.AllowInvalidUTF8(p.opts.invalidUTF8),
	}
	switch {
	case p.r == nil && p.opts.comments:
		p.data = jsonc.ToJSON(p.data)
		return jsontext.NewDecoder(bytes.NewReader(p.data), jopts...), nil
	case p.r == nil:
		return jsontext.NewDecoder(bytes.NewReader(p.data), jopts...), nil
	case p.opts.comments:
		d, err := io.ReadAll(p.r)
		if err != nil {
			return nil, err
		}
		return jsontext.NewDecoder(bytes.NewReader(jsonc.ToJSON(d)), jopts...), nil
	default:
		return jsontext.NewDecoder(p.r, jopts...), nil
	}
}

// Produce drives c with the events for the document. It fails with
// *stream.ParseError on malformed input, including data after the
// top-level value.
func (p *Parser) Produce(c stream.Consumer) error {
	dec, err := p.decoder()
	if err != nil {
		return err
	}
	var (
		stack   []byte
		wantKey bool
	)
	for {
		off := dec.InputOffset()
		tok, err := dec.ReadToken()
		if err != nil {
			if err == io.EOF && len(stack) == 0 {
				return p.parseError(off, "empty document", nil)
			}
			return p.parseError(off, "", err)
		}
		switch tok.Kind() {
		case '{':
			if err := c.BeginObject(stream.Unsized); err != nil {
				return err
			}
			stack = append(stack, '{')
			wantKey = true
			continue
		case '[':
			if err := c.BeginArray(stream.Unsized); err != nil {
				return err
			}
			stack = append(stack, '[')
			continue
		case '}':
			stack = stack[:len(stack)-1]
			err = c.EndObject(stream.Unsized)
		case ']':
			stack = stack[:len(stack)-1]
			err = c.EndArray(stream.Unsized)
		case '"':
			if wantKey {
				wantKey = false
				if err := c.Key(tok.String()); err != nil {
					return err
				}
				continue
			}
			err = c.String(tok.String())
		case 'n':
			err = c.Null()
		case 't':
			err = c.Bool(true)
		case 'f':
			err = c.Bool(false)
		case '0':
			err = number(tok.String(), c)
		default:
			return p.parseError(off, "unexpected token "+tok.String(), nil)
		}
		if err != nil {
			return err
		}
		if len(stack) == 0 {
			break
		}
		if stack[len(stack)-1] == '[' {
			err = c.Element()
			wantKey = false
		} else {
			err = c.Member()
			wantKey = true
		}
		if err != nil {
			return err
		}
	}
	off := dec.InputOffset()
	if _, err := dec.ReadToken(); err != io.EOF {
		if err == nil {
			return p.parseError(off, "data after top-level value", nil)
		}
		return p.parseError(off, "after top-level value", err)
	}
	return nil
}

// number reports raw, a JSON number, as the narrowest matching event.
func number(raw string, c stream.Consumer) error {
	if isInteger(raw) {
		if raw[0] == '-' {
			if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return c.Int(i)
			}
		} else if u, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return c.Uint(u)
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return err
	}
	return c.Float(f)
}

func isInteger(raw string) bool {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '.', 'e', 'E':
			return false
		}
	}
	return true
}

func (p *Parser) parseError(off int64, msg string, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	pe := &stream.ParseError{Offset: off, Msg: msg, Err: err}
	if p.r == nil {
		// the decoder reports the offset after the last good token
		for pe.Offset < int64(len(p.data)) && isSpace(p.data[pe.Offset]) {
			pe.Offset++
		}
		pe.Line, pe.Column = lineCol(p.data, pe.Offset)
	}
	return pe
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// lineCol returns the 1-based line and column of byte offset off.
func lineCol(data []byte, off int64) (int, int) {
	off = min(off, int64(len(data)))
	prefix := data[:off]
	line := bytes.Count(prefix, []byte{'\n'}) + 1
	col := int(off) - (bytes.LastIndexByte(prefix, '\n') + 1) + 1
	return line, col
}
