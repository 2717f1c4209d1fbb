package cborev

import (
	"bytes"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/signadot/evjson/stream"
)

// encMode encodes scalars with the smallest integer and float encodings
// that preserve their value.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cborev: CBOR encoder initialization failed: " + err.Error())
	}
}

// Writer is a stream.Consumer writing one CBOR data item. Sized containers
// are written with definite length, unsized ones with indefinite length and
// a closing break. Every event sequence has a CBOR encoding.
type Writer struct {
	w     io.Writer
	stack []bool
	done  bool
	err   error
	head  [9]byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Done reports whether a complete item has been written.
func (w *Writer) Done() bool {
	return w.done && w.err == nil
}

func (w *Writer) write(b []byte) error {
	if w.err != nil {
		return w.err
	}
	if _, err := w.w.Write(b); err != nil {
		w.err = err
		return err
	}
	return nil
}

func (w *Writer) value(v any) error {
	if w.err != nil {
		return w.err
	}
	b, err := encMode.Marshal(v)
	if err != nil {
		w.err = err
		return err
	}
	if err := w.write(b); err != nil {
		return err
	}
	if len(w.stack) == 0 {
		w.done = true
	}
	return nil
}

func (w *Writer) begin(major byte, size int) error {
	indefinite := size < 0
	w.stack = append(w.stack, indefinite)
	if indefinite {
		w.head[0] = major<<5 | infoIndefinite
		return w.write(w.head[:1])
	}
	return w.write(encodeHead(w.head[:0], major, uint64(size)))
}

func (w *Writer) end() error {
	if w.err != nil {
		return w.err
	}
	indefinite := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if indefinite {
		w.head[0] = breakByte
		if err := w.write(w.head[:1]); err != nil {
			return err
		}
	}
	if len(w.stack) == 0 {
		w.done = true
	}
	return nil
}

// encodeHead appends the shortest head for major type major and argument
// arg to dst.
func encodeHead(dst []byte, major byte, arg uint64) []byte {
	m := major << 5
	switch {
	case arg < 24:
		return append(dst, m|byte(arg))
	case arg <= 0xff:
		return append(dst, m|24, byte(arg))
	case arg <= 0xffff:
		return append(dst, m|25, byte(arg>>8), byte(arg))
	case arg <= 0xffffffff:
		return append(dst, m|26, byte(arg>>24), byte(arg>>16), byte(arg>>8), byte(arg))
	}
	dst = append(dst, m|27)
	for shift := 56; shift >= 0; shift -= 8 {
		dst = append(dst, byte(arg>>shift))
	}
	return dst
}

func (w *Writer) Null() error {
	return w.value(nil)
}

func (w *Writer) Bool(v bool) error {
	return w.value(v)
}

func (w *Writer) Int(v int64) error {
	return w.value(v)
}

func (w *Writer) Uint(v uint64) error {
	return w.value(v)
}

func (w *Writer) Float(v float64) error {
	return w.value(v)
}

func (w *Writer) String(v string) error {
	return w.value(v)
}

func (w *Writer) Binary(v []byte) error {
	if v == nil {
		v = []byte{}
	}
	return w.value(v)
}

func (w *Writer) BeginArray(size int) error {
	return w.begin(majorArray, size)
}

func (w *Writer) Element() error {
	return w.err
}

func (w *Writer) EndArray(int) error {
	return w.end()
}

func (w *Writer) BeginObject(size int) error {
	return w.begin(majorMap, size)
}

func (w *Writer) Key(k string) error {
	if w.err != nil {
		return w.err
	}
	b, err := encMode.Marshal(k)
	if err != nil {
		w.err = err
		return err
	}
	return w.write(b)
}

func (w *Writer) Member() error {
	return w.err
}

func (w *Writer) EndObject(int) error {
	return w.end()
}

// BytesWriter is a Writer into memory.
type BytesWriter struct {
	Writer
	buf bytes.Buffer
}

func NewBytesWriter() *BytesWriter {
	bw := &BytesWriter{}
	bw.Writer = *NewWriter(&bw.buf)
	return bw
}

// Result returns the encoded item. It returns
// *stream.IncompleteSequenceError before the item completed.
func (bw *BytesWriter) Result() ([]byte, error) {
	if bw.err != nil {
		return nil, bw.err
	}
	if !bw.done {
		return nil, &stream.IncompleteSequenceError{Depth: len(bw.stack)}
	}
	return bw.buf.Bytes(), nil
}
