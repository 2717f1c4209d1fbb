// Package digest computes content hashes of event sequences.
//
// Two sequences describing equal values hash the same: integers hash by
// numeric value whatever their signedness, container sizes are ignored and
// object members may come in any order. Floats are never equal to integers,
// matching ir.Equal.
package digest

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"

	"github.com/signadot/evjson/ir"
	"github.com/signadot/evjson/stream"
	"github.com/zeebo/blake3"
)

// Size is the length of a digest in bytes.
const Size = 32

const (
	tagNull   = 'z'
	tagFalse  = 'f'
	tagTrue   = 't'
	tagNeg    = 'i'
	tagUint   = 'u'
	tagFloat  = 'd'
	tagString = 's'
	tagBinary = 'b'
	tagArray  = 'a'
	tagObject = 'o'
	tagKey    = 'k'
)

// Option configures a Digest.
type Option func(*opts)

type opts struct {
	key []byte
}

// WithKey makes the digest a keyed hash. key must be 32 bytes.
func WithKey(key []byte) Option {
	return func(o *opts) {
		o.key = key
	}
}

type frame struct {
	object  bool
	h       *blake3.Hasher
	count   uint64
	members [][Size]byte
}

// Digest is a stream.Consumer hashing the value it receives with BLAKE3.
type Digest struct {
	opts  opts
	root  *blake3.Hasher
	stack []frame
	sum   []byte
	err   error
	buf   [9]byte
}

// New creates a Digest. It fails if a key is given with the wrong length.
func New(options ...Option) (*Digest, error) {
	d := &Digest{}
	for _, opt := range options {
		opt(&d.opts)
	}
	if d.opts.key != nil && len(d.opts.key) != Size {
		return nil, fmt.Errorf("digest key has %d bytes, want %d", len(d.opts.key), Size)
	}
	d.Reset()
	return d, nil
}

// Reset prepares d for a new sequence.
func (d *Digest) Reset() {
	d.root = d.hasher()
	d.stack = d.stack[:0]
	d.sum = nil
	d.err = nil
}

func (d *Digest) hasher() *blake3.Hasher {
	if d.opts.key == nil {
		return blake3.New()
	}
	h, err := blake3.NewKeyed(d.opts.key)
	if err != nil {
		// the key length was checked in New
		panic(err)
	}
	return h
}

// Done reports whether a complete value has been hashed.
func (d *Digest) Done() bool {
	return d.sum != nil
}

// Sum returns the digest. It returns *stream.IncompleteSequenceError before
// the top-level value completed.
func (d *Digest) Sum() ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.sum == nil {
		return nil, &stream.IncompleteSequenceError{Depth: len(d.stack)}
	}
	return d.sum, nil
}

// Hex returns the digest in hexadecimal.
func (d *Digest) Hex() (string, error) {
	sum, err := d.Sum()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

// target returns the hasher receiving the next value.
func (d *Digest) target() *blake3.Hasher {
	if len(d.stack) == 0 {
		return d.root
	}
	return d.stack[len(d.stack)-1].h
}

func (d *Digest) check(ev stream.EventType) error {
	if d.err != nil {
		return d.err
	}
	if d.sum != nil {
		d.err = &stream.SequenceError{Rule: stream.RuleAfterComplete, Event: ev}
		return d.err
	}
	if n := len(d.stack); n > 0 && d.stack[n-1].h == nil {
		d.err = &stream.SequenceError{Rule: stream.RuleUnexpected, Event: ev, Msg: "value without key"}
		return d.err
	}
	return nil
}

func (d *Digest) scalar(ev stream.EventType, tag byte, payload []byte) error {
	if err := d.check(ev); err != nil {
		return err
	}
	h := d.target()
	h.Write([]byte{tag})
	h.Write(payload)
	d.completed()
	return nil
}

func (d *Digest) completed() {
	if len(d.stack) == 0 {
		d.sum = d.root.Sum(nil)
	}
}

func (d *Digest) u64(v uint64) []byte {
	binary.BigEndian.PutUint64(d.buf[:8], v)
	return d.buf[:8]
}

func (d *Digest) lenPrefixed(h *blake3.Hasher, s []byte) {
	h.Write(d.u64(uint64(len(s))))
	h.Write(s)
}

func (d *Digest) Null() error {
	return d.scalar(stream.EventNull, tagNull, nil)
}

func (d *Digest) Bool(v bool) error {
	if v {
		return d.scalar(stream.EventBool, tagTrue, nil)
	}
	return d.scalar(stream.EventBool, tagFalse, nil)
}

func (d *Digest) Int(v int64) error {
	if v >= 0 {
		return d.scalar(stream.EventInt, tagUint, d.u64(uint64(v)))
	}
	return d.scalar(stream.EventInt, tagNeg, d.u64(uint64(v)))
}

func (d *Digest) Uint(v uint64) error {
	return d.scalar(stream.EventUint, tagUint, d.u64(v))
}

func (d *Digest) Float(v float64) error {
	switch {
	case v == 0:
		v = 0
	case math.IsNaN(v):
		v = math.NaN()
	}
	return d.scalar(stream.EventFloat, tagFloat, d.u64(math.Float64bits(v)))
}

func (d *Digest) String(v string) error {
	if err := d.check(stream.EventString); err != nil {
		return err
	}
	h := d.target()
	h.Write([]byte{tagString})
	d.lenPrefixed(h, []byte(v))
	d.completed()
	return nil
}

func (d *Digest) Binary(v []byte) error {
	if err := d.check(stream.EventBinary); err != nil {
		return err
	}
	h := d.target()
	h.Write([]byte{tagBinary})
	d.lenPrefixed(h, v)
	d.completed()
	return nil
}

func (d *Digest) BeginArray(int) error {
	if err := d.check(stream.EventBeginArray); err != nil {
		return err
	}
	d.stack = append(d.stack, frame{h: blake3.New()})
	return nil
}

func (d *Digest) Element() error {
	if d.err != nil {
		return d.err
	}
	if len(d.stack) == 0 {
		d.err = &stream.SequenceError{Rule: stream.RuleNoFrame, Event: stream.EventElement}
		return d.err
	}
	d.stack[len(d.stack)-1].count++
	return nil
}

func (d *Digest) EndArray(int) error {
	top, err := d.pop(stream.EventEndArray, false)
	if err != nil {
		return err
	}
	h := d.target()
	h.Write([]byte{tagArray})
	h.Write(d.u64(top.count))
	h.Write(top.h.Sum(nil))
	d.completed()
	return nil
}

func (d *Digest) BeginObject(int) error {
	if err := d.check(stream.EventBeginObject); err != nil {
		return err
	}
	d.stack = append(d.stack, frame{object: true})
	return nil
}

func (d *Digest) Key(k string) error {
	if d.err != nil {
		return d.err
	}
	if len(d.stack) == 0 || !d.stack[len(d.stack)-1].object {
		d.err = &stream.SequenceError{Rule: stream.RuleFrameMismatch, Event: stream.EventKey}
		return d.err
	}
	top := &d.stack[len(d.stack)-1]
	top.h = blake3.New()
	top.h.Write([]byte{tagKey})
	d.lenPrefixed(top.h, []byte(k))
	return nil
}

func (d *Digest) Member() error {
	if d.err != nil {
		return d.err
	}
	if len(d.stack) == 0 || d.stack[len(d.stack)-1].h == nil {
		d.err = &stream.SequenceError{Rule: stream.RuleUnexpected, Event: stream.EventMember}
		return d.err
	}
	top := &d.stack[len(d.stack)-1]
	var m [Size]byte
	copy(m[:], top.h.Sum(nil))
	top.members = append(top.members, m)
	top.h = nil
	top.count++
	return nil
}

func (d *Digest) EndObject(int) error {
	top, err := d.pop(stream.EventEndObject, true)
	if err != nil {
		return err
	}
	sort.Slice(top.members, func(i, j int) bool {
		return string(top.members[i][:]) < string(top.members[j][:])
	})
	h := d.target()
	h.Write([]byte{tagObject})
	h.Write(d.u64(top.count))
	for i := range top.members {
		h.Write(top.members[i][:])
	}
	d.completed()
	return nil
}

func (d *Digest) pop(ev stream.EventType, object bool) (frame, error) {
	if d.err != nil {
		return frame{}, d.err
	}
	if len(d.stack) == 0 {
		d.err = &stream.SequenceError{Rule: stream.RuleNoFrame, Event: ev}
		return frame{}, d.err
	}
	top := d.stack[len(d.stack)-1]
	if top.object != object {
		d.err = &stream.SequenceError{Rule: stream.RuleFrameMismatch, Event: ev}
		return frame{}, d.err
	}
	d.stack = d.stack[:len(d.stack)-1]
	return top, nil
}

// Of returns the digest of node.
func Of(node *ir.Node, options ...Option) ([]byte, error) {
	d, err := New(options...)
	if err != nil {
		return nil, err
	}
	if err := ir.Emit(node, d); err != nil {
		return nil, err
	}
	return d.Sum()
}
