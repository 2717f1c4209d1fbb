package ir

import (
	"strconv"
	"strings"

	"github.com/signadot/evjson/stream"
)

// DuplicatePolicy says what a Builder does when an object repeats a key.
type DuplicatePolicy int

const (
	// RejectDuplicates fails with *stream.DuplicateKeyError.
	RejectDuplicates DuplicatePolicy = iota
	// LastWins replaces the earlier value, keeping the key's first position.
	LastWins
)

func (p DuplicatePolicy) String() string {
	switch p {
	case RejectDuplicates:
		return "reject"
	case LastWins:
		return "last-wins"
	default:
		return "DuplicatePolicy(" + strconv.Itoa(int(p)) + ")"
	}
}

// BuildOption configures a Builder.
type BuildOption func(*buildOpts)

type buildOpts struct {
	dups DuplicatePolicy
}

// WithDuplicateKeys sets the duplicate key policy. The default is
// RejectDuplicates.
func WithDuplicateKeys(p DuplicatePolicy) BuildOption {
	return func(opts *buildOpts) {
		opts.dups = p
	}
}

// objects with more fields than this get a key index.
const indexThreshold = 8

// maxPrealloc bounds capacity taken from begin sizes.
const maxPrealloc = 1 << 12

type buildFrame struct {
	node  *Node
	key   string
	index map[string]int
}

// Builder is a stream.Consumer which builds a Node from a legal event
// sequence. The built tree is available from Result once the top-level value
// completes.
//
// A Builder does not validate event order beyond what it needs to stay
// consistent; compose it behind a stream.Validator for untrusted producers.
type Builder struct {
	opts   buildOpts
	stack  []buildFrame
	result *Node
	done   bool
	err    error
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuildOption) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(&b.opts)
	}
	return b
}

// Result returns the built Node. It returns *stream.IncompleteSequenceError
// if the top-level value has not completed, and the first error if building
// failed.
func (b *Builder) Result() (*Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.done {
		return nil, &stream.IncompleteSequenceError{Depth: len(b.stack)}
	}
	return b.result, nil
}

// Done reports whether the top-level value has completed.
func (b *Builder) Done() bool {
	return b.done && b.err == nil
}

// Reset discards all state, keeping options.
func (b *Builder) Reset() {
	clear(b.stack)
	b.stack = b.stack[:0]
	b.result = nil
	b.done = false
	b.err = nil
}

func (b *Builder) Null() error {
	return b.value(Null())
}

func (b *Builder) Bool(v bool) error {
	return b.value(FromBool(v))
}

func (b *Builder) Int(v int64) error {
	return b.value(FromInt(v))
}

func (b *Builder) Uint(v uint64) error {
	return b.value(FromUint(v))
}

func (b *Builder) Float(v float64) error {
	return b.value(FromFloat(v))
}

func (b *Builder) String(v string) error {
	return b.value(FromString(v))
}

// Binary copies v.
func (b *Builder) Binary(v []byte) error {
	return b.value(FromBytes(append([]byte{}, v...)))
}

func (b *Builder) BeginArray(size int) error {
	return b.begin(&Node{
		Type:   ArrayType,
		Values: make([]*Node, 0, prealloc(size)),
	}, stream.EventBeginArray)
}

func (b *Builder) Element() error {
	return b.sep(ArrayType, stream.EventElement)
}

func (b *Builder) EndArray(int) error {
	return b.end(ArrayType, stream.EventEndArray)
}

func (b *Builder) BeginObject(size int) error {
	n := prealloc(size)
	return b.begin(&Node{
		Type:   ObjectType,
		Fields: make([]string, 0, n),
		Values: make([]*Node, 0, n),
	}, stream.EventBeginObject)
}

func (b *Builder) Key(k string) error {
	if b.err != nil {
		return b.err
	}
	top := b.top()
	if top == nil || top.node.Type != ObjectType {
		return b.fail(b.seqErr(stream.RuleNoFrame, stream.EventKey))
	}
	dup := b.opts.dups == RejectDuplicates && top.lookup(k) >= 0
	top.key = k
	if dup {
		return b.fail(&stream.DuplicateKeyError{Key: k, Path: b.path()})
	}
	return nil
}

func (b *Builder) Member() error {
	return b.sep(ObjectType, stream.EventMember)
}

func (b *Builder) EndObject(int) error {
	return b.end(ObjectType, stream.EventEndObject)
}

func (b *Builder) top() *buildFrame {
	if len(b.stack) == 0 {
		return nil
	}
	return &b.stack[len(b.stack)-1]
}

func (b *Builder) fail(err error) error {
	b.err = err
	return err
}

func (b *Builder) seqErr(rule stream.Rule, ev stream.EventType) error {
	return &stream.SequenceError{Rule: rule, Event: ev, Path: b.path()}
}

func (b *Builder) begin(n *Node, ev stream.EventType) error {
	if b.err != nil {
		return b.err
	}
	if b.done {
		return b.fail(b.seqErr(stream.RuleAfterComplete, ev))
	}
	b.stack = append(b.stack, buildFrame{node: n})
	return nil
}

func (b *Builder) end(t Type, ev stream.EventType) error {
	if b.err != nil {
		return b.err
	}
	top := b.top()
	if top == nil {
		return b.fail(b.seqErr(stream.RuleNoFrame, ev))
	}
	if top.node.Type != t {
		return b.fail(b.seqErr(stream.RuleFrameMismatch, ev))
	}
	n := top.node
	b.stack[len(b.stack)-1] = buildFrame{}
	b.stack = b.stack[:len(b.stack)-1]
	return b.attach(n)
}

func (b *Builder) sep(t Type, ev stream.EventType) error {
	if b.err != nil {
		return b.err
	}
	top := b.top()
	if top == nil {
		return b.fail(b.seqErr(stream.RuleNoFrame, ev))
	}
	if top.node.Type != t {
		return b.fail(b.seqErr(stream.RuleFrameMismatch, ev))
	}
	return nil
}

func (b *Builder) value(n *Node) error {
	if b.err != nil {
		return b.err
	}
	if b.done {
		return b.fail(b.seqErr(stream.RuleAfterComplete, eventOf(n)))
	}
	return b.attach(n)
}

// attach adds a completed node to the current container, or makes it the
// result when there is none.
func (b *Builder) attach(n *Node) error {
	top := b.top()
	if top == nil {
		b.result = n
		b.done = true
		return nil
	}
	p := top.node
	if p.Type == ArrayType {
		p.Values = append(p.Values, n)
		return nil
	}
	if i := top.lookup(top.key); i >= 0 {
		// only reachable under LastWins
		p.Values[i] = n
		return nil
	}
	p.Fields = append(p.Fields, top.key)
	p.Values = append(p.Values, n)
	if top.index != nil {
		top.index[top.key] = len(p.Fields) - 1
	} else if len(p.Fields) > indexThreshold {
		top.index = make(map[string]int, len(p.Fields)*2)
		for i, f := range p.Fields {
			top.index[f] = i
		}
	}
	return nil
}

func (f *buildFrame) lookup(k string) int {
	if f.index != nil {
		if i, ok := f.index[k]; ok {
			return i
		}
		return -1
	}
	return f.node.Index(k)
}

// path renders the position of the next value, e.g. "a[2].b".
func (b *Builder) path() string {
	var sb strings.Builder
	for i := range b.stack {
		f := &b.stack[i]
		switch f.node.Type {
		case ArrayType:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(len(f.node.Values)))
			sb.WriteByte(']')
		case ObjectType:
			if sb.Len() > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(f.key)
		}
	}
	return sb.String()
}

func prealloc(size int) int {
	if size < 0 {
		return 0
	}
	return min(size, maxPrealloc)
}

func eventOf(n *Node) stream.EventType {
	switch n.Type {
	case NullType:
		return stream.EventNull
	case BoolType:
		return stream.EventBool
	case NumberType:
		switch n.NumberKind() {
		case IntKind:
			return stream.EventInt
		case UintKind:
			return stream.EventUint
		}
		return stream.EventFloat
	case StringType:
		return stream.EventString
	case BinaryType:
		return stream.EventBinary
	case ArrayType:
		return stream.EventBeginArray
	default:
		return stream.EventBeginObject
	}
}
