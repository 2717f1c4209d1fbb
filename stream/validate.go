package stream

import "strconv"

// Validator checks that a call sequence follows the protocol, forwarding
// legal calls to an optional downstream consumer.
//
// Only the first violation is reported; after a failure the Validator must
// be Reset before reuse.
type Validator struct {
	next  Consumer
	stack []frame
	done  bool
}

type frameKind uint8

const (
	arrayFrame frameKind = iota
	objectFrame
)

// await is the sub-state of the innermost frame.
type await uint8

const (
	awaitValue   await = iota // a child value (arrays: or EndArray)
	awaitElement              // Element after an array child
	awaitKey                  // Key or EndObject
	awaitMember               // Member after an object value
)

type frame struct {
	kind  frameKind
	await await
	size  int
	n     int
	key   string
}

// NewValidator creates a Validator forwarding to next, which may be nil.
func NewValidator(next Consumer) *Validator {
	return &Validator{next: next}
}

// Validate returns a Filter placing a Validator in front of the
// downstream consumer.
func Validate() Filter {
	return func(next Consumer) Consumer {
		return NewValidator(next)
	}
}

// Reset clears all state so the Validator can check a new sequence.
func (v *Validator) Reset() {
	v.stack = v.stack[:0]
	v.done = false
}

// Depth returns the current nesting depth (0 = top level).
func (v *Validator) Depth() int {
	return len(v.stack)
}

// Complete reports whether a top-level value has been completed.
func (v *Validator) Complete() bool {
	return v.done
}

// Finish performs the terminal check: it fails unless exactly one
// top-level value has been completed.
func (v *Validator) Finish() error {
	if v.done {
		return nil
	}
	msg := "no value"
	if n := len(v.stack); n > 0 {
		msg = strconv.Itoa(n) + " open containers"
	}
	return &SequenceError{Rule: RuleUnterminated, Path: v.Path(), Msg: msg}
}

// Path returns the position of the current call, e.g. "", "a", "a[0]",
// "[2].b".
func (v *Validator) Path() string {
	res := ""
	for i := range v.stack {
		f := &v.stack[i]
		switch f.kind {
		case arrayFrame:
			res += "[" + strconv.Itoa(f.n) + "]"
		case objectFrame:
			if f.await == awaitKey {
				continue
			}
			if i > 0 {
				res += "."
			}
			res += f.key
		}
	}
	return res
}

func (v *Validator) fail(r Rule, et EventType, msg string) error {
	return &SequenceError{Rule: r, Event: et, Path: v.Path(), Msg: msg}
}

func (v *Validator) top() *frame {
	return &v.stack[len(v.stack)-1]
}

// checkValue checks that a value may start here.
func (v *Validator) checkValue(et EventType) error {
	if v.done {
		return v.fail(RuleAfterComplete, et, "")
	}
	if len(v.stack) == 0 {
		return nil
	}
	switch f := v.top(); f.await {
	case awaitValue:
		if f.kind == arrayFrame && f.size != Unsized && f.n >= f.size {
			return v.fail(RuleSizeMismatch, et, "more than "+strconv.Itoa(f.size)+" children")
		}
		return nil
	case awaitElement:
		return v.fail(RuleUnexpected, et, "awaiting Element")
	case awaitKey:
		return v.fail(RuleUnexpected, et, "awaiting Key")
	default:
		return v.fail(RuleUnexpected, et, "awaiting Member")
	}
}

// valueDone advances the enclosing frame after a complete value.
func (v *Validator) valueDone() {
	if len(v.stack) == 0 {
		v.done = true
		return
	}
	f := v.top()
	if f.kind == arrayFrame {
		f.await = awaitElement
	} else {
		f.await = awaitMember
	}
}

// checkFrame checks that the innermost frame has kind k.
func (v *Validator) checkFrame(k frameKind, et EventType) error {
	if v.done {
		return v.fail(RuleAfterComplete, et, "")
	}
	if len(v.stack) == 0 {
		return v.fail(RuleNoFrame, et, "")
	}
	if v.top().kind != k {
		if k == arrayFrame {
			return v.fail(RuleFrameMismatch, et, "innermost frame is an object")
		}
		return v.fail(RuleFrameMismatch, et, "innermost frame is an array")
	}
	return nil
}

func (v *Validator) scalar(et EventType) error {
	if err := v.checkValue(et); err != nil {
		return err
	}
	v.valueDone()
	return nil
}

func (v *Validator) Null() error {
	if err := v.scalar(EventNull); err != nil {
		return err
	}
	if v.next == nil {
		return nil
	}
	return v.next.Null()
}

func (v *Validator) Bool(b bool) error {
	if err := v.scalar(EventBool); err != nil {
		return err
	}
	if v.next == nil {
		return nil
	}
	return v.next.Bool(b)
}

func (v *Validator) Int(i int64) error {
	if err := v.scalar(EventInt); err != nil {
		return err
	}
	if v.next == nil {
		return nil
	}
	return v.next.Int(i)
}

func (v *Validator) Uint(u uint64) error {
	if err := v.scalar(EventUint); err != nil {
		return err
	}
	if v.next == nil {
		return nil
	}
	return v.next.Uint(u)
}

func (v *Validator) Float(f float64) error {
	if err := v.scalar(EventFloat); err != nil {
		return err
	}
	if v.next == nil {
		return nil
	}
	return v.next.Float(f)
}

func (v *Validator) String(s string) error {
	if err := v.scalar(EventString); err != nil {
		return err
	}
	if v.next == nil {
		return nil
	}
	return v.next.String(s)
}

func (v *Validator) Binary(b []byte) error {
	if err := v.scalar(EventBinary); err != nil {
		return err
	}
	if v.next == nil {
		return nil
	}
	return v.next.Binary(b)
}

func (v *Validator) begin(k frameKind, size int, et EventType) error {
	if err := v.checkValue(et); err != nil {
		return err
	}
	if size < Unsized {
		return v.fail(RuleSizeMismatch, et, "negative size "+strconv.Itoa(size))
	}
	f := frame{kind: k, size: size}
	if k == objectFrame {
		f.await = awaitKey
	}
	v.stack = append(v.stack, f)
	return nil
}

func (v *Validator) end(k frameKind, size int, et EventType) error {
	if err := v.checkFrame(k, et); err != nil {
		return err
	}
	f := v.top()
	switch {
	case k == arrayFrame && f.await != awaitValue:
		return v.fail(RuleUnexpected, et, "awaiting Element")
	case k == objectFrame && f.await == awaitValue:
		return v.fail(RuleUnexpected, et, "awaiting value")
	case k == objectFrame && f.await == awaitMember:
		return v.fail(RuleUnexpected, et, "awaiting Member")
	}
	if (f.size == Unsized) != (size == Unsized) {
		if f.size == Unsized {
			return v.fail(RuleSizeMismatch, et, "unsized begin closed by sized end")
		}
		return v.fail(RuleSizeMismatch, et, "sized begin closed by unsized end")
	}
	if f.size != Unsized {
		if size != f.size {
			return v.fail(RuleSizeMismatch, et, "begin size "+strconv.Itoa(f.size)+", end size "+strconv.Itoa(size))
		}
		if f.n != f.size {
			return v.fail(RuleSizeMismatch, et, "declared "+strconv.Itoa(f.size)+" children, got "+strconv.Itoa(f.n))
		}
	}
	v.stack = v.stack[:len(v.stack)-1]
	v.valueDone()
	return nil
}

// separator handles Element and Member.
func (v *Validator) separator(k frameKind, want await, et EventType) error {
	if err := v.checkFrame(k, et); err != nil {
		return err
	}
	f := v.top()
	if f.await != want {
		if k == arrayFrame {
			return v.fail(RuleUnexpected, et, "no element value")
		}
		return v.fail(RuleUnexpected, et, "no member value")
	}
	if f.size != Unsized && f.n >= f.size {
		return v.fail(RuleSizeMismatch, et, "more than "+strconv.Itoa(f.size)+" children")
	}
	f.n++
	if k == arrayFrame {
		f.await = awaitValue
	} else {
		f.await = awaitKey
	}
	return nil
}

func (v *Validator) BeginArray(size int) error {
	if err := v.begin(arrayFrame, size, EventBeginArray); err != nil {
		return err
	}
	if v.next == nil {
		return nil
	}
	return v.next.BeginArray(size)
}

func (v *Validator) Element() error {
	if err := v.separator(arrayFrame, awaitElement, EventElement); err != nil {
		return err
	}
	if v.next == nil {
		return nil
	}
	return v.next.Element()
}

func (v *Validator) EndArray(size int) error {
	if err := v.end(arrayFrame, size, EventEndArray); err != nil {
		return err
	}
	if v.next == nil {
		return nil
	}
	return v.next.EndArray(size)
}

func (v *Validator) BeginObject(size int) error {
	if err := v.begin(objectFrame, size, EventBeginObject); err != nil {
		return err
	}
	if v.next == nil {
		return nil
	}
	return v.next.BeginObject(size)
}

func (v *Validator) Key(k string) error {
	if err := v.checkFrame(objectFrame, EventKey); err != nil {
		return err
	}
	f := v.top()
	switch f.await {
	case awaitValue:
		return v.fail(RuleUnexpected, EventKey, "awaiting value")
	case awaitMember:
		return v.fail(RuleUnexpected, EventKey, "awaiting Member")
	}
	if f.size != Unsized && f.n >= f.size {
		return v.fail(RuleSizeMismatch, EventKey, "more than "+strconv.Itoa(f.size)+" members")
	}
	f.await = awaitValue
	f.key = k
	if v.next == nil {
		return nil
	}
	return v.next.Key(k)
}

func (v *Validator) Member() error {
	if err := v.separator(objectFrame, awaitMember, EventMember); err != nil {
		return err
	}
	if v.next == nil {
		return nil
	}
	return v.next.Member()
}

func (v *Validator) EndObject(size int) error {
	if err := v.end(objectFrame, size, EventEndObject); err != nil {
		return err
	}
	if v.next == nil {
		return nil
	}
	return v.next.EndObject(size)
}
