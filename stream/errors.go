package stream

import (
	"fmt"
	"strconv"
)

// Rule names the sequencing rule a SequenceError reports.
type Rule int

const (
	// RuleUnexpected: the call kind is not legal in the current state,
	// e.g. Key while awaiting Member, or Element while awaiting a value.
	RuleUnexpected Rule = iota
	// RuleFrameMismatch: a terminator, separator or key for the other
	// container kind.
	RuleFrameMismatch
	// RuleNoFrame: a terminator, separator or key with no open container.
	RuleNoFrame
	// RuleAfterComplete: a call after the top-level value completed.
	RuleAfterComplete
	// RuleSizeMismatch: sized/unsized pairing or child count disagrees
	// with the begin call.
	RuleSizeMismatch
	// RuleUnterminated: the sequence ended before the top-level value
	// completed.
	RuleUnterminated
)

func (r Rule) String() string {
	switch r {
	case RuleUnexpected:
		return "unexpected call"
	case RuleFrameMismatch:
		return "frame kind mismatch"
	case RuleNoFrame:
		return "no open frame"
	case RuleAfterComplete:
		return "call after completion"
	case RuleSizeMismatch:
		return "size mismatch"
	case RuleUnterminated:
		return "unterminated sequence"
	default:
		return "unknown rule"
	}
}

// SequenceError reports a protocol violation.
type SequenceError struct {
	Rule  Rule
	Event EventType
	Path  string
	Msg   string
}

func (e *SequenceError) Error() string {
	res := "sequence error: " + e.Rule.String()
	if e.Rule != RuleUnterminated {
		res += " at " + e.Event.String()
	}
	if e.Path != "" {
		res += " (path " + e.Path + ")"
	}
	if e.Msg != "" {
		res += ": " + e.Msg
	}
	return res
}

// ParseError reports malformed producer input. Offset is the byte offset
// of the failure, or -1 when unknown. Line and Column are 1-based and zero
// when unknown.
type ParseError struct {
	Offset int64
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	res := "parse error"
	switch {
	case e.Line > 0:
		res += fmt.Sprintf(" at %d:%d", e.Line, e.Column)
	case e.Offset >= 0:
		res += " at offset " + strconv.FormatInt(e.Offset, 10)
	}
	if e.Msg != "" {
		res += ": " + e.Msg
	}
	if e.Err != nil {
		res += ": " + e.Err.Error()
	}
	return res
}

func (e *ParseError) Unwrap() error { return e.Err }

// DuplicateKeyError reports a key repeated within one object.
type DuplicateKeyError struct {
	Key  string
	Path string
}

func (e *DuplicateKeyError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("duplicate key %q", e.Key)
	}
	return fmt.Sprintf("duplicate key %q at %s", e.Key, e.Path)
}

// UnsupportedBinaryError reports binary data sent to a consumer whose
// output has no binary type.
type UnsupportedBinaryError struct {
	Len int
}

func (e *UnsupportedBinaryError) Error() string {
	return fmt.Sprintf("binary data unsupported (%d bytes)", e.Len)
}

// NonFiniteError reports a NaN or infinite float where none is allowed.
type NonFiniteError struct {
	Value float64
}

func (e *NonFiniteError) Error() string {
	return "non-finite number unsupported: " + strconv.FormatFloat(e.Value, 'g', -1, 64)
}

// InvalidKeyError reports an object key rejected by a key check.
type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e *InvalidKeyError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid key %q", e.Key)
	}
	return fmt.Sprintf("invalid key %q: %s", e.Key, e.Reason)
}

// DepthError reports nesting beyond a configured limit.
type DepthError struct {
	Max int
}

func (e *DepthError) Error() string {
	return "nesting depth exceeds " + strconv.Itoa(e.Max)
}

// IncompleteSequenceError is returned by result accessors called before
// the top-level value completed.
type IncompleteSequenceError struct {
	Depth int
}

func (e *IncompleteSequenceError) Error() string {
	if e.Depth == 0 {
		return "incomplete sequence: no value"
	}
	return "incomplete sequence: " + strconv.Itoa(e.Depth) + " open containers"
}
