package filter

import (
	"fmt"
	"math"

	"github.com/signadot/evjson/stream"
)

// NonFinitePolicy says what happens to NaN and infinite floats.
type NonFinitePolicy int

const (
	NonFiniteToNull NonFinitePolicy = iota
	// NonFiniteToString sends "NaN", "Infinity" or "-Infinity".
	NonFiniteToString
	NonFiniteToError
)

func (p NonFinitePolicy) String() string {
	switch p {
	case NonFiniteToNull:
		return "null"
	case NonFiniteToString:
		return "string"
	case NonFiniteToError:
		return "error"
	default:
		return fmt.Sprintf("NonFinitePolicy(%d)", int(p))
	}
}

// ParseNonFinitePolicy parses the String form of a NonFinitePolicy.
func ParseNonFinitePolicy(s string) (NonFinitePolicy, error) {
	for _, p := range []NonFinitePolicy{NonFiniteToNull, NonFiniteToString, NonFiniteToError} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown non-finite policy %q", s)
}

type nonFinite struct {
	stream.Forward
	policy NonFinitePolicy
}

// NewNonFinite applies policy to Float calls carrying NaN or an infinity.
// Finite floats pass unchanged.
func NewNonFinite(next stream.Consumer, policy NonFinitePolicy) stream.Consumer {
	return &nonFinite{Forward: stream.Forward{Next: next}, policy: policy}
}

func (f *nonFinite) Float(v float64) error {
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		return f.Next.Float(v)
	}
	switch f.policy {
	case NonFiniteToNull:
		return f.Next.Null()
	case NonFiniteToString:
		return f.Next.String(nonFiniteText(v))
	default:
		return &stream.NonFiniteError{Value: v}
	}
}

func nonFiniteText(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case v > 0:
		return "Infinity"
	default:
		return "-Infinity"
	}
}

func NonFinite(policy NonFinitePolicy) stream.Filter {
	return func(next stream.Consumer) stream.Consumer {
		return NewNonFinite(next, policy)
	}
}

// Signedness names an integer representation.
type Signedness int

const (
	PreferSigned Signedness = iota
	PreferUnsigned
)

func (s Signedness) String() string {
	switch s {
	case PreferSigned:
		return "signed"
	case PreferUnsigned:
		return "unsigned"
	default:
		return fmt.Sprintf("Signedness(%d)", int(s))
	}
}

// ParseSignedness parses the String form of a Signedness.
func ParseSignedness(s string) (Signedness, error) {
	switch s {
	case "signed":
		return PreferSigned, nil
	case "unsigned":
		return PreferUnsigned, nil
	}
	return 0, fmt.Errorf("unknown signedness %q", s)
}

type prefer struct {
	stream.Forward
	pref Signedness
}

// NewPrefer re-tags integers of the other signedness as pref when the value
// fits. Values that do not fit pass unchanged.
func NewPrefer(next stream.Consumer, pref Signedness) stream.Consumer {
	return &prefer{Forward: stream.Forward{Next: next}, pref: pref}
}

func (f *prefer) Int(v int64) error {
	if f.pref == PreferUnsigned && v >= 0 {
		return f.Next.Uint(uint64(v))
	}
	return f.Next.Int(v)
}

func (f *prefer) Uint(v uint64) error {
	if f.pref == PreferSigned && v <= math.MaxInt64 {
		return f.Next.Int(int64(v))
	}
	return f.Next.Uint(v)
}

func Prefer(pref Signedness) stream.Filter {
	return func(next stream.Consumer) stream.Consumer {
		return NewPrefer(next, pref)
	}
}
