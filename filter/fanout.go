package filter

import (
	"github.com/signadot/evjson/stream"
)

// Tee sends every call to each of its downstream consumers in order. It
// fails with the first downstream error; downstreams after the failing one
// do not receive the failing call.
type Tee struct {
	Next []stream.Consumer
}

// NewTee creates a Tee over downstreams.
func NewTee(downstreams ...stream.Consumer) *Tee {
	return &Tee{Next: downstreams}
}

// TeeTo is the stage form of Tee: calls go to the next stage and then to
// each of others.
func TeeTo(others ...stream.Consumer) stream.Filter {
	return func(next stream.Consumer) stream.Consumer {
		return NewTee(append([]stream.Consumer{next}, others...)...)
	}
}

func (t *Tee) each(f func(c stream.Consumer) error) error {
	for _, c := range t.Next {
		if err := f(c); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tee) Null() error {
	return t.each(func(c stream.Consumer) error { return c.Null() })
}

func (t *Tee) Bool(v bool) error {
	return t.each(func(c stream.Consumer) error { return c.Bool(v) })
}

func (t *Tee) Int(v int64) error {
	return t.each(func(c stream.Consumer) error { return c.Int(v) })
}

func (t *Tee) Uint(v uint64) error {
	return t.each(func(c stream.Consumer) error { return c.Uint(v) })
}

func (t *Tee) Float(v float64) error {
	return t.each(func(c stream.Consumer) error { return c.Float(v) })
}

func (t *Tee) String(v string) error {
	return t.each(func(c stream.Consumer) error { return c.String(v) })
}

func (t *Tee) Binary(v []byte) error {
	return t.each(func(c stream.Consumer) error { return c.Binary(v) })
}

func (t *Tee) BeginArray(size int) error {
	return t.each(func(c stream.Consumer) error { return c.BeginArray(size) })
}

func (t *Tee) Element() error {
	return t.each(func(c stream.Consumer) error { return c.Element() })
}

func (t *Tee) EndArray(size int) error {
	return t.each(func(c stream.Consumer) error { return c.EndArray(size) })
}

func (t *Tee) BeginObject(size int) error {
	return t.each(func(c stream.Consumer) error { return c.BeginObject(size) })
}

func (t *Tee) Key(k string) error {
	return t.each(func(c stream.Consumer) error { return c.Key(k) })
}

func (t *Tee) Member() error {
	return t.each(func(c stream.Consumer) error { return c.Member() })
}

func (t *Tee) EndObject(size int) error {
	return t.each(func(c stream.Consumer) error { return c.EndObject(size) })
}

// Ref forwards every call to *Target. The target is shared, not owned:
// several pipelines may hold Refs to one consumer, one sequence at a time.
type Ref struct {
	stream.Forward
}

// NewRef creates a Ref to target.
func NewRef(target stream.Consumer) *Ref {
	return &Ref{Forward: stream.Forward{Next: target}}
}

// Target returns the referenced consumer.
func (r *Ref) Target() stream.Consumer {
	return r.Next
}
