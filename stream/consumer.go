package stream

// Unsized is the size argument of begin/end calls when the number of
// children is not known up front.
const Unsized = -1

// Consumer is the complete event protocol.
//
// A non-nil error aborts the sequence: the caller must not make further
// calls and must propagate the error.
type Consumer interface {
	Null() error
	Bool(v bool) error
	Int(v int64) error
	Uint(v uint64) error
	Float(v float64) error
	String(v string) error
	Binary(v []byte) error

	BeginArray(size int) error
	Element() error
	EndArray(size int) error

	BeginObject(size int) error
	Key(k string) error
	Member() error
	EndObject(size int) error
}

// Handler is the reduced event protocol for consumers which have no use for
// container sizes.
type Handler interface {
	Null() error
	Bool(v bool) error
	Int(v int64) error
	Uint(v uint64) error
	Float(v float64) error
	String(v string) error
	Binary(v []byte) error

	BeginArray() error
	Element() error
	EndArray() error

	BeginObject() error
	Key(k string) error
	Member() error
	EndObject() error
}

// Lift adapts a Handler to the complete Consumer interface. Sizes are
// dropped.
func Lift(h Handler) Consumer {
	return &lifted{h: h}
}

type lifted struct {
	h Handler
}

func (l *lifted) Null() error { return l.h.Null() }
func (l *lifted) Bool(v bool) error { return l.h.Bool(v) }
func (l *lifted) Int(v int64) error { return l.h.Int(v) }
func (l *lifted) Uint(v uint64) error { return l.h.Uint(v) }
func (l *lifted) Float(v float64) error { return l.h.Float(v) }
func (l *lifted) String(v string) error { return l.h.String(v) }
func (l *lifted) Binary(v []byte) error { return l.h.Binary(v) }
func (l *lifted) BeginArray(int) error { return l.h.BeginArray() }
func (l *lifted) Element() error { return l.h.Element() }
func (l *lifted) EndArray(int) error { return l.h.EndArray() }
func (l *lifted) BeginObject(int) error { return l.h.BeginObject() }
func (l *lifted) Key(k string) error { return l.h.Key(k) }
func (l *lifted) Member() error { return l.h.Member() }
func (l *lifted) EndObject(int) error { return l.h.EndObject() }

// Filter wraps a downstream consumer, returning the consumer which
// upstream producers should drive.
type Filter func(next Consumer) Consumer

// Forward passes every call unchanged to Next. Filters embed it and
// override the calls they transform.
type Forward struct {
	Next Consumer
}

func (f *Forward) Null() error { return f.Next.Null() }
func (f *Forward) Bool(v bool) error { return f.Next.Bool(v) }
func (f *Forward) Int(v int64) error { return f.Next.Int(v) }
func (f *Forward) Uint(v uint64) error { return f.Next.Uint(v) }
func (f *Forward) Float(v float64) error { return f.Next.Float(v) }
func (f *Forward) String(v string) error { return f.Next.String(v) }
func (f *Forward) Binary(v []byte) error { return f.Next.Binary(v) }
func (f *Forward) BeginArray(size int) error { return f.Next.BeginArray(size) }
func (f *Forward) Element() error { return f.Next.Element() }
func (f *Forward) EndArray(size int) error { return f.Next.EndArray(size) }
func (f *Forward) BeginObject(size int) error { return f.Next.BeginObject(size) }
func (f *Forward) Key(k string) error { return f.Next.Key(k) }
func (f *Forward) Member() error { return f.Next.Member() }
func (f *Forward) EndObject(size int) error { return f.Next.EndObject(size) }

// Discard accepts and drops every call.
type Discard struct{}

func (Discard) Null() error { return nil }
func (Discard) Bool(bool) error { return nil }
func (Discard) Int(int64) error { return nil }
func (Discard) Uint(uint64) error { return nil }
func (Discard) Float(float64) error { return nil }
func (Discard) String(string) error { return nil }
func (Discard) Binary([]byte) error { return nil }
func (Discard) BeginArray(int) error { return nil }
func (Discard) Element() error { return nil }
func (Discard) EndArray(int) error { return nil }
func (Discard) BeginObject(int) error { return nil }
func (Discard) Key(string) error { return nil }
func (Discard) Member() error { return nil }
func (Discard) EndObject(int) error { return nil }
