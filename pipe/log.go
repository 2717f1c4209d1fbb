package pipe

import (
	"log/slog"

	"github.com/signadot/evjson/stream"
)

// logEvents logs each event at debug level before forwarding it.
type logEvents struct {
	stream.Forward
	log *slog.Logger
}

func (l *logEvents) event(ev stream.Event) {
	l.log.Debug("event", "call", ev.Text())
}

func (l *logEvents) Null() error {
	l.event(stream.Event{Type: stream.EventNull})
	return l.Next.Null()
}

func (l *logEvents) Bool(v bool) error {
	l.event(stream.Event{Type: stream.EventBool, Bool: v})
	return l.Next.Bool(v)
}

func (l *logEvents) Int(v int64) error {
	l.event(stream.Event{Type: stream.EventInt, Int: v})
	return l.Next.Int(v)
}

func (l *logEvents) Uint(v uint64) error {
	l.event(stream.Event{Type: stream.EventUint, Uint: v})
	return l.Next.Uint(v)
}

func (l *logEvents) Float(v float64) error {
	l.event(stream.Event{Type: stream.EventFloat, Float: v})
	return l.Next.Float(v)
}

func (l *logEvents) String(v string) error {
	l.event(stream.Event{Type: stream.EventString, String: v})
	return l.Next.String(v)
}

func (l *logEvents) Binary(v []byte) error {
	l.event(stream.Event{Type: stream.EventBinary, Bytes: v})
	return l.Next.Binary(v)
}

func (l *logEvents) BeginArray(size int) error {
	l.event(stream.Event{Type: stream.EventBeginArray, Size: size})
	return l.Next.BeginArray(size)
}

func (l *logEvents) Element() error {
	l.event(stream.Event{Type: stream.EventElement})
	return l.Next.Element()
}

func (l *logEvents) EndArray(size int) error {
	l.event(stream.Event{Type: stream.EventEndArray, Size: size})
	return l.Next.EndArray(size)
}

func (l *logEvents) BeginObject(size int) error {
	l.event(stream.Event{Type: stream.EventBeginObject, Size: size})
	return l.Next.BeginObject(size)
}

func (l *logEvents) Key(k string) error {
	l.event(stream.Event{Type: stream.EventKey, Key: k})
	return l.Next.Key(k)
}

func (l *logEvents) Member() error {
	l.event(stream.Event{Type: stream.EventMember})
	return l.Next.Member()
}

func (l *logEvents) EndObject(size int) error {
	l.event(stream.Event{Type: stream.EventEndObject, Size: size})
	return l.Next.EndObject(size)
}
