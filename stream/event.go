package stream

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

// Event represents one protocol call.
type Event struct {
	Type EventType

	// Size applies to begin/end events.
	Size int

	// Value fields (only one is set based on Type)
	Key    string
	String string
	Bytes  []byte
	Int    int64
	Uint   uint64
	Float  float64
	Bool   bool
}

// IsValueStart returns true if this event starts a value (as opposed to a
// key, separator or end marker).
func (e *Event) IsValueStart() bool {
	return e.Type == EventBeginObject ||
		e.Type == EventBeginArray ||
		e.Type.IsScalar()
}

// Apply makes the call e represents on c.
func (e *Event) Apply(c Consumer) error {
	switch e.Type {
	case EventNull:
		return c.Null()
	case EventBool:
		return c.Bool(e.Bool)
	case EventInt:
		return c.Int(e.Int)
	case EventUint:
		return c.Uint(e.Uint)
	case EventFloat:
		return c.Float(e.Float)
	case EventString:
		return c.String(e.String)
	case EventBinary:
		return c.Binary(e.Bytes)
	case EventBeginArray:
		return c.BeginArray(e.Size)
	case EventElement:
		return c.Element()
	case EventEndArray:
		return c.EndArray(e.Size)
	case EventBeginObject:
		return c.BeginObject(e.Size)
	case EventKey:
		return c.Key(e.Key)
	case EventMember:
		return c.Member()
	case EventEndObject:
		return c.EndObject(e.Size)
	default:
		return fmt.Errorf("unknown event type %d", e.Type)
	}
}

// Text renders the call, e.g. `BeginArray(3)` or `Key("a")`.
func (e Event) Text() string {
	switch e.Type {
	case EventBool:
		return "Bool(" + strconv.FormatBool(e.Bool) + ")"
	case EventInt:
		return "Int(" + strconv.FormatInt(e.Int, 10) + ")"
	case EventUint:
		return "Uint(" + strconv.FormatUint(e.Uint, 10) + ")"
	case EventFloat:
		return "Float(" + strconv.FormatFloat(e.Float, 'g', -1, 64) + ")"
	case EventString:
		return "String(" + strconv.Quote(e.String) + ")"
	case EventBinary:
		return "Binary(" + hex.EncodeToString(e.Bytes) + ")"
	case EventKey:
		return "Key(" + strconv.Quote(e.Key) + ")"
	case EventBeginArray, EventEndArray, EventBeginObject, EventEndObject:
		if e.Size == Unsized {
			return e.Type.String() + "()"
		}
		return e.Type.String() + "(" + strconv.Itoa(e.Size) + ")"
	default:
		return e.Type.String()
	}
}

// EventType represents the type of a protocol call.
type EventType int

const (
	EventNull EventType = iota
	EventBool
	EventInt
	EventUint
	EventFloat
	EventString
	EventBinary
	EventBeginArray
	EventElement
	EventEndArray
	EventBeginObject
	EventKey
	EventMember
	EventEndObject
)

var eventTypeNames = [...]string{
	EventNull:        "Null",
	EventBool:        "Bool",
	EventInt:         "Int",
	EventUint:        "Uint",
	EventFloat:       "Float",
	EventString:      "String",
	EventBinary:      "Binary",
	EventBeginArray:  "BeginArray",
	EventElement:     "Element",
	EventEndArray:    "EndArray",
	EventBeginObject: "BeginObject",
	EventKey:         "Key",
	EventMember:      "Member",
	EventEndObject:   "EndObject",
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventTypeNames) {
		return "Unknown"
	}
	return eventTypeNames[t]
}

// IsScalar reports whether t is a complete value on its own.
func (t EventType) IsScalar() bool {
	return t >= EventNull && t <= EventBinary
}

// IsNumber reports whether t is one of the numeric events.
func (t EventType) IsNumber() bool {
	switch t {
	case EventInt, EventUint, EventFloat:
		return true
	default:
		return false
	}
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(d []byte) error {
	k := string(d)
	for i, name := range eventTypeNames {
		if name == k {
			*t = EventType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown type %q", k)
}
