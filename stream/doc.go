// Package stream defines the event protocol shared by every producer,
// filter and consumer of JSON-like data in evjson.
//
// A value is communicated as a sequence of calls on a [Consumer]. Scalars
// are single calls. Arrays and objects are bracketed by begin/end calls and
// every child is followed by a separator call:
//
//	[1, "x", {"a": true}]
//
//	BeginArray(3)
//	Int(1)        Element()
//	String("x")   Element()
//	BeginObject(1)
//	Key("a") Bool(true) Member()
//	EndObject(1)  Element()
//	EndArray(3)
//
// # Sizes
//
// Begin and end calls carry the number of children when the producer knows
// it cheaply, or [Unsized] when it does not. A sized begin must be closed by
// an end with the same size, and an unsized begin by an unsized end.
//
// # Reduced consumers
//
// Consumers that need no sizes implement the smaller [Handler] interface
// and are adapted with [Lift].
//
// # Filters
//
// A filter is a consumer that forwards (possibly transformed) calls to a
// downstream consumer. Embed [Forward] and override the calls that change.
// A [Filter] function wraps a downstream consumer and is the unit of
// pipeline construction.
//
// # Validation
//
// [Validator] is the reference checker for legal call sequences. It may be
// placed in front of any consumer; illegal calls fail with a
// [*SequenceError] before reaching the downstream. After a producer returns,
// call [Validator.Finish] to detect truncated input.
//
// # Events
//
// [Event] reifies one call. [Recorder] captures a sequence of events and
// [Replay] drives them into a consumer again, which is mostly useful in
// tests and for buffering.
//
// The protocol is synchronous: each call returns only after the downstream
// has fully handled it. Consumers are not safe for concurrent use.
package stream
