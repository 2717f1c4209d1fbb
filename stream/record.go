package stream

// Recorder is a Consumer which appends every call to Events.
type Recorder struct {
	Events []Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

func (r *Recorder) add(ev Event) error {
	r.Events = append(r.Events, ev)
	return nil
}

func (r *Recorder) Null() error { return r.add(Event{Type: EventNull}) }
func (r *Recorder) Bool(v bool) error { return r.add(Event{Type: EventBool, Bool: v}) }
func (r *Recorder) Int(v int64) error { return r.add(Event{Type: EventInt, Int: v}) }
func (r *Recorder) Uint(v uint64) error { return r.add(Event{Type: EventUint, Uint: v}) }
func (r *Recorder) Float(v float64) error { return r.add(Event{Type: EventFloat, Float: v}) }
func (r *Recorder) String(v string) error { return r.add(Event{Type: EventString, String: v}) }
func (r *Recorder) Element() error { return r.add(Event{Type: EventElement}) }
func (r *Recorder) Key(k string) error { return r.add(Event{Type: EventKey, Key: k}) }
func (r *Recorder) Member() error { return r.add(Event{Type: EventMember}) }

// Binary records a copy of v; producers may reuse their buffers.
func (r *Recorder) Binary(v []byte) error {
	return r.add(Event{Type: EventBinary, Bytes: append([]byte{}, v...)})
}

func (r *Recorder) BeginArray(size int) error {
	return r.add(Event{Type: EventBeginArray, Size: size})
}

func (r *Recorder) EndArray(size int) error {
	return r.add(Event{Type: EventEndArray, Size: size})
}

func (r *Recorder) BeginObject(size int) error {
	return r.add(Event{Type: EventBeginObject, Size: size})
}

func (r *Recorder) EndObject(size int) error {
	return r.add(Event{Type: EventEndObject, Size: size})
}

// Replay drives events into c in order, stopping at the first error.
func Replay(events []Event, c Consumer) error {
	for i := range events {
		if err := events[i].Apply(c); err != nil {
			return err
		}
	}
	return nil
}
