package filter

import (
	"github.com/signadot/evjson/stream"
)

type limitDepth struct {
	stream.Forward
	max, depth int
}

// NewLimitDepth fails with *stream.DepthError when containers nest deeper
// than max.
func NewLimitDepth(next stream.Consumer, max int) stream.Consumer {
	return &limitDepth{Forward: stream.Forward{Next: next}, max: max}
}

func (f *limitDepth) push() error {
	if f.depth >= f.max {
		return &stream.DepthError{Max: f.max}
	}
	f.depth++
	return nil
}

func (f *limitDepth) BeginArray(size int) error {
	if err := f.push(); err != nil {
		return err
	}
	return f.Next.BeginArray(size)
}

func (f *limitDepth) EndArray(size int) error {
	f.depth--
	return f.Next.EndArray(size)
}

func (f *limitDepth) BeginObject(size int) error {
	if err := f.push(); err != nil {
		return err
	}
	return f.Next.BeginObject(size)
}

func (f *limitDepth) EndObject(size int) error {
	f.depth--
	return f.Next.EndObject(size)
}

func LimitDepth(max int) stream.Filter {
	return func(next stream.Consumer) stream.Consumer {
		return NewLimitDepth(next, max)
	}
}
