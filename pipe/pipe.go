// Package pipe composes producers, filters and consumers of the event
// protocol.
//
//	err := pipe.Run(src, dst,
//	    filter.KeyCase(filter.SnakeToCamel),
//	    filter.BinaryToText(filter.Base64),
//	)
//
// Run validates the sequence src produces and checks that it completed, so
// truncated input surfaces as a *stream.SequenceError even when the
// producer itself did not notice.
package pipe

import (
	"fmt"
	"log/slog"

	"github.com/signadot/evjson/debug"
	"github.com/signadot/evjson/stream"
)

// Producer drives a consumer with one complete value.
type Producer interface {
	Produce(c stream.Consumer) error
}

// ProducerFunc adapts a function to Producer.
type ProducerFunc func(c stream.Consumer) error

func (f ProducerFunc) Produce(c stream.Consumer) error {
	return f(c)
}

// Chain wraps dst in filters. Events reach filters[0] first and dst last.
func Chain(dst stream.Consumer, filters ...stream.Filter) stream.Consumer {
	c := dst
	for i := len(filters) - 1; i >= 0; i-- {
		c = filters[i](c)
	}
	return c
}

type stage struct {
	name   string
	filter stream.Filter
}

// Pipeline is a reusable list of filter stages. Each Run builds fresh
// filter instances, so one Pipeline may serve several sequential or
// concurrent runs provided the destinations differ.
type Pipeline struct {
	stages    []stage
	log       *slog.Logger
	logEvents bool
}

// New creates a Pipeline from unnamed stages.
func New(filters ...stream.Filter) *Pipeline {
	p := &Pipeline{log: debug.Logger(), logEvents: debug.Events()}
	for i, f := range filters {
		p.Add(fmt.Sprintf("stage%d", i), f)
	}
	return p
}

// Add appends a named stage.
func (p *Pipeline) Add(name string, f stream.Filter) *Pipeline {
	p.stages = append(p.stages, stage{name: name, filter: f})
	if debug.Pipeline() {
		p.log.Debug("pipeline stage", "name", name, "position", len(p.stages)-1)
	}
	return p
}

// WithLogger sets the logger for debug output.
func (p *Pipeline) WithLogger(l *slog.Logger) *Pipeline {
	p.log = l
	return p
}

// LogEvents turns debug logging of every event on or off.
func (p *Pipeline) LogEvents(on bool) *Pipeline {
	p.logEvents = on
	return p
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Names returns the stage names in order.
func (p *Pipeline) Names() []string {
	res := make([]string, len(p.stages))
	for i := range p.stages {
		res[i] = p.stages[i].name
	}
	return res
}

// Consumer returns the stages wrapped around dst, without validation.
func (p *Pipeline) Consumer(dst stream.Consumer) stream.Consumer {
	filters := make([]stream.Filter, len(p.stages))
	for i := range p.stages {
		filters[i] = p.stages[i].filter
	}
	return Chain(dst, filters...)
}

// Run drives src through the stages into dst. The sequence is validated
// before it reaches the first stage, and must complete.
func (p *Pipeline) Run(src Producer, dst stream.Consumer) error {
	c := p.Consumer(dst)
	if p.logEvents {
		c = &logEvents{Forward: stream.Forward{Next: c}, log: p.log}
	}
	v := stream.NewValidator(c)
	err := src.Produce(v)
	if err == nil {
		err = v.Finish()
	}
	if err != nil {
		if debug.Pipeline() {
			p.log.Debug("pipeline failed", "error", err, "path", v.Path(), "depth", v.Depth())
		}
		return err
	}
	if debug.Pipeline() {
		p.log.Debug("pipeline complete", "stages", len(p.stages))
	}
	return nil
}

// Run drives src through filters into dst as Pipeline.Run does.
func Run(src Producer, dst stream.Consumer, filters ...stream.Filter) error {
	return New(filters...).Run(src, dst)
}
