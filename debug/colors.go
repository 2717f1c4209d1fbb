package debug

import (
	"strings"

	"github.com/signadot/evjson/stream"

	"github.com/fatih/color"
)

// Colors maps event types to color functions.
type Colors struct {
	Default func(string, ...any) string
	Map     map[stream.EventType]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[stream.EventType]func(string, ...any) string{},
	}
	sep := color.RGB(255, 0, 196).SprintfFunc()
	for _, t := range []stream.EventType{stream.EventElement, stream.EventMember} {
		colors.Map[t] = sep
	}
	frame := color.RGB(196, 128, 128).SprintfFunc()
	for _, t := range []stream.EventType{
		stream.EventBeginArray, stream.EventEndArray,
		stream.EventBeginObject, stream.EventEndObject,
	} {
		colors.Map[t] = frame
	}
	num := color.RGB(128, 216, 236).SprintfFunc()
	for _, t := range []stream.EventType{stream.EventInt, stream.EventUint, stream.EventFloat} {
		colors.Map[t] = num
	}
	colors.Map[stream.EventNull] = color.RGB(168, 0, 196).SprintfFunc()
	colors.Map[stream.EventBool] = color.CyanString
	colors.Map[stream.EventString] = color.RGB(8, 196, 16).SprintfFunc()
	colors.Map[stream.EventBinary] = color.RGB(198, 198, 46).SprintfFunc()
	colors.Map[stream.EventKey] = color.RGB(128, 168, 196).SprintfFunc()
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t stream.EventType, s string) string {
	return c.Get(t)(s)
}

func (c *Colors) Get(t stream.EventType) func(string, ...any) string {
	f := c.Map[t]
	if f == nil {
		return c.Default
	}
	return f
}
