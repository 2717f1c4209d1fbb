// Package format names the document formats evjson reads and writes.
//
// # Usage
//
//	f, err := format.ParseFormat("yaml")
//	f, ok := format.FromPath("values.cbor")
//
// Format implements encoding.TextMarshaler and encoding.TextUnmarshaler, so
// it can be used directly as a command line flag value.
package format
