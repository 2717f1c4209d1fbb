// Package filter provides pass-through transformations of the event
// protocol.
//
// Each filter is a stream.Consumer wrapping a downstream consumer. It
// forwards every call it does not transform unchanged and in order, and
// fails fast: the first error, its own or the downstream's, is returned to
// the producer.
//
// Every NewX constructor has a matching stage helper returning a
// stream.Filter, for use with pipe.Chain:
//
//	c := pipe.Chain(writer,
//	    filter.BinaryToText(filter.Base64),
//	    filter.NonFinite(filter.NonFiniteToNull),
//	)
//
// The filters available are
//
//   - BinaryToText, BinaryToError: binary data for formats without it
//   - InvalidStringToBinary: strings which are not valid UTF-8 as binary
//   - KeyCase: object key naming conventions
//   - NonFinite: NaN and infinities
//   - Prefer: integer signedness
//   - KeyCheck: key validation by regular expression or expression
//   - LimitDepth: nesting limit
//   - Tee: fan-out to several consumers
//   - Ref: a shared consumer referenced without ownership
package filter
