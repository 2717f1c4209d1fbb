package filter

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"github.com/signadot/evjson/stream"
)

// BinaryEncoding is a reversible text encoding for binary data.
type BinaryEncoding int

const (
	Hex BinaryEncoding = iota
	Base64
	Base64URL
)

func (e BinaryEncoding) String() string {
	switch e {
	case Hex:
		return "hex"
	case Base64:
		return "base64"
	case Base64URL:
		return "base64url"
	default:
		return fmt.Sprintf("BinaryEncoding(%d)", int(e))
	}
}

// ParseBinaryEncoding parses the String form of a BinaryEncoding.
func ParseBinaryEncoding(s string) (BinaryEncoding, error) {
	for _, e := range []BinaryEncoding{Hex, Base64, Base64URL} {
		if e.String() == s {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown binary encoding %q", s)
}

// Encode returns the text form of d.
func (e BinaryEncoding) Encode(d []byte) string {
	switch e {
	case Base64:
		return base64.StdEncoding.EncodeToString(d)
	case Base64URL:
		return base64.URLEncoding.EncodeToString(d)
	default:
		return hex.EncodeToString(d)
	}
}

// Decode reverses Encode.
func (e BinaryEncoding) Decode(s string) ([]byte, error) {
	switch e {
	case Base64:
		return base64.StdEncoding.DecodeString(s)
	case Base64URL:
		return base64.URLEncoding.DecodeString(s)
	default:
		return hex.DecodeString(s)
	}
}

type binaryToText struct {
	stream.Forward
	enc BinaryEncoding
}

// NewBinaryToText forwards Binary calls as String calls carrying the
// encoded data.
func NewBinaryToText(next stream.Consumer, enc BinaryEncoding) stream.Consumer {
	return &binaryToText{Forward: stream.Forward{Next: next}, enc: enc}
}

func (f *binaryToText) Binary(v []byte) error {
	return f.Next.String(f.enc.Encode(v))
}

func BinaryToText(enc BinaryEncoding) stream.Filter {
	return func(next stream.Consumer) stream.Consumer {
		return NewBinaryToText(next, enc)
	}
}

type binaryToError struct {
	stream.Forward
}

// NewBinaryToError fails every Binary call with
// *stream.UnsupportedBinaryError.
func NewBinaryToError(next stream.Consumer) stream.Consumer {
	return &binaryToError{Forward: stream.Forward{Next: next}}
}

func (f *binaryToError) Binary(v []byte) error {
	return &stream.UnsupportedBinaryError{Len: len(v)}
}

func BinaryToError() stream.Filter {
	return NewBinaryToError
}

type invalidStringToBinary struct {
	stream.Forward
}

// NewInvalidStringToBinary forwards String calls whose argument is not
// valid UTF-8 as Binary calls.
func NewInvalidStringToBinary(next stream.Consumer) stream.Consumer {
	return &invalidStringToBinary{Forward: stream.Forward{Next: next}}
}

func (f *invalidStringToBinary) String(v string) error {
	if utf8.ValidString(v) {
		return f.Next.String(v)
	}
	return f.Next.Binary([]byte(v))
}

func InvalidStringToBinary() stream.Filter {
	return NewInvalidStringToBinary
}
