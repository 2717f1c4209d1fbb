package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	JSONFormat Format = iota
	YAMLFormat
	CBORFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"j":    JSONFormat,
		"json": JSONFormat,
		"y":    YAMLFormat,
		"yaml": YAMLFormat,
		"yml":  YAMLFormat,
		"c":    CBORFormat,
		"cbor": CBORFormat,
	}[strings.ToLower(v)]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case JSONFormat:
		return []byte("json"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	case CBORFormat:
		return []byte("cbor"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsJSON() bool { return f == JSONFormat }
func (f Format) IsYAML() bool { return f == YAMLFormat }
func (f Format) IsCBOR() bool { return f == CBORFormat }

// IsBinary reports whether documents of this format are not text.
func (f Format) IsBinary() bool { return f == CBORFormat }

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case JSONFormat:
		return ".json"
	case YAMLFormat:
		return ".yaml"
	case CBORFormat:
		return ".cbor"
	default:
		return ""
	}
}

// FromPath returns the format named by the extension of path. Compression
// suffixes (.zst, .lz4) are looked through.
func FromPath(path string) (Format, bool) {
	ext := filepath.Ext(path)
	switch ext {
	case ".zst", ".lz4":
		ext = filepath.Ext(strings.TrimSuffix(path, ext))
	}
	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		return JSONFormat, true
	case ".yaml", ".yml":
		return YAMLFormat, true
	case ".cbor":
		return CBORFormat, true
	}
	return 0, false
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	return []Format{JSONFormat, YAMLFormat, CBORFormat}
}
