package filter

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/signadot/evjson/stream"
)

// KeyCaseMode selects a key naming conversion.
type KeyCaseMode int

const (
	// CamelToSnake: "UserName" -> "user_name", "HTTPServer" -> "http_server".
	CamelToSnake KeyCaseMode = iota
	// SnakeToCamel: "user_name" -> "UserName". Hyphens and spaces separate
	// words as underscores do, in every mode.
	SnakeToCamel
	// SnakeToLowerCamel: "user_name" -> "userName".
	SnakeToLowerCamel
)

func (m KeyCaseMode) String() string {
	switch m {
	case CamelToSnake:
		return "snake"
	case SnakeToCamel:
		return "camel"
	case SnakeToLowerCamel:
		return "lowercamel"
	default:
		return fmt.Sprintf("KeyCaseMode(%d)", int(m))
	}
}

// ParseKeyCaseMode parses the String form of a KeyCaseMode.
func ParseKeyCaseMode(s string) (KeyCaseMode, error) {
	for _, m := range []KeyCaseMode{CamelToSnake, SnakeToCamel, SnakeToLowerCamel} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown key case %q", s)
}

// Convert applies the conversion to k.
func (m KeyCaseMode) Convert(k string) string {
	switch m {
	case CamelToSnake:
		return camelToSnake(k)
	case SnakeToCamel:
		return snakeToCamel(k, true)
	case SnakeToLowerCamel:
		return snakeToCamel(k, false)
	default:
		return k
	}
}

type keyCase struct {
	stream.Forward
	mode KeyCaseMode
}

// NewKeyCase forwards Key calls with the key converted by mode.
func NewKeyCase(next stream.Consumer, mode KeyCaseMode) stream.Consumer {
	return &keyCase{Forward: stream.Forward{Next: next}, mode: mode}
}

func (f *keyCase) Key(k string) error {
	return f.Next.Key(f.mode.Convert(k))
}

func KeyCase(mode KeyCaseMode) stream.Filter {
	return func(next stream.Consumer) stream.Consumer {
		return NewKeyCase(next, mode)
	}
}

// isDelim reports whether r separates words in snake, kebab or spaced keys.
func isDelim(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// camelToSnake starts a new word at an upper case letter which follows a
// lower case letter or digit, or which ends a run of upper case letters
// followed by a lower case one. Hyphens and spaces become underscores.
func camelToSnake(s string) string {
	rs := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	for i, r := range rs {
		if isDelim(r) {
			sb.WriteByte('_')
			continue
		}
		if unicode.IsUpper(r) {
			if i > 0 && !isDelim(rs[i-1]) {
				prev := rs[i-1]
				nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					sb.WriteByte('_')
				}
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// snakeToCamel removes each underscore, hyphen or space which precedes a
// letter and upper cases that letter.
func snakeToCamel(s string, upperFirst bool) string {
	var sb strings.Builder
	sb.Grow(len(s))
	upper := upperFirst
	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		i += n
		if isDelim(r) && i < len(s) {
			next, _ := utf8.DecodeRuneInString(s[i:])
			if unicode.IsLetter(next) && sb.Len() > 0 {
				upper = true
				continue
			}
		}
		if upper && unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
		}
		upper = false
		sb.WriteRune(r)
	}
	return sb.String()
}
