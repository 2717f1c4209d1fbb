package filter

import (
	"fmt"
	"regexp"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/evjson/stream"
)

// KeyPredicate checks an object key. A non-nil error is the reason for
// rejection.
type KeyPredicate func(k string) error

// MatchKeys accepts keys matching re.
func MatchKeys(re *regexp.Regexp) KeyPredicate {
	return func(k string) error {
		if re.MatchString(k) {
			return nil
		}
		return fmt.Errorf("does not match %s", re)
	}
}

// ExprKeys compiles src, a boolean expr-lang expression over the variable
// key, into a KeyPredicate. For example
//
//	key matches "^[a-z_]+$" && len(key) <= 32
func ExprKeys(src string) (KeyPredicate, error) {
	prg, err := expr.Compile(src, expr.Env(keyEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("key expression: %w", err)
	}
	return func(k string) error {
		return runKeyExpr(prg, src, k)
	}, nil
}

type keyEnv struct {
	Key string `expr:"key"`
}

func runKeyExpr(prg *vm.Program, src, k string) error {
	res, err := expr.Run(prg, keyEnv{Key: k})
	if err != nil {
		return err
	}
	if ok, _ := res.(bool); !ok {
		return fmt.Errorf("fails %s", src)
	}
	return nil
}

type keyCheck struct {
	stream.Forward
	pred KeyPredicate
}

// NewKeyCheck forwards Key calls accepted by pred, and fails others with
// *stream.InvalidKeyError.
func NewKeyCheck(next stream.Consumer, pred KeyPredicate) stream.Consumer {
	return &keyCheck{Forward: stream.Forward{Next: next}, pred: pred}
}

func (f *keyCheck) Key(k string) error {
	if err := f.pred(k); err != nil {
		return &stream.InvalidKeyError{Key: k, Reason: err.Error()}
	}
	return f.Next.Key(k)
}

func KeyCheck(pred KeyPredicate) stream.Filter {
	return func(next stream.Consumer) stream.Consumer {
		return NewKeyCheck(next, pred)
	}
}
