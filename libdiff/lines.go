package libdiff

import (
	"fmt"
	"strings"

	"github.com/signadot/evjson/filter"
	"github.com/signadot/evjson/ir"
	"github.com/signadot/evjson/jsonev"
	"github.com/signadot/evjson/pipe"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Render returns node as indented JSON text. Binary values are rendered as
// base64 strings and non-finite numbers as strings.
func Render(node *ir.Node) (string, error) {
	sw := jsonev.NewStringWriter(jsonev.WithIndent("  "))
	dst := pipe.Chain(sw,
		filter.BinaryToText(filter.Base64),
		filter.NonFinite(filter.NonFiniteToString))
	if err := ir.Emit(node, dst); err != nil {
		return "", err
	}
	return sw.Result()
}

// Lines returns a line diff of the JSON renderings of from and to. Each
// line of the result starts with "- ", "+ " or two spaces. The result is
// empty when the renderings are equal.
func Lines(from, to *ir.Node) (string, error) {
	a, err := Render(from)
	if err != nil {
		return "", fmt.Errorf("render old value: %w", err)
	}
	b, err := Render(to)
	if err != nil {
		return "", fmt.Errorf("render new value: %w", err)
	}
	if a == b {
		return "", nil
	}
	dmp := diffpatch.New()
	ra, rb, lines := dmp.DiffLinesToRunes(a+"\n", b+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(ra, rb, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+ "
		case diffpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
		}
	}
	return out.String(), nil
}
