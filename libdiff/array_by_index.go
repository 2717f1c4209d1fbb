package libdiff

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/evjson/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// we summarize each element as a rune and
//
//  1. give scalars the summary <type>-<value>, containers just <type>
//  2. diff the sequence of summaries
//  3. for every matching pair, recurse; containers of the same type
//     match and are compared member-wise
//  4. a delete directly followed by an insert becomes a replace
func diffArrayByIndex(path Path, from, to *ir.Node, res []Change) []Change {
	m := map[string]rune{}
	fromRunes := mapValues(m, from)
	toRunes := mapValues(m, to)
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)

	// ci is the index in the array as modified so far
	fi, ti, ci := 0, 0, 0
	lastDelete := -1
	for i := range diffs {
		d := &diffs[i]
		n := len([]rune(d.Text))
		switch d.Type {
		case diffpatch.DiffDelete:
			for range n {
				res = append(res, Change{Op: Remove, Path: path.append(IndexElem(ci)), From: from.Values[fi]})
				lastDelete = len(res) - 1
				fi++
			}
		case diffpatch.DiffEqual:
			lastDelete = -1
			for range n {
				res = diff(path.append(IndexElem(ci)), from.Values[fi], to.Values[ti], res)
				ci++
				fi++
				ti++
			}
		case diffpatch.DiffInsert:
			for range n {
				if lastDelete >= 0 && lastDelete == len(res)-1 {
					res[lastDelete].Op = Replace
					res[lastDelete].To = to.Values[ti]
				} else {
					res = append(res, Change{Op: Add, Path: path.append(IndexElem(ci)), To: to.Values[ti]})
				}
				lastDelete = -1
				ci++
				ti++
			}
		}
	}
	return res
}

func mapValues(m map[string]rune, node *ir.Node) []rune {
	rs := make([]rune, len(node.Values))
	for i, v := range node.Values {
		sum := summaryStr(v)
		r, ok := m[sum]
		if !ok {
			r = rune(len(m))
			m[sum] = r
		}
		rs[i] = r
	}
	return rs
}

func summaryStr(node *ir.Node) string {
	switch node.Type {
	case ir.ObjectType, ir.ArrayType, ir.NullType:
		return node.Type.String()
	case ir.BoolType:
		return node.Type.String() + "-" + strconv.FormatBool(node.Bool)
	case ir.StringType:
		if strings.Contains(node.String, "\n") {
			return node.Type.String() + "/m"
		}
		return node.Type.String() + "-" + node.String
	case ir.BinaryType:
		return node.Type.String() + "-" + hex.EncodeToString(node.Bytes)
	case ir.NumberType:
		switch {
		case node.Int64 != nil:
			return node.Type.String() + "-i-" + strconv.FormatInt(*node.Int64, 10)
		case node.Uint64 != nil:
			return node.Type.String() + "-u-" + strconv.FormatUint(*node.Uint64, 10)
		case node.Float64 != nil:
			f := *node.Float64
			if math.IsNaN(f) {
				return node.Type.String() + "-f-NaN"
			}
			return node.Type.String() + "-f-" + strconv.FormatFloat(f, 'g', -1, 64)
		}
	}
	return node.Type.String()
}
