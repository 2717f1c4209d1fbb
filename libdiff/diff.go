package libdiff

import (
	"sort"
	"strconv"
	"strings"

	"github.com/signadot/evjson/ir"
)

type Op int

const (
	Add Op = iota
	Remove
	Replace
)

func (o Op) String() string {
	switch o {
	case Add:
		return "add"
	case Remove:
		return "remove"
	case Replace:
		return "replace"
	default:
		return "<unknown op>"
	}
}

// PathElem is an object key or, when Index is not negative, an array index.
type PathElem struct {
	Key   string
	Index int
}

func KeyElem(k string) PathElem { return PathElem{Key: k, Index: -1} }
func IndexElem(i int) PathElem  { return PathElem{Index: i} }

type Path []PathElem

func (p Path) append(e PathElem) Path {
	res := make(Path, len(p)+1)
	copy(res, p)
	res[len(p)] = e
	return res
}

// String renders p as a normalized JSONPath expression.
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, e := range p {
		if e.Index >= 0 {
			b.WriteString("[" + strconv.Itoa(e.Index) + "]")
			continue
		}
		if isIdent(e.Key) {
			b.WriteString("." + e.Key)
			continue
		}
		b.WriteString("['" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(e.Key) + "']")
	}
	return b.String()
}

// Pointer renders p as a JSON Pointer (RFC 6901).
func (p Path) Pointer() string {
	var b strings.Builder
	for _, e := range p {
		b.WriteByte('/')
		if e.Index >= 0 {
			b.WriteString(strconv.Itoa(e.Index))
			continue
		}
		b.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(e.Key))
	}
	return b.String()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Change is one edit turning a part of the old value into the new one.
// From is nil for Add and To is nil for Remove.
type Change struct {
	Op   Op
	Path Path
	From *ir.Node
	To   *ir.Node
}

// Diff returns the changes turning from into to, or nil when they are
// equal. Changes apply in order: an array index refers to the array as
// left by the changes before it.
func Diff(from, to *ir.Node) []Change {
	return diff(nil, from, to, nil)
}

func diff(path Path, from, to *ir.Node, res []Change) []Change {
	if from.Type != to.Type {
		return append(res, Change{Op: Replace, Path: path, From: from, To: to})
	}
	switch from.Type {
	case ir.ObjectType:
		return diffObject(path, from, to, res)
	case ir.ArrayType:
		return diffArrayByIndex(path, from, to, res)
	}
	if !ir.Equal(from, to) {
		res = append(res, Change{Op: Replace, Path: path, From: from, To: to})
	}
	return res
}

func diffObject(path Path, from, to *ir.Node, res []Change) []Change {
	for i, k := range from.Fields {
		j := to.Index(k)
		if j < 0 {
			res = append(res, Change{Op: Remove, Path: path.append(KeyElem(k)), From: from.Values[i]})
			continue
		}
		res = diff(path.append(KeyElem(k)), from.Values[i], to.Values[j], res)
	}
	var added []int
	for j, k := range to.Fields {
		if from.Index(k) < 0 {
			added = append(added, j)
		}
	}
	sort.SliceStable(added, func(a, b int) bool {
		return to.Fields[added[a]] < to.Fields[added[b]]
	})
	for _, j := range added {
		res = append(res, Change{Op: Add, Path: path.append(KeyElem(to.Fields[j])), To: to.Values[j]})
	}
	return res
}

// Reverse returns the changes undoing changes.
func Reverse(changes []Change) []Change {
	res := make([]Change, len(changes))
	for i, c := range changes {
		r := Change{Path: c.Path, From: c.To, To: c.From}
		switch c.Op {
		case Add:
			r.Op = Remove
		case Remove:
			r.Op = Add
		default:
			r.Op = Replace
		}
		res[len(changes)-1-i] = r
	}
	return res
}

// Patch returns changes as a JSON Patch (RFC 6902) document.
func Patch(changes []Change) *ir.Node {
	ops := make([]*ir.Node, 0, len(changes))
	for _, c := range changes {
		kvs := []ir.KeyVal{
			{Key: "op", Val: ir.FromString(c.Op.String())},
			{Key: "path", Val: ir.FromString(c.Path.Pointer())},
		}
		if c.Op != Remove {
			kvs = append(kvs, ir.KeyVal{Key: "value", Val: c.To.Clone()})
		}
		ops = append(ops, ir.FromKeyVals(kvs))
	}
	return ir.FromSlice(ops)
}
