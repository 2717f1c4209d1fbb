package yamlev

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
	"github.com/signadot/evjson/stream"
)

// MaxAliasExpansions bounds how many alias references a document may
// expand, so a small document cannot unfold into an enormous stream.
const MaxAliasExpansions = 1 << 14

// Parser produces events from one YAML document. Mappings and sequences are
// reported sized. Aliases are expanded in place and merge keys (<<) are
// resolved, explicit keys taking precedence over merged ones. Scalars tagged
// !!binary are reported as Binary, !!str forces a String.
//
// A stream with no document, or an empty document, produces Null. A stream
// with more than one document is an error.
type Parser struct {
	data    []byte
	anchors map[string]ast.Node
	aliases int
}

func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse drives c with the events for the YAML document data.
func Parse(data []byte, c stream.Consumer) error {
	return NewParser(data).Produce(c)
}

// Produce drives c with the events for the document. Malformed input fails
// with *stream.ParseError.
func (p *Parser) Produce(c stream.Consumer) error {
	f, err := parser.ParseBytes(p.data, 0)
	if err != nil {
		return p.syntaxError(err)
	}
	var body ast.Node
	for _, doc := range f.Docs {
		b := docBody(doc)
		if b == nil {
			continue
		}
		if body != nil {
			return nodeError(b, "more than one document")
		}
		body = b
	}
	p.anchors = map[string]ast.Node{}
	p.aliases = 0
	if body == nil {
		return c.Null()
	}
	return p.walk(body, c)
}

func docBody(doc *ast.DocumentNode) ast.Node {
	if doc == nil || doc.Body == nil {
		return nil
	}
	if _, ok := doc.Body.(*ast.CommentGroupNode); ok {
		return nil
	}
	return doc.Body
}

func (p *Parser) walk(n ast.Node, c stream.Consumer) error {
	switch n := n.(type) {
	case nil, *ast.NullNode:
		return c.Null()
	case *ast.BoolNode:
		return c.Bool(n.Value)
	case *ast.IntegerNode:
		return integer(n, c)
	case *ast.FloatNode:
		return c.Float(n.Value)
	case *ast.InfinityNode:
		return c.Float(n.Value)
	case *ast.NanNode:
		return c.Float(math.NaN())
	case *ast.StringNode:
		return c.String(n.Value)
	case *ast.LiteralNode:
		if n.Value == nil {
			return c.String("")
		}
		return c.String(n.Value.Value)
	case *ast.TagNode:
		return p.tagged(n, c)
	case *ast.AnchorNode:
		if err := p.walk(n.Value, c); err != nil {
			return err
		}
		p.anchors[nameOf(n.Name)] = n.Value
		return nil
	case *ast.AliasNode:
		target, err := p.alias(n)
		if err != nil {
			return err
		}
		return p.walk(target, c)
	case *ast.SequenceNode:
		return p.sequence(n, c)
	case *ast.MappingNode:
		return p.mapping(n, n.Values, c)
	case *ast.MappingValueNode:
		return p.mapping(n, []*ast.MappingValueNode{n}, c)
	default:
		return nodeError(n, fmt.Sprintf("unsupported node %s", n.Type()))
	}
}

func integer(n *ast.IntegerNode, c stream.Consumer) error {
	switch v := n.Value.(type) {
	case int64:
		if v < 0 {
			return c.Int(v)
		}
		return c.Uint(uint64(v))
	case uint64:
		return c.Uint(v)
	case int:
		if v < 0 {
			return c.Int(int64(v))
		}
		return c.Uint(uint64(v))
	case uint:
		return c.Uint(uint64(v))
	default:
		return nodeError(n, fmt.Sprintf("integer value of type %T", v))
	}
}

func (p *Parser) tagged(n *ast.TagNode, c stream.Consumer) error {
	switch tagOf(n) {
	case "!!binary", "tag:yaml.org,2002:binary":
		text, ok := scalarText(n.Value)
		if !ok {
			return nodeError(n, "!!binary on a non-scalar")
		}
		text = strings.Join(strings.Fields(text), "")
		b, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nodeError(n, "!!binary: "+err.Error())
		}
		return c.Binary(b)
	case "!!str", "tag:yaml.org,2002:str":
		text, ok := scalarText(n.Value)
		if !ok {
			return nodeError(n, "!!str on a non-scalar")
		}
		return c.String(text)
	}
	return p.walk(n.Value, c)
}

func tagOf(n *ast.TagNode) string {
	if n.Start == nil {
		return ""
	}
	return n.Start.Value
}

func (p *Parser) alias(n *ast.AliasNode) (ast.Node, error) {
	name := nameOf(n.Value)
	target, ok := p.anchors[name]
	if !ok {
		return nil, nodeError(n, fmt.Sprintf("unknown anchor %q", name))
	}
	p.aliases++
	if p.aliases > MaxAliasExpansions {
		return nil, nodeError(n, "too many alias expansions")
	}
	return target, nil
}

func (p *Parser) sequence(n *ast.SequenceNode, c stream.Consumer) error {
	size := len(n.Values)
	if err := c.BeginArray(size); err != nil {
		return err
	}
	for _, v := range n.Values {
		if err := p.walk(v, c); err != nil {
			return err
		}
		if err := c.Element(); err != nil {
			return err
		}
	}
	return c.EndArray(size)
}

type member struct {
	key   string
	value ast.Node
}

func (p *Parser) mapping(at ast.Node, values []*ast.MappingValueNode, c stream.Consumer) error {
	ms, err := p.members(values, 0)
	if err != nil {
		return err
	}
	size := len(ms)
	if err := c.BeginObject(size); err != nil {
		return err
	}
	for _, m := range ms {
		if err := c.Key(m.key); err != nil {
			return err
		}
		if err := p.walk(m.value, c); err != nil {
			return err
		}
		if err := c.Member(); err != nil {
			return err
		}
	}
	return c.EndObject(size)
}

// members lists the entries of a mapping with merge keys resolved.
func (p *Parser) members(values []*ast.MappingValueNode, depth int) ([]member, error) {
	if depth > 64 {
		return nil, errors.New("merge keys nested too deeply")
	}
	var (
		res    []member
		merged []member
	)
	next := 0
	for i, mv := range values {
		if _, ok := mv.Key.(*ast.MergeKeyNode); ok {
			// Anchors in earlier entries precede the merge key in the
			// document, though their values are walked later.
			for ; next < i; next++ {
				p.define(values[next].Value)
			}
			ms, err := p.merge(mv.Value, depth)
			if err != nil {
				return nil, err
			}
			merged = append(merged, ms...)
			continue
		}
		k, err := keyOf(mv.Key)
		if err != nil {
			return nil, err
		}
		res = append(res, member{key: k, value: mv.Value})
	}
	if len(merged) == 0 {
		return res, nil
	}
	seen := make(map[string]bool, len(res)+len(merged))
	for _, m := range res {
		seen[m.key] = true
	}
	for _, m := range merged {
		if seen[m.key] {
			continue
		}
		seen[m.key] = true
		res = append(res, m)
	}
	return res, nil
}

// define records the anchors within n without producing events.
func (p *Parser) define(n ast.Node) {
	switch v := n.(type) {
	case *ast.AnchorNode:
		p.define(v.Value)
		p.anchors[nameOf(v.Name)] = v.Value
	case *ast.TagNode:
		p.define(v.Value)
	case *ast.SequenceNode:
		for _, e := range v.Values {
			p.define(e)
		}
	case *ast.MappingNode:
		for _, mv := range v.Values {
			p.define(mv.Value)
		}
	case *ast.MappingValueNode:
		p.define(v.Value)
	}
}

func (p *Parser) merge(n ast.Node, depth int) ([]member, error) {
	switch v := n.(type) {
	case *ast.AliasNode:
		target, err := p.alias(v)
		if err != nil {
			return nil, err
		}
		return p.merge(target, depth+1)
	case *ast.AnchorNode:
		ms, err := p.merge(v.Value, depth+1)
		if err != nil {
			return nil, err
		}
		p.anchors[nameOf(v.Name)] = v.Value
		return ms, nil
	case *ast.MappingNode:
		return p.members(v.Values, depth+1)
	case *ast.MappingValueNode:
		return p.members([]*ast.MappingValueNode{v}, depth+1)
	case *ast.SequenceNode:
		var res []member
		for _, e := range v.Values {
			ms, err := p.merge(e, depth+1)
			if err != nil {
				return nil, err
			}
			res = append(res, ms...)
		}
		return res, nil
	default:
		return nil, nodeError(n, "merge value is not a mapping")
	}
}

func keyOf(k ast.Node) (string, error) {
	if mk, ok := k.(*ast.MappingKeyNode); ok {
		k = mk.Value
	}
	switch k := k.(type) {
	case *ast.StringNode:
		return k.Value, nil
	case *ast.TagNode:
		if text, ok := scalarText(k.Value); ok {
			return text, nil
		}
	case *ast.NullNode, *ast.BoolNode, *ast.IntegerNode, *ast.FloatNode,
		*ast.InfinityNode, *ast.NanNode:
		if text, ok := scalarText(k); ok {
			return text, nil
		}
	}
	return "", nodeError(k, "mapping key is not a scalar")
}

// scalarText returns the source text of a scalar node.
func scalarText(n ast.Node) (string, bool) {
	switch n := n.(type) {
	case *ast.StringNode:
		return n.Value, true
	case *ast.LiteralNode:
		if n.Value == nil {
			return "", true
		}
		return n.Value.Value, true
	case *ast.NullNode, *ast.BoolNode, *ast.IntegerNode, *ast.FloatNode,
		*ast.InfinityNode, *ast.NanNode:
		tok := n.GetToken()
		if tok == nil {
			return "", false
		}
		return tok.Value, true
	}
	return "", false
}

func nameOf(n ast.Node) string {
	if n == nil {
		return ""
	}
	if tok := n.GetToken(); tok != nil {
		return tok.Value
	}
	return n.String()
}

func nodeError(n ast.Node, msg string) error {
	pe := &stream.ParseError{Msg: msg}
	if n != nil {
		setPos(pe, n.GetToken())
	}
	return pe
}

func setPos(pe *stream.ParseError, tok *token.Token) {
	if tok == nil || tok.Position == nil {
		return
	}
	pe.Line = tok.Position.Line
	pe.Column = tok.Position.Column
	pe.Offset = int64(tok.Position.Offset)
}

func (p *Parser) syntaxError(err error) error {
	pe := &stream.ParseError{Err: err}
	var yerr yaml.Error
	if errors.As(err, &yerr) {
		pe.Msg = yerr.GetMessage()
		pe.Err = nil
		setPos(pe, yerr.GetToken())
	}
	return pe
}
