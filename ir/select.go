package ir

import (
	"fmt"

	"github.com/theory/jsonpath"
)

// Select evaluates the JSONPath (RFC 9535) query expr against n and returns
// copies of the selected nodes. Objects in the results have sorted keys.
func Select(n *Node, expr string) ([]*Node, error) {
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %s: %w", expr, err)
	}
	results := path.Select(ToAny(n))
	res := make([]*Node, 0, len(results))
	for _, r := range results {
		rn, err := FromAny(r)
		if err != nil {
			return nil, err
		}
		res = append(res, rn)
	}
	return res, nil
}
