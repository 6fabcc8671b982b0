package queryfile

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml/ast"
)

// Params are query parameters. YAML scalars of any type are accepted and kept in
// their textual form, so `limit: 25` and `limit: "25"` are the same.
type Params map[string]string

// UnmarshalYAML accepts a mapping of scalars.
func (p *Params) UnmarshalYAML(node ast.Node) error {
	if _, ok := node.(*ast.NullNode); ok {
		*p = nil
		return nil
	}

	mapping, ok := node.(*ast.MappingNode)
	if !ok {
		return fmt.Errorf("%w: query must be a mapping", ErrParse)
	}

	out := make(Params, len(mapping.Values))
	for _, pair := range mapping.Values {
		keyNode, ok := pair.Key.(*ast.StringNode)
		if !ok {
			return fmt.Errorf("%w: query parameter name must be string", ErrParse)
		}

		value, err := nodeToString(pair.Value)
		if err != nil {
			return fmt.Errorf("%w: invalid value for query parameter %q: %v", ErrParse, keyNode.Value, err)
		}
		out[keyNode.Value] = value
	}

	*p = out
	return nil
}

func nodeToString(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.NullNode:
		return "", nil
	case *ast.StringNode:
		return n.Value, nil
	case *ast.IntegerNode:
		switch v := n.Value.(type) {
		case int64:
			return strconv.FormatInt(v, 10), nil
		case uint64:
			return strconv.FormatUint(v, 10), nil
		}
		return "", fmt.Errorf("unexpected integer value type %T", n.Value)
	case *ast.FloatNode:
		return strconv.FormatFloat(n.Value, 'f', -1, 64), nil
	case *ast.BoolNode:
		return strconv.FormatBool(n.Value), nil
	default:
		return "", fmt.Errorf("value must be scalar, got %T", node)
	}
}
