// Package reload decides whether a paginated resource has another page and computes
// the query parameters for it.
package reload

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/jacoelho/gunner/internal/pathquery"
	"github.com/theory/jsonpath"
)

// ErrInvalidReloader indicates a reloader with an empty name or an unparsable path.
var ErrInvalidReloader = errors.New("invalid reloader")

// Decision is the outcome of resolving reloaders against one page.
type Decision struct {
	Continue bool
	Params   map[string]string
}

type selectFunc func(page any) (any, bool)

type reloader struct {
	name  string
	first selectFunc
}

// Resolver resolves a fixed set of reloaders. It holds no per-run state and is safe
// for concurrent use.
type Resolver struct {
	reloaders []reloader
}

// New compiles reloaders, a mapping from query parameter name to path. Paths starting
// with '$' are RFC 9535 JSONPath expressions, anything else is a dotted path.
func New(reloaders map[string]string) (*Resolver, error) {
	r := &Resolver{reloaders: make([]reloader, 0, len(reloaders))}

	for _, name := range slices.Sorted(maps.Keys(reloaders)) {
		expr := reloaders[name]
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: empty parameter name for path %q", ErrInvalidReloader, expr)
		}

		first, err := compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidReloader, name, err)
		}
		r.reloaders = append(r.reloaders, reloader{name: name, first: first})
	}

	return r, nil
}

func compile(expr string) (selectFunc, error) {
	if strings.HasPrefix(expr, "$") {
		path, err := jsonpath.Parse(expr)
		if err != nil {
			return nil, err
		}
		return func(page any) (any, bool) {
			nodes := path.Select(page)
			if len(nodes) == 0 {
				return nil, false
			}
			return nodes[0], true
		}, nil
	}

	path, err := pathquery.Parse(expr)
	if err != nil {
		return nil, err
	}
	return func(page any) (any, bool) {
		return pathquery.First(page, path)
	}, nil
}

// Len returns the number of reloaders.
func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.reloaders)
}

// Resolve takes the first match of every reloader in page. Continue is set when remote
// is true and at least one resolved value is truthy. Params carries every reloader,
// falsy and absent values included.
func (r *Resolver) Resolve(page any, remote bool) Decision {
	d := Decision{Params: make(map[string]string, r.Len())}
	if r == nil {
		return d
	}

	found := false
	for _, rl := range r.reloaders {
		value, _ := rl.first(page)
		d.Params[rl.name] = Format(value)
		found = found || pathquery.Truthy(value)
	}

	d.Continue = found && remote
	return d
}

// Format renders a resolved value as a query parameter value.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
