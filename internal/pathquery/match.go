package pathquery

import (
	"maps"
	"slices"
)

// visitFunc observes every (container, child) pair kept by the walk.
type visitFunc func(parent, child any)

// walk advances the working set one segment at a time and returns the final set.
func walk(roots []any, p Path, visit visitFunc) []any {
	pools := roots
	for _, seg := range p.segs {
		next := make([]any, 0, len(pools))
		for _, pool := range pools {
			if seg.wildcard {
				next = expand(pool, next, visit)
				continue
			}
			child, ok := lookup(pool, seg)
			if !ok {
				continue
			}
			next = append(next, child)
			if visit != nil {
				visit(pool, child)
			}
		}
		pools = next
	}
	return pools
}

// lookup selects a literal segment from pool. Falsy children count as absent.
func lookup(pool any, seg segment) (any, bool) {
	var (
		child any
		ok    bool
	)

	switch p := pool.(type) {
	case map[string]any:
		child, ok = p[seg.name]
	case []any:
		if seg.index >= 0 && seg.index < len(p) {
			child, ok = p[seg.index], true
		}
	}

	if !ok || !Truthy(child) {
		return nil, false
	}
	return child, true
}

// expand appends every child of pool to next. Scalars have no children.
func expand(pool any, next []any, visit visitFunc) []any {
	switch p := pool.(type) {
	case []any:
		for _, child := range p {
			next = append(next, child)
			if visit != nil {
				visit(pool, child)
			}
		}
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(p)) {
			child := p[key]
			next = append(next, child)
			if visit != nil {
				visit(pool, child)
			}
		}
	}
	return next
}

// MatchForward returns every value reached by following p from roots, in traversal order.
func MatchForward(roots []any, p Path) []any {
	return walk(roots, p, nil)
}

// MatchReverse returns every container that produced a child equal to target while
// following p from roots. A container appears once per matching child. A nil eq
// means StrictEqual.
func MatchReverse(roots []any, p Path, target any, eq EqualFunc) []any {
	if eq == nil {
		eq = StrictEqual
	}

	containers := []any{}
	walk(roots, p, func(parent, child any) {
		if eq(child, target) {
			containers = append(containers, parent)
		}
	})
	return containers
}

// First returns the first value reached by p from root.
func First(root any, p Path) (any, bool) {
	matches := MatchForward([]any{root}, p)
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}
